package handlers

import (
	"context"
	"log"
	"time"

	"github.com/anjiri1684/college_crp/websocket"
	websocketcontrib "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

func (h *Handler) RunOverdueSweep(c *fiber.Ctx) error {
	changed, err := h.Maintenance.SweepOverdue(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"updated": len(changed), "records": changed})
}

func (h *Handler) RunReconciliation(c *fiber.Ctx) error {
	fixed, err := h.Maintenance.Reconcile(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"repaired": len(fixed), "records": fixed})
}

// LedgerFeed streams ledger events to the client until it disconnects.
func (h *Handler) LedgerFeed(c *websocketcontrib.Conn) {
	client := websocket.NewClient(c)
	h.Hub.Register(client)
	defer func() {
		h.Hub.Unregister(client)
		c.Close()
	}()

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			if websocketcontrib.IsUnexpectedCloseError(err, websocketcontrib.CloseGoingAway, websocketcontrib.CloseNormalClosure) {
				log.Printf("Ledger feed client %s dropped: %v", client.ID, err)
			}
			return
		}
	}
}

// Root reports liveness together with store reachability.
func (h *Handler) Root(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()
	if err := h.Store.Ping(ctx); err != nil {
		log.Printf("🔥 Store ping failed: %v", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "db": "unreachable"})
	}
	return c.JSON(fiber.Map{"status": "ok", "db": "connected"})
}
