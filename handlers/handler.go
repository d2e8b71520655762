package handlers

import (
	"reflect"
	"strings"
	"time"

	"github.com/anjiri1684/college_crp/events"
	"github.com/anjiri1684/college_crp/services"
	"github.com/anjiri1684/college_crp/store"
	"github.com/anjiri1684/college_crp/utils"
	"github.com/anjiri1684/college_crp/websocket"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type Handler struct {
	Store       store.Store
	Students    *services.StudentService
	Fees        *services.FeeService
	Ledger      *services.LedgerService
	Expenses    *services.ExpenseService
	Dashboard   *services.DashboardService
	Maintenance *services.MaintenanceService
	Reports     *services.ReportService
	Receipts    *services.ReceiptService
	Hub         *websocket.Hub
}

// New wires every service onto st. pub receives ledger events; hub may be nil
// when the live feed is disabled.
func New(st store.Store, pub events.Publisher, hub *websocket.Hub, receipts *services.ReceiptService) *Handler {
	return &Handler{
		Store:       st,
		Students:    services.NewStudentService(st),
		Fees:        services.NewFeeService(st),
		Ledger:      services.NewLedgerService(st, pub),
		Expenses:    services.NewExpenseService(st),
		Dashboard:   services.NewDashboardService(st),
		Maintenance: services.NewMaintenanceService(st, pub),
		Reports:     services.NewReportService(st),
		Receipts:    receipts,
		Hub:         hub,
	}
}

func bind(c *fiber.Ctx, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Cannot parse JSON")
	}
	return validate.Struct(req)
}

const dateMessage = "must be an RFC 3339 timestamp or YYYY-MM-DD date"

func parseDate(field, raw string) (time.Time, error) {
	t, err := utils.ParseTimestamp(raw)
	if err != nil {
		return time.Time{}, &services.ValidationError{Field: field, Message: dateMessage}
	}
	return t, nil
}

// dateRange reads optional start/end query bounds; a date-only end covers the whole day.
func dateRange(c *fiber.Ctx, startKey, endKey string) (*time.Time, *time.Time, error) {
	from, err := optionalDate(startKey, c.Query(startKey))
	if err != nil {
		return nil, nil, err
	}
	raw := c.Query(endKey)
	to, err := optionalDate(endKey, raw)
	if err != nil {
		return nil, nil, err
	}
	if to != nil {
		end := utils.EndOfDay(raw, *to)
		to = &end
	}
	return from, to, nil
}

func optionalDate(field, raw string) (*time.Time, error) {
	t, err := utils.ParseOptionalTimestamp(raw)
	if err != nil {
		return nil, &services.ValidationError{Field: field, Message: dateMessage}
	}
	return t, nil
}
