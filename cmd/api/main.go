package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/anjiri1684/college_crp/configs"
	"github.com/anjiri1684/college_crp/database"
	"github.com/anjiri1684/college_crp/events"
	"github.com/anjiri1684/college_crp/handlers"
	"github.com/anjiri1684/college_crp/jobs"
	"github.com/anjiri1684/college_crp/notifications"
	"github.com/anjiri1684/college_crp/routes"
	"github.com/anjiri1684/college_crp/services"
	"github.com/anjiri1684/college_crp/store"
	"github.com/anjiri1684/college_crp/store/gormstore"
	"github.com/anjiri1684/college_crp/store/mongostore"
	"github.com/anjiri1684/college_crp/websocket"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

func openStore(ctx context.Context, s config.Settings) (store.Store, error) {
	switch s.StoreDriver {
	case database.DriverMongo:
		mc, err := database.ConnectMongo(ctx, s.MongoURL, s.DBName, s.StoreTimeout)
		if err != nil {
			return nil, err
		}
		st := mongostore.New(mc)
		if err := st.EnsureIndexes(ctx); err != nil {
			st.Close()
			return nil, err
		}
		return st, nil
	default:
		db, err := database.ConnectDB(s.StoreDriver, s.DatabaseURL, s.StoreTimeout)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(db); err != nil {
			database.CloseDB(db)
			return nil, err
		}
		return gormstore.New(db), nil
	}
}

func run() error {
	settings, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, settings)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Printf("⚠️ Error closing store: %v", err)
		}
	}()

	hub := websocket.NewHub()
	publishers := events.Multi{hub}

	if settings.AMQPURL != "" {
		amqpPub, err := events.DialAMQP(settings.AMQPURL, settings.AMQPExchange)
		if err != nil {
			return err
		}
		defer amqpPub.Close()
		publishers = append(publishers, amqpPub)
	}

	var mailer *notifications.LedgerMailer
	if settings.MailEnabled() {
		brevo := notifications.NewBrevoService(settings.BrevoAPIKey, settings.EmailSender, settings.EmailSenderName)
		mailer = notifications.NewLedgerMailer(brevo, st)
		publishers = append(publishers, mailer)
	}

	var archiver services.Archiver
	if settings.CloudinaryURL != "" {
		cld, err := services.NewCloudinaryArchiver(settings.CloudinaryURL, "receipts")
		if err != nil {
			return err
		}
		archiver = cld
	}
	receipts := services.NewReceiptService(st, services.ChromeRenderer{Timeout: 30 * time.Second}, archiver)

	h := handlers.New(st, publishers, hub, receipts)
	app := routes.NewApp(h, settings.AllowOrigins())

	scheduler, err := jobs.NewScheduler(ctx, h.Maintenance, settings.OverdueSweepSchedule, settings.ReconcileSchedule)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})
	g.Go(func() error {
		scheduler.Start()
		<-gctx.Done()
		<-scheduler.Stop().Done()
		return nil
	})
	g.Go(func() error {
		log.Printf("✅ Server is running on port %s", settings.Port)
		return app.Listen(":" + settings.Port)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Println("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	})

	err = g.Wait()
	if mailer != nil {
		mailer.Wait()
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("🔥 %v", err)
	}
	log.Println("✅ Server stopped")
}
