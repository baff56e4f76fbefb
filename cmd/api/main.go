package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/smallwonder/storefront-api/api"
	"github.com/smallwonder/storefront-api/api/controllers"
	"github.com/smallwonder/storefront-api/api/routes"
	"github.com/smallwonder/storefront-api/internal/cart"
	"github.com/smallwonder/storefront-api/internal/catalog"
	"github.com/smallwonder/storefront-api/internal/commerce"
	"github.com/smallwonder/storefront-api/internal/content"
	"github.com/smallwonder/storefront-api/internal/emails"
	"github.com/smallwonder/storefront-api/internal/members"
	"github.com/smallwonder/storefront-api/internal/orders"
	"github.com/smallwonder/storefront-api/internal/pricing"
	"github.com/smallwonder/storefront-api/internal/reviews"
	"github.com/smallwonder/storefront-api/internal/tickets"
	"github.com/smallwonder/storefront-api/internal/uploads"
	"github.com/smallwonder/storefront-api/pkg/config"
	"github.com/smallwonder/storefront-api/pkg/db"
	"github.com/smallwonder/storefront-api/pkg/logger"
	"github.com/smallwonder/storefront-api/pkg/metrics"
	"github.com/smallwonder/storefront-api/pkg/migrate"
	"github.com/smallwonder/storefront-api/pkg/redis"
	"github.com/smallwonder/storefront-api/pkg/storage/gcs"
)

const shutdownTimeout = 20 * time.Second

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logg := logger.New(logger.Options{
		ServiceName: "storefront-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx := context.Background()

	dbClient, err := db.New(ctx, cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		log.Fatalf("connecting to database: %v", err)
	}
	defer func() { _ = dbClient.Close() }()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		log.Fatalf("running migrations: %v", err)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		log.Fatalf("connecting to redis: %v", err)
	}
	defer func() { _ = redisClient.Close() }()

	storage, err := gcs.NewClient(ctx, cfg.GCS, cfg.GCP, logg)
	if err != nil {
		log.Fatalf("building storage client: %v", err)
	}

	backend, err := commerce.NewClient(cfg.Commerce)
	if err != nil {
		log.Fatalf("building commerce client: %v", err)
	}

	reviewStore, err := reviews.NewStore(storage, cfg.Reviews)
	if err != nil {
		log.Fatalf("building review store: %v", err)
	}
	reviewSvc, err := reviews.NewService(reviewStore, redisClient, cfg.Reviews, logg)
	if err != nil {
		log.Fatalf("building review service: %v", err)
	}
	var widgetClient *reviews.WidgetClient
	if cfg.ReviewWidget.BaseURL != "" {
		widgetClient, err = reviews.NewWidgetClient(cfg.ReviewWidget, cfg.Reviews)
		if err != nil {
			log.Fatalf("building review widget client: %v", err)
		}
	} else {
		logg.Warn(ctx, "review widget base url not set, widget read path disabled")
	}

	uploadSvc, err := uploads.NewService(storage, cfg.Uploads, cfg.GCS)
	if err != nil {
		log.Fatalf("building upload service: %v", err)
	}

	recovery, err := emails.NewResendSender(cfg.Resend)
	if err != nil {
		log.Fatalf("building resend sender: %v", err)
	}
	support, err := emails.NewSendGridSender(cfg.SendGrid)
	if err != nil {
		log.Fatalf("building sendgrid sender: %v", err)
	}
	emailSvc, err := emails.NewService(recovery, support, cfg.SendGrid, cfg.Resend)
	if err != nil {
		log.Fatalf("building email service: %v", err)
	}

	ticketSvc, err := tickets.NewService(tickets.NewRepository(dbClient.DB()), emailSvc, logg)
	if err != nil {
		log.Fatalf("building ticket service: %v", err)
	}

	catalogSvc, err := catalog.NewService(backend)
	if err != nil {
		log.Fatalf("building catalog service: %v", err)
	}
	cartSvc, err := cart.NewService(backend, pricing.FlatFeeRule(cfg.Shipping))
	if err != nil {
		log.Fatalf("building cart service: %v", err)
	}
	orderSvc, err := orders.NewService(backend)
	if err != nil {
		log.Fatalf("building order service: %v", err)
	}
	memberSvc, err := members.NewService(backend)
	if err != nil {
		log.Fatalf("building member service: %v", err)
	}
	contentSvc, err := content.NewService(cfg.Content)
	if err != nil {
		log.Fatalf("building content service: %v", err)
	}

	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

	handler := routes.New(routes.Dependencies{
		Config:  cfg,
		Logger:  logg,
		Metrics: httpMetrics,
		Redis:   redisClient,
		Pingers: map[string]controllers.Pinger{
			"database": dbClient,
			"redis":    redisClient,
			"storage":  storage,
		},
		Reviews: reviewSvc,
		Widget:  widgetClient,
		Uploads: uploadSvc,
		Emails:  emailSvc,
		Tickets: ticketSvc,
		Catalog: catalogSvc,
		Cart:    cartSvc,
		Orders:  orderSvc,
		Members: memberSvc,
		Content: contentSvc,
	})

	server := api.NewServer(cfg.App, handler, logg)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("http server failed: %v", err)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(shutdownCtx, "graceful shutdown failed", err)
		}
	}
}
