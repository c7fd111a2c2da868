package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"irdesk/internal/notify"
	"irdesk/internal/platform/config"
	"irdesk/internal/platform/httpserver"
	"irdesk/internal/platform/logger"
	"irdesk/internal/platform/postgres"
	platformredis "irdesk/internal/platform/redis"
	"irdesk/internal/request/cache"
	requesthandler "irdesk/internal/request/handler"
	requestmetrics "irdesk/internal/request/metrics"
	"irdesk/internal/request/service"
	attachmentstore "irdesk/internal/request/store/attachment"
	commentstore "irdesk/internal/request/store/comment"
	eventstore "irdesk/internal/request/store/event"
	requeststore "irdesk/internal/request/store/request"
	httptransport "irdesk/internal/transport/http"
	"irdesk/pkg/platform/audit"
	"irdesk/pkg/platform/audit/publisher"
	auditpostgres "irdesk/pkg/platform/audit/store/postgres"
	auditworker "irdesk/pkg/platform/audit/worker"
	"irdesk/pkg/platform/middleware/auth"
	"irdesk/pkg/platform/tx"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("postgres connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db); err != nil {
		log.Error("schema migration failed", "error", err)
		os.Exit(1)
	}

	metrics := requestmetrics.New()

	// Audit trail: synchronous best-effort store write, async Kafka fan-out.
	recorderOpts := []audit.RecorderOption{audit.WithDropHook(metrics.CountAuditDropped)}
	if len(cfg.KafkaBrokers) > 0 {
		kafka, err := publisher.NewKafka(cfg.KafkaBrokers, cfg.AuditTopic, log)
		if err != nil {
			log.Error("kafka connection failed", "error", err)
			os.Exit(1)
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = kafka.Close(closeCtx)
		}()

		sink := make(chan audit.Entry, 256)
		go func() {
			_ = auditworker.New(kafka, sink, log).Run(ctx)
		}()
		recorderOpts = append(recorderOpts, audit.WithSink(sink))
	}
	recorder := audit.NewRecorder(auditpostgres.New(db), log, recorderOpts...)

	notificationStore := notify.NewPostgres(db)
	notifier := notify.NewDispatcher(
		notificationStore,
		notify.LogDeliverer{Logger: log},
		log,
	)

	serviceOpts := []service.Option{
		service.WithLogger(log),
		service.WithMetrics(metrics),
		service.WithNotifier(notifier),
		service.WithAuditRecorder(recorder),
	}

	redisClient, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		serviceOpts = append(serviceOpts,
			service.WithTimelineCache(cache.NewTimeline(redisClient.Client, cfg.TimelineTTL, log)))
	}

	workflow, err := service.New(service.Stores{
		Requests:      requeststore.NewPostgres(db),
		Events:        eventstore.NewPostgres(db),
		Comments:      commentstore.NewPostgres(db),
		Notifications: notificationStore,
		Attachments:   attachmentstore.NewPostgres(db),
	}, &tx.SQLRunner{DB: db}, serviceOpts...)
	if err != nil {
		log.Error("service wiring failed", "error", err)
		os.Exit(1)
	}

	router := httptransport.NewRouter(
		requesthandler.New(workflow, log),
		auth.NewVerifier(cfg.JWTSigningKey),
		log,
	)
	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("starting irdesk", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}
