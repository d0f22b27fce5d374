package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/twmb/franz-go/pkg/kgo"

	"tempo/internal/attendance/events"
	"tempo/internal/attendance/events/publishers/kafkapub"
	"tempo/internal/attendance/events/publishers/logpub"
	"tempo/internal/attendance/events/publishers/redispub"
	attendancehandler "tempo/internal/attendance/handler"
	attendancemetrics "tempo/internal/attendance/metrics"
	"tempo/internal/attendance/service"
	attendancestore "tempo/internal/attendance/store"
	"tempo/internal/platform/config"
	"tempo/internal/platform/httpserver"
	"tempo/internal/platform/kafka"
	"tempo/internal/platform/logger"
	"tempo/internal/platform/metrics"
	"tempo/internal/platform/postgres"
	"tempo/internal/platform/redis"
	"tempo/internal/reconcile"
	reconcilehandler "tempo/internal/reconcile/handler"
	reconcilemetrics "tempo/internal/reconcile/metrics"
	"tempo/internal/reconcile/report"
	schedulehandler "tempo/internal/schedule/handler"
	"tempo/internal/schedule/resolver"
	schedulestore "tempo/internal/schedule/store"
	httptransport "tempo/internal/transport/http"
	"tempo/pkg/platform/audit"
	"tempo/pkg/platform/audit/publishers/compliance"
	auditmemory "tempo/pkg/platform/audit/store/memory"
	auditpostgres "tempo/pkg/platform/audit/store/postgres"
	"tempo/pkg/platform/circuit"
)

type sessionStore interface {
	service.SessionStore
	report.SessionLister
}

type scheduleStore interface {
	service.ScheduleStore
	report.ScheduleSource
	resolver.ContractFinder
	schedulehandler.ContractStore
}

// infra is what main opens and must close on the way out.
type infra struct {
	db    *sql.DB
	redis *redis.Client
	kafka *kgo.Client
}

func (i infra) close() {
	if i.kafka != nil {
		i.kafka.Close()
	}
	if i.redis != nil {
		_ = i.redis.Close()
	}
	if i.db != nil {
		_ = i.db.Close()
	}
}

func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	deps, err := openInfra(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer deps.close()

	attMetrics := attendancemetrics.New()
	health := map[string]httptransport.HealthCheck{}

	var (
		sessions  sessionStore
		schedules scheduleStore
		ledger    audit.Store
		svcOpts   = []service.Option{service.WithLogger(log), service.WithMetrics(attMetrics)}
	)
	if deps.db != nil {
		sessions = attendancestore.NewPostgres(deps.db)
		schedules = schedulestore.NewPostgres(deps.db)
		ledger = auditpostgres.New(deps.db)
		svcOpts = append(svcOpts, service.WithTxRunner(newPlanningPostgresTx(deps.db)))
		health["postgres"] = deps.db.PingContext
	} else {
		log.Warn("DATABASE_URL not set, keeping sessions in memory")
		sessions = attendancestore.NewInMemory()
		schedules = schedulestore.NewInMemory()
		ledger = auditmemory.NewInMemoryStore()
	}
	svcOpts = append(svcOpts, service.WithAuditor(compliance.New(ledger, compliance.WithLogger(log))))

	directory := resolver.NewDirectory(schedules, log)
	var (
		employees   events.EmployeeResolver = directory
		invalidator schedulehandler.Invalidator
	)
	if deps.redis != nil {
		cached := resolver.NewCached(deps.redis.Client, directory, cfg.Redis.EmployeeTTL, log)
		employees = cached
		invalidator = cached
		health["redis"] = deps.redis.Health
	}
	if deps.kafka != nil {
		health["kafka"] = deps.kafka.Ping
	}

	emitter := events.NewEmitter(buildPublisher(cfg, deps, log, attMetrics), employees,
		events.WithLogger(log),
		events.WithMetrics(attMetrics),
		events.WithLanes(cfg.Emitter.Lanes, cfg.Emitter.BufferPerLane),
		events.WithPublishTimeout(cfg.Emitter.PublishTimeout),
	)

	attendance := service.New(sessions, schedules, emitter, svcOpts...)
	engine := reconcile.NewEngine(
		reconcile.WithLocation(cfg.Reconcile.Location()),
		reconcile.WithWorkers(cfg.Reconcile.Workers),
		reconcile.WithLogger(log),
		reconcile.WithMetrics(reconcilemetrics.New()),
	)
	reports := report.New(sessions, schedules, engine, log)

	router := httptransport.NewRouter(httptransport.Config{
		Logger:  log,
		Metrics: metrics.New(),
		Health:  health,
		Handlers: []httptransport.Registrar{
			attendancehandler.New(attendance, log).WithLedger(ledger),
			reconcilehandler.New(reports, log),
			schedulehandler.New(schedules, invalidator, log),
		},
	})

	srv := httpserver.New(cfg.Server.Addr, router)
	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting tempo", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	// Requests are done; flush what the emitter still holds.
	if err := emitter.Close(shutdownCtx); err != nil {
		log.Warn("lifecycle events left undelivered at shutdown", "error", err)
	}
	log.Info("tempo stopped")
	return nil
}

func openInfra(ctx context.Context, cfg config.Config, log *slog.Logger) (infra, error) {
	var out infra

	if cfg.Database.URL != "" {
		db, err := postgres.Open(ctx, cfg.Database)
		if err != nil {
			return out, err
		}
		out.db = db
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			out.close()
			return infra{}, err
		}
	}

	rdb, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		out.close()
		return infra{}, err
	}
	out.redis = rdb

	kc, err := kafka.NewClient(cfg.Kafka)
	if err != nil {
		out.close()
		return infra{}, err
	}
	if kc != nil {
		out.kafka = kc
		if err := kafka.EnsureTopic(ctx, kc, cfg.Kafka); err != nil {
			// Brokers with auto-create still accept the records.
			log.Warn("could not ensure events topic", "topic", cfg.Kafka.EventsTopic, "error", err)
		}
	}
	return out, nil
}

// buildPublisher fans out to every configured broker. Each broker sits behind
// its own breaker and falls back to the log publisher while open; without any
// broker the log publisher is the only sink.
func buildPublisher(cfg config.Config, in infra, log *slog.Logger, m *attendancemetrics.Metrics) events.Publisher {
	fallback := logpub.New(log)
	var pubs events.Multi
	if in.redis != nil {
		pubs = append(pubs, events.NewGuarded("redis",
			redispub.New(in.redis.Client), fallback, circuit.New("redis-publisher"), log, m))
	}
	if in.kafka != nil {
		pubs = append(pubs, events.NewGuarded("kafka",
			kafkapub.New(in.kafka, cfg.Kafka.EventsTopic), fallback, circuit.New("kafka-publisher"), log, m))
	}
	if len(pubs) == 0 {
		return fallback
	}
	return pubs
}
