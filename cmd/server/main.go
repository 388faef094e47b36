package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"

	"safeplate/internal/compliance"
	"safeplate/internal/compliance/llm"
	"safeplate/internal/connector"
	"safeplate/internal/ontology"
	ontologyregistry "safeplate/internal/ontology/registry"
	ontologystore "safeplate/internal/ontology/store"
	"safeplate/internal/platform/config"
	"safeplate/internal/platform/httpserver"
	"safeplate/internal/platform/logger"
	platformredis "safeplate/internal/platform/redis"
	"safeplate/internal/restriction"
	httptransport "safeplate/internal/transport/http"
	"safeplate/pkg/platform/audit"
	auditkafka "safeplate/pkg/platform/audit/kafka"
	auditmemory "safeplate/pkg/platform/audit/store/memory"
	auditpostgres "safeplate/pkg/platform/audit/store/postgres"
	auditworker "safeplate/pkg/platform/audit/worker"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	version, seed, err := ontology.LoadSeed()
	if err != nil {
		log.Error("load ontology seed", "error", err)
		os.Exit(1)
	}

	restrictions, err := restriction.Load()
	if err != nil {
		log.Error("load restrictions", "error", err)
		os.Exit(1)
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.New(ctx, cfg.Postgres.URL)
		if err != nil {
			log.Error("connect postgres", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("connect redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Dynamic store preference: Redis when configured, then Postgres, then
	// process-local memory.
	var dynamic ontologystore.DynamicStore
	switch {
	case redisClient != nil:
		dynamic = ontologystore.NewRedis(redisClient.Client, ontologystore.WithRedisTTL(cfg.Redis.EntryTTL))
	case pool != nil:
		dynamic = ontologystore.NewPostgres(pool)
	default:
		dynamic = ontologystore.NewInMemory(0)
	}

	guard := connector.GuardConfig{
		Timeout:          cfg.Connectors.Timeout,
		Retry:            connector.RetryPolicy{MaxAttempts: cfg.Connectors.RetryAttempts, InitialBackoff: cfg.Connectors.InitialBackoff, MaxBackoff: 8 * cfg.Connectors.InitialBackoff},
		RateLimit:        cfg.Connectors.RateLimit,
		RateWindow:       connector.DefaultGuardConfig().RateWindow,
		BreakerThreshold: connector.DefaultGuardConfig().BreakerThreshold,
		BreakerCooldown:  connector.DefaultGuardConfig().BreakerCooldown,
	}
	usda := connector.NewGuarded(connector.NewUSDA(cfg.Connectors.USDAAPIKey, connector.WithUSDALogger(log)), guard, connector.WithLogger(log))
	off := connector.NewGuarded(connector.NewOpenFoodFacts(connector.WithOFFLogger(log)), guard, connector.WithLogger(log))

	// Audit sink preference mirrors the store: Kafka when configured, then
	// Postgres, then memory.
	var auditStore audit.Store
	switch {
	case cfg.Audit.KafkaBrokers != "":
		sink, err := auditkafka.New(strings.Split(cfg.Audit.KafkaBrokers, ","), cfg.Audit.KafkaTopic)
		if err != nil {
			log.Error("connect kafka", "error", err)
			os.Exit(1)
		}
		defer sink.Close()
		auditStore = sink
	case pool != nil:
		auditStore = auditpostgres.New(pool)
	default:
		auditStore = auditmemory.NewInMemoryStore()
	}
	auditor := audit.NewPublisher(auditStore,
		audit.WithLogger(log),
		audit.WithAsyncBuffer(cfg.Audit.BufferSize),
	)
	if inbox := auditor.Inbox(); inbox != nil {
		worker := auditworker.NewWorker(auditStore, inbox, log)
		go func() {
			if err := worker.Run(ctx); err != nil && ctx.Err() == nil {
				log.Error("audit worker stopped", "error", err)
			}
		}()
	}

	registry := ontologyregistry.New(version, seed,
		ontologyregistry.WithDynamicStore(dynamic),
		ontologyregistry.WithConnectors(usda, off),
		ontologyregistry.WithLogger(log),
		ontologyregistry.WithAuditPublisher(auditor),
	)

	serviceOpts := []compliance.ServiceOption{
		compliance.WithAuditor(auditor),
		compliance.WithLogger(log),
		compliance.WithMaxParallelResolves(cfg.Engine.MaxParallelResolves),
	}
	if apiKey := os.Getenv("SAFEPLATE_OPENAI_API_KEY"); apiKey != "" {
		serviceOpts = append(serviceOpts, compliance.WithExplainer(llm.New(apiKey)))
	}
	service := compliance.NewService(registry, restrictions, serviceOpts...)

	handler := httptransport.New(service, registry, restrictions, log)
	router := httptransport.NewRouter(handler, log)
	srv := httpserver.New(cfg.Server.Addr, router)

	log.Info("starting safeplate",
		"addr", cfg.Server.Addr,
		"ontology_version", version,
		"ontology_keys", registry.Size(),
		"restrictions", len(restrictions.List()),
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
