package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ballotguide/internal/ballot/events"
	"ballotguide/internal/ballot/handler"
	"ballotguide/internal/ballot/service"
	"ballotguide/internal/ballot/store/choice"
	"ballotguide/internal/ballot/store/division"
	"ballotguide/internal/ballot/store/schema"
	"ballotguide/internal/ballot/store/supplement"
	"ballotguide/internal/ballot/store/user"
	"ballotguide/internal/civic"
	"ballotguide/internal/platform/config"
	"ballotguide/internal/platform/httpserver"
	"ballotguide/internal/platform/logger"
	"ballotguide/internal/platform/middleware"
	platformredis "ballotguide/internal/platform/redis"
)

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in the internal/ballot packages. Stores degrade to in-memory
// variants when their backing service is not configured, so the binary runs
// standalone in development.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx := context.Background()

	var (
		users       user.Store
		supplements supplement.Store
		divisions   division.Store
	)
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Error("open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := schema.Apply(ctx, db); err != nil {
			log.Error("apply schema", "error", err)
			os.Exit(1)
		}
		users = user.NewPostgres(db)
		supplements = supplement.NewPostgres(db)
		divisions = division.NewPostgres(db)
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
		users = user.NewInMemory()
		supplements = supplement.NewInMemory()
		divisions = division.NewInMemory()
	}

	var choices choice.Store
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("connect redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		choices = choice.NewRedis(redisClient.Client, cfg.ChoicesTTL)
	} else {
		log.Warn("REDIS_URL not set, using in-memory choice store")
		choices = choice.NewInMemory(cfg.ChoicesTTL)
	}

	var publisher events.Publisher = events.NoopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kafka, err := events.NewKafka(cfg.KafkaBrokers, events.WithLogger(log))
		if err != nil {
			log.Error("connect kafka", "error", err)
			os.Exit(1)
		}
		defer kafka.Close()
		publisher = kafka
	}

	svc, err := service.New(users, supplements, divisions, choices,
		civic.New(cfg.Civic),
		service.WithLogger(log),
		service.WithPublisher(publisher),
		service.WithUserDataTTL(cfg.UserDataTTL),
		service.WithIndexTTL(cfg.ElectionIndexTTL),
	)
	if err != nil {
		log.Error("build service", "error", err)
		os.Exit(1)
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestContext)
	router.Use(middleware.Logging(log))
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Handle("/metrics", promhttp.Handler())
	handler.New(svc, handler.WithLogger(log)).Register(router)

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting ballotguide", "addr", cfg.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
