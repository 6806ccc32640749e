package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/pruebavolte/salvadorex-queue/internal/config"
	"github.com/pruebavolte/salvadorex-queue/internal/events"
	healthHandler "github.com/pruebavolte/salvadorex-queue/internal/handlers/health"
	queueHandler "github.com/pruebavolte/salvadorex-queue/internal/handlers/queue"
	"github.com/pruebavolte/salvadorex-queue/internal/logger"
	"github.com/pruebavolte/salvadorex-queue/internal/queue"
	"github.com/pruebavolte/salvadorex-queue/internal/redis"
	"github.com/pruebavolte/salvadorex-queue/internal/router"
	"github.com/pruebavolte/salvadorex-queue/internal/tracer"
	"github.com/pruebavolte/salvadorex-queue/internal/utils"
)

var eventTopic = "queue-events"

func main() {
	log := logger.NewLogger().SetLogLevel(zerolog.DebugLevel).Get()

	err := godotenv.Load(".env")
	if err != nil {
		log.Error().Err(err).Msg("Error loading server.env file")
	}

	cfg := config.NewConfigBuilder(log).
		FromEnv().
		FromFlags().Build()

	log.Info().Interface("config", cfg).Msg("Configuration loaded")

	if cfg.JwtSecret == "" {
		panic(errors.New("jwt secret not provided"))
	}

	ctx, cancel := utils.WithSignalCancel(context.Background(), log)

	if cfg.Jaeger != "" {
		tp, err := tracer.NewTracer(cfg).InitTracer(ctx)
		if err != nil {
			log.Error().Err(err).Msg("Error initialising tracer")
		} else {
			defer func() {
				_ = tp.Shutdown(ctx)
			}()
		}
	}

	memStorage := redis.NewRStorage(cfg)
	if err := memStorage.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("Error connecting to redis")
	}

	kafka := events.NewKafka(cfg)
	eventWriter, eventReader, closeEvents := kafka.CreateGroup(eventTopic)
	defer closeEvents()

	queueEvents := events.NewEvents(eventWriter, eventReader, log)
	go queueEvents.ProcessEvents(ctx)

	store := queue.NewMemStore(log)
	estimator := queue.NewEstimator(cfg.BootstrapMinutes)
	service := queue.NewService(store, estimator, cfg.Location(log), log).
		WithPublisher(queueEvents)

	hHandlers := healthHandler.NewHealthHandler(memStorage, log)
	qHandlers := queueHandler.NewQueueHandler(service, log)

	var cRouter router.Router = router.NewCustomRouter(cfg, memStorage, log)
	cRouter.SetMiddlewares()
	cRouter.SetHealthRouter(hHandlers)
	cRouter.SetQueueRouter(qHandlers)

	log.Info().
		Str("server_address", cfg.Address).
		Msg("Server started")

	//nolint:exhaustruct
	server := &http.Server{
		Addr:         cfg.Address,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,
		Handler:      otelhttp.NewHandler(cRouter.GetRouter(), "salvadorex-queue"),
	}

	go func() {
		// Wait for the context to be done (i.e., signal received)
		<-ctx.Done()

		if err := server.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("Error shutting down server")
		}
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("Error starting server")
		cancel()
	}

	log.Info().Msg("Server shut down")
}
