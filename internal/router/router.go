package router

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/pruebavolte/salvadorex-queue/internal/config"
	health "github.com/pruebavolte/salvadorex-queue/internal/handlers/health"
	queueHandler "github.com/pruebavolte/salvadorex-queue/internal/handlers/queue"
	"github.com/pruebavolte/salvadorex-queue/internal/middlewares"
	"github.com/pruebavolte/salvadorex-queue/internal/redis"
)

type Router interface {
	SetHealthRouter(hh *health.HandlerHealth)
	SetQueueRouter(qh *queueHandler.HandlerQueue)
	SetMiddlewares()
	GetRouter() *chi.Mux
}

type CustomRouter struct {
	router     *chi.Mux
	logger     *zerolog.Logger
	cfg        *config.Config
	memStorage redis.MemStorage
}

// NewCustomRouter - constructor for CustomRouter.
func NewCustomRouter(cfg *config.Config, memStorage redis.MemStorage, l *zerolog.Logger) *CustomRouter {
	return &CustomRouter{
		router:     chi.NewRouter(),
		logger:     l,
		cfg:        cfg,
		memStorage: memStorage,
	}
}

func (cr *CustomRouter) SetMiddlewares() {
	cr.router.Use(middlewares.LoggingMiddleware(cr.logger))
	cr.router.Use(middleware.Recoverer)
	cr.router.Use(middlewares.GzipMiddleware)
	cr.router.Use(middlewares.BrotliMiddleware)
	cr.router.Use(middlewares.GzipDecompressionMiddleware)
}

func (cr *CustomRouter) SetHealthRouter(hh *health.HandlerHealth) {
	cr.router.Route("/ping", func(router chi.Router) {
		router.With(middlewares.ContentMiddleware("application/text")).
			Get("/", hh.Ping)
	})
}

// SetQueueRouter wires the queue contract: listing and terminal actions
// need a resolved tenant identity, joining is public.
func (cr *CustomRouter) SetQueueRouter(qh *queueHandler.HandlerQueue) {
	authMiddleware := middlewares.AuthMiddleware(cr.cfg.JwtSecret, cr.memStorage)

	cr.router.Route("/api/queue", func(router chi.Router) {
		router.With(middlewares.ContentMiddleware("application/json")).
			With(authMiddleware).
			Get("/", qh.GetQueue)
		router.With(middlewares.ContentMiddleware("application/json")).
			Post("/", qh.JoinQueue)
		router.With(middlewares.ContentMiddleware("application/json")).
			With(authMiddleware).
			Patch("/", qh.UpdateQueue)
	})
}

func (cr *CustomRouter) GetRouter() *chi.Mux {
	return cr.router
}
