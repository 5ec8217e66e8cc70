// Package server arma el router HTTP del servicio: health, métricas y
// los endpoints read-only de estado de la migración.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/dropDatabas3/nido/internal/domain/repository"
	"github.com/dropDatabas3/nido/internal/migrate"
	"github.com/dropDatabas3/nido/internal/observability/logger"
)

// Deps dependencias del router.
type Deps struct {
	Flags   *migrate.FlagManager
	Budgets repository.BudgetRepository
	Tasks   repository.TaskRepository
}

// New construye el handler raíz.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/healthz", handleHealthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1/migration", func(r chi.Router) {
		h := &migrationHandler{fm: deps.Flags}
		r.Get("/flags", h.flags)
		r.Get("/resolve", h.resolve)
	})

	if deps.Budgets != nil {
		h := &budgetHandler{repo: deps.Budgets}
		r.Route("/v1/budgets", func(r chi.Router) {
			r.Post("/", h.create)
			r.Get("/", h.list)
			r.Get("/{id}", h.get)
			r.Delete("/{id}", h.delete)
		})
	}
	if deps.Tasks != nil {
		h := &taskHandler{repo: deps.Tasks}
		r.Route("/v1/tasks", func(r chi.Router) {
			r.Post("/", h.create)
			r.Get("/", h.list)
			r.Post("/{id}/complete", h.complete)
		})
	}

	return r
}

// requestLogger loguea método, path, status y latencia. Health y
// metrics quedan afuera: demasiado frecuentes.
func requestLogger(next http.Handler) http.Handler {
	log := logger.Named("http")
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path == "/healthz" || req.URL.Path == "/metrics" {
			next.ServeHTTP(w, req)
			return
		}
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
		next.ServeHTTP(ww, req)
		log.Info("request",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(req.Context())),
		)
	})
}
