package api

import (
	"context"
	"net/http"
	"time"

	"poster-commerce/internal/infra/metrics"
	"poster-commerce/internal/usecase"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Limiter is a fixed-window counter keyed by caller.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// Deps lists everything the HTTP layer talks to.
type Deps struct {
	Users   usecase.UserUseCase
	Orders  usecase.OrderUseCase
	Plans   usecase.PlanUseCase
	Catalog usecase.CatalogUseCase
	Stories usecase.StoryUseCase
	Content usecase.ContentUseCase
	Stats   usecase.StatsUseCase
	Notify  usecase.NotificationUseCase

	Limiter     Limiter
	LoginLimit  int
	LoginWindow time.Duration

	Auth     *AuthManager
	AdminKey string

	RequestTimeout time.Duration
	UploadsDir     string
	ServeMetrics   bool
	// Checks are probed by /health; any failure turns it into a 503.
	Checks map[string]func(context.Context) error

	Logger *zerolog.Logger
}

const (
	smsLimit  = 5
	smsWindow = time.Hour
)

type Server struct {
	users   usecase.UserUseCase
	orders  usecase.OrderUseCase
	plans   usecase.PlanUseCase
	catalog usecase.CatalogUseCase
	stories usecase.StoryUseCase
	content usecase.ContentUseCase
	stats   usecase.StatsUseCase
	notify  usecase.NotificationUseCase

	limiter     Limiter
	loginLimit  int
	loginWindow time.Duration

	auth     *AuthManager
	adminKey string

	timeout      time.Duration
	uploadsDir   string
	serveMetrics bool
	checks       map[string]func(context.Context) error

	validator *Validator
	log       *zerolog.Logger
}

func NewServer(d Deps) *Server {
	if d.RequestTimeout <= 0 {
		d.RequestTimeout = 15 * time.Second
	}
	if d.LoginLimit <= 0 {
		d.LoginLimit = 5
	}
	if d.LoginWindow <= 0 {
		d.LoginWindow = time.Minute
	}
	if d.Logger == nil {
		l := zerolog.Nop()
		d.Logger = &l
	}
	l := d.Logger.With().Str("component", "HTTP").Logger()
	return &Server{
		users:        d.Users,
		orders:       d.Orders,
		plans:        d.Plans,
		catalog:      d.Catalog,
		stories:      d.Stories,
		content:      d.Content,
		stats:        d.Stats,
		notify:       d.Notify,
		limiter:      d.Limiter,
		loginLimit:   d.LoginLimit,
		loginWindow:  d.LoginWindow,
		auth:         d.Auth,
		adminKey:     d.AdminKey,
		timeout:      d.RequestTimeout,
		uploadsDir:   d.UploadsDir,
		serveMetrics: d.ServeMetrics,
		checks:       d.Checks,
		validator:    NewValidator(),
		log:          &l,
	}
}

// Routes builds the full router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(TraceID(), RequestLog(s.log), Recover(s.log), Timeout(s.timeout))

	r.Get("/health", s.health)
	if s.serveMetrics {
		r.Method(http.MethodGet, "/metrics", metrics.Handler())
	}
	if s.uploadsDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(s.uploadsDir))))
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/users", s.userRoutes)
		r.Route("/plans", s.planRoutes)
		r.Route("/category", s.categoryRoutes)
		r.Route("/poster", s.posterRoutes)
		r.Route("/business-category", s.businessCategoryRoutes)
		r.Route("/business-poster", s.businessPosterRoutes)
		r.Route("/logos", s.logoRoutes)
		r.Route("/business-cards", s.businessCardRoutes)
		r.Route("/stories", s.storyRoutes)
		r.Route("/admin", s.adminRoutes)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, envelope{"message": "Route not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, envelope{"message": "Method not allowed"})
	})
	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	out := envelope{"status": "ok"}
	if len(s.checks) > 0 {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		deps := make(map[string]string, len(s.checks))
		for name, check := range s.checks {
			if err := check(ctx); err != nil {
				s.log.Warn().Err(err).Str("dependency", name).Msg("health check failed")
				deps[name] = "down"
				status = http.StatusServiceUnavailable
				out["status"] = "degraded"
				continue
			}
			deps[name] = "up"
		}
		out["dependencies"] = deps
	}
	writeJSON(w, status, out)
}

// allow applies a rate limit. Limiter failures let the request through.
func (s *Server) allow(r *http.Request, scope, key string, limit int, window time.Duration) bool {
	if s.limiter == nil {
		return true
	}
	ok, err := s.limiter.Allow(r.Context(), key, limit, window)
	if err != nil {
		s.log.Warn().Err(err).Str("scope", scope).Msg("rate limiter unavailable")
		return true
	}
	if !ok {
		metrics.IncRateLimited(scope)
	}
	return ok
}
