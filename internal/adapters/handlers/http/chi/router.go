package chi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/JesuSe7e/api-envio-ftp/internal/adapters/handlers/http/chi/auth"
	"github.com/JesuSe7e/api-envio-ftp/internal/adapters/handlers/http/chi/response"
	"github.com/JesuSe7e/api-envio-ftp/internal/adapters/handlers/http/chi/v1/backup"
	"github.com/JesuSe7e/api-envio-ftp/internal/config"
	"github.com/JesuSe7e/api-envio-ftp/internal/core/port"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

// multipartOverhead is the room left for multipart headers and boundaries
const multipartOverhead = 1 << 20

// RouterOptions are the tunables of the HTTP surface
type RouterOptions struct {
	Env            string
	MaxUploadSize  int64
	RequestTimeout time.Duration
	RateLimit      config.RateLimitConfig
	MetricsHandler http.Handler
	// BreakerState reports the remote store circuit breaker; nil when the breaker is disabled
	BreakerState func() string
}

// NewRouter builds http.Handler with chi
func NewRouter(logger *slog.Logger, clientService port.ClientService, backupHandler *backup.HandlerV1, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	//handle requestID to facilitate debug (X-Request-ID)
	//It fetches from request if exists, or creates it
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggerMiddleware(logger))
	r.Use(middleware.Recoverer)
	if opts.RequestTimeout > 0 {
		r.Use(middleware.Timeout(opts.RequestTimeout))
	}
	r.Use(middleware.RequestSize(opts.MaxUploadSize + multipartOverhead))

	if opts.Env != "prod" {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID", auth.TokenHeader},
			ExposedHeaders:   []string{"Link"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(auth.TokenMiddleware(clientService, logger))
			if opts.RateLimit.Enabled {
				r.Use(httprate.Limit(
					opts.RateLimit.Requests,
					opts.RateLimit.Window,
					httprate.WithKeyFuncs(auth.RateLimitKey),
					httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
						response.Write(w, http.StatusTooManyRequests, response.Failure("too many uploads, try again later"))
					}),
				))
			}
			r.Mount("/upload", backupHandler.Routes())
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		health := HealthResponse{
			Status:    "ok",
			Timestamp: time.Now(),
		}
		if opts.BreakerState != nil {
			health.RemoteStore = opts.BreakerState()
			if health.RemoteStore == "open" {
				health.Status = "degraded"
			}
		}
		response.Write(w, http.StatusOK, health)
	})

	if opts.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", opts.MetricsHandler)
	}

	return r
}

type HealthResponse struct {
	Status      string    `json:"status"`
	RemoteStore string    `json:"remote_store,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}
