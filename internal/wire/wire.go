// internal/wire/wire.go
package wire

import (
	"net/http"

	"loyalty-rewards/internal/adaptor"
	"loyalty-rewards/internal/data/repository"
	"loyalty-rewards/internal/usecase"
	"loyalty-rewards/pkg/metrics"
	"loyalty-rewards/pkg/middleware"
	"loyalty-rewards/pkg/storage"
	"loyalty-rewards/pkg/token"
	"loyalty-rewards/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// App menyimpan semua dependencies
type App struct {
	Router       *chi.Mux
	Service      *usecase.Service
	LoginLimiter *middleware.RateLimiter
}

// Deps are the infrastructure pieces built in main.
type Deps struct {
	Tokens  *token.Service
	Store   storage.FileStore
	Metrics *metrics.Metrics
}

// Wiring menginisialisasi semua dependencies
func Wiring(repo *repository.Repository, config *utils.Config, deps Deps, logger *zap.Logger) *App {
	// Initialize services dan handlers
	service := usecase.NewService(repo, config, deps.Tokens, deps.Store, deps.Metrics, logger)
	handler := adaptor.NewHandler(service, config, logger)
	limiter := middleware.NewRateLimiter(config.Auth.LoginRatePerSecond, config.Auth.LoginRateBurst, logger)

	// Setup router
	router := setupRouter(handler, limiter, config, deps, logger)

	return &App{
		Router:       router,
		Service:      service,
		LoginLimiter: limiter,
	}
}

// setupRouter konfigurasi Chi router
func setupRouter(
	handler *adaptor.Handler,
	limiter *middleware.RateLimiter,
	config *utils.Config,
	deps Deps,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(chimw.RealIP)
	r.Use(middleware.Metrics(deps.Metrics))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CaptureBody)
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.App.CORSOrigins))

	authn := middleware.Authenticate(deps.Tokens, logger)

	// Apply routes
	wireAuth(r, handler.Auth, limiter)
	wireUser(r, handler.User, authn)
	wirePoints(r, handler.Points, authn, logger)
	wireMenu(r, handler.Menu, authn, logger)

	if config.Storage.Driver == utils.StorageLocal {
		files := http.StripPrefix("/uploads/", http.FileServer(http.Dir(config.Storage.UploadDir)))
		r.Get("/uploads/*", files.ServeHTTP)
	}

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())

	return r
}
