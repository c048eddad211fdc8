package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"stockroom-backend/api/controllers"
	"stockroom-backend/api/middleware"
	archivesvc "stockroom-backend/internal/archive"
	"stockroom-backend/internal/catalog"
	commitsvc "stockroom-backend/internal/commit"
	"stockroom-backend/internal/export"
	"stockroom-backend/internal/users"
	worklistsvc "stockroom-backend/internal/worklist"
	"stockroom-backend/pkg/config"
	"stockroom-backend/pkg/db"
	"stockroom-backend/pkg/logger"
	"stockroom-backend/pkg/redis"
)

// Deps bundles everything the router hands to controllers.
type Deps struct {
	Config *config.Config
	Logger *logger.Logger

	DBPinger    db.Pinger
	RedisPinger redis.Pinger

	WorklistService worklistsvc.Service
	CommitService   commitsvc.Service
	ArchiveService  archivesvc.Service
	ArchiveRepo     *archivesvc.Repository
	CatalogRepo     *catalog.Repository
	Importer        *catalog.Importer
	UsersRepo       *users.Repository
	ExportWriter    *export.Writer

	MetricsGatherer prometheus.Gatherer
}

// NewRouter builds the HTTP surface consumed by the chat gateway. Every
// business route sits behind the API-key check; health and metrics stay open.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DBPinger, deps.RedisPinger, logg))
	})

	if deps.MetricsGatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.MetricsGatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.APIKey(cfg.Gateway, logg))

		r.Post("/users", controllers.UserRegister(deps.UsersRepo, logg))
		r.Get("/users/{userID}", controllers.UserGet(deps.UsersRepo, logg))

		r.Route("/worklist", func(r chi.Router) {
			r.Get("/", controllers.WorklistGet(deps.WorklistService, logg))
			r.Delete("/", controllers.WorklistClear(deps.WorklistService, logg))
			r.Post("/lines", controllers.WorklistAddLine(deps.WorklistService, logg))
			r.Patch("/lines/{productID}", controllers.WorklistUpdateLine(deps.WorklistService, logg))
			r.Delete("/lines/{productID}", controllers.WorklistRemoveLine(deps.WorklistService, logg))
			r.Post("/commit", controllers.WorklistCommit(deps.CommitService, deps.ExportWriter, deps.ArchiveRepo, logg))
		})

		r.Route("/archives", func(r chi.Router) {
			r.Get("/", controllers.ArchiveList(deps.ArchiveService, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductsSearch(deps.CatalogRepo, logg))
			r.Get("/{productID}", controllers.ProductGet(deps.CatalogRepo, logg))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/catalog/import", controllers.CatalogImport(deps.Importer, logg))
			r.Post("/reservations/clear", controllers.ReservationsClear(deps.CatalogRepo, logg))
			r.Get("/archives/users", controllers.ArchiveUsers(deps.ArchiveService, logg))
			r.Get("/users", controllers.UsersList(deps.UsersRepo, logg))
		})
	})

	return r
}
