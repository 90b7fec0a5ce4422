package router

import (
	"database/sql"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"pet-lostfound/internal/adapters/scorer/fixture"
	"pet-lostfound/internal/adapters/scorer/remote"
	mem "pet-lostfound/internal/adapters/storage/memory"
	pg "pet-lostfound/internal/adapters/storage/postgres"
	"pet-lostfound/internal/config"
	"pet-lostfound/internal/domain/alerts"
	"pet-lostfound/internal/domain/cases"
	"pet-lostfound/internal/domain/reviews"
	"pet-lostfound/internal/domain/search"
	"pet-lostfound/internal/domain/telemetry"
	"pet-lostfound/internal/middleware"
	"pet-lostfound/internal/platform/logger"
)

type Options struct {
	Cfg *config.Config
	Log logger.Logger

	// Opcional: si viene, usa Postgres. Si no, in-memory (modo dev/tests).
	DB *sql.DB

	// Opcional: override del scorer (tests). Si es nil se resuelve por config.
	Scorer search.Scorer
}

func NewRouter(opts Options) http.Handler {
	cfg := opts.Cfg
	if cfg == nil {
		cfg = config.New()
	}
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(log))
	r.Use(cors.Handler(cors.Options{
		// La UI de dev corre en localhost:3000.
		AllowedOrigins:   []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	var (
		casesRepo     cases.Repository
		reviewsRepo   reviews.Repository
		telemetryRepo telemetry.Repository
		alertsRepo    alerts.Repository
	)

	if opts.DB != nil {
		casesRepo = pg.NewCasesRepo(opts.DB)
		reviewsRepo = pg.NewReviewsRepo(opts.DB)
		telemetryRepo = pg.NewTelemetryRepo(opts.DB)
		alertsRepo = pg.NewAlertsRepo(opts.DB)
	} else {
		reviewsRepo = mem.NewReviewsRepo()
		casesRepo = mem.NewCasesRepo(reviewsRepo)
		telemetryRepo = mem.NewTelemetryRepo()
		alertsRepo = mem.NewAlertsRepo()
	}

	scorer := opts.Scorer
	if scorer == nil {
		scorer = resolveScorer(cfg, log)
	}

	// Services por módulo
	casesSvc := cases.NewService(casesRepo, cfg.S3Bucket)
	reviewsSvc := reviews.NewService(reviewsRepo)
	telemetrySvc := telemetry.NewService(telemetryRepo)
	alertsSvc := alerts.NewService(alertsRepo)
	searchSvc := search.NewService(scorer)

	// Rutas por módulo
	cases.RegisterRoutes(r, casesSvc, alertsSvc, telemetrySvc)
	search.RegisterRoutes(r, searchSvc)
	reviews.RegisterRoutes(r, reviewsSvc, casesSvc)
	telemetry.RegisterRoutes(r, telemetrySvc)
	alerts.RegisterRoutes(r, alertsSvc)

	registerContracts(r, cfg.ContractsDir)

	return r
}

func resolveScorer(cfg *config.Config, log logger.Logger) search.Scorer {
	if cfg.ScorerURL != "" {
		s, err := remote.New(cfg.ScorerURL)
		if err == nil {
			return s
		}
		log.Warn("remote scorer misconfigured, falling back to fixture", map[string]any{
			"error": err.Error(),
		})
	}
	return fixture.New(cfg.SearchFixture, log)
}

// registerContracts sirve los contratos crudos (OpenAPI/AsyncAPI) y monta
// la UI de swagger apuntando al contrato servido.
func registerContracts(r chi.Router, contractsDir string) {
	serveYAML := func(name string) http.HandlerFunc {
		return func(w http.ResponseWriter, _ *http.Request) {
			raw, err := os.ReadFile(filepath.Join(contractsDir, name))
			if err != nil {
				http.Error(w, "contract not found", http.StatusNotFound)
				return
			}
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			_, _ = w.Write(raw)
		}
	}

	r.Get("/docs/openapi.yaml", serveYAML("openapi.yaml"))
	r.Get("/docs/asyncapi.yaml", serveYAML("asyncapi.yaml"))
	r.Get("/docs/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/openapi.yaml"),
	))
}
