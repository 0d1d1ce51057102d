package market

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"MarketLedger/internal/auth"
	"MarketLedger/pkg/kit"
)

type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	MetricsEnabled bool
	MetricsToken   string
}

// NewHandler assembles the full marketd router: market routes, the auth
// surface, and the operational endpoints.
func NewHandler(s *Server, authSrv *auth.Server, deps HTTPDeps) http.Handler {
	r := chi.NewRouter()

	setupMiddleware(r, deps)
	setupMetrics(r, deps)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", readyz(s, authSrv))

	r.Mount("/auth", authSrv.Routes())
	r.Mount("/", s.Routes())

	return r
}

func readyz(s *Server, authSrv *auth.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := []struct {
			name string
			ping func() error
		}{
			{"store", func() error { return s.Market.store.Ping(r.Context()) }},
			{"ledger", func() error { return s.Ledger.Ping(r.Context()) }},
			{"users", func() error { return authSrv.Store.Ping(r.Context()) }},
		}

		for _, c := range checks {
			if err := c.ping(); err != nil {
				s.logErr("readyz: "+c.name, err, "")
				kit.WriteError(w, r, http.StatusServiceUnavailable, kit.CodeUnavailable, c.name+" not ready", nil)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	}
}

func setupMiddleware(r *chi.Mux, deps HTTPDeps) {
	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer)
	r.Use(kit.Logging(deps.Log))
}

func setupMetrics(r *chi.Mux, deps HTTPDeps) {
	if deps.Registry == nil {
		return
	}

	metrics := kit.NewHTTPMetrics(deps.Registry)
	r.Use(metrics.Middleware(deps.Service))

	if !deps.MetricsEnabled {
		return
	}

	r.With(kit.MetricsAuth(deps.MetricsToken)).
		Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
}
