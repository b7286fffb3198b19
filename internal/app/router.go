package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/syndik/syndik/internal/articles"
	"github.com/syndik/syndik/internal/auth"
	"github.com/syndik/syndik/internal/finance"
	"github.com/syndik/syndik/internal/finance/missing"
	"github.com/syndik/syndik/internal/helpdesk"
	"github.com/syndik/syndik/internal/meetings"
	"github.com/syndik/syndik/internal/notifications"
	"github.com/syndik/syndik/internal/observability"
	"github.com/syndik/syndik/internal/orgs"
	"github.com/syndik/syndik/internal/platform/httpx"
	"github.com/syndik/syndik/internal/property/buildings"
	"github.com/syndik/syndik/internal/property/residents"
	"github.com/syndik/syndik/internal/property/units"
	"github.com/syndik/syndik/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Middleware []func(http.Handler) http.Handler
	Metrics    *observability.Metrics

	Auth          *auth.Handler
	Orgs          *orgs.Handler
	Buildings     *buildings.Handler
	Units         *units.Handler
	Residents     *residents.Handler
	Finance       *finance.Handler
	Missing       *missing.Handler
	Notifications *notifications.Handler
	Meetings      *meetings.Handler
	Helpdesk      *helpdesk.Handler
	Articles      *articles.Handler
	Jobs          *jobs.Handler
}

// NewRouter assembles the API surface.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()
	for _, mw := range params.Middleware {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			params.Auth.MountRoutes(r)
		})
		r.Route("/org", func(r chi.Router) {
			params.Orgs.MountRoutes(r)
		})
		r.Route("/property", func(r chi.Router) {
			r.Route("/buildings", func(r chi.Router) {
				params.Buildings.MountRoutes(r)
			})
			r.Route("/units", func(r chi.Router) {
				params.Units.MountRoutes(r)
			})
			r.Route("/residents", func(r chi.Router) {
				params.Residents.MountRoutes(r)
			})
		})
		r.Route("/finance", func(r chi.Router) {
			params.Finance.MountRoutes(r)
			r.Route("/missing-payments", func(r chi.Router) {
				params.Missing.MountRoutes(r)
			})
		})
		r.Route("/notifications", func(r chi.Router) {
			params.Notifications.MountRoutes(r)
		})
		r.Route("/meetings", func(r chi.Router) {
			params.Meetings.MountRoutes(r)
		})
		r.Route("/helpdesk", func(r chi.Router) {
			params.Helpdesk.MountRoutes(r)
		})
		r.Route("/articles", func(r chi.Router) {
			params.Articles.MountRoutes(r)
		})
		if params.Jobs != nil {
			r.Route("/jobs", func(r chi.Router) {
				params.Jobs.MountRoutes(r)
			})
		}
	})

	return r
}
