package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	mw "github.com/amgohq/amgo/internal/api/middleware"
	"github.com/amgohq/amgo/internal/api/response"
)

// Dependencies holds all handler dependencies for the router.
type Dependencies struct {
	HealthHandler http.HandlerFunc

	ListCampaigns       http.HandlerFunc
	GetCampaign         http.HandlerFunc
	PatchCampaign       http.HandlerFunc
	BulkCampaignStatus  http.HandlerFunc
	CampaignPerformance http.HandlerFunc
	ListCampaignJobs    http.HandlerFunc
	CreateCampaignJob   http.HandlerFunc
	ListCampaignAssets  http.HandlerFunc
	UploadCampaignAsset http.HandlerFunc
	DeleteCampaignAsset http.HandlerFunc

	ListJobs       http.HandlerFunc
	GetJob         http.HandlerFunc
	RetryJob       http.HandlerFunc
	StopJobPolling http.HandlerFunc
	WatchJobs      http.HandlerFunc

	ListNotifications   http.HandlerFunc
	DismissNotification http.HandlerFunc
}

// NewRouter builds the Chi router with middleware stack and all routes.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.Logger)
	r.Use(mw.Recovery)

	r.Get("/api/v1/health", orNotImplemented(deps.HealthHandler))

	r.Route("/api/v1/campaigns", func(r chi.Router) {
		r.Get("/", orNotImplemented(deps.ListCampaigns))
		r.Post("/status", orNotImplemented(deps.BulkCampaignStatus))

		r.Route("/{campaignID}", func(r chi.Router) {
			r.Get("/", orNotImplemented(deps.GetCampaign))
			r.Patch("/", orNotImplemented(deps.PatchCampaign))
			r.Get("/performance", orNotImplemented(deps.CampaignPerformance))

			r.Get("/jobs", orNotImplemented(deps.ListCampaignJobs))
			r.Post("/jobs", orNotImplemented(deps.CreateCampaignJob))

			r.Get("/assets", orNotImplemented(deps.ListCampaignAssets))
			r.Post("/assets", orNotImplemented(deps.UploadCampaignAsset))
			r.Delete("/assets/{assetID}", orNotImplemented(deps.DeleteCampaignAsset))
		})
	})

	r.Route("/api/v1/jobs", func(r chi.Router) {
		r.Get("/", orNotImplemented(deps.ListJobs))
		r.Get("/watch", orNotImplemented(deps.WatchJobs))
		r.Get("/{jobID}", orNotImplemented(deps.GetJob))
		r.Post("/{jobID}/retry", orNotImplemented(deps.RetryJob))
		r.Delete("/{jobID}/polling", orNotImplemented(deps.StopJobPolling))
	})

	r.Get("/api/v1/notifications", orNotImplemented(deps.ListNotifications))
	r.Delete("/api/v1/notifications/{notificationID}", orNotImplemented(deps.DismissNotification))

	return r
}

// orNotImplemented returns the handler if non-nil, or a 501 placeholder.
func orNotImplemented(h http.HandlerFunc) http.HandlerFunc {
	if h != nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotImplemented, "NOT_IMPLEMENTED", "Endpoint not yet implemented", nil)
	}
}
