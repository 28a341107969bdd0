package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/amgohq/amgo/internal/api/response"
	"github.com/amgohq/amgo/internal/campaigns"
	"github.com/amgohq/amgo/internal/store"
	"github.com/amgohq/amgo/pkg/models"
)

// CampaignService defines the campaign operations the handlers depend on.
type CampaignService interface {
	FetchAll(ctx context.Context, f campaigns.Filters, so campaigns.Sort, p campaigns.Page) (*campaigns.ListResult, error)
	FetchByID(ctx context.Context, id string) (*models.Campaign, error)
	Update(ctx context.Context, id string, patch campaigns.Patch) (*models.Campaign, error)
	UpdateStatus(ctx context.Context, ids []string, status models.CampaignStatus) ([]*models.Campaign, error)
	Performance(ctx context.Context, campaignID string, days int) ([]models.PerformanceDataPoint, error)
}

// Notifier receives the user-facing notifications handlers emit.
type Notifier interface {
	Info(title, description string)
	Success(title, description string)
	Error(title, description string)
}

// NewListCampaignsHandler returns an http.HandlerFunc for GET /api/v1/campaigns.
func NewListCampaignsHandler(svc CampaignService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		f := campaigns.Filters{
			Search: q.Get("search"),
			From:   q.Get("from"),
			To:     q.Get("to"),
		}
		for _, raw := range splitCSV(q["status"]) {
			st := models.CampaignStatus(raw)
			if !models.ValidCampaignStatus(st) {
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
					fmt.Sprintf("unknown status %q", raw), nil)
				return
			}
			f.Status = append(f.Status, st)
		}
		for _, raw := range splitCSV(q["channel"]) {
			ch := models.CampaignChannel(raw)
			if !models.ValidCampaignChannel(ch) {
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
					fmt.Sprintf("unknown channel %q", raw), nil)
				return
			}
			f.Channel = append(f.Channel, ch)
		}

		so := campaigns.Sort{Field: q.Get("sort"), Direction: q.Get("direction")}

		page, ok := queryInt(w, q.Get("page"), "page")
		if !ok {
			return
		}
		pageSize, ok := queryInt(w, q.Get("page_size"), "page_size")
		if !ok {
			return
		}

		result, err := svc.FetchAll(r.Context(), f, so, campaigns.Page{Page: page, PageSize: pageSize})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		response.Collection(w, result.Campaigns, response.PaginationMeta{
			Page:    result.Page,
			Limit:   result.PageSize,
			Total:   result.Total,
			HasNext: result.Page*result.PageSize < result.Total,
		})
	}
}

// NewGetCampaignHandler returns an http.HandlerFunc for GET /api/v1/campaigns/{campaignID}.
func NewGetCampaignHandler(svc CampaignService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := svc.FetchByID(r.Context(), chi.URLParam(r, "campaignID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		response.JSON(w, c)
	}
}

// NewPatchCampaignHandler returns an http.HandlerFunc for PATCH /api/v1/campaigns/{campaignID}.
func NewPatchCampaignHandler(svc CampaignService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name           *string                `json:"name"`
			Description    *string                `json:"description"`
			TargetAudience *string                `json:"target_audience"`
			Owner          *string                `json:"owner"`
			Budget         *float64               `json:"budget"`
			StartDate      *string                `json:"start_date"`
			EndDate        *string                `json:"end_date"`
			Tags           *[]string              `json:"tags"`
			Status         *models.CampaignStatus `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}
		if req.Status != nil && !models.ValidCampaignStatus(*req.Status) {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				fmt.Sprintf("unknown status %q", *req.Status), nil)
			return
		}
		if req.Budget != nil && *req.Budget < 0 {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "budget must not be negative", nil)
			return
		}

		c, err := svc.Update(r.Context(), chi.URLParam(r, "campaignID"), campaigns.Patch{
			Name:           req.Name,
			Description:    req.Description,
			TargetAudience: req.TargetAudience,
			Owner:          req.Owner,
			Budget:         req.Budget,
			StartDate:      req.StartDate,
			EndDate:        req.EndDate,
			Tags:           req.Tags,
			Status:         req.Status,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		response.JSON(w, c)
	}
}

// NewBulkCampaignStatusHandler returns an http.HandlerFunc for POST /api/v1/campaigns/status.
func NewBulkCampaignStatusHandler(svc CampaignService, bus Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			IDs    []string              `json:"ids"`
			Status models.CampaignStatus `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}
		if len(req.IDs) == 0 {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "ids is required", nil)
			return
		}
		if !models.ValidCampaignStatus(req.Status) {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				fmt.Sprintf("unknown status %q", req.Status), nil)
			return
		}

		updated, err := svc.UpdateStatus(r.Context(), req.IDs, req.Status)
		if err != nil {
			if errors.Is(err, campaigns.ErrConflict) {
				bus.Error("Update failed", "Could not update campaign status. Please try again.")
			}
			writeServiceError(w, err)
			return
		}

		bus.Success("Campaigns updated",
			fmt.Sprintf("%d campaign(s) set to %s.", len(updated), req.Status))
		response.JSON(w, updated)
	}
}

// NewCampaignPerformanceHandler returns an http.HandlerFunc for
// GET /api/v1/campaigns/{campaignID}/performance.
func NewCampaignPerformanceHandler(svc CampaignService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days, ok := queryInt(w, r.URL.Query().Get("days"), "days")
		if !ok {
			return
		}

		series, err := svc.Performance(r.Context(), chi.URLParam(r, "campaignID"), days)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		response.JSON(w, series)
	}
}

// writeServiceError maps the service-layer sentinel errors onto the API's
// error envelope.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Resource not found", nil)
	case errors.Is(err, campaigns.ErrInvalidStatus):
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	case errors.Is(err, campaigns.ErrConflict):
		response.Error(w, http.StatusConflict, "SERVER_CONFLICT",
			"The update could not be applied. Please try again.", nil)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		// Client went away mid-latency; nothing useful to write.
	default:
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			"An unexpected error occurred", nil)
	}
}

// splitCSV flattens repeated query params and comma-separated lists into
// one slice of non-empty values.
func splitCSV(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

// queryInt parses an optional positive integer query param, writing a 400
// and returning ok=false when the value is present but malformed.
func queryInt(w http.ResponseWriter, raw, name string) (int, bool) {
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
			fmt.Sprintf("%s must be a positive integer", name), nil)
		return 0, false
	}
	return n, true
}
