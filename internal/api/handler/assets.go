package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/amgohq/amgo/internal/api/response"
	"github.com/amgohq/amgo/internal/assets"
	"github.com/amgohq/amgo/pkg/models"
)

// AssetService defines the asset operations the handlers depend on.
type AssetService interface {
	List(ctx context.Context, campaignID string) ([]*models.Asset, error)
	Upload(ctx context.Context, campaignID, name string, size int64, onProgress func(int)) (*models.Asset, error)
	Delete(ctx context.Context, campaignID, assetID string) error
}

// NewListAssetsHandler returns an http.HandlerFunc for
// GET /api/v1/campaigns/{campaignID}/assets.
func NewListAssetsHandler(svc AssetService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.List(r.Context(), chi.URLParam(r, "campaignID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		response.JSON(w, list)
	}
}

// NewUploadAssetHandler returns an http.HandlerFunc for
// POST /api/v1/campaigns/{campaignID}/assets. The upload is simulated from
// the request metadata; the handler blocks until it settles.
func NewUploadAssetHandler(svc AssetService, bus Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name string `json:"name"`
			Size int64  `json:"size"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}
		if req.Name == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "name is required", nil)
			return
		}
		if req.Size <= 0 {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "size must be positive", nil)
			return
		}

		asset, err := svc.Upload(r.Context(), chi.URLParam(r, "campaignID"), req.Name, req.Size, nil)
		if err != nil {
			if errors.Is(err, assets.ErrUploadFailed) {
				bus.Error("Upload failed", fmt.Sprintf("%s could not be processed.", req.Name))
				response.Error(w, http.StatusBadGateway, "UPLOAD_FAILED",
					fmt.Sprintf("Upload of %s failed. Please try again.", req.Name), nil)
				return
			}
			writeServiceError(w, err)
			return
		}

		bus.Success("Upload complete", fmt.Sprintf("%s is ready.", asset.Name))
		response.Created(w, asset)
	}
}

// NewDeleteAssetHandler returns an http.HandlerFunc for
// DELETE /api/v1/campaigns/{campaignID}/assets/{assetID}.
func NewDeleteAssetHandler(svc AssetService, bus Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assetID := chi.URLParam(r, "assetID")
		if err := svc.Delete(r.Context(), chi.URLParam(r, "campaignID"), assetID); err != nil {
			writeServiceError(w, err)
			return
		}

		bus.Info("Asset deleted", "")
		response.JSON(w, map[string]any{
			"id":      assetID,
			"deleted": true,
		})
	}
}
