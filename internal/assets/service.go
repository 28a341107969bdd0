// Package assets is the simulated asset pipeline: chunked uploads with
// progress callbacks, random failure injection, and per-campaign listing.
package assets

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/amgohq/amgo/internal/sim"
	"github.com/amgohq/amgo/internal/store"
	"github.com/amgohq/amgo/pkg/models"
)

var ErrUploadFailed = errors.New("upload failed: file could not be processed")

const cdnBaseURL = "https://cdn.amgo.dev/assets"

type Config struct {
	FailureRate   float64
	StepMin       int
	StepMax       int
	ListLatency   sim.Latency
	StepLatency   sim.Latency
	DeleteLatency sim.Latency
}

func DefaultConfig() Config {
	return Config{
		FailureRate:   0.10,
		StepMin:       15,
		StepMax:       30,
		ListLatency:   sim.Latency{Min: 200 * time.Millisecond, Max: 500 * time.Millisecond},
		StepLatency:   sim.Latency{Min: 150 * time.Millisecond, Max: 350 * time.Millisecond},
		DeleteLatency: sim.Latency{Min: 300 * time.Millisecond, Max: 600 * time.Millisecond},
	}
}

type Service struct {
	store store.Store
	rng   sim.Rand
	cfg   Config
}

func NewService(st store.Store, rng sim.Rand, cfg Config) *Service {
	return &Service{store: st, rng: rng, cfg: cfg}
}

// List returns the campaign's assets in upload order.
func (s *Service) List(ctx context.Context, campaignID string) ([]*models.Asset, error) {
	if err := s.cfg.ListLatency.Sleep(ctx, s.rng); err != nil {
		return nil, err
	}
	return s.store.ListAssets(ctx, campaignID)
}

// Upload runs a simulated chunked upload: the asset is stored immediately
// with status uploading, progress advances in random steps with a store
// write and an optional callback per step, and the final outcome is either
// ready or, with the injected failure probability, error plus ErrUploadFailed.
func (s *Service) Upload(ctx context.Context, campaignID, name string, size int64, onProgress func(int)) (*models.Asset, error) {
	asset := &models.Asset{
		ID:        models.NewID("asset"),
		Name:      name,
		Type:      InferType(name),
		Size:      size,
		Status:    models.AssetStatusUploading,
		Progress:  0,
		URL:       fmt.Sprintf("%s/%s/%s", cdnBaseURL, campaignID, name),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateAsset(ctx, campaignID, asset); err != nil {
		return nil, fmt.Errorf("create asset: %w", err)
	}

	progress := 0
	for progress < 100 {
		if err := s.cfg.StepLatency.Sleep(ctx, s.rng); err != nil {
			return nil, err
		}
		progress = min(progress+sim.Between(s.rng, s.cfg.StepMin, s.cfg.StepMax), 100)

		if _, err := s.store.UpdateAsset(ctx, campaignID, asset.ID, func(a *models.Asset) error {
			a.Progress = progress
			return nil
		}); err != nil {
			return nil, fmt.Errorf("update asset progress: %w", err)
		}
		if onProgress != nil {
			onProgress(progress)
		}
	}

	if s.rng.Float64() < s.cfg.FailureRate {
		if _, err := s.store.UpdateAsset(ctx, campaignID, asset.ID, func(a *models.Asset) error {
			a.Status = models.AssetStatusError
			return nil
		}); err != nil {
			return nil, fmt.Errorf("mark asset failed: %w", err)
		}
		return nil, fmt.Errorf("%w: %s", ErrUploadFailed, name)
	}

	return s.store.UpdateAsset(ctx, campaignID, asset.ID, func(a *models.Asset) error {
		a.Status = models.AssetStatusReady
		a.Progress = 100
		return nil
	})
}

// Delete removes the asset from the campaign.
func (s *Service) Delete(ctx context.Context, campaignID, assetID string) error {
	if err := s.cfg.DeleteLatency.Sleep(ctx, s.rng); err != nil {
		return err
	}
	return s.store.DeleteAsset(ctx, campaignID, assetID)
}

// InferType maps a filename extension to the asset type enum.
func InferType(name string) models.AssetType {
	switch strings.TrimPrefix(strings.ToLower(path.Ext(name)), ".") {
	case "png", "jpg", "jpeg", "gif", "webp", "svg":
		return models.AssetTypeImage
	case "mp4", "mov", "avi", "webm":
		return models.AssetTypeVideo
	case "csv", "tsv":
		return models.AssetTypeCSV
	default:
		return models.AssetTypeDocument
	}
}
