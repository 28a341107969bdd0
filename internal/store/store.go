package store

import (
	"context"
	"errors"

	"github.com/amgohq/amgo/pkg/models"
)

var ErrNotFound = errors.New("resource not found")

// Store is the data access interface for the dashboard's data plane.
// Mutations run as callbacks under the store's lock so they always see the
// latest stored record, never a snapshot captured before a simulated delay.
type Store interface {
	ListCampaigns(ctx context.Context) ([]*models.Campaign, error)
	GetCampaign(ctx context.Context, id string) (*models.Campaign, error)
	UpdateCampaign(ctx context.Context, id string, mutate func(*models.Campaign) error) (*models.Campaign, error)

	CreateJob(ctx context.Context, job *models.Job) error
	GetJob(ctx context.Context, id string) (*models.Job, error)
	UpdateJob(ctx context.Context, id string, mutate func(*models.Job) error) (*models.Job, error)
	ListJobs(ctx context.Context) ([]*models.Job, error)
	ListJobsByCampaign(ctx context.Context, campaignID string) ([]*models.Job, error)

	ListAssets(ctx context.Context, campaignID string) ([]*models.Asset, error)
	CreateAsset(ctx context.Context, campaignID string, asset *models.Asset) error
	UpdateAsset(ctx context.Context, campaignID, assetID string, mutate func(*models.Asset) error) (*models.Asset, error)
	DeleteAsset(ctx context.Context, campaignID, assetID string) error
}
