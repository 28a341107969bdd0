package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/amgohq/amgo/internal/store"
	"github.com/amgohq/amgo/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJob(id, campaignID string) *models.Job {
	now := time.Now().UTC()
	return &models.Job{
		ID:           id,
		CampaignID:   campaignID,
		CampaignName: "Test Campaign",
		Kind:         models.JobKindExport,
		Status:       models.JobStatusPending,
		Message:      "Job queued.",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestMemoryStore_JobCreateAndGet(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.CreateJob(ctx, newJob("job_a", "cmp_1")))

	got, err := s.GetJob(ctx, "job_a")
	require.NoError(t, err)
	assert.Equal(t, "job_a", got.ID)
	assert.Equal(t, models.JobStatusPending, got.Status)
}

func TestMemoryStore_GetJob_NotFound(t *testing.T) {
	s := store.NewMemoryStore()

	_, err := s.GetJob(context.Background(), "job_missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestMemoryStore_ListJobs_NewestFirst(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.CreateJob(ctx, newJob("job_a", "cmp_1")))
	require.NoError(t, s.CreateJob(ctx, newJob("job_b", "cmp_1")))
	require.NoError(t, s.CreateJob(ctx, newJob("job_c", "cmp_2")))

	jobs, err := s.ListJobs(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 3)
	assert.Equal(t, "job_c", jobs[0].ID)
	assert.Equal(t, "job_b", jobs[1].ID)
	assert.Equal(t, "job_a", jobs[2].ID)
}

func TestMemoryStore_ListJobsByCampaign(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.CreateJob(ctx, newJob("job_a", "cmp_1")))
	require.NoError(t, s.CreateJob(ctx, newJob("job_b", "cmp_2")))
	require.NoError(t, s.CreateJob(ctx, newJob("job_c", "cmp_1")))

	jobs, err := s.ListJobsByCampaign(ctx, "cmp_1")
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "job_c", jobs[0].ID)
	assert.Equal(t, "job_a", jobs[1].ID)

	jobs, err = s.ListJobsByCampaign(ctx, "cmp_none")
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestMemoryStore_UpdateJob_RefreshesUpdatedAt(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	job := newJob("job_a", "cmp_1")
	job.UpdatedAt = time.Now().UTC().Add(-time.Hour)
	require.NoError(t, s.CreateJob(ctx, job))

	got, err := s.UpdateJob(ctx, "job_a", func(j *models.Job) error {
		j.Status = models.JobStatusProcessing
		j.Progress = 10
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusProcessing, got.Status)
	assert.Equal(t, 10, got.Progress)
	assert.WithinDuration(t, time.Now().UTC(), got.UpdatedAt, time.Second)
}

func TestMemoryStore_UpdateJob_MutationErrorLeavesRecord(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.CreateJob(ctx, newJob("job_a", "cmp_1")))

	boom := errors.New("boom")
	_, err := s.UpdateJob(ctx, "job_a", func(j *models.Job) error {
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.GetJob(ctx, "job_a")
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusPending, got.Status)
}

func TestMemoryStore_UpdateJob_NotFound(t *testing.T) {
	s := store.NewMemoryStore()

	_, err := s.UpdateJob(context.Background(), "job_missing", func(j *models.Job) error {
		return nil
	})
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestMemoryStore_GetJob_ReturnsCopy(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.CreateJob(ctx, newJob("job_a", "cmp_1")))

	first, err := s.GetJob(ctx, "job_a")
	require.NoError(t, err)
	first.Status = models.JobStatusFailed
	first.Progress = 99

	second, err := s.GetJob(ctx, "job_a")
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusPending, second.Status)
	assert.Equal(t, 0, second.Progress)
}

func TestMemoryStore_Campaigns(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	s.AddCampaign(&models.Campaign{ID: "cmp_1", Name: "One", Status: models.CampaignStatusDraft})
	s.AddCampaign(&models.Campaign{ID: "cmp_2", Name: "Two", Status: models.CampaignStatusActive})

	all, err := s.ListCampaigns(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "cmp_1", all[0].ID)

	got, err := s.GetCampaign(ctx, "cmp_2")
	require.NoError(t, err)
	assert.Equal(t, "Two", got.Name)

	_, err = s.GetCampaign(ctx, "cmp_missing")
	require.ErrorIs(t, err, store.ErrNotFound)

	updated, err := s.UpdateCampaign(ctx, "cmp_1", func(c *models.Campaign) error {
		c.Status = models.CampaignStatusActive
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, models.CampaignStatusActive, updated.Status)
}

func TestMemoryStore_Assets(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	a := &models.Asset{ID: "asset_1", Name: "hero.png", Type: models.AssetTypeImage, Status: models.AssetStatusUploading}
	require.NoError(t, s.CreateAsset(ctx, "cmp_1", a))

	list, err := s.ListAssets(ctx, "cmp_1")
	require.NoError(t, err)
	require.Len(t, list, 1)

	updated, err := s.UpdateAsset(ctx, "cmp_1", "asset_1", func(a *models.Asset) error {
		a.Status = models.AssetStatusReady
		a.Progress = 100
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, models.AssetStatusReady, updated.Status)

	require.NoError(t, s.DeleteAsset(ctx, "cmp_1", "asset_1"))
	require.ErrorIs(t, s.DeleteAsset(ctx, "cmp_1", "asset_1"), store.ErrNotFound)

	list, err = s.ListAssets(ctx, "cmp_1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSeed(t *testing.T) {
	s := store.NewMemoryStore()
	store.Seed(s)
	ctx := context.Background()

	campaigns, err := s.ListCampaigns(ctx)
	require.NoError(t, err)
	assert.Len(t, campaigns, 8)

	jobs, err := s.ListJobs(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 4)
	assert.Equal(t, "job_001", jobs[0].ID)

	failed, err := s.GetJob(ctx, "job_004")
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusFailed, failed.Status)
	require.NotNil(t, failed.ErrorMessage)
}
