package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amgohq/amgo/internal/jobs"
	"github.com/amgohq/amgo/internal/store"
	"github.com/amgohq/amgo/pkg/models"
)

// --- mock JobService ---

type mockJobService struct {
	create func(campaignID, campaignName string, kind models.JobKind) (*models.Job, error)
	retry  func(jobID string) (*models.Job, error)
}

func (m *mockJobService) Create(_ context.Context, campaignID, campaignName string, kind models.JobKind) (*models.Job, error) {
	return m.create(campaignID, campaignName, kind)
}

func (m *mockJobService) Retry(_ context.Context, jobID string) (*models.Job, error) {
	return m.retry(jobID)
}

func sampleJob(id string, status models.JobStatus) *models.Job {
	return &models.Job{
		ID:           id,
		CampaignID:   "cmp_1",
		CampaignName: "Sample",
		Kind:         models.JobKindExport,
		Status:       status,
		Message:      "Job queued.",
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
}

func seededJobStore(t *testing.T, list ...*models.Job) *store.MemoryStore {
	t.Helper()
	s := store.NewMemoryStore()
	s.AddCampaign(&models.Campaign{ID: "cmp_1", Name: "Sample", Status: models.CampaignStatusActive})
	for _, j := range list {
		require.NoError(t, s.CreateJob(context.Background(), j))
	}
	return s
}

// --- list ---

func TestListJobsHandler_IncludesActivePolling(t *testing.T) {
	st := seededJobStore(t, sampleJob("job_a", models.JobStatusCompleted), sampleJob("job_b", models.JobStatusProcessing))
	poller := &mockPoller{active: []string{"job_b"}}

	rec := httptest.NewRecorder()
	NewListJobsHandler(st, poller).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil))

	data := decodeData(t, rec, http.StatusOK)
	assert.Len(t, data["jobs"], 2)
	assert.Equal(t, []any{"job_b"}, data["active_polling"])
}

func TestListCampaignJobsHandler_FiltersByCampaign(t *testing.T) {
	other := sampleJob("job_x", models.JobStatusPending)
	other.CampaignID = "cmp_2"
	st := seededJobStore(t, sampleJob("job_a", models.JobStatusCompleted), other)

	r := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/campaigns/cmp_1/jobs", nil), "campaignID", "cmp_1")
	rec := httptest.NewRecorder()
	NewListCampaignJobsHandler(st).ServeHTTP(rec, r)

	data := decodeDataList(t, rec, http.StatusOK)
	require.Len(t, data, 1)
	assert.Equal(t, "job_a", data[0].(map[string]any)["id"])
}

// --- create ---

func TestCreateJobHandler_Success(t *testing.T) {
	st := seededJobStore(t)
	feed := jobs.NewFeed()
	poller := &mockPoller{}
	bus := &mockNotifier{}
	svc := &mockJobService{create: func(campaignID, campaignName string, kind models.JobKind) (*models.Job, error) {
		j := sampleJob("job_new", models.JobStatusPending)
		j.CampaignID = campaignID
		j.CampaignName = campaignName
		j.Kind = kind
		return j, nil
	}}

	body := bytes.NewBufferString(`{"kind":"export"}`)
	r := withURLParam(httptest.NewRequest(http.MethodPost, "/api/v1/campaigns/cmp_1/jobs", body), "campaignID", "cmp_1")
	rec := httptest.NewRecorder()
	NewCreateJobHandler(svc, st, feed, poller, bus).ServeHTTP(rec, r)

	data := decodeData(t, rec, http.StatusCreated)
	assert.Equal(t, "job_new", data["id"])
	assert.Equal(t, "Sample", data["campaign_name"])

	assert.Equal(t, []string{"job_new"}, poller.started)
	assert.Equal(t, []string{"Job created"}, bus.infos)
	require.Len(t, feed.Snapshot(), 1)
	assert.Equal(t, "job_new", feed.Snapshot()[0].ID)
}

func TestCreateJobHandler_UnknownKind(t *testing.T) {
	st := seededJobStore(t)
	poller := &mockPoller{}

	body := bytes.NewBufferString(`{"kind":"backfill"}`)
	r := withURLParam(httptest.NewRequest(http.MethodPost, "/api/v1/campaigns/cmp_1/jobs", body), "campaignID", "cmp_1")
	rec := httptest.NewRecorder()
	NewCreateJobHandler(&mockJobService{}, st, jobs.NewFeed(), poller, &mockNotifier{}).ServeHTTP(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_REQUEST", decodeErrCode(t, rec))
	assert.Empty(t, poller.started)
}

func TestCreateJobHandler_UnknownCampaign(t *testing.T) {
	st := seededJobStore(t)

	body := bytes.NewBufferString(`{"kind":"export"}`)
	r := withURLParam(httptest.NewRequest(http.MethodPost, "/api/v1/campaigns/cmp_404/jobs", body), "campaignID", "cmp_404")
	rec := httptest.NewRecorder()
	NewCreateJobHandler(&mockJobService{}, st, jobs.NewFeed(), &mockPoller{}, &mockNotifier{}).ServeHTTP(rec, r)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decodeErrCode(t, rec))
}

// --- get / poll ---

func TestGetJobHandler_ReportsPollingState(t *testing.T) {
	st := seededJobStore(t, sampleJob("job_a", models.JobStatusProcessing))
	poller := &mockPoller{active: []string{"job_a"}}

	r := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/jobs/job_a", nil), "jobID", "job_a")
	rec := httptest.NewRecorder()
	NewGetJobHandler(st, poller).ServeHTTP(rec, r)

	data := decodeData(t, rec, http.StatusOK)
	job := data["job"].(map[string]any)
	assert.Equal(t, "job_a", job["id"])
	assert.Equal(t, true, data["polling"])
}

func TestGetJobHandler_NotFound(t *testing.T) {
	st := seededJobStore(t)

	r := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/jobs/nope", nil), "jobID", "nope")
	rec := httptest.NewRecorder()
	NewGetJobHandler(st, &mockPoller{}).ServeHTTP(rec, r)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// --- retry ---

func TestRetryJobHandler_Success(t *testing.T) {
	feed := jobs.NewFeed()
	poller := &mockPoller{}
	bus := &mockNotifier{}
	svc := &mockJobService{retry: func(jobID string) (*models.Job, error) {
		j := sampleJob(jobID, models.JobStatusPending)
		j.Message = "Job requeued."
		return j, nil
	}}

	r := withURLParam(httptest.NewRequest(http.MethodPost, "/api/v1/jobs/job_f/retry", nil), "jobID", "job_f")
	rec := httptest.NewRecorder()
	NewRetryJobHandler(svc, feed, poller, bus).ServeHTTP(rec, r)

	data := decodeData(t, rec, http.StatusOK)
	assert.Equal(t, "pending", data["status"])
	assert.Equal(t, []string{"job_f"}, poller.started)
	assert.Equal(t, []string{"Job requeued"}, bus.infos)
}

func TestRetryJobHandler_InvalidState(t *testing.T) {
	svc := &mockJobService{retry: func(string) (*models.Job, error) {
		return nil, jobs.ErrInvalidState
	}}
	poller := &mockPoller{}

	r := withURLParam(httptest.NewRequest(http.MethodPost, "/api/v1/jobs/job_a/retry", nil), "jobID", "job_a")
	rec := httptest.NewRecorder()
	NewRetryJobHandler(svc, jobs.NewFeed(), poller, &mockNotifier{}).ServeHTTP(rec, r)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "INVALID_STATE", decodeErrCode(t, rec))
	assert.Empty(t, poller.started)
}

func TestRetryJobHandler_NotFound(t *testing.T) {
	svc := &mockJobService{retry: func(string) (*models.Job, error) {
		return nil, store.ErrNotFound
	}}

	r := withURLParam(httptest.NewRequest(http.MethodPost, "/api/v1/jobs/nope/retry", nil), "jobID", "nope")
	rec := httptest.NewRecorder()
	NewRetryJobHandler(svc, jobs.NewFeed(), &mockPoller{}, &mockNotifier{}).ServeHTTP(rec, r)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// --- stop polling ---

func TestStopJobPollingHandler_Success(t *testing.T) {
	st := seededJobStore(t, sampleJob("job_a", models.JobStatusProcessing))
	poller := &mockPoller{active: []string{"job_a"}}

	r := withURLParam(httptest.NewRequest(http.MethodDelete, "/api/v1/jobs/job_a/polling", nil), "jobID", "job_a")
	rec := httptest.NewRecorder()
	NewStopJobPollingHandler(st, poller).ServeHTTP(rec, r)

	data := decodeData(t, rec, http.StatusOK)
	assert.Equal(t, "job_a", data["job_id"])
	assert.Equal(t, false, data["polling"])
	assert.Equal(t, []string{"job_a"}, poller.stopped)
}

func TestStopJobPollingHandler_NotFound(t *testing.T) {
	st := seededJobStore(t)
	poller := &mockPoller{}

	r := withURLParam(httptest.NewRequest(http.MethodDelete, "/api/v1/jobs/nope/polling", nil), "jobID", "nope")
	rec := httptest.NewRecorder()
	NewStopJobPollingHandler(st, poller).ServeHTTP(rec, r)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, poller.stopped)
}

// --- watch ---

func TestWatchJobsHandler_StreamsSnapshotAndUpdates(t *testing.T) {
	feed := jobs.NewFeed()
	feed.SetAll([]*models.Job{sampleJob("job_a", models.JobStatusProcessing)})

	ctx, cancel := context.WithCancel(context.Background())
	r := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/watch", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		NewWatchJobsHandler(feed).ServeHTTP(rec, r)
		close(done)
	}()

	// Give the handler time to subscribe and write the snapshot, then push
	// an update through the feed.
	time.Sleep(20 * time.Millisecond)
	feed.Upsert(sampleJob("job_b", models.JobStatusPending))
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler did not exit after cancellation")
	}

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "event: snapshot"), body)
	assert.True(t, strings.Contains(body, `"id":"job_a"`), body)
	assert.True(t, strings.Contains(body, "event: update"), body)
	assert.True(t, strings.Contains(body, `"id":"job_b"`), body)
}
