package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/amgohq/amgo/internal/api/response"
	"github.com/amgohq/amgo/internal/jobs"
	"github.com/amgohq/amgo/pkg/models"
)

// JobService defines the simulator operations the job handlers depend on.
type JobService interface {
	Create(ctx context.Context, campaignID, campaignName string, kind models.JobKind) (*models.Job, error)
	Retry(ctx context.Context, jobID string) (*models.Job, error)
}

// JobPoller defines the polling-coordinator operations the job handlers
// depend on.
type JobPoller interface {
	Start(jobID string)
	Stop(jobID string)
	IsActive(jobID string) bool
	ActiveIDs() []string
}

// JobReader is the read-only slice of the store the job handlers use.
type JobReader interface {
	ListJobs(ctx context.Context) ([]*models.Job, error)
	ListJobsByCampaign(ctx context.Context, campaignID string) ([]*models.Job, error)
	GetJob(ctx context.Context, id string) (*models.Job, error)
}

// CampaignReader resolves the owning campaign when a job is created.
type CampaignReader interface {
	GetCampaign(ctx context.Context, id string) (*models.Campaign, error)
}

// NewListJobsHandler returns an http.HandlerFunc for GET /api/v1/jobs.
// The payload carries every job newest-first plus the ids currently being
// polled, so a client can resubscribe after a reload.
func NewListJobsHandler(st JobReader, poller JobPoller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := st.ListJobs(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		response.JSON(w, map[string]any{
			"jobs":           list,
			"active_polling": poller.ActiveIDs(),
		})
	}
}

// NewListCampaignJobsHandler returns an http.HandlerFunc for
// GET /api/v1/campaigns/{campaignID}/jobs.
func NewListCampaignJobsHandler(st JobReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := st.ListJobsByCampaign(r.Context(), chi.URLParam(r, "campaignID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		response.JSON(w, list)
	}
}

// NewCreateJobHandler returns an http.HandlerFunc for
// POST /api/v1/campaigns/{campaignID}/jobs. The job is created pending and
// its polling loop starts immediately; the client polls GET /api/v1/jobs/{jobID}
// or subscribes to the watch stream for progress.
func NewCreateJobHandler(svc JobService, campaignsStore CampaignReader, feed *jobs.Feed, poller JobPoller, bus Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Kind models.JobKind `json:"kind"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}
		if !models.ValidJobKind(req.Kind) {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				fmt.Sprintf("unknown job kind %q", req.Kind), nil)
			return
		}

		campaignID := chi.URLParam(r, "campaignID")
		campaign, err := campaignsStore.GetCampaign(r.Context(), campaignID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		job, err := svc.Create(r.Context(), campaign.ID, campaign.Name, req.Kind)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		feed.Upsert(job)
		poller.Start(job.ID)
		bus.Info("Job created", fmt.Sprintf("%s job queued for %s.", job.Kind, campaign.Name))

		response.Created(w, job)
	}
}

// NewGetJobHandler returns an http.HandlerFunc for GET /api/v1/jobs/{jobID},
// the endpoint clients poll until the job reaches a terminal state.
func NewGetJobHandler(st JobReader, poller JobPoller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID := chi.URLParam(r, "jobID")
		job, err := st.GetJob(r.Context(), jobID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		response.JSON(w, map[string]any{
			"job":     job,
			"polling": poller.IsActive(jobID),
		})
	}
}

// NewRetryJobHandler returns an http.HandlerFunc for POST /api/v1/jobs/{jobID}/retry.
func NewRetryJobHandler(svc JobService, feed *jobs.Feed, poller JobPoller, bus Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		job, err := svc.Retry(r.Context(), chi.URLParam(r, "jobID"))
		if err != nil {
			if errors.Is(err, jobs.ErrInvalidState) {
				response.Error(w, http.StatusConflict, "INVALID_STATE",
					"Only failed jobs can be retried", nil)
				return
			}
			writeServiceError(w, err)
			return
		}

		feed.Upsert(job)
		poller.Start(job.ID)
		bus.Info("Job requeued", fmt.Sprintf("Retrying %s job for %s.", job.Kind, job.CampaignName))

		response.JSON(w, job)
	}
}

// NewStopJobPollingHandler returns an http.HandlerFunc for
// DELETE /api/v1/jobs/{jobID}/polling. The job itself is untouched; only
// its polling loop is cancelled.
func NewStopJobPollingHandler(st JobReader, poller JobPoller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID := chi.URLParam(r, "jobID")
		if _, err := st.GetJob(r.Context(), jobID); err != nil {
			writeServiceError(w, err)
			return
		}

		poller.Stop(jobID)
		response.JSON(w, map[string]any{
			"job_id":  jobID,
			"polling": false,
		})
	}
}

// NewWatchJobsHandler returns an http.HandlerFunc for GET /api/v1/jobs/watch,
// a server-sent-events stream of job updates. The current snapshot is sent
// first so subscribers do not need a separate list call.
func NewWatchJobsHandler(feed *jobs.Feed) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Streaming is not supported", nil)
			return
		}

		// Subscribe before snapshotting so updates racing the snapshot are
		// delivered rather than lost.
		updates := feed.Watch(r.Context())

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)

		for _, job := range feed.Snapshot() {
			writeSSE(w, "snapshot", job)
		}
		flusher.Flush()

		for job := range updates {
			writeSSE(w, "update", job)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, event string, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload)
}
