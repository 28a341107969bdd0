// Package jobs implements the simulated async job engine: a transition
// function that advances a job through pending -> processing -> completed or
// failed, a polling coordinator that drives jobs to a terminal state, and an
// observable feed consumed by the API layer.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/amgohq/amgo/internal/sim"
	"github.com/amgohq/amgo/internal/store"
	"github.com/amgohq/amgo/pkg/models"
)

var (
	ErrInvalidKind  = errors.New("invalid job kind")
	ErrInvalidState = errors.New("job is not in a retryable state")
)

// SimulatorConfig tunes the transition function. The defaults mirror the
// reference behaviour of the dashboard's mock service layer.
type SimulatorConfig struct {
	FailureRate         float64
	InitialProgressMin  int
	InitialProgressMax  int
	IncrementMin        int
	IncrementMax        int
	CompletionThreshold int
	CreateLatency       sim.Latency
	AdvanceLatency      sim.Latency
}

func DefaultSimulatorConfig() SimulatorConfig {
	return SimulatorConfig{
		FailureRate:         0.08,
		InitialProgressMin:  5,
		InitialProgressMax:  15,
		IncrementMin:        10,
		IncrementMax:        25,
		CompletionThreshold: 95,
		CreateLatency:       sim.Latency{Min: 200 * time.Millisecond, Max: 400 * time.Millisecond},
		AdvanceLatency:      sim.Latency{Min: 800 * time.Millisecond, Max: 1500 * time.Millisecond},
	}
}

// Simulator computes and persists job state transitions, simulating real
// asynchronous work with randomized progress and failure injection.
type Simulator struct {
	store store.Store
	rng   sim.Rand
	cfg   SimulatorConfig
}

func NewSimulator(st store.Store, rng sim.Rand, cfg SimulatorConfig) *Simulator {
	return &Simulator{store: st, rng: rng, cfg: cfg}
}

// Create allocates a pending job for the campaign. Fails only on an
// unknown kind.
func (s *Simulator) Create(ctx context.Context, campaignID, campaignName string, kind models.JobKind) (*models.Job, error) {
	if !models.ValidJobKind(kind) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	if err := s.cfg.CreateLatency.Sleep(ctx, s.rng); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	job := &models.Job{
		ID:           models.NewID("job"),
		CampaignID:   campaignID,
		CampaignName: campaignName,
		Kind:         kind,
		Status:       models.JobStatusPending,
		Progress:     0,
		Message:      "Job queued.",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.CreateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	return job, nil
}

// Advance moves the job one step through its lifecycle and persists the
// result. Terminal jobs pass through unchanged apart from updated_at.
//
// The simulated latency elapses before the store is read, so the mutation
// always runs against the latest persisted record.
func (s *Simulator) Advance(ctx context.Context, jobID string) (*models.Job, error) {
	if err := s.cfg.AdvanceLatency.Sleep(ctx, s.rng); err != nil {
		return nil, err
	}

	return s.store.UpdateJob(ctx, jobID, func(j *models.Job) error {
		switch j.Status {
		case models.JobStatusPending:
			j.Status = models.JobStatusProcessing
			j.Progress = sim.Between(s.rng, s.cfg.InitialProgressMin, s.cfg.InitialProgressMax)
			j.Message = "Initializing..."

		case models.JobStatusProcessing:
			increment := sim.Between(s.rng, s.cfg.IncrementMin, s.cfg.IncrementMax)
			j.Progress = min(j.Progress+increment, s.cfg.CompletionThreshold)
			j.Message = progressMessage(j.Progress, j.Kind)

			// The failure draw deliberately precedes the completion check:
			// a job sitting at the threshold can still fail on its final poll.
			if s.rng.Float64() < s.cfg.FailureRate {
				j.Status = models.JobStatusFailed
				msg := "An unexpected error occurred during processing. Please retry."
				j.ErrorMessage = &msg
				j.Message = "Job failed."
			} else if j.Progress >= s.cfg.CompletionThreshold {
				j.Status = models.JobStatusCompleted
				j.Progress = 100
				j.Message = completionMessage(j.Kind)
			}
		}
		return nil
	})
}

// Retry requeues a failed job: status back to pending, progress to zero,
// error cleared. Any other starting state is rejected.
func (s *Simulator) Retry(ctx context.Context, jobID string) (*models.Job, error) {
	return s.store.UpdateJob(ctx, jobID, func(j *models.Job) error {
		if j.Status != models.JobStatusFailed {
			return fmt.Errorf("%w: status is %q", ErrInvalidState, j.Status)
		}
		j.Status = models.JobStatusPending
		j.Progress = 0
		j.Message = "Job requeued."
		j.ErrorMessage = nil
		return nil
	})
}
