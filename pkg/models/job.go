package models

import "time"

type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

type JobKind string

const (
	JobKindExport   JobKind = "export"
	JobKindSync     JobKind = "sync"
	JobKindAnalysis JobKind = "analysis"
	JobKindReport   JobKind = "report"
)

// ValidJobKind reports whether k is one of the four supported work types.
func ValidJobKind(k JobKind) bool {
	switch k {
	case JobKindExport, JobKindSync, JobKindAnalysis, JobKindReport:
		return true
	}
	return false
}

// Job is one simulated unit of async work owned by a campaign. Jobs are
// created pending and driven to a terminal state by the polling loop;
// the only way out of a terminal state is an explicit retry of a failed job.
type Job struct {
	ID           string    `json:"id"`
	CampaignID   string    `json:"campaign_id"`
	CampaignName string    `json:"campaign_name"`
	Kind         JobKind   `json:"kind"`
	Status       JobStatus `json:"status"`
	Progress     int       `json:"progress"`
	Message      string    `json:"message"`
	ErrorMessage *string   `json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Terminal reports whether the job has reached completed or failed.
func (j *Job) Terminal() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailed
}

// Clone returns a copy safe to hand out across goroutine boundaries.
func (j *Job) Clone() *Job {
	c := *j
	if j.ErrorMessage != nil {
		msg := *j.ErrorMessage
		c.ErrorMessage = &msg
	}
	return &c
}
