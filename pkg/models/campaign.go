package models

import "time"

type CampaignStatus string

const (
	CampaignStatusActive    CampaignStatus = "active"
	CampaignStatusPaused    CampaignStatus = "paused"
	CampaignStatusDraft     CampaignStatus = "draft"
	CampaignStatusCompleted CampaignStatus = "completed"
	CampaignStatusFailed    CampaignStatus = "failed"
)

// ValidCampaignStatus reports whether s is a known campaign status.
func ValidCampaignStatus(s CampaignStatus) bool {
	switch s {
	case CampaignStatusActive, CampaignStatusPaused, CampaignStatusDraft,
		CampaignStatusCompleted, CampaignStatusFailed:
		return true
	}
	return false
}

type CampaignChannel string

const (
	ChannelEmail  CampaignChannel = "email"
	ChannelSMS    CampaignChannel = "sms"
	ChannelPush   CampaignChannel = "push"
	ChannelInApp  CampaignChannel = "in-app"
	ChannelSocial CampaignChannel = "social"
)

// ValidCampaignChannel reports whether c is a known delivery channel.
func ValidCampaignChannel(c CampaignChannel) bool {
	switch c {
	case ChannelEmail, ChannelSMS, ChannelPush, ChannelInApp, ChannelSocial:
		return true
	}
	return false
}

// Campaign is a marketing campaign with its rolled-up performance counters.
type Campaign struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Status         CampaignStatus  `json:"status"`
	Channel        CampaignChannel `json:"channel"`
	Budget         float64         `json:"budget"`
	Spent          float64         `json:"spent"`
	Impressions    int64           `json:"impressions"`
	Clicks         int64           `json:"clicks"`
	Conversions    int64           `json:"conversions"`
	CTR            float64         `json:"ctr"`
	StartDate      string          `json:"start_date"`
	EndDate        string          `json:"end_date"`
	Tags           []string        `json:"tags"`
	Description    string          `json:"description"`
	TargetAudience string          `json:"target_audience"`
	Owner          string          `json:"owner"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Clone returns a copy safe to hand out across goroutine boundaries.
func (c *Campaign) Clone() *Campaign {
	cp := *c
	cp.Tags = append([]string(nil), c.Tags...)
	return &cp
}
