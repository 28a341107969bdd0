package store

import (
	"context"
	"time"

	"github.com/amgohq/amgo/pkg/models"
)

func ts(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

func strptr(s string) *string { return &s }

// Seed loads the demo dataset: eight campaigns across the status and channel
// enums plus four jobs, one per terminal and non-terminal shape. Intended for
// development mode and tests; production-less by definition, the store is
// otherwise empty on startup.
func Seed(s *MemoryStore) {
	for _, c := range seedCampaigns() {
		s.AddCampaign(c)
	}
	// AddCampaign clones; jobs go through CreateJob which prepends, so feed
	// them oldest-first to end up newest-first.
	jobs := seedJobs()
	for i := len(jobs) - 1; i >= 0; i-- {
		_ = s.CreateJob(context.Background(), jobs[i])
	}
}

func seedCampaigns() []*models.Campaign {
	return []*models.Campaign{
		{
			ID: "cmp_001", Name: "Q1 Brand Awareness Push",
			Status: models.CampaignStatusActive, Channel: models.ChannelEmail,
			Budget: 15000, Spent: 8420,
			Impressions: 284000, Clicks: 14200, Conversions: 1136, CTR: 5.0,
			StartDate: "2026-01-01", EndDate: "2026-03-31",
			Tags:        []string{"brand", "awareness", "q1"},
			Description: "Broad brand awareness campaign targeting new user acquisition across email channels with personalized messaging.",
			TargetAudience: "Ages 25-45, Tech-savvy professionals", Owner: "Priya Sharma",
			CreatedAt: ts("2025-12-20T09:00:00Z"), UpdatedAt: ts("2026-02-15T14:30:00Z"),
		},
		{
			ID: "cmp_002", Name: "Retargeting High-Intent Users",
			Status: models.CampaignStatusActive, Channel: models.ChannelPush,
			Budget: 8000, Spent: 4100,
			Impressions: 92000, Clicks: 7360, Conversions: 883, CTR: 8.0,
			StartDate: "2026-01-15", EndDate: "2026-04-15",
			Tags:        []string{"retargeting", "high-intent", "push"},
			Description: "Retarget users who visited pricing page but did not convert.",
			TargetAudience: "Website visitors, cart abandoners", Owner: "Rohan Mehta",
			CreatedAt: ts("2026-01-10T11:00:00Z"), UpdatedAt: ts("2026-02-18T09:00:00Z"),
		},
		{
			ID: "cmp_003", Name: "SMB Outreach — February",
			Status: models.CampaignStatusPaused, Channel: models.ChannelEmail,
			Budget: 5000, Spent: 2200,
			Impressions: 48000, Clicks: 2160, Conversions: 173, CTR: 4.5,
			StartDate: "2026-02-01", EndDate: "2026-02-28",
			Tags:        []string{"smb", "outreach", "february"},
			Description: "Targeted outreach to small and medium business decision-makers.",
			TargetAudience: "Business owners, C-suite, 10-200 employees", Owner: "Anjali Nair",
			CreatedAt: ts("2026-01-28T08:00:00Z"), UpdatedAt: ts("2026-02-10T16:00:00Z"),
		},
		{
			ID: "cmp_004", Name: "Product Launch — v3.0",
			Status: models.CampaignStatusDraft, Channel: models.ChannelInApp,
			Budget: 20000, Spent: 0,
			Impressions: 0, Clicks: 0, Conversions: 0, CTR: 0,
			StartDate: "2026-03-01", EndDate: "2026-03-31",
			Tags:        []string{"launch", "product", "v3"},
			Description: "In-app campaign announcing v3.0 feature set to existing users.",
			TargetAudience: "Existing paid users, all plans", Owner: "Vikram Patel",
			CreatedAt: ts("2026-02-10T10:00:00Z"), UpdatedAt: ts("2026-02-20T11:00:00Z"),
		},
		{
			ID: "cmp_005", Name: "Holiday Social Blitz",
			Status: models.CampaignStatusCompleted, Channel: models.ChannelSocial,
			Budget: 12000, Spent: 11800,
			Impressions: 520000, Clicks: 31200, Conversions: 2184, CTR: 6.0,
			StartDate: "2025-12-01", EndDate: "2025-12-31",
			Tags:        []string{"social", "holiday", "seasonal"},
			Description: "Seasonal social media campaign across all channels for holiday promotions.",
			TargetAudience: "All demographics, 18-55", Owner: "Priya Sharma",
			CreatedAt: ts("2025-11-15T09:00:00Z"), UpdatedAt: ts("2026-01-02T10:00:00Z"),
		},
		{
			ID: "cmp_006", Name: "Enterprise ABM Wave 2",
			Status: models.CampaignStatusActive, Channel: models.ChannelEmail,
			Budget: 25000, Spent: 10500,
			Impressions: 18500, Clicks: 1295, Conversions: 259, CTR: 7.0,
			StartDate: "2026-02-01", EndDate: "2026-05-31",
			Tags:        []string{"enterprise", "abm", "b2b"},
			Description: "Account-based marketing targeting Fortune 500 prospects with personalized content.",
			TargetAudience: "Enterprise accounts >1000 employees", Owner: "Rohan Mehta",
			CreatedAt: ts("2026-01-20T13:00:00Z"), UpdatedAt: ts("2026-02-19T15:00:00Z"),
		},
		{
			ID: "cmp_007", Name: "SMS Win-Back Series",
			Status: models.CampaignStatusFailed, Channel: models.ChannelSMS,
			Budget: 3000, Spent: 1400,
			Impressions: 24000, Clicks: 720, Conversions: 36, CTR: 3.0,
			StartDate: "2026-01-20", EndDate: "2026-02-20",
			Tags:        []string{"sms", "winback", "churn"},
			Description: "Win-back campaign targeting churned users from last 90 days via SMS.",
			TargetAudience: "Churned users, last active 90-180 days ago", Owner: "Anjali Nair",
			CreatedAt: ts("2026-01-15T08:00:00Z"), UpdatedAt: ts("2026-02-12T09:00:00Z"),
		},
		{
			ID: "cmp_008", Name: "Upsell Pro → Business",
			Status: models.CampaignStatusActive, Channel: models.ChannelInApp,
			Budget: 0, Spent: 0,
			Impressions: 64000, Clicks: 6400, Conversions: 576, CTR: 10.0,
			StartDate: "2026-01-01", EndDate: "2026-06-30",
			Tags:        []string{"upsell", "in-app", "revenue"},
			Description: "In-app prompts encouraging Pro plan users to upgrade to Business tier.",
			TargetAudience: "Pro plan users with high usage", Owner: "Vikram Patel",
			CreatedAt: ts("2025-12-28T12:00:00Z"), UpdatedAt: ts("2026-02-20T08:00:00Z"),
		},
	}
}

func seedJobs() []*models.Job {
	return []*models.Job{
		{
			ID: "job_001", CampaignID: "cmp_001", CampaignName: "Q1 Brand Awareness Push",
			Kind: models.JobKindAnalysis, Status: models.JobStatusCompleted, Progress: 100,
			Message:   "Analysis complete. 284K impressions processed.",
			CreatedAt: ts("2026-02-20T08:00:00Z"), UpdatedAt: ts("2026-02-20T08:12:00Z"),
		},
		{
			ID: "job_002", CampaignID: "cmp_006", CampaignName: "Enterprise ABM Wave 2",
			Kind: models.JobKindExport, Status: models.JobStatusProcessing, Progress: 62,
			Message:   "Exporting contact segments...",
			CreatedAt: ts("2026-02-21T06:30:00Z"), UpdatedAt: ts("2026-02-21T06:38:00Z"),
		},
		{
			ID: "job_003", CampaignID: "cmp_005", CampaignName: "Holiday Social Blitz",
			Kind: models.JobKindReport, Status: models.JobStatusCompleted, Progress: 100,
			Message:   "Final performance report generated.",
			CreatedAt: ts("2026-01-02T09:00:00Z"), UpdatedAt: ts("2026-01-02T09:05:00Z"),
		},
		{
			ID: "job_004", CampaignID: "cmp_007", CampaignName: "SMS Win-Back Series",
			Kind: models.JobKindSync, Status: models.JobStatusFailed, Progress: 34,
			Message:      "Sync interrupted.",
			ErrorMessage: strptr("Contact list validation failed: duplicate phone numbers detected in segment."),
			CreatedAt:    ts("2026-02-12T07:00:00Z"), UpdatedAt: ts("2026-02-12T07:04:00Z"),
		},
	}
}
