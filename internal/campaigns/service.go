// Package campaigns is the simulated campaign service: list with filters,
// sort and pagination, single fetch, partial update, and bulk status update
// with injected server conflicts.
package campaigns

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/amgohq/amgo/internal/sim"
	"github.com/amgohq/amgo/internal/store"
	"github.com/amgohq/amgo/pkg/models"
)

var (
	ErrConflict      = errors.New("status update failed: server conflict")
	ErrInvalidStatus = errors.New("invalid campaign status")
)

type Config struct {
	ConflictRate  float64
	FetchLatency  sim.Latency
	GetLatency    sim.Latency
	UpdateLatency sim.Latency
	BulkLatency   sim.Latency
}

func DefaultConfig() Config {
	return Config{
		ConflictRate:  0.05,
		FetchLatency:  sim.Latency{Min: 300 * time.Millisecond, Max: 700 * time.Millisecond},
		GetLatency:    sim.Latency{Min: 200 * time.Millisecond, Max: 500 * time.Millisecond},
		UpdateLatency: sim.Latency{Min: 500 * time.Millisecond, Max: 1000 * time.Millisecond},
		BulkLatency:   sim.Latency{Min: 400 * time.Millisecond, Max: 900 * time.Millisecond},
	}
}

// Filters narrow the campaign list. Zero values mean "no filter".
type Filters struct {
	Search  string
	Status  []models.CampaignStatus
	Channel []models.CampaignChannel
	From    string // inclusive start-date lower bound, YYYY-MM-DD
	To      string // inclusive start-date upper bound, YYYY-MM-DD
}

type Sort struct {
	Field     string
	Direction string // "asc" or "desc"
}

type Page struct {
	Page     int
	PageSize int
}

type ListResult struct {
	Campaigns []*models.Campaign
	Total     int
	Page      int
	PageSize  int
}

// Patch carries a partial campaign update; nil fields are left untouched.
type Patch struct {
	Name           *string
	Description    *string
	TargetAudience *string
	Owner          *string
	Budget         *float64
	StartDate      *string
	EndDate        *string
	Tags           *[]string
	Status         *models.CampaignStatus
}

type Service struct {
	store store.Store
	rng   sim.Rand
	cfg   Config

	// overlay holds tentative statuses while a bulk update is in flight:
	// applied before the simulated commit, cleared on success or rollback.
	mu      sync.Mutex
	overlay map[string]models.CampaignStatus
}

func NewService(st store.Store, rng sim.Rand, cfg Config) *Service {
	return &Service{store: st, rng: rng, cfg: cfg, overlay: make(map[string]models.CampaignStatus)}
}

// FetchAll lists campaigns matching the filters, sorted and paginated.
func (s *Service) FetchAll(ctx context.Context, f Filters, so Sort, p Page) (*ListResult, error) {
	if err := s.cfg.FetchLatency.Sleep(ctx, s.rng); err != nil {
		return nil, err
	}

	all, err := s.store.ListCampaigns(ctx)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	for _, c := range all {
		s.applyOverlay(c)
	}

	filtered := filter(all, f)
	sortCampaigns(filtered, so)

	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 10
	}

	total := len(filtered)
	start := (p.Page - 1) * p.PageSize
	if start > total {
		start = total
	}
	end := min(start+p.PageSize, total)

	return &ListResult{
		Campaigns: filtered[start:end],
		Total:     total,
		Page:      p.Page,
		PageSize:  p.PageSize,
	}, nil
}

// FetchByID returns one campaign or store.ErrNotFound.
func (s *Service) FetchByID(ctx context.Context, id string) (*models.Campaign, error) {
	if err := s.cfg.GetLatency.Sleep(ctx, s.rng); err != nil {
		return nil, err
	}

	c, err := s.store.GetCampaign(ctx, id)
	if err != nil {
		return nil, err
	}
	s.applyOverlay(c)
	return c, nil
}

// Update applies a partial patch to a campaign.
func (s *Service) Update(ctx context.Context, id string, patch Patch) (*models.Campaign, error) {
	if patch.Status != nil && !models.ValidCampaignStatus(*patch.Status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, *patch.Status)
	}
	if err := s.cfg.UpdateLatency.Sleep(ctx, s.rng); err != nil {
		return nil, err
	}

	return s.store.UpdateCampaign(ctx, id, func(c *models.Campaign) error {
		if patch.Name != nil {
			c.Name = *patch.Name
		}
		if patch.Description != nil {
			c.Description = *patch.Description
		}
		if patch.TargetAudience != nil {
			c.TargetAudience = *patch.TargetAudience
		}
		if patch.Owner != nil {
			c.Owner = *patch.Owner
		}
		if patch.Budget != nil {
			c.Budget = *patch.Budget
		}
		if patch.StartDate != nil {
			c.StartDate = *patch.StartDate
		}
		if patch.EndDate != nil {
			c.EndDate = *patch.EndDate
		}
		if patch.Tags != nil {
			c.Tags = append([]string(nil), (*patch.Tags)...)
		}
		if patch.Status != nil {
			c.Status = *patch.Status
		}
		return nil
	})
}

// UpdateStatus is the bulk status update: tentative statuses become visible
// to concurrent reads immediately, then the commit either lands in the store
// or is rolled back when the injected conflict fires, in which case the
// caller decides whether to retry the whole operation.
func (s *Service) UpdateStatus(ctx context.Context, ids []string, status models.CampaignStatus) ([]*models.Campaign, error) {
	if !models.ValidCampaignStatus(status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	s.setOverlay(ids, status)

	if err := s.cfg.BulkLatency.Sleep(ctx, s.rng); err != nil {
		s.clearOverlay(ids)
		return nil, err
	}

	if s.rng.Float64() < s.cfg.ConflictRate {
		s.clearOverlay(ids)
		return nil, ErrConflict
	}

	var updated []*models.Campaign
	for _, id := range ids {
		c, err := s.store.UpdateCampaign(ctx, id, func(c *models.Campaign) error {
			c.Status = status
			return nil
		})
		if errors.Is(err, store.ErrNotFound) {
			continue // unknown ids are skipped, not fatal
		}
		if err != nil {
			s.clearOverlay(ids)
			return nil, err
		}
		updated = append(updated, c)
	}

	s.clearOverlay(ids)
	return updated, nil
}

func (s *Service) setOverlay(ids []string, status models.CampaignStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		s.overlay[id] = status
	}
}

func (s *Service) clearOverlay(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		delete(s.overlay, id)
	}
}

func (s *Service) applyOverlay(c *models.Campaign) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status, ok := s.overlay[c.ID]; ok {
		c.Status = status
	}
}

func filter(all []*models.Campaign, f Filters) []*models.Campaign {
	out := make([]*models.Campaign, 0, len(all))

	q := strings.ToLower(strings.TrimSpace(f.Search))

	for _, c := range all {
		if q != "" && !matchesSearch(c, q) {
			continue
		}
		if len(f.Status) > 0 && !containsStatus(f.Status, c.Status) {
			continue
		}
		if len(f.Channel) > 0 && !containsChannel(f.Channel, c.Channel) {
			continue
		}
		if f.From != "" && c.StartDate < f.From {
			continue
		}
		if f.To != "" && c.StartDate > f.To {
			continue
		}
		out = append(out, c)
	}
	return out
}

func matchesSearch(c *models.Campaign, q string) bool {
	if strings.Contains(strings.ToLower(c.Name), q) || strings.Contains(strings.ToLower(c.Owner), q) {
		return true
	}
	for _, tag := range c.Tags {
		if strings.Contains(tag, q) {
			return true
		}
	}
	return false
}

func containsStatus(list []models.CampaignStatus, s models.CampaignStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func containsChannel(list []models.CampaignChannel, c models.CampaignChannel) bool {
	for _, v := range list {
		if v == c {
			return true
		}
	}
	return false
}

// sortCampaigns orders by the named field. String fields compare
// lexicographically, which also works for the ISO date fields.
func sortCampaigns(list []*models.Campaign, so Sort) {
	if so.Field == "" {
		return
	}
	desc := so.Direction == "desc"

	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if desc {
			a, b = b, a
		}
		switch so.Field {
		case "name":
			return a.Name < b.Name
		case "status":
			return a.Status < b.Status
		case "channel":
			return a.Channel < b.Channel
		case "owner":
			return a.Owner < b.Owner
		case "budget":
			return a.Budget < b.Budget
		case "spent":
			return a.Spent < b.Spent
		case "impressions":
			return a.Impressions < b.Impressions
		case "clicks":
			return a.Clicks < b.Clicks
		case "conversions":
			return a.Conversions < b.Conversions
		case "ctr":
			return a.CTR < b.CTR
		case "start_date":
			return a.StartDate < b.StartDate
		case "end_date":
			return a.EndDate < b.EndDate
		case "created_at":
			return a.CreatedAt.Before(b.CreatedAt)
		case "updated_at":
			return a.UpdatedAt.Before(b.UpdatedAt)
		default:
			return false
		}
	})
}
