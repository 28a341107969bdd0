package store

import (
	"context"
	"sync"
	"time"

	"github.com/amgohq/amgo/pkg/models"
)

// MemoryStore implements Store with in-process state. There is no
// persistence by design: the data plane is a simulation and all records
// accumulate for the lifetime of the process.
//
// Jobs are held newest-first; campaigns and assets keep insertion order.
type MemoryStore struct {
	mu        sync.RWMutex
	campaigns []*models.Campaign
	jobs      []*models.Job
	assets    map[string][]*models.Asset

	now func() time.Time
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		assets: make(map[string][]*models.Asset),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// --- Campaigns ---

func (s *MemoryStore) ListCampaigns(_ context.Context) ([]*models.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Campaign, 0, len(s.campaigns))
	for _, c := range s.campaigns {
		out = append(out, c.Clone())
	}
	return out, nil
}

func (s *MemoryStore) GetCampaign(_ context.Context, id string) (*models.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.campaigns {
		if c.ID == id {
			return c.Clone(), nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) UpdateCampaign(_ context.Context, id string, mutate func(*models.Campaign) error) (*models.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.campaigns {
		if c.ID == id {
			if err := mutate(c); err != nil {
				return nil, err
			}
			c.UpdatedAt = s.now()
			return c.Clone(), nil
		}
	}
	return nil, ErrNotFound
}

// AddCampaign appends a campaign. Used by seeding and tests.
func (s *MemoryStore) AddCampaign(c *models.Campaign) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.campaigns = append(s.campaigns, c.Clone())
}

// --- Jobs ---

func (s *MemoryStore) CreateJob(_ context.Context, job *models.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Newest first, matching how the job list is presented.
	s.jobs = append([]*models.Job{job.Clone()}, s.jobs...)
	return nil
}

func (s *MemoryStore) GetJob(_ context.Context, id string) (*models.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, j := range s.jobs {
		if j.ID == id {
			return j.Clone(), nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) UpdateJob(_ context.Context, id string, mutate func(*models.Job) error) (*models.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, j := range s.jobs {
		if j.ID == id {
			if err := mutate(j); err != nil {
				return nil, err
			}
			j.UpdatedAt = s.now()
			return j.Clone(), nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) ListJobs(_ context.Context) ([]*models.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, j.Clone())
	}
	return out, nil
}

func (s *MemoryStore) ListJobsByCampaign(_ context.Context, campaignID string) ([]*models.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Job
	for _, j := range s.jobs {
		if j.CampaignID == campaignID {
			out = append(out, j.Clone())
		}
	}
	return out, nil
}

// --- Assets ---

func (s *MemoryStore) ListAssets(_ context.Context, campaignID string) ([]*models.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Asset, 0, len(s.assets[campaignID]))
	for _, a := range s.assets[campaignID] {
		out = append(out, a.Clone())
	}
	return out, nil
}

func (s *MemoryStore) CreateAsset(_ context.Context, campaignID string, asset *models.Asset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.assets[campaignID] = append(s.assets[campaignID], asset.Clone())
	return nil
}

func (s *MemoryStore) UpdateAsset(_ context.Context, campaignID, assetID string, mutate func(*models.Asset) error) (*models.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.assets[campaignID] {
		if a.ID == assetID {
			if err := mutate(a); err != nil {
				return nil, err
			}
			return a.Clone(), nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) DeleteAsset(_ context.Context, campaignID, assetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.assets[campaignID]
	for i, a := range list {
		if a.ID == assetID {
			s.assets[campaignID] = append(list[:i:i], list[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
