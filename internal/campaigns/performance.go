package campaigns

import (
	"context"
	"math"
	"time"

	"github.com/amgohq/amgo/internal/sim"
	"github.com/amgohq/amgo/pkg/models"
)

const (
	defaultPerformanceDays = 30
	maxPerformanceDays     = 90
)

// Performance returns a synthetic daily metric series for the campaign:
// weekday-weighted impressions with noise, click-through around 4-7%,
// conversion around 7-12%.
func (s *Service) Performance(ctx context.Context, campaignID string, days int) ([]models.PerformanceDataPoint, error) {
	if days <= 0 {
		days = defaultPerformanceDays
	}
	if days > maxPerformanceDays {
		days = maxPerformanceDays
	}

	if err := s.cfg.GetLatency.Sleep(ctx, s.rng); err != nil {
		return nil, err
	}
	if _, err := s.store.GetCampaign(ctx, campaignID); err != nil {
		return nil, err
	}

	return generateSeries(s.rng, days, time.Now().UTC()), nil
}

func generateSeries(rng sim.Rand, days int, until time.Time) []models.PerformanceDataPoint {
	data := make([]models.PerformanceDataPoint, 0, days)

	noise := func() float64 { return 0.8 + rng.Float64()*0.4 }

	for i := days - 1; i >= 0; i-- {
		day := until.AddDate(0, 0, -i)

		base := 1.0
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			base = 0.6
		}

		impressions := int64(math.Round(8000 * base * noise()))
		ctr := 0.04 + rng.Float64()*0.03
		clicks := int64(math.Round(float64(impressions) * ctr))
		cvr := 0.07 + rng.Float64()*0.05
		conversions := int64(math.Round(float64(clicks) * cvr))
		spend := math.Round(float64(impressions) * 0.02 * base * noise())
		revenue := math.Round(float64(conversions) * (45 + rng.Float64()*30))

		data = append(data, models.PerformanceDataPoint{
			Date:        day.Format("2006-01-02"),
			Impressions: impressions,
			Clicks:      clicks,
			Conversions: conversions,
			Spend:       spend,
			Revenue:     revenue,
		})
	}

	return data
}
