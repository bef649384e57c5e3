package scheduler

import (
	"time"

	"github.com/boomerok2001-cpu/boomerbot/internal/model"
)

// Gate rejects low-quality or stale listings. Zero fields disable their check.
type Gate struct {
	MinVolume    float64
	MinLiquidity float64
	MaxAge       time.Duration
}

// Allow reports whether m passes the gate, and the reason when it does not.
// Listings without a creation time are never rejected for age.
func (g Gate) Allow(m model.Market, now time.Time) (string, bool) {
	if g.MinVolume > 0 && m.Volume < g.MinVolume {
		return "volume", false
	}
	if g.MinLiquidity > 0 && m.Liquidity < g.MinLiquidity {
		return "liquidity", false
	}
	if g.MaxAge > 0 && m.CreatedAt != nil && now.Sub(*m.CreatedAt) > g.MaxAge {
		return "age", false
	}
	return "", true
}
