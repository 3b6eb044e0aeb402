// Package market owns the in-memory market state and the refresh loop that
// keeps it moving, blending live quotes with a random-walk fallback.
package market

import (
	"math/rand"
	"sync"

	"tradeview/internal/models"
)

// SimulatorConfig tunes the random-walk fallback. The upward bias and the
// per-symbol volatility tiers are demo tuning, not business rules, so they
// are kept configurable rather than hard-coded.
type SimulatorConfig struct {
	// DownThreshold is the uniform-random cutoff below which a tick moves
	// down. 0.48 gives the walk a slight upward bias.
	DownThreshold float64
	// DefaultVolatility applies to symbols without an explicit tier.
	DefaultVolatility float64
	// IndexVolatility applies to index values.
	IndexVolatility float64
	// Tiers maps symbols to their volatility fraction.
	Tiers map[string]float64
}

// DefaultSimulatorConfig returns the stock tuning: a 52% up bias, higher
// volatility for historically volatile names.
func DefaultSimulatorConfig() SimulatorConfig {
	return SimulatorConfig{
		DownThreshold:     0.48,
		DefaultVolatility: 0.002,
		IndexVolatility:   0.0015,
		Tiers: map[string]float64{
			"ADANIENT":   0.004,
			"TATAMOTORS": 0.004,
			"RELIANCE":   0.003,
			"BHARTIARTL": 0.003,
			"SBIN":       0.003,
		},
	}
}

// Simulator produces plausible price fluctuations for symbols with no live
// quote. It is only consulted while the market-hours gate reports open.
type Simulator struct {
	cfg SimulatorConfig

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulator creates a simulator seeded for reproducible walks.
func NewSimulator(cfg SimulatorConfig, seed int64) *Simulator {
	return &Simulator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(seed)),
	}
}

// NextPrice perturbs price by a signed random magnitude bounded by
// price*volatility, rounded to two decimals.
func (s *Simulator) NextPrice(price, volatility float64) float64 {
	s.mu.Lock()
	direction := 1.0
	if s.rng.Float64() <= s.cfg.DownThreshold {
		direction = -1.0
	}
	magnitude := s.rng.Float64() * volatility * direction
	s.mu.Unlock()

	return models.Round2(price * (1 + magnitude))
}

// VolatilityFor returns the volatility tier for a symbol.
func (s *Simulator) VolatilityFor(symbol string) float64 {
	if v, ok := s.cfg.Tiers[symbol]; ok {
		return v
	}
	return s.cfg.DefaultVolatility
}

// IndexVolatility returns the volatility used for index values.
func (s *Simulator) IndexVolatility() float64 {
	return s.cfg.IndexVolatility
}
