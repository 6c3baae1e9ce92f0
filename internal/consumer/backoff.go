package consumer

import (
	"math"
	"time"
)

// PollingConfig controls how often the queue is polled. After every empty
// poll the wait grows by Exponent, bounded by Min and Max.
type PollingConfig struct {
	Interval time.Duration
	Min      time.Duration
	Max      time.Duration
	Exponent float64
}

// DefaultPollingConfig matches the documented queue defaults: 1s interval,
// 0s..10s bounds, exponent 2.
func DefaultPollingConfig() PollingConfig {
	return PollingConfig{
		Interval: time.Second,
		Min:      0,
		Max:      10 * time.Second,
		Exponent: 2,
	}
}

// maxIdleSteps bounds the idle counter; 2^62 nanoseconds is already beyond
// any useful wait.
const maxIdleSteps = 62

// withDefaults fills the unset fields from DefaultPollingConfig. A zero Max
// stays zero, meaning no upper bound.
func (p PollingConfig) withDefaults() PollingConfig {
	if p == (PollingConfig{}) {
		return DefaultPollingConfig()
	}
	def := DefaultPollingConfig()
	if p.Interval <= 0 {
		p.Interval = def.Interval
	}
	if p.Exponent <= 0 {
		p.Exponent = def.Exponent
	}
	if p.Min < 0 {
		p.Min = 0
	}
	return p
}

// NextInterval returns clamp(Interval * Exponent^idle, Min, Max), where idle
// is the number of consecutive empty polls. Without a Max the result
// saturates at the largest time.Duration.
func (p PollingConfig) NextInterval(idle int) time.Duration {
	if idle < 0 {
		idle = 0
	}
	exp := p.Exponent
	if exp < 1 {
		exp = 1
	}
	d := float64(p.Interval) * math.Pow(exp, float64(idle))
	if p.Max > 0 && d > float64(p.Max) {
		return p.Max
	}
	if d < float64(p.Min) {
		return p.Min
	}
	if math.IsNaN(d) || d >= math.MaxInt64 {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(d)
}
