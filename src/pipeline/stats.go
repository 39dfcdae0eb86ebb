// backend/src/pipeline/stats.go
package pipeline

import (
	"math"
	"time"
)

// RunStats are the per-request counters of one pipeline run. Each run
// owns its own instance; nothing here is shared across concurrent runs.
type RunStats struct {
	RunID     string        `json:"run_id"`
	Mode      string        `json:"mode"`
	Lines     int64         `json:"lines"`
	Invalid   int64         `json:"invalid"`
	Emitted   int64         `json:"emitted"`
	Bytes     int64         `json:"bytes"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration_ns"`
}

// LinesPerSecond is the run's overall throughput, rounded to two
// decimals. Zero-duration runs report zero.
func (s *RunStats) LinesPerSecond() float64 {
	secs := s.Duration.Seconds()
	if secs <= 0 {
		return 0
	}
	return round2(float64(s.Lines) / secs)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
