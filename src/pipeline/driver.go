// backend/src/pipeline/driver.go
package pipeline

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/username/tradeflow/backend/src/logger"
	"github.com/username/tradeflow/backend/src/metrics"
	"github.com/username/tradeflow/backend/src/models"
	"github.com/username/tradeflow/backend/src/parsers"
)

// EnrichedCSVHeader is the fixed first line of every enrichment
// response, emitted by the driver itself and never copied from input.
const EnrichedCSVHeader = "date,product_name,currency,price\r\n"

// progressLogInterval is the line cadence of throughput samples.
const progressLogInterval = 1_000_000

// Lookup resolves a product id to its display name. It never fails;
// unknown ids map to a deterministic placeholder.
type Lookup interface {
	Lookup(productID string) string
}

// Driver orchestrates one run: line source, parse/validate, enrichment
// and the selected output sink. A Driver instance serves exactly one
// request and holds no state shared with other runs.
type Driver struct {
	Catalog Lookup
	RunID   string
	Mode    string
}

// Run streams input through the pipeline into sink. Validation failures
// and header-classified lines are counted and dropped; the run aborts
// only on an I/O error reading the source or writing the sink. The sink
// is sealed before returning on the success path; on failure the caller
// is responsible for discarding whatever the sink holds.
func (d *Driver) Run(input io.Reader, sink Sink) (*RunStats, error) {
	stats := &RunStats{
		RunID:     d.RunID,
		Mode:      d.Mode,
		StartedAt: time.Now(),
	}
	defer func() {
		stats.Duration = time.Since(stats.StartedAt)
		d.observe(stats)
	}()

	headerWritten := false
	line := make([]byte, 0, 4096)

	src := parsers.NewLineScanner(input)
	for src.Scan() {
		stats.Lines++

		record, err := parsers.ParseTradeLine(src.Text(), stats.Lines == 1)
		if err != nil {
			var verr *models.ValidationError
			if !errors.As(err, &verr) {
				return stats, err
			}
			stats.Invalid++
			logger.L.Warn("Not processable record",
				"runID", d.RunID, "line", stats.Lines, "error", verr.Message, "content", verr.Content)
			d.logProgress(stats)
			continue
		}
		if record == nil {
			// Whitespace-only line: no record, not a failure.
			d.logProgress(stats)
			continue
		}
		if record.IsLikelyHeader {
			stats.Invalid++
			logger.L.Debug("Header line detected, dropping", "runID", d.RunID, "line", stats.Lines)
			d.logProgress(stats)
			continue
		}

		if !headerWritten {
			if err := sink.WriteLine([]byte(EnrichedCSVHeader)); err != nil {
				return stats, err
			}
			headerWritten = true
		}
		record.ProductName = d.Catalog.Lookup(record.ProductID)
		line = record.AppendEnrichedLine(line[:0])
		if err := sink.WriteLine(line); err != nil {
			return stats, err
		}
		stats.Emitted++
		d.logProgress(stats)
	}
	if err := src.Err(); err != nil {
		return stats, fmt.Errorf("reading input stream: %w", err)
	}

	// The response always carries the fixed header, even when no
	// record ever made it through.
	if !headerWritten {
		if err := sink.WriteLine([]byte(EnrichedCSVHeader)); err != nil {
			return stats, err
		}
	}

	length, known, err := sink.Seal()
	if err != nil {
		return stats, err
	}
	stats.Bytes = length
	stats.Duration = time.Since(stats.StartedAt)

	logger.L.Info("Enrichment run complete",
		"runID", d.RunID,
		"mode", d.Mode,
		"lines", stats.Lines,
		"invalid", stats.Invalid,
		"emitted", stats.Emitted,
		"bytes", length,
		"lengthKnown", known,
		"elapsed", stats.Duration.String(),
		"linesPerSecond", stats.LinesPerSecond())
	return stats, nil
}

// logProgress emits a throughput sample every progressLogInterval input
// lines, keyed on line index rather than valid-record count.
func (d *Driver) logProgress(stats *RunStats) {
	if stats.Lines%progressLogInterval != 0 {
		return
	}
	elapsed := time.Since(stats.StartedAt)
	throughput := 0.0
	if secs := elapsed.Seconds(); secs > 0 {
		throughput = round2(float64(stats.Lines) / secs)
	}
	logger.L.Info("Throughput sample",
		"runID", d.RunID,
		"lines", stats.Lines,
		"elapsed", elapsed.String(),
		"linesPerSecond", throughput)
}

func (d *Driver) observe(stats *RunStats) {
	metrics.LinesTotal.Add(float64(stats.Lines))
	metrics.InvalidRecordsTotal.Add(float64(stats.Invalid))
	metrics.RecordsEmittedTotal.Add(float64(stats.Emitted))
	metrics.RunDurationSeconds.Observe(stats.Duration.Seconds())
}
