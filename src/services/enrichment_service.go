// backend/src/services/enrichment_service.go
package services

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/username/tradeflow/backend/src/catalog"
	"github.com/username/tradeflow/backend/src/logger"
	"github.com/username/tradeflow/backend/src/pipeline"
)

var ErrEnrichmentFailed = errors.New("enrichment run failed")

// EnrichmentService runs the streaming trade pipeline and keeps a
// short-lived record of recent runs for the admin surface.
type EnrichmentService interface {
	// EnrichStream drives input through parse, enrich and sink. The
	// returned stats are valid even when err is non-nil; mode is a
	// label for logs and metrics only.
	EnrichStream(input io.Reader, sink pipeline.Sink, mode string) (*pipeline.RunStats, error)

	// RecentRuns lists retained run stats, most recent first.
	RecentRuns() []*pipeline.RunStats
}

type enrichmentServiceImpl struct {
	catalog  *catalog.Catalog
	runCache *cache.Cache
}

func NewEnrichmentService(cat *catalog.Catalog, runCache *cache.Cache) EnrichmentService {
	return &enrichmentServiceImpl{
		catalog:  cat,
		runCache: runCache,
	}
}

func (s *enrichmentServiceImpl) EnrichStream(input io.Reader, sink pipeline.Sink, mode string) (*pipeline.RunStats, error) {
	driver := &pipeline.Driver{
		Catalog: s.catalog,
		RunID:   uuid.NewString(),
		Mode:    mode,
	}
	logger.L.Info("EnrichStream START", "runID", driver.RunID, "mode", mode)

	stats, err := driver.Run(input, sink)
	s.runCache.Set(stats.RunID, stats, cache.DefaultExpiration)
	if err != nil {
		logger.L.Error("EnrichStream FAILED",
			"runID", driver.RunID, "lines", stats.Lines, "error", err)
		return stats, fmt.Errorf("%w: %v", ErrEnrichmentFailed, err)
	}
	return stats, nil
}

func (s *enrichmentServiceImpl) RecentRuns() []*pipeline.RunStats {
	items := s.runCache.Items()
	runs := make([]*pipeline.RunStats, 0, len(items))
	for _, item := range items {
		if stats, ok := item.Object.(*pipeline.RunStats); ok {
			runs = append(runs, stats)
		}
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})
	return runs
}
