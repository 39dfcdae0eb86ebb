// backend/src/services/enrichment_service_test.go
package services

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/tradeflow/backend/src/catalog"
	"github.com/username/tradeflow/backend/src/logger"
	"github.com/username/tradeflow/backend/src/pipeline"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	os.Exit(m.Run())
}

func newTestService(t *testing.T) EnrichmentService {
	t.Helper()
	cat := catalog.New()
	require.NoError(t, cat.Load(strings.NewReader("1,Treasury Bills Domestic\n")))
	return NewEnrichmentService(cat, cache.New(time.Minute, time.Minute))
}

func TestEnrichStream(t *testing.T) {
	svc := newTestService(t)

	var out bytes.Buffer
	stats, err := svc.EnrichStream(strings.NewReader("20160101,1,EUR,10.0\n"), pipeline.NewDirectSink(&out), "direct")
	require.NoError(t, err)

	assert.NotEmpty(t, stats.RunID)
	assert.Equal(t, "direct", stats.Mode)
	assert.EqualValues(t, 1, stats.Emitted)
	assert.Contains(t, out.String(), "Treasury Bills Domestic")
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestEnrichStreamWrapsRunError(t *testing.T) {
	svc := newTestService(t)

	var out bytes.Buffer
	stats, err := svc.EnrichStream(failingReader{}, pipeline.NewDirectSink(&out), "direct")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEnrichmentFailed)
	assert.NotNil(t, stats, "stats stay valid even for failed runs")
}

func TestRecentRunsMostRecentFirst(t *testing.T) {
	svc := newTestService(t)

	for _, input := range []string{"20160101,1,EUR,10.0\n", "20160102,1,EUR,11.0\n"} {
		var out bytes.Buffer
		_, err := svc.EnrichStream(strings.NewReader(input), pipeline.NewDirectSink(&out), "direct")
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}

	runs := svc.RecentRuns()
	require.Len(t, runs, 2)
	assert.True(t, !runs[0].StartedAt.Before(runs[1].StartedAt), "most recent run listed first")
}

func TestRecentRunsIncludesFailedRuns(t *testing.T) {
	svc := newTestService(t)

	var out bytes.Buffer
	_, err := svc.EnrichStream(failingReader{}, pipeline.NewDirectSink(&out), "direct")
	require.Error(t, err)

	assert.Len(t, svc.RecentRuns(), 1)
}
