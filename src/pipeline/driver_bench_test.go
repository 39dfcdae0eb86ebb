// backend/src/pipeline/driver_bench_test.go
package pipeline_test

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/username/tradeflow/backend/src/catalog"
	"github.com/username/tradeflow/backend/src/pipeline"
)

// benchInput builds n well-formed trade lines cycling over ten product ids.
func benchInput(n int) string {
	var sb strings.Builder
	sb.Grow(n * 24)
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, "20160101,%d,EUR,10.0\n", i%10+1)
	}
	return sb.String()
}

func benchCatalog(b *testing.B) *catalog.Catalog {
	b.Helper()
	var sb strings.Builder
	for i := 1; i <= 10; i++ {
		fmt.Fprintf(&sb, "%d,Product Number %d\n", i, i)
	}
	c := catalog.New()
	require.NoError(b, c.Load(strings.NewReader(sb.String())))
	return c
}

func BenchmarkDriverDirect(b *testing.B) {
	cat := benchCatalog(b)
	input := benchInput(100_000)
	b.SetBytes(int64(len(input)))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		driver := &pipeline.Driver{Catalog: cat, RunID: "bench", Mode: "direct"}
		if _, err := driver.Run(strings.NewReader(input), pipeline.NewDirectSink(io.Discard)); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDriverSpill(b *testing.B) {
	cat := benchCatalog(b)
	input := benchInput(100_000)
	dir := b.TempDir()
	b.SetBytes(int64(len(input)))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		sink, err := pipeline.NewSpillSink(dir)
		if err != nil {
			b.Fatal(err)
		}
		driver := &pipeline.Driver{Catalog: cat, RunID: "bench", Mode: "buffered"}
		if _, err := driver.Run(strings.NewReader(input), sink); err != nil {
			b.Fatal(err)
		}
		if err := sink.Transfer(io.Discard); err != nil {
			b.Fatal(err)
		}
	}
}
