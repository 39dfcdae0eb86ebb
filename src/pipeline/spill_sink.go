// backend/src/pipeline/spill_sink.go
package pipeline

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/username/tradeflow/backend/src/logger"
)

// transferChunkSize is the read-back granularity when streaming the
// spill store to the caller.
const transferChunkSize = 1024 * 1024

// SpillSink writes the whole enriched output to a private temporary
// file. After sealing, Transfer streams the file back in fixed-size
// chunks; the caller can declare an exact Content-Length first. The
// spill file is deleted on every exit path: after a completed or failed
// transfer, or via Close when the run aborts before transferring.
type SpillSink struct {
	file        *os.File
	buf         *bufio.Writer
	length      int64
	sealed      bool
	transferred bool
}

// NewSpillSink creates the backing temp file in dir, or in the OS
// default temp directory when dir is empty.
func NewSpillSink(dir string) (*SpillSink, error) {
	f, err := os.CreateTemp(dir, "trade-enrichment-*.csv")
	if err != nil {
		return nil, fmt.Errorf("creating spill store: %w", err)
	}
	return &SpillSink{
		file: f,
		buf:  bufio.NewWriterSize(f, transferChunkSize),
	}, nil
}

func (s *SpillSink) WriteLine(line []byte) error {
	n, err := s.buf.Write(line)
	s.length += int64(n)
	if err != nil {
		return fmt.Errorf("writing to spill store: %w", err)
	}
	return nil
}

// Seal flushes the spill store and captures its final byte length. The
// length is exact, so a known length of true is always reported.
func (s *SpillSink) Seal() (int64, bool, error) {
	if err := s.buf.Flush(); err != nil {
		return 0, true, fmt.Errorf("flushing spill store: %w", err)
	}
	s.sealed = true
	return s.length, true, nil
}

// Length reports the sealed byte length of the spill store.
func (s *SpillSink) Length() int64 {
	return s.length
}

// Transfer streams the sealed store to w in fixed-size chunks, then
// removes it. Transferring fewer bytes than the sealed length is a
// fatal transfer error; it is reported, not retried.
func (s *SpillSink) Transfer(w io.Writer) error {
	if !s.sealed {
		return fmt.Errorf("spill store transfer attempted before seal")
	}
	s.transferred = true
	defer s.remove()

	if _, err := s.file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewinding spill store: %w", err)
	}

	buffer := make([]byte, transferChunkSize)
	var pos int64
	for pos < s.length {
		n, err := s.file.Read(buffer)
		if n > 0 {
			if _, werr := w.Write(buffer[:n]); werr != nil {
				return fmt.Errorf("forwarding spill store chunk: %w", werr)
			}
			pos += int64(n)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading back spill store: %w", err)
		}
	}
	if pos != s.length {
		return fmt.Errorf("truncated spill transfer, actual=%d, expected=%d", pos, s.length)
	}
	return nil
}

// Close releases the sink without transferring. It is safe to defer
// unconditionally: after a Transfer the store is already gone and Close
// does nothing beyond closing the handle.
func (s *SpillSink) Close() error {
	if s.transferred {
		return nil
	}
	s.remove()
	return nil
}

func (s *SpillSink) remove() {
	name := s.file.Name()
	if err := s.file.Close(); err != nil {
		logger.L.Warn("Closing spill store failed", "path", name, "error", err)
	}
	if err := os.Remove(name); err != nil && !os.IsNotExist(err) {
		logger.L.Warn("Removing spill store failed", "path", name, "error", err)
	}
}
