// backend/src/pipeline/direct_sink.go
package pipeline

import (
	"bufio"
	"fmt"
	"io"
)

// DirectSink forwards each enriched line to the outbound writer as it
// is produced. Single pass, no disk usage, but the total length is not
// known in advance and a mid-stream failure can only be logged once
// output has begun.
type DirectSink struct {
	buf     *bufio.Writer
	written int64
}

func NewDirectSink(w io.Writer) *DirectSink {
	return &DirectSink{buf: bufio.NewWriter(w)}
}

func (d *DirectSink) WriteLine(line []byte) error {
	n, err := d.buf.Write(line)
	d.written += int64(n)
	if err != nil {
		return fmt.Errorf("writing to output stream: %w", err)
	}
	return nil
}

// Seal flushes the remaining buffered output. The reported length is
// what was actually delivered; it was never known ahead of time, so
// known is false.
func (d *DirectSink) Seal() (int64, bool, error) {
	if err := d.buf.Flush(); err != nil {
		return d.written, false, fmt.Errorf("flushing output stream: %w", err)
	}
	return d.written, false, nil
}
