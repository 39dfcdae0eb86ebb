// backend/src/parsers/line_scanner.go
package parsers

import (
	"bufio"
	"bytes"
	"io"
	"math"
)

const initialScanBuffer = 64 * 1024

// LineScanner frames a byte stream into logical lines. Runs of one or
// more newlines, each optionally preceded by carriage returns, act as a
// single boundary, so blank lines between separators are never emitted.
// The sequence is forward-only; an empty stream yields zero lines.
//
// There is no line-length limit: a pathologically long line grows the
// scan buffer and is held in memory only for the duration of that line.
type LineScanner struct {
	scanner *bufio.Scanner
}

func NewLineScanner(r io.Reader) *LineScanner {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, initialScanBuffer), math.MaxInt)
	s.Split(splitRecords)
	return &LineScanner{scanner: s}
}

// Scan advances to the next non-empty logical line.
func (l *LineScanner) Scan() bool {
	return l.scanner.Scan()
}

// Text returns the current line without its terminating \r*\n sequence.
func (l *LineScanner) Text() string {
	return l.scanner.Text()
}

// Err returns the first I/O error encountered while reading the stream.
func (l *LineScanner) Err() error {
	return l.scanner.Err()
}

// splitRecords is a bufio.SplitFunc that splits on '\n', strips trailing
// carriage returns from each token, and swallows empty tokens so that
// consecutive separators collapse into a single boundary.
func splitRecords(data []byte, atEOF bool) (advance int, token []byte, err error) {
	start := 0
	for start < len(data) {
		i := bytes.IndexByte(data[start:], '\n')
		if i < 0 {
			break
		}
		tok := bytes.TrimRight(data[start:start+i], "\r")
		if len(tok) > 0 {
			return start + i + 1, tok, nil
		}
		start += i + 1
	}
	if atEOF {
		if tok := bytes.TrimRight(data[start:], "\r"); len(tok) > 0 {
			return len(data), tok, nil
		}
		return len(data), nil, nil
	}
	// Request more data, discarding any fully consumed empty lines.
	return start, nil, nil
}
