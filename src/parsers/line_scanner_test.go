// backend/src/parsers/line_scanner_test.go
package parsers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func scanAll(input string) []string {
	s := NewLineScanner(strings.NewReader(input))
	var lines []string
	for s.Scan() {
		lines = append(lines, s.Text())
	}
	return lines
}

func TestLineScannerSplitsOnLF(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, scanAll("a\nb\nc"))
}

func TestLineScannerSplitsOnCRLF(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, scanAll("a\r\nb\r\n"))
}

func TestLineScannerMixedSeparators(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, scanAll("a\r\nb\nc\r\r\n"))
}

func TestLineScannerCollapsesBlankRuns(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, scanAll("a\n\n\nb"))
	assert.Equal(t, []string{"a", "b"}, scanAll("a\n\r\n\r\r\nb\n\n"))
}

func TestLineScannerEmptyStream(t *testing.T) {
	assert.Empty(t, scanAll(""))
	assert.Empty(t, scanAll("\n"))
	assert.Empty(t, scanAll("\r\n\r\n\n"))
}

func TestLineScannerKeepsInteriorCR(t *testing.T) {
	// A carriage return not followed by a newline stays in the line.
	assert.Equal(t, []string{"a\rb"}, scanAll("a\rb\n"))
}

func TestLineScannerNoTrailingNewline(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, scanAll("a\nb"))
}

func TestLineScannerWhitespaceOnlyLineSurvives(t *testing.T) {
	// Spaces are not separators; the parser decides what a blank line
	// means.
	assert.Equal(t, []string{"a", "   ", "b"}, scanAll("a\n   \nb\n"))
}

func TestLineScannerLongLine(t *testing.T) {
	long := strings.Repeat("x", 512*1024)
	lines := scanAll(long + "\nshort\n")
	assert.Len(t, lines, 2)
	assert.Equal(t, long, lines[0])
	assert.Equal(t, "short", lines[1])
}
