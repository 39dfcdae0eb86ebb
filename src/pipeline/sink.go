// backend/src/pipeline/sink.go
package pipeline

// Sink receives the enriched output bytes of one pipeline run. The two
// implementations trade latency against a pre-declared response length:
// SpillSink buffers everything in a temporary store and knows its exact
// byte length after sealing, DirectSink forwards lines straight to the
// outbound writer with no known total length.
type Sink interface {
	// WriteLine appends one CRLF-terminated output line.
	WriteLine(line []byte) error

	// Seal flushes and finalizes the sink after the source is
	// exhausted. No WriteLine calls may follow. It returns the total
	// byte length of the output and whether that length is exact and
	// known in advance of delivery.
	Seal() (length int64, known bool, err error)
}
