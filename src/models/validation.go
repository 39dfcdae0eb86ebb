// backend/src/models/validation.go
package models

import "fmt"

// ValidationKind identifies why a line could not become a TradeRecord.
type ValidationKind int

const (
	FieldCountMismatch ValidationKind = iota
	InvalidDate
	InvalidPrice
)

func (k ValidationKind) String() string {
	switch k {
	case FieldCountMismatch:
		return "field_count_mismatch"
	case InvalidDate:
		return "invalid_date"
	case InvalidPrice:
		return "invalid_price"
	default:
		return "unknown"
	}
}

// ValidationError is a per-record failure. It carries the original raw
// line for diagnostics; it is logged and counted, never fatal to a run.
type ValidationError struct {
	Kind    ValidationKind
	Message string
	Content string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}
