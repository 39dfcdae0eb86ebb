// backend/src/models/trade.go
package models

// TradeRecord is one parsed input line of the enrichment stream.
// ProductName is empty until the enrichment step fills it in from the
// product catalog; the record is never mutated after that.
type TradeRecord struct {
	Date        string
	ProductID   string
	ProductName string
	Currency    string
	Price       string

	// IsLikelyHeader marks a first line heuristically classified as a
	// column header rather than data. Header records are excluded from
	// enrichment and output but do not count as validation errors.
	IsLikelyHeader bool
}

// AppendEnrichedLine appends the record in output form,
// "date,productName,currency,price" terminated by CRLF, and returns the
// extended buffer. The caller reuses one buffer across a whole run.
func (t *TradeRecord) AppendEnrichedLine(dst []byte) []byte {
	dst = append(dst, t.Date...)
	dst = append(dst, ',')
	dst = append(dst, t.ProductName...)
	dst = append(dst, ',')
	dst = append(dst, t.Currency...)
	dst = append(dst, ',')
	dst = append(dst, t.Price...)
	dst = append(dst, '\r', '\n')
	return dst
}
