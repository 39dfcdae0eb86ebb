// backend/src/parsers/trade_parser.go
package parsers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/username/tradeflow/backend/src/models"
)

const expectedFieldCount = 4

// ParseTradeLine turns one raw line into a TradeRecord or a
// *models.ValidationError.
//
// A blank or all-whitespace line yields (nil, nil): no record, not a
// failure. The line is split on the literal comma with no quoting
// semantics and must produce exactly four fields.
//
// Header heuristic: a first line containing no digit characters at all
// is provisionally a header. Date and price validity are not enforced
// for it; the record comes back with IsLikelyHeader set and the caller
// drops it from output. Any other line (including a first line with at
// least one digit) must carry a valid YYYYMMDD calendar date and a
// float-parseable price, checked in that order.
func ParseTradeLine(line string, firstLine bool) (*models.TradeRecord, error) {
	if strings.TrimSpace(line) == "" {
		return nil, nil
	}

	fields := strings.Split(line, ",")
	if len(fields) != expectedFieldCount {
		return nil, &models.ValidationError{
			Kind:    models.FieldCountMismatch,
			Message: fmt.Sprintf("unexpected number of fields in trade record: %d vs %d", len(fields), expectedFieldCount),
			Content: line,
		}
	}

	// A property of the raw text, independent of field validity.
	likelyHeader := firstLine && !strings.ContainsAny(line, "0123456789")

	record := &models.TradeRecord{
		Date:           fields[0],
		ProductID:      fields[1],
		Currency:       fields[2],
		Price:          fields[3],
		IsLikelyHeader: likelyHeader,
	}

	if !likelyHeader {
		if !validDate(record.Date) {
			return nil, &models.ValidationError{
				Kind:    models.InvalidDate,
				Message: fmt.Sprintf("invalid date format: %s", record.Date),
				Content: line,
			}
		}
		if !validPrice(record.Price) {
			return nil, &models.ValidationError{
				Kind:    models.InvalidPrice,
				Message: fmt.Sprintf("invalid price format: %s", record.Price),
				Content: line,
			}
		}
	}

	return record, nil
}

// validDate accepts exactly eight characters forming YYYYMMDD and
// rejects calendrically impossible dates (month 13, Feb 30, ...) by
// checking that time.Date does not normalize the components away.
func validDate(dt string) bool {
	if len(dt) != 8 {
		return false
	}
	year, err := strconv.Atoi(dt[0:4])
	if err != nil {
		return false
	}
	month, err := strconv.Atoi(dt[4:6])
	if err != nil {
		return false
	}
	day, err := strconv.Atoi(dt[6:8])
	if err != nil {
		return false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return t.Year() == year && t.Month() == time.Month(month) && t.Day() == day
}

// validPrice accepts anything parseable under strconv.ParseFloat's
// literal grammar: signs, decimal points, and exponents included. No
// range constraint is applied.
func validPrice(number string) bool {
	_, err := strconv.ParseFloat(number, 64)
	return err == nil
}
