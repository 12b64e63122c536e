package invoiceapp

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// invoiceDateLayouts are tried in order when parsing OCR dates
var invoiceDateLayouts = []string{
	"02-Jan-2006",
	"02/01/2006",
	"2006-01-02",
	"02-01-2006",
	"02 Jan 2006",
	"Jan 2, 2006",
}

// parseInvoiceDate parses an OCR date. ok is false when no layout matched.
func parseInvoiceDate(s string) (t time.Time, ok bool) {
	s = strings.TrimSpace(s)
	for _, layout := range invoiceDateLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// round2 rounds half away from zero to two decimal places
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// truncateDay drops the time of day, keeping the location
func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
