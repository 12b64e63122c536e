package ocrimport

import (
	"maps"
	"slices"
	"strings"
	"unicode"
)

// AliasTable maps a canonical field name to the spellings OCR engines use for it.
// The canonical name itself is always accepted.
type AliasTable map[string][]string

// NormalizeKey lower-cases key and drops everything that is not a letter or digit,
// so "Invoice No", "invoice_no" and "InvoiceNo." compare equal. A percent sign
// is kept as "pct": "IGST %" names a rate, "IGST" an amount.
func NormalizeKey(key string) string {
	var b strings.Builder
	b.Grow(len(key))
	for _, r := range strings.ToLower(key) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '%':
			b.WriteString("pct")
		}
	}
	return b.String()
}

// index inverts the table into normalized spelling -> canonical name
func (t AliasTable) index() map[string]string {
	idx := make(map[string]string, len(t)*3)
	for canonical, aliases := range t {
		idx[NormalizeKey(canonical)] = canonical
		for _, a := range aliases {
			idx[NormalizeKey(a)] = canonical
		}
	}
	return idx
}

// Record is one section of an OCR payload (the static header or one dynamic
// line) with its free-form keys resolved to canonical field names.
type Record struct {
	Line   int
	values map[string]string
}

// Resolver turns free-form OCR field maps into Records
type Resolver struct {
	index map[string]string
}

// NewResolver builds a Resolver for the given alias table
func NewResolver(aliases AliasTable) *Resolver {
	return &Resolver{index: aliases.index()}
}

// Record resolves fields into a Record for the given line. Unknown keys are
// dropped, blank values count as absent, and when two keys resolve to the same
// canonical field the first non-blank value in sorted key order wins.
func (r *Resolver) Record(line int, fields map[string]string) Record {
	rec := Record{Line: line, values: make(map[string]string, len(fields))}
	for _, key := range slices.Sorted(maps.Keys(fields)) {
		canonical, ok := r.index[NormalizeKey(key)]
		if !ok {
			continue
		}
		value := strings.TrimSpace(fields[key])
		if value == "" {
			continue
		}
		if _, seen := rec.values[canonical]; !seen {
			rec.values[canonical] = value
		}
	}
	return rec
}

// Get returns the value of a canonical field or "" when absent
func (r Record) Get(field string) string {
	return r.values[field]
}

// Has reports whether a canonical field is present
func (r Record) Has(field string) bool {
	_, ok := r.values[field]
	return ok
}
