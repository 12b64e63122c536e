package ocrimport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var testAliases = AliasTable{
	"Invoice No":  {"invoice_number", "Invoice Number"},
	"Description": {"Invoice Lines/Description", "item_description"},
	"Quantity":    {"qty"},
}

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "invoiceno", NormalizeKey("Invoice No"))
	assert.Equal(t, "invoiceno", NormalizeKey("invoice_no"))
	assert.Equal(t, "invoicelinesdescription", NormalizeKey("Invoice Lines/Description"))
	assert.Equal(t, "", NormalizeKey(" - "))
	assert.Equal(t, "igstpct", NormalizeKey("IGST %"))
	assert.NotEqual(t, NormalizeKey("IGST"), NormalizeKey("IGST %"))
}

func TestResolver_Record(t *testing.T) {
	r := NewResolver(testAliases)

	rec := r.Record(3, map[string]string{
		"invoice_number":            " INV-1 ",
		"Invoice Lines/Description": "Steel bolts",
		"QTY":                       "10",
		"Colour":                    "blue",
	})

	assert.Equal(t, 3, rec.Line)
	assert.Equal(t, "INV-1", rec.Get("Invoice No"))
	assert.Equal(t, "Steel bolts", rec.Get("Description"))
	assert.Equal(t, "10", rec.Get("Quantity"))
	assert.False(t, rec.Has("Colour"))
}

func TestResolver_Record_BlankValuesAreAbsent(t *testing.T) {
	r := NewResolver(testAliases)

	rec := r.Record(1, map[string]string{"Quantity": "   ", "qty": "4"})

	assert.True(t, rec.Has("Quantity"))
	assert.Equal(t, "4", rec.Get("Quantity"))
}

func TestResolver_Record_FirstSortedKeyWins(t *testing.T) {
	r := NewResolver(testAliases)

	rec := r.Record(1, map[string]string{"Quantity": "5", "qty": "4"})

	assert.Equal(t, "5", rec.Get("Quantity"))
}
