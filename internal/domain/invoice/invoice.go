package invoice

import (
	"github.com/shopspring/decimal"
)

// TaxKind identifies a GST component that may appear as a per-line rate
type TaxKind string

const (
	TaxIGST  TaxKind = "IGST"
	TaxCGST  TaxKind = "CGST"
	TaxSGST  TaxKind = "SGST"
	TaxUTGST TaxKind = "UTGST"
)

// TaxKinds lists tax components in the order conditions are generated
var TaxKinds = []TaxKind{TaxIGST, TaxCGST, TaxSGST, TaxUTGST}

// DefaultDescription is recorded for lines whose description OCR did not capture
const DefaultDescription = "UNKNOWN"

// Invoice is an OCR invoice that passed validation. Quantities are already
// numeric; other amounts keep their OCR spelling until mapping.
type Invoice struct {
	Number          string
	Date            string
	Currency        string
	TotalAmount     string
	SupplierName    string
	PONumber        string
	SupplierGSTN    string
	LocationGSTN    string
	SupplierAddress string
	BillToAddress   string
	Subtotal        string
	TaxAmount       string
	PaymentTerms    string
	DueDate         string
	Lines           []Line

	// Warnings are non-fatal observations made while validating
	Warnings []string
}

// Line is one dynamic OCR line. Position is its 1-based place in the input.
type Line struct {
	Position    int
	Description string
	Quantity    decimal.Decimal
	LineAmount  string
	UnitPrice   string
	PONumber    string
	HSNCode     string
	Unit        string
	TaxRates    map[TaxKind]string
}

// EffectivePONumber is the invoice-level PO number, falling back to the first line's
func (inv *Invoice) EffectivePONumber() string {
	if inv.PONumber != "" {
		return inv.PONumber
	}
	if len(inv.Lines) > 0 {
		return inv.Lines[0].PONumber
	}
	return ""
}
