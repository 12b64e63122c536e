package invoiceapp

import (
	"fmt"

	"github.com/easyml-code/ocr-data-insertion/internal/domain/invoice"
	"github.com/easyml-code/ocr-data-insertion/internal/infrastructure/ocrimport"
)

// Validator checks raw OCR payloads and turns them into invoices. It performs
// no I/O and is safe for concurrent use.
type Validator struct {
	static      *ocrimport.Resolver
	lines       *ocrimport.Resolver
	staticRules *ocrimport.FieldValidator
	lineRules   *ocrimport.FieldValidator
}

// NewValidator creates a Validator with the canonical required-field lists
func NewValidator() *Validator {
	return &Validator{
		static: ocrimport.NewResolver(staticAliases),
		lines:  ocrimport.NewResolver(lineAliases),
		staticRules: ocrimport.NewFieldValidator(
			ocrimport.Field(FieldInvoiceDate).Required().Build(),
			ocrimport.Field(FieldCurrency).Required().Build(),
			ocrimport.Field(FieldTotalAmount).Required().Build(),
			ocrimport.Field(FieldSupplierName).Required().Build(),
			ocrimport.Field(FieldInvoiceNo).Required().Build(),
		),
		lineRules: ocrimport.NewFieldValidator(
			ocrimport.Field(FieldQuantity).Required().Positive().Build(),
			ocrimport.Field(FieldLineAmount).Required().Build(),
			ocrimport.Field(FieldUnitPrice).Required().Build(),
			ocrimport.Field(FieldPONumber).Required().Build(),
		),
	}
}

// Validate returns the typed invoice, or a *invoice.ValidationError listing
// every offending field across the static section and all lines.
func (v *Validator) Validate(raw *invoice.RawInvoice) (*invoice.Invoice, error) {
	errs := ocrimport.NewErrorCollection()
	if raw == nil {
		raw = &invoice.RawInvoice{}
	}

	header := v.static.Record(0, raw.Static.Strings())
	v.staticRules.Validate(header, errs)

	if len(raw.Dynamic) == 0 {
		errs.Add(ocrimport.Issue{Field: "dynamic", Code: ocrimport.ErrCodeNoLines,
			Message: "invoice has no line items"})
	}

	inv := &invoice.Invoice{
		Number:          header.Get(FieldInvoiceNo),
		Date:            header.Get(FieldInvoiceDate),
		Currency:        header.Get(FieldCurrency),
		TotalAmount:     header.Get(FieldTotalAmount),
		SupplierName:    header.Get(FieldSupplierName),
		PONumber:        header.Get(FieldHeaderPONumber),
		SupplierGSTN:    header.Get(FieldSupplierGSTN),
		LocationGSTN:    header.Get(FieldLocationGSTN),
		SupplierAddress: header.Get(FieldSupplierAddress),
		BillToAddress:   header.Get(FieldBillToAddress),
		Subtotal:        header.Get(FieldSubtotal),
		TaxAmount:       header.Get(FieldTaxAmount),
		PaymentTerms:    header.Get(FieldPaymentTerms),
		DueDate:         header.Get(FieldDueDate),
		Lines:           make([]invoice.Line, 0, len(raw.Dynamic)),
	}

	for i, fields := range raw.Dynamic {
		rec := v.lines.Record(i+1, fields.Strings())
		if !v.lineRules.Validate(rec, errs) {
			continue
		}
		inv.Lines = append(inv.Lines, v.buildLine(rec, inv))
	}

	if errs.HasErrors() {
		return nil, toValidationError(errs)
	}
	return inv, nil
}

func (v *Validator) buildLine(rec ocrimport.Record, inv *invoice.Invoice) invoice.Line {
	// the quantity rule already proved this parses
	qty, _ := ocrimport.ParseNumber(rec.Get(FieldQuantity))

	line := invoice.Line{
		Position:    rec.Line,
		Description: rec.Get(FieldDescription),
		Quantity:    qty,
		LineAmount:  rec.Get(FieldLineAmount),
		UnitPrice:   rec.Get(FieldUnitPrice),
		PONumber:    rec.Get(FieldPONumber),
		HSNCode:     rec.Get(FieldHSN),
		Unit:        rec.Get(FieldUnit),
		TaxRates:    make(map[invoice.TaxKind]string),
	}
	if line.Description == "" {
		line.Description = invoice.DefaultDescription
		inv.Warnings = append(inv.Warnings,
			fmt.Sprintf("line %d: %s missing, recorded as %s", rec.Line, FieldDescription, invoice.DefaultDescription))
	}
	for kind, field := range taxRateFields {
		if rate := rec.Get(field); rate != "" {
			line.TaxRates[kind] = rate
		}
	}
	return line
}

func toValidationError(errs *ocrimport.ErrorCollection) *invoice.ValidationError {
	issues := errs.Issues()
	fields := make([]invoice.FieldError, len(issues))
	for i, issue := range issues {
		fields[i] = invoice.FieldError{
			Line:    issue.Line,
			Field:   issue.Field,
			Code:    issue.Code,
			Message: issue.Message,
			Value:   issue.Value,
		}
	}
	return &invoice.ValidationError{Fields: fields}
}
