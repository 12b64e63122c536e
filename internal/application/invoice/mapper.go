package invoiceapp

import (
	"context"
	"fmt"
	"time"

	"github.com/easyml-code/ocr-data-insertion/internal/domain/invoice"
	"github.com/easyml-code/ocr-data-insertion/internal/domain/procurement"
	"github.com/easyml-code/ocr-data-insertion/internal/domain/shared"
	"github.com/easyml-code/ocr-data-insertion/internal/infrastructure/ocrimport"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const defaultCurrency = "INR"

var hundred = decimal.NewFromInt(100)

// Mapper turns a validated invoice into the five record sets and binds their
// foreign keys. Map is pure apart from key generation; Resolve does the I/O.
type Mapper struct {
	keys            *procurement.KeyGenerator
	resolver        procurement.ReferenceResolver
	defaultCurrency string
}

// MapperOption configures a Mapper
type MapperOption func(*Mapper)

// WithDefaultCurrency sets the currency used when OCR reports none
func WithDefaultCurrency(currency string) MapperOption {
	return func(m *Mapper) {
		if currency != "" {
			m.defaultCurrency = currency
		}
	}
}

// NewMapper creates a Mapper. The resolver strategy is fixed for its lifetime.
func NewMapper(keys *procurement.KeyGenerator, resolver procurement.ReferenceResolver, opts ...MapperOption) *Mapper {
	m := &Mapper{keys: keys, resolver: resolver, defaultCurrency: defaultCurrency}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// amounts holds the numeric values of one line after coercion
type amounts struct {
	lineAmount decimal.Decimal
	unitPrice  decimal.Decimal
	rates      map[invoice.TaxKind]decimal.Decimal
}

// Map builds an unresolved RecordSet. Values that fail numeric coercion are
// reported together as a *invoice.MappingError.
func (m *Mapper) Map(inv *invoice.Invoice) (*procurement.RecordSet, error) {
	if len(inv.Lines) == 0 {
		return nil, &invoice.MappingError{Fields: []invoice.FieldError{{
			Field: "dynamic", Code: ocrimport.ErrCodeNoLines, Message: "invoice has no line items"}}}
	}

	var fieldErrs []invoice.FieldError
	coerce := func(line int, field, value string, parse func(string) (decimal.Decimal, error)) decimal.Decimal {
		d, err := parse(value)
		if err != nil {
			fieldErrs = append(fieldErrs, invoice.FieldError{Line: line, Field: field, Code: ocrimport.ErrCodeInvalidNumber,
				Message: fmt.Sprintf("%s must be numeric, got %q", field, value), Value: value})
		}
		return d
	}

	total := coerce(0, FieldTotalAmount, inv.TotalAmount, ocrimport.ParseNumber)
	lineValues := make([]amounts, len(inv.Lines))
	for i, line := range inv.Lines {
		a := amounts{rates: make(map[invoice.TaxKind]decimal.Decimal)}
		a.lineAmount = coerce(line.Position, FieldLineAmount, line.LineAmount, ocrimport.ParseNumber)
		a.unitPrice = coerce(line.Position, FieldUnitPrice, line.UnitPrice, ocrimport.ParseNumber)
		for _, kind := range invoice.TaxKinds {
			if raw, ok := line.TaxRates[kind]; ok {
				a.rates[kind] = coerce(line.Position, taxRateFields[kind], raw, ocrimport.ParseRate)
			}
		}
		lineValues[i] = a
	}
	if len(fieldErrs) > 0 {
		return nil, &invoice.MappingError{Fields: fieldErrs}
	}

	rs := &procurement.RecordSet{Warnings: append([]string(nil), inv.Warnings...)}
	now := m.keys.Now()

	invoiceDate, ok := parseInvoiceDate(inv.Date)
	if !ok {
		invoiceDate = truncateDay(now)
		rs.Warnings = append(rs.Warnings, fmt.Sprintf("%s %q not recognised, using processing date %s",
			FieldInvoiceDate, inv.Date, invoiceDate.Format("2006-01-02")))
	}

	var subtotal *decimal.Decimal
	if inv.Subtotal != "" {
		if d, err := ocrimport.ParseNumber(inv.Subtotal); err == nil {
			subtotal = &d
		} else {
			rs.Warnings = append(rs.Warnings, fmt.Sprintf("%s %q is not numeric and was ignored", FieldSubtotal, inv.Subtotal))
		}
	}

	if err := m.buildPO(rs, inv, lineValues, total, invoiceDate, now); err != nil {
		return nil, err
	}
	if err := m.buildGRN(rs, inv, lineValues, subtotal, invoiceDate, now); err != nil {
		return nil, err
	}
	return rs, nil
}

func (m *Mapper) buildPO(rs *procurement.RecordSet, inv *invoice.Invoice, values []amounts,
	total decimal.Decimal, invoiceDate, now time.Time) error {
	headerKey, err := m.keys.UUID()
	if err != nil {
		return err
	}
	poID, err := m.keys.POID()
	if err != nil {
		return err
	}

	poNumber := inv.EffectivePONumber()
	rs.POHeader = &procurement.POHeader{
		BaseEntity:      shared.NewBaseEntity(headerKey, now),
		POID:            poID,
		PONumber:        poNumber,
		PODate:          invoiceDate,
		Status:          procurement.POStatusApproved,
		Type:            procurement.POTypeStandard,
		Supplier:        procurement.NewReference(procurement.RefSupplier, inv.SupplierName),
		SupplierSite:    procurement.NewReference(procurement.RefSite, inv.SupplierGSTN),
		LegalEntity:     procurement.NewReference(procurement.RefLegalEntity, inv.LocationGSTN),
		LegalEntitySite: procurement.NewReference(procurement.RefSite, inv.LocationGSTN),
		SourcePO:        procurement.NewReference(procurement.RefPO, poNumber),
		CurrencyID:      firstNonEmpty(inv.Currency, m.defaultCurrency),
		TotalValue:      round2(total),
		PaymentTerms:    firstNonEmpty(inv.PaymentTerms, procurement.DefaultPaymentTerms),
		MatchingType:    procurement.MatchingThreeWay,
		CreatedBy:       procurement.CreatedByOCR,
		ExternalSystem:  procurement.ExternalSystemOCR,
		ExternalID:      "OCR-" + poNumber,
		EffectiveFrom:   invoiceDate,
	}

	for i, line := range inv.Lines {
		lineNo := i + 1
		lineKey, err := m.keys.UUID()
		if err != nil {
			return err
		}
		v := values[i]
		poLine := &procurement.POLine{
			BaseEntity:    shared.NewBaseEntity(lineKey, now),
			POLineID:      m.keys.POLineID(poID, lineNo),
			POHeaderRef:   headerKey,
			LineNo:        lineNo,
			Item:          procurement.NewReference(procurement.RefItem, itemIdentifier(line)),
			Description:   line.Description,
			HSNCode:       firstNonEmpty(line.HSNCode, procurement.DefaultHSN),
			OrderedQty:    line.Quantity,
			UnitPrice:     round2(v.unitPrice),
			LineAmount:    round2(v.lineAmount),
			UOM:           firstNonEmpty(line.Unit, procurement.DefaultUOM),
			Status:        procurement.POLineStatusOpen,
			EffectiveFrom: invoiceDate,
		}
		rs.POLines = append(rs.POLines, poLine)

		for _, kind := range invoice.TaxKinds {
			rate, ok := v.rates[kind]
			if !ok || !rate.IsPositive() {
				continue
			}
			cond, err := m.buildCondition(kind, rate, poLine, now, invoiceDate)
			if err != nil {
				return err
			}
			rs.POConditions = append(rs.POConditions, cond)
		}
	}
	return nil
}

func (m *Mapper) buildCondition(kind invoice.TaxKind, rate decimal.Decimal, line *procurement.POLine,
	now, effective time.Time) (*procurement.POCondition, error) {
	key, err := m.keys.UUID()
	if err != nil {
		return nil, err
	}
	condID, err := m.keys.POConditionID()
	if err != nil {
		return nil, err
	}
	lineRef := line.ID
	return &procurement.POCondition{
		BaseEntity:       shared.NewBaseEntity(key, now),
		POConditionID:    condID,
		POHeaderRef:      line.POHeaderRef,
		POLineRef:        &lineRef,
		ConditionType:    string(kind),
		CalculationBasis: procurement.CalculationPercentage,
		Rate:             round2(rate),
		Amount:           round2(line.LineAmount.Mul(rate).Div(hundred)),
		UOM:              procurement.ConditionUOMPercent,
		EffectiveFrom:    effective,
	}, nil
}

func (m *Mapper) buildGRN(rs *procurement.RecordSet, inv *invoice.Invoice, values []amounts,
	subtotal *decimal.Decimal, invoiceDate, now time.Time) error {
	headerKey, err := m.keys.UUID()
	if err != nil {
		return err
	}
	grnNumber, err := m.keys.GRNNumber(now)
	if err != nil {
		return err
	}
	grnID, err := m.keys.GRNID()
	if err != nil {
		return err
	}

	totalQty := decimal.Zero
	totalAmount := decimal.Zero
	for i, line := range inv.Lines {
		totalQty = totalQty.Add(line.Quantity)
		totalAmount = totalAmount.Add(values[i].lineAmount)
	}
	if subtotal != nil {
		totalAmount = *subtotal
	}

	rs.GRNHeader = &procurement.GRNHeader{
		BaseEntity:          shared.NewBaseEntity(headerKey, now),
		GRNNumber:           grnNumber,
		GRNID:               grnID,
		GRNDate:             invoiceDate,
		Status:              procurement.GRNStatusReceived,
		QCStatus:            procurement.QCStatusPending,
		POLineRef:           rs.POLines[0].ID,
		SupplierSite:        procurement.NewReference(procurement.RefSite, inv.SupplierGSTN),
		LegalEntitySite:     procurement.NewReference(procurement.RefSite, inv.LocationGSTN),
		TotalReceivedQty:    totalQty,
		TotalReceivedAmount: round2(totalAmount),
		WeightUOM:           procurement.DefaultWeightUOM,
		InvoiceNumber:       inv.Number,
		ExternalSystem:      procurement.ExternalSystemOCR,
		ExternalID:          "OCR-GRN-" + grnNumber,
		EffectiveFrom:       invoiceDate,
	}

	for i, line := range inv.Lines {
		lineNo := i + 1
		lineKey, err := m.keys.UUID()
		if err != nil {
			return err
		}
		rs.GRNLines = append(rs.GRNLines, &procurement.GRNLine{
			BaseEntity:    shared.NewBaseEntity(lineKey, now),
			GRNLineID:     m.keys.GRNLineID(grnID, lineNo),
			GRNHeaderRef:  headerKey,
			LineNo:        lineNo,
			Item:          procurement.NewReference(procurement.RefItem, itemIdentifier(line)),
			Description:   line.Description,
			HSNCode:       firstNonEmpty(line.HSNCode, procurement.DefaultHSN),
			UOM:           firstNonEmpty(line.Unit, procurement.DefaultUOM),
			ReceivedQty:   line.Quantity,
			AcceptedQty:   line.Quantity,
			RejectedQty:   decimal.Zero,
			UnitPrice:     round2(values[i].unitPrice),
			LineAmount:    round2(values[i].lineAmount),
			QCResult:      procurement.QCStatusPending,
			Status:        procurement.GRNStatusReceived,
			EffectiveFrom: invoiceDate,
		})
	}
	return nil
}

// itemIdentifier prefers the OCR description and falls back to the HSN code
// when the description was defaulted
func itemIdentifier(line invoice.Line) string {
	if line.Description != "" && line.Description != invoice.DefaultDescription {
		return line.Description
	}
	return line.HSNCode
}

// Resolve binds every requested reference of rs. Each distinct (kind,
// identifier) pair is resolved once; placeholders add one warning each.
func (m *Mapper) Resolve(ctx context.Context, rs *procurement.RecordSet) error {
	resolved := make(map[procurement.ReferenceRequest]procurement.Resolution)
	for _, req := range rs.Requests() {
		res, err := m.resolver.Resolve(ctx, req.Kind, req.Identifier)
		if err != nil {
			return err
		}
		if res.Key == uuid.Nil {
			return fmt.Errorf("resolver returned an empty key for %s", req)
		}
		resolved[req] = res
		if res.Placeholder {
			rs.Warnings = append(rs.Warnings, "unresolved reference: "+req.String())
		}
	}
	for _, ref := range rs.References() {
		ref.Bind(resolved[procurement.ReferenceRequest{Kind: ref.Kind, Identifier: ref.Identifier}])
	}
	return nil
}
