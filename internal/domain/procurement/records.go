package procurement

import (
	"fmt"
	"time"

	"github.com/easyml-code/ocr-data-insertion/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Fixed values written by the OCR pipeline
const (
	GRNStatusReceived     = "RECEIVED"
	QCStatusPending       = "PENDING"
	POStatusApproved      = "APPROVED"
	POTypeStandard        = "STANDARD"
	POLineStatusOpen      = "OPEN"
	MatchingThreeWay      = "THREE_WAY"
	DefaultPaymentTerms   = "NET30"
	DefaultUOM            = "EA"
	DefaultWeightUOM      = "KG"
	DefaultHSN            = "UNKNOWN"
	ConditionUOMPercent   = "PERCENT"
	CalculationPercentage = "PERCENTAGE"
	CreatedByOCR          = "OCR_AUTOMATION"
	ExternalSystemOCR     = "OCR_SYSTEM"
)

// POHeader is one purchase order reconstructed from an invoice
type POHeader struct {
	shared.BaseEntity
	POID            string
	PONumber        string
	PODate          time.Time
	Status          string
	Type            string
	Supplier        Reference
	SupplierSite    Reference
	LegalEntity     Reference
	LegalEntitySite Reference
	SourcePO        Reference
	CurrencyID      string
	TotalValue      decimal.Decimal
	PaymentTerms    string
	MatchingType    string
	CreatedBy       string
	ExternalSystem  string
	ExternalID      string
	EffectiveFrom   time.Time
}

// POLine is one ordered item of a POHeader
type POLine struct {
	shared.BaseEntity
	POLineID      string
	POHeaderRef   uuid.UUID
	LineNo        int
	Item          Reference
	Description   string
	HSNCode       string
	OrderedQty    decimal.Decimal
	UnitPrice     decimal.Decimal
	LineAmount    decimal.Decimal
	UOM           string
	Status        string
	EffectiveFrom time.Time
}

// POCondition is a tax condition raised by one PO line
type POCondition struct {
	shared.BaseEntity
	POConditionID    string
	POHeaderRef      uuid.UUID
	POLineRef        *uuid.UUID
	ConditionType    string
	CalculationBasis string
	Rate             decimal.Decimal
	Amount           decimal.Decimal
	UOM              string
	EffectiveFrom    time.Time
}

// GRNHeader records the receipt of the goods on an invoice
type GRNHeader struct {
	shared.BaseEntity
	GRNNumber           string
	GRNID               string
	GRNDate             time.Time
	Status              string
	QCStatus            string
	POLineRef           uuid.UUID
	SupplierSite        Reference
	LegalEntitySite     Reference
	TotalReceivedQty    decimal.Decimal
	TotalReceivedAmount decimal.Decimal
	WeightUOM           string
	InvoiceNumber       string
	ExternalSystem      string
	ExternalID          string
	EffectiveFrom       time.Time
}

// GRNLine is one received item of a GRNHeader
type GRNLine struct {
	shared.BaseEntity
	GRNLineID     string
	GRNHeaderRef  uuid.UUID
	LineNo        int
	Item          Reference
	Description   string
	HSNCode       string
	UOM           string
	ReceivedQty   decimal.Decimal
	AcceptedQty   decimal.Decimal
	RejectedQty   decimal.Decimal
	UnitPrice     decimal.Decimal
	LineAmount    decimal.Decimal
	QCResult      string
	Status        string
	EffectiveFrom time.Time
}

// RecordSet is the complete entity graph produced from one invoice. It is
// written in a single transaction or not at all.
type RecordSet struct {
	POHeader     *POHeader
	POLines      []*POLine
	POConditions []*POCondition
	GRNHeader    *GRNHeader
	GRNLines     []*GRNLine

	// Warnings are non-fatal observations accumulated while mapping and resolving
	Warnings []string
}

// References returns every reference slot of the set that names an identifier,
// in a stable order: header references first, then per-line items.
func (rs *RecordSet) References() []*Reference {
	var refs []*Reference
	add := func(r *Reference) {
		if r.Requested() {
			refs = append(refs, r)
		}
	}
	if h := rs.POHeader; h != nil {
		add(&h.Supplier)
		add(&h.SupplierSite)
		add(&h.LegalEntity)
		add(&h.LegalEntitySite)
		add(&h.SourcePO)
	}
	if h := rs.GRNHeader; h != nil {
		add(&h.SupplierSite)
		add(&h.LegalEntitySite)
	}
	for _, l := range rs.POLines {
		add(&l.Item)
	}
	for _, l := range rs.GRNLines {
		add(&l.Item)
	}
	return refs
}

// Requests returns the distinct (kind, identifier) pairs of References in first-seen order
func (rs *RecordSet) Requests() []ReferenceRequest {
	seen := make(map[ReferenceRequest]struct{})
	var out []ReferenceRequest
	for _, r := range rs.References() {
		req := ReferenceRequest{Kind: r.Kind, Identifier: r.Identifier}
		if _, ok := seen[req]; ok {
			continue
		}
		seen[req] = struct{}{}
		out = append(out, req)
	}
	return out
}

// Summary counts the rows the set will insert per table
func (rs *RecordSet) Summary() WriteSummary {
	s := WriteSummary{
		POLinesInserted:      len(rs.POLines),
		POConditionsInserted: len(rs.POConditions),
		GRNLinesInserted:     len(rs.GRNLines),
	}
	if rs.POHeader != nil {
		s.POHeaderID = rs.POHeader.ID
	}
	if rs.GRNHeader != nil {
		s.GRNHeaderID = rs.GRNHeader.ID
	}
	return s
}

// Validate checks the structural invariants a writer relies on: both headers
// exist, line numbers run 1..N, every line and condition points at its header,
// the GRN header points at a PO line of this set and every requested
// reference is bound.
func (rs *RecordSet) Validate() error {
	if rs.POHeader == nil || rs.GRNHeader == nil {
		return fmt.Errorf("record set is missing a header")
	}
	if len(rs.POLines) == 0 || len(rs.POLines) != len(rs.GRNLines) {
		return fmt.Errorf("record set has %d PO lines and %d GRN lines", len(rs.POLines), len(rs.GRNLines))
	}

	poLineIDs := make(map[uuid.UUID]struct{}, len(rs.POLines))
	for i, l := range rs.POLines {
		if l.LineNo != i+1 {
			return fmt.Errorf("PO line %d has line_no %d", i+1, l.LineNo)
		}
		if l.POHeaderRef != rs.POHeader.ID {
			return fmt.Errorf("PO line %d does not reference its header", l.LineNo)
		}
		poLineIDs[l.ID] = struct{}{}
	}
	for i, l := range rs.GRNLines {
		if l.LineNo != i+1 {
			return fmt.Errorf("GRN line %d has line_no %d", i+1, l.LineNo)
		}
		if l.GRNHeaderRef != rs.GRNHeader.ID {
			return fmt.Errorf("GRN line %d does not reference its header", l.LineNo)
		}
	}
	for _, c := range rs.POConditions {
		if c.POHeaderRef != rs.POHeader.ID {
			return fmt.Errorf("condition %s does not reference the PO header", c.POConditionID)
		}
		if c.POLineRef != nil {
			if _, ok := poLineIDs[*c.POLineRef]; !ok {
				return fmt.Errorf("condition %s references an unknown PO line", c.POConditionID)
			}
		}
	}
	if _, ok := poLineIDs[rs.GRNHeader.POLineRef]; !ok {
		return fmt.Errorf("GRN header references a PO line outside this record set")
	}
	for _, r := range rs.References() {
		if !r.Bound() {
			return fmt.Errorf("unbound reference: %s %q", r.Kind, r.Identifier)
		}
	}
	return nil
}
