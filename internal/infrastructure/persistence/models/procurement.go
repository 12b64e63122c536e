package models

import (
	"time"

	"github.com/easyml-code/ocr-data-insertion/internal/domain/procurement"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// POHeaderModel is the persistence model for s_po_header
type POHeaderModel struct {
	BaseModel
	POID                string          `gorm:"column:po_id;type:varchar(20);not null;uniqueIndex"`
	PONumber            string          `gorm:"column:po_number;type:varchar(100);not null;index"`
	PODate              time.Time       `gorm:"column:po_date;type:date;not null"`
	POStatus            string          `gorm:"column:po_status;type:varchar(20);not null"`
	POType              string          `gorm:"column:po_type;type:varchar(20);not null"`
	SupplierRef         *uuid.UUID      `gorm:"column:supplier_ref;type:uuid"`
	SupplierSiteRef     *uuid.UUID      `gorm:"column:supplier_site_ref;type:uuid"`
	LegalEntityRef      *uuid.UUID      `gorm:"column:legal_entity_ref;type:uuid"`
	LegalEntitySiteRef  *uuid.UUID      `gorm:"column:legal_entity_site_ref;type:uuid"`
	SourcePORef         *uuid.UUID      `gorm:"column:source_po_ref;type:uuid"`
	SourcePOPlaceholder bool            `gorm:"column:source_po_placeholder;not null"`
	CurrencyID          string          `gorm:"column:currency_id;type:varchar(10);not null"`
	POTotalValue        decimal.Decimal `gorm:"column:po_total_value;type:decimal(18,2);not null"`
	PaymentTerms        string          `gorm:"column:payment_terms;type:varchar(50);not null"`
	MatchingType        string          `gorm:"column:matching_type;type:varchar(20);not null"`
	CreatedBy           string          `gorm:"column:created_by;type:varchar(50);not null"`
	ExternalSystem      string          `gorm:"column:external_system;type:varchar(50);not null"`
	ExternalSystemID    string          `gorm:"column:external_system_id;type:varchar(120);not null"`
	EffectiveFrom       time.Time       `gorm:"column:effective_from;type:date;not null"`
}

// TableName returns the table name for GORM
func (POHeaderModel) TableName() string {
	return "s_po_header"
}

// POHeaderModelFromDomain creates a persistence model from a domain POHeader
func POHeaderModelFromDomain(h *procurement.POHeader) *POHeaderModel {
	m := &POHeaderModel{
		POID:                h.POID,
		PONumber:            h.PONumber,
		PODate:              h.PODate,
		POStatus:            h.Status,
		POType:              h.Type,
		SupplierRef:         h.Supplier.Key,
		SupplierSiteRef:     h.SupplierSite.Key,
		LegalEntityRef:      h.LegalEntity.Key,
		LegalEntitySiteRef:  h.LegalEntitySite.Key,
		SourcePORef:         h.SourcePO.Key,
		SourcePOPlaceholder: h.SourcePO.Placeholder,
		CurrencyID:          h.CurrencyID,
		POTotalValue:        h.TotalValue,
		PaymentTerms:        h.PaymentTerms,
		MatchingType:        h.MatchingType,
		CreatedBy:           h.CreatedBy,
		ExternalSystem:      h.ExternalSystem,
		ExternalSystemID:    h.ExternalID,
		EffectiveFrom:       h.EffectiveFrom,
	}
	m.FromDomainBaseEntity(h.BaseEntity)
	return m
}

// POLineModel is the persistence model for s_po_line
type POLineModel struct {
	BaseModel
	POLineID        string          `gorm:"column:po_line_id;type:varchar(30);not null;uniqueIndex"`
	POHeaderRef     uuid.UUID       `gorm:"column:po_header_ref;type:uuid;not null;index"`
	LineNo          int             `gorm:"column:line_no;not null"`
	ItemRef         *uuid.UUID      `gorm:"column:item_ref;type:uuid"`
	ItemDescription string          `gorm:"column:item_description;type:text;not null"`
	HSNID           string          `gorm:"column:hsn_id;type:varchar(20);not null"`
	OrderedQuantity decimal.Decimal `gorm:"column:ordered_quantity;type:decimal(18,4);not null"`
	UnitPrice       decimal.Decimal `gorm:"column:unit_price;type:decimal(18,2);not null"`
	LineAmount      decimal.Decimal `gorm:"column:line_amount;type:decimal(18,2);not null"`
	UOMID           string          `gorm:"column:uom_id;type:varchar(20);not null"`
	LineStatus      string          `gorm:"column:line_status;type:varchar(20);not null"`
	EffectiveFrom   time.Time       `gorm:"column:effective_from;type:date;not null"`
}

// TableName returns the table name for GORM
func (POLineModel) TableName() string {
	return "s_po_line"
}

// POLineModelFromDomain creates a persistence model from a domain POLine
func POLineModelFromDomain(l *procurement.POLine) *POLineModel {
	m := &POLineModel{
		POLineID:        l.POLineID,
		POHeaderRef:     l.POHeaderRef,
		LineNo:          l.LineNo,
		ItemRef:         l.Item.Key,
		ItemDescription: l.Description,
		HSNID:           l.HSNCode,
		OrderedQuantity: l.OrderedQty,
		UnitPrice:       l.UnitPrice,
		LineAmount:      l.LineAmount,
		UOMID:           l.UOM,
		LineStatus:      l.Status,
		EffectiveFrom:   l.EffectiveFrom,
	}
	m.FromDomainBaseEntity(l.BaseEntity)
	return m
}

// POConditionModel is the persistence model for s_po_condition
type POConditionModel struct {
	BaseModel
	POConditionID    string          `gorm:"column:po_condition_id;type:varchar(20);not null;uniqueIndex"`
	POHeaderRef      uuid.UUID       `gorm:"column:po_header_ref;type:uuid;not null;index"`
	POLineRef        *uuid.UUID      `gorm:"column:po_line_ref;type:uuid;index"`
	ConditionType    string          `gorm:"column:condition_type;type:varchar(10);not null"`
	CalculationBasis string          `gorm:"column:calculation_basis;type:varchar(20);not null"`
	Rate             decimal.Decimal `gorm:"column:rate;type:decimal(9,2);not null"`
	Amount           decimal.Decimal `gorm:"column:amount;type:decimal(18,2);not null"`
	UOMID            string          `gorm:"column:uom_id;type:varchar(20);not null"`
	EffectiveFrom    time.Time       `gorm:"column:effective_from;type:date;not null"`
}

// TableName returns the table name for GORM
func (POConditionModel) TableName() string {
	return "s_po_condition"
}

// POConditionModelFromDomain creates a persistence model from a domain POCondition
func POConditionModelFromDomain(c *procurement.POCondition) *POConditionModel {
	m := &POConditionModel{
		POConditionID:    c.POConditionID,
		POHeaderRef:      c.POHeaderRef,
		POLineRef:        c.POLineRef,
		ConditionType:    c.ConditionType,
		CalculationBasis: c.CalculationBasis,
		Rate:             c.Rate,
		Amount:           c.Amount,
		UOMID:            c.UOM,
		EffectiveFrom:    c.EffectiveFrom,
	}
	m.FromDomainBaseEntity(c.BaseEntity)
	return m
}

// GRNHeaderModel is the persistence model for s_grn_header
type GRNHeaderModel struct {
	BaseModel
	GRNNumber           string          `gorm:"column:grn_number;type:varchar(30);not null;uniqueIndex"`
	GRNID               string          `gorm:"column:grn_id;type:varchar(20);not null;uniqueIndex"`
	GRNDate             time.Time       `gorm:"column:grn_date;type:date;not null"`
	GRNStatus           string          `gorm:"column:grn_status;type:varchar(20);not null"`
	QCStatus            string          `gorm:"column:qc_status;type:varchar(20);not null"`
	POLineRef           uuid.UUID       `gorm:"column:po_line_ref;type:uuid;not null;index"`
	SupplierSiteRef     *uuid.UUID      `gorm:"column:supplier_site_ref;type:uuid"`
	LegalEntitySiteRef  *uuid.UUID      `gorm:"column:legal_entity_site_ref;type:uuid"`
	TotalReceivedQty    decimal.Decimal `gorm:"column:total_received_qty;type:decimal(18,4);not null"`
	TotalReceivedAmount decimal.Decimal `gorm:"column:total_received_amount;type:decimal(18,2);not null"`
	WeightUOMID         string          `gorm:"column:weight_uom_id;type:varchar(20);not null"`
	InvoiceNumber       string          `gorm:"column:invoice_number;type:varchar(100);not null;index"`
	ExternalSystem      string          `gorm:"column:external_system;type:varchar(50);not null"`
	ExternalSystemID    string          `gorm:"column:external_system_id;type:varchar(120);not null"`
	EffectiveFrom       time.Time       `gorm:"column:effective_from;type:date;not null"`
}

// TableName returns the table name for GORM
func (GRNHeaderModel) TableName() string {
	return "s_grn_header"
}

// GRNHeaderModelFromDomain creates a persistence model from a domain GRNHeader
func GRNHeaderModelFromDomain(h *procurement.GRNHeader) *GRNHeaderModel {
	m := &GRNHeaderModel{
		GRNNumber:           h.GRNNumber,
		GRNID:               h.GRNID,
		GRNDate:             h.GRNDate,
		GRNStatus:           h.Status,
		QCStatus:            h.QCStatus,
		POLineRef:           h.POLineRef,
		SupplierSiteRef:     h.SupplierSite.Key,
		LegalEntitySiteRef:  h.LegalEntitySite.Key,
		TotalReceivedQty:    h.TotalReceivedQty,
		TotalReceivedAmount: h.TotalReceivedAmount,
		WeightUOMID:         h.WeightUOM,
		InvoiceNumber:       h.InvoiceNumber,
		ExternalSystem:      h.ExternalSystem,
		ExternalSystemID:    h.ExternalID,
		EffectiveFrom:       h.EffectiveFrom,
	}
	m.FromDomainBaseEntity(h.BaseEntity)
	return m
}

// GRNLineModel is the persistence model for s_grn_line
type GRNLineModel struct {
	BaseModel
	GRNLineID           string          `gorm:"column:grn_line_id;type:varchar(30);not null;uniqueIndex"`
	GRNRef              uuid.UUID       `gorm:"column:grn_ref;type:uuid;not null;index"`
	LineNo              int             `gorm:"column:line_no;not null"`
	ItemRef             *uuid.UUID      `gorm:"column:item_ref;type:uuid"`
	ItemDescription     string          `gorm:"column:item_description;type:text;not null"`
	HSNCode             string          `gorm:"column:hsn_code;type:varchar(20);not null"`
	UOMID               string          `gorm:"column:uom_id;type:varchar(20);not null"`
	ReceivedQty         decimal.Decimal `gorm:"column:received_qty;type:decimal(18,4);not null"`
	AcceptedQty         decimal.Decimal `gorm:"column:accepted_qty;type:decimal(18,4);not null"`
	RejectedQty         decimal.Decimal `gorm:"column:rejected_qty;type:decimal(18,4);not null"`
	UnitPrice           decimal.Decimal `gorm:"column:unit_price;type:decimal(18,2);not null"`
	TotalReceivedAmount decimal.Decimal `gorm:"column:total_received_amount;type:decimal(18,2);not null"`
	QCResult            string          `gorm:"column:qc_result;type:varchar(20);not null"`
	GRNLineStatus       string          `gorm:"column:grn_line_status;type:varchar(20);not null"`
	EffectiveFrom       time.Time       `gorm:"column:effective_from;type:date;not null"`
}

// TableName returns the table name for GORM
func (GRNLineModel) TableName() string {
	return "s_grn_line"
}

// GRNLineModelFromDomain creates a persistence model from a domain GRNLine
func GRNLineModelFromDomain(l *procurement.GRNLine) *GRNLineModel {
	m := &GRNLineModel{
		GRNLineID:           l.GRNLineID,
		GRNRef:              l.GRNHeaderRef,
		LineNo:              l.LineNo,
		ItemRef:             l.Item.Key,
		ItemDescription:     l.Description,
		HSNCode:             l.HSNCode,
		UOMID:               l.UOM,
		ReceivedQty:         l.ReceivedQty,
		AcceptedQty:         l.AcceptedQty,
		RejectedQty:         l.RejectedQty,
		UnitPrice:           l.UnitPrice,
		TotalReceivedAmount: l.LineAmount,
		QCResult:            l.QCResult,
		GRNLineStatus:       l.Status,
		EffectiveFrom:       l.EffectiveFrom,
	}
	m.FromDomainBaseEntity(l.BaseEntity)
	return m
}
