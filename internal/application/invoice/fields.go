package invoiceapp

import (
	"github.com/easyml-code/ocr-data-insertion/internal/domain/invoice"
	"github.com/easyml-code/ocr-data-insertion/internal/infrastructure/ocrimport"
)

// Canonical static (header) field names
const (
	FieldInvoiceDate     = "Invoice Date"
	FieldCurrency        = "Invoice Currency"
	FieldTotalAmount     = "Total Invoice Amount"
	FieldSupplierName    = "Supplier Name"
	FieldInvoiceNo       = "Invoice No"
	FieldHeaderPONumber  = "PO Number"
	FieldSupplierGSTN    = "Supplier GSTN"
	FieldLocationGSTN    = "Location GSTN"
	FieldSupplierAddress = "Supplier Address"
	FieldBillToAddress   = "Bill To Address"
	FieldSubtotal        = "Subtotal"
	FieldTaxAmount       = "Invoice Tax Amount"
	FieldPaymentTerms    = "Payment Terms"
	FieldDueDate         = "Due Date"
)

// Canonical dynamic (line) field names
const (
	FieldDescription = "Description"
	FieldQuantity    = "Quantity"
	FieldLineAmount  = "Line Amount"
	FieldUnitPrice   = "Unit Price"
	FieldPONumber    = "PO Number"
	FieldHSN         = "HSN Number"
	FieldUnit        = "Unit"
	FieldIGSTRate    = "igst_rate"
	FieldCGSTRate    = "cgst_rate"
	FieldSGSTRate    = "sgst_rate"
	FieldUTGSTRate   = "utgst_rate"
)

var staticAliases = ocrimport.AliasTable{
	FieldInvoiceDate:     {"invoice_date", "Date"},
	FieldCurrency:        {"currency", "Currency"},
	FieldTotalAmount:     {"total_amount", "Invoice Total", "Total Amount", "Grand Total"},
	FieldSupplierName:    {"supplier_name", "Vendor Name"},
	FieldInvoiceNo:       {"invoice_number", "Invoice Number", "invoice_no"},
	FieldHeaderPONumber:  {"po_number", "PO No"},
	FieldSupplierGSTN:    {"supplier_gstin", "Supplier GSTIN", "Supplier GST"},
	FieldLocationGSTN:    {"location_gstin", "Location GSTIN", "Buyer GSTN"},
	FieldSupplierAddress: {"supplier_address"},
	FieldBillToAddress:   {"bill_to_address", "Billing Address"},
	FieldSubtotal:        {"subtotal", "Sub Total", "Taxable Amount"},
	FieldTaxAmount:       {"tax_amount", "Total Tax"},
	FieldPaymentTerms:    {"payment_terms"},
	FieldDueDate:         {"due_date"},
}

var lineAliases = ocrimport.AliasTable{
	FieldDescription: {"Invoice Lines/Description", "item_description", "Item Description"},
	FieldQuantity:    {"qty", "quantity"},
	FieldLineAmount:  {"line_amount", "Amount"},
	FieldUnitPrice:   {"unit_price", "Rate"},
	FieldPONumber:    {"po_number", "PO No"},
	FieldHSN:         {"hsn", "HSN Code", "hsn_code", "HSN/SAC"},
	FieldUnit:        {"uom", "unit"},
	FieldIGSTRate:    {"IGST Rate", "IGST %"},
	FieldCGSTRate:    {"CGST Rate", "CGST %"},
	FieldSGSTRate:    {"SGST Rate", "SGST %"},
	FieldUTGSTRate:   {"UTGST Rate", "UTGST %"},
}

var taxRateFields = map[invoice.TaxKind]string{
	invoice.TaxIGST:  FieldIGSTRate,
	invoice.TaxCGST:  FieldCGSTRate,
	invoice.TaxSGST:  FieldSGSTRate,
	invoice.TaxUTGST: FieldUTGSTRate,
}
