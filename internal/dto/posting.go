package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentStatus is the lifecycle state of a source business document.
// Only a transition into CONFIRMED may trigger a posting.
type DocumentStatus string

const (
	StatusDraft     DocumentStatus = "DRAFT"
	StatusConfirmed DocumentStatus = "CONFIRMED"
	StatusCancelled DocumentStatus = "CANCELLED"
)

// SaleItem is one invoice line of a sale or sale return. UnitCost is an
// optional cost snapshot; when nil, the product's last-known cost is used.
type SaleItem struct {
	ProductID string           `json:"productID" binding:"required"`
	Quantity  decimal.Decimal  `json:"quantity" binding:"required"`
	UnitPrice decimal.Decimal  `json:"unitPrice"`
	UnitCost  *decimal.Decimal `json:"unitCost,omitempty"`
}

// PurchaseItem is one invoice line of a purchase or purchase return.
type PurchaseItem struct {
	ProductID string          `json:"productID" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	UnitCost  decimal.Decimal `json:"unitCost" binding:"required"`
}

// SaleRequest carries a confirmed sale invoice into the ledger.
type SaleRequest struct {
	SaleID         string          `json:"saleID" binding:"required"`
	CustomerID     string          `json:"customerID" binding:"required"`
	Status         DocumentStatus  `json:"status" binding:"required"`
	Date           time.Time       `json:"date" binding:"required"`
	InvoiceTotal   decimal.Decimal `json:"invoiceTotal" binding:"required"`
	Items          []SaleItem      `json:"items,omitempty"`
	SalesRepID     string          `json:"salesRepID,omitempty"`
	CommissionRate decimal.Decimal `json:"commissionRate,omitempty"`
}

// PurchaseRequest carries a confirmed purchase invoice into the ledger.
type PurchaseRequest struct {
	PurchaseID   string          `json:"purchaseID" binding:"required"`
	SupplierID   string          `json:"supplierID" binding:"required"`
	Status       DocumentStatus  `json:"status" binding:"required"`
	Date         time.Time       `json:"date" binding:"required"`
	InvoiceTotal decimal.Decimal `json:"invoiceTotal" binding:"required"`
	Items        []PurchaseItem  `json:"items,omitempty"`
}

// SaleReturnRequest carries a confirmed sale return into the ledger.
type SaleReturnRequest struct {
	ReturnID    string          `json:"returnID" binding:"required"`
	SaleID      string          `json:"saleID,omitempty"`
	CustomerID  string          `json:"customerID" binding:"required"`
	Status      DocumentStatus  `json:"status" binding:"required"`
	Date        time.Time       `json:"date" binding:"required"`
	ReturnTotal decimal.Decimal `json:"returnTotal" binding:"required"`
	Items       []SaleItem      `json:"items,omitempty"`
}

// PurchaseReturnRequest carries a confirmed purchase return into the ledger.
type PurchaseReturnRequest struct {
	ReturnID    string          `json:"returnID" binding:"required"`
	PurchaseID  string          `json:"purchaseID,omitempty"`
	SupplierID  string          `json:"supplierID" binding:"required"`
	Status      DocumentStatus  `json:"status" binding:"required"`
	Date        time.Time       `json:"date" binding:"required"`
	ReturnTotal decimal.Decimal `json:"returnTotal" binding:"required"`
	Items       []PurchaseItem  `json:"items,omitempty"`
}

// CustomerPaymentRequest carries a customer payment into the ledger.
// Payments post on creation; they have no draft state.
type CustomerPaymentRequest struct {
	PaymentID  string          `json:"paymentID" binding:"required"`
	CustomerID string          `json:"customerID" binding:"required"`
	Date       time.Time       `json:"date" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	Notes      string          `json:"notes,omitempty"`
}

// SupplierPaymentRequest carries a supplier payment into the ledger.
type SupplierPaymentRequest struct {
	PaymentID  string          `json:"paymentID" binding:"required"`
	SupplierID string          `json:"supplierID" binding:"required"`
	Date       time.Time       `json:"date" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	Notes      string          `json:"notes,omitempty"`
}

// SalaryRequest carries a confirmed salary run into the ledger.
type SalaryRequest struct {
	SalaryID     string          `json:"salaryID" binding:"required"`
	EmployeeID   string          `json:"employeeID" binding:"required"`
	EmployeeName string          `json:"employeeName,omitempty"`
	Status       DocumentStatus  `json:"status" binding:"required"`
	Date         time.Time       `json:"date" binding:"required"`
	NetPay       decimal.Decimal `json:"netPay" binding:"required"`
}

// CommissionRequest carries a standalone sales commission into the ledger.
type CommissionRequest struct {
	CommissionID string          `json:"commissionID" binding:"required"`
	SaleID       string          `json:"saleID,omitempty"`
	SalesRepID   string          `json:"salesRepID" binding:"required"`
	Date         time.Time       `json:"date" binding:"required"`
	SaleTotal    decimal.Decimal `json:"saleTotal" binding:"required"`
	Rate         decimal.Decimal `json:"rate" binding:"required"`
}

// InventoryAdjustmentRequest carries a physical stock count into the ledger.
type InventoryAdjustmentRequest struct {
	ProductID      string          `json:"productID" binding:"required"`
	ActualQuantity decimal.Decimal `json:"actualQuantity"`
	Notes          string          `json:"notes,omitempty"`
}

// PostingResponse reports the journal entries a posting produced.
type PostingResponse struct {
	Entries []EntryResponse `json:"entries"`
}
