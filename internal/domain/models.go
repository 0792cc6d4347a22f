package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used for invoice and payment dates.
const DateLayout = "2006-01-02"

// Namespace scopes every document a user owns.
type Namespace string

// GuestNamespace holds data for unauthenticated sessions.
const GuestNamespace Namespace = "guest"

// UserNamespace returns the namespace owned by the given user id.
func UserNamespace(userID string) Namespace {
	return Namespace("users/" + userID)
}

// Collection returns the store path of a collection inside the namespace.
func (n Namespace) Collection(name string) string {
	return string(n) + "/" + name
}

// IsGuest reports whether the namespace belongs to guest mode.
func (n Namespace) IsGuest() bool {
	return n == GuestNamespace
}

// Product is a catalog entry.
type Product struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Stock    decimal.Decimal `json:"stock"`
	Category string          `json:"category"`
	HSN      string          `json:"hsn,omitempty"`
	GSTRate  decimal.Decimal `json:"gst_rate"`
}

var lowStockThreshold = decimal.NewFromInt(10)

// StockStatus returns the inventory label for the current stock level.
func (p *Product) StockStatus() StockStatus {
	switch {
	case p.Stock.GreaterThan(lowStockThreshold):
		return StockStatusInStock
	case p.Stock.IsPositive():
		return StockStatusLowStock
	default:
		return StockStatusOutOfStock
	}
}

// CustomerNotification is one entry in a customer's activity log.
type CustomerNotification struct {
	ID      string           `json:"id"`
	Type    NotificationType `json:"type"`
	Title   string           `json:"title"`
	Message string           `json:"message"`
	Date    string           `json:"date"`
	Read    bool             `json:"read"`
}

// Customer is a buyer with a running balance.
type Customer struct {
	ID            string                 `json:"id"`
	Name          string                 `json:"name"`
	Company       string                 `json:"company"`
	Email         string                 `json:"email"`
	Phone         string                 `json:"phone"`
	Address       string                 `json:"address"`
	State         string                 `json:"state,omitempty"`
	GSTIN         string                 `json:"gstin,omitempty"`
	Balance       decimal.Decimal        `json:"balance"`
	Notifications []CustomerNotification `json:"notifications"`
}

// DisplayName prefers the company name over the contact name.
func (c *Customer) DisplayName() string {
	if strings.TrimSpace(c.Company) != "" {
		return c.Company
	}
	return c.Name
}

// Payment records money received from a customer.
type Payment struct {
	ID         string          `json:"id"`
	CustomerID string          `json:"customer_id"`
	Date       string          `json:"date"`
	Amount     decimal.Decimal `json:"amount"`
	Mode       PaymentMode     `json:"mode"`
	Reference  string          `json:"reference,omitempty"`
	Note       string          `json:"note,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// InvoiceItem is one invoice line. The amount fields are derived by the tax calculator.
type InvoiceItem struct {
	ProductID   string          `json:"product_id,omitempty"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	HSN         string          `json:"hsn,omitempty"`
	GSTRate     decimal.Decimal `json:"gst_rate"`
	BaseAmount  decimal.Decimal `json:"base_amount"`
	CGSTAmount  decimal.Decimal `json:"cgst_amount"`
	SGSTAmount  decimal.Decimal `json:"sgst_amount"`
	IGSTAmount  decimal.Decimal `json:"igst_amount"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// Invoice is a tax invoice together with a snapshot of the customer it was raised for.
type Invoice struct {
	ID              string          `json:"id"`
	InvoiceNumber   string          `json:"invoice_number"`
	CustomerID      string          `json:"customer_id"`
	CustomerName    string          `json:"customer_name"`
	CustomerAddress string          `json:"customer_address"`
	CustomerState   string          `json:"customer_state,omitempty"`
	CustomerGSTIN   string          `json:"customer_gstin,omitempty"`
	SupplierGSTIN   string          `json:"supplier_gstin,omitempty"`
	TaxType         TaxType         `json:"tax_type,omitempty"`
	Date            string          `json:"date"`
	DueDate         string          `json:"due_date"`
	Items           []InvoiceItem   `json:"items"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	TotalCGST       decimal.Decimal `json:"total_cgst"`
	TotalSGST       decimal.Decimal `json:"total_sgst"`
	TotalIGST       decimal.Decimal `json:"total_igst"`
	GSTEnabled      bool            `json:"gst_enabled"`
	Total           decimal.Decimal `json:"total"`
	Status          InvoiceStatus   `json:"status"`
	SaleMode        SaleMode        `json:"sale_mode,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// IsPending reports whether the invoice counts towards the customer's balance.
func (i *Invoice) IsPending() bool {
	return i.Status == InvoiceStatusPending
}

// CompanyProfile describes the business issuing invoices.
type CompanyProfile struct {
	Name           string `json:"name"`
	Address        string `json:"address"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	State          string `json:"state,omitempty"`
	GSTIN          string `json:"gstin,omitempty"`
	GSTEnabled     bool   `json:"gst_enabled"`
	ShowHSNSummary bool   `json:"show_hsn_summary"`
}

// DefaultCompanyProfile returns the profile used until the user saves their own.
func DefaultCompanyProfile() CompanyProfile {
	return CompanyProfile{
		Name:       "ABC Trading Company",
		Address:    "123, Market Road, Delhi - 110001",
		Phone:      "9876543210",
		Email:      "info@abctrading.com",
		State:      "Delhi",
		GSTEnabled: true,
	}
}

// Account is a registered user that owns a namespace.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// Namespace returns the namespace owned by the account.
func (a *Account) Namespace() Namespace {
	return UserNamespace(a.ID)
}
