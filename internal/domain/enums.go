package domain

// TaxType selects between split (CGST+SGST) and integrated (IGST) tax.
type TaxType string

const (
	TaxTypeIntraState TaxType = "INTRA_STATE"
	TaxTypeInterState TaxType = "INTER_STATE"
)

// InvoiceStatus represents the settlement status of an invoice.
// OVERDUE is part of the stored vocabulary but never assigned by the billing core.
type InvoiceStatus string

const (
	InvoiceStatusPaid    InvoiceStatus = "PAID"
	InvoiceStatusPending InvoiceStatus = "PENDING"
	InvoiceStatusOverdue InvoiceStatus = "OVERDUE"
)

// SaleMode is the cash/credit choice made when an invoice is raised.
type SaleMode string

const (
	SaleModeCash   SaleMode = "CASH"
	SaleModeCredit SaleMode = "CREDIT"
)

// Status maps a sale mode to the invoice status it implies.
func (m SaleMode) Status() InvoiceStatus {
	if m == SaleModeCash {
		return InvoiceStatusPaid
	}
	return InvoiceStatusPending
}

// PaymentMode represents how a payment was received.
type PaymentMode string

const (
	PaymentModeCash         PaymentMode = "CASH"
	PaymentModeUPI          PaymentMode = "UPI"
	PaymentModeBankTransfer PaymentMode = "BANK_TRANSFER"
	PaymentModeCheque       PaymentMode = "CHEQUE"
)

// NotificationType classifies entries in a customer's notification log.
type NotificationType string

const (
	NotificationInvoice  NotificationType = "INVOICE"
	NotificationPayment  NotificationType = "PAYMENT"
	NotificationReminder NotificationType = "REMINDER"
	NotificationSystem   NotificationType = "SYSTEM"
)

// StockStatus is the inventory label shown for a product.
type StockStatus string

const (
	StockStatusInStock    StockStatus = "In Stock"
	StockStatusLowStock   StockStatus = "Low Stock"
	StockStatusOutOfStock StockStatus = "Out of Stock"
)

// Collection names inside a namespace.
const (
	CollectionProducts  = "products"
	CollectionCustomers = "customers"
	CollectionInvoices  = "invoices"
	CollectionPayments  = "payments"
	CollectionCompany   = "company"
	CollectionAccounts  = "system/accounts"
)

// CompanyProfileID is the document id of the company profile.
const CompanyProfileID = "profile"
