package handler_test

import (
	"encoding/csv"
	"net/http"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"billflow/internal/csvexport"
	"billflow/internal/domain"
	"billflow/internal/handler"
	"billflow/internal/service"
	"billflow/internal/tax"
	"billflow/mocks"
)

func newInvoiceHandler() (*handler.InvoiceHandler, *mocks.MockInvoiceService, *mocks.MockShareService) {
	invSvc := new(mocks.MockInvoiceService)
	shareSvc := new(mocks.MockShareService)
	return handler.NewInvoiceHandler(invSvc, shareSvc), invSvc, shareSvc
}

func TestInvoiceHandler_Create_Success(t *testing.T) {
	h, invSvc, _ := newInvoiceHandler()

	invSvc.On("Create", mock.Anything, testNS, mock.MatchedBy(func(in service.InvoiceInput) bool {
		return in.CustomerID == "c1" && len(in.Items) == 1 &&
			in.Items[0].Quantity.Equal(decimal.NewFromInt(2)) && in.Status == domain.InvoiceStatusPending
	})).Return(&domain.Invoice{ID: "i1", InvoiceNumber: "INV-2024-001", Total: decimal.NewFromInt(236)}, nil)

	c, w := newContext(http.MethodPost, "/api/v1/invoices", map[string]any{
		"customer_id": "c1",
		"date":        "2024-03-10",
		"status":      "PENDING",
		"items":       []map[string]any{{"product_id": "p1", "quantity": "2", "hsn": "8471"}},
	})
	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	resp := decode(t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, "INV-2024-001", resp.Data.(map[string]any)["invoice_number"])
	invSvc.AssertExpectations(t)
}

func TestInvoiceHandler_Create_BindingErrors(t *testing.T) {
	tests := []struct {
		name string
		body map[string]any
		want string
	}{
		{"bad_item_hsn", map[string]any{"customer_id": "c1", "items": []map[string]any{{"quantity": "1", "hsn": "12"}}}, "HSN failed hsn"},
		{"bad_date", map[string]any{"customer_id": "c1", "date": "10/03/2024"}, "Date failed isodate"},
		{"bad_status", map[string]any{"customer_id": "c1", "status": "OVERDUE"}, "Status failed oneof"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, invSvc, _ := newInvoiceHandler()
			c, w := newContext(http.MethodPost, "/api/v1/invoices", tt.body)
			h.Create(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp := decode(t, w)
			require.NotNil(t, resp.Error)
			assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
			assert.Contains(t, resp.Error.Message, tt.want)
			invSvc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestInvoiceHandler_Create_DomainErrors(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrCustomerRequired, http.StatusBadRequest, "CUSTOMER_REQUIRED"},
		{domain.ErrEmptyItems, http.StatusBadRequest, "EMPTY_ITEMS"},
		{domain.ErrStateRequired, http.StatusBadRequest, "STATE_REQUIRED"},
		{domain.ErrInsufficientStock, http.StatusConflict, "INSUFFICIENT_STOCK"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			h, invSvc, _ := newInvoiceHandler()
			invSvc.On("Create", mock.Anything, testNS, mock.Anything).Return(nil, tt.err)

			c, w := newContext(http.MethodPost, "/api/v1/invoices", map[string]any{"customer_id": "c1"})
			h.Create(c)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, errorCode(t, w))
		})
	}
}

func TestInvoiceHandler_List_PassesFilter(t *testing.T) {
	h, invSvc, _ := newInvoiceHandler()
	filter := service.InvoiceFilter{CustomerID: "c1", Status: domain.InvoiceStatusPaid, From: "2024-01-01", To: "2024-01-31"}
	invSvc.On("List", mock.Anything, testNS, filter).
		Return([]domain.Invoice{{ID: "i1"}, {ID: "i2"}}, nil)

	c, w := newContext(http.MethodGet, "/api/v1/invoices?customer_id=c1&status=PAID&from=2024-01-01&to=2024-01-31", nil)
	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 2, resp.Meta.Total)
	invSvc.AssertExpectations(t)
}

func TestInvoiceHandler_MissingNamespace(t *testing.T) {
	h, invSvc, _ := newInvoiceHandler()
	c, w := newContext(http.MethodGet, "/api/v1/invoices/i1", nil)
	c.Keys = nil
	h.Get(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	invSvc.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
}

func TestInvoiceHandler_Delete_NotFound(t *testing.T) {
	h, invSvc, _ := newInvoiceHandler()
	invSvc.On("Delete", mock.Anything, testNS, "ghost").Return(domain.ErrNotFound)

	c, w := newContext(http.MethodDelete, "/api/v1/invoices/ghost", nil)
	c.AddParam("id", "ghost")
	h.Delete(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(t, w))
}

func TestInvoiceHandler_HSNSummary(t *testing.T) {
	h, invSvc, _ := newInvoiceHandler()
	invSvc.On("HSNSummary", mock.Anything, testNS, "i1").Return([]tax.HSNSummaryRow{
		{HSN: "8471", Quantity: decimal.NewFromInt(3), TaxableValue: decimal.NewFromInt(285)},
	}, nil)

	c, w := newContext(http.MethodGet, "/api/v1/invoices/i1/hsn-summary", nil)
	c.AddParam("id", "i1")
	h.HSNSummary(c)

	assert.Equal(t, http.StatusOK, w.Code)
	rows := decode(t, w).Data.([]any)
	require.Len(t, rows, 1)
	assert.Equal(t, "8471", rows[0].(map[string]any)["hsn"])
}

func TestInvoiceHandler_Share_NoPhone(t *testing.T) {
	h, _, shareSvc := newInvoiceHandler()
	shareSvc.On("Invoice", mock.Anything, testNS, "i1").Return(nil, domain.ErrNoPhone)

	c, w := newContext(http.MethodGet, "/api/v1/invoices/i1/share", nil)
	c.AddParam("id", "i1")
	h.Share(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "NO_PHONE", errorCode(t, w))
}

func TestInvoiceHandler_Export(t *testing.T) {
	h, invSvc, _ := newInvoiceHandler()
	invSvc.On("List", mock.Anything, testNS, service.InvoiceFilter{From: "2024-03-10", To: "2024-03-10"}).
		Return([]domain.Invoice{{
			InvoiceNumber: "INV-2024-001",
			Date:          "2024-03-10",
			CustomerName:  "Ravi",
			Status:        domain.InvoiceStatusPending,
			Total:         decimal.NewFromInt(1000),
		}}, nil)

	c, w := newContext(http.MethodGet, "/api/v1/invoices/export?from=2024-03-10&to=2024-03-10", nil)
	h.Export(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "invoice_register_")

	body := w.Body.Bytes()
	require.True(t, len(body) >= 3)
	assert.Equal(t, csvexport.BOM, body[:3])

	records, err := csv.NewReader(strings.NewReader(string(body[3:]))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Invoice Number", records[0][0])
	assert.Equal(t, "INV-2024-001", records[1][0])
	assert.Equal(t, "1000.00", records[1][14])
}
