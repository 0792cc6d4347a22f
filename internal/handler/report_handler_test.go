package handler_test

import (
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"billflow/internal/handler"
	"billflow/internal/service"
	"billflow/mocks"
)

func TestReportHandler_Daybook(t *testing.T) {
	reportSvc := new(mocks.MockReportService)
	h := handler.NewReportHandler(reportSvc)
	reportSvc.On("Daybook", mock.Anything, testNS, "2024-03-10").
		Return(&service.Daybook{Date: "2024-03-10", TotalSales: decimal.NewFromInt(1500), TransactionCount: 3}, nil)

	c, w := newContext(http.MethodGet, "/api/v1/reports/daybook?date=2024-03-10", nil)
	h.Daybook(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w).Data.(map[string]any)
	assert.Equal(t, "1500", data["total_sales"])
	assert.EqualValues(t, 3, data["transaction_count"])
}

func TestReportHandler_Reconcile(t *testing.T) {
	tests := []struct {
		name  string
		query string
		fix   bool
	}{
		{"default_is_dry_run", "", false},
		{"fix", "?fix=true", true},
		{"explicit_false", "?fix=0", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reportSvc := new(mocks.MockReportService)
			h := handler.NewReportHandler(reportSvc)
			reportSvc.On("Reconcile", mock.Anything, testNS, tt.fix).
				Return(&service.ReconcileReport{Fixed: tt.fix}, nil)

			c, w := newContext(http.MethodPost, "/api/v1/reports/reconcile"+tt.query, nil)
			h.Reconcile(c)

			assert.Equal(t, http.StatusOK, w.Code)
			reportSvc.AssertExpectations(t)
		})
	}
}

func TestReportHandler_Reconcile_InvalidFix(t *testing.T) {
	reportSvc := new(mocks.MockReportService)
	h := handler.NewReportHandler(reportSvc)

	c, w := newContext(http.MethodPost, "/api/v1/reports/reconcile?fix=maybe", nil)
	h.Reconcile(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	reportSvc.AssertNotCalled(t, "Reconcile", mock.Anything, mock.Anything, mock.Anything)
}
