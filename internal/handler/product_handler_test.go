package handler_test

import (
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"billflow/internal/domain"
	"billflow/internal/handler"
	"billflow/internal/service"
	"billflow/mocks"
)

func newProductHandler() (*handler.ProductHandler, *mocks.MockProductService) {
	m := new(mocks.MockProductService)
	return handler.NewProductHandler(m), m
}

func TestProductHandler_Create_MissingName(t *testing.T) {
	h, m := newProductHandler()

	c, w := newContext(http.MethodPost, "/api/v1/products", map[string]string{"price": "95", "category": "Hardware"})
	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))
	m.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestProductHandler_Create_Success(t *testing.T) {
	h, m := newProductHandler()
	m.On("Create", mock.Anything, testNS, mock.MatchedBy(func(in service.ProductInput) bool {
		return in.Name == "Steel Rod" && in.Price.Equal(decimal.NewFromInt(95)) && in.GSTRate.Equal(decimal.NewFromInt(18))
	})).Return(&domain.Product{ID: "p1", Name: "Steel Rod", Price: decimal.NewFromInt(95)}, nil)

	c, w := newContext(http.MethodPost, "/api/v1/products", map[string]string{
		"name": "Steel Rod", "price": "95", "stock": "40", "gst_rate": "18",
	})
	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	resp := decode(t, w)
	assert.True(t, resp.Success)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "p1", data["id"])
	m.AssertExpectations(t)
}

func TestProductHandler_List(t *testing.T) {
	h, m := newProductHandler()
	m.On("List", mock.Anything, testNS).Return([]service.ProductView{
		{Product: &domain.Product{ID: "p1", Name: "Bolt"}, StockStatus: domain.StockStatusOutOfStock},
		{Product: &domain.Product{ID: "p2", Name: "Nut"}, StockStatus: domain.StockStatusInStock},
	}, nil)

	c, w := newContext(http.MethodGet, "/api/v1/products", nil)
	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 2, resp.Meta.Total)
	items, ok := resp.Data.([]any)
	require.True(t, ok)
	assert.Equal(t, string(domain.StockStatusOutOfStock), items[0].(map[string]any)["stock_status"])
}

func TestProductHandler_Get_NotFound(t *testing.T) {
	h, m := newProductHandler()
	m.On("Get", mock.Anything, testNS, "missing").Return(nil, domain.ErrNotFound)

	c, w := newContext(http.MethodGet, "/api/v1/products/missing", nil)
	c.AddParam("id", "missing")
	h.Get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(t, w))
}

func TestProductHandler_Update_NotFound(t *testing.T) {
	h, m := newProductHandler()
	m.On("Update", mock.Anything, testNS, "missing", mock.Anything).Return(nil, domain.ErrNotFound)

	c, w := newContext(http.MethodPut, "/api/v1/products/missing", map[string]string{"name": "Bolt"})
	c.AddParam("id", "missing")
	h.Update(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(t, w))
}

func TestProductHandler_Delete(t *testing.T) {
	h, m := newProductHandler()
	m.On("Delete", mock.Anything, testNS, "p1").Return(nil)

	c, w := newContext(http.MethodDelete, "/api/v1/products/p1", nil)
	c.AddParam("id", "p1")
	h.Delete(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode(t, w).Success)
	m.AssertExpectations(t)
}
