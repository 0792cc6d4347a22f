package handler

import (
	"github.com/gin-gonic/gin"

	"billflow/internal/service"
)

// ProductHandler handles product catalog endpoints.
type ProductHandler struct {
	productService service.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// List handles GET /api/v1/products
// @Summary      List products
// @Description  Products with their inventory label
// @Tags         products
// @Produce      json
// @Success      200 {object} APIResponse{data=[]service.ProductView,meta=ListMeta}
// @Security     BearerAuth
// @Router       /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	ns, ok := namespaceOf(c)
	if !ok {
		return
	}

	products, err := h.productService.List(c.Request.Context(), ns)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondList(c, products, len(products))
}

// Get handles GET /api/v1/products/:id
// @Summary      Get product
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID"
// @Success      200 {object} APIResponse{data=service.ProductView}
// @Failure      404 {object} APIResponse
// @Security     BearerAuth
// @Router       /products/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	ns, ok := namespaceOf(c)
	if !ok {
		return
	}

	product, err := h.productService.Get(c.Request.Context(), ns, c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, product)
}

// Create handles POST /api/v1/products
// @Summary      Create product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        body body service.ProductInput true "Product"
// @Success      201 {object} APIResponse{data=domain.Product}
// @Failure      400 {object} APIResponse
// @Security     BearerAuth
// @Router       /products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	ns, ok := namespaceOf(c)
	if !ok {
		return
	}

	var input service.ProductInput
	if !bindJSON(c, &input) {
		return
	}

	product, err := h.productService.Create(c.Request.Context(), ns, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, product)
}

// Update handles PUT /api/v1/products/:id
// @Summary      Update product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID"
// @Param        body body service.ProductInput true "Product"
// @Success      200 {object} APIResponse{data=domain.Product}
// @Failure      400 {object} APIResponse
// @Failure      404 {object} APIResponse
// @Security     BearerAuth
// @Router       /products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	ns, ok := namespaceOf(c)
	if !ok {
		return
	}

	var input service.ProductInput
	if !bindJSON(c, &input) {
		return
	}

	product, err := h.productService.Update(c.Request.Context(), ns, c.Param("id"), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, product)
}

// Delete handles DELETE /api/v1/products/:id
// @Summary      Delete product
// @Description  Invoices keep their own copy of the item lines
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID"
// @Success      200 {object} APIResponse
// @Failure      404 {object} APIResponse
// @Security     BearerAuth
// @Router       /products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	ns, ok := namespaceOf(c)
	if !ok {
		return
	}

	if err := h.productService.Delete(c.Request.Context(), ns, c.Param("id")); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "product deleted"})
}
