package handler

import (
	"github.com/gin-gonic/gin"

	"billflow/internal/csvexport"
	"billflow/internal/service"
)

// CustomerHandler handles customer endpoints, including statements and reminders.
type CustomerHandler struct {
	customerService service.CustomerService
	invoiceService  service.InvoiceService
	reportService   service.ReportService
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(customerService service.CustomerService, invoiceService service.InvoiceService, reportService service.ReportService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService, invoiceService: invoiceService, reportService: reportService}
}

// List handles GET /api/v1/customers
// @Summary      List customers
// @Tags         customers
// @Produce      json
// @Success      200 {object} APIResponse{data=[]domain.Customer,meta=ListMeta}
// @Security     BearerAuth
// @Router       /customers [get]
func (h *CustomerHandler) List(c *gin.Context) {
	ns, ok := namespaceOf(c)
	if !ok {
		return
	}

	customers, err := h.customerService.List(c.Request.Context(), ns)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondList(c, customers, len(customers))
}

// Get handles GET /api/v1/customers/:id
// @Summary      Get customer
// @Tags         customers
// @Produce      json
// @Param        id path string true "Customer ID"
// @Success      200 {object} APIResponse{data=domain.Customer}
// @Failure      404 {object} APIResponse
// @Security     BearerAuth
// @Router       /customers/{id} [get]
func (h *CustomerHandler) Get(c *gin.Context) {
	ns, ok := namespaceOf(c)
	if !ok {
		return
	}

	customer, err := h.customerService.Get(c.Request.Context(), ns, c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, customer)
}

// Create handles POST /api/v1/customers
// @Summary      Create customer
// @Description  New customers start with a zero balance
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        body body service.CustomerInput true "Customer"
// @Success      201 {object} APIResponse{data=domain.Customer}
// @Failure      400 {object} APIResponse
// @Security     BearerAuth
// @Router       /customers [post]
func (h *CustomerHandler) Create(c *gin.Context) {
	ns, ok := namespaceOf(c)
	if !ok {
		return
	}

	var input service.CustomerInput
	if !bindJSON(c, &input) {
		return
	}

	customer, err := h.customerService.Create(c.Request.Context(), ns, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, customer)
}

// Update handles PUT /api/v1/customers/:id
// @Summary      Update customer
// @Description  The balance is owned by invoices and payments and is never taken from the request
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        id path string true "Customer ID"
// @Param        body body service.CustomerInput true "Customer"
// @Success      200 {object} APIResponse{data=domain.Customer}
// @Failure      400 {object} APIResponse
// @Failure      404 {object} APIResponse
// @Security     BearerAuth
// @Router       /customers/{id} [put]
func (h *CustomerHandler) Update(c *gin.Context) {
	ns, ok := namespaceOf(c)
	if !ok {
		return
	}

	var input service.CustomerInput
	if !bindJSON(c, &input) {
		return
	}

	customer, err := h.customerService.Update(c.Request.Context(), ns, c.Param("id"), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, customer)
}

// Delete handles DELETE /api/v1/customers/:id
// @Summary      Delete customer
// @Tags         customers
// @Produce      json
// @Param        id path string true "Customer ID"
// @Success      200 {object} APIResponse
// @Failure      404 {object} APIResponse
// @Security     BearerAuth
// @Router       /customers/{id} [delete]
func (h *CustomerHandler) Delete(c *gin.Context) {
	ns, ok := namespaceOf(c)
	if !ok {
		return
	}

	if err := h.customerService.Delete(c.Request.Context(), ns, c.Param("id")); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "customer deleted"})
}

// Statement handles GET /api/v1/customers/:id/statement
// @Summary      Customer statement
// @Description  Invoices and payments of one customer in date order with a running balance
// @Tags         customers
// @Produce      json
// @Param        id path string true "Customer ID"
// @Param        from query string false "Start date (YYYY-MM-DD)"
// @Param        to query string false "End date (YYYY-MM-DD)"
// @Success      200 {object} APIResponse{data=service.Statement}
// @Failure      400 {object} APIResponse
// @Failure      404 {object} APIResponse
// @Security     BearerAuth
// @Router       /customers/{id}/statement [get]
func (h *CustomerHandler) Statement(c *gin.Context) {
	ns, ok := namespaceOf(c)
	if !ok {
		return
	}

	st, err := h.reportService.Statement(c.Request.Context(), ns, c.Param("id"), c.Query("from"), c.Query("to"))
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, st)
}

// ExportStatement handles GET /api/v1/customers/:id/statement/export
// @Summary      Export customer statement as CSV
// @Tags         customers
// @Produce      text/csv
// @Param        id path string true "Customer ID"
// @Param        from query string false "Start date (YYYY-MM-DD)"
// @Param        to query string false "End date (YYYY-MM-DD)"
// @Success      200 {file} file
// @Failure      404 {object} APIResponse
// @Security     BearerAuth
// @Router       /customers/{id}/statement/export [get]
func (h *CustomerHandler) ExportStatement(c *gin.Context) {
	ns, ok := namespaceOf(c)
	if !ok {
		return
	}

	st, err := h.reportService.Statement(c.Request.Context(), ns, c.Param("id"), c.Query("from"), c.Query("to"))
	if err != nil {
		HandleError(c, err)
		return
	}

	streamCSV(c, st.Customer.DisplayName()+"_statement", func(w *csvexport.Writer) error {
		return w.WriteStatement(st)
	})
}

// SendReminder handles POST /api/v1/customers/:id/reminder
// @Summary      Email a payment reminder
// @Tags         customers
// @Produce      json
// @Param        id path string true "Customer ID"
// @Success      200 {object} APIResponse
// @Failure      400 {object} APIResponse
// @Failure      404 {object} APIResponse
// @Security     BearerAuth
// @Router       /customers/{id}/reminder [post]
func (h *CustomerHandler) SendReminder(c *gin.Context) {
	ns, ok := namespaceOf(c)
	if !ok {
		return
	}

	if err := h.customerService.SendReminder(c.Request.Context(), ns, c.Param("id")); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "reminder sent"})
}

// MarkNotificationsRead handles POST /api/v1/customers/:id/notifications/read
// @Summary      Mark notifications read
// @Tags         customers
// @Produce      json
// @Param        id path string true "Customer ID"
// @Success      200 {object} APIResponse{data=domain.Customer}
// @Failure      404 {object} APIResponse
// @Security     BearerAuth
// @Router       /customers/{id}/notifications/read [post]
func (h *CustomerHandler) MarkNotificationsRead(c *gin.Context) {
	ns, ok := namespaceOf(c)
	if !ok {
		return
	}

	customer, err := h.customerService.MarkNotificationsRead(c.Request.Context(), ns, c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, customer)
}

// LastPrice handles GET /api/v1/customers/:id/last-price/:productId
// The rate is null when the customer never bought the product.
// @Summary      Last sale rate of a product to a customer
// @Tags         customers
// @Produce      json
// @Param        id path string true "Customer ID"
// @Param        productId path string true "Product ID"
// @Success      200 {object} APIResponse
// @Security     BearerAuth
// @Router       /customers/{id}/last-price/{productId} [get]
func (h *CustomerHandler) LastPrice(c *gin.Context) {
	ns, ok := namespaceOf(c)
	if !ok {
		return
	}

	rate, err := h.invoiceService.LastSalePrice(c.Request.Context(), ns, c.Param("id"), c.Param("productId"))
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"customer_id": c.Param("id"), "product_id": c.Param("productId"), "rate": rate})
}
