package handler

import (
	"github.com/gin-gonic/gin"

	"billflow/internal/csvexport"
	"billflow/internal/domain"
	"billflow/internal/service"
)

// InvoiceHandler handles invoice endpoints.
type InvoiceHandler struct {
	invoiceService service.InvoiceService
	shareService   service.ShareService
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(invoiceService service.InvoiceService, shareService service.ShareService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService, shareService: shareService}
}

func invoiceFilter(c *gin.Context) service.InvoiceFilter {
	return service.InvoiceFilter{
		CustomerID: c.Query("customer_id"),
		Status:     domain.InvoiceStatus(c.Query("status")),
		From:       c.Query("from"),
		To:         c.Query("to"),
	}
}

// List handles GET /api/v1/invoices
// @Summary      List invoices
// @Description  Invoices of the caller's workspace, newest first
// @Tags         invoices
// @Produce      json
// @Param        customer_id query string false "Filter by customer"
// @Param        status query string false "PAID or PENDING"
// @Param        from query string false "Start date (YYYY-MM-DD)"
// @Param        to query string false "End date (YYYY-MM-DD)"
// @Success      200 {object} APIResponse{data=[]domain.Invoice,meta=ListMeta}
// @Failure      400 {object} APIResponse
// @Security     BearerAuth
// @Router       /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	ns, ok := namespaceOf(c)
	if !ok {
		return
	}

	invoices, err := h.invoiceService.List(c.Request.Context(), ns, invoiceFilter(c))
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondList(c, invoices, len(invoices))
}

// Get handles GET /api/v1/invoices/:id
// @Summary      Get invoice
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Success      200 {object} APIResponse{data=domain.Invoice}
// @Failure      404 {object} APIResponse
// @Security     BearerAuth
// @Router       /invoices/{id} [get]
func (h *InvoiceHandler) Get(c *gin.Context) {
	ns, ok := namespaceOf(c)
	if !ok {
		return
	}

	inv, err := h.invoiceService.Get(c.Request.Context(), ns, c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, inv)
}

// Create handles POST /api/v1/invoices
// @Summary      Create invoice
// @Description  Computes tax, deducts stock and posts pending totals to the customer balance
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        body body service.InvoiceInput true "Invoice"
// @Success      201 {object} APIResponse{data=domain.Invoice}
// @Failure      400 {object} APIResponse
// @Failure      409 {object} APIResponse
// @Security     BearerAuth
// @Router       /invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	ns, ok := namespaceOf(c)
	if !ok {
		return
	}

	var input service.InvoiceInput
	if !bindJSON(c, &input) {
		return
	}

	inv, err := h.invoiceService.Create(c.Request.Context(), ns, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, inv)
}

// Update handles PUT /api/v1/invoices/:id
// @Summary      Replace invoice
// @Description  Reverses the stored invoice's stock and balance effects, then applies the new version
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Param        body body service.InvoiceInput true "Invoice"
// @Success      200 {object} APIResponse{data=domain.Invoice}
// @Failure      400 {object} APIResponse
// @Failure      404 {object} APIResponse
// @Failure      409 {object} APIResponse
// @Security     BearerAuth
// @Router       /invoices/{id} [put]
func (h *InvoiceHandler) Update(c *gin.Context) {
	ns, ok := namespaceOf(c)
	if !ok {
		return
	}

	var input service.InvoiceInput
	if !bindJSON(c, &input) {
		return
	}

	inv, err := h.invoiceService.Update(c.Request.Context(), ns, c.Param("id"), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, inv)
}

// Delete handles DELETE /api/v1/invoices/:id
// @Summary      Delete invoice
// @Description  Restores stock and removes any pending amount from the customer balance
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Success      200 {object} APIResponse
// @Failure      404 {object} APIResponse
// @Security     BearerAuth
// @Router       /invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *gin.Context) {
	ns, ok := namespaceOf(c)
	if !ok {
		return
	}

	if err := h.invoiceService.Delete(c.Request.Context(), ns, c.Param("id")); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "invoice deleted"})
}

// HSNSummary handles GET /api/v1/invoices/:id/hsn-summary
// @Summary      HSN-wise tax summary
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Success      200 {object} APIResponse{data=[]tax.HSNSummaryRow}
// @Failure      404 {object} APIResponse
// @Security     BearerAuth
// @Router       /invoices/{id}/hsn-summary [get]
func (h *InvoiceHandler) HSNSummary(c *gin.Context) {
	ns, ok := namespaceOf(c)
	if !ok {
		return
	}

	rows, err := h.invoiceService.HSNSummary(c.Request.Context(), ns, c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, rows)
}

// Share handles GET /api/v1/invoices/:id/share
// @Summary      WhatsApp share link for an invoice
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Success      200 {object} APIResponse{data=service.ShareLink}
// @Failure      400 {object} APIResponse
// @Failure      404 {object} APIResponse
// @Security     BearerAuth
// @Router       /invoices/{id}/share [get]
func (h *InvoiceHandler) Share(c *gin.Context) {
	ns, ok := namespaceOf(c)
	if !ok {
		return
	}

	link, err := h.shareService.Invoice(c.Request.Context(), ns, c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, link)
}

// Export handles GET /api/v1/invoices/export
// @Summary      Export invoice register as CSV
// @Description  Same filters as the invoice list; one row per invoice
// @Tags         invoices
// @Produce      text/csv
// @Param        customer_id query string false "Filter by customer"
// @Param        status query string false "PAID or PENDING"
// @Param        from query string false "Start date (YYYY-MM-DD)"
// @Param        to query string false "End date (YYYY-MM-DD)"
// @Success      200 {file} file
// @Failure      400 {object} APIResponse
// @Security     BearerAuth
// @Router       /invoices/export [get]
func (h *InvoiceHandler) Export(c *gin.Context) {
	ns, ok := namespaceOf(c)
	if !ok {
		return
	}

	invoices, err := h.invoiceService.List(c.Request.Context(), ns, invoiceFilter(c))
	if err != nil {
		HandleError(c, err)
		return
	}

	streamCSV(c, "invoice_register", func(w *csvexport.Writer) error {
		if err := w.WriteRegisterHeader(); err != nil {
			return err
		}
		return w.WriteInvoices(invoices)
	})
}
