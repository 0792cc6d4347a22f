package handler

import (
	"github.com/gin-gonic/gin"

	"billflow/internal/service"
)

// PaymentHandler handles payment endpoints.
type PaymentHandler struct {
	paymentService service.PaymentService
	shareService   service.ShareService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService service.PaymentService, shareService service.ShareService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService, shareService: shareService}
}

// List handles GET /api/v1/payments
// @Summary      List payments
// @Tags         payments
// @Produce      json
// @Param        customer_id query string false "Filter by customer"
// @Success      200 {object} APIResponse{data=[]domain.Payment,meta=ListMeta}
// @Security     BearerAuth
// @Router       /payments [get]
func (h *PaymentHandler) List(c *gin.Context) {
	ns, ok := namespaceOf(c)
	if !ok {
		return
	}

	payments, err := h.paymentService.List(c.Request.Context(), ns, c.Query("customer_id"))
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondList(c, payments, len(payments))
}

// Get handles GET /api/v1/payments/:id
// @Summary      Get payment
// @Tags         payments
// @Produce      json
// @Param        id path string true "Payment ID"
// @Success      200 {object} APIResponse{data=domain.Payment}
// @Failure      404 {object} APIResponse
// @Security     BearerAuth
// @Router       /payments/{id} [get]
func (h *PaymentHandler) Get(c *gin.Context) {
	ns, ok := namespaceOf(c)
	if !ok {
		return
	}

	payment, err := h.paymentService.Get(c.Request.Context(), ns, c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, payment)
}

// Create handles POST /api/v1/payments
// @Summary      Record payment
// @Description  Subtracts the amount from the customer balance
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        body body service.PaymentInput true "Payment"
// @Success      201 {object} APIResponse{data=domain.Payment}
// @Failure      400 {object} APIResponse
// @Security     BearerAuth
// @Router       /payments [post]
func (h *PaymentHandler) Create(c *gin.Context) {
	ns, ok := namespaceOf(c)
	if !ok {
		return
	}

	var input service.PaymentInput
	if !bindJSON(c, &input) {
		return
	}

	payment, err := h.paymentService.Record(c.Request.Context(), ns, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, payment)
}

// Delete handles DELETE /api/v1/payments/:id
// @Summary      Reverse payment
// @Description  Adds the amount back to the customer balance and removes the payment
// @Tags         payments
// @Produce      json
// @Param        id path string true "Payment ID"
// @Success      200 {object} APIResponse
// @Failure      404 {object} APIResponse
// @Security     BearerAuth
// @Router       /payments/{id} [delete]
func (h *PaymentHandler) Delete(c *gin.Context) {
	ns, ok := namespaceOf(c)
	if !ok {
		return
	}

	if err := h.paymentService.Reverse(c.Request.Context(), ns, c.Param("id")); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "payment reversed"})
}

// Share handles GET /api/v1/payments/:id/share
// @Summary      Payment receipt share link
// @Description  WhatsApp link with a prefilled receipt message
// @Tags         payments
// @Produce      json
// @Param        id path string true "Payment ID"
// @Success      200 {object} APIResponse{data=service.ShareLink}
// @Failure      400 {object} APIResponse
// @Failure      404 {object} APIResponse
// @Security     BearerAuth
// @Router       /payments/{id}/share [get]
func (h *PaymentHandler) Share(c *gin.Context) {
	ns, ok := namespaceOf(c)
	if !ok {
		return
	}

	link, err := h.shareService.Payment(c.Request.Context(), ns, c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, link)
}
