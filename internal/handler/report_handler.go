package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"billflow/internal/service"
)

// ReportHandler handles report endpoints.
type ReportHandler struct {
	reportService service.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Daybook handles GET /api/v1/reports/daybook
// @Summary      Daybook
// @Description  Invoices and payments of one day with sales and receipt totals
// @Tags         reports
// @Produce      json
// @Param        date query string false "Day (YYYY-MM-DD), defaults to today"
// @Success      200 {object} APIResponse{data=service.Daybook}
// @Failure      400 {object} APIResponse
// @Security     BearerAuth
// @Router       /reports/daybook [get]
func (h *ReportHandler) Daybook(c *gin.Context) {
	ns, ok := namespaceOf(c)
	if !ok {
		return
	}

	book, err := h.reportService.Daybook(c.Request.Context(), ns, c.Query("date"))
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, book)
}

// Dashboard handles GET /api/v1/reports/dashboard
// @Summary      Dashboard summary
// @Tags         reports
// @Produce      json
// @Success      200 {object} APIResponse{data=service.Dashboard}
// @Security     BearerAuth
// @Router       /reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *gin.Context) {
	ns, ok := namespaceOf(c)
	if !ok {
		return
	}

	dash, err := h.reportService.Dashboard(c.Request.Context(), ns)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, dash)
}

// Reconcile handles POST /api/v1/reports/reconcile
// @Summary      Reconcile balances
// @Description  Recomputes every customer balance and checks stored invoices; fix=true persists corrected balances
// @Tags         reports
// @Produce      json
// @Param        fix query bool false "Persist corrected balances" default(false)
// @Success      200 {object} APIResponse{data=service.ReconcileReport}
// @Failure      400 {object} APIResponse
// @Security     BearerAuth
// @Router       /reports/reconcile [post]
func (h *ReportHandler) Reconcile(c *gin.Context) {
	ns, ok := namespaceOf(c)
	if !ok {
		return
	}

	fix := false
	if raw := c.Query("fix"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid 'fix': must be true or false")
			return
		}
		fix = v
	}

	report, err := h.reportService.Reconcile(c.Request.Context(), ns, fix)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, report)
}
