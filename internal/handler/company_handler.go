package handler

import (
	"github.com/gin-gonic/gin"

	"billflow/internal/service"
)

// CompanyHandler handles the company profile.
type CompanyHandler struct {
	companyService service.CompanyService
}

// NewCompanyHandler creates a new CompanyHandler.
func NewCompanyHandler(companyService service.CompanyService) *CompanyHandler {
	return &CompanyHandler{companyService: companyService}
}

// Get handles GET /api/v1/company
// @Summary      Get company profile
// @Description  Defaults apply until the profile is first saved
// @Tags         company
// @Produce      json
// @Success      200 {object} APIResponse{data=domain.CompanyProfile}
// @Security     BearerAuth
// @Router       /company [get]
func (h *CompanyHandler) Get(c *gin.Context) {
	ns, ok := namespaceOf(c)
	if !ok {
		return
	}

	profile, err := h.companyService.Get(c.Request.Context(), ns)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, profile)
}

// Update handles PUT /api/v1/company
// @Summary      Save company profile
// @Tags         company
// @Accept       json
// @Produce      json
// @Param        body body service.CompanyInput true "Company profile"
// @Success      200 {object} APIResponse{data=domain.CompanyProfile}
// @Failure      400 {object} APIResponse
// @Security     BearerAuth
// @Router       /company [put]
func (h *CompanyHandler) Update(c *gin.Context) {
	ns, ok := namespaceOf(c)
	if !ok {
		return
	}

	var input service.CompanyInput
	if !bindJSON(c, &input) {
		return
	}

	profile, err := h.companyService.Update(c.Request.Context(), ns, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, profile)
}
