package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"billflow/internal/domain"
	"billflow/internal/service"
)

// maxImportSize bounds uploaded workbooks and Tally exports.
const maxImportSize = 10 << 20

// RestoreInput is the DTO for restoring a namespace from an uploaded backup.
type RestoreInput struct {
	Key string `json:"key" binding:"required"`
}

// DataHandler handles snapshot, backup and import endpoints.
type DataHandler struct {
	dataService service.DataService
}

// NewDataHandler creates a new DataHandler.
func NewDataHandler(dataService service.DataService) *DataHandler {
	return &DataHandler{dataService: dataService}
}

// Export handles GET /api/v1/data/export
// @Summary      Export workspace snapshot
// @Tags         data
// @Produce      json
// @Success      200 {object} APIResponse{data=service.Snapshot}
// @Security     BearerAuth
// @Router       /data/export [get]
func (h *DataHandler) Export(c *gin.Context) {
	ns, ok := namespaceOf(c)
	if !ok {
		return
	}

	snap, err := h.dataService.Export(c.Request.Context(), ns)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="billflow_backup_%s.json"`, time.Now().Format(domain.DateLayout)))
	RespondOK(c, snap)
}

// Import handles POST /api/v1/data/import
// @Summary      Replace workspace from snapshot
// @Description  Every existing document in the workspace is replaced by the snapshot contents
// @Tags         data
// @Accept       json
// @Produce      json
// @Param        body body service.Snapshot true "Snapshot"
// @Success      200 {object} APIResponse
// @Failure      400 {object} APIResponse
// @Security     BearerAuth
// @Router       /data/import [post]
func (h *DataHandler) Import(c *gin.Context) {
	ns, ok := namespaceOf(c)
	if !ok {
		return
	}

	var snap service.Snapshot
	if err := c.ShouldBindJSON(&snap); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_IMPORT", err.Error())
		return
	}

	if err := h.dataService.Import(c.Request.Context(), ns, &snap); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "data imported"})
}

// Backup handles POST /api/v1/data/backup
// @Summary      Upload snapshot to object storage
// @Tags         data
// @Produce      json
// @Success      201 {object} APIResponse{data=service.BackupResult}
// @Failure      503 {object} APIResponse
// @Security     BearerAuth
// @Router       /data/backup [post]
func (h *DataHandler) Backup(c *gin.Context) {
	ns, ok := namespaceOf(c)
	if !ok {
		return
	}

	res, err := h.dataService.Backup(c.Request.Context(), ns)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, res)
}

// Restore handles POST /api/v1/data/restore
// @Summary      Restore a stored backup
// @Description  Replaces the workspace with the snapshot at the given key
// @Tags         data
// @Accept       json
// @Produce      json
// @Param        body body RestoreInput true "Backup key"
// @Success      200 {object} APIResponse
// @Failure      400 {object} APIResponse
// @Failure      404 {object} APIResponse
// @Security     BearerAuth
// @Router       /data/restore [post]
func (h *DataHandler) Restore(c *gin.Context) {
	ns, ok := namespaceOf(c)
	if !ok {
		return
	}

	var input RestoreInput
	if !bindJSON(c, &input) {
		return
	}

	if err := h.dataService.Restore(c.Request.Context(), ns, input.Key); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "backup restored"})
}

// ImportWorkbook handles POST /api/v1/data/import/xlsx
// @Summary      Import products and customers from an xlsx workbook
// @Tags         data
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "Workbook with Products and Customers sheets"
// @Success      200 {object} APIResponse{data=service.ImportResult}
// @Failure      400 {object} APIResponse
// @Security     BearerAuth
// @Router       /data/import/xlsx [post]
func (h *DataHandler) ImportWorkbook(c *gin.Context) {
	h.importFile(c, h.dataService.ImportWorkbook)
}

// ImportTally handles POST /api/v1/data/import/tally
// @Summary      Import stock items and ledgers from a Tally XML export
// @Tags         data
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "Tally XML export"
// @Success      200 {object} APIResponse{data=service.ImportResult}
// @Failure      400 {object} APIResponse
// @Security     BearerAuth
// @Router       /data/import/tally [post]
func (h *DataHandler) ImportTally(c *gin.Context) {
	h.importFile(c, h.dataService.ImportTally)
}

type importFunc func(ctx context.Context, ns domain.Namespace, r io.Reader) (*service.ImportResult, error)

func (h *DataHandler) importFile(c *gin.Context, run importFunc) {
	ns, ok := namespaceOf(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportSize)
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	res, err := run(c.Request.Context(), ns, file)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, res)
}
