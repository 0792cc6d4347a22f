package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"billflow/internal/csvexport"
	"billflow/internal/logger"
	"billflow/internal/middleware"
)

// streamCSV writes the CSV headers and BOM, then lets fill write rows.
// Once the body has started, failures can only be logged.
func streamCSV(c *gin.Context, name string, fill func(w *csvexport.Writer) error) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, csvexport.BuildFilename(name)))
	c.Status(http.StatusOK)

	if _, err := c.Writer.Write(csvexport.BOM); err != nil {
		return
	}
	w := csvexport.NewWriter(c.Writer)
	err := fill(w)
	w.Flush()
	if err == nil {
		err = w.Error()
	}
	if err != nil {
		log := logger.WithRequestID(c.GetString(middleware.ContextKeyRequestID))
		log.Error().Err(err).Str("export", name).Msg("csv export failed")
	}
}
