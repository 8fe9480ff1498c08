package v1

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"kradesk/internal/exporter"
)

// DownloadTemplate 下载导入模板
// GET /api/kras/template
func (h *Handler) DownloadTemplate(c *gin.Context) {
	data, err := exporter.Template()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate template"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exporter.TemplateFilename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}
