package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"triance/backend/internal/service"
)

// ExportHandler serves a user's workout history as a file.
type ExportHandler struct {
	exportService service.ExportService
}

func NewExportHandler(exportService service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

type PublishedExportResponse struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// DownloadExport godoc
// @Summary Download a user's workout history
// @Tags Export
// @Produce json,text/csv
// @Param username path string true "Username"
// @Param format query string false "json (default) or csv"
// @Success 200 {file} file
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse "Unsupported format"
// @Router /users/{username}/export [get]
func (h *ExportHandler) DownloadExport(c *gin.Context) {
	username := c.Param("username")
	rendered, err := h.exportService.Render(c.Request.Context(), username, c.Query("format"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s-workouts.%s"`, username, rendered.Extension))
	c.Data(http.StatusOK, rendered.ContentType, rendered.Data)
}

// PublishExport godoc
// @Summary Upload a user's workout history to object storage
// @Description Returns a presigned download URL.
// @Tags Export
// @Produce json
// @Param username path string true "Username"
// @Param format query string false "json (default) or csv"
// @Success 201 {object} PublishedExportResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse "Unsupported format"
// @Failure 503 {object} ErrorResponse "Object storage not configured"
// @Router /users/{username}/exports [post]
func (h *ExportHandler) PublishExport(c *gin.Context) {
	published, err := h.exportService.Publish(c.Request.Context(), c.Param("username"), c.Query("format"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, PublishedExportResponse{
		Key:       published.Key,
		URL:       published.URL,
		ExpiresAt: published.ExpiresAt,
	})
}
