package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/classtrack/classtrack-api/internal/models"
	"github.com/classtrack/classtrack-api/internal/service"
	"github.com/classtrack/classtrack-api/pkg/response"
)

type summaryService interface {
	Overall(ctx context.Context) []models.AttendanceSummary
}

type exportService interface {
	Render(ctx context.Context, format service.ExportFormat) (*service.ExportResult, error)
	Publish(ctx context.Context, format service.ExportFormat) (*service.ExportLink, error)
	Fetch(token string) (*service.ExportResult, error)
}

// SummaryHandler exposes the attendance summary endpoints.
type SummaryHandler struct {
	summaries summaryService
	exports   exportService
}

// NewSummaryHandler constructs SummaryHandler.
func NewSummaryHandler(summaries summaryService, exports exportService) *SummaryHandler {
	return &SummaryHandler{summaries: summaries, exports: exports}
}

// Overall godoc
// @Summary Per-student attendance summary
// @Description Derived fresh from the ledger on every call, sorted by student name.
// @Tags Summary
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /summary [get]
func (h *SummaryHandler) Overall(c *gin.Context) {
	summaries := h.summaries.Overall(c.Request.Context())
	response.JSON(c, http.StatusOK, summaries)
}

// Export godoc
// @Summary Download the attendance summary
// @Tags Summary
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /summary/export [get]
func (h *SummaryHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", string(service.ExportFormatCSV))
	result, err := h.exports.Render(c.Request.Context(), service.ExportFormat(format))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Content)
}

// ExportLink godoc
// @Summary Publish the summary and get a signed download link
// @Description The returned token is honored by the download endpoint without a bearer token until it expires.
// @Tags Summary
// @Produce json
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {object} response.Envelope
// @Router /summary/export/link [get]
func (h *SummaryHandler) ExportLink(c *gin.Context) {
	format := c.DefaultQuery("format", string(service.ExportFormatCSV))
	link, err := h.exports.Publish(c.Request.Context(), service.ExportFormat(format))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, link)
}

// Download godoc
// @Summary Download a published summary export
// @Description Authenticated by the signed token, no bearer token required.
// @Tags Summary
// @Produce text/csv
// @Produce application/pdf
// @Param token query string true "Signed download token"
// @Success 200 {file} file
// @Router /export/download [get]
func (h *SummaryHandler) Download(c *gin.Context) {
	result, err := h.exports.Fetch(c.Query("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Content)
}
