package handler

import (
	"fmt"
	"net/http"

	"storely/internal/apierror"
	"storely/internal/dto"
	"storely/internal/service"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct{ svc service.AnalyticsService }

func NewAnalyticsHandler(svc service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

// Report godoc
// @Summary      Profit and revenue report
// @Description  Aggregates delivered online orders and all cashier sales over the window. When the cashier ledger is unreadable the report still serves the online half, flagged via cashier_ledger_unavailable.
// @Tags         analytics
// @Produce      json
// @Param        days query int false "Window in days (default 30)"
// @Success      200 {object} dto.AnalyticsResponse
// @Router       /v1/admin/analytics [get]
func (h *AnalyticsHandler) Report(c *gin.Context) {
	var filter dto.AnalyticsFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	resp, err := h.svc.Report(c.Request.Context(), filter.Days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to build report"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Revenue godoc
// @Summary      Revenue dashboard widget
// @Tags         analytics
// @Produce      json
// @Param        days query int false "Window in days (default 30)"
// @Success      200 {object} dto.RevenueResponse
// @Router       /v1/admin/analytics/revenue [get]
func (h *AnalyticsHandler) Revenue(c *gin.Context) {
	var filter dto.AnalyticsFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	resp, err := h.svc.Revenue(c.Request.Context(), filter.Days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to build report"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ExportJSON godoc
// @Summary      Download the report as JSON
// @Description  Returns the full report wrapped with export metadata as a file download named analytics-<date>.json.
// @Tags         analytics
// @Produce      json
// @Param        days query int false "Window in days (default 30)"
// @Success      200 {string} string "JSON document"
// @Router       /v1/admin/analytics/export [get]
func (h *AnalyticsHandler) ExportJSON(c *gin.Context) {
	var filter dto.AnalyticsFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	filename, data, err := h.svc.ExportJSON(c.Request.Context(), filter.Days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to build export"))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/json", data)
}

// ExportPDF godoc
// @Summary      Download the report as PDF
// @Tags         analytics
// @Produce      application/pdf
// @Param        days query int false "Window in days (default 30)"
// @Success      200 {file} file "PDF document"
// @Router       /v1/admin/analytics/export.pdf [get]
func (h *AnalyticsHandler) ExportPDF(c *gin.Context) {
	var filter dto.AnalyticsFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	path, err := h.svc.ExportPDF(c.Request.Context(), filter.Days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to build export"))
		return
	}
	c.FileAttachment(path, "analytics-report.pdf")
}
