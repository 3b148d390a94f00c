package handler

import (
	"net/http"
	"time"

	"tillpoint/internal/dto"
	"tillpoint/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportsHandler struct{ svc service.ReportService }

func NewReportsHandler(svc service.ReportService) *ReportsHandler {
	return &ReportsHandler{svc: svc}
}

// Transactions godoc
// @Summary Filtered transaction report with summary totals
// @Tags reports
// @Produce json
// @Param range query string false "all|today|week|month|custom"
// @Param search query string false "Customer name or sale id substring"
// @Success 200 {object} dto.ReportResponse
// @Router /v1/reports/transactions [get]
func (h *ReportsHandler) Transactions(c *gin.Context) {
	var filter dto.ReportFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	resp, err := h.svc.Transactions(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ExportCSV streams the filtered report as a CSV download.
func (h *ReportsHandler) ExportCSV(c *gin.Context) {
	var filter dto.ReportFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	data, err := h.svc.TransactionsCSV(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	filename := "transactions_" + time.Now().Format("2006-01-02") + ".csv"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv", data)
}
