package handler

import (
	"net/http"
	"time"

	"tillpoint/internal/service"

	"github.com/gin-gonic/gin"
)

type ForecastHandler struct{ svc service.ForecastService }

func NewForecastHandler(svc service.ForecastService) *ForecastHandler {
	return &ForecastHandler{svc: svc}
}

// Report godoc
// @Summary Inventory demand forecast
// @Tags forecast
// @Produce json
// @Success 200 {object} model.ForecastReport
// @Router /v1/forecast [get]
func (h *ForecastHandler) Report(c *gin.Context) {
	resp, err := h.svc.Report(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ForecastHandler) ExportJSON(c *gin.Context) {
	data, err := h.svc.ExportJSON(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	filename := "forecast_" + time.Now().Format("2006-01-02") + ".json"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/json", data)
}
