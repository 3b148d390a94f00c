package handler

import (
	"net/http"
	"strconv"

	"tillpoint/internal/apierror"
	"tillpoint/internal/dto"
	"tillpoint/internal/infra"
	"tillpoint/internal/middleware"
	"tillpoint/internal/repository"
	"tillpoint/internal/service"

	"github.com/gin-gonic/gin"
)

type SalesHandler struct {
	checkout service.CheckoutService
	sales    repository.SaleRepository
	settings repository.SettingsRepository
	pdfDir   string
}

func NewSalesHandler(checkout service.CheckoutService, sales repository.SaleRepository, settings repository.SettingsRepository, pdfDir string) *SalesHandler {
	return &SalesHandler{checkout: checkout, sales: sales, settings: settings, pdfDir: pdfDir}
}

// Checkout godoc
// @Summary Complete the current cart into a sale
// @Tags sales
// @Accept json
// @Produce json
// @Param body body dto.CheckoutRequest true "Optional customer details"
// @Success 201 {object} model.Sale
// @Failure 422 {object} apierror.APIError
// @Router /v1/checkout [post]
func (h *SalesHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if !bindAndValidate(c, &req) {
		return
	}

	cashierID := ""
	if claims := middleware.GetClaims(c); claims != nil {
		cashierID = claims.UserID
	}

	sale, err := h.checkout.Checkout(c.Request.Context(), cashierID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sale)
}

func (h *SalesHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Sale id must be numeric"))
		return
	}
	sale, err := h.sales.FindByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sale)
}

// Receipt regenerates the PDF receipt for a past sale and serves it inline.
func (h *SalesHandler) Receipt(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Sale id must be numeric"))
		return
	}
	sale, err := h.sales.FindByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	storeName := h.settings.Settings(c.Request.Context()).StoreName
	path, err := infra.GenerateReceiptPDF(sale, storeName, h.pdfDir)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to generate receipt"))
		return
	}
	c.Header("Content-Disposition", `inline; filename="receipt_`+strconv.FormatInt(sale.ID, 10)+`.pdf"`)
	c.File(path)
}
