package handler

import (
	"net/http"

	"storely/internal/apierror"
	"storely/internal/dto"
	"storely/internal/service"

	"github.com/gin-gonic/gin"
)

type SalesHandler struct{ svc service.SaleService }

func NewSalesHandler(svc service.SaleService) *SalesHandler { return &SalesHandler{svc: svc} }

// Record godoc
// @Summary      Record an in-store cashier sale
// @Description  Prices every line from the live catalog and appends the sale to the ledger with a full product snapshot. A sale is final immediately — there is no lifecycle.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        body body dto.RecordSaleRequest true "Sale lines"
// @Success      201 {object} dto.SaleResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/admin/sales [post]
func (h *SalesHandler) Record(c *gin.Context) {
	var req dto.RecordSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Record(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary      List cashier sales
// @Tags         sales
// @Produce      json
// @Param        days  query int false "Window in days (0 = full history)"
// @Param        page  query int false "Page (1-based)"
// @Param        limit query int false "Page size"
// @Success      200 {object} dto.SaleListResponse
// @Router       /v1/admin/sales [get]
func (h *SalesHandler) List(c *gin.Context) {
	var filter dto.SaleFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list sales"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
