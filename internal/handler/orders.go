package handler

import (
	"errors"
	"net/http"

	"storely/internal/apierror"
	"storely/internal/dto"
	"storely/internal/service"

	"github.com/gin-gonic/gin"
)

type OrdersHandler struct{ svc service.OrderService }

func NewOrdersHandler(svc service.OrderService) *OrdersHandler { return &OrdersHandler{svc: svc} }

// Checkout godoc
// @Summary      Check out
// @Description  Creates a pending order. Explicit items take precedence; with an empty list the caller's cart is checked out and then cleared. Every line is priced once at this moment — later catalog edits never touch it.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        X-User-ID header string true "Caller identity"
// @Param        body body dto.CheckoutRequest true "Checkout detail"
// @Success      201 {object} dto.OrderResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/orders [post]
func (h *OrdersHandler) Checkout(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var req dto.CheckoutRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Checkout(c.Request.Context(), uid, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListMine godoc
// @Summary      List the caller's orders
// @Tags         orders
// @Produce      json
// @Param        X-User-ID header string true "Caller identity"
// @Param        status query string false "Status filter (or all)"
// @Param        page   query int    false "Page (1-based)"
// @Param        limit  query int    false "Page size"
// @Success      200 {object} dto.OrderListResponse
// @Router       /v1/orders [get]
func (h *OrdersHandler) ListMine(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var filter dto.OrderFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	uidStr := uid.String()
	filter.UserID = &uidStr

	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list orders"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListAll godoc
// @Summary      List all orders (admin)
// @Tags         orders
// @Produce      json
// @Param        status query string false "Status filter (or all)"
// @Param        page   query int    false "Page (1-based)"
// @Param        limit  query int    false "Page size"
// @Success      200 {object} dto.OrderListResponse
// @Router       /v1/admin/orders [get]
func (h *OrdersHandler) ListAll(c *gin.Context) {
	var filter dto.OrderFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list orders"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetByID godoc
// @Summary      Get one order
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order id"
// @Success      200 {object} dto.OrderResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/orders/{id} [get]
func (h *OrdersHandler) GetByID(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Order not found"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateStatus godoc
// @Summary      Move an order through its lifecycle (admin)
// @Description  pending → confirmed → shipped → delivered, with cancellation allowed before delivery. Delivery triggers the receipt email and makes the order count toward realized revenue.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id   path string true "Order id"
// @Param        body body dto.UpdateOrderStatusRequest true "Target status"
// @Success      200 {object} dto.OrderResponse
// @Failure      404 {object} apierror.APIError
// @Failure      409 {object} apierror.APIError
// @Router       /v1/admin/orders/{id}/status [patch]
func (h *OrdersHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateOrderStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		case errors.Is(err, service.ErrInvalidTransition):
			c.JSON(http.StatusConflict, apierror.New(err.Error()))
		default:
			c.JSON(http.StatusInternalServerError, apierror.New("Failed to update order"))
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}
