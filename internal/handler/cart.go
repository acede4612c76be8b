package handler

import (
	"net/http"
	"strconv"

	"storely/internal/apierror"
	"storely/internal/dto"
	"storely/internal/service"

	"github.com/gin-gonic/gin"
)

type CartHandler struct{ svc service.CartService }

func NewCartHandler(svc service.CartService) *CartHandler { return &CartHandler{svc: svc} }

// Get godoc
// @Summary      Get the caller's cart
// @Description  Lines are re-priced from the live catalog on every read; removed or deactivated products are dropped.
// @Tags         cart
// @Produce      json
// @Param        X-User-ID header string true "Caller identity"
// @Success      200 {object} dto.CartResponse
// @Router       /v1/cart [get]
func (h *CartHandler) Get(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to load cart"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AddItem godoc
// @Summary      Add an item to the cart
// @Description  Merges into an existing line when product, size and addons match exactly.
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        X-User-ID header string true "Caller identity"
// @Param        body body dto.AddCartItemRequest true "Selection"
// @Success      200 {object} dto.CartResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var req dto.AddCartItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AddItem(c.Request.Context(), uid, req)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateItem godoc
// @Summary      Change a cart line quantity
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        X-User-ID header string true "Caller identity"
// @Param        index path int true "Line index (0-based)"
// @Param        body  body dto.UpdateCartItemRequest true "New quantity"
// @Success      200 {object} dto.CartResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/cart/items/{index} [put]
func (h *CartHandler) UpdateItem(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid line index"))
		return
	}
	var req dto.UpdateCartItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateItem(c.Request.Context(), uid, index, req)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RemoveItem godoc
// @Summary      Remove a cart line
// @Tags         cart
// @Produce      json
// @Param        X-User-ID header string true "Caller identity"
// @Param        index path int true "Line index (0-based)"
// @Success      200 {object} dto.CartResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/cart/items/{index} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid line index"))
		return
	}
	resp, err := h.svc.RemoveItem(c.Request.Context(), uid, index)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Clear godoc
// @Summary      Empty the cart
// @Tags         cart
// @Param        X-User-ID header string true "Caller identity"
// @Success      204
// @Router       /v1/cart [delete]
func (h *CartHandler) Clear(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	if err := h.svc.Clear(c.Request.Context(), uid); err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to clear cart"))
		return
	}
	c.Status(http.StatusNoContent)
}
