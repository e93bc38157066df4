package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Keoroanthony/go-foodorders/internal/auth"
	"github.com/Keoroanthony/go-foodorders/internal/cart"
	"github.com/Keoroanthony/go-foodorders/internal/metrics"
	"github.com/Keoroanthony/go-foodorders/internal/notifier"
)

type addCartItemRequest struct {
	FoodID string `json:"foodId" binding:"required"`
	Qty    int    `json:"qty"`
}

type setQtyRequest struct {
	Qty *int `json:"qty" binding:"required"`
}

func (h *Handler) cartFor(c *gin.Context) (*cart.Store, bool) {
	store, err := cart.For(h.kv, h.session(c), h.log)
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	return store, true
}

// GET /api/cart
func (h *Handler) GetCart(c *gin.Context) {
	store, ok := h.cartFor(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	items, err := h.catalog.List(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	summary, err := store.Resolve(ctx, items)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// POST /api/cart/items
func (h *Handler) AddCartItem(c *gin.Context) {
	var req addCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "foodId is required"})
		return
	}
	store, ok := h.cartFor(c)
	if !ok {
		return
	}

	line, err := store.Add(c.Request.Context(), req.FoodID, req.Qty)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, line)
}

// PUT /api/cart/items/:id
func (h *Handler) SetCartQty(c *gin.Context) {
	var req setQtyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "qty is required"})
		return
	}
	store, ok := h.cartFor(c)
	if !ok {
		return
	}

	if _, err := store.SetQty(c.Request.Context(), c.Param("id"), *req.Qty); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DELETE /api/cart/items/:id
func (h *Handler) RemoveCartItem(c *gin.Context) {
	store, ok := h.cartFor(c)
	if !ok {
		return
	}
	if _, err := store.Remove(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DELETE /api/cart
func (h *Handler) ClearCart(c *gin.Context) {
	store, ok := h.cartFor(c)
	if !ok {
		return
	}
	if err := store.Clear(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /api/cart/checkout
func (h *Handler) Checkout(c *gin.Context) {
	store, ok := h.cartFor(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	items, err := h.catalog.List(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}

	receipt, err := store.Checkout(ctx, items)
	if err != nil {
		h.fail(c, err)
		return
	}
	metrics.RecordCheckout(receipt.Total)
	h.notifyAsync(auth.CurrentUser(c), notifier.CheckoutMessage(receipt))

	c.JSON(http.StatusOK, receipt)
}
