package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Keoroanthony/go-foodorders/internal/metrics"
	"github.com/Keoroanthony/go-foodorders/internal/models"
	"github.com/Keoroanthony/go-foodorders/internal/notifier"
	"github.com/Keoroanthony/go-foodorders/internal/orders"
)

// GET /api/orders?filter=&sort=
//
// The filter defaults to current orders, like the order list screen.
func (h *Handler) ListOrders(c *gin.Context) {
	ctx := c.Request.Context()
	list, err := h.orders.List(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	items, err := h.catalog.List(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}

	now := h.clock.Now()
	f := orders.Filters{
		Kind: orders.ParseKindFilter(c.Query("filter"), orders.KindCurrent),
		Sort: orders.ParseSort(c.Query("sort")),
	}
	c.JSON(http.StatusOK, orders.Resolve(orders.Query(list, f, now), items, now))
}

// POST /api/orders
func (h *Handler) PlaceOrder(c *gin.Context) {
	var req orders.PlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	ctx := c.Request.Context()
	sess := h.session(c)
	order, err := h.orders.Place(ctx, sess, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	metrics.RecordOrderPlaced()

	food := h.lookupFood(ctx, order.FoodID)
	h.notifyAsync(sess.User, notifier.OrderPlacedMessage(order, food))

	c.JSON(http.StatusCreated, orders.View{Order: order, Kind: orders.KindOf(order, sess.Now()), Food: food})
}

// POST /api/orders/:id/approve
func (h *Handler) ApproveOrder(c *gin.Context) {
	h.transition(c, "approve", h.orders.Approve)
}

// POST /api/orders/:id/archive
func (h *Handler) ArchiveOrder(c *gin.Context) {
	h.transition(c, "archive", h.orders.Archive)
}

// DELETE /api/orders/:id
func (h *Handler) DeleteOrder(c *gin.Context) {
	ok, err := h.orders.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if ok {
		metrics.RecordTransition("delete")
	}
	c.Status(http.StatusNoContent)
}

type transitionFunc func(ctx context.Context, id string) (models.Order, bool, error)

func (h *Handler) transition(c *gin.Context, action string, fn transitionFunc) {
	id := c.Param("id")
	order, ok, err := fn(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !ok {
		h.log.WithFields(logrus.Fields{"order_id": id, "action": action}).Debug("order not found")
		c.Status(http.StatusNoContent)
		return
	}
	metrics.RecordTransition(action)
	c.JSON(http.StatusOK, orders.View{
		Order: order,
		Kind:  orders.KindOf(order, h.clock.Now()),
		Food:  h.lookupFood(c.Request.Context(), order.FoodID),
	})
}

// lookupFood is nil for removed items and on read errors.
func (h *Handler) lookupFood(ctx context.Context, id string) *models.Item {
	item, ok, err := h.catalog.Get(ctx, id)
	if err != nil || !ok {
		return nil
	}
	return &item
}
