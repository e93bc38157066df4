package handlers_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Keoroanthony/go-foodorders/internal/cart"
	"github.com/Keoroanthony/go-foodorders/internal/models"
	"github.com/Keoroanthony/go-foodorders/internal/storage"
)

func TestCartHandlers(t *testing.T) {
	env := setupTestRouter(t)

	getCart := func(user *models.User) cart.Summary {
		recorder := env.perform(t, http.MethodGet, "/api/cart", nil, user)
		require.Equal(t, http.StatusOK, recorder.Code)
		return decode[cart.Summary](t, recorder)
	}

	t.Run("Returns 401 for anonymous users", func(t *testing.T) {
		recorder := env.perform(t, http.MethodGet, "/api/cart", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("Starts empty", func(t *testing.T) {
		sum := getCart(&plainUser)
		assert.Empty(t, sum.Lines)
		assert.Equal(t, int64(0), sum.Total)
	})

	t.Run("Adds items and totals them", func(t *testing.T) {
		recorder := env.perform(t, http.MethodPost, "/api/cart/items", map[string]interface{}{"foodId": "f1", "qty": 2}, &plainUser)
		require.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, models.CartLine{ItemID: "f1", Qty: 2}, decode[models.CartLine](t, recorder))

		recorder = env.perform(t, http.MethodPost, "/api/cart/items", map[string]interface{}{"foodId": "f3"}, &plainUser)
		require.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, 1, decode[models.CartLine](t, recorder).Qty)

		sum := getCart(&plainUser)
		assert.Len(t, sum.Lines, 2)
		assert.Equal(t, int64(2*520+390), sum.Total)
	})

	t.Run("Caps quantity at 99", func(t *testing.T) {
		recorder := env.perform(t, http.MethodPost, "/api/cart/items", map[string]interface{}{"foodId": "f3", "qty": 150}, &plainUser)
		assert.Equal(t, 99, decode[models.CartLine](t, recorder).Qty)
	})

	t.Run("Returns 400 without foodId", func(t *testing.T) {
		recorder := env.perform(t, http.MethodPost, "/api/cart/items", map[string]interface{}{"qty": 1}, &plainUser)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("Sets quantity within range only", func(t *testing.T) {
		recorder := env.perform(t, http.MethodPut, "/api/cart/items/f3", map[string]int{"qty": 0}, &plainUser)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Equal(t, cart.ErrQtyOutOfRange.Error(), errorOf(t, recorder))

		recorder = env.perform(t, http.MethodPut, "/api/cart/items/f3", map[string]int{"qty": 3}, &plainUser)
		assert.Equal(t, http.StatusNoContent, recorder.Code)
		assert.Equal(t, int64(2*520+3*390), getCart(&plainUser).Total)
	})

	t.Run("Keeps carts per user", func(t *testing.T) {
		assert.Empty(t, getCart(&adminUser).Lines)
	})

	t.Run("Removes a line", func(t *testing.T) {
		recorder := env.perform(t, http.MethodDelete, "/api/cart/items/f3", nil, &plainUser)
		assert.Equal(t, http.StatusNoContent, recorder.Code)
		assert.Equal(t, int64(2*520), getCart(&plainUser).Total)
	})

	t.Run("Checks out and empties the cart", func(t *testing.T) {
		recorder := env.perform(t, http.MethodPost, "/api/cart/checkout", nil, &plainUser)
		require.Equal(t, http.StatusOK, recorder.Code)

		receipt := decode[cart.Receipt](t, recorder)
		assert.Equal(t, int64(1040), receipt.Total)
		assert.Equal(t, "user", receipt.Login)
		assert.Equal(t, "2025-03-10T12:00:00.000Z", receipt.CheckedOutAt)
		assert.Empty(t, getCart(&plainUser).Lines)
		assert.Eventually(t, func() bool { return env.notes.count() == 1 }, time.Second, 10*time.Millisecond)
	})

	t.Run("Refuses to check out an empty cart", func(t *testing.T) {
		recorder := env.perform(t, http.MethodPost, "/api/cart/checkout", nil, &plainUser)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Equal(t, cart.ErrEmptyCart.Error(), errorOf(t, recorder))
	})

	t.Run("Clears the cart", func(t *testing.T) {
		env.perform(t, http.MethodPost, "/api/cart/items", map[string]interface{}{"foodId": "f2"}, &plainUser)
		recorder := env.perform(t, http.MethodDelete, "/api/cart", nil, &plainUser)
		assert.Equal(t, http.StatusNoContent, recorder.Code)
		assert.Empty(t, getCart(&plainUser).Lines)
	})
}

func TestCartSkipsRemovedFoods(t *testing.T) {
	env := setupTestRouter(t)

	env.perform(t, http.MethodPost, "/api/cart/items", map[string]interface{}{"foodId": "f1", "qty": 1}, &plainUser)
	env.perform(t, http.MethodPost, "/api/cart/items", map[string]interface{}{"foodId": "f8", "qty": 2}, &plainUser)
	require.Equal(t, http.StatusNoContent, env.perform(t, http.MethodDelete, "/api/foods/f1", nil, &adminUser).Code)

	recorder := env.perform(t, http.MethodGet, "/api/cart", nil, &plainUser)
	sum := decode[cart.Summary](t, recorder)
	require.Len(t, sum.Lines, 1)
	assert.Equal(t, int64(360), sum.Total)

	raw, ok, err := env.kv.Get(context.Background(), storage.CartKey("user"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, string(raw), `"foodId":"f1"`)
}
