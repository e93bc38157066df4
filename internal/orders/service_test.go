package orders_test

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Keoroanthony/go-foodorders/internal/models"
	"github.com/Keoroanthony/go-foodorders/internal/orders"
	"github.com/Keoroanthony/go-foodorders/internal/session"
	"github.com/Keoroanthony/go-foodorders/internal/storage"
	"github.com/Keoroanthony/go-foodorders/internal/timeutil"
)

func quietLog() *logrus.Entry {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(l)
}

func setupService(t *testing.T) (*orders.Service, *storage.MemoryStore) {
	t.Helper()
	kv := storage.NewMemoryStore()
	return orders.NewService(storage.NewCollection[models.Order](kv, storage.KeyOrders, quietLog()), quietLog()), kv
}

func userSession() session.Context {
	return session.New(&models.User{ID: "u2", Login: "user", Role: models.RoleUser}, timeutil.Fixed(now))
}

func TestPlace(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	t.Run("Stores a pending order at the front", func(t *testing.T) {
		first, err := svc.Place(ctx, userSession(), orders.PlaceRequest{FoodID: "f1", StartAt: at(time.Hour), EndAt: at(3 * time.Hour), Comment: "  window seat "})
		require.NoError(t, err)
		second, err := svc.Place(ctx, userSession(), orders.PlaceRequest{FoodID: "f2", StartAt: at(time.Hour), EndAt: at(2 * time.Hour)})
		require.NoError(t, err)

		assert.Equal(t, models.StatusPending, first.Status)
		assert.Equal(t, "window seat", first.Comment)
		assert.Equal(t, "user", first.UserLogin)
		assert.Equal(t, timeutil.Format(now), first.CreatedAt)
		assert.Equal(t, at(time.Hour), first.StartAt)
		assert.NotEqual(t, first.ID, second.ID)

		list, err := svc.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, second.ID, list[0].ID)
		assert.Equal(t, first.ID, list[1].ID)
	})

	t.Run("Rejections leave the list untouched", func(t *testing.T) {
		before, _ := svc.List(ctx)

		_, err := svc.Place(ctx, userSession(), orders.PlaceRequest{FoodID: "f1", StartAt: at(-2 * time.Minute), EndAt: at(time.Hour)})
		assert.ErrorIs(t, err, orders.ErrStartInPast)
		_, err = svc.Place(ctx, userSession(), orders.PlaceRequest{FoodID: "f1", StartAt: at(2 * time.Hour), EndAt: at(time.Hour)})
		assert.ErrorIs(t, err, orders.ErrEndBeforeStart)
		_, err = svc.Place(ctx, userSession(), orders.PlaceRequest{FoodID: "f1", StartAt: "x", EndAt: "y"})
		assert.ErrorIs(t, err, orders.ErrInvalidDate)

		after, _ := svc.List(ctx)
		assert.Equal(t, before, after)
	})

	t.Run("Anonymous orders carry an empty login", func(t *testing.T) {
		o, err := svc.Place(ctx, session.Anonymous(timeutil.Fixed(now)), orders.PlaceRequest{FoodID: "f1", StartAt: at(time.Hour), EndAt: at(time.Hour)})
		require.NoError(t, err)
		assert.Equal(t, "", o.UserLogin)
	})
}

func TestModeration(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	o, err := svc.Place(ctx, userSession(), orders.PlaceRequest{FoodID: "f1", StartAt: at(time.Hour), EndAt: at(2 * time.Hour)})
	require.NoError(t, err)

	stored := func() models.Order {
		list, err := svc.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		return list[0]
	}

	approved, ok, err := svc.Approve(ctx, o.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, models.StatusApproved, approved.Status)
	assert.Equal(t, models.StatusApproved, stored().Status)

	_, _, err = svc.Approve(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, stored().Status)

	_, ok, err = svc.Archive(ctx, o.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	once := stored()
	_, _, err = svc.Archive(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, once, stored(), "archive is idempotent")

	_, _, err = svc.Approve(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusArchived, stored().Status, "archived orders are not approved again")

	_, ok, err = svc.Approve(ctx, "order_missing")
	assert.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = svc.Archive(ctx, "order_missing")
	assert.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.Delete(ctx, o.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = svc.Delete(ctx, o.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	list, _ := svc.List(ctx)
	assert.Empty(t, list)
}

func TestEnsureInitialized(t *testing.T) {
	ctx := context.Background()

	t.Run("Writes an empty list over a non-array value", func(t *testing.T) {
		svc, kv := setupService(t)
		require.NoError(t, kv.Set(ctx, storage.KeyOrders, []byte(`{"x":1}`)))
		require.NoError(t, svc.EnsureInitialized(ctx))
		raw, _, _ := kv.Get(ctx, storage.KeyOrders)
		assert.Equal(t, "[]", string(raw))
	})

	t.Run("Writes an empty list when absent", func(t *testing.T) {
		svc, kv := setupService(t)
		require.NoError(t, svc.EnsureInitialized(ctx))
		raw, ok, _ := kv.Get(ctx, storage.KeyOrders)
		assert.True(t, ok)
		assert.Equal(t, "[]", string(raw))
	})

	t.Run("Keeps existing orders", func(t *testing.T) {
		svc, kv := setupService(t)
		require.NoError(t, kv.Set(ctx, storage.KeyOrders, []byte(`[{"id":"o1","status":"pending"}]`)))
		require.NoError(t, svc.EnsureInitialized(ctx))
		list, _ := svc.List(ctx)
		assert.Len(t, list, 1)
	})
}
