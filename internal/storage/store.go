// Package storage is the key-value persistence collaborator. Every collection
// (catalog, orders, carts) is stored as one JSON document under one key and is
// read and written whole.
package storage

import "context"

// Storage keys, kept compatible with the browser build.
const (
	KeyFoods      = "ff_foods"
	KeyOrders     = "ff_orders"
	cartKeyPrefix = "ff_cart_"
)

// CartKey addresses the cart owned by login.
func CartKey(login string) string {
	return cartKeyPrefix + login
}

// Store is a string-keyed blob store. Get reports ok=false for an absent key.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
