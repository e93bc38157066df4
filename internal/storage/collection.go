package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

// Repository loads and saves a whole collection. Engines depend on this
// interface only, so an incremental backend can replace Collection later.
type Repository[T any] interface {
	LoadAll(ctx context.Context) ([]T, error)
	SaveAll(ctx context.Context, items []T) error
}

// Collection stores a []T as a JSON array under a single key.
//
// A missing key, a payload that is not a JSON array, or one that does not
// decode into []T all read back as an empty collection. Only backend I/O
// failures are returned as errors.
type Collection[T any] struct {
	store Store
	key   string
	log   *logrus.Entry
}

func NewCollection[T any](store Store, key string, log *logrus.Entry) *Collection[T] {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Collection[T]{store: store, key: key, log: log.WithField("key", key)}
}

func (c *Collection[T]) Key() string {
	return c.key
}

func (c *Collection[T]) LoadAll(ctx context.Context) ([]T, error) {
	raw, ok, err := c.store.Get(ctx, c.key)
	if err != nil {
		return nil, err
	}
	if !ok || len(raw) == 0 {
		return []T{}, nil
	}
	if !isArray(raw) {
		c.log.Warn("stored value is not a JSON array, using empty collection")
		return []T{}, nil
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		c.log.WithError(err).Warn("stored collection does not decode, using empty collection")
		return []T{}, nil
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (c *Collection[T]) SaveAll(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.key, err)
	}
	return c.store.Set(ctx, c.key, raw)
}

// Valid reports whether the key currently holds a JSON array.
func (c *Collection[T]) Valid(ctx context.Context) (bool, error) {
	raw, ok, err := c.store.Get(ctx, c.key)
	if err != nil || !ok {
		return false, err
	}
	return isArray(raw), nil
}

func isArray(raw []byte) bool {
	return gjson.ValidBytes(raw) && gjson.ParseBytes(raw).IsArray()
}
