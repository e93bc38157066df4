package catalog

import (
	"context"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/Keoroanthony/go-foodorders/internal/models"
	"github.com/Keoroanthony/go-foodorders/internal/session"
	"github.com/Keoroanthony/go-foodorders/internal/storage"
	"github.com/Keoroanthony/go-foodorders/internal/timeutil"
)

// Store owns the catalog. Every call reloads the full collection and writes
// it back whole.
type Store struct {
	repo storage.Repository[models.Item]
	log  *logrus.Entry
}

func NewStore(repo storage.Repository[models.Item], log *logrus.Entry) *Store {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Store{repo: repo, log: log.WithField("component", "catalog")}
}

func (s *Store) List(ctx context.Context) ([]models.Item, error) {
	return s.repo.LoadAll(ctx)
}

func (s *Store) Get(ctx context.Context, id string) (models.Item, bool, error) {
	items, err := s.repo.LoadAll(ctx)
	if err != nil {
		return models.Item{}, false, err
	}
	i := slices.IndexFunc(items, func(it models.Item) bool { return it.ID == id })
	if i < 0 {
		return models.Item{}, false, nil
	}
	return items[i], true, nil
}

// Create inserts a new item at the front of the catalog.
func (s *Store) Create(ctx context.Context, sess session.Context, d Draft) (models.Item, error) {
	d, err := d.Normalize()
	if err != nil {
		return models.Item{}, err
	}
	items, err := s.repo.LoadAll(ctx)
	if err != nil {
		return models.Item{}, err
	}

	item := apply(models.Item{
		ID:        models.NewID("food"),
		CreatedAt: timeutil.Format(sess.Now()),
	}, d)
	items = slices.Insert(items, 0, item)

	if err := s.repo.SaveAll(ctx, items); err != nil {
		return models.Item{}, err
	}
	s.log.WithFields(logrus.Fields{"food_id": item.ID, "user": sess.Login()}).Info("food created")
	return item, nil
}

// Update replaces the editable fields in place. ok is false when id is unknown;
// that is not an error.
func (s *Store) Update(ctx context.Context, id string, d Draft) (item models.Item, ok bool, err error) {
	d, err = d.Normalize()
	if err != nil {
		return models.Item{}, false, err
	}
	items, err := s.repo.LoadAll(ctx)
	if err != nil {
		return models.Item{}, false, err
	}
	i := slices.IndexFunc(items, func(it models.Item) bool { return it.ID == id })
	if i < 0 {
		s.log.WithField("food_id", id).Debug("update of unknown food ignored")
		return models.Item{}, false, nil
	}

	items[i] = apply(items[i], d)
	if err := s.repo.SaveAll(ctx, items); err != nil {
		return models.Item{}, false, err
	}
	s.log.WithField("food_id", id).Info("food updated")
	return items[i], true, nil
}

// Delete removes the item. Carts and orders that reference it are left alone.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	items, err := s.repo.LoadAll(ctx)
	if err != nil {
		return false, err
	}
	n := len(items)
	items = slices.DeleteFunc(items, func(it models.Item) bool { return it.ID == id })
	if len(items) == n {
		return false, nil
	}
	if err := s.repo.SaveAll(ctx, items); err != nil {
		return false, err
	}
	s.log.WithField("food_id", id).Info("food deleted")
	return true, nil
}

func apply(it models.Item, d Draft) models.Item {
	it.Name = d.Name
	it.Category = d.Category
	it.Price = roundPrice(d.Price)
	it.Ingredients = d.Ingredients
	it.Description = d.Description
	it.Veg = d.Veg
	return it
}
