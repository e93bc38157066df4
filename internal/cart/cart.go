// Package cart keeps the per-user shopping cart. A cart exists only for an
// authenticated login and is created lazily by the first write.
package cart

import (
	"context"
	"errors"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/Keoroanthony/go-foodorders/internal/models"
	"github.com/Keoroanthony/go-foodorders/internal/session"
	"github.com/Keoroanthony/go-foodorders/internal/storage"
	"github.com/Keoroanthony/go-foodorders/internal/timeutil"
)

var (
	ErrNoIdentity    = errors.New("sign in to use the cart")
	ErrQtyOutOfRange = errors.New("quantity must be between 1 and 99")
	ErrEmptyCart     = errors.New("cart is empty")
)

type Store struct {
	repo storage.Repository[models.CartLine]
	sess session.Context
	log  *logrus.Entry
}

// For opens the cart of the session's user.
func For(kv storage.Store, sess session.Context, log *logrus.Entry) (*Store, error) {
	if !sess.Authenticated() {
		return nil, ErrNoIdentity
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	repo := storage.NewCollection[models.CartLine](kv, storage.CartKey(sess.Login()), log)
	return New(repo, sess, log), nil
}

func New(repo storage.Repository[models.CartLine], sess session.Context, log *logrus.Entry) *Store {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Store{repo: repo, sess: sess, log: log.WithFields(logrus.Fields{"component": "cart", "user": sess.Login()})}
}

func (s *Store) Lines(ctx context.Context) ([]models.CartLine, error) {
	return s.repo.LoadAll(ctx)
}

// Add puts qty more of itemID in the cart, capped at the maximum. qty itself is
// clamped into 1..99 first, so a qty below one counts as one.
func (s *Store) Add(ctx context.Context, itemID string, qty int) (models.CartLine, error) {
	qty = clamp(qty)
	lines, err := s.repo.LoadAll(ctx)
	if err != nil {
		return models.CartLine{}, err
	}

	var line models.CartLine
	if i := indexOf(lines, itemID); i >= 0 {
		lines[i].Qty = clamp(lines[i].Qty + qty)
		line = lines[i]
	} else {
		line = models.CartLine{ItemID: itemID, Qty: clamp(qty)}
		lines = append(lines, line)
	}
	if err := s.repo.SaveAll(ctx, lines); err != nil {
		return models.CartLine{}, err
	}
	return line, nil
}

// SetQty rejects n outside 1..99 without touching the line. ok is false when
// the item is not in the cart.
func (s *Store) SetQty(ctx context.Context, itemID string, n int) (ok bool, err error) {
	if n < models.MinCartQty || n > models.MaxCartQty {
		return false, ErrQtyOutOfRange
	}
	lines, err := s.repo.LoadAll(ctx)
	if err != nil {
		return false, err
	}
	i := indexOf(lines, itemID)
	if i < 0 {
		return false, nil
	}
	lines[i].Qty = n
	if err := s.repo.SaveAll(ctx, lines); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) Remove(ctx context.Context, itemID string) (bool, error) {
	lines, err := s.repo.LoadAll(ctx)
	if err != nil {
		return false, err
	}
	i := indexOf(lines, itemID)
	if i < 0 {
		return false, nil
	}
	if err := s.repo.SaveAll(ctx, slices.Delete(lines, i, i+1)); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) Clear(ctx context.Context) error {
	return s.repo.SaveAll(ctx, []models.CartLine{})
}

// Resolve joins the cart with a catalog snapshot.
func (s *Store) Resolve(ctx context.Context, items []models.Item) (Summary, error) {
	lines, err := s.repo.LoadAll(ctx)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(lines, items), nil
}

type Receipt struct {
	Summary
	Login        string `json:"login"`
	CheckedOutAt string `json:"checkedOutAt"`
}

// Checkout totals the cart against the snapshot and empties it.
func (s *Store) Checkout(ctx context.Context, items []models.Item) (Receipt, error) {
	lines, err := s.repo.LoadAll(ctx)
	if err != nil {
		return Receipt{}, err
	}
	if len(lines) == 0 {
		return Receipt{}, ErrEmptyCart
	}

	r := Receipt{
		Summary:      Summarize(lines, items),
		Login:        s.sess.Login(),
		CheckedOutAt: timeutil.Format(s.sess.Now()),
	}
	if err := s.Clear(ctx); err != nil {
		return Receipt{}, err
	}
	s.log.WithFields(logrus.Fields{"lines": len(r.Lines), "total": r.Total}).Info("checkout completed")
	return r, nil
}

func indexOf(lines []models.CartLine, itemID string) int {
	return slices.IndexFunc(lines, func(l models.CartLine) bool { return l.ItemID == itemID })
}

func clamp(q int) int {
	return max(models.MinCartQty, min(models.MaxCartQty, q))
}
