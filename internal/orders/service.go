package orders

import (
	"context"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Keoroanthony/go-foodorders/internal/models"
	"github.com/Keoroanthony/go-foodorders/internal/session"
	"github.com/Keoroanthony/go-foodorders/internal/storage"
	"github.com/Keoroanthony/go-foodorders/internal/timeutil"
)

// Service owns the stored order list.
type Service struct {
	repo storage.Repository[models.Order]
	log  *logrus.Entry
}

func NewService(repo storage.Repository[models.Order], log *logrus.Entry) *Service {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Service{repo: repo, log: log.WithField("component", "orders")}
}

// EnsureInitialized writes an empty list when the stored value is not a JSON
// array. Repositories that cannot tell are left alone.
func (s *Service) EnsureInitialized(ctx context.Context) error {
	v, ok := s.repo.(interface {
		Valid(context.Context) (bool, error)
	})
	if !ok {
		return nil
	}
	valid, err := v.Valid(ctx)
	if err != nil || valid {
		return err
	}
	return s.repo.SaveAll(ctx, []models.Order{})
}

func (s *Service) List(ctx context.Context) ([]models.Order, error) {
	return s.repo.LoadAll(ctx)
}

type PlaceRequest struct {
	FoodID  string `json:"foodId"`
	StartAt string `json:"startAt"`
	EndAt   string `json:"endAt"`
	Comment string `json:"comment"`
}

// Place validates the window against a single captured now and stores a new
// pending order at the front of the list. Nothing is written on failure.
func (s *Service) Place(ctx context.Context, sess session.Context, req PlaceRequest) (models.Order, error) {
	now := sess.Now()
	r, err := ValidateRange(req.StartAt, req.EndAt, now)
	if err != nil {
		return models.Order{}, err
	}

	list, err := s.repo.LoadAll(ctx)
	if err != nil {
		return models.Order{}, err
	}
	o := models.Order{
		ID:        models.NewID("order"),
		FoodID:    req.FoodID,
		StartAt:   r.StartAt,
		EndAt:     r.EndAt,
		Comment:   strings.TrimSpace(req.Comment),
		Status:    models.StatusPending,
		CreatedAt: timeutil.Format(now),
		UserLogin: sess.Login(),
	}
	list = slices.Insert(list, 0, o)
	if err := s.repo.SaveAll(ctx, list); err != nil {
		return models.Order{}, err
	}

	s.log.WithFields(logrus.Fields{"order_id": o.ID, "food_id": o.FoodID, "user": o.UserLogin}).Info("order placed")
	return o, nil
}

func (s *Service) Approve(ctx context.Context, id string) (models.Order, bool, error) {
	return s.transition(ctx, id, "approve", Approve)
}

func (s *Service) Archive(ctx context.Context, id string) (models.Order, bool, error) {
	return s.transition(ctx, id, "archive", Archive)
}

// Delete removes the order whatever its status. ok is false for unknown ids.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	list, err := s.repo.LoadAll(ctx)
	if err != nil {
		return false, err
	}
	n := len(list)
	list = slices.DeleteFunc(list, func(o models.Order) bool { return o.ID == id })
	if len(list) == n {
		return false, nil
	}
	if err := s.repo.SaveAll(ctx, list); err != nil {
		return false, err
	}
	s.log.WithField("order_id", id).Info("order deleted")
	return true, nil
}

func (s *Service) transition(ctx context.Context, id, action string, fn func(models.Order) models.Order) (models.Order, bool, error) {
	list, err := s.repo.LoadAll(ctx)
	if err != nil {
		return models.Order{}, false, err
	}
	i := slices.IndexFunc(list, func(o models.Order) bool { return o.ID == id })
	if i < 0 {
		s.log.WithFields(logrus.Fields{"order_id": id, "action": action}).Debug("transition on unknown order ignored")
		return models.Order{}, false, nil
	}

	next := fn(list[i])
	if next.Status == list[i].Status {
		return next, true, nil
	}
	list[i] = next
	if err := s.repo.SaveAll(ctx, list); err != nil {
		return models.Order{}, false, err
	}
	s.log.WithFields(logrus.Fields{"order_id": id, "action": action, "status": next.Status}).Info("order moderated")
	return next, true, nil
}
