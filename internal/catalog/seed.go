package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Keoroanthony/go-foodorders/internal/models"
	"github.com/Keoroanthony/go-foodorders/internal/session"
	"github.com/Keoroanthony/go-foodorders/internal/timeutil"
)

//go:embed seed.yaml
var seedYAML []byte

type seedItem struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Category    string   `yaml:"category"`
	Price       int64    `yaml:"price"`
	Ingredients []string `yaml:"ingredients"`
	Description string   `yaml:"description"`
	Veg         bool     `yaml:"veg"`
	DaysAgo     int      `yaml:"daysAgo"`
}

// SeedItems returns the demo catalog dated relative to now.
func SeedItems(now time.Time) ([]models.Item, error) {
	var seeds []seedItem
	if err := yaml.Unmarshal(seedYAML, &seeds); err != nil {
		return nil, fmt.Errorf("decode seed catalog: %w", err)
	}
	items := make([]models.Item, len(seeds))
	for i, s := range seeds {
		items[i] = models.Item{
			ID:          s.ID,
			Name:        s.Name,
			Category:    s.Category,
			Price:       s.Price,
			Ingredients: s.Ingredients,
			Description: s.Description,
			Veg:         s.Veg,
			CreatedAt:   timeutil.Format(now.Add(-time.Duration(s.DaysAgo) * 24 * time.Hour)),
		}
	}
	return items, nil
}

// EnsureSeed writes the demo catalog when the stored one is missing, malformed
// or empty. It reports whether it wrote anything.
func (s *Store) EnsureSeed(ctx context.Context, sess session.Context) (bool, error) {
	items, err := s.repo.LoadAll(ctx)
	if err != nil {
		return false, err
	}
	if len(items) > 0 {
		return false, nil
	}
	seeds, err := SeedItems(sess.Now())
	if err != nil {
		return false, err
	}
	if err := s.repo.SaveAll(ctx, seeds); err != nil {
		return false, err
	}
	s.log.WithField("count", len(seeds)).Info("catalog seeded")
	return true, nil
}
