package models

import "github.com/google/uuid"

// Item is a catalog entry (a dish). CreatedAt keeps the stored string so that
// malformed timestamps survive a read/write round trip.
type Item struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Price       int64    `json:"price"`
	Ingredients []string `json:"ingredients"`
	Description string   `json:"description"`
	Veg         bool     `json:"veg"`
	CreatedAt   string   `json:"createdAt"`
}

// IndexItems maps items by id for reference resolution.
func IndexItems(items []Item) map[string]Item {
	byID := make(map[string]Item, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	return byID
}

// NewID returns a fresh identifier such as "food_3f2a…".
func NewID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}
