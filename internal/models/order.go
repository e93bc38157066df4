package models

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusArchived Status = "archived"
)

// Kind is the derived classification of an order. It is never persisted.
type Kind string

const (
	KindPending Kind = "pending"
	KindCurrent Kind = "current"
	KindArchive Kind = "archive"
)

// Order is a time-bounded reservation request for one catalog item.
// FoodID may reference an item that no longer exists.
type Order struct {
	ID        string `json:"id"`
	FoodID    string `json:"foodId"`
	StartAt   string `json:"startAt"`
	EndAt     string `json:"endAt"`
	Comment   string `json:"comment"`
	Status    Status `json:"status"`
	CreatedAt string `json:"createdAt"`
	UserLogin string `json:"userLogin"`
}
