package models

const (
	MinCartQty = 1
	MaxCartQty = 99
)

// CartLine is stored under the "foodId" field name used by existing carts.
type CartLine struct {
	ItemID string `json:"foodId"`
	Qty    int    `json:"qty"`
}
