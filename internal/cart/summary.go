package cart

import "github.com/Keoroanthony/go-foodorders/internal/models"

type ResolvedLine struct {
	Item     models.Item `json:"item"`
	Qty      int         `json:"qty"`
	Subtotal int64       `json:"subtotal"`
}

type Summary struct {
	Lines []ResolvedLine `json:"lines"`
	Total int64          `json:"total"`
}

// Summarize drops lines whose item is not in the snapshot. Those lines add
// nothing to the total and stay in storage.
func Summarize(lines []models.CartLine, items []models.Item) Summary {
	byID := models.IndexItems(items)
	sum := Summary{Lines: make([]ResolvedLine, 0, len(lines))}
	for _, l := range lines {
		it, ok := byID[l.ItemID]
		if !ok {
			continue
		}
		sub := int64(l.Qty) * it.Price
		sum.Lines = append(sum.Lines, ResolvedLine{Item: it, Qty: l.Qty, Subtotal: sub})
		sum.Total += sub
	}
	return sum
}
