package catalog

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
)

var ErrInvalidItem = errors.New("invalid item")

var validate = validator.New()

// Draft carries the editable fields of an item.
type Draft struct {
	Name        string   `json:"name" validate:"required"`
	Category    string   `json:"category" validate:"required"`
	Price       float64  `json:"price" validate:"gte=0"`
	Ingredients []string `json:"ingredients"`
	Description string   `json:"description"`
	Veg         bool     `json:"veg"`
}

// Normalize trims the text fields, drops blank ingredients and validates the result.
func (d Draft) Normalize() (Draft, error) {
	d.Name = strings.TrimSpace(d.Name)
	d.Category = strings.TrimSpace(d.Category)
	d.Description = strings.TrimSpace(d.Description)
	d.Ingredients = cleanIngredients(d.Ingredients)

	if math.IsNaN(d.Price) || math.IsInf(d.Price, 0) {
		return d, fmt.Errorf("%w: price must be a finite number", ErrInvalidItem)
	}
	if err := validate.Struct(d); err != nil {
		return d, fmt.Errorf("%w: %s", ErrInvalidItem, describe(err))
	}
	return d, nil
}

// ParseIngredients splits the comma-separated form used by the item editor.
func ParseIngredients(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	return cleanIngredients(strings.Split(raw, ","))
}

func cleanIngredients(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// roundPrice rounds half up.
func roundPrice(p float64) int64 {
	return int64(math.Floor(p + 0.5))
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "gte":
			msgs = append(msgs, field+" must not be negative")
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	return strings.Join(msgs, ", ")
}
