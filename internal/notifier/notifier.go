// Package notifier tells users about placed orders and completed checkouts by
// email (SES) and SMS (Africa's Talking).
package notifier

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Keoroanthony/go-foodorders/internal/cart"
	"github.com/Keoroanthony/go-foodorders/internal/models"
)

type Message struct {
	Subject string
	Text    string
}

type Notifier interface {
	Notify(ctx context.Context, to models.User, msg Message) error
}

// Multi fans a message out to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, to models.User, msg Message) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, to, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// OrderPlacedMessage describes a new pending reservation. food is nil when the
// item is unknown.
func OrderPlacedMessage(o models.Order, food *models.Item) Message {
	name := o.FoodID
	if food != nil {
		name = food.Name
	}
	return Message{
		Subject: fmt.Sprintf("Order %s received", o.ID),
		Text: fmt.Sprintf("Your order for %s from %s to %s has been received and is awaiting approval.",
			name, o.StartAt, o.EndAt),
	}
}

func CheckoutMessage(r cart.Receipt) Message {
	var b strings.Builder
	b.WriteString("Thank you for your order!\n")
	for _, l := range r.Lines {
		fmt.Fprintf(&b, "%s x %d = %d\n", l.Item.Name, l.Qty, l.Subtotal)
	}
	fmt.Fprintf(&b, "Total: %d\nDelivery within 2 hours.", r.Total)
	return Message{
		Subject: fmt.Sprintf("Checkout confirmation - total %d", r.Total),
		Text:    b.String(),
	}
}
