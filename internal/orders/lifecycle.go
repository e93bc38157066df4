// Package orders implements the reservation lifecycle: range validation on
// creation, moderation transitions, the derived Kind and the order list query.
package orders

import (
	"errors"
	"time"

	"github.com/Keoroanthony/go-foodorders/internal/models"
	"github.com/Keoroanthony/go-foodorders/internal/timeutil"
)

// StartGrace absorbs clock skew and form-filling latency when checking that a
// reservation does not start in the past.
const StartGrace = time.Minute

var (
	ErrInvalidDate    = errors.New("start and end must be valid dates")
	ErrStartInPast    = errors.New("start cannot be in the past")
	ErrEndBeforeStart = errors.New("end cannot be before start")
)

// Range is a validated reservation window in canonical encoding.
type Range struct {
	StartAt string
	EndAt   string
}

func ValidateRange(startRaw, endRaw string, now time.Time) (Range, error) {
	start, okStart := timeutil.Parse(startRaw)
	end, okEnd := timeutil.Parse(endRaw)
	if !okStart || !okEnd {
		return Range{}, ErrInvalidDate
	}
	if start.UnixMilli() < now.Add(-StartGrace).UnixMilli() {
		return Range{}, ErrStartInPast
	}
	if end.UnixMilli() < start.UnixMilli() {
		return Range{}, ErrEndBeforeStart
	}
	return Range{StartAt: timeutil.Format(start), EndAt: timeutil.Format(end)}, nil
}

// KindOf derives the order's Kind at now. An endAt that does not parse never
// counts as expired.
func KindOf(o models.Order, now time.Time) models.Kind {
	end, ok := timeutil.Parse(o.EndAt)
	expired := ok && end.UnixMilli() < now.UnixMilli()

	switch {
	case o.Status == models.StatusArchived || expired:
		return models.KindArchive
	case o.Status == models.StatusPending:
		return models.KindPending
	default:
		return models.KindCurrent
	}
}

// Approve moves a pending order to approved. Archived orders stay archived.
func Approve(o models.Order) models.Order {
	if o.Status != models.StatusArchived {
		o.Status = models.StatusApproved
	}
	return o
}

// Archive is valid from any status.
func Archive(o models.Order) models.Order {
	o.Status = models.StatusArchived
	return o
}
