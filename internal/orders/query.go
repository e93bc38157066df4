package orders

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/Keoroanthony/go-foodorders/internal/models"
	"github.com/Keoroanthony/go-foodorders/internal/timeutil"
)

type KindFilter string

const (
	KindAll     KindFilter = "all"
	KindPending KindFilter = KindFilter(models.KindPending)
	KindCurrent KindFilter = KindFilter(models.KindCurrent)
	KindArchive KindFilter = KindFilter(models.KindArchive)
)

// ParseKindFilter returns def for empty or unknown input.
func ParseKindFilter(s string, def KindFilter) KindFilter {
	switch k := KindFilter(strings.ToLower(strings.TrimSpace(s))); k {
	case KindAll, KindPending, KindCurrent, KindArchive:
		return k
	}
	return def
}

type Sort string

const (
	SortCreatedDesc Sort = "created_desc"
	SortCreatedAsc  Sort = "created_asc"
	SortStartAsc    Sort = "start_asc"
	SortStartDesc   Sort = "start_desc"
)

func ParseSort(s string) Sort {
	switch v := Sort(strings.TrimSpace(s)); v {
	case SortCreatedAsc, SortStartAsc, SortStartDesc:
		return v
	}
	return SortCreatedDesc
}

type Filters struct {
	Kind KindFilter // zero value means all
	Sort Sort
}

// Query filters by derived Kind at now and sorts stably. Unparsable timestamps
// sort as the epoch, i.e. as the oldest values.
func Query(list []models.Order, f Filters, now time.Time) []models.Order {
	out := make([]models.Order, 0, len(list))
	for _, o := range list {
		if f.Kind != "" && f.Kind != KindAll && KindFilter(KindOf(o, now)) != f.Kind {
			continue
		}
		out = append(out, o)
	}

	key := func(o models.Order) int64 { return timeutil.Millis(o.CreatedAt) }
	if f.Sort == SortStartAsc || f.Sort == SortStartDesc {
		key = func(o models.Order) int64 { return timeutil.Millis(o.StartAt) }
	}
	desc := f.Sort != SortCreatedAsc && f.Sort != SortStartAsc

	slices.SortStableFunc(out, func(a, b models.Order) int {
		if desc {
			return cmp.Compare(key(b), key(a))
		}
		return cmp.Compare(key(a), key(b))
	})
	return out
}

// View is an order joined with its item and current Kind. Food is nil when
// the referenced item has been deleted; such orders are still listed.
type View struct {
	models.Order
	Kind models.Kind  `json:"kind"`
	Food *models.Item `json:"food"`
}

func Resolve(list []models.Order, items []models.Item, now time.Time) []View {
	byID := models.IndexItems(items)
	views := make([]View, len(list))
	for i, o := range list {
		v := View{Order: o, Kind: KindOf(o, now)}
		if it, ok := byID[o.FoodID]; ok {
			v.Food = &it
		}
		views[i] = v
	}
	return views
}
