package catalog

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/Keoroanthony/go-foodorders/internal/models"
	"github.com/Keoroanthony/go-foodorders/internal/timeutil"
)

type Diet string

const (
	DietAll        Diet = "all"
	DietVegOnly    Diet = "veg-only"
	DietNonVegOnly Diet = "non-veg-only"
)

// ParseDiet also accepts the "yes"/"no" values of the browser build. Anything
// unrecognised means all.
func ParseDiet(s string) Diet {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "veg-only", "veg", "yes":
		return DietVegOnly
	case "non-veg-only", "non-veg", "no":
		return DietNonVegOnly
	}
	return DietAll
}

type Sort string

const (
	SortCreatedDesc Sort = "date_desc"
	SortCreatedAsc  Sort = "date_asc"
)

func ParseSort(s string) Sort {
	if Sort(strings.TrimSpace(s)) == SortCreatedAsc {
		return SortCreatedAsc
	}
	return SortCreatedDesc
}

type Filters struct {
	Text     string
	Category string // "" or "all" disables the filter
	Diet     Diet
	Sort     Sort
}

// Query filters and orders a catalog snapshot. The input is not modified.
//
// Ordering is a stable sort on createdAt. When either item of a pair has an
// unparsable createdAt the pair compares equal, so such items keep their
// relative input order.
func Query(items []models.Item, f Filters) []models.Item {
	needle := strings.ToLower(strings.TrimSpace(f.Text))
	category := ""
	if f.Category != "all" {
		category = strings.ToLower(f.Category)
	}

	type keyed struct {
		item models.Item
		ms   int64
		ok   bool
	}
	out := make([]keyed, 0, len(items))
	for _, it := range items {
		if !matchesText(it, needle) {
			continue
		}
		if category != "" && strings.ToLower(it.Category) != category {
			continue
		}
		if (f.Diet == DietVegOnly && !it.Veg) || (f.Diet == DietNonVegOnly && it.Veg) {
			continue
		}
		t, ok := timeutil.Parse(it.CreatedAt)
		out = append(out, keyed{item: it, ms: t.UnixMilli(), ok: ok})
	}

	asc := f.Sort == SortCreatedAsc
	slices.SortStableFunc(out, func(a, b keyed) int {
		if !a.ok || !b.ok {
			return 0
		}
		if asc {
			return cmp.Compare(a.ms, b.ms)
		}
		return cmp.Compare(b.ms, a.ms)
	})

	res := make([]models.Item, len(out))
	for i, k := range out {
		res[i] = k.item
	}
	return res
}

func matchesText(it models.Item, needle string) bool {
	if needle == "" {
		return true
	}
	parts := make([]string, 0, 3+len(it.Ingredients))
	for _, s := range append([]string{it.Name, it.Category, it.Description}, it.Ingredients...) {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Contains(strings.ToLower(strings.Join(parts, " ")), needle)
}

// Categories lists the distinct non-blank categories in Russian collation order.
func Categories(items []models.Item) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, it := range items {
		c := strings.TrimSpace(it.Category)
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	collate.New(language.Russian).SortStrings(out)
	if out == nil {
		out = []string{}
	}
	return out
}
