package club

import (
	"cmp"
	"slices"
	"strings"
)

// Filter narrows and orders a club listing.
// Empty or All disables Category and Location; empty Search matches everything.
type Filter struct {
	Search   string
	Sort     string
	Category string
	Location string
}

// Apply returns the clubs that satisfy every active filter, ordered by f.Sort.
// The input slice is never modified; the result is a fresh copy.
// PRE: none
// POST: every returned club matches Category AND Location AND Search
func (f Filter) Apply(clubs []Club) []Club {
	out := make([]Club, 0, len(clubs))
	for _, c := range clubs {
		if active(f.Category) && c.Category != f.Category {
			continue
		}
		if active(f.Location) && c.Location != f.Location {
			continue
		}
		if !c.Matches(f.Search) {
			continue
		}
		c.Tags = slices.Clone(c.Tags)
		out = append(out, c)
	}

	switch f.Sort {
	case SortTrending:
		slices.SortStableFunc(out, func(a, b Club) int {
			return cmp.Compare(b.MemberCount, a.MemberCount)
		})
	case SortNew:
		slices.SortStableFunc(out, func(a, b Club) int {
			return CompareRecency(b.ID, a.ID)
		})
	}
	return out
}

// CompareRecency orders identifiers of the form "c<number>" by their numeric
// suffix so that "c1000" sorts after "c999". Identifiers without a numeric
// suffix fall back to plain string comparison.
func CompareRecency(a, b string) int {
	na, okA := numericSuffix(a)
	nb, okB := numericSuffix(b)
	if okA && okB {
		if len(na) != len(nb) {
			return cmp.Compare(len(na), len(nb))
		}
		return strings.Compare(na, nb)
	}
	return strings.Compare(a, b)
}

func numericSuffix(id string) (string, bool) {
	i := strings.IndexFunc(id, func(r rune) bool { return r >= '0' && r <= '9' })
	if i < 0 {
		return "", false
	}
	digits := strings.TrimLeft(id[i:], "0")
	for _, r := range digits {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	return digits, true
}

func active(v string) bool {
	return v != "" && v != All
}
