package listutil

import (
	"net/url"
	"strconv"
	"strings"

	"connect/internal/domain/club"
)

// Query parameter names for club listings.
const (
	ParamSearch   = "q"
	ParamSort     = "sort"
	ParamCategory = "category"
	ParamLocation = "location"
	ParamLimit    = "limit"
)

// SortOptions are the accepted values of the sort parameter.
var SortOptions = []string{club.SortTrending, club.SortNew}

// ParseClubFilter extracts a club filter from URL query values.
// Sort is matched case-insensitively; unknown sorts leave the listing unordered.
// PRE: none
// POST: Category and Location are "" or a caller-supplied value; All is preserved
func ParseClubFilter(q url.Values) club.Filter {
	return club.Filter{
		Search:   strings.TrimSpace(q.Get(ParamSearch)),
		Sort:     canonicalSort(q.Get(ParamSort)),
		Category: strings.TrimSpace(q.Get(ParamCategory)),
		Location: strings.TrimSpace(q.Get(ParamLocation)),
	}
}

// EncodeClubFilter is the inverse of ParseClubFilter. Empty fields are omitted.
func EncodeClubFilter(f club.Filter) url.Values {
	q := url.Values{}
	set := func(k, v string) {
		if v != "" {
			q.Set(k, v)
		}
	}
	set(ParamSearch, f.Search)
	set(ParamSort, f.Sort)
	set(ParamCategory, f.Category)
	set(ParamLocation, f.Location)
	return q
}

// ParseLimit reads the limit parameter, clamped to [1, max].
// PRE: 0 < def <= max
// POST: returns def when the parameter is missing or not a positive integer
func ParseLimit(q url.Values, def, max int) int {
	n, err := strconv.Atoi(q.Get(ParamLimit))
	if err != nil || n < 1 {
		return def
	}
	if n > max {
		return max
	}
	return n
}

func canonicalSort(s string) string {
	s = strings.TrimSpace(s)
	for _, opt := range SortOptions {
		if strings.EqualFold(s, opt) {
			return opt
		}
	}
	return ""
}
