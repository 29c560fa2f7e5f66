package models

import "fmt"

// SortOption orders the non-favorited part of the catalog.
type SortOption string

const (
	SortNone      SortOption = "none"
	SortPriceAsc  SortOption = "price-asc"
	SortPriceDesc SortOption = "price-desc"
	SortNameAsc   SortOption = "name-asc"
	SortNameDesc  SortOption = "name-desc"
	SortType      SortOption = "type"
)

var SortOptions = []SortOption{SortNone, SortPriceAsc, SortPriceDesc, SortNameAsc, SortNameDesc, SortType}

func ParseSortOption(s string) (SortOption, error) {
	if s == "" {
		return SortNone, nil
	}
	for _, o := range SortOptions {
		if string(o) == s {
			return o, nil
		}
	}
	return SortNone, fmt.Errorf("unknown sort option %q", s)
}
