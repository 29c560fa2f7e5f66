package services

import (
	"sort"

	"github.com/dmitrijs2005/swipecatalog/internal/client/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// sorter is not safe for concurrent use; collators keep internal buffers.
type sorter struct {
	coll *collate.Collator
}

func newSorter() *sorter {
	return &sorter{coll: collate.New(language.Und, collate.IgnoreCase)}
}

// apply puts favorites first in their current order and sorts the rest by
// opt. products is reordered in place.
func (s *sorter) apply(products []models.Product, opt models.SortOption) {
	favs := make([]models.Product, 0, len(products))
	rest := make([]models.Product, 0, len(products))
	for _, p := range products {
		if p.Favorite {
			favs = append(favs, p)
		} else {
			rest = append(rest, p)
		}
	}

	if less := s.less(rest, opt); less != nil {
		sort.SliceStable(rest, less)
	}

	n := copy(products, favs)
	copy(products[n:], rest)
}

func (s *sorter) less(ps []models.Product, opt models.SortOption) func(i, j int) bool {
	switch opt {
	case models.SortPriceAsc:
		return func(i, j int) bool { return ps[i].Price.Cmp(ps[j].Price) < 0 }
	case models.SortPriceDesc:
		return func(i, j int) bool { return ps[i].Price.Cmp(ps[j].Price) > 0 }
	case models.SortNameAsc:
		return func(i, j int) bool { return s.coll.CompareString(ps[i].Name, ps[j].Name) < 0 }
	case models.SortNameDesc:
		return func(i, j int) bool { return s.coll.CompareString(ps[i].Name, ps[j].Name) > 0 }
	case models.SortType:
		return func(i, j int) bool { return s.coll.CompareString(ps[i].Type, ps[j].Type) < 0 }
	default:
		return nil
	}
}
