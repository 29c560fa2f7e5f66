package services

import (
	"context"

	"github.com/dmitrijs2005/swipecatalog/internal/client/models"
	"github.com/dmitrijs2005/swipecatalog/internal/client/repositories/records"
	"github.com/dmitrijs2005/swipecatalog/internal/logging"
)

const FavoritesDocument = "favorites.json"

// FavoritesLedger persists favorited products and re-applies them to freshly
// fetched catalogs. Products are matched by exact name.
type FavoritesLedger struct {
	store  *records.Store
	logger logging.Logger
}

func NewFavoritesLedger(store *records.Store, logger logging.Logger) *FavoritesLedger {
	return &FavoritesLedger{store: store, logger: logger.With("component", "favorites")}
}

// Save replaces the stored set with the favorited subset of products.
func (l *FavoritesLedger) Save(ctx context.Context, products []models.Product) error {
	favs := make([]models.FavoriteRecord, 0)
	for _, p := range products {
		if p.Favorite {
			favs = append(favs, models.FavoriteFrom(p))
		}
	}
	return l.store.Save(ctx, FavoritesDocument, favs)
}

func (l *FavoritesLedger) Load(ctx context.Context) []models.FavoriteRecord {
	return records.LoadList[models.FavoriteRecord](ctx, l.store, FavoritesDocument)
}

// Apply marks every product whose name has a stored favorite and returns
// how many were marked.
func (l *FavoritesLedger) Apply(ctx context.Context, catalog []models.Product) int {
	favs := l.Load(ctx)
	if len(favs) == 0 {
		return 0
	}

	names := make(map[string]struct{}, len(favs))
	for _, f := range favs {
		names[f.Name] = struct{}{}
	}

	marked := 0
	for i := range catalog {
		if _, ok := names[catalog[i].Name]; ok {
			catalog[i].Favorite = true
			marked++
		}
	}

	l.logger.Debug(ctx, "favorites applied", "stored", len(favs), "marked", marked)
	return marked
}
