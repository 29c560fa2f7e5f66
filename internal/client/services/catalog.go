package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/swipecatalog/internal/client/client"
	"github.com/dmitrijs2005/swipecatalog/internal/client/models"
	"github.com/dmitrijs2005/swipecatalog/internal/imagex"
	"github.com/dmitrijs2005/swipecatalog/internal/logging"
	"github.com/google/uuid"
	"golang.org/x/text/cases"
)

// Connectivity reports the last known reachability of the API.
type Connectivity interface {
	Connected() bool
}

type Outcome int

const (
	OutcomeFailed Outcome = iota
	OutcomeUploaded
	OutcomeSavedOffline
)

func (o Outcome) String() string {
	switch o {
	case OutcomeUploaded:
		return "uploaded"
	case OutcomeSavedOffline:
		return "saved-offline"
	default:
		return "failed"
	}
}

// SubmitResult is what the user is told after adding a product.
type SubmitResult struct {
	Outcome Outcome
	Title   string
	Message string
}

const (
	offlineTitle   = "Offline: Product Saved Locally"
	offlineMessage = "You're not connected to the internet. Your product has been saved locally and will be automatically uploaded once you're online."
	successTitle   = "Success"
	failedTitle    = "Error"
	failedMessage  = "Failed to add product."
)

// Snapshot is a consistent copy of the engine state handed to listeners.
type Snapshot struct {
	Products []models.Product
	Total    int
	Sort     models.SortOption
	Search   string
	Loading  bool
	Err      error
}

// CatalogEngine owns the in-memory catalog: fetching, favorites, sorting,
// filtering and the online/offline decision for new products.
type CatalogEngine struct {
	client    client.Client
	favorites *FavoritesLedger
	queue     *OfflineQueue
	conn      Connectivity
	logger    logging.Logger

	mu       sync.Mutex
	products []models.Product
	sortOpt  models.SortOption
	search   string
	loading  bool
	lastErr  error
	gen      uint64
	sorter   *sorter

	notifyMu  sync.Mutex
	listeners []func(Snapshot)

	wg sync.WaitGroup
}

func NewCatalogEngine(c client.Client, favorites *FavoritesLedger, queue *OfflineQueue, conn Connectivity, logger logging.Logger) *CatalogEngine {
	return &CatalogEngine{
		client:    c,
		favorites: favorites,
		queue:     queue,
		conn:      conn,
		logger:    logger.With("component", "catalog"),
		products:  []models.Product{},
		sortOpt:   models.SortNone,
		sorter:    newSorter(),
	}
}

// OnChange registers fn to receive a snapshot after every state change.
// Listeners run on the goroutine that made the change, outside the engine's
// locks, so they may call back into the engine.
func (e *CatalogEngine) OnChange(fn func(Snapshot)) {
	e.notifyMu.Lock()
	defer e.notifyMu.Unlock()
	e.listeners = append(e.listeners, fn)
}

func (e *CatalogEngine) notify() {
	e.notifyMu.Lock()
	listeners := append(([]func(Snapshot))(nil), e.listeners...)
	e.notifyMu.Unlock()

	if len(listeners) == 0 {
		return
	}
	snap := e.Snapshot()
	for _, fn := range listeners {
		fn(snap)
	}
}

func (e *CatalogEngine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Snapshot{
		Products: e.filteredLocked(),
		Total:    len(e.products),
		Sort:     e.sortOpt,
		Search:   e.search,
		Loading:  e.loading,
		Err:      e.lastErr,
	}
}

// Fetch replaces the catalog with the server's list. On failure the catalog
// becomes empty and the error is returned. A fetch overtaken by a newer one
// leaves the state alone.
func (e *CatalogEngine) Fetch(ctx context.Context) error {
	e.mu.Lock()
	e.gen++
	gen := e.gen
	e.loading = true
	e.mu.Unlock()
	e.notify()

	products, err := e.client.ListProducts(ctx)
	if err != nil {
		e.logger.Warn(ctx, "fetch failed", "error", err)
		products = []models.Product{}
	}
	marked := e.favorites.Apply(ctx, products)

	e.mu.Lock()
	if gen != e.gen {
		e.mu.Unlock()
		e.logger.Debug(ctx, "stale fetch discarded", "generation", gen)
		return err
	}
	e.products = products
	e.lastErr = err
	e.sorter.apply(e.products, e.sortOpt)
	e.loading = false
	e.mu.Unlock()

	e.logger.Info(ctx, "catalog fetched", "products", len(products), "favorites", marked)
	e.notify()
	return err
}

// ToggleFavorite flips the favorite flag of the product with id and
// persists the favorites. It reports false for an unknown id.
func (e *CatalogEngine) ToggleFavorite(ctx context.Context, id string) bool {
	e.mu.Lock()
	idx := -1
	for i := range e.products {
		if e.products[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		e.mu.Unlock()
		return false
	}

	e.products[idx].Favorite = !e.products[idx].Favorite
	fav := e.products[idx].Favorite
	if err := e.favorites.Save(ctx, e.products); err != nil {
		e.logger.Error(ctx, "favorites not saved", "error", err)
	}
	e.sorter.apply(e.products, e.sortOpt)
	e.mu.Unlock()

	e.logger.Debug(ctx, "favorite toggled", "id", id, "favorite", fav)
	e.notify()
	return true
}

func (e *CatalogEngine) ChangeSorting(opt models.SortOption) {
	e.mu.Lock()
	e.sortOpt = opt
	e.sorter.apply(e.products, opt)
	e.mu.Unlock()
	e.notify()
}

func (e *CatalogEngine) SetSearch(term string) {
	e.mu.Lock()
	e.search = term
	e.mu.Unlock()
	e.notify()
}

// Products returns the sorted catalog filtered by the search term.
func (e *CatalogEngine) Products() []models.Product {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.filteredLocked()
}

// All returns the sorted catalog ignoring the search term.
func (e *CatalogEngine) All() []models.Product {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]models.Product(nil), e.products...)
}

func (e *CatalogEngine) Loading() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loading
}

func (e *CatalogEngine) SortOption() models.SortOption {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sortOpt
}

func (e *CatalogEngine) filteredLocked() []models.Product {
	out := make([]models.Product, 0, len(e.products))
	if e.search == "" {
		return append(out, e.products...)
	}

	fold := cases.Fold()
	term := fold.String(e.search)
	for _, p := range e.products {
		if strings.Contains(fold.String(p.Name), term) {
			out = append(out, p)
		}
	}
	return out
}

// AddProduct validates form and either uploads it or, when offline, queues
// it. Only validation problems are returned as errors; everything else is
// reported through the result.
func (e *CatalogEngine) AddProduct(ctx context.Context, form models.ProductForm) (SubmitResult, error) {
	valid, err := form.Validate()
	if err != nil {
		return SubmitResult{}, err
	}

	img, err := imagex.Reencode(valid.Image)
	if err != nil {
		e.logger.Warn(ctx, "image rejected", "error", err)
		return SubmitResult{}, &models.ValidationError{Title: "Invalid Input", Message: "Selected image could not be read."}
	}

	if !e.conn.Connected() {
		p := models.OfflineProduct{
			ID:        uuid.NewString(),
			Name:      valid.Name,
			Type:      valid.Type,
			Price:     valid.Price,
			Tax:       valid.Tax,
			Image:     img,
			CreatedAt: time.Now().UTC(),
		}
		if err := e.queue.Enqueue(ctx, p); err != nil {
			return SubmitResult{Outcome: OutcomeFailed, Title: failedTitle, Message: failedMessage}, nil
		}
		return SubmitResult{Outcome: OutcomeSavedOffline, Title: offlineTitle, Message: offlineMessage}, nil
	}

	msg, err := e.client.AddProduct(ctx, client.AddProductRequest{
		Name:  valid.Name,
		Type:  valid.Type,
		Price: valid.Price,
		Tax:   valid.Tax,
		Image: img,
	})
	if err != nil {
		e.logger.Warn(ctx, "add product failed", "name", valid.Name, "error", err)
		return SubmitResult{Outcome: OutcomeFailed, Title: failedTitle, Message: failedMessage}, nil
	}

	e.logger.Info(ctx, "product added", "name", valid.Name)
	return SubmitResult{Outcome: OutcomeUploaded, Title: successTitle, Message: msg}, nil
}

// resync drains the offline queue when it has items and then refetches the
// catalog. Only a transition to connected leads here.
func (e *CatalogEngine) resync(ctx context.Context) {
	if e.queue.HasPending(ctx) {
		report, err := e.queue.Drain(ctx)
		switch {
		case errors.Is(err, ErrDrainInProgress):
			e.logger.Debug(ctx, "drain already running")
		case err != nil:
			e.logger.Error(ctx, "drain failed", "error", err)
		default:
			e.logger.Info(ctx, "offline products uploaded", "uploaded", report.Uploaded, "failed", report.Failed)
		}
	}

	_ = e.Fetch(ctx)
}

// HandleReachability returns a subscriber for the reachability monitor that
// syncs in the background on every transition to connected.
func (e *CatalogEngine) HandleReachability(ctx context.Context) func(bool) {
	return func(connected bool) {
		if !connected {
			return
		}
		e.wg.Add(1)
		go func() {
			defer e.wg.Done()
			e.resync(ctx)
		}()
	}
}

// Wait blocks until background syncs started by HandleReachability finish.
func (e *CatalogEngine) Wait() {
	e.wg.Wait()
}
