package services

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/dmitrijs2005/swipecatalog/internal/client/client"
	"github.com/dmitrijs2005/swipecatalog/internal/client/models"
	"github.com/dmitrijs2005/swipecatalog/internal/client/repositories/records"
	"github.com/dmitrijs2005/swipecatalog/internal/logging"
	"github.com/panjf2000/ants/v2"
)

const (
	OfflineDocument      = "offlineProducts.json"
	DefaultUploadWorkers = 4
)

// DrainReport summarizes one drain pass.
type DrainReport struct {
	Attempted int
	Uploaded  int
	Failed    int
}

// OfflineQueue keeps products captured while disconnected and uploads them
// once the API is reachable again. Items are attempted once per drain and
// dropped afterwards whatever the outcome.
type OfflineQueue struct {
	store  *records.Store
	client client.Client
	logger logging.Logger
	pool   *ants.Pool

	// mu guards the document between Enqueue and the drain bookkeeping.
	mu       sync.Mutex
	draining atomic.Bool
}

func NewOfflineQueue(store *records.Store, c client.Client, workers int, logger logging.Logger) (*OfflineQueue, error) {
	if workers <= 0 {
		workers = DefaultUploadWorkers
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, err
	}

	return &OfflineQueue{
		store:  store,
		client: c,
		logger: logger.With("component", "offline"),
		pool:   pool,
	}, nil
}

// Enqueue appends p to the stored queue.
func (q *OfflineQueue) Enqueue(ctx context.Context, p models.OfflineProduct) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	items := records.LoadList[models.OfflineProduct](ctx, q.store, OfflineDocument)
	items = append(items, p)
	if err := q.store.Save(ctx, OfflineDocument, items); err != nil {
		return err
	}

	q.logger.Info(ctx, "product queued offline", "id", p.ID, "name", p.Name, "pending", len(items))
	return nil
}

func (q *OfflineQueue) Pending(ctx context.Context) []models.OfflineProduct {
	q.mu.Lock()
	defer q.mu.Unlock()
	return records.LoadList[models.OfflineProduct](ctx, q.store, OfflineDocument)
}

// HasPending reports whether anything is queued without decoding the
// queue. The document only exists while it holds at least one item.
func (q *OfflineQueue) HasPending(ctx context.Context) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.store.Exists(ctx, OfflineDocument)
}

// Draining reports whether a drain pass is running.
func (q *OfflineQueue) Draining() bool {
	return q.draining.Load()
}

// Drain uploads every queued product once. Only one pass runs at a time;
// an overlapping call returns ErrDrainInProgress.
func (q *OfflineQueue) Drain(ctx context.Context) (DrainReport, error) {
	if !q.draining.CompareAndSwap(false, true) {
		return DrainReport{}, ErrDrainInProgress
	}
	defer q.draining.Store(false)

	snapshot := q.Pending(ctx)
	if len(snapshot) == 0 {
		return DrainReport{}, nil
	}

	q.logger.Info(ctx, "draining offline queue", "items", len(snapshot))

	var (
		wg       sync.WaitGroup
		uploaded atomic.Int32
		failed   atomic.Int32
	)

	for _, item := range snapshot {
		wg.Add(1)
		if err := q.pool.Submit(func() {
			defer wg.Done()
			if q.upload(ctx, item) {
				uploaded.Add(1)
			} else {
				failed.Add(1)
			}
		}); err != nil {
			wg.Done()
			failed.Add(1)
			q.logger.Error(ctx, "upload not scheduled", "id", item.ID, "error", err)
		}
	}
	wg.Wait()

	if err := q.forget(ctx, snapshot); err != nil {
		return q.report(snapshot, &uploaded, &failed), err
	}

	report := q.report(snapshot, &uploaded, &failed)
	q.logger.Info(ctx, "offline queue drained", "uploaded", report.Uploaded, "failed", report.Failed)
	return report, nil
}

func (q *OfflineQueue) report(snapshot []models.OfflineProduct, uploaded, failed *atomic.Int32) DrainReport {
	return DrainReport{Attempted: len(snapshot), Uploaded: int(uploaded.Load()), Failed: int(failed.Load())}
}

func (q *OfflineQueue) upload(ctx context.Context, p models.OfflineProduct) bool {
	msg, err := q.client.AddProduct(ctx, client.AddProductRequest{
		Name:  p.Name,
		Type:  p.Type,
		Price: p.Price,
		Tax:   p.Tax,
		Image: p.Image,
	})
	if err != nil {
		q.logger.Warn(ctx, "offline upload failed", "id", p.ID, "name", p.Name, "error", err)
		return false
	}

	q.logger.Debug(ctx, "offline upload done", "id", p.ID, "message", msg)
	return true
}

// forget drops the drained snapshot from the document, keeping anything
// queued while the pass was running.
func (q *OfflineQueue) forget(ctx context.Context, snapshot []models.OfflineProduct) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	done := make(map[string]struct{}, len(snapshot))
	for _, p := range snapshot {
		done[p.ID] = struct{}{}
	}

	current := records.LoadList[models.OfflineProduct](ctx, q.store, OfflineDocument)
	rest := make([]models.OfflineProduct, 0, len(current))
	for _, p := range current {
		if _, ok := done[p.ID]; !ok {
			rest = append(rest, p)
		}
	}

	if len(rest) == 0 {
		return q.store.Remove(ctx, OfflineDocument)
	}
	return q.store.Save(ctx, OfflineDocument, rest)
}

func (q *OfflineQueue) Close() {
	q.pool.Release()
}
