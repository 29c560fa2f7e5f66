package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/dmitrijs2005/swipecatalog/internal/client/client"
	"github.com/dmitrijs2005/swipecatalog/internal/client/models"
	"github.com/dmitrijs2005/swipecatalog/internal/client/repositories/records"
	"github.com/dmitrijs2005/swipecatalog/internal/logging"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *records.Store {
	t.Helper()
	backend, err := records.NewFileBackend(t.TempDir())
	require.NoError(t, err)
	s := records.NewStore(backend, logging.Discard())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func product(name string, price int64, fav bool) models.Product {
	return models.Product{
		ID:       name + "-id",
		Name:     name,
		Type:     "Others",
		Price:    decimal.NewFromInt(price),
		Tax:      decimal.Zero,
		Favorite: fav,
	}
}

func names(ps []models.Product) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Name)
	}
	return out
}

type fakeClient struct {
	client.Client

	mu       sync.Mutex
	list     []models.Product
	listErr  error
	addErr   error
	failName string
	added    []client.AddProductRequest

	// gate, when set, blocks AddProduct until closed; started receives a
	// value as each call begins.
	gate    chan struct{}
	started chan struct{}
}

func (f *fakeClient) ListProducts(ctx context.Context) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := append([]models.Product(nil), f.list...)
	models.AssignIDs(out)
	return out, nil
}

func (f *fakeClient) AddProduct(ctx context.Context, req client.AddProductRequest) (string, error) {
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.gate != nil {
		<-f.gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.added = append(f.added, req)
	if f.addErr != nil {
		return "", f.addErr
	}
	if f.failName != "" && req.Name == f.failName {
		return "", errors.New("rejected")
	}
	return "Product added Successfully!", nil
}

func (f *fakeClient) uploads() []client.AddProductRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]client.AddProductRequest(nil), f.added...)
}

func (f *fakeClient) setList(ps ...models.Product) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.list = ps
}
