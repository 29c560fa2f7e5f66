package client

import (
	"context"

	"github.com/dmitrijs2005/swipecatalog/internal/client/models"
	"github.com/shopspring/decimal"
)

// AddProductRequest is the payload of one product upload. Image, when
// present, must already be JPEG bytes.
type AddProductRequest struct {
	Name  string
	Type  string
	Price decimal.Decimal
	Tax   decimal.Decimal
	Image []byte
}

type Client interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	AddProduct(ctx context.Context, req AddProductRequest) (string, error)
	FetchImage(ctx context.Context, url string) ([]byte, error)
	Ping(ctx context.Context) error
}
