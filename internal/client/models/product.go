// Package models defines the client-side data model of the product catalog.
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PlaceholderType is the type shown before the user picks one; it is never a
// valid product type.
const PlaceholderType = "Product"

// ProductTypes is the fixed set offered to the user. Free-text types are
// accepted as well.
var ProductTypes = []string{"Books", "Electronics", "Clothing", "Others", "Phone", "Grocery", "Accessories"}

// Product is a catalog item as shown to the user.
//
// ID is generated on the client and is only stable for the lifetime of one
// in-memory list. Favorite is local state and never leaves the device.
type Product struct {
	ID       string          `json:"-"`
	Name     string          `json:"product_name"`
	Type     string          `json:"product_type"`
	Price    decimal.Decimal `json:"price"`
	Tax      decimal.Decimal `json:"tax"`
	Image    string          `json:"image,omitempty"`
	Favorite bool            `json:"-"`
}

// AssignIDs gives every product without an id a fresh one.
func AssignIDs(products []Product) {
	for i := range products {
		if products[i].ID == "" {
			products[i].ID = uuid.NewString()
		}
	}
}

// FavoriteRecord is the persisted projection of a favorited product.
type FavoriteRecord struct {
	Name  string          `json:"product_name"`
	Type  string          `json:"product_type"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image,omitempty"`
}

// FavoriteFrom projects p onto a FavoriteRecord.
func FavoriteFrom(p Product) FavoriteRecord {
	return FavoriteRecord{Name: p.Name, Type: p.Type, Price: p.Price, Image: p.Image}
}

// OfflineProduct is a product captured while disconnected. Image holds the
// JPEG payload; encoding/json writes it as base64.
type OfflineProduct struct {
	ID        string          `json:"id"`
	Name      string          `json:"product_name"`
	Type      string          `json:"product_type"`
	Price     decimal.Decimal `json:"price"`
	Tax       decimal.Decimal `json:"tax"`
	Image     []byte          `json:"image,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}
