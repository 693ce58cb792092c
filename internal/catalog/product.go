// Package catalog models the read-only storefront catalog and the logic that
// relates free text to it: mention detection, response restriction and
// relevance ranking.
package catalog

import "fmt"

// Stock statuses reported by the storefront.
const (
	StockInStock     = "instock"
	StockOutOfStock  = "outofstock"
	StockOnBackorder = "onbackorder"
)

// Product is the capability set the matching code needs from any catalog backend.
type Product interface {
	ProductID() int64
	ProductName() string
	ProductSKU() string
	PriceDisplay() string
	StockDisplay() string
	IsVisible() bool
}

// Item is a snapshot of one storefront product.
type Item struct {
	ID               int64    `json:"id"`
	Name             string   `json:"name"`
	SKU              string   `json:"sku,omitempty"`
	Slug             string   `json:"slug,omitempty"`
	Permalink        string   `json:"permalink,omitempty"`
	Description      string   `json:"description,omitempty"`
	ShortDescription string   `json:"short_description,omitempty"`
	Tags             []string `json:"tags,omitempty"`
	Categories       []string `json:"categories,omitempty"`
	Price            float64  `json:"price"`
	StockStatus      string   `json:"stock_status"`
	StockQuantity    *int     `json:"stock_quantity,omitempty"`
	Visible          bool     `json:"visible"`
}

func (i Item) ProductID() int64    { return i.ID }
func (i Item) ProductName() string { return i.Name }
func (i Item) ProductSKU() string  { return i.SKU }
func (i Item) IsVisible() bool     { return i.Visible }

// PriceDisplay formats the price in pesos with two decimals.
func (i Item) PriceDisplay() string {
	if i.Price <= 0 {
		return "precio no disponible"
	}
	return fmt.Sprintf("$%.2f MXN", i.Price)
}

// StockDisplay renders the stock state for customers.
func (i Item) StockDisplay() string {
	switch i.StockStatus {
	case StockInStock:
		if i.StockQuantity != nil {
			return fmt.Sprintf("disponible (%d en existencia)", *i.StockQuantity)
		}
		return "disponible"
	case StockOnBackorder:
		return "bajo pedido"
	case StockOutOfStock:
		return "agotado"
	default:
		return "consultar disponibilidad"
	}
}

// AsProducts adapts a snapshot to the Product capability interface.
func AsProducts(items []Item) []Product {
	out := make([]Product, len(items))
	for i := range items {
		out[i] = items[i]
	}
	return out
}

// Visible filters out hidden products.
func Visible(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.Visible {
			out = append(out, it)
		}
	}
	return out
}

// Index maps product ids to items.
func Index(items []Item) map[int64]Item {
	out := make(map[int64]Item, len(items))
	for _, it := range items {
		out[it.ID] = it
	}
	return out
}
