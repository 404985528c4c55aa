package model

import "github.com/shopspring/decimal"

// Image holds the responsive renditions of a product image.
type Image struct {
	Thumbnail string `json:"thumbnail,omitempty"`
	Mobile    string `json:"mobile,omitempty"`
	Tablet    string `json:"tablet,omitempty"`
	Desktop   string `json:"desktop,omitempty"`
	Alt       string `json:"alt,omitempty"`
}

// Product is a single commerce catalog record as surfaced in search hits and
// wishlists. Prices are decimal amounts in the product's currency.
type Product struct {
	ID          string                 `json:"id"`
	SKU         string                 `json:"sku,omitempty"`
	Name        string                 `json:"name"`
	Slug        string                 `json:"slug,omitempty"`
	Brand       string                 `json:"brand,omitempty"`
	Description string                 `json:"description,omitempty"`
	Price       decimal.Decimal        `json:"price"`
	ListPrice   decimal.Decimal        `json:"list_price"`
	Currency    string                 `json:"currency"`
	Image       *Image                 `json:"image,omitempty"`
	Images      []Image                `json:"images,omitempty"`
	InStock     bool                   `json:"in_stock"`
	Attributes  map[string]interface{} `json:"attributes,omitempty"`
}

// HasDiscount reports whether the product's list price exceeds its current
// selling price.
func (p Product) HasDiscount() bool {
	return p.ListPrice.GreaterThan(p.Price)
}
