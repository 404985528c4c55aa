package model

// WishlistItem is a single product entry on a customer wishlist.
type WishlistItem struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Wishlist is a customer's product list as held by the commerce API. The
// storefront proxies mutations; it never owns wishlist state.
type Wishlist struct {
	ID         string         `json:"id"`
	CustomerID string         `json:"customer_id"`
	Items      []WishlistItem `json:"items"`
}
