package commerce

import (
	"github.com/shopspring/decimal"

	"github.com/northwind-labs/storefront/model"
	"github.com/northwind-labs/storefront/services"
)

// tokenResponse is the commerce auth endpoint's client-credentials grant
// response.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// errorResponse is the commerce API's error envelope.
type errorResponse struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type searchResponse struct {
	Hits           []productHit       `json:"hits"`
	Total          int                `json:"total"`
	Offset         int                `json:"offset"`
	Limit          int                `json:"limit"`
	Refinements    []refinementResult `json:"refinements"`
	SortingOptions []sortingOption    `json:"sorting_options"`
	SelectedSort   string             `json:"selected_sort"`
}

// productHit carries monetary amounts as strings; parseDecimal converts them
// without accumulating float drift.
type productHit struct {
	ID          string                 `json:"id"`
	SKU         string                 `json:"sku"`
	Name        string                 `json:"name"`
	Slug        string                 `json:"slug"`
	Brand       string                 `json:"brand"`
	Description string                 `json:"description"`
	Price       string                 `json:"price"`
	ListPrice   string                 `json:"list_price"`
	Currency    string                 `json:"currency"`
	Image       *productImage          `json:"image"`
	Images      []productImage         `json:"images"`
	InStock     bool                   `json:"in_stock"`
	Attributes  map[string]interface{} `json:"attributes"`
}

type productImage struct {
	Thumbnail string `json:"thumbnail"`
	Mobile    string `json:"mobile"`
	Tablet    string `json:"tablet"`
	Desktop   string `json:"desktop"`
	Alt       string `json:"alt"`
}

type refinementResult struct {
	AttributeID   string            `json:"attribute_id"`
	Label         string            `json:"label"`
	AllowMultiple bool              `json:"allow_multiple"`
	Values        []refinementValue `json:"values"`
}

type refinementValue struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	HitCount int    `json:"hit_count"`
}

type sortingOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type categoryResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Slug        string             `json:"slug"`
	Description string             `json:"description"`
	ParentID    string             `json:"parent_category_id"`
	Categories  []categoryResponse `json:"categories"`
}

type wishlistResponse struct {
	ID         string             `json:"id"`
	CustomerID string             `json:"customer_id"`
	Items      []wishlistItemData `json:"items"`
}

type wishlistItemData struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type wishlistItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// ---------------------------------------------------------------------------
// Wire-to-Domain Conversion
// ---------------------------------------------------------------------------

func (h productHit) toProduct() model.Product {
	product := model.Product{
		ID:          h.ID,
		SKU:         h.SKU,
		Name:        h.Name,
		Slug:        h.Slug,
		Brand:       h.Brand,
		Description: h.Description,
		Price:       parseDecimal(h.Price),
		ListPrice:   parseDecimal(h.ListPrice),
		Currency:    h.Currency,
		InStock:     h.InStock,
		Attributes:  h.Attributes,
	}
	if h.Image != nil {
		img := h.Image.toImage()
		product.Image = &img
	}
	for _, img := range h.Images {
		product.Images = append(product.Images, img.toImage())
	}
	return product
}

func (i productImage) toImage() model.Image {
	return model.Image{
		Thumbnail: i.Thumbnail,
		Mobile:    i.Mobile,
		Tablet:    i.Tablet,
		Desktop:   i.Desktop,
		Alt:       i.Alt,
	}
}

// toRefinement converts a facet, marking values already selected by the
// caller's refinement set.
func (r refinementResult) toRefinement(selected map[string][]string) services.Refinement {
	refinement := services.Refinement{
		AttributeID:   r.AttributeID,
		Label:         r.Label,
		AllowMultiple: r.AllowMultiple,
		Values:        make([]services.RefinementValue, 0, len(r.Values)),
	}
	chosen := selected[r.AttributeID]
	for _, value := range r.Values {
		refinement.Values = append(refinement.Values, services.RefinementValue{
			Value:    value.Value,
			Label:    value.Label,
			HitCount: value.HitCount,
			Selected: containsValue(chosen, value.Value),
		})
	}
	return refinement
}

func (r categoryResponse) toCategory() model.Category {
	category := model.Category{
		ID:          r.ID,
		Name:        r.Name,
		Slug:        r.Slug,
		Description: r.Description,
		ParentID:    r.ParentID,
	}
	for _, child := range r.Categories {
		category.Children = append(category.Children, child.toCategory())
	}
	return category
}

func (r wishlistResponse) toWishlist() model.Wishlist {
	wishlist := model.Wishlist{
		ID:         r.ID,
		CustomerID: r.CustomerID,
		Items:      make([]model.WishlistItem, 0, len(r.Items)),
	}
	for _, item := range r.Items {
		wishlist.Items = append(wishlist.Items, model.WishlistItem{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	return wishlist
}

// parseDecimal converts a monetary string to a decimal, treating empty or
// malformed values as zero.
func parseDecimal(value string) decimal.Decimal {
	if value == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func containsValue(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
