package model

// GridItemKind discriminates the entries of an enriched listing sequence.
type GridItemKind string

const (
	GridItemProduct GridItemKind = "product"
	GridItemContent GridItemKind = "content"
)

// GridItem is one entry in the enriched listing sequence: either a product
// hit or a CMS slot marker. The rendering layer switches on Kind to pick the
// per-item presentation (product tile vs. content tile).
type GridItem struct {
	Kind    GridItemKind `json:"kind"`
	Product *Product     `json:"product,omitempty"`
	Slot    *Slot        `json:"slot,omitempty"`
}

// ProductItem wraps a product hit as a grid item.
func ProductItem(p Product) GridItem {
	return GridItem{Kind: GridItemProduct, Product: &p}
}

// ContentItem wraps a slot as a grid item.
func ContentItem(s Slot) GridItem {
	return GridItem{Kind: GridItemContent, Slot: &s}
}
