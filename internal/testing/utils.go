// Package testing provides shared fixtures and assertion helpers for the
// storefront's tests.
package testing

import (
	"fmt"
	"sort"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/northwind-labs/storefront/model"
)

// Hits builds n product hits with predictable ids ("p-1" ... "p-n") and
// ascending prices.
func Hits(n int) []model.Product {
	hits := make([]model.Product, n)
	for i := range hits {
		hits[i] = model.Product{
			ID:       fmt.Sprintf("p-%d", i+1),
			SKU:      fmt.Sprintf("SKU-%04d", i+1),
			Name:     fmt.Sprintf("Product %d", i+1),
			Price:    decimal.NewFromInt(int64(10 + i)),
			Currency: "USD",
			InStock:  true,
		}
	}
	return hits
}

// Slot builds a content slot at the given cell position with the given
// desktop span and a minimal content body.
func Slot(position, rows, cols int) model.Slot {
	return model.Slot{
		Position: position,
		Rows:     rows,
		Cols:     cols,
		Content: model.Content{
			"_meta": map[string]interface{}{
				"deliveryId": fmt.Sprintf("slot-%d", position),
				"schema":     "https://cms.northwind.dev/schema/simple-banner.json",
			},
		},
	}
}

// SingleCellSlots builds one 1x1 slot per given position.
func SingleCellSlots(positions ...int) []model.Slot {
	slots := make([]model.Slot, len(positions))
	for i, position := range positions {
		slots[i] = Slot(position, 1, 1)
	}
	return slots
}

// RequireNonDecreasing fails the test when the offset table decreases
// anywhere.
func RequireNonDecreasing(t *testing.T, offsets []int) {
	t.Helper()
	require.True(t, sort.IntsAreSorted(offsets), "offset table must be non-decreasing: %v", offsets)
}

// RequireItemKinds fails the test when the enriched sequence does not match
// the expected kind pattern ("product:<id>" or "content" per element).
func RequireItemKinds(t *testing.T, expected []string, items []model.GridItem) {
	t.Helper()
	require.Len(t, items, len(expected))
	for i, item := range items {
		switch item.Kind {
		case model.GridItemProduct:
			require.NotNil(t, item.Product, "item %d has no product", i)
			require.Equal(t, expected[i], "product:"+item.Product.ID, "item %d", i)
		case model.GridItemContent:
			require.Equal(t, expected[i], "content", "item %d", i)
		default:
			t.Fatalf("item %d has unexpected kind %q", i, item.Kind)
		}
	}
}
