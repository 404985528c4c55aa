package grid

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/northwind-labs/storefront/model"
)

// --- Test Helpers ---

func products(n int) []model.Product {
	hits := make([]model.Product, n)
	for i := range hits {
		hits[i] = model.Product{ID: fmt.Sprintf("p%d", i), Name: fmt.Sprintf("Product %d", i)}
	}
	return hits
}

// itemIDs flattens a grid sequence into product IDs and "slot@<position>"
// markers so expectations stay readable.
func itemIDs(t *testing.T, items []model.GridItem) []string {
	t.Helper()

	ids := make([]string, 0, len(items))
	for _, item := range items {
		switch item.Kind {
		case model.GridItemProduct:
			if item.Product == nil {
				t.Fatalf("product item without product: %+v", item)
			}
			ids = append(ids, item.Product.ID)
		case model.GridItemContent:
			if item.Slot == nil {
				t.Fatalf("content item without slot: %+v", item)
			}
			ids = append(ids, fmt.Sprintf("slot@%d", item.Slot.Position))
		default:
			t.Fatalf("unexpected grid item kind %q", item.Kind)
		}
	}
	return ids
}

// --- Test Cases ---

func TestInterleave_NoSlots(t *testing.T) {
	hits := products(3)
	offsets := []int{0, 3, 6}

	got := itemIDs(t, Interleave(hits, 0, 3, nil, offsets, false))
	want := []string{"p0", "p1", "p2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Interleave without slots = %v, want %v", got, want)
	}
}

func TestInterleave_NoOffsetsPassthrough(t *testing.T) {
	hits := products(2)

	got := itemIDs(t, Interleave(hits, 0, 3, []model.Slot{slot(0, 1, 1)}, nil, false))
	want := []string{"p0", "p1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Interleave without offsets = %v, want %v", got, want)
	}
}

func TestInterleave_SlotFirstOnFirstPage(t *testing.T) {
	hits := products(3)
	slots := []model.Slot{slot(0, 1, 1)}
	offsets := PageOffsets(3, 5, slots, false)

	got := itemIDs(t, Interleave(hits, 0, 3, slots, offsets, false))
	want := []string{"slot@0", "p0", "p1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("first page = %v, want %v", got, want)
	}
}

func TestInterleave_WideSlotAcrossPages(t *testing.T) {
	// A two-cell slot at position 0 with page size 3 leaves one product
	// cell on the first page; offsets come out as [0 2 5].
	slots := []model.Slot{slot(0, 1, 2)}
	offsets := PageOffsets(3, 5, slots, false)
	if want := []int{0, 2, 5}; !reflect.DeepEqual(offsets, want) {
		t.Fatalf("PageOffsets = %v, want %v", offsets, want)
	}

	tests := []struct {
		name        string
		hits        []model.Product
		fetchOffset int
		want        []string
	}{
		{
			name:        "first page keeps one product beside the slot",
			hits:        products(5),
			fetchOffset: 0,
			want:        []string{"slot@0", "p0"},
		},
		{
			name:        "second page is all products",
			hits:        products(5)[2:],
			fetchOffset: 2,
			want:        []string{"p2", "p3", "p4"},
		},
		{
			name:        "last page holds the remainder",
			hits:        products(6)[5:],
			fetchOffset: 5,
			want:        []string{"p5"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := itemIDs(t, Interleave(tt.hits, tt.fetchOffset, 3, slots, offsets, false))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("page at offset %d = %v, want %v", tt.fetchOffset, got, tt.want)
			}
		})
	}
}

func TestInterleave_SlotWithinLaterPage(t *testing.T) {
	slots := []model.Slot{slot(0, 1, 2), slot(6, 2, 1)}
	offsets := PageOffsets(4, 10, slots, false)
	if want := []int{0, 3, 6, 10}; !reflect.DeepEqual(offsets, want) {
		t.Fatalf("PageOffsets = %v, want %v", offsets, want)
	}

	// Second page: the slot at cell 6 lands after two products.
	got := itemIDs(t, Interleave(products(2), 3, 4, slots, offsets, false))
	want := []string{"p0", "p1", "slot@6"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("second page = %v, want %v", got, want)
	}
}

func TestInterleave_FetchOffsetInsidePage(t *testing.T) {
	slots := []model.Slot{slot(0, 1, 2)}
	offsets := PageOffsets(3, 5, slots, false) // [0 2 5]

	// Offset 1 falls inside the first page, so the slot still leads.
	got := itemIDs(t, Interleave(products(2), 1, 3, slots, offsets, false))
	want := []string{"slot@0", "p0"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("snapped page = %v, want %v", got, want)
	}
}

func TestInterleave_MobileSlotIsOneCell(t *testing.T) {
	slots := []model.Slot{slot(0, 3, 3)}
	offsets := PageOffsets(3, 5, slots, true)
	if want := []int{0, 3}; !reflect.DeepEqual(offsets, want) {
		t.Fatalf("PageOffsets(mobile) = %v, want %v", offsets, want)
	}

	got := itemIDs(t, Interleave(products(5), 0, 3, slots, offsets, true))
	want := []string{"slot@0", "p0", "p1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("mobile first page = %v, want %v", got, want)
	}
}

func TestInterleave_EmptyHits(t *testing.T) {
	slots := []model.Slot{slot(0, 1, 2)}
	offsets := PageOffsets(3, 5, slots, false)

	got := itemIDs(t, Interleave(nil, 0, 3, slots, offsets, false))
	want := []string{"slot@0"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("empty-hit page = %v, want %v", got, want)
	}
}

func TestInterleave_ExcessHitsTrimmed(t *testing.T) {
	slots := []model.Slot{slot(0, 1, 1)}
	offsets := PageOffsets(3, 10, slots, false)

	// The caller over-fetched; only the page's product quota survives.
	got := itemIDs(t, Interleave(products(9), 0, 3, slots, offsets, false))
	want := []string{"slot@0", "p0", "p1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("over-fetched page = %v, want %v", got, want)
	}
}

func TestInterleave_PreservesHitOrder(t *testing.T) {
	hits := products(8)
	slots := []model.Slot{slot(2, 1, 1), slot(5, 1, 2)}
	offsets := PageOffsets(6, 20, slots, false)

	items := Interleave(hits, 0, 6, slots, offsets, false)

	var seen []string
	for _, item := range items {
		if item.Kind == model.GridItemProduct {
			seen = append(seen, item.Product.ID)
		}
	}
	for i := 1; i < len(seen); i++ {
		if seen[i] <= seen[i-1] {
			t.Fatalf("product order changed: %v", seen)
		}
	}
}
