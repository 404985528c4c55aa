// Package grid computes where CMS-authored content slots land within a
// paginated product grid, and merges fetched product pages with those slots
// into a single render-ready sequence.
//
// Slot positions are cell positions in the combined grid: a slot spanning
// several cells pushes every later item further down the cell sequence, so
// cell positions and item indices drift apart by the accumulated reserved
// space. All conversions between the two live in this package.
package grid

import (
	"sort"

	"github.com/northwind-labs/storefront/model"
)

// PageOffsets produces the page-offset table for a listing grid: one entry
// per rendered page, holding the offset into the combined (content + product)
// item sequence at which that page starts.
//
// The walk follows slot order: before each slot, page boundaries are filled
// up to the slot's position using the page size and the accumulated offset
// shift, then the shift grows by the slot's occupied-cell count minus one
// (the slot itself occupies a grid cell too). After all slots, remaining
// boundaries are filled up to the end of the combined sequence.
//
// The table is monotonically non-decreasing, its entries are non-negative,
// and its length equals ceil((total + reservedCells) / pageSize). With no
// slots the boundaries are uniform multiples of pageSize. Inputs are never
// mutated; identical inputs always produce identical output.
func PageOffsets(pageSize, total int, slots []model.Slot, mobile bool) []int {
	if pageSize <= 0 || total < 0 {
		return nil
	}

	placed := placeable(total, slots, mobile)
	combined := total + len(placed)
	if combined == 0 {
		return nil
	}

	offsets := make([]int, 0, combined/pageSize+1)
	push := func(idx int) {
		if idx < 0 {
			idx = 0
		}
		if n := len(offsets); n > 0 && idx < offsets[n-1] {
			idx = offsets[n-1]
		}
		offsets = append(offsets, idx)
	}

	shift := 0 // cells consumed by slots so far, beyond the one item each occupies
	page := 0
	for _, slot := range placed {
		for page*pageSize <= slot.Position {
			push(page*pageSize - shift)
			page++
		}
		shift += slot.CellSpan(mobile) - 1
	}
	for page*pageSize-shift < combined {
		push(page*pageSize - shift)
		page++
	}

	return offsets
}

// ReservedCells returns the total number of grid cells occupied by the given
// slots for the viewport class.
func ReservedCells(slots []model.Slot, mobile bool) int {
	cells := 0
	for _, slot := range slots {
		cells += slot.CellSpan(mobile)
	}
	return cells
}

// PageFor returns the index of the rendered page a fetch offset belongs to:
// the last offset entry not exceeding it. An empty table yields page 0.
func PageFor(offsets []int, fetchOffset int) int {
	page := 0
	for i, off := range offsets {
		if off > fetchOffset {
			break
		}
		page = i
	}
	return page
}

// placeable returns the slots that can appear in a grid of the given product
// count, sorted by position. A slot fits when its cell position does not pass
// the end of the grid formed by the products and the slots accepted before
// it; out-of-range and negative positions are dropped. The input is never
// mutated.
func placeable(total int, slots []model.Slot, mobile bool) []model.Slot {
	if len(slots) == 0 {
		return nil
	}

	ordered := make([]model.Slot, len(slots))
	copy(ordered, slots)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Position < ordered[j].Position
	})

	kept := ordered[:0]
	acceptedCells := 0
	for _, slot := range ordered {
		if slot.Position < 0 || slot.Position > total+acceptedCells {
			continue
		}
		kept = append(kept, slot)
		acceptedCells += slot.CellSpan(mobile)
	}
	return kept
}
