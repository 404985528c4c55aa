package grid

import (
	"sort"

	"github.com/northwind-labs/storefront/model"
)

// placedSlot pairs a slot with its index in the combined item sequence. The
// item index is the slot's cell position minus the reserved space of every
// slot placed before it, since each of those occupies one item but several
// cells.
type placedSlot struct {
	slot    model.Slot
	itemIdx int
}

// Interleave merges one fetched product page with the slots that land on the
// corresponding rendered page, returning a single ordered sequence of
// product and content items.
//
// The rendered page is the last offset entry not exceeding fetchOffset. The
// product hits are sliced to the count that belongs on that page (the page's
// item count minus its slot count) and the page's slots are spliced in at
// their item positions; splice indices for later slots already account for
// the space reserved by slots inserted earlier in the page. With no slots the
// hits come back unchanged, in their original order.
func Interleave(hits []model.Product, fetchOffset, pageSize int, slots []model.Slot, offsets []int, mobile bool) []model.GridItem {
	if len(offsets) == 0 || pageSize <= 0 {
		return productItems(hits)
	}

	page := PageFor(offsets, fetchOffset)
	start := offsets[page]
	end := start + pageSize
	if page+1 < len(offsets) {
		end = offsets[page+1]
	}

	var pageSlots []placedSlot
	for _, placed := range placements(slots, mobile) {
		if placed.itemIdx >= start && placed.itemIdx < end {
			pageSlots = append(pageSlots, placed)
		}
	}

	quota := (end - start) - len(pageSlots)
	if quota < 0 {
		quota = 0
	}
	if quota > len(hits) {
		quota = len(hits)
	}

	items := make([]model.GridItem, 0, quota+len(pageSlots))
	for _, hit := range hits[:quota] {
		items = append(items, model.ProductItem(hit))
	}
	for _, placed := range pageSlots {
		local := placed.itemIdx - start
		if local < 0 {
			local = 0
		}
		if local > len(items) {
			local = len(items)
		}
		items = append(items[:local], append([]model.GridItem{model.ContentItem(placed.slot)}, items[local:]...)...)
	}

	return items
}

// placements converts slot cell positions to combined item indices, in
// position order. Negative positions are dropped; they cannot land on any
// page and would skew the shift for everything after them.
func placements(slots []model.Slot, mobile bool) []placedSlot {
	if len(slots) == 0 {
		return nil
	}

	ordered := make([]model.Slot, 0, len(slots))
	for _, slot := range slots {
		if slot.Position >= 0 {
			ordered = append(ordered, slot)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Position < ordered[j].Position
	})

	placed := make([]placedSlot, 0, len(ordered))
	shift := 0
	for _, slot := range ordered {
		placed = append(placed, placedSlot{slot: slot, itemIdx: slot.Position - shift})
		shift += slot.CellSpan(mobile) - 1
	}
	return placed
}

func productItems(hits []model.Product) []model.GridItem {
	items := make([]model.GridItem, 0, len(hits))
	for _, hit := range hits {
		items = append(items, model.ProductItem(hit))
	}
	return items
}
