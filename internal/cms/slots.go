package cms

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/northwind-labs/storefront/model"
	"github.com/northwind-labs/storefront/services"
)

// FetchSlots retrieves the slot list authored for a category's listing grid
// and returns its entries sorted by position. A category without a slot list
// yields an empty slice, not an error.
func (c *Client) FetchSlots(ctx context.Context, siteID, categoryID, locale string) ([]model.Slot, error) {
	key := fmt.Sprintf("%s/category/%s", c.slotKeyPrefix(siteID), categoryID)

	items, err := c.FetchContent(ctx, []services.ContentRequest{{Key: key}}, locale)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []model.Slot{}, nil
	}
	return parseSlots(items[0]), nil
}

func (c *Client) slotKeyPrefix(siteID string) string {
	if prefix, ok := c.config.SlotKeyPrefixes[siteID]; ok && prefix != "" {
		return prefix
	}
	return siteID
}

// parseSlots extracts the slot entries from a slot-list content item,
// discarding entries without a position or content body.
func parseSlots(content model.Content) []model.Slot {
	raw, err := json.Marshal(content)
	if err != nil {
		return []model.Slot{}
	}

	var list slotList
	if err := json.Unmarshal(raw, &list); err != nil {
		return []model.Slot{}
	}

	slots := make([]model.Slot, 0, len(list.Slots))
	for _, entry := range list.Slots {
		if entry.Position == nil || entry.Content == nil {
			continue
		}
		slots = append(slots, model.Slot{
			Position: *entry.Position,
			Rows:     entry.Rows,
			Cols:     entry.Cols,
			Content:  entry.Content,
		})
	}

	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].Position < slots[j].Position
	})
	return slots
}
