package cms

import "github.com/northwind-labs/storefront/model"

// fetchRequest is the delivery API's batched content request body.
type fetchRequest struct {
	Requests   []requestItem   `json:"requests"`
	Parameters fetchParameters `json:"parameters"`
}

// requestItem identifies one content item by delivery id or delivery key.
type requestItem struct {
	ID  string `json:"id,omitempty"`
	Key string `json:"key,omitempty"`
}

type fetchParameters struct {
	Depth  string `json:"depth,omitempty"`
	Format string `json:"format,omitempty"`
	Locale string `json:"locale,omitempty"`
}

// fetchResponse carries one entry per requested item, in request order.
// Items that were not found carry an error entry instead of content.
type fetchResponse struct {
	Responses []contentResponse `json:"responses"`
}

type contentResponse struct {
	Content model.Content  `json:"content"`
	Error   *responseError `json:"error"`
}

type responseError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// slotList is the body shape of a category's slot-list content item. Each
// entry pins a piece of content to a cell position in the listing grid.
type slotList struct {
	Slots []slotEntry `json:"slots"`
}

// slotEntry uses a pointer Position so authored-but-incomplete entries can be
// told apart from position zero.
type slotEntry struct {
	Position *int          `json:"position"`
	Rows     int           `json:"rows"`
	Cols     int           `json:"cols"`
	Content  model.Content `json:"content"`
}
