package model

// Slot is a CMS-authored grid placement record: a piece of content inserted
// at a specific cell position within a rendered product grid, spanning a
// configured number of rows and columns on desktop viewports.
type Slot struct {
	Position int     `json:"position"`
	Rows     int     `json:"rows"`
	Cols     int     `json:"cols"`
	Content  Content `json:"content,omitempty"`
}

// CellSpan returns the number of grid cells the slot occupies. Mobile
// viewports render a single-column grid, so every slot collapses to exactly
// one cell there regardless of its configured row/column span.
func (s Slot) CellSpan(mobile bool) int {
	if mobile {
		return 1
	}
	rows := s.Rows
	if rows < 1 {
		rows = 1
	}
	cols := s.Cols
	if cols < 1 {
		cols = 1
	}
	return rows * cols
}
