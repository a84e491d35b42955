package models

import "math"

// Grid geometry shared with the dashboard front end.
const (
	GridCols    = 12
	GridRowPx   = 100
	GridBreakpt = 768
)

// LayoutRowBottom is the y sentinel meaning "place after everything
// else". JSON cannot carry Infinity, so any y at or above this value
// is treated as bottom placement.
const LayoutRowBottom = 1 << 30

// Viewport is the client viewport in pixels, used to derive default
// widget dimensions.
type Viewport struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// LayoutEntry places one widget on the 12-column grid. The min/max
// pins make the entry non-resizable; it can only be moved or replaced
// wholesale.
type LayoutEntry struct {
	WidgetID string `json:"i"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	W        int    `json:"w"`
	H        int    `json:"h"`
	MinW     int    `json:"minW"`
	MinH     int    `json:"minH"`
	MaxW     int    `json:"maxW"`
	MaxH     int    `json:"maxH"`
}

// DefaultLayoutEntry computes the placement for a newly added widget:
// roughly a third of the viewport on wide screens, 60% on narrow ones,
// converted to grid units and appended after all existing entries.
func DefaultLayoutEntry(widgetID string, vp Viewport) LayoutEntry {
	factor := 0.60
	if vp.Width >= GridBreakpt {
		factor = 0.33
	}

	targetW := math.Round(float64(vp.Width) * factor)
	targetH := math.Round(float64(vp.Height) * factor)

	colWidth := float64(vp.Width) / GridCols
	w := int(math.Round(targetW / colWidth))
	if w < 1 {
		w = 1
	}
	h := int(math.Round(targetH / GridRowPx))
	if h < 1 {
		h = 1
	}

	return LayoutEntry{
		WidgetID: widgetID,
		X:        0,
		Y:        LayoutRowBottom,
		W:        w,
		H:        h,
		MinW:     w,
		MinH:     h,
		MaxW:     w,
		MaxH:     h,
	}
}
