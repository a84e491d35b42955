package models

import (
	"encoding/json"
	"time"
)

// DisplayMode selects how a widget renders its parsed data.
type DisplayMode string

const (
	ModeCard      DisplayMode = "Card"
	ModeTable     DisplayMode = "Table"
	ModeLine      DisplayMode = "Line"
	ModeBar       DisplayMode = "Bar"
	ModeScatter   DisplayMode = "Scatter"
	ModePie       DisplayMode = "Pie"
	ModeHistogram DisplayMode = "Histogram"
)

// DisplayModes lists every supported mode.
var DisplayModes = []DisplayMode{
	ModeCard, ModeTable, ModeLine, ModeBar, ModeScatter, ModePie, ModeHistogram,
}

// Valid reports whether m is a known display mode.
func (m DisplayMode) Valid() bool {
	for _, known := range DisplayModes {
		if m == known {
			return true
		}
	}
	return false
}

// BindingConfig selects which record fields feed a display mode.
type BindingConfig struct {
	XField         string   `json:"xField"`
	YField         string   `json:"yField"`
	ValueField     string   `json:"valueField"`
	SelectedFields []string `json:"selectedFields"`
}

// ValidateBinding checks the per-display-mode binding predicate:
// axis charts need both x and y, pie needs a value field, card and
// table need nothing.
func ValidateBinding(mode DisplayMode, cfg BindingConfig) error {
	switch mode {
	case ModeLine, ModeBar, ModeScatter, ModeHistogram:
		if cfg.XField == "" {
			return &ValidationError{Field: "xField", Reason: "x axis field is required for " + string(mode)}
		}
		if cfg.YField == "" {
			return &ValidationError{Field: "yField", Reason: "y axis field is required for " + string(mode)}
		}
		return nil
	case ModePie:
		if cfg.ValueField == "" {
			return &ValidationError{Field: "valueField", Reason: "value field is required for Pie"}
		}
		return nil
	case ModeCard, ModeTable:
		return nil
	default:
		return &ValidationError{Field: "displayMode", Reason: "unknown display mode " + string(mode)}
	}
}

// Record maps a field name to a scalar (float64, int64, string or nil).
type Record map[string]any

// Series is an ordered sequence of homogeneous records, in source
// iteration order.
type Series []Record

// Fields returns the field names of the first record, or nil for an
// empty series.
func (s Series) Fields() []string {
	if len(s) == 0 {
		return nil
	}
	fields := make([]string, 0, len(s[0]))
	for k := range s[0] {
		fields = append(fields, k)
	}
	return fields
}

// Widget is a user-configured dashboard widget bound to an external
// JSON endpoint.
type Widget struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Desc        string          `json:"desc"`
	APIURL      string          `json:"apiUrl"`
	RefreshSec  int             `json:"refreshSec"`
	DisplayMode DisplayMode     `json:"displayMode"`
	Config      BindingConfig   `json:"config"`
	ParsedData  Series          `json:"parsedData,omitempty"`
	RawData     json.RawMessage `json:"rawData,omitempty"`
	UserID      string          `json:"userId,omitempty"`
	CreatedAt   time.Time       `json:"createdAt,omitempty"`
}

// Pollable reports whether the scheduler should run a timer for w.
func (w *Widget) Pollable() bool {
	return w.APIURL != "" && w.RefreshSec > 0
}
