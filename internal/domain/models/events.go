package models

import "time"

// WidgetEventType enumerates widget lifecycle events.
type WidgetEventType string

const (
	EventWidgetCreated   WidgetEventType = "widget.created"
	EventWidgetDeleted   WidgetEventType = "widget.deleted"
	EventWidgetRefreshed WidgetEventType = "widget.refreshed"
)

// WidgetEvent is published to Kafka and broadcast to live clients.
type WidgetEvent struct {
	Type     WidgetEventType `json:"type"`
	WidgetID string          `json:"widgetId"`
	OwnerID  string          `json:"ownerId,omitempty"`
	Shape    string          `json:"shape,omitempty"`
	Records  int             `json:"records,omitempty"`
	At       time.Time       `json:"at"`
}

// PollRecord is one row of poll history.
type PollRecord struct {
	WidgetID string
	OwnerID  string
	Shape    string
	Records  int
	PolledAt time.Time
	Raw      []byte
}
