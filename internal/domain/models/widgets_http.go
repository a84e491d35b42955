package models

import "encoding/json"

// RegisterRequest creates an account.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name"`
}

// LoginRequest opens a session.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse carries the issued session token.
type AuthResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
	UserID    string `json:"userId"`
}

// TestEndpointRequest probes a candidate endpoint during authoring.
type TestEndpointRequest struct {
	APIURL string `json:"apiUrl" validate:"required"`
}

// CreateWidgetRequest persists a widget for the session's owner.
type CreateWidgetRequest struct {
	ID          string          `json:"id"`
	Name        string          `json:"name" validate:"required"`
	Desc        string          `json:"desc"`
	APIURL      string          `json:"apiUrl" validate:"required"`
	RefreshSec  int             `json:"refreshSec" default:"30"`
	DisplayMode DisplayMode     `json:"displayMode" validate:"required,oneof=Card Table Line Bar Scatter Pie Histogram"`
	Config      BindingConfig   `json:"config"`
	ParsedData  Series          `json:"parsedData"`
	RawData     json.RawMessage `json:"rawData"`
}

// DeleteWidgetRequest removes a widget by id.
type DeleteWidgetRequest struct {
	WidgetID string `json:"widgetId" validate:"required"`
}

// UpsertLayoutRequest replaces the owner's layout wholesale.
type UpsertLayoutRequest struct {
	NewLayout []LayoutEntry `json:"newLayout" validate:"required"`
}
