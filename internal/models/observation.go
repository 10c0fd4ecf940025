package models

import "time"

// LocationSource identifies how an observation was captured
type LocationSource string

const (
	SourceCheckIn  LocationSource = "check_in" // Recorded during a scheduled check-in
	SourceTracking LocationSource = "tracking" // Background GPS ping
	SourceManual   LocationSource = "manual"   // Entered by staff
)

// Valid reports whether the source is one of the known capture methods
func (s LocationSource) Valid() bool {
	switch s {
	case SourceCheckIn, SourceTracking, SourceManual:
		return true
	}
	return false
}

// LocationObservation represents a single recorded GPS point for a client.
// Observations are immutable once recorded: they are only ever appended,
// never updated or deleted.
type LocationObservation struct {
	ID        string         `json:"id" db:"id"`
	ClientID  string         `json:"clientId" db:"client_id"`
	Latitude  float64        `json:"latitude" db:"latitude"`
	Longitude float64        `json:"longitude" db:"longitude"`
	Address   string         `json:"address,omitempty" db:"address"`
	Timestamp time.Time      `json:"timestamp" db:"timestamp"`
	Accuracy  float64        `json:"accuracy" db:"accuracy"` // Reported positional uncertainty in meters
	Source    LocationSource `json:"source" db:"source"`
	Verified  bool           `json:"verified" db:"verified"`
}

// ObservationInput is the request body for recording a new observation
type ObservationInput struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
	Accuracy  float64 `json:"accuracy"`
	Source    string  `json:"source" binding:"required"`
	Verified  bool    `json:"verified"`
}

// ObservationFilter represents query parameters for listing observations
type ObservationFilter struct {
	DaysBack int `form:"daysBack"`
}
