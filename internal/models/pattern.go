package models

import "time"

// PatternType is a coarse qualitative label for a client's movement behavior
type PatternType string

const (
	PatternRoutine    PatternType = "ROUTINE"
	PatternIrregular  PatternType = "IRREGULAR"
	PatternSuspicious PatternType = "SUSPICIOUS"
	PatternCompliant  PatternType = "COMPLIANT"
)

// PatternAnalysis holds the derived findings of a pattern analysis run
type PatternAnalysis struct {
	HomeBaseLocation  *FrequentLocation     `json:"homeBaseLocation,omitempty"`
	WorkLocation      *FrequentLocation     `json:"workLocation,omitempty"`
	FrequentLocations []FrequentLocation    `json:"frequentLocations"` // ordered by visit count descending
	UnusualLocations  []LocationObservation `json:"unusualLocations"`  // observations outside every cluster
	TravelRadius      float64               `json:"travelRadius"`      // miles, max distance from home base
	ComplianceScore   int                   `json:"complianceScore"`   // 0-100
	RiskFactors       []string              `json:"riskFactors"`
}

// PredictedLocation is a forecast entry for where a client is likely to be next
type PredictedLocation struct {
	Location    FrequentLocation `json:"location"`
	Probability float64          `json:"probability"` // 0-1
	TimeWindow  string           `json:"timeWindow"`
}

// LocationPattern is the per-client analysis snapshot. Exactly one live
// snapshot exists per client; each analysis run fully replaces the prior one.
type LocationPattern struct {
	ClientID               string              `json:"clientId"`
	PatternType            PatternType         `json:"patternType"`
	Analysis               PatternAnalysis     `json:"analysis"`
	LastAnalysis           time.Time           `json:"lastAnalysis"`
	PredictedNextLocations []PredictedLocation `json:"predictedNextLocations"`
}
