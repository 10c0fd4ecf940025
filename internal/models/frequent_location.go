package models

import "time"

// RiskLevel classifies a location or an assessment
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// Rank orders risk levels for sorting, highest risk first.
// Unknown levels sort last.
func (r RiskLevel) Rank() int {
	switch r {
	case RiskCritical:
		return 0
	case RiskHigh:
		return 1
	case RiskMedium:
		return 2
	case RiskLow:
		return 3
	}
	return 4
}

// FrequentLocation is a cluster of observations within a fixed radius,
// derived wholesale on each analysis pass. The centroid is the mean of
// all member coordinates.
type FrequentLocation struct {
	ID        string  `json:"id"`
	ClientID  string  `json:"clientId"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`

	VisitCount int       `json:"visitCount"`
	FirstVisit time.Time `json:"firstVisit"`
	LastVisit  time.Time `json:"lastVisit"`

	AverageStayDuration float64 `json:"averageStayDuration"` // minutes
	TimeSpentTotal      float64 `json:"timeSpentTotal"`      // minutes

	RiskLevel RiskLevel `json:"riskLevel"`

	IsHomeBased  bool `json:"isHomeBased"`
	IsWorkBased  bool `json:"isWorkBased"`
	IsSuspicious bool `json:"isSuspicious"`

	LocationNotes []string `json:"locationNotes,omitempty"`
}
