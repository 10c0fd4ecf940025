package models

import "time"

// RiskFactorScores are the individual weighted inputs to the overall
// risk score, each on a 0-100 scale.
type RiskFactorScores struct {
	LocationCompliance  float64 `json:"locationCompliance"`
	PatternStability    float64 `json:"patternStability"`
	HomeBaseStability   float64 `json:"homeBaseStability"`
	UnexpectedMovements float64 `json:"unexpectedMovements"`
	CheckInCompliance   float64 `json:"checkInCompliance"`
}

// RiskAlert is a structured finding emitted during risk assessment
type RiskAlert struct {
	Type      string    `json:"type"`
	Severity  RiskLevel `json:"severity"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// SkipBailRiskAssessment is the per-client risk verdict. One live assessment
// exists per client; each run fully replaces the prior one, never merges.
type SkipBailRiskAssessment struct {
	ClientID        string           `json:"clientId"`
	RiskLevel       RiskLevel        `json:"riskLevel"`
	RiskScore       int              `json:"riskScore"` // 0-100
	Factors         RiskFactorScores `json:"factors"`
	Alerts          []RiskAlert      `json:"alerts"`
	Recommendations []string         `json:"recommendations"`
	LastAssessment  time.Time        `json:"lastAssessment"`
}
