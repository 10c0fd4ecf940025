package analysis

import (
	"fmt"
	"math"
	"time"

	"github.com/bondtrack/bondtrack-backend-go/internal/models"
	"github.com/bondtrack/bondtrack-backend-go/internal/stats"
)

// Risk factor weights; they sum to 1.0
const (
	weightLocationCompliance  = 0.30
	weightPatternStability    = 0.20
	weightHomeBaseStability   = 0.20
	weightUnexpectedMovements = 0.15
	weightCheckInCompliance   = 0.15
)

// Alert types
const (
	AlertCriticalRisk    = "CRITICAL_RISK"
	AlertExcessiveTravel = "EXCESSIVE_TRAVEL"
	AlertLowCheckIn      = "LOW_CHECK_IN_COMPLIANCE"
	AlertNoHomeBase      = "NO_HOME_BASE"
)

const lowCheckInThreshold = 60.0

// AssessRisk computes the weighted skip-bail risk verdict from the client's
// current pattern and raw observation history. A missing pattern yields a
// neutral medium-risk placeholder instead of an error.
func AssessRisk(clientID string, pattern *models.LocationPattern, observations []models.LocationObservation, now time.Time) *models.SkipBailRiskAssessment {
	if pattern == nil {
		return neutralAssessment(clientID, now)
	}

	factors := models.RiskFactorScores{
		LocationCompliance:  float64(pattern.Analysis.ComplianceScore),
		PatternStability:    patternStability(observations),
		HomeBaseStability:   homeBaseStability(pattern),
		UnexpectedMovements: unexpectedMovements(pattern),
		CheckInCompliance:   checkInCompliance(observations),
	}

	score := int(math.Round(
		weightLocationCompliance*factors.LocationCompliance +
			weightPatternStability*factors.PatternStability +
			weightHomeBaseStability*factors.HomeBaseStability +
			weightUnexpectedMovements*factors.UnexpectedMovements +
			weightCheckInCompliance*factors.CheckInCompliance))

	level := riskLevelForScore(score)

	return &models.SkipBailRiskAssessment{
		ClientID:        clientID,
		RiskLevel:       level,
		RiskScore:       score,
		Factors:         factors,
		Alerts:          buildAlerts(pattern, factors, level, now),
		Recommendations: buildRecommendations(pattern, factors, level),
		LastAssessment:  now,
	}
}

// neutralAssessment is the degraded result when no pattern is on record
func neutralAssessment(clientID string, now time.Time) *models.SkipBailRiskAssessment {
	return &models.SkipBailRiskAssessment{
		ClientID:  clientID,
		RiskLevel: models.RiskMedium,
		RiskScore: 50,
		Factors: models.RiskFactorScores{
			LocationCompliance:  50,
			PatternStability:    50,
			HomeBaseStability:   50,
			UnexpectedMovements: 50,
			CheckInCompliance:   50,
		},
		Alerts:          []models.RiskAlert{},
		Recommendations: []string{"Insufficient location data for comprehensive assessment"},
		LastAssessment:  now,
	}
}

// patternStability measures how evenly observations spread across consecutive
// 7-day windows. A window opens at an observation and closes at the first
// observation more than 7 days after the window start.
func patternStability(observations []models.LocationObservation) float64 {
	if len(observations) < 7 {
		return 30
	}

	const windowLen = 7 * 24 * time.Hour

	windowStart := observations[0].Timestamp
	count := 0
	var counts []float64
	for _, obs := range observations {
		if obs.Timestamp.Sub(windowStart) > windowLen {
			counts = append(counts, float64(count))
			windowStart = obs.Timestamp
			count = 1
			continue
		}
		count++
	}
	counts = append(counts, float64(count))

	variance := stats.Variance(counts)
	return stats.Clamp(100-variance*10, 0, 100)
}

// homeBaseStability scores how consistently the client returns to the home
// base over the compliance window
func homeBaseStability(pattern *models.LocationPattern) float64 {
	home := pattern.Analysis.HomeBaseLocation
	if home == nil {
		return 0
	}
	return math.Min(100, float64(home.VisitCount)/ComplianceWindowDays*100)
}

// unexpectedMovements scores the share of observations that fell outside
// every known cluster, reusing the pattern's unusual-location set
func unexpectedMovements(pattern *models.LocationPattern) float64 {
	unusual := len(pattern.Analysis.UnusualLocations)
	clustered := 0
	for _, f := range pattern.Analysis.FrequentLocations {
		clustered += f.VisitCount
	}
	total := clustered + unusual
	if total == 0 {
		return 50
	}
	return math.Max(0, 100-float64(unusual)/float64(total)*100)
}

// checkInCompliance scores the share of observations captured at check-ins
func checkInCompliance(observations []models.LocationObservation) float64 {
	if len(observations) == 0 {
		return 0
	}
	checkIns := 0
	for _, obs := range observations {
		if obs.Source == models.SourceCheckIn {
			checkIns++
		}
	}
	return math.Min(100, float64(checkIns)/float64(len(observations))*100)
}

// riskLevelForScore maps the weighted score to a risk level
func riskLevelForScore(score int) models.RiskLevel {
	switch {
	case score >= 80:
		return models.RiskLow
	case score >= 60:
		return models.RiskMedium
	case score >= 40:
		return models.RiskHigh
	default:
		return models.RiskCritical
	}
}

// buildAlerts emits the structured findings that apply to this assessment
func buildAlerts(pattern *models.LocationPattern, factors models.RiskFactorScores, level models.RiskLevel, now time.Time) []models.RiskAlert {
	alerts := []models.RiskAlert{}

	if level == models.RiskCritical {
		alerts = append(alerts, models.RiskAlert{
			Type:      AlertCriticalRisk,
			Severity:  models.RiskCritical,
			Message:   "Client presents critical skip bail risk based on location patterns",
			Timestamp: now,
		})
	}

	if pattern.Analysis.TravelRadius > SuspiciousRadiusMiles {
		alerts = append(alerts, models.RiskAlert{
			Type:      AlertExcessiveTravel,
			Severity:  models.RiskHigh,
			Message:   fmt.Sprintf("Travel radius of %.1f miles exceeds monitored range", pattern.Analysis.TravelRadius),
			Timestamp: now,
		})
	}

	if factors.CheckInCompliance < lowCheckInThreshold {
		alerts = append(alerts, models.RiskAlert{
			Type:      AlertLowCheckIn,
			Severity:  models.RiskMedium,
			Message:   "Check-in compliance below acceptable threshold",
			Timestamp: now,
		})
	}

	if pattern.Analysis.HomeBaseLocation == nil {
		alerts = append(alerts, models.RiskAlert{
			Type:      AlertNoHomeBase,
			Severity:  models.RiskHigh,
			Message:   "No established home base location identified",
			Timestamp: now,
		})
	}

	return alerts
}

// buildRecommendations appends supervision recommendations in a fixed order
func buildRecommendations(pattern *models.LocationPattern, factors models.RiskFactorScores, level models.RiskLevel) []string {
	recs := []string{}

	if level == models.RiskHigh || level == models.RiskCritical {
		recs = append(recs,
			"Increase check-in frequency to daily",
			"Implement GPS ankle monitoring",
			"Require pre-approval for travel beyond 25-mile radius")
	}
	if pattern.Analysis.HomeBaseLocation == nil {
		recs = append(recs, "Establish and verify a primary residence")
	}
	if factors.CheckInCompliance < 70 {
		recs = append(recs, "Provide check-in procedure education")
	}
	if pattern.Analysis.TravelRadius > SuspiciousRadiusMiles {
		recs = append(recs, "Review and approve travel plans in advance")
	}
	if pattern.PatternType == models.PatternSuspicious {
		recs = append(recs,
			"Conduct in-person verification of reported locations",
			"Consider filing a motion for bond restrictions")
	}

	return recs
}
