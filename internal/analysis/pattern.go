package analysis

import (
	"fmt"
	"math"
	"time"

	"github.com/bondtrack/bondtrack-backend-go/internal/models"
	"github.com/bondtrack/bondtrack-backend-go/internal/spatial"
)

// Pattern classification thresholds
const (
	compliantMinScore = 85
	routineMinScore   = 70
	suspiciousScore   = 50

	workMinDistanceMiles = 1.0
	recentWindowDays     = 7
	minRecentObs         = 3
	longTripMiles        = 25.0
	longTripShare        = 0.2
)

// AnalyzePattern produces the per-client pattern snapshot from a 30-day
// observation window and its clustered frequent locations. With fewer than
// MinObservations points it returns a degraded low-confidence pattern
// instead of an error, so dashboards always have something to render.
func AnalyzePattern(clientID string, observations []models.LocationObservation, now time.Time) *models.LocationPattern {
	if len(observations) < MinObservations {
		return insufficientDataPattern(clientID, now)
	}

	frequent := ClusterObservations(clientID, observations)

	// Home base: the most-visited frequent location. The list is already
	// sorted by visit count, ties in assignment order.
	var home *models.FrequentLocation
	if len(frequent) > 0 {
		frequent[0].IsHomeBased = true
		home = &frequent[0]
	}

	// Work location: first frequent location more than a mile from home
	var work *models.FrequentLocation
	if home != nil {
		for i := range frequent {
			d := spatial.DistanceMiles(home.Latitude, home.Longitude, frequent[i].Latitude, frequent[i].Longitude)
			if d > workMinDistanceMiles {
				frequent[i].IsWorkBased = true
				work = &frequent[i]
				break
			}
		}
	}

	travelRadius := 0.0
	if home != nil {
		points := make([]spatial.Point, len(observations))
		for i, obs := range observations {
			points[i] = spatial.Point{Lat: obs.Latitude, Lon: obs.Longitude}
		}
		travelRadius = spatial.MaxDistanceFrom(spatial.Point{Lat: home.Latitude, Lon: home.Longitude}, points)
	}

	unusual := ObservationsOutsideClusters(observations, frequent, UnusualRadiusMiles)

	markSuspiciousClusters(frequent, home)

	score := complianceScore(observations, frequent, travelRadius, home != nil)
	riskFactors := collectRiskFactors(observations, frequent, home, travelRadius, now)
	patternType := classifyPattern(score, len(frequent), len(riskFactors))

	// Snapshot copies: the pattern must not alias the frequent-location slice
	var homeCopy, workCopy *models.FrequentLocation
	if home != nil {
		h := *home
		homeCopy = &h
	}
	if work != nil {
		w := *work
		workCopy = &w
	}

	return &models.LocationPattern{
		ClientID:    clientID,
		PatternType: patternType,
		Analysis: models.PatternAnalysis{
			HomeBaseLocation:  homeCopy,
			WorkLocation:      workCopy,
			FrequentLocations: frequent,
			UnusualLocations:  unusual,
			TravelRadius:      travelRadius,
			ComplianceScore:   score,
			RiskFactors:       riskFactors,
		},
		LastAnalysis:           now,
		PredictedNextLocations: predictNextLocations(frequent),
	}
}

// insufficientDataPattern is the degraded result for clients with too few
// observations to analyze
func insufficientDataPattern(clientID string, now time.Time) *models.LocationPattern {
	return &models.LocationPattern{
		ClientID:    clientID,
		PatternType: models.PatternIrregular,
		Analysis: models.PatternAnalysis{
			FrequentLocations: []models.FrequentLocation{},
			UnusualLocations:  []models.LocationObservation{},
			ComplianceScore:   50,
			RiskFactors:       []string{"Insufficient location data"},
		},
		LastAnalysis:           now,
		PredictedNextLocations: []models.PredictedLocation{},
	}
}

// complianceScore starts at 100 and applies the three deductions: share of
// observations outside any cluster, excess travel beyond the suspicious
// radius, and a low check-in share.
func complianceScore(observations []models.LocationObservation, frequent []models.FrequentLocation, travelRadius float64, hasHome bool) int {
	total := len(observations)
	score := 100.0

	clustered := 0
	for _, f := range frequent {
		clustered += f.VisitCount
	}
	unclustered := total - clustered
	score -= float64(unclustered) / float64(total) * 30

	if hasHome && travelRadius > SuspiciousRadiusMiles {
		score -= math.Min(30, (travelRadius-SuspiciousRadiusMiles)*2)
	}

	checkIns := 0
	for _, obs := range observations {
		if obs.Source == models.SourceCheckIn {
			checkIns++
		}
	}
	if float64(checkIns) < 0.8*float64(total) {
		score -= 20
	}

	rounded := int(math.Round(score))
	if rounded < 0 {
		return 0
	}
	if rounded > 100 {
		return 100
	}
	return rounded
}

// collectRiskFactors appends the qualitative findings in a fixed order
func collectRiskFactors(observations []models.LocationObservation, frequent []models.FrequentLocation, home *models.FrequentLocation, travelRadius float64, now time.Time) []string {
	factors := []string{}
	total := len(observations)

	if travelRadius > SuspiciousRadiusMiles {
		factors = append(factors, fmt.Sprintf("Large travel radius: %.1f miles", travelRadius))
	}

	// A single frequent location only counts as limited history while the
	// overall record is still thin; a well-visited single cluster is not a
	// risk signal on its own.
	if len(frequent) < 2 && total < 10 {
		factors = append(factors, "Limited location history")
	}

	if home == nil {
		factors = append(factors, "No established home base")
	}

	recentCutoff := now.AddDate(0, 0, -recentWindowDays)
	recent := 0
	for _, obs := range observations {
		if obs.Timestamp.After(recentCutoff) {
			recent++
		}
	}
	if recent < minRecentObs {
		factors = append(factors, "Insufficient recent location data")
	}

	if home != nil {
		far := 0
		for _, obs := range observations {
			if spatial.DistanceMiles(home.Latitude, home.Longitude, obs.Latitude, obs.Longitude) > longTripMiles {
				far++
			}
		}
		if float64(far) > longTripShare*float64(total) {
			factors = append(factors, "Frequent long-distance travel")
		}
	}

	return factors
}

// classifyPattern picks the pattern type; first matching rule wins
func classifyPattern(score, frequentCount, riskFactorCount int) models.PatternType {
	switch {
	case score >= compliantMinScore && riskFactorCount == 0:
		return models.PatternCompliant
	case score >= routineMinScore && frequentCount >= 2:
		return models.PatternRoutine
	case score < suspiciousScore || riskFactorCount >= 3:
		return models.PatternSuspicious
	default:
		return models.PatternIrregular
	}
}

// markSuspiciousClusters flags clusters whose member verification is poor or
// whose centroid sits beyond the suspicious radius from home
func markSuspiciousClusters(frequent []models.FrequentLocation, home *models.FrequentLocation) {
	for i := range frequent {
		if frequent[i].RiskLevel == models.RiskCritical {
			frequent[i].IsSuspicious = true
			continue
		}
		if home != nil && !frequent[i].IsHomeBased {
			d := spatial.DistanceMiles(home.Latitude, home.Longitude, frequent[i].Latitude, frequent[i].Longitude)
			if d > SuspiciousRadiusMiles {
				frequent[i].IsSuspicious = true
			}
		}
	}
}

// predictNextLocations forecasts up to three likely locations with strictly
// decreasing probability
func predictNextLocations(frequent []models.FrequentLocation) []models.PredictedLocation {
	predictions := []models.PredictedLocation{}
	for i := 0; i < len(frequent) && i < 3; i++ {
		window := "Next 24 hours"
		if i > 0 {
			window = fmt.Sprintf("Next %d days", 2+i)
		}
		predictions = append(predictions, models.PredictedLocation{
			Location:    frequent[i],
			Probability: math.Max(0.3, 0.9-0.2*float64(i)),
			TimeWindow:  window,
		})
	}
	return predictions
}
