package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bondtrack/bondtrack-backend-go/internal/models"
)

func TestAssessRiskMissingPattern(t *testing.T) {
	assessment := AssessRisk("c1", nil, nil, baseTime)

	assert.Equal(t, models.RiskMedium, assessment.RiskLevel)
	assert.Equal(t, 50, assessment.RiskScore)
	assert.Equal(t, 50.0, assessment.Factors.LocationCompliance)
	assert.Equal(t, 50.0, assessment.Factors.PatternStability)
	assert.Equal(t, 50.0, assessment.Factors.HomeBaseStability)
	assert.Equal(t, 50.0, assessment.Factors.UnexpectedMovements)
	assert.Equal(t, 50.0, assessment.Factors.CheckInCompliance)
	assert.Empty(t, assessment.Alerts)
	assert.Equal(t, []string{"Insufficient location data for comprehensive assessment"}, assessment.Recommendations)
}

func TestAssessRiskCompliantClient(t *testing.T) {
	obs := repeatedObs("c1", 34.05, -118.25, 20, models.SourceCheckIn, true)
	pattern := AnalyzePattern("c1", obs, baseTime)

	assessment := AssessRisk("c1", pattern, obs, baseTime)

	assert.Equal(t, 100.0, assessment.Factors.LocationCompliance)
	// Daily visits split into 7-day windows of 8, 8 and 4 observations
	assert.InDelta(t, 64.44, assessment.Factors.PatternStability, 0.1)
	// 20 home visits over the 30-day window
	assert.InDelta(t, 66.67, assessment.Factors.HomeBaseStability, 0.1)
	assert.Equal(t, 100.0, assessment.Factors.UnexpectedMovements)
	assert.Equal(t, 100.0, assessment.Factors.CheckInCompliance)

	assert.Equal(t, 86, assessment.RiskScore)
	assert.Equal(t, models.RiskLow, assessment.RiskLevel)
	assert.Empty(t, assessment.Alerts)
	assert.Empty(t, assessment.Recommendations)
}

func TestAssessRiskHighRiskClient(t *testing.T) {
	// Ten daily tracking pings, none clustered, no home base, wide travel.
	obs := []models.LocationObservation{}
	for i := 9; i >= 0; i-- {
		obs = append(obs, obsAt("c1", 34.05+float64(i)*0.5, -118.25, baseTime.AddDate(0, 0, -i), models.SourceTracking, false))
	}

	pattern := &models.LocationPattern{
		ClientID:    "c1",
		PatternType: models.PatternSuspicious,
		Analysis: models.PatternAnalysis{
			FrequentLocations: []models.FrequentLocation{},
			UnusualLocations:  obs,
			TravelRadius:      80,
			ComplianceScore:   40,
		},
	}

	assessment := AssessRisk("c1", pattern, obs, baseTime)

	assert.Equal(t, 40.0, assessment.Factors.LocationCompliance)
	// Windows of 8 and 2 observations: variance 9, stability 10
	assert.InDelta(t, 10.0, assessment.Factors.PatternStability, 0.1)
	assert.Equal(t, 0.0, assessment.Factors.HomeBaseStability)
	assert.Equal(t, 0.0, assessment.Factors.UnexpectedMovements)
	assert.Equal(t, 0.0, assessment.Factors.CheckInCompliance)

	assert.Equal(t, 14, assessment.RiskScore)
	assert.Equal(t, models.RiskCritical, assessment.RiskLevel)

	types := make([]string, 0, len(assessment.Alerts))
	for _, a := range assessment.Alerts {
		types = append(types, a.Type)
	}
	assert.ElementsMatch(t, []string{AlertCriticalRisk, AlertExcessiveTravel, AlertLowCheckIn, AlertNoHomeBase}, types)

	assert.Contains(t, assessment.Recommendations, "Increase check-in frequency to daily")
	assert.Contains(t, assessment.Recommendations, "Implement GPS ankle monitoring")
	assert.Contains(t, assessment.Recommendations, "Establish and verify a primary residence")
	assert.Contains(t, assessment.Recommendations, "Provide check-in procedure education")
	assert.Contains(t, assessment.Recommendations, "Review and approve travel plans in advance")
	assert.Contains(t, assessment.Recommendations, "Conduct in-person verification of reported locations")
	assert.Contains(t, assessment.Recommendations, "Consider filing a motion for bond restrictions")
}

func TestRiskLevelForScore(t *testing.T) {
	tests := []struct {
		score int
		want  models.RiskLevel
	}{
		{100, models.RiskLow},
		{81, models.RiskLow},
		{80, models.RiskLow},
		{79, models.RiskMedium},
		{60, models.RiskMedium},
		{59, models.RiskHigh},
		{40, models.RiskHigh},
		{39, models.RiskCritical},
		{0, models.RiskCritical},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, riskLevelForScore(tt.score), "score %d", tt.score)
	}
}

func TestPatternStabilityFewObservations(t *testing.T) {
	obs := repeatedObs("c1", 34.05, -118.25, 6, models.SourceCheckIn, true)
	assert.Equal(t, 30.0, patternStability(obs))
}

func TestPatternStabilityEvenSpread(t *testing.T) {
	// 21 observations split into three windows of 8, 8 and 5: small
	// variance, high stability.
	obs := repeatedObs("c1", 34.05, -118.25, 21, models.SourceCheckIn, true)
	stability := patternStability(obs)
	assert.Greater(t, stability, 50.0)
	assert.LessOrEqual(t, stability, 100.0)
}

func TestUnexpectedMovementsEmptyPattern(t *testing.T) {
	pattern := &models.LocationPattern{
		Analysis: models.PatternAnalysis{
			FrequentLocations: []models.FrequentLocation{},
			UnusualLocations:  []models.LocationObservation{},
		},
	}
	assert.Equal(t, 50.0, unexpectedMovements(pattern))
}

func TestCheckInCompliance(t *testing.T) {
	obs := []models.LocationObservation{
		{Source: models.SourceCheckIn},
		{Source: models.SourceCheckIn},
		{Source: models.SourceTracking},
		{Source: models.SourceManual},
	}
	assert.Equal(t, 50.0, checkInCompliance(obs))
	assert.Equal(t, 0.0, checkInCompliance(nil))
}

func TestHomeBaseStabilityCapped(t *testing.T) {
	pattern := &models.LocationPattern{
		Analysis: models.PatternAnalysis{
			HomeBaseLocation: &models.FrequentLocation{VisitCount: 45},
		},
	}
	assert.Equal(t, 100.0, homeBaseStability(pattern))
}

func TestFactorsWithinBounds(t *testing.T) {
	obs := repeatedObs("c1", 34.05, -118.25, 20, models.SourceCheckIn, true)
	obs = append(obs, repeatedObs("c1", 34.05+80*degPerMile, -118.25, 5, models.SourceTracking, false)...)
	pattern := AnalyzePattern("c1", obs, baseTime)

	assessment := AssessRisk("c1", pattern, obs, baseTime)

	require.NotNil(t, assessment)
	for name, v := range map[string]float64{
		"locationCompliance":  assessment.Factors.LocationCompliance,
		"patternStability":    assessment.Factors.PatternStability,
		"homeBaseStability":   assessment.Factors.HomeBaseStability,
		"unexpectedMovements": assessment.Factors.UnexpectedMovements,
		"checkInCompliance":   assessment.Factors.CheckInCompliance,
	} {
		assert.GreaterOrEqual(t, v, 0.0, name)
		assert.LessOrEqual(t, v, 100.0, name)
	}
	assert.GreaterOrEqual(t, assessment.RiskScore, 0)
	assert.LessOrEqual(t, assessment.RiskScore, 100)
}
