package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bondtrack/bondtrack-backend-go/internal/models"
)

func TestAnalyzePatternInsufficientData(t *testing.T) {
	tests := []struct {
		name string
		obs  []models.LocationObservation
	}{
		{"no observations", nil},
		{"four observations", repeatedObs("c1", 34.05, -118.25, 4, models.SourceCheckIn, true)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pattern := AnalyzePattern("c1", tt.obs, baseTime)

			assert.Equal(t, models.PatternIrregular, pattern.PatternType)
			assert.Equal(t, 50, pattern.Analysis.ComplianceScore)
			assert.Empty(t, pattern.Analysis.FrequentLocations)
			assert.Empty(t, pattern.Analysis.UnusualLocations)
			assert.Equal(t, []string{"Insufficient location data"}, pattern.Analysis.RiskFactors)
			assert.Nil(t, pattern.Analysis.HomeBaseLocation)
		})
	}
}

// Twenty tightly clustered, verified check-in observations over twenty days
// must classify as fully compliant.
func TestAnalyzePatternCompliantClient(t *testing.T) {
	obs := repeatedObs("c1", 34.05, -118.25, 20, models.SourceCheckIn, true)

	pattern := AnalyzePattern("c1", obs, baseTime)

	require.Len(t, pattern.Analysis.FrequentLocations, 1)
	home := pattern.Analysis.FrequentLocations[0]
	assert.Equal(t, 20, home.VisitCount)
	assert.Equal(t, models.RiskLow, home.RiskLevel)
	assert.True(t, home.IsHomeBased)

	require.NotNil(t, pattern.Analysis.HomeBaseLocation)
	assert.Equal(t, home.ID, pattern.Analysis.HomeBaseLocation.ID)
	assert.Nil(t, pattern.Analysis.WorkLocation)

	assert.InDelta(t, 0, pattern.Analysis.TravelRadius, 0.01)
	assert.GreaterOrEqual(t, pattern.Analysis.ComplianceScore, 90)
	assert.Empty(t, pattern.Analysis.RiskFactors)
	assert.Equal(t, models.PatternCompliant, pattern.PatternType)
}

// The compliant client plus five observations eighty miles away: the travel
// radius penalty applies and the pattern is no longer compliant.
func TestAnalyzePatternLongDistanceTravel(t *testing.T) {
	farLat := 34.05 + 80*degPerMile

	obs := repeatedObs("c1", 34.05, -118.25, 20, models.SourceCheckIn, true)
	obs = append(obs, repeatedObs("c1", farLat, -118.25, 5, models.SourceCheckIn, true)...)

	pattern := AnalyzePattern("c1", obs, baseTime)

	require.Len(t, pattern.Analysis.FrequentLocations, 2)
	assert.InDelta(t, 80, pattern.Analysis.TravelRadius, 2)

	// 100 minus min(30, (radius-50)*2) capped at 30
	assert.Equal(t, 70, pattern.Analysis.ComplianceScore)
	assert.NotEqual(t, models.PatternCompliant, pattern.PatternType)

	found := false
	for _, f := range pattern.Analysis.RiskFactors {
		if strings.HasPrefix(f, "Large travel radius") {
			found = true
		}
	}
	assert.True(t, found, "expected a large travel radius risk factor, got %v", pattern.Analysis.RiskFactors)
}

func TestAnalyzePatternWorkLocation(t *testing.T) {
	workLat := 34.05 + 2*degPerMile

	obs := repeatedObs("c1", 34.05, -118.25, 10, models.SourceCheckIn, true)
	obs = append(obs, repeatedObs("c1", workLat, -118.25, 5, models.SourceCheckIn, true)...)

	pattern := AnalyzePattern("c1", obs, baseTime)

	require.NotNil(t, pattern.Analysis.WorkLocation)
	assert.True(t, pattern.Analysis.WorkLocation.IsWorkBased)
	assert.Equal(t, 5, pattern.Analysis.WorkLocation.VisitCount)
	assert.False(t, pattern.Analysis.WorkLocation.IsHomeBased)
	require.NotNil(t, pattern.Analysis.HomeBaseLocation)
	assert.Equal(t, 10, pattern.Analysis.HomeBaseLocation.VisitCount)
}

func TestAnalyzePatternNoHomeBase(t *testing.T) {
	// Six scattered single-visit observations: no cluster survives the
	// frequency threshold.
	obs := []models.LocationObservation{}
	for i := 0; i < 6; i++ {
		obs = append(obs, obsAt("c1", 34.05+float64(i)*0.5, -118.25, baseTime.AddDate(0, 0, -i), models.SourceCheckIn, true))
	}

	pattern := AnalyzePattern("c1", obs, baseTime)

	assert.Nil(t, pattern.Analysis.HomeBaseLocation)
	assert.Empty(t, pattern.Analysis.FrequentLocations)
	assert.Equal(t, 0.0, pattern.Analysis.TravelRadius)
	assert.Len(t, pattern.Analysis.UnusualLocations, 6)

	// 100 minus 30 for the fully unclustered share
	assert.Equal(t, 70, pattern.Analysis.ComplianceScore)
	assert.Contains(t, pattern.Analysis.RiskFactors, "No established home base")
	assert.Contains(t, pattern.Analysis.RiskFactors, "Limited location history")
	assert.Equal(t, models.PatternIrregular, pattern.PatternType)
}

func TestAnalyzePatternCheckInShareDeduction(t *testing.T) {
	obs := repeatedObs("c1", 34.05, -118.25, 20, models.SourceTracking, true)

	pattern := AnalyzePattern("c1", obs, baseTime)

	assert.Equal(t, 80, pattern.Analysis.ComplianceScore)
	assert.NotEqual(t, models.PatternCompliant, pattern.PatternType)
}

func TestAnalyzePatternStaleHistory(t *testing.T) {
	// All observations older than the trailing week
	obs := []models.LocationObservation{}
	for i := 10; i < 20; i++ {
		obs = append(obs, obsAt("c1", 34.05, -118.25, baseTime.AddDate(0, 0, -i), models.SourceCheckIn, true))
	}

	pattern := AnalyzePattern("c1", obs, baseTime)

	assert.Contains(t, pattern.Analysis.RiskFactors, "Insufficient recent location data")
}

func TestAnalyzePatternFrequentLongTrips(t *testing.T) {
	// 10 home visits plus 4 visits 30 miles out: 4 of 14 observations
	// beyond 25 miles is over the 20% share.
	farLat := 34.05 + 30*degPerMile

	obs := repeatedObs("c1", 34.05, -118.25, 10, models.SourceCheckIn, true)
	obs = append(obs, repeatedObs("c1", farLat, -118.25, 4, models.SourceCheckIn, true)...)

	pattern := AnalyzePattern("c1", obs, baseTime)

	assert.Contains(t, pattern.Analysis.RiskFactors, "Frequent long-distance travel")
}

func TestAnalyzePatternPredictions(t *testing.T) {
	obs := repeatedObs("c1", 34.05, -118.25, 10, models.SourceCheckIn, true)
	obs = append(obs, repeatedObs("c1", 34.20, -118.25, 6, models.SourceCheckIn, true)...)
	obs = append(obs, repeatedObs("c1", 34.35, -118.25, 4, models.SourceCheckIn, true)...)
	obs = append(obs, repeatedObs("c1", 34.50, -118.25, 3, models.SourceCheckIn, true)...)

	pattern := AnalyzePattern("c1", obs, baseTime)

	preds := pattern.PredictedNextLocations
	require.Len(t, preds, 3)
	assert.InDelta(t, 0.9, preds[0].Probability, 1e-9)
	assert.InDelta(t, 0.7, preds[1].Probability, 1e-9)
	assert.InDelta(t, 0.5, preds[2].Probability, 1e-9)
	assert.Equal(t, "Next 24 hours", preds[0].TimeWindow)
	assert.Equal(t, "Next 3 days", preds[1].TimeWindow)
	assert.Equal(t, "Next 4 days", preds[2].TimeWindow)

	// strictly decreasing probability
	for i := 1; i < len(preds); i++ {
		assert.Less(t, preds[i].Probability, preds[i-1].Probability)
	}

	// most visited location leads
	assert.Equal(t, 10, preds[0].Location.VisitCount)
}

func TestAnalyzePatternIdempotent(t *testing.T) {
	obs := repeatedObs("c1", 34.05, -118.25, 20, models.SourceCheckIn, true)
	obs = append(obs, repeatedObs("c1", 34.20, -118.25, 5, models.SourceTracking, false)...)

	first := AnalyzePattern("c1", obs, baseTime)
	second := AnalyzePattern("c1", obs, baseTime)

	assert.Equal(t, first, second)
}

func TestClassifyPattern(t *testing.T) {
	tests := []struct {
		name          string
		score         int
		frequentCount int
		riskFactors   int
		want          models.PatternType
	}{
		{"compliant", 90, 1, 0, models.PatternCompliant},
		{"routine", 75, 2, 1, models.PatternRoutine},
		{"suspicious low score", 40, 2, 1, models.PatternSuspicious},
		{"suspicious many factors", 75, 1, 3, models.PatternSuspicious},
		{"irregular", 75, 1, 1, models.PatternIrregular},
		{"boundary compliant", 85, 0, 0, models.PatternCompliant},
		{"boundary suspicious", 49, 5, 0, models.PatternSuspicious},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyPattern(tt.score, tt.frequentCount, tt.riskFactors))
		})
	}
}
