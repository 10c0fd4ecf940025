package analysis

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/bondtrack/bondtrack-backend-go/internal/models"
	"github.com/bondtrack/bondtrack-backend-go/internal/spatial"
)

// Analysis thresholds
const (
	// ClusterRadiusMiles is the assignment radius around a cluster anchor
	ClusterRadiusMiles = 0.1

	// MinVisitThreshold is the minimum member count for a cluster to
	// survive as a frequent location
	MinVisitThreshold = 3

	// MinObservations is the minimum history size for a full analysis
	MinObservations = 5

	// ComplianceWindowDays is the trailing window analyzed per run
	ComplianceWindowDays = 30

	// SuspiciousRadiusMiles is the distance from home base beyond which
	// movement is penalized
	SuspiciousRadiusMiles = 50.0

	// UnusualRadiusMiles is the distance to every cluster centroid beyond
	// which an observation counts as unusual
	UnusualRadiusMiles = 2 * ClusterRadiusMiles
)

// Stay-duration estimation: consecutive observation gaps up to this length
// count as dwell time at the cluster.
const maxDwellGap = 6 * time.Hour

// defaultStayMinutes is used when a cluster has no qualifying dwell gaps
const defaultStayMinutes = 30.0

type cluster struct {
	anchor  spatial.Point
	members []models.LocationObservation
}

// ClusterObservations groups a client's observations into frequent locations
// using single-pass greedy clustering. Each cluster is anchored by its first
// member's coordinates; assignment tests against the fixed anchor, while the
// reported centroid is the mean of all members. Clusters below the visit
// threshold are discarded. Output is sorted by visit count descending, ties
// keeping assignment order.
func ClusterObservations(clientID string, observations []models.LocationObservation) []models.FrequentLocation {
	var clusters []*cluster

	for _, obs := range observations {
		assigned := false
		for _, c := range clusters {
			if spatial.DistanceMiles(c.anchor.Lat, c.anchor.Lon, obs.Latitude, obs.Longitude) <= ClusterRadiusMiles {
				c.members = append(c.members, obs)
				assigned = true
				break
			}
		}
		if !assigned {
			clusters = append(clusters, &cluster{
				anchor:  spatial.Point{Lat: obs.Latitude, Lon: obs.Longitude},
				members: []models.LocationObservation{obs},
			})
		}
	}

	locations := []models.FrequentLocation{}
	for i, c := range clusters {
		if len(c.members) < MinVisitThreshold {
			continue
		}
		locations = append(locations, buildFrequentLocation(clientID, i, c))
	}

	sort.SliceStable(locations, func(i, j int) bool {
		return locations[i].VisitCount > locations[j].VisitCount
	})

	return locations
}

// buildFrequentLocation derives the output record for a surviving cluster.
// The ID is name-based so that re-analyzing unchanged history yields an
// identical result.
func buildFrequentLocation(clientID string, index int, c *cluster) models.FrequentLocation {
	points := make([]spatial.Point, len(c.members))
	for i, m := range c.members {
		points[i] = spatial.Point{Lat: m.Latitude, Lon: m.Longitude}
	}
	centroid := spatial.Centroid(points)

	firstVisit := c.members[0].Timestamp
	lastVisit := c.members[0].Timestamp
	verified := 0
	address := ""
	for _, m := range c.members {
		if m.Timestamp.Before(firstVisit) {
			firstVisit = m.Timestamp
		}
		if m.Timestamp.After(lastVisit) {
			lastVisit = m.Timestamp
		}
		if m.Verified {
			verified++
		}
		if address == "" && m.Address != "" {
			address = m.Address
		}
	}

	avgStay := estimateStayMinutes(c.members)
	visitCount := len(c.members)

	return models.FrequentLocation{
		ID:                  uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("%s/cluster/%d", clientID, index))).String(),
		ClientID:            clientID,
		Latitude:            centroid.Lat,
		Longitude:           centroid.Lon,
		Address:             address,
		VisitCount:          visitCount,
		FirstVisit:          firstVisit,
		LastVisit:           lastVisit,
		AverageStayDuration: avgStay,
		TimeSpentTotal:      avgStay * float64(visitCount),
		RiskLevel:           verificationRiskLevel(verified, visitCount),
	}
}

// estimateStayMinutes estimates the average dwell time per visit from the
// gaps between consecutive member timestamps. Gaps longer than maxDwellGap
// are treated as time spent away, not at the location. Clusters with no
// qualifying gap get a fixed default so repeated analysis stays deterministic.
func estimateStayMinutes(members []models.LocationObservation) float64 {
	times := make([]time.Time, len(members))
	for i, m := range members {
		times[i] = m.Timestamp
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })

	var dwell time.Duration
	for i := 1; i < len(times); i++ {
		gap := times[i].Sub(times[i-1])
		if gap > 0 && gap <= maxDwellGap {
			dwell += gap
		}
	}

	if dwell == 0 {
		return defaultStayMinutes
	}
	return dwell.Minutes() / float64(len(members))
}

// verificationRiskLevel maps the verified-member ratio to a risk level
func verificationRiskLevel(verified, total int) models.RiskLevel {
	ratio := float64(verified) / float64(total)
	switch {
	case ratio >= 0.8:
		return models.RiskLow
	case ratio >= 0.6:
		return models.RiskMedium
	case ratio >= 0.4:
		return models.RiskHigh
	default:
		return models.RiskCritical
	}
}

// ObservationsOutsideClusters returns the observations whose distance to
// every cluster centroid exceeds radiusMiles. This is the shared primitive
// behind both unusual-location detection and the unexpected-movement factor.
func ObservationsOutsideClusters(observations []models.LocationObservation, clusters []models.FrequentLocation, radiusMiles float64) []models.LocationObservation {
	outside := []models.LocationObservation{}
	for _, obs := range observations {
		near := false
		for _, c := range clusters {
			if spatial.DistanceMiles(obs.Latitude, obs.Longitude, c.Latitude, c.Longitude) <= radiusMiles {
				near = true
				break
			}
		}
		if !near {
			outside = append(outside, obs)
		}
	}
	return outside
}
