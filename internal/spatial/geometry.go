package spatial

// Point represents a 2D point with latitude and longitude
type Point struct {
	Lat float64
	Lon float64
}

// Centroid calculates the geographic centroid of a set of points
func Centroid(points []Point) Point {
	if len(points) == 0 {
		return Point{}
	}

	var sumLat, sumLon float64
	for _, p := range points {
		sumLat += p.Lat
		sumLon += p.Lon
	}

	return Point{
		Lat: sumLat / float64(len(points)),
		Lon: sumLon / float64(len(points)),
	}
}

// MaxDistanceFrom returns the largest distance in miles from origin to any
// of the given points. Returns 0 for an empty set.
func MaxDistanceFrom(origin Point, points []Point) float64 {
	maxDist := 0.0
	for _, p := range points {
		d := DistanceMiles(origin.Lat, origin.Lon, p.Lat, p.Lon)
		if d > maxDist {
			maxDist = d
		}
	}
	return maxDist
}
