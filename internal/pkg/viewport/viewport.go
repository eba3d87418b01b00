// Package viewport derives an initial map camera from a set of sensor
// coordinates when the map widget cannot fit its bounds on its own.
package viewport

import (
	"math"

	"github.com/ribbitnetwork/frogmap/internal/core/domain"
	"github.com/ribbitnetwork/frogmap/internal/pkg/geospatial"
)

// Zoom anchors, keyed by bounding box area in square degrees. 1^-10 and
// 1^-5 both equal 1; the pair is kept as is.
var (
	anchorAreas = []float64{
		0,
		math.Pow(5, -10),
		math.Pow(4, -10),
		math.Pow(3, -10),
		math.Pow(2, -10),
		math.Pow(1, -10),
		math.Pow(1, -5),
	}
	anchorZooms = []float64{20, 15, 14, 13, 11, 6, 4}
)

// Default is returned for missing or mismatched input.
var Default = domain.Viewport{}

// Estimate returns a zoom level and center framing every point.
// latitudes[i] and longitudes[i] form one point.
//
// A nil slice, slices of different length or empty slices yield Default
// (zoom 0 at the origin).
func Estimate(latitudes, longitudes []float64) domain.Viewport {
	if latitudes == nil || longitudes == nil || len(latitudes) != len(longitudes) {
		return Default
	}
	// mean of an empty set is undefined
	if len(latitudes) == 0 {
		return Default
	}

	points := make([]domain.GeoPoint, len(latitudes))
	for i := range latitudes {
		points[i] = domain.GeoPoint{Lat: latitudes[i], Lon: longitudes[i]}
	}
	return EstimatePoints(points)
}

// EstimatePoints is Estimate for an already paired point set.
func EstimatePoints(points []domain.GeoPoint) domain.Viewport {
	if len(points) == 0 {
		return Default
	}
	box := geospatial.Extent(points)
	return domain.Viewport{
		Zoom:   ZoomForArea(box.Height() * box.Width()),
		Center: geospatial.Mean(points),
	}
}

// ZoomForArea maps a bounding box area onto the anchor curve. Areas below
// the first anchor clamp to 20, above the last anchor to 4.
func ZoomForArea(area float64) float64 {
	return interpolate(area, anchorAreas, anchorZooms)
}

// interpolate is one-dimensional piecewise-linear interpolation over
// ascending xs. Out-of-range x clamps to the end values; NaN propagates.
func interpolate(x float64, xs, ys []float64) float64 {
	last := len(xs) - 1
	switch {
	case math.IsNaN(x):
		return math.NaN()
	case x <= xs[0]:
		return ys[0]
	case x >= xs[last]:
		return ys[last]
	}

	for i := 0; i < last; i++ {
		lo, hi := xs[i], xs[i+1]
		if x < lo || x >= hi {
			continue
		}
		t := (x - lo) / (hi - lo)
		return ys[i] + t*(ys[i+1]-ys[i])
	}
	return ys[last]
}
