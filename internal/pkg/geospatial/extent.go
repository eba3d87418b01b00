package geospatial

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/ribbitnetwork/frogmap/internal/core/domain"
)

// Extent returns the axis-aligned bounding box of the points.
// The zero Bounds is returned for an empty slice; any NaN coordinate makes
// every edge NaN.
func Extent(points []domain.GeoPoint) domain.Bounds {
	if len(points) == 0 {
		return domain.Bounds{}
	}
	mp := make(orb.MultiPoint, len(points))
	for i, p := range points {
		// orb.Bound treats NaN as contained and would drop the point
		if math.IsNaN(p.Lat) || math.IsNaN(p.Lon) {
			nan := math.NaN()
			return domain.Bounds{MinLat: nan, MinLon: nan, MaxLat: nan, MaxLon: nan}
		}
		mp[i] = orb.Point{p.Lon, p.Lat}
	}
	b := mp.Bound()
	return domain.Bounds{
		MinLat: b.Bottom(),
		MinLon: b.Left(),
		MaxLat: b.Top(),
		MaxLon: b.Right(),
	}
}

// Mean returns the arithmetic mean of the coordinates, which is not the
// midpoint of the bounding box when points are unevenly spread.
func Mean(points []domain.GeoPoint) domain.GeoPoint {
	if len(points) == 0 {
		return domain.GeoPoint{}
	}
	var lat, lon float64
	for _, p := range points {
		lat += p.Lat
		lon += p.Lon
	}
	n := float64(len(points))
	return domain.GeoPoint{Lat: lat / n, Lon: lon / n}
}
