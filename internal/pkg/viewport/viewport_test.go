package viewport_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ribbitnetwork/frogmap/internal/core/domain"
	"github.com/ribbitnetwork/frogmap/internal/pkg/viewport"
)

func TestEstimate_Degenerate(t *testing.T) {
	tests := []struct {
		name string
		lats []float64
		lons []float64
	}{
		{name: "nil latitudes", lats: nil, lons: []float64{1, 2}},
		{name: "nil longitudes", lats: []float64{1, 2}, lons: nil},
		{name: "both nil", lats: nil, lons: nil},
		{name: "mismatched lengths", lats: []float64{1, 2, 3}, lons: []float64{1, 2}},
		{name: "empty", lats: []float64{}, lons: []float64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := viewport.Estimate(tt.lats, tt.lons)
			assert.Equal(t, domain.Viewport{}, got)
			assert.Equal(t, viewport.Default, got)
		})
	}
}

func TestEstimate_IdenticalPoints(t *testing.T) {
	got := viewport.Estimate([]float64{10, 10}, []float64{20, 20})

	assert.Equal(t, 20.0, got.Zoom)
	assert.Equal(t, domain.GeoPoint{Lat: 10, Lon: 20}, got.Center)
}

func TestEstimate_LargeAreaClamps(t *testing.T) {
	got := viewport.Estimate([]float64{0, 10}, []float64{0, 10})

	assert.Equal(t, 4.0, got.Zoom)
	assert.Equal(t, domain.GeoPoint{Lat: 5, Lon: 5}, got.Center)
}

func TestEstimate_SinglePoint(t *testing.T) {
	got := viewport.Estimate([]float64{47.6}, []float64{-122.3})

	assert.Equal(t, 20.0, got.Zoom)
	assert.Equal(t, domain.GeoPoint{Lat: 47.6, Lon: -122.3}, got.Center)
}

func TestEstimate_CenterIsMeanNotMidpoint(t *testing.T) {
	got := viewport.Estimate([]float64{0, 0, 0, 4}, []float64{0, 0, 0, 8})

	// midpoint would be (2, 4)
	assert.InDelta(t, 1.0, got.Center.Lat, 1e-12)
	assert.InDelta(t, 2.0, got.Center.Lon, 1e-12)
}

func TestEstimate_Collinear(t *testing.T) {
	// zero width gives zero area regardless of height
	got := viewport.Estimate([]float64{0, 30}, []float64{5, 5})

	assert.Equal(t, 20.0, got.Zoom)
	assert.Equal(t, domain.GeoPoint{Lat: 15, Lon: 5}, got.Center)
}

func TestZoomForArea_Anchors(t *testing.T) {
	tests := []struct {
		area float64
		zoom float64
	}{
		{area: 0, zoom: 20},
		{area: math.Pow(5, -10), zoom: 15},
		{area: math.Pow(4, -10), zoom: 14},
		{area: math.Pow(3, -10), zoom: 13},
		{area: math.Pow(2, -10), zoom: 11},
		{area: 1, zoom: 4},
		{area: 100, zoom: 4},
		{area: -1, zoom: 20},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.zoom, viewport.ZoomForArea(tt.area), 1e-9, "area %g", tt.area)
	}
}

func TestZoomForArea_Interpolates(t *testing.T) {
	lo, hi := math.Pow(2, -10), 1.0
	mid := (lo + hi) / 2

	// halfway between the 11 and 6 anchors
	assert.InDelta(t, 8.5, viewport.ZoomForArea(mid), 1e-9)

	// just below the duplicated anchor the curve still follows the 11→6 segment
	assert.InDelta(t, 6.0, viewport.ZoomForArea(math.Nextafter(1, 0)), 1e-6)
}

func TestZoomForArea_Monotonic(t *testing.T) {
	prev := viewport.ZoomForArea(0)
	for area := 1e-9; area < 10; area *= 1.5 {
		z := viewport.ZoomForArea(area)
		require.LessOrEqual(t, z, prev, "zoom increased at area %g", area)
		prev = z
	}
}

func TestEstimate_SmallerBoxZoomsIn(t *testing.T) {
	wide := viewport.Estimate([]float64{47.0, 47.02}, []float64{-122.0, -122.03})
	narrow := viewport.Estimate([]float64{47.0, 47.005}, []float64{-122.0, -122.01})

	assert.GreaterOrEqual(t, narrow.Zoom, wide.Zoom)
	assert.Greater(t, narrow.Zoom, 4.0)
	assert.Less(t, wide.Zoom, 20.0)
}

func TestZoomForArea_NaN(t *testing.T) {
	assert.True(t, math.IsNaN(viewport.ZoomForArea(math.NaN())))
}

func TestEstimate_NaNCoordinatePropagates(t *testing.T) {
	for _, lats := range [][]float64{
		{math.NaN(), 1, 2},
		{1, 2, math.NaN()},
	} {
		got := viewport.Estimate(lats, []float64{0, 1, 2})
		assert.True(t, math.IsNaN(got.Zoom), "zoom for %v", lats)
		assert.True(t, math.IsNaN(got.Center.Lat), "center lat for %v", lats)
		assert.Equal(t, 1.0, got.Center.Lon)
	}
}
