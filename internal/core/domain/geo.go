package domain

// GeoPoint represents a geographic coordinate (WGS 84).
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Bounds represents a geographic bounding box.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// Height is the latitude extent of the box in degrees.
func (b Bounds) Height() float64 { return b.MaxLat - b.MinLat }

// Width is the longitude extent of the box in degrees.
func (b Bounds) Width() float64 { return b.MaxLon - b.MinLon }

// Viewport is the initial camera state of the map widget.
// Zoom is fractional; the widget accepts non-integer levels.
type Viewport struct {
	Zoom   float64  `json:"zoom"`
	Center GeoPoint `json:"center"`
}
