package domain

// CircleStyle controls the marker drawn for a single sensor.
type CircleStyle struct {
	FillOpacity float64 `json:"fill_opacity" mapstructure:"fill_opacity"`
	Stroke      bool    `json:"stroke" mapstructure:"stroke"`
	Radius      int     `json:"radius" mapstructure:"radius"`
}

// MapStyle configures marker coloring and clustering on the map layer.
// Markers and clusters are colored by ColorProp over the [Min, Max] domain.
type MapStyle struct {
	ColorProp           string      `json:"color_prop" mapstructure:"color_prop"`
	Min                 float64     `json:"min" mapstructure:"min"`
	Max                 float64     `json:"max" mapstructure:"max"`
	ColorScale          []string    `json:"color_scale" mapstructure:"color_scale"`
	Unit                string      `json:"unit" mapstructure:"unit"`
	Circle              CircleStyle `json:"circle" mapstructure:"circle"`
	Cluster             bool        `json:"cluster" mapstructure:"cluster"`
	ClusterRadius       int         `json:"cluster_radius" mapstructure:"cluster_radius"`
	ZoomToBoundsOnClick bool        `json:"zoom_to_bounds_on_click" mapstructure:"zoom_to_bounds_on_click"`
}

// DefaultMapStyle returns the stock CO₂ coloring.
func DefaultMapStyle() MapStyle {
	return MapStyle{
		ColorProp:  MetricCO2,
		Min:        300,
		Max:        600,
		ColorScale: []string{"lightgreen", "green", "darkgreen", "black"},
		Unit:       "PPM",
		Circle: CircleStyle{
			FillOpacity: 1,
			Stroke:      false,
			Radius:      8,
		},
		Cluster:             true,
		ClusterRadius:       100,
		ZoomToBoundsOnClick: true,
	}
}
