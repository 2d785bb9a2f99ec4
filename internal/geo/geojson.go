package geo

// GeoJSONFeatureCollection represents a collection of geographic features.
// It follows the standard GeoJSON structure.
type GeoJSONFeatureCollection struct {
	Type     string           `json:"type" yaml:"type"`
	Features []GeoJSONFeature `json:"features" yaml:"features"`
}

// GeoJSONFeature represents a single geographic feature with geometry and properties.
type GeoJSONFeature struct {
	Properties map[string]interface{} `json:"properties" yaml:"properties"`
	Type       string                 `json:"type" yaml:"type"`
	Geometry   GeoJSONGeometry        `json:"geometry" yaml:"geometry"`
}

// GeoJSONGeometry represents the geometry of a feature. The coordinate
// nesting depends on Type: Point carries [lon, lat], Polygon carries
// [[[lon, lat], ...]].
type GeoJSONGeometry struct {
	Type        string      `json:"type" yaml:"type"`
	Coordinates interface{} `json:"coordinates" yaml:"coordinates"`
}

// FeatureCollection renders the region as GeoJSON: one Polygon tracing
// the viewport corners plus a Point per corner.
func (v VisibleRegion) FeatureCollection() GeoJSONFeatureCollection {
	ring := [][]float64{
		{v.TopLeft.Longitude, v.TopLeft.Latitude},
		{v.TopRight.Longitude, v.TopRight.Latitude},
		{v.BottomRight.Longitude, v.BottomRight.Latitude},
		{v.BottomLeft.Longitude, v.BottomLeft.Latitude},
		{v.TopLeft.Longitude, v.TopLeft.Latitude},
	}

	features := []GeoJSONFeature{
		{
			Type: "Feature",
			Geometry: GeoJSONGeometry{
				Type:        "Polygon",
				Coordinates: [][][]float64{ring},
			},
			Properties: map[string]interface{}{
				"kind":  "viewport",
				"north": v.Bounds.North,
				"east":  v.Bounds.East,
				"south": v.Bounds.South,
				"west":  v.Bounds.West,
			},
		},
	}

	corners := []struct {
		name  string
		point GeoPoint
	}{
		{"top_left", v.TopLeft},
		{"top_right", v.TopRight},
		{"bottom_right", v.BottomRight},
		{"bottom_left", v.BottomLeft},
	}

	for _, c := range corners {
		features = append(features, GeoJSONFeature{
			Type: "Feature",
			Geometry: GeoJSONGeometry{
				Type:        "Point",
				Coordinates: []float64{c.point.Longitude, c.point.Latitude},
			},
			Properties: map[string]interface{}{
				"kind":   "corner",
				"corner": c.name,
			},
		})
	}

	return GeoJSONFeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
	}
}
