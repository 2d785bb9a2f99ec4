// Package geo holds geographic value types and the spherical math used
// to reduce viewport corners to a bounding box.
package geo

// GeoPoint is a geographic coordinate in degrees (WGS84).
type GeoPoint struct {
	Latitude  float64 `json:"lat" yaml:"lat"`
	Longitude float64 `json:"lon" yaml:"lon"`
}

// PixelPoint is a screen coordinate in pixels relative to the top left
// corner of the map viewport.
type PixelPoint struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// BoundingBox is a latitude/longitude rectangle. North >= South always
// holds; East may be numerically smaller than West when the box crosses
// the antimeridian.
type BoundingBox struct {
	North float64 `json:"north" yaml:"north"`
	East  float64 `json:"east" yaml:"east"`
	South float64 `json:"south" yaml:"south"`
	West  float64 `json:"west" yaml:"west"`
}

// VisibleRegion is the geographic footprint of a viewport: the four
// unprojected corners plus the bounding box enclosing them.
type VisibleRegion struct {
	TopLeft     GeoPoint    `json:"top_left" yaml:"top_left"`
	TopRight    GeoPoint    `json:"top_right" yaml:"top_right"`
	BottomLeft  GeoPoint    `json:"bottom_left" yaml:"bottom_left"`
	BottomRight GeoPoint    `json:"bottom_right" yaml:"bottom_right"`
	Bounds      BoundingBox `json:"bounds" yaml:"bounds"`
}

// CrossesAntimeridian reports whether the box wraps through the ±180°
// longitude line.
func (b BoundingBox) CrossesAntimeridian() bool {
	return b.West > b.East
}

// LongitudeSpan returns the angular width of the box in degrees.
func (b BoundingBox) LongitudeSpan() float64 {
	return LongitudeSpan(b.East, b.West)
}

// LatitudeSpan returns the angular height of the box in degrees.
func (b BoundingBox) LatitudeSpan() float64 {
	return b.North - b.South
}

// Contains reports whether the point lies inside the box, wrapping the
// longitude check when the box crosses the antimeridian.
func (b BoundingBox) Contains(p GeoPoint) bool {
	if p.Latitude > b.North || p.Latitude < b.South {
		return false
	}
	if b.CrossesAntimeridian() {
		return p.Longitude >= b.West || p.Longitude <= b.East
	}
	return p.Longitude >= b.West && p.Longitude <= b.East
}
