// Package projection translates between screen pixels and geographic
// coordinates through a camera capability, and computes the geographic
// footprint of the viewport.
package projection

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/woozymasta/viewbox/internal/geo"
)

// ErrUnprojectableViewport is returned when a screen point required for
// the visible region has no geographic counterpart: the ray through the
// pixel misses the ground plane. No partial region is produced.
var ErrUnprojectableViewport = errors.New("viewport does not intersect the ground plane")

// Camera is the capability the surrounding rendering system provides.
// Implementations must be safe for concurrent read access.
type Camera interface {
	// Unproject returns the geographic location under a screen pixel, or
	// an error when the ray through the pixel misses the ground plane.
	Unproject(p geo.PixelPoint) (geo.GeoPoint, error)

	// Project returns the screen pixel for a geographic location.
	Project(pt geo.GeoPoint) geo.PixelPoint

	// MetersPerPixel reports the ground distance spanned by one pixel at
	// the given latitude and the current zoom level.
	MetersPerPixel(latitude float64) float64

	// Zoom returns the current zoom level.
	Zoom() float64

	// Width and Height return the render surface size in pixels.
	Width() float64
	Height() float64
}

// Padding insets the viewport edges in pixels. The zero value means the
// full viewport. Padding is a plain value; callers construct a new one
// instead of mutating shared state.
type Padding struct {
	Left   float64 `json:"left" yaml:"left"`
	Top    float64 `json:"top" yaml:"top"`
	Right  float64 `json:"right" yaml:"right"`
	Bottom float64 `json:"bottom" yaml:"bottom"`
}

// IsZero reports whether no inset is configured.
func (p Padding) IsZero() bool {
	return p == Padding{}
}

// ParsePadding parses a "left,top,right,bottom" pixel list.
func ParsePadding(s string) (Padding, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Padding{}, fmt.Errorf("expected 4 comma-separated values, got %d", len(parts))
	}

	values := make([]float64, 4)
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return Padding{}, fmt.Errorf("padding value %q: %w", part, err)
		}
		if v < 0 {
			return Padding{}, fmt.Errorf("padding value %q must be >= 0", part)
		}
		values[i] = v
	}

	return Padding{Left: values[0], Top: values[1], Right: values[2], Bottom: values[3]}, nil
}

// Projection computes geographic footprints of a camera's viewport.
type Projection struct {
	cam     Camera
	padding Padding
}

// New wraps a camera with an optional content padding.
func New(cam Camera, padding Padding) *Projection {
	return &Projection{cam: cam, padding: padding}
}

// Padding returns the configured content padding.
func (p *Projection) Padding() Padding {
	return p.padding
}

// FromScreenLocation returns the geographic location under a screen pixel.
func (p *Projection) FromScreenLocation(pt geo.PixelPoint) (geo.GeoPoint, error) {
	return p.cam.Unproject(pt)
}

// ToScreenLocation returns the screen pixel for a geographic location.
func (p *Projection) ToScreenLocation(pt geo.GeoPoint) geo.PixelPoint {
	return p.cam.Project(pt)
}

// MetersPerPixelAtLatitude reports the ground distance spanned by one
// pixel at the given latitude and the current zoom level.
func (p *Projection) MetersPerPixelAtLatitude(latitude float64) float64 {
	return p.cam.MetersPerPixel(latitude)
}

// CalculateZoom returns the zoom level at which the current view fits
// the given minimum scale.
func (p *Projection) CalculateZoom(minScale float64) float64 {
	return p.cam.Zoom() + math.Log2(minScale)
}

// VisibleRegion unprojects the viewport center and corners and reduces
// them to a bounding box.
func (p *Projection) VisibleRegion() (geo.VisibleRegion, error) {
	return p.visibleRegion(0, 0, p.cam.Width(), p.cam.Height())
}

// VisibleRegionPadded is VisibleRegion over the viewport minus the
// content padding.
func (p *Projection) VisibleRegionPadded() (geo.VisibleRegion, error) {
	return p.visibleRegion(
		p.padding.Left,
		p.padding.Top,
		p.cam.Width()-p.padding.Right,
		p.cam.Height()-p.padding.Bottom,
	)
}

// visibleRegion computes the footprint of the pixel rectangle. A naive
// min/max over the corner longitudes breaks when the view straddles the
// antimeridian, so each corner is classified east or west of the center
// by the sign of the great-circle bearing, and within each half the
// corner with the largest antimeridian-aware span from the center wins.
func (p *Projection) visibleRegion(left, top, right, bottom float64) (geo.VisibleRegion, error) {
	if right <= left || bottom <= top {
		return geo.VisibleRegion{}, fmt.Errorf("padding leaves no viewport: (%g, %g) to (%g, %g)",
			left, top, right, bottom)
	}

	center, err := p.unproject((left+right)/2, (top+bottom)/2)
	if err != nil {
		return geo.VisibleRegion{}, err
	}

	topLeft, err := p.unproject(left, top)
	if err != nil {
		return geo.VisibleRegion{}, err
	}
	topRight, err := p.unproject(right, top)
	if err != nil {
		return geo.VisibleRegion{}, err
	}
	bottomRight, err := p.unproject(right, bottom)
	if err != nil {
		return geo.VisibleRegion{}, err
	}
	bottomLeft, err := p.unproject(left, bottom)
	if err != nil {
		return geo.VisibleRegion{}, err
	}

	var east, west, maxEastSpan, maxWestSpan float64

	// Sentinels are inverted so any corner latitude overwrites them.
	north := geo.MinLatitude
	south := geo.MaxLatitude

	for _, c := range []geo.GeoPoint{topRight, bottomRight, bottomLeft, topLeft} {
		// The raw bearing sign decides the hemisphere relative to the
		// center; normalizing to [0, 360) first would destroy it.
		if b := geo.Bearing(center, c); b >= 0 {
			if span := geo.LongitudeSpan(c.Longitude, center.Longitude); span > maxEastSpan {
				maxEastSpan = span
				east = c.Longitude
			}
		} else {
			if span := geo.LongitudeSpan(center.Longitude, c.Longitude); span > maxWestSpan {
				maxWestSpan = span
				west = c.Longitude
			}
		}

		north = math.Max(north, c.Latitude)
		south = math.Min(south, c.Latitude)
	}

	return geo.VisibleRegion{
		TopLeft:     topLeft,
		TopRight:    topRight,
		BottomLeft:  bottomLeft,
		BottomRight: bottomRight,
		Bounds:      geo.BoundingBox{North: north, East: east, South: south, West: west},
	}, nil
}

func (p *Projection) unproject(x, y float64) (geo.GeoPoint, error) {
	pt, err := p.cam.Unproject(geo.PixelPoint{X: x, Y: y})
	if err != nil {
		return geo.GeoPoint{}, fmt.Errorf("%w: pixel (%g, %g): %v", ErrUnprojectableViewport, x, y, err)
	}

	return pt, nil
}
