// Package camera provides a flat Web Mercator camera implementing the
// projection capability without a native rendering engine.
package camera

import (
	"errors"
	"fmt"
	"math"

	"github.com/woozymasta/viewbox/internal/geo"
)

// EarthCircumference is the WGS84 equatorial circumference in meters.
const EarthCircumference = 40075016.686

// DefaultTileSize is the tile edge length assumed when none is given.
const DefaultTileSize = 256

var errOffWorldPlane = errors.New("pixel outside the projected world plane")

// State describes a non-tilted, non-rotated camera over a Web Mercator
// world.
type State struct {
	Center   geo.GeoPoint
	Zoom     float64
	Width    float64
	Height   float64
	TileSize int
}

// Mercator is a camera with a fixed state. Safe for concurrent use: all
// fields are set once in New.
type Mercator struct {
	state     State
	worldSize float64 // world edge length in pixels at the current zoom

	// world pixel position of the viewport center
	centerX float64
	centerY float64
}

// New validates the state and anchors the viewport center on the world
// plane. The center latitude is clamped to the Mercator limits.
func New(state State) (*Mercator, error) {
	if state.Width <= 0 || state.Height <= 0 {
		return nil, fmt.Errorf("viewport must have positive dimensions, got %gx%g", state.Width, state.Height)
	}
	if state.Zoom < 0 {
		return nil, fmt.Errorf("zoom must be >= 0, got %g", state.Zoom)
	}
	if state.Center.Longitude < geo.MinLongitude || state.Center.Longitude > geo.MaxLongitude {
		return nil, fmt.Errorf("center longitude %g out of range", state.Center.Longitude)
	}
	if state.TileSize <= 0 {
		state.TileSize = DefaultTileSize
	}

	if state.Center.Latitude > geo.MaxMercatorLatitude {
		state.Center.Latitude = geo.MaxMercatorLatitude
	} else if state.Center.Latitude < -geo.MaxMercatorLatitude {
		state.Center.Latitude = -geo.MaxMercatorLatitude
	}

	m := &Mercator{
		state:     state,
		worldSize: float64(state.TileSize) * math.Exp2(state.Zoom),
	}
	m.centerX, m.centerY = m.worldPixel(state.Center)

	return m, nil
}

// Unproject returns the geographic location under a screen pixel. Pixels
// whose ray falls past the top or bottom edge of the Mercator plane never
// hit the ground and yield an error.
func (m *Mercator) Unproject(p geo.PixelPoint) (geo.GeoPoint, error) {
	wx := m.centerX + (p.X - m.state.Width/2)
	wy := m.centerY + (p.Y - m.state.Height/2)

	if wy < 0 || wy > m.worldSize {
		return geo.GeoPoint{}, errOffWorldPlane
	}

	// Longitude wraps across the antimeridian.
	wx = math.Mod(wx, m.worldSize)
	if wx < 0 {
		wx += m.worldSize
	}

	lon := wx/m.worldSize*geo.LongitudeTurn - 180
	lat := 180 / math.Pi * math.Atan(math.Sinh(math.Pi-2*math.Pi*wy/m.worldSize))

	return geo.GeoPoint{Latitude: lat, Longitude: lon}, nil
}

// Project returns the screen pixel for a geographic location, picking the
// world copy nearest the viewport center.
func (m *Mercator) Project(pt geo.GeoPoint) geo.PixelPoint {
	wx, wy := m.worldPixel(pt)

	dx := wx - m.centerX
	if dx > m.worldSize/2 {
		dx -= m.worldSize
	} else if dx < -m.worldSize/2 {
		dx += m.worldSize
	}

	return geo.PixelPoint{
		X: m.state.Width/2 + dx,
		Y: m.state.Height/2 + (wy - m.centerY),
	}
}

// MetersPerPixel reports the ground resolution at the given latitude for
// the camera's zoom level.
func (m *Mercator) MetersPerPixel(latitude float64) float64 {
	return MetersPerPixel(latitude, m.state.Zoom, m.state.TileSize)
}

// Zoom returns the camera zoom level.
func (m *Mercator) Zoom() float64 { return m.state.Zoom }

// Width returns the viewport width in pixels.
func (m *Mercator) Width() float64 { return m.state.Width }

// Height returns the viewport height in pixels.
func (m *Mercator) Height() float64 { return m.state.Height }

// Center returns the (possibly clamped) camera center.
func (m *Mercator) Center() geo.GeoPoint { return m.state.Center }

// MetersPerPixel is the ground resolution of a Web Mercator map at the
// given latitude, zoom level, and tile size.
func MetersPerPixel(latitude, zoom float64, tileSize int) float64 {
	if tileSize <= 0 {
		tileSize = DefaultTileSize
	}

	return math.Cos(latitude*math.Pi/180) * EarthCircumference / (float64(tileSize) * math.Exp2(zoom))
}

// worldPixel converts a geographic point to absolute world pixels at the
// camera zoom.
func (m *Mercator) worldPixel(p geo.GeoPoint) (x, y float64) {
	x = (p.Longitude + 180) / geo.LongitudeTurn * m.worldSize

	sin := math.Sin(p.Latitude * math.Pi / 180)
	y = m.worldSize * (0.5 - math.Log((1+sin)/(1-sin))/(4*math.Pi))

	return x, y
}
