package geo

import "math"

// Geographic extremes and the Web Mercator latitude clamp.
const (
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0

	// LongitudeTurn is a full turn around the globe in degrees.
	LongitudeTurn = 360.0

	// MaxMercatorLatitude is the highest latitude representable in the
	// Web Mercator projection (atan(sinh(pi))).
	MaxMercatorLatitude = 85.05112878
)

// DegreesToRadians converts an angle in degrees to radians. The input is
// reduced modulo 360 first; math.Mod follows the sign of the dividend,
// so negative angles stay negative.
func DegreesToRadians(degrees float64) float64 {
	return math.Mod(degrees, LongitudeTurn) * math.Pi / 180
}

// RadiansToDegrees converts an angle in radians to degrees, reduced
// modulo a full turn with the same sign-following semantics.
func RadiansToDegrees(radians float64) float64 {
	return math.Mod(radians, 2*math.Pi) * 180 / math.Pi
}

// Bearing returns the initial great-circle bearing from p1 to p2 in
// degrees. The result is signed: 0 is due north, positive values turn
// east and negative values west of it.
func Bearing(p1, p2 GeoPoint) float64 {
	lon1 := DegreesToRadians(p1.Longitude)
	lon2 := DegreesToRadians(p2.Longitude)
	lat1 := DegreesToRadians(p1.Latitude)
	lat2 := DegreesToRadians(p2.Latitude)

	x := math.Sin(lon2-lon1) * math.Cos(lat2)
	y := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(lon2-lon1)

	return RadiansToDegrees(math.Atan2(x, y))
}

// LongitudeSpan returns the absolute angular distance in degrees between
// the east and west longitudes. When east <= west the shortest span
// wraps through the antimeridian.
func LongitudeSpan(east, west float64) float64 {
	span := math.Abs(east - west)
	if east > west {
		return span
	}

	return LongitudeTurn - span
}
