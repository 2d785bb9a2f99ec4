// Package render draws debug previews of visible regions on an
// equirectangular world canvas.
package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/woozymasta/viewbox/internal/geo"

	xdraw "golang.org/x/image/draw"
)

// render at double resolution, then downsample for smoother edges
const superSample = 2

var (
	background = color.RGBA{R: 16, G: 24, B: 32, A: 255}
	gridLine   = color.RGBA{R: 40, G: 56, B: 72, A: 255}
	regionFill = color.RGBA{R: 34, G: 84, B: 130, A: 255}
	regionEdge = color.RGBA{R: 90, G: 168, B: 228, A: 255}
	cornerMark = color.RGBA{R: 240, G: 200, B: 60, A: 255}
)

// Preview renders the region onto a world canvas of the given pixel
// size. The bounding box is split in two when it crosses the
// antimeridian so both halves land on the correct side of the map.
func Preview(region geo.VisibleRegion, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width*superSample, height*superSample))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: background}, image.Point{}, draw.Src)

	drawGraticule(img)

	bounds := region.Bounds
	if bounds.CrossesAntimeridian() {
		fillRect(img, bounds.West, geo.MaxLongitude, bounds.North, bounds.South)
		fillRect(img, geo.MinLongitude, bounds.East, bounds.North, bounds.South)
	} else {
		fillRect(img, bounds.West, bounds.East, bounds.North, bounds.South)
	}

	for _, c := range []geo.GeoPoint{region.TopLeft, region.TopRight, region.BottomRight, region.BottomLeft} {
		markCorner(img, c)
	}

	out := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.ApproxBiLinear.Scale(out, out.Bounds(), img, img.Bounds(), xdraw.Src, nil)

	return out
}

// toCanvas maps a geographic point onto the canvas in equirectangular
// projection.
func toCanvas(img *image.RGBA, p geo.GeoPoint) (x, y int) {
	b := img.Bounds()
	x = int((p.Longitude + 180) / geo.LongitudeTurn * float64(b.Dx()-1))
	y = int((geo.MaxLatitude - p.Latitude) / 180 * float64(b.Dy()-1))

	return x, y
}

func drawGraticule(img *image.RGBA) {
	b := img.Bounds()

	for lon := geo.MinLongitude; lon <= geo.MaxLongitude; lon += 30 {
		x, _ := toCanvas(img, geo.GeoPoint{Longitude: lon})
		for y := 0; y < b.Dy(); y++ {
			img.Set(x, y, gridLine)
		}
	}

	for lat := geo.MinLatitude; lat <= geo.MaxLatitude; lat += 30 {
		_, y := toCanvas(img, geo.GeoPoint{Latitude: lat})
		for x := 0; x < b.Dx(); x++ {
			img.Set(x, y, gridLine)
		}
	}
}

func fillRect(img *image.RGBA, west, east, north, south float64) {
	x0, y0 := toCanvas(img, geo.GeoPoint{Latitude: north, Longitude: west})
	x1, y1 := toCanvas(img, geo.GeoPoint{Latitude: south, Longitude: east})

	rect := image.Rect(x0, y0, x1+1, y1+1).Intersect(img.Bounds())
	if rect.Empty() {
		return
	}

	draw.Draw(img, rect, &image.Uniform{C: regionFill}, image.Point{}, draw.Src)

	for x := rect.Min.X; x < rect.Max.X; x++ {
		img.Set(x, rect.Min.Y, regionEdge)
		img.Set(x, rect.Max.Y-1, regionEdge)
	}
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		img.Set(rect.Min.X, y, regionEdge)
		img.Set(rect.Max.X-1, y, regionEdge)
	}
}

func markCorner(img *image.RGBA, p geo.GeoPoint) {
	cx, cy := toCanvas(img, p)

	r := image.Rect(cx-superSample, cy-superSample, cx+superSample+1, cy+superSample+1).Intersect(img.Bounds())
	if r.Empty() {
		return
	}

	draw.Draw(img, r, &image.Uniform{C: cornerMark}, image.Point{}, draw.Src)
}
