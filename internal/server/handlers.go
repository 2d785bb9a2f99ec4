// Package server handles HTTP requests and middleware.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/chai2010/webp"
	"github.com/rs/zerolog/log"

	"github.com/woozymasta/viewbox/internal/camera"
	"github.com/woozymasta/viewbox/internal/geo"
	"github.com/woozymasta/viewbox/internal/projection"
	"github.com/woozymasta/viewbox/internal/render"
)

// cameraQuery is a validated set of camera parameters from a request.
type cameraQuery struct {
	state camera.State
	pad   projection.Padding
}

// key canonicalizes the query for the response cache.
func (c cameraQuery) key() string {
	return fmt.Sprintf("%g,%g,%g,%gx%g,%d,%g,%g,%g,%g",
		c.state.Center.Latitude, c.state.Center.Longitude, c.state.Zoom,
		c.state.Width, c.state.Height, c.state.TileSize,
		c.pad.Left, c.pad.Top, c.pad.Right, c.pad.Bottom)
}

type regionResponse struct {
	geo.VisibleRegion
	Attribution string `json:"attribution,omitempty"`
}

// HandleVisibleRegion computes the geographic footprint of the requested
// viewport and returns it as JSON or GeoJSON.
func (s *ServerContext) HandleVisibleRegion(w http.ResponseWriter, r *http.Request) {
	cq, err := s.parseCameraQuery(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	region, err := s.computeRegion(cq)
	if err != nil {
		if errors.Is(err, projection.ErrUnprojectableViewport) {
			unprojectableTotal.Inc()
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if r.URL.Query().Get("format") == "geojson" {
		w.Header().Set("Content-Type", "application/geo+json")
		_ = json.NewEncoder(w).Encode(region.FeatureCollection())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(regionResponse{
		VisibleRegion: region,
		Attribution:   s.Config.Attribution,
	})
}

// HandleMetersPerPixel reports the ground resolution at a latitude and
// zoom level.
func (s *ServerContext) HandleMetersPerPixel(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	lat, ok, err := queryFloat(q, "lat")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !ok {
		http.Error(w, "missing required parameter: lat", http.StatusBadRequest)
		return
	}
	if lat < geo.MinLatitude || lat > geo.MaxLatitude {
		http.Error(w, "latitude must be in [-90, 90]", http.StatusBadRequest)
		return
	}

	zoom, ok, err := queryFloat(q, "zoom")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !ok {
		zoom = s.Config.Defaults.Zoom
	}
	if zoom < 0 || zoom > s.Config.Limits.MaxZoom {
		http.Error(w, fmt.Sprintf("zoom must be in [0, %g]", s.Config.Limits.MaxZoom), http.StatusBadRequest)
		return
	}

	tileSize, err := queryTileSize(q, s.Config.Defaults.TileSize)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]float64{
		"lat":              lat,
		"zoom":             zoom,
		"tile_size":        float64(tileSize),
		"meters_per_pixel": camera.MetersPerPixel(lat, zoom, tileSize),
	})
}

// HandlePreview renders the visible region onto a world map image.
func (s *ServerContext) HandlePreview(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	cq, err := s.parseCameraQuery(q)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	imgWidth, err := queryInt(q, "img_width", 720)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	maxPreview := s.Config.Limits.MaxPreview
	if imgWidth <= 0 || imgWidth > maxPreview {
		http.Error(w, fmt.Sprintf("img_width must be in [1, %d]", maxPreview), http.StatusBadRequest)
		return
	}

	// world maps are 2:1
	imgHeight := imgWidth / 2

	region, err := s.computeRegion(cq)
	if err != nil {
		if errors.Is(err, projection.ErrUnprojectableViewport) {
			unprojectableTotal.Inc()
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	img := render.Preview(region, imgWidth, imgHeight)

	w.Header().Set("Content-Type", "image/webp")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if err := webp.Encode(w, img, &webp.Options{Lossless: false, Quality: 80}); err != nil {
		log.Error().Err(err).Msg("Failed to encode preview")
	}
}

// HandleHealthz reports process liveness.
func (s *ServerContext) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// HandleIndex serves the main HTML application.
func (s *ServerContext) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	etag := fmt.Sprintf(`"%x"`, len(s.IndexHTML))

	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, no-cache")
	_, _ = w.Write(s.IndexHTML)
}

// computeRegion resolves the query through the response cache.
func (s *ServerContext) computeRegion(cq cameraQuery) (geo.VisibleRegion, error) {
	key := cq.key()

	if region, ok := s.regions.Get(key); ok {
		regionCacheTotal.WithLabelValues("hit").Inc()
		return region, nil
	}
	regionCacheTotal.WithLabelValues("miss").Inc()

	cam, err := camera.New(cq.state)
	if err != nil {
		return geo.VisibleRegion{}, err
	}

	proj := projection.New(cam, cq.pad)

	var region geo.VisibleRegion
	if cq.pad.IsZero() {
		region, err = proj.VisibleRegion()
	} else {
		region, err = proj.VisibleRegionPadded()
	}
	if err != nil {
		return geo.VisibleRegion{}, err
	}

	s.regions.Add(key, region)

	return region, nil
}

// parseCameraQuery validates the camera parameters shared by the region
// and preview endpoints.
func (s *ServerContext) parseCameraQuery(q url.Values) (cameraQuery, error) {
	lat, ok, err := queryFloat(q, "lat")
	if err != nil {
		return cameraQuery{}, err
	}
	if !ok {
		return cameraQuery{}, errors.New("missing required parameter: lat")
	}
	if lat < geo.MinLatitude || lat > geo.MaxLatitude {
		return cameraQuery{}, errors.New("latitude must be in [-90, 90]")
	}

	lon, ok, err := queryFloat(q, "lon")
	if err != nil {
		return cameraQuery{}, err
	}
	if !ok {
		return cameraQuery{}, errors.New("missing required parameter: lon")
	}
	if lon < geo.MinLongitude || lon > geo.MaxLongitude {
		return cameraQuery{}, errors.New("longitude must be in [-180, 180]")
	}

	zoom, ok, err := queryFloat(q, "zoom")
	if err != nil {
		return cameraQuery{}, err
	}
	if !ok {
		zoom = s.Config.Defaults.Zoom
	}
	if zoom < 0 || zoom > s.Config.Limits.MaxZoom {
		return cameraQuery{}, fmt.Errorf("zoom must be in [0, %g]", s.Config.Limits.MaxZoom)
	}

	width, ok, err := queryFloat(q, "width")
	if err != nil {
		return cameraQuery{}, err
	}
	if !ok {
		return cameraQuery{}, errors.New("missing required parameter: width")
	}

	height, ok, err := queryFloat(q, "height")
	if err != nil {
		return cameraQuery{}, err
	}
	if !ok {
		return cameraQuery{}, errors.New("missing required parameter: height")
	}

	maxViewport := s.Config.Limits.MaxViewport
	if width <= 0 || width > maxViewport || height <= 0 || height > maxViewport {
		return cameraQuery{}, fmt.Errorf("viewport dimensions must be in (0, %g]", maxViewport)
	}

	tileSize, err := queryTileSize(q, s.Config.Defaults.TileSize)
	if err != nil {
		return cameraQuery{}, err
	}

	var pad projection.Padding
	if raw := strings.TrimSpace(q.Get("pad")); raw != "" {
		pad, err = projection.ParsePadding(raw)
		if err != nil {
			return cameraQuery{}, fmt.Errorf("invalid pad: %w", err)
		}
	}

	return cameraQuery{
		state: camera.State{
			Center:   geo.GeoPoint{Latitude: lat, Longitude: lon},
			Zoom:     zoom,
			Width:    width,
			Height:   height,
			TileSize: tileSize,
		},
		pad: pad,
	}, nil
}

func queryFloat(q url.Values, name string) (float64, bool, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return 0, false, nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, fmt.Errorf("parameter %q: not a number", name)
	}

	return v, true, nil
}

func queryInt(q url.Values, name string, def int) (int, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return def, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parameter %q: not an integer", name)
	}

	return v, nil
}

func queryTileSize(q url.Values, def int) (int, error) {
	tileSize, err := queryInt(q, "tile_size", def)
	if err != nil {
		return 0, err
	}
	if tileSize <= 0 || tileSize > 4096 {
		return 0, errors.New("tile_size must be in [1, 4096]")
	}

	return tileSize, nil
}
