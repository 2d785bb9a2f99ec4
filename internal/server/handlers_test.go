package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/woozymasta/viewbox/internal/config"
	"github.com/woozymasta/viewbox/internal/geo"
)

func newTestContext(t *testing.T) *ServerContext {
	t.Helper()

	cfg := config.Default()
	cfg.CacheSize = 16
	cfg.Attribution = "test-attribution"

	s, err := NewServerContext(cfg)
	if err != nil {
		t.Fatalf("NewServerContext() error: %v", err)
	}

	return s
}

func getRegion(t *testing.T, s *ServerContext, query string) (*httptest.ResponseRecorder, regionResponse) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/api/visible-region?"+query, nil)
	rec := httptest.NewRecorder()
	s.HandleVisibleRegion(rec, req)

	var resp regionResponse
	if rec.Code == http.StatusOK {
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
	}

	return rec, resp
}

func TestHandleVisibleRegion(t *testing.T) {
	s := newTestContext(t)

	rec, resp := getRegion(t, s, "lat=0&lon=0&zoom=4&width=800&height=600")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200; body: %s", rec.Code, rec.Body.String())
	}

	b := resp.Bounds
	if b.North <= 0 || b.South >= 0 || b.East <= 0 || b.West >= 0 {
		t.Errorf("bounds %+v should straddle (0, 0)", b)
	}
	if b.CrossesAntimeridian() {
		t.Errorf("bounds %+v should not cross the antimeridian", b)
	}
	if resp.Attribution != "test-attribution" {
		t.Errorf("attribution = %q; want config value", resp.Attribution)
	}

	// corners mirror the bounds for a non-rotated view
	if resp.TopRight.Longitude != b.East || resp.BottomLeft.Longitude != b.West {
		t.Errorf("corner longitudes %v/%v do not match bounds %+v",
			resp.TopRight.Longitude, resp.BottomLeft.Longitude, b)
	}
}

func TestHandleVisibleRegionAntimeridian(t *testing.T) {
	s := newTestContext(t)

	rec, resp := getRegion(t, s, "lat=0&lon=179.9&zoom=5&width=200&height=200")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200; body: %s", rec.Code, rec.Body.String())
	}

	if !resp.Bounds.CrossesAntimeridian() {
		t.Errorf("bounds %+v should cross the antimeridian", resp.Bounds)
	}
	if resp.Bounds.LongitudeSpan() > 20 {
		t.Errorf("longitude span = %v; want the narrow wrap", resp.Bounds.LongitudeSpan())
	}
}

func TestHandleVisibleRegionCache(t *testing.T) {
	s := newTestContext(t)

	const query = "lat=10&lon=20&zoom=6&width=640&height=480"

	if rec, _ := getRegion(t, s, query); rec.Code != http.StatusOK {
		t.Fatalf("first request status = %d", rec.Code)
	}
	if rec, _ := getRegion(t, s, query); rec.Code != http.StatusOK {
		t.Fatalf("second request status = %d", rec.Code)
	}

	if got := s.regions.Len(); got != 1 {
		t.Errorf("cache holds %d entries; want 1", got)
	}
}

func TestHandleVisibleRegionBadParams(t *testing.T) {
	s := newTestContext(t)

	tests := []struct {
		name  string
		query string
	}{
		{"missing lat", "lon=0&zoom=4&width=800&height=600"},
		{"missing lon", "lat=0&zoom=4&width=800&height=600"},
		{"missing width", "lat=0&lon=0&zoom=4&height=600"},
		{"latitude out of range", "lat=91&lon=0&zoom=4&width=800&height=600"},
		{"longitude out of range", "lat=0&lon=181&zoom=4&width=800&height=600"},
		{"zoom above limit", "lat=0&lon=0&zoom=99&width=800&height=600"},
		{"zero width", "lat=0&lon=0&zoom=4&width=0&height=600"},
		{"width not a number", "lat=0&lon=0&zoom=4&width=abc&height=600"},
		{"bad padding", "lat=0&lon=0&zoom=4&width=800&height=600&pad=1,2"},
		{"padding exceeds viewport", "lat=0&lon=0&zoom=4&width=800&height=600&pad=500,0,500,0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := getRegion(t, s, tt.query)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d; want 400", rec.Code)
			}
		})
	}
}

func TestHandleVisibleRegionUnprojectable(t *testing.T) {
	s := newTestContext(t)

	// at zoom 0 the whole world is 256px tall; an 800px viewport reaches
	// past the projected plane
	rec, _ := getRegion(t, s, "lat=0&lon=0&zoom=0&width=800&height=800")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d; want 422; body: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleVisibleRegionGeoJSON(t *testing.T) {
	s := newTestContext(t)

	req := httptest.NewRequest(http.MethodGet, "/api/visible-region?lat=0&lon=0&zoom=4&width=800&height=600&format=geojson", nil)
	rec := httptest.NewRecorder()
	s.HandleVisibleRegion(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/geo+json" {
		t.Errorf("content type = %q; want application/geo+json", ct)
	}

	var fc geo.GeoJSONFeatureCollection
	if err := json.Unmarshal(rec.Body.Bytes(), &fc); err != nil {
		t.Fatalf("decoding geojson: %v", err)
	}
	if fc.Type != "FeatureCollection" || len(fc.Features) != 5 {
		t.Errorf("got %q with %d features; want FeatureCollection with 5", fc.Type, len(fc.Features))
	}
}

func TestHandleVisibleRegionPadded(t *testing.T) {
	s := newTestContext(t)

	rec, full := getRegion(t, s, "lat=0&lon=0&zoom=4&width=800&height=600")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	rec, padded := getRegion(t, s, "lat=0&lon=0&zoom=4&width=800&height=600&pad=100,50,100,50")
	if rec.Code != http.StatusOK {
		t.Fatalf("padded status = %d; body: %s", rec.Code, rec.Body.String())
	}

	if padded.Bounds.LongitudeSpan() >= full.Bounds.LongitudeSpan() {
		t.Errorf("padded span %v should be narrower than full span %v",
			padded.Bounds.LongitudeSpan(), full.Bounds.LongitudeSpan())
	}
	if padded.Bounds.North >= full.Bounds.North {
		t.Errorf("padded north %v should be below full north %v", padded.Bounds.North, full.Bounds.North)
	}
}

func TestHandleMetersPerPixel(t *testing.T) {
	s := newTestContext(t)

	req := httptest.NewRequest(http.MethodGet, "/api/meters-per-pixel?lat=0&zoom=0", nil)
	rec := httptest.NewRecorder()
	s.HandleMetersPerPixel(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}

	var resp map[string]float64
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}

	// equatorial circumference over one 256px tile
	want := 40075016.686 / 256
	if got := resp["meters_per_pixel"]; got < want-1 || got > want+1 {
		t.Errorf("meters_per_pixel = %v; want ~%v", got, want)
	}
}

func TestHandleMetersPerPixelBadParams(t *testing.T) {
	s := newTestContext(t)

	for name, query := range map[string]string{
		"missing lat":      "zoom=4",
		"lat out of range": "lat=95&zoom=4",
		"negative zoom":    "lat=0&zoom=-1",
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/meters-per-pixel?"+query, nil)
			rec := httptest.NewRecorder()
			s.HandleMetersPerPixel(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d; want 400", rec.Code)
			}
		})
	}
}

func TestHandlePreview(t *testing.T) {
	s := newTestContext(t)

	req := httptest.NewRequest(http.MethodGet, "/api/preview?lat=0&lon=0&zoom=4&width=800&height=600&img_width=180", nil)
	rec := httptest.NewRecorder()
	s.HandlePreview(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200; body: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/webp" {
		t.Errorf("content type = %q; want image/webp", ct)
	}
	if rec.Body.Len() == 0 {
		t.Error("empty image body")
	}
}

func TestHandlePreviewTooLarge(t *testing.T) {
	s := newTestContext(t)

	req := httptest.NewRequest(http.MethodGet, "/api/preview?lat=0&lon=0&zoom=4&width=800&height=600&img_width=100000", nil)
	rec := httptest.NewRecorder()
	s.HandlePreview(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d; want 400", rec.Code)
	}
}

func TestHandleHealthz(t *testing.T) {
	s := newTestContext(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.HandleHealthz(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}
}

func TestHandleIndex(t *testing.T) {
	s := newTestContext(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	s.HandleIndex(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}

	etag := rec.Header().Get("ETag")
	if etag == "" {
		t.Fatal("missing ETag header")
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	s.HandleIndex(rec, req)

	if rec.Code != http.StatusNotModified {
		t.Errorf("status = %d; want 304", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/other", nil)
	rec = httptest.NewRecorder()
	s.HandleIndex(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status for unknown path = %d; want 404", rec.Code)
	}
}
