package server

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"

	"github.com/woozymasta/viewbox/assets"
	"github.com/woozymasta/viewbox/internal/config"
	"github.com/woozymasta/viewbox/internal/geo"
)

// ServerContext holds dependencies for request handlers.
type ServerContext struct {
	Config    *config.Config
	IndexHTML []byte

	// computed visible regions keyed by canonical camera parameters
	regions *lru.Cache[string, geo.VisibleRegion]
}

// NewServerContext initializes the context and the response cache.
func NewServerContext(cfg *config.Config) (*ServerContext, error) {
	cache, err := lru.New[string, geo.VisibleRegion](cfg.CacheSize)
	if err != nil {
		return nil, err
	}

	log.Info().
		Int("cache_size", cfg.CacheSize).
		Int("tile_size", cfg.Defaults.TileSize).
		Float64("max_zoom", cfg.Limits.MaxZoom).
		Float64("max_viewport", cfg.Limits.MaxViewport).
		Msg("Server context initialized")

	return &ServerContext{
		Config:    cfg,
		IndexHTML: assets.Index,
		regions:   cache,
	}, nil
}
