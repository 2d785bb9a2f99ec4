package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/woozymasta/viewbox/internal/config"
	"github.com/woozymasta/viewbox/internal/logger"
	"github.com/woozymasta/viewbox/internal/server"

	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config"     env:"CONFIG_FILE"    description:"Path to configuration file (built-in defaults if empty)"`
	Addr       string `short:"a" long:"addr"       env:"LISTEN_ADDRESS" description:"Address to listen on" default:"0.0.0.0"`
	Port       int    `short:"p" long:"port"       env:"LISTEN_PORT"    description:"Port to listen on"    default:"8080"`
	CacheSize  int    `short:"s" long:"cache-size" env:"CACHE_SIZE"     description:"Visible-region cache entries" default:"1024"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	// Setup Logging
	opts.Logger.Setup()

	// Load Config
	cfg := config.Default()
	if opts.ConfigFile != "" {
		var err error
		cfg, err = config.Load(opts.ConfigFile)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}
	}

	if cfg.CacheSize <= 0 {
		if opts.CacheSize <= 0 {
			cfg.CacheSize = 1024
		} else {
			cfg.CacheSize = opts.CacheSize
		}
	}

	srvCtx, err := server.NewServerContext(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize server context")
	}

	// Routes
	mux := http.NewServeMux()
	mux.HandleFunc("/api/visible-region", srvCtx.HandleVisibleRegion)
	mux.HandleFunc("/api/meters-per-pixel", srvCtx.HandleMetersPerPixel)
	mux.HandleFunc("/api/preview", srvCtx.HandlePreview)
	mux.HandleFunc("/healthz", srvCtx.HandleHealthz)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/", srvCtx.HandleIndex)

	handler := server.RequestLogger(mux)

	listenAddr := fmt.Sprintf("%s:%d", opts.Addr, opts.Port)
	log.Info().
		Str("addr", listenAddr).
		Int("cache_size", cfg.CacheSize).
		Float64("max_zoom", cfg.Limits.MaxZoom).
		Msg("Web server started")

	if err := http.ListenAndServe(listenAddr, handler); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
