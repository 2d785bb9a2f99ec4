package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/woozymasta/viewbox/internal/camera"
	"github.com/woozymasta/viewbox/internal/geo"
	"github.com/woozymasta/viewbox/internal/projection"

	"github.com/jessevdk/go-flags"
	"gopkg.in/yaml.v3"
)

type Options struct {
	Lat      float64 `long:"lat"       description:"Viewport center latitude"  required:"true"`
	Lon      float64 `long:"lon"       description:"Viewport center longitude" required:"true"`
	Zoom     float64 `short:"z" long:"zoom"      description:"Zoom level" default:"4"`
	Width    float64 `short:"W" long:"width"     description:"Viewport width in pixels"  default:"1280"`
	Height   float64 `short:"H" long:"height"    description:"Viewport height in pixels" default:"720"`
	TileSize int     `short:"t" long:"tile-size" description:"Tile size in pixels" default:"256"`
	Padding  string  `long:"pad"       description:"Content padding as left,top,right,bottom pixels"`
	Format   string  `short:"f" long:"format"    description:"Output format" choice:"json" choice:"yaml" choice:"geojson" default:"json"`
	Output   string  `short:"o" long:"out"       description:"Output file path. Writes to stdout if empty"`
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

	var pad projection.Padding
	if opts.Padding != "" {
		var err error
		pad, err = projection.ParsePadding(opts.Padding)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid --pad: %v\n", err)
			os.Exit(1)
		}
	}

	cam, err := camera.New(camera.State{
		Center:   geo.GeoPoint{Latitude: opts.Lat, Longitude: opts.Lon},
		Zoom:     opts.Zoom,
		Width:    opts.Width,
		Height:   opts.Height,
		TileSize: opts.TileSize,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	proj := projection.New(cam, pad)

	var region geo.VisibleRegion
	if pad.IsZero() {
		region, err = proj.VisibleRegion()
	} else {
		region, err = proj.VisibleRegionPadded()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// marshal
	var outputData []byte
	switch opts.Format {
	case "yaml":
		outputData, err = yaml.Marshal(region)
	case "geojson":
		outputData, err = json.MarshalIndent(region.FeatureCollection(), "", "  ")
	default:
		outputData, err = json.MarshalIndent(region, "", "  ")
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling region: %v\n", err)
		os.Exit(1)
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, outputData, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Visible region written to %s (format: %s)\n", opts.Output, opts.Format)
	} else {
		fmt.Println(string(outputData))
	}
}
