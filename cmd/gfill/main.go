// Command gfill fills the unit square with non-overlapping shapes and writes
// the result as a PNG image.
//
//	gfill -dist circles -n 1000 -res 1024 -o out.png
package main

import (
	"context"
	"flag"
	"fmt"
	"image/color"
	"log"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/soypat/gfill/argmax"
	"github.com/soypat/gfill/distrib"
	"github.com/soypat/gfill/forge/textsdf"
	"github.com/soypat/gfill/gfillaux"
)

func main() {
	cfg, verbose, err := loadConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	argmax.SetLogger(logger)
	err = run(context.Background(), cfg, logger)
	if err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cfg Config, logger *slog.Logger) error {
	field, err := argmax.New(cfg.Resolution, cfg.ChunkSize)
	if err != nil {
		return err
	}
	start := time.Now()
	placements, err := distribute(field, cfg)
	if err != nil {
		return err
	}
	logger.Info("placed shapes", "n", len(placements), "distribution", cfg.Distribution,
		"elapsed", time.Since(start), "evaluations", field.Evaluations())

	if cfg.DebugOutput != "" {
		err = gfillaux.DebugPNG(cfg.DebugOutput, field, min(cfg.Width, cfg.Height))
		if err != nil {
			return err
		}
		logger.Info("wrote debug image", "file", cfg.DebugOutput)
	}

	var bg color.Color
	switch cfg.Background {
	case "black":
		bg = color.Black
	case "white":
		bg = color.White
	}
	start = time.Now()
	if cfg.Render == "vector" {
		err = gfillaux.RenderCirclesPNG(cfg.Output, placements, cfg.Width, cfg.Height, bg, nil)
	} else {
		err = renderRaster(ctx, cfg, placements, bg)
	}
	if err != nil {
		return err
	}
	logger.Info("wrote image", "file", cfg.Output, "renderer", cfg.Render, "elapsed", time.Since(start))
	return nil
}

func distribute(field *argmax.Field, cfg Config) ([]distrib.Placement, error) {
	dcfg := distrib.Config{
		Seed:        cfg.Seed,
		Limit:       cfg.Limit,
		MinDistance: cfg.MinDistance,
		MaxRadius:   cfg.MaxRadius,
	}
	switch cfg.Distribution {
	case "circles":
		return distrib.RandomCircles(field, dcfg)
	case "noise":
		return distrib.NoiseCircles(field, dcfg, distrib.NoiseConfig{
			Alpha:       cfg.Noise.Alpha,
			Beta:        cfg.Noise.Beta,
			Octaves:     cfg.Noise.Octaves,
			Frequency:   cfg.Noise.Frequency,
			MinFraction: cfg.Noise.MinFraction,
		})
	case "shapes":
		return distrib.Run(field, dcfg, distrib.Distribution{
			Generate: distrib.Primitives(),
			Size:     distrib.UniformSize(0.2, 1),
			Rotate:   cfg.Rotate,
		})
	case "polygons":
		gen, err := distrib.Polygons(3, 8)
		if err != nil {
			return nil, err
		}
		return distrib.Run(field, dcfg, distrib.Distribution{
			Generate: gen,
			Size:     distrib.UniformSize(0.3, 1),
			Rotate:   cfg.Rotate,
		})
	case "glyphs":
		font, err := textsdf.DefaultFont()
		if err != nil {
			return nil, err
		}
		gen, err := distrib.Glyphs(font, cfg.Text)
		if err != nil {
			return nil, err
		}
		return distrib.Run(field, dcfg, distrib.Distribution{
			Generate: gen,
			Size:     distrib.UniformSize(0.5, 1),
			Rotate:   cfg.Rotate,
		})
	}
	return nil, fmt.Errorf("unknown distribution %q", cfg.Distribution)
}

func renderRaster(ctx context.Context, cfg Config, placements []distrib.Placement, bg color.Color) error {
	workers := cfg.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	img, err := gfillaux.RenderPlacements(ctx, placements, gfillaux.RasterConfig{
		Width:      cfg.Width,
		Height:     cfg.Height,
		Background: bg,
		Workers:    workers,
	})
	if err != nil {
		return err
	}
	return gfillaux.WritePNGFile(cfg.Output, img)
}
