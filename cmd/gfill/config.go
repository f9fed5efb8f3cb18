package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/soypat/gfill/distrib"
	"gopkg.in/yaml.v3"
)

// Config is the run configuration. It is read from an optional YAML file
// and overridden by flags set on the command line.
type Config struct {
	Resolution   int     `yaml:"resolution"`
	ChunkSize    int     `yaml:"chunk_size"`
	Distribution string  `yaml:"distribution"` // circles, noise, shapes, polygons or glyphs.
	Seed         uint64  `yaml:"seed"`
	Limit        int     `yaml:"limit"`
	MinDistance  float32 `yaml:"min_distance"`
	MaxRadius    float32 `yaml:"max_radius"`
	Rotate       bool    `yaml:"rotate"`
	Text         string  `yaml:"text"` // Characters placed by the glyphs distribution.

	Output      string `yaml:"output"`
	DebugOutput string `yaml:"debug_output"` // Distance field visualization, skipped if empty.
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	Render      string `yaml:"render"` // raster or vector.
	Workers     int    `yaml:"workers"`
	Background  string `yaml:"background"`

	Noise struct {
		Alpha       float64 `yaml:"alpha"`
		Beta        float64 `yaml:"beta"`
		Octaves     int32   `yaml:"octaves"`
		Frequency   float64 `yaml:"frequency"`
		MinFraction float32 `yaml:"min_fraction"`
	} `yaml:"noise"`
}

func defaultConfig() Config {
	cfg := Config{
		Resolution:   1024,
		ChunkSize:    16,
		Distribution: "circles",
		Limit:        1000,
		Text:         "gfill",
		Output:       "out.png",
		Width:        2048,
		Height:       2048,
		Render:       "raster",
		Background:   "black",
	}
	nc := distrib.DefaultNoiseConfig()
	cfg.Noise.Alpha = nc.Alpha
	cfg.Noise.Beta = nc.Beta
	cfg.Noise.Octaves = nc.Octaves
	cfg.Noise.Frequency = nc.Frequency
	cfg.Noise.MinFraction = nc.MinFraction
	return cfg
}

// loadConfig parses args. Values from the -config file are applied first,
// then every flag explicitly set on the command line.
func loadConfig(fs *flag.FlagSet, args []string) (cfg Config, verbose bool, err error) {
	cfg = defaultConfig()
	flagCfg := cfg
	var configPath string
	var minDist, maxRadius float64
	fs.StringVar(&configPath, "config", "", "YAML configuration file (optional)")
	fs.BoolVar(&verbose, "v", false, "Enable debug logging")
	fs.IntVar(&flagCfg.Resolution, "res", cfg.Resolution, "Distance field resolution in cells per side")
	fs.IntVar(&flagCfg.ChunkSize, "chunk", cfg.ChunkSize, "Chunk size in cells per side, power of two")
	fs.StringVar(&flagCfg.Distribution, "dist", cfg.Distribution, "Distribution: circles, noise, shapes, polygons or glyphs")
	fs.Uint64Var(&flagCfg.Seed, "seed", cfg.Seed, "Random seed")
	fs.IntVar(&flagCfg.Limit, "n", cfg.Limit, "Maximum amount of shapes placed, 0 for no limit")
	fs.Float64Var(&minDist, "mindist", 0, "Minimum free distance, 0 for half a cell diagonal")
	fs.Float64Var(&maxRadius, "maxradius", 0, "Maximum shape radius, 0 for default")
	fs.BoolVar(&flagCfg.Rotate, "rotate", cfg.Rotate, "Randomly rotate shapes")
	fs.StringVar(&flagCfg.Text, "text", cfg.Text, "Characters placed by the glyphs distribution")
	fs.StringVar(&flagCfg.Output, "o", cfg.Output, "Output PNG filename")
	fs.StringVar(&flagCfg.DebugOutput, "debug", cfg.DebugOutput, "Distance field debug PNG filename (optional)")
	fs.IntVar(&flagCfg.Width, "width", cfg.Width, "Output width in pixels")
	fs.IntVar(&flagCfg.Height, "height", cfg.Height, "Output height in pixels")
	fs.StringVar(&flagCfg.Render, "render", cfg.Render, "Renderer: raster or vector")
	fs.IntVar(&flagCfg.Workers, "workers", cfg.Workers, "Raster goroutines, 0 for one per CPU")
	fs.StringVar(&flagCfg.Background, "bg", cfg.Background, "Background: black, white or none")
	if err = fs.Parse(args); err != nil {
		return cfg, verbose, err
	}
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return cfg, verbose, err
		}
		if err = yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, verbose, fmt.Errorf("parsing %s: %w", configPath, err)
		}
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "res":
			cfg.Resolution = flagCfg.Resolution
		case "chunk":
			cfg.ChunkSize = flagCfg.ChunkSize
		case "dist":
			cfg.Distribution = flagCfg.Distribution
		case "seed":
			cfg.Seed = flagCfg.Seed
		case "n":
			cfg.Limit = flagCfg.Limit
		case "mindist":
			cfg.MinDistance = float32(minDist)
		case "maxradius":
			cfg.MaxRadius = float32(maxRadius)
		case "rotate":
			cfg.Rotate = flagCfg.Rotate
		case "text":
			cfg.Text = flagCfg.Text
		case "o":
			cfg.Output = flagCfg.Output
		case "debug":
			cfg.DebugOutput = flagCfg.DebugOutput
		case "width":
			cfg.Width = flagCfg.Width
		case "height":
			cfg.Height = flagCfg.Height
		case "render":
			cfg.Render = flagCfg.Render
		case "workers":
			cfg.Workers = flagCfg.Workers
		case "bg":
			cfg.Background = flagCfg.Background
		}
	})
	return cfg, verbose, cfg.Validate()
}

// Validate checks values that the libraries do not check themselves.
func (cfg *Config) Validate() error {
	var errs []error
	switch cfg.Distribution {
	case "circles", "noise", "shapes", "polygons", "glyphs":
	default:
		errs = append(errs, fmt.Errorf("unknown distribution %q", cfg.Distribution))
	}
	switch cfg.Render {
	case "raster", "vector":
	default:
		errs = append(errs, fmt.Errorf("unknown renderer %q", cfg.Render))
	}
	switch cfg.Background {
	case "black", "white", "none":
	default:
		errs = append(errs, fmt.Errorf("unknown background %q", cfg.Background))
	}
	if cfg.Output == "" {
		errs = append(errs, errors.New("empty output filename"))
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		errs = append(errs, errors.New("output dimensions must be positive"))
	}
	if cfg.Distribution == "glyphs" && cfg.Text == "" {
		errs = append(errs, errors.New("glyphs distribution requires text"))
	}
	return errors.Join(errs...)
}
