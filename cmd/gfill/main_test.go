package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	err := os.WriteFile(path, []byte("resolution: 256\nchunk_size: 8\ndistribution: noise\nlimit: 50\nnoise:\n  octaves: 2\n"), 0o644)
	if err != nil {
		t.Fatal(err)
	}
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg, verbose, err := loadConfig(fs, []string{"-config", path, "-n", "20", "-v"})
	if err != nil {
		t.Fatal(err)
	}
	if !verbose {
		t.Error("expected verbose")
	}
	if cfg.Resolution != 256 || cfg.ChunkSize != 8 || cfg.Distribution != "noise" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Limit != 20 {
		t.Errorf("flag should override file limit, got %d", cfg.Limit)
	}
	if cfg.Noise.Octaves != 2 || cfg.Noise.Frequency == 0 {
		t.Errorf("noise config not merged over defaults: %+v", cfg.Noise)
	}
	if cfg.Output != "out.png" {
		t.Errorf("default output lost: %q", cfg.Output)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	for _, args := range [][]string{
		{"-dist", "triangles"},
		{"-render", "svg"},
		{"-width", "0"},
		{"-dist", "glyphs", "-text", ""},
		{"-config", filepath.Join(t.TempDir(), "missing.yaml")},
	} {
		fs := flag.NewFlagSet("test", flag.ContinueOnError)
		fs.SetOutput(io.Discard)
		if _, _, err := loadConfig(fs, args); err == nil {
			t.Errorf("expected error for args %q", args)
		}
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	for _, dist := range []string{"circles", "noise", "shapes", "polygons", "glyphs"} {
		for _, render := range []string{"raster", "vector"} {
			cfg := defaultConfig()
			cfg.Resolution = 64
			cfg.ChunkSize = 8
			cfg.Limit = 15
			cfg.Width, cfg.Height = 96, 64
			cfg.Distribution = dist
			cfg.Render = render
			cfg.Output = filepath.Join(dir, dist+render+".png")
			cfg.DebugOutput = filepath.Join(dir, dist+render+"-debug.png")
			if err := run(context.Background(), cfg, logger); err != nil {
				t.Fatalf("%s/%s: %s", dist, render, err)
			}
			for _, name := range []string{cfg.Output, cfg.DebugOutput} {
				if st, err := os.Stat(name); err != nil || st.Size() == 0 {
					t.Errorf("%s/%s: missing output %s", dist, render, name)
				}
			}
		}
	}
}
