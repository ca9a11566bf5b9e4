package config

import (
	"os"
	"path/filepath"
	"testing"

	kerrors "github.com/matzehuels/keywheel/pkg/errors"
	"github.com/matzehuels/keywheel/pkg/radial"
)

func TestDefaultMatchesRadial(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}

	want := radial.DefaultConfig()
	want.Center = radial.Point{X: 500, Y: 500}
	if got := cfg.Radial(); got != want {
		t.Errorf("Radial() = %+v, want %+v", got, want)
	}
}

func TestParse(t *testing.T) {
	data := []byte(`
[layout]
ring_radii   = [100, 200, 300]
growth_speed = 6

[canvas]
width  = 800
height = 600

[theme]
background = "#000000"

[serve]
addr = "127.0.0.1:9000"
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	r := cfg.Radial()
	if r.Ring1Radius != 100 || r.Ring3Radius != 300 || r.GrowthSpeed != 6 {
		t.Errorf("Radial() = %+v", r)
	}
	if r.Center != (radial.Point{X: 400, Y: 300}) {
		t.Errorf("Center = %v, want canvas midpoint", r.Center)
	}
	if r.Slices != radial.DefaultSlices {
		t.Errorf("Slices = %v, want defaults kept", r.Slices)
	}
	if cfg.Theme.Background != "#000000" || cfg.Theme.Text != "#111111" {
		t.Errorf("Theme = %+v", cfg.Theme)
	}
	if cfg.SinkTheme().Background != "#000000" {
		t.Errorf("SinkTheme().Background = %q", cfg.SinkTheme().Background)
	}
	if cfg.Serve.Addr != "127.0.0.1:9000" || cfg.Animate.FPS != 30 {
		t.Errorf("Serve/Animate = %+v / %+v", cfg.Serve, cfg.Animate)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", "[layout"},
		{"unknown key", "[layout]\nrings = [1, 2, 3]"},
		{"rings out of order", "[layout]\nring_radii = [300, 200, 100]"},
		{"zero speed", "[layout]\ngrowth_speed = 0"},
		{"bad fps", "[animate]\nfps = 0"},
		{"bad canvas", "[canvas]\nwidth = -1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if !kerrors.Is(err, kerrors.ErrCodeInvalidConfig) {
				t.Errorf("Parse() error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[animate]\nfps = 12\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Animate.FPS != 12 {
		t.Errorf("FPS = %d, want 12", cfg.Animate.FPS)
	}

	if _, err := Load(filepath.Join(dir, "missing.toml")); !kerrors.Is(err, kerrors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLoadDefaultPathMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	if cfg != Default() {
		t.Error("missing default file should yield defaults")
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/custom-config")
	got, err := DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/tmp/custom-config", appName, "config.toml"); got != want {
		t.Errorf("DefaultPath() = %q, want %q", got, want)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	home, _ := os.UserHomeDir()
	got, _ = DefaultPath()
	if want := filepath.Join(home, ".config", appName, "config.toml"); got != want {
		t.Errorf("DefaultPath() = %q, want %q", got, want)
	}
}
