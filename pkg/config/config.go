// Package config loads keywheel settings from a TOML file.
//
// Every field is optional; whatever the file leaves out keeps its default.
//
//	[layout]
//	ring_radii   = [150, 300, 450]
//	growth_speed = 12
//	slices       = [360, 60, 10]
//
//	[canvas]
//	width  = 1000
//	height = 1000
//
//	[theme]
//	background = "#66b8d9"
//	text       = "#111111"
//	edge       = "rgba(60,60,60,0.3)"
//
//	[animate]
//	fps = 30
//
//	[serve]
//	addr = ":8080"
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	kerrors "github.com/matzehuels/keywheel/pkg/errors"
	"github.com/matzehuels/keywheel/pkg/radial"
	"github.com/matzehuels/keywheel/pkg/render/sink"
)

const appName = "keywheel"

// Config is the root of the config file.
type Config struct {
	Layout  Layout  `toml:"layout"`
	Canvas  Canvas  `toml:"canvas"`
	Theme   Theme   `toml:"theme"`
	Animate Animate `toml:"animate"`
	Serve   Serve   `toml:"serve"`
}

// Layout configures ring radii, growth speed and slice widths.
type Layout struct {
	RingRadii   [3]float64 `toml:"ring_radii"`
	GrowthSpeed float64    `toml:"growth_speed"`
	Slices      [3]float64 `toml:"slices"`
}

// Canvas is the frame size in pixels. The layout centre is its midpoint.
type Canvas struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// Theme holds the frame colours and edge width.
type Theme struct {
	Background string  `toml:"background"`
	Text       string  `toml:"text"`
	Edge       string  `toml:"edge"`
	LineWidth  float64 `toml:"line_width"`
}

// Animate configures the terminal driver.
type Animate struct {
	FPS int `toml:"fps"`
}

// Serve configures the preview server.
type Serve struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Layout: Layout{
			RingRadii:   [3]float64{radial.DefaultRing1Radius, radial.DefaultRing2Radius, radial.DefaultRing3Radius},
			GrowthSpeed: radial.DefaultGrowthSpeed,
			Slices:      radial.DefaultSlices,
		},
		Canvas: Canvas{Width: sink.DefaultWidth, Height: sink.DefaultHeight},
		Theme: Theme{
			Background: sink.DefaultBackground,
			Text:       sink.DefaultText,
			Edge:       sink.DefaultEdge,
			LineWidth:  sink.DefaultLineWidth,
		},
		Animate: Animate{FPS: 30},
		Serve:   Serve{Addr: ":8080"},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/keywheel/config.toml, falling back to
// ~/.config/keywheel/config.toml.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads the file at path over the defaults. An empty path means
// DefaultPath, and a missing default file is not an error. A missing file
// named explicitly is.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		if explicit {
			return Config{}, kerrors.Wrap(kerrors.ErrCodeFileNotFound, err, "config file %s not found", path)
		}
		return Default(), nil
	}
	if err != nil {
		return Config{}, kerrors.Wrap(kerrors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	return Parse(data)
}

// Parse decodes TOML text over the defaults and validates the result.
// Unknown keys are rejected so that typos do not pass silently.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, kerrors.Wrap(kerrors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, kerrors.New(kerrors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every section.
func (c Config) Validate() error {
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return kerrors.New(kerrors.ErrCodeInvalidConfig, "canvas size must be positive (got %gx%g)", c.Canvas.Width, c.Canvas.Height)
	}
	if c.Animate.FPS <= 0 || c.Animate.FPS > 240 {
		return kerrors.New(kerrors.ErrCodeInvalidConfig, "animate.fps must be in 1..240 (got %d)", c.Animate.FPS)
	}
	if c.Theme.LineWidth < 0 {
		return kerrors.New(kerrors.ErrCodeInvalidConfig, "theme.line_width must not be negative")
	}
	return c.Radial().Validate()
}

// Radial returns the layout geometry centred on the canvas.
func (c Config) Radial() radial.Config {
	return radial.Config{
		Ring1Radius: c.Layout.RingRadii[0],
		Ring2Radius: c.Layout.RingRadii[1],
		Ring3Radius: c.Layout.RingRadii[2],
		GrowthSpeed: c.Layout.GrowthSpeed,
		Center:      radial.Point{X: c.Canvas.Width / 2, Y: c.Canvas.Height / 2},
		Slices:      c.Layout.Slices,
	}
}

// SinkTheme returns the frame colours with the default font sizes.
func (c Config) SinkTheme() sink.Theme {
	t := sink.DefaultTheme()
	t.Background = c.Theme.Background
	t.Text = c.Theme.Text
	t.Edge = c.Theme.Edge
	t.LineWidth = c.Theme.LineWidth
	return t
}
