// Package config holds the run configuration: input layout, output naming and the chart
// styling data (palette, per-category label overrides). Defaults reproduce the fixed
// behaviour of the race headcount report; an optional TOML file overlays them.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "racecharts.toml"

// EnvConfigPath names the environment variable that may point at the config file.
const EnvConfigPath = "RACECHARTS_CONFIG"

// ErrConfig is the sentinel wrapped by every ConfigError.
var ErrConfig = errors.New("invalid configuration")

// ConfigError reports an unreadable or inconsistent configuration.
type ConfigError struct {
	Path string
	Msg  string
	Err  error
}

func (e *ConfigError) Error() string {
	if e == nil {
		return ""
	}
	s := ErrConfig.Error()
	if e.Path != "" {
		s += " (" + e.Path + ")"
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *ConfigError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrConfig}
	}
	return []error{ErrConfig, e.Err}
}

// Config is the full run configuration.
type Config struct {
	LogLevel string       `toml:"log_level"`
	Input    InputConfig  `toml:"input"`
	Output   OutputConfig `toml:"output"`
	Charts   ChartsConfig `toml:"charts"`
}

// InputConfig describes where the table comes from and which columns matter.
type InputConfig struct {
	Path           string `toml:"path"`
	LabelColumn    string `toml:"label_column"`
	CategoryColumn string `toml:"category_column"`
	FilterLabel    string `toml:"filter_label"`
}

// OutputConfig controls where images go and how they are named ({period}_{suffix}.png).
type OutputConfig struct {
	Dir          string `toml:"dir"`
	DonutSuffix  string `toml:"donut_suffix"`
	BinarySuffix string `toml:"binary_suffix"`
	BarSuffix    string `toml:"bar_suffix"`
}

// ChartsConfig is the styling data handed to the renderer.
type ChartsConfig struct {
	Palette []string `toml:"palette"`

	BinaryCategory   string   `toml:"binary_category"`
	BinaryOtherLabel string   `toml:"binary_other_label"`
	BinaryColors     []string `toml:"binary_colors"`

	DonutSize  int `toml:"donut_size"`
	BinarySize int `toml:"binary_size"`
	BarWidth   int `toml:"bar_width"`
	BarHeight  int `toml:"bar_height"`

	BarTitle  string `toml:"bar_title"`
	BarYLabel string `toml:"bar_y_label"`

	// Footer stamps the period and total headcount under each chart.
	Footer bool `toml:"footer"`

	Labels []LabelOverride `toml:"labels"`
}

// LabelOverride adjusts donut annotation placement for one category. Unset fields keep
// the computed placement.
type LabelOverride struct {
	Name string `toml:"name"`
	// X, Y position the label box in pie-radius units; both must be set to take effect.
	X *float64 `toml:"x"`
	Y *float64 `toml:"y"`
	// PctScale moves the in-ring percentage text radially.
	PctScale *float64 `toml:"pct_scale"`
}

// HasPosition reports whether the override pins the label box.
func (o LabelOverride) HasPosition() bool { return o.X != nil && o.Y != nil }

// Overrides indexes the label overrides by category name. Later entries win.
func (c ChartsConfig) Overrides() map[string]LabelOverride {
	m := make(map[string]LabelOverride, len(c.Labels))
	for _, o := range c.Labels {
		m[o.Name] = o
	}
	return m
}

func f64(v float64) *float64 { return &v }

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Input: InputConfig{
			Path:           "race.csv",
			LabelColumn:    "Unnamed: 1",
			CategoryColumn: "Color_Variable",
			FilterLabel:    "FTE Headcount Control",
		},
		Output: OutputConfig{
			Dir:          ".",
			DonutSuffix:  "fte_headcount_comparison_updated_labels",
			BinarySuffix: "hispanic_vs_rest_separate",
			BarSuffix:    "fte_numbers_comparison_separate",
		},
		Charts: ChartsConfig{
			// Purdue brand colours without black.
			Palette: []string{
				"#CFB991", // Boilermaker Gold
				"#8E6F3E", // Aged Gold
				"#DAAA00", // Rush
				"#DDB945", // Field
				"#EBD99F", // Dust
				"#9D9795", // Railway Gray
				"#C4BFC0", // Steam
			},
			BinaryCategory:   "Hispanic/Latino",
			BinaryOtherLabel: "Other",
			BinaryColors:     []string{"#DDB945", "#9D9795"},
			DonutSize:        1000,
			BinarySize:       700,
			BarWidth:         1000,
			BarHeight:        1100,
			BarTitle:         "FTE Headcount by Race",
			BarYLabel:        "FTE Headcount",
			Labels: []LabelOverride{
				{Name: "2 or more races", X: f64(1.5), Y: f64(1.6)},
				{Name: "Unknown", X: f64(1.5), Y: f64(-1.6), PctScale: f64(1.1)},
				{Name: "Native Hawaiian or Other Pacific Islander", X: f64(-1.5), Y: f64(-1.6)},
				{Name: "American Indian or Alaska Native", X: f64(-1.5), Y: f64(1.6)},
			},
		},
	}
}

// ResolvePath picks the config file: an explicit path first, then $RACECHARTS_CONFIG, then
// DefaultFile. required is true when the caller named the file and it must exist.
func ResolvePath(explicit string) (path string, required bool) {
	if explicit != "" {
		return explicit, true
	}
	if v := strings.TrimSpace(os.Getenv(EnvConfigPath)); v != "" {
		return v, true
	}
	return DefaultFile, false
}

// Load overlays the TOML file at path onto Default. A missing optional file yields the
// defaults. Arrays in the file (palette, labels) replace the defaults wholesale.
func Load(path string, required bool) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return cfg, nil
		}
		return nil, &ConfigError{Path: path, Msg: "read", Err: err}
	}
	if err := Decode(data, cfg); err != nil {
		return nil, &ConfigError{Path: path, Msg: "decode", Err: err}
	}
	if err := cfg.Validate(); err != nil {
		var ce *ConfigError
		if errors.As(err, &ce) {
			ce.Path = path
		}
		return nil, err
	}
	return cfg, nil
}

// Decode unmarshals TOML onto cfg, rejecting unknown keys so typos surface. Arrays the
// document sets replace the ones already in cfg instead of being appended to.
func Decode(data []byte, cfg *Config) error {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return err
	}
	if charts, ok := raw["charts"].(map[string]any); ok {
		if _, ok := charts["palette"]; ok {
			cfg.Charts.Palette = nil
		}
		if _, ok := charts["binary_colors"]; ok {
			cfg.Charts.BinaryColors = nil
		}
		if _, ok := charts["labels"]; ok {
			cfg.Charts.Labels = nil
		}
	}
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(cfg)
}

// ParseHexColor reads "#RRGGBB" or "RRGGBB" as an opaque colour.
func ParseHexColor(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("colour %q: want 6 hex digits", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("colour %q: not hex", s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// Validate checks the fields the pipeline depends on.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return &ConfigError{Msg: fmt.Sprintf(format, args...)}
	}
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return invalid("log_level %q: want debug, info, warn or error", c.LogLevel)
	}
	if strings.TrimSpace(c.Input.Path) == "" {
		return invalid("input.path is empty")
	}
	if c.Input.LabelColumn == "" || c.Input.CategoryColumn == "" {
		return invalid("input.label_column and input.category_column are required")
	}
	if c.Input.FilterLabel == "" {
		return invalid("input.filter_label is empty")
	}
	if c.Output.DonutSuffix == "" || c.Output.BinarySuffix == "" || c.Output.BarSuffix == "" {
		return invalid("output suffixes must be set")
	}
	if len(c.Charts.Palette) == 0 {
		return invalid("charts.palette is empty")
	}
	for _, col := range c.Charts.Palette {
		if _, err := ParseHexColor(col); err != nil {
			return invalid("charts.palette: %v", err)
		}
	}
	if len(c.Charts.BinaryColors) != 2 {
		return invalid("charts.binary_colors needs exactly 2 colours, got %d", len(c.Charts.BinaryColors))
	}
	for _, col := range c.Charts.BinaryColors {
		if _, err := ParseHexColor(col); err != nil {
			return invalid("charts.binary_colors: %v", err)
		}
	}
	if c.Charts.BinaryCategory == "" {
		return invalid("charts.binary_category is empty")
	}
	if c.Charts.DonutSize <= 0 || c.Charts.BinarySize <= 0 || c.Charts.BarWidth <= 0 || c.Charts.BarHeight <= 0 {
		return invalid("chart sizes must be positive")
	}
	for i, o := range c.Charts.Labels {
		if o.Name == "" {
			return invalid("charts.labels[%d]: name is empty", i)
		}
		if (o.X == nil) != (o.Y == nil) {
			return invalid("charts.labels[%d] (%s): x and y must be set together", i, o.Name)
		}
		if o.PctScale != nil && *o.PctScale <= 0 {
			return invalid("charts.labels[%d] (%s): pct_scale must be positive", i, o.Name)
		}
	}
	return nil
}

// Flags carries command-line values that take precedence over the file. Empty strings and
// nil pointers leave the loaded value alone.
type Flags struct {
	Input    string
	OutDir   string
	LogLevel string
	Footer   *bool
}

// Apply overlays f onto c and re-validates.
func (c *Config) Apply(f Flags) error {
	if f.Input != "" {
		c.Input.Path = f.Input
	}
	if f.OutDir != "" {
		c.Output.Dir = f.OutDir
	}
	if f.LogLevel != "" {
		c.LogLevel = f.LogLevel
	}
	if f.Footer != nil {
		c.Charts.Footer = *f.Footer
	}
	return c.Validate()
}
