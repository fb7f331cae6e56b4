// seehuhn.de/go/glyphorder - emission-order scrambling of PDF text
// Copyright (C) 2026  The glyphorder authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package config holds the settings for rendering a text.
//
// Settings can be read from a TOML file.  Missing keys keep their default
// values:
//
//	paper = "a4"
//	margin = 50
//	font_size = 12
//	attack_factor = 0.7
//	seed = 42
package config

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/BurntSushi/toml"
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/glyphorder/document"
	"seehuhn.de/go/glyphorder/font"
	"seehuhn.de/go/glyphorder/layout"
	"seehuhn.de/go/glyphorder/permute"
)

// Config describes one rendering of a text into a normal and an attacked
// PDF file.  All lengths are in PDF points.
type Config struct {
	// Paper is the name of a paper size, see [document.Paper].
	// It is ignored if PageWidth and PageHeight are set.
	Paper      string  `toml:"paper"`
	PageWidth  float64 `toml:"page_width"`
	PageHeight float64 `toml:"page_height"`

	Margin   float64 `toml:"margin"`
	FontSize float64 `toml:"font_size"`
	Font     string  `toml:"font"`

	// AttackFactor is the fraction of glyphs which are drawn out of order.
	AttackFactor float64 `toml:"attack_factor"`

	Seed uint64 `toml:"seed"`

	// RandomSeed selects a new seed for every run, see [Config.ChooseSeed].
	RandomSeed bool `toml:"random_seed"`

	Compress  bool `toml:"compress"`
	MergeRuns bool `toml:"merge_runs"`

	Title          string `toml:"title"`
	NormalOutput   string `toml:"normal_output"`
	AttackedOutput string `toml:"attacked_output"`
}

// Default values.
const (
	DefaultPaper        = "letter"
	DefaultMargin       = 50.0
	DefaultFontSize     = 12.0
	DefaultAttackFactor = 0.7
	DefaultSeed         = 42
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Paper:          DefaultPaper,
		Margin:         DefaultMargin,
		FontSize:       DefaultFontSize,
		Font:           string(font.Courier),
		AttackFactor:   DefaultAttackFactor,
		Seed:           DefaultSeed,
		Compress:       true,
		MergeRuns:      true,
		NormalOutput:   "normal.pdf",
		AttackedOutput: "attacked.pdf",
	}
}

// Load reads a TOML configuration file.  Keys missing from the file keep
// their default values.  Unknown keys are an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err == nil {
		err = checkUndecoded(md)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a TOML configuration from a string.  This is like [Load],
// but reads from memory.
func Parse(data string) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, cfg)
	if err == nil {
		err = checkUndecoded(md)
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// checkUndecoded reports all keys which do not correspond to a
// configuration field.
func checkUndecoded(md toml.MetaData) error {
	undecoded := md.Undecoded()
	if len(undecoded) == 0 {
		return nil
	}
	keys := make([]string, len(undecoded))
	for i, key := range undecoded {
		keys[i] = key.String()
	}
	return fmt.Errorf("unknown keys %s", strings.Join(keys, ", "))
}

// PageSize returns the page size selected by the configuration.
// The result is only meaningful for a valid configuration.
func (c *Config) PageSize() rect.Rect {
	if c.PageWidth > 0 && c.PageHeight > 0 {
		return rect.Rect{URx: c.PageWidth, URy: c.PageHeight}
	}
	r, _ := document.Paper(c.Paper)
	return r
}

// ChooseSeed draws a new seed if RandomSeed is set, and returns the seed
// to use for the permutation.
func (c *Config) ChooseSeed() uint64 {
	if c.RandomSeed {
		c.Seed = rand.Uint64()
		c.RandomSeed = false
	}
	return c.Seed
}

// Validate checks the configuration.  All checks are done before any
// layout work starts, so that invalid settings never produce partial
// output.
func (c *Config) Validate() error {
	if c.PageWidth != 0 || c.PageHeight != 0 {
		if !isPositive(c.PageWidth) {
			return &Error{Field: "page_width", Value: c.PageWidth, Err: errNotPositive}
		}
		if !isPositive(c.PageHeight) {
			return &Error{Field: "page_height", Value: c.PageHeight, Err: errNotPositive}
		}
	} else if _, ok := document.Paper(c.Paper); !ok {
		return &Error{
			Field: "paper",
			Value: c.Paper,
			Err:   fmt.Errorf("unknown paper size, use one of %s", strings.Join(document.PaperNames(), ", ")),
		}
	}

	if !isPositive(c.FontSize) {
		return &Error{Field: "font_size", Value: c.FontSize, Err: errNotPositive}
	}
	if math.IsNaN(c.Margin) || math.IsInf(c.Margin, 0) || c.Margin < 0 {
		return &Error{Field: "margin", Value: c.Margin, Err: errors.New("must not be negative")}
	}
	if _, err := font.Parse(c.Font); err != nil {
		return &Error{Field: "font", Value: c.Font, Err: err}
	}
	if math.IsNaN(c.AttackFactor) || c.AttackFactor < 0 || c.AttackFactor > 1 {
		return &Error{Field: "attack_factor", Value: c.AttackFactor, Err: permute.ErrFactor}
	}

	page := c.PageSize()
	_, err := layout.NewGrid(page.Dx(), page.Dy(), c.Margin, c.FontSize)
	if err != nil {
		return &Error{Field: "margin", Value: c.Margin, Err: err}
	}

	if c.NormalOutput != "" && c.NormalOutput == c.AttackedOutput {
		return &Error{
			Field: "attacked_output",
			Value: c.AttackedOutput,
			Err:   errors.New("same file as normal_output"),
		}
	}
	return nil
}

func isPositive(x float64) bool {
	return x > 0 && !math.IsInf(x, 1)
}
