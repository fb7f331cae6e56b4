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

package cli

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"seehuhn.de/go/glyphorder/config"
	"seehuhn.de/go/glyphorder/document"
)

// configFlags binds the command line flags which override settings of a
// configuration file.
type configFlags struct {
	file string
	cfg  config.Config
}

func addConfigFlags(cmd *cobra.Command) *configFlags {
	fl := &configFlags{cfg: *config.Default()}
	c := &fl.cfg
	f := cmd.Flags()
	f.StringVarP(&fl.file, "config", "c", "", "read settings from a TOML file")
	f.StringVar(&c.Paper, "paper", c.Paper,
		"paper size ("+strings.Join(document.PaperNames(), ", ")+")")
	f.Float64Var(&c.PageWidth, "page-width", 0, "page width in points (overrides --paper)")
	f.Float64Var(&c.PageHeight, "page-height", 0, "page height in points (overrides --paper)")
	f.Float64Var(&c.Margin, "margin", c.Margin, "page margin in points")
	f.Float64Var(&c.FontSize, "font-size", c.FontSize, "font size in points")
	f.StringVar(&c.Font, "font", c.Font, "fixed-pitch standard font")
	f.Float64VarP(&c.AttackFactor, "factor", "f", c.AttackFactor, "fraction of glyphs drawn out of order")
	f.Uint64VarP(&c.Seed, "seed", "s", c.Seed, "seed for the permutation")
	f.BoolVar(&c.RandomSeed, "random-seed", false, "choose a new seed for every run")
	f.BoolVar(&c.Compress, "compress", c.Compress, "compress the content streams")
	f.BoolVar(&c.MergeRuns, "merge-runs", c.MergeRuns, "combine adjacent glyphs into one show-text operator")
	f.StringVar(&c.Title, "title", "", "document title")
	return fl
}

// load returns the configuration file settings, overridden by all flags
// given on the command line.
func (fl *configFlags) load(flags *pflag.FlagSet) (*config.Config, error) {
	cfg := config.Default()
	if fl.file != "" {
		var err error
		cfg, err = config.Load(fl.file)
		if err != nil {
			return nil, err
		}
	}

	flags.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "paper":
			cfg.Paper = fl.cfg.Paper
			if !flags.Changed("page-width") && !flags.Changed("page-height") {
				cfg.PageWidth, cfg.PageHeight = 0, 0
			}
		case "page-width":
			cfg.PageWidth = fl.cfg.PageWidth
		case "page-height":
			cfg.PageHeight = fl.cfg.PageHeight
		case "margin":
			cfg.Margin = fl.cfg.Margin
		case "font-size":
			cfg.FontSize = fl.cfg.FontSize
		case "font":
			cfg.Font = fl.cfg.Font
		case "factor":
			cfg.AttackFactor = fl.cfg.AttackFactor
		case "seed":
			cfg.Seed = fl.cfg.Seed
			cfg.RandomSeed = false
		case "random-seed":
			cfg.RandomSeed = fl.cfg.RandomSeed
		case "compress":
			cfg.Compress = fl.cfg.Compress
		case "merge-runs":
			cfg.MergeRuns = fl.cfg.MergeRuns
		case "title":
			cfg.Title = fl.cfg.Title
		}
	})
	return cfg, nil
}

// readText reads the input text from the named file, or from in if the
// name is empty or "-".
func readText(name string, in io.Reader) (string, error) {
	if name == "" || name == "-" {
		data, err := io.ReadAll(in)
		return string(data), err
	}
	data, err := os.ReadFile(name)
	return string(data), err
}

var errTerminal = errors.New("refusing to write binary data to a terminal")

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// writeOutput writes binary output to the named file.  The name "-" selects
// stdout.  If writing fails, a partially written file is removed.
func writeOutput(name string, stdout io.Writer, write func(io.Writer) error) error {
	if name == "-" {
		if isTerminal(stdout) {
			return errTerminal
		}
		return write(stdout)
	}

	fd, err := os.Create(name)
	if err != nil {
		return err
	}
	err = write(fd)
	err2 := fd.Close()
	if err == nil {
		err = err2
	}
	if err != nil {
		os.Remove(name)
		return err
	}
	return nil
}
