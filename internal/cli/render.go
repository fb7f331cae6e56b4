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
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"seehuhn.de/go/glyphorder"
)

type renderOptions struct {
	flags    *configFlags
	normal   string
	attacked string
}

func newRenderCmd() *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render [flags] [file.txt]",
		Short: "Write the normal and the attacked PDF file for a text",
		Long: `Render reads a text from a file, or from stdin if no file is given,
and writes two PDF files.  The "normal" file draws the glyphs in reading
order.  The "attacked" file draws the same glyphs at the same positions, but
part of them in a shuffled order.

Use "-" as an output file name to write to stdout.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) > 0 {
				name = args[0]
			}
			return runRender(cmd, name, opts)
		},
	}

	opts.flags = addConfigFlags(cmd)
	cmd.Flags().StringVarP(&opts.normal, "normal", "n", "", "output file for the normal rendering")
	cmd.Flags().StringVarP(&opts.attacked, "attacked", "o", "", "output file for the attacked rendering")

	return cmd
}

func runRender(cmd *cobra.Command, name string, opts *renderOptions) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := opts.flags.load(cmd.Flags())
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("normal") {
		cfg.NormalOutput = opts.normal
	}
	if cmd.Flags().Changed("attacked") {
		cfg.AttackedOutput = opts.attacked
	}
	if cfg.NormalOutput == "-" && cfg.AttackedOutput == "-" {
		return errors.New("only one rendering can be written to stdout")
	}
	if cfg.NormalOutput == "" && cfg.AttackedOutput == "" {
		return errors.New("no output files")
	}

	text, err := readText(name, cmd.InOrStdin())
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	job, err := glyphorder.Prepare(text, cfg)
	if err != nil {
		return err
	}
	logStats(logger, job)

	outputs := []struct {
		name  string
		write func(io.Writer) error
	}{
		{job.Config.NormalOutput, job.WriteNormal},
		{job.Config.AttackedOutput, job.WriteAttacked},
	}
	for _, out := range outputs {
		if out.name == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		err := writeOutput(out.name, cmd.OutOrStdout(), out.write)
		if err != nil {
			return fmt.Errorf("%s: %w", out.name, err)
		}
		logger.Debug("wrote", "file", out.name)
	}

	prog.done("rendered", "normal", job.Config.NormalOutput, "attacked", job.Config.AttackedOutput)
	return nil
}

func logStats(logger *log.Logger, job *glyphorder.Job) {
	st := job.Stats()
	logger.Info("layout",
		"glyphs", st.Glyphs,
		"lines", st.Lines,
		"pages", st.Pages,
		"width", st.LineWidth)
	logger.Info("permutation",
		"seed", job.Seed,
		"factor", job.Config.AttackFactor,
		"moved", st.Moved)
	if len(st.Missing) > 0 {
		logger.Warn("characters not in font", "count", len(st.Missing), "chars", string(st.Missing))
	}
}
