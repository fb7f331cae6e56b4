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
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"seehuhn.de/go/glyphorder"
	"seehuhn.de/go/glyphorder/preview"
)

type previewOptions struct {
	flags  *configFlags
	out    string
	page   int
	dpi    float64
	normal bool
}

func newPreviewCmd() *cobra.Command {
	opts := &previewOptions{}

	cmd := &cobra.Command{
		Use:   "preview [flags] [file.txt]",
		Short: "Rasterize a page of the attacked rendering",
		Long: `Preview renders one page of a text as a PNG image.  Both renderings are
rasterized and compared pixel by pixel; the command fails if the attacked
rendering does not look exactly like the normal one.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) > 0 {
				name = args[0]
			}
			return runPreview(cmd, name, opts)
		},
	}

	opts.flags = addConfigFlags(cmd)
	cmd.Flags().StringVarP(&opts.out, "output", "o", "preview.png", `output PNG file, or "-" for stdout`)
	cmd.Flags().IntVarP(&opts.page, "page", "p", 1, "page number, starting at 1")
	cmd.Flags().Float64Var(&opts.dpi, "dpi", 72, "image resolution")
	cmd.Flags().BoolVar(&opts.normal, "normal", false, "show the normal instead of the attacked rendering")

	return cmd
}

func runPreview(cmd *cobra.Command, name string, opts *previewOptions) error {
	logger := loggerFromContext(cmd.Context())

	cfg, err := opts.flags.load(cmd.Flags())
	if err != nil {
		return err
	}
	text, err := readText(name, cmd.InOrStdin())
	if err != nil {
		return err
	}
	job, err := glyphorder.Prepare(text, cfg)
	if err != nil {
		return err
	}
	logStats(logger, job)

	st := job.Stats()
	if opts.page < 1 || opts.page > st.Pages {
		return fmt.Errorf("page %d out of range 1-%d", opts.page, st.Pages)
	}

	prog := newProgress(logger)
	pageSize := job.Config.PageSize()
	popt := &preview.Options{FontSize: job.Config.FontSize, DPI: opts.dpi}
	normal, err := preview.Render(pageSize, job.Normal, opts.page-1, popt)
	if err != nil {
		return err
	}
	attacked, err := preview.Render(pageSize, job.Attacked, opts.page-1, popt)
	if err != nil {
		return err
	}
	diff, err := preview.Diff(normal, attacked)
	if err != nil {
		return err
	}
	if diff > 0 {
		return fmt.Errorf("renderings differ in %d pixels", diff)
	}
	logger.Debug("renderings are identical", "page", opts.page)

	img := attacked
	if opts.normal {
		img = normal
	}
	err = writeOutput(opts.out, cmd.OutOrStdout(), func(w io.Writer) error {
		return preview.WritePNG(w, img)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", opts.out, err)
	}

	b := img.Bounds()
	prog.done("wrote preview", "file", opts.out, "width", b.Dx(), "height", b.Dy())
	return nil
}
