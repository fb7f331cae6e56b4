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

// Package cli implements the glyphorder command line interface.
//
// The commands are:
//   - render: write the normal and the attacked PDF file for a text
//   - extract: print the text of a PDF file, in stream or in spatial order
//   - preview: rasterize a page and check that both renderings look the same
//   - demo: render a built-in sample text
//
// All commands support --verbose (-v) for debug-level logging.  The logger
// is passed to the commands through context.Context.
package cli

import (
	"context"
	"io"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// version is displayed by --version.  Release builds set it with
// -ldflags "-X seehuhn.de/go/glyphorder/internal/cli.version=...".
var version = "devel"

// Execute runs the command line interface.
func Execute(ctx context.Context) error {
	root := newRootCmd(os.Stdin, os.Stdout, os.Stderr)
	return root.ExecuteContext(ctx)
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "glyphorder",
		Short: "Write PDF files which look right but copy scrambled",
		Long: `glyphorder writes a text into two PDF files.  Both files look the same,
but in the "attacked" file part of the glyphs are drawn out of reading order.
Text extractors which follow the drawing order produce scrambled text.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(stderr, level))
			cmd.SetContext(ctx)
		},
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newRenderCmd())
	root.AddCommand(newExtractCmd())
	root.AddCommand(newPreviewCmd())
	root.AddCommand(newDemoCmd())

	return root
}
