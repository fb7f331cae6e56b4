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
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"seehuhn.de/go/glyphorder"
	"seehuhn.de/go/glyphorder/config"
	"seehuhn.de/go/glyphorder/extract"
)

const sampleText = `The rapid advancement of artificial intelligence has transformed numerous
industries and revolutionized the way we approach complex problems. Machine
learning algorithms have demonstrated remarkable capabilities in pattern
recognition, data analysis, and predictive modeling. These technological
innovations continue to push the boundaries of what was previously thought
impossible, enabling automation and efficiency improvements across various
sectors. As we move forward, the integration of AI systems into our daily
lives becomes increasingly prevalent and sophisticated.`

func newDemoCmd() *cobra.Command {
	var dir string
	var factor float64

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Render a sample text and show the extracted text",
		Long: `Demo renders a built-in sample paragraph into normal.pdf and attacked.pdf,
using the fixed seed 42.  Afterwards, the text of both files is extracted
again and printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			err := os.MkdirAll(dir, 0o755)
			if err != nil {
				return err
			}

			cfg := config.Default()
			cfg.Seed = config.DefaultSeed
			cfg.AttackFactor = factor
			cfg.Title = "glyphorder demo"
			cfg.NormalOutput = filepath.Join(dir, "normal.pdf")
			cfg.AttackedOutput = filepath.Join(dir, "attacked.pdf")

			prog := newProgress(logger)
			job, err := glyphorder.Prepare(sampleText, cfg)
			if err != nil {
				return err
			}
			logStats(logger, job)
			err = job.WriteFiles()
			if err != nil {
				return err
			}
			prog.done("rendered", "dir", dir)

			out := cmd.OutOrStdout()
			for _, name := range []string{cfg.NormalOutput, cfg.AttackedOutput} {
				doc, err := extract.Open(name)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(out, "%s:\n%s\n\n", name, doc.StreamText())
				if err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", "tmp", "output directory")
	cmd.Flags().Float64VarP(&factor, "factor", "f", config.DefaultAttackFactor, "fraction of glyphs drawn out of order")

	return cmd
}
