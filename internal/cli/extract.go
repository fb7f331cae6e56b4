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
	"strings"

	"github.com/spf13/cobra"

	"seehuhn.de/go/glyphorder/extract"
)

func newExtractCmd() *cobra.Command {
	var spatial bool

	cmd := &cobra.Command{
		Use:   "extract [flags] file.pdf",
		Short: "Print the text of a PDF file",
		Long: `Extract prints the text of a PDF file.  By default, the glyphs are
reported in the order in which the content streams draw them.  With
--spatial, the glyphs are sorted by their position on the page instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			doc, err := extract.Open(args[0])
			if err != nil {
				return err
			}
			logger.Debug("opened", "file", args[0], "pages", len(doc.Pages),
				"title", doc.Title, "mode", doc.Mode)

			var text string
			if spatial {
				text = strings.Join(doc.SpatialLines(), "\n")
			} else {
				text = doc.StreamText()
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
			return err
		},
	}
	cmd.Flags().BoolVar(&spatial, "spatial", false, "sort the glyphs by position")

	return cmd
}
