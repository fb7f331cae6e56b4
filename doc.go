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

// Package glyphorder writes a text into two PDF files which look the same
// but extract differently.
//
// The "normal" file draws the glyphs of the text in reading order.  The
// "attacked" file draws exactly the same glyphs at exactly the same
// positions, but a fraction of them is drawn out of order.  Viewers and
// text extractors which copy text in content stream order then produce
// scrambled text, while the pages look unchanged:
//
//	job, err := glyphorder.Prepare(text, config.Default())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = job.WriteFiles()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// The processing steps are implemented in separate packages:
//
//   - [layout] normalizes the text and places every glyph on a fixed grid,
//   - [permute] computes the order in which the glyphs are drawn,
//   - [render] combines placements and order into draw commands, and
//   - [document] writes the draw commands as a PDF file.
//
// Extractors which sort glyphs by position are not affected.  The
// [extract] package implements both kinds of extraction.
package glyphorder
