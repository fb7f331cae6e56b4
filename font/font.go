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

// Package font provides the fixed-pitch standard PDF fonts.
//
// The four Courier fonts are part of the 14 standard fonts which every PDF
// viewer must provide, so they never need to be embedded.  All glyphs of
// these fonts have an advance width of 600/1000 em.
package font

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"seehuhn.de/go/postscript/type1/names"

	"seehuhn.de/go/glyphorder/pdf"
)

// Font identifies one of the fixed-pitch standard fonts.
type Font string

// Constants for the fixed-pitch standard PDF fonts.
const (
	Courier            Font = "Courier"
	CourierBold        Font = "Courier-Bold"
	CourierOblique     Font = "Courier-Oblique"
	CourierBoldOblique Font = "Courier-BoldOblique"
)

// All lists the fonts defined in this package.
var All = []Font{
	Courier,
	CourierBold,
	CourierOblique,
	CourierBoldOblique,
}

// GlyphWidth is the advance width of every glyph, in PDF glyph space units
// (1/1000 em).
const GlyphWidth = 600

// Parse finds the font with the given PostScript name.
// The comparison ignores case.
func Parse(name string) (Font, error) {
	for _, f := range All {
		if strings.EqualFold(string(f), name) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown font %q", name)
}

// Advance returns the distance between consecutive glyphs, for the given
// font size.
func (f Font) Advance(size float64) float64 {
	return GlyphWidth * size / 1000
}

// Dict returns the font dictionary for use in a page resource dictionary.
func (f Font) Dict() pdf.Dict {
	return pdf.Dict{
		"Type":     pdf.Name("Font"),
		"Subtype":  pdf.Name("Type1"),
		"BaseFont": pdf.Name(f),
		"Encoding": pdf.Name("WinAnsiEncoding"),
	}
}

// Replacement is the character code used for runes which cannot be
// represented in WinAnsiEncoding.
const Replacement = '?'

// Encode maps a rune to its code in WinAnsiEncoding.
func Encode(r rune) (byte, bool) {
	if r < 0x20 || r == 0x7F {
		return 0, false
	}
	return charmap.Windows1252.EncodeRune(r)
}

// EncodeString converts s into a PDF string in WinAnsiEncoding.
// Runes which cannot be encoded are replaced by [Replacement].
// The second return value lists the runes which were replaced.
func EncodeString(s string) (pdf.String, []rune) {
	res := make(pdf.String, 0, len(s))
	var missing []rune
	for _, r := range s {
		c, ok := Encode(r)
		if !ok {
			c = Replacement
			missing = append(missing, r)
		}
		res = append(res, c)
	}
	return res, missing
}

// Decode maps a WinAnsiEncoding character code back to a rune.
func Decode(c byte) rune {
	return charmap.Windows1252.DecodeByte(c)
}

// GlyphName returns the PostScript glyph name used for r.
func GlyphName(r rune) string {
	return names.FromUnicode(string(r))
}

// GlyphText returns the text represented by a PostScript glyph name.
func GlyphText(name string) string {
	return names.ToUnicode(name, "")
}
