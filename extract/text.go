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

package extract

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"seehuhn.de/go/glyphorder/font"
	"seehuhn.de/go/glyphorder/pdf"
)

// textFont holds the information needed to decode strings shown with a
// simple font.
type textFont struct {
	toUnicode [256]string
	widths    [256]float64 // glyph space units
}

// defaultWidth is used for glyphs without width information.  This is the
// width of all glyphs in the Courier fonts.
const defaultWidth = font.GlyphWidth

// makeTextFont reads the encoding and the glyph widths of a simple font.
// Only the base encodings and /Differences arrays are used; ToUnicode maps
// and embedded font programs are ignored.
func makeTextFont(r *pdf.Reader, fontObj pdf.Object) (*textFont, error) {
	dict, err := r.GetDict(fontObj)
	if err != nil {
		return nil, err
	}
	if dict == nil {
		return nil, fmt.Errorf("missing font dictionary")
	}
	if subtype, _ := dict["Subtype"].(pdf.Name); subtype == "Type0" {
		return nil, fmt.Errorf("unsupported font type %s", subtype)
	}

	f := &textFont{}
	decode := font.Decode
	var differences pdf.Array

	enc, err := r.Get(dict["Encoding"])
	if err != nil {
		return nil, err
	}
	switch enc := enc.(type) {
	case pdf.Name:
		decode = baseEncoding(enc)
	case pdf.Dict:
		if base, ok := enc["BaseEncoding"].(pdf.Name); ok {
			decode = baseEncoding(base)
		}
		differences, err = r.GetArray(enc["Differences"])
		if err != nil {
			return nil, err
		}
	}

	for i := range 256 {
		c := decode(byte(i))
		if c == utf8.RuneError || c < 0x20 {
			continue
		}
		f.toUnicode[i] = string(c)
	}

	code := -1
	for _, obj := range differences {
		switch obj := obj.(type) {
		case pdf.Integer:
			code = int(obj)
		case pdf.Name:
			if code >= 0 && code < 256 {
				f.toUnicode[code] = font.GlyphText(string(obj))
				code++
			}
		}
	}

	for i := range f.widths {
		f.widths[i] = defaultWidth
	}
	firstChar, _ := dict["FirstChar"].(pdf.Integer)
	widths, err := r.GetArray(dict["Widths"])
	if err != nil {
		return nil, err
	}
	for i, w := range widths {
		code := int(firstChar) + i
		if code < 0 || code >= 256 {
			continue
		}
		x, err := r.GetNumber(w)
		if err == nil {
			f.widths[code] = x
		}
	}

	return f, nil
}

func baseEncoding(name pdf.Name) func(byte) rune {
	switch name {
	case "MacRomanEncoding":
		return charmap.Macintosh.DecodeByte
	default:
		return font.Decode
	}
}

// decode converts a PDF string into text.  The second return value gives
// the width of every glyph, in glyph space units.
func (f *textFont) decode(s pdf.String) (string, []float64) {
	var text []byte
	widths := make([]float64, len(s))
	for i, c := range s {
		text = append(text, f.toUnicode[c]...)
		widths[i] = f.widths[c]
	}
	return string(text), widths
}
