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

package font

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"seehuhn.de/go/glyphorder/pdf"
)

func TestParse(t *testing.T) {
	for _, f := range All {
		g, err := Parse(string(f))
		if err != nil || g != f {
			t.Errorf("%s: got %q, %v", f, g, err)
		}
	}
	g, err := Parse("courier-bold")
	if err != nil || g != CourierBold {
		t.Errorf("case-insensitive lookup failed: %q, %v", g, err)
	}
	if _, err := Parse("Helvetica"); err == nil {
		t.Error("proportional font accepted")
	}
}

func TestAdvance(t *testing.T) {
	if a := Courier.Advance(12); a != 7.2 {
		t.Errorf("wrong advance %g", a)
	}
}

func TestEncodeString(t *testing.T) {
	cases := []struct {
		in      string
		out     pdf.String
		missing []rune
	}{
		{"", pdf.String{}, nil},
		{"Hello, World!", pdf.String("Hello, World!"), nil},
		{"Bär €5", pdf.String("B\xe4r \x805"), nil},
		{"a→b", pdf.String("a?b"), []rune{'→'}},
		{"中文", pdf.String("??"), []rune{'中', '文'}},
		{"x\ty", pdf.String("x?y"), []rune{'\t'}},
	}
	for _, test := range cases {
		out, missing := EncodeString(test.in)
		if d := cmp.Diff(test.out, out); d != "" {
			t.Errorf("%q: %s", test.in, d)
		}
		if d := cmp.Diff(test.missing, missing); d != "" {
			t.Errorf("%q: %s", test.in, d)
		}
	}
}

func TestDecode(t *testing.T) {
	for c := 0x20; c < 0x7F; c++ {
		if r := Decode(byte(c)); r != rune(c) {
			t.Errorf("%02x: wrong rune %q", c, r)
		}
	}
	for _, r := range []rune{'é', 'ß', '€', '—', '“'} {
		c, ok := Encode(r)
		if !ok {
			t.Errorf("%q cannot be encoded", r)
			continue
		}
		if got := Decode(c); got != r {
			t.Errorf("%q -> %02x -> %q", r, c, got)
		}
	}
}

func TestGlyphNames(t *testing.T) {
	cases := []struct {
		r    rune
		name string
	}{
		{'A', "A"},
		{' ', "space"},
		{'é', "eacute"},
		{'€', "Euro"},
	}
	for _, test := range cases {
		if got := GlyphName(test.r); got != test.name {
			t.Errorf("%q: wrong glyph name %q", test.r, got)
		}
		if got := GlyphText(test.name); got != string(test.r) {
			t.Errorf("%s: wrong text %q", test.name, got)
		}
	}
}

func TestGlyphText(t *testing.T) {
	cases := map[string]string{
		"alpha":     "α",
		"uni03B1":   "α",
		"uni0041":   "A",
		"quoteleft": "‘",
	}
	for name, want := range cases {
		if got := GlyphText(name); got != want {
			t.Errorf("%s: got %q, want %q", name, got, want)
		}
	}
}

func TestDict(t *testing.T) {
	d := CourierOblique.Dict()
	if d["BaseFont"] != pdf.Name("Courier-Oblique") {
		t.Errorf("wrong base font %s", pdf.Format(d["BaseFont"]))
	}
	if d["Encoding"] != pdf.Name("WinAnsiEncoding") {
		t.Errorf("wrong encoding %s", pdf.Format(d["Encoding"]))
	}
}
