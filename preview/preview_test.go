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

package preview

import (
	"bytes"
	"image/png"
	"testing"

	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/glyphorder/layout"
	"seehuhn.de/go/glyphorder/permute"
	"seehuhn.de/go/glyphorder/render"
)

var pageSize = rect.Rect{URx: 200, URy: 100}

func streams(t *testing.T, text string) ([]render.Command, []render.Command) {
	t.Helper()
	_, placements, err := layout.Layout(text, pageSize.Dx(), pageSize.Dy(), 10, 10)
	if err != nil {
		t.Fatal(err)
	}
	P, err := permute.Compute(len(placements), 1, permute.NewRand(1))
	if err != nil {
		t.Fatal(err)
	}
	attacked, err := render.Attacked(placements, P)
	if err != nil {
		t.Fatal(err)
	}
	return render.Normal(placements), attacked
}

func countInk(t *testing.T, cmds []render.Command, page int) int {
	t.Helper()
	img, err := Render(pageSize, cmds, page, &Options{FontSize: 10, DPI: 144})
	if err != nil {
		t.Fatal(err)
	}
	ink := 0
	for _, c := range img.Pix {
		if c < 128 {
			ink++
		}
	}
	return ink
}

func TestParity(t *testing.T) {
	normal, attacked := streams(t, "Sphinx of black quartz, judge my vow. The five boxing wizards jump quickly.")

	opt := &Options{FontSize: 10, DPI: 144}
	a, err := Render(pageSize, normal, 0, opt)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Render(pageSize, attacked, 0, opt)
	if err != nil {
		t.Fatal(err)
	}
	if a.Rect.Dx() != 400 || a.Rect.Dy() != 200 {
		t.Errorf("wrong image size %v", a.Rect)
	}
	n, err := Diff(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("%d pixels differ", n)
	}
}

func TestInk(t *testing.T) {
	normal, _ := streams(t, "ink")
	if countInk(t, normal, 0) == 0 {
		t.Error("no glyphs drawn")
	}
	if countInk(t, normal, 1) != 0 {
		t.Error("glyphs drawn on the wrong page")
	}
	if countInk(t, nil, 0) != 0 {
		t.Error("empty page is not blank")
	}
}

func TestInvalid(t *testing.T) {
	_, err := Render(rect.Rect{}, nil, 0, nil)
	if err == nil {
		t.Error("empty page accepted")
	}
	_, err = Render(pageSize, nil, 0, &Options{DPI: -1})
	if err == nil {
		t.Error("negative resolution accepted")
	}
}

func TestWritePNG(t *testing.T) {
	normal, _ := streams(t, "png")
	img, err := Render(pageSize, normal, 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	buf := &bytes.Buffer{}
	err = WritePNG(buf, img)
	if err != nil {
		t.Fatal(err)
	}
	dec, err := png.Decode(buf)
	if err != nil {
		t.Fatal(err)
	}
	if dec.Bounds() != img.Bounds() {
		t.Errorf("wrong bounds %v", dec.Bounds())
	}
}
