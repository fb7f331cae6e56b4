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

package render

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/glyphorder/layout"
	"seehuhn.de/go/glyphorder/permute"
)

func place(t *testing.T, text string, width float64) []layout.Placement {
	t.Helper()
	_, placements, err := layout.Layout(text, width, 200, 10, 10)
	if err != nil {
		t.Fatal(err)
	}
	return placements
}

func TestNormal(t *testing.T) {
	text := "The quick brown fox jumps over the lazy dog."
	placements := place(t, text, 80)
	cmds := Normal(placements)
	if got := Text(cmds); got != text {
		t.Errorf("wrong text %q", got)
	}
	for i, c := range cmds {
		if c.Index != i {
			t.Errorf("command %d draws glyph %d", i, c.Index)
		}
	}
}

func TestAttacked(t *testing.T) {
	text := "ABCDEFGHIJ"
	placements := place(t, text, 44) // four glyphs per line
	runes := []rune(text)

	for seed := range uint64(10) {
		P, err := permute.Compute(len(placements), 0.5, permute.NewRand(seed))
		if err != nil {
			t.Fatal(err)
		}
		normal := Normal(placements)
		attacked, err := Attacked(placements, P)
		if err != nil {
			t.Fatal(err)
		}

		// The attacked stream reads as text[P[0]], text[P[1]], ...
		want := make([]rune, len(P))
		for j, i := range P {
			want[j] = runes[i]
		}
		if got := Text(attacked); got != string(want) {
			t.Errorf("wrong attacked text %q, expected %q", got, string(want))
		}

		// Every glyph keeps its position.
		for _, c := range attacked {
			n := normal[c.Index]
			if d := cmp.Diff(n, c); d != "" {
				t.Errorf("glyph %d moved: %s", c.Index, d)
			}
		}
		if !Equivalent(normal, attacked) {
			t.Error("attacked stream is not visually equivalent")
		}
	}
}

func TestAttackedFull(t *testing.T) {
	text := "glyph order"
	placements := place(t, text, 200)
	P, err := permute.Compute(len(placements), 1, permute.NewRand(7))
	if err != nil {
		t.Fatal(err)
	}
	attacked, err := Attacked(placements, P)
	if err != nil {
		t.Fatal(err)
	}
	if !Equivalent(Normal(placements), attacked) {
		t.Error("attacked stream is not visually equivalent")
	}
}

func TestEmpty(t *testing.T) {
	placements := place(t, "  \n\t ", 100)
	if len(placements) != 0 {
		t.Fatalf("blank text gave %d placements", len(placements))
	}
	P, err := permute.Compute(0, 0.7, permute.NewRand(1))
	if err != nil {
		t.Fatal(err)
	}
	attacked, err := Attacked(placements, P)
	if err != nil {
		t.Fatal(err)
	}
	if len(Normal(placements)) != 0 || len(attacked) != 0 {
		t.Error("empty text produced draw commands")
	}
	if pages := Pages(attacked, 1); len(pages) != 1 || len(pages[0]) != 0 {
		t.Errorf("wrong pages for empty text: %v", pages)
	}
}

func TestAttackedMismatch(t *testing.T) {
	placements := place(t, "abc", 100)
	for _, P := range []permute.Map{{0, 1}, {0, 1, 1}, {0, 1, 3}} {
		_, err := Attacked(placements, P)
		if !errors.Is(err, ErrMismatch) {
			t.Errorf("%v: wrong error %v", P, err)
		}
	}
}

func TestEquivalent(t *testing.T) {
	a := []Command{
		{X: 1, Y: 10, Char: 'a', Index: 0},
		{X: 2, Y: 10, Char: 'b', Index: 1},
	}
	b := []Command{a[1], a[0]}
	if !Equivalent(a, b) {
		t.Error("reordered stream not equivalent")
	}
	c := []Command{a[0], {X: 3, Y: 10, Char: 'b', Index: 1}}
	if Equivalent(a, c) {
		t.Error("moved glyph not detected")
	}
	if Equivalent(a, a[:1]) {
		t.Error("missing glyph not detected")
	}
}

func TestPages(t *testing.T) {
	cmds := []Command{
		{Page: 1, Index: 5},
		{Page: 0, Index: 2},
		{Page: 1, Index: 3},
		{Page: 0, Index: 0},
	}
	got := Pages(cmds, 1)
	want := [][]Command{
		{{Page: 0, Index: 2}, {Page: 0, Index: 0}},
		{{Page: 1, Index: 5}, {Page: 1, Index: 3}},
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Error(d)
	}
}
