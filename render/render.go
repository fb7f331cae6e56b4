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

// Package render turns glyph placements into ordered streams of draw
// commands.
//
// The normal stream draws the glyphs in reading order.  The attacked stream
// draws exactly the same glyphs at exactly the same positions, but in the
// order given by a permutation map.
package render

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"seehuhn.de/go/glyphorder/layout"
	"seehuhn.de/go/glyphorder/permute"
)

// Command draws a single glyph at a fixed position.
type Command struct {
	// Page is the 0-based page number.
	Page int

	X, Y float64
	Char rune

	// Index is the position of the glyph in the normalized text.
	Index int
}

func fromPlacement(p layout.Placement) Command {
	return Command{
		Page:  p.Page,
		X:     p.X,
		Y:     p.Y,
		Char:  p.Char,
		Index: p.Index,
	}
}

// Normal emits one command per placement, in reading order.
func Normal(placements []layout.Placement) []Command {
	cmds := make([]Command, len(placements))
	for i, p := range placements {
		cmds[i] = fromPlacement(p)
	}
	return cmds
}

// ErrMismatch is returned by [Attacked] when the permutation map does not
// fit the placements.
var ErrMismatch = errors.New("permutation does not match placements")

// Attacked emits one command per placement, where command j draws the
// glyph placements[P[j]].  The coordinates of every glyph are left
// unchanged.
func Attacked(placements []layout.Placement, P permute.Map) ([]Command, error) {
	if len(P) != len(placements) {
		return nil, fmt.Errorf("%w: %d glyphs, map of length %d",
			ErrMismatch, len(placements), len(P))
	}
	if !P.IsBijection() {
		return nil, fmt.Errorf("%w: map is not a bijection", ErrMismatch)
	}

	cmds := make([]Command, len(placements))
	for j, i := range P {
		cmds[j] = fromPlacement(placements[i])
	}
	return cmds, nil
}

// Text returns the text obtained by reading the glyphs of a command stream
// in emission order.
func Text(cmds []Command) string {
	var b strings.Builder
	for _, c := range cmds {
		b.WriteRune(c.Char)
	}
	return b.String()
}

// Equivalent checks whether two command streams draw the same glyphs at the
// same positions.  The emission order is ignored.
func Equivalent(a, b []Command) bool {
	if len(a) != len(b) {
		return false
	}
	a = slices.Clone(a)
	b = slices.Clone(b)
	slices.SortFunc(a, compareCommands)
	slices.SortFunc(b, compareCommands)
	return slices.Equal(a, b)
}

func compareCommands(a, b Command) int {
	switch {
	case a.Page != b.Page:
		return a.Page - b.Page
	case a.Y != b.Y:
		// top to bottom
		if a.Y > b.Y {
			return -1
		}
		return 1
	case a.X != b.X:
		if a.X < b.X {
			return -1
		}
		return 1
	case a.Char != b.Char:
		return int(a.Char - b.Char)
	default:
		return a.Index - b.Index
	}
}

// Pages splits a command stream by page.  The relative order of the
// commands on each page is preserved.  The result has at least minPages
// entries.
func Pages(cmds []Command, minPages int) [][]Command {
	n := minPages
	for _, c := range cmds {
		n = max(n, c.Page+1)
	}
	res := make([][]Command, n)
	for _, c := range cmds {
		res[c.Page] = append(res[c.Page], c)
	}
	return res
}
