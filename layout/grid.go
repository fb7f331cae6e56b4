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

// Package layout places text on a fixed-pitch character grid.
//
// Text is wrapped strictly by character count: glyph i of the normalized
// text goes to row i/LineWidth and column i%LineWidth.  Rows which do not
// fit between the top and bottom margin continue on the next page.
package layout

import (
	"errors"
	"fmt"
	"math"
)

// Monospace metrics, relative to the font size.  The standard Courier fonts
// have exactly this advance width.
const (
	CharWidthRatio  = 0.6
	LineHeightRatio = 1.2
)

// ErrNoRoom is returned when the margins leave no room for a single
// character, either horizontally or vertically.
var ErrNoRoom = errors.New("page too small for font size and margin")

// Grid describes the character grid for one page size, margin and font size.
type Grid struct {
	// LineWidth is the number of characters per row.
	LineWidth int

	// RowsPerPage is the number of rows on every page.
	RowsPerPage int

	CharWidth float64
	RowHeight float64

	// OriginX and OriginY give the baseline start of the first row.
	OriginX, OriginY float64

	PageWidth, PageHeight float64
}

// Placement is a character bound to fixed page coordinates.
type Placement struct {
	// Index is the position of the character in the normalized text,
	// counted in runes.
	Index int

	Row, Col int

	// Page is the 0-based page number.  Row counts from the start of the
	// text, not from the start of the page.
	Page int

	X, Y float64
	Char rune
}

// NewGrid computes the character grid for the given page size, margin and
// font size.  All lengths are in PDF points.
func NewGrid(pageWidth, pageHeight, margin, fontSize float64) (*Grid, error) {
	for _, x := range []float64{pageWidth, pageHeight, margin, fontSize} {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, fmt.Errorf("invalid dimension %g", x)
		}
	}
	if fontSize <= 0 {
		return nil, fmt.Errorf("invalid font size %g", fontSize)
	}
	if margin < 0 {
		return nil, fmt.Errorf("invalid margin %g", margin)
	}

	charWidth := CharWidthRatio * fontSize
	lineHeight := LineHeightRatio * fontSize

	lineWidth := math.Floor((pageWidth - 2*margin) / charWidth)
	if lineWidth < 1 {
		return nil, fmt.Errorf("%w: %g pt wide, %g pt margins, %g pt font",
			ErrNoRoom, pageWidth, margin, fontSize)
	}
	textHeight := pageHeight - 2*margin
	if textHeight < 0 {
		return nil, fmt.Errorf("%w: %g pt high, %g pt margins",
			ErrNoRoom, pageHeight, margin)
	}
	rowsPerPage := math.Floor(textHeight/lineHeight) + 1

	g := &Grid{
		LineWidth:   int(min(lineWidth, math.MaxInt32)),
		RowsPerPage: int(min(rowsPerPage, math.MaxInt32)),
		CharWidth:   charWidth,
		RowHeight:   lineHeight,
		OriginX:     margin,
		OriginY:     pageHeight - margin,
		PageWidth:   pageWidth,
		PageHeight:  pageHeight,
	}
	return g, nil
}

// Place assigns grid positions to the characters of text.  The text should
// already be normalized, see [Normalize].
func (g *Grid) Place(text string) []Placement {
	runes := []rune(text)
	res := make([]Placement, len(runes))
	for i, c := range runes {
		row := i / g.LineWidth
		col := i % g.LineWidth
		page := row / g.RowsPerPage
		rowOnPage := row % g.RowsPerPage
		res[i] = Placement{
			Index: i,
			Row:   row,
			Col:   col,
			Page:  page,
			X:     g.OriginX + float64(col)*g.CharWidth,
			Y:     g.OriginY - float64(rowOnPage)*g.RowHeight,
			Char:  c,
		}
	}
	return res
}

// Rows returns the number of rows needed for n characters.
func (g *Grid) Rows(n int) int {
	return (n + g.LineWidth - 1) / g.LineWidth
}

// Pages returns the number of pages needed for n characters.
// At least one page is always used.
func (g *Grid) Pages(n int) int {
	rows := g.Rows(n)
	if rows == 0 {
		return 1
	}
	return (rows + g.RowsPerPage - 1) / g.RowsPerPage
}

// Layout normalizes text and places it on the grid for the given page
// geometry.
func Layout(text string, pageWidth, pageHeight, margin, fontSize float64) (*Grid, []Placement, error) {
	g, err := NewGrid(pageWidth, pageHeight, margin, fontSize)
	if err != nil {
		return nil, nil, err
	}
	return g, g.Place(Normalize(text)), nil
}
