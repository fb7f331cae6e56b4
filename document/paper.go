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

package document

import (
	"slices"
	"strings"

	"golang.org/x/exp/maps"

	"seehuhn.de/go/geom/rect"
)

// Default paper sizes as PDF rectangles.
var (
	A4     = rect.Rect{URx: 595.276, URy: 841.890}
	A5     = rect.Rect{URx: 420.945, URy: 595.276}
	Letter = rect.Rect{URx: 612, URy: 792}
	Legal  = rect.Rect{URx: 612, URy: 1008}
)

var papers = map[string]rect.Rect{
	"a4":     A4,
	"a5":     A5,
	"letter": Letter,
	"legal":  Legal,
}

// Paper returns the paper size with the given name.
// The comparison ignores case.
func Paper(name string) (rect.Rect, bool) {
	r, ok := papers[strings.ToLower(name)]
	return r, ok
}

// PaperNames lists the known paper size names, in alphabetical order.
func PaperNames() []string {
	res := maps.Keys(papers)
	slices.Sort(res)
	return res
}
