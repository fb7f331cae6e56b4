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
	"errors"
	"fmt"

	"seehuhn.de/go/geom/matrix"

	"seehuhn.de/go/glyphorder/pdf"
)

// textState follows the text related parts of the graphics state while a
// content stream is interpreted.
type textState struct {
	e     *extractor
	fonts pdf.Dict

	ctm   matrix.Matrix
	stack []matrix.Matrix

	tm, tlm matrix.Matrix
	font    *textFont
	size    float64
	tc, tw  float64 // character and word spacing
	th      float64 // horizontal scaling
	tl      float64 // leading
	rise    float64

	runs []Run
}

var errOperands = errors.New("wrong operands")

func (st *textState) do(op string, args []pdf.Object) error {
	nums := make([]float64, 0, len(args))
	for _, arg := range args {
		switch x := arg.(type) {
		case pdf.Integer:
			nums = append(nums, float64(x))
		case pdf.Real:
			nums = append(nums, float64(x))
		}
	}

	var err error
	switch op {
	case "q":
		st.stack = append(st.stack, st.ctm)
	case "Q":
		if n := len(st.stack); n > 0 {
			st.ctm = st.stack[n-1]
			st.stack = st.stack[:n-1]
		}
	case "cm":
		if len(nums) != 6 {
			return opError(op)
		}
		st.ctm = mul(matrix.Matrix(nums), st.ctm)

	case "BT":
		st.tm = matrix.Translate(0, 0)
		st.tlm = st.tm
	case "ET":
	case "Tf":
		if len(args) != 2 || len(nums) != 1 {
			return opError(op)
		}
		name, ok := args[0].(pdf.Name)
		if !ok {
			return opError(op)
		}
		st.font, err = st.e.font(st.fonts[name])
		if err != nil {
			return fmt.Errorf("font %s: %w", name, err)
		}
		st.size = nums[0]
	case "Tc":
		if len(nums) != 1 {
			return opError(op)
		}
		st.tc = nums[0]
	case "Tw":
		if len(nums) != 1 {
			return opError(op)
		}
		st.tw = nums[0]
	case "Tz":
		if len(nums) != 1 {
			return opError(op)
		}
		st.th = nums[0] / 100
	case "TL":
		if len(nums) != 1 {
			return opError(op)
		}
		st.tl = nums[0]
	case "Ts":
		if len(nums) != 1 {
			return opError(op)
		}
		st.rise = nums[0]

	case "Td":
		if len(nums) != 2 {
			return opError(op)
		}
		st.nextLine(nums[0], nums[1])
	case "TD":
		if len(nums) != 2 {
			return opError(op)
		}
		st.tl = -nums[1]
		st.nextLine(nums[0], nums[1])
	case "Tm":
		if len(nums) != 6 {
			return opError(op)
		}
		st.tm = matrix.Matrix(nums)
		st.tlm = st.tm
	case "T*":
		st.nextLine(0, -st.tl)

	case "Tj":
		if len(args) != 1 {
			return opError(op)
		}
		return st.show(args[0])
	case "'":
		if len(args) != 1 {
			return opError(op)
		}
		st.nextLine(0, -st.tl)
		return st.show(args[0])
	case "\"":
		if len(args) != 3 || len(nums) != 2 {
			return opError(op)
		}
		st.tw, st.tc = nums[0], nums[1]
		st.nextLine(0, -st.tl)
		return st.show(args[2])
	case "TJ":
		if len(args) != 1 {
			return opError(op)
		}
		arr, ok := args[0].(pdf.Array)
		if !ok {
			return opError(op)
		}
		return st.show(arr...)
	}
	return nil
}

func opError(op string) error {
	return fmt.Errorf("operator %s: %w", op, errOperands)
}

func (st *textState) nextLine(tx, ty float64) {
	st.tlm = mul(matrix.Translate(tx, ty), st.tlm)
	st.tm = st.tlm
}

// show appends a run for the given strings.  Numbers between the strings
// adjust the position as in the TJ operator.
func (st *textState) show(args ...pdf.Object) error {
	if st.font == nil {
		return errors.New("no font set")
	}

	var run *Run
	for _, arg := range args {
		switch x := arg.(type) {
		case pdf.Integer:
			st.advance(-float64(x) / 1000 * st.size * st.th)
		case pdf.Real:
			st.advance(-float64(x) / 1000 * st.size * st.th)
		case pdf.String:
			if run == nil {
				x0, y0 := st.position()
				st.runs = append(st.runs, Run{X: x0, Y: y0})
				run = &st.runs[len(st.runs)-1]
			}
			text, widths := st.font.decode(x)
			run.Text += text
			for i, c := range x {
				gx, gy := st.position()
				run.Glyphs = append(run.Glyphs, Glyph{
					Text: st.font.toUnicode[c],
					X:    gx,
					Y:    gy,
				})
				w := widths[i]/1000*st.size + st.tc
				if c == ' ' {
					w += st.tw
				}
				st.advance(w * st.th)
			}
		default:
			return opError("TJ")
		}
	}
	return nil
}

func (st *textState) advance(tx float64) {
	st.tm = mul(matrix.Translate(tx, 0), st.tm)
}

// position returns the current text position in default user space.
func (st *textState) position() (float64, float64) {
	m := mul(mul(matrix.Translate(0, st.rise), st.tm), st.ctm)
	return m[4], m[5]
}

// mul returns the matrix product a*b, for PDF transformation matrices
// which act on row vectors.
func mul(a, b matrix.Matrix) matrix.Matrix {
	return matrix.Matrix{
		a[0]*b[0] + a[1]*b[2],
		a[0]*b[1] + a[1]*b[3],
		a[2]*b[0] + a[3]*b[2],
		a[2]*b[1] + a[3]*b[3],
		a[4]*b[0] + a[5]*b[2] + b[4],
		a[4]*b[1] + a[5]*b[3] + b[5],
	}
}
