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

// Package document writes glyph command streams as PDF files.
//
// Every glyph is drawn with its own text matrix, so that the glyphs can
// appear in the content stream in any order without changing the look of
// the page.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"time"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/glyphorder/font"
	"seehuhn.de/go/glyphorder/pdf"
	"seehuhn.de/go/glyphorder/render"
)

// Version is the PDF version of the generated files.
const Version = pdf.V1_7

// Producer is written to the document metadata when Options.Producer is
// empty.
const Producer = "seehuhn.de/go/glyphorder"

// Options control the generated PDF file.
type Options struct {
	// Font is the font used for all glyphs.  The default is Courier.
	Font font.Font

	// FontSize is the font size in points.  The default is 12.
	FontSize float64

	// Compress enables Flate compression of the content streams.
	Compress bool

	// MergeRuns combines glyphs which continue the previous glyph on the
	// same line into a single string.  The emission order is not changed.
	MergeRuns bool

	Title    string
	Producer string

	// Mode is stored as a keyword in the document metadata,
	// for example "normal" or "attacked".
	Mode string

	CreationDate time.Time
}

func (opt *Options) withDefaults() *Options {
	res := &Options{}
	if opt != nil {
		*res = *opt
	}
	if res.Font == "" {
		res.Font = font.Courier
	}
	if res.FontSize == 0 {
		res.FontSize = 12
	}
	if res.Producer == "" {
		res.Producer = Producer
	}
	return res
}

// MultiPage is a PDF document which is written one page at a time.
type MultiPage struct {
	Out *pdf.Writer

	pageSize rect.Rect
	opt      *Options

	pagesRef pdf.Reference
	fontRef  pdf.Reference
	kids     pdf.Array

	// Missing lists the characters which could not be represented in the
	// font encoding.  They are drawn as '?'.
	Missing []rune
}

// WriteMultiPage starts a new PDF document.  The pages are added using
// [MultiPage.AddPage] and the document is finished by [MultiPage.Close].
// The caller remains responsible for closing w.
func WriteMultiPage(w io.Writer, pageSize rect.Rect, opt *Options) (*MultiPage, error) {
	out, err := pdf.NewWriter(w, Version)
	if err != nil {
		return nil, err
	}
	return newMultiPage(out, pageSize, opt)
}

// CreateMultiPage is like [WriteMultiPage], but writes to the named file.
// The file is closed by [MultiPage.Close].
func CreateMultiPage(name string, pageSize rect.Rect, opt *Options) (*MultiPage, error) {
	out, err := pdf.Create(name, Version)
	if err != nil {
		return nil, err
	}
	doc, err := newMultiPage(out, pageSize, opt)
	if err != nil {
		out.Abort()
		os.Remove(name)
		return nil, err
	}
	return doc, nil
}

func newMultiPage(out *pdf.Writer, pageSize rect.Rect, opt *Options) (*MultiPage, error) {
	if !(pageSize.Dx() > 0 && pageSize.Dy() > 0) {
		return nil, fmt.Errorf("invalid page size %gx%g", pageSize.Dx(), pageSize.Dy())
	}
	opt = opt.withDefaults()
	if !(opt.FontSize > 0) || math.IsInf(opt.FontSize, 0) {
		return nil, fmt.Errorf("invalid font size %g", opt.FontSize)
	}

	fontRef, err := out.Write(opt.Font.Dict())
	if err != nil {
		return nil, err
	}

	doc := &MultiPage{
		Out:      out,
		pageSize: pageSize,
		opt:      opt,
		pagesRef: out.Alloc(),
		fontRef:  fontRef,
	}
	return doc, nil
}

// AddPage writes one page, drawing the glyphs in the order given.
// The Page field of the commands is ignored.
func (doc *MultiPage) AddPage(cmds []render.Command) error {
	if doc.Out == nil {
		return errClosed
	}

	contentRef := doc.Out.Alloc()
	stm, err := doc.Out.OpenStream(contentRef, nil, doc.opt.Compress)
	if err != nil {
		return err
	}
	_, err = stm.Write(doc.content(cmds))
	if err != nil {
		stm.Close()
		return err
	}
	err = stm.Close()
	if err != nil {
		return err
	}

	pageRef, err := doc.Out.Write(pdf.Dict{
		"Type":     pdf.Name("Page"),
		"Parent":   doc.pagesRef,
		"Contents": contentRef,
		"Resources": pdf.Dict{
			"Font":    pdf.Dict{fontName: doc.fontRef},
			"ProcSet": pdf.Array{pdf.Name("PDF"), pdf.Name("Text")},
		},
	})
	if err != nil {
		return err
	}
	doc.kids = append(doc.kids, pageRef)
	return nil
}

// Close writes the page tree, the document metadata and the file trailer.
// An empty page is added if no pages have been written.
func (doc *MultiPage) Close() error {
	if doc.Out == nil {
		return errClosed
	}
	if len(doc.kids) == 0 {
		err := doc.AddPage(nil)
		if err != nil {
			return err
		}
	}

	err := doc.Out.Put(doc.pagesRef, pdf.Dict{
		"Type":     pdf.Name("Pages"),
		"Kids":     doc.kids,
		"Count":    pdf.Integer(len(doc.kids)),
		"MediaBox": rectArray(doc.pageSize),
	})
	if err != nil {
		return err
	}

	metaRef, err := doc.writeMetadata()
	if err != nil {
		return err
	}
	catalog, err := doc.Out.Write(pdf.Dict{
		"Type":     pdf.Name("Catalog"),
		"Pages":    doc.pagesRef,
		"Metadata": metaRef,
	})
	if err != nil {
		return err
	}

	doc.Out.SetInfo(&pdf.Info{
		Title:        doc.opt.Title,
		Keywords:     doc.opt.Mode,
		Creator:      Producer,
		Producer:     doc.opt.Producer,
		CreationDate: doc.opt.CreationDate,
	})

	out := doc.Out
	doc.Out = nil
	return out.Close(catalog)
}

// Write writes a complete PDF document.  The commands are distributed to
// pages according to their Page field; on every page the glyphs are drawn
// in the order in which they appear in cmds.
func Write(w io.Writer, pageSize rect.Rect, cmds []render.Command, opt *Options) error {
	doc, err := WriteMultiPage(w, pageSize, opt)
	if err != nil {
		return err
	}
	return doc.writeAll(cmds)
}

// Create is like [Write], but writes the document to the named file.
func Create(name string, pageSize rect.Rect, cmds []render.Command, opt *Options) error {
	doc, err := CreateMultiPage(name, pageSize, opt)
	if err != nil {
		return err
	}
	err = doc.writeAll(cmds)
	if err != nil {
		// The file is incomplete.
		if doc.Out != nil {
			doc.Out.Abort()
		}
		os.Remove(name)
		return err
	}
	return nil
}

func (doc *MultiPage) writeAll(cmds []render.Command) error {
	for _, page := range render.Pages(cmds, 1) {
		err := doc.AddPage(page)
		if err != nil {
			return err
		}
	}
	return doc.Close()
}

const fontName = pdf.Name("F1")

// content builds the content stream for one page.
func (doc *MultiPage) content(cmds []render.Command) []byte {
	buf := &bytes.Buffer{}
	if len(cmds) == 0 {
		return buf.Bytes()
	}

	buf.WriteString("BT\n")
	fontName.PDF(buf)
	buf.WriteString(" " + formatNumber(doc.opt.FontSize) + " Tf\n")

	advance := doc.opt.Font.Advance(doc.opt.FontSize)
	for _, run := range doc.runs(cmds, advance) {
		m := matrix.Translate(run.x, run.y)
		for _, x := range m {
			buf.WriteString(formatNumber(x))
			buf.WriteByte(' ')
		}
		buf.WriteString("Tm\n")

		s, missing := font.EncodeString(run.text)
		doc.Missing = append(doc.Missing, missing...)
		s.PDF(buf)
		buf.WriteString(" Tj\n")
	}
	buf.WriteString("ET\n")
	return buf.Bytes()
}

type run struct {
	x, y float64
	text string
}

// runs groups the commands into strings.  Without MergeRuns, every glyph
// forms a run of its own.
func (doc *MultiPage) runs(cmds []render.Command, advance float64) []run {
	var res []run
	var lastX float64
	for i, c := range cmds {
		if doc.opt.MergeRuns && i > 0 {
			prev := &res[len(res)-1]
			if c.Y == prev.y && math.Abs(c.X-(lastX+advance)) < 1e-6 {
				prev.text += string(c.Char)
				lastX = c.X
				continue
			}
		}
		res = append(res, run{x: c.X, y: c.Y, text: string(c.Char)})
		lastX = c.X
	}
	return res
}

func rectArray(r rect.Rect) pdf.Array {
	return pdf.Array{
		pdf.Number(r.LLx), pdf.Number(r.LLy),
		pdf.Number(r.URx), pdf.Number(r.URy),
	}
}

// formatNumber writes coordinates with at most three decimal places, which
// is more than enough precision for glyph positions.
func formatNumber(x float64) string {
	x = math.Round(x*1000) / 1000
	if x == 0 {
		x = 0 // avoid "-0"
	}
	return strconv.FormatFloat(x, 'f', -1, 64)
}

var errClosed = errors.New("document already closed")
