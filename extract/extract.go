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

// Package extract reads back the text of PDF files.
//
// Two views of the text are offered.  [Document.StreamText] returns the
// text in the order in which the glyphs appear in the content streams; this
// is what many viewers put on the clipboard.  [Document.SpatialText]
// instead sorts the glyphs by their position on the page.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strings"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/xmp"

	"seehuhn.de/go/glyphorder/document"
	"seehuhn.de/go/glyphorder/pdf"
)

// Run is a string shown by a single text showing operator.
type Run struct {
	Text string

	// X and Y give the start of the baseline, in default user space.
	X, Y float64

	// Glyphs gives the start position of every glyph in the run.
	Glyphs []Glyph
}

// Glyph is a single glyph of a run.
type Glyph struct {
	Text string
	X, Y float64
}

// Document is the text contents of a PDF file.
type Document struct {
	// Pages holds the runs of every page, in content stream order.
	Pages [][]Run

	Title string

	// Mode is the keyword stored by the document writer, if any.
	Mode string

	// Metadata is the XMP metadata of the document, or nil.
	Metadata *xmp.Packet
}

// Open reads the named PDF file.
func Open(name string) (*Document, error) {
	fd, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer fd.Close()
	fi, err := fd.Stat()
	if err != nil {
		return nil, err
	}
	return Read(fd, fi.Size())
}

// Read extracts the text of a PDF file.
func Read(r io.ReaderAt, size int64) (*Document, error) {
	pdfReader, err := pdf.NewReader(r, size)
	if err != nil {
		return nil, err
	}
	e := &extractor{
		r:     pdfReader,
		fonts: make(map[pdf.Reference]*textFont),
		seen:  make(map[pdf.Reference]bool),
	}
	doc := &Document{}

	catalog, err := pdfReader.Catalog()
	if err != nil {
		return nil, err
	}
	err = e.walk(catalog["Pages"], nil, func(runs []Run) {
		doc.Pages = append(doc.Pages, runs)
	})
	if err != nil {
		return nil, err
	}

	info, err := pdfReader.Info()
	if err == nil && info != nil {
		if title, ok := info["Title"].(pdf.String); ok {
			doc.Title = title.AsTextString()
		}
		if kw, ok := info["Keywords"].(pdf.String); ok {
			doc.Mode = kw.AsTextString()
		}
	}

	if catalog["Metadata"] != nil {
		data, err := pdfReader.GetStreamData(catalog["Metadata"])
		if err == nil {
			packet, err := xmp.Read(bytes.NewReader(data))
			if err == nil {
				doc.Metadata = packet
				ns := &document.PDF{}
				packet.Get(ns)
				if ns.Keywords.V != "" {
					doc.Mode = ns.Keywords.V
				}
			}
		}
	}

	return doc, nil
}

// StreamText returns the text of all pages in content stream order.
// No separators are inserted between runs, since the layout draws spaces
// as glyphs.
func (doc *Document) StreamText() string {
	var b strings.Builder
	for _, page := range doc.Pages {
		for _, run := range page {
			b.WriteString(run.Text)
		}
	}
	return b.String()
}

// SpatialLines returns the glyphs of every page sorted into lines, top to
// bottom, and within each line from left to right.
func (doc *Document) SpatialLines() []string {
	var lines []string
	for _, page := range doc.Pages {
		var glyphs []Glyph
		for _, run := range page {
			glyphs = append(glyphs, run.Glyphs...)
		}
		slices.SortStableFunc(glyphs, func(a, b Glyph) int {
			ya, yb := roundPos(a.Y), roundPos(b.Y)
			switch {
			case ya > yb:
				return -1
			case ya < yb:
				return 1
			}
			xa, xb := roundPos(a.X), roundPos(b.X)
			switch {
			case xa < xb:
				return -1
			case xa > xb:
				return 1
			}
			return 0
		})

		var line strings.Builder
		for i, g := range glyphs {
			if i > 0 && roundPos(g.Y) != roundPos(glyphs[i-1].Y) {
				lines = append(lines, line.String())
				line.Reset()
			}
			line.WriteString(g.Text)
		}
		if line.Len() > 0 {
			lines = append(lines, line.String())
		}
	}
	return lines
}

// SpatialText returns the text of all pages, reading the glyphs by their
// position.  Lines are joined without separators, since the layout wraps
// the text strictly by character count.
func (doc *Document) SpatialText() string {
	return strings.Join(doc.SpatialLines(), "")
}

func roundPos(x float64) float64 {
	return math.Round(x*100) / 100
}

type extractor struct {
	r     *pdf.Reader
	fonts map[pdf.Reference]*textFont
	seen  map[pdf.Reference]bool
}

// walk visits the leaves of the page tree in order.
func (e *extractor) walk(node pdf.Object, resources pdf.Object, yield func([]Run)) error {
	if ref, ok := node.(pdf.Reference); ok {
		if e.seen[ref] {
			return errors.New("loop in page tree")
		}
		e.seen[ref] = true
	}
	dict, err := e.r.GetDict(node)
	if err != nil {
		return err
	}
	if dict == nil {
		return errors.New("missing page tree node")
	}
	if res, ok := dict["Resources"]; ok {
		resources = res
	}

	switch dict["Type"] {
	case pdf.Name("Pages"):
		kids, err := e.r.GetArray(dict["Kids"])
		if err != nil {
			return err
		}
		for _, kid := range kids {
			err := e.walk(kid, resources, yield)
			if err != nil {
				return err
			}
		}
		return nil
	case pdf.Name("Page"):
		runs, err := e.page(dict, resources)
		if err != nil {
			return err
		}
		yield(runs)
		return nil
	default:
		return fmt.Errorf("invalid page tree node type %s", pdf.Format(dict["Type"]))
	}
}

func (e *extractor) page(dict pdf.Dict, resources pdf.Object) ([]Run, error) {
	res, err := e.r.GetDict(resources)
	if err != nil {
		return nil, err
	}
	fontDict, err := e.r.GetDict(res["Font"])
	if err != nil {
		return nil, err
	}

	var content []byte
	contents, err := e.r.Get(dict["Contents"])
	if err != nil {
		return nil, err
	}
	var parts []pdf.Object
	switch c := contents.(type) {
	case nil:
	case pdf.Array:
		parts = c
	default:
		parts = []pdf.Object{dict["Contents"]}
	}
	for _, part := range parts {
		data, err := e.r.GetStreamData(part)
		if err != nil {
			return nil, err
		}
		content = append(content, data...)
		content = append(content, '\n')
	}

	st := &textState{
		e:     e,
		fonts: fontDict,
		ctm:   matrix.Translate(0, 0),
		tm:    matrix.Translate(0, 0),
		tlm:   matrix.Translate(0, 0),
		th:    1,
	}
	err = pdf.ScanContent(content, st.do)
	if err != nil {
		return nil, err
	}
	return st.runs, nil
}

func (e *extractor) font(obj pdf.Object) (*textFont, error) {
	ref, isRef := obj.(pdf.Reference)
	if isRef {
		if f, ok := e.fonts[ref]; ok {
			return f, nil
		}
	}
	f, err := makeTextFont(e.r, obj)
	if err != nil {
		return nil, err
	}
	if isRef {
		e.fonts[ref] = f
	}
	return f, nil
}
