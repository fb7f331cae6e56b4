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
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/glyphorder/document"
	"seehuhn.de/go/glyphorder/layout"
	"seehuhn.de/go/glyphorder/pdf"
	"seehuhn.de/go/glyphorder/permute"
	"seehuhn.de/go/glyphorder/render"
)

const sample = `The quick brown fox
	jumps over the lazy dog.  Pack my box with five dozen liquor jugs!`

func writeDoc(t *testing.T, page rect.Rect, cmds []render.Command, opt *document.Options) *Document {
	t.Helper()
	buf := &bytes.Buffer{}
	err := document.Write(buf, page, cmds, opt)
	if err != nil {
		t.Fatal(err)
	}
	doc, err := Read(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestRoundTrip(t *testing.T) {
	pageSize := rect.Rect{URx: 300, URy: 200}
	_, placements, err := layout.Layout(sample, pageSize.Dx(), pageSize.Dy(), 20, 10)
	if err != nil {
		t.Fatal(err)
	}
	text := layout.Normalize(sample)

	P, err := permute.Compute(len(placements), 0.7, permute.NewRand(42))
	if err != nil {
		t.Fatal(err)
	}
	normal := render.Normal(placements)
	attacked, err := render.Attacked(placements, P)
	if err != nil {
		t.Fatal(err)
	}

	for _, merge := range []bool{false, true} {
		opt := &document.Options{FontSize: 10, MergeRuns: merge, Compress: true}

		doc := writeDoc(t, pageSize, normal, opt)
		if got := doc.StreamText(); got != text {
			t.Errorf("normal stream text: %q", got)
		}
		if got := doc.SpatialText(); got != text {
			t.Errorf("normal spatial text: %q", got)
		}

		doc = writeDoc(t, pageSize, attacked, opt)
		if got, want := doc.StreamText(), render.Text(attacked); got != want {
			t.Errorf("attacked stream text:\n%q\nexpected\n%q", got, want)
		}
		if doc.StreamText() == text {
			t.Error("attacked stream text is not scrambled")
		}
		if got := doc.SpatialText(); got != text {
			t.Errorf("attacked spatial text: %q", got)
		}
	}
}

func TestPositions(t *testing.T) {
	_, placements, err := layout.Layout("ab cd", 612, 792, 50, 12)
	if err != nil {
		t.Fatal(err)
	}
	cmds := render.Normal(placements)
	doc := writeDoc(t, document.Letter, cmds, &document.Options{MergeRuns: true})
	if len(doc.Pages) != 1 || len(doc.Pages[0]) != 1 {
		t.Fatalf("wrong runs: %v", doc.Pages)
	}
	run := doc.Pages[0][0]
	if run.Text != "ab cd" || run.X != 50 || run.Y != 742 {
		t.Errorf("wrong run %q at (%g, %g)", run.Text, run.X, run.Y)
	}
	for i, g := range run.Glyphs {
		if roundPos(g.X) != roundPos(cmds[i].X) || g.Y != 742 {
			t.Errorf("glyph %d at (%g, %g), expected (%g, 742)", i, g.X, g.Y, cmds[i].X)
		}
	}
}

func TestMultiPage(t *testing.T) {
	pageSize := rect.Rect{URx: 100, URy: 60}
	_, placements, err := layout.Layout(sample, pageSize.Dx(), pageSize.Dy(), 10, 10)
	if err != nil {
		t.Fatal(err)
	}
	P, err := permute.Compute(len(placements), 1, permute.NewRand(3))
	if err != nil {
		t.Fatal(err)
	}
	attacked, err := render.Attacked(placements, P)
	if err != nil {
		t.Fatal(err)
	}

	doc := writeDoc(t, pageSize, attacked, &document.Options{FontSize: 10})
	wantPages := placements[len(placements)-1].Page + 1
	if len(doc.Pages) != wantPages || wantPages < 2 {
		t.Fatalf("got %d pages, expected %d", len(doc.Pages), wantPages)
	}
	if got := doc.SpatialText(); got != layout.Normalize(sample) {
		t.Errorf("spatial text: %q", got)
	}
}

func TestMetadata(t *testing.T) {
	doc := writeDoc(t, document.A4, nil, &document.Options{
		Title: "Grüße",
		Mode:  "attacked",
	})
	if doc.Title != "Grüße" {
		t.Errorf("wrong title %q", doc.Title)
	}
	if doc.Mode != "attacked" {
		t.Errorf("wrong mode %q", doc.Mode)
	}
	if doc.Metadata == nil {
		t.Error("XMP metadata missing")
	}
	if d := cmp.Diff([][]Run{nil}, doc.Pages); d != "" {
		t.Error(d)
	}
	if doc.StreamText() != "" || doc.SpatialText() != "" {
		t.Error("empty document has text")
	}
}

func TestEncodings(t *testing.T) {
	_, placements, err := layout.Layout("Ünïcödé – 5€", 612, 792, 50, 12)
	if err != nil {
		t.Fatal(err)
	}
	doc := writeDoc(t, document.Letter, render.Normal(placements), nil)
	if got := doc.StreamText(); got != "Ünïcödé – 5€" {
		t.Errorf("wrong text %q", got)
	}
}

// handWritten is a small PDF file using a /Differences encoding, TJ
// arrays and the quote operator.
func handWritten(t *testing.T) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	w, err := pdf.NewWriter(buf, pdf.V1_4)
	if err != nil {
		t.Fatal(err)
	}
	fontRef, err := w.Write(pdf.Dict{
		"Type":     pdf.Name("Font"),
		"Subtype":  pdf.Name("Type1"),
		"BaseFont": pdf.Name("Courier"),
		"Encoding": pdf.Dict{
			"Type":        pdf.Name("Encoding"),
			"Differences": pdf.Array{pdf.Integer(65), pdf.Name("alpha"), pdf.Name("beta")},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	content := `BT /F1 10 Tf 12 TL 10 100 Td [(AB) -600 (C)] TJ (D) ' ET`
	contentRef, err := w.Write(&pdf.Stream{R: bytes.NewReader([]byte(content))})
	if err != nil {
		t.Fatal(err)
	}
	pagesRef := w.Alloc()
	page, err := w.Write(pdf.Dict{
		"Type":      pdf.Name("Page"),
		"Parent":    pagesRef,
		"Contents":  pdf.Array{contentRef},
		"Resources": pdf.Dict{"Font": pdf.Dict{"F1": fontRef}},
		"MediaBox":  pdf.Array{pdf.Integer(0), pdf.Integer(0), pdf.Integer(200), pdf.Integer(200)},
	})
	if err != nil {
		t.Fatal(err)
	}
	err = w.Put(pagesRef, pdf.Dict{
		"Type":  pdf.Name("Pages"),
		"Kids":  pdf.Array{page},
		"Count": pdf.Integer(1),
	})
	if err != nil {
		t.Fatal(err)
	}
	catalog, err := w.Write(pdf.Dict{"Type": pdf.Name("Catalog"), "Pages": pagesRef})
	if err != nil {
		t.Fatal(err)
	}
	err = w.Close(catalog)
	if err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestHandWritten(t *testing.T) {
	data := handWritten(t)
	doc, err := Read(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatal(err)
	}
	if got := doc.StreamText(); got != "αβCD" {
		t.Errorf("wrong text %q", got)
	}

	runs := doc.Pages[0]
	if len(runs) != 2 {
		t.Fatalf("wrong number of runs %d", len(runs))
	}
	// 600/1000*10 per glyph, plus 6 for the -600 adjustment
	wantX := []float64{10, 16, 28}
	for i, g := range runs[0].Glyphs {
		if roundPos(g.X) != wantX[i] || g.Y != 100 {
			t.Errorf("glyph %d at (%g, %g)", i, g.X, g.Y)
		}
	}
	if runs[1].X != 10 || runs[1].Y != 88 {
		t.Errorf("second line at (%g, %g)", runs[1].X, runs[1].Y)
	}
	if got := doc.SpatialLines(); !cmp.Equal(got, []string{"αβC", "D"}) {
		t.Errorf("wrong lines %q", got)
	}
}

func TestMalformed(t *testing.T) {
	data := []byte("%PDF-1.7\nthis is not a PDF file\n")
	_, err := Read(bytes.NewReader(data), int64(len(data)))
	var malformed *pdf.MalformedFileError
	if !errors.As(err, &malformed) {
		t.Errorf("wrong error %v", err)
	}

	_, err = Open(filepath.Join(t.TempDir(), "missing.pdf"))
	if err == nil {
		t.Error("missing file opened")
	}
}
