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

package pdf

import (
	"bytes"
	"errors"
	"path/filepath"
	"regexp"
	"testing"
	"time"
)

const helloContent = `BT
/F1 24 Tf
30 30 Td
(Hello World) Tj
ET
`

// writeHello writes a one-page document to a buffer.
func writeHello(t *testing.T, compress bool) []byte {
	t.Helper()

	out := &bytes.Buffer{}
	w, err := NewWriter(out, V1_7)
	if err != nil {
		t.Fatal(err)
	}

	w.SetInfo(&Info{
		Title:        "PDF Test Document",
		Author:       "Jochen Voß",
		CreationDate: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	})

	font, err := w.Write(Dict{
		"Type":     Name("Font"),
		"Subtype":  Name("Type1"),
		"BaseFont": Name("Courier"),
		"Encoding": Name("WinAnsiEncoding"),
	})
	if err != nil {
		t.Fatal(err)
	}

	contentRef := w.Alloc()
	stream, err := w.OpenStream(contentRef, nil, compress)
	if err != nil {
		t.Fatal(err)
	}
	_, err = stream.Write([]byte(helloContent))
	if err != nil {
		t.Fatal(err)
	}
	err = stream.Close()
	if err != nil {
		t.Fatal(err)
	}

	pagesRef := w.Alloc()
	page, err := w.Write(Dict{
		"Type":      Name("Page"),
		"MediaBox":  Array{Integer(0), Integer(0), Integer(200), Integer(100)},
		"Resources": Dict{"Font": Dict{"F1": font}},
		"Contents":  contentRef,
		"Parent":    pagesRef,
	})
	if err != nil {
		t.Fatal(err)
	}
	err = w.Put(pagesRef, Dict{
		"Type":  Name("Pages"),
		"Kids":  Array{page},
		"Count": Integer(1),
	})
	if err != nil {
		t.Fatal(err)
	}

	catalog, err := w.Write(Dict{
		"Type":  Name("Catalog"),
		"Pages": pagesRef,
	})
	if err != nil {
		t.Fatal(err)
	}
	err = w.Close(catalog)
	if err != nil {
		t.Fatal(err)
	}

	return out.Bytes()
}

func checkHello(t *testing.T, r *Reader) {
	t.Helper()

	catalog, err := r.Catalog()
	if err != nil {
		t.Fatal(err)
	}
	if catalog["Type"] != Name("Catalog") {
		t.Errorf("wrong catalog type %s", Format(catalog["Type"]))
	}
	pages, err := r.GetDict(catalog["Pages"])
	if err != nil {
		t.Fatal(err)
	}
	kids, err := r.GetArray(pages["Kids"])
	if err != nil {
		t.Fatal(err)
	}
	if len(kids) != 1 {
		t.Fatalf("wrong number of pages: %d", len(kids))
	}
	page, err := r.GetDict(kids[0])
	if err != nil {
		t.Fatal(err)
	}
	width, err := r.GetNumber(page["MediaBox"].(Array)[2])
	if err != nil || width != 200 {
		t.Errorf("wrong page width %g (%v)", width, err)
	}

	// read the stream twice, to make sure the data is not used up
	for range 2 {
		data, err := r.GetStreamData(page["Contents"])
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != helloContent {
			t.Errorf("wrong content stream %q", data)
		}
	}

	info, err := r.Info()
	if err != nil {
		t.Fatal(err)
	}
	title, _ := info["Title"].(String)
	if got := title.AsTextString(); got != "PDF Test Document" {
		t.Errorf("wrong title %q", got)
	}
	author, _ := info["Author"].(String)
	if got := author.AsTextString(); got != "Jochen Voß" {
		t.Errorf("wrong author %q", got)
	}
}

func TestRoundTrip(t *testing.T) {
	for _, compress := range []bool{false, true} {
		data := writeHello(t, compress)
		r, err := NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			t.Fatal(err)
		}
		if r.Version != V1_7 {
			t.Errorf("wrong version %s", r.Version)
		}
		checkHello(t, r)

		if !compress && !bytes.Contains(data, []byte("(Hello World) Tj")) {
			t.Error("uncompressed content not found")
		}
	}
}

func TestReconstructXRef(t *testing.T) {
	data := writeHello(t, true)
	startxref := regexp.MustCompile(`startxref\n\d+`)
	data = startxref.ReplaceAll(data, []byte("startxref\n9999999"))

	r, err := NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatal(err)
	}
	checkHello(t, r)
}

func TestNotPDF(t *testing.T) {
	for _, in := range []string{"", "hello world\n", "%PDF-1.7\n"} {
		_, err := NewReader(bytes.NewReader([]byte(in)), int64(len(in)))
		var malformed *MalformedFileError
		if !errors.As(err, &malformed) {
			t.Errorf("%q: expected MalformedFileError, got %v", in, err)
		}
	}
}

func TestWriterErrors(t *testing.T) {
	out := &bytes.Buffer{}
	w, err := NewWriter(out, V1_4)
	if err != nil {
		t.Fatal(err)
	}

	ref := w.Alloc()
	err = w.Put(ref, Integer(1))
	if err != nil {
		t.Fatal(err)
	}
	err = w.Put(ref, Integer(2))
	if err != errDuplicateRef {
		t.Errorf("duplicate object: wrong error %v", err)
	}
	err = w.Put(Reference{Number: 100}, Integer(3))
	if err == nil {
		t.Error("unallocated reference accepted")
	}

	stm, err := w.OpenStream(w.Alloc(), nil, false)
	if err != nil {
		t.Fatal(err)
	}
	_, err = w.Write(Integer(4))
	if err != errOpenStream {
		t.Errorf("open stream: wrong error %v", err)
	}
	err = stm.Close()
	if err != nil {
		t.Fatal(err)
	}

	err = w.Close(Reference{Number: 99})
	if err == nil {
		t.Error("missing catalog accepted")
	}

	_, err = NewWriter(out, Version(20))
	if err != errVersion {
		t.Errorf("wrong error %v", err)
	}
}

func TestCreate(t *testing.T) {
	name := filepath.Join(t.TempDir(), "test.pdf")
	w, err := Create(name, V1_7)
	if err != nil {
		t.Fatal(err)
	}
	catalog, err := w.Write(Dict{"Type": Name("Catalog")})
	if err != nil {
		t.Fatal(err)
	}
	err = w.Close(catalog)
	if err != nil {
		t.Fatal(err)
	}
	err = w.Close(catalog)
	if err != errClosed {
		t.Errorf("second close: wrong error %v", err)
	}
}

type countingCloser struct{ n int }

func (c *countingCloser) Close() error {
	c.n++
	return nil
}

type limitWriter struct{ n int }

var errDiskFull = errors.New("disk full")

func (w *limitWriter) Write(p []byte) (int, error) {
	if len(p) > w.n {
		return 0, errDiskFull
	}
	w.n -= len(p)
	return len(p), nil
}

func TestCloseReleasesFile(t *testing.T) {
	cases := []struct {
		name  string
		setup func(w *Writer) Reference
		limit int
	}{
		{"missing catalog", func(w *Writer) Reference {
			return Reference{Number: 99}
		}, 1 << 20},
		{"open stream", func(w *Writer) Reference {
			catalog, _ := w.Write(Dict{"Type": Name("Catalog")})
			w.OpenStream(w.Alloc(), nil, false)
			return catalog
		}, 1 << 20},
		{"write error", func(w *Writer) Reference {
			catalog, _ := w.Write(Dict{"Type": Name("Catalog")})
			w.SetInfo(&Info{Title: "test"})
			return catalog
		}, 60},
		{"success", func(w *Writer) Reference {
			catalog, _ := w.Write(Dict{"Type": Name("Catalog")})
			return catalog
		}, 1 << 20},
	}
	for _, test := range cases {
		t.Run(test.name, func(t *testing.T) {
			w, err := NewWriter(&limitWriter{n: test.limit}, V1_7)
			if err != nil {
				t.Fatal(err)
			}
			c := &countingCloser{}
			w.closer = c

			catalog := test.setup(w)
			err = w.Close(catalog)
			if (err != nil) != (test.name != "success") {
				t.Errorf("unexpected error %v", err)
			}
			if c.n != 1 {
				t.Errorf("file closed %d times", c.n)
			}

			err = w.Close(catalog)
			if err != errClosed {
				t.Errorf("second close: wrong error %v", err)
			}
			if c.n != 1 {
				t.Errorf("file closed %d times after second close", c.n)
			}
		})
	}
}

func TestAbort(t *testing.T) {
	w, err := NewWriter(&bytes.Buffer{}, V1_7)
	if err != nil {
		t.Fatal(err)
	}
	c := &countingCloser{}
	w.closer = c

	err = w.Abort()
	if err != nil {
		t.Fatal(err)
	}
	if c.n != 1 {
		t.Errorf("file closed %d times", c.n)
	}
	if _, err := w.Write(Integer(1)); err != errClosed {
		t.Errorf("write after abort: wrong error %v", err)
	}
	if err := w.Abort(); err != errClosed {
		t.Errorf("second abort: wrong error %v", err)
	}
}
