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
	"compress/zlib"
	"fmt"
	"io"
	"os"
)

// Writer represents a PDF file open for writing.
//
// Objects are written sequentially, in the order in which [Writer.Put]
// is called.  The cross-reference table and the trailer are written by
// [Writer.Close].
type Writer struct {
	Version Version

	w       *posWriter
	closer  io.Closer
	xref    map[int]int64
	nextRef int
	info    *Info

	streamOpen bool
}

// NewWriter prepares a PDF file for writing.
//
// The caller remains responsible for closing w.
func NewWriter(w io.Writer, ver Version) (*Writer, error) {
	if ver < V1_0 || ver > V1_7 {
		return nil, errVersion
	}
	pdf := &Writer{
		Version: ver,

		w:       &posWriter{w: w},
		xref:    make(map[int]int64),
		nextRef: 1,
	}

	_, err := fmt.Fprintf(pdf.w, "%%PDF-%s\n%%\x80\x80\x80\x80\n", ver)
	if err != nil {
		return nil, err
	}
	return pdf, nil
}

// Create creates the named PDF file and opens it for output.  If a previous
// file with the same name exists, it is overwritten.  After writing is
// complete, Close() must be called to write the trailer and to close the
// underlying file.
func Create(name string, ver Version) (*Writer, error) {
	fd, err := os.Create(name)
	if err != nil {
		return nil, err
	}
	pdf, err := NewWriter(fd, ver)
	if err != nil {
		fd.Close()
		return nil, err
	}
	pdf.closer = fd
	return pdf, nil
}

// Alloc allocates an object number for an indirect object.
func (pdf *Writer) Alloc() Reference {
	res := Reference{Number: pdf.nextRef}
	pdf.nextRef++
	return res
}

// Put writes obj to the file, as the indirect object ref.
// The reference must have been obtained from [Writer.Alloc],
// and every reference can be written only once.
func (pdf *Writer) Put(ref Reference, obj Object) error {
	if pdf.w == nil {
		return errClosed
	}
	if pdf.streamOpen {
		return errOpenStream
	}
	if ref.Number <= 0 || ref.Number >= pdf.nextRef {
		return fmt.Errorf("invalid reference %s", ref)
	}
	if _, seen := pdf.xref[ref.Number]; seen {
		return errDuplicateRef
	}

	pos := pdf.w.pos
	_, err := fmt.Fprintf(pdf.w, "%d %d obj\n", ref.Number, ref.Generation)
	if err != nil {
		return err
	}
	if obj == nil {
		_, err = io.WriteString(pdf.w, "null")
	} else {
		err = obj.PDF(pdf.w)
	}
	if err != nil {
		return err
	}
	_, err = io.WriteString(pdf.w, "\nendobj\n")
	if err != nil {
		return err
	}

	pdf.xref[ref.Number] = pos
	return nil
}

// Write allocates a new reference and writes obj to the file.
func (pdf *Writer) Write(obj Object) (Reference, error) {
	ref := pdf.Alloc()
	err := pdf.Put(ref, obj)
	if err != nil {
		return Reference{}, err
	}
	return ref, nil
}

// OpenStream starts a new stream object.  Data written to the returned
// io.WriteCloser forms the stream contents; the object is written to the
// file when the stream is closed.  If compress is true, the data is
// encoded using the FlateDecode filter.
//
// No other objects can be written while the stream is open.
func (pdf *Writer) OpenStream(ref Reference, dict Dict, compress bool) (io.WriteCloser, error) {
	if pdf.w == nil {
		return nil, errClosed
	}
	if pdf.streamOpen {
		return nil, errOpenStream
	}

	s := &streamWriter{
		parent: pdf,
		ref:    ref,
		dict:   Dict{},
	}
	for key, val := range dict {
		s.dict[key] = val
	}
	if compress {
		s.dict["Filter"] = Name("FlateDecode")
		s.zw = zlib.NewWriter(&s.body)
	}

	pdf.streamOpen = true
	return s, nil
}

// SetInfo sets the Document Information Dictionary for the file.
func (pdf *Writer) SetInfo(info *Info) {
	pdf.info = info
}

// Close writes the cross-reference table and the file trailer.  The catalog
// must be the reference of the document catalog dictionary, which must have
// been written before.  If the Writer was obtained from [Create], the
// underlying file is closed, too, even if an error occurs.
//
// After Close has been called, the Writer cannot be used any more.
func (pdf *Writer) Close(catalog Reference) (err error) {
	if pdf.w == nil {
		return errClosed
	}
	defer func() {
		pdf.w = nil
		if pdf.closer != nil {
			closeErr := pdf.closer.Close()
			pdf.closer = nil
			if err == nil {
				err = closeErr
			}
		}
	}()

	if pdf.streamOpen {
		return errOpenStream
	}
	if _, ok := pdf.xref[catalog.Number]; !ok {
		return fmt.Errorf("missing /Catalog %s", catalog)
	}

	trailer := Dict{
		"Size": Integer(pdf.nextRef),
		"Root": catalog,
	}
	if pdf.info != nil {
		infoRef, err := pdf.Write(pdf.info.AsDict())
		if err != nil {
			return err
		}
		trailer["Info"] = infoRef
		trailer["Size"] = Integer(pdf.nextRef)
	}

	xRefPos := pdf.w.pos
	err = pdf.writeXRefTable(trailer)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(pdf.w, "\nstartxref\n%d\n%%%%EOF\n", xRefPos)
	return err
}

// Abort stops writing without completing the file.  If the Writer was
// obtained from [Create], the underlying file is closed but not removed.
func (pdf *Writer) Abort() error {
	if pdf.w == nil {
		return errClosed
	}
	pdf.w = nil
	if pdf.closer != nil {
		err := pdf.closer.Close()
		pdf.closer = nil
		return err
	}
	return nil
}

func (pdf *Writer) writeXRefTable(trailer Dict) error {
	_, err := fmt.Fprintf(pdf.w, "xref\n0 %d\n", pdf.nextRef)
	if err != nil {
		return err
	}
	for i := 0; i < pdf.nextRef; i++ {
		pos, ok := pdf.xref[i]
		if ok {
			_, err = fmt.Fprintf(pdf.w, "%010d %05d n\r\n", pos, 0)
		} else {
			// free object
			_, err = io.WriteString(pdf.w, "0000000000 65535 f\r\n")
		}
		if err != nil {
			return err
		}
	}

	_, err = io.WriteString(pdf.w, "trailer\n")
	if err != nil {
		return err
	}
	return trailer.PDF(pdf.w)
}

type streamWriter struct {
	parent *Writer
	ref    Reference
	dict   Dict
	body   bytes.Buffer
	zw     *zlib.Writer
}

func (s *streamWriter) Write(p []byte) (int, error) {
	if s.zw != nil {
		return s.zw.Write(p)
	}
	return s.body.Write(p)
}

func (s *streamWriter) Close() error {
	if s.zw != nil {
		err := s.zw.Close()
		if err != nil {
			return err
		}
	}
	s.parent.streamOpen = false
	return s.parent.Put(s.ref, &Stream{Dict: s.dict, R: &s.body})
}

type posWriter struct {
	w   io.Writer
	pos int64
}

func (w *posWriter) Write(p []byte) (int, error) {
	n, err := w.w.Write(p)
	w.pos += int64(n)
	return n, err
}
