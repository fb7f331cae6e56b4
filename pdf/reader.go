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
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
)

// Reader gives access to the objects of a PDF file.
//
// The whole file is held in memory.  Files which use a classic
// cross-reference table are read directly; for other files (for example
// files with cross-reference streams) the object table is reconstructed by
// scanning the file for "n g obj" markers.  Objects stored inside object
// streams are not supported.
type Reader struct {
	Version Version

	data    []byte
	xref    map[int]int
	trailer Dict
	cache   map[int]cached
}

// cached holds a parsed indirect object.  Stream data is kept separately,
// so that every lookup can be given a fresh reader.
type cached struct {
	obj  Object
	body []byte
}

// NewReader reads a PDF file from r.
func NewReader(r io.ReaderAt, size int64) (*Reader, error) {
	data, err := io.ReadAll(io.NewSectionReader(r, 0, size))
	if err != nil {
		return nil, err
	}
	return newReader(data)
}

func newReader(data []byte) (*Reader, error) {
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return nil, malformed(0, "missing PDF header")
	}
	eol := bytes.IndexAny(data, "\r\n")
	if eol < 0 {
		return nil, malformed(0, "missing PDF header")
	}
	ver, err := ParseVersion(string(bytes.TrimSpace(data[5:eol])))
	if err != nil {
		// Newer files are read on a best-effort basis.
		ver = V1_7
	}

	r := &Reader{
		Version: ver,
		data:    data,
		xref:    make(map[int]int),
		cache:   make(map[int]cached),
	}

	err = r.readXRef()
	if err != nil {
		// Fall back to reconstructing the cross-reference information.
		err = r.reconstructXRef()
		if err != nil {
			return nil, err
		}
	}
	if _, ok := r.trailer["Root"].(Reference); !ok {
		return nil, malformed(0, "missing /Root in trailer")
	}
	return r, nil
}

// Trailer returns the trailer dictionary of the file.
func (r *Reader) Trailer() Dict {
	return r.trailer
}

// Catalog returns the document catalog.
func (r *Reader) Catalog() (Dict, error) {
	return r.GetDict(r.trailer["Root"])
}

// Info returns the document information dictionary, or nil if there is none.
func (r *Reader) Info() (Dict, error) {
	return r.GetDict(r.trailer["Info"])
}

// Get resolves indirect references.  All other objects are returned
// unchanged.  References to missing objects resolve to nil, the null object.
func (r *Reader) Get(obj Object) (Object, error) {
	for range 16 {
		ref, ok := obj.(Reference)
		if !ok {
			return obj, nil
		}
		var err error
		obj, err = r.getIndirect(ref)
		if err != nil {
			return nil, err
		}
	}
	return nil, errors.New("too many levels of indirection")
}

// GetDict resolves references and makes sure the result is a dictionary.
// A null object gives a nil dictionary.
func (r *Reader) GetDict(obj Object) (Dict, error) {
	obj, err := r.Get(obj)
	if err != nil {
		return nil, err
	}
	switch x := obj.(type) {
	case nil:
		return nil, nil
	case Dict:
		return x, nil
	case *Stream:
		return x.Dict, nil
	default:
		return nil, fmt.Errorf("wrong type, expected Dict but got %T", obj)
	}
}

// GetArray resolves references and makes sure the result is an array.
func (r *Reader) GetArray(obj Object) (Array, error) {
	obj, err := r.Get(obj)
	if err != nil {
		return nil, err
	}
	switch x := obj.(type) {
	case nil:
		return nil, nil
	case Array:
		return x, nil
	default:
		return nil, fmt.Errorf("wrong type, expected Array but got %T", obj)
	}
}

// GetNumber resolves references and converts integers and reals to float64.
func (r *Reader) GetNumber(obj Object) (float64, error) {
	obj, err := r.Get(obj)
	if err != nil {
		return 0, err
	}
	switch x := obj.(type) {
	case Integer:
		return float64(x), nil
	case Real:
		return float64(x), nil
	default:
		return 0, fmt.Errorf("wrong type, expected number but got %T", obj)
	}
}

// GetStreamData resolves references and returns the decoded contents of a
// stream.  Only the FlateDecode filter is supported.
func (r *Reader) GetStreamData(obj Object) ([]byte, error) {
	obj, err := r.Get(obj)
	if err != nil {
		return nil, err
	}
	stm, ok := obj.(*Stream)
	if !ok {
		return nil, fmt.Errorf("wrong type, expected Stream but got %T", obj)
	}
	raw, err := io.ReadAll(stm.R)
	if err != nil {
		return nil, err
	}

	filters, err := r.Get(stm.Dict["Filter"])
	if err != nil {
		return nil, err
	}
	var names []Name
	switch f := filters.(type) {
	case nil:
	case Name:
		names = []Name{f}
	case Array:
		for _, elem := range f {
			elem, err := r.Get(elem)
			if err != nil {
				return nil, err
			}
			name, ok := elem.(Name)
			if !ok {
				return nil, fmt.Errorf("invalid filter %s", Format(elem))
			}
			names = append(names, name)
		}
	default:
		return nil, fmt.Errorf("invalid filter %s", Format(f))
	}

	data := raw
	for _, name := range names {
		switch name {
		case "FlateDecode", "Fl":
			zr, err := zlib.NewReader(bytes.NewReader(data))
			if err != nil {
				return nil, err
			}
			data, err = io.ReadAll(zr)
			if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("unsupported filter %q", name)
		}
	}
	return data, nil
}

func (r *Reader) getIndirect(ref Reference) (Object, error) {
	c, ok := r.cache[ref.Number]
	if !ok {
		pos, ok := r.xref[ref.Number]
		if !ok || pos < 0 {
			return nil, nil
		}
		num, obj, body, err := r.parseIndirect(pos)
		if err != nil {
			return nil, err
		}
		if num != ref.Number {
			return nil, malformed(pos, "wrong object number in xref table")
		}
		c = cached{obj: obj, body: body}
		r.cache[ref.Number] = c
	}

	if stm, isStream := c.obj.(*Stream); isStream {
		return &Stream{Dict: stm.Dict, R: bytes.NewReader(c.body)}, nil
	}
	return c.obj, nil
}

// parseIndirect reads the indirect object "n g obj ... endobj" at pos.
// For stream objects, the raw stream data is returned as well.
func (r *Reader) parseIndirect(pos int) (int, Object, []byte, error) {
	if pos >= len(r.data) {
		return 0, nil, nil, malformed(pos, "object offset out of range")
	}
	s := newScanner(r.data, pos)
	num, err1 := s.nextToken()
	gen, err2 := s.nextToken()
	kw, err3 := s.nextToken()
	n, ok1 := num.(Integer)
	_, ok2 := gen.(Integer)
	if err := errors.Join(err1, err2, err3); err != nil || !ok1 || !ok2 || kw != operator("obj") {
		return 0, nil, nil, &MalformedFileError{Pos: int64(pos), Err: errNotIndirect}
	}

	obj, err := s.readObject(true)
	if err != nil {
		return 0, nil, nil, err
	}

	var body []byte
	tok, err := s.nextToken()
	if err == nil && tok == operator("stream") {
		dict, ok := obj.(Dict)
		if !ok {
			return 0, nil, nil, malformed(s.pos, "stream without dictionary")
		}
		body, err = r.streamBody(s, dict)
		if err != nil {
			return 0, nil, nil, err
		}
		obj = &Stream{Dict: dict, R: bytes.NewReader(body)}
	}

	return int(n), obj, body, nil
}

func (r *Reader) streamBody(s *scanner, dict Dict) ([]byte, error) {
	// The keyword "stream" is followed by CRLF or LF.
	if s.pos < len(s.buf) && s.buf[s.pos] == '\r' {
		s.pos++
	}
	if s.pos < len(s.buf) && s.buf[s.pos] == '\n' {
		s.pos++
	}
	start := s.pos

	length := -1
	if lenObj, err := r.Get(dict["Length"]); err == nil {
		if l, ok := lenObj.(Integer); ok {
			length = int(l)
		}
	}
	if length >= 0 && start+length <= len(s.buf) {
		tail := bytes.TrimLeft(s.buf[start+length:], "\r\n \t")
		if bytes.HasPrefix(tail, []byte("endstream")) {
			return s.buf[start : start+length], nil
		}
	}

	// The length is missing or wrong; search for the end marker instead.
	idx := bytes.Index(s.buf[start:], []byte("endstream"))
	if idx < 0 {
		return nil, malformed(start, "unterminated stream")
	}
	body := s.buf[start : start+idx]
	body = bytes.TrimSuffix(body, []byte("\n"))
	body = bytes.TrimSuffix(body, []byte("\r"))
	return body, nil
}

func (r *Reader) readXRef() error {
	idx := bytes.LastIndex(r.data, []byte("startxref"))
	if idx < 0 {
		return malformed(0, "missing startxref")
	}
	s := newScanner(r.data, idx+len("startxref"))
	tok, err := s.nextToken()
	if err != nil {
		return err
	}
	start, ok := tok.(Integer)
	if !ok {
		return malformed(s.pos, "invalid startxref")
	}

	seen := make(map[int]bool)
	pos := int(start)
	for {
		if seen[pos] {
			return malformed(pos, "loop in xref chain")
		}
		seen[pos] = true

		trailer, err := r.readXRefSection(pos)
		if err != nil {
			return err
		}
		if r.trailer == nil {
			r.trailer = trailer
		}

		prev, ok := trailer["Prev"].(Integer)
		if !ok {
			break
		}
		pos = int(prev)
	}
	return nil
}

// readXRefSection reads one classic cross-reference section.  Entries
// already present (from a later update) take precedence.
func (r *Reader) readXRefSection(pos int) (Dict, error) {
	s := newScanner(r.data, pos)
	tok, err := s.nextToken()
	if err != nil || tok != operator("xref") {
		return nil, malformed(pos, "cross-reference table not found")
	}

	for {
		tok, err := s.nextToken()
		if err != nil {
			return nil, err
		}
		if tok == operator("trailer") {
			break
		}
		first, ok1 := tok.(Integer)
		countTok, err := s.nextToken()
		count, ok2 := countTok.(Integer)
		if err != nil || !ok1 || !ok2 || first < 0 || count < 0 {
			return nil, malformed(s.pos, "invalid xref subsection header")
		}
		for i := 0; i < int(count); i++ {
			offTok, err1 := s.nextToken()
			_, err2 := s.nextToken()
			typ, err3 := s.nextToken()
			off, ok := offTok.(Integer)
			if errors.Join(err1, err2, err3) != nil || !ok {
				return nil, malformed(s.pos, "invalid xref entry")
			}
			num := int(first) + i
			if _, seen := r.xref[num]; seen {
				continue
			}
			switch typ {
			case operator("n"):
				r.xref[num] = int(off)
			case operator("f"):
				r.xref[num] = -1
			default:
				return nil, malformed(s.pos, "invalid xref entry type")
			}
		}
	}

	trailer, err := s.readObject(true)
	if err != nil {
		return nil, err
	}
	dict, ok := trailer.(Dict)
	if !ok {
		return nil, malformed(s.pos, "invalid trailer")
	}
	return dict, nil
}

var objMarker = regexp.MustCompile(`(?m)(?:^|[\r\n\s])(\d+)\s+(\d+)\s+obj\b`)

func (r *Reader) reconstructXRef() error {
	r.xref = make(map[int]int)
	for _, m := range objMarker.FindAllSubmatchIndex(r.data, -1) {
		num, err := strconv.Atoi(string(r.data[m[2]:m[3]]))
		if err != nil {
			continue
		}
		r.xref[num] = m[2] // later definitions win
	}
	if len(r.xref) == 0 {
		return malformed(0, "no objects found")
	}

	// Use the last trailer dictionary in the file, or else the dictionary
	// of a cross-reference stream.
	if idx := bytes.LastIndex(r.data, []byte("trailer")); idx >= 0 {
		s := newScanner(r.data, idx+len("trailer"))
		if obj, err := s.readObject(true); err == nil {
			if dict, ok := obj.(Dict); ok {
				r.trailer = dict
				return nil
			}
		}
	}
	for num := range r.xref {
		dict, err := r.GetDict(Reference{Number: num})
		if err != nil || dict["Type"] != Name("XRef") {
			continue
		}
		if _, ok := dict["Root"]; ok {
			r.trailer = dict
			return nil
		}
	}
	return malformed(0, "no trailer found")
}
