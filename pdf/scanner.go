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
	"io"
	"strconv"
)

// operator is a bare keyword in a PDF file or content stream,
// for example "obj", "R", "BT" or "Tj".
type operator string

func (op operator) PDF(w io.Writer) error {
	_, err := io.WriteString(w, string(op))
	return err
}

// scanner breaks PDF data into tokens.  The same scanner is used for the
// file structure and for content streams.
type scanner struct {
	buf []byte
	pos int
}

func newScanner(buf []byte, pos int) *scanner {
	return &scanner{buf: buf, pos: pos}
}

// skipWhiteSpace skips white space and comments.
func (s *scanner) skipWhiteSpace() {
	for s.pos < len(s.buf) {
		c := s.buf[s.pos]
		if c == '%' {
			for s.pos < len(s.buf) && s.buf[s.pos] != '\n' && s.buf[s.pos] != '\r' {
				s.pos++
			}
			continue
		}
		if !isSpace[c] {
			return
		}
		s.pos++
	}
}

// nextToken returns the next object or keyword.  Composite objects are not
// assembled here: the delimiters "<<", ">>", "[" and "]" are returned as
// operators.  At the end of the data, io.EOF is returned.
func (s *scanner) nextToken() (Object, error) {
	s.skipWhiteSpace()
	if s.pos >= len(s.buf) {
		return nil, io.EOF
	}

	c := s.buf[s.pos]
	switch {
	case c == '(':
		return s.readLiteralString()
	case c == '<':
		if s.pos+1 < len(s.buf) && s.buf[s.pos+1] == '<' {
			s.pos += 2
			return operator("<<"), nil
		}
		return s.readHexString()
	case c == '>':
		if s.pos+1 < len(s.buf) && s.buf[s.pos+1] == '>' {
			s.pos += 2
			return operator(">>"), nil
		}
		return nil, malformed(s.pos, "unexpected '>'")
	case c == '[' || c == ']' || c == '{' || c == '}':
		s.pos++
		return operator(string(c)), nil
	case c == '/':
		return s.readName(), nil
	case c == ')':
		return nil, malformed(s.pos, "unexpected ')'")
	}

	start := s.pos
	for s.pos < len(s.buf) && !isSpace[s.buf[s.pos]] && !isDelimiter[s.buf[s.pos]] {
		s.pos++
	}
	word := s.buf[start:s.pos]

	if obj, ok := parseNumber(word); ok {
		return obj, nil
	}
	switch string(word) {
	case "true":
		return Bool(true), nil
	case "false":
		return Bool(false), nil
	case "null":
		return nil, nil
	}
	return operator(word), nil
}

func parseNumber(word []byte) (Object, bool) {
	if len(word) == 0 {
		return nil, false
	}
	c := word[0]
	if !(c >= '0' && c <= '9' || c == '+' || c == '-' || c == '.') {
		return nil, false
	}
	if x, err := strconv.ParseInt(string(word), 10, 64); err == nil {
		return Integer(x), true
	}
	if x, err := strconv.ParseFloat(string(word), 64); err == nil {
		return Real(x), true
	}
	return nil, false
}

func (s *scanner) readName() Name {
	s.pos++ // skip '/'
	var name []byte
	for s.pos < len(s.buf) {
		c := s.buf[s.pos]
		if isSpace[c] || isDelimiter[c] {
			break
		}
		if c == '#' && s.pos+2 < len(s.buf) {
			x, err := strconv.ParseUint(string(s.buf[s.pos+1:s.pos+3]), 16, 8)
			if err == nil {
				name = append(name, byte(x))
				s.pos += 3
				continue
			}
		}
		name = append(name, c)
		s.pos++
	}
	return Name(name)
}

func (s *scanner) readLiteralString() (String, error) {
	start := s.pos
	s.pos++ // skip '('

	var res []byte
	level := 1
	for {
		if s.pos >= len(s.buf) {
			return nil, malformed(start, "unterminated string")
		}
		c := s.buf[s.pos]
		s.pos++
		switch c {
		case '(':
			level++
		case ')':
			level--
			if level == 0 {
				return String(res), nil
			}
		case '\r':
			// an end-of-line marker in a string is read as a single '\n'
			if s.pos < len(s.buf) && s.buf[s.pos] == '\n' {
				s.pos++
			}
			c = '\n'
		case '\\':
			if s.pos >= len(s.buf) {
				return nil, malformed(start, "unterminated string")
			}
			c = s.buf[s.pos]
			s.pos++
			switch c {
			case 'n':
				c = '\n'
			case 'r':
				c = '\r'
			case 't':
				c = '\t'
			case 'b':
				c = '\b'
			case 'f':
				c = '\f'
			case '\r':
				if s.pos < len(s.buf) && s.buf[s.pos] == '\n' {
					s.pos++
				}
				continue
			case '\n':
				continue
			case '0', '1', '2', '3', '4', '5', '6', '7':
				x := int(c - '0')
				for i := 0; i < 2 && s.pos < len(s.buf); i++ {
					d := s.buf[s.pos]
					if d < '0' || d > '7' {
						break
					}
					x = 8*x + int(d-'0')
					s.pos++
				}
				c = byte(x)
			}
		}
		res = append(res, c)
	}
}

func (s *scanner) readHexString() (String, error) {
	start := s.pos
	s.pos++ // skip '<'

	var res []byte
	var hi byte
	odd := false
	for {
		if s.pos >= len(s.buf) {
			return nil, malformed(start, "unterminated hex string")
		}
		c := s.buf[s.pos]
		s.pos++
		var d byte
		switch {
		case c == '>':
			if odd {
				res = append(res, hi<<4)
			}
			return String(res), nil
		case isSpace[c]:
			continue
		case c >= '0' && c <= '9':
			d = c - '0'
		case c >= 'a' && c <= 'f':
			d = c - 'a' + 10
		case c >= 'A' && c <= 'F':
			d = c - 'A' + 10
		default:
			return nil, malformed(s.pos-1, "invalid hex string")
		}
		if odd {
			res = append(res, hi<<4|d)
		} else {
			hi = d
		}
		odd = !odd
	}
}

// readObject reads one complete object, assembling arrays and dictionaries.
// If withRefs is set, the sequence "n g R" is recognised as an indirect
// reference.  Keywords other than the structural delimiters are returned as
// operators.
func (s *scanner) readObject(withRefs bool) (Object, error) {
	tok, err := s.nextToken()
	if err != nil {
		return nil, err
	}

	switch tok {
	case operator("["):
		var arr Array
		for {
			s.skipWhiteSpace()
			if s.pos < len(s.buf) && s.buf[s.pos] == ']' {
				s.pos++
				return arr, nil
			}
			elem, err := s.readObject(withRefs)
			if err == io.EOF {
				return nil, malformed(s.pos, "unterminated array")
			} else if err != nil {
				return nil, err
			}
			arr = append(arr, elem)
		}
	case operator("<<"):
		dict := Dict{}
		for {
			key, err := s.nextToken()
			if err == io.EOF {
				return nil, malformed(s.pos, "unterminated dictionary")
			} else if err != nil {
				return nil, err
			}
			if key == operator(">>") {
				return dict, nil
			}
			name, ok := key.(Name)
			if !ok {
				return nil, malformed(s.pos, "dictionary key is not a name")
			}
			val, err := s.readObject(withRefs)
			if err == io.EOF {
				return nil, malformed(s.pos, "unterminated dictionary")
			} else if err != nil {
				return nil, err
			}
			if val != nil {
				dict[name] = val
			}
		}
	}

	if num, ok := tok.(Integer); ok && withRefs && num >= 0 {
		save := s.pos
		gen, err := s.nextToken()
		if genNum, isInt := gen.(Integer); err == nil && isInt && genNum >= 0 {
			r, err := s.nextToken()
			if err == nil && r == operator("R") {
				return Reference{Number: int(num), Generation: uint16(genNum)}, nil
			}
		}
		s.pos = save
	}

	return tok, nil
}

// ScanContent splits a content stream into operators and their arguments.
// For every operator, yield is called with the operator name and the
// operands preceding it.  The args slice is only valid during the call.
//
// Inline image data is skipped.  Parse errors stop the scan.
func ScanContent(data []byte, yield func(op string, args []Object) error) error {
	s := newScanner(data, 0)
	var args []Object
	for {
		obj, err := s.readObject(false)
		if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}

		op, isOp := obj.(operator)
		if !isOp {
			args = append(args, obj)
			continue
		}

		switch op {
		case "]", ">>", "{", "}":
			return malformed(s.pos, "unexpected "+string(op))
		case "ID":
			s.skipInlineImage()
		}

		err = yield(string(op), args)
		if err != nil {
			return err
		}
		args = args[:0]
	}
}

// skipInlineImage moves past the binary data of an inline image, up to and
// including the "EI" keyword.
func (s *scanner) skipInlineImage() {
	for s.pos < len(s.buf) {
		idx := bytes.Index(s.buf[s.pos:], []byte("EI"))
		if idx < 0 {
			s.pos = len(s.buf)
			return
		}
		end := s.pos + idx
		s.pos = end + 2
		before := end == 0 || isSpace[s.buf[end-1]]
		after := s.pos >= len(s.buf) || isSpace[s.buf[s.pos]]
		if before && after {
			return
		}
	}
}

var errNotIndirect = errors.New("expected indirect object")
