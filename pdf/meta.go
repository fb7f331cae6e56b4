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
	"errors"
	"strconv"
	"time"
	"unicode/utf16"
)

// Version represents a version of PDF standard.
type Version int

// PDF versions supported by this library.
const (
	V1_0 Version = iota
	V1_1
	V1_2
	V1_3
	V1_4
	V1_5
	V1_6
	V1_7
)

// ParseVersion parses a PDF version string like "1.7".
func ParseVersion(verString string) (Version, error) {
	switch verString {
	case "1.0":
		return V1_0, nil
	case "1.1":
		return V1_1, nil
	case "1.2":
		return V1_2, nil
	case "1.3":
		return V1_3, nil
	case "1.4":
		return V1_4, nil
	case "1.5":
		return V1_5, nil
	case "1.6":
		return V1_6, nil
	case "1.7":
		return V1_7, nil
	}
	return 0, errVersion
}

func (ver Version) String() string {
	if ver >= V1_0 && ver <= V1_7 {
		return "1." + strconv.Itoa(int(ver))
	}
	return "pdf.Version(" + strconv.Itoa(int(ver)) + ")"
}

var errVersion = errors.New("unsupported PDF version")

// Info represents a PDF Document Information Dictionary.
//
// All fields in this structure are optional.  The zero value represents
// an empty information dictionary.
type Info struct {
	Title    string
	Author   string
	Subject  string
	Keywords string

	// Creator gives the name of the application that created the original
	// document.
	Creator string

	// Producer gives the name of the application that wrote the PDF file.
	Producer string

	CreationDate time.Time
}

// AsDict converts the information dictionary into a PDF dictionary.
// Empty fields are omitted.
func (info *Info) AsDict() Dict {
	res := Dict{}
	text := map[Name]string{
		"Title":    info.Title,
		"Author":   info.Author,
		"Subject":  info.Subject,
		"Keywords": info.Keywords,
		"Creator":  info.Creator,
		"Producer": info.Producer,
	}
	for key, val := range text {
		if val != "" {
			res[key] = TextString(val)
		}
	}
	if !info.CreationDate.IsZero() {
		res["CreationDate"] = Date(info.CreationDate)
	}
	return res
}

// TextString encodes s as a PDF "text string".  ASCII-only strings are
// stored unchanged, everything else is stored as UTF-16BE with a byte
// order mark.
func TextString(s string) String {
	ascii := true
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			ascii = false
			break
		}
	}
	if ascii {
		return String(s)
	}

	u := utf16.Encode([]rune(s))
	res := make(String, 2, 2+2*len(u))
	res[0] = 0xFE
	res[1] = 0xFF
	for _, c := range u {
		res = append(res, byte(c>>8), byte(c))
	}
	return res
}

// AsTextString interprets x as a PDF "text string" and returns
// the corresponding utf-8 encoded string.
func (x String) AsTextString() string {
	if len(x) >= 2 && x[0] == 0xFE && x[1] == 0xFF {
		body := x[2:]
		u := make([]uint16, len(body)/2)
		for i := range u {
			u[i] = uint16(body[2*i])<<8 | uint16(body[2*i+1])
		}
		return string(utf16.Decode(u))
	}
	r := make([]rune, len(x))
	for i, c := range x {
		r[i] = rune(c)
	}
	return string(r)
}

// Date converts a time.Time object into a PDF date string.
func Date(t time.Time) String {
	s := t.Format("D:20060102150405-0700")
	k := len(s) - 2
	s = s[:k] + "'" + s[k:]
	return String(s)
}
