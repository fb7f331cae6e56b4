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

package config

import (
	"errors"
	"fmt"
)

// ErrInvalid is matched by all configuration errors.
var ErrInvalid = errors.New("invalid configuration")

var errNotPositive = errors.New("must be positive")

// Error describes an invalid configuration setting.
// Both [ErrInvalid] and the underlying reason match errors.Is.
type Error struct {
	Field string
	Value any
	Err   error
}

func (err *Error) Error() string {
	return fmt.Sprintf("invalid %s %v: %v", err.Field, err.Value, err.Err)
}

// Unwrap returns ErrInvalid together with the underlying reason.
func (err *Error) Unwrap() []error {
	return []error{ErrInvalid, err.Err}
}
