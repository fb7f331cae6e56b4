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

// Glyphorder writes a text into a normal and an "attacked" PDF file.
// The attacked file looks identical, but copies as scrambled text.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"seehuhn.de/go/glyphorder/internal/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := cli.Execute(ctx)
	if errors.Is(err, context.Canceled) {
		os.Exit(130)
	} else if err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
