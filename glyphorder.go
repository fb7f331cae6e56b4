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

package glyphorder

import (
	"errors"
	"io"
	"time"

	"seehuhn.de/go/glyphorder/config"
	"seehuhn.de/go/glyphorder/document"
	"seehuhn.de/go/glyphorder/font"
	"seehuhn.de/go/glyphorder/layout"
	"seehuhn.de/go/glyphorder/permute"
	"seehuhn.de/go/glyphorder/render"
)

// Job holds the normal and the attacked rendering of one text.
type Job struct {
	Config *config.Config

	// Text is the normalized text.
	Text string

	Grid       *layout.Grid
	Placements []layout.Placement

	// Seed is the seed used for the permutation.
	Seed uint64
	Perm permute.Map

	Normal   []render.Command
	Attacked []render.Command

	Created time.Time
}

// Prepare validates the configuration, lays out the text and computes both
// command streams.  A nil configuration selects the defaults.
// The configuration is not modified.
func Prepare(text string, cfg *config.Config) (*Job, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	c := *cfg
	err := c.Validate()
	if err != nil {
		return nil, err
	}
	seed := c.ChooseSeed()

	pageSize := c.PageSize()
	grid, err := layout.NewGrid(pageSize.Dx(), pageSize.Dy(), c.Margin, c.FontSize)
	if err != nil {
		return nil, err
	}
	normalized := layout.Normalize(text)
	placements := grid.Place(normalized)

	P, err := permute.Compute(len(placements), c.AttackFactor, permute.NewRand(seed))
	if err != nil {
		return nil, err
	}
	attacked, err := render.Attacked(placements, P)
	if err != nil {
		return nil, err
	}

	job := &Job{
		Config:     &c,
		Text:       normalized,
		Grid:       grid,
		Placements: placements,
		Seed:       seed,
		Perm:       P,
		Normal:     render.Normal(placements),
		Attacked:   attacked,
		Created:    time.Now(),
	}
	return job, nil
}

// Stats summarizes a job.
type Stats struct {
	Glyphs    int
	Lines     int
	Pages     int
	LineWidth int

	// Moved is the number of emission steps which draw a different glyph
	// than the normal rendering.
	Moved int

	// Missing lists the characters which the font cannot show.
	Missing []rune
}

// Stats returns summary information about the job.
func (j *Job) Stats() Stats {
	_, missing := font.EncodeString(j.Text)
	n := len(j.Placements)
	return Stats{
		Glyphs:    n,
		Lines:     j.Grid.Rows(n),
		Pages:     j.Grid.Pages(n),
		LineWidth: j.Grid.LineWidth,
		Moved:     len(j.Perm.Moved()),
		Missing:   missing,
	}
}

// Mode names used in the document metadata.
const (
	ModeNormal   = "normal"
	ModeAttacked = "attacked"
)

func (j *Job) options(mode string) *document.Options {
	f, _ := font.Parse(j.Config.Font)
	return &document.Options{
		Font:         f,
		FontSize:     j.Config.FontSize,
		Compress:     j.Config.Compress,
		MergeRuns:    j.Config.MergeRuns,
		Title:        j.Config.Title,
		Mode:         mode,
		CreationDate: j.Created,
	}
}

// WriteNormal writes the normal rendering as a PDF file.
func (j *Job) WriteNormal(w io.Writer) error {
	return document.Write(w, j.Config.PageSize(), j.Normal, j.options(ModeNormal))
}

// WriteAttacked writes the attacked rendering as a PDF file.
func (j *Job) WriteAttacked(w io.Writer) error {
	return document.Write(w, j.Config.PageSize(), j.Attacked, j.options(ModeAttacked))
}

// WriteFiles writes both renderings to the output files named in the
// configuration.  An empty file name skips the corresponding rendering.
func (j *Job) WriteFiles() error {
	if j.Config.NormalOutput == "" && j.Config.AttackedOutput == "" {
		return errors.New("no output files")
	}
	if name := j.Config.NormalOutput; name != "" {
		err := document.Create(name, j.Config.PageSize(), j.Normal, j.options(ModeNormal))
		if err != nil {
			return err
		}
	}
	if name := j.Config.AttackedOutput; name != "" {
		err := document.Create(name, j.Config.PageSize(), j.Attacked, j.options(ModeAttacked))
		if err != nil {
			return err
		}
	}
	return nil
}
