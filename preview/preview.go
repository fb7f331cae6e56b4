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

// Package preview rasterizes glyph command streams.
//
// Glyphs are drawn with the Go Mono font, which has the same 0.6 em
// advance width as Courier.  The coverage of overlapping glyphs is
// combined by taking the maximum, so the picture does not depend on the
// order in which the glyphs are drawn.
package preview

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/glyphorder/render"
)

// Options control the rasterization.
type Options struct {
	// FontSize is the font size in points.  The default is 12.
	FontSize float64

	// DPI is the resolution of the image.  The default is 72, i.e. one pixel
	// per PDF point.
	DPI float64
}

// maxPixels limits the size of the generated images.
const maxPixels = 1 << 26

var goMono = sync.OnceValues(func() (*opentype.Font, error) {
	return opentype.Parse(gomono.TTF)
})

// Render draws the glyphs of one page.  Commands for other pages are
// ignored.  Black glyphs are drawn on a white background.
func Render(pageSize rect.Rect, cmds []render.Command, page int, opt *Options) (*image.Gray, error) {
	fontSize, dpi := 12.0, 72.0
	if opt != nil {
		if opt.FontSize != 0 {
			fontSize = opt.FontSize
		}
		if opt.DPI != 0 {
			dpi = opt.DPI
		}
	}
	if !(fontSize > 0 && dpi > 0) {
		return nil, fmt.Errorf("invalid font size %g or resolution %g", fontSize, dpi)
	}

	scale := dpi / 72
	w := int(math.Ceil(pageSize.Dx() * scale))
	h := int(math.Ceil(pageSize.Dy() * scale))
	if w <= 0 || h <= 0 || float64(w)*float64(h) > maxPixels {
		return nil, fmt.Errorf("invalid image size %dx%d", w, h)
	}

	f, err := goMono()
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    fontSize,
		DPI:     dpi,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, err
	}
	defer face.Close()

	coverage := image.NewAlpha(image.Rect(0, 0, w, h))
	for _, c := range cmds {
		if c.Page != page {
			continue
		}
		dot := fixed.Point26_6{
			X: fixed.Int26_6(math.Round((c.X - pageSize.LLx) * scale * 64)),
			Y: fixed.Int26_6(math.Round((pageSize.URy - c.Y) * scale * 64)),
		}
		dr, mask, maskp, _, ok := face.Glyph(dot, c.Char)
		if !ok {
			continue
		}
		addCoverage(coverage, dr, mask, maskp)
	}

	img := image.NewGray(coverage.Rect)
	for i, a := range coverage.Pix {
		img.Pix[i] = 255 - a
	}
	return img, nil
}

// addCoverage merges a glyph mask into dst, keeping the maximum coverage
// of every pixel.
func addCoverage(dst *image.Alpha, dr image.Rectangle, mask image.Image, maskp image.Point) {
	clipped := dr.Intersect(dst.Rect)
	for y := clipped.Min.Y; y < clipped.Max.Y; y++ {
		for x := clipped.Min.X; x < clipped.Max.X; x++ {
			mx := maskp.X + x - dr.Min.X
			my := maskp.Y + y - dr.Min.Y
			_, _, _, a := mask.At(mx, my).RGBA()
			a8 := uint8(a >> 8)
			i := dst.PixOffset(x, y)
			if a8 > dst.Pix[i] {
				dst.Pix[i] = a8
			}
		}
	}
}

// Diff returns the number of pixels in which two images differ.
func Diff(a, b *image.Gray) (int, error) {
	if a.Rect != b.Rect {
		return 0, errors.New("image sizes differ")
	}
	count := 0
	for y := a.Rect.Min.Y; y < a.Rect.Max.Y; y++ {
		for x := a.Rect.Min.X; x < a.Rect.Max.X; x++ {
			if a.GrayAt(x, y) != b.GrayAt(x, y) {
				count++
			}
		}
	}
	return count, nil
}

// WritePNG writes img in PNG format.
func WritePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}
