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

package document

import (
	"golang.org/x/text/language"
	"seehuhn.de/go/xmp"

	"seehuhn.de/go/glyphorder/pdf"
)

// PDF is the XMP namespace for PDF metadata.
// See https://developer.adobe.com/xmp/docs/XMPNamespaces/pdf/
type PDF struct {
	_        xmp.Namespace `xmp:"http://ns.adobe.com/pdf/1.3/"`
	_        xmp.Prefix    `xmp:"pdf"`
	Keywords xmp.Text
	Producer xmp.AgentName
}

// Basic is the subset of the XMP basic namespace written by this package.
type Basic struct {
	_           xmp.Namespace `xmp:"http://ns.adobe.com/xap/1.0/"`
	_           xmp.Prefix    `xmp:"xmp"`
	CreateDate  xmp.Date
	CreatorTool xmp.AgentName
}

// writeMetadata writes the XMP metadata stream for the document.
func (doc *MultiPage) writeMetadata() (pdf.Reference, error) {
	opt := doc.opt

	pdfInfo := &PDF{
		Producer: xmp.NewAgentName(opt.Producer),
	}
	if opt.Mode != "" {
		pdfInfo.Keywords = xmp.NewText(opt.Mode)
	}
	basic := &Basic{
		CreatorTool: xmp.NewAgentName(Producer),
	}
	if !opt.CreationDate.IsZero() {
		basic.CreateDate = xmp.NewDate(opt.CreationDate)
	}

	metadata := xmp.NewPacket()
	err := metadata.Set(pdfInfo, basic)
	if err != nil {
		return pdf.Reference{}, err
	}
	if opt.Title != "" {
		dc := &xmp.DublinCore{}
		dc.Title.Set(language.Und, opt.Title)
		err = metadata.Set(dc)
		if err != nil {
			return pdf.Reference{}, err
		}
	}

	ref := doc.Out.Alloc()
	dict := pdf.Dict{
		"Type":    pdf.Name("Metadata"),
		"Subtype": pdf.Name("XML"),
	}
	stm, err := doc.Out.OpenStream(ref, dict, false)
	if err != nil {
		return pdf.Reference{}, err
	}
	err = metadata.Write(stm, &xmp.PacketOptions{Pretty: true})
	if err != nil {
		stm.Close()
		return pdf.Reference{}, err
	}
	err = stm.Close()
	if err != nil {
		return pdf.Reference{}, err
	}
	return ref, nil
}
