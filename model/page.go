/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package model

import (
	"bytes"

	"github.com/pdfrast/pdfrast/core"
)

// PdfRectangle is a definition of a rectangle.
type PdfRectangle struct {
	Llx float64 // Lower left corner (ll).
	Lly float64
	Urx float64 // Upper right corner (ur).
	Ury float64
}

// NewPdfRectangle creates a PdfRectangle from a 4-float array.
func NewPdfRectangle(arr core.PdfObjectArray) (*PdfRectangle, error) {
	f, err := arr.ToFloat64Array()
	if err != nil {
		return nil, err
	}
	if len(f) != 4 {
		return nil, core.ErrRangeError
	}
	return &PdfRectangle{Llx: f[0], Lly: f[1], Urx: f[2], Ury: f[3]}, nil
}

// Width returns the width of `rect`.
func (rect *PdfRectangle) Width() float64 {
	return rect.Urx - rect.Llx
}

// Height returns the height of `rect`.
func (rect *PdfRectangle) Height() float64 {
	return rect.Ury - rect.Lly
}

// PdfPage is the view of one page needed by the renderer: the resource
// dictionary, the (already decoded) content streams, and the page boxes.
// The object graph collaborator builds it from the page tree.
type PdfPage struct {
	Resources *PdfPageResources
	MediaBox  *PdfRectangle
	CropBox   *PdfRectangle
	Rotate    int

	Contents [][]byte
}

// GetAllContentStreams gets all the content streams for the page as one
// string, joined by whitespace.
func (p *PdfPage) GetAllContentStreams() (string, error) {
	return string(bytes.Join(p.Contents, []byte(" "))), nil
}
