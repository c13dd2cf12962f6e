/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package model

import (
	"github.com/pdfrast/pdfrast/common"
	"github.com/pdfrast/pdfrast/core"
	"github.com/pdfrast/pdfrast/internal/textencoding"
	"github.com/pdfrast/pdfrast/internal/transform"
)

// pdfFontType3 represents a Type 3 font: glyphs are content stream
// procedures in glyph space, mapped to text space through FontMatrix.
type pdfFontType3 struct {
	fontCommon

	firstChar int
	lastChar  int
	widths    []float64 // Glyph space units.

	fontMatrix transform.Matrix
	charProcs  *core.PdfObjectDictionary
	resources  *core.PdfObjectDictionary

	encoder textencoding.SimpleEncoder
}

// getFontDescriptor returns the font descriptor of `font`.
func (font pdfFontType3) getFontDescriptor() *PdfFontDescriptor {
	return font.fontDescriptor
}

// baseFields returns the fields of `font` that are common to all PDF fonts.
func (font *pdfFontType3) baseFields() *fontCommon {
	return &font.fontCommon
}

// charWidth maps the glyph space width through FontMatrix into text space.
func (font *pdfFontType3) charWidth(code CharCode) (float64, bool) {
	idx := int(code.Code) - font.firstChar
	if idx < 0 || idx >= len(font.widths) {
		return 0, false
	}
	w, _ := font.fontMatrix.Transform(font.widths[idx], 0)
	return w, true
}

// FontMatrix returns the glyph space to text space matrix.
func (font *pdfFontType3) FontMatrix() transform.Matrix {
	return font.fontMatrix
}

// CharProc returns the glyph procedure stream for `code`, looked up through
// the encoding's glyph name.
func (font *pdfFontType3) CharProc(code CharCode) (*core.PdfObjectStream, bool) {
	if font.charProcs == nil || font.encoder == nil {
		return nil, false
	}
	glyph, ok := font.encoder.CharcodeToGlyph(textencoding.CharCode(code.Code))
	if !ok {
		return nil, false
	}
	stream, ok := core.GetStream(font.charProcs.Get(core.PdfObjectName(glyph)))
	return stream, ok
}

// Resources returns the Type 3 font's own resource dictionary, may be nil.
func (font *pdfFontType3) Resources() *core.PdfObjectDictionary {
	return font.resources
}

// newPdfFontType3FromPdfObject creates a pdfFontType3 from dictionary `d`.
func newPdfFontType3FromPdfObject(d *core.PdfObjectDictionary, base *fontCommon) (*pdfFontType3, error) {
	font := &pdfFontType3{fontCommon: *base}

	if firstChar, ok := core.GetIntVal(d.Get("FirstChar")); ok {
		font.firstChar = firstChar
	}
	if lastChar, ok := core.GetIntVal(d.Get("LastChar")); ok {
		font.lastChar = lastChar
	}

	if widthsArray, ok := core.GetArray(d.Get("Widths")); ok {
		widths, err := widthsArray.ToFloat64Array()
		if err != nil {
			return nil, err
		}
		font.widths = widths
	}

	font.fontMatrix = transform.NewMatrix(0.001, 0, 0, 0.001, 0, 0)
	if matrixArray, ok := core.GetArray(d.Get("FontMatrix")); ok && matrixArray.Len() == 6 {
		mf, err := matrixArray.ToFloat64Array()
		if err != nil {
			return nil, err
		}
		font.fontMatrix = transform.NewMatrix(mf[0], mf[1], mf[2], mf[3], mf[4], mf[5])
	}

	charProcs, ok := core.GetDict(d.Get("CharProcs"))
	if !ok {
		common.Log.Debug("ERROR: Type3 font missing CharProcs")
		return nil, ErrRequiredAttributeMissing
	}
	font.charProcs = charProcs

	if resources, ok := core.GetDict(d.Get("Resources")); ok {
		font.resources = resources
	}

	if err := loadType3Encoding(font, d); err != nil {
		return nil, err
	}

	return font, nil
}

func loadType3Encoding(font *pdfFontType3, d *core.PdfObjectDictionary) error {
	var differences map[textencoding.CharCode]textencoding.GlyphName

	if encDict, ok := core.GetDict(d.Get("Encoding")); ok {
		if diffArray, ok := core.GetArray(encDict.Get("Differences")); ok {
			diffs, err := textencoding.FromFontDifferences(diffArray)
			if err != nil {
				return err
			}
			differences = diffs
		}
	}

	encoder, err := textencoding.NewSimpleTextEncoder("StandardEncoding", differences)
	if err != nil {
		return err
	}
	font.encoder = encoder
	return nil
}
