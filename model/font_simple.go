/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package model

import (
	"github.com/pdfrast/pdfrast/common"
	"github.com/pdfrast/pdfrast/core"
	"github.com/pdfrast/pdfrast/internal/textencoding"
)

// pdfFontSimple describes a Simple Font
//
// 9.6 Simple Fonts (page 254)
// 9.6.1 General
// There are several types of simple fonts, all of which have these properties:
// - Glyphs in the font shall be selected by single-byte character codes obtained from a string that
//   is shown by the text-showing operators. Logically, these codes index into a table of 256 glyphs,
//   the mapping from codes to glyphs is called the font's encoding.
// - Each glyph shall have a single set of metrics, including a horizontal displacement or width.
type pdfFontSimple struct {
	fontCommon

	firstChar int
	lastChar  int
	widths    []float64 // Raw glyph units (1/1000 text space).

	encoder textencoding.SimpleEncoder

	// std14Widths carries builtin metrics when the base font is one of the
	// standard 14 and no /Widths array is present.
	std14Widths map[textencoding.GlyphName]float64
}

// getFontDescriptor returns the font descriptor of `font`.
func (font pdfFontSimple) getFontDescriptor() *PdfFontDescriptor {
	return font.fontDescriptor
}

// baseFields returns the fields of `font` that are common to all PDF fonts.
func (font *pdfFontSimple) baseFields() *fontCommon {
	return &font.fontCommon
}

// charWidth returns the advance of `code` in text-space units. Lookup order:
// the /Widths array, builtin standard-14 metrics, /MissingWidth.
func (font *pdfFontSimple) charWidth(code CharCode) (float64, bool) {
	idx := int(code.Code) - font.firstChar
	if idx >= 0 && idx < len(font.widths) {
		return font.widths[idx] * 0.001, true
	}

	if font.std14Widths != nil && font.encoder != nil {
		if glyph, ok := font.encoder.CharcodeToGlyph(textencoding.CharCode(code.Code)); ok {
			if w, ok := font.std14Widths[glyph]; ok {
				return w * 0.001, true
			}
		}
	}

	if mw := font.fontDescriptor.GetMissingWidth(); mw > 0 {
		return mw * 0.001, true
	}
	return 0, false
}

// gidForCharcode resolves a glyph index through the embedded font program:
// the /Differences glyph name first, then the encoding's standard name.
func (font *pdfFontSimple) gidForCharcode(code CharCode) (uint16, bool) {
	if font.fontDescriptor == nil || font.encoder == nil {
		return 0, false
	}
	glyph, ok := font.encoder.CharcodeToGlyph(textencoding.CharCode(code.Code))
	if !ok {
		return 0, false
	}
	r, ok := textencoding.GlyphToRune(glyph)
	if !ok {
		return 0, false
	}
	return font.fontDescriptor.gidForRune(r)
}

// newSimpleFontFromPdfObject creates a pdfFontSimple from dictionary `d`.
func newSimpleFontFromPdfObject(d *core.PdfObjectDictionary, base *fontCommon) (*pdfFontSimple, error) {
	font := &pdfFontSimple{fontCommon: *base}

	// FirstChar and LastChar are required except for the standard 14.
	if firstChar, ok := core.GetIntVal(d.Get("FirstChar")); ok {
		font.firstChar = firstChar
	}
	if lastChar, ok := core.GetIntVal(d.Get("LastChar")); ok {
		font.lastChar = lastChar
	}

	if widthsArray, ok := core.GetArray(d.Get("Widths")); ok {
		widths, err := widthsArray.ToFloat64Array()
		if err != nil {
			common.Log.Debug("ERROR: converting widths: %v", err)
			return nil, err
		}
		font.widths = widths
	} else if metrics, ok := std14Metrics[StdFontName(base.basefont)]; ok {
		font.std14Widths = metrics
	}

	if err := font.loadEncoding(d); err != nil {
		return nil, err
	}

	return font, nil
}

// loadEncoding resolves the /Encoding entry: a base encoding name, or a
// dictionary with /BaseEncoding and /Differences.
func (font *pdfFontSimple) loadEncoding(d *core.PdfObjectDictionary) error {
	baseName := "StandardEncoding"
	var differences map[textencoding.CharCode]textencoding.GlyphName

	// Symbolic fonts default to their builtin encoding; without the builtin
	// tables the standard encoding remains the best effort fallback.
	switch core.TraceToDirectObject(d.Get("Encoding")).(type) {
	case *core.PdfObjectName:
		name, _ := core.GetNameVal(d.Get("Encoding"))
		baseName = name
	case *core.PdfObjectDictionary:
		encDict, _ := core.GetDict(d.Get("Encoding"))
		if name, ok := core.GetNameVal(encDict.Get("BaseEncoding")); ok {
			baseName = name
		}
		if diffArray, ok := core.GetArray(encDict.Get("Differences")); ok {
			diffs, err := textencoding.FromFontDifferences(diffArray)
			if err != nil {
				common.Log.Debug("ERROR: Bad /Differences: %v", err)
				return err
			}
			differences = diffs
		}
	}

	encoder, err := textencoding.NewSimpleTextEncoder(baseName, differences)
	if err != nil {
		// Unknown base encoding: keep rendering with the standard tables.
		common.Log.Debug("Unknown encoding %q, falling back to standard", baseName)
		encoder, err = textencoding.NewSimpleTextEncoder("StandardEncoding", differences)
		if err != nil {
			return err
		}
	}
	font.encoder = encoder
	return nil
}
