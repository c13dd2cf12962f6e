/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package model

import (
	"errors"

	"github.com/pdfrast/pdfrast/common"
	"github.com/pdfrast/pdfrast/core"
	"github.com/pdfrast/pdfrast/internal/cmap"
)

/*
   9.7.2 CID-Keyed Fonts Overview (page 267)
   The CID-keyed font architecture specifies the external representation of certain font programs,
   called *CMap* and *CIDFont* files, together with some conventions for combining and using those files.

   A *CID-keyed font* is the combination of a CMap with one or more CIDFonts, simple fonts, or
   composite fonts containing glyph descriptions.

   A *Type 0 CIDFont* contains glyph descriptions based on CFF
   A *Type 2 CIDFont* contains glyph descriptions based on the TrueType font format
*/

// pdfFontType0 represents a composite font. The CMap maps character codes to
// CIDs of the ordered descendant fonts; rendering uses the primary
// descendant.
type pdfFontType0 struct {
	fontCommon

	encodingName string
	codeToCID    *cmap.CMap // nil for Identity-H/V.
	identity     bool
	vertical     bool

	DescendantFont *PdfFont
}

// getFontDescriptor returns the font descriptor of the primary descendant.
func (font pdfFontType0) getFontDescriptor() *PdfFontDescriptor {
	if font.fontDescriptor == nil && font.DescendantFont != nil {
		return font.DescendantFont.FontDescriptor()
	}
	return font.fontDescriptor
}

// baseFields returns the fields of `font` that are common to all PDF fonts.
func (font *pdfFontType0) baseFields() *fontCommon {
	return &font.fontCommon
}

// charWidth delegates to the primary descendant per CID.
func (font *pdfFontType0) charWidth(code CharCode) (float64, bool) {
	if font.DescendantFont == nil {
		return 0, false
	}
	cid, ok := font.charcodeToCID(code)
	if !ok {
		return 0, false
	}
	return font.DescendantFont.context.charWidth(CharCode{Code: uint32(cid), NumBytes: code.NumBytes})
}

// bytesToCharcodes segments a shown string per the composite rules: the
// ToUnicode codespaces when declared, else the encoding selects 1 or 2 byte
// strides.
func (font *pdfFontType0) bytesToCharcodes(data []byte) []CharCode {
	var codes []CharCode

	if font.toUnicodeCmap != nil && font.toUnicodeCmap.HasCodespaces() {
		for offset := 0; offset < len(data); {
			code, n := font.toUnicodeCmap.NextCode(data, offset)
			if n <= 0 {
				// Defensive; NextCode always consumes at least one byte when
				// data remains.
				n = 1
				code = cmap.CharCode(data[offset])
			}
			codes = append(codes, CharCode{Code: uint32(code), NumBytes: n})
			offset += n
		}
		return codes
	}

	stride := 1
	if font.identity || cmap.IsUTF16Name(font.encodingName) {
		stride = 2
	}
	if stride == 2 && len(data)%2 == 1 {
		common.Log.Debug("Odd length string for 2-byte encoding %q, using single bytes", font.encodingName)
		stride = 1
	}

	for offset := 0; offset+stride <= len(data); offset += stride {
		code := uint32(0)
		for i := 0; i < stride; i++ {
			code = code<<8 | uint32(data[offset+i])
		}
		codes = append(codes, CharCode{Code: code, NumBytes: stride})
	}
	return codes
}

// charcodeToCID maps a code to a CID: the big-endian code value for
// Identity-H/V, otherwise the code→CID CMap.
func (font *pdfFontType0) charcodeToCID(code CharCode) (cmap.CID, bool) {
	if font.codeToCID == nil {
		return cmap.CID(code.Code), true
	}
	return font.codeToCID.CharcodeToCID(cmap.CharCode(code.Code))
}

// cidToGID maps a CID to a glyph index via the descendant font.
func (font *pdfFontType0) cidToGID(cid cmap.CID) (uint16, bool) {
	if font.DescendantFont == nil {
		return 0, false
	}
	switch t := font.DescendantFont.context.(type) {
	case *pdfCIDFontType2:
		return t.cidToGID(cid)
	case *pdfCIDFontType0:
		return t.cidToGID(cid)
	}
	return 0, false
}

// newPdfFontType0FromPdfObject makes a pdfFontType0 based on the input dictionary.
func newPdfFontType0FromPdfObject(d *core.PdfObjectDictionary, base *fontCommon) (*pdfFontType0, error) {
	// DescendantFonts.
	arr, ok := core.GetArray(d.Get("DescendantFonts"))
	if !ok {
		common.Log.Debug("ERROR: Invalid DescendantFonts - not an array. font=%s", base)
		return nil, core.ErrRangeError
	}
	if arr.Len() != 1 {
		common.Log.Debug("ERROR: Array length != 1 (%d)", arr.Len())
		return nil, core.ErrRangeError
	}
	df, err := newPdfFontFromPdfObject(arr.Get(0), false)
	if err != nil {
		common.Log.Debug("ERROR: Failed loading descendant font: err=%v font=%s", err, base)
		return nil, err
	}

	font := &pdfFontType0{
		fontCommon:     *base,
		DescendantFont: df,
	}

	// Encoding: a predefined CMap name or an embedded CMap stream.
	switch t := core.TraceToDirectObject(d.Get("Encoding")).(type) {
	case *core.PdfObjectName:
		font.encodingName = string(*t)
		if cmap.IsIdentityName(font.encodingName) {
			font.identity = true
			font.vertical = font.encodingName == "Identity-V"
		} else {
			common.Log.Debug("Predefined CMap %q not bundled, treating codes as 1-byte unless UTF16", font.encodingName)
		}
	case *core.PdfObjectStream:
		codeToCID, err := cmap.LoadCmapFromData(t.Stream, false)
		if err != nil {
			common.Log.Debug("ERROR: Loading embedded CMap: %v", err)
			return nil, err
		}
		font.codeToCID = codeToCID
		font.vertical = codeToCID.Vertical()
	case nil:
		// Missing Encoding behaves as Identity-H.
		font.identity = true
	default:
		common.Log.Debug("ERROR: Unsupported Encoding entry %T", t)
		return nil, errors.New("unsupported type 0 encoding")
	}

	return font, nil
}

// pdfCIDFontType0 represents a CIDFont whose glyph descriptions are based on CFF.
type pdfCIDFontType0 struct {
	fontCommon

	CIDSystemInfo *core.PdfObjectDictionary

	// Glyph metrics fields (optional).
	DW float64
	W  map[cmap.CID]float64
}

// getFontDescriptor returns the font descriptor of `font`.
func (font pdfCIDFontType0) getFontDescriptor() *PdfFontDescriptor {
	return font.fontDescriptor
}

// baseFields returns the fields of `font` that are common to all PDF fonts.
func (font *pdfCIDFontType0) baseFields() *fontCommon {
	return &font.fontCommon
}

// charWidth returns the per CID width or the default width, in text-space
// units at size 1.
func (font *pdfCIDFontType0) charWidth(code CharCode) (float64, bool) {
	if w, ok := font.W[cmap.CID(code.Code)]; ok {
		return w * 0.001, true
	}
	return font.DW * 0.001, true
}

// cidToGID resolves glyphs via the embedded CFF charset. Without CFF parsing
// support the identity mapping is the best effort answer.
func (font *pdfCIDFontType0) cidToGID(cid cmap.CID) (uint16, bool) {
	return uint16(cid), true
}

// newPdfCIDFontType0FromPdfObject creates a pdfCIDFontType0 from dictionary `d`.
func newPdfCIDFontType0FromPdfObject(d *core.PdfObjectDictionary, base *fontCommon) (*pdfCIDFontType0, error) {
	if base.basefont == "" && d.Get("BaseFont") == nil {
		common.Log.Debug("ERROR: CIDFontType0 missing BaseFont")
	}

	font := &pdfCIDFontType0{fontCommon: *base}

	sysinfo, ok := core.GetDict(d.Get("CIDSystemInfo"))
	if !ok {
		common.Log.Debug("ERROR: CIDSystemInfo (Required) missing. font=%s", base)
		return nil, ErrRequiredAttributeMissing
	}
	font.CIDSystemInfo = sysinfo

	font.DW, font.W = parseCIDWidths(d)

	return font, nil
}

// pdfCIDFontType2 represents a CIDFont whose glyph descriptions are based on
// the TrueType font format.
type pdfCIDFontType2 struct {
	fontCommon

	CIDSystemInfo *core.PdfObjectDictionary

	DW float64
	W  map[cmap.CID]float64

	// cidToGIDMap is the explicit map from the CIDToGIDMap stream; nil means
	// the identity mapping.
	cidToGIDMap []byte
}

// getFontDescriptor returns the font descriptor of `font`.
func (font pdfCIDFontType2) getFontDescriptor() *PdfFontDescriptor {
	return font.fontDescriptor
}

// baseFields returns the fields of `font` that are common to all PDF fonts.
func (font *pdfCIDFontType2) baseFields() *fontCommon {
	return &font.fontCommon
}

// charWidth returns the per CID width or the default width, in text-space
// units at size 1.
func (font *pdfCIDFontType2) charWidth(code CharCode) (float64, bool) {
	if w, ok := font.W[cmap.CID(code.Code)]; ok {
		return w * 0.001, true
	}
	return font.DW * 0.001, true
}

// cidToGID applies the explicit CIDToGIDMap when embedded, identity otherwise.
func (font *pdfCIDFontType2) cidToGID(cid cmap.CID) (uint16, bool) {
	if font.cidToGIDMap == nil {
		return uint16(cid), true
	}
	idx := 2 * int(cid)
	if idx+1 >= len(font.cidToGIDMap) {
		return 0, false
	}
	return uint16(font.cidToGIDMap[idx])<<8 | uint16(font.cidToGIDMap[idx+1]), true
}

// newPdfCIDFontType2FromPdfObject creates a pdfCIDFontType2 from dictionary `d`.
func newPdfCIDFontType2FromPdfObject(d *core.PdfObjectDictionary, base *fontCommon) (*pdfCIDFontType2, error) {
	font := &pdfCIDFontType2{fontCommon: *base}

	sysinfo, ok := core.GetDict(d.Get("CIDSystemInfo"))
	if !ok {
		common.Log.Debug("ERROR: CIDSystemInfo (Required) missing. font=%s", base)
		return nil, ErrRequiredAttributeMissing
	}
	font.CIDSystemInfo = sysinfo

	font.DW, font.W = parseCIDWidths(d)

	switch t := core.TraceToDirectObject(d.Get("CIDToGIDMap")).(type) {
	case *core.PdfObjectName:
		// "Identity" is the only defined name.
		if *t != "Identity" {
			common.Log.Debug("Unknown CIDToGIDMap name %q, using identity", *t)
		}
	case *core.PdfObjectStream:
		font.cidToGIDMap = t.Stream
	}

	return font, nil
}

// parseCIDWidths extracts /DW and the /W array. The /W array alternates
// between `c [w1 w2 ...]` runs and `cFirst cLast w` ranges.
func parseCIDWidths(d *core.PdfObjectDictionary) (float64, map[cmap.CID]float64) {
	dw := 1000.0
	if v, err := core.GetNumberAsFloat(d.Get("DW")); err == nil {
		dw = v
	}

	widths := make(map[cmap.CID]float64)
	wArr, ok := core.GetArray(d.Get("W"))
	if !ok {
		return dw, widths
	}

	elements := wArr.Elements()
	for i := 0; i < len(elements); {
		cFirst, err := core.GetNumberAsFloat(elements[i])
		if err != nil {
			common.Log.Debug("ERROR: Bad /W entry at %d: %v", i, err)
			return dw, widths
		}
		i++
		if i >= len(elements) {
			break
		}

		switch t := core.TraceToDirectObject(elements[i]).(type) {
		case *core.PdfObjectArray:
			list, err := t.ToFloat64Array()
			if err != nil {
				common.Log.Debug("ERROR: Bad /W width list: %v", err)
				return dw, widths
			}
			for j, w := range list {
				widths[cmap.CID(cFirst)+cmap.CID(j)] = w
			}
			i++
		default:
			cLast, err := core.GetNumberAsFloat(elements[i])
			if err != nil || i+1 >= len(elements) {
				common.Log.Debug("ERROR: Bad /W range at %d", i)
				return dw, widths
			}
			w, err := core.GetNumberAsFloat(elements[i+1])
			if err != nil {
				common.Log.Debug("ERROR: Bad /W range width: %v", err)
				return dw, widths
			}
			if cLast < cFirst || cLast-cFirst > 65535 {
				common.Log.Debug("ERROR: Bad /W range %f..%f", cFirst, cLast)
				return dw, widths
			}
			for c := cFirst; c <= cLast; c++ {
				widths[cmap.CID(c)] = w
			}
			i += 2
		}
	}

	return dw, widths
}

