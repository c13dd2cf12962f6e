/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package model

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/unidoc/unitype"

	"github.com/pdfrast/pdfrast/common"
	"github.com/pdfrast/pdfrast/core"
	"github.com/pdfrast/pdfrast/internal/cmap"
	"github.com/pdfrast/pdfrast/internal/textencoding"
)

// CharCode is a length-aware character code extracted from a shown string.
// Equality is by value and byte length.
type CharCode struct {
	Code     uint32
	NumBytes int
}

// IsWordBreak returns true for the single-byte space code, the only code
// word spacing applies to.
func (c CharCode) IsWordBreak() bool {
	return c.NumBytes == 1 && c.Code == 0x20
}

// String returns a string representation of the code.
func (c CharCode) String() string {
	return fmt.Sprintf("%0*x", 2*c.NumBytes, c.Code)
}

// CharInfo is the resolved rendering information of one character code.
type CharInfo struct {
	Unicode string
	GID     uint16
	HasGID  bool
	Width   float64 // Text-space units at size 1.
	HasWidth bool
}

// pdfFont is an internal interface for fonts that can be rendered.
type pdfFont interface {
	// baseFields returns fields that are common for PDF fonts.
	baseFields() *fontCommon
	// getFontDescriptor returns the font descriptor of the font.
	getFontDescriptor() *PdfFontDescriptor
	// charWidth returns the advance width of `code` in text-space units at
	// size 1, when known.
	charWidth(code CharCode) (float64, bool)
}

// PdfFont represents an underlying font structure which can be of type:
// - Type0
// - Type1
// - TrueType
// etc.
type PdfFont struct {
	context pdfFont

	cacheMu   sync.Mutex
	charCache map[CharCode]CharInfo
}

// BaseFont returns the font's "BaseFont" field.
func (font *PdfFont) BaseFont() string {
	return font.baseFields().basefont
}

// Subtype returns the font's "Subtype" field.
func (font *PdfFont) Subtype() string {
	subtype := font.baseFields().subtype
	if t, ok := font.context.(*pdfFontType0); ok && t.DescendantFont != nil {
		subtype = subtype + ":" + t.DescendantFont.Subtype()
	}
	return subtype
}

// IsCID returns true if the underlying font is CID.
func (font *PdfFont) IsCID() bool {
	return font.baseFields().isCIDFont()
}

// IsType3 returns true for Type 3 fonts.
func (font *PdfFont) IsType3() bool {
	_, ok := font.context.(*pdfFontType3)
	return ok
}

// Type3Font returns the Type 3 context of the font, or nil.
func (font *PdfFont) Type3Font() *pdfFontType3 {
	t3, _ := font.context.(*pdfFontType3)
	return t3
}

// String returns a string that describes `font`.
func (font *PdfFont) String() string {
	return fmt.Sprintf("FONT{%T %s}", font.context, font.baseFields().coreString())
}

// FontDescriptor returns font's PdfFontDescriptor.
func (font *PdfFont) FontDescriptor() *PdfFontDescriptor {
	if font.baseFields().fontDescriptor != nil {
		return font.baseFields().fontDescriptor
	}
	if d := font.context.getFontDescriptor(); d != nil {
		return d
	}
	return nil
}

// NewPdfFontFromPdfObject loads a PdfFont from the dictionary `fontObj`. If there is a problem an
// error is returned.
func NewPdfFontFromPdfObject(fontObj core.PdfObject) (*PdfFont, error) {
	return newPdfFontFromPdfObject(fontObj, true)
}

// newPdfFontFromPdfObject loads a PdfFont from the dictionary `fontObj`. The allowType0 flag
// avoids cyclical loading of descendants.
func newPdfFontFromPdfObject(fontObj core.PdfObject, allowType0 bool) (*PdfFont, error) {
	d, base, err := newFontBaseFieldsFromPdfObject(fontObj)
	if err != nil {
		return nil, err
	}

	font := &PdfFont{}
	switch base.subtype {
	case "Type0":
		if !allowType0 {
			common.Log.Debug("ERROR: Loading type0 not allowed. font=%s", base)
			return nil, errors.New("cyclical type0 loading")
		}
		type0font, err := newPdfFontType0FromPdfObject(d, base)
		if err != nil {
			common.Log.Debug("ERROR: While loading Type0 font. font=%s err=%v", base, err)
			return nil, err
		}
		font.context = type0font
	case "Type1", "MMType1", "TrueType":
		simplefont, err := newSimpleFontFromPdfObject(d, base)
		if err != nil {
			common.Log.Debug("ERROR: While loading simple font: font=%s err=%v", base, err)
			return nil, err
		}
		font.context = simplefont
	case "Type3":
		type3font, err := newPdfFontType3FromPdfObject(d, base)
		if err != nil {
			common.Log.Debug("ERROR: While loading Type3 font: font=%s err=%v", base, err)
			return nil, err
		}
		font.context = type3font
	case "CIDFontType0":
		cidfont, err := newPdfCIDFontType0FromPdfObject(d, base)
		if err != nil {
			common.Log.Debug("ERROR: While loading CIDFontType0 font: %v", err)
			return nil, err
		}
		font.context = cidfont
	case "CIDFontType2":
		cidfont, err := newPdfCIDFontType2FromPdfObject(d, base)
		if err != nil {
			common.Log.Debug("ERROR: While loading CIDFontType2 font: %v", err)
			return nil, err
		}
		font.context = cidfont
	default:
		common.Log.Debug("ERROR: Unsupported font type: font=%s", base)
		return nil, fmt.Errorf("unsupported font type: font=%s", base)
	}

	return font, nil
}

func (font *PdfFont) baseFields() *fontCommon {
	if font.context == nil {
		common.Log.Debug("ERROR: baseFields. context is nil.")
		return &fontCommon{}
	}
	return font.context.baseFields()
}

// BytesToCharcodes converts the bytes in a PDF string to character codes,
// segmented per the font type.
func (font *PdfFont) BytesToCharcodes(data []byte) []CharCode {
	if t, ok := font.context.(*pdfFontType0); ok {
		return t.bytesToCharcodes(data)
	}

	// Simple fonts always use 1-byte codes.
	codes := make([]CharCode, 0, len(data))
	for _, b := range data {
		codes = append(codes, CharCode{Code: uint32(b), NumBytes: 1})
	}
	return codes
}

// CharcodeToUnicode returns the unicode string of `code`, consulting the
// font's ToUnicode CMap first and the glyph name route for simple fonts.
func (font *PdfFont) CharcodeToUnicode(code CharCode) (string, bool) {
	base := font.baseFields()
	if base.toUnicodeCmap != nil {
		if u, ok := base.toUnicodeCmap.CharcodeToUnicode(cmap.CharCode(code.Code)); ok {
			return u, true
		}
	}

	// Fallback for single-byte fonts: glyph name via Differences or the
	// base encoding, then the Adobe glyph list.
	if code.NumBytes == 1 {
		if enc := font.simpleEncoder(); enc != nil {
			if glyph, ok := enc.CharcodeToGlyph(textencoding.CharCode(code.Code)); ok {
				if r, ok := textencoding.GlyphToRune(glyph); ok {
					return string(r), true
				}
			}
		}
	}
	return "", false
}

func (font *PdfFont) simpleEncoder() textencoding.SimpleEncoder {
	switch t := font.context.(type) {
	case *pdfFontSimple:
		return t.encoder
	case *pdfFontType3:
		return t.encoder
	}
	return nil
}

// CharcodeToCID maps a code to the CID of a composite font. Simple fonts
// return the code value itself.
func (font *PdfFont) CharcodeToCID(code CharCode) (cmap.CID, bool) {
	if t, ok := font.context.(*pdfFontType0); ok {
		return t.charcodeToCID(code)
	}
	return cmap.CID(code.Code), true
}

// GIDForCharcode maps a character code to a glyph index in the embedded
// font program.
func (font *PdfFont) GIDForCharcode(code CharCode) (uint16, bool) {
	switch t := font.context.(type) {
	case *pdfFontType0:
		cid, ok := t.charcodeToCID(code)
		if !ok {
			return 0, false
		}
		return t.cidToGID(cid)
	case *pdfFontSimple:
		return t.gidForCharcode(code)
	}
	return 0, false
}

// CharWidth returns the advance width of `code` in text-space units at size 1.
func (font *PdfFont) CharWidth(code CharCode) (float64, bool) {
	return font.context.charWidth(code)
}

// CharInfo resolves and memoizes the unicode, GID and width of `code`.
func (font *PdfFont) CharInfo(code CharCode) CharInfo {
	font.cacheMu.Lock()
	defer font.cacheMu.Unlock()

	if font.charCache == nil {
		font.charCache = make(map[CharCode]CharInfo)
	}
	if info, ok := font.charCache[code]; ok {
		return info
	}

	var info CharInfo
	info.Unicode, _ = font.CharcodeToUnicode(code)
	info.GID, info.HasGID = font.GIDForCharcode(code)
	info.Width, info.HasWidth = font.CharWidth(code)
	font.charCache[code] = info
	return info
}

// fontCommon represents the fields that are common to all PDF fonts.
type fontCommon struct {
	// All fonts have these fields.
	basefont string // The font's "BaseFont" field.
	subtype  string // The font's "Subtype" field.
	name     string

	// These are optional fields.
	toUnicode core.PdfObject

	// These objects are computed from optional fields.
	toUnicodeCmap  *cmap.CMap
	fontDescriptor *PdfFontDescriptor
}

// coreString returns the contents of fontCommon as a string.
func (base fontCommon) coreString() string {
	descriptor := ""
	if base.fontDescriptor != nil {
		descriptor = base.fontDescriptor.String()
	}
	return fmt.Sprintf("%#q %#q %q %s", base.subtype, base.basefont, base.name, descriptor)
}

func (base fontCommon) String() string {
	return fmt.Sprintf("FONT{%s}", base.coreString())
}

// isCIDFont returns true if `base` is a CID font.
func (base fontCommon) isCIDFont() bool {
	if base.subtype == "" {
		common.Log.Debug("ERROR: isCIDFont. context is nil. font=%s", base)
	}
	isCID := false
	switch base.subtype {
	case "Type0", "CIDFontType0", "CIDFontType2":
		isCID = true
	}
	return isCID
}

// newFontBaseFieldsFromPdfObject returns `fontObj` as a dictionary the common fields from that
// dictionary in the fontCommon return. If there is a problem an error is returned.
// The fontCommon is the group of fields common to all PDF fonts.
func newFontBaseFieldsFromPdfObject(fontObj core.PdfObject) (*core.PdfObjectDictionary, *fontCommon, error) {
	font := &fontCommon{}

	d, ok := core.GetDict(fontObj)
	if !ok {
		common.Log.Debug("ERROR: Font not given by a dictionary (%T)", fontObj)
		return nil, nil, ErrFontNotSupported
	}

	objtype, ok := core.GetNameVal(d.Get("Type"))
	if !ok {
		common.Log.Debug("ERROR: Font Incompatibility. Type (Required) missing")
		return nil, nil, ErrRequiredAttributeMissing
	}
	if objtype != "Font" {
		common.Log.Debug("ERROR: Font Incompatibility. Type=%q. Should be %q.", objtype, "Font")
		return nil, nil, core.ErrTypeError
	}

	subtype, ok := core.GetNameVal(d.Get("Subtype"))
	if !ok {
		common.Log.Debug("ERROR: Font Incompatibility. Subtype (Required) missing")
		return nil, nil, ErrRequiredAttributeMissing
	}
	font.subtype = subtype

	if name, ok := core.GetNameVal(d.Get("Name")); ok {
		font.name = name
	}

	basefont, _ := core.GetNameVal(d.Get("BaseFont"))
	font.basefont = basefont

	obj := d.Get("FontDescriptor")
	if obj != nil {
		fontDescriptor, err := newPdfFontDescriptorFromPdfObject(obj)
		if err != nil {
			common.Log.Debug("ERROR: Bad font descriptor. err=%v", err)
			return nil, nil, err
		}
		font.fontDescriptor = fontDescriptor
	}

	toUnicode := d.Get("ToUnicode")
	if toUnicode != nil {
		font.toUnicode = core.TraceToDirectObject(toUnicode)
		codemap, err := toUnicodeToCmap(font.toUnicode, font)
		if err != nil {
			return d, font, err
		}
		font.toUnicodeCmap = codemap
	}

	return d, font, nil
}

// toUnicodeToCmap returns a CMap of `toUnicode` if it exists.
func toUnicodeToCmap(toUnicode core.PdfObject, font *fontCommon) (*cmap.CMap, error) {
	toUnicodeStream, ok := core.GetStream(toUnicode)
	if !ok {
		common.Log.Debug("ERROR: toUnicodeToCmap: Not a stream (%T)", toUnicode)
		return nil, core.ErrTypeError
	}
	return cmap.LoadCmapFromData(toUnicodeStream.Stream, !font.isCIDFont())
}

// PdfFontDescriptor specifies metrics and other attributes of a font and can
// refer to a FontFile for embedded fonts.
// 9.8 Font Descriptors (page 281)
type PdfFontDescriptor struct {
	FontName     core.PdfObject
	FontFamily   core.PdfObject
	FontStretch  core.PdfObject
	FontWeight   core.PdfObject
	Flags        core.PdfObject
	FontBBox     core.PdfObject
	ItalicAngle  core.PdfObject
	Ascent       core.PdfObject
	Descent      core.PdfObject
	Leading      core.PdfObject
	CapHeight    core.PdfObject
	XHeight      core.PdfObject
	StemV        core.PdfObject
	StemH        core.PdfObject
	AvgWidth     core.PdfObject
	MaxWidth     core.PdfObject
	MissingWidth core.PdfObject
	FontFile     core.PdfObject // PFB
	FontFile2    core.PdfObject // TTF
	FontFile3    core.PdfObject // OTF / CFF
	CharSet      core.PdfObject

	// Additional entries for CIDFonts.
	Style  core.PdfObject
	Lang   core.PdfObject
	FD     core.PdfObject
	CIDSet core.PdfObject

	programOnce sync.Once
	program     *unitype.Font
}

// EmbeddedFontFormat identifies the format of the embedded font program.
type EmbeddedFontFormat int

// Embedded font formats selected by descriptor priority.
const (
	EmbeddedFontNone EmbeddedFontFormat = iota
	EmbeddedFontTrueType
	EmbeddedFontType1
	EmbeddedFontType1C
	EmbeddedFontCIDFontType0C
	EmbeddedFontOpenType
)

// newPdfFontDescriptorFromPdfObject loads the font descriptor from a core.PdfObject. Can either be a
// *PdfIndirectObject or a *PdfObjectDictionary.
func newPdfFontDescriptorFromPdfObject(obj core.PdfObject) (*PdfFontDescriptor, error) {
	descriptor := &PdfFontDescriptor{}

	d, ok := core.GetDict(obj)
	if !ok {
		common.Log.Debug("ERROR: FontDescriptor not given by a dictionary (%T)", obj)
		return nil, core.ErrTypeError
	}

	if objtype, ok := core.GetNameVal(d.Get("Type")); ok && objtype != "FontDescriptor" {
		common.Log.Debug("Incompatibility: Font descriptor Type invalid (%q)", objtype)
	}

	descriptor.FontName = d.Get("FontName")
	descriptor.FontFamily = d.Get("FontFamily")
	descriptor.FontStretch = d.Get("FontStretch")
	descriptor.FontWeight = d.Get("FontWeight")
	descriptor.Flags = d.Get("Flags")
	descriptor.FontBBox = d.Get("FontBBox")
	descriptor.ItalicAngle = d.Get("ItalicAngle")
	descriptor.Ascent = d.Get("Ascent")
	descriptor.Descent = d.Get("Descent")
	descriptor.Leading = d.Get("Leading")
	descriptor.CapHeight = d.Get("CapHeight")
	descriptor.XHeight = d.Get("XHeight")
	descriptor.StemV = d.Get("StemV")
	descriptor.StemH = d.Get("StemH")
	descriptor.AvgWidth = d.Get("AvgWidth")
	descriptor.MaxWidth = d.Get("MaxWidth")
	descriptor.MissingWidth = d.Get("MissingWidth")
	descriptor.FontFile = d.Get("FontFile")
	descriptor.FontFile2 = d.Get("FontFile2")
	descriptor.FontFile3 = d.Get("FontFile3")
	descriptor.CharSet = d.Get("CharSet")
	descriptor.Style = d.Get("Style")
	descriptor.Lang = d.Get("Lang")
	descriptor.FD = d.Get("FD")
	descriptor.CIDSet = d.Get("CIDSet")

	return descriptor, nil
}

// String returns a string describing the font descriptor.
func (desc *PdfFontDescriptor) String() string {
	var parts []string
	if name, ok := core.GetNameVal(desc.FontName); ok {
		parts = append(parts, name)
	}
	format, _ := desc.EmbeddedFont()
	parts = append(parts, fmt.Sprintf("format=%d", format))
	return fmt.Sprintf("FONT_DESCRIPTOR{%s}", parts)
}

// GetMissingWidth returns the /MissingWidth entry in raw glyph units, or 0.
func (desc *PdfFontDescriptor) GetMissingWidth() float64 {
	if desc == nil {
		return 0
	}
	if w, err := core.GetNumberAsFloat(desc.MissingWidth); err == nil {
		return w
	}
	return 0
}

// EmbeddedFont selects the embedded font program by descriptor priority:
// FontFile2 (TrueType), then FontFile3 (format by /Subtype), then FontFile
// (Type 1). Returns the format and raw bytes.
func (desc *PdfFontDescriptor) EmbeddedFont() (EmbeddedFontFormat, []byte) {
	if desc == nil {
		return EmbeddedFontNone, nil
	}
	if stream, ok := core.GetStream(desc.FontFile2); ok {
		return EmbeddedFontTrueType, stream.Stream
	}
	if stream, ok := core.GetStream(desc.FontFile3); ok {
		subtype, _ := core.GetNameVal(stream.PdfObjectDictionary.Get("Subtype"))
		switch subtype {
		case "Type1C":
			return EmbeddedFontType1C, stream.Stream
		case "CIDFontType0C":
			return EmbeddedFontCIDFontType0C, stream.Stream
		case "OpenType":
			return EmbeddedFontOpenType, stream.Stream
		default:
			common.Log.Debug("Unknown FontFile3 subtype %q", subtype)
			return EmbeddedFontOpenType, stream.Stream
		}
	}
	if stream, ok := core.GetStream(desc.FontFile); ok {
		return EmbeddedFontType1, stream.Stream
	}
	return EmbeddedFontNone, nil
}

// trueTypeProgram parses and memoizes the embedded TrueType/OpenType program.
func (desc *PdfFontDescriptor) trueTypeProgram() *unitype.Font {
	if desc == nil {
		return nil
	}
	desc.programOnce.Do(func() {
		format, data := desc.EmbeddedFont()
		if format != EmbeddedFontTrueType && format != EmbeddedFontOpenType {
			return
		}
		fnt, err := unitype.Parse(bytes.NewReader(data))
		if err != nil {
			common.Log.Debug("ERROR: parsing embedded font program: %v", err)
			return
		}
		desc.program = fnt
	})
	return desc.program
}

// gidForRune looks a rune up in the embedded program's character map.
func (desc *PdfFontDescriptor) gidForRune(r rune) (uint16, bool) {
	program := desc.trueTypeProgram()
	if program == nil {
		return 0, false
	}
	indices := program.LookupRunes([]rune{r})
	if len(indices) == 0 || indices[0] == 0 {
		return 0, false
	}
	return uint16(indices[0]), true
}
