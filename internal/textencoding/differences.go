/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package textencoding

import (
	"sort"

	"github.com/pdfrast/pdfrast/common"
	"github.com/pdfrast/pdfrast/core"
)

// FromFontDifferences converts `diffList`, a /Differences array from an
// /Encoding dictionary, to a map representing character code to glyph mappings.
func FromFontDifferences(diffList *core.PdfObjectArray) (map[CharCode]GlyphName, error) {
	differences := make(map[CharCode]GlyphName)

	var n CharCode
	for _, obj := range diffList.Elements() {
		switch v := core.TraceToDirectObject(obj).(type) {
		case *core.PdfObjectInteger:
			n = CharCode(*v)
		case *core.PdfObjectName:
			differences[n] = GlyphName(*v)
			n++
		default:
			common.Log.Debug("ERROR: Bad type in /Differences array: %T", obj)
			return nil, core.ErrTypeError
		}
	}
	return differences, nil
}

// ApplyDifferences applies the encoding delta `differences` to the simple
// encoder `base` and returns the result.
func ApplyDifferences(base SimpleEncoder, differences map[CharCode]GlyphName) SimpleEncoder {
	if len(differences) == 0 {
		return base
	}
	d := &differencesEncoding{
		base:        base,
		differences: differences,
		decode:      make(map[byte]rune, len(differences)),
	}
	for code, glyph := range differences {
		if code > 0xff {
			common.Log.Debug("ERROR: Difference code out of range: %d", code)
			continue
		}
		if r, ok := GlyphToRune(glyph); ok {
			d.decode[byte(code)] = r
		}
	}
	return d
}

// differencesEncoding overlays a /Differences delta on a base simple encoding.
type differencesEncoding struct {
	base        SimpleEncoder
	differences map[CharCode]GlyphName
	decode      map[byte]rune
}

// String returns a text representation of the encoding.
func (enc *differencesEncoding) String() string {
	return "differences(" + enc.base.String() + ")"
}

// BaseName returns the base name of the underlying encoder.
func (enc *differencesEncoding) BaseName() string {
	return enc.base.BaseName()
}

// Charcodes returns the codes of both the base encoding and the differences, ascending.
func (enc *differencesEncoding) Charcodes() []CharCode {
	seen := make(map[CharCode]struct{})
	var codes []CharCode
	for _, code := range enc.base.Charcodes() {
		codes = append(codes, code)
		seen[code] = struct{}{}
	}
	for code := range enc.differences {
		if _, ok := seen[code]; !ok {
			codes = append(codes, code)
		}
	}
	sort.Slice(codes, func(i, j int) bool {
		return codes[i] < codes[j]
	})
	return codes
}

// CharcodeToRune returns the rune for `code`, consulting the differences first.
func (enc *differencesEncoding) CharcodeToRune(code CharCode) (rune, bool) {
	if code <= 0xff {
		if r, ok := enc.decode[byte(code)]; ok {
			return r, true
		}
		// A difference may name a glyph outside the glyph list; it still
		// shadows the base encoding.
		if _, ok := enc.differences[code]; ok {
			return MissingCodeRune, false
		}
	}
	return enc.base.CharcodeToRune(code)
}

// CharcodeToGlyph returns the glyph name for `code`, consulting the differences first.
func (enc *differencesEncoding) CharcodeToGlyph(code CharCode) (GlyphName, bool) {
	if glyph, ok := enc.differences[code]; ok {
		return glyph, true
	}
	return enc.base.CharcodeToGlyph(code)
}

// Differences returns the raw differences map.
func (enc *differencesEncoding) Differences() map[CharCode]GlyphName {
	return enc.differences
}

// ToPdfObject returns the encoding as an /Encoding dictionary with a /Differences array.
func (enc *differencesEncoding) ToPdfObject() core.PdfObject {
	dict := core.MakeDict()
	dict.Set("Type", core.MakeName("Encoding"))
	dict.Set("BaseEncoding", enc.base.ToPdfObject())

	codes := make([]CharCode, 0, len(enc.differences))
	for code := range enc.differences {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool {
		return codes[i] < codes[j]
	})

	diff := core.MakeArray()
	last := CharCode(0xffffffff)
	for _, code := range codes {
		if code != last+1 {
			diff.Append(core.MakeInteger(int64(code)))
		}
		diff.Append(core.MakeName(string(enc.differences[code])))
		last = code
	}
	dict.Set("Differences", diff)
	return core.MakeIndirectObject(dict)
}
