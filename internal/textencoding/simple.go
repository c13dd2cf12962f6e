/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package textencoding

import (
	"fmt"
	"sort"
	"sync"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	xtransform "golang.org/x/text/transform"

	"github.com/pdfrast/pdfrast/common"
	"github.com/pdfrast/pdfrast/core"
)

// NewSimpleTextEncoder returns a simpleEncoding based on predefined encoding `baseName` and
// difference map `differences`.
func NewSimpleTextEncoder(baseName string, differences map[CharCode]GlyphName) (SimpleEncoder, error) {
	mapping, ok := simple[baseName]
	if !ok {
		common.Log.Debug("ERROR: NewSimpleTextEncoder. Unknown encoding %q", baseName)
		return nil, fmt.Errorf("unsupported font encoding: %q", baseName)
	}
	enc := mapping.NewEncoder()
	if len(differences) != 0 {
		enc = ApplyDifferences(enc, differences)
	}
	return enc, nil
}

// NewStandardTextEncoder returns the Adobe StandardEncoding encoder.
func NewStandardTextEncoder() SimpleEncoder {
	return standardMapping.NewEncoder()
}

// NewWinAnsiEncoder returns the WinAnsiEncoding encoder.
func NewWinAnsiEncoder() SimpleEncoder {
	return winAnsiMapping.NewEncoder()
}

// NewMacRomanEncoder returns the MacRomanEncoding encoder.
func NewMacRomanEncoder() SimpleEncoder {
	return macRomanMapping.NewEncoder()
}

var simple = map[string]*simpleMapping{}

func registerSimpleMapping(m *simpleMapping) {
	simple[m.baseName] = m
}

var (
	_ SimpleEncoder     = (*simpleEncoding)(nil)
	_ encoding.Encoding = (*simpleEncoding)(nil)
)

// simpleEncoding represents a 1 byte encoding.
type simpleEncoding struct {
	baseName string

	// one byte encoding: code -> glyph name.
	glyphs map[byte]GlyphName
	// derived code -> rune map, via the Adobe glyph list.
	decode map[byte]rune
}

// Decode converts PDF encoded bytes to a Go unicode string.
func (enc *simpleEncoding) Decode(raw []byte) string {
	data, _ := enc.NewDecoder().Bytes(raw)
	return string(data)
}

// NewDecoder implements encoding.Encoding.
func (enc *simpleEncoding) NewDecoder() *encoding.Decoder {
	return &encoding.Decoder{Transformer: simpleDecoder{m: enc.decode}}
}

// NewEncoder implements encoding.Encoding. Encoding back to PDF bytes is not
// used by the renderer; the returned encoder replaces everything with the
// missing code.
func (enc *simpleEncoding) NewEncoder() *encoding.Encoder {
	return &encoding.Encoder{Transformer: simpleDecoder{m: map[byte]rune{}}}
}

type simpleDecoder struct {
	m map[byte]rune
}

// Transform implements xtransform.Transformer.
func (d simpleDecoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, _ error) {
	for len(src) != 0 {
		b := src[0]
		src = src[1:]

		r, ok := d.m[b]
		if !ok {
			r = MissingCodeRune
		}
		if utf8.RuneLen(r) > len(dst) {
			return nDst, nSrc, xtransform.ErrShortDst
		}
		n := utf8.EncodeRune(dst, r)
		dst = dst[n:]

		nSrc++
		nDst += n
	}
	return nDst, nSrc, nil
}

// Reset implements xtransform.Transformer.
func (d simpleDecoder) Reset() {}

// String returns a text representation of encoding.
func (enc *simpleEncoding) String() string {
	return "simpleEncoding(" + enc.baseName + ")"
}

// BaseName returns a base name of the encoder, as specified in the PDF spec.
func (enc *simpleEncoding) BaseName() string {
	return enc.baseName
}

// Charcodes returns the codes defined by the encoding, in ascending order.
func (enc *simpleEncoding) Charcodes() []CharCode {
	codes := make([]CharCode, 0, len(enc.glyphs))
	for b := range enc.glyphs {
		codes = append(codes, CharCode(b))
	}
	sort.Slice(codes, func(i, j int) bool {
		return codes[i] < codes[j]
	})
	return codes
}

// CharcodeToRune returns the rune corresponding to character code `code`.
func (enc *simpleEncoding) CharcodeToRune(code CharCode) (rune, bool) {
	if code > 0xff {
		return MissingCodeRune, false
	}
	r, ok := enc.decode[byte(code)]
	return r, ok
}

// CharcodeToGlyph returns the glyph name for character code `code`.
func (enc *simpleEncoding) CharcodeToGlyph(code CharCode) (GlyphName, bool) {
	if code > 0xff {
		return "", false
	}
	glyph, ok := enc.glyphs[byte(code)]
	return glyph, ok
}

// ToPdfObject returns the encoding as a name object.
func (enc *simpleEncoding) ToPdfObject() core.PdfObject {
	return core.MakeName(enc.baseName)
}

// newSimpleMapping creates a byte-to-glyph mapping that can be used to create simple encodings.
// An implementation will build the rune map only once, when the encoding is first used.
func newSimpleMapping(name string, glyphs map[byte]GlyphName) *simpleMapping {
	return &simpleMapping{
		baseName: name,
		glyphs:   glyphs,
	}
}

type simpleMapping struct {
	baseName string
	once     sync.Once
	glyphs   map[byte]GlyphName
	decode   map[byte]rune
}

func (m *simpleMapping) init() {
	m.decode = make(map[byte]rune, len(m.glyphs))
	for b, glyph := range m.glyphs {
		r, ok := GlyphToRune(glyph)
		if !ok {
			continue
		}
		m.decode[b] = r
	}
}

// NewEncoder creates a new SimpleEncoder from the byte-to-glyph mapping.
func (m *simpleMapping) NewEncoder() SimpleEncoder {
	m.once.Do(m.init)
	return &simpleEncoding{
		baseName: m.baseName,
		glyphs:   m.glyphs,
		decode:   m.decode,
	}
}
