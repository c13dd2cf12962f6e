/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package textencoding

import (
	"github.com/pdfrast/pdfrast/core"
)

// MissingCodeRune replaces runes that can't be decoded. '�' = �.
const MissingCodeRune = '�'

// CharCode is a character code used in the specific encoding.
type CharCode uint32

// GlyphName is a name of a glyph.
type GlyphName string

// TextEncoder defines the common methods that a text encoder implementation must have in pdfrast.
type TextEncoder interface {
	// String returns a string that describes the TextEncoder instance.
	String() string

	// CharcodeToRune returns the rune corresponding to character code `code`.
	// The bool return flag is true if there was a match, and false otherwise.
	CharcodeToRune(code CharCode) (rune, bool)

	// CharcodeToGlyph returns the glyph name for character code `code`.
	// The bool return flag is true if there was a match, and false otherwise.
	CharcodeToGlyph(code CharCode) (GlyphName, bool)

	// ToPdfObject returns a PDF representation of the encoder.
	ToPdfObject() core.PdfObject
}

// SimpleEncoder represents a 1 byte encoding.
type SimpleEncoder interface {
	TextEncoder
	BaseName() string
	Charcodes() []CharCode
}
