/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package textencoding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardEncodingBasics(t *testing.T) {
	enc := NewStandardTextEncoder()

	r, ok := enc.CharcodeToRune('A')
	require.True(t, ok)
	assert.Equal(t, 'A', r)

	glyph, ok := enc.CharcodeToGlyph('&')
	require.True(t, ok)
	assert.Equal(t, GlyphName("ampersand"), glyph)

	// 0x27 is quoteright in the standard encoding.
	r, ok = enc.CharcodeToRune(0x27)
	require.True(t, ok)
	assert.Equal(t, '’', r)
}

func TestWinAnsiHighRegion(t *testing.T) {
	enc := NewWinAnsiEncoder()

	r, ok := enc.CharcodeToRune(0xe4)
	require.True(t, ok)
	assert.Equal(t, 'ä', r)

	r, ok = enc.CharcodeToRune(0x80)
	require.True(t, ok)
	assert.Equal(t, '€', r)
}

func TestDifferencesOverlay(t *testing.T) {
	base := NewWinAnsiEncoder()
	enc := ApplyDifferences(base, map[CharCode]GlyphName{
		65: "adieresis",
	})

	r, ok := enc.CharcodeToRune(65)
	require.True(t, ok)
	assert.Equal(t, 'ä', r)

	// Codes outside the differences fall through to the base.
	r, ok = enc.CharcodeToRune(66)
	require.True(t, ok)
	assert.Equal(t, 'B', r)

	glyph, ok := enc.CharcodeToGlyph(65)
	require.True(t, ok)
	assert.Equal(t, GlyphName("adieresis"), glyph)
}

func TestGlyphToRuneAlgorithmicNames(t *testing.T) {
	r, ok := GlyphToRune("uni0041")
	require.True(t, ok)
	assert.Equal(t, 'A', r)

	r, ok = GlyphToRune("u1F600")
	require.True(t, ok)
	assert.Equal(t, rune(0x1F600), r)

	// Suffixed subset names resolve through the bare name.
	r, ok = GlyphToRune("a.alt01")
	require.True(t, ok)
	assert.Equal(t, 'a', r)

	_, ok = GlyphToRune("definitely-not-a-glyph")
	assert.False(t, ok)
}

func TestRuneToGlyphRoundTrip(t *testing.T) {
	glyph, ok := RuneToGlyph('ä')
	require.True(t, ok)
	r, ok := GlyphToRune(glyph)
	require.True(t, ok)
	assert.Equal(t, 'ä', r)
}
