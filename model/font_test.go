/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdfrast/pdfrast/core"
)

func makeIdentityType0FontDict() *core.PdfObjectDictionary {
	descendant := core.MakeDict()
	descendant.Set("Type", core.MakeName("Font"))
	descendant.Set("Subtype", core.MakeName("CIDFontType2"))
	descendant.Set("BaseFont", core.MakeName("Test-CID"))
	sysinfo := core.MakeDict()
	sysinfo.Set("Registry", core.MakeString("Adobe"))
	sysinfo.Set("Ordering", core.MakeString("Identity"))
	sysinfo.Set("Supplement", core.MakeInteger(0))
	descendant.Set("CIDSystemInfo", sysinfo)
	descendant.Set("DW", core.MakeInteger(1000))
	descendant.Set("W", core.MakeArray(
		core.MakeInteger(65), core.MakeArray(core.MakeInteger(500)),
		core.MakeInteger(258), core.MakeInteger(259), core.MakeInteger(250),
	))

	d := core.MakeDict()
	d.Set("Type", core.MakeName("Font"))
	d.Set("Subtype", core.MakeName("Type0"))
	d.Set("BaseFont", core.MakeName("Test-Identity"))
	d.Set("Encoding", core.MakeName("Identity-H"))
	d.Set("DescendantFonts", core.MakeArray(descendant))
	return d
}

func TestIdentityHSegmentationAndCIDs(t *testing.T) {
	font, err := NewPdfFontFromPdfObject(makeIdentityType0FontDict())
	require.NoError(t, err)
	assert.Equal(t, "Type0:CIDFontType2", font.Subtype())
	assert.True(t, font.IsCID())

	codes := font.BytesToCharcodes([]byte{0x00, 0x41, 0x01, 0x02})
	require.Len(t, codes, 2)
	assert.Equal(t, CharCode{Code: 0x0041, NumBytes: 2}, codes[0])
	assert.Equal(t, CharCode{Code: 0x0102, NumBytes: 2}, codes[1])

	cid, ok := font.CharcodeToCID(codes[0])
	require.True(t, ok)
	assert.Equal(t, uint32(65), uint32(cid))

	cid, ok = font.CharcodeToCID(codes[1])
	require.True(t, ok)
	assert.Equal(t, uint32(258), uint32(cid))
}

func TestCompositeWidths(t *testing.T) {
	font, err := NewPdfFontFromPdfObject(makeIdentityType0FontDict())
	require.NoError(t, err)

	// Per-CID override from the W array.
	w, ok := font.CharWidth(CharCode{Code: 65, NumBytes: 2})
	require.True(t, ok)
	assert.InDelta(t, 0.5, w, 1e-9)

	// Range entry.
	w, ok = font.CharWidth(CharCode{Code: 258, NumBytes: 2})
	require.True(t, ok)
	assert.InDelta(t, 0.25, w, 1e-9)

	// Default width.
	w, ok = font.CharWidth(CharCode{Code: 9999, NumBytes: 2})
	require.True(t, ok)
	assert.InDelta(t, 1.0, w, 1e-9)
}

func TestOddLengthIdentityString(t *testing.T) {
	font, err := NewPdfFontFromPdfObject(makeIdentityType0FontDict())
	require.NoError(t, err)

	// A 2-byte stride would overrun the odd-length string; fall back to
	// single bytes.
	codes := font.BytesToCharcodes([]byte{0x00, 0x41, 0x01})
	require.Len(t, codes, 3)
	assert.Equal(t, 1, codes[0].NumBytes)
}

func makeSimpleFontDict() *core.PdfObjectDictionary {
	// Helvetica-like widths for H e l o starting at code 'H' = 72.
	widths := make([]core.PdfObject, 0, 40)
	for code := 72; code <= 111; code++ {
		w := 0
		switch code {
		case 'H':
			w = 722
		case 'e', 'o':
			w = 556
		case 'l':
			w = 222
		}
		widths = append(widths, core.MakeInteger(int64(w)))
	}

	d := core.MakeDict()
	d.Set("Type", core.MakeName("Font"))
	d.Set("Subtype", core.MakeName("Type1"))
	d.Set("BaseFont", core.MakeName("TestHelvetica"))
	d.Set("FirstChar", core.MakeInteger(72))
	d.Set("LastChar", core.MakeInteger(111))
	d.Set("Widths", core.MakeArray(widths...))
	return d
}

func TestSimpleFontSegmentationAndWidths(t *testing.T) {
	font, err := NewPdfFontFromPdfObject(makeSimpleFontDict())
	require.NoError(t, err)

	codes := font.BytesToCharcodes([]byte("Hello"))
	require.Len(t, codes, 5)
	for _, code := range codes {
		assert.Equal(t, 1, code.NumBytes)
	}

	total := 0.0
	for _, code := range codes {
		w, ok := font.CharWidth(code)
		require.True(t, ok)
		total += w
	}
	// H + e + l + l + o = 722+556+222+222+556 = 2278 (milliunits).
	assert.InDelta(t, 2.278, total, 1e-9)
}

func TestToUnicodeFallbackThroughDifferences(t *testing.T) {
	d := makeSimpleFontDict()

	encDict := core.MakeDict()
	encDict.Set("BaseEncoding", core.MakeName("WinAnsiEncoding"))
	encDict.Set("Differences", core.MakeArray(
		core.MakeInteger(72),
		core.MakeName("adieresis"),
	))
	d.Set("Encoding", encDict)

	font, err := NewPdfFontFromPdfObject(d)
	require.NoError(t, err)

	// Code 72 remapped through /Differences, resolved via the glyph list.
	u, ok := font.CharcodeToUnicode(CharCode{Code: 72, NumBytes: 1})
	require.True(t, ok)
	assert.Equal(t, "ä", u)

	// Untouched code resolves through the base encoding.
	u, ok = font.CharcodeToUnicode(CharCode{Code: 'e', NumBytes: 1})
	require.True(t, ok)
	assert.Equal(t, "e", u)
}

func TestCharInfoCacheDeterminism(t *testing.T) {
	font, err := NewPdfFontFromPdfObject(makeSimpleFontDict())
	require.NoError(t, err)

	code := CharCode{Code: 'H', NumBytes: 1}
	first := font.CharInfo(code)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, font.CharInfo(code))
	}
	assert.True(t, first.HasWidth)
	assert.InDelta(t, 0.722, first.Width, 1e-9)
}

func TestWordBreakDetection(t *testing.T) {
	assert.True(t, CharCode{Code: 0x20, NumBytes: 1}.IsWordBreak())
	// Word breaks apply only to the 1-byte space code.
	assert.False(t, CharCode{Code: 0x20, NumBytes: 2}.IsWordBreak())
	assert.False(t, CharCode{Code: 0x41, NumBytes: 1}.IsWordBreak())
}

func TestStandard14Metrics(t *testing.T) {
	d := core.MakeDict()
	d.Set("Type", core.MakeName("Font"))
	d.Set("Subtype", core.MakeName("Type1"))
	d.Set("BaseFont", core.MakeName("Helvetica"))

	font, err := NewPdfFontFromPdfObject(d)
	require.NoError(t, err)

	w, ok := font.CharWidth(CharCode{Code: 'H', NumBytes: 1})
	require.True(t, ok)
	assert.InDelta(t, 0.722, w, 1e-9)

	w, ok = font.CharWidth(CharCode{Code: ' ', NumBytes: 1})
	require.True(t, ok)
	assert.InDelta(t, 0.278, w, 1e-9)
}
