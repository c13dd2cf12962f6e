/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package cmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToUnicodeCMap = `
/CIDInit /ProcSet findresource begin
12 dict begin
begincmap
/CMapName /Adobe-Identity-UCS def
/CMapType 2 def
1 begincodespacerange
<0000> <FFFF>
endcodespacerange
2 beginbfchar
<0041> <0061>
<0042> <0062>
endbfchar
1 beginbfrange
<0050> <0052> <0070>
endbfrange
endcmap
CMap currentdict /CMap defineresource pop
end
end
`

func TestLoadToUnicodeCMap(t *testing.T) {
	cm, err := LoadCmapFromData([]byte(testToUnicodeCMap), false)
	require.NoError(t, err)

	assert.Equal(t, "Adobe-Identity-UCS", cm.Name())
	assert.True(t, cm.HasCodespaces())
	assert.Equal(t, 2, cm.MaxCodeLen())

	u, ok := cm.CharcodeToUnicode(0x0041)
	require.True(t, ok)
	assert.Equal(t, "a", u)

	// bfrange increments the destination over the range.
	u, ok = cm.CharcodeToUnicode(0x0052)
	require.True(t, ok)
	assert.Equal(t, "r", u)

	_, ok = cm.CharcodeToUnicode(0x0999)
	assert.False(t, ok)
}

func TestSegmentationDeterminism(t *testing.T) {
	cm, err := LoadCmapFromData([]byte(testToUnicodeCMap), false)
	require.NoError(t, err)

	data := []byte{0x00, 0x41, 0x00, 0x50, 0x12, 0x34, 0x00}

	segment := func() ([]CharCode, int) {
		var codes []CharCode
		covered := 0
		for offset := 0; offset < len(data); {
			code, n := cm.NextCode(data, offset)
			require.Greater(t, n, 0)
			codes = append(codes, code)
			offset += n
			covered += n
		}
		return codes, covered
	}

	first, covered := segment()
	assert.Equal(t, len(data), covered, "segmentation must cover the whole input")
	for i := 0; i < 10; i++ {
		again, _ := segment()
		assert.Equal(t, first, again)
	}
}

func TestCodespacePrefixMatching(t *testing.T) {
	// Mixed 1-byte and 2-byte codespaces: the longest matching prefix wins.
	data := `
begincmap
2 begincodespacerange
<00> <80>
<8140> <9FFC>
endcodespacerange
endcmap
`
	cm, err := LoadCmapFromData([]byte(data), false)
	require.NoError(t, err)

	code, n := cm.NextCode([]byte{0x41, 0x81, 0x50}, 0)
	assert.Equal(t, CharCode(0x41), code)
	assert.Equal(t, 1, n)

	code, n = cm.NextCode([]byte{0x41, 0x81, 0x50}, 1)
	assert.Equal(t, CharCode(0x8150), code)
	assert.Equal(t, 2, n)
}

func TestIdentityCMap(t *testing.T) {
	cm := NewIdentityCMap("Identity-H")
	assert.False(t, cm.Vertical())

	// For any 2-byte code (hi,lo) the CID equals hi*256+lo.
	for _, code := range []CharCode{0x0000, 0x0041, 0x0102, 0xfffe} {
		cid, ok := cm.CharcodeToCID(code)
		require.True(t, ok)
		assert.Equal(t, CID(code), cid)
	}

	vert := NewIdentityCMap("Identity-V")
	assert.True(t, vert.Vertical())
}

func TestCIDRangeParsing(t *testing.T) {
	data := `
begincmap
1 begincodespacerange
<0000> <FFFF>
endcodespacerange
1 begincidrange
<0010> <0012> 100
endcidrange
1 begincidchar
<0020> 7
endcidchar
endcmap
`
	cm, err := LoadCmapFromData([]byte(data), false)
	require.NoError(t, err)

	cid, ok := cm.CharcodeToCID(0x0011)
	require.True(t, ok)
	assert.Equal(t, CID(101), cid)

	cid, ok = cm.CharcodeToCID(0x0020)
	require.True(t, ok)
	assert.Equal(t, CID(7), cid)

	_, ok = cm.CharcodeToCID(0x0013)
	assert.False(t, ok)
}

func TestPredefinedUTF16Names(t *testing.T) {
	assert.True(t, IsUTF16Name("UniJIS-UTF16-H"))
	assert.True(t, IsUTF16Name("UniKS-UTF16-V"))
	assert.False(t, IsUTF16Name("Identity-H"))
	assert.True(t, IsIdentityName("Identity-V"))
}
