/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package contentstream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdfrast/pdfrast/core"
)

func TestParseBasicOperations(t *testing.T) {
	content := "BT /F1 12 Tf 72 720 Td (Hello) Tj ET"
	ops, err := NewContentStreamParser(content).Parse()
	require.NoError(t, err)

	operands := make([]string, 0, len(*ops))
	for _, op := range *ops {
		operands = append(operands, op.Operand)
	}
	assert.Equal(t, []string{"BT", "Tf", "Td", "Tj", "ET"}, operands)

	tf := (*ops)[1]
	require.Len(t, tf.Params, 2)
	name, ok := core.GetName(tf.Params[0])
	require.True(t, ok)
	assert.Equal(t, "F1", name.String())

	tj := (*ops)[3]
	require.Len(t, tj.Params, 1)
	str, ok := core.GetStringBytes(tj.Params[0])
	require.True(t, ok)
	assert.Equal(t, "Hello", string(str))
}

func TestParseNumbersAndArrays(t *testing.T) {
	ops, err := NewContentStreamParser("[(A) -250.5 (B)] TJ").Parse()
	require.NoError(t, err)
	require.Len(t, *ops, 1)

	arr, ok := core.GetArray((*ops)[0].Params[0])
	require.True(t, ok)
	require.Equal(t, 3, arr.Len())

	val, err := core.GetNumberAsFloat(arr.Get(1))
	require.NoError(t, err)
	assert.InDelta(t, -250.5, val, 1e-9)
}

func TestParseStringEscapes(t *testing.T) {
	ops, err := NewContentStreamParser(`(a\(b\)c\\d\101) Tj`).Parse()
	require.NoError(t, err)
	require.Len(t, *ops, 1)

	str, ok := core.GetStringBytes((*ops)[0].Params[0])
	require.True(t, ok)
	assert.Equal(t, `a(b)c\dA`, string(str))
}

func TestParseHexString(t *testing.T) {
	ops, err := NewContentStreamParser("<00410102> Tj").Parse()
	require.NoError(t, err)

	str, ok := core.GetStringBytes((*ops)[0].Params[0])
	require.True(t, ok)
	assert.Equal(t, []byte{0x00, 0x41, 0x01, 0x02}, str)
}

func TestParseDict(t *testing.T) {
	ops, err := NewContentStreamParser("/Span <</ActualText (x)>> BDC EMC").Parse()
	require.NoError(t, err)
	require.Len(t, *ops, 2)

	bdc := (*ops)[0]
	assert.Equal(t, "BDC", bdc.Operand)
	require.Len(t, bdc.Params, 2)
	dict, ok := core.GetDict(bdc.Params[1])
	require.True(t, ok)
	assert.NotNil(t, dict.Get("ActualText"))
}

func TestParseInlineImage(t *testing.T) {
	content := "BI /W 2 /H 1 /BPC 8 /CS /G /F /AHx ID 00FF> EI Q"
	ops, err := NewContentStreamParser(content).Parse()
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(*ops), 1)

	bi := (*ops)[0]
	require.Equal(t, "BI", bi.Operand)
	require.Len(t, bi.Params, 1)

	iimg, ok := bi.Params[0].(*ContentStreamInlineImage)
	require.True(t, ok)

	w, ok := core.GetIntVal(iimg.Width)
	require.True(t, ok)
	assert.Equal(t, 2, w)

	// The abbreviated filter name expands in the synthesized dict.
	dict := iimg.toImageDict()
	filterName, ok := core.GetNameVal(dict.Get("Filter"))
	require.True(t, ok)
	assert.Equal(t, "ASCIIHexDecode", filterName)

	// BPC stays as declared; CS abbreviation expands.
	csName, ok := core.GetNameVal(dict.Get("ColorSpace"))
	require.True(t, ok)
	assert.Equal(t, "DeviceGray", csName)
}

func TestInlineImageMaskDefaults(t *testing.T) {
	img := &ContentStreamInlineImage{ImageMask: core.MakeBool(true)}
	dict := img.toImageDict()

	bpc, ok := core.GetIntVal(dict.Get("BitsPerComponent"))
	require.True(t, ok)
	assert.Equal(t, 1, bpc)
	assert.Nil(t, dict.Get("ColorSpace"))

	plain := &ContentStreamInlineImage{}
	dict = plain.toImageDict()
	bpc, _ = core.GetIntVal(dict.Get("BitsPerComponent"))
	assert.Equal(t, 8, bpc)
	csName, _ := core.GetNameVal(dict.Get("ColorSpace"))
	assert.Equal(t, "DeviceGray", csName)
}
