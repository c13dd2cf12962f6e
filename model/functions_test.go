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

func TestFunctionType2Exponential(t *testing.T) {
	dict := core.MakeDict()
	dict.Set("FunctionType", core.MakeInteger(2))
	dict.Set("Domain", core.MakeArrayFromFloats([]float64{0, 1}))
	dict.Set("C0", core.MakeArrayFromFloats([]float64{1, 0, 0}))
	dict.Set("C1", core.MakeArrayFromFloats([]float64{0, 0, 1}))
	dict.Set("N", core.MakeInteger(1))

	fn, err := newPdfFunctionFromPdfObject(dict)
	require.NoError(t, err)

	// The axial shading seed: at x=0.5 the color is (0.5, 0, 0.5).
	out, err := fn.Evaluate([]float64{0.5})
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.InDelta(t, 0.5, out[0], 1e-9)
	assert.InDelta(t, 0.0, out[1], 1e-9)
	assert.InDelta(t, 0.5, out[2], 1e-9)

	out, err = fn.Evaluate([]float64{0})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0, 0}, out)

	// Inputs clamp to the domain.
	out, err = fn.Evaluate([]float64{2})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 1}, out)
}

func TestFunctionType3Stitching(t *testing.T) {
	child := func(c0, c1 float64) *core.PdfObjectDictionary {
		d := core.MakeDict()
		d.Set("FunctionType", core.MakeInteger(2))
		d.Set("Domain", core.MakeArrayFromFloats([]float64{0, 1}))
		d.Set("C0", core.MakeArrayFromFloats([]float64{c0}))
		d.Set("C1", core.MakeArrayFromFloats([]float64{c1}))
		d.Set("N", core.MakeInteger(1))
		return d
	}

	dict := core.MakeDict()
	dict.Set("FunctionType", core.MakeInteger(3))
	dict.Set("Domain", core.MakeArrayFromFloats([]float64{0, 1}))
	dict.Set("Functions", core.MakeArray(child(0, 0.5), child(0.5, 1)))
	dict.Set("Bounds", core.MakeArrayFromFloats([]float64{0.5}))
	dict.Set("Encode", core.MakeArrayFromFloats([]float64{0, 1, 0, 1}))

	fn, err := newPdfFunctionFromPdfObject(dict)
	require.NoError(t, err)

	out, err := fn.Evaluate([]float64{0.25})
	require.NoError(t, err)
	assert.InDelta(t, 0.25, out[0], 1e-9)

	out, err = fn.Evaluate([]float64{0.75})
	require.NoError(t, err)
	assert.InDelta(t, 0.75, out[0], 1e-9)
}

func TestFunctionType0Sampled(t *testing.T) {
	// 1-in 1-out ramp: samples 0, 128, 255 at 8 bits.
	dict := core.MakeDict()
	dict.Set("FunctionType", core.MakeInteger(0))
	dict.Set("Domain", core.MakeArrayFromFloats([]float64{0, 1}))
	dict.Set("Range", core.MakeArrayFromFloats([]float64{0, 1}))
	dict.Set("Size", core.MakeArrayFromIntegers([]int{3}))
	dict.Set("BitsPerSample", core.MakeInteger(8))
	stream := core.MakeStream([]byte{0, 128, 255}, dict)

	fn, err := newPdfFunctionFromPdfObject(stream)
	require.NoError(t, err)

	out, err := fn.Evaluate([]float64{0})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, out[0], 1e-9)

	out, err = fn.Evaluate([]float64{1})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, out[0], 1e-9)

	out, err = fn.Evaluate([]float64{0.5})
	require.NoError(t, err)
	assert.InDelta(t, 128.0/255.0, out[0], 1e-9)

	// Between grid points the samples interpolate linearly.
	out, err = fn.Evaluate([]float64{0.25})
	require.NoError(t, err)
	assert.InDelta(t, 64.0/255.0, out[0], 1e-2)
}

func TestFunctionType4PostScript(t *testing.T) {
	dict := core.MakeDict()
	dict.Set("FunctionType", core.MakeInteger(4))
	dict.Set("Domain", core.MakeArrayFromFloats([]float64{0, 1}))
	dict.Set("Range", core.MakeArrayFromFloats([]float64{0, 1, 0, 1}))
	stream := core.MakeStream([]byte("{ dup 1 exch sub }"), dict)

	fn, err := newPdfFunctionFromPdfObject(stream)
	require.NoError(t, err)

	out, err := fn.Evaluate([]float64{0.3})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.InDelta(t, 0.3, out[0], 1e-9)
	assert.InDelta(t, 0.7, out[1], 1e-9)
}
