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

func TestDeviceGrayToSRGB(t *testing.T) {
	cs := NewPdfColorspaceDeviceGray()
	rgb, err := cs.ToSRGB([]float64{0.25}, RenderingIntentRelativeColorimetric)
	require.NoError(t, err)
	assert.Equal(t, [3]float64{0.25, 0.25, 0.25}, rgb)

	// Out-of-domain inputs clamp per channel.
	rgb, err = cs.ToSRGB([]float64{1.5}, RenderingIntentRelativeColorimetric)
	require.NoError(t, err)
	assert.Equal(t, [3]float64{1, 1, 1}, rgb)
}

func TestDeviceRGBIdentity(t *testing.T) {
	cs := NewPdfColorspaceDeviceRGB()
	rgb, err := cs.ToSRGB([]float64{0.1, 0.2, 0.3}, RenderingIntentRelativeColorimetric)
	require.NoError(t, err)
	assert.Equal(t, [3]float64{0.1, 0.2, 0.3}, rgb)
}

func TestDeviceCMYKFormula(t *testing.T) {
	cs := NewPdfColorspaceDeviceCMYK()

	rgb, err := cs.ToSRGB([]float64{0, 0, 0, 0}, RenderingIntentRelativeColorimetric)
	require.NoError(t, err)
	assert.Equal(t, [3]float64{1, 1, 1}, rgb)

	rgb, err = cs.ToSRGB([]float64{0, 0, 0, 1}, RenderingIntentRelativeColorimetric)
	require.NoError(t, err)
	assert.Equal(t, [3]float64{0, 0, 0}, rgb)

	rgb, err = cs.ToSRGB([]float64{0.6, 0.2, 0, 0.1}, RenderingIntentRelativeColorimetric)
	require.NoError(t, err)
	assert.InDelta(t, 1.0-0.7, rgb[0], 1e-9)
	assert.InDelta(t, 1.0-0.3, rgb[1], 1e-9)
	assert.InDelta(t, 1.0-0.1, rgb[2], 1e-9)
}

func TestIndexedColorspace(t *testing.T) {
	// Palette with 2 RGB entries: red and blue.
	lookup := core.MakeStringFromBytes([]byte{255, 0, 0, 0, 0, 255})
	arr := core.MakeArray(
		core.MakeName("Indexed"),
		core.MakeName("DeviceRGB"),
		core.MakeInteger(1),
		lookup,
	)

	cs, err := NewPdfColorspaceFromPdfObject(arr)
	require.NoError(t, err)
	assert.Equal(t, 1, cs.GetNumComponents())

	rgb, err := cs.ToSRGB([]float64{0}, RenderingIntentRelativeColorimetric)
	require.NoError(t, err)
	assert.Equal(t, [3]float64{1, 0, 0}, rgb)

	rgb, err = cs.ToSRGB([]float64{1}, RenderingIntentRelativeColorimetric)
	require.NoError(t, err)
	assert.Equal(t, [3]float64{0, 0, 1}, rgb)
}

func TestSeparationColorspace(t *testing.T) {
	tint := core.MakeDict()
	tint.Set("FunctionType", core.MakeInteger(2))
	tint.Set("Domain", core.MakeArrayFromFloats([]float64{0, 1}))
	tint.Set("C0", core.MakeArrayFromFloats([]float64{1, 1, 1}))
	tint.Set("C1", core.MakeArrayFromFloats([]float64{1, 0, 0}))
	tint.Set("N", core.MakeInteger(1))

	arr := core.MakeArray(
		core.MakeName("Separation"),
		core.MakeName("Spot1"),
		core.MakeName("DeviceRGB"),
		tint,
	)

	cs, err := NewPdfColorspaceFromPdfObject(arr)
	require.NoError(t, err)

	rgb, err := cs.ToSRGB([]float64{1}, RenderingIntentRelativeColorimetric)
	require.NoError(t, err)
	assert.Equal(t, [3]float64{1, 0, 0}, rgb)

	rgb, err = cs.ToSRGB([]float64{0}, RenderingIntentRelativeColorimetric)
	require.NoError(t, err)
	assert.Equal(t, [3]float64{1, 1, 1}, rgb)
}

func TestCalGrayConversion(t *testing.T) {
	dict := core.MakeDict()
	dict.Set("WhitePoint", core.MakeArrayFromFloats([]float64{0.9505, 1.0, 1.089}))
	arr := core.MakeArray(core.MakeName("CalGray"), dict)

	cs, err := NewPdfColorspaceFromPdfObject(arr)
	require.NoError(t, err)

	black, err := cs.ToSRGB([]float64{0}, RenderingIntentRelativeColorimetric)
	require.NoError(t, err)
	for _, ch := range black {
		assert.InDelta(t, 0.0, ch, 1e-6)
	}

	white, err := cs.ToSRGB([]float64{1}, RenderingIntentRelativeColorimetric)
	require.NoError(t, err)
	for _, ch := range white {
		assert.Greater(t, ch, 0.9)
	}
}

func TestLabColorspaceWhite(t *testing.T) {
	dict := core.MakeDict()
	dict.Set("WhitePoint", core.MakeArrayFromFloats([]float64{0.9642, 1.0, 0.8249}))
	arr := core.MakeArray(core.MakeName("Lab"), dict)

	cs, err := NewPdfColorspaceFromPdfObject(arr)
	require.NoError(t, err)

	white, err := cs.ToSRGB([]float64{100, 0, 0}, RenderingIntentRelativeColorimetric)
	require.NoError(t, err)
	for _, ch := range white {
		assert.InDelta(t, 1.0, ch, 0.02)
	}
}

func TestPatternColorspacePlaceholder(t *testing.T) {
	cs := NewPdfColorspaceSpecialPattern()
	assert.Equal(t, 0, cs.GetNumComponents())

	_, err := cs.ToSRGB(nil, RenderingIntentRelativeColorimetric)
	assert.Error(t, err)
}
