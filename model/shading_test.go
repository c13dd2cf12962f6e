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

func makeMeshShadingDict(shadingType int, data []byte) *core.PdfObjectStream {
	dict := core.MakeDict()
	dict.Set("ShadingType", core.MakeInteger(int64(shadingType)))
	dict.Set("ColorSpace", core.MakeName("DeviceRGB"))
	dict.Set("BitsPerCoordinate", core.MakeInteger(8))
	dict.Set("BitsPerComponent", core.MakeInteger(8))
	dict.Set("BitsPerFlag", core.MakeInteger(8))
	dict.Set("Decode", core.MakeArrayFromFloats([]float64{
		0, 1, 0, 1, // x y
		0, 1, 0, 1, 0, 1, // r g b
	}))
	return core.MakeStream(data, dict)
}

func TestShadingType4Triangles(t *testing.T) {
	// One triangle: three vertices, each with flag 0, xy and RGB.
	data := []byte{
		0, 0, 0, 255, 0, 0, // (0,0) red
		0, 255, 0, 0, 255, 0, // (1,0) green
		0, 0, 255, 0, 0, 255, // (0,1) blue
	}

	shading, err := newPdfShadingFromPdfObject(makeMeshShadingDict(4, data))
	require.NoError(t, err)

	mesh, ok := shading.GetContext().(*PdfShadingType4)
	require.True(t, ok)

	triangles, err := mesh.Triangles(RenderingIntentRelativeColorimetric)
	require.NoError(t, err)
	require.Len(t, triangles, 1)

	tri := triangles[0]
	assert.InDelta(t, 0.0, tri[0].Point.X, 1e-9)
	assert.InDelta(t, 1.0, tri[1].Point.X, 1e-9)
	assert.InDelta(t, 1.0, tri[2].Point.Y, 1e-9)

	assert.InDelta(t, 1.0, tri[0].Color[0], 1e-9)
	assert.InDelta(t, 1.0, tri[1].Color[1], 1e-9)
	assert.InDelta(t, 1.0, tri[2].Color[2], 1e-9)
}

func TestShadingType4EdgeContinuation(t *testing.T) {
	data := []byte{
		0, 0, 0, 255, 0, 0,
		0, 255, 0, 0, 255, 0,
		0, 0, 255, 0, 0, 255,
		// Flag 1: continue from edge (v2, v3) with one new vertex.
		1, 255, 255, 255, 255, 255,
	}

	shading, err := newPdfShadingFromPdfObject(makeMeshShadingDict(4, data))
	require.NoError(t, err)
	mesh := shading.GetContext().(*PdfShadingType4)

	triangles, err := mesh.Triangles(RenderingIntentRelativeColorimetric)
	require.NoError(t, err)
	require.Len(t, triangles, 2)

	// The continuation triangle shares the previous second and third
	// vertices.
	assert.Equal(t, triangles[0][1], triangles[1][0])
	assert.Equal(t, triangles[0][2], triangles[1][1])
	assert.InDelta(t, 1.0, triangles[1][2].Point.X, 1e-9)
}

func TestShadingType6CoonsPatch(t *testing.T) {
	// One patch: flag plus 12 points and 4 RGB corner colors.
	data := []byte{0}
	for i := 0; i < 12; i++ {
		data = append(data, byte(i*20), byte(i*10))
	}
	data = append(data,
		255, 0, 0,
		0, 255, 0,
		0, 0, 255,
		255, 255, 255,
	)

	shading, err := newPdfShadingFromPdfObject(makeMeshShadingDict(6, data))
	require.NoError(t, err)
	mesh := shading.GetContext().(*PdfShadingType6)

	patches, err := mesh.Patches(RenderingIntentRelativeColorimetric)
	require.NoError(t, err)
	require.Len(t, patches, 1)

	patch := patches[0]
	assert.InDelta(t, 0.0, patch.Points[0].X, 1e-9)
	assert.InDelta(t, 1.0, patch.Colors[0][0], 1e-9)
	assert.InDelta(t, 1.0, patch.Colors[3][2], 1e-9)
}

func TestShadingType2Load(t *testing.T) {
	fn := core.MakeDict()
	fn.Set("FunctionType", core.MakeInteger(2))
	fn.Set("Domain", core.MakeArrayFromFloats([]float64{0, 1}))
	fn.Set("C0", core.MakeArrayFromFloats([]float64{1, 0, 0}))
	fn.Set("C1", core.MakeArrayFromFloats([]float64{0, 0, 1}))
	fn.Set("N", core.MakeInteger(1))

	dict := core.MakeDict()
	dict.Set("ShadingType", core.MakeInteger(2))
	dict.Set("ColorSpace", core.MakeName("DeviceRGB"))
	dict.Set("Coords", core.MakeArrayFromFloats([]float64{0, 0, 100, 0}))
	dict.Set("Function", fn)
	dict.Set("Extend", core.MakeArray(core.MakeBool(true), core.MakeBool(false)))

	shading, err := newPdfShadingFromPdfObject(dict)
	require.NoError(t, err)

	axial, ok := shading.GetContext().(*PdfShadingType2)
	require.True(t, ok)
	assert.Equal(t, []float64{0, 0, 100, 0}, axial.Coords)
	assert.True(t, axial.Extend[0])
	assert.False(t, axial.Extend[1])
	assert.Len(t, axial.Function, 1)
}
