/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package render

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdfrast/pdfrast/contentstream"
	"github.com/pdfrast/pdfrast/core"
	"github.com/pdfrast/pdfrast/internal/transform"
	"github.com/pdfrast/pdfrast/model"
	"github.com/pdfrast/pdfrast/render/context"
)

// stubCanvas is a recording canvas for interpreter-to-backend tests.
type stubCanvas struct {
	matrix      transform.Matrix
	matrixStack []transform.Matrix

	pushes, pops int
	fills        int
	strokes      int
	clips        int

	glyphRuns [][]context.TextGlyph
	images    []image.Image
	vertices  [][]model.MeshTriangle
	patches   int

	linearGradients []stubGradient
	radialGradients []stubGradient
}

type stubGradient struct {
	coords []float64
	stops  []context.GradientStop
}

func newStubCanvas() *stubCanvas {
	return &stubCanvas{matrix: transform.IdentityMatrix()}
}

func (c *stubCanvas) Push() {
	c.pushes++
	c.matrixStack = append(c.matrixStack, c.matrix)
}

func (c *stubCanvas) Pop() {
	c.pops++
	if n := len(c.matrixStack); n > 0 {
		c.matrix = c.matrixStack[n-1]
		c.matrixStack = c.matrixStack[:n-1]
	}
}

func (c *stubCanvas) Matrix() transform.Matrix     { return c.matrix }
func (c *stubCanvas) SetMatrix(m transform.Matrix) { c.matrix = m }

func (c *stubCanvas) MoveTo(x, y float64)                         {}
func (c *stubCanvas) LineTo(x, y float64)                         {}
func (c *stubCanvas) CubicTo(x1, y1, x2, y2, x3, y3 float64)      {}
func (c *stubCanvas) ClosePath()                                  {}
func (c *stubCanvas) NewSubPath()                                 {}
func (c *stubCanvas) ClearPath()                                  {}
func (c *stubCanvas) DrawRectangle(x, y, w, h float64)            {}
func (c *stubCanvas) SetFillRule(fillRule context.FillRule)       {}
func (c *stubCanvas) ClipPreserve()                               { c.clips++ }
func (c *stubCanvas) SetRGBA(r, g, b, a float64)                  {}
func (c *stubCanvas) SetFillRGBA(r, g, b, a float64)              {}
func (c *stubCanvas) SetStrokeRGBA(r, g, b, a float64)            {}
func (c *stubCanvas) SetFillStyle(pattern context.Pattern)        {}
func (c *stubCanvas) SetStrokeStyle(pattern context.Pattern)      {}
func (c *stubCanvas) SetLineWidth(lineWidth float64)              {}
func (c *stubCanvas) SetLineCap(lineCap context.LineCap)          {}
func (c *stubCanvas) SetLineJoin(lineJoin context.LineJoin)       {}
func (c *stubCanvas) SetMiterLimit(limit float64)                 {}
func (c *stubCanvas) SetDash(dashes []float64, phase float64)     {}
func (c *stubCanvas) SetBlendMode(name string)                    {}
func (c *stubCanvas) SetSampling(interpolate bool)                {}
func (c *stubCanvas) Fill()                                       { c.fills++ }
func (c *stubCanvas) FillPreserve()                               { c.fills++ }
func (c *stubCanvas) Stroke()                                     { c.strokes++ }
func (c *stubCanvas) StrokePreserve()                             { c.strokes++ }
func (c *stubCanvas) DrawImage(im image.Image, x, y int)          { c.images = append(c.images, im) }
func (c *stubCanvas) SaveLayer(alpha float64, blendMode string)   {}
func (c *stubCanvas) RestoreLayer()                               {}
func (c *stubCanvas) SetMask(mask *image.Alpha) error             { return nil }
func (c *stubCanvas) AsMask() *image.Alpha                        { return nil }
func (c *stubCanvas) DrawPicture(picture context.Picture, alpha float64) {}
func (c *stubCanvas) ClipGlyphs(glyphs []context.TextGlyph)       { c.clips++ }
func (c *stubCanvas) Width() int                                  { return 612 }
func (c *stubCanvas) Height() int                                 { return 792 }

func (c *stubCanvas) DrawImageAnchored(im image.Image, x, y int, ax, ay float64) {
	c.images = append(c.images, im)
}

func (c *stubCanvas) NewLinearGradient(x0, y0, x1, y1 float64, stops []context.GradientStop) context.Pattern {
	c.linearGradients = append(c.linearGradients, stubGradient{
		coords: []float64{x0, y0, x1, y1},
		stops:  stops,
	})
	return nil
}

func (c *stubCanvas) NewRadialGradient(x0, y0, r0, x1, y1, r1 float64, stops []context.GradientStop) context.Pattern {
	c.radialGradients = append(c.radialGradients, stubGradient{
		coords: []float64{x0, y0, r0, x1, y1, r1},
		stops:  stops,
	})
	return nil
}

func (c *stubCanvas) DrawVertices(triangles []model.MeshTriangle) {
	c.vertices = append(c.vertices, triangles)
}

func (c *stubCanvas) DrawPatch(points [12]transform.Point, colors [4][3]float64) {
	c.patches++
}

func (c *stubCanvas) CreatePicture(record func(context.Context)) context.Picture {
	sub := newStubCanvas()
	record(sub)
	return sub
}

func (c *stubCanvas) DrawGlyphs(glyphs []context.TextGlyph, mode context.GlyphDrawMode) {
	run := make([]context.TextGlyph, len(glyphs))
	copy(run, glyphs)
	c.glyphRuns = append(c.glyphRuns, run)
}

func (c *stubCanvas) MeasureGlyph(font *model.PdfFont, unicode string) (float64, bool) {
	return 0, false
}

var _ context.Context = (*stubCanvas)(nil)

func helloResources(t *testing.T) *model.PdfPageResources {
	t.Helper()

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

	fontDict := core.MakeDict()
	fontDict.Set("Type", core.MakeName("Font"))
	fontDict.Set("Subtype", core.MakeName("Type1"))
	fontDict.Set("BaseFont", core.MakeName("TestHelvetica"))
	fontDict.Set("FirstChar", core.MakeInteger(72))
	fontDict.Set("LastChar", core.MakeInteger(111))
	fontDict.Set("Widths", core.MakeArray(widths...))

	fonts := core.MakeDict()
	fonts.Set("F1", fontDict)

	resources := model.NewPdfPageResources()
	resources.Font = fonts
	return resources
}

func TestHelloTextRunAndAdvance(t *testing.T) {
	// Seed: BT /F1 12 Tf 72 720 Td (Hello) Tj ET. After showing, the text
	// matrix has advanced by (722+556+222+222+556)*12/1000 = 27.336.
	canvas := newStubCanvas()
	r := newRenderer()
	state := &renderState{visitedForms: map[*core.PdfObjectStream]struct{}{}}

	content := "BT /F1 12 Tf 72 720 Td (Hello) Tj (H) Tj ET"
	err := r.renderContentStream(canvas, content, helloResources(t), state)
	require.NoError(t, err)

	require.Len(t, canvas.glyphRuns, 2)
	require.Len(t, canvas.glyphRuns[0], 5)

	// The first glyph run starts at (72, 720).
	x, y := canvas.glyphRuns[0][0].Matrix.Transform(0, 0)
	assert.InDelta(t, 72.0, x, 1e-6)
	assert.InDelta(t, 720.0, y, 1e-6)

	// The second run's origin shows the advance of "Hello".
	x, y = canvas.glyphRuns[1][0].Matrix.Transform(0, 0)
	assert.InDelta(t, 99.336, x, 1e-6)
	assert.InDelta(t, 720.0, y, 1e-6)
}

func TestCharacterSpacingAdvance(t *testing.T) {
	canvas := newStubCanvas()
	r := newRenderer()
	state := &renderState{visitedForms: map[*core.PdfObjectStream]struct{}{}}

	// Character spacing 2 applies per glyph.
	content := "BT /F1 12 Tf 2 Tc 0 0 Td (HH) Tj (H) Tj ET"
	err := r.renderContentStream(canvas, content, helloResources(t), state)
	require.NoError(t, err)

	require.Len(t, canvas.glyphRuns, 2)
	x, _ := canvas.glyphRuns[1][0].Matrix.Transform(0, 0)
	// 2 * (0.722*12 + 2) = 21.328
	assert.InDelta(t, 21.328, x, 1e-6)
}

func TestTJNumbersAdjustAdvance(t *testing.T) {
	canvas := newStubCanvas()
	r := newRenderer()
	state := &renderState{visitedForms: map[*core.PdfObjectStream]struct{}{}}

	content := "BT /F1 12 Tf 0 0 Td [(H) -1000 (H)] TJ (H) Tj ET"
	err := r.renderContentStream(canvas, content, helloResources(t), state)
	require.NoError(t, err)

	require.Len(t, canvas.glyphRuns, 3)
	// H advance 8.664; the number -1000 is subtracted, moving the next glyph
	// right by 1000/1000*12 = 12; then H again.
	x, _ := canvas.glyphRuns[2][0].Matrix.Transform(0, 0)
	assert.InDelta(t, 0.722*12*2+12, x, 1e-6)
}

func TestSaveRestoreBalancedOnCanvas(t *testing.T) {
	canvas := newStubCanvas()
	r := newRenderer()
	state := &renderState{visitedForms: map[*core.PdfObjectStream]struct{}{}}

	// Extra Q operators must not unbalance the canvas.
	err := r.renderContentStream(canvas, "q q Q Q Q Q q", model.NewPdfPageResources(), state)
	require.NoError(t, err)
	assert.Equal(t, canvas.pushes, canvas.pops)
}

func makeAxialShading(t *testing.T) *model.PdfShading {
	t.Helper()

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
	dict.Set("Domain", core.MakeArrayFromFloats([]float64{0, 1}))
	dict.Set("Function", fn)

	shading, err := model.NewPdfShadingFromPdfObject(dict)
	require.NoError(t, err)
	return shading
}

func TestAxialShadingGradient(t *testing.T) {
	canvas := newStubCanvas()
	r := newRenderer()
	gs := contentstream.GraphicsState{RenderingIntent: model.RenderingIntentRelativeColorimetric}

	shading := makeAxialShading(t)
	axial, ok := shading.GetContext().(*model.PdfShadingType2)
	require.True(t, ok)

	r.drawAxialShading(canvas, &gs, axial)

	require.Len(t, canvas.linearGradients, 1)
	grad := canvas.linearGradients[0]
	assert.Equal(t, []float64{0, 0, 100, 0}, grad.coords)

	// The midpoint stop evaluates to (0.5, 0, 0.5).
	var mid *context.GradientStop
	for i := range grad.stops {
		if grad.stops[i].Color[3] > 0 && grad.stops[i].Offset > 0.49 && grad.stops[i].Offset < 0.51 {
			mid = &grad.stops[i]
			break
		}
	}
	require.NotNil(t, mid, "no opaque stop near the midpoint")
	assert.InDelta(t, 0.5, mid.Color[0], 0.02)
	assert.InDelta(t, 0.0, mid.Color[1], 0.02)
	assert.InDelta(t, 0.5, mid.Color[2], 0.02)

	// Without /Extend both ends carry transparent sentinels.
	assert.Equal(t, 0.0, grad.stops[0].Color[3])
	assert.Equal(t, 0.0, grad.stops[len(grad.stops)-1].Color[3])

	// The gradient fill is realized.
	assert.Greater(t, canvas.fills, 0)
}

func TestImageMaskStencilSemantics(t *testing.T) {
	r := newRenderer()

	// A 1x1 sample of value 0 paints (opaque alpha).
	img := &model.PdfImage{
		Width:            1,
		Height:           1,
		BitsPerComponent: 1,
		ImageMask:        true,
		Data:             []byte{0x00},
	}
	decoded, err := r.decodeImage(&contentstream.GraphicsState{}, nil, img)
	require.NoError(t, err)
	alpha, ok := decoded.(*image.Alpha)
	require.True(t, ok)
	assert.Equal(t, uint8(255), alpha.Pix[0])

	// Value 1 leaves the destination unchanged (transparent).
	img.Data = []byte{0x80}
	decoded, err = r.decodeImage(&contentstream.GraphicsState{}, nil, img)
	require.NoError(t, err)
	alpha = decoded.(*image.Alpha)
	assert.Equal(t, uint8(0), alpha.Pix[0])
}

func TestRawImageDecodeToRGBA(t *testing.T) {
	r := newRenderer()

	img := &model.PdfImage{
		Width:            2,
		Height:           1,
		BitsPerComponent: 8,
		ColorSpace:       model.NewPdfColorspaceDeviceRGB(),
		Data:             []byte{255, 0, 0, 0, 0, 255},
	}
	decoded, err := r.decodeImage(&contentstream.GraphicsState{}, nil, img)
	require.NoError(t, err)

	rgba, ok := decoded.(*image.RGBA)
	require.True(t, ok)
	assert.Equal(t, uint8(255), rgba.Pix[0])
	assert.Equal(t, uint8(0), rgba.Pix[1])
	assert.Equal(t, uint8(255), rgba.Pix[4+2])
}

func TestColorKeyMasking(t *testing.T) {
	r := newRenderer()

	img := &model.PdfImage{
		Width:            2,
		Height:           1,
		BitsPerComponent: 8,
		ColorSpace:       model.NewPdfColorspaceDeviceRGB(),
		Data:             []byte{255, 255, 255, 10, 20, 30},
		Mask: core.MakeArray(
			core.MakeInteger(250), core.MakeInteger(255),
			core.MakeInteger(250), core.MakeInteger(255),
			core.MakeInteger(250), core.MakeInteger(255),
		),
	}
	decoded, err := r.decodeImage(&contentstream.GraphicsState{}, nil, img)
	require.NoError(t, err)

	rgba := decoded.(*image.RGBA)
	// The white pixel falls inside every range: fully transparent.
	assert.Equal(t, uint8(0), rgba.Pix[3])
	// The second pixel stays opaque.
	assert.Equal(t, uint8(255), rgba.Pix[7])
}

func TestTensorPatchTessellation(t *testing.T) {
	assert.Equal(t, 1, tensorTessellation(600))
	assert.Equal(t, tensorMaxTessellation, tensorTessellation(0))
	mid := tensorTessellation(250)
	assert.Greater(t, mid, 1)
	assert.Less(t, mid, tensorMaxTessellation)
}

func TestTensorPatchSurfaceCorners(t *testing.T) {
	// A flat patch whose control grid spans the unit square: corners must
	// evaluate exactly, colors interpolate bilinearly.
	var patch model.TensorPatch
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			patch.Points[i][j] = transform.NewPoint(float64(j)/3.0, float64(i)/3.0)
		}
	}
	patch.Colors = [4][3]float64{
		{1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {1, 1, 1},
	}

	p := tensorPointAt(&patch, 0, 0)
	assert.InDelta(t, 0.0, p.X, 1e-9)
	assert.InDelta(t, 0.0, p.Y, 1e-9)

	p = tensorPointAt(&patch, 1, 1)
	assert.InDelta(t, 1.0, p.X, 1e-9)
	assert.InDelta(t, 1.0, p.Y, 1e-9)

	c := tensorColorAt(&patch, 0, 0)
	assert.Equal(t, [3]float64{1, 0, 0}, c)
	c = tensorColorAt(&patch, 0, 1)
	assert.Equal(t, [3]float64{0, 1, 0}, c)

	triangles := tessellateTensorPatch(&patch, 4)
	assert.Len(t, triangles, 32)
}
