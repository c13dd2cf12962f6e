/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package context defines the abstract canvas contract the renderer draws
// against. Concrete backends (raster, vector, recording) live outside the
// core and implement Context.
package context

import (
	"image"

	"github.com/pdfrast/pdfrast/internal/transform"
	"github.com/pdfrast/pdfrast/model"
)

// Context is the narrow canvas contract of the rendering core. Save/restore
// nesting is strict: the renderer guarantees balance at end of stream.
type Context interface {
	// State.
	Push()
	Pop()
	Matrix() transform.Matrix
	SetMatrix(m transform.Matrix)

	// Path construction, in current user space.
	MoveTo(x, y float64)
	LineTo(x, y float64)
	CubicTo(x1, y1, x2, y2, x3, y3 float64)
	ClosePath()
	NewSubPath()
	ClearPath()
	DrawRectangle(x, y, w, h float64)

	// Clipping: intersect the clip with the current path, preserving the
	// path.
	SetFillRule(fillRule FillRule)
	ClipPreserve()

	// Paint parameters.
	SetRGBA(r, g, b, a float64)
	SetFillRGBA(r, g, b, a float64)
	SetStrokeRGBA(r, g, b, a float64)
	SetFillStyle(pattern Pattern)
	SetStrokeStyle(pattern Pattern)
	SetLineWidth(lineWidth float64)
	SetLineCap(lineCap LineCap)
	SetLineJoin(lineJoin LineJoin)
	SetMiterLimit(limit float64)
	SetDash(dashes []float64, phase float64)
	SetBlendMode(name string)

	// Sampling options for image draws, from /Interpolate.
	SetSampling(interpolate bool)

	// Painting. The *Preserve variants keep the current path.
	Fill()
	FillPreserve()
	Stroke()
	StrokePreserve()

	// Images. DrawImageAnchored draws `im` anchored at the given point; the
	// anchor is a fraction of the image size.
	DrawImage(im image.Image, x, y int)
	DrawImageAnchored(im image.Image, x, y int, ax, ay float64)

	// Layers and masks.
	SaveLayer(alpha float64, blendMode string)
	RestoreLayer()
	SetMask(mask *image.Alpha) error
	AsMask() *image.Alpha

	// Gradient shaders.
	NewLinearGradient(x0, y0, x1, y1 float64, stops []GradientStop) Pattern
	NewRadialGradient(x0, y0, r0, x1, y1, r1 float64, stops []GradientStop) Pattern

	// Mesh primitives for shadings.
	DrawVertices(triangles []model.MeshTriangle)
	DrawPatch(points [12]transform.Point, colors [4][3]float64)

	// Pictures: record draw calls for reuse (pattern cells, shading
	// paints).
	CreatePicture(record func(Context)) Picture
	DrawPicture(picture Picture, alpha float64)

	// Text.
	DrawGlyphs(glyphs []TextGlyph, mode GlyphDrawMode)
	ClipGlyphs(glyphs []TextGlyph)
	// MeasureGlyph returns the advance of a glyph at size 1 when the
	// backend can resolve it, for the measurement fallback path.
	MeasureGlyph(font *model.PdfFont, unicode string) (float64, bool)

	// Device geometry.
	Width() int
	Height() int
}
