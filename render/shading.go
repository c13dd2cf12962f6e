/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package render

import (
	"image"
	"math"

	"github.com/pdfrast/pdfrast/common"
	"github.com/pdfrast/pdfrast/contentstream"
	"github.com/pdfrast/pdfrast/internal/transform"
	"github.com/pdfrast/pdfrast/model"
	"github.com/pdfrast/pdfrast/render/context"
)

// gradientStops is the number of samples taken over the domain of axial and
// radial shadings.
const gradientStops = 64

// tensorMaxTessellation bounds the per-patch tessellation grid.
const tensorMaxTessellation = 24

// drawShading paints a shading within its BBox, if any, for the sh operator
// (`fillArea` true) and for a shading pattern's picture alike. The `fillArea`
// flag is not consulted: the background and axial and radial shadings always
// fill the whole paint area, and function and mesh shadings draw their own
// geometry.
func (r *renderer) drawShading(ctx context.Context, gs *contentstream.GraphicsState, state *renderState, shading *model.PdfShading, fillArea bool) {
	ctx.Push()
	defer ctx.Pop()

	if shading.BBox != nil {
		ctx.ClearPath()
		ctx.DrawRectangle(shading.BBox.Llx, shading.BBox.Lly, shading.BBox.Width(), shading.BBox.Height())
		ctx.SetFillRule(context.FillRuleWinding)
		ctx.ClipPreserve()
		ctx.ClearPath()
	}

	if len(shading.Background) > 0 && shading.ColorSpace != nil {
		if rgb, err := shading.ColorSpace.ToSRGB(shading.Background, gs.RenderingIntent); err == nil {
			ctx.SetFillRGBA(rgb[0], rgb[1], rgb[2], 1)
			r.fillPaintArea(ctx, shading)
		}
	}

	switch t := shading.GetContext().(type) {
	case *model.PdfShadingType1:
		r.drawFunctionShading(ctx, gs, t)
	case *model.PdfShadingType2:
		r.drawAxialShading(ctx, gs, t)
	case *model.PdfShadingType3:
		r.drawRadialShading(ctx, gs, t)
	case *model.PdfShadingType4:
		triangles, err := t.Triangles(gs.RenderingIntent)
		if err != nil {
			common.Log.Debug("ERROR: decoding type 4 mesh: %v", err)
			return
		}
		ctx.DrawVertices(triangles)
	case *model.PdfShadingType5:
		triangles, err := t.Triangles(gs.RenderingIntent)
		if err != nil {
			common.Log.Debug("ERROR: decoding type 5 mesh: %v", err)
			return
		}
		ctx.DrawVertices(triangles)
	case *model.PdfShadingType6:
		r.drawCoonsShading(ctx, gs, state, t)
	case *model.PdfShadingType7:
		r.drawTensorShading(ctx, gs, state, t)
	default:
		common.Log.Debug("Unsupported shading type %d", shading.ShadingType)
	}
}

// fillPaintArea fills the paintable region with the configured fill paint:
// the BBox when declared, otherwise the device area mapped back to user
// space.
func (r *renderer) fillPaintArea(ctx context.Context, shading *model.PdfShading) {
	ctx.ClearPath()
	if shading.BBox != nil {
		ctx.DrawRectangle(shading.BBox.Llx, shading.BBox.Lly, shading.BBox.Width(), shading.BBox.Height())
	} else {
		inv, ok := ctx.Matrix().Inverse()
		if !ok {
			return
		}
		w, h := float64(ctx.Width()), float64(ctx.Height())
		xs := make([]float64, 0, 4)
		ys := make([]float64, 0, 4)
		for _, corner := range [][2]float64{{0, 0}, {w, 0}, {0, h}, {w, h}} {
			x, y := inv.Transform(corner[0], corner[1])
			xs = append(xs, x)
			ys = append(ys, y)
		}
		minX, maxX := minMax(xs)
		minY, maxY := minMax(ys)
		ctx.DrawRectangle(minX, minY, maxX-minX, maxY-minY)
	}
	ctx.SetFillRule(context.FillRuleWinding)
	ctx.Fill()
	ctx.ClearPath()
}

func minMax(vals []float64) (float64, float64) {
	lo, hi := vals[0], vals[0]
	for _, v := range vals[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

// sampleShadingStops evaluates the color function(s) at `gradientStops`
// positions over the domain.
func (r *renderer) sampleShadingStops(gs *contentstream.GraphicsState, cs model.PdfColorspace, functions []model.PdfFunction, domain []float64) []context.GradientStop {
	t0, t1 := 0.0, 1.0
	if len(domain) >= 2 {
		t0, t1 = domain[0], domain[1]
	}

	stops := make([]context.GradientStop, 0, gradientStops)
	for i := 0; i < gradientStops; i++ {
		frac := float64(i) / float64(gradientStops-1)
		t := t0 + frac*(t1-t0)

		comps, err := evalFunctions(functions, t)
		if err != nil {
			common.Log.Debug("ERROR: evaluating shading function: %v", err)
			return nil
		}
		if len(comps) > cs.GetNumComponents() {
			comps = comps[:cs.GetNumComponents()]
		}
		rgb, err := cs.ToSRGB(comps, gs.RenderingIntent)
		if err != nil {
			common.Log.Debug("ERROR: converting shading color: %v", err)
			return nil
		}
		stops = append(stops, context.GradientStop{
			Offset: frac,
			Color:  [4]float64{rgb[0], rgb[1], rgb[2], 1},
		})
	}
	return stops
}

func evalFunctions(functions []model.PdfFunction, t float64) ([]float64, error) {
	if len(functions) == 1 {
		return functions[0].Evaluate([]float64{t})
	}
	var out []float64
	for _, fn := range functions {
		vals, err := fn.Evaluate([]float64{t})
		if err != nil {
			return nil, err
		}
		out = append(out, vals...)
	}
	return out, nil
}

// applyExtendSentinels realizes the /Extend flags: non-extended ends get a
// transparent sentinel so the gradient pad does not bleed.
func applyExtendSentinels(stops []context.GradientStop, extendStart, extendEnd bool) []context.GradientStop {
	if len(stops) == 0 {
		return stops
	}
	const eps = 1.0 / 4096

	if !extendStart {
		first := stops[0]
		first.Offset = eps
		sentinel := context.GradientStop{Offset: 0, Color: [4]float64{0, 0, 0, 0}}
		stops = append([]context.GradientStop{sentinel, first}, stops[1:]...)
	}
	if !extendEnd {
		last := stops[len(stops)-1]
		last.Offset = 1 - eps
		stops = append(stops[:len(stops)-1], last,
			context.GradientStop{Offset: 1, Color: [4]float64{0, 0, 0, 0}})
	}
	return stops
}

// drawAxialShading builds a linear gradient over the axis and fills the
// paint area.
func (r *renderer) drawAxialShading(ctx context.Context, gs *contentstream.GraphicsState, shading *model.PdfShadingType2) {
	stops := r.sampleShadingStops(gs, shading.ColorSpace, shading.Function, shading.Domain)
	if stops == nil {
		return
	}
	stops = applyExtendSentinels(stops, shading.Extend[0], shading.Extend[1])

	coords := shading.Coords
	pattern := ctx.NewLinearGradient(coords[0], coords[1], coords[2], coords[3], stops)
	ctx.SetFillStyle(pattern)
	r.fillPaintArea(ctx, shading.PdfShading)
}

// drawRadialShading builds a radial/conical gradient. With r0 > r1 the
// endpoints swap and both colors and positions reverse.
func (r *renderer) drawRadialShading(ctx context.Context, gs *contentstream.GraphicsState, shading *model.PdfShadingType3) {
	stops := r.sampleShadingStops(gs, shading.ColorSpace, shading.Function, shading.Domain)
	if stops == nil {
		return
	}

	coords := shading.Coords
	x0, y0, r0 := coords[0], coords[1], coords[2]
	x1, y1, r1 := coords[3], coords[4], coords[5]
	extendStart, extendEnd := shading.Extend[0], shading.Extend[1]

	if r0 > r1 {
		x0, y0, r0, x1, y1, r1 = x1, y1, r1, x0, y0, r0
		extendStart, extendEnd = extendEnd, extendStart
		for i, j := 0, len(stops)-1; i < j; i, j = i+1, j-1 {
			stops[i].Color, stops[j].Color = stops[j].Color, stops[i].Color
		}
	}
	stops = applyExtendSentinels(stops, extendStart, extendEnd)

	pattern := ctx.NewRadialGradient(x0, y0, r0, x1, y1, r1, stops)
	ctx.SetFillStyle(pattern)
	r.fillPaintArea(ctx, shading.PdfShading)
}

// drawFunctionShading evaluates the type 1 function over its domain into a
// coarse sample grid and draws it as an image under the shading matrix.
func (r *renderer) drawFunctionShading(ctx context.Context, gs *contentstream.GraphicsState, shading *model.PdfShadingType1) {
	const gridSize = 128

	domain := shading.Domain
	x0, x1 := domain[0], domain[1]
	y0, y1 := domain[2], domain[3]
	if x1 <= x0 || y1 <= y0 {
		return
	}

	img := image.NewRGBA(image.Rect(0, 0, gridSize, gridSize))
	for iy := 0; iy < gridSize; iy++ {
		y := y0 + (y1-y0)*float64(iy)/float64(gridSize-1)
		for ix := 0; ix < gridSize; ix++ {
			x := x0 + (x1-x0)*float64(ix)/float64(gridSize-1)

			var comps []float64
			for _, fn := range shading.Function {
				vals, err := fn.Evaluate([]float64{x, y})
				if err != nil {
					continue
				}
				comps = append(comps, vals...)
			}
			if len(comps) > shading.ColorSpace.GetNumComponents() {
				comps = comps[:shading.ColorSpace.GetNumComponents()]
			}
			rgb, err := shading.ColorSpace.ToSRGB(comps, gs.RenderingIntent)
			if err != nil {
				continue
			}

			pos := img.PixOffset(ix, gridSize-1-iy)
			img.Pix[pos] = floatToByte(rgb[0])
			img.Pix[pos+1] = floatToByte(rgb[1])
			img.Pix[pos+2] = floatToByte(rgb[2])
			img.Pix[pos+3] = 255
		}
	}

	ctx.Push()
	if shading.Matrix != nil {
		m := shading.Matrix
		ctx.SetMatrix(ctx.Matrix().Mult(transform.NewMatrix(m[0], m[1], m[2], m[3], m[4], m[5])))
	}
	// Map the grid onto the domain rectangle.
	ctx.SetMatrix(ctx.Matrix().
		Mult(transform.TranslationMatrix(x0, y0)).
		Mult(transform.ScaleMatrix((x1-x0)/gridSize, -(y1-y0)/gridSize)))
	ctx.SetSampling(true)
	ctx.DrawImageAnchored(img, 0, 0, 0, 1)
	ctx.Pop()
}

// drawCoonsShading draws each decoded Coons patch through the backend patch
// primitive. Cancellation is honored at patch boundaries.
func (r *renderer) drawCoonsShading(ctx context.Context, gs *contentstream.GraphicsState, state *renderState, shading *model.PdfShadingType6) {
	patches, err := shading.Patches(gs.RenderingIntent)
	if err != nil {
		common.Log.Debug("ERROR: decoding Coons mesh: %v", err)
		return
	}
	for _, patch := range patches {
		if state != nil && state.cancelled() {
			return
		}
		ctx.DrawPatch(patch.Points, patch.Colors)
	}
}

// drawTensorShading tessellates each tensor patch to a t×t grid, scaling t
// down with the patch count, and batches every triangle into one draw.
func (r *renderer) drawTensorShading(ctx context.Context, gs *contentstream.GraphicsState, state *renderState, shading *model.PdfShadingType7) {
	patches, err := shading.Patches(gs.RenderingIntent)
	if err != nil {
		common.Log.Debug("ERROR: decoding tensor mesh: %v", err)
		return
	}
	if len(patches) == 0 {
		return
	}

	tess := tensorTessellation(len(patches))

	var triangles []model.MeshTriangle
	for _, patch := range patches {
		if state != nil && state.cancelled() {
			return
		}
		triangles = append(triangles, tessellateTensorPatch(&patch, tess)...)
	}
	ctx.DrawVertices(triangles)
}

// tensorTessellation picks the grid size: 1 for very large meshes, growing
// linearly up to the cap as the patch count drops.
func tensorTessellation(patchCount int) int {
	if patchCount >= 500 {
		return 1
	}
	t := tensorMaxTessellation - patchCount*tensorMaxTessellation/500
	if t < 1 {
		t = 1
	}
	return t
}

// tessellateTensorPatch evaluates the tensor-product cubic Bézier surface on
// a uniform grid and emits triangles with bilinearly interpolated corner
// colors.
func tessellateTensorPatch(patch *model.TensorPatch, t int) []model.MeshTriangle {
	grid := make([][]model.MeshVertex, t+1)
	for i := 0; i <= t; i++ {
		grid[i] = make([]model.MeshVertex, t+1)
		u := float64(i) / float64(t)
		for j := 0; j <= t; j++ {
			v := float64(j) / float64(t)
			grid[i][j] = model.MeshVertex{
				Point: tensorPointAt(patch, u, v),
				Color: tensorColorAt(patch, u, v),
			}
		}
	}

	triangles := make([]model.MeshTriangle, 0, 2*t*t)
	for i := 0; i < t; i++ {
		for j := 0; j < t; j++ {
			triangles = append(triangles,
				model.MeshTriangle{grid[i][j], grid[i+1][j], grid[i][j+1]},
				model.MeshTriangle{grid[i+1][j], grid[i+1][j+1], grid[i][j+1]},
			)
		}
	}
	return triangles
}

// tensorPointAt evaluates the surface point at (u,v).
func tensorPointAt(patch *model.TensorPatch, u, v float64) transform.Point {
	bu := bernstein3(u)
	bv := bernstein3(v)

	var x, y float64
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			w := bu[i] * bv[j]
			x += w * patch.Points[i][j].X
			y += w * patch.Points[i][j].Y
		}
	}
	return transform.Point{X: x, Y: y}
}

// tensorColorAt interpolates the four corner colors bilinearly.
func tensorColorAt(patch *model.TensorPatch, u, v float64) [3]float64 {
	c := patch.Colors
	var out [3]float64
	for k := 0; k < 3; k++ {
		top := c[0][k]*(1-v) + c[1][k]*v
		bottom := c[3][k]*(1-v) + c[2][k]*v
		out[k] = top*(1-u) + bottom*u
	}
	return out
}

// bernstein3 returns the four cubic Bernstein polynomials at `t`.
func bernstein3(t float64) [4]float64 {
	mt := 1 - t
	return [4]float64{
		mt * mt * mt,
		3 * mt * mt * t,
		3 * mt * t * t,
		t * t * t,
	}
}
