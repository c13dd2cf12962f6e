/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package render

import (
	"image/color"

	"github.com/pdfrast/pdfrast/common"
	"github.com/pdfrast/pdfrast/contentstream"
	"github.com/pdfrast/pdfrast/internal/transform"
	"github.com/pdfrast/pdfrast/model"
	"github.com/pdfrast/pdfrast/render/context"
)

// tilePicturePattern adapts a recorded pattern cell into a canvas paint
// source. Backends recognize the concrete type and replay the picture tiled
// over the pattern matrix; the ColorAt form exists only to satisfy the
// Pattern contract for backends without picture shaders.
type tilePicturePattern struct {
	picture context.Picture
	ctx     context.Context
	matrix  transform.Matrix
	xStep   float64
	yStep   float64
}

// Picture returns the recorded cell.
func (p *tilePicturePattern) Picture() context.Picture {
	return p.picture
}

// TileMatrix returns the pattern space matrix.
func (p *tilePicturePattern) TileMatrix() transform.Matrix {
	return p.matrix
}

// Steps returns the tile advance in pattern space.
func (p *tilePicturePattern) Steps() (x, y float64) {
	return p.xStep, p.yStep
}

// ColorAt implements context.Pattern.
func (p *tilePicturePattern) ColorAt(x, y int) color.Color {
	return color.Transparent
}

// resolvePatternPaint configures the paint for a Pattern colorspace
// selection: tiling cells render once into a picture and tile with the
// pattern matrix; shading patterns paint through the shading subsystem.
func (r *renderer) resolvePatternPaint(ctx context.Context, gs *contentstream.GraphicsState, resources *model.PdfPageResources, state *renderState, patternCS *model.PdfColorspaceSpecialPattern, color contentstream.Color, stroking bool) error {
	if color.PatternName == "" {
		common.Log.Debug("Pattern paint with no pattern selected")
		return errRange
	}

	pattern, found := resources.GetPatternByName(color.PatternName)
	if !found {
		common.Log.Debug("ERROR: pattern %s not found", color.PatternName)
		return errRange
	}

	switch {
	case pattern.IsTiling():
		tiling := pattern.GetAsTilingPattern()
		return r.resolveTilingPaint(ctx, gs, resources, state, patternCS, tiling, color, stroking)
	case pattern.IsShading():
		shadingPattern := pattern.GetAsShadingPattern()
		// Shading pattern paint: draw the shading picture through the
		// pattern matrix at paint time.
		picture := ctx.CreatePicture(func(sub context.Context) {
			m := shadingPattern.Matrix
			sub.SetMatrix(sub.Matrix().Mult(transform.NewMatrix(m[0], m[1], m[2], m[3], m[4], m[5])))
			r.drawShading(sub, gs, state, shadingPattern.Shading, false)
		})
		shader := &tilePicturePattern{picture: picture, ctx: ctx}
		if stroking {
			ctx.SetStrokeStyle(shader)
		} else {
			ctx.SetFillStyle(shader)
		}
		return nil
	}
	return errRange
}

// resolveTilingPaint renders the tiling cell once into a picture and
// installs it as the paint source.
func (r *renderer) resolveTilingPaint(ctx context.Context, gs *contentstream.GraphicsState, resources *model.PdfPageResources, state *renderState, patternCS *model.PdfColorspaceSpecialPattern, tiling *model.PdfTilingPattern, color contentstream.Color, stroking bool) error {
	if _, visited := state.visitedForms[tiling.Stream()]; visited {
		common.Log.Debug("ERROR: tiling pattern recursion detected")
		return errRange
	}
	state.visitedForms[tiling.Stream()] = struct{}{}
	defer delete(state.visitedForms, tiling.Stream())

	content, err := tiling.GetContentStream()
	if err != nil {
		return err
	}

	cellResources := tiling.Resources
	if cellResources == nil {
		cellResources = resources
	}

	picture := ctx.CreatePicture(func(sub context.Context) {
		if tiling.BBox != nil {
			sub.ClearPath()
			sub.DrawRectangle(tiling.BBox.Llx, tiling.BBox.Lly, tiling.BBox.Width(), tiling.BBox.Height())
			sub.SetFillRule(context.FillRuleWinding)
			sub.ClipPreserve()
			sub.ClearPath()
		}

		if !tiling.IsColored() {
			// Uncolored pattern: the cell paints in the base colorspace
			// tint selected alongside the pattern name.
			base := patternCS.UnderlyingCS
			if base != nil && len(color.Components) > 0 {
				rgb, err := base.ToSRGB(color.Components, gs.RenderingIntent)
				if err == nil {
					sub.SetRGBA(rgb[0], rgb[1], rgb[2], 1)
					sub.SetFillRGBA(rgb[0], rgb[1], rgb[2], 1)
					sub.SetStrokeRGBA(rgb[0], rgb[1], rgb[2], 1)
				}
			}
		}

		cellState := &renderState{cancel: state.cancel, visitedForms: state.visitedForms}
		if err := r.renderContentStream(sub, string(content), cellResources, cellState); err != nil {
			common.Log.Debug("ERROR: rendering tiling cell: %v", err)
		}
	})

	m := tiling.Matrix
	shader := &tilePicturePattern{
		picture: picture,
		ctx:     ctx,
		matrix:  transform.NewMatrix(m[0], m[1], m[2], m[3], m[4], m[5]),
		xStep:   tiling.XStep,
		yStep:   tiling.YStep,
	}
	if stroking {
		ctx.SetStrokeStyle(shader)
	} else {
		ctx.SetFillStyle(shader)
	}
	return nil
}
