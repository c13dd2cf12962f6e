/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package render drives a page's content stream through the interpreter and
// issues draw calls against the abstract canvas contract.
package render

import (
	gocontext "context"
	"errors"

	"github.com/adrg/sysfont"

	"github.com/pdfrast/pdfrast/common"
	"github.com/pdfrast/pdfrast/contentstream"
	"github.com/pdfrast/pdfrast/core"
	"github.com/pdfrast/pdfrast/internal/transform"
	"github.com/pdfrast/pdfrast/model"
	"github.com/pdfrast/pdfrast/render/context"
)

var (
	errType  = errors.New("type check error")
	errRange = errors.New("range check error")
)

type renderer struct {
	fontFinder *sysfont.Finder
	substCache map[string]*sysfont.Font
}

func newRenderer() *renderer {
	return &renderer{substCache: map[string]*sysfont.Font{}}
}

// renderState carries per-render mutable state across recursive content
// stream executions.
type renderState struct {
	cancel gocontext.Context

	// visitedForms guards against form XObject recursion cycles, keyed by
	// object identity.
	visitedForms map[*core.PdfObjectStream]struct{}

	// textClip accumulates glyphs of the *Clip text rendering modes until
	// ET commits them.
	textClip []context.TextGlyph

	// saveDepth tracks canvas saves issued for q so an unmatched Q never
	// unbalances the backend.
	saveDepth int
}

func (rs *renderState) cancelled() bool {
	if rs.cancel == nil {
		return false
	}
	select {
	case <-rs.cancel.Done():
		return true
	default:
		return false
	}
}

func (r *renderer) renderPage(ctx context.Context, page *model.PdfPage, cancel gocontext.Context) error {
	contents, err := page.GetAllContentStreams()
	if err != nil {
		return err
	}

	// Change coordinate system to PDF user space (origin bottom left).
	ctx.SetMatrix(ctx.Matrix().Mult(transform.NewMatrix(1, 0, 0, -1, 0, float64(ctx.Height()))))

	// White background.
	ctx.Push()
	ctx.SetRGBA(1, 1, 1, 1)
	ctx.DrawRectangle(0, 0, float64(ctx.Width()), float64(ctx.Height()))
	ctx.Fill()
	ctx.Pop()

	// Defaults.
	ctx.SetLineWidth(1.0)
	ctx.SetRGBA(0, 0, 0, 1)

	state := &renderState{
		cancel:       cancel,
		visitedForms: map[*core.PdfObjectStream]struct{}{},
	}
	return r.renderContentStream(ctx, contents, page.Resources, state)
}

func (r *renderer) renderContentStream(ctx context.Context, contents string, resources *model.PdfPageResources, state *renderState) error {
	operations, err := contentstream.NewContentStreamParser(contents).Parse()
	if err != nil {
		return err
	}
	if resources == nil {
		resources = model.NewPdfPageResources()
	}

	processor := contentstream.NewContentStreamProcessor(*operations)
	if state.cancel != nil {
		processor.SetCancelContext(state.cancel)
	}

	// Path state the canvas needs beyond the processor's segment list.
	var lastPoint transform.Point
	var subpathStart transform.Point

	buildSegment := func(seg contentstream.PathSegment) {
		switch seg.Op {
		case "m":
			ctx.NewSubPath()
			ctx.MoveTo(seg.Args[0], seg.Args[1])
			lastPoint = transform.NewPoint(seg.Args[0], seg.Args[1])
			subpathStart = lastPoint
		case "l":
			ctx.LineTo(seg.Args[0], seg.Args[1])
			lastPoint = transform.NewPoint(seg.Args[0], seg.Args[1])
		case "c":
			ctx.CubicTo(seg.Args[0], seg.Args[1], seg.Args[2], seg.Args[3], seg.Args[4], seg.Args[5])
			lastPoint = transform.NewPoint(seg.Args[4], seg.Args[5])
		case "v":
			// First control point coincides with the current point.
			ctx.CubicTo(lastPoint.X, lastPoint.Y, seg.Args[0], seg.Args[1], seg.Args[2], seg.Args[3])
			lastPoint = transform.NewPoint(seg.Args[2], seg.Args[3])
		case "y":
			// Second control point coincides with the end point.
			ctx.CubicTo(seg.Args[0], seg.Args[1], seg.Args[2], seg.Args[3], seg.Args[2], seg.Args[3])
			lastPoint = transform.NewPoint(seg.Args[2], seg.Args[3])
		case "h":
			ctx.ClosePath()
			ctx.NewSubPath()
			lastPoint = subpathStart
		case "re":
			ctx.DrawRectangle(seg.Args[0], seg.Args[1], seg.Args[2], seg.Args[3])
			ctx.NewSubPath()
			lastPoint = transform.NewPoint(seg.Args[0], seg.Args[1])
			subpathStart = lastPoint
		}
	}

	// applyPendingClip realizes a deferred W/W* after a painting operator.
	applyPendingClip := func() {
		clip := processor.GetPendingClip()
		if clip == nil {
			return
		}
		if clip.EvenOdd {
			ctx.SetFillRule(context.FillRuleEvenOdd)
		} else {
			ctx.SetFillRule(context.FillRuleWinding)
		}
		ctx.ClipPreserve()
		ctx.ClearPath()
	}

	handler := func(op *contentstream.ContentStreamOperation, gs contentstream.GraphicsState, resources *model.PdfPageResources) error {
		if state.cancelled() {
			return contentstream.ErrCancelled
		}

		switch op.Operand {
		// Graphics state operators.
		case "q":
			ctx.Push()
			state.saveDepth++
		case "Q":
			if state.saveDepth > 0 {
				ctx.Pop()
				state.saveDepth--
			}
		case "cm":
			if len(op.Params) != 6 {
				return errRange
			}
			fv, err := core.GetNumbersAsFloat(op.Params)
			if err != nil {
				return err
			}
			m := transform.NewMatrix(fv[0], fv[1], fv[2], fv[3], fv[4], fv[5])
			ctx.SetMatrix(ctx.Matrix().Mult(m))
		case "w":
			ctx.SetLineWidth(gs.LineWidth)
		case "J":
			ctx.SetLineCap(lineCapFromState(gs.LineCap))
		case "j":
			ctx.SetLineJoin(lineJoinFromState(gs.LineJoin))
		case "M":
			ctx.SetMiterLimit(gs.MiterLimit)
		case "d":
			ctx.SetDash(gs.DashArray, gs.DashPhase)
		case "gs":
			ctx.SetBlendMode(string(gs.BlendMode))
			ctx.SetLineWidth(gs.LineWidth)
			ctx.SetLineCap(lineCapFromState(gs.LineCap))
			ctx.SetLineJoin(lineJoinFromState(gs.LineJoin))
			ctx.SetMiterLimit(gs.MiterLimit)
			ctx.SetDash(gs.DashArray, gs.DashPhase)

		// Path construction mirrors the processor's segment list onto the
		// canvas as it happens.
		case "m", "l", "c", "v", "y", "h", "re":
			segments := processor.CurrentPath()
			if len(segments) > 0 {
				buildSegment(segments[len(segments)-1])
			}

		// Path painting.
		case "S":
			err := r.paintPath(ctx, &gs, resources, state, false, true, false)
			applyPendingClip()
			ctx.ClearPath()
			return err
		case "s":
			ctx.ClosePath()
			ctx.NewSubPath()
			err := r.paintPath(ctx, &gs, resources, state, false, true, false)
			applyPendingClip()
			ctx.ClearPath()
			return err
		case "f", "F":
			err := r.paintPath(ctx, &gs, resources, state, true, false, false)
			applyPendingClip()
			ctx.ClearPath()
			return err
		case "f*":
			err := r.paintPath(ctx, &gs, resources, state, true, false, true)
			applyPendingClip()
			ctx.ClearPath()
			return err
		case "B":
			err := r.paintPath(ctx, &gs, resources, state, true, true, false)
			applyPendingClip()
			ctx.ClearPath()
			return err
		case "B*":
			err := r.paintPath(ctx, &gs, resources, state, true, true, true)
			applyPendingClip()
			ctx.ClearPath()
			return err
		case "b":
			ctx.ClosePath()
			ctx.NewSubPath()
			err := r.paintPath(ctx, &gs, resources, state, true, true, false)
			applyPendingClip()
			ctx.ClearPath()
			return err
		case "b*":
			ctx.ClosePath()
			ctx.NewSubPath()
			err := r.paintPath(ctx, &gs, resources, state, true, true, true)
			applyPendingClip()
			ctx.ClearPath()
			return err
		case "n":
			applyPendingClip()
			ctx.ClearPath()

		// Text.
		case "BT":
			state.textClip = nil
		case "ET":
			if len(state.textClip) > 0 {
				ctx.ClipGlyphs(state.textClip)
				state.textClip = nil
			}
		case "Tj":
			if len(op.Params) != 1 {
				return errRange
			}
			charcodes, ok := core.GetStringBytes(op.Params[0])
			if !ok {
				return errType
			}
			return r.showText(ctx, processor, resources, state, charcodes)
		case "'":
			if len(op.Params) != 1 {
				return errRange
			}
			charcodes, ok := core.GetStringBytes(op.Params[0])
			if !ok {
				return errType
			}
			return r.showText(ctx, processor, resources, state, charcodes)
		case "\"":
			if len(op.Params) != 3 {
				return errRange
			}
			charcodes, ok := core.GetStringBytes(op.Params[2])
			if !ok {
				return errType
			}
			return r.showText(ctx, processor, resources, state, charcodes)
		case "TJ":
			if len(op.Params) != 1 {
				return errRange
			}
			array, ok := core.GetArray(op.Params[0])
			if !ok {
				return errType
			}
			return r.showTextAdjusted(ctx, processor, resources, state, array)

		// XObjects and images.
		case "Do":
			if len(op.Params) != 1 {
				return errRange
			}
			name, ok := core.GetName(op.Params[0])
			if !ok {
				return errType
			}
			return r.drawXObject(ctx, &gs, resources, state, *name)
		case "BI":
			if len(op.Params) != 1 {
				return nil
			}
			iimg, ok := op.Params[0].(*contentstream.ContentStreamInlineImage)
			if !ok {
				return nil
			}
			img, err := iimg.ToImage(resources)
			if err != nil {
				common.Log.Debug("ERROR: converting inline image: %v", err)
				return nil
			}
			r.drawImage(ctx, &gs, resources, state, img)

		// Shading paint.
		case "sh":
			if len(op.Params) != 1 {
				return errRange
			}
			name, ok := core.GetName(op.Params[0])
			if !ok {
				return errType
			}
			shading, found := resources.GetShadingByName(*name)
			if !found {
				common.Log.Debug("ERROR: shading %s not found", name.String())
				return nil
			}
			r.withSoftMask(ctx, &gs, resources, state, func() {
				r.drawShading(ctx, &gs, state, shading, true)
			})
		}

		return nil
	}

	processor.AddHandler(contentstream.HandlerConditionEnumAllOperands, "", handler)

	err = processor.Process(resources)

	// The interpreter never leaves canvas saves unbalanced, even on early
	// exits from damaged streams.
	for state.saveDepth > 0 {
		ctx.Pop()
		state.saveDepth--
	}
	return err
}

func lineCapFromState(cap contentstream.LineCap) context.LineCap {
	switch cap {
	case contentstream.LineCapRound:
		return context.LineCapRound
	case contentstream.LineCapSquare:
		return context.LineCapSquare
	default:
		return context.LineCapButt
	}
}

func lineJoinFromState(join contentstream.LineJoin) context.LineJoin {
	switch join {
	case contentstream.LineJoinRound:
		return context.LineJoinRound
	case contentstream.LineJoinMiter:
		return context.LineJoinMiter
	default:
		return context.LineJoinBevel
	}
}

// resolvePaint configures the canvas fill or stroke paint from the graphics
// state: solid color, tiling pattern or shading pattern.
func (r *renderer) resolvePaint(ctx context.Context, gs *contentstream.GraphicsState, resources *model.PdfPageResources, state *renderState, stroking bool) error {
	cs := gs.ColorspaceNonStroking
	color := gs.ColorNonStroking
	alpha := gs.AlphaNonStroking
	if stroking {
		cs = gs.ColorspaceStroking
		color = gs.ColorStroking
		alpha = gs.AlphaStroking
	}

	if patternCS, isPattern := cs.(*model.PdfColorspaceSpecialPattern); isPattern {
		return r.resolvePatternPaint(ctx, gs, resources, state, patternCS, color, stroking)
	}

	rgb, err := cs.ToSRGB(color.Components, gs.RenderingIntent)
	if err != nil {
		common.Log.Debug("Error converting color: %v", err)
		return err
	}
	if stroking {
		ctx.SetStrokeRGBA(rgb[0], rgb[1], rgb[2], alpha)
	} else {
		ctx.SetFillRGBA(rgb[0], rgb[1], rgb[2], alpha)
	}
	return nil
}

// paintPath fills and/or strokes the current path with the resolved paints.
func (r *renderer) paintPath(ctx context.Context, gs *contentstream.GraphicsState, resources *model.PdfPageResources, state *renderState, fill, stroke, evenOdd bool) error {
	var err error
	r.withSoftMask(ctx, gs, resources, state, func() {
		ctx.SetBlendMode(string(gs.BlendMode))
		if fill {
			if perr := r.resolvePaint(ctx, gs, resources, state, false); perr != nil {
				err = perr
			} else {
				if evenOdd {
					ctx.SetFillRule(context.FillRuleEvenOdd)
				} else {
					ctx.SetFillRule(context.FillRuleWinding)
				}
				ctx.FillPreserve()
			}
		}
		if stroke {
			if perr := r.resolvePaint(ctx, gs, resources, state, true); perr != nil {
				err = perr
			} else {
				ctx.SetLineWidth(gs.LineWidth)
				ctx.SetLineCap(lineCapFromState(gs.LineCap))
				ctx.SetLineJoin(lineJoinFromState(gs.LineJoin))
				ctx.SetMiterLimit(gs.MiterLimit)
				ctx.SetDash(gs.DashArray, gs.DashPhase)
				ctx.StrokePreserve()
			}
		}
	})
	return err
}

// drawXObject dispatches a Do operator to the image or form path.
func (r *renderer) drawXObject(ctx context.Context, gs *contentstream.GraphicsState, resources *model.PdfPageResources, state *renderState, name core.PdfObjectName) error {
	stream, xtype := resources.GetXObjectByName(name)
	switch xtype {
	case model.XObjectTypeImage:
		ximg, err := resources.GetXObjectImageByName(name)
		if err != nil || ximg == nil {
			common.Log.Debug("ERROR: loading image %s: %v", name.String(), err)
			return nil
		}
		r.drawImage(ctx, gs, resources, state, ximg)
	case model.XObjectTypeForm:
		xform, err := resources.GetXObjectFormByName(name)
		if err != nil || xform == nil {
			common.Log.Debug("ERROR: loading form %s: %v", name.String(), err)
			return nil
		}
		if _, visited := state.visitedForms[stream]; visited {
			common.Log.Debug("ERROR: form XObject recursion detected for %s", name.String())
			return nil
		}
		state.visitedForms[stream] = struct{}{}
		defer delete(state.visitedForms, stream)
		return r.drawForm(ctx, gs, resources, state, xform)
	default:
		common.Log.Debug("Do of unsupported XObject %s", name.String())
	}
	return nil
}

// drawForm executes a form XObject under a fresh canvas save with its
// matrix, bbox clip and resources.
func (r *renderer) drawForm(ctx context.Context, gs *contentstream.GraphicsState, resources *model.PdfPageResources, state *renderState, xform *model.XObjectForm) error {
	formContent, err := xform.GetContentStream()
	if err != nil {
		return err
	}

	formResources := xform.Resources
	if formResources == nil {
		formResources = resources
	}

	ctx.Push()
	defer ctx.Pop()

	if xform.Matrix != nil {
		if array, ok := core.GetArray(xform.Matrix); ok {
			if mf, err := core.GetNumbersAsFloat(array.Elements()); err == nil && len(mf) == 6 {
				m := transform.NewMatrix(mf[0], mf[1], mf[2], mf[3], mf[4], mf[5])
				ctx.SetMatrix(ctx.Matrix().Mult(m))
			}
		}
	}

	if xform.BBox != nil {
		if array, ok := core.GetArray(xform.BBox); ok {
			if bf, err := core.GetNumbersAsFloat(array.Elements()); err == nil && len(bf) == 4 {
				ctx.ClearPath()
				ctx.DrawRectangle(bf[0], bf[1], bf[2]-bf[0], bf[3]-bf[1])
				ctx.SetFillRule(context.FillRuleWinding)
				ctx.ClipPreserve()
				ctx.ClearPath()
			}
		}
	} else {
		common.Log.Debug("ERROR: Required BBox missing on XObject Form")
	}

	var innerErr error
	r.withSoftMask(ctx, gs, resources, state, func() {
		innerErr = r.renderContentStream(ctx, string(formContent), formResources, state)
	})
	return innerErr
}

// withSoftMask runs `draw` inside the soft mask scope of the graphics state:
// content accumulates in a layer and composes through the mask on exit. A
// nil soft mask makes the scope a no-op.
func (r *renderer) withSoftMask(ctx context.Context, gs *contentstream.GraphicsState, resources *model.PdfPageResources, state *renderState, draw func()) {
	smask := gs.SMask
	if smask == nil {
		draw()
		return
	}

	ctx.SaveLayer(1.0, string(gs.BlendMode))
	draw()

	maskPicture := r.recordSoftMaskGroup(ctx, smask, resources, state)
	if maskPicture != nil {
		ctx.SetBlendMode("DestinationIn")
		ctx.DrawPicture(maskPicture, 1.0)
		ctx.SetBlendMode(string(gs.BlendMode))
	}
	ctx.RestoreLayer()
}

// recordSoftMaskGroup renders the soft mask's group form into a picture. For
// luminosity masks the backend applies a luminance-to-alpha conversion when
// drawing with DestinationIn.
func (r *renderer) recordSoftMaskGroup(ctx context.Context, smask *contentstream.SoftMask, resources *model.PdfPageResources, state *renderState) context.Picture {
	groupStream, ok := core.GetStream(smask.Group)
	if !ok {
		common.Log.Debug("ERROR: soft mask group is not a stream")
		return nil
	}
	xform, err := model.NewXObjectFormFromStream(groupStream)
	if err != nil {
		common.Log.Debug("ERROR: loading soft mask group: %v", err)
		return nil
	}

	return ctx.CreatePicture(func(sub context.Context) {
		groupState := &renderState{
			cancel:       state.cancel,
			visitedForms: state.visitedForms,
		}
		groupGS := contentstream.GraphicsState{}
		if err := r.drawForm(sub, &groupGS, resources, groupState, xform); err != nil {
			common.Log.Debug("ERROR: rendering soft mask group: %v", err)
		}
	})
}
