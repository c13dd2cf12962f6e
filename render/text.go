/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package render

import (
	"github.com/adrg/sysfont"

	"github.com/pdfrast/pdfrast/common"
	"github.com/pdfrast/pdfrast/contentstream"
	"github.com/pdfrast/pdfrast/core"
	"github.com/pdfrast/pdfrast/internal/transform"
	"github.com/pdfrast/pdfrast/model"
	"github.com/pdfrast/pdfrast/render/context"
)

// showText renders one shown string, advancing the text matrix by the total
// horizontal advance.
func (r *renderer) showText(ctx context.Context, processor *contentstream.ContentStreamProcessor, resources *model.PdfPageResources, state *renderState, charcodes []byte) error {
	gs := processor.GraphicsState()
	text := &gs.Text

	if text.Font == nil {
		common.Log.Debug("ERROR: showing text with no font set")
		return nil
	}

	codes := text.Font.BytesToCharcodes(charcodes)
	return r.showGlyphs(ctx, processor, resources, state, codes)
}

// showTextAdjusted renders a TJ array: strings show glyphs, numbers subtract
// from the advance in thousandths of text space.
func (r *renderer) showTextAdjusted(ctx context.Context, processor *contentstream.ContentStreamProcessor, resources *model.PdfPageResources, state *renderState, array *core.PdfObjectArray) error {
	gs := processor.GraphicsState()
	text := &gs.Text

	for _, obj := range array.Elements() {
		switch t := core.TraceToDirectObject(obj).(type) {
		case *core.PdfObjectString:
			if err := r.showText(ctx, processor, resources, state, t.Bytes()); err != nil {
				return err
			}
		case *core.PdfObjectInteger, *core.PdfObjectFloat:
			val, err := core.GetNumberAsFloat(t)
			if err != nil {
				continue
			}
			tx := -val / 1000.0 * text.FontSize * text.Th / 100.0
			text.Tm = text.Tm.Mult(transform.TranslationMatrix(tx, 0))
		}
	}
	return nil
}

// showGlyphs resolves each code to (unicode, GID, width), applies the text
// rendering mode and advances the text matrix.
func (r *renderer) showGlyphs(ctx context.Context, processor *contentstream.ContentStreamProcessor, resources *model.PdfPageResources, state *renderState, codes []model.CharCode) error {
	gs := processor.GraphicsState()
	text := &gs.Text
	font := text.Font

	if t3 := font.Type3Font(); t3 != nil {
		return r.showType3Glyphs(ctx, processor, resources, state, codes)
	}

	var run []context.TextGlyph

	for _, code := range codes {
		info := font.CharInfo(code)

		width := info.Width
		if !info.HasWidth {
			width = r.measuredWidthFallback(ctx, font, info)
		}

		if text.Tmode != contentstream.TextRenderingModeInvisible {
			glyph := context.TextGlyph{
				Font:     font,
				GID:      info.GID,
				HasGID:   info.HasGID,
				Unicode:  info.Unicode,
				FontSize: text.FontSize,
				Matrix:   r.textRenderingMatrix(gs),
			}
			run = append(run, glyph)
			if isClipMode(text.Tmode) {
				state.textClip = append(state.textClip, glyph)
			}
		}

		// Advance: (width · size + char spacing + word spacing) scaled by
		// the horizontal scaling. Word spacing applies only to the 1-byte
		// space code.
		advance := width*text.FontSize + text.Tc
		if code.IsWordBreak() {
			advance += text.Tw
		}
		advance *= text.Th / 100.0
		text.Tm = text.Tm.Mult(transform.TranslationMatrix(advance, 0))
	}

	if len(run) > 0 {
		r.drawTextRun(ctx, gs, resources, state, run)
	}
	return nil
}

// textRenderingMatrix composes glyph space to device space: the size/rise
// parameters, the text matrix and the CTM.
func (r *renderer) textRenderingMatrix(gs *contentstream.GraphicsState) transform.Matrix {
	text := &gs.Text
	m := gs.CTM
	m.Concat(text.Tm)
	m.Concat(transform.NewMatrix(text.FontSize*text.Th/100.0, 0, 0, text.FontSize, 0, text.Ts))
	return m
}

// drawTextRun paints a shaped glyph run per the text rendering mode.
func (r *renderer) drawTextRun(ctx context.Context, gs *contentstream.GraphicsState, resources *model.PdfPageResources, state *renderState, run []context.TextGlyph) {
	mode := gs.Text.Tmode

	r.withSoftMask(ctx, gs, resources, state, func() {
		ctx.SetBlendMode(string(gs.BlendMode))
		switch mode {
		case contentstream.TextRenderingModeFill, contentstream.TextRenderingModeFillClip:
			if err := r.resolvePaint(ctx, gs, resources, state, false); err == nil {
				ctx.DrawGlyphs(run, context.GlyphDrawFill)
			}
		case contentstream.TextRenderingModeStroke, contentstream.TextRenderingModeStrokeClip:
			if err := r.resolvePaint(ctx, gs, resources, state, true); err == nil {
				ctx.SetLineWidth(gs.LineWidth)
				ctx.DrawGlyphs(run, context.GlyphDrawStroke)
			}
		case contentstream.TextRenderingModeFillStroke, contentstream.TextRenderingModeFillStrokeClip:
			fillOK := r.resolvePaint(ctx, gs, resources, state, false) == nil
			strokeOK := r.resolvePaint(ctx, gs, resources, state, true) == nil
			if fillOK || strokeOK {
				ctx.DrawGlyphs(run, context.GlyphDrawFillStroke)
			}
		case contentstream.TextRenderingModeClip:
			// Clip only: glyphs already accumulated in the text clip.
		}
	})
}

func isClipMode(mode contentstream.TextRenderingMode) bool {
	return mode >= contentstream.TextRenderingModeFillClip
}

// showType3Glyphs executes Type 3 glyph procedures as nested content
// streams under the font matrix.
func (r *renderer) showType3Glyphs(ctx context.Context, processor *contentstream.ContentStreamProcessor, resources *model.PdfPageResources, state *renderState, codes []model.CharCode) error {
	gs := processor.GraphicsState()
	text := &gs.Text
	t3 := text.Font.Type3Font()

	glyphResources := resources
	if resDict := t3.Resources(); resDict != nil {
		if res, err := model.NewPdfPageResourcesFromDict(resDict); err == nil {
			glyphResources = res
		}
	}

	for _, code := range codes {
		proc, ok := t3.CharProc(code)
		if ok {
			ctx.Push()
			m := r.textRenderingMatrix(gs)
			m.Concat(t3.FontMatrix())
			ctx.SetMatrix(m)
			if err := r.renderContentStream(ctx, string(proc.Stream), glyphResources, state); err != nil {
				common.Log.Debug("ERROR: rendering Type3 glyph: %v", err)
			}
			ctx.Pop()
		}

		width, hasWidth := text.Font.CharWidth(code)
		if !hasWidth {
			width = gs.Type3Advance[0]
		}
		advance := (width*text.FontSize + text.Tc) * text.Th / 100.0
		if code.IsWordBreak() {
			advance += text.Tw * text.Th / 100.0
		}
		text.Tm = text.Tm.Mult(transform.TranslationMatrix(advance, 0))
	}
	return nil
}

// measuredWidthFallback asks the backend to measure the glyph at size 1 when
// the font carries no width and the unicode is known. Without unicode the
// width stays zero.
func (r *renderer) measuredWidthFallback(ctx context.Context, font *model.PdfFont, info model.CharInfo) float64 {
	if info.Unicode == "" {
		return 0
	}
	if w, ok := ctx.MeasureGlyph(font, info.Unicode); ok {
		return w
	}
	if r.findSubstitute(font) != nil {
		// A substitute font exists; the backend measures through it at draw
		// time. Use a conservative em fraction meanwhile.
		return 0.5
	}
	return 0
}

// findSubstitute locates a system font for fonts without an embedded or
// measurable program. Results are cached per base font.
func (r *renderer) findSubstitute(font *model.PdfFont) *sysfont.Font {
	baseFont := font.BaseFont()
	if len(baseFont) > 7 && baseFont[6] == '+' {
		// Subset prefixes such as OPEIOA+ArialMT.
		baseFont = baseFont[7:]
	}
	if cached, ok := r.substCache[baseFont]; ok {
		return cached
	}

	if r.fontFinder == nil {
		r.fontFinder = sysfont.NewFinder(&sysfont.FinderOpts{
			Extensions: []string{".ttf", ".ttc"},
		})
	}

	substitutes := []string{baseFont, "Times New Roman", "Arial", "DejaVu Sans"}
	for _, name := range substitutes {
		if info := r.fontFinder.Match(name); info != nil {
			common.Log.Debug("Substituting font %s with %s (%s)", baseFont, info.Name, info.Filename)
			r.substCache[baseFont] = info
			return info
		}
	}
	r.substCache[baseFont] = nil
	return nil
}
