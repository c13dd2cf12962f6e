/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package context

import (
	"image/color"

	"github.com/pdfrast/pdfrast/internal/transform"
	"github.com/pdfrast/pdfrast/model"
)

// FillRule determines how overlapping path regions fill.
type FillRule int

// Fill rules.
const (
	FillRuleWinding FillRule = iota
	FillRuleEvenOdd
)

// LineCap is the stroke cap style.
type LineCap int

// Line caps.
const (
	LineCapRound LineCap = iota
	LineCapButt
	LineCapSquare
)

// LineJoin is the stroke join style.
type LineJoin int

// Line joins.
const (
	LineJoinRound LineJoin = iota
	LineJoinBevel
	LineJoinMiter
)

// Pattern is an opaque backend paint source (tiling cell or gradient
// shader).
type Pattern interface {
	ColorAt(x, y int) color.Color
}

// Picture is an opaque recorded drawing handle.
type Picture interface{}

// GradientStop is one color stop of a gradient shader. Color components are
// RGBA in [0,1]; a zero alpha stop realizes the transparent sentinel of an
// unextended gradient end.
type GradientStop struct {
	Offset float64
	Color  [4]float64
}

// TextGlyph is one positioned glyph of a text run.
type TextGlyph struct {
	Font     *model.PdfFont
	GID      uint16
	HasGID   bool
	Unicode  string
	FontSize float64

	// Matrix maps glyph space to user space: the composed text rendering
	// matrix at the glyph origin.
	Matrix transform.Matrix
}

// GlyphDrawMode selects the paint action of a glyph run.
type GlyphDrawMode int

// Glyph draw modes; clip accumulation composes with the fill/stroke modes.
const (
	GlyphDrawFill GlyphDrawMode = iota
	GlyphDrawStroke
	GlyphDrawFillStroke
)
