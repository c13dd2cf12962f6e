/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package contentstream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdfrast/pdfrast/core"
	"github.com/pdfrast/pdfrast/model"
)

func processContent(t *testing.T, content string, handler HandlerFunc) *ContentStreamProcessor {
	t.Helper()

	ops, err := NewContentStreamParser(content).Parse()
	require.NoError(t, err)

	processor := NewContentStreamProcessor(*ops)
	if handler != nil {
		processor.AddHandler(HandlerConditionEnumAllOperands, "", handler)
	}
	require.NoError(t, processor.Process(model.NewPdfPageResources()))
	return processor
}

func TestGraphicsStateStackBalance(t *testing.T) {
	// Unmatched Q operators are no-ops; the stack ends balanced.
	content := `q q 0.5 0 0 G Q Q Q Q 1 0 0 1 5 5 cm q Q`
	processor := processContent(t, content, nil)
	assert.Equal(t, 0, processor.StackDepth())
}

func TestGraphicsStateRestore(t *testing.T) {
	content := `1 0 0 RG q 0 1 0 RG Q`
	processor := processContent(t, content, nil)

	gs := processor.GraphicsState()
	require.Len(t, gs.ColorStroking.Components, 3)
	assert.Equal(t, []float64{1, 0, 0}, gs.ColorStroking.Components)
}

func TestPathResetAfterPaint(t *testing.T) {
	paintOps := []string{"S", "s", "f", "F", "f*", "B", "B*", "b", "b*", "n"}

	for _, paintOp := range paintOps {
		content := "0 0 m 10 0 l 10 10 l " + paintOp
		processor := processContent(t, content, nil)
		assert.Empty(t, processor.CurrentPath(), "path not reset after %q", paintOp)
	}
}

func TestPathVisibleAtPaintOperator(t *testing.T) {
	ops, err := NewContentStreamParser("0 0 m 10 0 l f").Parse()
	require.NoError(t, err)
	processor := NewContentStreamProcessor(*ops)

	var segsAtPaint int
	processor.AddHandler(HandlerConditionEnumOperand, "f", func(op *ContentStreamOperation, gs GraphicsState, resources *model.PdfPageResources) error {
		segsAtPaint = len(processor.CurrentPath())
		return nil
	})
	require.NoError(t, processor.Process(model.NewPdfPageResources()))

	assert.Equal(t, 2, segsAtPaint)
	assert.Empty(t, processor.CurrentPath())
}

func TestDeferredClipFiresAtPaint(t *testing.T) {
	ops, err := NewContentStreamParser("0 0 m 5 5 l W n 1 1 m 2 2 l f").Parse()
	require.NoError(t, err)
	processor := NewContentStreamProcessor(*ops)

	var clipAtN, clipAtF bool
	processor.AddHandler(HandlerConditionEnumAllOperands, "", func(op *ContentStreamOperation, gs GraphicsState, resources *model.PdfPageResources) error {
		switch op.Operand {
		case "n":
			clipAtN = processor.GetPendingClip() != nil
		case "f":
			clipAtF = processor.GetPendingClip() != nil
		}
		return nil
	})
	require.NoError(t, processor.Process(model.NewPdfPageResources()))

	assert.True(t, clipAtN, "pending clip must survive until the painting operator")
	assert.False(t, clipAtF, "pending clip must not leak past its painting operator")
	assert.Nil(t, processor.GetPendingClip())
}

func TestTextMatrixComposition(t *testing.T) {
	processor := processContent(t, "BT 72 720 Td ET", nil)

	text := processor.GraphicsState().Text
	x, y := text.Tlm.Transform(0, 0)
	assert.InDelta(t, 72.0, x, 1e-9)
	assert.InDelta(t, 720.0, y, 1e-9)

	// Td replaces Tm with the new Tlm.
	assert.Equal(t, text.Tlm, text.Tm)
}

func TestTmReplacesBothMatrices(t *testing.T) {
	processor := processContent(t, "BT 2 0 0 2 10 20 Tm ET", nil)

	text := processor.GraphicsState().Text
	assert.Equal(t, text.Tm, text.Tlm)
	x, y := text.Tm.Transform(1, 1)
	assert.InDelta(t, 12.0, x, 1e-9)
	assert.InDelta(t, 22.0, y, 1e-9)
}

func TestLeadingAndTStar(t *testing.T) {
	// TL stores the leading; T* moves down by it.
	processor := processContent(t, "BT 14 TL 100 700 Td T* ET", nil)

	text := processor.GraphicsState().Text
	x, y := text.Tlm.Transform(0, 0)
	assert.InDelta(t, 100.0, x, 1e-9)
	assert.InDelta(t, 686.0, y, 1e-9)
}

func TestTDSetsLeading(t *testing.T) {
	processor := processContent(t, "BT 10 -12 TD ET", nil)
	text := processor.GraphicsState().Text
	assert.InDelta(t, 12.0, text.Tl, 1e-9)
}

func TestQuoteQuoteSetsSpacingsBeforeNewline(t *testing.T) {
	processor := processContent(t, `BT 20 TL 3 1 (ab) " ET`, nil)

	text := processor.GraphicsState().Text
	assert.InDelta(t, 3.0, text.Tw, 1e-9)
	assert.InDelta(t, 1.0, text.Tc, 1e-9)
	_, y := text.Tlm.Transform(0, 0)
	assert.InDelta(t, -20.0, y, 1e-9)
}

func TestExtGStateParameters(t *testing.T) {
	// ExtGState application with line and alpha parameters.
	resources := model.NewPdfPageResources()
	extDict := makeExtGStateDict()
	resources.ExtGState = extDict

	ops, err := NewContentStreamParser("/GS0 gs").Parse()
	require.NoError(t, err)
	processor := NewContentStreamProcessor(*ops)
	require.NoError(t, processor.Process(resources))

	gs := processor.GraphicsState()
	assert.InDelta(t, 2.5, gs.LineWidth, 1e-9)
	assert.InDelta(t, 0.5, gs.AlphaNonStroking, 1e-9)
	assert.Equal(t, "Multiply", string(gs.BlendMode))
}

func makeExtGStateDict() *core.PdfObjectDictionary {
	gsDict := core.MakeDict()
	gsDict.Set("LW", core.MakeFloat(2.5))
	gsDict.Set("ca", core.MakeFloat(0.5))
	gsDict.Set("BM", core.MakeName("Multiply"))

	container := core.MakeDict()
	container.Set("GS0", gsDict)
	return container
}

func TestUnknownOperatorInsideCompatibilitySection(t *testing.T) {
	// Unknown operators between BX..EX are ignored silently; the stream
	// keeps processing.
	processor := processContent(t, "BX /Foo frobnicate EX 1 0 0 RG", nil)
	assert.Equal(t, []float64{1, 0, 0}, processor.GraphicsState().ColorStroking.Components)
}

func TestType3MetricsOperators(t *testing.T) {
	processor := processContent(t, "10 0 d0", nil)
	assert.Equal(t, [2]float64{10, 0}, processor.GraphicsState().Type3Advance)
	assert.Nil(t, processor.GraphicsState().Type3BBox)

	processor = processContent(t, "10 0 0 0 8 8 d1", nil)
	require.NotNil(t, processor.GraphicsState().Type3BBox)
	assert.Equal(t, 8.0, processor.GraphicsState().Type3BBox.Urx)
}

func TestRenderingIntentOperator(t *testing.T) {
	processor := processContent(t, "/Perceptual ri", nil)
	assert.Equal(t, model.RenderingIntentPerceptual, processor.GraphicsState().RenderingIntent)

	processor = processContent(t, "/NoSuchIntent ri", nil)
	assert.Equal(t, model.RenderingIntentRelativeColorimetric, processor.GraphicsState().RenderingIntent)
}
