/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package contentstream

import (
	"context"
	"errors"

	"github.com/pdfrast/pdfrast/common"
	"github.com/pdfrast/pdfrast/core"
	"github.com/pdfrast/pdfrast/internal/transform"
	"github.com/pdfrast/pdfrast/model"
)

// TextRenderingMode determines whether showing text fills, strokes, clips or
// some combination of those.
type TextRenderingMode int

// Text rendering modes (Table 106).
const (
	TextRenderingModeFill TextRenderingMode = iota
	TextRenderingModeStroke
	TextRenderingModeFillStroke
	TextRenderingModeInvisible
	TextRenderingModeFillClip
	TextRenderingModeStrokeClip
	TextRenderingModeFillStrokeClip
	TextRenderingModeClip
)

// LineCap is the line cap style.
type LineCap int

// Line cap styles.
const (
	LineCapButt LineCap = iota
	LineCapRound
	LineCapSquare
)

// LineJoin is the line join style.
type LineJoin int

// Line join styles.
const (
	LineJoinMiter LineJoin = iota
	LineJoinRound
	LineJoinBevel
)

// Color is the raw operand form of a color: component values, plus the
// pattern name when selected through a Pattern colorspace.
type Color struct {
	Components  []float64
	PatternName core.PdfObjectName
}

// TextState holds the text-related graphics state parameters.
type TextState struct {
	Font     *model.PdfFont
	FontSize float64

	Tc float64 // Character spacing.
	Tw float64 // Word spacing.
	Th float64 // Horizontal scaling, percent.
	Tl float64 // Leading.
	Ts float64 // Rise.

	Tmode TextRenderingMode

	Tm  transform.Matrix // Text matrix.
	Tlm transform.Matrix // Text line matrix.
}

// SoftMask describes the /SMask entry of an ExtGState: the mask subtype,
// the backing form group, the transfer function and backdrop color.
type SoftMask struct {
	Subtype  core.PdfObjectName // Alpha or Luminosity.
	Group    core.PdfObject
	Backdrop []float64
	Transfer core.PdfObject
}

// GraphicsState keeps track of the graphics state as content stream
// operations execute. Values clone cheaply on q.
type GraphicsState struct {
	ColorspaceStroking    model.PdfColorspace
	ColorspaceNonStroking model.PdfColorspace
	ColorStroking         Color
	ColorNonStroking      Color
	CTM                   transform.Matrix

	LineWidth  float64
	LineCap    LineCap
	LineJoin   LineJoin
	MiterLimit float64
	DashArray  []float64
	DashPhase  float64

	RenderingIntent model.RenderingIntent

	AlphaStroking    float64
	AlphaNonStroking float64
	BlendMode        core.PdfObjectName
	SMask            *SoftMask

	Text TextState

	// Type 3 glyph metrics set by d0/d1.
	Type3Advance [2]float64
	Type3BBox    *model.PdfRectangle
}

// GraphicStateStack represents a stack of GraphicsState.
type GraphicStateStack []GraphicsState

// Push pushes `gs` on the `gsStack`.
func (gsStack *GraphicStateStack) Push(gs GraphicsState) {
	*gsStack = append(*gsStack, gs)
}

// Pop pops and returns the topmost GraphicsState off the `gsStack`.
func (gsStack *GraphicStateStack) Pop() GraphicsState {
	gs := (*gsStack)[len(*gsStack)-1]
	*gsStack = (*gsStack)[:len(*gsStack)-1]
	return gs
}

// Transform returns coordinates x, y transformed by the CTM.
func (gs *GraphicsState) Transform(x, y float64) (float64, float64) {
	return gs.CTM.Transform(x, y)
}

// PathSegment is one path construction command with its operands in user
// space.
type PathSegment struct {
	Op   string // m l c v y h re
	Args []float64
}

// PendingClip records a deferred W/W* clip: it fires at the next painting
// operator, after the paint.
type PendingClip struct {
	EvenOdd bool
}

// HandlerFunc is the function syntax that the ContentStreamProcessor handler must implement.
type HandlerFunc func(op *ContentStreamOperation, gs GraphicsState, resources *model.PdfPageResources) error

type handlerEntry struct {
	Condition HandlerConditionEnum
	Operand   string
	Handler   HandlerFunc
}

// HandlerConditionEnum represents the type of operand content stream processor (handler).
// The handler may process a single specific named operand or all operands.
type HandlerConditionEnum int

// Handler types.
const (
	HandlerConditionEnumOperand     HandlerConditionEnum = iota // Single (specific) operand.
	HandlerConditionEnumAllOperands                             // All operands.
)

// All returns true if `hce` is equivalent to HandlerConditionEnumAllOperands.
func (hce HandlerConditionEnum) All() bool {
	return hce == HandlerConditionEnumAllOperands
}

// Operand returns true if `hce` is equivalent to HandlerConditionEnumOperand.
func (hce HandlerConditionEnum) Operand() bool {
	return hce == HandlerConditionEnumOperand
}

// ContentStreamProcessor defines a data structure and methods for processing a content stream,
// keeping track of the current graphics state, and allowing external handlers to define their
// own functions as a part of the processing, for example rendering or extracting certain
// information.
type ContentStreamProcessor struct {
	graphicsStack GraphicStateStack
	operations    []*ContentStreamOperation
	graphicsState GraphicsState

	handlers []handlerEntry

	// The current path is owned by the processor across q/Q boundaries and
	// cleared at painting operators.
	currentPath []PathSegment
	pendingClip *PendingClip

	inTextObject  bool
	inCompatBlock int

	cancelCtx context.Context
}

// ErrCancelled is returned when the caller's context cancels processing.
var ErrCancelled = errors.New("processing cancelled")

var (
	errType  = errors.New("type check error")
	errRange = errors.New("range check error")
)

// NewContentStreamProcessor returns a new ContentStreamProcessor for operations `ops`.
func NewContentStreamProcessor(ops []*ContentStreamOperation) *ContentStreamProcessor {
	csp := ContentStreamProcessor{}
	csp.graphicsStack = GraphicStateStack{}
	csp.graphicsState = defaultGraphicsState()
	csp.operations = ops
	return &csp
}

func defaultGraphicsState() GraphicsState {
	return GraphicsState{
		ColorspaceStroking:    model.NewPdfColorspaceDeviceGray(),
		ColorspaceNonStroking: model.NewPdfColorspaceDeviceGray(),
		ColorStroking:         Color{Components: []float64{0}},
		ColorNonStroking:      Color{Components: []float64{0}},
		CTM:                   transform.IdentityMatrix(),
		LineWidth:             1.0,
		MiterLimit:            10.0,
		RenderingIntent:       model.RenderingIntentRelativeColorimetric,
		AlphaStroking:         1.0,
		AlphaNonStroking:      1.0,
		BlendMode:             "Normal",
		Text: TextState{
			Th:  100,
			Tm:  transform.IdentityMatrix(),
			Tlm: transform.IdentityMatrix(),
		},
	}
}

// AddHandler adds a new ContentStreamProcessor `handler` of type `condition` for `operand`.
func (proc *ContentStreamProcessor) AddHandler(condition HandlerConditionEnum, operand string, handler HandlerFunc) {
	entry := handlerEntry{}
	entry.Condition = condition
	entry.Operand = operand
	entry.Handler = handler
	proc.handlers = append(proc.handlers, entry)
}

// SetCancelContext attaches a context checked between operations; cancelling
// it unwinds processing cleanly.
func (proc *ContentStreamProcessor) SetCancelContext(ctx context.Context) {
	proc.cancelCtx = ctx
}

// GraphicsState returns the active graphics state.
func (proc *ContentStreamProcessor) GraphicsState() *GraphicsState {
	return &proc.graphicsState
}

// StackDepth returns the current graphics state stack depth.
func (proc *ContentStreamProcessor) StackDepth() int {
	return len(proc.graphicsStack)
}

// CurrentPath returns the accumulated path segments.
func (proc *ContentStreamProcessor) CurrentPath() []PathSegment {
	return proc.currentPath
}

// GetPendingClip returns the deferred clip record, nil when no W/W* is
// pending.
func (proc *ContentStreamProcessor) GetPendingClip() *PendingClip {
	return proc.pendingClip
}

// InTextObject returns true between BT and ET.
func (proc *ContentStreamProcessor) InTextObject() bool {
	return proc.inTextObject
}

// isPaintingOperand returns true for the path painting operators, all of
// which reset the current path.
func isPaintingOperand(operand string) bool {
	switch operand {
	case "S", "s", "f", "F", "f*", "B", "B*", "b", "b*", "n":
		return true
	}
	return false
}

// Process processes the entire list of operations. Maintains the graphics state that is passed
// to any handlers that are triggered during processing (either on specific operators or all).
func (proc *ContentStreamProcessor) Process(resources *model.PdfPageResources) error {
	for _, op := range proc.operations {
		if proc.cancelCtx != nil {
			select {
			case <-proc.cancelCtx.Done():
				return ErrCancelled
			default:
			}
		}

		// Internal handling.
		if err := proc.handleOperand(op, resources); err != nil {
			if err == ErrCancelled {
				return err
			}
			// Invalid operands abort only the current operator.
			common.Log.Debug("Processor handling error (%s): %v", op.Operand, err)
			common.Log.Debug("Operand: %#v", op.Operand)
			continue
		}

		// Check if have external handler also, and process if so.
		for _, entry := range proc.handlers {
			var err error
			if entry.Condition.All() {
				err = entry.Handler(op, proc.graphicsState, resources)
			} else if entry.Condition.Operand() && op.Operand == entry.Operand {
				err = entry.Handler(op, proc.graphicsState, resources)
			}
			if err != nil {
				if err == ErrCancelled {
					return err
				}
				common.Log.Debug("Processor handler error: %v", err)
			}
		}

		// A painting operator consumes the current path and realizes any
		// pending clip; the handlers above have already seen both.
		if isPaintingOperand(op.Operand) {
			proc.currentPath = nil
			proc.pendingClip = nil
		}
	}

	return nil
}

func (proc *ContentStreamProcessor) handleOperand(op *ContentStreamOperation, resources *model.PdfPageResources) error {
	if proc.inCompatBlock > 0 && !isKnownOperand(op.Operand) {
		// Unknown operators inside BX..EX are ignored silently.
		return nil
	}

	switch op.Operand {
	// Graphics state operators.
	case "q":
		proc.graphicsStack.Push(proc.graphicsState)
	case "Q":
		if len(proc.graphicsStack) == 0 {
			// Malformed files carry extra Q operators; treat as a no-op.
			common.Log.Debug("WARN: invalid `Q` operator. Graphics state stack is empty. Skipping.")
			return nil
		}
		proc.graphicsState = proc.graphicsStack.Pop()
	case "cm":
		return proc.handleCommand_cm(op)
	case "w":
		val, err := singleFloat(op)
		if err != nil {
			return err
		}
		proc.graphicsState.LineWidth = val
	case "J":
		val, ok := core.GetIntVal(firstParam(op))
		if !ok {
			return errType
		}
		switch val {
		case 0:
			proc.graphicsState.LineCap = LineCapButt
		case 1:
			proc.graphicsState.LineCap = LineCapRound
		case 2:
			proc.graphicsState.LineCap = LineCapSquare
		default:
			return errRange
		}
	case "j":
		val, ok := core.GetIntVal(firstParam(op))
		if !ok {
			return errType
		}
		switch val {
		case 0:
			proc.graphicsState.LineJoin = LineJoinMiter
		case 1:
			proc.graphicsState.LineJoin = LineJoinRound
		case 2:
			proc.graphicsState.LineJoin = LineJoinBevel
		default:
			return errRange
		}
	case "M":
		val, err := singleFloat(op)
		if err != nil {
			return err
		}
		proc.graphicsState.MiterLimit = val
	case "d":
		return proc.handleCommand_d(op)
	case "ri":
		name, ok := core.GetName(firstParam(op))
		if !ok {
			return errType
		}
		proc.graphicsState.RenderingIntent = model.NewRenderingIntentFromName(*name)
	case "i":
		// Flatness tolerance: accepted and ignored.
	case "gs":
		return proc.handleCommand_gs(op, resources)

	// Color operators.
	case "CS":
		return proc.handleCommand_CS(op, resources)
	case "cs":
		return proc.handleCommand_cs(op, resources)
	case "SC", "SCN":
		return proc.handleColorOperands(op, true)
	case "sc", "scn":
		return proc.handleColorOperands(op, false)
	case "G":
		return proc.setDeviceColor(op, model.NewPdfColorspaceDeviceGray(), true)
	case "g":
		return proc.setDeviceColor(op, model.NewPdfColorspaceDeviceGray(), false)
	case "RG":
		return proc.setDeviceColor(op, model.NewPdfColorspaceDeviceRGB(), true)
	case "rg":
		return proc.setDeviceColor(op, model.NewPdfColorspaceDeviceRGB(), false)
	case "K":
		return proc.setDeviceColor(op, model.NewPdfColorspaceDeviceCMYK(), true)
	case "k":
		return proc.setDeviceColor(op, model.NewPdfColorspaceDeviceCMYK(), false)

	// Path construction.
	case "m", "l", "v", "y", "c", "re":
		return proc.appendPathSegment(op)
	case "h":
		proc.currentPath = append(proc.currentPath, PathSegment{Op: "h"})

	// Deferred clipping.
	case "W":
		proc.pendingClip = &PendingClip{EvenOdd: false}
	case "W*":
		proc.pendingClip = &PendingClip{EvenOdd: true}

	// Path painting operators are realized by the registered handlers; the
	// path and clip bookkeeping happens in Process.
	case "S", "s", "f", "F", "f*", "B", "B*", "b", "b*", "n":

	// Text object and state.
	case "BT":
		proc.inTextObject = true
		proc.graphicsState.Text.Tm = transform.IdentityMatrix()
		proc.graphicsState.Text.Tlm = transform.IdentityMatrix()
	case "ET":
		proc.inTextObject = false
	case "Tc":
		val, err := singleFloat(op)
		if err != nil {
			return err
		}
		proc.graphicsState.Text.Tc = val
	case "Tw":
		val, err := singleFloat(op)
		if err != nil {
			return err
		}
		proc.graphicsState.Text.Tw = val
	case "Tz":
		val, err := singleFloat(op)
		if err != nil {
			return err
		}
		proc.graphicsState.Text.Th = val
	case "TL":
		val, err := singleFloat(op)
		if err != nil {
			return err
		}
		proc.graphicsState.Text.Tl = val
	case "Ts":
		val, err := singleFloat(op)
		if err != nil {
			return err
		}
		proc.graphicsState.Text.Ts = val
	case "Tr":
		val, ok := core.GetIntVal(firstParam(op))
		if !ok {
			return errType
		}
		if val < 0 || val > 7 {
			return errRange
		}
		proc.graphicsState.Text.Tmode = TextRenderingMode(val)
	case "Tf":
		return proc.handleCommand_Tf(op, resources)
	case "Td":
		fv, err := floats(op, 2)
		if err != nil {
			return err
		}
		proc.translateTextLine(fv[0], fv[1])
	case "TD":
		fv, err := floats(op, 2)
		if err != nil {
			return err
		}
		proc.graphicsState.Text.Tl = -fv[1]
		proc.translateTextLine(fv[0], fv[1])
	case "Tm":
		fv, err := floats(op, 6)
		if err != nil {
			return err
		}
		m := transform.NewMatrix(fv[0], fv[1], fv[2], fv[3], fv[4], fv[5])
		proc.graphicsState.Text.Tm = m
		proc.graphicsState.Text.Tlm = m
	case "T*":
		proc.nextLine()
	case "'":
		proc.nextLine()
	case "\"":
		// Set word spacing, set character spacing, move to the next line;
		// the show itself runs in the registered handler.
		fv, err := core.GetNumbersAsFloat(op.Params[:min(2, len(op.Params))])
		if err != nil || len(fv) != 2 {
			return errRange
		}
		proc.graphicsState.Text.Tw = fv[0]
		proc.graphicsState.Text.Tc = fv[1]
		proc.nextLine()

	// Type 3 glyph metrics.
	case "d0":
		fv, err := floats(op, 2)
		if err != nil {
			return err
		}
		proc.graphicsState.Type3Advance = [2]float64{fv[0], fv[1]}
		proc.graphicsState.Type3BBox = nil
	case "d1":
		fv, err := floats(op, 6)
		if err != nil {
			return err
		}
		proc.graphicsState.Type3Advance = [2]float64{fv[0], fv[1]}
		proc.graphicsState.Type3BBox = &model.PdfRectangle{Llx: fv[2], Lly: fv[3], Urx: fv[4], Ury: fv[5]}

	// Marked content: consumed, otherwise ignored.
	case "MP", "DP", "BMC", "BDC", "EMC":

	// Compatibility section brackets.
	case "BX":
		proc.inCompatBlock++
	case "EX":
		if proc.inCompatBlock > 0 {
			proc.inCompatBlock--
		}

	// Handled entirely by external handlers.
	case "Do", "sh", "BI", "Tj", "TJ":

	default:
		if !isKnownOperand(op.Operand) {
			common.Log.Debug("Unknown operand %q - skipping", op.Operand)
		}
	}
	return nil
}

// translateTextLine implements Td: a translation premultiplied onto the text
// line matrix, replacing both Tm and Tlm.
func (proc *ContentStreamProcessor) translateTextLine(tx, ty float64) {
	text := &proc.graphicsState.Text
	text.Tlm = text.Tlm.Mult(transform.TranslationMatrix(tx, ty))
	text.Tm = text.Tlm
}

// nextLine implements T*: move down one leading.
func (proc *ContentStreamProcessor) nextLine() {
	proc.translateTextLine(0, -proc.graphicsState.Text.Tl)
}

func firstParam(op *ContentStreamOperation) core.PdfObject {
	if len(op.Params) < 1 {
		return nil
	}
	return op.Params[0]
}

func singleFloat(op *ContentStreamOperation) (float64, error) {
	if len(op.Params) != 1 {
		return 0, errRange
	}
	return core.GetNumberAsFloat(op.Params[0])
}

func floats(op *ContentStreamOperation, count int) ([]float64, error) {
	if len(op.Params) != count {
		return nil, errRange
	}
	return core.GetNumbersAsFloat(op.Params)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func (proc *ContentStreamProcessor) appendPathSegment(op *ContentStreamOperation) error {
	want := map[string]int{"m": 2, "l": 2, "v": 4, "y": 4, "c": 6, "re": 4}[op.Operand]
	fv, err := floats(op, want)
	if err != nil {
		common.Log.Debug("WARN: error while processing `%s` operator: %v. Output may be incorrect.", op.Operand, err)
		return nil
	}
	proc.currentPath = append(proc.currentPath, PathSegment{Op: op.Operand, Args: fv})
	return nil
}

// cm: concatenates an affine transform to the CTM.
func (proc *ContentStreamProcessor) handleCommand_cm(op *ContentStreamOperation) error {
	fv, err := floats(op, 6)
	if err != nil {
		common.Log.Debug("ERROR: Invalid number of parameters for cm: %d", len(op.Params))
		return err
	}
	m := transform.NewMatrix(fv[0], fv[1], fv[2], fv[3], fv[4], fv[5])
	proc.graphicsState.CTM.Concat(m)
	return nil
}

// d: sets the line dash pattern.
func (proc *ContentStreamProcessor) handleCommand_d(op *ContentStreamOperation) error {
	if len(op.Params) != 2 {
		return errRange
	}
	dashArray, ok := core.GetArray(op.Params[0])
	if !ok {
		return errType
	}
	dashes, err := core.GetNumbersAsFloat(dashArray.Elements())
	if err != nil {
		return err
	}
	phase, err := core.GetNumberAsFloat(op.Params[1])
	if err != nil {
		return err
	}
	proc.graphicsState.DashArray = dashes
	proc.graphicsState.DashPhase = phase
	return nil
}

// gs: applies a named ExtGState dictionary.
func (proc *ContentStreamProcessor) handleCommand_gs(op *ContentStreamOperation, resources *model.PdfPageResources) error {
	rname, ok := core.GetName(firstParam(op))
	if !ok || rname == nil {
		return errType
	}

	extobj, ok := resources.GetExtGState(*rname)
	if !ok {
		common.Log.Debug("ERROR: could not find ExtGState resource: %s", *rname)
		return errors.New("resource not found")
	}
	extdict, ok := core.GetDict(extobj)
	if !ok {
		common.Log.Debug("ERROR: could not get ExtGState dict")
		return errType
	}

	gs := &proc.graphicsState
	if lw, err := core.GetNumberAsFloat(extdict.Get("LW")); err == nil {
		gs.LineWidth = lw
	}
	if lc, ok := core.GetIntVal(extdict.Get("LC")); ok && lc >= 0 && lc <= 2 {
		gs.LineCap = LineCap(lc)
	}
	if lj, ok := core.GetIntVal(extdict.Get("LJ")); ok && lj >= 0 && lj <= 2 {
		gs.LineJoin = LineJoin(lj)
	}
	if ml, err := core.GetNumberAsFloat(extdict.Get("ML")); err == nil {
		gs.MiterLimit = ml
	}
	if dashEntry, ok := core.GetArray(extdict.Get("D")); ok && dashEntry.Len() == 2 {
		if dashArray, ok := core.GetArray(dashEntry.Get(0)); ok {
			if dashes, err := core.GetNumbersAsFloat(dashArray.Elements()); err == nil {
				gs.DashArray = dashes
			}
		}
		if phase, err := core.GetNumberAsFloat(dashEntry.Get(1)); err == nil {
			gs.DashPhase = phase
		}
	}
	if riName, ok := core.GetName(extdict.Get("RI")); ok {
		gs.RenderingIntent = model.NewRenderingIntentFromName(*riName)
	}
	if ca, err := core.GetNumberAsFloat(extdict.Get("CA")); err == nil {
		gs.AlphaStroking = ca
	}
	if ca, err := core.GetNumberAsFloat(extdict.Get("ca")); err == nil {
		gs.AlphaNonStroking = ca
	}
	switch bm := core.TraceToDirectObject(extdict.Get("BM")).(type) {
	case *core.PdfObjectName:
		gs.BlendMode = *bm
	case *core.PdfObjectArray:
		if name, ok := core.GetName(bm.Get(0)); ok {
			gs.BlendMode = *name
		}
	}
	if fontEntry, ok := core.GetArray(extdict.Get("Font")); ok && fontEntry.Len() == 2 {
		if font, err := model.NewPdfFontFromPdfObject(fontEntry.Get(0)); err == nil {
			gs.Text.Font = font
		}
		if size, err := core.GetNumberAsFloat(fontEntry.Get(1)); err == nil {
			gs.Text.FontSize = size
		}
	}

	// Soft mask.
	switch smask := core.TraceToDirectObject(extdict.Get("SMask")).(type) {
	case *core.PdfObjectName:
		if *smask == "None" {
			gs.SMask = nil
		}
	case *core.PdfObjectDictionary:
		mask := &SoftMask{}
		if subtype, ok := core.GetName(smask.Get("S")); ok {
			mask.Subtype = *subtype
		}
		mask.Group = smask.Get("G")
		mask.Transfer = smask.Get("TR")
		if bc, ok := core.GetArray(smask.Get("BC")); ok {
			if backdrop, err := bc.ToFloat64Array(); err == nil {
				mask.Backdrop = backdrop
			}
		}
		gs.SMask = mask
	}

	return nil
}

// handleCommand_Tf resolves the font via the page resource dictionary.
func (proc *ContentStreamProcessor) handleCommand_Tf(op *ContentStreamOperation, resources *model.PdfPageResources) error {
	if len(op.Params) != 2 {
		return errRange
	}
	fontName, ok := core.GetName(op.Params[0])
	if !ok || fontName == nil {
		common.Log.Debug("invalid font name object: %v", op.Params[0])
		return errType
	}
	fontSize, err := core.GetNumberAsFloat(op.Params[1])
	if err != nil {
		common.Log.Debug("invalid font size object: %v", op.Params[1])
		return errType
	}

	font, found := resources.GetFontByName(*fontName)
	if !found {
		common.Log.Debug("ERROR: Font %s not found", fontName.String())
		return errors.New("font not found")
	}

	proc.graphicsState.Text.Font = font
	proc.graphicsState.Text.FontSize = fontSize
	return nil
}

// getColorspace resolves a colorspace name: device spaces and Pattern first,
// then the resource dictionary, then the bare CIE names.
func (proc *ContentStreamProcessor) getColorspace(name string, resources *model.PdfPageResources) (model.PdfColorspace, error) {
	switch name {
	case "DeviceGray":
		return model.NewPdfColorspaceDeviceGray(), nil
	case "DeviceRGB":
		return model.NewPdfColorspaceDeviceRGB(), nil
	case "DeviceCMYK":
		return model.NewPdfColorspaceDeviceCMYK(), nil
	case "Pattern":
		return model.NewPdfColorspaceSpecialPattern(), nil
	}

	// Next check the colorspace dictionary.
	if cs, has := resources.GetColorspaceByName(core.PdfObjectName(name)); has {
		return cs, nil
	}

	// Lastly check other potential colormaps.
	switch name {
	case "CalGray":
		return model.NewPdfColorspaceCalGray(), nil
	case "CalRGB":
		return model.NewPdfColorspaceCalRGB(), nil
	case "Lab":
		return model.NewPdfColorspaceLab(), nil
	}

	// Otherwise unsupported.
	common.Log.Debug("Unknown colorspace requested: %s", name)
	return nil, errors.New("unsupported colorspace")
}

// getInitialColor returns the initial color for a given colorspace.
func (proc *ContentStreamProcessor) getInitialColor(cs model.PdfColorspace) Color {
	switch cs := cs.(type) {
	case *model.PdfColorspaceDeviceCMYK:
		return Color{Components: []float64{0, 0, 0, 1}}
	case *model.PdfColorspaceLab:
		l, a := 0.0, 0.0
		if decode := cs.DecodeArray(); len(decode) >= 4 && decode[2] > 0 {
			a = decode[2]
		}
		return Color{Components: []float64{l, a, 0}}
	case *model.PdfColorspaceSpecialPattern:
		return Color{}
	default:
		return Color{Components: make([]float64, cs.GetNumComponents())}
	}
}

// CS: Set the current color space for stroking operations.
func (proc *ContentStreamProcessor) handleCommand_CS(op *ContentStreamOperation, resources *model.PdfPageResources) error {
	name, ok := core.GetName(firstParam(op))
	if !ok {
		common.Log.Debug("ERROR: CS command with invalid parameter, skipping over")
		return errType
	}
	cs, err := proc.getColorspace(string(*name), resources)
	if err != nil {
		return err
	}
	proc.graphicsState.ColorspaceStroking = cs
	proc.graphicsState.ColorStroking = proc.getInitialColor(cs)
	return nil
}

// cs: Set the current color space for non-stroking operations.
func (proc *ContentStreamProcessor) handleCommand_cs(op *ContentStreamOperation, resources *model.PdfPageResources) error {
	name, ok := core.GetName(firstParam(op))
	if !ok {
		common.Log.Debug("ERROR: cs command with invalid parameter, skipping over")
		return errType
	}
	cs, err := proc.getColorspace(string(*name), resources)
	if err != nil {
		return err
	}
	proc.graphicsState.ColorspaceNonStroking = cs
	proc.graphicsState.ColorNonStroking = proc.getInitialColor(cs)
	return nil
}

// handleColorOperands services SC/SCN/sc/scn: numeric components, with an
// optional trailing pattern name under a Pattern colorspace.
func (proc *ContentStreamProcessor) handleColorOperands(op *ContentStreamOperation, stroking bool) error {
	cs := proc.graphicsState.ColorspaceNonStroking
	if stroking {
		cs = proc.graphicsState.ColorspaceStroking
	}

	color := Color{}
	params := op.Params
	if _, isPattern := cs.(*model.PdfColorspaceSpecialPattern); isPattern {
		if len(params) > 0 {
			if name, ok := core.GetName(params[len(params)-1]); ok {
				color.PatternName = *name
				params = params[:len(params)-1]
			}
		}
	} else if len(params) != cs.GetNumComponents() {
		common.Log.Debug("Invalid number of parameters for SC")
		common.Log.Debug("Number %d not matching colorspace %T", len(params), cs)
		return errors.New("invalid number of parameters")
	}

	components, err := core.GetNumbersAsFloat(params)
	if err != nil && len(params) > 0 {
		return err
	}
	color.Components = components

	if stroking {
		proc.graphicsState.ColorStroking = color
	} else {
		proc.graphicsState.ColorNonStroking = color
	}
	return nil
}

// setDeviceColor services the G/g/RG/rg/K/k shorthand operators.
func (proc *ContentStreamProcessor) setDeviceColor(op *ContentStreamOperation, cs model.PdfColorspace, stroking bool) error {
	if len(op.Params) != cs.GetNumComponents() {
		common.Log.Debug("Invalid number of parameters for %s", op.Operand)
		return errors.New("invalid number of parameters")
	}
	components, err := core.GetNumbersAsFloat(op.Params)
	if err != nil {
		return err
	}

	if stroking {
		proc.graphicsState.ColorspaceStroking = cs
		proc.graphicsState.ColorStroking = Color{Components: components}
	} else {
		proc.graphicsState.ColorspaceNonStroking = cs
		proc.graphicsState.ColorNonStroking = Color{Components: components}
	}
	return nil
}

// isKnownOperand returns true for every operator of the PDF content stream
// operator set.
func isKnownOperand(operand string) bool {
	switch operand {
	case "q", "Q", "cm", "w", "J", "j", "M", "d", "ri", "i", "gs",
		"m", "l", "c", "v", "y", "h", "re",
		"S", "s", "f", "F", "f*", "B", "B*", "b", "b*", "n",
		"W", "W*",
		"CS", "cs", "SC", "SCN", "sc", "scn", "G", "g", "RG", "rg", "K", "k",
		"BT", "ET", "Tc", "Tw", "Tz", "TL", "Ts", "Tr", "Tf", "Td", "TD", "Tm", "T*",
		"Tj", "TJ", "'", "\"",
		"d0", "d1",
		"Do", "sh", "BI", "ID", "EI",
		"MP", "DP", "BMC", "BDC", "EMC", "BX", "EX":
		return true
	}
	return false
}
