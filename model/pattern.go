/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package model

import (
	"errors"

	"github.com/pdfrast/pdfrast/common"
	"github.com/pdfrast/pdfrast/core"
)

// PdfPattern represents a pattern in the resource dictionary: tiling
// (PatternType 1) or shading (PatternType 2).
type PdfPattern struct {
	// PatternType: 1 - Tiling, 2 - Shading.
	PatternType int

	context interface{}
}

// GetContext returns a reference to the subpattern entry.
func (p *PdfPattern) GetContext() interface{} {
	return p.context
}

// IsTiling specifies if the pattern is a tiling pattern.
func (p *PdfPattern) IsTiling() bool {
	return p.PatternType == 1
}

// IsShading specifies if the pattern is a shading pattern.
func (p *PdfPattern) IsShading() bool {
	return p.PatternType == 2
}

// GetAsTilingPattern returns a tiling pattern. Check with IsTiling.
func (p *PdfPattern) GetAsTilingPattern() *PdfTilingPattern {
	return p.context.(*PdfTilingPattern)
}

// GetAsShadingPattern returns a shading pattern. Check with IsShading.
func (p *PdfPattern) GetAsShadingPattern() *PdfShadingPattern {
	return p.context.(*PdfShadingPattern)
}

// PdfTilingPattern is a tiling pattern that consists of repetitions of a
// pattern cell with defined intervals.
type PdfTilingPattern struct {
	*PdfPattern
	PaintType  int // 1 colored, 2 uncolored
	TilingType int
	BBox       *PdfRectangle
	XStep      float64
	YStep      float64
	Resources  *PdfPageResources
	Matrix     []float64

	content []byte
	stream  *core.PdfObjectStream
}

// IsColored specifies if the pattern is colored.
func (p *PdfTilingPattern) IsColored() bool {
	return p.PaintType == 1
}

// GetContentStream returns the pattern cell's content stream.
func (p *PdfTilingPattern) GetContentStream() ([]byte, error) {
	return p.content, nil
}

// Stream returns the underlying stream object, the identity key for
// recursion detection.
func (p *PdfTilingPattern) Stream() *core.PdfObjectStream {
	return p.stream
}

// PdfShadingPattern is a pattern that provides a smooth gradient color
// transition between points on a page.
type PdfShadingPattern struct {
	*PdfPattern
	Shading   *PdfShading
	Matrix    []float64
	ExtGState core.PdfObject
}

// newPdfPatternFromPdfObject loads a pattern from a stream (tiling) or
// dictionary (shading) object.
func newPdfPatternFromPdfObject(obj core.PdfObject) (*PdfPattern, error) {
	pattern := &PdfPattern{}

	var dict *core.PdfObjectDictionary
	var stream *core.PdfObjectStream
	if s, ok := core.GetStream(obj); ok {
		stream = s
		dict = s.PdfObjectDictionary
	} else if d, ok := core.GetDict(obj); ok {
		dict = d
	} else {
		common.Log.Debug("ERROR: Pattern not a dict/stream (%T)", obj)
		return nil, core.ErrTypeError
	}

	patternType, ok := core.GetIntVal(dict.Get("PatternType"))
	if !ok {
		common.Log.Debug("ERROR: PatternType missing")
		return nil, ErrRequiredAttributeMissing
	}
	if patternType != 1 && patternType != 2 {
		common.Log.Debug("ERROR: Invalid PatternType %d", patternType)
		return nil, errRangeError
	}
	pattern.PatternType = patternType

	matrix := []float64{1, 0, 0, 1, 0, 0}
	if matrixArray, ok := core.GetArray(dict.Get("Matrix")); ok && matrixArray.Len() == 6 {
		if mf, err := matrixArray.ToFloat64Array(); err == nil {
			matrix = mf
		}
	}

	switch patternType {
	case 1: // Tiling pattern.
		if stream == nil {
			common.Log.Debug("ERROR: Tiling pattern is not a stream")
			return nil, core.ErrTypeError
		}
		tiling := &PdfTilingPattern{PdfPattern: pattern, Matrix: matrix}

		paintType, ok := core.GetIntVal(dict.Get("PaintType"))
		if !ok {
			common.Log.Debug("ERROR: PaintType missing")
			return nil, ErrRequiredAttributeMissing
		}
		tiling.PaintType = paintType

		tilingType, ok := core.GetIntVal(dict.Get("TilingType"))
		if !ok {
			common.Log.Debug("ERROR: TilingType missing")
			return nil, ErrRequiredAttributeMissing
		}
		tiling.TilingType = tilingType

		bboxArray, ok := core.GetArray(dict.Get("BBox"))
		if !ok || bboxArray.Len() != 4 {
			common.Log.Debug("ERROR: BBox missing or invalid")
			return nil, ErrRequiredAttributeMissing
		}
		bf, err := bboxArray.ToFloat64Array()
		if err != nil {
			return nil, err
		}
		tiling.BBox = &PdfRectangle{Llx: bf[0], Lly: bf[1], Urx: bf[2], Ury: bf[3]}

		xStep, err := core.GetNumberAsFloat(dict.Get("XStep"))
		if err != nil {
			return nil, errors.New("xstep missing")
		}
		tiling.XStep = xStep
		yStep, err := core.GetNumberAsFloat(dict.Get("YStep"))
		if err != nil {
			return nil, errors.New("ystep missing")
		}
		tiling.YStep = yStep

		if resDict, ok := core.GetDict(dict.Get("Resources")); ok {
			resources, err := NewPdfPageResourcesFromDict(resDict)
			if err != nil {
				return nil, err
			}
			tiling.Resources = resources
		}

		tiling.content = stream.Stream
		tiling.stream = stream
		pattern.context = tiling
	case 2: // Shading pattern.
		shadingPattern := &PdfShadingPattern{PdfPattern: pattern, Matrix: matrix}

		shading, err := newPdfShadingFromPdfObject(dict.Get("Shading"))
		if err != nil {
			common.Log.Debug("ERROR: loading pattern shading: %v", err)
			return nil, err
		}
		shadingPattern.Shading = shading
		shadingPattern.ExtGState = dict.Get("ExtGState")
		pattern.context = shadingPattern
	}

	return pattern, nil
}
