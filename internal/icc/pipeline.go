/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package icc

import (
	"encoding/binary"
)

// stage is a single step of an A2B pipeline.
type stage interface {
	apply(in []float64) []float64
}

// curveStage applies one curve per channel.
type curveStage struct {
	curves []*Curve
}

func (s curveStage) apply(in []float64) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		if i < len(s.curves) {
			out[i] = s.curves[i].Evaluate(v)
		} else {
			out[i] = v
		}
	}
	return out
}

// matrixStage applies a 3x3 matrix plus an optional offset vector. It is
// skipped unless the stage input has exactly three channels.
type matrixStage struct {
	m      [3][3]float64
	offset [3]float64
}

func (s matrixStage) apply(in []float64) []float64 {
	if len(in) != 3 {
		return in
	}
	out := make([]float64, 3)
	for i := 0; i < 3; i++ {
		out[i] = s.m[i][0]*in[0] + s.m[i][1]*in[1] + s.m[i][2]*in[2] + s.offset[i]
	}
	return out
}

// clutStage interpolates through a CLUT.
type clutStage struct {
	clut *CLUT
}

func (s clutStage) apply(in []float64) []float64 {
	return s.clut.Evaluate(in)
}

// Pipeline is an ordered list of stages evaluating a device color to PCS.
type Pipeline struct {
	InChannels  int
	OutChannels int
	stages      []stage
}

// Evaluate runs `in` through all stages. Inputs and outputs are in [0,1]
// nominal encoding; PCS decoding is up to the caller.
func (p *Pipeline) Evaluate(in []float64) []float64 {
	vals := in
	for _, s := range p.stages {
		vals = s.apply(vals)
	}
	return vals
}

// parsePipeline dispatches on the tag type of an A2B transform element.
func parsePipeline(data []byte) (*Pipeline, error) {
	if len(data) < 4 {
		return nil, ErrInvalidProfile
	}
	switch string(data[0:4]) {
	case "mft1":
		return parseLut(data, 1)
	case "mft2":
		return parseLut(data, 2)
	case "mAB ":
		return parseMab(data)
	}
	return nil, ErrInvalidProfile
}

// parseLut parses the legacy lut8/lut16 layout: input curves, a 3x3 matrix
// (used only for 3 input channels), a uniform CLUT and output curves.
func parseLut(data []byte, byteWidth int) (*Pipeline, error) {
	if len(data) < 48 {
		return nil, ErrInvalidProfile
	}
	inCh := int(data[8])
	outCh := int(data[9])
	gridPoints := int(data[10])
	if inCh < 1 || inCh > 15 || outCh < 1 || outCh > 15 || gridPoints < 2 {
		return nil, ErrInvalidProfile
	}

	var m [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m[i][j] = s15Fixed16(data[12+4*(3*i+j):])
		}
	}

	tableEntries := 256
	pos := 48
	if byteWidth == 2 {
		if len(data) < 52 {
			return nil, ErrInvalidProfile
		}
		tableEntries = int(binary.BigEndian.Uint16(data[48:]))
		outEntries := int(binary.BigEndian.Uint16(data[50:]))
		pos = 52
		if tableEntries < 2 || outEntries < 2 {
			return nil, ErrInvalidProfile
		}
		return buildLutPipeline(data, pos, inCh, outCh, gridPoints, tableEntries, outEntries, byteWidth, m)
	}
	return buildLutPipeline(data, pos, inCh, outCh, gridPoints, tableEntries, tableEntries, byteWidth, m)
}

func lutSample(data []byte, pos, byteWidth int) float64 {
	if byteWidth == 1 {
		return float64(data[pos]) / 255.0
	}
	return float64(binary.BigEndian.Uint16(data[pos:])) / 65535.0
}

func buildLutPipeline(data []byte, pos, inCh, outCh, gridPoints, inEntries, outEntries, byteWidth int, m [3][3]float64) (*Pipeline, error) {
	clutSize := outCh
	gp := make([]int, inCh)
	for i := range gp {
		gp[i] = gridPoints
		clutSize *= gridPoints
	}

	need := pos + byteWidth*(inCh*inEntries+clutSize+outCh*outEntries)
	if len(data) < need {
		return nil, ErrInvalidProfile
	}

	readCurves := func(count, entries int) []*Curve {
		curves := make([]*Curve, count)
		for i := 0; i < count; i++ {
			samples := make([]float64, entries)
			for j := 0; j < entries; j++ {
				samples[j] = lutSample(data, pos, byteWidth)
				pos += byteWidth
			}
			curves[i] = NewSampledCurve(samples)
		}
		return curves
	}

	inCurves := readCurves(inCh, inEntries)

	clut := &CLUT{
		GridPoints:  gp,
		InChannels:  inCh,
		OutChannels: outCh,
		Samples:     make([]float64, clutSize),
	}
	for i := 0; i < clutSize; i++ {
		clut.Samples[i] = lutSample(data, pos, byteWidth)
		pos += byteWidth
	}

	outCurves := readCurves(outCh, outEntries)

	pipe := &Pipeline{InChannels: inCh, OutChannels: outCh}
	pipe.stages = append(pipe.stages, curveStage{curves: inCurves})
	if inCh == 3 && !isIdentityMatrix(m) {
		pipe.stages = append(pipe.stages, matrixStage{m: m})
	}
	pipe.stages = append(pipe.stages, clutStage{clut: clut})
	pipe.stages = append(pipe.stages, curveStage{curves: outCurves})
	return pipe, nil
}

func isIdentityMatrix(m [3][3]float64) bool {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			if m[i][j] != want {
				return false
			}
		}
	}
	return true
}

// parseMab parses the multi-process 'mAB ' layout: A curves, CLUT, M curves,
// matrix with offset, B curves. Missing elements are skipped.
func parseMab(data []byte) (*Pipeline, error) {
	if len(data) < 32 {
		return nil, ErrInvalidProfile
	}
	inCh := int(data[8])
	outCh := int(data[9])
	if inCh < 1 || inCh > 15 || outCh < 1 || outCh > 15 {
		return nil, ErrInvalidProfile
	}

	bCurveOffset := int(binary.BigEndian.Uint32(data[12:]))
	matrixOffset := int(binary.BigEndian.Uint32(data[16:]))
	mCurveOffset := int(binary.BigEndian.Uint32(data[20:]))
	clutOffset := int(binary.BigEndian.Uint32(data[24:]))
	aCurveOffset := int(binary.BigEndian.Uint32(data[28:]))

	pipe := &Pipeline{InChannels: inCh, OutChannels: outCh}

	if aCurveOffset > 0 {
		curves, err := parseCurveSet(data, aCurveOffset, inCh)
		if err != nil {
			return nil, err
		}
		pipe.stages = append(pipe.stages, curveStage{curves: curves})
	}
	if clutOffset > 0 {
		clut, err := parseMabClut(data, clutOffset, inCh, outCh)
		if err != nil {
			return nil, err
		}
		pipe.stages = append(pipe.stages, clutStage{clut: clut})
	}
	if mCurveOffset > 0 {
		curves, err := parseCurveSet(data, mCurveOffset, outCh)
		if err != nil {
			return nil, err
		}
		pipe.stages = append(pipe.stages, curveStage{curves: curves})
	}
	if matrixOffset > 0 {
		if len(data) < matrixOffset+48 {
			return nil, ErrInvalidProfile
		}
		var st matrixStage
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				st.m[i][j] = s15Fixed16(data[matrixOffset+4*(3*i+j):])
			}
		}
		for i := 0; i < 3; i++ {
			st.offset[i] = s15Fixed16(data[matrixOffset+36+4*i:])
		}
		pipe.stages = append(pipe.stages, st)
	}
	if bCurveOffset > 0 {
		curves, err := parseCurveSet(data, bCurveOffset, outCh)
		if err != nil {
			return nil, err
		}
		pipe.stages = append(pipe.stages, curveStage{curves: curves})
	}
	return pipe, nil
}

// parseCurveSet reads `count` consecutive curv/para elements, each padded to
// a 4 byte boundary.
func parseCurveSet(data []byte, offset, count int) ([]*Curve, error) {
	curves := make([]*Curve, count)
	pos := offset
	for i := 0; i < count; i++ {
		if pos+12 > len(data) {
			return nil, ErrInvalidProfile
		}
		size := curveElementSize(data, pos)
		if size <= 0 || pos+size > len(data) {
			return nil, ErrInvalidProfile
		}
		curve, err := parseCurve(data[pos : pos+size])
		if err != nil {
			return nil, err
		}
		curves[i] = curve
		pos += size
		if rem := pos % 4; rem != 0 {
			pos += 4 - rem
		}
	}
	return curves, nil
}

func curveElementSize(data []byte, pos int) int {
	switch string(data[pos : pos+4]) {
	case "curv":
		n := int(binary.BigEndian.Uint32(data[pos+8:]))
		return 12 + 2*n
	case "para":
		funcType := int(binary.BigEndian.Uint16(data[pos+8:]))
		nParams := []int{1, 3, 4, 5, 7}
		if funcType < 0 || funcType > 4 {
			return -1
		}
		return 12 + 4*nParams[funcType]
	}
	return -1
}

// parseMabClut reads the mAB CLUT element: 16 grid point bytes, a precision
// byte, then packed samples.
func parseMabClut(data []byte, offset, inCh, outCh int) (*CLUT, error) {
	if len(data) < offset+20 {
		return nil, ErrInvalidProfile
	}
	gp := make([]int, inCh)
	size := outCh
	for i := 0; i < inCh; i++ {
		gp[i] = int(data[offset+i])
		if gp[i] < 2 {
			return nil, ErrInvalidProfile
		}
		size *= gp[i]
	}
	precision := int(data[offset+16])
	if precision != 1 && precision != 2 {
		return nil, ErrInvalidProfile
	}
	pos := offset + 20
	if len(data) < pos+size*precision {
		return nil, ErrInvalidProfile
	}

	clut := &CLUT{
		GridPoints:  gp,
		InChannels:  inCh,
		OutChannels: outCh,
		Samples:     make([]float64, size),
	}
	for i := 0; i < size; i++ {
		clut.Samples[i] = lutSample(data, pos, precision)
		pos += precision
	}
	return clut, nil
}
