/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package model

import (
	"errors"
	"math"

	"github.com/pdfrast/pdfrast/common"
	"github.com/pdfrast/pdfrast/core"
	"github.com/pdfrast/pdfrast/internal/sampling"
	"github.com/pdfrast/pdfrast/ps"
)

// PdfFunction interface represents the common methods of a function in PDF.
type PdfFunction interface {
	Evaluate([]float64) ([]float64, error)
}

// In PDF: A function object may be a dictionary or a stream, depending on the type of function.
// - Stream: Type 0, Type 4
// - Dictionary: Type 2, Type 3.

// newPdfFunctionFromPdfObject loads a PDF Function from a PdfObject (can be either stream or dictionary).
func newPdfFunctionFromPdfObject(obj core.PdfObject) (PdfFunction, error) {
	if stream, is := core.GetStream(obj); is {
		dict := stream.PdfObjectDictionary

		ftype, ok := core.GetIntVal(dict.Get("FunctionType"))
		if !ok {
			common.Log.Error("FunctionType number missing")
			return nil, errors.New("invalid parameter or missing")
		}

		switch ftype {
		case 0:
			return newPdfFunctionType0FromStream(stream)
		case 4:
			return newPdfFunctionType4FromStream(stream)
		}
		return nil, errors.New("invalid function type")
	}

	dict, is := core.GetDict(obj)
	if !is {
		common.Log.Debug("Function Type error: %#v", obj)
		return nil, errors.New("type error")
	}

	ftype, ok := core.GetIntVal(dict.Get("FunctionType"))
	if !ok {
		common.Log.Error("FunctionType number missing")
		return nil, errors.New("invalid parameter or missing")
	}

	switch ftype {
	case 2:
		return newPdfFunctionType2FromPdfObject(dict)
	case 3:
		return newPdfFunctionType3FromPdfObject(dict)
	}
	return nil, errors.New("invalid function type")
}

// Simple linear interpolation from the PDF manual.
func interpolate(x, xmin, xmax, ymin, ymax float64) float64 {
	if math.Abs(xmax-xmin) < 0.000001 {
		return ymin
	}

	y := ymin + (x-xmin)*(ymax-ymin)/(xmax-xmin)
	return y
}

// PdfFunctionType0 uses a sequence of sample values (contained in a stream) to provide an approximation
// for functions whose domains and ranges are bounded. The samples are organized as an m-dimensional
// table in which each entry has n components.
type PdfFunctionType0 struct {
	Domain []float64 // required; 2*m length; where m is the number of input values
	Range  []float64 // required; 2*n length; where n is the number of output values

	NumInputs  int
	NumOutputs int

	Size          []int
	BitsPerSample int
	Order         int // Values 1 or 3 (linear or cubic spline interpolation)
	Encode        []float64
	Decode        []float64

	rawData []byte
	data    []uint32
}

// newPdfFunctionType0FromStream constructs the PDF function object from a stream object.
func newPdfFunctionType0FromStream(stream *core.PdfObjectStream) (*PdfFunctionType0, error) {
	fun := &PdfFunctionType0{}

	dict := stream.PdfObjectDictionary

	// Domain
	array, has := core.GetArray(dict.Get("Domain"))
	if !has || array.Len()%2 != 0 {
		common.Log.Error("Domain invalid")
		return nil, errors.New("required attribute missing or invalid")
	}
	fun.NumInputs = array.Len() / 2
	domain, err := array.ToFloat64Array()
	if err != nil {
		return nil, err
	}
	fun.Domain = domain

	// Range
	array, has = core.GetArray(dict.Get("Range"))
	if !has || array.Len() < 0 || array.Len()%2 != 0 {
		common.Log.Error("Range invalid")
		return nil, errors.New("required attribute missing or invalid")
	}
	fun.NumOutputs = array.Len() / 2
	rang, err := array.ToFloat64Array()
	if err != nil {
		return nil, err
	}
	fun.Range = rang

	// Number of samples in each input dimension
	array, has = core.GetArray(dict.Get("Size"))
	if !has {
		common.Log.Error("Size not specified")
		return nil, errors.New("required attribute missing or invalid")
	}
	tablesize, err := array.ToIntegerArray()
	if err != nil {
		return nil, err
	}
	if len(tablesize) != fun.NumInputs {
		common.Log.Error("Table size not matching number of inputs")
		return nil, errors.New("range check")
	}
	fun.Size = tablesize

	// BitsPerSample
	bps, has := core.GetIntVal(dict.Get("BitsPerSample"))
	if !has {
		common.Log.Error("BitsPerSample not specified")
		return nil, errors.New("required attribute missing or invalid")
	}
	if bps != 1 && bps != 2 && bps != 4 && bps != 8 && bps != 12 && bps != 16 && bps != 24 && bps != 32 {
		common.Log.Error("Bits per sample outside range (%d)", bps)
		return nil, errors.New("range check")
	}
	fun.BitsPerSample = bps

	fun.Order = 1
	if order, has := core.GetIntVal(dict.Get("Order")); has {
		if order != 1 && order != 3 {
			common.Log.Error("Invalid order (%d)", order)
			return nil, errors.New("range check")
		}
		fun.Order = order
	}

	// Encode: is a 2*m array specifying the linear mapping of input values into the domain of the
	// function's sample table.
	if array, has := core.GetArray(dict.Get("Encode")); has {
		encode, err := array.ToFloat64Array()
		if err != nil {
			return nil, err
		}
		fun.Encode = encode
	}

	// Decode: maps the sample values to the range of values.
	if array, has := core.GetArray(dict.Get("Decode")); has {
		decode, err := array.ToFloat64Array()
		if err != nil {
			return nil, err
		}
		fun.Decode = decode
	}

	fun.rawData = stream.Stream
	fun.data = sampling.ResampleBytes(fun.rawData, fun.BitsPerSample)

	return fun, nil
}

// Evaluate runs the function on the passed in slice and returns the results.
func (f *PdfFunctionType0) Evaluate(x []float64) ([]float64, error) {
	if len(x) != f.NumInputs {
		common.Log.Error("Number of inputs not matching what is needed")
		return nil, errors.New("range check error")
	}

	if f.data == nil {
		// Process the samples first.
		f.data = sampling.ResampleBytes(f.rawData, f.BitsPerSample)
	}

	// Fall back on linear interpolation (Order 1) regardless of the declared
	// order; cubic splines are not required for rendering fidelity.
	indices := make([]int, f.NumInputs)
	fracs := make([]float64, f.NumInputs)
	encode := f.Encode
	for i := 0; i < f.NumInputs; i++ {
		xi := x[i]
		xip := math.Min(math.Max(xi, f.Domain[2*i]), f.Domain[2*i+1])

		encodeLo := 0.0
		encodeHi := float64(f.Size[i]) - 1
		if encode != nil && 2*i+1 < len(encode) {
			encodeLo = encode[2*i]
			encodeHi = encode[2*i+1]
		}

		pos := interpolate(xip, f.Domain[2*i], f.Domain[2*i+1], encodeLo, encodeHi)
		pos = math.Min(math.Max(pos, 0), float64(f.Size[i]-1))
		indices[i] = int(math.Floor(pos))
		if indices[i] > f.Size[i]-2 {
			indices[i] = f.Size[i] - 2
		}
		if indices[i] < 0 {
			indices[i] = 0
		}
		fracs[i] = pos - float64(indices[i])
	}

	// Multi-linear interpolation over the 2^m corners with strides flattened
	// innermost axis first.
	strides := make([]int, f.NumInputs)
	stride := 1
	for i := 0; i < f.NumInputs; i++ {
		strides[i] = stride
		stride *= f.Size[i]
	}

	maxVal := math.Pow(2, float64(f.BitsPerSample)) - 1
	out := make([]float64, f.NumOutputs)
	corners := 1 << uint(f.NumInputs)
	for corner := 0; corner < corners; corner++ {
		weight := 1.0
		offset := 0
		valid := true
		for d := 0; d < f.NumInputs; d++ {
			bit := (corner >> uint(d)) & 1
			idx := indices[d] + bit
			if idx >= f.Size[d] {
				valid = false
				break
			}
			if bit == 1 {
				weight *= fracs[d]
			} else {
				weight *= 1 - fracs[d]
			}
			offset += idx * strides[d]
		}
		if !valid || weight == 0 {
			continue
		}
		for j := 0; j < f.NumOutputs; j++ {
			pos := offset*f.NumOutputs + j
			if pos >= len(f.data) {
				return nil, errors.New("sample data missing")
			}
			out[j] += weight * float64(f.data[pos])
		}
	}

	// Decode to the output ranges.
	for j := 0; j < f.NumOutputs; j++ {
		decodeLo := f.Range[2*j]
		decodeHi := f.Range[2*j+1]
		if f.Decode != nil && 2*j+1 < len(f.Decode) {
			decodeLo = f.Decode[2*j]
			decodeHi = f.Decode[2*j+1]
		}
		out[j] = interpolate(out[j], 0, maxVal, decodeLo, decodeHi)
		out[j] = math.Min(math.Max(out[j], f.Range[2*j]), f.Range[2*j+1])
	}

	return out, nil
}

// PdfFunctionType2 defines an exponential interpolation of one input value and n
// output values:
//
//	f(x) = y_0, ..., y_(n-1)
//
// y_j = C0_j + x^N * (C1_j - C0_j); for 0 <= j < n
// When N=1 ; linear interpolation between C0 and C1.
type PdfFunctionType2 struct {
	Domain []float64
	Range  []float64

	C0 []float64
	C1 []float64
	N  float64
}

func newPdfFunctionType2FromPdfObject(dict *core.PdfObjectDictionary) (*PdfFunctionType2, error) {
	fun := &PdfFunctionType2{}

	// Domain
	array, has := core.GetArray(dict.Get("Domain"))
	if !has || array.Len() < 0 || array.Len()%2 != 0 {
		common.Log.Error("Domain invalid")
		return nil, errors.New("required attribute missing or invalid")
	}
	domain, err := array.ToFloat64Array()
	if err != nil {
		return nil, err
	}
	fun.Domain = domain

	// Range (optional)
	if array, has := core.GetArray(dict.Get("Range")); has {
		if array.Len() < 0 || array.Len()%2 != 0 {
			return nil, errors.New("invalid range")
		}
		rang, err := array.ToFloat64Array()
		if err != nil {
			return nil, err
		}
		fun.Range = rang
	}

	// C0 (optional)
	if array, has := core.GetArray(dict.Get("C0")); has {
		c0, err := array.ToFloat64Array()
		if err != nil {
			return nil, err
		}
		fun.C0 = c0
	}

	// C1 (optional)
	if array, has := core.GetArray(dict.Get("C1")); has {
		c1, err := array.ToFloat64Array()
		if err != nil {
			return nil, err
		}
		fun.C1 = c1
	}

	if len(fun.C0) != len(fun.C1) {
		common.Log.Error("C0 and C1 not matching")
		return nil, core.ErrRangeError
	}

	// Exponent.
	n, err := core.GetNumberAsFloat(dict.Get("N"))
	if err != nil {
		common.Log.Error("N missing or invalid, dict: %s", dict.String())
		return nil, err
	}
	fun.N = n

	return fun, nil
}

// Evaluate runs the function. Input is the single value [x].
func (f *PdfFunctionType2) Evaluate(x []float64) ([]float64, error) {
	if len(x) != 1 {
		common.Log.Error("Only one input allowed")
		return nil, errors.New("range check")
	}

	// Prepare.
	c0 := []float64{0.0}
	if f.C0 != nil {
		c0 = f.C0
	}
	c1 := []float64{1.0}
	if f.C1 != nil {
		c1 = f.C1
	}

	y := []float64{}

	// x clamped to the domain.
	xi := math.Min(math.Max(x[0], f.Domain[0]), f.Domain[1])
	for i := 0; i < len(c0); i++ {
		yi := c0[i] + math.Pow(xi, f.N)*(c1[i]-c0[i])
		y = append(y, yi)
	}

	return y, nil
}

// PdfFunctionType3 defines stitching of the subdomains of several 1-input functions to produce
// a single new 1-input function.
type PdfFunctionType3 struct {
	Domain []float64
	Range  []float64

	Functions []PdfFunction // k 1-input functions
	Bounds    []float64     // k-1 numbers; defines the intervals where each function applies
	Encode    []float64     // Array of 2k numbers..
}

func newPdfFunctionType3FromPdfObject(dict *core.PdfObjectDictionary) (*PdfFunctionType3, error) {
	fun := &PdfFunctionType3{}

	// Domain
	array, has := core.GetArray(dict.Get("Domain"))
	if !has || array.Len() != 2 {
		common.Log.Error("Domain invalid")
		return nil, errors.New("required attribute missing or invalid")
	}
	domain, err := array.ToFloat64Array()
	if err != nil {
		return nil, err
	}
	fun.Domain = domain

	// Range (optional)
	if array, has := core.GetArray(dict.Get("Range")); has {
		if array.Len() < 0 || array.Len()%2 != 0 {
			return nil, errors.New("invalid range")
		}
		rang, err := array.ToFloat64Array()
		if err != nil {
			return nil, err
		}
		fun.Range = rang
	}

	// Functions.
	array, has = core.GetArray(dict.Get("Functions"))
	if !has {
		common.Log.Error("Functions not specified")
		return nil, errors.New("required attribute missing or invalid")
	}
	for _, obj := range array.Elements() {
		subf, err := newPdfFunctionFromPdfObject(obj)
		if err != nil {
			return nil, err
		}
		fun.Functions = append(fun.Functions, subf)
	}

	// Bounds.
	array, has = core.GetArray(dict.Get("Bounds"))
	if !has {
		common.Log.Error("Bounds not specified")
		return nil, errors.New("required attribute missing or invalid")
	}
	bounds, err := array.ToFloat64Array()
	if err != nil {
		return nil, err
	}
	fun.Bounds = bounds
	if len(fun.Bounds) != len(fun.Functions)-1 {
		common.Log.Error("Bounds (%d) and num functions (%d) not matching", len(fun.Bounds), len(fun.Functions))
		return nil, errors.New("range check")
	}

	// Encode.
	array, has = core.GetArray(dict.Get("Encode"))
	if !has {
		common.Log.Error("Encode not specified")
		return nil, errors.New("required attribute missing or invalid")
	}
	encode, err := array.ToFloat64Array()
	if err != nil {
		return nil, err
	}
	fun.Encode = encode
	if len(fun.Encode) != 2*len(fun.Functions) {
		common.Log.Error("Len encode (%d) and num functions (%d) not matching up", len(fun.Encode), len(fun.Functions))
		return nil, errors.New("range check")
	}

	return fun, nil
}

// Evaluate runs the function. Input is the single value [x].
func (f *PdfFunctionType3) Evaluate(x []float64) ([]float64, error) {
	if len(x) != 1 {
		common.Log.Error("Only one input allowed")
		return nil, errors.New("range check")
	}

	xi := math.Min(math.Max(x[0], f.Domain[0]), f.Domain[1])

	// Determine the subdomain: function k applies where
	// bounds[k-1] <= x < bounds[k].
	k := len(f.Functions) - 1
	for i, b := range f.Bounds {
		if xi < b {
			k = i
			break
		}
	}

	lo := f.Domain[0]
	if k > 0 {
		lo = f.Bounds[k-1]
	}
	hi := f.Domain[1]
	if k < len(f.Bounds) {
		hi = f.Bounds[k]
	}

	encoded := interpolate(xi, lo, hi, f.Encode[2*k], f.Encode[2*k+1])
	return f.Functions[k].Evaluate([]float64{encoded})
}

// PdfFunctionType4 is a Postscript calculator functions.
type PdfFunctionType4 struct {
	Domain  []float64
	Range   []float64
	Program *ps.PSProgram

	executor *ps.PSExecutor
	rawData  []byte
}

// Evaluate runs the function. Input is [x1 x2 x3].
func (f *PdfFunctionType4) Evaluate(x []float64) ([]float64, error) {
	// A fresh executor per call keeps concurrent evaluations off a shared stack.
	executor := ps.NewPSExecutor(f.Program)

	var inputs []ps.PSObject
	for _, val := range x {
		inputs = append(inputs, ps.MakeReal(val))
	}

	outputs, err := executor.Execute(inputs)
	if err != nil {
		return nil, err
	}

	// After execution the outputs are on the stack [y1 ... yM].
	y, err := ps.PSObjectArrayToFloat64Array(outputs)
	if err != nil {
		return nil, err
	}

	// Clamp to the declared range.
	if f.Range != nil && 2*len(y) == len(f.Range) {
		for i := range y {
			y[i] = math.Min(math.Max(y[i], f.Range[2*i]), f.Range[2*i+1])
		}
	}

	return y, nil
}

// newPdfFunctionType4FromStream loads a type 4 function from a PDF stream object.
func newPdfFunctionType4FromStream(stream *core.PdfObjectStream) (*PdfFunctionType4, error) {
	fun := &PdfFunctionType4{}

	dict := stream.PdfObjectDictionary

	// Domain
	array, has := core.GetArray(dict.Get("Domain"))
	if !has || array.Len()%2 != 0 {
		common.Log.Error("Domain invalid")
		return nil, errors.New("required attribute missing or invalid")
	}
	domain, err := array.ToFloat64Array()
	if err != nil {
		return nil, err
	}
	fun.Domain = domain

	// Range (optional)
	if array, has := core.GetArray(dict.Get("Range")); has {
		if array.Len() < 0 || array.Len()%2 != 0 {
			return nil, errors.New("invalid range")
		}
		rang, err := array.ToFloat64Array()
		if err != nil {
			return nil, err
		}
		fun.Range = rang
	}

	// Program. Decode the program and parse the PS code.
	fun.rawData = stream.Stream
	psParser := ps.NewPSParser(fun.rawData)
	prog, err := psParser.Parse()
	if err != nil {
		return nil, err
	}
	fun.Program = prog

	return fun, nil
}
