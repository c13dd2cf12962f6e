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

// PdfShading represents a parsed shading dictionary.
type PdfShading struct {
	ShadingType int
	ColorSpace  PdfColorspace
	Background  []float64
	BBox        *PdfRectangle
	AntiAlias   bool

	context interface{} // The sub shading type entry.
}

// GetContext returns the PdfShading context (the type specific fields).
func (s *PdfShading) GetContext() interface{} {
	return s.context
}

// PdfShadingType1 is a function-based shading: colors come from evaluating
// the function over the domain, optionally transformed by Matrix.
type PdfShadingType1 struct {
	*PdfShading
	Domain   []float64
	Matrix   []float64
	Function []PdfFunction
}

// PdfShadingType2 is an axial shading.
type PdfShadingType2 struct {
	*PdfShading
	Coords   []float64 // x0 y0 x1 y1
	Domain   []float64
	Function []PdfFunction
	Extend   [2]bool
}

// PdfShadingType3 is a radial shading.
type PdfShadingType3 struct {
	*PdfShading
	Coords   []float64 // x0 y0 r0 x1 y1 r1
	Domain   []float64
	Function []PdfFunction
	Extend   [2]bool
}

// meshShadingCommon holds the bit packing parameters shared by the mesh
// shading types 4..7.
type meshShadingCommon struct {
	*PdfShading
	BitsPerCoordinate int
	BitsPerComponent  int
	BitsPerFlag       int
	Decode            []float64
	Function          []PdfFunction
	Data              []byte
}

// PdfShadingType4 is a free-form Gouraud-shaded triangle mesh.
type PdfShadingType4 struct {
	meshShadingCommon
}

// PdfShadingType5 is a lattice-form Gouraud-shaded triangle mesh.
type PdfShadingType5 struct {
	meshShadingCommon
	VerticesPerRow int
}

// PdfShadingType6 is a Coons patch mesh.
type PdfShadingType6 struct {
	meshShadingCommon
}

// PdfShadingType7 is a tensor-product patch mesh.
type PdfShadingType7 struct {
	meshShadingCommon
}

// NewPdfShadingFromPdfObject loads a shading from a dictionary or stream object.
func NewPdfShadingFromPdfObject(obj core.PdfObject) (*PdfShading, error) {
	return newPdfShadingFromPdfObject(obj)
}

func newPdfShadingFromPdfObject(obj core.PdfObject) (*PdfShading, error) {
	shading := &PdfShading{}

	var dict *core.PdfObjectDictionary
	var streamData []byte
	if stream, ok := core.GetStream(obj); ok {
		dict = stream.PdfObjectDictionary
		streamData = stream.Stream
	} else if d, ok := core.GetDict(obj); ok {
		dict = d
	} else {
		common.Log.Debug("ERROR: Shading not a dict/stream (%T)", obj)
		return nil, core.ErrTypeError
	}

	shadingType, ok := core.GetIntVal(dict.Get("ShadingType"))
	if !ok {
		common.Log.Debug("ERROR: ShadingType missing")
		return nil, ErrRequiredAttributeMissing
	}
	if shadingType < 1 || shadingType > 7 {
		return nil, errors.New("invalid shading type")
	}
	shading.ShadingType = shadingType

	csObj := dict.Get("ColorSpace")
	if csObj == nil {
		common.Log.Debug("ERROR: ColorSpace (Required) missing")
		return nil, ErrRequiredAttributeMissing
	}
	cs, err := NewPdfColorspaceFromPdfObject(csObj)
	if err != nil {
		common.Log.Debug("ERROR: loading shading colorspace: %v", err)
		return nil, err
	}
	shading.ColorSpace = cs

	if bgArray, ok := core.GetArray(dict.Get("Background")); ok {
		background, err := bgArray.ToFloat64Array()
		if err != nil {
			return nil, err
		}
		shading.Background = background
	}

	if bboxArray, ok := core.GetArray(dict.Get("BBox")); ok && bboxArray.Len() == 4 {
		bf, err := bboxArray.ToFloat64Array()
		if err != nil {
			return nil, err
		}
		shading.BBox = &PdfRectangle{Llx: bf[0], Lly: bf[1], Urx: bf[2], Ury: bf[3]}
	}

	if antiAlias, ok := core.GetBoolVal(dict.Get("AntiAlias")); ok {
		shading.AntiAlias = antiAlias
	}

	loadFunctions := func() ([]PdfFunction, error) {
		obj := dict.Get("Function")
		if obj == nil {
			return nil, nil
		}
		var functions []PdfFunction
		if arr, ok := core.GetArray(obj); ok {
			for _, el := range arr.Elements() {
				fn, err := newPdfFunctionFromPdfObject(el)
				if err != nil {
					return nil, err
				}
				functions = append(functions, fn)
			}
			return functions, nil
		}
		fn, err := newPdfFunctionFromPdfObject(obj)
		if err != nil {
			return nil, err
		}
		return []PdfFunction{fn}, nil
	}

	loadDomain := func() []float64 {
		if domainArray, ok := core.GetArray(dict.Get("Domain")); ok {
			if domain, err := domainArray.ToFloat64Array(); err == nil {
				return domain
			}
		}
		return []float64{0.0, 1.0}
	}

	loadExtend := func() [2]bool {
		extend := [2]bool{false, false}
		if extendArray, ok := core.GetArray(dict.Get("Extend")); ok && extendArray.Len() == 2 {
			if b, ok := core.GetBoolVal(extendArray.Get(0)); ok {
				extend[0] = b
			}
			if b, ok := core.GetBoolVal(extendArray.Get(1)); ok {
				extend[1] = b
			}
		}
		return extend
	}

	loadMeshCommon := func(needFlag bool) (meshShadingCommon, error) {
		mesh := meshShadingCommon{PdfShading: shading, Data: streamData}

		bpc, ok := core.GetIntVal(dict.Get("BitsPerCoordinate"))
		if !ok {
			return mesh, ErrRequiredAttributeMissing
		}
		mesh.BitsPerCoordinate = bpc

		bpcomp, ok := core.GetIntVal(dict.Get("BitsPerComponent"))
		if !ok {
			return mesh, ErrRequiredAttributeMissing
		}
		mesh.BitsPerComponent = bpcomp

		if needFlag {
			bpf, ok := core.GetIntVal(dict.Get("BitsPerFlag"))
			if !ok {
				return mesh, ErrRequiredAttributeMissing
			}
			mesh.BitsPerFlag = bpf
		}

		decodeArray, ok := core.GetArray(dict.Get("Decode"))
		if !ok {
			return mesh, ErrRequiredAttributeMissing
		}
		decode, err := decodeArray.ToFloat64Array()
		if err != nil {
			return mesh, err
		}
		mesh.Decode = decode

		functions, err := loadFunctions()
		if err != nil {
			return mesh, err
		}
		mesh.Function = functions

		return mesh, nil
	}

	switch shadingType {
	case 1:
		ctx := &PdfShadingType1{PdfShading: shading}
		ctx.Domain = []float64{0, 1, 0, 1}
		if domainArray, ok := core.GetArray(dict.Get("Domain")); ok {
			if domain, err := domainArray.ToFloat64Array(); err == nil && len(domain) == 4 {
				ctx.Domain = domain
			}
		}
		if matrixArray, ok := core.GetArray(dict.Get("Matrix")); ok && matrixArray.Len() == 6 {
			if matrix, err := matrixArray.ToFloat64Array(); err == nil {
				ctx.Matrix = matrix
			}
		}
		functions, err := loadFunctions()
		if err != nil {
			return nil, err
		}
		if functions == nil {
			return nil, ErrRequiredAttributeMissing
		}
		ctx.Function = functions
		shading.context = ctx
	case 2, 3:
		coordsArray, ok := core.GetArray(dict.Get("Coords"))
		if !ok {
			common.Log.Debug("ERROR: Coords (Required) missing")
			return nil, ErrRequiredAttributeMissing
		}
		coords, err := coordsArray.ToFloat64Array()
		if err != nil {
			return nil, err
		}
		wantLen := 4
		if shadingType == 3 {
			wantLen = 6
		}
		if len(coords) != wantLen {
			common.Log.Debug("ERROR: Coords length != %d (%d)", wantLen, len(coords))
			return nil, errRangeError
		}

		functions, err := loadFunctions()
		if err != nil {
			return nil, err
		}
		if functions == nil {
			return nil, ErrRequiredAttributeMissing
		}

		if shadingType == 2 {
			shading.context = &PdfShadingType2{
				PdfShading: shading,
				Coords:     coords,
				Domain:     loadDomain(),
				Function:   functions,
				Extend:     loadExtend(),
			}
		} else {
			shading.context = &PdfShadingType3{
				PdfShading: shading,
				Coords:     coords,
				Domain:     loadDomain(),
				Function:   functions,
				Extend:     loadExtend(),
			}
		}
	case 4:
		mesh, err := loadMeshCommon(true)
		if err != nil {
			return nil, err
		}
		shading.context = &PdfShadingType4{meshShadingCommon: mesh}
	case 5:
		mesh, err := loadMeshCommon(false)
		if err != nil {
			return nil, err
		}
		ctx := &PdfShadingType5{meshShadingCommon: mesh}
		vpr, ok := core.GetIntVal(dict.Get("VerticesPerRow"))
		if !ok || vpr < 2 {
			common.Log.Debug("ERROR: VerticesPerRow missing or invalid")
			return nil, ErrRequiredAttributeMissing
		}
		ctx.VerticesPerRow = vpr
		shading.context = ctx
	case 6:
		mesh, err := loadMeshCommon(true)
		if err != nil {
			return nil, err
		}
		shading.context = &PdfShadingType6{meshShadingCommon: mesh}
	case 7:
		mesh, err := loadMeshCommon(true)
		if err != nil {
			return nil, err
		}
		shading.context = &PdfShadingType7{meshShadingCommon: mesh}
	}

	return shading, nil
}
