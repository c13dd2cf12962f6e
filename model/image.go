/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package model

import (
	"github.com/pdfrast/pdfrast/common"
	"github.com/pdfrast/pdfrast/core"
)

// ImageType classifies an image by its innermost stream filter.
type ImageType int

// Image types derived from the filter chain.
const (
	ImageTypeRaw ImageType = iota
	ImageTypeJPEG
	ImageTypeJPEG2000
	ImageTypeCCITT
	ImageTypeJBIG2
)

// String returns the name of the image type.
func (t ImageType) String() string {
	switch t {
	case ImageTypeJPEG:
		return "JPEG"
	case ImageTypeJPEG2000:
		return "JPEG2000"
	case ImageTypeCCITT:
		return "CCITT"
	case ImageTypeJBIG2:
		return "JBIG2"
	default:
		return "Raw"
	}
}

// PdfImage holds the fields of an image XObject (or synthesized inline
// image) needed by the decoding and rendering pipeline.
type PdfImage struct {
	Width            int
	Height           int
	BitsPerComponent int
	ColorSpace       PdfColorspace

	// Data is the stream payload after the outer filter chain; image-owned
	// filters (DCT, CCITT, JPX, JBIG2) remain encoded here.
	Data []byte

	Decode      []float64
	Mask        core.PdfObject // Color key array or stencil mask stream.
	SMask       *PdfImage
	SMaskMatte  core.PdfObject
	DecodeParms *core.PdfObjectDictionary // First entry of /DecodeParms.
	Interpolate bool
	Intent      RenderingIntent
	ImageMask   bool
	Type        ImageType
	Filters     []string
}

// imageTypeFromFilters derives the image type from the innermost filter.
func imageTypeFromFilters(filters []string) ImageType {
	if len(filters) == 0 {
		return ImageTypeRaw
	}
	switch filters[len(filters)-1] {
	case "DCTDecode", "DCT":
		return ImageTypeJPEG
	case "JPXDecode":
		return ImageTypeJPEG2000
	case "CCITTFaxDecode", "CCF":
		return ImageTypeCCITT
	case "JBIG2Decode":
		return ImageTypeJBIG2
	default:
		return ImageTypeRaw
	}
}

// streamFilters returns the filter chain names of a stream dictionary.
func streamFilters(dict *core.PdfObjectDictionary) []string {
	var filters []string
	switch t := core.TraceToDirectObject(dict.Get("Filter")).(type) {
	case *core.PdfObjectName:
		filters = append(filters, string(*t))
	case *core.PdfObjectArray:
		for _, obj := range t.Elements() {
			if name, ok := core.GetNameVal(obj); ok {
				filters = append(filters, name)
			}
		}
	}
	return filters
}

// firstDecodeParms returns the first /DecodeParms entry of a stream.
func firstDecodeParms(dict *core.PdfObjectDictionary) *core.PdfObjectDictionary {
	obj := dict.Get("DecodeParms")
	if obj == nil {
		obj = dict.Get("DP")
	}
	switch t := core.TraceToDirectObject(obj).(type) {
	case *core.PdfObjectDictionary:
		return t
	case *core.PdfObjectArray:
		for _, el := range t.Elements() {
			if d, ok := core.GetDict(el); ok {
				return d
			}
		}
	}
	return nil
}

// NewPdfImageFromStream builds a PdfImage from an image XObject stream.
// `resources` resolves named color spaces and may be nil.
func NewPdfImageFromStream(stream *core.PdfObjectStream, resources *PdfPageResources) (*PdfImage, error) {
	dict := stream.PdfObjectDictionary
	img := &PdfImage{Data: stream.Stream}

	width, ok := core.GetIntVal(dict.Get("Width"))
	if !ok {
		return nil, ErrRequiredAttributeMissing
	}
	img.Width = width

	height, ok := core.GetIntVal(dict.Get("Height"))
	if !ok {
		return nil, ErrRequiredAttributeMissing
	}
	img.Height = height

	if imageMask, ok := core.GetBoolVal(dict.Get("ImageMask")); ok {
		img.ImageMask = imageMask
	}

	if bpc, ok := core.GetIntVal(dict.Get("BitsPerComponent")); ok {
		img.BitsPerComponent = bpc
	} else if img.ImageMask {
		img.BitsPerComponent = 1
	} else {
		common.Log.Debug("BitsPerComponent missing, assuming 8")
		img.BitsPerComponent = 8
	}

	if !img.ImageMask {
		csObj := dict.Get("ColorSpace")
		if csObj != nil {
			cs, err := resolveColorspace(csObj, resources)
			if err != nil {
				return nil, err
			}
			img.ColorSpace = cs
		} else {
			common.Log.Debug("ColorSpace missing, assuming DeviceGray")
			img.ColorSpace = NewPdfColorspaceDeviceGray()
		}
	}

	if decodeArray, ok := core.GetArray(dict.Get("Decode")); ok {
		decode, err := decodeArray.ToFloat64Array()
		if err != nil {
			return nil, err
		}
		img.Decode = decode
	}

	img.Mask = core.TraceToDirectObject(dict.Get("Mask"))

	if smaskStream, ok := core.GetStream(dict.Get("SMask")); ok {
		smask, err := NewPdfImageFromStream(smaskStream, resources)
		if err != nil {
			common.Log.Debug("ERROR: loading SMask image: %v", err)
		} else {
			img.SMask = smask
			img.SMaskMatte = smaskStream.PdfObjectDictionary.Get("Matte")
		}
	}

	img.DecodeParms = firstDecodeParms(dict)

	if interpolate, ok := core.GetBoolVal(dict.Get("Interpolate")); ok {
		img.Interpolate = interpolate
	}

	if riName, ok := core.GetName(dict.Get("Intent")); ok {
		img.Intent = NewRenderingIntentFromName(*riName)
	} else {
		img.Intent = RenderingIntentRelativeColorimetric
	}

	img.Filters = streamFilters(dict)
	img.Type = imageTypeFromFilters(img.Filters)

	return img, nil
}

// resolveColorspace loads a colorspace object, resolving names through the
// page resource dictionary.
func resolveColorspace(obj core.PdfObject, resources *PdfPageResources) (PdfColorspace, error) {
	if name, ok := core.GetName(obj); ok && resources != nil {
		if cs, found := resources.GetColorspaceByName(*name); found {
			return cs, nil
		}
	}
	return NewPdfColorspaceFromPdfObject(obj)
}

// NumComponents returns the color component count of the image's samples.
func (img *PdfImage) NumComponents() int {
	if img.ImageMask || img.ColorSpace == nil {
		return 1
	}
	return img.ColorSpace.GetNumComponents()
}

// DecodeOrDefault returns the /Decode array or the default for the image:
// [1 0] for image masks, the index range for indexed spaces, [0 1] per
// channel otherwise.
func (img *PdfImage) DecodeOrDefault() []float64 {
	if len(img.Decode) > 0 {
		return img.Decode
	}
	if img.ImageMask {
		return []float64{1, 0}
	}
	if _, ok := img.ColorSpace.(*PdfColorspaceSpecialIndexed); ok {
		maxVal := float64(uint32(1)<<uint(img.BitsPerComponent) - 1)
		return []float64{0, maxVal}
	}
	decode := make([]float64, 0, 2*img.NumComponents())
	for i := 0; i < img.NumComponents(); i++ {
		decode = append(decode, 0, 1)
	}
	return decode
}
