/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package model

import (
	"fmt"
	"math"

	"github.com/pdfrast/pdfrast/common"
	"github.com/pdfrast/pdfrast/core"
	"github.com/pdfrast/pdfrast/internal/icc"
)

// PdfColorspace interface defines the common methods of a PDF colorspace.
// Converters are immutable after construction and shared via the document
// cache; ToSRGB is safe for concurrent use.
//
// Device based colorspace, specified by name
// - /DeviceGray
// - /DeviceRGB
// - /DeviceCMYK
//
// CIE based colorspace specified by [name, dictionary]
// - [/CalGray dict]
// - [/CalRGB dict]
// - [/Lab dict]
// - [/ICCBased dict]
//
// Special colorspaces
// - /Pattern
// - /Indexed
// - /Separation
// - /DeviceN
type PdfColorspace interface {
	// String returns the PdfColorspace's name.
	String() string
	// GetNumComponents returns the number of components in the PdfColorspace.
	GetNumComponents() int
	// DecodeArray returns the Decode array for the PdfColorSpace, i.e. the component value ranges.
	DecodeArray() []float64
	// ToSRGB converts component values to an sRGB color. Inputs outside the
	// valid domain are clamped per channel before conversion.
	ToSRGB(vals []float64, intent RenderingIntent) ([3]float64, error)
}

// NewPdfColorspaceFromPdfObject loads a PdfColorspace from a PdfObject. Returns an error if there is
// a failure in loading.
func NewPdfColorspaceFromPdfObject(obj core.PdfObject) (PdfColorspace, error) {
	var csName *core.PdfObjectName
	var csArray *core.PdfObjectArray

	switch t := core.TraceToDirectObject(obj).(type) {
	case *core.PdfObjectArray:
		csArray = t
	case *core.PdfObjectName:
		csName = t
	}

	// If specified by a name directly: Device colorspace or Pattern.
	if csName != nil {
		switch *csName {
		case "DeviceGray", "G":
			return NewPdfColorspaceDeviceGray(), nil
		case "DeviceRGB", "RGB":
			return NewPdfColorspaceDeviceRGB(), nil
		case "DeviceCMYK", "CMYK":
			return NewPdfColorspaceDeviceCMYK(), nil
		case "Pattern":
			return NewPdfColorspaceSpecialPattern(), nil
		case "Indexed", "I":
			// Only valid inside an inline image dictionary with parameters,
			// handled through the array form.
			return nil, errRangeError
		default:
			common.Log.Debug("ERROR: Unknown colorspace %s", *csName)
			return nil, errRangeError
		}
	}

	if csArray != nil && csArray.Len() > 0 {
		if name, found := core.GetName(csArray.Get(0)); found {
			switch name.String() {
			case "DeviceGray", "G":
				if csArray.Len() == 1 {
					return NewPdfColorspaceDeviceGray(), nil
				}
			case "DeviceRGB", "RGB":
				if csArray.Len() == 1 {
					return NewPdfColorspaceDeviceRGB(), nil
				}
			case "DeviceCMYK", "CMYK":
				if csArray.Len() == 1 {
					return NewPdfColorspaceDeviceCMYK(), nil
				}
			case "CalGray":
				return newPdfColorspaceCalGrayFromPdfObject(csArray)
			case "CalRGB":
				return newPdfColorspaceCalRGBFromPdfObject(csArray)
			case "Lab":
				return newPdfColorspaceLabFromPdfObject(csArray)
			case "ICCBased":
				return newPdfColorspaceICCBasedFromPdfObject(csArray)
			case "Pattern":
				return newPdfColorspaceSpecialPatternFromPdfObject(csArray)
			case "Indexed", "I":
				return newPdfColorspaceSpecialIndexedFromPdfObject(csArray)
			case "Separation":
				return newPdfColorspaceSpecialSeparationFromPdfObject(csArray)
			case "DeviceN":
				return newPdfColorspaceDeviceNFromPdfObject(csArray)
			default:
				common.Log.Debug("Array with invalid name: %s", *name)
			}
		}
	}

	common.Log.Debug("PDF File Error: Colorspace type error: %s", obj.String())
	return nil, ErrTypeCheck
}

// clampComponents clamps `vals` per channel to the given decode ranges.
func clampComponents(vals []float64, decode []float64) []float64 {
	out := make([]float64, len(vals))
	for i, v := range vals {
		lo, hi := 0.0, 1.0
		if 2*i+1 < len(decode) {
			lo, hi = decode[2*i], decode[2*i+1]
		}
		if lo > hi {
			lo, hi = hi, lo
		}
		out[i] = math.Max(lo, math.Min(hi, v))
	}
	return out
}

// PdfColorspaceDeviceGray represents a grayscale colorspace.
type PdfColorspaceDeviceGray struct{}

// NewPdfColorspaceDeviceGray returns a new grayscale colorspace.
func NewPdfColorspaceDeviceGray() *PdfColorspaceDeviceGray {
	return &PdfColorspaceDeviceGray{}
}

// GetNumComponents returns the number of color components of the colorspace device (1 for grayscale).
func (cs *PdfColorspaceDeviceGray) GetNumComponents() int {
	return 1
}

// DecodeArray returns the range of color component values in DeviceGray colorspace.
func (cs *PdfColorspaceDeviceGray) DecodeArray() []float64 {
	return []float64{0, 1.0}
}

// String returns the name of the colorspace (DeviceGray).
func (cs *PdfColorspaceDeviceGray) String() string {
	return "DeviceGray"
}

// ToSRGB replicates the gray level across the RGB channels.
func (cs *PdfColorspaceDeviceGray) ToSRGB(vals []float64, intent RenderingIntent) ([3]float64, error) {
	if len(vals) != 1 {
		return [3]float64{}, errRangeError
	}
	g := clampComponents(vals, cs.DecodeArray())[0]
	return [3]float64{g, g, g}, nil
}

// PdfColorspaceDeviceRGB represents an RGB colorspace.
type PdfColorspaceDeviceRGB struct{}

// NewPdfColorspaceDeviceRGB returns a new RGB colorspace object.
func NewPdfColorspaceDeviceRGB() *PdfColorspaceDeviceRGB {
	return &PdfColorspaceDeviceRGB{}
}

// GetNumComponents returns the number of color components (3 for RGB).
func (cs *PdfColorspaceDeviceRGB) GetNumComponents() int {
	return 3
}

// DecodeArray returns the range of color component values in DeviceRGB colorspace.
func (cs *PdfColorspaceDeviceRGB) DecodeArray() []float64 {
	return []float64{0.0, 1.0, 0.0, 1.0, 0.0, 1.0}
}

// String returns the name of the colorspace (DeviceRGB).
func (cs *PdfColorspaceDeviceRGB) String() string {
	return "DeviceRGB"
}

// ToSRGB passes RGB components through unchanged.
func (cs *PdfColorspaceDeviceRGB) ToSRGB(vals []float64, intent RenderingIntent) ([3]float64, error) {
	if len(vals) != 3 {
		return [3]float64{}, errRangeError
	}
	c := clampComponents(vals, cs.DecodeArray())
	return [3]float64{c[0], c[1], c[2]}, nil
}

// PdfColorspaceDeviceCMYK represents a CMYK colorspace.
type PdfColorspaceDeviceCMYK struct{}

// NewPdfColorspaceDeviceCMYK returns a new CMYK colorspace object.
func NewPdfColorspaceDeviceCMYK() *PdfColorspaceDeviceCMYK {
	return &PdfColorspaceDeviceCMYK{}
}

// GetNumComponents returns the number of color components (4 for CMYK).
func (cs *PdfColorspaceDeviceCMYK) GetNumComponents() int {
	return 4
}

// DecodeArray returns the range of color component values in DeviceCMYK colorspace.
func (cs *PdfColorspaceDeviceCMYK) DecodeArray() []float64 {
	return []float64{0.0, 1.0, 0.0, 1.0, 0.0, 1.0, 0.0, 1.0}
}

// String returns the name of the colorspace (DeviceCMYK).
func (cs *PdfColorspaceDeviceCMYK) String() string {
	return "DeviceCMYK"
}

// ToSRGB converts with the standard naive CMYK formula.
func (cs *PdfColorspaceDeviceCMYK) ToSRGB(vals []float64, intent RenderingIntent) ([3]float64, error) {
	if len(vals) != 4 {
		return [3]float64{}, errRangeError
	}
	c := clampComponents(vals, cs.DecodeArray())
	cc, m, y, k := c[0], c[1], c[2], c[3]
	return [3]float64{
		1.0 - math.Min(1.0, cc+k),
		1.0 - math.Min(1.0, m+k),
		1.0 - math.Min(1.0, y+k),
	}, nil
}

// PdfColorspaceCalGray represents CalGray color. A, gamma and the whitepoint
// define the mapping to XYZ.
type PdfColorspaceCalGray struct {
	WhitePoint []float64 // Required
	BlackPoint []float64
	Gamma      float64
}

// NewPdfColorspaceCalGray returns a new CalGray colorspace object.
func NewPdfColorspaceCalGray() *PdfColorspaceCalGray {
	cs := &PdfColorspaceCalGray{}

	// Set optional parameters to default values.
	cs.BlackPoint = []float64{0.0, 0.0, 0.0}
	cs.Gamma = 1

	return cs
}

// GetNumComponents returns the number of color components (1 for CalGray).
func (cs *PdfColorspaceCalGray) GetNumComponents() int {
	return 1
}

// DecodeArray returns the range of color component values in CalGray colorspace.
func (cs *PdfColorspaceCalGray) DecodeArray() []float64 {
	return []float64{0.0, 1.0}
}

// String returns the name of the colorspace (CalGray).
func (cs *PdfColorspaceCalGray) String() string {
	return "CalGray"
}

func newPdfColorspaceCalGrayFromPdfObject(csArray *core.PdfObjectArray) (*PdfColorspaceCalGray, error) {
	cs := NewPdfColorspaceCalGray()

	if csArray.Len() != 2 {
		return nil, fmt.Errorf("invalid CalGray colorspace")
	}
	dict, ok := core.GetDict(csArray.Get(1))
	if !ok {
		return nil, fmt.Errorf("CalGray dict not found")
	}

	// WhitePoint (Required): [Xw, Yw, Zw]
	wpArray, ok := core.GetArray(dict.Get("WhitePoint"))
	if !ok {
		return nil, fmt.Errorf("CalGray: Invalid WhitePoint")
	}
	if wpArray.Len() != 3 {
		return nil, fmt.Errorf("CalGray: Invalid WhitePoint array")
	}
	whitePoints, err := wpArray.ToFloat64Array()
	if err != nil {
		return nil, err
	}
	cs.WhitePoint = whitePoints

	// BlackPoint (Optional)
	if bpArray, ok := core.GetArray(dict.Get("BlackPoint")); ok && bpArray.Len() == 3 {
		blackPoints, err := bpArray.ToFloat64Array()
		if err != nil {
			return nil, err
		}
		cs.BlackPoint = blackPoints
	}

	// Gamma (Optional)
	if gamma, err := core.GetNumberAsFloat(dict.Get("Gamma")); err == nil {
		cs.Gamma = gamma
	}

	return cs, nil
}

// ToSRGB applies the gamma, scales the whitepoint XYZ and converts to sRGB.
func (cs *PdfColorspaceCalGray) ToSRGB(vals []float64, intent RenderingIntent) ([3]float64, error) {
	if len(vals) != 1 {
		return [3]float64{}, errRangeError
	}
	a := clampComponents(vals, cs.DecodeArray())[0]

	ag := math.Pow(a, cs.Gamma)
	xyz := [3]float64{cs.WhitePoint[0] * ag, cs.WhitePoint[1] * ag, cs.WhitePoint[2] * ag}
	return compandXYZ(xyz), nil
}

// PdfColorspaceCalRGB stores A, B, C components with per channel gamma and a
// 3x3 matrix mapping to XYZ.
type PdfColorspaceCalRGB struct {
	WhitePoint []float64
	BlackPoint []float64
	Gamma      []float64
	Matrix     []float64 // [XA YA ZA XB YB ZB XC YC ZC]; default: identity matrix
}

// NewPdfColorspaceCalRGB returns a new CalRGB colorspace object.
func NewPdfColorspaceCalRGB() *PdfColorspaceCalRGB {
	cs := &PdfColorspaceCalRGB{}

	// Set optional parameters to default values.
	cs.BlackPoint = []float64{0.0, 0.0, 0.0}
	cs.Gamma = []float64{1.0, 1.0, 1.0}
	cs.Matrix = []float64{1, 0, 0, 0, 1, 0, 0, 0, 1} // Identity matrix
	return cs
}

// GetNumComponents returns the number of color components (3 for CalRGB).
func (cs *PdfColorspaceCalRGB) GetNumComponents() int {
	return 3
}

// DecodeArray returns the range of color component values in CalRGB colorspace.
func (cs *PdfColorspaceCalRGB) DecodeArray() []float64 {
	return []float64{0.0, 1.0, 0.0, 1.0, 0.0, 1.0}
}

// String returns the name of the colorspace (CalRGB).
func (cs *PdfColorspaceCalRGB) String() string {
	return "CalRGB"
}

func newPdfColorspaceCalRGBFromPdfObject(csArray *core.PdfObjectArray) (*PdfColorspaceCalRGB, error) {
	cs := NewPdfColorspaceCalRGB()

	if csArray.Len() != 2 {
		return nil, fmt.Errorf("invalid CalRGB colorspace")
	}
	dict, ok := core.GetDict(csArray.Get(1))
	if !ok {
		return nil, fmt.Errorf("CalRGB dict not found")
	}

	wpArray, ok := core.GetArray(dict.Get("WhitePoint"))
	if !ok || wpArray.Len() != 3 {
		return nil, fmt.Errorf("CalRGB: Invalid WhitePoint")
	}
	whitePoints, err := wpArray.ToFloat64Array()
	if err != nil {
		return nil, err
	}
	cs.WhitePoint = whitePoints

	if bpArray, ok := core.GetArray(dict.Get("BlackPoint")); ok && bpArray.Len() == 3 {
		blackPoints, err := bpArray.ToFloat64Array()
		if err != nil {
			return nil, err
		}
		cs.BlackPoint = blackPoints
	}

	if gammaArray, ok := core.GetArray(dict.Get("Gamma")); ok && gammaArray.Len() == 3 {
		gamma, err := gammaArray.ToFloat64Array()
		if err != nil {
			return nil, err
		}
		cs.Gamma = gamma
	}

	if matrixArray, ok := core.GetArray(dict.Get("Matrix")); ok && matrixArray.Len() == 9 {
		matrix, err := matrixArray.ToFloat64Array()
		if err != nil {
			return nil, err
		}
		cs.Matrix = matrix
	}

	return cs, nil
}

// ToSRGB applies the per channel gammas, the matrix to XYZ and converts to sRGB.
func (cs *PdfColorspaceCalRGB) ToSRGB(vals []float64, intent RenderingIntent) ([3]float64, error) {
	if len(vals) != 3 {
		return [3]float64{}, errRangeError
	}
	c := clampComponents(vals, cs.DecodeArray())

	a := math.Pow(c[0], cs.Gamma[0])
	b := math.Pow(c[1], cs.Gamma[1])
	cc := math.Pow(c[2], cs.Gamma[2])

	// Matrix columns are per component XYZ contributions.
	xyz := [3]float64{
		cs.Matrix[0]*a + cs.Matrix[3]*b + cs.Matrix[6]*cc,
		cs.Matrix[1]*a + cs.Matrix[4]*b + cs.Matrix[7]*cc,
		cs.Matrix[2]*a + cs.Matrix[5]*b + cs.Matrix[8]*cc,
	}
	return compandXYZ(xyz), nil
}

// PdfColorspaceLab is a L*, a*, b* 3 component colorspace.
type PdfColorspaceLab struct {
	WhitePoint []float64 // Required.
	BlackPoint []float64
	Range      []float64 // [amin amax bmin bmax]
}

// NewPdfColorspaceLab returns a new Lab colorspace object.
func NewPdfColorspaceLab() *PdfColorspaceLab {
	cs := &PdfColorspaceLab{}

	// Set optional parameters to default values.
	cs.BlackPoint = []float64{0.0, 0.0, 0.0}
	cs.Range = []float64{-100, 100, -100, 100}

	return cs
}

// GetNumComponents returns the number of color components (3 for Lab).
func (cs *PdfColorspaceLab) GetNumComponents() int {
	return 3
}

// DecodeArray returns the range of color component values in the Lab colorspace.
func (cs *PdfColorspaceLab) DecodeArray() []float64 {
	// Range for L
	decode := []float64{0, 100}

	// Range for A,B specified by range or default
	if cs.Range != nil && len(cs.Range) == 4 {
		decode = append(decode, cs.Range...)
	} else {
		decode = append(decode, -100, 100, -100, 100)
	}

	return decode
}

// String returns the name of the colorspace (Lab).
func (cs *PdfColorspaceLab) String() string {
	return "Lab"
}

func newPdfColorspaceLabFromPdfObject(csArray *core.PdfObjectArray) (*PdfColorspaceLab, error) {
	cs := NewPdfColorspaceLab()

	if csArray.Len() != 2 {
		return nil, fmt.Errorf("invalid Lab colorspace")
	}
	dict, ok := core.GetDict(csArray.Get(1))
	if !ok {
		return nil, fmt.Errorf("colorspace dictionary missing or invalid")
	}

	wpArray, ok := core.GetArray(dict.Get("WhitePoint"))
	if !ok || wpArray.Len() != 3 {
		return nil, fmt.Errorf("Lab: Invalid WhitePoint")
	}
	whitePoints, err := wpArray.ToFloat64Array()
	if err != nil {
		return nil, err
	}
	cs.WhitePoint = whitePoints

	if bpArray, ok := core.GetArray(dict.Get("BlackPoint")); ok && bpArray.Len() == 3 {
		blackPoints, err := bpArray.ToFloat64Array()
		if err != nil {
			return nil, err
		}
		cs.BlackPoint = blackPoints
	}

	if rangeArray, ok := core.GetArray(dict.Get("Range")); ok && rangeArray.Len() == 4 {
		rang, err := rangeArray.ToFloat64Array()
		if err != nil {
			return nil, err
		}
		cs.Range = rang
	}

	return cs, nil
}

// ToSRGB converts Lab (D50 referenced) through XYZ to sRGB.
func (cs *PdfColorspaceLab) ToSRGB(vals []float64, intent RenderingIntent) ([3]float64, error) {
	if len(vals) != 3 {
		return [3]float64{}, errRangeError
	}
	c := clampComponents(vals, cs.DecodeArray())

	wp := icc.WhitePointD50
	if len(cs.WhitePoint) == 3 {
		wp = [3]float64{cs.WhitePoint[0], cs.WhitePoint[1], cs.WhitePoint[2]}
	}
	xyz := icc.LabToXYZ(c[0], c[1], c[2], wp)
	return compandXYZ(xyz), nil
}

// PdfColorspaceICCBased holds an ICC profile stream. The profile is parsed
// once; if parsing fails conversion falls back to the alternate colorspace.
type PdfColorspaceICCBased struct {
	N         int // Number of color components (Required). Can be 1,3 or 4.
	Alternate PdfColorspace
	Range     []float64
	Metadata  *core.PdfObjectStream
	Data      []byte

	profile *icc.Profile
}

// GetNumComponents returns the number of color components.
func (cs *PdfColorspaceICCBased) GetNumComponents() int {
	return cs.N
}

// DecodeArray returns the range of color component values.
func (cs *PdfColorspaceICCBased) DecodeArray() []float64 {
	if len(cs.Range) == 2*cs.N {
		return cs.Range
	}
	decode := make([]float64, 0, 2*cs.N)
	for i := 0; i < cs.N; i++ {
		decode = append(decode, 0.0, 1.0)
	}
	return decode
}

// String returns the name of the colorspace (ICCBased).
func (cs *PdfColorspaceICCBased) String() string {
	return "ICCBased"
}

// NewPdfColorspaceICCBasedFromProfileData builds an ICCBased converter from
// raw profile bytes, as used for ICC profiles embedded in JPEG streams.
func NewPdfColorspaceICCBasedFromProfileData(data []byte) (*PdfColorspaceICCBased, error) {
	profile, err := icc.ParseProfile(data)
	if err != nil {
		return nil, err
	}
	cs := &PdfColorspaceICCBased{
		N:       profile.NumInputComponents(),
		Data:    data,
		profile: profile,
	}
	return cs, nil
}

func newPdfColorspaceICCBasedFromPdfObject(csArray *core.PdfObjectArray) (*PdfColorspaceICCBased, error) {
	if csArray.Len() != 2 {
		return nil, fmt.Errorf("invalid ICCBased colorspace")
	}
	cs := &PdfColorspaceICCBased{}

	stream, ok := core.GetStream(csArray.Get(1))
	if !ok {
		common.Log.Debug("ICCBased not pointing to stream: %T", csArray.Get(1))
		return nil, fmt.Errorf("ICCBased colorspace: Invalid stream object")
	}
	dict := stream.PdfObjectDictionary

	n, ok := core.GetIntVal(dict.Get("N"))
	if !ok {
		return nil, fmt.Errorf("ICCBased missing N")
	}
	if n != 1 && n != 3 && n != 4 {
		return nil, fmt.Errorf("ICCBased colorspace invalid N (not 1,3,4)")
	}
	cs.N = n

	if obj := dict.Get("Alternate"); obj != nil {
		alt, err := NewPdfColorspaceFromPdfObject(obj)
		if err != nil {
			common.Log.Debug("ERROR: Failed loading ICC Alternate: %v", err)
		} else {
			cs.Alternate = alt
		}
	}
	if rangeArray, ok := core.GetArray(dict.Get("Range")); ok {
		rang, err := rangeArray.ToFloat64Array()
		if err == nil {
			cs.Range = rang
		}
	}
	if metadata, ok := core.GetStream(dict.Get("Metadata")); ok {
		cs.Metadata = metadata
	}

	cs.Data = stream.Stream
	profile, err := icc.ParseProfile(cs.Data)
	if err != nil {
		common.Log.Debug("ICC profile parse failed, using alternate: %v", err)
	} else if profile.NumInputComponents() != cs.N {
		common.Log.Debug("ICC profile component count %d != N %d, using alternate",
			profile.NumInputComponents(), cs.N)
	} else {
		cs.profile = profile
	}

	return cs, nil
}

// alternateOrDevice returns the declared alternate or the device space
// matching N.
func (cs *PdfColorspaceICCBased) alternateOrDevice() PdfColorspace {
	if cs.Alternate != nil {
		return cs.Alternate
	}
	switch cs.N {
	case 1:
		return NewPdfColorspaceDeviceGray()
	case 4:
		return NewPdfColorspaceDeviceCMYK()
	default:
		return NewPdfColorspaceDeviceRGB()
	}
}

// ToSRGB converts through the ICC profile when usable, and through the
// alternate colorspace otherwise.
func (cs *PdfColorspaceICCBased) ToSRGB(vals []float64, intent RenderingIntent) ([3]float64, error) {
	if len(vals) != cs.N {
		return [3]float64{}, errRangeError
	}
	if cs.profile == nil {
		return cs.alternateOrDevice().ToSRGB(vals, intent)
	}
	c := clampComponents(vals, cs.DecodeArray())

	profile := cs.profile
	if pipe := profile.PipelineForIntent(iccIntent(intent)); pipe != nil {
		out := pipe.Evaluate(c)
		var xyz [3]float64
		if profile.PCS == "Lab " {
			lab := icc.DecodePCSLab(out)
			if profile.HasBlackPoint {
				lab[0] = icc.CompensateBlackPoint(lab[0], profile.BlackPoint)
			}
			xyz = icc.LabToXYZ(lab[0], lab[1], lab[2], icc.WhitePointD50)
		} else {
			xyz = icc.DecodePCSXYZ(out)
		}
		return compandXYZ(xyz), nil
	}

	// Matrix/TRC profiles.
	if cs.N == 3 && profile.Matrix != nil {
		r := profile.RedTRC.Evaluate(c[0])
		g := profile.GreenTRC.Evaluate(c[1])
		b := profile.BlueTRC.Evaluate(c[2])
		xyz := icc.MulMatrixVec(*profile.Matrix, [3]float64{r, g, b})
		return compandXYZ(xyz), nil
	}
	if cs.N == 1 && profile.GrayTRC != nil {
		y := profile.GrayTRC.Evaluate(c[0])
		xyz := [3]float64{
			icc.WhitePointD50[0] * y,
			icc.WhitePointD50[1] * y,
			icc.WhitePointD50[2] * y,
		}
		return compandXYZ(xyz), nil
	}

	common.Log.Debug("ICC profile has no usable transform, using alternate")
	return cs.alternateOrDevice().ToSRGB(vals, intent)
}

// iccIntent maps the model intent to the ICC one.
func iccIntent(intent RenderingIntent) icc.RenderingIntent {
	switch intent {
	case RenderingIntentPerceptual:
		return icc.IntentPerceptual
	case RenderingIntentSaturation:
		return icc.IntentSaturation
	case RenderingIntentAbsoluteColorimetric:
		return icc.IntentAbsoluteColorimetric
	default:
		return icc.IntentRelativeColorimetric
	}
}

// compandXYZ converts a PCS XYZ value to companded sRGB.
func compandXYZ(xyz [3]float64) [3]float64 {
	lin := icc.XYZD50ToSRGBLinear(xyz)
	return [3]float64{
		icc.SRGBCompand(lin[0]),
		icc.SRGBCompand(lin[1]),
		icc.SRGBCompand(lin[2]),
	}
}

// PdfColorspaceSpecialIndexed is an indexed color space is a lookup table,
// where the input element is an index to the lookup table and the output is
// a color defined in the lookup table in the Base colorspace.
// [/Indexed base hival lookup]
type PdfColorspaceSpecialIndexed struct {
	Base   PdfColorspace
	HiVal  int
	Lookup []byte
}

// NewPdfColorspaceSpecialIndexed returns a new Indexed color.
func NewPdfColorspaceSpecialIndexed() *PdfColorspaceSpecialIndexed {
	return &PdfColorspaceSpecialIndexed{HiVal: 255}
}

// GetNumComponents returns the number of input color components (1 for Indexed).
func (cs *PdfColorspaceSpecialIndexed) GetNumComponents() int {
	return 1
}

// DecodeArray returns the component range for the index.
func (cs *PdfColorspaceSpecialIndexed) DecodeArray() []float64 {
	return []float64{0, float64(cs.HiVal)}
}

// String returns the name of the colorspace (Indexed).
func (cs *PdfColorspaceSpecialIndexed) String() string {
	return "Indexed"
}

func newPdfColorspaceSpecialIndexedFromPdfObject(csArray *core.PdfObjectArray) (*PdfColorspaceSpecialIndexed, error) {
	cs := NewPdfColorspaceSpecialIndexed()

	if csArray.Len() != 4 {
		return nil, fmt.Errorf("invalid Indexed colorspace")
	}

	// Base colorspace.
	base, err := NewPdfColorspaceFromPdfObject(csArray.Get(1))
	if err != nil {
		return nil, err
	}
	if _, isIndexed := base.(*PdfColorspaceSpecialIndexed); isIndexed {
		return nil, fmt.Errorf("indexed base cannot be indexed")
	}
	cs.Base = base

	// HiVal.
	hival, ok := core.GetIntVal(csArray.Get(2))
	if !ok {
		return nil, fmt.Errorf("indexed hival not a number")
	}
	cs.HiVal = hival

	// Lookup table: stream or string.
	switch t := core.TraceToDirectObject(csArray.Get(3)).(type) {
	case *core.PdfObjectStream:
		cs.Lookup = t.Stream
	case *core.PdfObjectString:
		cs.Lookup = t.Bytes()
	default:
		common.Log.Debug("Error: Indexed lookup invalid: %T", t)
		return nil, fmt.Errorf("indexed lookup table invalid")
	}

	return cs, nil
}

// ToSRGB reads base components for the index from the lookup table and
// converts through the base colorspace.
func (cs *PdfColorspaceSpecialIndexed) ToSRGB(vals []float64, intent RenderingIntent) ([3]float64, error) {
	if len(vals) != 1 {
		return [3]float64{}, errRangeError
	}
	index := int(clampComponents(vals, cs.DecodeArray())[0])

	n := cs.Base.GetNumComponents()
	offset := index * n
	if offset+n > len(cs.Lookup) {
		common.Log.Debug("ERROR: Indexed lookup out of range: index %d", index)
		return [3]float64{}, errRangeError
	}

	baseDecode := cs.Base.DecodeArray()
	baseVals := make([]float64, n)
	for i := 0; i < n; i++ {
		lo, hi := 0.0, 1.0
		if 2*i+1 < len(baseDecode) {
			lo, hi = baseDecode[2*i], baseDecode[2*i+1]
		}
		baseVals[i] = lo + float64(cs.Lookup[offset+i])*(hi-lo)/255.0
	}
	return cs.Base.ToSRGB(baseVals, intent)
}

// PdfColorspaceSpecialSeparation is a Separation colorspace: a single tint
// component mapped through a tint transform function to an alternate space.
// [/Separation name alternateSpace tintTransform]
type PdfColorspaceSpecialSeparation struct {
	ColorantName   *core.PdfObjectName
	AlternateSpace PdfColorspace
	TintTransform  PdfFunction
}

// NewPdfColorspaceSpecialSeparation returns a new Separation color.
func NewPdfColorspaceSpecialSeparation() *PdfColorspaceSpecialSeparation {
	return &PdfColorspaceSpecialSeparation{}
}

// GetNumComponents returns the number of input color components (1 for Separation).
func (cs *PdfColorspaceSpecialSeparation) GetNumComponents() int {
	return 1
}

// DecodeArray returns the component range of the tint.
func (cs *PdfColorspaceSpecialSeparation) DecodeArray() []float64 {
	return []float64{0, 1.0}
}

// String returns the name of the colorspace (Separation).
func (cs *PdfColorspaceSpecialSeparation) String() string {
	return "Separation"
}

func newPdfColorspaceSpecialSeparationFromPdfObject(csArray *core.PdfObjectArray) (*PdfColorspaceSpecialSeparation, error) {
	cs := NewPdfColorspaceSpecialSeparation()

	if csArray.Len() != 4 {
		return nil, fmt.Errorf("invalid Separation colorspace")
	}

	name, ok := core.GetName(csArray.Get(1))
	if !ok {
		return nil, fmt.Errorf("separation name not a name object")
	}
	cs.ColorantName = name

	alternate, err := NewPdfColorspaceFromPdfObject(csArray.Get(2))
	if err != nil {
		return nil, err
	}
	cs.AlternateSpace = alternate

	fn, err := newPdfFunctionFromPdfObject(csArray.Get(3))
	if err != nil {
		return nil, err
	}
	cs.TintTransform = fn

	return cs, nil
}

// ToSRGB evaluates the tint transform and converts through the alternate colorspace.
func (cs *PdfColorspaceSpecialSeparation) ToSRGB(vals []float64, intent RenderingIntent) ([3]float64, error) {
	if len(vals) != 1 {
		return [3]float64{}, errRangeError
	}
	if cs.ColorantName != nil && *cs.ColorantName == "None" {
		// None separations paint nothing; treat as white.
		return [3]float64{1, 1, 1}, nil
	}

	alternate, err := cs.TintTransform.Evaluate(clampComponents(vals, cs.DecodeArray()))
	if err != nil {
		return [3]float64{}, err
	}
	if len(alternate) > cs.AlternateSpace.GetNumComponents() {
		alternate = alternate[:cs.AlternateSpace.GetNumComponents()]
	}
	return cs.AlternateSpace.ToSRGB(alternate, intent)
}

// PdfColorspaceDeviceN represents a DeviceN color space: N tint components
// mapped through a tint transform function to an alternate space.
// [/DeviceN names alternateSpace tintTransform (attributes)]
type PdfColorspaceDeviceN struct {
	ColorantNames  *core.PdfObjectArray
	AlternateSpace PdfColorspace
	TintTransform  PdfFunction
	Attributes     *core.PdfObjectDictionary
}

// NewPdfColorspaceDeviceN returns an initialized PdfColorspaceDeviceN.
func NewPdfColorspaceDeviceN() *PdfColorspaceDeviceN {
	return &PdfColorspaceDeviceN{}
}

// GetNumComponents returns the number of input color components.
func (cs *PdfColorspaceDeviceN) GetNumComponents() int {
	return cs.ColorantNames.Len()
}

// DecodeArray returns the component ranges of the tints.
func (cs *PdfColorspaceDeviceN) DecodeArray() []float64 {
	decode := []float64{}
	for i := 0; i < cs.GetNumComponents(); i++ {
		decode = append(decode, 0.0, 1.0)
	}
	return decode
}

// String returns the name of the colorspace (DeviceN).
func (cs *PdfColorspaceDeviceN) String() string {
	return "DeviceN"
}

func newPdfColorspaceDeviceNFromPdfObject(csArray *core.PdfObjectArray) (*PdfColorspaceDeviceN, error) {
	cs := NewPdfColorspaceDeviceN()

	if csArray.Len() != 4 && csArray.Len() != 5 {
		return nil, fmt.Errorf("invalid DeviceN colorspace")
	}

	names, ok := core.GetArray(csArray.Get(1))
	if !ok {
		return nil, fmt.Errorf("deviceN names not an array")
	}
	cs.ColorantNames = names

	alternate, err := NewPdfColorspaceFromPdfObject(csArray.Get(2))
	if err != nil {
		return nil, err
	}
	cs.AlternateSpace = alternate

	fn, err := newPdfFunctionFromPdfObject(csArray.Get(3))
	if err != nil {
		return nil, err
	}
	cs.TintTransform = fn

	if csArray.Len() == 5 {
		if attr, ok := core.GetDict(csArray.Get(4)); ok {
			cs.Attributes = attr
		}
	}

	return cs, nil
}

// ToSRGB evaluates the tint transform and converts through the alternate colorspace.
func (cs *PdfColorspaceDeviceN) ToSRGB(vals []float64, intent RenderingIntent) ([3]float64, error) {
	if len(vals) != cs.GetNumComponents() {
		return [3]float64{}, errRangeError
	}

	alternate, err := cs.TintTransform.Evaluate(clampComponents(vals, cs.DecodeArray()))
	if err != nil {
		return [3]float64{}, err
	}
	if len(alternate) > cs.AlternateSpace.GetNumComponents() {
		alternate = alternate[:cs.AlternateSpace.GetNumComponents()]
	}
	return cs.AlternateSpace.ToSRGB(alternate, intent)
}

// PdfColorspaceSpecialPattern is a Pattern colorspace. Color selection goes
// through SCN/scn with a pattern name; UnderlyingCS carries the base color
// space for uncolored tiling patterns.
type PdfColorspaceSpecialPattern struct {
	UnderlyingCS PdfColorspace
}

// NewPdfColorspaceSpecialPattern returns a new pattern color.
func NewPdfColorspaceSpecialPattern() *PdfColorspaceSpecialPattern {
	return &PdfColorspaceSpecialPattern{}
}

// GetNumComponents returns the number of components of the underlying
// colorspace, or zero for colored patterns.
func (cs *PdfColorspaceSpecialPattern) GetNumComponents() int {
	if cs.UnderlyingCS != nil {
		return cs.UnderlyingCS.GetNumComponents()
	}
	return 0
}

// DecodeArray returns an empty slice as patterns are not an image colorspace.
func (cs *PdfColorspaceSpecialPattern) DecodeArray() []float64 {
	return []float64{}
}

// String returns the name of the colorspace (Pattern).
func (cs *PdfColorspaceSpecialPattern) String() string {
	return "Pattern"
}

func newPdfColorspaceSpecialPatternFromPdfObject(csArray *core.PdfObjectArray) (*PdfColorspaceSpecialPattern, error) {
	cs := NewPdfColorspaceSpecialPattern()
	if csArray.Len() > 1 {
		base, err := NewPdfColorspaceFromPdfObject(csArray.Get(1))
		if err != nil {
			common.Log.Debug("ERROR: Invalid underlying pattern cs: %v", err)
			return nil, err
		}
		cs.UnderlyingCS = base
	}
	return cs, nil
}

// ToSRGB converts the base color of an uncolored tiling pattern; for colored
// patterns the paint comes from the pattern cell and this is an error.
func (cs *PdfColorspaceSpecialPattern) ToSRGB(vals []float64, intent RenderingIntent) ([3]float64, error) {
	if cs.UnderlyingCS == nil {
		return [3]float64{}, fmt.Errorf("pattern has no underlying colorspace")
	}
	return cs.UnderlyingCS.ToSRGB(vals, intent)
}
