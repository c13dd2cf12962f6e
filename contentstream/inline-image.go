/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package contentstream

import (
	"bytes"
	"fmt"

	"github.com/pdfrast/pdfrast/common"
	"github.com/pdfrast/pdfrast/core"
	"github.com/pdfrast/pdfrast/model"
)

// ContentStreamInlineImage is an inline image in a Content stream. Everything between the BI and EI operands.
// ContentStreamInlineImage implements the core.PdfObject interface since it is a custom object.
type ContentStreamInlineImage struct {
	BitsPerComponent core.PdfObject
	ColorSpace       core.PdfObject
	Decode           core.PdfObject
	DecodeParms      core.PdfObject
	Filter           core.PdfObject
	Height           core.PdfObject
	ImageMask        core.PdfObject
	Intent           core.PdfObject
	Interpolate      core.PdfObject
	Width            core.PdfObject
	stream           []byte
}

// String returns a string describing `img`.
func (img *ContentStreamInlineImage) String() string {
	s := fmt.Sprintf("InlineImage(len=%d)\n", len(img.stream))
	if img.BitsPerComponent != nil {
		s += "- BPC " + img.BitsPerComponent.WriteString() + "\n"
	}
	if img.ColorSpace != nil {
		s += "- CS " + img.ColorSpace.WriteString() + "\n"
	}
	if img.Filter != nil {
		s += "- F " + img.Filter.WriteString() + "\n"
	}
	if img.Width != nil {
		s += "- W " + img.Width.WriteString() + "\n"
	}
	if img.Height != nil {
		s += "- H " + img.Height.WriteString() + "\n"
	}
	return s
}

// WriteString outputs the object as it is to be written to file.
func (img *ContentStreamInlineImage) WriteString() string {
	var output bytes.Buffer

	s := ""
	if img.BitsPerComponent != nil {
		s += "/BPC " + img.BitsPerComponent.WriteString() + "\n"
	}
	if img.ColorSpace != nil {
		s += "/CS " + img.ColorSpace.WriteString() + "\n"
	}
	if img.Decode != nil {
		s += "/D " + img.Decode.WriteString() + "\n"
	}
	if img.DecodeParms != nil {
		s += "/DP " + img.DecodeParms.WriteString() + "\n"
	}
	if img.Filter != nil {
		s += "/F " + img.Filter.WriteString() + "\n"
	}
	if img.Height != nil {
		s += "/H " + img.Height.WriteString() + "\n"
	}
	if img.ImageMask != nil {
		s += "/IM " + img.ImageMask.WriteString() + "\n"
	}
	if img.Intent != nil {
		s += "/Intent " + img.Intent.WriteString() + "\n"
	}
	if img.Interpolate != nil {
		s += "/I " + img.Interpolate.WriteString() + "\n"
	}
	if img.Width != nil {
		s += "/W " + img.Width.WriteString() + "\n"
	}
	output.WriteString(s)

	output.WriteString("ID ")
	output.Write(img.stream)
	output.WriteString("\nEI\n")

	return output.String()
}

// expandFilterName expands the abbreviated inline image filter names.
func expandFilterName(name core.PdfObjectName) core.PdfObjectName {
	switch name {
	case "AHx":
		return "ASCIIHexDecode"
	case "A85":
		return "ASCII85Decode"
	case "LZW":
		return "LZWDecode"
	case "Fl":
		return "FlateDecode"
	case "RL":
		return "RunLengthDecode"
	case "CCF":
		return "CCITTFaxDecode"
	case "DCT":
		return "DCTDecode"
	}
	return name
}

// expandColorSpaceName expands the abbreviated inline image colorspace names.
func expandColorSpaceName(obj core.PdfObject) core.PdfObject {
	if name, ok := core.GetName(obj); ok {
		switch *name {
		case "G":
			return core.MakeName("DeviceGray")
		case "RGB":
			return core.MakeName("DeviceRGB")
		case "CMYK":
			return core.MakeName("DeviceCMYK")
		case "I":
			return core.MakeName("Indexed")
		}
	}
	return obj
}

// toImageDict synthesizes an image XObject style dictionary from the inline
// image entries, filling in the defaults.
func (img *ContentStreamInlineImage) toImageDict() *core.PdfObjectDictionary {
	dict := core.MakeDict()
	dict.Set("Subtype", core.MakeName("Image"))

	if img.Width != nil {
		dict.Set("Width", img.Width)
	}
	if img.Height != nil {
		dict.Set("Height", img.Height)
	}

	isMask := false
	if img.ImageMask != nil {
		if b, ok := core.GetBoolVal(img.ImageMask); ok {
			isMask = b
		}
		dict.Set("ImageMask", img.ImageMask)
	}

	if img.BitsPerComponent != nil {
		dict.Set("BitsPerComponent", img.BitsPerComponent)
	} else if isMask {
		dict.Set("BitsPerComponent", core.MakeInteger(1))
	} else {
		dict.Set("BitsPerComponent", core.MakeInteger(8))
	}

	if !isMask {
		if img.ColorSpace != nil {
			dict.Set("ColorSpace", expandColorSpaceName(img.ColorSpace))
		} else {
			dict.Set("ColorSpace", core.MakeName("DeviceGray"))
		}
	}

	if img.Decode != nil {
		dict.Set("Decode", img.Decode)
	}
	if img.DecodeParms != nil {
		dict.Set("DecodeParms", img.DecodeParms)
	}
	if img.Intent != nil {
		dict.Set("Intent", img.Intent)
	}
	if img.Interpolate != nil {
		dict.Set("Interpolate", img.Interpolate)
	}

	if img.Filter != nil {
		switch t := core.TraceToDirectObject(img.Filter).(type) {
		case *core.PdfObjectName:
			dict.Set("Filter", core.MakeName(string(expandFilterName(*t))))
		case *core.PdfObjectArray:
			expanded := core.MakeArray()
			for _, el := range t.Elements() {
				if name, ok := core.GetName(el); ok {
					expanded.Append(core.MakeName(string(expandFilterName(*name))))
				} else {
					expanded.Append(el)
				}
			}
			dict.Set("Filter", expanded)
		}
	}

	return dict
}

// ToImage exports the inline image to a model image for the decoding
// pipeline. Named color spaces are resolved against `resources`.
func (img *ContentStreamInlineImage) ToImage(resources *model.PdfPageResources) (*model.PdfImage, error) {
	stream := core.MakeStream(img.stream, img.toImageDict())
	return model.NewPdfImageFromStream(stream, resources)
}

// ParseInlineImage parses an inline image from a content stream, both reading its properties and
// binary data. This is called after reading the "BI" token; reads up to and including the "EI" token.
func (csp *ContentStreamParser) ParseInlineImage() (*ContentStreamInlineImage, error) {
	// Reading parameters.
	im := ContentStreamInlineImage{}

	for {
		csp.skipSpaces()
		obj, isOperand, err := csp.parseObject()
		if err != nil {
			return nil, err
		}

		if !isOperand {
			// Not an operand.. Read key value properties..
			param, ok := core.GetName(obj)
			if !ok {
				common.Log.Debug("Invalid inline image property (expecting name) - %T", obj)
				return nil, fmt.Errorf("invalid inline image property (expecting name) - %T", obj)
			}

			valueObj, isOperand, err := csp.parseObject()
			if err != nil {
				return nil, err
			}
			if isOperand {
				return nil, fmt.Errorf("not expecting an operand")
			}

			// Abbreviated keys expand to their full forms.
			switch *param {
			case "BPC", "BitsPerComponent":
				im.BitsPerComponent = valueObj
			case "CS", "ColorSpace":
				im.ColorSpace = valueObj
			case "D", "Decode":
				im.Decode = valueObj
			case "DP", "DecodeParms":
				im.DecodeParms = valueObj
			case "F", "Filter":
				im.Filter = valueObj
			case "H", "Height":
				im.Height = valueObj
			case "IM", "ImageMask":
				im.ImageMask = valueObj
			case "Intent":
				im.Intent = valueObj
			case "I", "Interpolate":
				im.Interpolate = valueObj
			case "W", "Width":
				im.Width = valueObj
			case "L", "Length":
				// PDF 2.0: the byte length of the data; safe to skip as the
				// data is delimited by EI.
			default:
				common.Log.Debug("Unknown inline image parameter %s", *param)
			}
		}

		if isOperand {
			operand, ok := obj.(*core.PdfObjectString)
			if !ok {
				return nil, fmt.Errorf("failed to read inline image - invalid operand")
			}

			if operand.Str() == "EI" {
				// Image fully defined.
				common.Log.Trace("Inline image finished...")
				return &im, nil
			} else if operand.Str() == "ID" {
				// Inline image data.
				// Should get a single whitespace after ID and then the data.
				common.Log.Trace("ID start")

				// Skip the space if its there.
				b, err := csp.reader.Peek(1)
				if err != nil {
					return nil, err
				}
				if core.IsWhiteSpace(b[0]) {
					csp.reader.Discard(1)
				}

				// Unfortunately there is no good way to know how many bytes to read since it
				// depends on the Filter and encoding etc.
				// Therefore we will simply read until we find "<ws>EI<ws|delimiter>".
				im.stream = []byte{}
				state := 0
				var skipBytes []byte
				for {
					c, err := csp.reader.ReadByte()
					if err != nil {
						common.Log.Debug("Unable to find end of image EI in inline image data")
						return nil, err
					}

					if state == 0 {
						if core.IsWhiteSpace(c) {
							skipBytes = []byte{}
							skipBytes = append(skipBytes, c)
							state = 1
						} else {
							im.stream = append(im.stream, c)
						}
					} else if state == 1 {
						skipBytes = append(skipBytes, c)
						if c == 'E' {
							state = 2
						} else {
							im.stream = append(im.stream, skipBytes...)
							skipBytes = []byte{}
							if core.IsWhiteSpace(c) {
								state = 1
							} else {
								state = 0
							}
						}
					} else if state == 2 {
						skipBytes = append(skipBytes, c)
						if c == 'I' {
							state = 3
						} else {
							im.stream = append(im.stream, skipBytes...)
							skipBytes = []byte{}
							state = 0
						}
					} else if state == 3 {
						skipBytes = append(skipBytes, c)
						if core.IsWhiteSpace(c) || core.IsDelimiter(c) {
							// Image data finished.
							if len(im.stream) > 100 {
								common.Log.Trace("Image stream (%d): % x ...", len(im.stream), im.stream[:100])
							} else {
								common.Log.Trace("Image stream (%d): % x", len(im.stream), im.stream)
							}
							if core.IsDelimiter(c) {
								// Image data ended and the next operator
								// starts right away; un-read the delimiter.
								common.Log.Debug("Delimiter directly after EI")
								csp.reader.UnreadByte()
							}
							// Need to rewind to the end of the EI.
							return &im, nil
						}
						// Seemed like EI but was part of the data.
						im.stream = append(im.stream, skipBytes...)
						skipBytes = []byte{}
						state = 0
					}
				}
			}
		}
	}
}

