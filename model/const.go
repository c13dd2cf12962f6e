/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package model

import (
	"errors"

	"github.com/pdfrast/pdfrast/core"
)

// Errors when parsing/loading data in PDF.
var (
	ErrRequiredAttributeMissing = errors.New("required attribute missing")
	ErrInvalidAttribute         = errors.New("invalid attribute")
	ErrTypeCheck                = errors.New("type check")
	errRangeError               = errors.New("range check error")
	ErrEncrypted                = errors.New("file needs to be decrypted first")
	ErrFontNotSupported         = errors.New("unsupported font")
	ErrType1CFontNotSupported   = errors.New("Type1C fonts are not currently supported")
	ErrTTCmapNotSupported       = errors.New("unsupported TrueType cmap format")
)

// RenderingIntent selects the color rendering intent of a conversion.
type RenderingIntent int

// Rendering intents, default RelativeColorimetric.
const (
	RenderingIntentPerceptual RenderingIntent = iota
	RenderingIntentRelativeColorimetric
	RenderingIntentSaturation
	RenderingIntentAbsoluteColorimetric
)

// NewRenderingIntentFromName maps the /RI name to a RenderingIntent. Unknown
// names map to relative colorimetric.
func NewRenderingIntentFromName(name core.PdfObjectName) RenderingIntent {
	switch name {
	case "Perceptual":
		return RenderingIntentPerceptual
	case "Saturation":
		return RenderingIntentSaturation
	case "AbsoluteColorimetric":
		return RenderingIntentAbsoluteColorimetric
	default:
		return RenderingIntentRelativeColorimetric
	}
}

// String returns the PDF name of the intent.
func (ri RenderingIntent) String() string {
	switch ri {
	case RenderingIntentPerceptual:
		return "Perceptual"
	case RenderingIntentSaturation:
		return "Saturation"
	case RenderingIntentAbsoluteColorimetric:
		return "AbsoluteColorimetric"
	default:
		return "RelativeColorimetric"
	}
}
