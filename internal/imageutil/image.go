/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package imageutil

import (
	"errors"
)

// ErrInvalidImage is an error used when provided image is invalid.
var ErrInvalidImage = errors.New("invalid image data size for provided dimensions")

// ImageBase describes a raw sample buffer: dimensions, per-component bit
// depth, channel count and the packed row data.
type ImageBase struct {
	Width, Height                     int
	BitsPerComponent, ColorComponents int
	Data                              []byte
	Decode                            []float64
	BytesPerLine                      int
}

// NewImageBase returns an ImageBase for the given parameters with the
// BytesPerLine derived from the dimensions.
func NewImageBase(width, height, bitsPerComponent, colorComponents int, data []byte) ImageBase {
	return ImageBase{
		Width:            width,
		Height:           height,
		BitsPerComponent: bitsPerComponent,
		ColorComponents:  colorComponents,
		Data:             data,
		BytesPerLine:     BytesPerLine(width, bitsPerComponent, colorComponents),
	}
}

// Validate checks that the data buffer covers the declared dimensions.
func (i *ImageBase) Validate() error {
	if len(i.Data) < i.Height*i.BytesPerLine {
		return ErrInvalidImage
	}
	return nil
}

// BytesPerLine returns the number of bytes in a packed row of `width` pixels
// with `colorComponents` components of `bitsPerComponent` bits each.
func BytesPerLine(width, bitsPerComponent, colorComponents int) int {
	return (width*bitsPerComponent*colorComponents + 7) >> 3
}
