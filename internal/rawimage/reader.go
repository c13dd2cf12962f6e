/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package rawimage streams image rows out of filter-decoded sample data,
// reversing the TIFF and PNG predictor functions declared in /DecodeParms.
package rawimage

import (
	"io"

	"golang.org/x/xerrors"

	"github.com/pdfrast/pdfrast/common"
)

// Params mirror the /DecodeParms entries consumed by the predictor stage.
type Params struct {
	Predictor        int
	Columns          int
	Colors           int
	BitsPerComponent int
}

// Reader streams decoded rows one at a time.
type Reader struct {
	params Params
	data   []byte
	pos    int

	rowLen int // decoded bytes per row
	encLen int // encoded bytes per row
	prev   []byte
}

// NewReader returns a row reader over `data` with the given predictor
// parameters. Predictor defaults to 1 (none).
func NewReader(data []byte, params Params) (*Reader, error) {
	if params.Predictor == 0 {
		params.Predictor = 1
	}
	if params.Colors == 0 {
		params.Colors = 1
	}
	if params.BitsPerComponent == 0 {
		params.BitsPerComponent = 8
	}
	if params.Columns <= 0 {
		return nil, xerrors.Errorf("rawimage: invalid columns %d", params.Columns)
	}

	switch params.Predictor {
	case 1, 2:
	case 10, 11, 12, 13, 14, 15:
	default:
		return nil, xerrors.Errorf("rawimage: unsupported predictor %d", params.Predictor)
	}
	if params.Predictor == 2 && params.BitsPerComponent < 8 {
		return nil, xerrors.Errorf("rawimage: TIFF predictor with %d bpc not supported", params.BitsPerComponent)
	}

	r := &Reader{params: params, data: data}
	bits := params.BitsPerComponent
	if bits >= 8 {
		r.rowLen = params.Columns * params.Colors * (bits / 8)
	} else {
		r.rowLen = (params.Columns*params.Colors*bits + 7) / 8
	}
	r.encLen = r.rowLen
	if params.Predictor >= 10 {
		// PNG rows carry a leading filter byte.
		r.encLen++
	}
	return r, nil
}

// RowLength returns the decoded length of each row in bytes.
func (r *Reader) RowLength() int {
	return r.rowLen
}

// ReadRow returns the next decoded row. io.EOF signals the end of data; a
// short trailing row is dropped with a warning.
func (r *Reader) ReadRow() ([]byte, error) {
	if r.pos >= len(r.data) {
		return nil, io.EOF
	}
	if r.pos+r.encLen > len(r.data) {
		common.Log.Debug("Truncated image row: %d bytes left, need %d", len(r.data)-r.pos, r.encLen)
		r.pos = len(r.data)
		return nil, io.EOF
	}

	switch {
	case r.params.Predictor == 1:
		row := r.data[r.pos : r.pos+r.rowLen]
		r.pos += r.encLen
		return row, nil
	case r.params.Predictor == 2:
		row := make([]byte, r.rowLen)
		copy(row, r.data[r.pos:r.pos+r.rowLen])
		r.pos += r.encLen
		r.reverseTIFF(row)
		return row, nil
	default:
		filter := r.data[r.pos]
		row := make([]byte, r.rowLen)
		copy(row, r.data[r.pos+1:r.pos+r.encLen])
		r.pos += r.encLen
		if err := r.reversePNG(filter, row); err != nil {
			return nil, err
		}
		r.prev = row
		return row, nil
	}
}

// reverseTIFF undoes the TIFF predictor in place: each sample is a delta
// against the sample one pixel to the left.
func (r *Reader) reverseTIFF(row []byte) {
	colors := r.params.Colors
	if r.params.BitsPerComponent == 16 {
		k := colors * 2
		for i := k; i+1 < len(row); i += 2 {
			sample := uint16(row[i])<<8 | uint16(row[i+1])
			left := uint16(row[i-k])<<8 | uint16(row[i-k+1])
			sample += left
			row[i] = byte(sample >> 8)
			row[i+1] = byte(sample)
		}
		return
	}
	for i := colors; i < len(row); i++ {
		row[i] += row[i-colors]
	}
}

// bytesPerPixel returns the PNG filter pixel stride, minimum one byte.
func (r *Reader) bytesPerPixel() int {
	bpp := r.params.Colors * r.params.BitsPerComponent / 8
	if bpp < 1 {
		bpp = 1
	}
	return bpp
}

// reversePNG undoes one of the PNG row filters in place.
func (r *Reader) reversePNG(filter byte, row []byte) error {
	bpp := r.bytesPerPixel()
	prev := r.prev

	switch filter {
	case 0: // None
	case 1: // Sub
		for i := bpp; i < len(row); i++ {
			row[i] += row[i-bpp]
		}
	case 2: // Up
		if prev != nil {
			for i := range row {
				row[i] += prev[i]
			}
		}
	case 3: // Average
		for i := range row {
			var left, up byte
			if i >= bpp {
				left = row[i-bpp]
			}
			if prev != nil {
				up = prev[i]
			}
			row[i] += byte((int(left) + int(up)) / 2)
		}
	case 4: // Paeth
		for i := range row {
			var left, up, upLeft byte
			if i >= bpp {
				left = row[i-bpp]
			}
			if prev != nil {
				up = prev[i]
				if i >= bpp {
					upLeft = prev[i-bpp]
				}
			}
			row[i] += paeth(left, up, upLeft)
		}
	default:
		return xerrors.Errorf("rawimage: invalid png filter %d", filter)
	}
	return nil
}
