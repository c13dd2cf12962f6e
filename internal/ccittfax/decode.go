/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package ccittfax decodes CCITT Group3 and Group4 facsimile encoded image
// data as used by the CCITTFaxDecode stream filter.
package ccittfax

import (
	"golang.org/x/xerrors"
)

var (
	// errEOFBCorrupt is returned when a corrupt EOFB (end-of-block) code is found.
	errEOFBCorrupt = xerrors.New("ccittfax: EOFB code is corrupted")
	// errRTCCorrupt is returned when a corrupt RTC (return-to-control) code is found.
	errRTCCorrupt = xerrors.New("ccittfax: RTC code is corrupted")
	// errWrongCodeInHorizontalMode is returned when an unknown bit sequence is met in horizontal mode.
	errWrongCodeInHorizontalMode = xerrors.New("ccittfax: wrong code in horizontal mode")
	// errNoEOLFound is returned when the EndOfLine parameter is true but no EOL is met.
	errNoEOLFound = xerrors.New("ccittfax: no EOL found while the EndOfLine parameter is true")
	// errInvalidEOL is returned when the EOL code is corrupt.
	errInvalidEOL = xerrors.New("ccittfax: invalid EOL")
	// errInvalid2DCode is returned when an invalid 2-dimensional code is met.
	errInvalid2DCode = xerrors.New("ccittfax: invalid 2D code")
)

// Decoder decodes CCITT Group3/Group4 encoded data. The fields mirror the
// /DecodeParms entries of the CCITTFaxDecode filter.
type Decoder struct {
	K                int
	EndOfLine        bool
	EncodedByteAlign bool
	Columns          int
	Rows             int
	EndOfBlock       bool
	BlackIs1         bool

	white byte
	black byte
}

// Decode decodes `encoded` and returns the rows of pixels, one byte per
// pixel. With BlackIs1 false (the default) white pixels decode to 1 and
// black to 0, so the values are the raw 1-bit samples prior to /Decode.
func (d *Decoder) Decode(encoded []byte) ([][]byte, error) {
	if d.BlackIs1 {
		d.white, d.black = 0, 1
	} else {
		d.white, d.black = 1, 0
	}
	if d.Columns == 0 {
		d.Columns = 1728
	}

	switch {
	case d.K == 0:
		return d.decodeG31D(encoded)
	case d.K > 0:
		return d.decodeG32D(encoded)
	default:
		return d.decodeG4(encoded)
	}
}

// DecodePacked decodes `encoded` and packs the result into a 1 bit per
// component buffer of Columns×Rows dimensions, MSB first. Short rows are
// padded with white.
func (d *Decoder) DecodePacked(encoded []byte) ([]byte, error) {
	rows, err := d.Decode(encoded)
	if err != nil {
		return nil, err
	}

	height := d.Rows
	if height <= 0 || height > len(rows) {
		height = len(rows)
	}
	bytesPerRow := (d.Columns + 7) / 8

	packed := make([]byte, height*bytesPerRow)
	for y := 0; y < height; y++ {
		row := rows[y]
		for x := 0; x < d.Columns; x++ {
			pix := d.white
			if x < len(row) {
				pix = row[x]
			}
			if pix != 0 {
				packed[y*bytesPerRow+x/8] |= 0x80 >> uint(x%8)
			}
		}
	}
	return packed, nil
}

// decodeG31D decodes using the Group3 1-dimensional algorithm.
func (d *Decoder) decodeG31D(encoded []byte) ([][]byte, error) {
	var pixels [][]byte

	var bitPos int
	for (bitPos / 8) < len(encoded) {
		var gotEOL bool

		gotEOL, bitPos = tryFetchEOL(encoded, bitPos)
		if !gotEOL {
			if d.EndOfLine {
				return nil, errNoEOLFound
			}
		} else {
			// 5 EOLs left to fill RTC.
			for i := 0; i < 5; i++ {
				gotEOL, bitPos = tryFetchEOL(encoded, bitPos)
				if !gotEOL {
					if i == 0 {
						break
					}
					return nil, errInvalidEOL
				}
			}
			if gotEOL {
				break
			}
		}

		var row []byte
		row, bitPos = d.decodeRow1D(encoded, bitPos)

		if d.EncodedByteAlign && bitPos%8 != 0 {
			bitPos += 8 - bitPos%8
		}

		pixels = append(pixels, row)

		if d.Rows > 0 && !d.EndOfBlock && len(pixels) >= d.Rows {
			break
		}
	}

	return pixels, nil
}

// decodeG32D decodes using the Group3 mixed (1D/2D) dimensional algorithm.
func (d *Decoder) decodeG32D(encoded []byte) ([][]byte, error) {
	var (
		pixels [][]byte
		bitPos int
		err    error
	)
byteLoop:
	for (bitPos / 8) < len(encoded) {
		var gotEOL bool
		gotEOL, bitPos, err = tryFetchRTC2D(encoded, bitPos)
		if err != nil {
			return nil, err
		}
		if gotEOL {
			break
		}

		gotEOL, bitPos = tryFetchEOL1(encoded, bitPos)
		if !gotEOL && d.EndOfLine {
			return nil, errNoEOLFound
		}

		// Decode 1st of K rows as 1D.
		var row []byte
		row, bitPos = d.decodeRow1D(encoded, bitPos)

		if d.EncodedByteAlign && bitPos%8 != 0 {
			bitPos += 8 - bitPos%8
		}

		if row != nil {
			pixels = append(pixels, row)
		}
		if d.Rows > 0 && !d.EndOfBlock && len(pixels) >= d.Rows {
			break
		}

		// Decode K-1 rows as 2D.
		for i := 1; i < d.K && (bitPos/8) < len(encoded); i++ {
			gotEOL, bitPos = tryFetchEOL0(encoded, bitPos)
			if !gotEOL {
				// Only EOL0 or RTC should be met here.
				gotEOL, bitPos, err = tryFetchRTC2D(encoded, bitPos)
				if err != nil {
					return nil, err
				}
				if gotEOL {
					break byteLoop
				}
				if d.EndOfLine {
					return nil, errNoEOLFound
				}
			}

			var pixelsRow []byte
			pixelsRow, bitPos, err = d.decodeRow2D(encoded, bitPos, pixels)
			if err != nil {
				return nil, err
			}

			if d.EncodedByteAlign && bitPos%8 != 0 {
				bitPos += 8 - bitPos%8
			}

			if pixelsRow != nil {
				pixels = append(pixels, pixelsRow)
			}
			if d.Rows > 0 && !d.EndOfBlock && len(pixels) >= d.Rows {
				break byteLoop
			}
		}
	}

	return pixels, nil
}

// decodeG4 decodes using the Group4 algorithm.
func (d *Decoder) decodeG4(encoded []byte) ([][]byte, error) {
	// Prepend an imaginary white reference line.
	whiteReferenceLine := make([]byte, d.Columns)
	for i := range whiteReferenceLine {
		whiteReferenceLine[i] = d.white
	}

	pixels := [][]byte{whiteReferenceLine}

	var (
		gotEOL bool
		err    error
		bitPos int
	)
	for (bitPos / 8) < len(encoded) {
		gotEOL, bitPos, err = tryFetchEOFB(encoded, bitPos)
		if err != nil {
			return nil, err
		}
		if gotEOL {
			break
		}

		var pixelsRow []byte
		pixelsRow, bitPos, err = d.decodeRow2D(encoded, bitPos, pixels)
		if err != nil {
			return nil, err
		}

		if d.EncodedByteAlign && bitPos%8 != 0 {
			bitPos += 8 - bitPos%8
		}

		pixels = append(pixels, pixelsRow)

		if d.Rows > 0 && !d.EndOfBlock && len(pixels) >= (d.Rows+1) {
			break
		}
	}

	// Remove the white reference line.
	return pixels[1:], nil
}

// decodeRow2D decodes a single row against the previous row in `pixels`
// using the 2-dimensional modes.
func (d *Decoder) decodeRow2D(encoded []byte, bitPos int, pixels [][]byte) ([]byte, int, error) {
	var (
		twoDimCode code
		ok         bool
		err        error
	)

	isWhite := true
	var pixelsRow []byte
	a0 := -1
	for a0 < d.Columns {
		twoDimCode, bitPos, ok = fetchNext2DCode(encoded, bitPos)
		if !ok {
			return nil, bitPos, errInvalid2DCode
		}

		switch twoDimCode {
		case p:
			pixelsRow, a0 = d.decodePassMode(pixels, pixelsRow, isWhite, a0)
		case h:
			pixelsRow, bitPos, a0, err = d.decodeHorizontalMode(encoded, pixelsRow, bitPos, isWhite, a0)
			if err != nil {
				return nil, bitPos, err
			}
		case v0:
			pixelsRow, a0 = d.decodeVerticalMode(pixels, pixelsRow, isWhite, a0, 0)
			isWhite = !isWhite
		case v1r:
			pixelsRow, a0 = d.decodeVerticalMode(pixels, pixelsRow, isWhite, a0, 1)
			isWhite = !isWhite
		case v2r:
			pixelsRow, a0 = d.decodeVerticalMode(pixels, pixelsRow, isWhite, a0, 2)
			isWhite = !isWhite
		case v3r:
			pixelsRow, a0 = d.decodeVerticalMode(pixels, pixelsRow, isWhite, a0, 3)
			isWhite = !isWhite
		case v1l:
			pixelsRow, a0 = d.decodeVerticalMode(pixels, pixelsRow, isWhite, a0, -1)
			isWhite = !isWhite
		case v2l:
			pixelsRow, a0 = d.decodeVerticalMode(pixels, pixelsRow, isWhite, a0, -2)
			isWhite = !isWhite
		case v3l:
			pixelsRow, a0 = d.decodeVerticalMode(pixels, pixelsRow, isWhite, a0, -3)
			isWhite = !isWhite
		}

		if len(pixelsRow) >= d.Columns {
			break
		}
	}
	return pixelsRow, bitPos, nil
}

// decodeVerticalMode decodes a vertical mode element. Returns the filled row
// and the moved a0.
func (d *Decoder) decodeVerticalMode(pixels [][]byte, pixelsRow []byte, isWhite bool, a0, shift int) ([]byte, int) {
	b1 := d.seekB12D(pixelsRow, pixels[len(pixels)-1], a0, isWhite)
	a1 := b1 + shift

	if a0 == -1 {
		pixelsRow = d.drawPixels(pixelsRow, isWhite, a1-a0-1)
	} else {
		pixelsRow = d.drawPixels(pixelsRow, isWhite, a1-a0)
	}

	return pixelsRow, a1
}

// decodePassMode decodes a pass mode element. Returns the filled row and the
// moved a0.
func (d *Decoder) decodePassMode(pixels [][]byte, pixelsRow []byte, isWhite bool, a0 int) ([]byte, int) {
	b1 := d.seekB12D(pixelsRow, pixels[len(pixels)-1], a0, isWhite)
	b2 := d.seekChangingElem(pixels[len(pixels)-1], b1)

	if a0 == -1 {
		pixelsRow = d.drawPixels(pixelsRow, isWhite, b2-a0-1)
	} else {
		pixelsRow = d.drawPixels(pixelsRow, isWhite, b2-a0)
	}

	return pixelsRow, b2
}

// decodeHorizontalMode decodes a horizontal mode element: two consecutive run
// lengths in opposite colors. The bit position is not moved on error.
func (d *Decoder) decodeHorizontalMode(encoded, pixelsRow []byte, bitPos int, isWhite bool, a0 int) ([]byte, int, int, error) {
	startingBitPos := bitPos

	var err error
	pixelsRow, bitPos, err = d.decodeNextRunLen(encoded, pixelsRow, bitPos, isWhite)
	if err != nil {
		return pixelsRow, startingBitPos, a0, err
	}

	pixelsRow, bitPos, err = d.decodeNextRunLen(encoded, pixelsRow, bitPos, !isWhite)
	if err != nil {
		return pixelsRow, startingBitPos, a0, err
	}

	// The last code was the a1a2 run; a0 lands on a2.
	return pixelsRow, bitPos, len(pixelsRow), nil
}

// decodeNextRunLen accumulates makeup and terminating codes for one run.
func (d *Decoder) decodeNextRunLen(encoded, pixelsRow []byte, bitPos int, isWhite bool) ([]byte, int, error) {
	startingBitPos := bitPos

	var runLen int
	for runLen, bitPos = fetchNextRunLen(encoded, bitPos, isWhite); runLen != -1; runLen, bitPos = fetchNextRunLen(encoded, bitPos, isWhite) {
		pixelsRow = d.drawPixels(pixelsRow, isWhite, runLen)
		if runLen < 64 {
			// Terminating code.
			break
		}
	}
	if runLen == -1 {
		return pixelsRow, startingBitPos, errWrongCodeInHorizontalMode
	}
	return pixelsRow, bitPos, nil
}

// decodeRow1D decodes the next pixel row using the 1-dimensional codes.
func (d *Decoder) decodeRow1D(encoded []byte, bitPos int) ([]byte, int) {
	var pixelsRow []byte

	isWhite := true

	var runLen int
	runLen, bitPos = fetchNextRunLen(encoded, bitPos, isWhite)
	for runLen != -1 {
		pixelsRow = d.drawPixels(pixelsRow, isWhite, runLen)

		if runLen < 64 {
			// Terminating code: switch color.
			if len(pixelsRow) >= d.Columns {
				break
			}
			isWhite = !isWhite
		}

		runLen, bitPos = fetchNextRunLen(encoded, bitPos, isWhite)
	}

	return pixelsRow, bitPos
}

// drawPixels appends `length` pixels of the given color to `row`.
func (d *Decoder) drawPixels(row []byte, isWhite bool, length int) []byte {
	if length < 0 {
		return row
	}

	color := d.black
	if isWhite {
		color = d.white
	}
	run := make([]byte, length)
	for i := range run {
		run[i] = color
	}
	return append(row, run...)
}

// seekChangingElem returns the position of the next changing element in
// `row` after `currElem`.
func (d *Decoder) seekChangingElem(row []byte, currElem int) int {
	if currElem >= len(row) {
		return currElem
	}
	if currElem < -1 {
		currElem = -1
	}

	var color byte
	if currElem > -1 {
		color = row[currElem]
	} else {
		color = d.white
	}

	i := currElem + 1
	for i < len(row) {
		if row[i] != color {
			break
		}
		i++
	}
	return i
}

// seekB12D returns the position of b1, the first changing element in the
// reference line to the right of a0 with the opposite of a0's color.
func (d *Decoder) seekB12D(codingLine, refLine []byte, a0 int, a0isWhite bool) int {
	changingElem := d.seekChangingElem(refLine, a0)

	if changingElem < len(refLine) && (a0 == -1 && refLine[changingElem] == d.white ||
		a0 >= 0 && a0 < len(codingLine) && codingLine[a0] == refLine[changingElem] ||
		a0 >= len(codingLine) && a0isWhite && refLine[changingElem] == d.white ||
		a0 >= len(codingLine) && !a0isWhite && refLine[changingElem] == d.black) {
		changingElem = d.seekChangingElem(refLine, changingElem)
	}

	return changingElem
}

// tryFetchRTC2D tries to fetch the 2D RTC code (EOL1 × 6).
func tryFetchRTC2D(encoded []byte, bitPos int) (bool, int, error) {
	startingBitPos := bitPos
	gotEOL := false

	for i := 0; i < 6; i++ {
		gotEOL, bitPos = tryFetchEOL1(encoded, bitPos)
		if !gotEOL {
			if i > 1 {
				return false, startingBitPos, errRTCCorrupt
			}
			bitPos = startingBitPos
			break
		}
	}
	return gotEOL, bitPos, nil
}

// tryFetchEOFB tries to fetch the EOFB code (EOL × 2).
func tryFetchEOFB(encoded []byte, bitPos int) (bool, int, error) {
	startingBitPos := bitPos

	var gotEOL bool
	gotEOL, bitPos = tryFetchEOL(encoded, bitPos)
	if gotEOL {
		gotEOL, bitPos = tryFetchEOL(encoded, bitPos)
		if gotEOL {
			return true, bitPos, nil
		}
		return false, startingBitPos, errEOFBCorrupt
	}
	return false, startingBitPos, nil
}

// fetchNextRunLen fetches the next 1-dimensional code and returns the run
// length. The bit position is not moved if no valid code is met.
func fetchNextRunLen(data []byte, bitPos int, isWhite bool) (int, int) {
	startingBitPos := bitPos
	codeNum, codeBitPos, _ := fetchNextCode(data, bitPos)

	tree := blackTree
	if isWhite {
		tree = whiteTree
	}
	runLenPtr, codePtr := findRunLen(tree, codeNum, codeBitPos)
	if runLenPtr == nil {
		return -1, startingBitPos
	}
	return *runLenPtr, startingBitPos + codePtr.BitsWritten
}

// fetchNext2DCode fetches the next 2-dimensional mode code. The bit position
// is not moved if no valid code is met.
func fetchNext2DCode(data []byte, bitPos int) (code, int, bool) {
	startingBitPos := bitPos
	codeNum, codeBitPos, _ := fetchNextCode(data, bitPos)

	_, codePtr := findRunLen(twoDimTree, codeNum, codeBitPos)
	if codePtr == nil {
		return code{}, startingBitPos, false
	}
	return *codePtr, startingBitPos + codePtr.BitsWritten, true
}

// fetchNextCode assembles the next at most 16 bits starting from `bitPos`
// into a left-aligned uint16. Returns the value, the bit within the value at
// which a tree lookup starts (always 0), and the moved bit position.
func fetchNextCode(data []byte, bitPos int) (uint16, int, int) {
	startingBitPos := bitPos

	var out uint16
	bitsWritten := 0
	for bitsWritten < 16 {
		bytePos := bitPos / 8
		if bytePos >= len(data) {
			break
		}
		bit := (data[bytePos] >> (7 - uint(bitPos%8))) & 1
		out |= uint16(bit) << (15 - uint(bitsWritten))
		bitsWritten++
		bitPos++
	}
	return out, 0, startingBitPos + bitsWritten
}

// tryFetchEOL tries to fetch the EOL code (000000000001).
func tryFetchEOL(encoded []byte, bitPos int) (bool, int) {
	return tryFetchCode(encoded, bitPos, eol)
}

// tryFetchEOL0 tries to fetch the EOL0 code (0000000000010), the 2D EOL with
// a 1D tag bit.
func tryFetchEOL0(encoded []byte, bitPos int) (bool, int) {
	return tryFetchCode(encoded, bitPos, eol0)
}

// tryFetchEOL1 tries to fetch the EOL1 code (0000000000011), the 2D EOL with
// a 2D tag bit.
func tryFetchEOL1(encoded []byte, bitPos int) (bool, int) {
	return tryFetchCode(encoded, bitPos, eol1)
}

// tryFetchCode tries to match `want` at `bitPos`. Returns the moved position
// on a match and the original position otherwise.
func tryFetchCode(encoded []byte, bitPos int, want code) (bool, int) {
	if bitPos+want.BitsWritten > len(encoded)*8 {
		return false, bitPos
	}
	for i := 0; i < want.BitsWritten; i++ {
		pos := bitPos + i
		bit := (encoded[pos/8] >> (7 - uint(pos%8))) & 1
		wantBit := byte(want.Code>>(15-uint(i))) & 1
		if bit != wantBit {
			return false, bitPos
		}
	}
	return true, bitPos + want.BitsWritten
}
