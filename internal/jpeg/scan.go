/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package jpeg

import (
	"encoding/binary"

	"golang.org/x/xerrors"
)

type scanComponent struct {
	c  *component
	td int
	ta int
}

// decodeScans consumes every scan up to EOI, accumulating coefficients.
func (d *Decoder) decodeScans() error {
	for {
		marker, err := d.nextMarker()
		if err != nil {
			// Missing EOI is common in PDF embedded streams.
			return nil
		}
		switch marker {
		case markerSOS:
			if err := d.decodeScan(); err != nil {
				return err
			}
		case markerDHT:
			if err := d.parseDHT(); err != nil {
				return err
			}
		case markerDQT:
			if err := d.parseDQT(); err != nil {
				return err
			}
		case markerDRI:
			seg, err := d.segment()
			if err != nil {
				return err
			}
			if len(seg) >= 2 {
				d.restartIntval = int(binary.BigEndian.Uint16(seg))
			}
		case markerEOI:
			return nil
		default:
			if marker >= markerRST0 && marker <= markerRST7 {
				continue
			}
			if _, err := d.segment(); err != nil {
				return err
			}
		}
	}
}

// decodeScan parses one SOS header and its entropy-coded data.
func (d *Decoder) decodeScan() error {
	seg, err := d.segment()
	if err != nil {
		return err
	}
	if len(seg) < 1 {
		return xerrors.New("jpeg: short SOS")
	}
	ns := int(seg[0])
	if ns < 1 || ns > d.nComp || len(seg) < 1+2*ns+3 {
		return xerrors.New("jpeg: bad SOS header")
	}

	scanComps := make([]scanComponent, ns)
	for i := 0; i < ns; i++ {
		id := int(seg[1+2*i])
		var comp *component
		for j := 0; j < d.nComp; j++ {
			if d.comps[j].id == id {
				comp = d.comps[j]
				break
			}
		}
		if comp == nil {
			return xerrors.Errorf("jpeg: unknown scan component id %d", id)
		}
		scanComps[i] = scanComponent{
			c:  comp,
			td: int(seg[2+2*i] >> 4),
			ta: int(seg[2+2*i] & 0x0f),
		}
	}
	ss := int(seg[1+2*ns])
	se := int(seg[2+2*ns])
	ah := int(seg[3+2*ns] >> 4)
	al := int(seg[3+2*ns] & 0x0f)

	if !d.progressive {
		ss, se, ah, al = 0, 63, 0, 0
	}
	if ss < 0 || se > 63 || ss > se {
		return xerrors.New("jpeg: bad spectral selection")
	}

	for i := range scanComps {
		scanComps[i].c.dcPred = 0
		scanComps[i].c.eobRun = 0
	}

	r := newBitReader(d.data, d.pos)
	err = d.decodeEntropy(r, scanComps, ss, se, ah, al)
	d.pos = r.pos
	return err
}

func (d *Decoder) decodeEntropy(r *bitReader, scanComps []scanComponent, ss, se, ah, al int) error {
	interleaved := len(scanComps) > 1

	var mcuCount, restartCount int
	resetAtRestart := func() {
		for i := range scanComps {
			scanComps[i].c.dcPred = 0
			scanComps[i].c.eobRun = 0
		}
	}
	checkRestart := func() {
		if d.restartIntval > 0 {
			restartCount++
			if restartCount == d.restartIntval {
				restartCount = 0
				if r.resync() {
					resetAtRestart()
				}
			}
		}
	}

	if interleaved {
		total := d.mcusPerLine * d.mcusPerCol
		for mcuCount = 0; mcuCount < total; mcuCount++ {
			mx := mcuCount % d.mcusPerLine
			my := mcuCount / d.mcusPerLine
			for _, sc := range scanComps {
				c := sc.c
				for v := 0; v < c.v; v++ {
					for h := 0; h < c.h; h++ {
						bx := mx*c.h + h
						by := my*c.v + v
						if err := d.decodeBlock(r, sc, bx, by, ss, se, ah, al); err != nil {
							return err
						}
					}
				}
			}
			checkRestart()
		}
		return nil
	}

	// Non-interleaved scan: MCU is a single block addressed over the
	// component's own block geometry.
	c := scanComps[0].c
	compW := (d.Width*c.h + d.hMax - 1) / d.hMax
	compH := (d.Height*c.v + d.vMax - 1) / d.vMax
	wBlocks := (compW + 7) / 8
	hBlocks := (compH + 7) / 8
	for by := 0; by < hBlocks; by++ {
		for bx := 0; bx < wBlocks; bx++ {
			if err := d.decodeBlock(r, scanComps[0], bx, by, ss, se, ah, al); err != nil {
				return err
			}
			checkRestart()
		}
	}
	return nil
}

// decodeBlock decodes one 8x8 block of the scan into the coefficient buffer.
func (d *Decoder) decodeBlock(r *bitReader, sc scanComponent, bx, by, ss, se, ah, al int) error {
	c := sc.c
	if bx >= c.blocksPerLine || by >= c.blocksPerCol {
		return nil
	}
	coeffs := c.coeffs[(by*c.blocksPerLine+bx)*blockSize : (by*c.blocksPerLine+bx+1)*blockSize]

	if !d.progressive {
		return d.decodeBaselineBlock(r, sc, coeffs)
	}

	if ss == 0 {
		if ah == 0 {
			// DC first pass.
			s, err := r.decodeHuffman(d.huffDC[sc.td])
			if err != nil {
				return err
			}
			diff := r.receiveExtend(s)
			c.dcPred += diff
			coeffs[0] = c.dcPred << uint(al)
		} else {
			// DC refinement.
			if r.readBit() != 0 {
				coeffs[0] |= 1 << uint(al)
			}
		}
		return nil
	}

	if ah == 0 {
		return d.decodeACFirst(r, sc, coeffs, ss, se, al)
	}
	return d.decodeACRefine(r, sc, coeffs, ss, se, al)
}

func (d *Decoder) decodeBaselineBlock(r *bitReader, sc scanComponent, coeffs []int32) error {
	c := sc.c

	// DC coefficient.
	s, err := r.decodeHuffman(d.huffDC[sc.td])
	if err != nil {
		return err
	}
	diff := r.receiveExtend(s)
	c.dcPred += diff
	coeffs[0] = c.dcPred

	// AC coefficients.
	for k := 1; k < blockSize; {
		rs, err := r.decodeHuffman(d.huffAC[sc.ta])
		if err != nil {
			return err
		}
		s := rs & 0x0f
		run := int(rs >> 4)
		if s == 0 {
			if run != 15 {
				// EOB
				break
			}
			k += 16
			continue
		}
		k += run
		if k >= blockSize {
			return xerrors.New("jpeg: AC coefficient overflow")
		}
		coeffs[zigzag[k]] = r.receiveExtend(s)
		k++
	}
	return nil
}

func (d *Decoder) decodeACFirst(r *bitReader, sc scanComponent, coeffs []int32, ss, se, al int) error {
	c := sc.c
	if c.eobRun > 0 {
		c.eobRun--
		return nil
	}

	for k := ss; k <= se; {
		rs, err := r.decodeHuffman(d.huffAC[sc.ta])
		if err != nil {
			return err
		}
		s := rs & 0x0f
		run := int(rs >> 4)
		if s == 0 {
			if run < 15 {
				c.eobRun = (1 << uint(run)) - 1
				if run > 0 {
					c.eobRun += int(r.readBits(run))
				}
				break
			}
			k += 16
			continue
		}
		k += run
		if k > se {
			return xerrors.New("jpeg: AC band overflow")
		}
		coeffs[zigzag[k]] = r.receiveExtend(s) << uint(al)
		k++
	}
	return nil
}

func (d *Decoder) decodeACRefine(r *bitReader, sc scanComponent, coeffs []int32, ss, se, al int) error {
	c := sc.c
	plusOne := int32(1) << uint(al)
	minusOne := int32(-1) << uint(al)

	k := ss
	if c.eobRun == 0 {
		for k <= se {
			rs, err := r.decodeHuffman(d.huffAC[sc.ta])
			if err != nil {
				return err
			}
			s := rs & 0x0f
			run := int(rs >> 4)
			var value int32

			if s == 0 {
				if run < 15 {
					c.eobRun = (1 << uint(run))
					if run > 0 {
						c.eobRun += int(r.readBits(run))
					}
					break
				}
				// run == 15: skip 16 zero coefficients.
			} else {
				if s != 1 {
					return xerrors.New("jpeg: bad AC refinement size")
				}
				if r.readBit() != 0 {
					value = plusOne
				} else {
					value = minusOne
				}
			}

			for k <= se {
				z := zigzag[k]
				if coeffs[z] != 0 {
					// Correction bit for an already nonzero coefficient.
					if r.readBit() != 0 && coeffs[z]&plusOne == 0 {
						if coeffs[z] >= 0 {
							coeffs[z] += plusOne
						} else {
							coeffs[z] += minusOne
						}
					}
				} else {
					if run == 0 {
						if value != 0 {
							coeffs[z] = value
						}
						k++
						break
					}
					run--
				}
				k++
			}
		}
	}

	if c.eobRun > 0 {
		// Drain correction bits to the end of the band.
		for ; k <= se; k++ {
			z := zigzag[k]
			if coeffs[z] != 0 {
				if r.readBit() != 0 && coeffs[z]&plusOne == 0 {
					if coeffs[z] >= 0 {
						coeffs[z] += plusOne
					} else {
						coeffs[z] += minusOne
					}
				}
			}
		}
		c.eobRun--
	}
	return nil
}
