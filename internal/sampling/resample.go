/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package sampling

// ResampleBytes resamples the raw data which is in 8-bit (byte) format as a different
// bit count per sample, up to 32 bits (uint32).
func ResampleBytes(data []byte, bitsPerSample int) []uint32 {
	var samples []uint32

	bitsLeftPerSample := bitsPerSample
	var sample uint32
	var remainder byte
	remainderBits := 0

	i := 0
	for i < len(data) {
		if remainderBits > 0 {
			// Start with the remainder.
			take := remainderBits
			if bitsLeftPerSample < take {
				take = bitsLeftPerSample
			}

			sample = (sample << uint(take)) | uint32(remainder>>uint(8-take))
			remainderBits -= take
			if remainderBits > 0 {
				remainder = remainder << uint(take)
			} else {
				remainder = 0
			}
			bitsLeftPerSample -= take

			if bitsLeftPerSample == 0 {
				samples = append(samples, sample)
				bitsLeftPerSample = bitsPerSample
				sample = 0
			}
		} else {
			// Take the next byte.
			b := data[i]
			i++

			take := 8
			if bitsLeftPerSample < take {
				take = bitsLeftPerSample
			}
			remainderBits = 8 - take
			sample = (sample << uint(take)) | uint32(b>>uint(remainderBits))

			if take < 8 {
				remainder = b << uint(take)
			}

			bitsLeftPerSample -= take
			if bitsLeftPerSample == 0 {
				samples = append(samples, sample)
				bitsLeftPerSample = bitsPerSample
				sample = 0
			}
		}
	}

	// Take care of remaining samples (if enough data available).
	for remainderBits >= bitsPerSample {
		take := remainderBits
		if bitsLeftPerSample < take {
			take = bitsLeftPerSample
		}

		sample = (sample << uint(take)) | uint32(remainder>>uint(8-take))
		remainderBits -= take
		if remainderBits > 0 {
			remainder = remainder << uint(take)
		} else {
			remainder = 0
		}
		bitsLeftPerSample -= take
		if bitsLeftPerSample == 0 {
			samples = append(samples, sample)
			bitsLeftPerSample = bitsPerSample
			sample = 0
		}
	}

	return samples
}
