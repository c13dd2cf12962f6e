/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package ccittfax

// code is a single Huffman code from the CCITT recommendations. Code holds
// the bits left aligned within the uint16.
type code struct {
	Code        uint16
	BitsWritten int
}

func mkCode(bits uint16, nbits int) code {
	return code{Code: bits << uint(16-nbits), BitsWritten: nbits}
}

// Control codes.
var (
	eol  = mkCode(0x0001, 12) // 000000000001
	eol0 = mkCode(0x0002, 13) // 0000000000010
	eol1 = mkCode(0x0003, 13) // 0000000000011
)

// Two dimensional mode codes.
var (
	p   = mkCode(0x1, 4) // 0001 pass
	h   = mkCode(0x1, 3) // 001 horizontal
	v0  = mkCode(0x1, 1) // 1
	v1r = mkCode(0x3, 3) // 011
	v2r = mkCode(0x3, 6) // 000011
	v3r = mkCode(0x3, 7) // 0000011
	v1l = mkCode(0x2, 3) // 010
	v2l = mkCode(0x2, 6) // 000010
	v3l = mkCode(0x2, 7) // 0000010
)

// wTerms maps white run lengths 0..63 to their terminating codes.
var wTerms = map[int]code{
	0: mkCode(0x35, 8), 1: mkCode(0x07, 6), 2: mkCode(0x07, 4), 3: mkCode(0x08, 4),
	4: mkCode(0x0b, 4), 5: mkCode(0x0c, 4), 6: mkCode(0x0e, 4), 7: mkCode(0x0f, 4),
	8: mkCode(0x13, 5), 9: mkCode(0x14, 5), 10: mkCode(0x07, 5), 11: mkCode(0x08, 5),
	12: mkCode(0x08, 6), 13: mkCode(0x03, 6), 14: mkCode(0x34, 6), 15: mkCode(0x35, 6),
	16: mkCode(0x2a, 6), 17: mkCode(0x2b, 6), 18: mkCode(0x27, 7), 19: mkCode(0x0c, 7),
	20: mkCode(0x08, 7), 21: mkCode(0x17, 7), 22: mkCode(0x03, 7), 23: mkCode(0x04, 7),
	24: mkCode(0x28, 7), 25: mkCode(0x2b, 7), 26: mkCode(0x13, 7), 27: mkCode(0x24, 7),
	28: mkCode(0x18, 7), 29: mkCode(0x02, 8), 30: mkCode(0x03, 8), 31: mkCode(0x1a, 8),
	32: mkCode(0x1b, 8), 33: mkCode(0x12, 8), 34: mkCode(0x13, 8), 35: mkCode(0x14, 8),
	36: mkCode(0x15, 8), 37: mkCode(0x16, 8), 38: mkCode(0x17, 8), 39: mkCode(0x28, 8),
	40: mkCode(0x29, 8), 41: mkCode(0x2a, 8), 42: mkCode(0x2b, 8), 43: mkCode(0x2c, 8),
	44: mkCode(0x2d, 8), 45: mkCode(0x04, 8), 46: mkCode(0x05, 8), 47: mkCode(0x0a, 8),
	48: mkCode(0x0b, 8), 49: mkCode(0x52, 8), 50: mkCode(0x53, 8), 51: mkCode(0x54, 8),
	52: mkCode(0x55, 8), 53: mkCode(0x24, 8), 54: mkCode(0x25, 8), 55: mkCode(0x58, 8),
	56: mkCode(0x59, 8), 57: mkCode(0x5a, 8), 58: mkCode(0x5b, 8), 59: mkCode(0x4a, 8),
	60: mkCode(0x4b, 8), 61: mkCode(0x32, 8), 62: mkCode(0x33, 8), 63: mkCode(0x34, 8),
}

// wMakeups maps white makeup run lengths 64..1728 to their codes.
var wMakeups = map[int]code{
	64: mkCode(0x1b, 5), 128: mkCode(0x12, 5), 192: mkCode(0x17, 6),
	256: mkCode(0x37, 7), 320: mkCode(0x36, 8), 384: mkCode(0x37, 8),
	448: mkCode(0x64, 8), 512: mkCode(0x65, 8), 576: mkCode(0x68, 8),
	640: mkCode(0x67, 8), 704: mkCode(0xcc, 9), 768: mkCode(0xcd, 9),
	832: mkCode(0xd2, 9), 896: mkCode(0xd3, 9), 960: mkCode(0xd4, 9),
	1024: mkCode(0xd5, 9), 1088: mkCode(0xd6, 9), 1152: mkCode(0xd7, 9),
	1216: mkCode(0xd8, 9), 1280: mkCode(0xd9, 9), 1344: mkCode(0xda, 9),
	1408: mkCode(0xdb, 9), 1472: mkCode(0x98, 9), 1536: mkCode(0x99, 9),
	1600: mkCode(0x9a, 9), 1664: mkCode(0x18, 6), 1728: mkCode(0x9b, 9),
}

// bTerms maps black run lengths 0..63 to their terminating codes.
var bTerms = map[int]code{
	0: mkCode(0x37, 10), 1: mkCode(0x02, 3), 2: mkCode(0x03, 2), 3: mkCode(0x02, 2),
	4: mkCode(0x03, 3), 5: mkCode(0x03, 4), 6: mkCode(0x02, 4), 7: mkCode(0x03, 5),
	8: mkCode(0x05, 6), 9: mkCode(0x04, 6), 10: mkCode(0x04, 7), 11: mkCode(0x05, 7),
	12: mkCode(0x07, 7), 13: mkCode(0x04, 8), 14: mkCode(0x07, 8), 15: mkCode(0x18, 9),
	16: mkCode(0x17, 10), 17: mkCode(0x18, 10), 18: mkCode(0x08, 10), 19: mkCode(0x67, 11),
	20: mkCode(0x68, 11), 21: mkCode(0x6c, 11), 22: mkCode(0x37, 11), 23: mkCode(0x28, 11),
	24: mkCode(0x17, 11), 25: mkCode(0x18, 11), 26: mkCode(0xca, 12), 27: mkCode(0xcb, 12),
	28: mkCode(0xcc, 12), 29: mkCode(0xcd, 12), 30: mkCode(0x68, 12), 31: mkCode(0x69, 12),
	32: mkCode(0x6a, 12), 33: mkCode(0x6b, 12), 34: mkCode(0xd2, 12), 35: mkCode(0xd3, 12),
	36: mkCode(0xd4, 12), 37: mkCode(0xd5, 12), 38: mkCode(0xd6, 12), 39: mkCode(0xd7, 12),
	40: mkCode(0x6c, 12), 41: mkCode(0x6d, 12), 42: mkCode(0xda, 12), 43: mkCode(0xdb, 12),
	44: mkCode(0x54, 12), 45: mkCode(0x55, 12), 46: mkCode(0x56, 12), 47: mkCode(0x57, 12),
	48: mkCode(0x64, 12), 49: mkCode(0x65, 12), 50: mkCode(0x52, 12), 51: mkCode(0x53, 12),
	52: mkCode(0x24, 12), 53: mkCode(0x37, 12), 54: mkCode(0x38, 12), 55: mkCode(0x27, 12),
	56: mkCode(0x28, 12), 57: mkCode(0x58, 12), 58: mkCode(0x59, 12), 59: mkCode(0x2b, 12),
	60: mkCode(0x2c, 12), 61: mkCode(0x5a, 12), 62: mkCode(0x66, 12), 63: mkCode(0x67, 12),
}

// bMakeups maps black makeup run lengths 64..1728 to their codes.
var bMakeups = map[int]code{
	64: mkCode(0x0f, 10), 128: mkCode(0xc8, 12), 192: mkCode(0xc9, 12),
	256: mkCode(0x5b, 12), 320: mkCode(0x33, 12), 384: mkCode(0x34, 12),
	448: mkCode(0x35, 12), 512: mkCode(0x6c, 13), 576: mkCode(0x6d, 13),
	640: mkCode(0x4a, 13), 704: mkCode(0x4b, 13), 768: mkCode(0x4c, 13),
	832: mkCode(0x4d, 13), 896: mkCode(0x72, 13), 960: mkCode(0x73, 13),
	1024: mkCode(0x74, 13), 1088: mkCode(0x75, 13), 1152: mkCode(0x76, 13),
	1216: mkCode(0x77, 13), 1280: mkCode(0x52, 13), 1344: mkCode(0x53, 13),
	1408: mkCode(0x54, 13), 1472: mkCode(0x55, 13), 1536: mkCode(0x5a, 13),
	1600: mkCode(0x5b, 13), 1664: mkCode(0x64, 13), 1728: mkCode(0x65, 13),
}

// commonMakeups maps the color independent extended makeup run lengths
// 1792..2560 to their codes.
var commonMakeups = map[int]code{
	1792: mkCode(0x08, 11), 1856: mkCode(0x0c, 11), 1920: mkCode(0x0d, 11),
	1984: mkCode(0x12, 12), 2048: mkCode(0x13, 12), 2112: mkCode(0x14, 12),
	2176: mkCode(0x15, 12), 2240: mkCode(0x16, 12), 2304: mkCode(0x17, 12),
	2368: mkCode(0x1c, 12), 2432: mkCode(0x1d, 12), 2496: mkCode(0x1e, 12),
	2560: mkCode(0x1f, 12),
}
