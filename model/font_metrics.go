/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package model

import (
	"github.com/pdfrast/pdfrast/internal/textencoding"
)

// StdFontName is a name of one of the standard 14 fonts.
type StdFontName string

// Names of the standard 14 fonts.
const (
	CourierName              StdFontName = "Courier"
	CourierBoldName          StdFontName = "Courier-Bold"
	CourierObliqueName       StdFontName = "Courier-Oblique"
	CourierBoldObliqueName   StdFontName = "Courier-BoldOblique"
	HelveticaName            StdFontName = "Helvetica"
	HelveticaBoldName        StdFontName = "Helvetica-Bold"
	HelveticaObliqueName     StdFontName = "Helvetica-Oblique"
	HelveticaBoldObliqueName StdFontName = "Helvetica-BoldOblique"
	TimesRomanName           StdFontName = "Times-Roman"
	TimesBoldName            StdFontName = "Times-Bold"
	TimesItalicName          StdFontName = "Times-Italic"
	TimesBoldItalicName      StdFontName = "Times-BoldItalic"
	SymbolName               StdFontName = "Symbol"
	ZapfDingbatsName         StdFontName = "ZapfDingbats"
)

// std14Metrics maps standard font names to builtin glyph widths in 1/1000
// text space units. Only the regular Courier, Helvetica and Times-Roman
// tables are carried; every bold, oblique and italic cut uses its family's
// regular table. Symbol and ZapfDingbats have no entry.
var std14Metrics = map[StdFontName]map[textencoding.GlyphName]float64{
	CourierName:            courierWidths,
	CourierBoldName:        courierWidths,
	CourierObliqueName:     courierWidths,
	CourierBoldObliqueName: courierWidths,
	HelveticaName:          helveticaWidths,
	HelveticaObliqueName:   helveticaWidths,
	TimesRomanName:         timesRomanWidths,
	TimesItalicName:        timesRomanWidths,
	TimesBoldName:          timesRomanWidths,
	TimesBoldItalicName:    timesRomanWidths,
	HelveticaBoldName:      helveticaWidths,
	HelveticaBoldObliqueName: helveticaWidths,
}

// courierWidths: every Courier glyph is 600 units wide.
var courierWidths = func() map[textencoding.GlyphName]float64 {
	m := make(map[textencoding.GlyphName]float64, len(latinGlyphOrder))
	for _, glyph := range latinGlyphOrder {
		m[glyph] = 600
	}
	return m
}()

// latinGlyphOrder lists the printable Latin glyph names shared by the width
// tables, in code order of the standard encoding.
var latinGlyphOrder = []textencoding.GlyphName{
	"space", "exclam", "quotedbl", "numbersign", "dollar", "percent",
	"ampersand", "quotesingle", "quoteright", "parenleft", "parenright",
	"asterisk", "plus", "comma", "hyphen", "period", "slash",
	"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine",
	"colon", "semicolon", "less", "equal", "greater", "question", "at",
	"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L", "M",
	"N", "O", "P", "Q", "R", "S", "T", "U", "V", "W", "X", "Y", "Z",
	"bracketleft", "backslash", "bracketright", "asciicircum", "underscore",
	"grave", "quoteleft",
	"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l", "m",
	"n", "o", "p", "q", "r", "s", "t", "u", "v", "w", "x", "y", "z",
	"braceleft", "bar", "braceright", "asciitilde",
}

var helveticaWidths = map[textencoding.GlyphName]float64{
	"space": 278, "exclam": 278, "quotedbl": 355, "numbersign": 556,
	"dollar": 556, "percent": 889, "ampersand": 667, "quotesingle": 191,
	"quoteright": 222, "parenleft": 333, "parenright": 333, "asterisk": 389,
	"plus": 584, "comma": 278, "hyphen": 333, "period": 278, "slash": 278,
	"zero": 556, "one": 556, "two": 556, "three": 556, "four": 556,
	"five": 556, "six": 556, "seven": 556, "eight": 556, "nine": 556,
	"colon": 278, "semicolon": 278, "less": 584, "equal": 584,
	"greater": 584, "question": 556, "at": 1015,
	"A": 667, "B": 667, "C": 722, "D": 722, "E": 667, "F": 611, "G": 778,
	"H": 722, "I": 278, "J": 500, "K": 667, "L": 556, "M": 833, "N": 722,
	"O": 778, "P": 667, "Q": 778, "R": 722, "S": 667, "T": 611, "U": 722,
	"V": 667, "W": 944, "X": 667, "Y": 667, "Z": 611,
	"bracketleft": 278, "backslash": 278, "bracketright": 278,
	"asciicircum": 469, "underscore": 556, "grave": 333, "quoteleft": 222,
	"a": 556, "b": 556, "c": 500, "d": 556, "e": 556, "f": 278, "g": 556,
	"h": 556, "i": 222, "j": 222, "k": 500, "l": 222, "m": 833, "n": 556,
	"o": 556, "p": 556, "q": 556, "r": 333, "s": 500, "t": 278, "u": 556,
	"v": 500, "w": 722, "x": 500, "y": 500, "z": 500,
	"braceleft": 334, "bar": 260, "braceright": 334, "asciitilde": 584,
}

var timesRomanWidths = map[textencoding.GlyphName]float64{
	"space": 250, "exclam": 333, "quotedbl": 408, "numbersign": 500,
	"dollar": 500, "percent": 833, "ampersand": 778, "quotesingle": 180,
	"quoteright": 333, "parenleft": 333, "parenright": 333, "asterisk": 500,
	"plus": 564, "comma": 250, "hyphen": 333, "period": 250, "slash": 278,
	"zero": 500, "one": 500, "two": 500, "three": 500, "four": 500,
	"five": 500, "six": 500, "seven": 500, "eight": 500, "nine": 500,
	"colon": 278, "semicolon": 278, "less": 564, "equal": 564,
	"greater": 564, "question": 444, "at": 921,
	"A": 722, "B": 667, "C": 667, "D": 722, "E": 611, "F": 556, "G": 722,
	"H": 722, "I": 333, "J": 389, "K": 722, "L": 611, "M": 889, "N": 722,
	"O": 722, "P": 556, "Q": 722, "R": 667, "S": 556, "T": 611, "U": 722,
	"V": 722, "W": 944, "X": 722, "Y": 722, "Z": 611,
	"bracketleft": 333, "backslash": 278, "bracketright": 333,
	"asciicircum": 469, "underscore": 500, "grave": 333, "quoteleft": 333,
	"a": 444, "b": 500, "c": 444, "d": 500, "e": 444, "f": 333, "g": 500,
	"h": 500, "i": 278, "j": 278, "k": 500, "l": 278, "m": 778, "n": 500,
	"o": 500, "p": 500, "q": 500, "r": 333, "s": 389, "t": 278, "u": 500,
	"v": 500, "w": 722, "x": 500, "y": 500, "z": 444,
	"braceleft": 480, "bar": 200, "braceright": 480, "asciitilde": 541,
}
