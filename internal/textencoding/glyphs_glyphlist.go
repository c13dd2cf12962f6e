/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package textencoding

import (
	"strconv"
	"strings"
)

// GlyphToRune returns the rune corresponding to glyph name `glyph`, consulting
// the Adobe glyph list first and falling back to the uniXXXX / uXXXX[XX]
// naming conventions.
func GlyphToRune(glyph GlyphName) (rune, bool) {
	if r, ok := glyphlistGlyphToRuneMap[glyph]; ok {
		return r, true
	}

	name := string(glyph)
	// AGL algorithmic names: uniXXXX (4 hex digits) and uXXXX..uXXXXXX.
	if strings.HasPrefix(name, "uni") && len(name) == 7 {
		if v, err := strconv.ParseUint(name[3:], 16, 32); err == nil {
			return rune(v), true
		}
	}
	if strings.HasPrefix(name, "u") && len(name) >= 5 && len(name) <= 7 {
		if v, err := strconv.ParseUint(name[1:], 16, 32); err == nil {
			return rune(v), true
		}
	}
	// Suffixed names such as a.alt01 resolve through the part before the dot.
	if idx := strings.IndexByte(name, '.'); idx > 0 {
		return GlyphToRune(GlyphName(name[:idx]))
	}
	return 0, false
}

// RuneToGlyph returns the glyph name corresponding to rune `r`.
func RuneToGlyph(r rune) (GlyphName, bool) {
	glyph, ok := glyphlistRuneToGlyphMap[r]
	return glyph, ok
}

var glyphlistRuneToGlyphMap = func() map[rune]GlyphName {
	m := make(map[rune]GlyphName, len(glyphlistGlyphToRuneMap))
	for glyph, r := range glyphlistGlyphToRuneMap {
		if _, has := m[r]; !has {
			m[r] = glyph
		}
	}
	return m
}()

// glyphlistGlyphToRuneMap is the portion of the Adobe glyph list covered by
// the builtin simple encodings.
var glyphlistGlyphToRuneMap = map[GlyphName]rune{
	"A": 'A', "B": 'B', "C": 'C', "D": 'D', "E": 'E', "F": 'F', "G": 'G',
	"H": 'H', "I": 'I', "J": 'J', "K": 'K', "L": 'L', "M": 'M', "N": 'N',
	"O": 'O', "P": 'P', "Q": 'Q', "R": 'R', "S": 'S', "T": 'T', "U": 'U',
	"V": 'V', "W": 'W', "X": 'X', "Y": 'Y', "Z": 'Z',
	"a": 'a', "b": 'b', "c": 'c', "d": 'd', "e": 'e', "f": 'f', "g": 'g',
	"h": 'h', "i": 'i', "j": 'j', "k": 'k', "l": 'l', "m": 'm', "n": 'n',
	"o": 'o', "p": 'p', "q": 'q', "r": 'r', "s": 's', "t": 't', "u": 'u',
	"v": 'v', "w": 'w', "x": 'x', "y": 'y', "z": 'z',
	"zero": '0', "one": '1', "two": '2', "three": '3', "four": '4',
	"five": '5', "six": '6', "seven": '7', "eight": '8', "nine": '9',

	"space":        ' ',
	"exclam":       '!',
	"quotedbl":     '"',
	"numbersign":   '#',
	"dollar":       '$',
	"percent":      '%',
	"ampersand":    '&',
	"quotesingle":  '\'',
	"parenleft":    '(',
	"parenright":   ')',
	"asterisk":     '*',
	"plus":         '+',
	"comma":        ',',
	"hyphen":       '-',
	"period":       '.',
	"slash":        '/',
	"colon":        ':',
	"semicolon":    ';',
	"less":         '<',
	"equal":        '=',
	"greater":      '>',
	"question":     '?',
	"at":           '@',
	"bracketleft":  '[',
	"backslash":    '\\',
	"bracketright": ']',
	"asciicircum":  '^',
	"underscore":   '_',
	"grave":        '`',
	"braceleft":    '{',
	"bar":          '|',
	"braceright":   '}',
	"asciitilde":   '~',

	"quoteleft":      '‘',
	"quoteright":     '’',
	"quotedblleft":   '“',
	"quotedblright":  '”',
	"quotesinglbase": '‚',
	"quotedblbase":   '„',
	"endash":         '–',
	"emdash":         '—',
	"bullet":         '•',
	"ellipsis":       '…',
	"dagger":         '†',
	"daggerdbl":      '‡',
	"perthousand":    '‰',
	"guilsinglleft":  '‹',
	"guilsinglright": '›',
	"fraction":       '⁄',
	"Euro":           '€',
	"trademark":      '™',
	"minus":          '−',
	"fi":             'ﬁ',
	"fl":             'ﬂ',
	"florin":         'ƒ',
	"circumflex":     'ˆ',
	"caron":          'ˇ',
	"breve":          '˘',
	"dotaccent":      '˙',
	"ring":           '˚',
	"ogonek":         '˛',
	"tilde":          '˜',
	"hungarumlaut":   '˝',
	"dotlessi":       'ı',
	"Lslash":         'Ł',
	"lslash":         'ł',
	"OE":             'Œ',
	"oe":             'œ',
	"Scaron":         'Š',
	"scaron":         'š',
	"Ydieresis":      'Ÿ',
	"Zcaron":         'Ž',
	"zcaron":         'ž',

	"exclamdown":     '¡',
	"cent":           '¢',
	"sterling":       '£',
	"currency":       '¤',
	"yen":            '¥',
	"brokenbar":      '¦',
	"section":        '§',
	"dieresis":       '¨',
	"copyright":      '©',
	"ordfeminine":    'ª',
	"guillemotleft":  '«',
	"logicalnot":     '¬',
	"registered":     '®',
	"macron":         '¯',
	"degree":         '°',
	"plusminus":      '±',
	"twosuperior":    '²',
	"threesuperior":  '³',
	"acute":          '´',
	"mu":             'µ',
	"paragraph":      '¶',
	"periodcentered": '·',
	"cedilla":        '¸',
	"onesuperior":    '¹',
	"ordmasculine":   'º',
	"guillemotright": '»',
	"onequarter":     '¼',
	"onehalf":        '½',
	"threequarters":  '¾',
	"questiondown":   '¿',
	"Agrave":         'À',
	"Aacute":         'Á',
	"Acircumflex":    'Â',
	"Atilde":         'Ã',
	"Adieresis":      'Ä',
	"Aring":          'Å',
	"AE":             'Æ',
	"Ccedilla":       'Ç',
	"Egrave":         'È',
	"Eacute":         'É',
	"Ecircumflex":    'Ê',
	"Edieresis":      'Ë',
	"Igrave":         'Ì',
	"Iacute":         'Í',
	"Icircumflex":    'Î',
	"Idieresis":      'Ï',
	"Eth":            'Ð',
	"Ntilde":         'Ñ',
	"Ograve":         'Ò',
	"Oacute":         'Ó',
	"Ocircumflex":    'Ô',
	"Otilde":         'Õ',
	"Odieresis":      'Ö',
	"multiply":       '×',
	"Oslash":         'Ø',
	"Ugrave":         'Ù',
	"Uacute":         'Ú',
	"Ucircumflex":    'Û',
	"Udieresis":      'Ü',
	"Yacute":         'Ý',
	"Thorn":          'Þ',
	"germandbls":     'ß',
	"agrave":         'à',
	"aacute":         'á',
	"acircumflex":    'â',
	"atilde":         'ã',
	"adieresis":      'ä',
	"aring":          'å',
	"ae":             'æ',
	"ccedilla":       'ç',
	"egrave":         'è',
	"eacute":         'é',
	"ecircumflex":    'ê',
	"edieresis":      'ë',
	"igrave":         'ì',
	"iacute":         'í',
	"icircumflex":    'î',
	"idieresis":      'ï',
	"eth":            'ð',
	"ntilde":         'ñ',
	"ograve":         'ò',
	"oacute":         'ó',
	"ocircumflex":    'ô',
	"otilde":         'õ',
	"odieresis":      'ö',
	"divide":         '÷',
	"oslash":         'ø',
	"ugrave":         'ù',
	"uacute":         'ú',
	"ucircumflex":    'û',
	"udieresis":      'ü',
	"yacute":         'ý',
	"thorn":          'þ',
	"ydieresis":      'ÿ',
}
