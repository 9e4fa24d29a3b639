package coding

// escape prefixes a code from the extension table.
const escape byte = 0x1B

// gsm7Default maps GSM 03.38 default alphabet codes to runes.
var gsm7Default = map[byte]rune{
	0x00: '@',
	0x01: '£',
	0x02: '$',
	0x03: '¥',
	0x04: 'è',
	0x05: 'é',
	0x06: 'ù',
	0x07: 'ì',
	0x08: 'ò',
	0x09: 'Ç',
	0x0A: '\n',
	0x0B: 'Ø',
	0x0C: 'ø',
	0x0D: '\r',
	0x0E: 'Å',
	0x0F: 'å',
	0x10: 'Δ',
	0x11: '_',
	0x12: 'Φ',
	0x13: 'Γ',
	0x14: 'Λ',
	0x15: 'Ω',
	0x16: 'Π',
	0x17: 'Ψ',
	0x18: 'Σ',
	0x19: 'Θ',
	0x1A: 'Ξ',
	// 0x1B is the escape to the extension table
	0x1C: 'Æ',
	0x1D: 'æ',
	0x1E: 'ß',
	0x1F: 'É',
	0x20: ' ',
	0x21: '!',
	0x22: '"',
	0x23: '#',
	0x24: '¤',
	0x25: '%',
	0x26: '&',
	0x27: '\'',
	0x28: '(',
	0x29: ')',
	0x2A: '*',
	0x2B: '+',
	0x2C: ',',
	0x2D: '-',
	0x2E: '.',
	0x2F: '/',
	0x30: '0',
	0x31: '1',
	0x32: '2',
	0x33: '3',
	0x34: '4',
	0x35: '5',
	0x36: '6',
	0x37: '7',
	0x38: '8',
	0x39: '9',
	0x3A: ':',
	0x3B: ';',
	0x3C: '<',
	0x3D: '=',
	0x3E: '>',
	0x3F: '?',
	0x40: '¡',
	0x41: 'A',
	0x42: 'B',
	0x43: 'C',
	0x44: 'D',
	0x45: 'E',
	0x46: 'F',
	0x47: 'G',
	0x48: 'H',
	0x49: 'I',
	0x4A: 'J',
	0x4B: 'K',
	0x4C: 'L',
	0x4D: 'M',
	0x4E: 'N',
	0x4F: 'O',
	0x50: 'P',
	0x51: 'Q',
	0x52: 'R',
	0x53: 'S',
	0x54: 'T',
	0x55: 'U',
	0x56: 'V',
	0x57: 'W',
	0x58: 'X',
	0x59: 'Y',
	0x5A: 'Z',
	0x5B: 'Ä',
	0x5C: 'Ö',
	0x5D: 'Ñ',
	0x5E: 'Ü',
	0x5F: '§',
	0x60: '¿',
	0x61: 'a',
	0x62: 'b',
	0x63: 'c',
	0x64: 'd',
	0x65: 'e',
	0x66: 'f',
	0x67: 'g',
	0x68: 'h',
	0x69: 'i',
	0x6A: 'j',
	0x6B: 'k',
	0x6C: 'l',
	0x6D: 'm',
	0x6E: 'n',
	0x6F: 'o',
	0x70: 'p',
	0x71: 'q',
	0x72: 'r',
	0x73: 's',
	0x74: 't',
	0x75: 'u',
	0x76: 'v',
	0x77: 'w',
	0x78: 'x',
	0x79: 'y',
	0x7A: 'z',
	0x7B: 'ä',
	0x7C: 'ö',
	0x7D: 'ñ',
	0x7E: 'ü',
	0x7F: 'à',
}

// gsm7Extended maps extension codes (following 0x1B) to runes.
var gsm7Extended = map[byte]rune{
	0x0A: '\f',
	0x14: '^',
	0x28: '{',
	0x29: '}',
	0x2F: '\\',
	0x3C: '[',
	0x3D: '~',
	0x3E: ']',
	0x40: '|',
	0x65: '€',
}

var (
	defaultCodes  = make(map[rune]byte, len(gsm7Default))
	extendedCodes = make(map[rune]byte, len(gsm7Extended))
)

func init() {
	for b, r := range gsm7Default {
		defaultCodes[r] = b
	}
	for b, r := range gsm7Extended {
		extendedCodes[r] = b
	}
}

// Class is the GSM 03.38 classification of a single rune.
type Class uint8

const (
	// Default runes are in the 7-bit default alphabet.
	Default Class = iota
	// Extended runes need the escape prefix and cost two septets.
	Extended
	// Unicode runes are in neither table and force UCS2 for the whole message.
	Unicode
)

func (c Class) String() string {
	switch c {
	case Default:
		return "default"
	case Extended:
		return "extended"
	default:
		return "unicode"
	}
}

// Cost returns the number of units the rune occupies under its own class.
// A Unicode rune costs a single UCS2 unit, even above U+FFFF.
func (c Class) Cost() int {
	if c == Extended {
		return 2
	}
	return 1
}

// RequiresUCS2 reports whether the rune cannot be sent in GSM7 at all.
func (c Class) RequiresUCS2() bool {
	return c == Unicode
}

// Classify returns the class of r.
func Classify(r rune) Class {
	if _, ok := defaultCodes[r]; ok {
		return Default
	}
	if _, ok := extendedCodes[r]; ok {
		return Extended
	}
	return Unicode
}

// Septets returns the unpacked GSM7 codes for r: one code for the default
// alphabet, the escape plus a code for the extension table.
func Septets(r rune) ([]byte, bool) {
	if b, ok := defaultCodes[r]; ok {
		return []byte{b}, true
	}
	if b, ok := extendedCodes[r]; ok {
		return []byte{escape, b}, true
	}
	return nil, false
}

// Lookup maps a GSM7 code back to its rune. extended selects the table
// reached through the escape prefix.
func Lookup(code byte, extended bool) (rune, bool) {
	if extended {
		r, ok := gsm7Extended[code]
		return r, ok
	}
	r, ok := gsm7Default[code]
	return r, ok
}

// IsEscape reports whether code is the extension table escape.
func IsEscape(code byte) bool {
	return code == escape
}
