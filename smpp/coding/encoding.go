package coding

import (
	"fmt"
	"unicode/utf8"

	smppcoding "github.com/M2MGateway/go-smpp/coding"
)

// Encoding is the text encoding chosen for a whole message.
type Encoding uint8

const (
	GSM7 Encoding = iota
	UCS2
)

func (e Encoding) String() string {
	if e == UCS2 {
		return "ucs2"
	}
	return "gsm7"
}

// DataCoding returns the SMPP data_coding value for the encoding.
func (e Encoding) DataCoding() smppcoding.DataCoding {
	if e == UCS2 {
		return smppcoding.UCS2Coding
	}
	return smppcoding.GSM7BitCoding
}

// unitBits is the size of one capacity unit: a septet or a UTF-16 code unit.
func (e Encoding) unitBits() int {
	if e == UCS2 {
		return 16
	}
	return 7
}

// InvalidByteError reports a byte that is not part of a valid UTF-8 sequence.
type InvalidByteError struct {
	Offset int
	Byte   byte
}

func (e *InvalidByteError) Error() string {
	return fmt.Sprintf("coding: invalid utf-8 byte 0x%02X at offset %d", e.Byte, e.Offset)
}

// Detect scans every rune of text and returns GSM7 unless at least one rune
// is outside both GSM 03.38 tables.
func Detect(text string) (Encoding, error) {
	enc := GSM7
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if r == utf8.RuneError && size == 1 {
			return enc, &InvalidByteError{Offset: i, Byte: text[i]}
		}
		if Classify(r).RequiresUCS2() {
			enc = UCS2
		}
		i += size
	}
	return enc, nil
}
