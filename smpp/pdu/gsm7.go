package pdu

import (
	"fmt"
	"strings"

	"sms-splitter/smpp/coding"
)

// EncodeGSM7 encodes text as unpacked septets, one per octet, with the escape
// code in front of every extension table character. This is the form SMPP
// carries in short_message for data_coding 0.
func EncodeGSM7(text string) ([]byte, error) {
	out := make([]byte, 0, len(text))
	for i, r := range text {
		septets, ok := coding.Septets(r)
		if !ok {
			return nil, fmt.Errorf("%w: %q at offset %d", ErrUnencodableGSM7, r, i)
		}
		out = append(out, septets...)
	}
	return out, nil
}

// DecodeGSM7 decodes unpacked septets back into text.
func DecodeGSM7(septets []byte) (string, error) {
	var sb strings.Builder
	sb.Grow(len(septets))
	for i := 0; i < len(septets); i++ {
		b := septets[i]
		extended := false
		if coding.IsEscape(b) {
			if i+1 >= len(septets) {
				return "", ErrEscapeAtEnd
			}
			i++
			b = septets[i]
			extended = true
		}
		r, ok := coding.Lookup(b, extended)
		if !ok {
			return "", fmt.Errorf("%w: 0x%02X", ErrInvalidGSM7Code, b)
		}
		sb.WriteRune(r)
	}
	return sb.String(), nil
}
