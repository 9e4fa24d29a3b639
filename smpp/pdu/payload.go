package pdu

import (
	"fmt"

	"golang.org/x/text/encoding"

	"sms-splitter/smpp/coding"
)

var (
	// ucs2 is the text codec behind data_coding 0x08 (UTF-16BE, no BOM).
	ucs2 encoding.Encoding = coding.UCS2.DataCoding().Encoding()
	// gsm7Packed packs septets eight to seven octets, padding with CR when
	// the last octet would otherwise end in seven spare bits.
	gsm7Packed encoding.Encoding = coding.GSM7.DataCoding().Encoding()
)

// EncodeUCS2 encodes text as big-endian UTF-16. Runes above U+FFFF become
// surrogate pairs on the wire.
func EncodeUCS2(text string) ([]byte, error) {
	out, err := ucs2.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("pdu: ucs2 encode: %w", err)
	}
	return out, nil
}

// DecodeUCS2 decodes big-endian UTF-16 octets.
func DecodeUCS2(b []byte) (string, error) {
	out, err := ucs2.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("pdu: ucs2 decode: %w", err)
	}
	return string(out), nil
}

// PackGSM7 encodes text as packed 7-bit GSM, the form used on the air
// interface and by SMSCs that do not accept unpacked septets.
func PackGSM7(text string) ([]byte, error) {
	out, err := gsm7Packed.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnencodableGSM7, err)
	}
	return out, nil
}

// UnpackGSM7 decodes packed 7-bit GSM. A trailing CR pad is dropped.
func UnpackGSM7(b []byte) (string, error) {
	out, err := gsm7Packed.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidGSM7Code, err)
	}
	return string(out), nil
}

// Payload returns the short_message octets for one segment's text.
func Payload(text string, enc coding.Encoding) ([]byte, error) {
	switch enc {
	case coding.GSM7:
		return EncodeGSM7(text)
	case coding.UCS2:
		return EncodeUCS2(text)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownDataCoding, enc)
	}
}

// DecodePayload is the inverse of Payload.
func DecodePayload(b []byte, enc coding.Encoding) (string, error) {
	switch enc {
	case coding.GSM7:
		return DecodeGSM7(b)
	case coding.UCS2:
		return DecodeUCS2(b)
	default:
		return "", fmt.Errorf("%w: %d", ErrUnknownDataCoding, enc)
	}
}
