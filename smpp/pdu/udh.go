package pdu

import (
	"fmt"
)

const (
	udhLength       = 0x05
	ieiConcat8Bit   = 0x00
	ieiConcatLength = 0x03
)

// ConcatHeader is the 8-bit reference concatenation information element
// carried in the user data header of every part of a multi-part message.
type ConcatHeader struct {
	Reference uint8
	Total     uint8
	Sequence  uint8
}

// NewConcatHeader validates the part numbering and builds a header.
// sequence is 1-based.
func NewConcatHeader(reference uint8, total, sequence int) (*ConcatHeader, error) {
	if total > 255 {
		return nil, ErrMultipartTooMuch
	}
	if total < 1 || sequence < 1 || sequence > total {
		return nil, fmt.Errorf("%w: part %d of %d", ErrInvalidSequence, sequence, total)
	}
	return &ConcatHeader{
		Reference: reference,
		Total:     uint8(total),
		Sequence:  uint8(sequence),
	}, nil
}

// Bytes returns the 6-octet UDH: 05 00 03 ref total seq.
func (h ConcatHeader) Bytes() []byte {
	return []byte{udhLength, ieiConcat8Bit, ieiConcatLength, h.Reference, h.Total, h.Sequence}
}

// ParseConcatHeader reads a header produced by Bytes.
func ParseConcatHeader(b []byte) (ConcatHeader, error) {
	if len(b) < 6 || b[0] != udhLength || b[1] != ieiConcat8Bit || b[2] != ieiConcatLength {
		return ConcatHeader{}, ErrInvalidUDH
	}
	h := ConcatHeader{Reference: b[3], Total: b[4], Sequence: b[5]}
	if h.Total == 0 || h.Sequence == 0 || h.Sequence > h.Total {
		return ConcatHeader{}, fmt.Errorf("%w: part %d of %d", ErrInvalidSequence, h.Sequence, h.Total)
	}
	return h, nil
}
