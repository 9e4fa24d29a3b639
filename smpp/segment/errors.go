package segment

import (
	"errors"
	"fmt"
)

//goland:noinspection ALL
var (
	ErrEmptyMessage         = errors.New("segment: message cannot be empty")
	ErrTooManySegments      = errors.New("segment: message needs more than 255 parts")
	ErrUnsupportedCharacter = errors.New("segment: unsupported character")
	ErrInternalEncoding     = errors.New("segment: internal encoding error")
)

// ValidationError is a request the caller has to fix before it can be
// segmented.
type ValidationError struct {
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// UnsupportedCharacterError is input that neither GSM7 nor UCS2 can carry
// back unchanged.
type UnsupportedCharacterError struct {
	Offset int
	Byte   byte
}

func (e *UnsupportedCharacterError) Error() string {
	return fmt.Sprintf("unsupported character: invalid byte 0x%02X at offset %d", e.Byte, e.Offset)
}

func (e *UnsupportedCharacterError) Is(target error) bool {
	return target == ErrUnsupportedCharacter
}

// InternalEncodingError is a broken segmentation invariant. It is a bug, never
// the caller's fault.
type InternalEncodingError struct {
	Detail string
}

func (e *InternalEncodingError) Error() string {
	return "internal encoding error: " + e.Detail
}

func (e *InternalEncodingError) Is(target error) bool {
	return target == ErrInternalEncoding
}

// IsValidation reports whether err is the caller's fault.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve) || errors.Is(err, ErrUnsupportedCharacter)
}
