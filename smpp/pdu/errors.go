package pdu

import (
	"errors"
)

//goland:noinspection ALL
var (
	ErrInvalidUDH        = errors.New("pdu: invalid concatenation header")
	ErrInvalidSequence   = errors.New("pdu: concatenation sequence out of range")
	ErrMultipartTooMuch  = errors.New("pdu: multipart sms too much (max 255 segments)")
	ErrUnknownDataCoding = errors.New("pdu: unknown data coding")
	ErrUnencodableGSM7   = errors.New("pdu: character not in gsm7 alphabet")
	ErrInvalidGSM7Code   = errors.New("pdu: invalid gsm7 code")
	ErrEscapeAtEnd       = errors.New("pdu: gsm7 escape at end of input")
)
