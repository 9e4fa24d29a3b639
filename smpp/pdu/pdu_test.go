package pdu

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sms-splitter/smpp/coding"
)

func TestConcatHeaderBytes(t *testing.T) {
	h, err := NewConcatHeader(0x2A, 3, 2)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x05, 0x00, 0x03, 0x2A, 0x03, 0x02}, h.Bytes())

	parsed, err := ParseConcatHeader(h.Bytes())
	require.NoError(t, err)
	assert.Equal(t, *h, parsed)
}

func TestNewConcatHeaderValidation(t *testing.T) {
	_, err := NewConcatHeader(1, 256, 1)
	assert.ErrorIs(t, err, ErrMultipartTooMuch)

	_, err = NewConcatHeader(1, 2, 3)
	assert.ErrorIs(t, err, ErrInvalidSequence)

	_, err = NewConcatHeader(1, 2, 0)
	assert.ErrorIs(t, err, ErrInvalidSequence)

	h, err := NewConcatHeader(255, 255, 255)
	require.NoError(t, err)
	assert.Equal(t, uint8(255), h.Total)
}

func TestParseConcatHeaderRejects(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want error
	}{
		{"short", []byte{0x05, 0x00, 0x03}, ErrInvalidUDH},
		{"wrong iei", []byte{0x06, 0x08, 0x04, 0x00, 0x01, 0x02, 0x01}, ErrInvalidUDH},
		{"zero total", []byte{0x05, 0x00, 0x03, 0x01, 0x00, 0x01}, ErrInvalidSequence},
		{"sequence past total", []byte{0x05, 0x00, 0x03, 0x01, 0x02, 0x03}, ErrInvalidSequence},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConcatHeader(tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestEncodeGSM7(t *testing.T) {
	got, err := EncodeGSM7("A@{€")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x41, 0x00, 0x1B, 0x28, 0x1B, 0x65}, got)

	text, err := DecodeGSM7(got)
	require.NoError(t, err)
	assert.Equal(t, "A@{€", text)
}

func TestEncodeGSM7Unencodable(t *testing.T) {
	_, err := EncodeGSM7("hi ж")
	assert.ErrorIs(t, err, ErrUnencodableGSM7)
}

func TestDecodeGSM7Errors(t *testing.T) {
	_, err := DecodeGSM7([]byte{0x41, 0x1B})
	assert.ErrorIs(t, err, ErrEscapeAtEnd)

	_, err = DecodeGSM7([]byte{0x1B, 0x41})
	assert.ErrorIs(t, err, ErrInvalidGSM7Code)
}

func TestPackGSM7(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"hellohello", "e8329bfd4697d9ec37"},
		{"12345678", "31d98c56b3dd70"},
		{"1234567", "31d98c56b3dd1a"}, // seven spare bits are padded with CR
		{"12345[6]", "31d98c56dbf06c1b1f"},
	}
	for _, tt := range tests {
		packed, err := PackGSM7(tt.text)
		require.NoError(t, err, tt.text)
		assert.Equal(t, tt.want, hex.EncodeToString(packed), tt.text)

		text, err := UnpackGSM7(packed)
		require.NoError(t, err, tt.text)
		assert.Equal(t, tt.text, text)
	}
}

func TestPackGSM7Unencodable(t *testing.T) {
	_, err := PackGSM7("hi ж")
	assert.ErrorIs(t, err, ErrUnencodableGSM7)
}

func TestUCS2(t *testing.T) {
	got, err := EncodeUCS2("Пр")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x04, 0x1F, 0x04, 0x40}, got)

	emoji, err := EncodeUCS2("😀")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xD8, 0x3D, 0xDE, 0x00}, emoji)

	text, err := DecodeUCS2(append(got, emoji...))
	require.NoError(t, err)
	assert.Equal(t, "Пр😀", text)
}

func TestPayload(t *testing.T) {
	b, err := Payload("hi", coding.GSM7)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x68, 0x69}, b)

	b, err = Payload("hi", coding.UCS2)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x68, 0x00, 0x69}, b)

	text, err := DecodePayload(b, coding.UCS2)
	require.NoError(t, err)
	assert.Equal(t, "hi", text)

	_, err = Payload("hi", coding.Encoding(9))
	assert.ErrorIs(t, err, ErrUnknownDataCoding)
}
