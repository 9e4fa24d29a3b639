// Package segment splits text into SMS segments.
//
// The encoding is chosen once for the whole message: GSM7 unless any rune is
// outside the GSM 03.38 tables, UCS2 otherwise. A message that fits in one
// segment (160 septets or 70 UCS2 units) is sent as is; a longer one is cut
// into concatenated parts of 153 or 67 units that share one reference number.
// Going one unit over the single-segment capacity therefore jumps straight to
// two parts; that discontinuity is the protocol, not a rounding error.
package segment

import (
	"errors"
	"fmt"
	"strings"

	"sms-splitter/smpp/coding"
	"sms-splitter/smpp/pdu"
)

// Segment is one part of a message. Header is nil for single-part messages.
type Segment struct {
	Index  int
	Count  int
	Text   string
	Units  int
	Header *pdu.ConcatHeader
}

// Result is the outcome of one Segment call. Segments are in Index order.
type Result struct {
	Encoding     coding.Encoding
	Segments     []Segment
	TotalUnits   int
	Reference    uint8
	Concatenated bool
}

// Texts returns the text of every segment in order.
func (r *Result) Texts() []string {
	texts := make([]string, len(r.Segments))
	for i, seg := range r.Segments {
		texts[i] = seg.Text
	}
	return texts
}

// Engine segments messages. It is safe for concurrent use; the reference
// counter is the only state shared between calls.
type Engine struct {
	refs *RefCounter
}

func NewEngine(refs *RefCounter) *Engine {
	if refs == nil {
		panic("segment: nil reference counter")
	}
	return &Engine{refs: refs}
}

// Segment splits text. Empty text is rejected with a ValidationError.
func (e *Engine) Segment(text string) (*Result, error) {
	if text == "" {
		return nil, &ValidationError{Reason: "Message cannot be empty", Err: ErrEmptyMessage}
	}

	enc, err := coding.Detect(text)
	if err != nil {
		var ib *coding.InvalidByteError
		if errors.As(err, &ib) {
			return nil, &UnsupportedCharacterError{Offset: ib.Offset, Byte: ib.Byte}
		}
		return nil, err
	}

	splitter := enc.Splitter()
	res := &Result{
		Encoding:   enc,
		TotalUnits: splitter.Len(text),
	}

	if res.TotalUnits <= coding.Capacity(enc, false) {
		res.Segments = []Segment{{Index: 1, Count: 1, Text: text, Units: res.TotalUnits}}
		if err := verify(text, res); err != nil {
			return nil, err
		}
		return res, nil
	}

	texts := splitter.Split(text, coding.Capacity(enc, true))
	if len(texts) > coding.MaxSegments {
		return nil, &ValidationError{
			Reason: fmt.Sprintf("Message is too long: needs %d parts, at most %d are allowed", len(texts), coding.MaxSegments),
			Err:    ErrTooManySegments,
		}
	}

	res.Concatenated = true
	res.Reference = e.refs.Next()
	res.Segments = make([]Segment, len(texts))
	for i, part := range texts {
		header, err := pdu.NewConcatHeader(res.Reference, len(texts), i+1)
		if err != nil {
			return nil, &InternalEncodingError{Detail: err.Error()}
		}
		res.Segments[i] = Segment{
			Index:  i + 1,
			Count:  len(texts),
			Text:   part,
			Units:  splitter.Len(part),
			Header: header,
		}
	}

	if err := verify(text, res); err != nil {
		return nil, err
	}
	return res, nil
}

// verify re-checks the segmentation invariants on a finished result.
func verify(text string, res *Result) error {
	capacity := coding.Capacity(res.Encoding, res.Concatenated)
	if len(res.Segments) == 0 || len(res.Segments) > coding.MaxSegments {
		return &InternalEncodingError{Detail: fmt.Sprintf("%d segments", len(res.Segments))}
	}
	if !res.Concatenated && len(res.Segments) != 1 {
		return &InternalEncodingError{Detail: "single-part result with several segments"}
	}

	var sb strings.Builder
	units := 0
	for i, seg := range res.Segments {
		if seg.Units > capacity {
			return &InternalEncodingError{
				Detail: fmt.Sprintf("segment %d holds %d units, capacity is %d", seg.Index, seg.Units, capacity),
			}
		}
		if seg.Index != i+1 || seg.Count != len(res.Segments) {
			return &InternalEncodingError{Detail: fmt.Sprintf("segment %d numbered %d of %d", i+1, seg.Index, seg.Count)}
		}
		if res.Concatenated && (seg.Header == nil || seg.Header.Reference != res.Reference) {
			return &InternalEncodingError{Detail: fmt.Sprintf("segment %d has no matching concatenation header", seg.Index)}
		}
		units += seg.Units
		sb.WriteString(seg.Text)
	}
	if units != res.TotalUnits {
		return &InternalEncodingError{Detail: fmt.Sprintf("segments hold %d units, message has %d", units, res.TotalUnits)}
	}
	if sb.String() != text {
		return &InternalEncodingError{Detail: "segments do not reassemble the message"}
	}
	return nil
}
