package coding

// Splitter returns the unit cost of a rune under one encoding.
type Splitter func(rune) int

var (
	_GSM7Splitter Splitter = func(r rune) int { return Classify(r).Cost() }
	_UCS2Splitter Splitter = func(rune) int { return 1 }
)

// Splitter returns the cost function for e.
func (e Encoding) Splitter() Splitter {
	if e == UCS2 {
		return _UCS2Splitter
	}
	return _GSM7Splitter
}

// Len returns the total unit cost of input.
func (fn Splitter) Len(input string) (n int) {
	for _, point := range input {
		n += fn(point)
	}
	return n
}

// Split cuts input into pieces of at most limit units. Pieces end on rune
// boundaries and a rune that does not fit in the remaining budget starts the
// next piece, so a two-septet escape pair never straddles a cut.
func (fn Splitter) Split(input string, limit int) (segments []string) {
	var start, length int
	for i, point := range input {
		cost := fn(point)
		if length > 0 && length+cost > limit {
			segments = append(segments, input[start:i])
			start, length = i, 0
		}
		length += cost
	}
	if start < len(input) {
		segments = append(segments, input[start:])
	}
	return segments
}
