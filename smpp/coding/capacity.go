package coding

const (
	// OctetBudget is the user data size of one short message.
	OctetBudget = 140
	// ConcatHeaderOctets is the UDH carried by every part of a concatenated
	// message: UDHL, IEI 0x00, IEDL, reference, total, sequence.
	ConcatHeaderOctets = 6
	// MaxSegments is the largest part count the header's 8-bit field can carry.
	MaxSegments = 255
)

// Capacity returns how many units of enc fit in one segment. A concatenated
// part loses the header, rounded up to whole units (7 septets or 3 UCS2 units).
//
//	GSM7: 160 single, 153 per part
//	UCS2:  70 single,  67 per part
func Capacity(enc Encoding, multipart bool) int {
	unit := enc.unitBits()
	units := OctetBudget * 8 / unit
	if !multipart {
		return units
	}
	header := ConcatHeaderOctets * 8
	return units - (header+unit-1)/unit
}
