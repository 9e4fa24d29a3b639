package segment

import "unicode/utf8"

// Report is the externally visible result of segmenting one message.
// TotalCharacters counts runes for display; capacity decisions use
// Result.TotalUnits instead.
type Report struct {
	OriginalMessage string   `json:"originalMessage"`
	TotalParts      int      `json:"totalParts"`
	Parts           []string `json:"parts"`
	TotalCharacters int      `json:"totalCharacters"`
}

// BuildReport shapes res for the caller.
func BuildReport(original string, res *Result) Report {
	return Report{
		OriginalMessage: original,
		TotalParts:      len(res.Segments),
		Parts:           res.Texts(),
		TotalCharacters: utf8.RuneCountInString(original),
	}
}
