// Package season canonicalizes raw season labels into the token used as half
// of the aggregation key.
package season

import "strings"

// Unknown is the token used when a match carries no season.
const Unknown = "Unknown"

// splitYearSep separates the two halves of a split-year label ("2007/08").
const splitYearSep = "/"

// Normalize returns the canonical token for a raw label. Split-year labels keep
// the part before the separator; anything else is returned unchanged. present
// is false when the archive entry had no season at all.
func Normalize(raw string, present bool) string {
	if !present {
		return Unknown
	}
	if before, _, found := strings.Cut(raw, splitYearSep); found {
		return before
	}
	return raw
}
