// ABOUTME: Presentation order for known values
// ABOUTME: Sorts body parts, medications and dosages the way a German reader expects
package form

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKnown returns a copy of values in German collation order, so "ibuprofen" sits
// next to "Ibuprofen" and "Ähre" next to "Ahorn". The store itself returns byte order.
func SortKnown(values []string) []string {
	sorted := make([]string, len(values))
	copy(sorted, values)
	collate.New(language.German, collate.IgnoreCase).SortStrings(sorted)
	return sorted
}
