// Package commune defines the canonical commune identifier shared by
// every dataset of the atlas. All join keys pass through NormalizeCode
// before any comparison; a key that skipped normalization is the most
// common cause of silent join failures between sources.
package commune

import (
	"sort"
	"strings"
)

// CodeLen is the width of an INSEE commune code.
const CodeLen = 5

// Code is a normalized INSEE commune code, for example "01004",
// "2A004" or "97209". Two codes are equal iff they are byte-identical.
type Code string

// NormalizeCode converts a raw key cell into its canonical form.
// Values shorter than CodeLen are left-padded with zeros, so
// integer-typed sources ("1004") line up with string-typed ones
// ("01004"). Values of CodeLen or longer are returned unchanged, a
// malformed longer code passes through uncorrected. The function is
// idempotent and strips no characters.
func NormalizeCode(raw string) Code {
	if len(raw) >= CodeLen {
		return Code(raw)
	}
	return Code(strings.Repeat("0", CodeLen-len(raw)) + raw)
}

// Union merges lists of codes into one sorted list without duplicates.
func Union(lists ...[]Code) []Code {
	set := make(map[Code]struct{})
	for _, l := range lists {
		for _, c := range l {
			set[c] = struct{}{}
		}
	}

	res := make([]Code, 0, len(set))
	for c := range set {
		res = append(res, c)
	}
	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })
	return res
}
