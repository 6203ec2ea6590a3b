package table

import "strings"

// Delimiters used by the flattening transform. ListSep joins ids and names,
// DescSep joins tag descriptions (which may themselves contain commas), and
// PairSep separates provider from id inside one external-id pair.
const (
	ListSep = ","
	DescSep = "|"
	PairSep = ":"
)

// JoinList collapses a list-valued field into one delimited cell.
// An empty list collapses to NA, not to the empty string.
func JoinList(items []string) string {
	if len(items) == 0 {
		return NA
	}
	return strings.Join(items, ListSep)
}

// SplitList is the documented inverse of JoinList: order-preserving,
// NA and empty both reconstruct as no items.
func SplitList(cell string) []string {
	if cell == "" || cell == NA {
		return nil
	}
	return strings.Split(cell, ListSep)
}

// JoinDescriptions collapses tag descriptions with DescSep, omitting entries
// that are empty or NA. Ids and names are joined unconditionally for every
// tag; only the description join skips blanks.
func JoinDescriptions(descs []string) string {
	var present []string
	for _, d := range descs {
		if d == "" || d == NA {
			continue
		}
		present = append(present, d)
	}
	if len(present) == 0 {
		return NA
	}
	return strings.Join(present, DescSep)
}

// SplitDescriptions reverses JoinDescriptions. Omitted blanks are gone for
// good; the flattening is lossy-reversible only for entries that were present.
func SplitDescriptions(cell string) []string {
	if cell == "" || cell == NA {
		return nil
	}
	return strings.Split(cell, DescSep)
}

// Pair is one external-id entry: a provider name and that provider's id for
// the athlete.
type Pair struct {
	Name  string
	Value string
}

// JoinPairs collapses external ids to "provider:id,provider:id". Pairs with
// an empty value are skipped; an athlete with no external ids at all
// collapses to NA.
func JoinPairs(pairs []Pair) string {
	var parts []string
	for _, p := range pairs {
		if p.Value == "" {
			continue
		}
		parts = append(parts, p.Name+PairSep+p.Value)
	}
	if len(parts) == 0 {
		return NA
	}
	return strings.Join(parts, ListSep)
}

// SplitPairs reverses JoinPairs, preserving pair order. Malformed entries
// without a separator are skipped.
func SplitPairs(cell string) []Pair {
	if cell == "" || cell == NA {
		return nil
	}
	var pairs []Pair
	for _, part := range strings.Split(cell, ListSep) {
		name, value, ok := strings.Cut(part, PairSep)
		if !ok {
			continue
		}
		pairs = append(pairs, Pair{Name: name, Value: value})
	}
	return pairs
}
