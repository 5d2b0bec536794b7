package services

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MatchTier identifies which rule turned free text into a canonical name.
type MatchTier string

const (
	TierExact     MatchTier = "exact"
	TierSubstring MatchTier = "substring"
	TierWord      MatchTier = "word"
	TierDefault   MatchTier = "default"
	// TierExplicit means the caller supplied coordinates and no text
	// matching took place.
	TierExplicit MatchTier = "explicit"
)

// minWordLength is the shortest word the word-level tier will try. Shorter
// words match too many names to be useful.
const minWordLength = 3

// nameMatcher is one tier of the chain. It receives the normalized input and
// the lower-cased keys and returns the index of the matching key.
type nameMatcher struct {
	tier  MatchTier
	match func(input string, keys []string) (int, bool)
}

var tieredMatchers = []nameMatcher{
	{tier: TierExact, match: matchExact},
	{tier: TierSubstring, match: matchSubstring},
	{tier: TierWord, match: matchWord},
}

func matchExact(input string, keys []string) (int, bool) {
	for i, key := range keys {
		if input == key {
			return i, true
		}
	}
	return -1, false
}

func matchSubstring(input string, keys []string) (int, bool) {
	for i, key := range keys {
		if strings.Contains(input, key) || strings.Contains(key, input) {
			return i, true
		}
	}
	return -1, false
}

func matchWord(input string, keys []string) (int, bool) {
	if !strings.ContainsFunc(input, unicode.IsSpace) {
		return -1, false
	}
	for _, word := range strings.Fields(input) {
		if utf8.RuneCountInString(word) < minWordLength {
			continue
		}
		for i, key := range keys {
			if strings.Contains(key, word) {
				return i, true
			}
		}
	}
	return -1, false
}

// NameIndex resolves loosely typed text to one of a fixed, ordered list of
// canonical names. It is immutable and safe for concurrent use.
type NameIndex struct {
	names    []string
	keys     []string
	matchers []nameMatcher
}

// NewNameIndex builds an index over names. Order matters: when several names
// satisfy a tier, the earliest one wins.
func NewNameIndex(names []string) *NameIndex {
	idx := &NameIndex{
		names:    make([]string, 0, len(names)),
		keys:     make([]string, 0, len(names)),
		matchers: tieredMatchers,
	}
	for _, name := range names {
		key := normalizeName(name)
		if key == "" {
			continue
		}
		idx.names = append(idx.names, name)
		idx.keys = append(idx.keys, key)
	}
	return idx
}

// Match runs the tiers in order and returns the first canonical name found.
// Blank input never matches.
func (n *NameIndex) Match(input string) (string, MatchTier, bool) {
	normalized := normalizeName(input)
	if normalized == "" {
		return "", TierDefault, false
	}
	for _, m := range n.matchers {
		if i, ok := m.match(normalized, n.keys); ok {
			return n.names[i], m.tier, true
		}
	}
	return "", TierDefault, false
}

// Names returns the canonical names in index order.
func (n *NameIndex) Names() []string {
	out := make([]string, len(n.names))
	copy(out, n.names)
	return out
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
