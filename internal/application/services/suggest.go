package services

import "strings"

// DefaultSuggestionLimit is used when a caller passes a non-positive limit.
const DefaultSuggestionLimit = 5

// Suggest returns the corpus entries containing input (case-insensitive), in
// corpus order, at most limit of them. Blank input yields no suggestions.
func Suggest(input string, corpus []string, limit int) []string {
	needle := strings.ToLower(strings.TrimSpace(input))
	if needle == "" {
		return []string{}
	}
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}

	out := make([]string, 0, limit)
	for _, entry := range corpus {
		if strings.Contains(strings.ToLower(entry), needle) {
			out = append(out, entry)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}
