package session

// FirstMatch returns the first result, in provider order, whose advertised
// match type equals matchType. Later results are not examined.
func FirstMatch(results []SearchResult, matchType string) (SearchResult, int, bool) {
	for i, r := range results {
		if r.MatchType() == matchType {
			return r, i, true
		}
	}
	return SearchResult{}, -1, false
}
