package verify

// Reconcile collapses tokens into the single value they agree on. Absent tokens are ignored;
// if nothing remains the result is an Absent token and no error, leaving the caller to decide
// whether that is acceptable for its source.
func Reconcile(tokens []Token) (Token, error) {
	var resolved Token
	for _, t := range tokens {
		if t.Kind == Absent {
			continue
		}
		if resolved.Kind == Absent {
			resolved = t
			continue
		}
		if t != resolved {
			return Token{}, shortLinkMismatch(resolved.Value, t.Value)
		}
	}
	return resolved, nil
}
