package wordlist

// Keep reports whether word belongs in an English practice list: non-empty
// and made of ASCII lowercase letters only.
func Keep(word string) bool {
	if word == "" {
		return false
	}
	for i := 0; i < len(word); i++ {
		ch := word[i]
		if ch < 'a' || ch > 'z' {
			return false
		}
	}
	return true
}
