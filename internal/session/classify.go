package session

// Class is the display class of one target character.
type Class int

const (
	// Pending characters have not been reached yet.
	Pending Class = iota
	// Correct characters were typed as expected.
	Correct
	// Incorrect characters were typed differently from the target.
	Incorrect
	// Current marks the next expected character.
	Current
)

func (c Class) String() string {
	switch c {
	case Pending:
		return "pending"
	case Correct:
		return "correct"
	case Incorrect:
		return "incorrect"
	case Current:
		return "current"
	default:
		return "unknown"
	}
}

// Classify returns one Class per character of target.
func Classify(input, target string) []Class {
	return classify([]rune(input), []rune(target))
}

func classify(input, target []rune) []Class {
	out := make([]Class, len(target))
	for i, want := range target {
		switch {
		case i == len(input):
			out[i] = Current
		case i > len(input):
			out[i] = Pending
		case input[i] == want:
			out[i] = Correct
		default:
			out[i] = Incorrect
		}
	}
	return out
}
