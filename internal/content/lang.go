package content

import "strings"

const (
	MarkerID = "<!-- lang:id -->"
	MarkerEN = "<!-- lang:en -->"
)

// Languages holds the Indonesian and English bodies of an article
type Languages struct {
	ID string
	EN string
}

// SplitLanguages cuts body at the language markers. With no marker both
// slots get the whole trimmed body; with one marker the other slot is empty.
// Marker order in the body does not matter.
func SplitLanguages(body string) Languages {
	idIdx := strings.Index(body, MarkerID)
	enIdx := strings.Index(body, MarkerEN)

	switch {
	case idIdx < 0 && enIdx < 0:
		trimmed := strings.TrimSpace(body)
		return Languages{ID: trimmed, EN: trimmed}
	case enIdx < 0:
		return Languages{ID: strings.TrimSpace(body[idIdx+len(MarkerID):])}
	case idIdx < 0:
		return Languages{EN: strings.TrimSpace(body[enIdx+len(MarkerEN):])}
	case idIdx < enIdx:
		return Languages{
			ID: strings.TrimSpace(body[idIdx+len(MarkerID) : enIdx]),
			EN: strings.TrimSpace(body[enIdx+len(MarkerEN):]),
		}
	default:
		return Languages{
			ID: strings.TrimSpace(body[idIdx+len(MarkerID):]),
			EN: strings.TrimSpace(body[enIdx+len(MarkerEN) : idIdx]),
		}
	}
}

// JoinLanguages builds a body with the Indonesian section first
func JoinLanguages(id, en string) string {
	return MarkerID + "\n" + id + "\n\n" + MarkerEN + "\n" + en
}
