package extract

// RawResponse is a decoded backend response body. It has no fixed shape and
// may nest arbitrarily.
type RawResponse map[string]any

// CandidateKind tells whether a Candidate carries text or an already
// structured object.
type CandidateKind int

const (
	CandidateText CandidateKind = iota + 1
	CandidateStructured
	CandidateList
)

// String returns the lowercase name of the kind.
func (k CandidateKind) String() string {
	switch k {
	case CandidateText:
		return "text"
	case CandidateStructured:
		return "structured"
	case CandidateList:
		return "list"
	default:
		return "unknown"
	}
}

// Candidate is the payload the envelope resolver located inside a
// RawResponse. Exactly one of Text, Object or List is meaningful, as told by
// Kind.
type Candidate struct {
	Kind   CandidateKind
	Shape  string
	Text   string
	Object map[string]any
	List   []any
}

// TextCandidate builds a text candidate found under the named shape.
func TextCandidate(shape, text string) Candidate {
	return Candidate{Kind: CandidateText, Shape: shape, Text: text}
}

// StructuredCandidate builds a structured candidate found under the named shape.
func StructuredCandidate(shape string, object map[string]any) Candidate {
	return Candidate{Kind: CandidateStructured, Shape: shape, Object: object}
}

// ListCandidate builds a candidate for a structured shape that holds the item
// list itself rather than an object around it.
func ListCandidate(shape string, list []any) Candidate {
	return Candidate{Kind: CandidateList, Shape: shape, List: list}
}
