package extract

import (
	"strings"

	"github.com/sahaayak/airecover/internal/utils"
)

// ShapeKind is the kind of value a Shape expects at its path.
type ShapeKind int

const (
	ShapeText ShapeKind = iota + 1
	ShapeStructured
)

// Shape is one known envelope: the key path to the payload and the kind of
// value expected there.
type Shape struct {
	Name string
	Path []string
	Kind ShapeKind
}

// QuizShapes returns the quiz envelopes in priority order.
func QuizShapes() []Shape {
	return []Shape{
		{Name: "quiz_data", Path: []string{"quiz_data"}, Kind: ShapeStructured},
		{Name: "data.data.content", Path: []string{"data", "data", "content"}, Kind: ShapeText},
		{Name: "data.content", Path: []string{"data", "content"}, Kind: ShapeText},
		{Name: "quiz_text", Path: []string{"quiz_text"}, Kind: ShapeText},
	}
}

// WorksheetShapes returns the worksheet envelopes in priority order.
func WorksheetShapes() []Shape {
	return []Shape{
		{Name: "worksheet_data", Path: []string{"worksheet_data"}, Kind: ShapeStructured},
		{Name: "data.data.content", Path: []string{"data", "data", "content"}, Kind: ShapeText},
		{Name: "data.content", Path: []string{"data", "content"}, Kind: ShapeText},
		{Name: "worksheet_content", Path: []string{"worksheet_content"}, Kind: ShapeText},
	}
}

// Resolve locates the payload in raw using [QuizShapes].
func Resolve(raw RawResponse) (Candidate, error) {
	return ResolveWith(raw, QuizShapes())
}

// ResolveWith returns the candidate for the first shape in shapes that is
// present and non-empty in raw. A structured shape holding a string is
// returned as text, since some backends encode the object twice; one holding
// a bare list is returned as a list candidate.
func ResolveWith(raw RawResponse, shapes []Shape) (Candidate, error) {
	if raw == nil {
		return Candidate{}, newFailure(StageEnvelope, "empty response", "")
	}

	for _, shape := range shapes {
		value, ok := lookup(raw, shape.Path)
		if !ok {
			continue
		}

		if text, isText := value.(string); isText {
			if strings.TrimSpace(text) == "" {
				continue
			}
			return TextCandidate(shape.Name, text), nil
		}

		if shape.Kind == ShapeStructured {
			if object, isObject := asObject(value); isObject && len(object) > 0 {
				return StructuredCandidate(shape.Name, cloneObject(object)), nil
			}
			if list, isList := asList(value); isList && len(list) > 0 {
				return ListCandidate(shape.Name, cloneValue(list).([]any)), nil
			}
		}
	}

	return Candidate{}, newFailure(StageEnvelope, "no known envelope shape", utils.JSONToString(raw))
}

// lookup walks path through nested objects.
func lookup(raw RawResponse, path []string) (any, bool) {
	if len(path) == 0 {
		return nil, false
	}
	var current any = map[string]any(raw)
	for _, key := range path {
		object, ok := asObject(current)
		if !ok {
			return nil, false
		}
		current, ok = object[key]
		if !ok || current == nil {
			return nil, false
		}
	}
	return current, true
}

func asObject(value any) (map[string]any, bool) {
	switch v := value.(type) {
	case map[string]any:
		return v, true
	case RawResponse:
		return map[string]any(v), true
	default:
		return nil, false
	}
}
