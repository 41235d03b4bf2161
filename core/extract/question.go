package extract

import (
	"slices"
	"strings"

	"github.com/samber/lo"
)

// QuestionKind is the question type reported by the model. The set is open:
// values outside the known constants are kept verbatim.
type QuestionKind string

const (
	KindMultipleChoice QuestionKind = "multiple_choice"
	KindShortAnswer    QuestionKind = "short_answer"
	KindTrueFalse      QuestionKind = "true_false"
	KindFillBlanks     QuestionKind = "fill_blanks"
	KindDrawing        QuestionKind = "drawing"
	KindUnknown        QuestionKind = "unknown"
)

var knownKinds = []QuestionKind{
	KindMultipleChoice, KindShortAnswer, KindTrueFalse, KindFillBlanks, KindDrawing,
}

// Known reports whether k is one of the kinds the display layer has a
// dedicated layout for.
func (k QuestionKind) Known() bool {
	return lo.Contains(knownKinds, k)
}

// ParseQuestionKind normalizes a model supplied type name, so that
// "Multiple Choice" and "multiple-choice" both become multiple_choice.
// Blank input yields KindUnknown.
func ParseQuestionKind(s string) QuestionKind {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return KindUnknown
	}
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	switch s {
	case "mcq", "multiple_choice_question":
		return KindMultipleChoice
	case "true_or_false", "truefalse", "boolean":
		return KindTrueFalse
	case "fill_in_the_blank", "fill_in_the_blanks", "fill_blank":
		return KindFillBlanks
	}
	return QuestionKind(s)
}

// Question is one projected quiz item.
type Question struct {
	Text          string       `json:"question"`
	Kind          QuestionKind `json:"type"`
	Options       []string     `json:"options"`
	CorrectAnswer string       `json:"correct_answer"`
	Explanation   string       `json:"explanation,omitempty"`
}

// AnswerInOptions reports whether a multiple choice answer is one of the
// options. The check is advisory; it holds trivially for other kinds and for
// questions without options.
func (q Question) AnswerInOptions() bool {
	if q.Kind != KindMultipleChoice || len(q.Options) == 0 {
		return true
	}
	answer := strings.TrimSpace(q.CorrectAnswer)
	return lo.ContainsBy(q.Options, func(option string) bool {
		return strings.EqualFold(strings.TrimSpace(option), answer)
	})
}

// questionFromItem reads a projected item. Items come from [QuestionItem], so
// type, options and explanation are already normalized.
func questionFromItem(item map[string]any) Question {
	q := Question{
		Text:          firstString(item, "question", "text", "prompt"),
		Kind:          ParseQuestionKind(firstString(item, "type", "kind")),
		CorrectAnswer: firstString(item, "correct_answer", "answer"),
		Explanation:   firstString(item, "explanation"),
	}
	if options, ok := item["options"].([]string); ok {
		q.Options = slices.Clone(options)
	} else {
		q.Options = normalizeOptions(item["options"])
	}
	return q
}

// firstString returns the first of keys holding a scalar, formatted as text.
func firstString(item map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := scalarString(item[key]); ok && s != "" {
			return s
		}
	}
	return ""
}
