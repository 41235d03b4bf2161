package extract

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/sahaayak/airecover/internal/utils"
)

// DefaultRequiredKey is the list field expected in quiz payloads.
const DefaultRequiredKey = "questions"

// ItemMapper normalizes one element of the required list. It returns false to
// drop an element that cannot be represented at all.
type ItemMapper func(item any) (map[string]any, bool)

// Project checks that decoded holds requiredKey as a list and maps every
// element through [QuestionItem].
func Project(decoded map[string]any, requiredKey string) (*Record, error) {
	return ProjectWith(decoded, requiredKey, QuestionItem)
}

// ProjectWith is Project with a caller supplied item mapper. An empty list is
// valid; one bad element never rejects the others.
func ProjectWith(decoded map[string]any, requiredKey string, mapper ItemMapper) (*Record, error) {
	if mapper == nil {
		mapper = QuestionItem
	}

	value, ok := decoded[requiredKey]
	if !ok {
		return nil, newFailure(StageValidate, fmt.Sprintf("missing required key %q", requiredKey), utils.JSONToString(decoded))
	}
	list, ok := asList(value)
	if !ok {
		return nil, newFailure(StageValidate, fmt.Sprintf("required key %q is not a list", requiredKey), utils.JSONToString(value))
	}

	items := make([]map[string]any, 0, len(list))
	for _, element := range list {
		if item, keep := mapper(element); keep {
			items = append(items, item)
		}
	}

	return newRecord(requiredKey, decoded, items), nil
}

// QuestionItem is the default ItemMapper. Missing fields get defaults: type
// "unknown", explanation "" and options []. A bare string becomes the
// question text; other non-object elements are dropped.
func QuestionItem(element any) (map[string]any, bool) {
	switch v := element.(type) {
	case map[string]any:
		item := maps.Clone(v)

		kind := firstString(item, "type", "kind")
		item["type"] = string(ParseQuestionKind(kind))

		explanation, _ := scalarString(item["explanation"])
		item["explanation"] = explanation

		item["options"] = normalizeOptions(item["options"])

		if answer, present := item["correct_answer"]; present {
			formatted, _ := scalarString(answer)
			item["correct_answer"] = formatted
		}
		return item, true

	case string:
		if strings.TrimSpace(v) == "" {
			return nil, false
		}
		return QuestionItem(map[string]any{"question": strings.TrimSpace(v)})

	default:
		return nil, false
	}
}

// asList accepts the list types a decoded or hand-built payload can hold.
func asList(value any) ([]any, bool) {
	switch v := value.(type) {
	case []any:
		return v, true
	case []map[string]any:
		return lo.ToAnySlice(v), true
	case []string:
		return lo.ToAnySlice(v), true
	default:
		return nil, false
	}
}

// groupedNumber matches numbers written with thousands separators, e.g. 1,000.
var groupedNumber = regexp.MustCompile(`^[-+]?\d{1,3}(,\d{3})+(\.\d+)?$`)

// normalizeOptions coerces the many shapes models use for options into a
// list of non-blank strings. An object such as {"A": "..", "B": ".."} is read
// in key order. A single string is split on newlines, or on commas when it
// has no newline and is not a grouped number.
func normalizeOptions(value any) []string {
	switch v := value.(type) {
	case []string:
		return normalizeOptions(lo.ToAnySlice(v))
	case []any:
		return lo.FilterMap(v, func(option any, _ int) (string, bool) {
			s, ok := scalarString(option)
			s = strings.TrimSpace(s)
			return s, ok && s != ""
		})
	case map[string]any:
		keys := slices.Sorted(maps.Keys(v))
		return normalizeOptions(lo.Map(keys, func(key string, _ int) any { return v[key] }))
	case string:
		switch trimmed := strings.TrimSpace(v); {
		case strings.Contains(trimmed, "\n"):
			return normalizeOptions(strings.Split(trimmed, "\n"))
		case strings.Contains(trimmed, ",") && !groupedNumber.MatchString(trimmed):
			return normalizeOptions(strings.Split(trimmed, ","))
		default:
			return normalizeOptions([]string{trimmed})
		}
	default:
		return []string{}
	}
}

// scalarString formats strings, numbers and booleans as text.
func scalarString(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	case int:
		return strconv.Itoa(v), true
	default:
		return "", false
	}
}
