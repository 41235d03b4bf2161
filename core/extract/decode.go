package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/kaptinlin/jsonrepair"
	json5 "github.com/yosuke-furukawa/json5/encoding/json5"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	trailingComma = regexp.MustCompile(`,\s*([}\]])`)
)

// Decode strategies reported to observers.
const (
	StrategyStrict = "strict"
	StrategySlice  = "slice"
)

// Repairer is an opt-in decoding strategy tried after the strict and slice
// attempts have failed.
type Repairer interface {
	Name() string
	Repair(candidate string) (map[string]any, error)
}

// JSONRepair returns a Repairer backed by jsonrepair, which fixes unquoted
// keys, single quotes, missing commas and truncated output.
func JSONRepair() Repairer { return jsonRepairer{} }

// JSON5 returns a Repairer that parses the candidate as JSON5.
func JSON5() Repairer { return json5Repairer{} }

type jsonRepairer struct{}

func (jsonRepairer) Name() string { return "jsonrepair" }

func (jsonRepairer) Repair(candidate string) (map[string]any, error) {
	repaired, err := jsonrepair.JSONRepair(candidate)
	if err != nil {
		return nil, fmt.Errorf("jsonrepair: %w", err)
	}
	return decodeObject(repaired)
}

type json5Repairer struct{}

func (json5Repairer) Name() string { return "json5" }

func (json5Repairer) Repair(candidate string) (map[string]any, error) {
	var object map[string]any
	if err := json5.Unmarshal([]byte(candidate), &object); err != nil {
		return nil, fmt.Errorf("json5: %w", err)
	}
	if object == nil {
		return nil, errNullObject
	}
	return object, nil
}

var errNullObject = errors.New("decoded value is null, expected an object")

// Normalize collapses whitespace runs to a single space and drops commas that
// directly precede a closing '}' or ']'.
func Normalize(s string) string {
	s = whitespaceRun.ReplaceAllString(strings.TrimSpace(s), " ")
	return trailingComma.ReplaceAllString(s, "$1")
}

// Decode decodes candidate into an object without any repairer.
func Decode(candidate string) (map[string]any, error) {
	return DecodeWith(candidate)
}

// DecodeWith normalizes and strictly decodes candidate. When that fails it
// retries once on the span between the first '{' and the last '}' of the
// original candidate, then tries each repairer in order.
func DecodeWith(candidate string, repairers ...Repairer) (map[string]any, error) {
	object, _, err := decodeCandidate(candidate, repairers)
	return object, err
}

func decodeCandidate(candidate string, repairers []Repairer) (map[string]any, string, error) {
	object, err := decodeObject(Normalize(candidate))
	if err == nil {
		return object, StrategyStrict, nil
	}

	region := candidate
	start := strings.IndexByte(candidate, '{')
	end := strings.LastIndexByte(candidate, '}')
	if start >= 0 && start < end {
		region = candidate[start : end+1]
		sliced, sliceErr := decodeObject(Normalize(region))
		if sliceErr == nil {
			return sliced, StrategySlice, nil
		}
		err = sliceErr
	}

	for _, repairer := range repairers {
		repaired, repairErr := repairer.Repair(region)
		if repairErr == nil {
			return repaired, repairer.Name(), nil
		}
	}

	return nil, "", newFailure(StageDecode, err.Error(), candidate)
}

// decodeObject strictly decodes s, which must hold exactly one JSON object.
func decodeObject(s string) (map[string]any, error) {
	var object map[string]any
	if err := json.Unmarshal([]byte(s), &object); err != nil {
		return nil, err
	}
	if object == nil {
		return nil, errNullObject
	}
	return object, nil
}
