package extract

import (
	"fmt"

	"github.com/sahaayak/airecover/internal/utils"
)

// Stage identifies the pipeline stage that stopped an extraction.
type Stage string

const (
	StageEnvelope Stage = "envelope"
	StagePattern  Stage = "pattern"
	StageDecode   Stage = "decode"
	StageValidate Stage = "validate"

	// StageUnknown is reported for errors that did not come from the pipeline.
	StageUnknown Stage = "unknown"
)

// PreviewLength is the maximum number of characters kept in a diagnostic preview.
const PreviewLength = 200

// Sentinels for errors.Is. A *Failure matches the sentinel of its stage.
var (
	ErrEnvelope = &Failure{Stage: StageEnvelope}
	ErrPattern  = &Failure{Stage: StagePattern}
	ErrDecode   = &Failure{Stage: StageDecode}
	ErrValidate = &Failure{Stage: StageValidate}
)

// Diagnostic describes the content a stage failed on.
type Diagnostic struct {
	ContentLength int    `json:"content_length"`
	Preview       string `json:"preview"`
}

// Failure is the value every stage returns instead of panicking. It is never
// modified after construction.
type Failure struct {
	Stage      Stage      `json:"stage"`
	Reason     string     `json:"reason"`
	Diagnostic Diagnostic `json:"diagnostic"`
}

func newFailure(stage Stage, reason, content string) *Failure {
	return &Failure{
		Stage:  stage,
		Reason: reason,
		Diagnostic: Diagnostic{
			ContentLength: utils.RuneCount(content),
			Preview:       utils.Preview(content, PreviewLength),
		},
	}
}

// Error implements error.
func (f *Failure) Error() string {
	return fmt.Sprintf("extract: %s stage failed: %s", f.Stage, f.Reason)
}

// Is reports whether target is the sentinel for the same stage.
func (f *Failure) Is(target error) bool {
	t, ok := target.(*Failure)
	if !ok || t.Reason != "" {
		return false
	}
	return t.Stage == f.Stage
}
