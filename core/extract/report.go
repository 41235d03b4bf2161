package extract

import (
	"errors"
	"fmt"
)

// DisplayMessage is the only text shown to users for any extraction failure.
const DisplayMessage = "Unable to parse content. Please try regenerating."

// DisplayableError is a failure prepared for the UI. Message is safe to show
// as is; Diagnostic is meant for logs and tests only.
type DisplayableError struct {
	Stage      Stage  `json:"stage"`
	Message    string `json:"message"`
	Diagnostic string `json:"diagnostic"`
}

// Error implements error with the user facing message.
func (d DisplayableError) Error() string {
	return d.Message
}

// Report maps err to a DisplayableError. Errors that are not a *Failure are
// reported under StageUnknown. Report(nil) returns the zero value.
func Report(err error) DisplayableError {
	if err == nil {
		return DisplayableError{}
	}

	var failure *Failure
	if !errors.As(err, &failure) {
		return DisplayableError{
			Stage:      StageUnknown,
			Message:    DisplayMessage,
			Diagnostic: fmt.Sprintf("stage=%s reason=%q", StageUnknown, err.Error()),
		}
	}

	return DisplayableError{
		Stage:   failure.Stage,
		Message: DisplayMessage,
		Diagnostic: fmt.Sprintf("stage=%s reason=%q content_length=%d preview=%q",
			failure.Stage, failure.Reason, failure.Diagnostic.ContentLength, failure.Diagnostic.Preview),
	}
}
