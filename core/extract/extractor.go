package extract

import (
	"context"
	"errors"

	"github.com/sahaayak/airecover/internal/utils"
	"github.com/sahaayak/airecover/providers/observability"
)

// Extractor runs the recovery pipeline with a fixed configuration. It holds
// no mutable state and is safe for concurrent use.
type Extractor struct {
	cfg *config
}

// New creates an Extractor.
//
// Example usage:
//
//	// Quiz payloads with the default envelopes
//	rec, err := extract.New().Extract(ctx, raw)
//
//	// Worksheets, with repair strategies enabled
//	ex := extract.New(
//	    extract.WithRequiredKey("sections"),
//	    extract.WithShapes(extract.WorksheetShapes()...),
//	    extract.WithRepairers(extract.JSONRepair(), extract.JSON5()),
//	)
func New(opts ...Option) *Extractor {
	return &Extractor{cfg: applyOptions(opts...)}
}

// Extract is a convenience wrapper for a one-off call with default options.
func Extract(raw RawResponse, requiredKey string) (*Record, error) {
	return New(WithRequiredKey(requiredKey)).Extract(context.Background(), raw)
}

// RequiredKey returns the list field this extractor requires.
func (e *Extractor) RequiredKey() string {
	return e.cfg.requiredKey
}

// Extract resolves the envelope of raw and runs the remaining stages. The
// returned error is always a *Failure.
func (e *Extractor) Extract(ctx context.Context, raw RawResponse) (*Record, error) {
	return e.observe(ctx, func(ctx context.Context, span observability.Span) (*Record, error) {
		candidate, err := ResolveWith(raw, e.cfg.shapes)
		if err != nil {
			return nil, err
		}
		addEvent(span, observability.EventEnvelopeResolved,
			observability.String(observability.AttrExtractShape, candidate.Shape),
			observability.String(observability.AttrExtractCandidateKind, candidate.Kind.String()),
		)
		return e.fromCandidate(span, candidate)
	})
}

// ExtractText runs the pipeline on model text directly, skipping the
// envelope stage.
func (e *Extractor) ExtractText(ctx context.Context, text string) (*Record, error) {
	return e.observe(ctx, func(_ context.Context, span observability.Span) (*Record, error) {
		return e.fromCandidate(span, TextCandidate("text", text))
	})
}

func (e *Extractor) fromCandidate(span observability.Span, candidate Candidate) (*Record, error) {
	object := candidate.Object
	switch candidate.Kind {
	case CandidateList:
		object = map[string]any{e.cfg.requiredKey: candidate.List}
	case CandidateText:
		text := candidate.Text
		if e.cfg.convertHTML {
			text = ConvertHTML(text)
		}

		jsonText, pattern, err := matchJSONText(text)
		if err != nil {
			return nil, err
		}
		addEvent(span, observability.EventPatternMatched,
			observability.String(observability.AttrExtractPattern, pattern),
		)

		decoded, strategy, err := decodeCandidate(jsonText, e.cfg.repairers)
		if err != nil {
			return nil, err
		}
		addEvent(span, observability.EventDecoded,
			observability.String(observability.AttrExtractStrategy, strategy),
		)
		object = decoded
	}

	record, err := ProjectWith(object, e.cfg.requiredKey, e.cfg.mapper)
	if err != nil {
		return nil, err
	}
	addEvent(span, observability.EventProjected,
		observability.Int(observability.AttrExtractItems, record.Len()),
	)
	return record, nil
}

// observe wraps run with the span, metrics and failure log of one call.
// With no observer configured it only runs the pipeline.
func (e *Extractor) observe(ctx context.Context, run func(context.Context, observability.Span) (*Record, error)) (*Record, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	observer := e.cfg.observer
	if observer == nil {
		observer = observability.ObserverFromContext(ctx)
	}
	if observer == nil {
		return run(ctx, nil)
	}

	ctx, span := observer.StartSpan(ctx, observability.SpanExtractPipeline,
		observability.String(observability.AttrExtractRequiredKey, e.cfg.requiredKey),
	)
	defer span.End()
	ctx = observability.ContextWithSpan(ctx, span)

	timer := utils.NewTimer()
	record, err := run(ctx, span)
	timer.Stop()

	observer.Histogram(observability.MetricExtractDuration).Record(ctx, timer.Milliseconds())

	if err != nil {
		var failure *Failure
		if !errors.As(err, &failure) {
			failure = newFailure(StageUnknown, err.Error(), "")
		}
		span.SetStatus(observability.StatusError, failure.Reason)
		span.RecordError(err)
		observer.Counter(observability.MetricExtractFailures).Add(ctx, 1,
			observability.String(observability.AttrExtractStage, string(failure.Stage)),
		)
		observer.Warn(ctx, "Extraction failed",
			observability.String(observability.AttrExtractStage, string(failure.Stage)),
			observability.String(observability.AttrExtractReason, failure.Reason),
			observability.Int(observability.AttrExtractContentLength, failure.Diagnostic.ContentLength),
			observability.String(observability.AttrExtractPreview, failure.Diagnostic.Preview),
		)
		return nil, err
	}

	span.SetStatus(observability.StatusOK, "")
	observer.Counter(observability.MetricExtractSuccess).Add(ctx, 1)
	observer.Debug(ctx, "Extraction succeeded",
		observability.Int(observability.AttrExtractItems, record.Len()),
	)
	return record, nil
}

func addEvent(span observability.Span, name string, attrs ...observability.Attribute) {
	if span != nil {
		span.AddEvent(name, attrs...)
	}
}
