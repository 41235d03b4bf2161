package observability

// Semantic conventions for observability attributes.
// These constants define standard attribute names to ensure consistency
// across different components of the system.

// --- Extraction Attributes ---

const (
	// AttrExtractStage is the pipeline stage that produced a failure
	// (envelope, pattern, decode, validate)
	AttrExtractStage = "extract.stage"

	// AttrExtractReason is the failure reason reported by the failing stage
	AttrExtractReason = "extract.reason"

	// AttrExtractShape is the envelope shape selected by the resolver
	AttrExtractShape = "extract.shape"

	// AttrExtractCandidateKind is the candidate kind (text, structured)
	AttrExtractCandidateKind = "extract.candidate.kind"

	// AttrExtractPattern is the fence pattern that matched the candidate text
	AttrExtractPattern = "extract.pattern"

	// AttrExtractStrategy is the decode strategy that succeeded
	// (strict, slice, or a repairer name)
	AttrExtractStrategy = "extract.strategy"

	// AttrExtractRequiredKey is the list field the projector requires
	AttrExtractRequiredKey = "extract.required_key"

	// AttrExtractItems is the number of projected items
	AttrExtractItems = "extract.items"

	// AttrExtractContentLength is the length of the content that failed
	AttrExtractContentLength = "extract.content.length"

	// AttrExtractPreview is the bounded preview of the content that failed
	AttrExtractPreview = "extract.content.preview"
)

// --- Backend Attributes ---

const (
	// AttrBackendEndpoint is the content backend endpoint path
	AttrBackendEndpoint = "backend.endpoint"

	// AttrBackendTopic is the topic requested from the content backend
	AttrBackendTopic = "backend.topic"
)

// --- HTTP Attributes ---

const (
	// AttrHTTPMethod is the HTTP method (GET, POST, etc.)
	AttrHTTPMethod = "http.method"

	// AttrHTTPStatusCode is the HTTP response status code
	AttrHTTPStatusCode = "http.status_code"

	// AttrHTTPURL is the full request URL
	AttrHTTPURL = "http.url"

	// AttrHTTPRequestBodySize is the request body size in bytes
	AttrHTTPRequestBodySize = "http.request.body.size"

	// AttrHTTPResponseBodySize is the response body size in bytes
	AttrHTTPResponseBodySize = "http.response.body.size"
)

// --- General Attributes ---

const (
	// AttrError is the error message
	AttrError = "error"

	// AttrErrorType is the error type/class
	AttrErrorType = "error.type"

	// AttrDuration is the operation duration
	AttrDuration = "duration"

	// AttrStatus is the operation status
	AttrStatus = "status"

	// AttrStatusDescription is the status description
	AttrStatusDescription = "status_description"
)

// --- Span Names ---

const (
	// SpanExtractPipeline is the span name for one extraction call
	SpanExtractPipeline = "extract.pipeline"

	// SpanBackendRequest is the span name for content backend requests
	SpanBackendRequest = "backend.request"
)

// --- Event Names ---

const (
	// EventEnvelopeResolved marks the envelope resolver selecting a shape
	EventEnvelopeResolved = "extract.envelope.resolved"

	// EventPatternMatched marks the fence extractor producing candidate text
	EventPatternMatched = "extract.pattern.matched"

	// EventDecoded marks the lenient decoder producing an object
	EventDecoded = "extract.decoded"

	// EventProjected marks the projector producing a record
	EventProjected = "extract.projected"
)

// --- Metric Names ---

const (
	// MetricExtractSuccess is the counter for successful extractions
	MetricExtractSuccess = "airecover.extract.success"

	// MetricExtractFailures is the counter for failed extractions, by stage
	MetricExtractFailures = "airecover.extract.failures"

	// MetricExtractDuration is the histogram for extraction duration in milliseconds
	MetricExtractDuration = "airecover.extract.duration_ms"

	// MetricBackendRequestCount is the counter for content backend requests
	MetricBackendRequestCount = "airecover.backend.request.count"
)
