package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/sahaayak/airecover/core/extract"
	"github.com/sahaayak/airecover/internal/utils"
	"github.com/sahaayak/airecover/providers/observability"
)

const (
	defaultBaseURL    = "http://localhost:5000"
	defaultTimeout    = 90 * time.Second
	quizEndpoint      = "/api/v1/generate-quiz"
	worksheetEndpoint = "/api/v1/worksheet-maker"
)

// ErrTopicRequired is returned when a request has a blank topic.
var ErrTopicRequired = errors.New("topic is required")

// QuizRequest is the body of a generate-quiz call.
type QuizRequest struct {
	Topic        string `json:"topic"`
	Language     string `json:"language,omitempty"`
	GradeLevel   string `json:"grade_level,omitempty"`
	NumQuestions int    `json:"num_questions,omitempty"`
}

// WorksheetRequest is the body of a worksheet-maker call.
type WorksheetRequest struct {
	Topic         string `json:"topic"`
	Language      string `json:"language,omitempty"`
	GradeLevel    string `json:"grade_level,omitempty"`
	Subject       string `json:"subject,omitempty"`
	WorksheetType string `json:"worksheet_type,omitempty"`
}

// Client calls the content backend.
type Client struct {
	apiKey   string
	baseURL  string
	client   *http.Client
	observer observability.Provider
	retry    *RetryPolicy
	timeout  time.Duration
}

// New creates a Client configured from the environment.
func New() *Client {
	baseURL := os.Getenv("AIRECOVER_BACKEND_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		apiKey:  os.Getenv("AIRECOVER_API_KEY"),
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: defaultTimeout},
	}
}

// WithAPIKey sets the bearer token.
func (c *Client) WithAPIKey(apiKey string) *Client {
	c.apiKey = apiKey
	return c
}

// WithBaseURL sets the backend base URL.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

// WithHttpClient sets a custom HTTP client
func (c *Client) WithHttpClient(httpClient *http.Client) *Client {
	c.client = httpClient
	return c
}

// WithObserver enables tracing, metrics and logging of backend calls.
func (c *Client) WithObserver(observer observability.Provider) *Client {
	c.observer = observer
	return c
}

// WithRetry retries transient failures (rate limits, 5xx, transport errors)
// according to policy.
func (c *Client) WithRetry(policy RetryPolicy) *Client {
	policy = policy.withDefaults()
	c.retry = &policy
	return c
}

// WithTimeout bounds each Generate call, retries included.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.timeout = timeout
	return c
}

// GenerateQuiz asks the backend for a quiz and returns its raw envelope.
func (c *Client) GenerateQuiz(ctx context.Context, request QuizRequest) (extract.RawResponse, error) {
	if strings.TrimSpace(request.Topic) == "" {
		return nil, ErrTopicRequired
	}
	return c.post(ctx, quizEndpoint, request.Topic, request)
}

// GenerateWorksheet asks the backend for a worksheet and returns its raw
// envelope.
func (c *Client) GenerateWorksheet(ctx context.Context, request WorksheetRequest) (extract.RawResponse, error) {
	if strings.TrimSpace(request.Topic) == "" {
		return nil, ErrTopicRequired
	}
	return c.post(ctx, worksheetEndpoint, request.Topic, request)
}

func (c *Client) post(ctx context.Context, endpoint, topic string, body any) (extract.RawResponse, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	attrs := []observability.Attribute{
		observability.String(observability.AttrBackendEndpoint, endpoint),
		observability.String(observability.AttrBackendTopic, topic),
	}

	var span observability.Span
	if c.observer != nil {
		ctx, span = c.observer.StartSpan(ctx, observability.SpanBackendRequest, attrs...)
		defer span.End()
		ctx = observability.ContextWithSpan(ctx, span)
		c.observer.Counter(observability.MetricBackendRequestCount).Add(ctx, 1, attrs...)
		c.observer.Debug(ctx, "Calling content backend", attrs...)
	}

	httpResponse, raw, err := retry(ctx, c.retry, func(ctx context.Context) (*http.Response, *extract.RawResponse, error) {
		return utils.DoPostSync[extract.RawResponse](ctx, c.client, c.baseURL+endpoint, c.apiKey, body)
	})
	if err != nil {
		if c.observer != nil {
			span.RecordError(err)
			span.SetStatus(observability.StatusError, "backend request failed")
			c.observer.Error(ctx, "Content backend request failed", append(attrs, observability.Error(err))...)
		}
		return nil, fmt.Errorf("backend %s: %w", endpoint, err)
	}

	if raw == nil || *raw == nil {
		return nil, fmt.Errorf("backend %s: empty response: %s", endpoint, httpResponse.Status)
	}
	if message, ok := (*raw)["error"].(string); ok && message != "" {
		return nil, fmt.Errorf("backend %s: %s", endpoint, message)
	}

	if span != nil {
		span.SetStatus(observability.StatusOK, "")
	}
	return *raw, nil
}
