package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func fastRetry(maxRetries int) RetryPolicy {
	return RetryPolicy{MaxRetries: maxRetries, InitialBackoff: time.Millisecond, MaxBackoff: 2 * time.Millisecond}
}

func TestRetry_RecoversFromTransientStatus(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"quiz_text": "{\"questions\": []}"}`))
	}))
	defer server.Close()

	client := New().WithBaseURL(server.URL).WithRetry(fastRetry(3))

	raw, err := client.GenerateQuiz(context.Background(), QuizRequest{Topic: "plants"})
	if err != nil {
		t.Fatalf("GenerateQuiz failed: %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
	if _, ok := raw["quiz_text"]; !ok {
		t.Errorf("raw = %v", raw)
	}
}

func TestRetry_Exhausted(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := New().WithBaseURL(server.URL).WithRetry(fastRetry(2)).GenerateQuiz(context.Background(), QuizRequest{Topic: "plants"})

	if !errors.Is(err, ErrRetryExhausted) {
		t.Fatalf("error = %v, want ErrRetryExhausted", err)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestRetry_NonRetryableStatus(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	_, err := New().WithBaseURL(server.URL).WithRetry(fastRetry(3)).GenerateQuiz(context.Background(), QuizRequest{Topic: "plants"})

	if err == nil || errors.Is(err, ErrRetryExhausted) {
		t.Fatalf("error = %v, want a plain request error", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestRetry_NoPolicy(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	if _, err := New().WithBaseURL(server.URL).GenerateQuiz(context.Background(), QuizRequest{Topic: "plants"}); err == nil {
		t.Fatal("expected an error")
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestRetry_StopsOnCancel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	client := New().WithBaseURL(server.URL).WithRetry(RetryPolicy{MaxRetries: 5, InitialBackoff: time.Hour, MaxBackoff: time.Hour})

	done := make(chan error, 1)
	go func() {
		_, err := client.GenerateQuiz(ctx, QuizRequest{Topic: "plants"})
		done <- err
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("retry loop ignored cancellation")
	}
}

func TestRetryPolicy_Backoff(t *testing.T) {
	policy := RetryPolicy{InitialBackoff: 100 * time.Millisecond, MaxBackoff: 300 * time.Millisecond, BackoffFactor: 2, JitterFraction: 0.1}.withDefaults()

	tests := []struct {
		attempt int
		min     time.Duration
		max     time.Duration
	}{
		{0, 100 * time.Millisecond, 110 * time.Millisecond},
		{1, 200 * time.Millisecond, 220 * time.Millisecond},
		{2, 300 * time.Millisecond, 330 * time.Millisecond},
		{5, 300 * time.Millisecond, 330 * time.Millisecond},
	}

	for _, tt := range tests {
		got := policy.backoff(tt.attempt)
		if got < tt.min || got > tt.max {
			t.Errorf("backoff(%d) = %v, want within [%v, %v]", tt.attempt, got, tt.min, tt.max)
		}
	}
}

func TestClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	start := time.Now()
	_, err := New().WithBaseURL(server.URL).WithTimeout(20*time.Millisecond).GenerateQuiz(context.Background(), QuizRequest{Topic: "plants"})

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want context.DeadlineExceeded", err)
	}
	if time.Since(start) > time.Second {
		t.Errorf("timeout not applied, call took %v", time.Since(start))
	}
}
