package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sahaayak/airecover/core/extract"
)

func TestNew_FromEnv(t *testing.T) {
	t.Setenv("AIRECOVER_BACKEND_URL", "https://content.example.com/")
	t.Setenv("AIRECOVER_API_KEY", "env-key")

	c := New()

	if c.baseURL != "https://content.example.com" {
		t.Errorf("baseURL = %q", c.baseURL)
	}
	if c.apiKey != "env-key" {
		t.Errorf("apiKey = %q", c.apiKey)
	}
}

func TestNew_Defaults(t *testing.T) {
	t.Setenv("AIRECOVER_BACKEND_URL", "")
	t.Setenv("AIRECOVER_API_KEY", "")

	c := New()

	if c.baseURL != defaultBaseURL {
		t.Errorf("baseURL = %q, want %q", c.baseURL, defaultBaseURL)
	}
	if c.client == nil {
		t.Error("expected a default HTTP client")
	}
}

func TestGenerateQuiz(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody QuizRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"quiz_text": "```json\n{\"questions\": [{\"question\": \"What do plants need?\", \"options\": [\"Light\", \"Sand\"], \"correct_answer\": \"Light\"},]}\n```",
			"topic":     "plants",
		})
	}))
	defer server.Close()

	client := New().WithBaseURL(server.URL).WithAPIKey("test-key").WithHttpClient(server.Client())

	raw, err := client.GenerateQuiz(context.Background(), QuizRequest{Topic: "plants", NumQuestions: 1})
	if err != nil {
		t.Fatalf("GenerateQuiz failed: %v", err)
	}

	if gotPath != quizEndpoint {
		t.Errorf("path = %q, want %q", gotPath, quizEndpoint)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotBody.Topic != "plants" || gotBody.NumQuestions != 1 {
		t.Errorf("request body = %+v", gotBody)
	}

	rec, err := extract.New().Extract(context.Background(), raw)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if q := rec.Questions(); len(q) != 1 || !q[0].AnswerInOptions() {
		t.Errorf("questions = %+v", q)
	}
}

func TestGenerateWorksheet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != worksheetEndpoint {
			t.Errorf("path = %q, want %q", r.URL.Path, worksheetEndpoint)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"worksheet_content": "Worksheet: Fractions",
			"subject":           "math",
		})
	}))
	defer server.Close()

	raw, err := New().WithBaseURL(server.URL).GenerateWorksheet(context.Background(), WorksheetRequest{Topic: "fractions", Subject: "math"})
	if err != nil {
		t.Fatalf("GenerateWorksheet failed: %v", err)
	}
	if raw["worksheet_content"] != "Worksheet: Fractions" {
		t.Errorf("raw = %v", raw)
	}
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		topic   string
		wantErr string
	}{
		{name: "blank topic", topic: "  ", wantErr: ErrTopicRequired.Error()},
		{name: "server error", topic: "plants", status: http.StatusInternalServerError, body: `{"error": "Quiz generation failed: boom"}`, wantErr: "500"},
		{name: "error field on 200", topic: "plants", status: http.StatusOK, body: `{"error": "Unsupported request type"}`, wantErr: "Unsupported request type"},
		{name: "null body", topic: "plants", status: http.StatusOK, body: `null`, wantErr: "empty response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := New().WithBaseURL(server.URL).GenerateQuiz(context.Background(), QuizRequest{Topic: tt.topic})
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestGenerateQuiz_BlankTopicSkipsRequest(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	_, err := New().WithBaseURL(server.URL).GenerateQuiz(context.Background(), QuizRequest{})
	if !errors.Is(err, ErrTopicRequired) {
		t.Errorf("error = %v, want ErrTopicRequired", err)
	}
	if called {
		t.Error("backend should not be called for a blank topic")
	}
}
