// Package backend is an HTTP client for the content generation backend.
//
// The backend wraps model output in one of several envelopes (quiz_data,
// quiz_text, worksheet_content, data.content). The client returns the body
// untouched as an [extract.RawResponse]; recovering the structured payload
// is left to package extract.
//
// Configuration is read from the environment:
//
//	AIRECOVER_BACKEND_URL   base URL, defaults to http://localhost:5000
//	AIRECOVER_API_KEY       optional bearer token
//
// Example:
//
//	client := backend.New()
//	raw, err := client.GenerateQuiz(ctx, backend.QuizRequest{Topic: "photosynthesis"})
//	if err != nil {
//	    return err
//	}
//	rec, err := extract.New().Extract(ctx, raw)
package backend
