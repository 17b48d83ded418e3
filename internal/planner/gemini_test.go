package planner

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient("test-key", "gemini-2.5-flash")
	c.baseURL = srv.URL
	return c
}

func candidateResponse(text string) string {
	resp := map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]any{{"text": text}}}},
		},
	}
	out, _ := json.Marshal(resp)
	return string(out)
}

func TestGenerateLessonPlan(t *testing.T) {
	plan := `{"topic":"La Revolución Mexicana","objective":"Analizar causas y consecuencias","activities":["Debate en equipos"],"resources":["Línea del tiempo"],"duration":"90 minutos"}`

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "gemini-2.5-flash:generateContent")
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotNil(t, req.GenerationConfig)
		assert.Equal(t, "application/json", req.GenerationConfig.ResponseMimeType)

		w.Write([]byte(candidateResponse(plan)))
	})

	got, err := c.GenerateLessonPlan(context.Background(), "Historia", "La Revolución Mexicana", "90 minutos")
	require.NoError(t, err)
	assert.Equal(t, "La Revolución Mexicana", got.Topic)
	assert.Equal(t, []string{"Debate en equipos"}, got.Activities)
	assert.Equal(t, "90 minutos", got.Duration)
}

func TestStudentFeedback(t *testing.T) {
	t.Run("returns generated text", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(candidateResponse("¡Excelente trabajo, Ana!")))
		})

		text, err := c.StudentFeedback(context.Background(), "Ana", 9.2, 98)
		require.NoError(t, err)
		assert.Equal(t, "¡Excelente trabajo, Ana!", text)
	})

	t.Run("empty candidate falls back to canned note", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(candidateResponse("")))
		})

		text, err := c.StudentFeedback(context.Background(), "Ana", 9.2, 98)
		require.NoError(t, err)
		assert.Equal(t, "Sigue esforzándote.", text)
	})
}

func TestGenerateErrors(t *testing.T) {
	t.Run("missing api key", func(t *testing.T) {
		c := NewClient("", "gemini-2.5-flash")
		_, err := c.QuizQuestion(context.Background(), "álgebra")
		assert.Error(t, err)
	})

	t.Run("api error status", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"quota exceeded"}`, http.StatusTooManyRequests)
		})

		_, err := c.QuizQuestion(context.Background(), "álgebra")
		assert.ErrorContains(t, err, "429")
	})

	t.Run("no candidates", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"candidates":[]}`))
		})

		_, err := c.QuizQuestion(context.Background(), "álgebra")
		assert.ErrorContains(t, err, "no candidates")
	})
}
