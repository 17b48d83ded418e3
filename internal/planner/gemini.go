// internal/planner/gemini.go
package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/classmood/backend/internal/models"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Client talks to the Gemini generateContent endpoint. All calls are
// best-effort: callers fall back to canned text when generation fails.
type Client struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
}

func NewClient(apiKey, model string) *Client {
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type generationConfig struct {
	ResponseMimeType string          `json:"responseMimeType,omitempty"`
	ResponseSchema   json.RawMessage `json:"responseSchema,omitempty"`
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (c *Client) generate(ctx context.Context, prompt string, cfg *generationConfig) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("gemini api key not configured")
	}

	req := generateRequest{
		Contents:         []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: cfg,
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read gemini response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini API error (%d): %s", resp.StatusCode, string(body))
	}

	var out generateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("failed to decode gemini response: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}

var lessonPlanSchema = json.RawMessage(`{
	"type": "OBJECT",
	"properties": {
		"topic": {"type": "STRING"},
		"objective": {"type": "STRING"},
		"activities": {"type": "ARRAY", "items": {"type": "STRING"}},
		"resources": {"type": "ARRAY", "items": {"type": "STRING"}},
		"duration": {"type": "STRING"}
	}
}`)

// GenerateLessonPlan asks for a structured plan for one class session.
func (c *Client) GenerateLessonPlan(ctx context.Context, subject, topic, duration string) (*models.LessonPlan, error) {
	prompt := fmt.Sprintf(
		`Genera una planeación de clase detallada para la materia de %q nivel preparatoria (México) sobre el tema %q con una duración de %q.`,
		subject, topic, duration,
	)

	text, err := c.generate(ctx, prompt, &generationConfig{
		ResponseMimeType: "application/json",
		ResponseSchema:   lessonPlanSchema,
	})
	if err != nil {
		return nil, err
	}

	var plan models.LessonPlan
	if err := json.Unmarshal([]byte(text), &plan); err != nil {
		return nil, fmt.Errorf("failed to parse lesson plan: %w", err)
	}
	return &plan, nil
}

// StudentFeedback writes a short motivational note for one student.
func (c *Client) StudentFeedback(ctx context.Context, name string, average float64, attendance int) (string, error) {
	prompt := fmt.Sprintf(
		`Escribe un breve comentario de retroalimentación (máximo 40 palabras) motivacional para el estudiante %s.
Tiene un promedio de %.1f y una asistencia del %d%%.
El tono debe ser amable, profesional y alentador, como un docente de preparatoria en México.`,
		name, average, attendance,
	)

	text, err := c.generate(ctx, prompt, nil)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "Sigue esforzándote.", nil
	}
	return text, nil
}

// QuizQuestion drafts one hard multiple-choice question on a topic.
func (c *Client) QuizQuestion(ctx context.Context, topic string) (string, error) {
	prompt := fmt.Sprintf(
		`Genera una pregunta de examen de opción múltiple difícil sobre %q para nivel preparatoria. Incluye la respuesta correcta al final.`,
		topic,
	)
	return c.generate(ctx, prompt, nil)
}
