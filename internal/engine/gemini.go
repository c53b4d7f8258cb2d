package engine

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"awn-backend/internal/domain"
	"awn-backend/internal/logger"
)

// Temperatures are fixed per mode: summaries are fully deterministic for
// graded study content, quizzes get a little variety in distractors.
const (
	summaryTemperature = 0.0
	quizTemperature    = 0.4
)

// GeminiEngine calls the Google Generative Language REST API.
type GeminiEngine struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

func NewGeminiEngine(apiKey, model, baseURL string, timeout time.Duration) *GeminiEngine {
	return &GeminiEngine{
		apiKey:  apiKey,
		model:   model,
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type generateContentRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"` // base64
}

type generationConfig struct {
	Temperature      float64         `json:"temperature"`
	ResponseMIMEType string          `json:"responseMimeType,omitempty"`
	ResponseSchema   json.RawMessage `json:"responseSchema,omitempty"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// quizResponseSchema constrains the structured quiz output. The question
// count is enforced by the caller; the option count and answer range are
// enforced here too so malformed output fails early.
var quizResponseSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "questions": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "question": {"type": "string"},
          "options": {"type": "array", "items": {"type": "string"}, "minItems": 3, "maxItems": 3},
          "correctAnswer": {"type": "integer", "minimum": 0, "maximum": 2},
          "justification": {"type": "string"},
          "example": {"type": "string"}
        },
        "required": ["question", "options", "correctAnswer", "justification", "example"]
      }
    }
  },
  "required": ["questions"]
}`)

func (e *GeminiEngine) GenerateText(ctx context.Context, prompt string, doc Document) (string, error) {
	cfg := &generationConfig{Temperature: summaryTemperature}
	return e.generate(ctx, "GenerateText", prompt, doc, cfg)
}

func (e *GeminiEngine) GenerateQuiz(ctx context.Context, prompt string, doc Document) ([]domain.QuizQuestion, error) {
	cfg := &generationConfig{
		Temperature:      quizTemperature,
		ResponseMIMEType: "application/json",
		ResponseSchema:   quizResponseSchema,
	}
	text, err := e.generate(ctx, "GenerateQuiz", prompt, doc, cfg)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Questions []struct {
			Question      string   `json:"question"`
			Options       []string `json:"options"`
			CorrectAnswer int32    `json:"correctAnswer"`
			Justification string   `json:"justification"`
			Example       string   `json:"example"`
		} `json:"questions"`
	}
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, fmt.Errorf("%w: undecodable quiz output: %v", domain.ErrEngineFailure, err)
	}

	questions := make([]domain.QuizQuestion, len(parsed.Questions))
	for i, q := range parsed.Questions {
		questions[i] = domain.QuizQuestion{
			Question:      q.Question,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Justification: q.Justification,
			Example:       q.Example,
			OrderIndex:    int32(i),
		}
	}
	return questions, nil
}

func (e *GeminiEngine) generate(ctx context.Context, operation, prompt string, doc Document, cfg *generationConfig) (string, error) {
	reqBody := generateContentRequest{
		Contents: []content{{
			Role: "user",
			Parts: []part{
				{Text: prompt},
				{InlineData: &inlineData{
					MimeType: doc.MimeType,
					Data:     base64.StdEncoding.EncodeToString(doc.Data),
				}},
			},
		}},
		GenerationConfig: cfg,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("encode engine request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", e.baseURL, e.model, e.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build engine request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	logger.ExternalServiceCall("gemini", operation, "model", e.model, "mime_type", doc.MimeType)
	resp, err := e.client.Do(req)
	if err != nil {
		logger.ExternalServiceResult("gemini", operation, err)
		return "", fmt.Errorf("%w: %v", domain.ErrEngineFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", domain.ErrEngineFailure, err)
	}

	var parsed generateContentResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("%w: undecodable response: %v", domain.ErrEngineFailure, err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := resp.Status
		if parsed.Error != nil {
			msg = parsed.Error.Message
		}
		err := fmt.Errorf("%w: %s", domain.ErrEngineFailure, msg)
		logger.ExternalServiceResult("gemini", operation, err)
		return "", err
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		err := fmt.Errorf("%w: empty response", domain.ErrEngineFailure)
		logger.ExternalServiceResult("gemini", operation, err)
		return "", err
	}

	var text string
	for _, p := range parsed.Candidates[0].Content.Parts {
		text += p.Text
	}
	if text == "" {
		err := fmt.Errorf("%w: no text generated", domain.ErrEngineFailure)
		logger.ExternalServiceResult("gemini", operation, err)
		return "", err
	}

	logger.ExternalServiceResult("gemini", operation, nil, "output_chars", len(text))
	return text, nil
}
