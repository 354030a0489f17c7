package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/surveyforge/survey-service/internal/models"
)

// OpenAIGenerator calls an OpenAI-compatible chat completions endpoint and
// decodes the structured questionnaire from the model's reply.
type OpenAIGenerator struct {
	client   *http.Client
	apiKey   string
	model    string
	endpoint string
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature,omitempty"`
	ResponseFormat *respFormat   `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type respFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func NewOpenAIGenerator(apiKey, model, baseURL string) *OpenAIGenerator {
	endpoint := strings.TrimSpace(baseURL)
	if endpoint == "" {
		endpoint = "https://api.openai.com/v1/chat/completions"
	} else {
		endpoint = strings.TrimRight(endpoint, "/")
		if !strings.HasSuffix(endpoint, "/chat/completions") {
			if strings.HasSuffix(endpoint, "/v1") {
				endpoint += "/chat/completions"
			} else {
				endpoint += "/v1/chat/completions"
			}
		}
	}
	return &OpenAIGenerator{
		client:   &http.Client{Timeout: 90 * time.Second},
		apiKey:   apiKey,
		model:    model,
		endpoint: endpoint,
	}
}

func (g *OpenAIGenerator) Generate(ctx context.Context, req *models.GenerationRequest) (*models.Questionnaire, error) {
	if strings.TrimSpace(g.apiKey) == "" {
		return nil, ErrNotConfigured
	}

	prompt := buildPrompt(req)
	body, err := json.Marshal(chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
		Temperature:    0.3,
		ResponseFormat: &respFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Body: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Body: err.Error()}
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("%w: status %d", ErrUnauthorized, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &TransportError{Status: resp.StatusCode, Body: string(respBody)}
	}

	var chat chatResponse
	if err := json.Unmarshal(respBody, &chat); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	if len(chat.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices in response", ErrMalformedOutput)
	}

	content := extractJSON(chat.Choices[0].Message.Content)
	questionnaire, err := models.DecodeQuestionnaire([]byte(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	return questionnaire, nil
}

func buildPrompt(req *models.GenerationRequest) string {
	return fmt.Sprintf(
		"You are a professional survey designer. "+
			"Generate a concise questionnaire based on the input. "+
			"Return JSON that matches the schema: "+
			"{title: string, intro: string, questions: "+
			"[{id: string, type: 'single_choice'|'multiple_choice'|'rating'|'short_text', "+
			"text: string, required: boolean, options?: string[]}]}. "+
			"Keep options short. Limit to the requested question count. "+
			"Decide which questions are required and set required=true when needed. "+
			"Input: goal=%s, audience=%s, tone=%s, language=%s, question_count=%d.",
		req.Goal, req.Audience, req.Tone, req.Language, req.QuestionCount,
	)
}

// extractJSON strips markdown fencing some models wrap around JSON replies.
func extractJSON(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	}
	return content
}
