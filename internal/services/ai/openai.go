package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/echotask/echotask/internal/parser"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
	"go.uber.org/zap"
)

const (
	// DefaultOpenAIModel is the default model to use
	DefaultOpenAIModel = "gpt-4o-mini"
	// DefaultOpenAIBaseURL is the default OpenAI API base URL
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	// DefaultTimeout is the default timeout for API calls
	DefaultTimeout = 30 * time.Second

	// ErrNoChoicesInResponse is returned when the API response has no choices
	ErrNoChoicesInResponse = "no choices in response"
)

// OpenAIProvider implements the Provider interface using OpenAI's API
type OpenAIProvider struct {
	client    openai.Client
	model     string
	logger    *zap.Logger
	debugMode bool
}

// NewOpenAIProvider creates a new OpenAI provider
func NewOpenAIProvider(apiKey string, model string) *OpenAIProvider {
	return NewOpenAIProviderWithLogger(apiKey, DefaultOpenAIBaseURL, model, nil, false)
}

// NewOpenAIProviderWithLogger creates a new OpenAI provider with logger support
func NewOpenAIProviderWithLogger(apiKey string, baseURL string, model string, logger *zap.Logger, debugMode bool) *OpenAIProvider {
	if model == "" {
		model = DefaultOpenAIModel
	}
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}

	httpClient := &http.Client{
		Timeout: DefaultTimeout,
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithHTTPClient(httpClient),
	)

	return &OpenAIProvider{
		client:    client,
		model:     model,
		logger:    logger,
		debugMode: debugMode,
	}
}

// ParseUtterance re-interprets a raw utterance into a structured task
func (p *OpenAIProvider) ParseUtterance(ctx context.Context, utterance string, now time.Time) (*EnrichedTask, error) {
	content, err := p.buildAndSendParseRequest(ctx, utterance, now)
	if err != nil {
		return nil, err
	}

	enriched, err := parseAndValidateEnrichment(content)
	if err != nil {
		return nil, err
	}
	return enriched, nil
}

// parseAndValidateEnrichment decodes the model's JSON answer and normalizes it
// into something safe to persist. Invalid dates, times, or categories are
// dropped or defaulted rather than failing the whole enrichment.
func parseAndValidateEnrichment(content string) (*EnrichedTask, error) {
	var enriched struct {
		Title    string `json:"title"`
		Notes    string `json:"notes"`
		DueDate  string `json:"due_date"`
		DueTime  string `json:"due_time"`
		Category string `json:"category"`
	}

	raw := content
	if err := json.Unmarshal([]byte(raw), &enriched); err != nil {
		// Some models wrap JSON in prose despite the response format hint
		if len(raw) > 0 && raw[0] != '{' {
			start := bytes.Index([]byte(raw), []byte("{"))
			end := bytes.LastIndex([]byte(raw), []byte("}"))
			if start != -1 && end != -1 && end > start {
				raw = raw[start : end+1]
			}
		}
		if err := json.Unmarshal([]byte(raw), &enriched); err != nil {
			return nil, fmt.Errorf("failed to parse enrichment response: %w", err)
		}
	}

	title := strings.TrimSpace(enriched.Title)
	if title == "" {
		return nil, errors.New("enrichment response missing title")
	}

	out := &EnrichedTask{
		Title: title,
		Notes: strings.TrimSpace(enriched.Notes),
	}

	if enriched.DueDate != "" {
		if _, err := time.Parse(parser.ISODateFormat, enriched.DueDate); err == nil {
			d := enriched.DueDate
			out.DueDate = &d
		}
	}

	if enriched.DueTime != "" {
		if _, err := time.Parse("15:04", enriched.DueTime); err == nil && len(enriched.DueTime) == 5 {
			t := enriched.DueTime
			out.DueTime = &t
		}
	}

	out.Category = parser.DefaultCategory
	for _, c := range parser.Categories() {
		if enriched.Category == c {
			out.Category = c
			break
		}
	}

	return out, nil
}

// buildAndSendParseRequest builds the prompt, sends the request, and returns the response content or an error.
func (p *OpenAIProvider) buildAndSendParseRequest(ctx context.Context, utterance string, now time.Time) (string, error) {
	prompt := buildParsePrompt(utterance, now)
	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage("You are a helpful assistant that turns voice-captured task utterances into structured tasks. Respond with valid JSON only."),
		openai.UserMessage(prompt),
	}
	req := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(p.model),
		Messages: messages,
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	}

	requestID := ExtractRequestID(ctx)
	userIDStr := ExtractUserID(ctx)
	taskIDStr := ExtractTaskID(ctx)

	if p.logger != nil && p.debugMode {
		p.logger.Debug("llm_api_request",
			zap.String("operation", "parse_utterance"),
			zap.String("model", p.model),
			zap.Int("prompt_length", len(prompt)),
			zap.String("prompt_preview", SanitizePrompt(prompt, true)),
			zap.String("user_id", userIDStr),
			zap.String("task_id", taskIDStr),
			zap.String("request_id", requestID),
		)
	}

	start := time.Now()
	resp, err := p.client.Chat.Completions.New(ctx, req)
	latency := time.Since(start)
	if err != nil {
		if p.logger != nil && p.debugMode {
			p.logger.Debug("llm_api_error",
				zap.String("operation", "parse_utterance"),
				zap.String("model", p.model),
				zap.Error(err),
				zap.String("user_id", userIDStr),
				zap.String("task_id", taskIDStr),
				zap.String("request_id", requestID),
				zap.Int64("latency_ms", latency.Milliseconds()),
			)
		}
		if apiErr := ExtractAPIError(err); apiErr != nil {
			return "", fmt.Errorf("failed to parse utterance: %w", apiErr)
		}
		return "", fmt.Errorf("failed to parse utterance: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New(ErrNoChoicesInResponse)
	}

	content := resp.Choices[0].Message.Content
	if p.logger != nil && p.debugMode {
		p.logger.Debug("llm_api_response",
			zap.String("operation", "parse_utterance"),
			zap.String("model", p.model),
			zap.Int("response_length", len(content)),
			zap.String("response_preview", SanitizeResponse(content, true)),
			zap.String("user_id", userIDStr),
			zap.String("task_id", taskIDStr),
			zap.String("request_id", requestID),
			zap.Int64("latency_ms", latency.Milliseconds()),
		)
	}
	return content, nil
}

// buildParsePrompt builds the prompt for utterance parsing with time context
func buildParsePrompt(utterance string, now time.Time) string {
	prompt := fmt.Sprintf(`Extract a structured task from the following spoken utterance.

Utterance: "%s"`, utterance)

	prompt += "\n\nTime context:"
	prompt += fmt.Sprintf("\n- Current date: %s (%s)", now.Format(parser.ISODateFormat), now.Weekday())
	prompt += fmt.Sprintf("\n- Current time: %s", now.Format("15:04"))

	prompt += fmt.Sprintf(`

Respond with a JSON object in this format:
{
  "title": "short imperative task title",
  "notes": "any extra detail not captured in the title, or empty",
  "due_date": "YYYY-MM-DD or empty if no date is implied",
  "due_time": "HH:MM in 24-hour clock or empty if no time is implied",
  "category": "one of: %s"
}

Guidelines:
- Resolve relative dates ("tomorrow", "next Friday") against the current date above.
- Keep the title short, capitalized, and free of date or time words.
- Use the category that best matches the task's subject, not the verb alone.
- Leave due_date and due_time empty rather than guessing.

Return only valid JSON.`, strings.Join(parser.Categories(), ", "))

	return prompt
}

// RegisterOpenAI registers the OpenAI provider with the registry
func RegisterOpenAI(registry *ProviderRegistry) {
	registry.Register("openai", func(config map[string]string) (Provider, error) {
		apiKey, ok := config["api_key"]
		if !ok || apiKey == "" {
			return nil, fmt.Errorf("openai api_key is required")
		}

		model := config["model"]
		baseURL := config["base_url"]

		return NewOpenAIProviderWithLogger(apiKey, baseURL, model, nil, false), nil
	})
}
