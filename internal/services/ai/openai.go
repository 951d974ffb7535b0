package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/lifeosapp/lifeos-api/internal/agent"
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

	// agentTemperature is used for structured (JSON) coaching completions
	agentTemperature = 0.4
	// chatTemperature is used for free-form chat completions
	chatTemperature = 0.5
)

// ErrNoChoices is returned when the API response carries no choices
var ErrNoChoices = errors.New("no choices in response")

// ErrEmptyReply is returned when the model produces an empty chat message
var ErrEmptyReply = errors.New("empty response from model")

// systemInstruction is the fixed behavioral contract sent with every
// completion. The numeric caps and the create-only ops rule live here and
// only here; the gateway trusts the model to honor them.
const systemInstruction = `You are LifeOS Coach (mentor+analyst+planner+operator+mirror).
Always reply valid JSON for the given schema. Be concise, actionable, motivating.
Rules:
- Max 3 insights, max 3 today_actions, max 3 questions.
- Keep steps tiny and doable; tie to goals if possible.
- ops only for low-risk create suggestions (no deletes/updates).
- Use user's wording; no apologies; no chit-chat.
- Always return AT LEAST one insight OR one today_action (prefer both). If data is sparse, still propose one small next step tied to any goal or a generic mini-step.`

// OpenAIProvider implements CoachProvider against OpenAI's chat completions API
type OpenAIProvider struct {
	client    openai.Client
	model     string
	logger    *zap.Logger
	debugMode bool
}

// NewOpenAIProvider creates a provider with default base URL and no logging
func NewOpenAIProvider(apiKey string, model string) *OpenAIProvider {
	return NewOpenAIProviderWithLogger(apiKey, "", model, nil, false)
}

// NewOpenAIProviderWithLogger creates a provider with logger support.
// Empty model and baseURL fall back to the defaults.
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

// agentPayload is the serialized request subset forwarded to the model.
// Chat history never crosses into non-chat completions.
type agentPayload struct {
	Mode        agent.Mode    `json:"mode"`
	FocusGoalID *string       `json:"focus_goal_id"`
	Goals       []agent.Goal  `json:"goals"`
	Tasks       []agent.Task  `json:"tasks"`
	Habits      []agent.Habit `json:"habits"`
	Notes       []string      `json:"notes"`
}

// RunAgent performs one JSON-constrained completion for a non-chat request
// and decodes the model output defensively.
func (p *OpenAIProvider) RunAgent(ctx context.Context, req *agent.Request) (*agent.Response, error) {
	payload := agentPayload{
		Mode:        req.Mode,
		FocusGoalID: req.FocusGoalID,
		Goals:       req.Goals,
		Tasks:       req.Tasks,
		Habits:      req.Habits,
		Notes:       req.Notes,
	}
	if payload.Notes == nil {
		payload.Notes = []string{}
	}

	userContent, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize agent payload: %w", err)
	}

	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(systemInstruction),
		openai.UserMessage(string(userContent)),
	}

	params := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(p.model),
		Messages: messages,
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
		Temperature: openai.Float(agentTemperature),
	}

	p.logRequest(ctx, "run_agent", string(userContent), len(messages))

	start := time.Now()
	resp, err := p.client.Chat.Completions.New(ctx, params)
	latency := time.Since(start)

	if err != nil {
		p.logError(ctx, "run_agent", err, latency)
		if apiErr := ExtractAPIError(err); apiErr != nil {
			return nil, fmt.Errorf("failed to run coach agent: %w", apiErr)
		}
		return nil, fmt.Errorf("failed to run coach agent: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrNoChoices
	}

	content := resp.Choices[0].Message.Content
	p.logResponse(ctx, "run_agent", content, latency)
	if content == "" {
		return nil, ErrEmptyReply
	}

	decoded, err := agent.DecodeResponse([]byte(content))
	if err != nil {
		return nil, fmt.Errorf("coach agent returned malformed output: %w", err)
	}
	return decoded, nil
}

// Chat performs one plain-text completion over the full ordered history.
func (p *OpenAIProvider) Chat(ctx context.Context, history []agent.ChatMessage) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+1)
	messages = append(messages, openai.SystemMessage(systemInstruction))
	for _, msg := range history {
		switch msg.Role {
		case "assistant":
			messages = append(messages, openai.AssistantMessage(msg.Content))
		case "system":
			messages = append(messages, openai.SystemMessage(msg.Content))
		default:
			messages = append(messages, openai.UserMessage(msg.Content))
		}
	}

	params := openai.ChatCompletionNewParams{
		Model:       shared.ChatModel(p.model),
		Messages:    messages,
		Temperature: openai.Float(chatTemperature),
	}

	if p.logger != nil && p.debugMode {
		previews := make([]string, 0, len(history))
		for _, msg := range history {
			previews = append(previews, SanitizePrompt(msg.Content, false))
		}
		p.logger.Debug("llm_api_request",
			zap.String("operation", "chat"),
			zap.String("model", p.model),
			zap.Int("message_count", len(messages)),
			zap.Strings("message_previews", previews),
			zap.String("request_id", ExtractRequestID(ctx)),
		)
	}

	start := time.Now()
	resp, err := p.client.Chat.Completions.New(ctx, params)
	latency := time.Since(start)

	if err != nil {
		p.logError(ctx, "chat", err, latency)
		if apiErr := ExtractAPIError(err); apiErr != nil {
			return "", fmt.Errorf("failed to chat: %w", apiErr)
		}
		return "", fmt.Errorf("failed to chat: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}

	content := resp.Choices[0].Message.Content
	p.logResponse(ctx, "chat", content, latency)
	if content == "" {
		return "", ErrEmptyReply
	}
	return content, nil
}

func (p *OpenAIProvider) logRequest(ctx context.Context, operation, prompt string, messageCount int) {
	if p.logger == nil || !p.debugMode {
		return
	}
	p.logger.Debug("llm_api_request",
		zap.String("operation", operation),
		zap.String("model", p.model),
		zap.Int("prompt_length", len(prompt)),
		zap.Int("message_count", messageCount),
		zap.String("prompt_preview", SanitizePrompt(prompt, true)),
		zap.String("request_id", ExtractRequestID(ctx)),
	)
}

func (p *OpenAIProvider) logResponse(ctx context.Context, operation, content string, latency time.Duration) {
	if p.logger == nil || !p.debugMode {
		return
	}
	p.logger.Debug("llm_api_response",
		zap.String("operation", operation),
		zap.String("model", p.model),
		zap.Int("response_length", len(content)),
		zap.String("response_preview", SanitizeResponse(content, true)),
		zap.String("request_id", ExtractRequestID(ctx)),
		zap.Int64("latency_ms", latency.Milliseconds()),
	)
}

func (p *OpenAIProvider) logError(ctx context.Context, operation string, err error, latency time.Duration) {
	if p.logger == nil || !p.debugMode {
		return
	}
	p.logger.Debug("llm_api_error",
		zap.String("operation", operation),
		zap.String("model", p.model),
		zap.Error(err),
		zap.String("request_id", ExtractRequestID(ctx)),
		zap.Int64("latency_ms", latency.Milliseconds()),
	)
}

// RegisterOpenAI registers the OpenAI provider with the registry
func RegisterOpenAI(registry *ProviderRegistry) {
	registry.Register("openai", func(config map[string]string) (CoachProvider, error) {
		apiKey, ok := config["api_key"]
		if !ok || apiKey == "" {
			return nil, fmt.Errorf("openai api_key is required")
		}
		return NewOpenAIProviderWithLogger(apiKey, config["base_url"], config["model"], nil, false), nil
	})
}
