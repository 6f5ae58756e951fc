package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	domai "github.com/ethosnet/ethosnet/internal/domain/ai"
	"github.com/ethosnet/ethosnet/internal/infra/ai/prompt"
)

const maxTokens = 2048

// EmbeddingDim is the vector size of the embedding model in use.
const EmbeddingDim = 1536

type Client struct {
	*openai.Client
	Model          string
	EmbeddingModel openai.EmbeddingModel
}

func NewClient(apiKey, model string) *Client {
	return &Client{
		Client:         openai.NewClient(apiKey),
		Model:          model,
		EmbeddingModel: openai.SmallEmbedding3,
	}
}

// AssessDecision implements the ethics assessment stage of the pipeline.
func (c *Client) AssessDecision(ctx context.Context, decision string, guidelines []string) (*domai.Assessment, error) {
	raw, err := c.chatJSON(ctx, prompt.AssessmentSystemPrompt(), prompt.AssessmentUserPrompt(decision, guidelines))
	if err != nil {
		return nil, err
	}
	var a domai.Assessment
	if err := decodeReply(raw, &a); err != nil {
		return nil, err
	}
	a.Raw = raw
	return &a, nil
}

// ScoreEntry rates a knowledge entry for quality and relevance, 0-100 each.
func (c *Client) ScoreEntry(ctx context.Context, title, content string) (float64, float64, error) {
	raw, err := c.chatJSON(ctx, prompt.EntryScoreSystemPrompt(), prompt.EntryScoreUserPrompt(title, content))
	if err != nil {
		return 0, 0, err
	}
	var out struct {
		Quality   float64 `json:"quality"`
		Relevance float64 `json:"relevance"`
	}
	if err := decodeReply(raw, &out); err != nil {
		return 0, 0, err
	}
	return out.Quality, out.Relevance, nil
}

// ScoreContribution rates a contribution 0-1 for reputation weighting.
func (c *Client) ScoreContribution(ctx context.Context, kind, content string) (float64, error) {
	raw, err := c.chatJSON(ctx, "", prompt.ContributionScorePrompt(kind, content))
	if err != nil {
		return 0, err
	}
	var out struct {
		Quality float64 `json:"quality"`
	}
	if err := decodeReply(raw, &out); err != nil {
		return 0, err
	}
	return out.Quality, nil
}

// EvaluateStandard rates a proposed ethical standard 0-100.
func (c *Client) EvaluateStandard(ctx context.Context, standard string) (float64, error) {
	raw, err := c.chatJSON(ctx, "", prompt.StandardEvalPrompt(standard))
	if err != nil {
		return 0, err
	}
	var out struct {
		QualityScore float64 `json:"quality_score"`
	}
	if err := decodeReply(raw, &out); err != nil {
		return 0, err
	}
	return out.QualityScore, nil
}

// ScenarioFeedback returns free-text feedback on a scenario decision.
func (c *Client) ScenarioFeedback(ctx context.Context, scenario, decision string) (string, error) {
	return c.chatText(ctx, prompt.ScenarioFeedbackPrompt(scenario, decision))
}

// Summarize condenses retrieved passages on a topic.
func (c *Client) Summarize(ctx context.Context, topic string, passages []string) (string, error) {
	return c.chatText(ctx, prompt.SummaryPrompt(topic, passages))
}

// Embed returns the embedding vector for a text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := c.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: c.EmbeddingModel,
	})
	if err != nil {
		return nil, wrapAPIError(err, "create embeddings")
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("empty embeddings response")
	}
	return resp.Data[0].Embedding, nil
}

func (c *Client) chatJSON(ctx context.Context, system, user string) (string, error) {
	req := c.baseRequest(system, user)
	req.ResponseFormat = &openai.ChatCompletionResponseFormat{
		Type: openai.ChatCompletionResponseFormatTypeJSONObject,
	}
	return c.complete(ctx, req)
}

func (c *Client) chatText(ctx context.Context, user string) (string, error) {
	return c.complete(ctx, c.baseRequest("", user))
}

func (c *Client) baseRequest(system, user string) openai.ChatCompletionRequest {
	model := c.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	msgs := make([]openai.ChatCompletionMessage, 0, 2)
	if system != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: system})
	}
	msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: user})

	req := openai.ChatCompletionRequest{Model: model, Messages: msgs}
	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	if strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") || strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5") {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}
	return req
}

func (c *Client) complete(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", wrapAPIError(err, "create chat completion")
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}
	return resp.Choices[0].Message.Content, nil
}

// wrapAPIError maps provider quota errors to the domain sentinel.
func wrapAPIError(err error, op string) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == 429 {
		return domai.ErrQuotaExceeded
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

// decodeReply parses a model reply, tolerating markdown code fences.
func decodeReply(raw string, v any) error {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)
	if err := json.Unmarshal([]byte(s), v); err != nil {
		return fmt.Errorf("%w: %v", domai.ErrBadAssessment, err)
	}
	return nil
}
