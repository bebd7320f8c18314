package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/neetsprint/neetsprint-server/internal/content"
)

const (
	// MaxMessageLen bounds a single learner message.
	MaxMessageLen = 1000
	// maxReplyTokens bounds the model reply.
	maxReplyTokens = 500
)

var (
	ErrMessageEmpty   = errors.New("chat: message is required")
	ErrMessageTooLong = fmt.Errorf("chat: message exceeds %d characters", MaxMessageLen)
)

// Message is one prior turn of the conversation.
type Message struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// Tutor wraps an OpenAI-compatible chat endpoint.
type Tutor struct {
	client *openai.Client
	model  string
}

// NewTutor builds a tutor. baseURL may point at any OpenAI-compatible
// gateway; an empty model falls back to gpt-4o-mini.
func NewTutor(apiKey, baseURL, model string) *Tutor {
	if model == "" {
		model = "gpt-4o-mini"
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Tutor{client: openai.NewClientWithConfig(cfg), model: model}
}

func (t *Tutor) Model() string { return t.model }

// Ask answers one learner message in the context of a chapter,
// optionally continuing a prior conversation.
func (t *Tutor) Ask(ctx context.Context, ch content.Chapter, history []Message, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", ErrMessageEmpty
	}
	if len(message) > MaxMessageLen {
		return "", ErrMessageTooLong
	}

	msgs := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: PromptFromChapter(ch)},
	}
	for _, m := range history {
		role := openai.ChatMessageRoleUser
		if m.Role == "assistant" {
			role = openai.ChatMessageRoleAssistant
		}
		msgs = append(msgs, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: message})

	resp, err := t.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       t.model,
		Messages:    msgs,
		Temperature: 0.7,
		MaxTokens:   maxReplyTokens,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", errors.New("chat: model returned no content")
	}
	return resp.Choices[0].Message.Content, nil
}
