// Package llm wraps the OpenAI chat completion API behind the small
// Generator interface the interpreter consumes.
package llm

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"
)

const systemPrompt = "You are the chat assistant of a sprint task board. Keep answers short and practical."

// OpenAI generates free-form replies through the chat completion endpoint.
type OpenAI struct {
	client *openai.Client
	model  string
	logger *log.Logger
}

// NewOpenAI creates a client for the given API key. An empty model selects a
// sensible default.
func NewOpenAI(apiKey, model string, logger *log.Logger) *OpenAI {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAI{
		client: openai.NewClient(apiKey),
		model:  model,
		logger: logger,
	}
}

// Generate sends the prompt and returns the model's text reply.
func (o *OpenAI) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no response from model")
	}

	o.logger.WithFields(log.Fields{
		"model":        o.model,
		"prompt_chars": len(prompt),
		"reply_chars":  len(resp.Choices[0].Message.Content),
		"total_tokens": resp.Usage.TotalTokens,
	}).Debug("generated fallback reply")

	return resp.Choices[0].Message.Content, nil
}
