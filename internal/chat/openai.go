package chat

import (
	"context"
	"fmt"
	"log/slog"

	"uni-assistant/internal/database"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type OpenAIGenerator struct {
	client       openai.Client
	model        string
	systemPrompt string
}

func NewOpenAIGenerator(apiKey, model, systemPrompt string, opts ...option.RequestOption) *OpenAIGenerator {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &OpenAIGenerator{
		client:       openai.NewClient(opts...),
		model:        model,
		systemPrompt: systemPrompt,
	}
}

func (o *OpenAIGenerator) Generate(ctx context.Context, history []Turn, userText string) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+2)

	if len(o.systemPrompt) > 0 {
		messages = append(messages, openai.SystemMessage(o.systemPrompt))
	}
	for _, turn := range history {
		if turn.Sender == database.SenderAI {
			messages = append(messages, openai.AssistantMessage(turn.Text))
		} else {
			messages = append(messages, openai.UserMessage(turn.Text))
		}
	}
	messages = append(messages, openai.UserMessage(userText))

	res, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: messages,
		Model:    o.model,
	})
	if err != nil {
		slog.Error("openai error: chat completions failed", "model", o.model, "error", err)
		return "", fmt.Errorf("openai generation failed: %w", err)
	}

	if len(res.Choices) == 0 {
		return "", nil
	}

	return res.Choices[0].Message.Content, nil
}

func (o *OpenAIGenerator) Model() string {
	return o.model
}
