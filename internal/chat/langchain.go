package chat

import (
	"context"
	"fmt"

	"uni-assistant/internal/database"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

type LangchainGenerator struct {
	llm          llms.Model
	model        string
	systemPrompt string
}

func NewLangchainGenerator(apiKey, model, systemPrompt string, opts ...openai.Option) (*LangchainGenerator, error) {
	opts = append([]openai.Option{openai.WithToken(apiKey), openai.WithModel(model)}, opts...)
	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("could not create OpenAI client: %w", err)
	}

	return &LangchainGenerator{llm: client, model: model, systemPrompt: systemPrompt}, nil
}

func (g *LangchainGenerator) Generate(ctx context.Context, history []Turn, userText string) (string, error) {
	messages := make([]llms.MessageContent, 0, len(history)+2)
	if len(g.systemPrompt) > 0 {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, g.systemPrompt))
	}
	for _, turn := range history {
		role := llms.ChatMessageTypeHuman
		if turn.Sender == database.SenderAI {
			role = llms.ChatMessageTypeAI
		}
		messages = append(messages, llms.TextParts(role, turn.Text))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, userText))

	resp, err := g.llm.GenerateContent(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("langchain generation failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}

	return resp.Choices[0].Content, nil
}

func (g *LangchainGenerator) Model() string {
	return g.model
}
