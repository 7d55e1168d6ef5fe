package chat

import (
	"context"
)

type Turn struct {
	Sender string
	Text   string
}

// ReplyGenerator produces the assistant's answer to userText. history holds
// earlier turns of the chat, oldest first, and may be empty.
type ReplyGenerator interface {
	Generate(ctx context.Context, history []Turn, userText string) (string, error)
	Model() string
}

type StaticGenerator struct {
	Reply string
}

func NewStaticGenerator() *StaticGenerator {
	return &StaticGenerator{Reply: StaticReply}
}

func (g *StaticGenerator) Generate(ctx context.Context, history []Turn, userText string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return g.Reply, nil
}

func (g *StaticGenerator) Model() string {
	return "static"
}
