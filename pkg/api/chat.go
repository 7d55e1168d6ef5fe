package api

import (
	"time"

	"github.com/google/uuid"
)

type Chat struct {
	Id        uuid.UUID `json:"id"`
	UserId    uuid.UUID `json:"userId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type Message struct {
	Id        uint      `json:"id"`
	ChatId    uuid.UUID `json:"chatId"`
	Sender    string    `json:"sender"` // "user" or "ai"
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

type ChatWithMessages struct {
	Chat
	Messages []Message `json:"messages"`
}

type ChatRef struct {
	Id   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type SearchResult struct {
	Message
	Chat ChatRef `json:"chat"`
}

type CreateChatRequest struct {
	Name string `json:"name"`
}

type RenameChatRequest struct {
	Name string `json:"name"`
}

type SearchParams struct {
	Q string `schema:"q"`
}

type PostMessageRequest struct {
	Text string `json:"text"`
}

type PostMessageResponse struct {
	UserMessage Message `json:"userMessage"`
	AiMessage   Message `json:"aiMessage"`
}
