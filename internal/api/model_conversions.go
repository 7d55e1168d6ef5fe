package api

import (
	"uni-assistant/internal/auth"
	"uni-assistant/internal/database"
	"uni-assistant/pkg/api"
)

func convertChat(c database.Chat) api.Chat {
	return api.Chat{
		Id:        c.Id,
		UserId:    c.UserId,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
	}
}

func convertChats(cs []database.Chat) []api.Chat {
	chats := make([]api.Chat, 0, len(cs))
	for _, c := range cs {
		chats = append(chats, convertChat(c))
	}
	return chats
}

func convertMessage(m database.Message) api.Message {
	return api.Message{
		Id:        m.Id,
		ChatId:    m.ChatId,
		Sender:    m.Sender,
		Text:      m.Text,
		CreatedAt: m.CreatedAt,
	}
}

func convertMessages(ms []database.Message) []api.Message {
	messages := make([]api.Message, 0, len(ms))
	for _, m := range ms {
		messages = append(messages, convertMessage(m))
	}
	return messages
}

func convertSearchResults(ms []database.Message) []api.SearchResult {
	results := make([]api.SearchResult, 0, len(ms))
	for _, m := range ms {
		result := api.SearchResult{Message: convertMessage(m)}
		if m.Chat != nil {
			result.Chat = api.ChatRef{Id: m.Chat.Id, Name: m.Chat.Name}
		} else {
			result.Chat = api.ChatRef{Id: m.ChatId}
		}
		results = append(results, result)
	}
	return results
}

func convertPublicUser(u *auth.User) api.PublicUser {
	return api.PublicUser{
		Id:       u.Id,
		Email:    u.Email,
		FullName: u.FullName,
	}
}

func convertCurrentUser(u *auth.User) api.CurrentUser {
	return api.CurrentUser{
		Id:       u.Id,
		Email:    u.Email,
		FullName: u.FullName,
		Verified: u.Verified,
	}
}
