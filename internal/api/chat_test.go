package api_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"uni-assistant/internal/chat"
	"uni-assistant/internal/config"
	"uni-assistant/internal/database"
	"uni-assistant/pkg/api"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoGenerator struct {
	err error
}

func (g *echoGenerator) Generate(ctx context.Context, history []chat.Turn, userText string) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	return "You said: " + userText, nil
}

func (g *echoGenerator) Model() string {
	return "echo"
}

func TestChatScenario(t *testing.T) {
	alice := newUser(t, "alice@vu.edu.au", "pw", true)
	router := createRouter(createDB(t, alice), testConfig(), &echoGenerator{})
	cookie := sessionCookie(t, alice.Id)

	rec := request(t, router, http.MethodPost, "/api/chats", api.CreateChatRequest{}, cookie)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[api.Chat](t, rec)
	assert.Equal(t, "New Chat", created.Name)
	assert.Equal(t, alice.Id, created.UserId)

	rec = request(t, router, http.MethodPost, fmt.Sprintf("/api/chats/%v/messages", created.Id), api.PostMessageRequest{Text: "Hello"}, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	posted := decode[api.PostMessageResponse](t, rec)
	assert.Equal(t, "Hello", posted.UserMessage.Text)
	assert.Equal(t, "user", posted.UserMessage.Sender)
	assert.Equal(t, "ai", posted.AiMessage.Sender)
	assert.Equal(t, "You said: Hello", posted.AiMessage.Text)

	rec = request(t, router, http.MethodGet, fmt.Sprintf("/api/chats/%v/messages", created.Id), nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	messages := decode[[]api.Message](t, rec)
	require.Len(t, messages, 2)
	assert.Equal(t, posted.UserMessage.Id, messages[0].Id)
	assert.Equal(t, "Hello", messages[0].Text)
	assert.Equal(t, posted.AiMessage.Id, messages[1].Id)
	assert.Equal(t, "ai", messages[1].Sender)
	assert.False(t, messages[1].CreatedAt.Before(messages[0].CreatedAt))

	rec = request(t, router, http.MethodGet, fmt.Sprintf("/api/chats/%v", created.Id), nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	full := decode[api.ChatWithMessages](t, rec)
	assert.Equal(t, created.Id, full.Id)
	assert.Len(t, full.Messages, 2)

	rec = request(t, router, http.MethodPatch, fmt.Sprintf("/api/chats/%v", created.Id), api.RenameChatRequest{Name: "Greetings"}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Greetings", decode[api.Chat](t, rec).Name)

	rec = request(t, router, http.MethodGet, "/api/chats", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	chats := decode[[]api.Chat](t, rec)
	require.Len(t, chats, 1)
	assert.Equal(t, "Greetings", chats[0].Name)
}

func TestPostMessageValidation(t *testing.T) {
	alice := newUser(t, "alice@vu.edu.au", "pw", true)
	chatId := uuid.New()
	db := createDB(t, alice, &database.Chat{Id: chatId, UserId: alice.Id})
	router := createRouter(db, testConfig(), &echoGenerator{})
	cookie := sessionCookie(t, alice.Id)

	for _, text := range []string{"", "   "} {
		rec := request(t, router, http.MethodPost, fmt.Sprintf("/api/chats/%v/messages", chatId), api.PostMessageRequest{Text: text}, cookie)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Message text is required", errorMessage(t, rec))
	}

	var count int64
	require.NoError(t, db.Model(&database.Message{}).Count(&count).Error)
	assert.Zero(t, count)

	rec := request(t, router, http.MethodPost, fmt.Sprintf("/api/chats/%v/messages", uuid.New()), api.PostMessageRequest{Text: "hi"}, cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = request(t, router, http.MethodPost, "/api/chats/not-a-uuid/messages", api.PostMessageRequest{Text: "hi"}, cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Chat not found", errorMessage(t, rec))
}

func TestPostMessageGeneratorFailure(t *testing.T) {
	alice := newUser(t, "alice@vu.edu.au", "pw", true)
	chatId := uuid.New()
	db := createDB(t, alice, &database.Chat{Id: chatId, UserId: alice.Id})
	router := createRouter(db, testConfig(), &echoGenerator{err: errors.New("model unavailable")})
	cookie := sessionCookie(t, alice.Id)

	rec := request(t, router, http.MethodPost, fmt.Sprintf("/api/chats/%v/messages", chatId), api.PostMessageRequest{Text: "Are you there?"}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	posted := decode[api.PostMessageResponse](t, rec)
	assert.Equal(t, "Are you there?", posted.UserMessage.Text)
	assert.Equal(t, chat.FallbackReply, posted.AiMessage.Text)

	rec = request(t, router, http.MethodGet, fmt.Sprintf("/api/chats/%v/messages", chatId), nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]api.Message](t, rec), 2)
}

func TestOwnershipIsolation(t *testing.T) {
	alice := newUser(t, "alice@vu.edu.au", "pw", true)
	bob := newUser(t, "bob@vu.edu.au", "pw", true)
	aliceChat := uuid.New()
	db := createDB(t, alice, bob,
		&database.Chat{Id: aliceChat, UserId: alice.Id, Name: "Alice's chat"},
		&database.Message{ChatId: aliceChat, Sender: database.SenderUser, Text: "my secret timetable"},
	)
	router := createRouter(db, testConfig(), &echoGenerator{})
	bobCookie := sessionCookie(t, bob.Id)
	path := fmt.Sprintf("/api/chats/%v", aliceChat)

	rec := request(t, router, http.MethodGet, "/api/chats", nil, bobCookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]api.Chat](t, rec))

	rec = request(t, router, http.MethodGet, path, nil, bobCookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = request(t, router, http.MethodGet, path+"/messages", nil, bobCookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = request(t, router, http.MethodPatch, path, api.RenameChatRequest{Name: "mine now"}, bobCookie)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = request(t, router, http.MethodDelete, path, nil, bobCookie)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = request(t, router, http.MethodPost, path+"/messages", api.PostMessageRequest{Text: "hi"}, bobCookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = request(t, router, http.MethodGet, "/api/chats/search?q=timetable", nil, bobCookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]api.SearchResult](t, rec))

	var stored database.Chat
	require.NoError(t, db.First(&stored, "id = ?", aliceChat).Error)
	assert.Equal(t, "Alice's chat", stored.Name)

	var count int64
	require.NoError(t, db.Model(&database.Message{}).Where("chat_id = ?", aliceChat).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestOwnershipConcealed(t *testing.T) {
	alice := newUser(t, "alice@vu.edu.au", "pw", true)
	bob := newUser(t, "bob@vu.edu.au", "pw", true)
	aliceChat := uuid.New()
	cfg := testConfig()
	cfg.OwnershipPolicy = config.OwnershipConceal
	router := createRouter(createDB(t, alice, bob, &database.Chat{Id: aliceChat, UserId: alice.Id}), cfg, &echoGenerator{})
	bobCookie := sessionCookie(t, bob.Id)
	path := fmt.Sprintf("/api/chats/%v", aliceChat)

	rec := request(t, router, http.MethodPatch, path, api.RenameChatRequest{Name: "x"}, bobCookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = request(t, router, http.MethodDelete, path, nil, bobCookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteChat(t *testing.T) {
	alice := newUser(t, "alice@vu.edu.au", "pw", true)
	bob := newUser(t, "bob@vu.edu.au", "pw", true)
	chatId := uuid.New()
	db := createDB(t, alice, bob,
		&database.Chat{Id: chatId, UserId: alice.Id},
		&database.Message{ChatId: chatId, Sender: database.SenderUser, Text: "one"},
		&database.Message{ChatId: chatId, Sender: database.SenderAI, Text: "two"},
	)
	router := createRouter(db, testConfig(), &echoGenerator{})
	path := fmt.Sprintf("/api/chats/%v", chatId)

	rec := request(t, router, http.MethodDelete, path, nil, sessionCookie(t, alice.Id))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Chat deleted successfully", decode[api.MessageResponse](t, rec).Message)

	var count int64
	require.NoError(t, db.Model(&database.Message{}).Where("chat_id = ?", chatId).Count(&count).Error)
	assert.Zero(t, count)

	for _, userId := range []uuid.UUID{alice.Id, bob.Id} {
		rec = request(t, router, http.MethodGet, path, nil, sessionCookie(t, userId))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	}

	rec = request(t, router, http.MethodDelete, path, nil, sessionCookie(t, alice.Id))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRenameValidation(t *testing.T) {
	alice := newUser(t, "alice@vu.edu.au", "pw", true)
	chatId := uuid.New()
	router := createRouter(createDB(t, alice, &database.Chat{Id: chatId, UserId: alice.Id}), testConfig(), &echoGenerator{})

	rec := request(t, router, http.MethodPatch, fmt.Sprintf("/api/chats/%v", chatId), api.RenameChatRequest{Name: ""}, sessionCookie(t, alice.Id))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Chat name is required", errorMessage(t, rec))
}

func TestSearch(t *testing.T) {
	alice := newUser(t, "alice@vu.edu.au", "pw", true)
	chatId := uuid.New()
	router := createRouter(createDB(t, alice,
		&database.Chat{Id: chatId, UserId: alice.Id, Name: "Campus"},
		&database.Message{ChatId: chatId, Sender: database.SenderUser, Text: "Where is Footscray Park?"},
		&database.Message{ChatId: chatId, Sender: database.SenderAI, Text: "It is near the river."},
	), testConfig(), &echoGenerator{})
	cookie := sessionCookie(t, alice.Id)

	rec := request(t, router, http.MethodGet, "/api/chats/search?q=FOOTSCRAY", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	results := decode[[]api.SearchResult](t, rec)
	require.Len(t, results, 1)
	assert.True(t, strings.Contains(results[0].Text, "Footscray"))
	assert.Equal(t, api.ChatRef{Id: chatId, Name: "Campus"}, results[0].Chat)

	rec = request(t, router, http.MethodGet, "/api/chats/search", nil, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Search query is required", errorMessage(t, rec))
}
