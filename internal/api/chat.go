package api

import (
	"errors"
	"net/http"

	"uni-assistant/internal/auth"
	"uni-assistant/internal/chat"
	"uni-assistant/pkg/api"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type ChatService struct {
	store        *chat.Store
	orchestrator *chat.Orchestrator
}

func NewChatService(store *chat.Store, orchestrator *chat.Orchestrator) *ChatService {
	return &ChatService{store: store, orchestrator: orchestrator}
}

// AddRoutes expects the router to already require an authenticated user.
func (s *ChatService) AddRoutes(r chi.Router) {
	r.Route("/chats", func(r chi.Router) {
		r.Get("/", RestHandler(s.ListChats))
		r.Post("/", RestHandler(s.CreateChat))
		r.Get("/search", RestHandler(s.Search))

		r.Route("/{chat_id}", func(r chi.Router) {
			r.Get("/", RestHandler(s.GetChat))
			r.Patch("/", RestHandler(s.RenameChat))
			r.Delete("/", RestHandler(s.DeleteChat))
			r.Get("/messages", RestHandler(s.ListMessages))
			r.Post("/messages", RestHandler(s.PostMessage))
		})
	})
}

func currentUser(r *http.Request) (*auth.User, error) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		return nil, CodedErrorf(http.StatusUnauthorized, "Unauthorized")
	}
	return user, nil
}

func chatParam(r *http.Request) (uuid.UUID, error) {
	id, err := URLParamUUID(r, "chat_id")
	if err != nil {
		return uuid.Nil, CodedErrorf(http.StatusNotFound, "Chat not found")
	}
	return id, nil
}

func chatError(err error) error {
	switch {
	case errors.Is(err, chat.ErrNotFound):
		return CodedErrorf(http.StatusNotFound, "Chat not found")
	case errors.Is(err, chat.ErrForbidden):
		return CodedErrorf(http.StatusForbidden, "Unauthorized")
	case errors.Is(err, chat.ErrEmptyText):
		return CodedErrorf(http.StatusBadRequest, "Message text is required")
	case errors.Is(err, chat.ErrEmptyName):
		return CodedErrorf(http.StatusBadRequest, "Chat name is required")
	case errors.Is(err, chat.ErrEmptyQuery):
		return CodedErrorf(http.StatusBadRequest, "Search query is required")
	default:
		return CodedError(http.StatusInternalServerError, err)
	}
}

func (s *ChatService) ListChats(r *http.Request) (any, error) {
	user, err := currentUser(r)
	if err != nil {
		return nil, err
	}

	chats, err := s.store.ListChats(r.Context(), user.Id)
	if err != nil {
		return nil, chatError(err)
	}

	return convertChats(chats), nil
}

func (s *ChatService) CreateChat(r *http.Request) (any, error) {
	user, err := currentUser(r)
	if err != nil {
		return nil, err
	}

	var req api.CreateChatRequest
	if r.ContentLength != 0 {
		if req, err = ParseRequest[api.CreateChatRequest](r); err != nil {
			return nil, err
		}
	}

	created, err := s.store.CreateChat(r.Context(), user.Id, req.Name)
	if err != nil {
		return nil, chatError(err)
	}

	return WithStatus(http.StatusCreated, convertChat(created)), nil
}

func (s *ChatService) GetChat(r *http.Request) (any, error) {
	user, err := currentUser(r)
	if err != nil {
		return nil, err
	}

	chatId, err := chatParam(r)
	if err != nil {
		return nil, err
	}

	found, messages, err := s.store.GetChat(r.Context(), user.Id, chatId)
	if err != nil {
		return nil, chatError(err)
	}

	return api.ChatWithMessages{Chat: convertChat(found), Messages: convertMessages(messages)}, nil
}

func (s *ChatService) RenameChat(r *http.Request) (any, error) {
	user, err := currentUser(r)
	if err != nil {
		return nil, err
	}

	chatId, err := chatParam(r)
	if err != nil {
		return nil, err
	}

	req, err := ParseRequest[api.RenameChatRequest](r)
	if err != nil {
		return nil, err
	}

	renamed, err := s.store.RenameChat(r.Context(), user.Id, chatId, req.Name)
	if err != nil {
		return nil, chatError(err)
	}

	return convertChat(renamed), nil
}

func (s *ChatService) DeleteChat(r *http.Request) (any, error) {
	user, err := currentUser(r)
	if err != nil {
		return nil, err
	}

	chatId, err := chatParam(r)
	if err != nil {
		return nil, err
	}

	if err := s.store.DeleteChat(r.Context(), user.Id, chatId); err != nil {
		return nil, chatError(err)
	}

	return api.MessageResponse{Message: "Chat deleted successfully"}, nil
}

func (s *ChatService) Search(r *http.Request) (any, error) {
	user, err := currentUser(r)
	if err != nil {
		return nil, err
	}

	params, err := ParseRequestQueryParams[api.SearchParams](r)
	if err != nil {
		return nil, err
	}

	messages, err := s.store.SearchMessages(r.Context(), user.Id, params.Q)
	if err != nil {
		return nil, chatError(err)
	}

	return convertSearchResults(messages), nil
}

func (s *ChatService) ListMessages(r *http.Request) (any, error) {
	user, err := currentUser(r)
	if err != nil {
		return nil, err
	}

	chatId, err := chatParam(r)
	if err != nil {
		return nil, err
	}

	messages, err := s.store.ListMessages(r.Context(), user.Id, chatId)
	if err != nil {
		return nil, chatError(err)
	}

	return convertMessages(messages), nil
}

func (s *ChatService) PostMessage(r *http.Request) (any, error) {
	user, err := currentUser(r)
	if err != nil {
		return nil, err
	}

	chatId, err := chatParam(r)
	if err != nil {
		return nil, err
	}

	req, err := ParseRequest[api.PostMessageRequest](r)
	if err != nil {
		return nil, err
	}

	userMessage, aiMessage, err := s.orchestrator.PostMessage(r.Context(), user.Id, chatId, req.Text)
	if err != nil {
		return nil, chatError(err)
	}

	return api.PostMessageResponse{
		UserMessage: convertMessage(userMessage),
		AiMessage:   convertMessage(aiMessage),
	}, nil
}
