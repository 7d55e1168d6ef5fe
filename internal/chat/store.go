package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"uni-assistant/internal/database"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrNotFound   = errors.New("chat not found")
	ErrForbidden  = errors.New("chat belongs to another user")
	ErrEmptyText  = errors.New("message text is required")
	ErrEmptyName  = errors.New("chat name is required")
	ErrEmptyQuery = errors.New("search query is required")
)

// Store scopes every chat and message query to the acting user.
type Store struct {
	db *gorm.DB

	// When set, a chat owned by someone else is reported as missing on
	// rename and delete instead of forbidden.
	concealOwnership bool
}

func NewStore(db *gorm.DB, concealOwnership bool) *Store {
	return &Store{db: db, concealOwnership: concealOwnership}
}

func (s *Store) ListChats(ctx context.Context, userId uuid.UUID) ([]database.Chat, error) {
	var chats []database.Chat
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userId).
		Order("created_at DESC").
		Find(&chats).Error; err != nil {
		return nil, fmt.Errorf("error listing chats: %w", err)
	}
	return chats, nil
}

func (s *Store) CreateChat(ctx context.Context, userId uuid.UUID, name string) (database.Chat, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = database.DefaultChatName
	}

	chat := database.Chat{
		Id:     uuid.New(),
		UserId: userId,
		Name:   name,
	}
	if err := s.db.WithContext(ctx).Create(&chat).Error; err != nil {
		return database.Chat{}, fmt.Errorf("error creating chat: %w", err)
	}
	return chat, nil
}

// ownedChat loads a chat that belongs to userId. Chats owned by other users
// are indistinguishable from missing ones.
func ownedChat(txn *gorm.DB, userId, chatId uuid.UUID) (database.Chat, error) {
	var chat database.Chat
	if err := txn.Where("id = ? AND user_id = ?", chatId, userId).First(&chat).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return chat, ErrNotFound
		}
		return chat, fmt.Errorf("error loading chat %v: %w", chatId, err)
	}
	return chat, nil
}

// checkedChat loads a chat by id and then checks the owner, so that another
// user's chat is reported as ErrForbidden unless ownership is concealed.
func (s *Store) checkedChat(txn *gorm.DB, userId, chatId uuid.UUID) (database.Chat, error) {
	var chat database.Chat
	if err := txn.First(&chat, "id = ?", chatId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return chat, ErrNotFound
		}
		return chat, fmt.Errorf("error loading chat %v: %w", chatId, err)
	}

	if chat.UserId != userId {
		if s.concealOwnership {
			return database.Chat{}, ErrNotFound
		}
		return database.Chat{}, ErrForbidden
	}

	return chat, nil
}

func (s *Store) GetChat(ctx context.Context, userId, chatId uuid.UUID) (database.Chat, []database.Message, error) {
	txn := s.db.WithContext(ctx)

	chat, err := ownedChat(txn, userId, chatId)
	if err != nil {
		return database.Chat{}, nil, err
	}

	messages, err := chatMessages(txn, chatId)
	if err != nil {
		return database.Chat{}, nil, err
	}

	return chat, messages, nil
}

func (s *Store) ListMessages(ctx context.Context, userId, chatId uuid.UUID) ([]database.Message, error) {
	txn := s.db.WithContext(ctx)

	if _, err := ownedChat(txn, userId, chatId); err != nil {
		return nil, err
	}

	return chatMessages(txn, chatId)
}

func chatMessages(txn *gorm.DB, chatId uuid.UUID) ([]database.Message, error) {
	var messages []database.Message
	if err := txn.
		Where("chat_id = ?", chatId).
		Order("created_at ASC").
		Order("id ASC").
		Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("error listing messages for chat %v: %w", chatId, err)
	}
	return messages, nil
}

func (s *Store) RenameChat(ctx context.Context, userId, chatId uuid.UUID, name string) (database.Chat, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return database.Chat{}, ErrEmptyName
	}

	txn := s.db.WithContext(ctx)

	chat, err := s.checkedChat(txn, userId, chatId)
	if err != nil {
		return database.Chat{}, err
	}

	if err := txn.Model(&chat).Update("name", name).Error; err != nil {
		return database.Chat{}, fmt.Errorf("error renaming chat %v: %w", chatId, err)
	}
	chat.Name = name

	return chat, nil
}

// DeleteChat removes the chat's messages and then the chat itself in one
// transaction.
func (s *Store) DeleteChat(ctx context.Context, userId, chatId uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(txn *gorm.DB) error {
		if _, err := s.checkedChat(txn, userId, chatId); err != nil {
			return err
		}

		if err := txn.Delete(&database.Message{}, "chat_id = ?", chatId).Error; err != nil {
			return fmt.Errorf("error deleting messages for chat %v: %w", chatId, err)
		}

		result := txn.Delete(&database.Chat{}, "id = ?", chatId)
		if result.Error != nil {
			return fmt.Errorf("error deleting chat %v: %w", chatId, result.Error)
		}
		if result.RowsAffected != 1 {
			return fmt.Errorf("error deleting chat %v: expected 1 row, deleted %d", chatId, result.RowsAffected)
		}

		return nil
	})
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// SearchMessages returns the user's messages containing query, ignoring
// case, newest first. Each message carries its chat's id and name.
func (s *Store) SearchMessages(ctx context.Context, userId uuid.UUID, query string) ([]database.Message, error) {
	if query == "" {
		return nil, ErrEmptyQuery
	}

	pattern := "%" + escapeLike(query) + "%"

	// sqlite's LOWER only folds ASCII, postgres gets full unicode folding.
	match := `LOWER(messages.text) LIKE LOWER(?) ESCAPE '\'`
	if s.db.Dialector.Name() == "postgres" {
		match = `messages.text ILIKE ? ESCAPE '\'`
	}

	var messages []database.Message
	if err := s.db.WithContext(ctx).
		Joins("JOIN chats ON chats.id = messages.chat_id").
		Where("chats.user_id = ?", userId).
		Where(match, pattern).
		Preload("Chat", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name")
		}).
		Order("messages.created_at DESC").
		Order("messages.id DESC").
		Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("error searching messages: %w", err)
	}

	return messages, nil
}

func (s *Store) AppendMessage(ctx context.Context, chatId uuid.UUID, sender, text string, metadata datatypes.JSON) (database.Message, error) {
	message := database.Message{
		ChatId:   chatId,
		Sender:   sender,
		Text:     text,
		Metadata: metadata,
	}
	if err := s.db.WithContext(ctx).Create(&message).Error; err != nil {
		return database.Message{}, fmt.Errorf("error saving %s message: %w", sender, err)
	}
	return message, nil
}

func (s *Store) OwnedChat(ctx context.Context, userId, chatId uuid.UUID) (database.Chat, error) {
	return ownedChat(s.db.WithContext(ctx), userId, chatId)
}
