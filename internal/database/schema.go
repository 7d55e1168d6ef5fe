package database

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	SenderUser string = "user"
	SenderAI   string = "ai"

	DefaultChatName = "New Chat"
)

type User struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	FullName     string
	Verified     bool `gorm:"not null;default:false"`
	CreatedAt    time.Time

	Chats []Chat `gorm:"foreignKey:UserId;constraint:OnDelete:CASCADE"`
}

type Chat struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"not null;default:'New Chat'"`
	CreatedAt time.Time `gorm:"index"`

	// Messages are removed explicitly before the chat row, the FK only guards
	// against dangling rows.
	Messages []Message `gorm:"foreignKey:ChatId"`
}

type Message struct {
	Id        uint      `gorm:"primaryKey;autoIncrement"`
	ChatId    uuid.UUID `gorm:"type:uuid;not null;index:idx_chat_messages,priority:1"`
	Sender    string    `gorm:"size:8;not null"`
	Text      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"index:idx_chat_messages,priority:2"`
	Metadata  datatypes.JSON

	Chat *Chat `gorm:"foreignKey:ChatId"`
}
