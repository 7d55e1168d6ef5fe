package migration_0

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
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

	Messages []Message `gorm:"foreignKey:ChatId"`
}

type Message struct {
	Id        uint      `gorm:"primaryKey;autoIncrement"`
	ChatId    uuid.UUID `gorm:"type:uuid;not null;index:idx_chat_messages,priority:1"`
	Sender    string    `gorm:"size:8;not null"`
	Text      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"index:idx_chat_messages,priority:2"`
}

func Migration(db *gorm.DB) error {
	if err := db.AutoMigrate(&User{}, &Chat{}, &Message{}); err != nil {
		return fmt.Errorf("initial migration failed: %w", err)
	}
	return nil
}
