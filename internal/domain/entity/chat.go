package entity

import (
	"time"

	"github.com/google/uuid"
)

const DefaultChatTitle = "Medical Consultation"

type ChatSender string

const (
	ChatSenderUser      ChatSender = "user"
	ChatSenderAssistant ChatSender = "assistant"
	ChatSenderSystem    ChatSender = "system"
)

type ChatSession struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;index" json:"updated_at"`

	// Relationships
	Messages []ChatMessage `gorm:"foreignKey:SessionID" json:"messages,omitempty"`
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}

type ChatMessage struct {
	ID        uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID uint64     `gorm:"not null;index" json:"session_id"`
	Sender    ChatSender `gorm:"type:varchar(20);not null" json:"sender"`
	Content   string     `gorm:"type:text;not null" json:"content"`
	Metadata  JSON       `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
