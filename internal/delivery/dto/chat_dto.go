package dto

import (
	"time"

	"clinic-backend/internal/domain/entity"
)

// Request DTOs

type CreateChatSessionRequest struct {
	Title string `json:"title" validate:"omitempty,max=255"`
}

type SendChatMessageRequest struct {
	Content string `json:"content" validate:"required,notblank,max=4000"`
}

// Response DTOs

type ChatMessageResponse struct {
	ID        uint64      `json:"id"`
	SessionID uint64      `json:"session_id"`
	Sender    string      `json:"sender"`
	Content   string      `json:"content"`
	Metadata  entity.JSON `json:"metadata,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

type ChatSessionResponse struct {
	ID          uint64               `json:"id"`
	Title       string               `json:"title"`
	LastMessage *ChatMessageResponse `json:"last_message,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

type ChatSessionListResponse struct {
	Sessions []ChatSessionResponse `json:"sessions"`
}

type ChatMessageListResponse struct {
	Messages []ChatMessageResponse `json:"messages"`
}

// ChatReplyResponse is returned after sending: the stored question and the
// stored answer.
type ChatReplyResponse struct {
	UserMessage      ChatMessageResponse `json:"user_message"`
	AssistantMessage ChatMessageResponse `json:"assistant_message"`
}
