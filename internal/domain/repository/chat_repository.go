package repository

import (
	"clinic-backend/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatRepository interface {
	CreateSession(db *gorm.DB, session *entity.ChatSession) error
	FindSession(db *gorm.DB, id uint64, userID uuid.UUID) (*entity.ChatSession, error)
	ListSessions(db *gorm.DB, userID uuid.UUID) ([]entity.ChatSession, error)
	TouchSession(db *gorm.DB, id uint64) error
	CreateMessage(db *gorm.DB, message *entity.ChatMessage) error
	ListMessages(db *gorm.DB, sessionID uint64) ([]entity.ChatMessage, error)
}
