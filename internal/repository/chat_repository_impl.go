package repository

import (
	"errors"
	"time"

	"clinic-backend/internal/domain/entity"
	domainRepo "clinic-backend/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type chatRepository struct{}

func NewChatRepository() domainRepo.ChatRepository {
	return &chatRepository{}
}

func (r *chatRepository) CreateSession(db *gorm.DB, session *entity.ChatSession) error {
	return db.Omit("Messages").Create(session).Error
}

// FindSession only returns the session when it belongs to userID.
func (r *chatRepository) FindSession(db *gorm.DB, id uint64, userID uuid.UUID) (*entity.ChatSession, error) {
	var session entity.ChatSession
	err := db.Where("id = ? AND user_id = ?", id, userID).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

func (r *chatRepository) ListSessions(db *gorm.DB, userID uuid.UUID) ([]entity.ChatSession, error) {
	var sessions []entity.ChatSession
	err := db.Where("user_id = ?", userID).Order("updated_at DESC").Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *chatRepository) TouchSession(db *gorm.DB, id uint64) error {
	return db.Model(&entity.ChatSession{}).Where("id = ?", id).Update("updated_at", time.Now()).Error
}

func (r *chatRepository) CreateMessage(db *gorm.DB, message *entity.ChatMessage) error {
	return db.Create(message).Error
}

func (r *chatRepository) ListMessages(db *gorm.DB, sessionID uint64) ([]entity.ChatMessage, error) {
	var messages []entity.ChatMessage
	err := db.Where("session_id = ?", sessionID).Order("created_at ASC, id ASC").Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}
