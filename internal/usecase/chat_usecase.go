package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"clinic-backend/internal/converter"
	"clinic-backend/internal/delivery/dto"
	"clinic-backend/internal/domain/entity"
	"clinic-backend/internal/domain/repository"
	"clinic-backend/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrChatSessionNotFound = errors.New("chat session not found")

const fallbackModel = "fallback"

// Assistant answers a medical question and names the model that answered.
type Assistant interface {
	Generate(ctx context.Context, question string) (string, string, error)
}

// RateLimitError is returned when a user sends messages faster than allowed.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s, retry in %s", service.ErrRateLimited, e.RetryAfter.Round(time.Second))
}

func (e *RateLimitError) Unwrap() error {
	return service.ErrRateLimited
}

type ChatUsecase interface {
	CreateSession(ctx context.Context, req *dto.CreateChatSessionRequest) (*dto.ChatSessionResponse, error)
	ListSessions(ctx context.Context) (*dto.ChatSessionListResponse, error)
	ListMessages(ctx context.Context, sessionID uint64) (*dto.ChatMessageListResponse, error)
	SendMessage(ctx context.Context, sessionID uint64, req *dto.SendChatMessageRequest) (*dto.ChatReplyResponse, error)
}

type chatUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	chatRepo    repository.ChatRepository
	assistant   Assistant
	rateLimiter service.RateLimiter
}

func NewChatUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	chatRepo repository.ChatRepository,
	assistant Assistant,
	rateLimiter service.RateLimiter,
) ChatUsecase {
	return &chatUsecase{
		db:          db,
		log:         log,
		chatRepo:    chatRepo,
		assistant:   assistant,
		rateLimiter: rateLimiter,
	}
}

func (u *chatUsecase) CreateSession(ctx context.Context, req *dto.CreateChatSessionRequest) (*dto.ChatSessionResponse, error) {
	userID, _, err := identity(ctx)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = entity.DefaultChatTitle
	}

	session := &entity.ChatSession{UserID: userID, Title: title}
	if err := u.chatRepo.CreateSession(u.db.WithContext(ctx), session); err != nil {
		u.log.Warnf("Failed to create chat session: %+v", err)
		return nil, err
	}

	resp := converter.ChatSessionToResponse(session)
	return &resp, nil
}

func (u *chatUsecase) ListSessions(ctx context.Context) (*dto.ChatSessionListResponse, error) {
	userID, _, err := identity(ctx)
	if err != nil {
		return nil, err
	}

	sessions, err := u.chatRepo.ListSessions(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to list chat sessions: %+v", err)
		return nil, err
	}

	return &dto.ChatSessionListResponse{Sessions: converter.ChatSessionsToResponses(sessions)}, nil
}

func (u *chatUsecase) ListMessages(ctx context.Context, sessionID uint64) (*dto.ChatMessageListResponse, error) {
	session, err := u.ownSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	messages, err := u.chatRepo.ListMessages(u.db.WithContext(ctx), session.ID)
	if err != nil {
		u.log.Warnf("Failed to list messages of session %d: %+v", session.ID, err)
		return nil, err
	}

	return &dto.ChatMessageListResponse{Messages: converter.ChatMessagesToResponses(messages)}, nil
}

// SendMessage stores the question, asks the assistant and stores the answer.
// When the assistant fails the answer comes from the keyword table, so a
// question always gets a reply. No transaction is held across the model call.
func (u *chatUsecase) SendMessage(ctx context.Context, sessionID uint64, req *dto.SendChatMessageRequest) (*dto.ChatReplyResponse, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, FieldErrors{"content": "This field is required"}
	}

	session, err := u.ownSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	allowed, retryAfter, err := u.rateLimiter.Allow(ctx, "chat:"+session.UserID.String())
	if err != nil {
		// Fail open when the limiter is unreachable.
		u.log.Warnf("Failed to check chat rate limit: %+v", err)
	} else if !allowed {
		return nil, &RateLimitError{RetryAfter: retryAfter}
	}

	db := u.db.WithContext(ctx)
	question := &entity.ChatMessage{
		SessionID: session.ID,
		Sender:    entity.ChatSenderUser,
		Content:   content,
	}
	if err := u.chatRepo.CreateMessage(db, question); err != nil {
		u.log.Warnf("Failed to store chat message: %+v", err)
		return nil, err
	}

	reply, model, err := u.assistant.Generate(ctx, content)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		u.log.Warnf("Assistant unavailable, using fallback reply: %+v", err)
		reply, model = service.FallbackReply(content), fallbackModel
	}

	answer := &entity.ChatMessage{
		SessionID: session.ID,
		Sender:    entity.ChatSenderAssistant,
		Content:   reply,
		Metadata:  entity.JSON{"model": model},
	}
	if err := u.chatRepo.CreateMessage(db, answer); err != nil {
		u.log.Warnf("Failed to store assistant reply: %+v", err)
		return nil, err
	}

	if err := u.chatRepo.TouchSession(db, session.ID); err != nil {
		u.log.Warnf("Failed to touch chat session %d: %+v", session.ID, err)
	}

	return &dto.ChatReplyResponse{
		UserMessage:      converter.ChatMessageToResponse(question),
		AssistantMessage: converter.ChatMessageToResponse(answer),
	}, nil
}

func (u *chatUsecase) ownSession(ctx context.Context, sessionID uint64) (*entity.ChatSession, error) {
	userID, _, err := identity(ctx)
	if err != nil {
		return nil, err
	}

	session, err := u.chatRepo.FindSession(u.db.WithContext(ctx), sessionID, userID)
	if err != nil {
		u.log.Warnf("Failed to find chat session %d: %+v", sessionID, err)
		return nil, err
	}
	if session == nil {
		return nil, ErrChatSessionNotFound
	}
	return session, nil
}
