package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"clinic-backend/internal/delivery/dto"
	"clinic-backend/internal/domain/entity"
	"clinic-backend/internal/mocks"
	"clinic-backend/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type chatFixture struct {
	usecase   ChatUsecase
	repo      *mocks.MockChatRepository
	assistant *mocks.MockAssistant
	limiter   *mocks.MockRateLimiter
}

func newChatFixture(t *testing.T) *chatFixture {
	t.Helper()

	db, _ := newMockDB(t)
	f := &chatFixture{
		repo:      new(mocks.MockChatRepository),
		assistant: new(mocks.MockAssistant),
		limiter:   new(mocks.MockRateLimiter),
	}
	f.usecase = NewChatUsecase(db, quietLogger(), f.repo, f.assistant, f.limiter)
	return f
}

func TestChatUsecase_CreateSession(t *testing.T) {
	userID := uuid.New()

	t.Run("blank title gets the default", func(t *testing.T) {
		f := newChatFixture(t)
		f.repo.On("CreateSession", mock.Anything, mock.MatchedBy(func(s *entity.ChatSession) bool {
			return s.UserID == userID && s.Title == entity.DefaultChatTitle
		})).Return(nil)

		resp, err := f.usecase.CreateSession(ctxAs(userID, entity.RoleIDPatient), &dto.CreateChatSessionRequest{Title: "   "})

		require.NoError(t, err)
		assert.Equal(t, entity.DefaultChatTitle, resp.Title)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		f := newChatFixture(t)

		_, err := f.usecase.CreateSession(context.Background(), &dto.CreateChatSessionRequest{})

		assert.ErrorIs(t, err, ErrUnauthenticated)
	})
}

func TestChatUsecase_SendMessage(t *testing.T) {
	userID := uuid.New()
	session := &entity.ChatSession{ID: 5, UserID: userID, Title: entity.DefaultChatTitle}

	t.Run("assistant reply is stored", func(t *testing.T) {
		// Arrange
		f := newChatFixture(t)
		f.repo.On("FindSession", mock.Anything, uint64(5), userID).Return(session, nil)
		f.limiter.On("Allow", mock.Anything, "chat:"+userID.String()).Return(true, time.Duration(0), nil)
		f.repo.On("CreateMessage", mock.Anything, mock.MatchedBy(func(m *entity.ChatMessage) bool {
			return m.Sender == entity.ChatSenderUser && m.Content == "I have a headache"
		})).Return(nil).Once()
		f.assistant.On("Generate", mock.Anything, "I have a headache").Return("Drink water.", "gemini-2.0-flash", nil)
		f.repo.On("CreateMessage", mock.Anything, mock.MatchedBy(func(m *entity.ChatMessage) bool {
			return m.Sender == entity.ChatSenderAssistant
		})).Return(nil).Once()
		f.repo.On("TouchSession", mock.Anything, uint64(5)).Return(nil)

		// Act
		resp, err := f.usecase.SendMessage(ctxAs(userID, entity.RoleIDPatient), 5, &dto.SendChatMessageRequest{Content: " I have a headache "})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "I have a headache", resp.UserMessage.Content)
		assert.Equal(t, "Drink water.", resp.AssistantMessage.Content)
		assert.Equal(t, "gemini-2.0-flash", resp.AssistantMessage.Metadata["model"])
		f.repo.AssertExpectations(t)
	})

	t.Run("assistant failure falls back to keyword reply", func(t *testing.T) {
		f := newChatFixture(t)
		f.repo.On("FindSession", mock.Anything, uint64(5), userID).Return(session, nil)
		f.limiter.On("Allow", mock.Anything, mock.Anything).Return(true, time.Duration(0), nil)
		f.repo.On("CreateMessage", mock.Anything, mock.Anything).Return(nil)
		f.assistant.On("Generate", mock.Anything, mock.Anything).Return("", "", errors.New("all models failed"))
		f.repo.On("TouchSession", mock.Anything, uint64(5)).Return(nil)

		resp, err := f.usecase.SendMessage(ctxAs(userID, entity.RoleIDPatient), 5, &dto.SendChatMessageRequest{Content: "I have a fever"})

		require.NoError(t, err)
		assert.Equal(t, service.FallbackReply("I have a fever"), resp.AssistantMessage.Content)
		assert.Equal(t, fallbackModel, resp.AssistantMessage.Metadata["model"])
	})

	t.Run("rate limited", func(t *testing.T) {
		f := newChatFixture(t)
		f.repo.On("FindSession", mock.Anything, uint64(5), userID).Return(session, nil)
		f.limiter.On("Allow", mock.Anything, mock.Anything).Return(false, 42*time.Second, nil)

		_, err := f.usecase.SendMessage(ctxAs(userID, entity.RoleIDPatient), 5, &dto.SendChatMessageRequest{Content: "hello"})

		assert.ErrorIs(t, err, service.ErrRateLimited)
		var rateErr *RateLimitError
		require.ErrorAs(t, err, &rateErr)
		assert.Equal(t, 42*time.Second, rateErr.RetryAfter)
		f.repo.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything)
		f.assistant.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
	})

	t.Run("limiter outage does not block", func(t *testing.T) {
		f := newChatFixture(t)
		f.repo.On("FindSession", mock.Anything, uint64(5), userID).Return(session, nil)
		f.limiter.On("Allow", mock.Anything, mock.Anything).Return(false, time.Duration(0), errors.New("connection refused"))
		f.repo.On("CreateMessage", mock.Anything, mock.Anything).Return(nil)
		f.assistant.On("Generate", mock.Anything, mock.Anything).Return("ok", "gemini-2.0-flash", nil)
		f.repo.On("TouchSession", mock.Anything, uint64(5)).Return(nil)

		_, err := f.usecase.SendMessage(ctxAs(userID, entity.RoleIDPatient), 5, &dto.SendChatMessageRequest{Content: "hello"})

		assert.NoError(t, err)
	})

	t.Run("someone else's session", func(t *testing.T) {
		f := newChatFixture(t)
		f.repo.On("FindSession", mock.Anything, uint64(5), mock.Anything).Return(nil, nil)

		_, err := f.usecase.SendMessage(ctxAs(uuid.New(), entity.RoleIDPatient), 5, &dto.SendChatMessageRequest{Content: "hello"})

		assert.ErrorIs(t, err, ErrChatSessionNotFound)
	})

	t.Run("blank content", func(t *testing.T) {
		f := newChatFixture(t)

		_, err := f.usecase.SendMessage(ctxAs(userID, entity.RoleIDPatient), 5, &dto.SendChatMessageRequest{Content: "  "})

		var fieldErrs FieldErrors
		require.ErrorAs(t, err, &fieldErrs)
		assert.Contains(t, fieldErrs, "content")
	})
}

func TestChatUsecase_ListMessages(t *testing.T) {
	userID := uuid.New()
	f := newChatFixture(t)
	f.repo.On("FindSession", mock.Anything, uint64(5), userID).Return(&entity.ChatSession{ID: 5, UserID: userID}, nil)
	f.repo.On("ListMessages", mock.Anything, uint64(5)).Return([]entity.ChatMessage{
		{ID: 1, SessionID: 5, Sender: entity.ChatSenderUser, Content: "hi"},
		{ID: 2, SessionID: 5, Sender: entity.ChatSenderAssistant, Content: "hello"},
	}, nil)

	resp, err := f.usecase.ListMessages(ctxAs(userID, entity.RoleIDPatient), 5)

	require.NoError(t, err)
	require.Len(t, resp.Messages, 2)
	assert.Equal(t, "assistant", resp.Messages[1].Sender)
}
