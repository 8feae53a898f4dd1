package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"clinic-backend/internal/delivery/dto"
	"clinic-backend/internal/usecase"
	"clinic-backend/pkg/validator"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockChatUsecase struct {
	mock.Mock
}

func (m *mockChatUsecase) CreateSession(ctx context.Context, req *dto.CreateChatSessionRequest) (*dto.ChatSessionResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ChatSessionResponse), args.Error(1)
}

func (m *mockChatUsecase) ListSessions(ctx context.Context) (*dto.ChatSessionListResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ChatSessionListResponse), args.Error(1)
}

func (m *mockChatUsecase) ListMessages(ctx context.Context, sessionID uint64) (*dto.ChatMessageListResponse, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ChatMessageListResponse), args.Error(1)
}

func (m *mockChatUsecase) SendMessage(ctx context.Context, sessionID uint64, req *dto.SendChatMessageRequest) (*dto.ChatReplyResponse, error) {
	args := m.Called(ctx, sessionID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ChatReplyResponse), args.Error(1)
}

func sendRequest(id, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/chat/sessions/"+id+"/messages", strings.NewReader(body))
	return mux.SetURLVars(req, map[string]string{"id": id})
}

func TestChatHandler_CreateSession(t *testing.T) {
	t.Run("Empty body", func(t *testing.T) {
		uc := new(mockChatUsecase)
		h := NewChatHandler(uc, validator.NewValidator())
		uc.On("CreateSession", mock.Anything, &dto.CreateChatSessionRequest{}).
			Return(&dto.ChatSessionResponse{ID: 1, Title: "Medical Consultation"}, nil)

		rec := httptest.NewRecorder()
		h.CreateSession(rec, httptest.NewRequest(http.MethodPost, "/chat/sessions", nil))

		assert.Equal(t, http.StatusCreated, rec.Code)
		uc.AssertExpectations(t)
	})

	t.Run("Title too long", func(t *testing.T) {
		uc := new(mockChatUsecase)
		h := NewChatHandler(uc, validator.NewValidator())

		body := `{"title":"` + strings.Repeat("a", 256) + `"}`
		rec := httptest.NewRecorder()
		h.CreateSession(rec, httptest.NewRequest(http.MethodPost, "/chat/sessions", strings.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		uc.AssertNotCalled(t, "CreateSession", mock.Anything, mock.Anything)
	})
}

func TestChatHandler_SendMessage(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		uc := new(mockChatUsecase)
		h := NewChatHandler(uc, validator.NewValidator())
		uc.On("SendMessage", mock.Anything, uint64(3), &dto.SendChatMessageRequest{Content: "I have a fever"}).
			Return(&dto.ChatReplyResponse{
				UserMessage:      dto.ChatMessageResponse{Sender: "user", Content: "I have a fever"},
				AssistantMessage: dto.ChatMessageResponse{Sender: "assistant", Content: "Rest and fluids."},
			}, nil)

		rec := httptest.NewRecorder()
		h.SendMessage(rec, sendRequest("3", `{"content":"I have a fever"}`))

		assert.Equal(t, http.StatusCreated, rec.Code)
		uc.AssertExpectations(t)
	})

	t.Run("Rate limited sets Retry-After", func(t *testing.T) {
		uc := new(mockChatUsecase)
		h := NewChatHandler(uc, validator.NewValidator())
		uc.On("SendMessage", mock.Anything, uint64(3), mock.Anything).
			Return(nil, &usecase.RateLimitError{RetryAfter: 1500 * time.Millisecond})

		rec := httptest.NewRecorder()
		h.SendMessage(rec, sendRequest("3", `{"content":"hello"}`))

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "2", rec.Header().Get("Retry-After"))
	})

	t.Run("Foreign session", func(t *testing.T) {
		uc := new(mockChatUsecase)
		h := NewChatHandler(uc, validator.NewValidator())
		uc.On("SendMessage", mock.Anything, uint64(9), mock.Anything).Return(nil, usecase.ErrChatSessionNotFound)

		rec := httptest.NewRecorder()
		h.SendMessage(rec, sendRequest("9", `{"content":"hello"}`))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Blank content", func(t *testing.T) {
		uc := new(mockChatUsecase)
		h := NewChatHandler(uc, validator.NewValidator())

		rec := httptest.NewRecorder()
		h.SendMessage(rec, sendRequest("3", `{"content":"   "}`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		uc.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything, mock.Anything)
	})
}
