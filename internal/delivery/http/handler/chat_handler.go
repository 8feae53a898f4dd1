package handler

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"

	"clinic-backend/internal/delivery/dto"
	"clinic-backend/internal/usecase"
	"clinic-backend/pkg/response"
	"clinic-backend/pkg/validator"
)

type ChatHandler struct {
	chatUsecase usecase.ChatUsecase
	validator   *validator.CustomValidator
}

func NewChatHandler(chatUsecase usecase.ChatUsecase, validator *validator.CustomValidator) *ChatHandler {
	return &ChatHandler{
		chatUsecase: chatUsecase,
		validator:   validator,
	}
}

func chatFailure(w http.ResponseWriter, err error, message string) {
	var limited *usecase.RateLimitError
	switch {
	case errors.As(err, &limited):
		seconds := int(math.Ceil(limited.RetryAfter.Seconds()))
		if seconds < 1 {
			seconds = 1
		}
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
		response.TooManyRequests(w, "Too many messages, please slow down")
	case errors.Is(err, usecase.ErrChatSessionNotFound):
		response.NotFound(w, "Chat session not found")
	default:
		failure(w, err, message)
	}
}

func (h *ChatHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	// The title is optional, so is the body.
	var req dto.CreateChatSessionRequest
	json.NewDecoder(r.Body).Decode(&req)
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	session, err := h.chatUsecase.CreateSession(r.Context(), &req)
	if err != nil {
		chatFailure(w, err, "Failed to create chat session")
		return
	}

	response.Success(w, http.StatusCreated, "Chat session created successfully", session)
}

func (h *ChatHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.chatUsecase.ListSessions(r.Context())
	if err != nil {
		chatFailure(w, err, "Failed to get chat sessions")
		return
	}

	response.Success(w, http.StatusOK, "Chat sessions retrieved successfully", sessions)
}

func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := uintVar(w, r, "id", "session ID")
	if !ok {
		return
	}

	messages, err := h.chatUsecase.ListMessages(r.Context(), sessionID)
	if err != nil {
		chatFailure(w, err, "Failed to get chat messages")
		return
	}

	response.Success(w, http.StatusOK, "Chat messages retrieved successfully", messages)
}

// SendMessage handles a question to the medical assistant
// @Summary Ask the medical assistant
// @Description Stores the question and the answer. When the AI model is unavailable a canned answer is returned instead.
// @Tags Chat
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Session ID"
// @Param request body dto.SendChatMessageRequest true "Message"
// @Success 201 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 429 {object} response.Response
// @Router /chat/sessions/{id}/messages [post]
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := uintVar(w, r, "id", "session ID")
	if !ok {
		return
	}

	var req dto.SendChatMessageRequest
	if !decode(w, r, h.validator, &req) {
		return
	}

	reply, err := h.chatUsecase.SendMessage(r.Context(), sessionID, &req)
	if err != nil {
		chatFailure(w, err, "Failed to send message")
		return
	}

	response.Success(w, http.StatusCreated, "Message sent successfully", reply)
}
