package converter

import (
	"clinic-backend/internal/delivery/dto"
	"clinic-backend/internal/domain/entity"
)

func ChatMessageToResponse(m *entity.ChatMessage) dto.ChatMessageResponse {
	return dto.ChatMessageResponse{
		ID:        m.ID,
		SessionID: m.SessionID,
		Sender:    string(m.Sender),
		Content:   m.Content,
		Metadata:  m.Metadata,
		CreatedAt: m.CreatedAt,
	}
}

func ChatMessagesToResponses(messages []entity.ChatMessage) []dto.ChatMessageResponse {
	responses := make([]dto.ChatMessageResponse, len(messages))
	for i := range messages {
		responses[i] = ChatMessageToResponse(&messages[i])
	}
	return responses
}

// ChatSessionToResponse includes the newest message when Messages is loaded.
func ChatSessionToResponse(s *entity.ChatSession) dto.ChatSessionResponse {
	resp := dto.ChatSessionResponse{
		ID:        s.ID,
		Title:     s.Title,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
	if n := len(s.Messages); n > 0 {
		last := ChatMessageToResponse(&s.Messages[n-1])
		resp.LastMessage = &last
	}
	return resp
}

func ChatSessionsToResponses(sessions []entity.ChatSession) []dto.ChatSessionResponse {
	responses := make([]dto.ChatSessionResponse, len(sessions))
	for i := range sessions {
		responses[i] = ChatSessionToResponse(&sessions[i])
	}
	return responses
}
