package converter

import (
	"clinic-backend/internal/delivery/dto"
	"clinic-backend/internal/domain/entity"
)

func AuditLogToResponse(l *entity.AuditLog) *dto.AuditLogResponse {
	if l == nil {
		return nil
	}
	return &dto.AuditLogResponse{
		ID:        l.ID,
		UserID:    l.UserID,
		User:      UserToResponse(l.User),
		Action:    l.Action,
		Metadata:  l.Metadata,
		CreatedAt: l.CreatedAt,
	}
}

func AuditLogsToResponses(logs []entity.AuditLog) []dto.AuditLogResponse {
	responses := make([]dto.AuditLogResponse, len(logs))
	for i := range logs {
		responses[i] = *AuditLogToResponse(&logs[i])
	}
	return responses
}
