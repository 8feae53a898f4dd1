package converter

import (
	"clinic-backend/internal/delivery/dto"
	"clinic-backend/internal/domain/entity"
)

func TipToResponse(t *entity.DoctorTip) *dto.TipResponse {
	if t == nil {
		return nil
	}
	return &dto.TipResponse{
		ID:          t.ID,
		DoctorID:    t.DoctorID,
		DoctorName:  t.Doctor.User.FullName,
		Title:       t.Title,
		Body:        t.Body,
		Tags:        nonNil(t.Tags),
		IsPublished: t.IsPublished,
		Views:       t.Views,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func TipsToResponses(tips []entity.DoctorTip) []dto.TipResponse {
	responses := make([]dto.TipResponse, len(tips))
	for i := range tips {
		responses[i] = *TipToResponse(&tips[i])
	}
	return responses
}
