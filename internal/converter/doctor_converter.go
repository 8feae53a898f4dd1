package converter

import (
	"clinic-backend/internal/delivery/dto"
	"clinic-backend/internal/domain/entity"

	"github.com/shopspring/decimal"
)

// DoctorProfileToResponse fills name and contact fields only when User is
// loaded.
func DoctorProfileToResponse(p *entity.DoctorProfile) *dto.DoctorProfileResponse {
	if p == nil {
		return nil
	}

	resp := &dto.DoctorProfileResponse{
		UserID:             p.UserID,
		DoctorCode:         p.DoctorCode,
		Specialty:          p.Specialty,
		Experience:         p.Experience,
		Qualification:      p.Qualification,
		LicenseNumber:      p.LicenseNumber,
		Bio:                p.Bio,
		AvailableDays:      nonNil(p.AvailableDays),
		AvailableTimeSlots: nonNil(p.AvailableTimeSlots),
		ConsultationFee:    Money(p.ConsultationFee),
		IsProfileComplete:  p.IsProfileComplete,
		UpdatedAt:          p.UpdatedAt,
	}

	if p.User.ID == p.UserID {
		resp.FullName = p.User.FullName
		resp.Email = p.User.Email
		resp.Phone = p.User.Phone
		resp.IsActive = p.User.IsActive
	}

	return resp
}

func DoctorProfilesToResponses(profiles []entity.DoctorProfile) []dto.DoctorProfileResponse {
	responses := make([]dto.DoctorProfileResponse, len(profiles))
	for i := range profiles {
		responses[i] = *DoctorProfileToResponse(&profiles[i])
	}
	return responses
}

func ReviewToResponse(r *entity.DoctorReview) dto.ReviewResponse {
	resp := dto.ReviewResponse{
		ID:        r.ID,
		DoctorID:  r.DoctorID,
		UserID:    r.UserID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
	if r.User != nil {
		resp.UserName = r.User.FullName
	}
	return resp
}

func ReviewsToResponses(reviews []entity.DoctorReview) []dto.ReviewResponse {
	responses := make([]dto.ReviewResponse, len(reviews))
	for i := range reviews {
		responses[i] = ReviewToResponse(&reviews[i])
	}
	return responses
}

// AverageRating renders the mean rating with one decimal.
func AverageRating(avg float64) string {
	return decimal.NewFromFloat(avg).StringFixed(1)
}

func nonNil(list entity.StringList) []string {
	if list == nil {
		return []string{}
	}
	return []string(list)
}
