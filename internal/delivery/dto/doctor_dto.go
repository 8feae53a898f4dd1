package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

// CreateStaffRequest creates a doctor or pharmacist account. A random
// password is generated and mailed when Password is empty.
type CreateStaffRequest struct {
	Email           string           `json:"email" validate:"required,email"`
	Password        string           `json:"password" validate:"omitempty,min=8"`
	FullName        string           `json:"full_name" validate:"required,notblank,min=2"`
	Phone           string           `json:"phone" validate:"omitempty,max=20"`
	Specialty       string           `json:"specialty" validate:"omitempty,max=100"`
	ConsultationFee *decimal.Decimal `json:"consultation_fee"`
}

type SetStaffStatusRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// UpdateDoctorProfileRequest leaves fields that are absent from the body
// untouched. An empty list clears it.
type UpdateDoctorProfileRequest struct {
	FullName           *string          `json:"full_name" validate:"omitempty,notblank,min=2"`
	Phone              *string          `json:"phone" validate:"omitempty,max=20"`
	Specialty          *string          `json:"specialty" validate:"omitempty,max=100"`
	Experience         *string          `json:"experience" validate:"omitempty,max=50"`
	Qualification      *string          `json:"qualification"`
	LicenseNumber      *string          `json:"license_number" validate:"omitempty,max=100"`
	Bio                *string          `json:"bio"`
	AvailableDays      []string         `json:"available_days" validate:"omitempty,dive,weekday"`
	AvailableTimeSlots []string         `json:"available_time_slots" validate:"omitempty,dive,timeslot"`
	ConsultationFee    *decimal.Decimal `json:"consultation_fee"`
}

type DoctorListQuery struct {
	Specialty string
	Search    string
}

type CreateReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"omitempty,max=2000"`
}

// Response DTOs

type DoctorProfileResponse struct {
	UserID             uuid.UUID `json:"user_id"`
	DoctorCode         string    `json:"doctor_code"`
	FullName           string    `json:"full_name,omitempty"`
	Email              string    `json:"email,omitempty"`
	Phone              string    `json:"phone,omitempty"`
	Specialty          string    `json:"specialty"`
	Experience         string    `json:"experience"`
	Qualification      string    `json:"qualification"`
	LicenseNumber      string    `json:"license_number,omitempty"`
	Bio                string    `json:"bio"`
	AvailableDays      []string  `json:"available_days"`
	AvailableTimeSlots []string  `json:"available_time_slots"`
	ConsultationFee    string    `json:"consultation_fee"`
	IsProfileComplete  bool      `json:"is_profile_complete"`
	IsActive           bool      `json:"is_active"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type DoctorListResponse struct {
	Doctors []DoctorProfileResponse `json:"doctors"`
	Total   int                     `json:"total"`
}

type StaffListResponse struct {
	Staff []UserResponse `json:"staff"`
	Total int            `json:"total"`
}

type ReviewResponse struct {
	ID        uint64     `json:"id"`
	DoctorID  uuid.UUID  `json:"doctor_id"`
	UserID    *uuid.UUID `json:"user_id,omitempty"`
	UserName  string     `json:"user_name,omitempty"`
	Rating    int        `json:"rating"`
	Comment   string     `json:"comment"`
	CreatedAt time.Time  `json:"created_at"`
}

// DoctorDetailResponse is the public doctor page: profile, reviews and
// published tips.
type DoctorDetailResponse struct {
	Doctor        DoctorProfileResponse `json:"doctor"`
	Reviews       []ReviewResponse      `json:"reviews"`
	ReviewCount   int64                 `json:"review_count"`
	AverageRating string                `json:"average_rating"`
	Tips          []TipResponse         `json:"tips"`
}
