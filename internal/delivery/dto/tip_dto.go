package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type TipRequest struct {
	Title       string   `json:"title" validate:"required,notblank,max=200"`
	Body        string   `json:"body" validate:"required,notblank"`
	Tags        []string `json:"tags" validate:"omitempty,max=10,dive,notblank,max=50"`
	IsPublished *bool    `json:"is_published"`
}

type TipListQuery struct {
	Mine     bool
	DoctorID *uuid.UUID
	Search   string
}

// Response DTOs

type TipResponse struct {
	ID          uint64    `json:"id"`
	DoctorID    uuid.UUID `json:"doctor_id"`
	DoctorName  string    `json:"doctor_name,omitempty"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	Tags        []string  `json:"tags"`
	IsPublished bool      `json:"is_published"`
	Views       int64     `json:"views"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type TipListResponse struct {
	Tips  []TipResponse `json:"tips"`
	Total int           `json:"total"`
}
