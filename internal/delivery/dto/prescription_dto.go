package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type MedicationRequest struct {
	Name      string `json:"name" validate:"required,notblank"`
	Dosage    string `json:"dosage" validate:"required,notblank"`
	Frequency string `json:"frequency"`
	Duration  string `json:"duration" validate:"required,notblank"`
	Notes     string `json:"notes"`
}

type CreatePrescriptionRequest struct {
	AppointmentID uint64              `json:"appointment" validate:"required,min=1"`
	Medications   []MedicationRequest `json:"medications" validate:"required,min=1,dive"`
	Instructions  string              `json:"instructions" validate:"required,notblank"`
	Diagnosis     string              `json:"diagnosis" validate:"required,notblank"`
	Notes         string              `json:"notes"`
	FollowUpDate  *string             `json:"follow_up_date" validate:"omitempty,date"`
}

// Response DTOs

type MedicationResponse struct {
	Name      string `json:"name"`
	Dosage    string `json:"dosage"`
	Frequency string `json:"frequency,omitempty"`
	Duration  string `json:"duration"`
	Notes     string `json:"notes,omitempty"`
}

type PrescriptionResponse struct {
	ID              uint64               `json:"id"`
	AppointmentID   uint64               `json:"appointment"`
	AppointmentCode string               `json:"appointment_id,omitempty"`
	DoctorID        uuid.UUID            `json:"doctor_id"`
	DoctorName      string               `json:"doctor_name,omitempty"`
	PatientID       uuid.UUID            `json:"patient_id"`
	PatientName     string               `json:"patient_name,omitempty"`
	Medications     []MedicationResponse `json:"medications"`
	Instructions    string               `json:"instructions"`
	Diagnosis       string               `json:"diagnosis"`
	Notes           string               `json:"notes"`
	FollowUpDate    *string              `json:"follow_up_date"`
	CreatedAt       time.Time            `json:"created_at"`
}

type PrescriptionListResponse struct {
	Prescriptions []PrescriptionResponse `json:"prescriptions"`
	Total         int                    `json:"total"`
}

// PrescriptionPDF is a rendered prescription ready to be sent as a download.
type PrescriptionPDF struct {
	Filename string
	Content  []byte
}
