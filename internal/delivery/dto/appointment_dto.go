package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

// CreateAppointmentRequest is the booking form. The consultation fee is not
// accepted from the client; it comes from the doctor's profile.
type CreateAppointmentRequest struct {
	DoctorID         string `json:"doctor" validate:"required,uuid"`
	AppointmentDate  string `json:"appointment_date" validate:"required,date"`
	AppointmentTime  string `json:"appointment_time" validate:"required,timeofday"`
	Reason           string `json:"reason" validate:"omitempty,max=2000"`
	Symptoms         string `json:"symptoms" validate:"omitempty,max=2000"`
	PatientName      string `json:"patient_name" validate:"required,notblank,max=255"`
	PatientAge       int    `json:"patient_age" validate:"omitempty,min=0,max=150"`
	PatientGender    string `json:"patient_gender" validate:"omitempty,max=20"`
	PatientPhone     string `json:"patient_phone" validate:"required,notblank,max=20"`
	EmergencyContact string `json:"emergency_contact" validate:"omitempty,max=20"`
	PaymentMethod    string `json:"payment_method" validate:"required,notblank"`
}

// UpdateAppointmentRequest reschedules an appointment. Nil fields keep their
// current value.
type UpdateAppointmentRequest struct {
	AppointmentDate *string `json:"appointment_date" validate:"omitempty,date"`
	AppointmentTime *string `json:"appointment_time" validate:"omitempty,timeofday"`
	Reason          *string `json:"reason" validate:"omitempty,max=2000"`
}

type ConfirmPaymentRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required,notblank"`
}

// AppointmentListQuery carries the list filters. DoctorID together with Date
// switches to the availability view of one doctor's day.
type AppointmentListQuery struct {
	DoctorID *uuid.UUID
	Date     *time.Time
	Status   string
}

// Response DTOs

type AppointmentDoctorResponse struct {
	ID         uuid.UUID `json:"id"`
	DoctorCode string    `json:"doctor_code"`
	FullName   string    `json:"full_name"`
	Specialty  string    `json:"specialty"`
}

type AppointmentResponse struct {
	ID               uint64                     `json:"id"`
	AppointmentID    string                     `json:"appointment_id"`
	PatientID        uuid.UUID                  `json:"patient_id"`
	DoctorID         uuid.UUID                  `json:"doctor_id"`
	Doctor           *AppointmentDoctorResponse `json:"doctor,omitempty"`
	AppointmentDate  string                     `json:"appointment_date"`
	AppointmentTime  string                     `json:"appointment_time"`
	Reason           string                     `json:"reason"`
	Symptoms         string                     `json:"symptoms"`
	PatientName      string                     `json:"patient_name"`
	PatientAge       int                        `json:"patient_age"`
	PatientGender    string                     `json:"patient_gender"`
	PatientPhone     string                     `json:"patient_phone"`
	EmergencyContact string                     `json:"emergency_contact"`
	Status           string                     `json:"status"`
	ConsultationFee  string                     `json:"consultation_fee"`
	PaymentStatus    bool                       `json:"payment_status"`
	PaymentMethod    string                     `json:"payment_method"`
	PaymentID        string                     `json:"payment_id"`
	CompanyFee       *string                    `json:"company_fee"`
	RefundAmount     *string                    `json:"refund_amount"`
	Refunded         bool                       `json:"refunded"`
	CreatedAt        time.Time                  `json:"created_at"`
	UpdatedAt        time.Time                  `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

// CancelAppointmentResponse reports the fee split applied on cancellation.
type CancelAppointmentResponse struct {
	Appointment  AppointmentResponse `json:"appointment"`
	CompanyFee   string              `json:"company_fee"`
	RefundAmount string              `json:"refund_amount"`
	Refunded     bool                `json:"refunded"`
}
