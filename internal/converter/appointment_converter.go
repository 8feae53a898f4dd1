package converter

import (
	"clinic-backend/internal/delivery/dto"
	"clinic-backend/internal/domain/entity"
	"clinic-backend/pkg/clocktime"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO
func AppointmentToResponse(a *entity.Appointment) *dto.AppointmentResponse {
	if a == nil {
		return nil
	}

	resp := &dto.AppointmentResponse{
		ID:               a.ID,
		AppointmentID:    a.AppointmentID,
		PatientID:        a.PatientID,
		DoctorID:         a.DoctorID,
		AppointmentDate:  a.AppointmentDate.Format(clocktime.DateLayout),
		AppointmentTime:  a.AppointmentTime,
		Reason:           a.Reason,
		Symptoms:         a.Symptoms,
		PatientName:      a.PatientName,
		PatientAge:       a.PatientAge,
		PatientGender:    a.PatientGender,
		PatientPhone:     a.PatientPhone,
		EmergencyContact: a.EmergencyContact,
		Status:           string(a.Status),
		ConsultationFee:  Money(a.ConsultationFee),
		PaymentStatus:    a.PaymentStatus,
		PaymentMethod:    a.PaymentMethod,
		PaymentID:        a.PaymentID,
		CompanyFee:       nullMoney(a.CompanyFee),
		RefundAmount:     nullMoney(a.RefundAmount),
		Refunded:         a.Refunded,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}

	// Doctor summary only when the relation was preloaded
	if a.Doctor.UserID == a.DoctorID && a.Doctor.DoctorCode != "" {
		resp.Doctor = &dto.AppointmentDoctorResponse{
			ID:         a.Doctor.UserID,
			DoctorCode: a.Doctor.DoctorCode,
			FullName:   a.Doctor.User.FullName,
			Specialty:  a.Doctor.Specialty,
		}
	}

	return resp
}

// AppointmentsToResponses converts a slice of Appointment entities to slice of AppointmentResponse DTOs
func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}
