package converter

import (
	"clinic-backend/internal/delivery/dto"
	"clinic-backend/internal/domain/entity"
	"clinic-backend/pkg/clocktime"
)

func MedicationsFromRequest(reqs []dto.MedicationRequest) entity.Medications {
	meds := make(entity.Medications, len(reqs))
	for i, r := range reqs {
		meds[i] = entity.Medication{
			Name:      r.Name,
			Dosage:    r.Dosage,
			Frequency: r.Frequency,
			Duration:  r.Duration,
			Notes:     r.Notes,
		}
	}
	return meds
}

func PrescriptionToResponse(p *entity.Prescription) *dto.PrescriptionResponse {
	if p == nil {
		return nil
	}

	meds := make([]dto.MedicationResponse, len(p.Medications))
	for i, m := range p.Medications {
		meds[i] = dto.MedicationResponse{
			Name:      m.Name,
			Dosage:    m.Dosage,
			Frequency: m.Frequency,
			Duration:  m.Duration,
			Notes:     m.Notes,
		}
	}

	resp := &dto.PrescriptionResponse{
		ID:            p.ID,
		AppointmentID: p.AppointmentID,
		DoctorID:      p.DoctorID,
		PatientID:     p.PatientID,
		Medications:   meds,
		Instructions:  p.Instructions,
		Diagnosis:     p.Diagnosis,
		Notes:         p.Notes,
		CreatedAt:     p.CreatedAt,
	}
	if p.FollowUpDate != nil {
		s := p.FollowUpDate.Format(clocktime.DateLayout)
		resp.FollowUpDate = &s
	}
	if p.Appointment.ID != 0 {
		resp.AppointmentCode = p.Appointment.AppointmentID
		resp.PatientName = p.Appointment.PatientName
	}
	if p.Doctor.User.FullName != "" {
		resp.DoctorName = p.Doctor.User.FullName
	}

	return resp
}

func PrescriptionsToResponses(prescriptions []entity.Prescription) []dto.PrescriptionResponse {
	responses := make([]dto.PrescriptionResponse, len(prescriptions))
	for i := range prescriptions {
		responses[i] = *PrescriptionToResponse(&prescriptions[i])
	}
	return responses
}
