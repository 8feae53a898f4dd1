package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"clinic-backend/internal/converter"
	"clinic-backend/internal/delivery/dto"
	"clinic-backend/internal/domain/entity"
	"clinic-backend/internal/domain/repository"
	"clinic-backend/internal/infrastructure/database"
	"clinic-backend/internal/infrastructure/mail"
	"clinic-backend/internal/infrastructure/pdf"
	"clinic-backend/internal/service"
	"clinic-backend/pkg/clocktime"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrPrescriptionNotFound   = errors.New("prescription not found")
	ErrPrescriptionExists     = errors.New("a prescription already exists for this appointment")
	ErrPrescriptionNotAllowed = errors.New("prescriptions can only be written for confirmed or completed appointments")
)

type PrescriptionUsecase interface {
	Create(ctx context.Context, req *dto.CreatePrescriptionRequest) (*dto.PrescriptionResponse, error)
	List(ctx context.Context) (*dto.PrescriptionListResponse, error)
	Get(ctx context.Context, id uint64) (*dto.PrescriptionResponse, error)
	PDF(ctx context.Context, id uint64) (*dto.PrescriptionPDF, error)
}

type prescriptionUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	prescriptionRepo repository.PrescriptionRepository
	appointmentRepo  repository.AppointmentRepository
	auditService     service.AuditService
	mailer           mail.Mailer
}

func NewPrescriptionUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	prescriptionRepo repository.PrescriptionRepository,
	appointmentRepo repository.AppointmentRepository,
	auditService service.AuditService,
	mailer mail.Mailer,
) PrescriptionUsecase {
	return &prescriptionUsecase{
		db:               db,
		log:              log,
		prescriptionRepo: prescriptionRepo,
		appointmentRepo:  appointmentRepo,
		auditService:     auditService,
		mailer:           mailer,
	}
}

func newPrescription(req *dto.CreatePrescriptionRequest) (*entity.Prescription, error) {
	errs := FieldErrors{}

	meds := converter.MedicationsFromRequest(req.Medications)
	if problems := meds.Validate(); len(problems) > 0 {
		errs["medications"] = strings.Join(problems, "; ")
	}

	p := &entity.Prescription{
		AppointmentID: req.AppointmentID,
		Medications:   meds,
		Instructions:  strings.TrimSpace(req.Instructions),
		Diagnosis:     strings.TrimSpace(req.Diagnosis),
		Notes:         strings.TrimSpace(req.Notes),
	}
	if req.AppointmentID == 0 {
		errs["appointment"] = "This field is required"
	}
	if p.Instructions == "" {
		errs["instructions"] = "This field is required"
	}
	if p.Diagnosis == "" {
		errs["diagnosis"] = "This field is required"
	}
	if req.FollowUpDate != nil && strings.TrimSpace(*req.FollowUpDate) != "" {
		d, err := clocktime.ParseDate(*req.FollowUpDate)
		if err != nil {
			errs["follow_up_date"] = err.Error()
		} else {
			p.FollowUpDate = &d
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return p, nil
}

// Create writes the prescription and completes a confirmed appointment in
// the same transaction. The PDF is mailed to the patient after commit; a
// mail failure is logged only.
func (u *prescriptionUsecase) Create(ctx context.Context, req *dto.CreatePrescriptionRequest) (*dto.PrescriptionResponse, error) {
	doctorID, _, err := authorize(ctx, entity.CapWritePrescription)
	if err != nil {
		return nil, err
	}

	prescription, err := newPrescription(req)
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.appointmentRepo.FindByID(tx, req.AppointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %d: %+v", req.AppointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, FieldErrors{"appointment": "Appointment not found"}
	}
	if appointment.DoctorID != doctorID {
		return nil, ErrForbidden
	}
	if !appointment.AcceptsPrescription() {
		return nil, ErrPrescriptionNotAllowed
	}

	existing, err := u.prescriptionRepo.FindByAppointmentID(tx, appointment.ID)
	if err != nil {
		u.log.Warnf("Failed to check prescription of appointment %d: %+v", appointment.ID, err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrPrescriptionExists
	}

	prescription.DoctorID = doctorID
	prescription.PatientID = appointment.PatientID
	if err := u.prescriptionRepo.Create(tx, prescription); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrPrescriptionExists
		}
		u.log.Warnf("Failed to create prescription: %+v", err)
		return nil, err
	}

	if appointment.IsConfirmed() {
		rows, err := u.appointmentRepo.UpdateStatus(tx, appointment.ID, entity.AppointmentStatusConfirmed, entity.AppointmentStatusCompleted)
		if err != nil {
			u.log.Warnf("Failed to complete appointment %s: %+v", appointment.AppointmentID, err)
			return nil, err
		}
		if rows == 0 {
			return nil, ErrConcurrentUpdate
		}
	}

	if err := u.auditService.LogCreate(ctx, tx, userRef(doctorID), entity.AuditActionPrescriptionCreate, "prescription", appointment.AppointmentID, entity.JSON{
		"appointment_id":     appointment.AppointmentID,
		"medications":        len(prescription.Medications),
		"appointment_status": string(entity.AppointmentStatusCompleted),
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	appointment.Status = entity.AppointmentStatusCompleted
	prescription.Appointment = *appointment
	prescription.Doctor = appointment.Doctor
	if prescription.CreatedAt.IsZero() {
		prescription.CreatedAt = time.Now()
	}

	u.mailPrescription(ctx, prescription)

	u.log.Infof("Prescription created: id=%d, appointment=%s", prescription.ID, appointment.AppointmentID)
	return converter.PrescriptionToResponse(prescription), nil
}

func (u *prescriptionUsecase) mailPrescription(ctx context.Context, prescription *entity.Prescription) {
	patient := prescription.Patient
	if patient.Email == "" {
		full, err := u.prescriptionRepo.FindByID(u.db.WithContext(ctx), prescription.ID)
		if err != nil || full == nil {
			u.log.Warnf("Failed to load prescription %d for mailing: %+v", prescription.ID, err)
			return
		}
		patient = full.Patient
	}
	if patient.Email == "" {
		return
	}

	content, err := pdf.RenderPrescription(prescription)
	if err != nil {
		u.log.Warnf("Failed to render prescription %d: %+v", prescription.ID, err)
		return
	}

	msg := mail.PrescriptionMessage(patient.Email, patient.FullName, prescription.Appointment.AppointmentID, content)
	if err := u.mailer.Send(ctx, msg); err != nil {
		u.log.Warnf("Failed to mail prescription %d: %+v", prescription.ID, err)
	}
}

// List shows patients their own prescriptions, doctors the ones they wrote
// and admins all of them.
func (u *prescriptionUsecase) List(ctx context.Context) (*dto.PrescriptionListResponse, error) {
	userID, role, err := identity(ctx)
	if err != nil {
		return nil, err
	}

	var filter entity.PrescriptionFilter
	switch role {
	case entity.RoleIDPatient:
		filter.PatientID = &userID
	case entity.RoleIDDoctor:
		filter.DoctorID = &userID
	case entity.RoleIDAdmin:
	default:
		return nil, ErrForbidden
	}

	prescriptions, err := u.prescriptionRepo.List(u.db.WithContext(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to list prescriptions: %+v", err)
		return nil, err
	}

	return &dto.PrescriptionListResponse{
		Prescriptions: converter.PrescriptionsToResponses(prescriptions),
		Total:         len(prescriptions),
	}, nil
}

func (u *prescriptionUsecase) Get(ctx context.Context, id uint64) (*dto.PrescriptionResponse, error) {
	prescription, err := u.visiblePrescription(ctx, id)
	if err != nil {
		return nil, err
	}
	return converter.PrescriptionToResponse(prescription), nil
}

func (u *prescriptionUsecase) PDF(ctx context.Context, id uint64) (*dto.PrescriptionPDF, error) {
	prescription, err := u.visiblePrescription(ctx, id)
	if err != nil {
		return nil, err
	}

	content, err := pdf.RenderPrescription(prescription)
	if err != nil {
		u.log.Warnf("Failed to render prescription %d: %+v", id, err)
		return nil, err
	}

	return &dto.PrescriptionPDF{
		Filename: "prescription-" + prescription.Appointment.AppointmentID + ".pdf",
		Content:  content,
	}, nil
}

func (u *prescriptionUsecase) visiblePrescription(ctx context.Context, id uint64) (*entity.Prescription, error) {
	userID, role, err := identity(ctx)
	if err != nil {
		return nil, err
	}

	prescription, err := u.prescriptionRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find prescription %d: %+v", id, err)
		return nil, err
	}
	if prescription == nil {
		return nil, ErrPrescriptionNotFound
	}
	if !canSeePrescription(prescription, userID, role) {
		return nil, ErrForbidden
	}
	return prescription, nil
}

func canSeePrescription(p *entity.Prescription, userID uuid.UUID, role entity.RoleID) bool {
	return p.PatientID == userID || p.DoctorID == userID || role == entity.RoleIDAdmin
}
