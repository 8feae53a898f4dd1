package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"clinic-backend/config"
	"clinic-backend/internal/converter"
	"clinic-backend/internal/delivery/dto"
	"clinic-backend/internal/domain/entity"
	"clinic-backend/internal/domain/repository"
	"clinic-backend/internal/infrastructure/database"
	"clinic-backend/internal/service"
	"clinic-backend/pkg/clocktime"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// liveSlotConstraint is the partial unique index over doctor, date and time
// of non-cancelled appointments.
const liveSlotConstraint = "idx_appointments_live_slot"

var (
	ErrAppointmentNotFound       = errors.New("appointment not found")
	ErrSlotTaken                 = errors.New("the doctor already has an appointment at this date and time")
	ErrAppointmentNotEditable    = errors.New("only pending or confirmed appointments can be changed")
	ErrEditWindowClosed          = errors.New("the appointment is too close to its scheduled time to be edited")
	ErrAlreadyCancelled          = errors.New("appointment is already cancelled")
	ErrAppointmentCompleted      = errors.New("completed appointments cannot be cancelled")
	ErrPaymentNotPending         = errors.New("payment can only be recorded for a pending appointment")
	ErrAvailabilityMisconfigured = errors.New("the doctor's availability could not be verified")
)

type AppointmentUsecase interface {
	Create(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	List(ctx context.Context, query dto.AppointmentListQuery) (*dto.AppointmentListResponse, error)
	Get(ctx context.Context, id uint64) (*dto.AppointmentResponse, error)
	Edit(ctx context.Context, id uint64, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error)
	Cancel(ctx context.Context, id uint64) (*dto.CancelAppointmentResponse, error)
	ConfirmPayment(ctx context.Context, id uint64, req *dto.ConfirmPaymentRequest) (*dto.AppointmentResponse, error)
}

type appointmentUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	doctorRepo      repository.DoctorProfileRepository
	idGenerator     service.AppointmentIDGenerator
	auditService    service.AuditService
	booking         config.BookingConfig
	now             func() time.Time
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	doctorRepo repository.DoctorProfileRepository,
	idGenerator service.AppointmentIDGenerator,
	auditService service.AuditService,
	booking config.BookingConfig,
) AppointmentUsecase {
	if booking.Location == nil {
		booking.Location = time.UTC
	}
	return &appointmentUsecase{
		db:              db,
		log:             log,
		appointmentRepo: appointmentRepo,
		doctorRepo:      doctorRepo,
		idGenerator:     idGenerator,
		auditService:    auditService,
		booking:         booking,
		now:             time.Now,
	}
}

// bookingInput is the parsed, trimmed booking form. It is built once and
// never modified.
type bookingInput struct {
	doctorID         uuid.UUID
	date             time.Time
	at               clocktime.TimeOfDay
	reason           string
	symptoms         string
	patientName      string
	patientAge       int
	patientGender    string
	patientPhone     string
	emergencyContact string
	paymentMethod    string
}

// newBookingInput reports every missing or malformed field at once.
func newBookingInput(req *dto.CreateAppointmentRequest) (bookingInput, error) {
	errs := FieldErrors{}
	in := bookingInput{
		reason:           strings.TrimSpace(req.Reason),
		symptoms:         strings.TrimSpace(req.Symptoms),
		patientName:      strings.TrimSpace(req.PatientName),
		patientAge:       req.PatientAge,
		patientGender:    strings.TrimSpace(req.PatientGender),
		patientPhone:     strings.TrimSpace(req.PatientPhone),
		emergencyContact: strings.TrimSpace(req.EmergencyContact),
		paymentMethod:    strings.ToLower(strings.TrimSpace(req.PaymentMethod)),
	}

	if raw := strings.TrimSpace(req.DoctorID); raw == "" {
		errs["doctor"] = "This field is required"
	} else if id, err := uuid.Parse(raw); err != nil {
		errs["doctor"] = "Invalid doctor id"
	} else {
		in.doctorID = id
	}

	if strings.TrimSpace(req.AppointmentDate) == "" {
		errs["appointment_date"] = "This field is required"
	} else if d, err := clocktime.ParseDate(req.AppointmentDate); err != nil {
		errs["appointment_date"] = err.Error()
	} else {
		in.date = d
	}

	if strings.TrimSpace(req.AppointmentTime) == "" {
		errs["appointment_time"] = "This field is required"
	} else if t, err := clocktime.ParseTimeOfDay(req.AppointmentTime); err != nil {
		errs["appointment_time"] = err.Error()
	} else {
		in.at = t
	}

	if in.patientName == "" {
		errs["patient_name"] = "This field is required"
	}
	if in.patientPhone == "" {
		errs["patient_phone"] = "This field is required"
	}
	if in.paymentMethod == "" {
		errs["payment_method"] = "This field is required"
	}

	if len(errs) > 0 {
		return bookingInput{}, errs
	}
	return in, nil
}

// Create books an appointment for the calling patient. The payment method
// decides the initial status; the fee comes from the doctor's profile.
func (u *appointmentUsecase) Create(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	userID, _, err := authorize(ctx, entity.CapBookAppointment)
	if err != nil {
		return nil, err
	}

	in, err := newBookingInput(req)
	if err != nil {
		return nil, err
	}

	terms, ok := entity.DerivePaymentTerms(in.paymentMethod, u.now())
	if !ok {
		return nil, FieldErrors{"payment_method": "Unsupported payment method"}
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor, err := u.doctorRepo.FindByUserID(tx, in.doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", in.doctorID, err)
		return nil, err
	}
	if doctor == nil || !doctor.User.IsActive {
		return nil, FieldErrors{"doctor": "Doctor not found"}
	}

	at := in.at.String()
	taken, err := u.appointmentRepo.ExistsAtSlot(tx, in.doctorID, in.date, at, 0)
	if err != nil {
		u.log.Warnf("Failed to check slot for doctor %s: %+v", in.doctorID, err)
		return nil, err
	}
	if taken {
		return nil, ErrSlotTaken
	}

	fee := doctor.ConsultationFee
	if !fee.IsPositive() {
		fee = u.booking.DefaultFee
	}

	appointment := &entity.Appointment{
		PatientID:        userID,
		DoctorID:         in.doctorID,
		AppointmentDate:  in.date,
		AppointmentTime:  at,
		Reason:           in.reason,
		Symptoms:         in.symptoms,
		PatientName:      in.patientName,
		PatientAge:       in.patientAge,
		PatientGender:    in.patientGender,
		PatientPhone:     in.patientPhone,
		EmergencyContact: in.emergencyContact,
		Status:           terms.Status,
		ConsultationFee:  fee,
		PaymentStatus:    terms.PaymentStatus,
		PaymentMethod:    in.paymentMethod,
		PaymentID:        terms.PaymentID,
	}

	if err := u.idGenerator.Insert(ctx, tx, appointment); err != nil {
		if isSlotConflict(err) {
			return nil, ErrSlotTaken
		}
		if database.IsForeignKeyViolation(err) {
			return nil, FieldErrors{"doctor": "Doctor not found"}
		}
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, tx, userRef(userID), entity.AuditActionAppointmentCreate, "appointment", appointment.AppointmentID, entity.JSON{
		"doctor_id":        in.doctorID.String(),
		"appointment_date": in.date.Format(clocktime.DateLayout),
		"appointment_time": at,
		"status":           string(appointment.Status),
		"payment_method":   appointment.PaymentMethod,
		"consultation_fee": fee.StringFixed(2),
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		if isSlotConflict(err) {
			return nil, ErrSlotTaken
		}
		u.log.Warnf("Failed to commit appointment: %+v", err)
		return nil, err
	}

	appointment.Doctor = *doctor
	u.log.Infof("Appointment created: id=%s, doctor=%s, status=%s", appointment.AppointmentID, in.doctorID, appointment.Status)
	return converter.AppointmentToResponse(appointment), nil
}

// List scopes results to the caller: patients see their own, doctors their
// assigned appointments and admins everything. Supplying both a doctor and a
// date switches to that doctor's day in ascending order, visible to any
// authenticated caller with other patients' details hidden.
func (u *appointmentUsecase) List(ctx context.Context, query dto.AppointmentListQuery) (*dto.AppointmentListResponse, error) {
	userID, role, err := identity(ctx)
	if err != nil {
		return nil, err
	}

	var filter entity.AppointmentFilter
	if query.Status != "" {
		status, ok := entity.ParseAppointmentStatus(query.Status)
		if !ok {
			return nil, FieldErrors{"status": "Must be one of pending, confirmed, completed, cancelled"}
		}
		filter.Status = status
	}

	dayView := query.DoctorID != nil && query.Date != nil
	switch {
	case dayView:
		filter.DoctorID = query.DoctorID
		filter.Date = query.Date
		filter.Ascending = true
	case role.Can(entity.CapListAllAppointments):
		filter.DoctorID = query.DoctorID
		filter.Date = query.Date
	case role.Can(entity.CapListOwnAppointments):
		filter.PatientID = &userID
		filter.DoctorID = query.DoctorID
	case role.Can(entity.CapListDoctorSchedule):
		filter.DoctorID = &userID
		filter.Date = query.Date
	default:
		return nil, ErrForbidden
	}

	appointments, err := u.appointmentRepo.List(u.db.WithContext(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to list appointments: %+v", err)
		return nil, err
	}

	responses := converter.AppointmentsToResponses(appointments)
	if dayView {
		for i := range appointments {
			if !canSeeAppointment(&appointments[i], userID, role) {
				redactAppointment(&responses[i])
			}
		}
	}

	return &dto.AppointmentListResponse{
		Appointments: responses,
		Total:        len(responses),
	}, nil
}

// Get returns one appointment to its patient, its doctor or an admin.
func (u *appointmentUsecase) Get(ctx context.Context, id uint64) (*dto.AppointmentResponse, error) {
	userID, role, err := identity(ctx)
	if err != nil {
		return nil, err
	}

	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %d: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if !canSeeAppointment(appointment, userID, role) {
		return nil, ErrForbidden
	}

	return converter.AppointmentToResponse(appointment), nil
}

// Edit reschedules an appointment owned by the caller. It is refused once the
// appointment is within the edit window, or when its time cannot be worked
// out at all.
func (u *appointmentUsecase) Edit(ctx context.Context, id uint64, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
	userID, _, err := authorize(ctx, entity.CapModifyAppointment)
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.ownedAppointment(tx, id, userID)
	if err != nil {
		return nil, err
	}
	if !appointment.IsEditable() {
		return nil, ErrAppointmentNotEditable
	}

	scheduled, err := appointment.ScheduledAt(u.booking.Location)
	if err != nil {
		u.log.Warnf("Failed to resolve schedule of appointment %s: %+v", appointment.AppointmentID, err)
		return nil, ErrEditWindowClosed
	}
	if !scheduled.After(u.now().Add(u.booking.EditWindow)) {
		return nil, fmt.Errorf("%w: changes close %s before the appointment", ErrEditWindowClosed, humanWindow(u.booking.EditWindow))
	}

	date, at, reason, err := u.resolveEdit(appointment, req)
	if err != nil {
		return nil, err
	}

	// The resulting slot is checked on every edit, reason-only included.
	if err := u.checkAvailability(tx, appointment.DoctorID, date, at); err != nil {
		return nil, err
	}

	taken, err := u.appointmentRepo.ExistsAtSlot(tx, appointment.DoctorID, date, at.String(), appointment.ID)
	if err != nil {
		u.log.Warnf("Failed to check slot for appointment %s: %+v", appointment.AppointmentID, err)
		return nil, err
	}
	if taken {
		return nil, ErrSlotTaken
	}

	rows, err := u.appointmentRepo.UpdateSchedule(tx, appointment.ID, date, at.String(), reason)
	if err != nil {
		if isSlotConflict(err) {
			return nil, ErrSlotTaken
		}
		u.log.Warnf("Failed to update appointment %s: %+v", appointment.AppointmentID, err)
		return nil, err
	}
	if rows == 0 {
		return nil, ErrConcurrentUpdate
	}

	oldValue := entity.JSON{
		"appointment_date": appointment.AppointmentDate.Format(clocktime.DateLayout),
		"appointment_time": appointment.AppointmentTime,
		"reason":           appointment.Reason,
	}
	newValue := entity.JSON{
		"appointment_date": date.Format(clocktime.DateLayout),
		"appointment_time": at.String(),
		"reason":           reason,
	}
	if err := u.auditService.LogUpdate(ctx, tx, userRef(userID), entity.AuditActionAppointmentUpdate, "appointment", appointment.AppointmentID, oldValue, newValue); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		if isSlotConflict(err) {
			return nil, ErrSlotTaken
		}
		u.log.Warnf("Failed to commit appointment update: %+v", err)
		return nil, err
	}

	appointment.AppointmentDate = date
	appointment.AppointmentTime = at.String()
	appointment.Reason = reason
	return converter.AppointmentToResponse(appointment), nil
}

// humanWindow renders the edit window for error messages.
func humanWindow(d time.Duration) string {
	switch {
	case d == time.Hour:
		return "1 hour"
	case d > 0 && d%time.Hour == 0:
		return fmt.Sprintf("%d hours", d/time.Hour)
	default:
		return d.String()
	}
}

// resolveEdit merges the request into the current values. Omitted fields
// keep what is stored.
func (u *appointmentUsecase) resolveEdit(appointment *entity.Appointment, req *dto.UpdateAppointmentRequest) (time.Time, clocktime.TimeOfDay, string, error) {
	errs := FieldErrors{}
	date := appointment.AppointmentDate
	reason := appointment.Reason

	at, err := clocktime.ParseTimeOfDay(appointment.AppointmentTime)
	if err != nil {
		u.log.Warnf("Stored time %q of appointment %s is unreadable: %+v", appointment.AppointmentTime, appointment.AppointmentID, err)
		return time.Time{}, clocktime.TimeOfDay{}, "", ErrEditWindowClosed
	}

	if req.AppointmentDate != nil {
		d, err := clocktime.ParseDate(*req.AppointmentDate)
		if err != nil {
			errs["appointment_date"] = err.Error()
		}
		date = d
	}
	if req.AppointmentTime != nil {
		t, err := clocktime.ParseTimeOfDay(*req.AppointmentTime)
		if err != nil {
			errs["appointment_time"] = err.Error()
		}
		at = t
	}
	if req.Reason != nil {
		reason = strings.TrimSpace(*req.Reason)
	}

	if len(errs) > 0 {
		return time.Time{}, clocktime.TimeOfDay{}, "", errs
	}
	return date, at, reason, nil
}

// checkAvailability matches the new date and time against the doctor's
// configured days and slots. A missing profile or a configuration that does
// not parse rejects the edit.
func (u *appointmentUsecase) checkAvailability(tx *gorm.DB, doctorID uuid.UUID, date time.Time, at clocktime.TimeOfDay) error {
	doctor, err := u.doctorRepo.FindByUserID(tx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return err
	}
	if doctor == nil {
		return ErrAvailabilityMisconfigured
	}

	errs := FieldErrors{}
	if err := doctor.CheckDay(date); err != nil {
		if errors.Is(err, entity.ErrMalformedAvailability) {
			u.log.Warnf("Doctor %s has malformed available days: %+v", doctorID, err)
			return ErrAvailabilityMisconfigured
		}
		errs["appointment_date"] = err.Error()
	}
	if err := doctor.CheckSlot(at); err != nil {
		if errors.Is(err, entity.ErrMalformedAvailability) {
			u.log.Warnf("Doctor %s has malformed time slots: %+v", doctorID, err)
			return ErrAvailabilityMisconfigured
		}
		errs["appointment_time"] = err.Error()
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Cancel cancels an appointment owned by the caller and records the fee
// split. Paid appointments are refunded minus the company fee.
func (u *appointmentUsecase) Cancel(ctx context.Context, id uint64) (*dto.CancelAppointmentResponse, error) {
	userID, _, err := authorize(ctx, entity.CapModifyAppointment)
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.ownedAppointment(tx, id, userID)
	if err != nil {
		return nil, err
	}
	if appointment.IsCancelled() {
		return nil, ErrAlreadyCancelled
	}
	if appointment.IsCompleted() {
		return nil, ErrAppointmentCompleted
	}

	outcome := appointment.CancellationSplit(u.booking.CompanyFeeRate)

	rows, err := u.appointmentRepo.Cancel(tx, appointment.ID, outcome)
	if err != nil {
		u.log.Warnf("Failed to cancel appointment %s: %+v", appointment.AppointmentID, err)
		return nil, err
	}
	if rows == 0 {
		return nil, ErrConcurrentUpdate
	}

	if err := u.auditService.LogTransition(ctx, tx, userRef(userID), entity.AuditActionAppointmentCancel, appointment, entity.AppointmentStatusCancelled, entity.JSON{
		"company_fee":   outcome.CompanyFee.StringFixed(2),
		"refund_amount": outcome.RefundAmount.StringFixed(2),
		"refunded":      outcome.Refunded,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit appointment cancellation: %+v", err)
		return nil, err
	}

	appointment.Status = entity.AppointmentStatusCancelled
	appointment.CompanyFee = decimal.NewNullDecimal(outcome.CompanyFee)
	appointment.RefundAmount = decimal.NewNullDecimal(outcome.RefundAmount)
	appointment.Refunded = outcome.Refunded
	appointment.PaymentStatus = outcome.PaymentStatus

	u.log.Infof("Appointment cancelled: id=%s, refund=%s", appointment.AppointmentID, outcome.RefundAmount.StringFixed(2))
	return &dto.CancelAppointmentResponse{
		Appointment:  *converter.AppointmentToResponse(appointment),
		CompanyFee:   converter.Money(outcome.CompanyFee),
		RefundAmount: converter.Money(outcome.RefundAmount),
		Refunded:     outcome.Refunded,
	}, nil
}

// ConfirmPayment records an immediate payment on a pending appointment and
// confirms it. No gateway is involved; the reference is generated locally.
func (u *appointmentUsecase) ConfirmPayment(ctx context.Context, id uint64, req *dto.ConfirmPaymentRequest) (*dto.AppointmentResponse, error) {
	userID, _, err := authorize(ctx, entity.CapModifyAppointment)
	if err != nil {
		return nil, err
	}

	method := strings.ToLower(strings.TrimSpace(req.PaymentMethod))
	if entity.ClassifyPaymentMethod(method) != entity.PaymentImmediate {
		return nil, FieldErrors{"payment_method": "Must be one of card, atm, upi, online"}
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.ownedAppointment(tx, id, userID)
	if err != nil {
		return nil, err
	}
	if !appointment.IsPending() {
		return nil, ErrPaymentNotPending
	}

	paymentID := entity.NewPaymentReference(u.now())
	rows, err := u.appointmentRepo.ConfirmPayment(tx, appointment.ID, method, paymentID)
	if err != nil {
		u.log.Warnf("Failed to record payment for appointment %s: %+v", appointment.AppointmentID, err)
		return nil, err
	}
	if rows == 0 {
		return nil, ErrConcurrentUpdate
	}

	if err := u.auditService.LogTransition(ctx, tx, userRef(userID), entity.AuditActionAppointmentPayment, appointment, entity.AppointmentStatusConfirmed, entity.JSON{
		"payment_method": method,
		"payment_id":     paymentID,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit payment: %+v", err)
		return nil, err
	}

	appointment.Status = entity.AppointmentStatusConfirmed
	appointment.PaymentStatus = true
	appointment.PaymentMethod = method
	appointment.PaymentID = paymentID
	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) ownedAppointment(tx *gorm.DB, id uint64, userID uuid.UUID) (*entity.Appointment, error) {
	appointment, err := u.appointmentRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %d: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if appointment.PatientID != userID {
		return nil, ErrForbidden
	}
	return appointment, nil
}

func canSeeAppointment(a *entity.Appointment, userID uuid.UUID, role entity.RoleID) bool {
	return a.PatientID == userID || a.DoctorID == userID || role.Can(entity.CapListAllAppointments)
}

// redactAppointment keeps only what an availability lookup needs.
func redactAppointment(resp *dto.AppointmentResponse) {
	resp.PatientID = uuid.Nil
	resp.PatientName = ""
	resp.PatientAge = 0
	resp.PatientGender = ""
	resp.PatientPhone = ""
	resp.EmergencyContact = ""
	resp.Reason = ""
	resp.Symptoms = ""
	resp.PaymentMethod = ""
	resp.PaymentID = ""
	resp.CompanyFee = nil
	resp.RefundAmount = nil
}

func isSlotConflict(err error) bool {
	return database.IsUniqueViolation(err) && database.ConstraintName(err) == liveSlotConstraint
}
