package repository

import (
	"errors"
	"time"

	"clinic-backend/internal/domain/entity"
	domainRepo "clinic-backend/internal/domain/repository"
	"clinic-backend/pkg/clocktime"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var editableStatuses = []entity.AppointmentStatus{
	entity.AppointmentStatusPending,
	entity.AppointmentStatusConfirmed,
}

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Omit("Patient", "Doctor").Create(appointment).Error
}

func (r *appointmentRepository) FindByID(db *gorm.DB, id uint64) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.Preload("Doctor.User").Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) List(db *gorm.DB, filter entity.AppointmentFilter) ([]entity.Appointment, error) {
	var appointments []entity.Appointment

	query := db.Preload("Doctor.User")
	if filter.PatientID != nil {
		query = query.Where("patient_id = ?", *filter.PatientID)
	}
	if filter.DoctorID != nil {
		query = query.Where("doctor_id = ?", *filter.DoctorID)
	}
	if filter.Date != nil {
		query = query.Where("appointment_date = ?", filter.Date.Format(clocktime.DateLayout))
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if filter.Ascending {
		query = query.Order("appointment_date ASC, appointment_time ASC")
	} else {
		query = query.Order("appointment_date DESC, appointment_time DESC, id DESC")
	}

	if err := query.Find(&appointments).Error; err != nil {
		return nil, err
	}
	return appointments, nil
}

// ExistsAtSlot reports whether the doctor already holds a non-cancelled
// appointment at date and time. excludeID skips the row being edited.
func (r *appointmentRepository) ExistsAtSlot(db *gorm.DB, doctorID uuid.UUID, date time.Time, at string, excludeID uint64) (bool, error) {
	var count int64
	query := db.Model(&entity.Appointment{}).
		Where("doctor_id = ? AND appointment_date = ? AND appointment_time = ? AND status <> ?",
			doctorID, date.Format(clocktime.DateLayout), at, entity.AppointmentStatusCancelled)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateSchedule moves an appointment that is still editable. Returns 0 rows
// when a concurrent request changed the status first.
func (r *appointmentRepository) UpdateSchedule(db *gorm.DB, id uint64, date time.Time, at string, reason string) (int64, error) {
	result := db.Model(&entity.Appointment{}).
		Where("id = ? AND status IN ?", id, editableStatuses).
		Updates(map[string]interface{}{
			"appointment_date": date.Format(clocktime.DateLayout),
			"appointment_time": at,
			"reason":           reason,
		})
	return result.RowsAffected, result.Error
}

// Cancel writes the fee split together with the status change, ONLY if the
// appointment is still pending or confirmed. 0 rows = someone else won.
func (r *appointmentRepository) Cancel(db *gorm.DB, id uint64, outcome entity.CancellationOutcome) (int64, error) {
	result := db.Model(&entity.Appointment{}).
		Where("id = ? AND status IN ?", id, editableStatuses).
		Updates(map[string]interface{}{
			"status":         entity.AppointmentStatusCancelled,
			"company_fee":    outcome.CompanyFee,
			"refund_amount":  outcome.RefundAmount,
			"refunded":       outcome.Refunded,
			"payment_status": outcome.PaymentStatus,
		})
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) UpdateStatus(db *gorm.DB, id uint64, from, to entity.AppointmentStatus) (int64, error) {
	result := db.Model(&entity.Appointment{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) ConfirmPayment(db *gorm.DB, id uint64, method, paymentID string) (int64, error) {
	result := db.Model(&entity.Appointment{}).
		Where("id = ? AND status = ?", id, entity.AppointmentStatusPending).
		Updates(map[string]interface{}{
			"status":         entity.AppointmentStatusConfirmed,
			"payment_status": true,
			"payment_method": method,
			"payment_id":     paymentID,
		})
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) NextSequence(db *gorm.DB) (int64, error) {
	var next int64
	err := db.Raw("SELECT nextval('appointment_number_seq')").Scan(&next).Error
	return next, err
}

// LastAppointmentID returns "" when the table is empty.
func (r *appointmentRepository) LastAppointmentID(db *gorm.DB) (string, error) {
	var ids []string
	err := db.Model(&entity.Appointment{}).Order("id DESC").Limit(1).Pluck("appointment_id", &ids).Error
	if err != nil || len(ids) == 0 {
		return "", err
	}
	return ids[0], nil
}

func (r *appointmentRepository) Count(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&entity.Appointment{}).Count(&count).Error
	return count, err
}
