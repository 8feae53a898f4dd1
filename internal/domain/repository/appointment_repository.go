package repository

import (
	"time"

	"clinic-backend/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	FindByID(db *gorm.DB, id uint64) (*entity.Appointment, error)
	List(db *gorm.DB, filter entity.AppointmentFilter) ([]entity.Appointment, error)
	ExistsAtSlot(db *gorm.DB, doctorID uuid.UUID, date time.Time, at string, excludeID uint64) (bool, error)
	UpdateSchedule(db *gorm.DB, id uint64, date time.Time, at string, reason string) (int64, error)
	Cancel(db *gorm.DB, id uint64, outcome entity.CancellationOutcome) (int64, error)
	UpdateStatus(db *gorm.DB, id uint64, from, to entity.AppointmentStatus) (int64, error)
	ConfirmPayment(db *gorm.DB, id uint64, method, paymentID string) (int64, error)

	// Identifier sources, see service.AppointmentIDGenerator.
	NextSequence(db *gorm.DB) (int64, error)
	LastAppointmentID(db *gorm.DB) (string, error)
	Count(db *gorm.DB) (int64, error)
}
