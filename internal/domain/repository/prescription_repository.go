package repository

import (
	"clinic-backend/internal/domain/entity"

	"gorm.io/gorm"
)

type PrescriptionRepository interface {
	Create(db *gorm.DB, prescription *entity.Prescription) error
	FindByID(db *gorm.DB, id uint64) (*entity.Prescription, error)
	FindByAppointmentID(db *gorm.DB, appointmentID uint64) (*entity.Prescription, error)
	List(db *gorm.DB, filter entity.PrescriptionFilter) ([]entity.Prescription, error)
}
