package repository

import (
	"clinic-backend/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DoctorTipRepository interface {
	Create(db *gorm.DB, tip *entity.DoctorTip) error
	FindByID(db *gorm.DB, id uint64) (*entity.DoctorTip, error)
	List(db *gorm.DB, filter entity.TipFilter) ([]entity.DoctorTip, error)
	Update(db *gorm.DB, tip *entity.DoctorTip) error
	Delete(db *gorm.DB, id uint64, doctorID uuid.UUID) (int64, error)
	IncrementViews(db *gorm.DB, id uint64) error
}

type DoctorReviewRepository interface {
	Create(db *gorm.DB, review *entity.DoctorReview) error
	ListByDoctor(db *gorm.DB, doctorID uuid.UUID) ([]entity.DoctorReview, error)
	Summary(db *gorm.DB, doctorID uuid.UUID) (entity.ReviewSummary, error)
}
