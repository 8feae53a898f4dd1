package repository

import (
	"errors"

	"clinic-backend/internal/domain/entity"
	domainRepo "clinic-backend/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type doctorTipRepository struct{}

func NewDoctorTipRepository() domainRepo.DoctorTipRepository {
	return &doctorTipRepository{}
}

func (r *doctorTipRepository) Create(db *gorm.DB, tip *entity.DoctorTip) error {
	return db.Omit("Doctor").Create(tip).Error
}

func (r *doctorTipRepository) FindByID(db *gorm.DB, id uint64) (*entity.DoctorTip, error) {
	var tip entity.DoctorTip
	err := db.Preload("Doctor.User").Where("id = ?", id).First(&tip).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tip, nil
}

// List returns published tips, or every tip of OwnerID when set.
func (r *doctorTipRepository) List(db *gorm.DB, filter entity.TipFilter) ([]entity.DoctorTip, error) {
	var tips []entity.DoctorTip

	query := db.Preload("Doctor.User")
	if filter.OwnerID != nil {
		query = query.Where("doctor_id = ?", *filter.OwnerID)
	} else {
		query = query.Where("is_published = ?", true)
	}
	if filter.DoctorID != nil {
		query = query.Where("doctor_id = ?", *filter.DoctorID)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("title ILIKE ? OR body ILIKE ?", like, like)
	}

	if err := query.Order("created_at DESC").Find(&tips).Error; err != nil {
		return nil, err
	}
	return tips, nil
}

func (r *doctorTipRepository) Update(db *gorm.DB, tip *entity.DoctorTip) error {
	return db.Omit("Doctor").Save(tip).Error
}

func (r *doctorTipRepository) Delete(db *gorm.DB, id uint64, doctorID uuid.UUID) (int64, error) {
	result := db.Where("id = ? AND doctor_id = ?", id, doctorID).Delete(&entity.DoctorTip{})
	return result.RowsAffected, result.Error
}

func (r *doctorTipRepository) IncrementViews(db *gorm.DB, id uint64) error {
	return db.Model(&entity.DoctorTip{}).Where("id = ?", id).UpdateColumn("views", gorm.Expr("views + 1")).Error
}

type doctorReviewRepository struct{}

func NewDoctorReviewRepository() domainRepo.DoctorReviewRepository {
	return &doctorReviewRepository{}
}

func (r *doctorReviewRepository) Create(db *gorm.DB, review *entity.DoctorReview) error {
	return db.Omit("User").Create(review).Error
}

func (r *doctorReviewRepository) ListByDoctor(db *gorm.DB, doctorID uuid.UUID) ([]entity.DoctorReview, error) {
	var reviews []entity.DoctorReview
	err := db.Preload("User").Where("doctor_id = ?", doctorID).Order("created_at DESC").Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *doctorReviewRepository) Summary(db *gorm.DB, doctorID uuid.UUID) (entity.ReviewSummary, error) {
	var summary entity.ReviewSummary
	err := db.Model(&entity.DoctorReview{}).
		Select("COUNT(*) AS count, COALESCE(AVG(rating), 0) AS average").
		Where("doctor_id = ?", doctorID).
		Scan(&summary).Error
	return summary, err
}
