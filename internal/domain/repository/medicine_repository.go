package repository

import (
	"clinic-backend/internal/domain/entity"

	"gorm.io/gorm"
)

type MedicineCategoryRepository interface {
	FirstOrCreate(db *gorm.DB, category *entity.MedicineCategory) (bool, error)
	FindAll(db *gorm.DB) ([]entity.MedicineCategory, error)
	FindByID(db *gorm.DB, id uint64) (*entity.MedicineCategory, error)
	Update(db *gorm.DB, category *entity.MedicineCategory) error
	Delete(db *gorm.DB, id uint64) (int64, error)
}

type MedicineRepository interface {
	Create(db *gorm.DB, medicine *entity.Medicine) error
	FindAll(db *gorm.DB, filter entity.MedicineFilter) ([]entity.Medicine, int64, error)
	FindByID(db *gorm.DB, id uint64) (*entity.Medicine, error)
	FindByIDs(db *gorm.DB, ids []uint64) ([]entity.Medicine, error)
	Update(db *gorm.DB, medicine *entity.Medicine) error
	Delete(db *gorm.DB, id uint64) (int64, error)
	DecrementStock(db *gorm.DB, id uint64, qty int) (int64, error)
}
