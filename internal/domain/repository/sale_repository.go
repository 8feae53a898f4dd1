package repository

import (
	"clinic-backend/internal/domain/entity"

	"gorm.io/gorm"
)

type SaleRepository interface {
	Create(db *gorm.DB, sale *entity.Sale) error
	FindByID(db *gorm.DB, id uint64) (*entity.Sale, error)
	FindAll(db *gorm.DB, limit, offset int) ([]entity.Sale, int64, error)
}
