package repository

import (
	"errors"

	"clinic-backend/internal/domain/entity"
	domainRepo "clinic-backend/internal/domain/repository"

	"gorm.io/gorm"
)

type saleRepository struct{}

func NewSaleRepository() domainRepo.SaleRepository {
	return &saleRepository{}
}

// Create inserts the sale and its items.
func (r *saleRepository) Create(db *gorm.DB, sale *entity.Sale) error {
	return db.Create(sale).Error
}

func (r *saleRepository) FindByID(db *gorm.DB, id uint64) (*entity.Sale, error) {
	var sale entity.Sale
	err := db.Preload("Items").Where("id = ?", id).First(&sale).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sale, nil
}

func (r *saleRepository) FindAll(db *gorm.DB, limit, offset int) ([]entity.Sale, int64, error) {
	var sales []entity.Sale
	var total int64

	if err := db.Model(&entity.Sale{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Scopes(paginate(limit, offset)).
		Preload("Items").
		Order("created_at DESC").
		Find(&sales).Error
	if err != nil {
		return nil, 0, err
	}
	return sales, total, nil
}
