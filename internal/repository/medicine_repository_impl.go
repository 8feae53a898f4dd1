package repository

import (
	"errors"

	"clinic-backend/internal/domain/entity"
	domainRepo "clinic-backend/internal/domain/repository"

	"gorm.io/gorm"
)

type medicineCategoryRepository struct{}

func NewMedicineCategoryRepository() domainRepo.MedicineCategoryRepository {
	return &medicineCategoryRepository{}
}

// FirstOrCreate looks the category up by slug and inserts it when missing.
// Reports whether a row was created; category is filled either way.
func (r *medicineCategoryRepository) FirstOrCreate(db *gorm.DB, category *entity.MedicineCategory) (bool, error) {
	var existing entity.MedicineCategory
	err := db.Where("slug = ?", category.Slug).First(&existing).Error
	if err == nil {
		*category = existing
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	if err := db.Create(category).Error; err != nil {
		return false, err
	}
	return true, nil
}

func (r *medicineCategoryRepository) FindAll(db *gorm.DB) ([]entity.MedicineCategory, error) {
	var categories []entity.MedicineCategory
	if err := db.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *medicineCategoryRepository) FindByID(db *gorm.DB, id uint64) (*entity.MedicineCategory, error) {
	var category entity.MedicineCategory
	err := db.Where("id = ?", id).First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (r *medicineCategoryRepository) Update(db *gorm.DB, category *entity.MedicineCategory) error {
	return db.Save(category).Error
}

func (r *medicineCategoryRepository) Delete(db *gorm.DB, id uint64) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.MedicineCategory{})
	return result.RowsAffected, result.Error
}

type medicineRepository struct{}

func NewMedicineRepository() domainRepo.MedicineRepository {
	return &medicineRepository{}
}

func (r *medicineRepository) Create(db *gorm.DB, medicine *entity.Medicine) error {
	return db.Omit("Category").Create(medicine).Error
}

func (r *medicineRepository) FindAll(db *gorm.DB, filter entity.MedicineFilter) ([]entity.Medicine, int64, error) {
	var medicines []entity.Medicine
	var total int64

	where := func(q *gorm.DB) *gorm.DB {
		if filter.CategoryID != nil {
			q = q.Where("category_id = ?", *filter.CategoryID)
		}
		if filter.Search != "" {
			like := "%" + filter.Search + "%"
			q = q.Where("name ILIKE ? OR brand ILIKE ?", like, like)
		}
		if filter.InStock {
			q = q.Where("stock_count > 0")
		}
		return q
	}

	if err := db.Model(&entity.Medicine{}).Scopes(where).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Scopes(where, paginate(filter.Limit, filter.Offset)).
		Preload("Category").
		Order("name ASC").
		Find(&medicines).Error
	if err != nil {
		return nil, 0, err
	}
	return medicines, total, nil
}

func (r *medicineRepository) FindByID(db *gorm.DB, id uint64) (*entity.Medicine, error) {
	var medicine entity.Medicine
	err := db.Preload("Category").Where("id = ?", id).First(&medicine).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &medicine, nil
}

func (r *medicineRepository) FindByIDs(db *gorm.DB, ids []uint64) ([]entity.Medicine, error) {
	var medicines []entity.Medicine
	if err := db.Where("id IN ?", ids).Find(&medicines).Error; err != nil {
		return nil, err
	}
	return medicines, nil
}

func (r *medicineRepository) Update(db *gorm.DB, medicine *entity.Medicine) error {
	return db.Omit("Category").Save(medicine).Error
}

func (r *medicineRepository) Delete(db *gorm.DB, id uint64) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.Medicine{})
	return result.RowsAffected, result.Error
}

// DecrementStock takes qty units ONLY if enough are left.
// Returns affected rows: 1 = taken, 0 = insufficient stock.
func (r *medicineRepository) DecrementStock(db *gorm.DB, id uint64, qty int) (int64, error) {
	result := db.Model(&entity.Medicine{}).
		Where("id = ? AND stock_count >= ?", id, qty).
		Update("stock_count", gorm.Expr("stock_count - ?", qty))
	return result.RowsAffected, result.Error
}
