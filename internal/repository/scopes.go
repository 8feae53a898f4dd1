package repository

import "gorm.io/gorm"

// paginate applies limit/offset when a limit is set.
func paginate(limit, offset int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if limit <= 0 {
			return db
		}
		return db.Limit(limit).Offset(offset)
	}
}
