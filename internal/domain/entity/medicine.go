package entity

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type MedicineCategory struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(200);uniqueIndex;not null" json:"name"`
	Slug      string    `gorm:"type:varchar(220);uniqueIndex;not null" json:"slug"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (MedicineCategory) TableName() string {
	return "medicine_categories"
}

var slugStrip = regexp.MustCompile(`[^a-z0-9\s-]`)
var slugDash = regexp.MustCompile(`[\s-]+`)

// Slugify lower-cases name, drops punctuation and joins words with dashes.
func Slugify(name string) string {
	s := slugStrip.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "")
	return strings.Trim(slugDash.ReplaceAllString(s, "-"), "-")
}

type Medicine struct {
	ID             uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Name           string          `gorm:"type:varchar(255);not null" json:"name"`
	CategoryID     *uint64         `gorm:"index" json:"category_id,omitempty"`
	Brand          string          `gorm:"type:varchar(255)" json:"brand"`
	WeightOrVolume string          `gorm:"type:varchar(100)" json:"weight_or_volume"`
	Price          decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"price"`
	StockCount     int             `gorm:"not null;default:0" json:"stock_count"`
	Description    string          `gorm:"type:text" json:"description"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Category *MedicineCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

func (Medicine) TableName() string {
	return "medicines"
}

type MedicineFilter struct {
	CategoryID *uint64
	Search     string
	InStock    bool
	Limit      int
	Offset     int
}
