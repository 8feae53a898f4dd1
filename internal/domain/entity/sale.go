package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale is a pharmacy point-of-sale transaction
type Sale struct {
	ID            uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerName  string          `gorm:"type:varchar(255);not null" json:"customer_name"`
	Phone         string          `gorm:"type:varchar(20)" json:"phone"`
	PaymentMethod string          `gorm:"type:varchar(50);not null" json:"payment_method"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	CreatedByID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"created_by"`
	CreatedAt     time.Time       `gorm:"autoCreateTime;index" json:"created_at"`

	// Relationships
	Items []SaleItem `gorm:"foreignKey:SaleID" json:"items,omitempty"`
}

func (Sale) TableName() string {
	return "sales"
}

type SaleItem struct {
	ID         uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	SaleID     uint64          `gorm:"not null;index" json:"sale_id"`
	MedicineID uint64          `gorm:"not null;index" json:"medicine_id"`
	Name       string          `gorm:"type:varchar(255);not null" json:"name"`
	Quantity   int             `gorm:"not null" json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	LineTotal  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"line_total"`
}

func (SaleItem) TableName() string {
	return "sale_items"
}

// NewSaleItem prices one line from the medicine's current price.
func NewSaleItem(med *Medicine, qty int) SaleItem {
	return SaleItem{
		MedicineID: med.ID,
		Name:       med.Name,
		Quantity:   qty,
		UnitPrice:  med.Price,
		LineTotal:  med.Price.Mul(decimal.NewFromInt(int64(qty))).Round(2),
	}
}

// SumSaleItems totals the line amounts.
func SumSaleItems(items []SaleItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal)
	}
	return total.Round(2)
}
