package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type CategoryRequest struct {
	Name string `json:"name" validate:"required,notblank,max=200"`
}

type MedicineRequest struct {
	Name           string          `json:"name" validate:"required,notblank,max=255"`
	CategoryID     *uint64         `json:"category_id" validate:"omitempty,min=1"`
	Brand          string          `json:"brand" validate:"omitempty,max=255"`
	WeightOrVolume string          `json:"weight_or_volume" validate:"omitempty,max=100"`
	Price          decimal.Decimal `json:"price"`
	StockCount     int             `json:"stock_count" validate:"gte=0"`
	Description    string          `json:"description"`
}

type MedicineListQuery struct {
	CategoryID *uint64
	Search     string
	InStock    bool
	Page       int
	Limit      int
}

type SaleItemRequest struct {
	ProductID uint64 `json:"product_id" validate:"required,min=1"`
	Qty       int    `json:"qty" validate:"required,min=1"`
}

type CreateSaleRequest struct {
	CustomerName  string            `json:"customer_name" validate:"required,notblank,max=255"`
	Phone         string            `json:"phone" validate:"omitempty,max=20"`
	PaymentMethod string            `json:"payment_method" validate:"required,oneof=cash card upi online"`
	Items         []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
}

// Response DTOs

type CategoryResponse struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

type MedicineResponse struct {
	ID             uint64            `json:"id"`
	Name           string            `json:"name"`
	CategoryID     *uint64           `json:"category_id,omitempty"`
	Category       *CategoryResponse `json:"category,omitempty"`
	Brand          string            `json:"brand"`
	WeightOrVolume string            `json:"weight_or_volume"`
	Price          string            `json:"price"`
	StockCount     int               `json:"stock_count"`
	InStock        bool              `json:"in_stock"`
	Description    string            `json:"description"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

type MedicineListResponse struct {
	Medicines []MedicineResponse `json:"medicines"`
	Total     int64              `json:"total"`
}

type SaleItemResponse struct {
	ProductID uint64 `json:"product_id"`
	Name      string `json:"name"`
	Qty       int    `json:"qty"`
	UnitPrice string `json:"unit_price"`
	LineTotal string `json:"line_total"`
}

type SaleResponse struct {
	ID            uint64             `json:"id"`
	CustomerName  string             `json:"customer_name"`
	Phone         string             `json:"phone"`
	PaymentMethod string             `json:"payment_method"`
	TotalAmount   string             `json:"total_amount"`
	CreatedBy     uuid.UUID          `json:"created_by"`
	Items         []SaleItemResponse `json:"items"`
	CreatedAt     time.Time          `json:"created_at"`
}

type SaleListResponse struct {
	Sales []SaleResponse `json:"sales"`
	Total int64          `json:"total"`
}
