package converter

import (
	"clinic-backend/internal/delivery/dto"
	"clinic-backend/internal/domain/entity"
)

func CategoryToResponse(c *entity.MedicineCategory) *dto.CategoryResponse {
	if c == nil {
		return nil
	}
	return &dto.CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		Slug:      c.Slug,
		CreatedAt: c.CreatedAt,
	}
}

func CategoriesToResponses(categories []entity.MedicineCategory) []dto.CategoryResponse {
	responses := make([]dto.CategoryResponse, len(categories))
	for i := range categories {
		responses[i] = *CategoryToResponse(&categories[i])
	}
	return responses
}

func MedicineToResponse(m *entity.Medicine) *dto.MedicineResponse {
	if m == nil {
		return nil
	}
	return &dto.MedicineResponse{
		ID:             m.ID,
		Name:           m.Name,
		CategoryID:     m.CategoryID,
		Category:       CategoryToResponse(m.Category),
		Brand:          m.Brand,
		WeightOrVolume: m.WeightOrVolume,
		Price:          Money(m.Price),
		StockCount:     m.StockCount,
		InStock:        m.StockCount > 0,
		Description:    m.Description,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func MedicinesToResponses(medicines []entity.Medicine) []dto.MedicineResponse {
	responses := make([]dto.MedicineResponse, len(medicines))
	for i := range medicines {
		responses[i] = *MedicineToResponse(&medicines[i])
	}
	return responses
}

func SaleToResponse(s *entity.Sale) *dto.SaleResponse {
	if s == nil {
		return nil
	}

	items := make([]dto.SaleItemResponse, len(s.Items))
	for i, item := range s.Items {
		items[i] = dto.SaleItemResponse{
			ProductID: item.MedicineID,
			Name:      item.Name,
			Qty:       item.Quantity,
			UnitPrice: Money(item.UnitPrice),
			LineTotal: Money(item.LineTotal),
		}
	}

	return &dto.SaleResponse{
		ID:            s.ID,
		CustomerName:  s.CustomerName,
		Phone:         s.Phone,
		PaymentMethod: s.PaymentMethod,
		TotalAmount:   Money(s.TotalAmount),
		CreatedBy:     s.CreatedByID,
		Items:         items,
		CreatedAt:     s.CreatedAt,
	}
}

func SalesToResponses(sales []entity.Sale) []dto.SaleResponse {
	responses := make([]dto.SaleResponse, len(sales))
	for i := range sales {
		responses[i] = *SaleToResponse(&sales[i])
	}
	return responses
}
