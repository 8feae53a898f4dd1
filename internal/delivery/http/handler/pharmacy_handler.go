package handler

import (
	"errors"
	"net/http"
	"strconv"

	"clinic-backend/internal/delivery/dto"
	"clinic-backend/internal/usecase"
	"clinic-backend/pkg/response"
	"clinic-backend/pkg/validator"
)

type PharmacyHandler struct {
	pharmacyUsecase usecase.PharmacyUsecase
	validator       *validator.CustomValidator
}

func NewPharmacyHandler(pharmacyUsecase usecase.PharmacyUsecase, validator *validator.CustomValidator) *PharmacyHandler {
	return &PharmacyHandler{
		pharmacyUsecase: pharmacyUsecase,
		validator:       validator,
	}
}

func pharmacyFailure(w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, usecase.ErrCategoryNotFound):
		response.NotFound(w, "Category not found")
	case errors.Is(err, usecase.ErrMedicineNotFound):
		response.NotFound(w, "Medicine not found")
	case errors.Is(err, usecase.ErrSaleNotFound):
		response.NotFound(w, "Sale not found")
	case errors.Is(err, usecase.ErrCategoryExists), errors.Is(err, usecase.ErrMedicineInUse):
		response.Conflict(w, err.Error())
	case errors.Is(err, usecase.ErrInsufficientStock):
		response.BadRequest(w, err.Error())
	default:
		failure(w, err, message)
	}
}

// CreateCategory answers 201 for a new category and 200 when one with the
// same slug already existed.
func (h *PharmacyHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req dto.CategoryRequest
	if !decode(w, r, h.validator, &req) {
		return
	}

	category, created, err := h.pharmacyUsecase.CreateCategory(r.Context(), &req)
	if err != nil {
		pharmacyFailure(w, err, "Failed to create category")
		return
	}

	if !created {
		response.Success(w, http.StatusOK, "Category already exists", category)
		return
	}
	response.Success(w, http.StatusCreated, "Category created successfully", category)
}

func (h *PharmacyHandler) GetAllCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.pharmacyUsecase.ListCategories(r.Context())
	if err != nil {
		pharmacyFailure(w, err, "Failed to get categories")
		return
	}

	response.Success(w, http.StatusOK, "Categories retrieved successfully", categories)
}

func (h *PharmacyHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := uintVar(w, r, "id", "category ID")
	if !ok {
		return
	}

	var req dto.CategoryRequest
	if !decode(w, r, h.validator, &req) {
		return
	}

	category, err := h.pharmacyUsecase.UpdateCategory(r.Context(), id, &req)
	if err != nil {
		pharmacyFailure(w, err, "Failed to update category")
		return
	}

	response.Success(w, http.StatusOK, "Category updated successfully", category)
}

func (h *PharmacyHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := uintVar(w, r, "id", "category ID")
	if !ok {
		return
	}

	if err := h.pharmacyUsecase.DeleteCategory(r.Context(), id); err != nil {
		pharmacyFailure(w, err, "Failed to delete category")
		return
	}

	response.Success(w, http.StatusOK, "Category deleted successfully", nil)
}

// CreateMedicine handles medicine creation
// @Summary Create a new medicine
// @Tags Pharmacy
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.MedicineRequest true "Medicine"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /pharmacy/medicines [post]
func (h *PharmacyHandler) CreateMedicine(w http.ResponseWriter, r *http.Request) {
	var req dto.MedicineRequest
	if !decode(w, r, h.validator, &req) {
		return
	}

	medicine, err := h.pharmacyUsecase.CreateMedicine(r.Context(), &req)
	if err != nil {
		pharmacyFailure(w, err, "Failed to create medicine")
		return
	}

	response.Success(w, http.StatusCreated, "Medicine created successfully", medicine)
}

// GetAllMedicines handles getting all medicines
// @Summary Get all medicines
// @Description Get medicines with pagination
// @Tags Pharmacy
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Param category query int false "Category id"
// @Param search query string false "Name or brand"
// @Param in_stock query bool false "Only medicines in stock"
// @Success 200 {object} response.Response
// @Router /pharmacy/medicines [get]
func (h *PharmacyHandler) GetAllMedicines(w http.ResponseWriter, r *http.Request) {
	query := dto.MedicineListQuery{
		Search:  r.URL.Query().Get("search"),
		InStock: queryBool(r, "in_stock"),
		Page:    queryInt(r, "page"),
		Limit:   queryInt(r, "limit"),
	}
	if raw := r.URL.Query().Get("category"); raw != "" {
		categoryID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			response.ValidationError(w, map[string]string{"category": "category must be a number"})
			return
		}
		query.CategoryID = &categoryID
	}

	medicines, err := h.pharmacyUsecase.ListMedicines(r.Context(), query)
	if err != nil {
		pharmacyFailure(w, err, "Failed to get medicines")
		return
	}

	page, limit := pageParams(query.Page, query.Limit)
	response.SuccessWithMeta(w, http.StatusOK, "Medicines retrieved successfully", medicines.Medicines, response.NewMeta(page, limit, medicines.Total))
}

func (h *PharmacyHandler) GetMedicine(w http.ResponseWriter, r *http.Request) {
	id, ok := uintVar(w, r, "id", "medicine ID")
	if !ok {
		return
	}

	medicine, err := h.pharmacyUsecase.GetMedicine(r.Context(), id)
	if err != nil {
		pharmacyFailure(w, err, "Failed to get medicine")
		return
	}

	response.Success(w, http.StatusOK, "Medicine retrieved successfully", medicine)
}

func (h *PharmacyHandler) UpdateMedicine(w http.ResponseWriter, r *http.Request) {
	id, ok := uintVar(w, r, "id", "medicine ID")
	if !ok {
		return
	}

	var req dto.MedicineRequest
	if !decode(w, r, h.validator, &req) {
		return
	}

	medicine, err := h.pharmacyUsecase.UpdateMedicine(r.Context(), id, &req)
	if err != nil {
		pharmacyFailure(w, err, "Failed to update medicine")
		return
	}

	response.Success(w, http.StatusOK, "Medicine updated successfully", medicine)
}

func (h *PharmacyHandler) DeleteMedicine(w http.ResponseWriter, r *http.Request) {
	id, ok := uintVar(w, r, "id", "medicine ID")
	if !ok {
		return
	}

	if err := h.pharmacyUsecase.DeleteMedicine(r.Context(), id); err != nil {
		pharmacyFailure(w, err, "Failed to delete medicine")
		return
	}

	response.Success(w, http.StatusOK, "Medicine deleted successfully", nil)
}

// CreateSale records a point-of-sale transaction
// @Summary Record a sale
// @Description Every line is priced from the stored medicine. A line without enough stock fails the whole sale.
// @Tags Pharmacy
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateSaleRequest true "Sale"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /pharmacy/sales [post]
func (h *PharmacyHandler) CreateSale(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateSaleRequest
	if !decode(w, r, h.validator, &req) {
		return
	}

	sale, err := h.pharmacyUsecase.CreateSale(r.Context(), &req)
	if err != nil {
		pharmacyFailure(w, err, "Failed to record sale")
		return
	}

	response.Success(w, http.StatusCreated, "Sale recorded successfully", sale)
}

func (h *PharmacyHandler) GetAllSales(w http.ResponseWriter, r *http.Request) {
	page, limit := queryInt(r, "page"), queryInt(r, "limit")

	sales, err := h.pharmacyUsecase.ListSales(r.Context(), page, limit)
	if err != nil {
		pharmacyFailure(w, err, "Failed to get sales")
		return
	}

	page, limit = pageParams(page, limit)
	response.SuccessWithMeta(w, http.StatusOK, "Sales retrieved successfully", sales.Sales, response.NewMeta(page, limit, sales.Total))
}

func (h *PharmacyHandler) GetSale(w http.ResponseWriter, r *http.Request) {
	id, ok := uintVar(w, r, "id", "sale ID")
	if !ok {
		return
	}

	sale, err := h.pharmacyUsecase.GetSale(r.Context(), id)
	if err != nil {
		pharmacyFailure(w, err, "Failed to get sale")
		return
	}

	response.Success(w, http.StatusOK, "Sale retrieved successfully", sale)
}
