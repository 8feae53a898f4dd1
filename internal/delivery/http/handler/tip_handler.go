package handler

import (
	"errors"
	"net/http"

	"clinic-backend/internal/delivery/dto"
	"clinic-backend/internal/usecase"
	"clinic-backend/pkg/response"
	"clinic-backend/pkg/validator"

	"github.com/google/uuid"
)

type TipHandler struct {
	tipUsecase usecase.TipUsecase
	validator  *validator.CustomValidator
}

func NewTipHandler(tipUsecase usecase.TipUsecase, validator *validator.CustomValidator) *TipHandler {
	return &TipHandler{
		tipUsecase: tipUsecase,
		validator:  validator,
	}
}

func tipFailure(w http.ResponseWriter, err error, message string) {
	if errors.Is(err, usecase.ErrTipNotFound) {
		response.NotFound(w, "Tip not found")
		return
	}
	failure(w, err, message)
}

func (h *TipHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.TipRequest
	if !decode(w, r, h.validator, &req) {
		return
	}

	tip, err := h.tipUsecase.Create(r.Context(), &req)
	if err != nil {
		tipFailure(w, err, "Failed to create tip")
		return
	}

	response.Success(w, http.StatusCreated, "Tip created successfully", tip)
}

// List returns published tips, or with ?mine=true the caller's own tips
// including drafts.
func (h *TipHandler) List(w http.ResponseWriter, r *http.Request) {
	query := dto.TipListQuery{
		Mine:   queryBool(r, "mine"),
		Search: r.URL.Query().Get("search"),
	}
	if raw := r.URL.Query().Get("doctor"); raw != "" {
		doctorID, err := uuid.Parse(raw)
		if err != nil {
			response.ValidationError(w, map[string]string{"doctor": "doctor must be a valid id"})
			return
		}
		query.DoctorID = &doctorID
	}

	tips, err := h.tipUsecase.List(r.Context(), query)
	if err != nil {
		tipFailure(w, err, "Failed to get tips")
		return
	}

	response.Success(w, http.StatusOK, "Tips retrieved successfully", tips)
}

func (h *TipHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := uintVar(w, r, "id", "tip ID")
	if !ok {
		return
	}

	tip, err := h.tipUsecase.Get(r.Context(), id)
	if err != nil {
		tipFailure(w, err, "Failed to get tip")
		return
	}

	response.Success(w, http.StatusOK, "Tip retrieved successfully", tip)
}

func (h *TipHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := uintVar(w, r, "id", "tip ID")
	if !ok {
		return
	}

	var req dto.TipRequest
	if !decode(w, r, h.validator, &req) {
		return
	}

	tip, err := h.tipUsecase.Update(r.Context(), id, &req)
	if err != nil {
		tipFailure(w, err, "Failed to update tip")
		return
	}

	response.Success(w, http.StatusOK, "Tip updated successfully", tip)
}

func (h *TipHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := uintVar(w, r, "id", "tip ID")
	if !ok {
		return
	}

	if err := h.tipUsecase.Delete(r.Context(), id); err != nil {
		tipFailure(w, err, "Failed to delete tip")
		return
	}

	response.Success(w, http.StatusOK, "Tip deleted successfully", nil)
}
