package handler

import (
	"errors"
	"net/http"

	"clinic-backend/internal/delivery/dto"
	"clinic-backend/internal/domain/entity"
	"clinic-backend/internal/usecase"
	"clinic-backend/pkg/response"
	"clinic-backend/pkg/validator"
)

// StaffHandler serves the admin endpoints for one staff role. The router
// mounts one instance for doctors and one for pharmacists.
type StaffHandler struct {
	staffUsecase usecase.StaffUsecase
	validator    *validator.CustomValidator
	role         entity.RoleID
}

func NewStaffHandler(staffUsecase usecase.StaffUsecase, validator *validator.CustomValidator, role entity.RoleID) *StaffHandler {
	return &StaffHandler{
		staffUsecase: staffUsecase,
		validator:    validator,
		role:         role,
	}
}

func staffFailure(w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, usecase.ErrEmailAlreadyExists):
		response.Conflict(w, "Email already exists")
	case errors.Is(err, usecase.ErrStaffNotFound):
		response.NotFound(w, "Staff member not found")
	case errors.Is(err, usecase.ErrInvalidStaffRole):
		response.BadRequest(w, err.Error())
	default:
		failure(w, err, message)
	}
}

func (h *StaffHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateStaffRequest
	if !decode(w, r, h.validator, &req) {
		return
	}

	user, err := h.staffUsecase.CreateStaff(r.Context(), h.role, &req)
	if err != nil {
		staffFailure(w, err, "Failed to create "+h.role.String())
		return
	}

	response.Success(w, http.StatusCreated, "Account created successfully", user)
}

func (h *StaffHandler) List(w http.ResponseWriter, r *http.Request) {
	staff, err := h.staffUsecase.ListStaff(r.Context(), h.role)
	if err != nil {
		staffFailure(w, err, "Failed to list "+h.role.String()+" accounts")
		return
	}

	response.Success(w, http.StatusOK, "Accounts retrieved successfully", staff)
}

func (h *StaffHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	staffID, ok := uuidVar(w, r, "id", "user ID")
	if !ok {
		return
	}

	var req dto.SetStaffStatusRequest
	if !decode(w, r, h.validator, &req) {
		return
	}

	user, err := h.staffUsecase.SetStaffStatus(r.Context(), h.role, staffID, &req)
	if err != nil {
		staffFailure(w, err, "Failed to update account status")
		return
	}

	response.Success(w, http.StatusOK, "Account status updated successfully", user)
}
