package handler

import (
	"errors"
	"net/http"

	"clinic-backend/internal/delivery/dto"
	"clinic-backend/internal/usecase"
	"clinic-backend/pkg/response"
	"clinic-backend/pkg/validator"
)

type PrescriptionHandler struct {
	prescriptionUsecase usecase.PrescriptionUsecase
	validator           *validator.CustomValidator
}

func NewPrescriptionHandler(prescriptionUsecase usecase.PrescriptionUsecase, validator *validator.CustomValidator) *PrescriptionHandler {
	return &PrescriptionHandler{
		prescriptionUsecase: prescriptionUsecase,
		validator:           validator,
	}
}

func prescriptionFailure(w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, usecase.ErrPrescriptionNotFound):
		response.NotFound(w, "Prescription not found")
	case errors.Is(err, usecase.ErrPrescriptionExists):
		response.Conflict(w, err.Error())
	case errors.Is(err, usecase.ErrPrescriptionNotAllowed):
		response.BadRequest(w, err.Error())
	default:
		failure(w, err, message)
	}
}

func (h *PrescriptionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePrescriptionRequest
	if !decode(w, r, h.validator, &req) {
		return
	}

	prescription, err := h.prescriptionUsecase.Create(r.Context(), &req)
	if err != nil {
		prescriptionFailure(w, err, "Failed to create prescription")
		return
	}

	response.Success(w, http.StatusCreated, "Prescription created successfully", prescription)
}

func (h *PrescriptionHandler) List(w http.ResponseWriter, r *http.Request) {
	prescriptions, err := h.prescriptionUsecase.List(r.Context())
	if err != nil {
		prescriptionFailure(w, err, "Failed to get prescriptions")
		return
	}

	response.Success(w, http.StatusOK, "Prescriptions retrieved successfully", prescriptions)
}

func (h *PrescriptionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := uintVar(w, r, "id", "prescription ID")
	if !ok {
		return
	}

	prescription, err := h.prescriptionUsecase.Get(r.Context(), id)
	if err != nil {
		prescriptionFailure(w, err, "Failed to get prescription")
		return
	}

	response.Success(w, http.StatusOK, "Prescription retrieved successfully", prescription)
}

// Download streams the prescription as a PDF attachment.
func (h *PrescriptionHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, ok := uintVar(w, r, "id", "prescription ID")
	if !ok {
		return
	}

	file, err := h.prescriptionUsecase.PDF(r.Context(), id)
	if err != nil {
		prescriptionFailure(w, err, "Failed to render prescription")
		return
	}

	response.Attachment(w, "application/pdf", file.Filename, file.Content)
}
