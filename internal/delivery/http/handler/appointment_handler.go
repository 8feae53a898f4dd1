package handler

import (
	"errors"
	"net/http"
	"strings"

	"clinic-backend/internal/delivery/dto"
	"clinic-backend/internal/usecase"
	"clinic-backend/pkg/clocktime"
	"clinic-backend/pkg/response"
	"clinic-backend/pkg/validator"

	"github.com/google/uuid"
)

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
	validator          *validator.CustomValidator
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase, validator *validator.CustomValidator) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
	}
}

// appointmentFailure maps booking errors: state errors are 400, lost races
// and slot conflicts are 409.
func appointmentFailure(w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, usecase.ErrAppointmentNotFound):
		response.NotFound(w, "Appointment not found")
	case errors.Is(err, usecase.ErrSlotTaken):
		response.Conflict(w, err.Error())
	case errors.Is(err, usecase.ErrAppointmentNotEditable),
		errors.Is(err, usecase.ErrEditWindowClosed),
		errors.Is(err, usecase.ErrAlreadyCancelled),
		errors.Is(err, usecase.ErrAppointmentCompleted),
		errors.Is(err, usecase.ErrPaymentNotPending),
		errors.Is(err, usecase.ErrAvailabilityMisconfigured):
		response.BadRequest(w, err.Error())
	default:
		failure(w, err, message)
	}
}

// Create books an appointment
// @Summary Book an appointment
// @Description The fee comes from the doctor's profile. Card, ATM, UPI and online payments confirm immediately; cash leaves the appointment pending.
// @Tags Appointments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateAppointmentRequest true "Booking"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /appointments [post]
func (h *AppointmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAppointmentRequest
	if !decode(w, r, h.validator, &req) {
		return
	}

	appointment, err := h.appointmentUsecase.Create(r.Context(), &req)
	if err != nil {
		appointmentFailure(w, err, "Failed to create appointment")
		return
	}

	response.Success(w, http.StatusCreated, "Appointment booked successfully", appointment)
}

// List returns the caller's appointments
// @Summary List appointments
// @Description Patients see their own, doctors their assigned ones and admins all. doctor and date together return that doctor's day for any caller.
// @Tags Appointments
// @Security BearerAuth
// @Produce json
// @Param doctor query string false "Doctor user id"
// @Param date query string false "YYYY-MM-DD"
// @Param status query string false "pending, confirmed, completed or cancelled"
// @Success 200 {object} response.Response
// @Router /appointments [get]
func (h *AppointmentHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := dto.AppointmentListQuery{Status: strings.TrimSpace(q.Get("status"))}
	errs := map[string]string{}

	if raw := q.Get("doctor"); raw != "" {
		doctorID, err := uuid.Parse(raw)
		if err != nil {
			errs["doctor"] = "doctor must be a valid UUID"
		} else {
			query.DoctorID = &doctorID
		}
	}
	if raw := q.Get("date"); raw != "" {
		date, err := clocktime.ParseDate(raw)
		if err != nil {
			errs["date"] = "date must be a date in YYYY-MM-DD format"
		} else {
			query.Date = &date
		}
	}
	if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	appointments, err := h.appointmentUsecase.List(r.Context(), query)
	if err != nil {
		appointmentFailure(w, err, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

// Get returns one appointment
// @Summary Get appointment
// @Tags Appointments
// @Security BearerAuth
// @Produce json
// @Param id path int true "Appointment id"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /appointments/{id} [get]
func (h *AppointmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := uintVar(w, r, "id", "appointment ID")
	if !ok {
		return
	}

	appointment, err := h.appointmentUsecase.Get(r.Context(), id)
	if err != nil {
		appointmentFailure(w, err, "Failed to get appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment retrieved successfully", appointment)
}

// Edit reschedules an appointment
// @Summary Edit appointment
// @Description Only the booking patient, only while pending or confirmed and only outside the configured edit window.
// @Tags Appointments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Appointment id"
// @Param request body dto.UpdateAppointmentRequest true "Fields to change"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /appointments/{id} [put]
func (h *AppointmentHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := uintVar(w, r, "id", "appointment ID")
	if !ok {
		return
	}

	var req dto.UpdateAppointmentRequest
	if !decode(w, r, h.validator, &req) {
		return
	}

	appointment, err := h.appointmentUsecase.Edit(r.Context(), id, &req)
	if err != nil {
		appointmentFailure(w, err, "Failed to update appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment updated successfully", appointment)
}

// Cancel cancels an appointment and applies the refund split
// @Summary Cancel appointment
// @Tags Appointments
// @Security BearerAuth
// @Produce json
// @Param id path int true "Appointment id"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /appointments/{id}/cancel [post]
func (h *AppointmentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := uintVar(w, r, "id", "appointment ID")
	if !ok {
		return
	}

	result, err := h.appointmentUsecase.Cancel(r.Context(), id)
	if err != nil {
		appointmentFailure(w, err, "Failed to cancel appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment cancelled successfully", result)
}

// ConfirmPayment records payment on a pending appointment
// @Summary Confirm payment
// @Tags Appointments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Appointment id"
// @Param request body dto.ConfirmPaymentRequest true "Payment method"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /appointments/{id}/confirm-payment [post]
func (h *AppointmentHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := uintVar(w, r, "id", "appointment ID")
	if !ok {
		return
	}

	var req dto.ConfirmPaymentRequest
	if !decode(w, r, h.validator, &req) {
		return
	}

	appointment, err := h.appointmentUsecase.ConfirmPayment(r.Context(), id, &req)
	if err != nil {
		appointmentFailure(w, err, "Failed to confirm payment")
		return
	}

	response.Success(w, http.StatusOK, "Payment confirmed successfully", appointment)
}
