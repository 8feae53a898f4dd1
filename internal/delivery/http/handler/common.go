package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"clinic-backend/internal/usecase"
	"clinic-backend/pkg/response"
	"clinic-backend/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// decode reads the JSON body into req and validates it. It writes the 400
// itself and reports whether the handler may continue.
func decode(w http.ResponseWriter, r *http.Request, v *validator.CustomValidator, req interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return false
	}

	if err := v.Validate(req); err != nil {
		response.ValidationError(w, v.FormatValidationErrors(err))
		return false
	}
	return true
}

func uintVar(w http.ResponseWriter, r *http.Request, name, label string) (uint64, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)[name], 10, 64)
	if err != nil || id == 0 {
		response.Error(w, http.StatusBadRequest, "Invalid "+label, nil)
		return 0, false
	}
	return id, true
}

func uuidVar(w http.ResponseWriter, r *http.Request, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid "+label, nil)
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(r *http.Request, name string) int {
	n, _ := strconv.Atoi(r.URL.Query().Get(name))
	return n
}

func queryBool(r *http.Request, name string) bool {
	b, _ := strconv.ParseBool(r.URL.Query().Get(name))
	return b
}

// failure maps the errors every use case shares. Handlers check their own
// sentinels before falling through to it.
func failure(w http.ResponseWriter, err error, message string) {
	var fieldErrs usecase.FieldErrors
	switch {
	case errors.As(err, &fieldErrs):
		response.ValidationError(w, map[string]string(fieldErrs))
	case errors.Is(err, usecase.ErrUnauthenticated):
		response.Unauthorized(w, "Invalid token")
	case errors.Is(err, usecase.ErrForbidden):
		response.Forbidden(w, err.Error())
	case errors.Is(err, usecase.ErrConcurrentUpdate):
		response.Conflict(w, err.Error())
	default:
		response.InternalServerError(w, message)
	}
}

// pageParams mirrors the defaults the use cases apply, for the response meta.
func pageParams(page, limit int) (int, int) {
	page, limit, _ = usecase.Paging(page, limit)
	return page, limit
}
