package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"

	"clinic-backend/internal/delivery/http/middleware"
	"clinic-backend/internal/domain/entity"

	"github.com/google/uuid"
)

var (
	ErrUnauthenticated = errors.New("user not found in context")
	ErrForbidden       = errors.New("you are not allowed to perform this action")
	// ErrConcurrentUpdate means a conditional update matched no row because
	// another request changed the record first.
	ErrConcurrentUpdate = errors.New("the record was changed by another request, reload and try again")
)

// FieldErrors is a validation failure keyed by request field. Handlers send
// it as the error map of a 400 response.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e[k]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// identity reads the authenticated caller set by the auth middleware.
func identity(ctx context.Context) (uuid.UUID, entity.RoleID, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return uuid.Nil, 0, ErrUnauthenticated
	}
	role, ok := middleware.GetRoleIDFromContext(ctx)
	if !ok {
		return uuid.Nil, 0, ErrUnauthenticated
	}
	return userID, role, nil
}

// authorize resolves the caller and checks one capability.
func authorize(ctx context.Context, capability entity.Capability) (uuid.UUID, entity.RoleID, error) {
	userID, role, err := identity(ctx)
	if err != nil {
		return uuid.Nil, 0, err
	}
	if !role.Can(capability) {
		return uuid.Nil, 0, ErrForbidden
	}
	return userID, role, nil
}

// userRef is the nullable user id stored on audit rows.
func userRef(id uuid.UUID) *uuid.UUID {
	return &id
}
