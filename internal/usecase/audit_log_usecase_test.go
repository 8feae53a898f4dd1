package usecase

import (
	"testing"

	"clinic-backend/internal/delivery/dto"
	"clinic-backend/internal/domain/entity"
	"clinic-backend/internal/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAuditLogUsecase_GetAllAuditLogs(t *testing.T) {
	adminID := uuid.New()

	t.Run("filters and pages", func(t *testing.T) {
		db, _ := newMockDB(t)
		repo := new(mocks.MockAuditLogRepository)
		uc := NewAuditLogUsecase(db, quietLogger(), repo)
		repo.On("FindAll", mock.Anything, entity.AuditLogFilter{
			Action: entity.AuditActionAppointmentCancel,
			Limit:  5,
			Offset: 10,
		}).Return([]entity.AuditLog{{ID: 1, Action: entity.AuditActionAppointmentCancel}}, int64(11), nil)

		resp, err := uc.GetAllAuditLogs(ctxAs(adminID, entity.RoleIDAdmin), dto.AuditLogListQuery{
			Action: entity.AuditActionAppointmentCancel,
			Page:   3,
			Limit:  5,
		})

		require.NoError(t, err)
		assert.Equal(t, int64(11), resp.Total)
		assert.Equal(t, 3, resp.Page)
		assert.Equal(t, 5, resp.Limit)
		require.Len(t, resp.Logs, 1)
	})

	t.Run("doctors cannot read the trail", func(t *testing.T) {
		db, _ := newMockDB(t)
		uc := NewAuditLogUsecase(db, quietLogger(), new(mocks.MockAuditLogRepository))

		_, err := uc.GetAllAuditLogs(ctxAs(uuid.New(), entity.RoleIDDoctor), dto.AuditLogListQuery{})

		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestAuditLogUsecase_GetAuditLog_NotFound(t *testing.T) {
	db, _ := newMockDB(t)
	repo := new(mocks.MockAuditLogRepository)
	uc := NewAuditLogUsecase(db, quietLogger(), repo)
	repo.On("FindByID", mock.Anything, int64(42)).Return(nil, nil)

	_, err := uc.GetAuditLog(ctxAs(uuid.New(), entity.RoleIDAdmin), 42)

	assert.ErrorIs(t, err, ErrAuditLogNotFound)
}
