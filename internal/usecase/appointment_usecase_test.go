package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"clinic-backend/config"
	"clinic-backend/internal/delivery/dto"
	"clinic-backend/internal/domain/entity"
	"clinic-backend/internal/mocks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var clinicZone = time.FixedZone("IST", 5*3600+1800)

// Friday 1 May 2026, 10:00 clinic time.
var fixedNow = time.Date(2026, 5, 1, 10, 0, 0, 0, clinicZone)

type appointmentFixture struct {
	usecase     *appointmentUsecase
	sqlMock     sqlmock.Sqlmock
	repo        *mocks.MockAppointmentRepository
	doctorRepo  *mocks.MockDoctorProfileRepository
	idGenerator *mocks.MockAppointmentIDGenerator
	audit       *mocks.MockAuditService
}

func newAppointmentFixture(t *testing.T) *appointmentFixture {
	t.Helper()

	db, sqlMock := newMockDB(t)
	f := &appointmentFixture{
		sqlMock:     sqlMock,
		repo:        new(mocks.MockAppointmentRepository),
		doctorRepo:  new(mocks.MockDoctorProfileRepository),
		idGenerator: new(mocks.MockAppointmentIDGenerator),
		audit:       new(mocks.MockAuditService),
	}
	f.usecase = NewAppointmentUsecase(db, quietLogger(), f.repo, f.doctorRepo, f.idGenerator, f.audit, config.BookingConfig{
		EditWindow:     24 * time.Hour,
		CompanyFeeRate: decimal.RequireFromString("0.20"),
		DefaultFee:     decimal.RequireFromString("500.00"),
		Location:       clinicZone,
	}).(*appointmentUsecase)
	f.usecase.now = func() time.Time { return fixedNow }
	return f
}

func activeDoctor(id uuid.UUID, fee string) *entity.DoctorProfile {
	return &entity.DoctorProfile{
		UserID:             id,
		DoctorCode:         "DOC001",
		Specialty:          "Cardiology",
		AvailableDays:      entity.StringList{"Monday", "Tuesday"},
		AvailableTimeSlots: entity.StringList{"10:00 - 10:30", "14:00 - 14:30"},
		ConsultationFee:    decimal.RequireFromString(fee),
		User:               entity.User{ID: id, FullName: "Dr. Rao", IsActive: true},
	}
}

func validBooking(doctorID uuid.UUID, method string) *dto.CreateAppointmentRequest {
	return &dto.CreateAppointmentRequest{
		DoctorID:        doctorID.String(),
		AppointmentDate: "2026-05-04",
		AppointmentTime: "10:00 AM",
		Reason:          "Checkup",
		PatientName:     "Asha",
		PatientAge:      34,
		PatientPhone:    "9876543210",
		PaymentMethod:   method,
	}
}

func storedAppointment(patientID, doctorID uuid.UUID, status entity.AppointmentStatus) *entity.Appointment {
	return &entity.Appointment{
		ID:              7,
		AppointmentID:   "APT00007",
		PatientID:       patientID,
		DoctorID:        doctorID,
		AppointmentDate: time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC),
		AppointmentTime: "10:00:00",
		Reason:          "Checkup",
		PatientName:     "Asha",
		PatientPhone:    "9876543210",
		Status:          status,
		ConsultationFee: decimal.RequireFromString("500.00"),
		PaymentStatus:   status == entity.AppointmentStatusConfirmed,
	}
}

func onDate(day string) interface{} {
	return mock.MatchedBy(func(d time.Time) bool { return d.Format("2006-01-02") == day })
}

func TestAppointmentUsecase_Create(t *testing.T) {
	patientID := uuid.New()
	doctorID := uuid.New()

	t.Run("immediate payment confirms the appointment", func(t *testing.T) {
		// Arrange
		f := newAppointmentFixture(t)
		f.sqlMock.ExpectBegin()
		f.sqlMock.ExpectCommit()
		f.doctorRepo.On("FindByUserID", mock.Anything, doctorID).Return(activeDoctor(doctorID, "750.00"), nil)
		f.repo.On("ExistsAtSlot", mock.Anything, doctorID, onDate("2026-05-04"), "10:00:00", uint64(0)).Return(false, nil)
		f.idGenerator.On("Insert", mock.Anything, mock.Anything, mock.AnythingOfType("*entity.Appointment")).
			Run(func(args mock.Arguments) {
				a := args.Get(2).(*entity.Appointment)
				a.ID = 1
				a.AppointmentID = "APT00001"
			}).Return(nil)
		f.audit.On("LogCreate", mock.Anything, mock.Anything, mock.Anything, entity.AuditActionAppointmentCreate, "appointment", "APT00001", mock.Anything).Return(nil)

		// Act
		resp, err := f.usecase.Create(ctxAs(patientID, entity.RoleIDPatient), validBooking(doctorID, "card"))

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "APT00001", resp.AppointmentID)
		assert.Equal(t, "confirmed", resp.Status)
		assert.True(t, resp.PaymentStatus)
		assert.True(t, strings.HasPrefix(resp.PaymentID, "PAY"))
		assert.Equal(t, "750.00", resp.ConsultationFee)
		assert.Equal(t, "10:00:00", resp.AppointmentTime)
		assert.Equal(t, patientID, resp.PatientID)
		require.NotNil(t, resp.Doctor)
		assert.Equal(t, "DOC001", resp.Doctor.DoctorCode)
		assert.NoError(t, f.sqlMock.ExpectationsWereMet())
	})

	t.Run("pay on arrival leaves it pending and unpaid", func(t *testing.T) {
		// Arrange
		f := newAppointmentFixture(t)
		f.sqlMock.ExpectBegin()
		f.sqlMock.ExpectCommit()
		f.doctorRepo.On("FindByUserID", mock.Anything, doctorID).Return(activeDoctor(doctorID, "500.00"), nil)
		f.repo.On("ExistsAtSlot", mock.Anything, doctorID, mock.Anything, "10:00:00", uint64(0)).Return(false, nil)
		f.idGenerator.On("Insert", mock.Anything, mock.Anything, mock.Anything).Return(nil)
		f.audit.On("LogCreate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

		// Act
		resp, err := f.usecase.Create(ctxAs(patientID, entity.RoleIDPatient), validBooking(doctorID, "cash_on_arrival"))

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "pending", resp.Status)
		assert.False(t, resp.PaymentStatus)
		assert.Empty(t, resp.PaymentID)
	})

	t.Run("falls back to the default fee", func(t *testing.T) {
		// Arrange
		f := newAppointmentFixture(t)
		f.sqlMock.ExpectBegin()
		f.sqlMock.ExpectCommit()
		f.doctorRepo.On("FindByUserID", mock.Anything, doctorID).Return(activeDoctor(doctorID, "0"), nil)
		f.repo.On("ExistsAtSlot", mock.Anything, doctorID, mock.Anything, mock.Anything, uint64(0)).Return(false, nil)
		f.idGenerator.On("Insert", mock.Anything, mock.Anything, mock.Anything).Return(nil)
		f.audit.On("LogCreate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

		// Act
		resp, err := f.usecase.Create(ctxAs(patientID, entity.RoleIDPatient), validBooking(doctorID, "cash"))

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "500.00", resp.ConsultationFee)
	})

	t.Run("only patients may book", func(t *testing.T) {
		for _, role := range []entity.RoleID{entity.RoleIDDoctor, entity.RoleIDAdmin, entity.RoleIDPharmacist} {
			// Arrange
			f := newAppointmentFixture(t)

			// Act
			_, err := f.usecase.Create(ctxAs(uuid.New(), role), validBooking(doctorID, "card"))

			// Assert
			assert.ErrorIs(t, err, ErrForbidden, role.String())
			f.doctorRepo.AssertNotCalled(t, "FindByUserID", mock.Anything, mock.Anything)
		}
	})

	t.Run("unauthenticated", func(t *testing.T) {
		f := newAppointmentFixture(t)

		_, err := f.usecase.Create(context.Background(), validBooking(doctorID, "card"))

		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("reports every missing field", func(t *testing.T) {
		// Arrange
		f := newAppointmentFixture(t)
		req := &dto.CreateAppointmentRequest{PatientName: "   "}

		// Act
		_, err := f.usecase.Create(ctxAs(patientID, entity.RoleIDPatient), req)

		// Assert
		var fieldErrs FieldErrors
		require.True(t, errors.As(err, &fieldErrs))
		for _, field := range []string{"doctor", "appointment_date", "appointment_time", "patient_name", "patient_phone", "payment_method"} {
			assert.Contains(t, fieldErrs, field)
		}
	})

	t.Run("rejects an unknown payment method", func(t *testing.T) {
		f := newAppointmentFixture(t)

		_, err := f.usecase.Create(ctxAs(patientID, entity.RoleIDPatient), validBooking(doctorID, "barter"))

		var fieldErrs FieldErrors
		require.True(t, errors.As(err, &fieldErrs))
		assert.Contains(t, fieldErrs, "payment_method")
	})

	t.Run("unknown doctor is a field error", func(t *testing.T) {
		// Arrange
		f := newAppointmentFixture(t)
		f.sqlMock.ExpectBegin()
		f.sqlMock.ExpectRollback()
		f.doctorRepo.On("FindByUserID", mock.Anything, doctorID).Return(nil, nil)

		// Act
		_, err := f.usecase.Create(ctxAs(patientID, entity.RoleIDPatient), validBooking(doctorID, "card"))

		// Assert
		var fieldErrs FieldErrors
		require.True(t, errors.As(err, &fieldErrs))
		assert.Equal(t, "Doctor not found", fieldErrs["doctor"])
		assert.NoError(t, f.sqlMock.ExpectationsWereMet())
	})

	t.Run("occupied slot is a conflict", func(t *testing.T) {
		// Arrange
		f := newAppointmentFixture(t)
		f.sqlMock.ExpectBegin()
		f.sqlMock.ExpectRollback()
		f.doctorRepo.On("FindByUserID", mock.Anything, doctorID).Return(activeDoctor(doctorID, "500.00"), nil)
		f.repo.On("ExistsAtSlot", mock.Anything, doctorID, mock.Anything, "10:00:00", uint64(0)).Return(true, nil)

		// Act
		_, err := f.usecase.Create(ctxAs(patientID, entity.RoleIDPatient), validBooking(doctorID, "card"))

		// Assert
		assert.ErrorIs(t, err, ErrSlotTaken)
		f.idGenerator.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything, mock.Anything)
		assert.NoError(t, f.sqlMock.ExpectationsWereMet())
	})

	t.Run("slot index violation on insert is a conflict", func(t *testing.T) {
		// Arrange
		f := newAppointmentFixture(t)
		f.sqlMock.ExpectBegin()
		f.sqlMock.ExpectRollback()
		f.doctorRepo.On("FindByUserID", mock.Anything, doctorID).Return(activeDoctor(doctorID, "500.00"), nil)
		f.repo.On("ExistsAtSlot", mock.Anything, doctorID, mock.Anything, mock.Anything, uint64(0)).Return(false, nil)
		f.idGenerator.On("Insert", mock.Anything, mock.Anything, mock.Anything).
			Return(&pgconn.PgError{Code: "23505", ConstraintName: "idx_appointments_live_slot"})

		// Act
		_, err := f.usecase.Create(ctxAs(patientID, entity.RoleIDPatient), validBooking(doctorID, "card"))

		// Assert
		assert.ErrorIs(t, err, ErrSlotTaken)
		f.audit.AssertNotCalled(t, "LogCreate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAppointmentUsecase_Edit(t *testing.T) {
	patientID := uuid.New()
	doctorID := uuid.New()

	t.Run("moves the appointment to another configured slot", func(t *testing.T) {
		// Arrange
		f := newAppointmentFixture(t)
		f.sqlMock.ExpectBegin()
		f.sqlMock.ExpectCommit()
		stored := storedAppointment(patientID, doctorID, entity.AppointmentStatusConfirmed)
		f.repo.On("FindByID", mock.Anything, uint64(7)).Return(stored, nil)
		f.doctorRepo.On("FindByUserID", mock.Anything, doctorID).Return(activeDoctor(doctorID, "500.00"), nil)
		f.repo.On("ExistsAtSlot", mock.Anything, doctorID, onDate("2026-05-05"), "14:00:00", uint64(7)).Return(false, nil)
		f.repo.On("UpdateSchedule", mock.Anything, uint64(7), onDate("2026-05-05"), "14:00:00", "Follow-up").Return(int64(1), nil)
		f.audit.On("LogUpdate", mock.Anything, mock.Anything, mock.Anything, entity.AuditActionAppointmentUpdate, "appointment", "APT00007", mock.Anything, mock.Anything).Return(nil)

		req := &dto.UpdateAppointmentRequest{
			AppointmentDate: strPtr("2026-05-05"),
			AppointmentTime: strPtr("2:00 PM"),
			Reason:          strPtr(" Follow-up "),
		}

		// Act
		resp, err := f.usecase.Edit(ctxAs(patientID, entity.RoleIDPatient), 7, req)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "2026-05-05", resp.AppointmentDate)
		assert.Equal(t, "14:00:00", resp.AppointmentTime)
		assert.Equal(t, "Follow-up", resp.Reason)
		assert.Equal(t, "APT00007", resp.AppointmentID)
		assert.Equal(t, "confirmed", resp.Status)
		assert.True(t, resp.PaymentStatus)
		assert.NoError(t, f.sqlMock.ExpectationsWereMet())
	})

	t.Run("reason only edit still checks the resulting slot", func(t *testing.T) {
		// Arrange
		f := newAppointmentFixture(t)
		f.sqlMock.ExpectBegin()
		f.sqlMock.ExpectCommit()
		f.repo.On("FindByID", mock.Anything, uint64(7)).Return(storedAppointment(patientID, doctorID, entity.AppointmentStatusPending), nil)
		f.doctorRepo.On("FindByUserID", mock.Anything, doctorID).Return(activeDoctor(doctorID, "500.00"), nil)
		f.repo.On("ExistsAtSlot", mock.Anything, doctorID, onDate("2026-05-04"), "10:00:00", uint64(7)).Return(false, nil)
		f.repo.On("UpdateSchedule", mock.Anything, uint64(7), onDate("2026-05-04"), "10:00:00", "Headache").Return(int64(1), nil)
		f.audit.On("LogUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

		// Act
		resp, err := f.usecase.Edit(ctxAs(patientID, entity.RoleIDPatient), 7, &dto.UpdateAppointmentRequest{Reason: strPtr("Headache")})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "Headache", resp.Reason)
		f.doctorRepo.AssertExpectations(t)
		f.repo.AssertExpectations(t)
	})

	t.Run("reason only edit after the doctor dropped the day", func(t *testing.T) {
		// Arrange
		f := newAppointmentFixture(t)
		f.sqlMock.ExpectBegin()
		f.sqlMock.ExpectRollback()
		doctor := activeDoctor(doctorID, "500.00")
		doctor.AvailableDays = entity.StringList{"Tuesday"}
		f.repo.On("FindByID", mock.Anything, uint64(7)).Return(storedAppointment(patientID, doctorID, entity.AppointmentStatusPending), nil)
		f.doctorRepo.On("FindByUserID", mock.Anything, doctorID).Return(doctor, nil)

		// Act
		_, err := f.usecase.Edit(ctxAs(patientID, entity.RoleIDPatient), 7, &dto.UpdateAppointmentRequest{Reason: strPtr("Headache")})

		// Assert
		var fieldErrs FieldErrors
		require.True(t, errors.As(err, &fieldErrs))
		assert.Contains(t, fieldErrs, "appointment_date")
		f.repo.AssertNotCalled(t, "UpdateSchedule", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("reason only edit when the slot was double booked", func(t *testing.T) {
		// Arrange
		f := newAppointmentFixture(t)
		f.sqlMock.ExpectBegin()
		f.sqlMock.ExpectRollback()
		f.repo.On("FindByID", mock.Anything, uint64(7)).Return(storedAppointment(patientID, doctorID, entity.AppointmentStatusPending), nil)
		f.doctorRepo.On("FindByUserID", mock.Anything, doctorID).Return(activeDoctor(doctorID, "500.00"), nil)
		f.repo.On("ExistsAtSlot", mock.Anything, doctorID, onDate("2026-05-04"), "10:00:00", uint64(7)).Return(true, nil)

		// Act
		_, err := f.usecase.Edit(ctxAs(patientID, entity.RoleIDPatient), 7, &dto.UpdateAppointmentRequest{Reason: strPtr("Headache")})

		// Assert
		assert.ErrorIs(t, err, ErrSlotTaken)
	})

	t.Run("rejected inside the edit window whatever the new values", func(t *testing.T) {
		for _, at := range []string{"10:00:00", "09:59:59", "09:00:00"} {
			// Arrange: 2 May 10:00 is exactly 24h after fixedNow.
			f := newAppointmentFixture(t)
			f.sqlMock.ExpectBegin()
			f.sqlMock.ExpectRollback()
			stored := storedAppointment(patientID, doctorID, entity.AppointmentStatusPending)
			stored.AppointmentDate = time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)
			stored.AppointmentTime = at
			f.repo.On("FindByID", mock.Anything, uint64(7)).Return(stored, nil)

			// Act
			_, err := f.usecase.Edit(ctxAs(patientID, entity.RoleIDPatient), 7, &dto.UpdateAppointmentRequest{
				AppointmentDate: strPtr("2026-05-11"),
			})

			// Assert
			assert.ErrorIs(t, err, ErrEditWindowClosed, at)
			assert.Contains(t, err.Error(), "24 hours", at)
			f.repo.AssertNotCalled(t, "UpdateSchedule", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		}
	})

	t.Run("message follows the configured window", func(t *testing.T) {
		// Arrange: 4 May 10:00 is 72h after fixedNow.
		f := newAppointmentFixture(t)
		f.usecase.booking.EditWindow = 96 * time.Hour
		f.sqlMock.ExpectBegin()
		f.sqlMock.ExpectRollback()
		f.repo.On("FindByID", mock.Anything, uint64(7)).Return(storedAppointment(patientID, doctorID, entity.AppointmentStatusPending), nil)

		// Act
		_, err := f.usecase.Edit(ctxAs(patientID, entity.RoleIDPatient), 7, &dto.UpdateAppointmentRequest{Reason: strPtr("x")})

		// Assert
		assert.ErrorIs(t, err, ErrEditWindowClosed)
		assert.Contains(t, err.Error(), "96 hours")
		assert.NotContains(t, err.Error(), "24 hours")
	})

	t.Run("unreadable stored time fails closed", func(t *testing.T) {
		// Arrange
		f := newAppointmentFixture(t)
		f.sqlMock.ExpectBegin()
		f.sqlMock.ExpectRollback()
		stored := storedAppointment(patientID, doctorID, entity.AppointmentStatusPending)
		stored.AppointmentTime = "noon-ish"
		f.repo.On("FindByID", mock.Anything, uint64(7)).Return(stored, nil)

		// Act
		_, err := f.usecase.Edit(ctxAs(patientID, entity.RoleIDPatient), 7, &dto.UpdateAppointmentRequest{Reason: strPtr("x")})

		// Assert
		assert.ErrorIs(t, err, ErrEditWindowClosed)
	})

	t.Run("time outside the doctor's slots", func(t *testing.T) {
		// Arrange
		f := newAppointmentFixture(t)
		f.sqlMock.ExpectBegin()
		f.sqlMock.ExpectRollback()
		f.repo.On("FindByID", mock.Anything, uint64(7)).Return(storedAppointment(patientID, doctorID, entity.AppointmentStatusPending), nil)
		f.doctorRepo.On("FindByUserID", mock.Anything, doctorID).Return(activeDoctor(doctorID, "500.00"), nil)

		// Act
		_, err := f.usecase.Edit(ctxAs(patientID, entity.RoleIDPatient), 7, &dto.UpdateAppointmentRequest{
			AppointmentTime: strPtr("14:15"),
		})

		// Assert
		var fieldErrs FieldErrors
		require.True(t, errors.As(err, &fieldErrs))
		assert.Contains(t, fieldErrs, "appointment_time")
		assert.NotContains(t, fieldErrs, "appointment_date")
	})

	t.Run("date on a day the doctor does not work", func(t *testing.T) {
		// Arrange
		f := newAppointmentFixture(t)
		f.sqlMock.ExpectBegin()
		f.sqlMock.ExpectRollback()
		f.repo.On("FindByID", mock.Anything, uint64(7)).Return(storedAppointment(patientID, doctorID, entity.AppointmentStatusPending), nil)
		f.doctorRepo.On("FindByUserID", mock.Anything, doctorID).Return(activeDoctor(doctorID, "500.00"), nil)

		// Act: 6 May 2026 is a Wednesday.
		_, err := f.usecase.Edit(ctxAs(patientID, entity.RoleIDPatient), 7, &dto.UpdateAppointmentRequest{
			AppointmentDate: strPtr("2026-05-06"),
		})

		// Assert
		var fieldErrs FieldErrors
		require.True(t, errors.As(err, &fieldErrs))
		assert.Contains(t, fieldErrs, "appointment_date")
	})

	t.Run("empty availability is unrestricted", func(t *testing.T) {
		// Arrange
		f := newAppointmentFixture(t)
		f.sqlMock.ExpectBegin()
		f.sqlMock.ExpectCommit()
		doctor := activeDoctor(doctorID, "500.00")
		doctor.AvailableDays = nil
		doctor.AvailableTimeSlots = nil
		f.repo.On("FindByID", mock.Anything, uint64(7)).Return(storedAppointment(patientID, doctorID, entity.AppointmentStatusPending), nil)
		f.doctorRepo.On("FindByUserID", mock.Anything, doctorID).Return(doctor, nil)
		f.repo.On("ExistsAtSlot", mock.Anything, doctorID, onDate("2026-05-06"), "17:45:00", uint64(7)).Return(false, nil)
		f.repo.On("UpdateSchedule", mock.Anything, uint64(7), mock.Anything, "17:45:00", "Checkup").Return(int64(1), nil)
		f.audit.On("LogUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

		// Act
		resp, err := f.usecase.Edit(ctxAs(patientID, entity.RoleIDPatient), 7, &dto.UpdateAppointmentRequest{
			AppointmentDate: strPtr("2026-05-06"),
			AppointmentTime: strPtr("5:45 pm"),
		})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "17:45:00", resp.AppointmentTime)
	})

	t.Run("malformed availability fails closed", func(t *testing.T) {
		// Arrange
		f := newAppointmentFixture(t)
		f.sqlMock.ExpectBegin()
		f.sqlMock.ExpectRollback()
		doctor := activeDoctor(doctorID, "500.00")
		doctor.AvailableTimeSlots = entity.StringList{"mornings"}
		f.repo.On("FindByID", mock.Anything, uint64(7)).Return(storedAppointment(patientID, doctorID, entity.AppointmentStatusPending), nil)
		f.doctorRepo.On("FindByUserID", mock.Anything, doctorID).Return(doctor, nil)

		// Act
		_, err := f.usecase.Edit(ctxAs(patientID, entity.RoleIDPatient), 7, &dto.UpdateAppointmentRequest{
			AppointmentTime: strPtr("14:00"),
		})

		// Assert
		assert.ErrorIs(t, err, ErrAvailabilityMisconfigured)
	})

	t.Run("another appointment holds the new slot", func(t *testing.T) {
		// Arrange
		f := newAppointmentFixture(t)
		f.sqlMock.ExpectBegin()
		f.sqlMock.ExpectRollback()
		f.repo.On("FindByID", mock.Anything, uint64(7)).Return(storedAppointment(patientID, doctorID, entity.AppointmentStatusPending), nil)
		f.doctorRepo.On("FindByUserID", mock.Anything, doctorID).Return(activeDoctor(doctorID, "500.00"), nil)
		f.repo.On("ExistsAtSlot", mock.Anything, doctorID, onDate("2026-05-05"), "10:00:00", uint64(7)).Return(true, nil)

		// Act
		_, err := f.usecase.Edit(ctxAs(patientID, entity.RoleIDPatient), 7, &dto.UpdateAppointmentRequest{
			AppointmentDate: strPtr("2026-05-05"),
		})

		// Assert
		assert.ErrorIs(t, err, ErrSlotTaken)
		f.repo.AssertNotCalled(t, "UpdateSchedule", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("another patient's appointment", func(t *testing.T) {
		f := newAppointmentFixture(t)
		f.sqlMock.ExpectBegin()
		f.sqlMock.ExpectRollback()
		f.repo.On("FindByID", mock.Anything, uint64(7)).Return(storedAppointment(uuid.New(), doctorID, entity.AppointmentStatusPending), nil)

		_, err := f.usecase.Edit(ctxAs(patientID, entity.RoleIDPatient), 7, &dto.UpdateAppointmentRequest{Reason: strPtr("x")})

		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("the assigned doctor cannot edit", func(t *testing.T) {
		f := newAppointmentFixture(t)

		_, err := f.usecase.Edit(ctxAs(doctorID, entity.RoleIDDoctor), 7, &dto.UpdateAppointmentRequest{Reason: strPtr("x")})

		assert.ErrorIs(t, err, ErrForbidden)
		f.repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("terminal statuses cannot be edited", func(t *testing.T) {
		for _, status := range []entity.AppointmentStatus{entity.AppointmentStatusCancelled, entity.AppointmentStatusCompleted} {
			f := newAppointmentFixture(t)
			f.sqlMock.ExpectBegin()
			f.sqlMock.ExpectRollback()
			f.repo.On("FindByID", mock.Anything, uint64(7)).Return(storedAppointment(patientID, doctorID, status), nil)

			_, err := f.usecase.Edit(ctxAs(patientID, entity.RoleIDPatient), 7, &dto.UpdateAppointmentRequest{Reason: strPtr("x")})

			assert.ErrorIs(t, err, ErrAppointmentNotEditable, string(status))
		}
	})

	t.Run("missing appointment", func(t *testing.T) {
		f := newAppointmentFixture(t)
		f.sqlMock.ExpectBegin()
		f.sqlMock.ExpectRollback()
		f.repo.On("FindByID", mock.Anything, uint64(99)).Return(nil, nil)

		_, err := f.usecase.Edit(ctxAs(patientID, entity.RoleIDPatient), 99, &dto.UpdateAppointmentRequest{})

		assert.ErrorIs(t, err, ErrAppointmentNotFound)
	})

	t.Run("status changed underneath", func(t *testing.T) {
		// Arrange
		f := newAppointmentFixture(t)
		f.sqlMock.ExpectBegin()
		f.sqlMock.ExpectRollback()
		f.repo.On("FindByID", mock.Anything, uint64(7)).Return(storedAppointment(patientID, doctorID, entity.AppointmentStatusPending), nil)
		f.doctorRepo.On("FindByUserID", mock.Anything, doctorID).Return(activeDoctor(doctorID, "500.00"), nil)
		f.repo.On("ExistsAtSlot", mock.Anything, doctorID, mock.Anything, "10:00:00", uint64(7)).Return(false, nil)
		f.repo.On("UpdateSchedule", mock.Anything, uint64(7), mock.Anything, mock.Anything, mock.Anything).Return(int64(0), nil)

		// Act
		_, err := f.usecase.Edit(ctxAs(patientID, entity.RoleIDPatient), 7, &dto.UpdateAppointmentRequest{Reason: strPtr("x")})

		// Assert
		assert.ErrorIs(t, err, ErrConcurrentUpdate)
		f.audit.AssertNotCalled(t, "LogUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAppointmentUsecase_Cancel(t *testing.T) {
	patientID := uuid.New()
	doctorID := uuid.New()

	cases := []struct {
		name        string
		fee         string
		paid        bool
		companyFee  string
		refund      string
		refunded    bool
		paymentFlag bool
	}{
		{name: "paid appointment is refunded minus the company fee", fee: "500.00", paid: true, companyFee: "100.00", refund: "400.00", refunded: true},
		{name: "unpaid appointment refunds nothing", fee: "500.00", paid: false, companyFee: "100.00", refund: "0.00"},
		{name: "company fee rounds half up", fee: "333.33", paid: true, companyFee: "66.67", refund: "266.66", refunded: true},
		{name: "zero fee", fee: "0.00", paid: true, companyFee: "0.00", refund: "0.00", refunded: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			f := newAppointmentFixture(t)
			f.sqlMock.ExpectBegin()
			f.sqlMock.ExpectCommit()
			stored := storedAppointment(patientID, doctorID, entity.AppointmentStatusConfirmed)
			stored.ConsultationFee = decimal.RequireFromString(tc.fee)
			stored.PaymentStatus = tc.paid
			f.repo.On("FindByID", mock.Anything, uint64(7)).Return(stored, nil)

			var written entity.CancellationOutcome
			f.repo.On("Cancel", mock.Anything, uint64(7), mock.AnythingOfType("entity.CancellationOutcome")).
				Run(func(args mock.Arguments) { written = args.Get(2).(entity.CancellationOutcome) }).
				Return(int64(1), nil)
			f.audit.On("LogTransition", mock.Anything, mock.Anything, mock.Anything, entity.AuditActionAppointmentCancel, mock.Anything, entity.AppointmentStatusCancelled, mock.Anything).Return(nil)

			// Act
			resp, err := f.usecase.Cancel(ctxAs(patientID, entity.RoleIDPatient), 7)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, tc.companyFee, resp.CompanyFee)
			assert.Equal(t, tc.refund, resp.RefundAmount)
			assert.Equal(t, tc.refunded, resp.Refunded)
			assert.Equal(t, "cancelled", resp.Appointment.Status)
			assert.False(t, resp.Appointment.PaymentStatus)
			require.NotNil(t, resp.Appointment.RefundAmount)
			assert.Equal(t, tc.refund, *resp.Appointment.RefundAmount)
			assert.Equal(t, tc.companyFee, written.CompanyFee.StringFixed(2))
			assert.Equal(t, tc.refund, written.RefundAmount.StringFixed(2))
			assert.True(t, written.CompanyFee.Add(written.RefundAmount).Equal(stored.ConsultationFee) || !tc.paid)
			assert.NoError(t, f.sqlMock.ExpectationsWereMet())
		})
	}

	t.Run("already cancelled", func(t *testing.T) {
		f := newAppointmentFixture(t)
		f.sqlMock.ExpectBegin()
		f.sqlMock.ExpectRollback()
		f.repo.On("FindByID", mock.Anything, uint64(7)).Return(storedAppointment(patientID, doctorID, entity.AppointmentStatusCancelled), nil)

		_, err := f.usecase.Cancel(ctxAs(patientID, entity.RoleIDPatient), 7)

		assert.ErrorIs(t, err, ErrAlreadyCancelled)
	})

	t.Run("completed", func(t *testing.T) {
		f := newAppointmentFixture(t)
		f.sqlMock.ExpectBegin()
		f.sqlMock.ExpectRollback()
		f.repo.On("FindByID", mock.Anything, uint64(7)).Return(storedAppointment(patientID, doctorID, entity.AppointmentStatusCompleted), nil)

		_, err := f.usecase.Cancel(ctxAs(patientID, entity.RoleIDPatient), 7)

		assert.ErrorIs(t, err, ErrAppointmentCompleted)
	})

	t.Run("losing a concurrent cancel", func(t *testing.T) {
		// Arrange
		f := newAppointmentFixture(t)
		f.sqlMock.ExpectBegin()
		f.sqlMock.ExpectRollback()
		f.repo.On("FindByID", mock.Anything, uint64(7)).Return(storedAppointment(patientID, doctorID, entity.AppointmentStatusPending), nil)
		f.repo.On("Cancel", mock.Anything, uint64(7), mock.Anything).Return(int64(0), nil)

		// Act
		_, err := f.usecase.Cancel(ctxAs(patientID, entity.RoleIDPatient), 7)

		// Assert
		assert.ErrorIs(t, err, ErrConcurrentUpdate)
		assert.NoError(t, f.sqlMock.ExpectationsWereMet())
	})

	t.Run("not the owner", func(t *testing.T) {
		f := newAppointmentFixture(t)
		f.sqlMock.ExpectBegin()
		f.sqlMock.ExpectRollback()
		f.repo.On("FindByID", mock.Anything, uint64(7)).Return(storedAppointment(uuid.New(), doctorID, entity.AppointmentStatusPending), nil)

		_, err := f.usecase.Cancel(ctxAs(patientID, entity.RoleIDPatient), 7)

		assert.ErrorIs(t, err, ErrForbidden)
		f.repo.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("audit failure rolls back", func(t *testing.T) {
		// Arrange
		f := newAppointmentFixture(t)
		f.sqlMock.ExpectBegin()
		f.sqlMock.ExpectRollback()
		f.repo.On("FindByID", mock.Anything, uint64(7)).Return(storedAppointment(patientID, doctorID, entity.AppointmentStatusPending), nil)
		f.repo.On("Cancel", mock.Anything, uint64(7), mock.Anything).Return(int64(1), nil)
		f.audit.On("LogTransition", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("disk full"))

		// Act
		_, err := f.usecase.Cancel(ctxAs(patientID, entity.RoleIDPatient), 7)

		// Assert
		assert.EqualError(t, err, "disk full")
		assert.NoError(t, f.sqlMock.ExpectationsWereMet())
	})
}

func TestAppointmentUsecase_List(t *testing.T) {
	patientID := uuid.New()
	doctorID := uuid.New()

	t.Run("patient sees own appointments", func(t *testing.T) {
		// Arrange
		f := newAppointmentFixture(t)
		f.repo.On("List", mock.Anything, entity.AppointmentFilter{PatientID: &patientID}).
			Return([]entity.Appointment{*storedAppointment(patientID, doctorID, entity.AppointmentStatusPending)}, nil)

		// Act
		resp, err := f.usecase.List(ctxAs(patientID, entity.RoleIDPatient), dto.AppointmentListQuery{})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 1, resp.Total)
		assert.Equal(t, "Asha", resp.Appointments[0].PatientName)
	})

	t.Run("doctor sees assigned appointments filtered by status", func(t *testing.T) {
		f := newAppointmentFixture(t)
		f.repo.On("List", mock.Anything, entity.AppointmentFilter{DoctorID: &doctorID, Status: entity.AppointmentStatusConfirmed}).
			Return([]entity.Appointment{}, nil)

		resp, err := f.usecase.List(ctxAs(doctorID, entity.RoleIDDoctor), dto.AppointmentListQuery{Status: "Confirmed"})

		require.NoError(t, err)
		assert.Equal(t, 0, resp.Total)
	})

	t.Run("admin sees everything", func(t *testing.T) {
		f := newAppointmentFixture(t)
		f.repo.On("List", mock.Anything, entity.AppointmentFilter{}).Return([]entity.Appointment{}, nil)

		_, err := f.usecase.List(ctxAs(uuid.New(), entity.RoleIDAdmin), dto.AppointmentListQuery{})

		require.NoError(t, err)
		f.repo.AssertExpectations(t)
	})

	t.Run("pharmacist is forbidden", func(t *testing.T) {
		f := newAppointmentFixture(t)

		_, err := f.usecase.List(ctxAs(uuid.New(), entity.RoleIDPharmacist), dto.AppointmentListQuery{})

		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("unknown status filter", func(t *testing.T) {
		f := newAppointmentFixture(t)

		_, err := f.usecase.List(ctxAs(patientID, entity.RoleIDPatient), dto.AppointmentListQuery{Status: "lost"})

		var fieldErrs FieldErrors
		require.True(t, errors.As(err, &fieldErrs))
		assert.Contains(t, fieldErrs, "status")
	})

	t.Run("doctor and date give an ascending day view with others hidden", func(t *testing.T) {
		// Arrange
		f := newAppointmentFixture(t)
		day := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)
		mine := storedAppointment(patientID, doctorID, entity.AppointmentStatusPending)
		theirs := storedAppointment(uuid.New(), doctorID, entity.AppointmentStatusConfirmed)
		theirs.ID = 8
		theirs.AppointmentTime = "14:00:00"
		theirs.PatientName = "Someone Else"
		f.repo.On("List", mock.Anything, entity.AppointmentFilter{DoctorID: &doctorID, Date: &day, Ascending: true}).
			Return([]entity.Appointment{*mine, *theirs}, nil)

		// Act
		resp, err := f.usecase.List(ctxAs(patientID, entity.RoleIDPatient), dto.AppointmentListQuery{DoctorID: &doctorID, Date: &day})

		// Assert
		require.NoError(t, err)
		require.Len(t, resp.Appointments, 2)
		assert.Equal(t, "Asha", resp.Appointments[0].PatientName)
		assert.Empty(t, resp.Appointments[1].PatientName)
		assert.Empty(t, resp.Appointments[1].PatientPhone)
		assert.Equal(t, uuid.Nil, resp.Appointments[1].PatientID)
		assert.Equal(t, "14:00:00", resp.Appointments[1].AppointmentTime)
	})
}

func TestAppointmentUsecase_Get(t *testing.T) {
	patientID := uuid.New()
	doctorID := uuid.New()

	tests := []struct {
		name    string
		caller  uuid.UUID
		role    entity.RoleID
		wantErr error
	}{
		{name: "owner", caller: patientID, role: entity.RoleIDPatient},
		{name: "assigned doctor", caller: doctorID, role: entity.RoleIDDoctor},
		{name: "admin", caller: uuid.New(), role: entity.RoleIDAdmin},
		{name: "other patient", caller: uuid.New(), role: entity.RoleIDPatient, wantErr: ErrForbidden},
		{name: "other doctor", caller: uuid.New(), role: entity.RoleIDDoctor, wantErr: ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAppointmentFixture(t)
			f.repo.On("FindByID", mock.Anything, uint64(7)).Return(storedAppointment(patientID, doctorID, entity.AppointmentStatusPending), nil)

			resp, err := f.usecase.Get(ctxAs(tt.caller, tt.role), 7)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "APT00007", resp.AppointmentID)
		})
	}
}

func TestAppointmentUsecase_ConfirmPayment(t *testing.T) {
	patientID := uuid.New()
	doctorID := uuid.New()

	t.Run("pending appointment becomes confirmed", func(t *testing.T) {
		// Arrange
		f := newAppointmentFixture(t)
		f.sqlMock.ExpectBegin()
		f.sqlMock.ExpectCommit()
		f.repo.On("FindByID", mock.Anything, uint64(7)).Return(storedAppointment(patientID, doctorID, entity.AppointmentStatusPending), nil)
		f.repo.On("ConfirmPayment", mock.Anything, uint64(7), "upi", entity.NewPaymentReference(fixedNow)).Return(int64(1), nil)
		f.audit.On("LogTransition", mock.Anything, mock.Anything, mock.Anything, entity.AuditActionAppointmentPayment, mock.Anything, entity.AppointmentStatusConfirmed, mock.Anything).Return(nil)

		// Act
		resp, err := f.usecase.ConfirmPayment(ctxAs(patientID, entity.RoleIDPatient), 7, &dto.ConfirmPaymentRequest{PaymentMethod: "UPI"})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "confirmed", resp.Status)
		assert.True(t, resp.PaymentStatus)
		assert.Equal(t, "upi", resp.PaymentMethod)
		assert.NoError(t, f.sqlMock.ExpectationsWereMet())
	})

	t.Run("cash is not an immediate payment", func(t *testing.T) {
		f := newAppointmentFixture(t)

		_, err := f.usecase.ConfirmPayment(ctxAs(patientID, entity.RoleIDPatient), 7, &dto.ConfirmPaymentRequest{PaymentMethod: "cash"})

		var fieldErrs FieldErrors
		require.True(t, errors.As(err, &fieldErrs))
	})

	t.Run("already confirmed", func(t *testing.T) {
		f := newAppointmentFixture(t)
		f.sqlMock.ExpectBegin()
		f.sqlMock.ExpectRollback()
		f.repo.On("FindByID", mock.Anything, uint64(7)).Return(storedAppointment(patientID, doctorID, entity.AppointmentStatusConfirmed), nil)

		_, err := f.usecase.ConfirmPayment(ctxAs(patientID, entity.RoleIDPatient), 7, &dto.ConfirmPaymentRequest{PaymentMethod: "card"})

		assert.ErrorIs(t, err, ErrPaymentNotPending)
	})
}

func TestHumanWindow(t *testing.T) {
	assert.Equal(t, "24 hours", humanWindow(24*time.Hour))
	assert.Equal(t, "1 hour", humanWindow(time.Hour))
	assert.Equal(t, "1h30m0s", humanWindow(90*time.Minute))
}
