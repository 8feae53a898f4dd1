package usecase

import (
	"errors"
	"testing"

	"clinic-backend/internal/delivery/dto"
	"clinic-backend/internal/domain/entity"
	"clinic-backend/internal/mocks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type doctorProfileFixture struct {
	usecase    DoctorProfileUsecase
	sqlMock    sqlmock.Sqlmock
	userRepo   *mocks.MockUserRepository
	doctorRepo *mocks.MockDoctorProfileRepository
	reviewRepo *mocks.MockDoctorReviewRepository
	tipRepo    *mocks.MockDoctorTipRepository
	audit      *mocks.MockAuditService
}

func newDoctorProfileFixture(t *testing.T) *doctorProfileFixture {
	t.Helper()

	db, sqlMock := newMockDB(t)
	f := &doctorProfileFixture{
		sqlMock:    sqlMock,
		userRepo:   new(mocks.MockUserRepository),
		doctorRepo: new(mocks.MockDoctorProfileRepository),
		reviewRepo: new(mocks.MockDoctorReviewRepository),
		tipRepo:    new(mocks.MockDoctorTipRepository),
		audit:      new(mocks.MockAuditService),
	}
	f.usecase = NewDoctorProfileUsecase(db, quietLogger(), f.userRepo, f.doctorRepo, f.reviewRepo, f.tipRepo, f.audit)
	return f
}

func bareProfile(doctorID uuid.UUID) *entity.DoctorProfile {
	return &entity.DoctorProfile{
		UserID:          doctorID,
		DoctorCode:      "DOC003",
		ConsultationFee: decimal.RequireFromString("500.00"),
		User:            entity.User{ID: doctorID, FullName: "Dr. Meera Iyer", Email: "meera@clinic.test", IsActive: true},
	}
}

func TestDoctorProfileUsecase_UpdateMyProfile(t *testing.T) {
	doctorID := uuid.New()

	t.Run("Complete profile", func(t *testing.T) {
		f := newDoctorProfileFixture(t)
		fee := decimal.RequireFromString("650.456")
		f.sqlMock.ExpectBegin()
		f.doctorRepo.On("FindByUserID", mock.Anything, doctorID).Return(bareProfile(doctorID), nil)
		f.doctorRepo.On("Update", mock.Anything, mock.AnythingOfType("*entity.DoctorProfile")).Return(nil)
		f.audit.On("LogUpdate", mock.Anything, mock.Anything, userRef(doctorID), entity.AuditActionDoctorUpdate, "doctor_profile", "DOC003", mock.Anything, mock.Anything).Return(nil)
		f.sqlMock.ExpectCommit()

		resp, err := f.usecase.UpdateMyProfile(ctxAs(doctorID, entity.RoleIDDoctor), &dto.UpdateDoctorProfileRequest{
			Specialty:          strPtr(" cardiology "),
			Experience:         strPtr("12 years"),
			Qualification:      strPtr("MBBS, MD"),
			Bio:                strPtr("Heart specialist"),
			AvailableDays:      []string{"Monday", " Wednesday "},
			AvailableTimeSlots: []string{"09:00 - 10:00", "10:00 AM - 11:00 AM"},
			ConsultationFee:    &fee,
		})

		require.NoError(t, err)
		assert.Equal(t, "Cardiology", resp.Specialty)
		assert.True(t, resp.IsProfileComplete)
		assert.Equal(t, []string{"Monday", "Wednesday"}, resp.AvailableDays)
		assert.Equal(t, "650.46", resp.ConsultationFee)
		f.userRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		assert.NoError(t, f.sqlMock.ExpectationsWereMet())
	})

	t.Run("Name change updates the user row", func(t *testing.T) {
		f := newDoctorProfileFixture(t)
		f.sqlMock.ExpectBegin()
		f.doctorRepo.On("FindByUserID", mock.Anything, doctorID).Return(bareProfile(doctorID), nil)
		f.userRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *entity.User) bool {
			return u.FullName == "Dr. Meera Rao"
		})).Return(nil)
		f.doctorRepo.On("Update", mock.Anything, mock.Anything).Return(nil)
		f.audit.On("LogUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		f.sqlMock.ExpectCommit()

		resp, err := f.usecase.UpdateMyProfile(ctxAs(doctorID, entity.RoleIDDoctor), &dto.UpdateDoctorProfileRequest{
			FullName: strPtr(" Dr. Meera Rao "),
		})

		require.NoError(t, err)
		assert.False(t, resp.IsProfileComplete)
		f.userRepo.AssertExpectations(t)
	})

	t.Run("Malformed slot is rejected", func(t *testing.T) {
		f := newDoctorProfileFixture(t)
		f.sqlMock.ExpectBegin()
		f.doctorRepo.On("FindByUserID", mock.Anything, doctorID).Return(bareProfile(doctorID), nil)
		f.sqlMock.ExpectRollback()

		_, err := f.usecase.UpdateMyProfile(ctxAs(doctorID, entity.RoleIDDoctor), &dto.UpdateDoctorProfileRequest{
			AvailableTimeSlots: []string{"morning"},
		})

		var fieldErrs FieldErrors
		require.ErrorAs(t, err, &fieldErrs)
		assert.Contains(t, fieldErrs, "availability")
		f.doctorRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Patients have no profile here", func(t *testing.T) {
		f := newDoctorProfileFixture(t)

		_, err := f.usecase.UpdateMyProfile(ctxAs(doctorID, entity.RoleIDPatient), &dto.UpdateDoctorProfileRequest{})

		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestDoctorProfileUsecase_GetDoctorDetail(t *testing.T) {
	doctorID := uuid.New()
	filter := entity.TipFilter{DoctorID: &doctorID}

	t.Run("Fans out and hides contact details", func(t *testing.T) {
		f := newDoctorProfileFixture(t)
		f.doctorRepo.On("FindByUserID", mock.Anything, doctorID).Return(bareProfile(doctorID), nil)
		f.reviewRepo.On("ListByDoctor", mock.Anything, doctorID).Return([]entity.DoctorReview{{ID: 1, DoctorID: doctorID, Rating: 4}}, nil)
		f.reviewRepo.On("Summary", mock.Anything, doctorID).Return(entity.ReviewSummary{Count: 2, Average: 4.25}, nil)
		f.tipRepo.On("List", mock.Anything, filter).Return([]entity.DoctorTip{{ID: 9, DoctorID: doctorID, IsPublished: true}}, nil)

		resp, err := f.usecase.GetDoctorDetail(ctxAs(uuid.New(), entity.RoleIDPatient), doctorID)

		require.NoError(t, err)
		assert.Empty(t, resp.Doctor.Email)
		assert.Len(t, resp.Reviews, 1)
		assert.Equal(t, int64(2), resp.ReviewCount)
		assert.Equal(t, "4.3", resp.AverageRating)
		assert.Len(t, resp.Tips, 1)
	})

	t.Run("Inactive doctor", func(t *testing.T) {
		f := newDoctorProfileFixture(t)
		profile := bareProfile(doctorID)
		profile.User.IsActive = false
		f.doctorRepo.On("FindByUserID", mock.Anything, doctorID).Return(profile, nil)
		f.reviewRepo.On("ListByDoctor", mock.Anything, doctorID).Return([]entity.DoctorReview{}, nil)
		f.reviewRepo.On("Summary", mock.Anything, doctorID).Return(entity.ReviewSummary{}, nil)
		f.tipRepo.On("List", mock.Anything, filter).Return([]entity.DoctorTip{}, nil)

		_, err := f.usecase.GetDoctorDetail(ctxAs(uuid.New(), entity.RoleIDPatient), doctorID)

		assert.ErrorIs(t, err, ErrDoctorNotFound)
	})

	t.Run("Any branch failing fails the lookup", func(t *testing.T) {
		f := newDoctorProfileFixture(t)
		f.doctorRepo.On("FindByUserID", mock.Anything, doctorID).Return(bareProfile(doctorID), nil).Maybe()
		f.reviewRepo.On("ListByDoctor", mock.Anything, doctorID).Return(nil, errors.New("db down")).Maybe()
		f.reviewRepo.On("Summary", mock.Anything, doctorID).Return(entity.ReviewSummary{}, nil).Maybe()
		f.tipRepo.On("List", mock.Anything, filter).Return([]entity.DoctorTip{}, nil).Maybe()

		_, err := f.usecase.GetDoctorDetail(ctxAs(uuid.New(), entity.RoleIDPatient), doctorID)

		assert.EqualError(t, err, "db down")
	})
}

func TestDoctorProfileUsecase_CreateReview(t *testing.T) {
	doctorID, patientID := uuid.New(), uuid.New()

	t.Run("Success", func(t *testing.T) {
		f := newDoctorProfileFixture(t)
		f.doctorRepo.On("FindByUserID", mock.Anything, doctorID).Return(bareProfile(doctorID), nil)
		f.reviewRepo.On("Create", mock.Anything, mock.MatchedBy(func(r *entity.DoctorReview) bool {
			return r.Rating == 5 && r.Comment == "Very kind" && *r.UserID == patientID
		})).Return(nil)

		resp, err := f.usecase.CreateReview(ctxAs(patientID, entity.RoleIDPatient), doctorID, &dto.CreateReviewRequest{Rating: 5, Comment: " Very kind "})

		require.NoError(t, err)
		assert.Equal(t, 5, resp.Rating)
	})

	t.Run("Rating out of range", func(t *testing.T) {
		f := newDoctorProfileFixture(t)

		_, err := f.usecase.CreateReview(ctxAs(patientID, entity.RoleIDPatient), doctorID, &dto.CreateReviewRequest{Rating: 6})

		var fieldErrs FieldErrors
		require.ErrorAs(t, err, &fieldErrs)
		assert.Contains(t, fieldErrs, "rating")
	})

	t.Run("Unknown doctor", func(t *testing.T) {
		f := newDoctorProfileFixture(t)
		f.doctorRepo.On("FindByUserID", mock.Anything, doctorID).Return(nil, nil)

		_, err := f.usecase.CreateReview(ctxAs(patientID, entity.RoleIDPatient), doctorID, &dto.CreateReviewRequest{Rating: 3})

		assert.ErrorIs(t, err, ErrDoctorNotFound)
	})

	t.Run("Doctors cannot review", func(t *testing.T) {
		f := newDoctorProfileFixture(t)

		_, err := f.usecase.CreateReview(ctxAs(uuid.New(), entity.RoleIDDoctor), doctorID, &dto.CreateReviewRequest{Rating: 3})

		assert.ErrorIs(t, err, ErrForbidden)
	})
}
