// Package mocks holds testify mocks of the repository and service interfaces.
package mocks

import (
	"time"

	"clinic-backend/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type MockAppointmentRepository struct {
	mock.Mock
}

func (m *MockAppointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	args := m.Called(db, appointment)
	return args.Error(0)
}

func (m *MockAppointmentRepository) FindByID(db *gorm.DB, id uint64) (*entity.Appointment, error) {
	args := m.Called(db, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) List(db *gorm.DB, filter entity.AppointmentFilter) ([]entity.Appointment, error) {
	args := m.Called(db, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) ExistsAtSlot(db *gorm.DB, doctorID uuid.UUID, date time.Time, at string, excludeID uint64) (bool, error) {
	args := m.Called(db, doctorID, date, at, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAppointmentRepository) UpdateSchedule(db *gorm.DB, id uint64, date time.Time, at string, reason string) (int64, error) {
	args := m.Called(db, id, date, at, reason)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAppointmentRepository) Cancel(db *gorm.DB, id uint64, outcome entity.CancellationOutcome) (int64, error) {
	args := m.Called(db, id, outcome)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAppointmentRepository) UpdateStatus(db *gorm.DB, id uint64, from, to entity.AppointmentStatus) (int64, error) {
	args := m.Called(db, id, from, to)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAppointmentRepository) ConfirmPayment(db *gorm.DB, id uint64, method, paymentID string) (int64, error) {
	args := m.Called(db, id, method, paymentID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAppointmentRepository) NextSequence(db *gorm.DB) (int64, error) {
	args := m.Called(db)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAppointmentRepository) LastAppointmentID(db *gorm.DB) (string, error) {
	args := m.Called(db)
	return args.String(0), args.Error(1)
}

func (m *MockAppointmentRepository) Count(db *gorm.DB) (int64, error) {
	args := m.Called(db)
	return args.Get(0).(int64), args.Error(1)
}

type MockAuditLogRepository struct {
	mock.Mock
}

func (m *MockAuditLogRepository) Create(db *gorm.DB, log *entity.AuditLog) error {
	args := m.Called(db, log)
	return args.Error(0)
}

func (m *MockAuditLogRepository) FindAll(db *gorm.DB, filter entity.AuditLogFilter) ([]entity.AuditLog, int64, error) {
	args := m.Called(db, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]entity.AuditLog), args.Get(1).(int64), args.Error(2)
}

func (m *MockAuditLogRepository) FindByID(db *gorm.DB, id int64) (*entity.AuditLog, error) {
	args := m.Called(db, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AuditLog), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(db *gorm.DB, user *entity.User) error {
	args := m.Called(db, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByEmail(db *gorm.DB, email string) (*entity.User, error) {
	args := m.Called(db, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	args := m.Called(db, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindByRole(db *gorm.DB, role entity.RoleID) ([]entity.User, error) {
	args := m.Called(db, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.User), args.Error(1)
}

func (m *MockUserRepository) Update(db *gorm.DB, user *entity.User) error {
	args := m.Called(db, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(db *gorm.DB, id uuid.UUID, hash string) error {
	args := m.Called(db, id, hash)
	return args.Error(0)
}

func (m *MockUserRepository) SetActive(db *gorm.DB, id uuid.UUID, role entity.RoleID, active bool) (int64, error) {
	args := m.Called(db, id, role, active)
	return args.Get(0).(int64), args.Error(1)
}

type MockDoctorProfileRepository struct {
	mock.Mock
}

func (m *MockDoctorProfileRepository) Create(db *gorm.DB, profile *entity.DoctorProfile) error {
	args := m.Called(db, profile)
	return args.Error(0)
}

func (m *MockDoctorProfileRepository) FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.DoctorProfile, error) {
	args := m.Called(db, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.DoctorProfile), args.Error(1)
}

func (m *MockDoctorProfileRepository) FindPublic(db *gorm.DB, filter entity.DoctorFilter) ([]entity.DoctorProfile, error) {
	args := m.Called(db, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.DoctorProfile), args.Error(1)
}

func (m *MockDoctorProfileRepository) Update(db *gorm.DB, profile *entity.DoctorProfile) error {
	args := m.Called(db, profile)
	return args.Error(0)
}

func (m *MockDoctorProfileRepository) NextCode(db *gorm.DB) (int64, error) {
	args := m.Called(db)
	return args.Get(0).(int64), args.Error(1)
}

type MockPrescriptionRepository struct {
	mock.Mock
}

func (m *MockPrescriptionRepository) Create(db *gorm.DB, prescription *entity.Prescription) error {
	args := m.Called(db, prescription)
	return args.Error(0)
}

func (m *MockPrescriptionRepository) FindByID(db *gorm.DB, id uint64) (*entity.Prescription, error) {
	args := m.Called(db, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Prescription), args.Error(1)
}

func (m *MockPrescriptionRepository) FindByAppointmentID(db *gorm.DB, appointmentID uint64) (*entity.Prescription, error) {
	args := m.Called(db, appointmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Prescription), args.Error(1)
}

func (m *MockPrescriptionRepository) List(db *gorm.DB, filter entity.PrescriptionFilter) ([]entity.Prescription, error) {
	args := m.Called(db, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Prescription), args.Error(1)
}

type MockMedicineCategoryRepository struct {
	mock.Mock
}

func (m *MockMedicineCategoryRepository) FirstOrCreate(db *gorm.DB, category *entity.MedicineCategory) (bool, error) {
	args := m.Called(db, category)
	return args.Bool(0), args.Error(1)
}

func (m *MockMedicineCategoryRepository) FindAll(db *gorm.DB) ([]entity.MedicineCategory, error) {
	args := m.Called(db)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.MedicineCategory), args.Error(1)
}

func (m *MockMedicineCategoryRepository) FindByID(db *gorm.DB, id uint64) (*entity.MedicineCategory, error) {
	args := m.Called(db, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.MedicineCategory), args.Error(1)
}

func (m *MockMedicineCategoryRepository) Update(db *gorm.DB, category *entity.MedicineCategory) error {
	args := m.Called(db, category)
	return args.Error(0)
}

func (m *MockMedicineCategoryRepository) Delete(db *gorm.DB, id uint64) (int64, error) {
	args := m.Called(db, id)
	return args.Get(0).(int64), args.Error(1)
}

type MockMedicineRepository struct {
	mock.Mock
}

func (m *MockMedicineRepository) Create(db *gorm.DB, medicine *entity.Medicine) error {
	args := m.Called(db, medicine)
	return args.Error(0)
}

func (m *MockMedicineRepository) FindAll(db *gorm.DB, filter entity.MedicineFilter) ([]entity.Medicine, int64, error) {
	args := m.Called(db, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]entity.Medicine), args.Get(1).(int64), args.Error(2)
}

func (m *MockMedicineRepository) FindByID(db *gorm.DB, id uint64) (*entity.Medicine, error) {
	args := m.Called(db, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Medicine), args.Error(1)
}

func (m *MockMedicineRepository) FindByIDs(db *gorm.DB, ids []uint64) ([]entity.Medicine, error) {
	args := m.Called(db, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Medicine), args.Error(1)
}

func (m *MockMedicineRepository) Update(db *gorm.DB, medicine *entity.Medicine) error {
	args := m.Called(db, medicine)
	return args.Error(0)
}

func (m *MockMedicineRepository) Delete(db *gorm.DB, id uint64) (int64, error) {
	args := m.Called(db, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMedicineRepository) DecrementStock(db *gorm.DB, id uint64, qty int) (int64, error) {
	args := m.Called(db, id, qty)
	return args.Get(0).(int64), args.Error(1)
}

type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) Create(db *gorm.DB, sale *entity.Sale) error {
	args := m.Called(db, sale)
	return args.Error(0)
}

func (m *MockSaleRepository) FindByID(db *gorm.DB, id uint64) (*entity.Sale, error) {
	args := m.Called(db, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindAll(db *gorm.DB, limit, offset int) ([]entity.Sale, int64, error) {
	args := m.Called(db, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]entity.Sale), args.Get(1).(int64), args.Error(2)
}

type MockChatRepository struct {
	mock.Mock
}

func (m *MockChatRepository) CreateSession(db *gorm.DB, session *entity.ChatSession) error {
	args := m.Called(db, session)
	return args.Error(0)
}

func (m *MockChatRepository) FindSession(db *gorm.DB, id uint64, userID uuid.UUID) (*entity.ChatSession, error) {
	args := m.Called(db, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ChatSession), args.Error(1)
}

func (m *MockChatRepository) ListSessions(db *gorm.DB, userID uuid.UUID) ([]entity.ChatSession, error) {
	args := m.Called(db, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ChatSession), args.Error(1)
}

func (m *MockChatRepository) TouchSession(db *gorm.DB, id uint64) error {
	args := m.Called(db, id)
	return args.Error(0)
}

func (m *MockChatRepository) CreateMessage(db *gorm.DB, message *entity.ChatMessage) error {
	args := m.Called(db, message)
	return args.Error(0)
}

func (m *MockChatRepository) ListMessages(db *gorm.DB, sessionID uint64) ([]entity.ChatMessage, error) {
	args := m.Called(db, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ChatMessage), args.Error(1)
}

type MockDoctorTipRepository struct {
	mock.Mock
}

func (m *MockDoctorTipRepository) Create(db *gorm.DB, tip *entity.DoctorTip) error {
	args := m.Called(db, tip)
	return args.Error(0)
}

func (m *MockDoctorTipRepository) FindByID(db *gorm.DB, id uint64) (*entity.DoctorTip, error) {
	args := m.Called(db, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.DoctorTip), args.Error(1)
}

func (m *MockDoctorTipRepository) List(db *gorm.DB, filter entity.TipFilter) ([]entity.DoctorTip, error) {
	args := m.Called(db, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.DoctorTip), args.Error(1)
}

func (m *MockDoctorTipRepository) Update(db *gorm.DB, tip *entity.DoctorTip) error {
	args := m.Called(db, tip)
	return args.Error(0)
}

func (m *MockDoctorTipRepository) Delete(db *gorm.DB, id uint64, doctorID uuid.UUID) (int64, error) {
	args := m.Called(db, id, doctorID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDoctorTipRepository) IncrementViews(db *gorm.DB, id uint64) error {
	args := m.Called(db, id)
	return args.Error(0)
}

type MockDoctorReviewRepository struct {
	mock.Mock
}

func (m *MockDoctorReviewRepository) Create(db *gorm.DB, review *entity.DoctorReview) error {
	args := m.Called(db, review)
	return args.Error(0)
}

func (m *MockDoctorReviewRepository) ListByDoctor(db *gorm.DB, doctorID uuid.UUID) ([]entity.DoctorReview, error) {
	args := m.Called(db, doctorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.DoctorReview), args.Error(1)
}

func (m *MockDoctorReviewRepository) Summary(db *gorm.DB, doctorID uuid.UUID) (entity.ReviewSummary, error) {
	args := m.Called(db, doctorID)
	return args.Get(0).(entity.ReviewSummary), args.Error(1)
}
