package usecase

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"

	"clinic-backend/internal/converter"
	"clinic-backend/internal/delivery/dto"
	"clinic-backend/internal/domain/entity"
	"clinic-backend/internal/domain/repository"
	"clinic-backend/internal/infrastructure/database"
	"clinic-backend/internal/infrastructure/mail"
	"clinic-backend/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrStaffNotFound    = errors.New("staff member not found")
	ErrInvalidStaffRole = errors.New("staff role must be doctor or pharmacist")
)

// StaffUsecase is the admin side of doctor and pharmacist accounts.
type StaffUsecase interface {
	CreateStaff(ctx context.Context, role entity.RoleID, req *dto.CreateStaffRequest) (*dto.UserResponse, error)
	ListStaff(ctx context.Context, role entity.RoleID) (*dto.StaffListResponse, error)
	SetStaffStatus(ctx context.Context, role entity.RoleID, staffID uuid.UUID, req *dto.SetStaffStatusRequest) (*dto.UserResponse, error)
}

type staffUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	userRepo     repository.UserRepository
	doctorRepo   repository.DoctorProfileRepository
	auditService service.AuditService
	tokenStore   service.TokenStore
	mailer       mail.Mailer
	defaultFee   decimal.Decimal
}

func NewStaffUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	doctorRepo repository.DoctorProfileRepository,
	auditService service.AuditService,
	tokenStore service.TokenStore,
	mailer mail.Mailer,
	defaultFee decimal.Decimal,
) StaffUsecase {
	return &staffUsecase{
		db:           db,
		log:          log,
		userRepo:     userRepo,
		doctorRepo:   doctorRepo,
		auditService: auditService,
		tokenStore:   tokenStore,
		mailer:       mailer,
		defaultFee:   defaultFee,
	}
}

func isStaffRole(role entity.RoleID) bool {
	return role == entity.RoleIDDoctor || role == entity.RoleIDPharmacist
}

// CreateStaff creates the account, and for doctors an empty profile with the
// next DOC code. The credentials are mailed after commit.
func (u *staffUsecase) CreateStaff(ctx context.Context, role entity.RoleID, req *dto.CreateStaffRequest) (*dto.UserResponse, error) {
	adminID, _, err := authorize(ctx, entity.CapManageStaff)
	if err != nil {
		return nil, err
	}
	if !isStaffRole(role) {
		return nil, ErrInvalidStaffRole
	}
	if req.ConsultationFee != nil && req.ConsultationFee.IsNegative() {
		return nil, FieldErrors{"consultation_fee": "Must not be negative"}
	}

	password := req.Password
	if password == "" {
		if password, err = generatePassword(); err != nil {
			u.log.Warnf("Failed to generate password: %+v", err)
			return nil, err
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user := &entity.User{
		Email:    normalizeEmail(req.Email),
		Password: string(hashedPassword),
		FullName: strings.TrimSpace(req.FullName),
		Phone:    strings.TrimSpace(req.Phone),
		RoleID:   role,
		IsActive: true,
	}
	if err := u.userRepo.Create(tx, user); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to create %s: %+v", role, err)
		return nil, err
	}

	action := entity.AuditActionPharmacistCreate
	if role == entity.RoleIDDoctor {
		action = entity.AuditActionDoctorCreate

		seq, err := u.doctorRepo.NextCode(tx)
		if err != nil {
			u.log.Warnf("Failed to draw doctor code: %+v", err)
			return nil, err
		}

		profile := &entity.DoctorProfile{
			UserID:          user.ID,
			DoctorCode:      entity.FormatDoctorCode(seq),
			Specialty:       req.Specialty,
			ConsultationFee: u.defaultFee,
		}
		if req.ConsultationFee != nil {
			profile.ConsultationFee = *req.ConsultationFee
		}
		profile.Normalize()

		if err := u.doctorRepo.Create(tx, profile); err != nil {
			u.log.Warnf("Failed to create doctor profile: %+v", err)
			return nil, err
		}
		user.DoctorProfile = profile
	}

	if err := u.auditService.LogCreate(ctx, tx, userRef(adminID), action, "user", user.ID.String(), entity.JSON{
		"email": user.Email,
		"role":  role.String(),
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	if err := u.mailer.Send(ctx, mail.StaffWelcomeMessage(user.Email, user.FullName, role.String(), password)); err != nil {
		u.log.Warnf("Failed to send welcome mail to %s: %+v", user.Email, err)
	}

	u.log.Infof("Staff account created: id=%s, role=%s", user.ID, role)
	return converter.UserToResponse(user), nil
}

func (u *staffUsecase) ListStaff(ctx context.Context, role entity.RoleID) (*dto.StaffListResponse, error) {
	if _, _, err := authorize(ctx, entity.CapManageStaff); err != nil {
		return nil, err
	}
	if !isStaffRole(role) {
		return nil, ErrInvalidStaffRole
	}

	users, err := u.userRepo.FindByRole(u.db.WithContext(ctx), role)
	if err != nil {
		u.log.Warnf("Failed to list %s accounts: %+v", role, err)
		return nil, err
	}

	return &dto.StaffListResponse{
		Staff: converter.UsersToResponses(users),
		Total: len(users),
	}, nil
}

// SetStaffStatus activates or deactivates a staff account. Deactivation also
// revokes every token the account holds.
func (u *staffUsecase) SetStaffStatus(ctx context.Context, role entity.RoleID, staffID uuid.UUID, req *dto.SetStaffStatusRequest) (*dto.UserResponse, error) {
	adminID, _, err := authorize(ctx, entity.CapManageStaff)
	if err != nil {
		return nil, err
	}
	if !isStaffRole(role) {
		return nil, ErrInvalidStaffRole
	}
	if req.IsActive == nil {
		return nil, FieldErrors{"is_active": "This field is required"}
	}
	active := *req.IsActive

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	rows, err := u.userRepo.SetActive(tx, staffID, role, active)
	if err != nil {
		u.log.Warnf("Failed to set status of %s: %+v", staffID, err)
		return nil, err
	}
	if rows == 0 {
		return nil, ErrStaffNotFound
	}

	if err := u.auditService.LogUpdate(ctx, tx, userRef(adminID), entity.AuditActionStaffStatusChange, "user", staffID.String(), nil, entity.JSON{
		"is_active": active,
		"role":      role.String(),
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	if !active {
		if err := u.tokenStore.RevokeAll(ctx, staffID); err != nil {
			u.log.Warnf("Failed to revoke tokens of deactivated user %s: %+v", staffID, err)
		}
	}

	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), staffID)
	if err != nil {
		u.log.Warnf("Failed to reload user %s: %+v", staffID, err)
		return nil, err
	}
	if user == nil {
		return nil, ErrStaffNotFound
	}
	return converter.UserToResponse(user), nil
}

// generatePassword returns 12 URL-safe random characters.
func generatePassword() (string, error) {
	buf := make([]byte, 9)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
