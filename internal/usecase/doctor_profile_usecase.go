package usecase

import (
	"context"
	"errors"
	"strings"

	"clinic-backend/internal/converter"
	"clinic-backend/internal/delivery/dto"
	"clinic-backend/internal/domain/entity"
	"clinic-backend/internal/domain/repository"
	"clinic-backend/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

var ErrDoctorNotFound = errors.New("doctor not found")

type DoctorProfileUsecase interface {
	GetMyProfile(ctx context.Context) (*dto.DoctorProfileResponse, error)
	UpdateMyProfile(ctx context.Context, req *dto.UpdateDoctorProfileRequest) (*dto.DoctorProfileResponse, error)
	ListDoctors(ctx context.Context, query dto.DoctorListQuery) (*dto.DoctorListResponse, error)
	GetDoctorDetail(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorDetailResponse, error)
	ListReviews(ctx context.Context, doctorID uuid.UUID) ([]dto.ReviewResponse, error)
	CreateReview(ctx context.Context, doctorID uuid.UUID, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error)
}

type doctorProfileUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	userRepo     repository.UserRepository
	doctorRepo   repository.DoctorProfileRepository
	reviewRepo   repository.DoctorReviewRepository
	tipRepo      repository.DoctorTipRepository
	auditService service.AuditService
}

func NewDoctorProfileUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	doctorRepo repository.DoctorProfileRepository,
	reviewRepo repository.DoctorReviewRepository,
	tipRepo repository.DoctorTipRepository,
	auditService service.AuditService,
) DoctorProfileUsecase {
	return &doctorProfileUsecase{
		db:           db,
		log:          log,
		userRepo:     userRepo,
		doctorRepo:   doctorRepo,
		reviewRepo:   reviewRepo,
		tipRepo:      tipRepo,
		auditService: auditService,
	}
}

func (u *doctorProfileUsecase) GetMyProfile(ctx context.Context) (*dto.DoctorProfileResponse, error) {
	doctorID, _, err := authorize(ctx, entity.CapManageOwnProfile)
	if err != nil {
		return nil, err
	}

	profile, err := u.doctorRepo.FindByUserID(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor profile: %+v", err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrDoctorNotFound
	}

	return converter.DoctorProfileToResponse(profile), nil
}

// UpdateMyProfile applies the supplied fields, rejects availability that
// does not parse and recomputes completeness.
func (u *doctorProfileUsecase) UpdateMyProfile(ctx context.Context, req *dto.UpdateDoctorProfileRequest) (*dto.DoctorProfileResponse, error) {
	doctorID, _, err := authorize(ctx, entity.CapManageOwnProfile)
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	profile, err := u.doctorRepo.FindByUserID(tx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor profile: %+v", err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrDoctorNotFound
	}

	oldValue := converter.DoctorProfileToResponse(profile)

	if err := applyProfileUpdate(profile, req); err != nil {
		return nil, err
	}

	if req.FullName != nil || req.Phone != nil {
		if req.FullName != nil {
			profile.User.FullName = strings.TrimSpace(*req.FullName)
		}
		if req.Phone != nil {
			profile.User.Phone = strings.TrimSpace(*req.Phone)
		}
		if err := u.userRepo.Update(tx, &profile.User); err != nil {
			u.log.Warnf("Failed to update doctor user: %+v", err)
			return nil, err
		}
	}

	if err := u.doctorRepo.Update(tx, profile); err != nil {
		u.log.Warnf("Failed to update doctor profile: %+v", err)
		return nil, err
	}

	newValue := converter.DoctorProfileToResponse(profile)
	if err := u.auditService.LogUpdate(ctx, tx, userRef(doctorID), entity.AuditActionDoctorUpdate, "doctor_profile", profile.DoctorCode, oldValue, newValue); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return newValue, nil
}

func applyProfileUpdate(profile *entity.DoctorProfile, req *dto.UpdateDoctorProfileRequest) error {
	if req.Specialty != nil {
		profile.Specialty = *req.Specialty
	}
	if req.Experience != nil {
		profile.Experience = *req.Experience
	}
	if req.Qualification != nil {
		profile.Qualification = *req.Qualification
	}
	if req.LicenseNumber != nil {
		profile.LicenseNumber = strings.TrimSpace(*req.LicenseNumber)
	}
	if req.Bio != nil {
		profile.Bio = *req.Bio
	}
	if req.AvailableDays != nil {
		profile.AvailableDays = trimAll(req.AvailableDays)
	}
	if req.AvailableTimeSlots != nil {
		profile.AvailableTimeSlots = trimAll(req.AvailableTimeSlots)
	}
	if req.ConsultationFee != nil {
		if req.ConsultationFee.IsNegative() {
			return FieldErrors{"consultation_fee": "Must not be negative"}
		}
		profile.ConsultationFee = req.ConsultationFee.Round(2)
	}

	if err := profile.ValidateAvailability(); err != nil {
		return FieldErrors{"availability": err.Error()}
	}
	profile.Normalize()
	return nil
}

func trimAll(values []string) entity.StringList {
	out := make(entity.StringList, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// ListDoctors is the public directory of active doctors with complete
// profiles.
func (u *doctorProfileUsecase) ListDoctors(ctx context.Context, query dto.DoctorListQuery) (*dto.DoctorListResponse, error) {
	profiles, err := u.doctorRepo.FindPublic(u.db.WithContext(ctx), entity.DoctorFilter{
		Specialty: strings.TrimSpace(query.Specialty),
		Search:    strings.TrimSpace(query.Search),
	})
	if err != nil {
		u.log.Warnf("Failed to list doctors: %+v", err)
		return nil, err
	}

	doctors := converter.DoctorProfilesToResponses(profiles)
	for i := range doctors {
		doctors[i].Email = ""
		doctors[i].Phone = ""
		doctors[i].LicenseNumber = ""
	}

	return &dto.DoctorListResponse{
		Doctors: doctors,
		Total:   len(doctors),
	}, nil
}

// GetDoctorDetail loads the profile, reviews, rating summary and published
// tips concurrently.
func (u *doctorProfileUsecase) GetDoctorDetail(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorDetailResponse, error) {
	var (
		profile *entity.DoctorProfile
		reviews []entity.DoctorReview
		summary entity.ReviewSummary
		tips    []entity.DoctorTip
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		profile, err = u.doctorRepo.FindByUserID(u.db.WithContext(gctx), doctorID)
		return err
	})
	g.Go(func() error {
		var err error
		reviews, err = u.reviewRepo.ListByDoctor(u.db.WithContext(gctx), doctorID)
		return err
	})
	g.Go(func() error {
		var err error
		summary, err = u.reviewRepo.Summary(u.db.WithContext(gctx), doctorID)
		return err
	})
	g.Go(func() error {
		var err error
		tips, err = u.tipRepo.List(u.db.WithContext(gctx), entity.TipFilter{DoctorID: &doctorID})
		return err
	})
	if err := g.Wait(); err != nil {
		u.log.Warnf("Failed to load doctor %s: %+v", doctorID, err)
		return nil, err
	}

	if profile == nil || !profile.User.IsActive {
		return nil, ErrDoctorNotFound
	}

	doctor := converter.DoctorProfileToResponse(profile)
	doctor.Email = ""
	doctor.Phone = ""

	return &dto.DoctorDetailResponse{
		Doctor:        *doctor,
		Reviews:       converter.ReviewsToResponses(reviews),
		ReviewCount:   summary.Count,
		AverageRating: converter.AverageRating(summary.Average),
		Tips:          converter.TipsToResponses(tips),
	}, nil
}

func (u *doctorProfileUsecase) ListReviews(ctx context.Context, doctorID uuid.UUID) ([]dto.ReviewResponse, error) {
	reviews, err := u.reviewRepo.ListByDoctor(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to list reviews of doctor %s: %+v", doctorID, err)
		return nil, err
	}
	return converter.ReviewsToResponses(reviews), nil
}

func (u *doctorProfileUsecase) CreateReview(ctx context.Context, doctorID uuid.UUID, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	userID, _, err := authorize(ctx, entity.CapReviewDoctor)
	if err != nil {
		return nil, err
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, FieldErrors{"rating": "Must be between 1 and 5"}
	}

	db := u.db.WithContext(ctx)
	profile, err := u.doctorRepo.FindByUserID(db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor profile: %+v", err)
		return nil, err
	}
	if profile == nil || !profile.User.IsActive {
		return nil, ErrDoctorNotFound
	}

	review := &entity.DoctorReview{
		DoctorID: doctorID,
		UserID:   userRef(userID),
		Rating:   req.Rating,
		Comment:  strings.TrimSpace(req.Comment),
	}
	if err := u.reviewRepo.Create(db, review); err != nil {
		u.log.Warnf("Failed to create review: %+v", err)
		return nil, err
	}

	resp := converter.ReviewToResponse(review)
	return &resp, nil
}
