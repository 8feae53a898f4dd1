package usecase

import (
	"context"
	"errors"
	"strings"

	"clinic-backend/internal/converter"
	"clinic-backend/internal/delivery/dto"
	"clinic-backend/internal/domain/entity"
	"clinic-backend/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrTipNotFound = errors.New("tip not found")

type TipUsecase interface {
	Create(ctx context.Context, req *dto.TipRequest) (*dto.TipResponse, error)
	List(ctx context.Context, query dto.TipListQuery) (*dto.TipListResponse, error)
	Get(ctx context.Context, id uint64) (*dto.TipResponse, error)
	Update(ctx context.Context, id uint64, req *dto.TipRequest) (*dto.TipResponse, error)
	Delete(ctx context.Context, id uint64) error
}

type tipUsecase struct {
	db      *gorm.DB
	log     *logrus.Logger
	tipRepo repository.DoctorTipRepository
}

func NewTipUsecase(db *gorm.DB, log *logrus.Logger, tipRepo repository.DoctorTipRepository) TipUsecase {
	return &tipUsecase{
		db:      db,
		log:     log,
		tipRepo: tipRepo,
	}
}

func applyTip(tip *entity.DoctorTip, req *dto.TipRequest) error {
	errs := FieldErrors{}

	tip.Title = strings.TrimSpace(req.Title)
	tip.Body = strings.TrimSpace(req.Body)
	tip.Tags = trimAll(req.Tags)
	if req.IsPublished != nil {
		tip.IsPublished = *req.IsPublished
	}

	if tip.Title == "" {
		errs["title"] = "This field is required"
	}
	if tip.Body == "" {
		errs["body"] = "This field is required"
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (u *tipUsecase) Create(ctx context.Context, req *dto.TipRequest) (*dto.TipResponse, error) {
	doctorID, _, err := authorize(ctx, entity.CapWriteTips)
	if err != nil {
		return nil, err
	}

	tip := &entity.DoctorTip{DoctorID: doctorID, IsPublished: true}
	if err := applyTip(tip, req); err != nil {
		return nil, err
	}

	if err := u.tipRepo.Create(u.db.WithContext(ctx), tip); err != nil {
		u.log.Warnf("Failed to create tip: %+v", err)
		return nil, err
	}

	u.log.Infof("Tip created: id=%d, doctor=%s", tip.ID, doctorID)
	return converter.TipToResponse(tip), nil
}

// List returns published tips, or with Mine set every tip of the calling
// doctor including drafts.
func (u *tipUsecase) List(ctx context.Context, query dto.TipListQuery) (*dto.TipListResponse, error) {
	filter := entity.TipFilter{Search: strings.TrimSpace(query.Search)}
	if query.Mine {
		doctorID, _, err := authorize(ctx, entity.CapWriteTips)
		if err != nil {
			return nil, err
		}
		filter.OwnerID = &doctorID
	} else {
		filter.DoctorID = query.DoctorID
	}

	tips, err := u.tipRepo.List(u.db.WithContext(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to list tips: %+v", err)
		return nil, err
	}

	return &dto.TipListResponse{
		Tips:  converter.TipsToResponses(tips),
		Total: len(tips),
	}, nil
}

// Get counts a view on published tips. Drafts are visible to their author
// only.
func (u *tipUsecase) Get(ctx context.Context, id uint64) (*dto.TipResponse, error) {
	db := u.db.WithContext(ctx)
	tip, err := u.tipRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find tip %d: %+v", id, err)
		return nil, err
	}
	if tip == nil {
		return nil, ErrTipNotFound
	}

	if !tip.IsPublished {
		callerID, _, err := identity(ctx)
		if err != nil || callerID != tip.DoctorID {
			return nil, ErrTipNotFound
		}
		return converter.TipToResponse(tip), nil
	}

	if err := u.tipRepo.IncrementViews(db, tip.ID); err != nil {
		u.log.Warnf("Failed to count view of tip %d: %+v", tip.ID, err)
	} else {
		tip.Views++
	}
	return converter.TipToResponse(tip), nil
}

func (u *tipUsecase) Update(ctx context.Context, id uint64, req *dto.TipRequest) (*dto.TipResponse, error) {
	doctorID, _, err := authorize(ctx, entity.CapWriteTips)
	if err != nil {
		return nil, err
	}

	db := u.db.WithContext(ctx)
	tip, err := u.tipRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find tip %d: %+v", id, err)
		return nil, err
	}
	if tip == nil {
		return nil, ErrTipNotFound
	}
	if tip.DoctorID != doctorID {
		return nil, ErrForbidden
	}

	if err := applyTip(tip, req); err != nil {
		return nil, err
	}

	if err := u.tipRepo.Update(db, tip); err != nil {
		u.log.Warnf("Failed to update tip %d: %+v", id, err)
		return nil, err
	}

	return converter.TipToResponse(tip), nil
}

func (u *tipUsecase) Delete(ctx context.Context, id uint64) error {
	doctorID, _, err := authorize(ctx, entity.CapWriteTips)
	if err != nil {
		return err
	}

	rows, err := u.tipRepo.Delete(u.db.WithContext(ctx), id, doctorID)
	if err != nil {
		u.log.Warnf("Failed to delete tip %d: %+v", id, err)
		return err
	}
	if rows == 0 {
		return ErrTipNotFound
	}
	return nil
}
