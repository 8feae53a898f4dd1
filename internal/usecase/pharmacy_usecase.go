package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"clinic-backend/internal/converter"
	"clinic-backend/internal/delivery/dto"
	"clinic-backend/internal/domain/entity"
	"clinic-backend/internal/domain/repository"
	"clinic-backend/internal/infrastructure/database"
	"clinic-backend/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound  = errors.New("category not found")
	ErrCategoryExists    = errors.New("category already exists")
	ErrMedicineNotFound  = errors.New("medicine not found")
	ErrMedicineInUse     = errors.New("medicine is referenced by recorded sales")
	ErrSaleNotFound      = errors.New("sale not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Paging turns a 1-based page and a page size into limit and offset.
func Paging(page, limit int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit, (page - 1) * limit
}

type PharmacyUsecase interface {
	CreateCategory(ctx context.Context, req *dto.CategoryRequest) (*dto.CategoryResponse, bool, error)
	ListCategories(ctx context.Context) ([]dto.CategoryResponse, error)
	UpdateCategory(ctx context.Context, id uint64, req *dto.CategoryRequest) (*dto.CategoryResponse, error)
	DeleteCategory(ctx context.Context, id uint64) error

	CreateMedicine(ctx context.Context, req *dto.MedicineRequest) (*dto.MedicineResponse, error)
	ListMedicines(ctx context.Context, query dto.MedicineListQuery) (*dto.MedicineListResponse, error)
	GetMedicine(ctx context.Context, id uint64) (*dto.MedicineResponse, error)
	UpdateMedicine(ctx context.Context, id uint64, req *dto.MedicineRequest) (*dto.MedicineResponse, error)
	DeleteMedicine(ctx context.Context, id uint64) error

	CreateSale(ctx context.Context, req *dto.CreateSaleRequest) (*dto.SaleResponse, error)
	ListSales(ctx context.Context, page, limit int) (*dto.SaleListResponse, error)
	GetSale(ctx context.Context, id uint64) (*dto.SaleResponse, error)
}

type pharmacyUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	categoryRepo repository.MedicineCategoryRepository
	medicineRepo repository.MedicineRepository
	saleRepo     repository.SaleRepository
	auditService service.AuditService
}

func NewPharmacyUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	categoryRepo repository.MedicineCategoryRepository,
	medicineRepo repository.MedicineRepository,
	saleRepo repository.SaleRepository,
	auditService service.AuditService,
) PharmacyUsecase {
	return &pharmacyUsecase{
		db:           db,
		log:          log,
		categoryRepo: categoryRepo,
		medicineRepo: medicineRepo,
		saleRepo:     saleRepo,
		auditService: auditService,
	}
}

func newCategory(req *dto.CategoryRequest) (*entity.MedicineCategory, error) {
	name := strings.TrimSpace(req.Name)
	slug := entity.Slugify(name)
	if slug == "" {
		return nil, FieldErrors{"name": "Must contain letters or digits"}
	}
	return &entity.MedicineCategory{Name: name, Slug: slug}, nil
}

// CreateCategory returns the existing category when one with the same slug
// is already stored. The bool reports whether a row was inserted.
func (u *pharmacyUsecase) CreateCategory(ctx context.Context, req *dto.CategoryRequest) (*dto.CategoryResponse, bool, error) {
	if _, _, err := authorize(ctx, entity.CapManageCatalog); err != nil {
		return nil, false, err
	}

	category, err := newCategory(req)
	if err != nil {
		return nil, false, err
	}

	created, err := u.categoryRepo.FirstOrCreate(u.db.WithContext(ctx), category)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, false, ErrCategoryExists
		}
		u.log.Warnf("Failed to create category: %+v", err)
		return nil, false, err
	}

	return converter.CategoryToResponse(category), created, nil
}

func (u *pharmacyUsecase) ListCategories(ctx context.Context) ([]dto.CategoryResponse, error) {
	categories, err := u.categoryRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to list categories: %+v", err)
		return nil, err
	}
	return converter.CategoriesToResponses(categories), nil
}

func (u *pharmacyUsecase) UpdateCategory(ctx context.Context, id uint64, req *dto.CategoryRequest) (*dto.CategoryResponse, error) {
	if _, _, err := authorize(ctx, entity.CapManageCatalog); err != nil {
		return nil, err
	}

	changes, err := newCategory(req)
	if err != nil {
		return nil, err
	}

	db := u.db.WithContext(ctx)
	category, err := u.categoryRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find category %d: %+v", id, err)
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}

	category.Name = changes.Name
	category.Slug = changes.Slug
	if err := u.categoryRepo.Update(db, category); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrCategoryExists
		}
		u.log.Warnf("Failed to update category %d: %+v", id, err)
		return nil, err
	}

	return converter.CategoryToResponse(category), nil
}

// DeleteCategory leaves its medicines uncategorised.
func (u *pharmacyUsecase) DeleteCategory(ctx context.Context, id uint64) error {
	if _, _, err := authorize(ctx, entity.CapManageCatalog); err != nil {
		return err
	}

	rows, err := u.categoryRepo.Delete(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to delete category %d: %+v", id, err)
		return err
	}
	if rows == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (u *pharmacyUsecase) applyMedicine(db *gorm.DB, medicine *entity.Medicine, req *dto.MedicineRequest) error {
	errs := FieldErrors{}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		errs["name"] = "This field is required"
	}
	if req.Price.IsNegative() {
		errs["price"] = "Must not be negative"
	}
	if req.StockCount < 0 {
		errs["stock_count"] = "Must not be negative"
	}

	var category *entity.MedicineCategory
	if req.CategoryID != nil {
		found, err := u.categoryRepo.FindByID(db, *req.CategoryID)
		if err != nil {
			u.log.Warnf("Failed to find category %d: %+v", *req.CategoryID, err)
			return err
		}
		if found == nil {
			errs["category_id"] = "Category not found"
		}
		category = found
	}

	if len(errs) > 0 {
		return errs
	}

	medicine.Name = name
	medicine.CategoryID = req.CategoryID
	medicine.Category = category
	medicine.Brand = strings.TrimSpace(req.Brand)
	medicine.WeightOrVolume = strings.TrimSpace(req.WeightOrVolume)
	medicine.Price = req.Price.Round(2)
	medicine.StockCount = req.StockCount
	medicine.Description = strings.TrimSpace(req.Description)
	return nil
}

func (u *pharmacyUsecase) CreateMedicine(ctx context.Context, req *dto.MedicineRequest) (*dto.MedicineResponse, error) {
	if _, _, err := authorize(ctx, entity.CapManageCatalog); err != nil {
		return nil, err
	}

	db := u.db.WithContext(ctx)
	medicine := &entity.Medicine{}
	if err := u.applyMedicine(db, medicine, req); err != nil {
		return nil, err
	}

	if err := u.medicineRepo.Create(db, medicine); err != nil {
		u.log.Warnf("Failed to create medicine: %+v", err)
		return nil, err
	}

	u.log.Infof("Medicine created: id=%d, name=%s", medicine.ID, medicine.Name)
	return converter.MedicineToResponse(medicine), nil
}

func (u *pharmacyUsecase) ListMedicines(ctx context.Context, query dto.MedicineListQuery) (*dto.MedicineListResponse, error) {
	_, limit, offset := Paging(query.Page, query.Limit)

	medicines, total, err := u.medicineRepo.FindAll(u.db.WithContext(ctx), entity.MedicineFilter{
		CategoryID: query.CategoryID,
		Search:     strings.TrimSpace(query.Search),
		InStock:    query.InStock,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		u.log.Warnf("Failed to list medicines: %+v", err)
		return nil, err
	}

	return &dto.MedicineListResponse{
		Medicines: converter.MedicinesToResponses(medicines),
		Total:     total,
	}, nil
}

func (u *pharmacyUsecase) GetMedicine(ctx context.Context, id uint64) (*dto.MedicineResponse, error) {
	medicine, err := u.medicineRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find medicine %d: %+v", id, err)
		return nil, err
	}
	if medicine == nil {
		return nil, ErrMedicineNotFound
	}
	return converter.MedicineToResponse(medicine), nil
}

func (u *pharmacyUsecase) UpdateMedicine(ctx context.Context, id uint64, req *dto.MedicineRequest) (*dto.MedicineResponse, error) {
	if _, _, err := authorize(ctx, entity.CapManageCatalog); err != nil {
		return nil, err
	}

	db := u.db.WithContext(ctx)
	medicine, err := u.medicineRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find medicine %d: %+v", id, err)
		return nil, err
	}
	if medicine == nil {
		return nil, ErrMedicineNotFound
	}

	if err := u.applyMedicine(db, medicine, req); err != nil {
		return nil, err
	}

	if err := u.medicineRepo.Update(db, medicine); err != nil {
		u.log.Warnf("Failed to update medicine %d: %+v", id, err)
		return nil, err
	}

	return converter.MedicineToResponse(medicine), nil
}

func (u *pharmacyUsecase) DeleteMedicine(ctx context.Context, id uint64) error {
	if _, _, err := authorize(ctx, entity.CapManageCatalog); err != nil {
		return err
	}

	rows, err := u.medicineRepo.Delete(u.db.WithContext(ctx), id)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return ErrMedicineInUse
		}
		u.log.Warnf("Failed to delete medicine %d: %+v", id, err)
		return err
	}
	if rows == 0 {
		return ErrMedicineNotFound
	}
	return nil
}

// mergeSaleItems folds repeated products into one line, keeping the order in
// which products first appear.
func mergeSaleItems(items []dto.SaleItemRequest) ([]uint64, map[uint64]int) {
	order := make([]uint64, 0, len(items))
	qty := make(map[uint64]int, len(items))
	for _, item := range items {
		if _, seen := qty[item.ProductID]; !seen {
			order = append(order, item.ProductID)
		}
		qty[item.ProductID] += item.Qty
	}
	return order, qty
}

// CreateSale prices every line from the stored medicine, takes the stock with
// a conditional update and records the sale. Any line short on stock rolls
// the whole sale back.
func (u *pharmacyUsecase) CreateSale(ctx context.Context, req *dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	staffID, _, err := authorize(ctx, entity.CapRecordSale)
	if err != nil {
		return nil, err
	}
	if len(req.Items) == 0 {
		return nil, FieldErrors{"items": "At least one item is required"}
	}
	for i, item := range req.Items {
		if item.ProductID == 0 || item.Qty < 1 {
			return nil, FieldErrors{fmt.Sprintf("items[%d]", i): "Product and a positive quantity are required"}
		}
	}

	order, qty := mergeSaleItems(req.Items)

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	medicines, err := u.medicineRepo.FindByIDs(tx, order)
	if err != nil {
		u.log.Warnf("Failed to load sale products: %+v", err)
		return nil, err
	}
	byID := make(map[uint64]*entity.Medicine, len(medicines))
	for i := range medicines {
		byID[medicines[i].ID] = &medicines[i]
	}

	items := make([]entity.SaleItem, 0, len(order))
	for _, id := range order {
		med, ok := byID[id]
		if !ok {
			return nil, FieldErrors{"items": fmt.Sprintf("Product %d not found", id)}
		}
		items = append(items, entity.NewSaleItem(med, qty[id]))
	}

	// Stock rows are taken in id order.
	locked := append([]uint64(nil), order...)
	sort.Slice(locked, func(i, j int) bool { return locked[i] < locked[j] })
	for _, id := range locked {
		rows, err := u.medicineRepo.DecrementStock(tx, id, qty[id])
		if err != nil {
			u.log.Warnf("Failed to decrement stock of medicine %d: %+v", id, err)
			return nil, err
		}
		if rows == 0 {
			return nil, fmt.Errorf("%w for %s", ErrInsufficientStock, byID[id].Name)
		}
	}

	sale := &entity.Sale{
		CustomerName:  strings.TrimSpace(req.CustomerName),
		Phone:         strings.TrimSpace(req.Phone),
		PaymentMethod: req.PaymentMethod,
		TotalAmount:   entity.SumSaleItems(items),
		CreatedByID:   staffID,
		Items:         items,
	}
	if err := u.saleRepo.Create(tx, sale); err != nil {
		u.log.Warnf("Failed to create sale: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, tx, userRef(staffID), entity.AuditActionSaleCreate, "sale", strconv.FormatUint(sale.ID, 10), entity.JSON{
		"total_amount": converter.Money(sale.TotalAmount),
		"items":        len(items),
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Sale recorded: id=%d, total=%s", sale.ID, sale.TotalAmount.StringFixed(2))
	return converter.SaleToResponse(sale), nil
}

func (u *pharmacyUsecase) ListSales(ctx context.Context, page, limit int) (*dto.SaleListResponse, error) {
	if _, _, err := authorize(ctx, entity.CapRecordSale); err != nil {
		return nil, err
	}

	_, limit, offset := Paging(page, limit)
	sales, total, err := u.saleRepo.FindAll(u.db.WithContext(ctx), limit, offset)
	if err != nil {
		u.log.Warnf("Failed to list sales: %+v", err)
		return nil, err
	}

	return &dto.SaleListResponse{
		Sales: converter.SalesToResponses(sales),
		Total: total,
	}, nil
}

func (u *pharmacyUsecase) GetSale(ctx context.Context, id uint64) (*dto.SaleResponse, error) {
	if _, _, err := authorize(ctx, entity.CapRecordSale); err != nil {
		return nil, err
	}

	sale, err := u.saleRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find sale %d: %+v", id, err)
		return nil, err
	}
	if sale == nil {
		return nil, ErrSaleNotFound
	}
	return converter.SaleToResponse(sale), nil
}
