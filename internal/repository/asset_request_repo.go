package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AssetRequestRepository interface {
	Create(ctx context.Context, request *model.AssetRequest) error
	CreateItem(ctx context.Context, item *model.AssetRequestItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.AssetRequest, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.AssetRequest, error)
	List(ctx context.Context) ([]model.AssetRequest, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.AssetRequest, error)
	Save(ctx context.Context, request *model.AssetRequest) error
	Delete(ctx context.Context, id uuid.UUID) error
	NextReceiptSequence(ctx context.Context, prefix string) (int64, error)
}

type assetRequestRepository struct {
	db *gorm.DB
}

func NewAssetRequestRepository(db *gorm.DB) AssetRequestRepository {
	return &assetRequestRepository{db: db}
}

func (r *assetRequestRepository) Create(ctx context.Context, request *model.AssetRequest) error {
	return GetDB(ctx, r.db).Omit("Items").Create(request).Error
}

func (r *assetRequestRepository) CreateItem(ctx context.Context, item *model.AssetRequestItem) error {
	return GetDB(ctx, r.db).Create(item).Error
}

func (r *assetRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.AssetRequest, error) {
	var request model.AssetRequest
	if err := GetDB(ctx, r.db).
		Preload("Items.Asset").
		Preload("User").
		Preload("Resident.Profile").
		First(&request, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

// FindByIDForUpdate locks the request row for the remainder of the
// transaction. Approve and pay both go through here so two concurrent calls
// serialize on the row instead of racing the status check.
func (r *assetRequestRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.AssetRequest, error) {
	var request model.AssetRequest
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&request, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if err := GetDB(ctx, r.db).Preload("Asset").
		Find(&request.Items, "asset_request_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *assetRequestRepository) List(ctx context.Context) ([]model.AssetRequest, error) {
	var requests []model.AssetRequest
	if err := GetDB(ctx, r.db).
		Preload("Items.Asset").
		Preload("User").
		Preload("Resident.Profile").
		Order("created_at desc").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *assetRequestRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.AssetRequest, error) {
	var requests []model.AssetRequest
	if err := GetDB(ctx, r.db).
		Preload("Items.Asset").
		Preload("Resident.Profile").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *assetRequestRepository) Save(ctx context.Context, request *model.AssetRequest) error {
	return GetDB(ctx, r.db).Omit("Items", "User", "Resident").Save(request).Error
}

func (r *assetRequestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("asset_request_id = ?", id).Delete(&model.AssetRequestItem{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", id).Delete(&model.AssetRequest{}).Error
}

// NextReceiptSequence returns the next per-day receipt counter for the given
// prefix. An advisory lock keyed on the prefix prevents two concurrent
// payments from drawing the same number.
func (r *assetRequestRepository) NextReceiptSequence(ctx context.Context, prefix string) (int64, error) {
	db := GetDB(ctx, r.db)
	if err := db.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", prefix).Error; err != nil {
		return 0, err
	}

	// MAX over the issued suffixes rather than a row count: issued receipt
	// numbers must never come back, even after the request row is deleted.
	var max int64
	err := db.Model(&model.AssetRequest{}).
		Select("COALESCE(MAX(CAST(SUBSTRING(receipt_number FROM ?) AS INTEGER)), 0)", len(prefix)+1).
		Where("receipt_number LIKE ?", prefix+"%").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}
