package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DocumentRequestRepository interface {
	Create(ctx context.Context, request *model.DocumentRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.DocumentRequest, error)
	List(ctx context.Context) ([]model.DocumentRequest, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.DocumentRequest, error)
	Save(ctx context.Context, request *model.DocumentRequest) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type documentRequestRepository struct {
	db *gorm.DB
}

func NewDocumentRequestRepository(db *gorm.DB) DocumentRequestRepository {
	return &documentRequestRepository{db: db}
}

func (r *documentRequestRepository) Create(ctx context.Context, request *model.DocumentRequest) error {
	return GetDB(ctx, r.db).Create(request).Error
}

func (r *documentRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.DocumentRequest, error) {
	var request model.DocumentRequest
	if err := GetDB(ctx, r.db).Preload("User").
		First(&request, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *documentRequestRepository) List(ctx context.Context) ([]model.DocumentRequest, error) {
	var requests []model.DocumentRequest
	if err := GetDB(ctx, r.db).Preload("User").
		Order("created_at desc").Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *documentRequestRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.DocumentRequest, error) {
	var requests []model.DocumentRequest
	if err := GetDB(ctx, r.db).Preload("User").
		Where("user_id = ?", userID).
		Order("created_at desc").Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *documentRequestRepository) Save(ctx context.Context, request *model.DocumentRequest) error {
	return GetDB(ctx, r.db).Save(request).Error
}

func (r *documentRequestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.DocumentRequest{}).Error
}
