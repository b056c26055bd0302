package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BlotterRepository interface {
	Create(ctx context.Context, request *model.BlotterRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.BlotterRequest, error)
	List(ctx context.Context) ([]model.BlotterRequest, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.BlotterRequest, error)
	Save(ctx context.Context, request *model.BlotterRequest) error
}

type blotterRepository struct {
	db *gorm.DB
}

func NewBlotterRepository(db *gorm.DB) BlotterRepository {
	return &blotterRepository{db: db}
}

func (r *blotterRepository) Create(ctx context.Context, request *model.BlotterRequest) error {
	return GetDB(ctx, r.db).Create(request).Error
}

func (r *blotterRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.BlotterRequest, error) {
	var request model.BlotterRequest
	if err := GetDB(ctx, r.db).Preload("User").
		First(&request, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *blotterRepository) List(ctx context.Context) ([]model.BlotterRequest, error) {
	var requests []model.BlotterRequest
	if err := GetDB(ctx, r.db).Preload("User").
		Order("created_at desc").Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *blotterRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.BlotterRequest, error) {
	var requests []model.BlotterRequest
	if err := GetDB(ctx, r.db).Where("user_id = ?", userID).
		Order("created_at desc").Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *blotterRepository) Save(ctx context.Context, request *model.BlotterRequest) error {
	return GetDB(ctx, r.db).Save(request).Error
}
