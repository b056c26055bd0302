package service

import (
	"context"
	"errors"
	"fmt"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreateAssetRequest struct {
	Name  string          `json:"name" binding:"required"`
	Price decimal.Decimal `json:"price" binding:"required"`
	Stock int             `json:"stock" binding:"min=0"`
}

type UpdateAssetRequest struct {
	Name  *string          `json:"name"`
	Price *decimal.Decimal `json:"price"`
	Stock *int             `json:"stock" binding:"omitempty,min=0"`
}

type AssetService interface {
	Create(ctx context.Context, req CreateAssetRequest) (*model.Asset, error)
	Get(ctx context.Context, id string) (*model.Asset, error)
	List(ctx context.Context, page, limit int, search string) ([]model.Asset, int64, error)
	Update(ctx context.Context, id string, req UpdateAssetRequest) (*model.Asset, error)
}

type assetService struct {
	repo repository.AssetRepository
}

func NewAssetService(repo repository.AssetRepository) AssetService {
	return &assetService{repo: repo}
}

func (s *assetService) Create(ctx context.Context, req CreateAssetRequest) (*model.Asset, error) {
	if req.Price.IsNegative() {
		return nil, errors.New("price cannot be negative")
	}

	asset := &model.Asset{
		Name:  req.Name,
		Price: req.Price,
		Stock: req.Stock,
	}
	if err := s.repo.Create(ctx, asset); err != nil {
		return nil, fmt.Errorf("failed to create asset: %w", err)
	}
	return asset, nil
}

func (s *assetService) Get(ctx context.Context, id string) (*model.Asset, error) {
	assetID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid asset id: %w", err)
	}
	asset, err := s.repo.FindByID(ctx, assetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("asset: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return asset, nil
}

func (s *assetService) List(ctx context.Context, page, limit int, search string) ([]model.Asset, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.repo.List(ctx, page, limit, search)
}

func (s *assetService) Update(ctx context.Context, id string, req UpdateAssetRequest) (*model.Asset, error) {
	asset, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		asset.Name = *req.Name
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, errors.New("price cannot be negative")
		}
		asset.Price = *req.Price
	}
	if req.Stock != nil {
		asset.Stock = *req.Stock
	}

	if err := s.repo.Update(ctx, asset); err != nil {
		return nil, fmt.Errorf("failed to update asset: %w", err)
	}
	return asset, nil
}
