package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BeneficiaryFilter narrows beneficiary listings.
type BeneficiaryFilter struct {
	BeneficiaryType string
	Status          string
	AssistanceType  string
	Search          string
}

type BeneficiaryRepository interface {
	Create(ctx context.Context, beneficiary *model.Beneficiary) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Beneficiary, error)
	FindByIDWithDisbursements(ctx context.Context, id uuid.UUID) (*model.Beneficiary, error)
	List(ctx context.Context, filter BeneficiaryFilter) ([]model.Beneficiary, error)
	Save(ctx context.Context, beneficiary *model.Beneficiary) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type beneficiaryRepository struct {
	db *gorm.DB
}

func NewBeneficiaryRepository(db *gorm.DB) BeneficiaryRepository {
	return &beneficiaryRepository{db: db}
}

func (r *beneficiaryRepository) Create(ctx context.Context, beneficiary *model.Beneficiary) error {
	return GetDB(ctx, r.db).Create(beneficiary).Error
}

func (r *beneficiaryRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Beneficiary, error) {
	var beneficiary model.Beneficiary
	if err := GetDB(ctx, r.db).First(&beneficiary, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &beneficiary, nil
}

func (r *beneficiaryRepository) FindByIDWithDisbursements(ctx context.Context, id uuid.UUID) (*model.Beneficiary, error) {
	var beneficiary model.Beneficiary
	if err := GetDB(ctx, r.db).Preload("Disbursements").
		First(&beneficiary, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &beneficiary, nil
}

func (r *beneficiaryRepository) List(ctx context.Context, filter BeneficiaryFilter) ([]model.Beneficiary, error) {
	db := GetDB(ctx, r.db).Model(&model.Beneficiary{})

	if filter.BeneficiaryType != "" {
		db = db.Where("beneficiary_type = ?", filter.BeneficiaryType)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.AssistanceType != "" {
		db = db.Where("assistance_type = ?", filter.AssistanceType)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		db = db.Where(
			"name ILIKE ? OR email ILIKE ? OR contact_number ILIKE ? OR address ILIKE ? OR remarks ILIKE ? OR beneficiary_type ILIKE ? OR assistance_type ILIKE ? OR status ILIKE ?",
			like, like, like, like, like, like, like, like,
		)
	}

	var beneficiaries []model.Beneficiary
	if err := db.Order("created_at desc").Find(&beneficiaries).Error; err != nil {
		return nil, err
	}
	return beneficiaries, nil
}

func (r *beneficiaryRepository) Save(ctx context.Context, beneficiary *model.Beneficiary) error {
	return GetDB(ctx, r.db).Save(beneficiary).Error
}

func (r *beneficiaryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Beneficiary{}).Error
}

type DisbursementRepository interface {
	Create(ctx context.Context, disbursement *model.Disbursement) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Disbursement, error)
	List(ctx context.Context, beneficiaryID *uuid.UUID) ([]model.Disbursement, error)
	Save(ctx context.Context, disbursement *model.Disbursement) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type disbursementRepository struct {
	db *gorm.DB
}

func NewDisbursementRepository(db *gorm.DB) DisbursementRepository {
	return &disbursementRepository{db: db}
}

func (r *disbursementRepository) Create(ctx context.Context, disbursement *model.Disbursement) error {
	return GetDB(ctx, r.db).Create(disbursement).Error
}

func (r *disbursementRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Disbursement, error) {
	var disbursement model.Disbursement
	if err := GetDB(ctx, r.db).Preload("Beneficiary").
		First(&disbursement, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &disbursement, nil
}

func (r *disbursementRepository) List(ctx context.Context, beneficiaryID *uuid.UUID) ([]model.Disbursement, error) {
	db := GetDB(ctx, r.db).Preload("Beneficiary")
	if beneficiaryID != nil {
		db = db.Where("beneficiary_id = ?", *beneficiaryID)
	}

	var disbursements []model.Disbursement
	if err := db.Order("disbursed_at desc").Find(&disbursements).Error; err != nil {
		return nil, err
	}
	return disbursements, nil
}

func (r *disbursementRepository) Save(ctx context.Context, disbursement *model.Disbursement) error {
	return GetDB(ctx, r.db).Save(disbursement).Error
}

func (r *disbursementRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Disbursement{}).Error
}
