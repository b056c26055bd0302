package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/storage"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type BeneficiaryInput struct {
	Name            string                `form:"name" binding:"required"`
	BeneficiaryType string                `form:"beneficiary_type" binding:"required"`
	Status          string                `form:"status" binding:"omitempty,oneof=pending approved rejected"`
	AssistanceType  string                `form:"assistance_type" binding:"required"`
	Amount          string                `form:"amount"`
	ContactNumber   string                `form:"contact_number"`
	Email           string                `form:"email" binding:"omitempty,email"`
	Address         string                `form:"address"`
	ApplicationDate string                `form:"application_date"`
	ApprovedDate    string                `form:"approved_date"`
	Remarks         string                `form:"remarks"`
	Attachment      *multipart.FileHeader `form:"-"`
}

type DisbursementInput struct {
	BeneficiaryID string `json:"beneficiary_id" binding:"required"`
	Amount        string `json:"amount" binding:"required"`
	Method        string `json:"method" binding:"required,oneof=cash check transfer"`
	ReferenceNo   string `json:"reference_no"`
	DisbursedAt   string `json:"disbursed_at"`
	Remarks       string `json:"remarks"`
}

type UpdateDisbursementInput struct {
	Amount      string `json:"amount"`
	Method      string `json:"method" binding:"omitempty,oneof=cash check transfer"`
	ReferenceNo string `json:"reference_no"`
	DisbursedAt string `json:"disbursed_at"`
	Remarks     string `json:"remarks"`
}

// --- Interfaces ---

type BeneficiaryService interface {
	Create(ctx context.Context, req BeneficiaryInput) (*model.Beneficiary, error)
	Get(ctx context.Context, id string) (*model.Beneficiary, error)
	List(ctx context.Context, filter repository.BeneficiaryFilter) ([]model.Beneficiary, error)
	Update(ctx context.Context, id string, req BeneficiaryInput) (*model.Beneficiary, error)
	Delete(ctx context.Context, id string) error
}

type DisbursementService interface {
	Create(ctx context.Context, req DisbursementInput) (*model.Disbursement, error)
	List(ctx context.Context, beneficiaryID string) ([]model.Disbursement, error)
	Update(ctx context.Context, id string, req UpdateDisbursementInput) (*model.Disbursement, error)
	Delete(ctx context.Context, id string) error
}

type beneficiaryService struct {
	repo  repository.BeneficiaryRepository
	store storage.Storage
}

func NewBeneficiaryService(repo repository.BeneficiaryRepository, store storage.Storage) BeneficiaryService {
	return &beneficiaryService{repo: repo, store: store}
}

type disbursementService struct {
	repo            repository.DisbursementRepository
	beneficiaryRepo repository.BeneficiaryRepository
}

func NewDisbursementService(repo repository.DisbursementRepository, beneficiaryRepo repository.BeneficiaryRepository) DisbursementService {
	return &disbursementService{repo: repo, beneficiaryRepo: beneficiaryRepo}
}

// --- Beneficiaries ---

func (s *beneficiaryService) Create(ctx context.Context, req BeneficiaryInput) (*model.Beneficiary, error) {
	beneficiary := &model.Beneficiary{Status: model.BeneficiaryPendingReview}
	if err := applyBeneficiaryInput(beneficiary, req); err != nil {
		return nil, err
	}

	if req.Attachment != nil {
		path, saveErr := s.store.SaveUpload("beneficiaries", req.Attachment)
		if saveErr != nil {
			return nil, fmt.Errorf("failed to save attachment: %w", saveErr)
		}
		beneficiary.Attachment = path
	}

	if err := s.repo.Create(ctx, beneficiary); err != nil {
		return nil, fmt.Errorf("failed to create beneficiary: %w", err)
	}
	return beneficiary, nil
}

func (s *beneficiaryService) Get(ctx context.Context, id string) (*model.Beneficiary, error) {
	beneficiaryID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid beneficiary id: %w", err)
	}
	beneficiary, err := s.repo.FindByIDWithDisbursements(ctx, beneficiaryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("beneficiary: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return beneficiary, nil
}

func (s *beneficiaryService) List(ctx context.Context, filter repository.BeneficiaryFilter) ([]model.Beneficiary, error) {
	return s.repo.List(ctx, filter)
}

func (s *beneficiaryService) Update(ctx context.Context, id string, req BeneficiaryInput) (*model.Beneficiary, error) {
	beneficiaryID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid beneficiary id: %w", err)
	}
	beneficiary, err := s.repo.FindByID(ctx, beneficiaryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("beneficiary: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := applyBeneficiaryInput(beneficiary, req); err != nil {
		return nil, err
	}

	if req.Attachment != nil {
		oldAttachment := beneficiary.Attachment
		path, saveErr := s.store.SaveUpload("beneficiaries", req.Attachment)
		if saveErr != nil {
			return nil, fmt.Errorf("failed to save attachment: %w", saveErr)
		}
		beneficiary.Attachment = path
		if oldAttachment != "" {
			if delErr := s.store.Delete(oldAttachment); delErr != nil {
				log.Println("Failed to delete old attachment:", delErr)
			}
		}
	}

	if err := s.repo.Save(ctx, beneficiary); err != nil {
		return nil, fmt.Errorf("failed to update beneficiary: %w", err)
	}
	return beneficiary, nil
}

func (s *beneficiaryService) Delete(ctx context.Context, id string) error {
	beneficiaryID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid beneficiary id: %w", err)
	}
	if _, err := s.repo.FindByID(ctx, beneficiaryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("beneficiary: %w", ErrNotFound)
		}
		return fmt.Errorf("database error: %w", err)
	}
	return s.repo.Delete(ctx, beneficiaryID)
}

func applyBeneficiaryInput(b *model.Beneficiary, req BeneficiaryInput) error {
	b.Name = req.Name
	b.BeneficiaryType = req.BeneficiaryType
	b.AssistanceType = req.AssistanceType
	b.ContactNumber = req.ContactNumber
	b.Email = req.Email
	b.Address = req.Address
	b.Remarks = req.Remarks

	if req.Status != "" {
		b.Status = req.Status
	}

	if req.Amount != "" {
		amount, err := decimal.NewFromString(req.Amount)
		if err != nil {
			return fmt.Errorf("invalid amount: %w", err)
		}
		if amount.IsNegative() {
			return errors.New("amount cannot be negative")
		}
		b.Amount = amount
	}

	if req.ApplicationDate != "" {
		d, err := time.Parse("2006-01-02", req.ApplicationDate)
		if err != nil {
			return fmt.Errorf("invalid application_date: %w", err)
		}
		b.ApplicationDate = &d
	}
	if req.ApprovedDate != "" {
		d, err := time.Parse("2006-01-02", req.ApprovedDate)
		if err != nil {
			return fmt.Errorf("invalid approved_date: %w", err)
		}
		b.ApprovedDate = &d
	}

	return nil
}

// --- Disbursements ---

func (s *disbursementService) Create(ctx context.Context, req DisbursementInput) (*model.Disbursement, error) {
	beneficiaryID, err := uuid.Parse(req.BeneficiaryID)
	if err != nil {
		return nil, fmt.Errorf("invalid beneficiary id: %w", err)
	}

	// A payout with no enrolled beneficiary behind it is always a caller error
	if _, err := s.beneficiaryRepo.FindByID(ctx, beneficiaryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("beneficiary: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	disbursement := &model.Disbursement{
		BeneficiaryID: beneficiaryID,
		Method:        req.Method,
		ReferenceNo:   req.ReferenceNo,
		Remarks:       req.Remarks,
		DisbursedAt:   time.Now(),
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}
	if !amount.IsPositive() {
		return nil, errors.New("amount must be positive")
	}
	disbursement.Amount = amount

	if req.DisbursedAt != "" {
		d, parseErr := time.Parse("2006-01-02", req.DisbursedAt)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid disbursed_at: %w", parseErr)
		}
		disbursement.DisbursedAt = d
	}

	if err := s.repo.Create(ctx, disbursement); err != nil {
		return nil, fmt.Errorf("failed to record disbursement: %w", err)
	}
	return disbursement, nil
}

func (s *disbursementService) List(ctx context.Context, beneficiaryID string) ([]model.Disbursement, error) {
	var filter *uuid.UUID
	if beneficiaryID != "" {
		id, err := uuid.Parse(beneficiaryID)
		if err != nil {
			return nil, fmt.Errorf("invalid beneficiary id: %w", err)
		}
		filter = &id
	}
	return s.repo.List(ctx, filter)
}

func (s *disbursementService) Update(ctx context.Context, id string, req UpdateDisbursementInput) (*model.Disbursement, error) {
	disbursementID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid disbursement id: %w", err)
	}

	disbursement, err := s.repo.FindByID(ctx, disbursementID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("disbursement: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if req.Amount != "" {
		amount, parseErr := decimal.NewFromString(req.Amount)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid amount: %w", parseErr)
		}
		if !amount.IsPositive() {
			return nil, errors.New("amount must be positive")
		}
		disbursement.Amount = amount
	}
	if req.Method != "" {
		disbursement.Method = req.Method
	}
	if req.ReferenceNo != "" {
		disbursement.ReferenceNo = req.ReferenceNo
	}
	if req.Remarks != "" {
		disbursement.Remarks = req.Remarks
	}
	if req.DisbursedAt != "" {
		d, parseErr := time.Parse("2006-01-02", req.DisbursedAt)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid disbursed_at: %w", parseErr)
		}
		disbursement.DisbursedAt = d
	}

	if err := s.repo.Save(ctx, disbursement); err != nil {
		return nil, fmt.Errorf("failed to update disbursement: %w", err)
	}
	return disbursement, nil
}

func (s *disbursementService) Delete(ctx context.Context, id string) error {
	disbursementID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid disbursement id: %w", err)
	}
	if _, err := s.repo.FindByID(ctx, disbursementID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("disbursement: %w", ErrNotFound)
		}
		return fmt.Errorf("database error: %w", err)
	}
	return s.repo.Delete(ctx, disbursementID)
}
