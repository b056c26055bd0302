package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ResidentRepository manages the paired Profile (write model) and Resident
// (read model) records.
type ResidentRepository interface {
	CreatePair(ctx context.Context, profile *model.Profile, resident *model.Resident) error
	GetResidentByID(ctx context.Context, id uuid.UUID) (*model.Resident, error)
	GetResidentByUserID(ctx context.Context, userID uuid.UUID) (*model.Resident, error)
	GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*model.Profile, error)
	ProfileExists(ctx context.Context, userID uuid.UUID) (bool, error)
	List(ctx context.Context) ([]model.Resident, error)
	UpdateProfile(ctx context.Context, profile *model.Profile) error
	UpdateResident(ctx context.Context, resident *model.Resident) error
	DeleteDuplicateResidents(ctx context.Context, userID uuid.UUID, keepID uuid.UUID) error
}

type residentRepository struct {
	db *gorm.DB
}

func NewResidentRepository(db *gorm.DB) ResidentRepository {
	return &residentRepository{db: db}
}

func (r *residentRepository) CreatePair(ctx context.Context, profile *model.Profile, resident *model.Resident) error {
	if err := GetDB(ctx, r.db).Create(profile).Error; err != nil {
		return err
	}
	resident.ProfileID = profile.ID
	return GetDB(ctx, r.db).Create(resident).Error
}

func (r *residentRepository) GetResidentByID(ctx context.Context, id uuid.UUID) (*model.Resident, error) {
	var resident model.Resident
	if err := GetDB(ctx, r.db).Preload("Profile").Preload("User").
		First(&resident, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &resident, nil
}

func (r *residentRepository) GetResidentByUserID(ctx context.Context, userID uuid.UUID) (*model.Resident, error) {
	var resident model.Resident
	if err := GetDB(ctx, r.db).Preload("Profile").
		First(&resident, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &resident, nil
}

func (r *residentRepository) GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	var profile model.Profile
	if err := GetDB(ctx, r.db).First(&profile, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *residentRepository) ProfileExists(ctx context.Context, userID uuid.UUID) (bool, error) {
	var count int64
	if err := GetDB(ctx, r.db).Model(&model.Profile{}).
		Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *residentRepository) List(ctx context.Context) ([]model.Resident, error) {
	var residents []model.Resident
	if err := GetDB(ctx, r.db).Preload("Profile").Preload("User").
		Order("created_at desc").Find(&residents).Error; err != nil {
		return nil, err
	}
	return residents, nil
}

func (r *residentRepository) UpdateProfile(ctx context.Context, profile *model.Profile) error {
	return GetDB(ctx, r.db).Save(profile).Error
}

func (r *residentRepository) UpdateResident(ctx context.Context, resident *model.Resident) error {
	return GetDB(ctx, r.db).Save(resident).Error
}

// DeleteDuplicateResidents removes stray Resident rows for a user, keeping the
// canonical one. The unique index on user_id makes new duplicates impossible;
// this cleans up rows that predate the constraint.
func (r *residentRepository) DeleteDuplicateResidents(ctx context.Context, userID uuid.UUID, keepID uuid.UUID) error {
	return GetDB(ctx, r.db).Where("user_id = ? AND id <> ?", userID, keepID).
		Delete(&model.Resident{}).Error
}
