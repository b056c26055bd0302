package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AnnouncementRepository interface {
	Create(ctx context.Context, announcement *model.Announcement) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Announcement, error)
	List(ctx context.Context, onlyPosted bool) ([]model.Announcement, error)
	Save(ctx context.Context, announcement *model.Announcement) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type announcementRepository struct {
	db *gorm.DB
}

func NewAnnouncementRepository(db *gorm.DB) AnnouncementRepository {
	return &announcementRepository{db: db}
}

func (r *announcementRepository) Create(ctx context.Context, announcement *model.Announcement) error {
	return GetDB(ctx, r.db).Create(announcement).Error
}

func (r *announcementRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Announcement, error) {
	var announcement model.Announcement
	if err := GetDB(ctx, r.db).First(&announcement, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &announcement, nil
}

func (r *announcementRepository) List(ctx context.Context, onlyPosted bool) ([]model.Announcement, error) {
	db := GetDB(ctx, r.db)
	if onlyPosted {
		db = db.Where("status = ?", model.AnnouncementPosted)
	}

	var announcements []model.Announcement
	if err := db.Order("created_at desc").Find(&announcements).Error; err != nil {
		return nil, err
	}
	return announcements, nil
}

func (r *announcementRepository) Save(ctx context.Context, announcement *model.Announcement) error {
	return GetDB(ctx, r.db).Save(announcement).Error
}

func (r *announcementRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Announcement{}).Error
}
