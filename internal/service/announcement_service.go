package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AnnouncementInput struct {
	Title string `json:"title" binding:"required"`
	Body  string `json:"body" binding:"required"`
}

type AnnouncementService interface {
	Create(ctx context.Context, req AnnouncementInput) (*model.Announcement, error)
	Get(ctx context.Context, id string) (*model.Announcement, error)
	List(ctx context.Context, includeDrafts bool) ([]model.Announcement, error)
	Update(ctx context.Context, id string, req AnnouncementInput) (*model.Announcement, error)
	TogglePosted(ctx context.Context, id string) (*model.Announcement, error)
	Delete(ctx context.Context, id string) error
}

type announcementService struct {
	repo repository.AnnouncementRepository
}

func NewAnnouncementService(repo repository.AnnouncementRepository) AnnouncementService {
	return &announcementService{repo: repo}
}

func (s *announcementService) Create(ctx context.Context, req AnnouncementInput) (*model.Announcement, error) {
	announcement := &model.Announcement{
		Title:  req.Title,
		Body:   req.Body,
		Status: model.AnnouncementDraft,
	}
	if err := s.repo.Create(ctx, announcement); err != nil {
		return nil, fmt.Errorf("failed to create announcement: %w", err)
	}
	return announcement, nil
}

func (s *announcementService) Get(ctx context.Context, id string) (*model.Announcement, error) {
	announcementID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid announcement id: %w", err)
	}
	announcement, err := s.repo.FindByID(ctx, announcementID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("announcement: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return announcement, nil
}

func (s *announcementService) List(ctx context.Context, includeDrafts bool) ([]model.Announcement, error) {
	return s.repo.List(ctx, !includeDrafts)
}

func (s *announcementService) Update(ctx context.Context, id string, req AnnouncementInput) (*model.Announcement, error) {
	announcement, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	announcement.Title = req.Title
	announcement.Body = req.Body
	if err := s.repo.Save(ctx, announcement); err != nil {
		return nil, fmt.Errorf("failed to update announcement: %w", err)
	}
	return announcement, nil
}

// TogglePosted flips an announcement between draft and posted.
func (s *announcementService) TogglePosted(ctx context.Context, id string) (*model.Announcement, error) {
	announcement, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if announcement.Status == model.AnnouncementPosted {
		announcement.Status = model.AnnouncementDraft
		announcement.PostedAt = nil
	} else {
		now := time.Now()
		announcement.Status = model.AnnouncementPosted
		announcement.PostedAt = &now
	}

	if err := s.repo.Save(ctx, announcement); err != nil {
		return nil, fmt.Errorf("failed to update announcement: %w", err)
	}
	return announcement, nil
}

func (s *announcementService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	announcementID, _ := uuid.Parse(id)
	return s.repo.Delete(ctx, announcementID)
}
