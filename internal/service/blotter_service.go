package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateBlotterRequest struct {
	IncidentType    string `json:"incident_type" binding:"required"`
	ComplainantName string `json:"complainant_name" binding:"required"`
	RespondentName  string `json:"respondent_name"`
	IncidentDate    string `json:"incident_date" binding:"required"`
	Location        string `json:"location" binding:"required"`
	Description     string `json:"description" binding:"required"`
}

type UpdateBlotterRequest struct {
	Status       string `json:"status" binding:"required,oneof=pending recorded resolved dismissed"`
	AdminRemarks string `json:"admin_remarks"`
}

type BlotterService interface {
	Create(ctx context.Context, userID string, req CreateBlotterRequest) (*model.BlotterRequest, error)
	ListMine(ctx context.Context, userID string) ([]model.BlotterRequest, error)
	List(ctx context.Context) ([]model.BlotterRequest, error)
	Update(ctx context.Context, id string, req UpdateBlotterRequest) (*model.BlotterRequest, error)
}

type blotterService struct {
	repo     repository.BlotterRepository
	notifier NotificationService
}

func NewBlotterService(repo repository.BlotterRepository, notifier NotificationService) BlotterService {
	return &blotterService{repo: repo, notifier: notifier}
}

func (s *blotterService) Create(ctx context.Context, userID string, req CreateBlotterRequest) (*model.BlotterRequest, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}

	incidentDate, err := time.Parse("2006-01-02", req.IncidentDate)
	if err != nil {
		return nil, fmt.Errorf("invalid incident_date: %w", err)
	}

	request := &model.BlotterRequest{
		UserID:          uid,
		IncidentType:    req.IncidentType,
		ComplainantName: req.ComplainantName,
		RespondentName:  req.RespondentName,
		IncidentDate:    incidentDate,
		Location:        req.Location,
		Description:     req.Description,
		Status:          model.BlotterPending,
	}

	if err := s.repo.Create(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to file blotter request: %w", err)
	}

	if notifyErr := s.notifier.NotifyAdmins(ctx, model.NotifBlotterRequest,
		"New blotter request",
		fmt.Sprintf("%s filed a %s report.", req.ComplainantName, req.IncidentType),
		map[string]interface{}{"blotter_request_id": request.ID.String()},
	); notifyErr != nil {
		log.Println("Failed to notify admins about blotter request:", notifyErr)
	}

	return request, nil
}

func (s *blotterService) ListMine(ctx context.Context, userID string) ([]model.BlotterRequest, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}
	return s.repo.ListByUser(ctx, uid)
}

func (s *blotterService) List(ctx context.Context) ([]model.BlotterRequest, error) {
	return s.repo.List(ctx)
}

func (s *blotterService) Update(ctx context.Context, id string, req UpdateBlotterRequest) (*model.BlotterRequest, error) {
	requestID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid blotter request id: %w", err)
	}

	request, err := s.repo.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("blotter request: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	request.Status = req.Status
	request.AdminRemarks = req.AdminRemarks
	if err := s.repo.Save(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to update blotter request: %w", err)
	}

	if notifyErr := s.notifier.Notify(ctx, request.UserID, model.NotifBlotterRequest,
		"Blotter request "+request.Status,
		fmt.Sprintf("Your %s report is now %s.", request.IncidentType, request.Status),
		map[string]interface{}{"blotter_request_id": request.ID.String(), "status": request.Status},
	); notifyErr != nil {
		log.Println("Failed to send blotter status notification:", notifyErr)
	}

	return request, nil
}
