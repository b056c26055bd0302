package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"backend/internal/model"
	"backend/internal/repository"
	ws "backend/internal/websocket"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationResponse is the JSON shape returned for a notification.
type NotificationResponse struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Data      map[string]interface{} `json:"data"`
	ReadAt    *string                `json:"read_at"`
	CreatedAt string                 `json:"created_at"`
}

// NotificationService persists per-user notifications and pushes them over
// the websocket hub. Persistence is authoritative; the push is best effort
// and never fails the caller.
type NotificationService interface {
	Notify(ctx context.Context, userID uuid.UUID, notifType, title, message string, data map[string]interface{}) error
	NotifyAdmins(ctx context.Context, notifType, title, message string, data map[string]interface{}) error
	ListForUser(ctx context.Context, userID string, page, limit int) ([]NotificationResponse, int64, error)
	MarkRead(ctx context.Context, id string, userID string) (NotificationResponse, error)
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
	hub              *ws.Hub
}

// NewNotificationService wires the notification dispatcher. hub may be nil in
// tests; dispatch then persists only.
func NewNotificationService(notificationRepo repository.NotificationRepository, userRepo repository.UserRepository, hub *ws.Hub) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		hub:              hub,
	}
}

func (s *notificationService) Notify(ctx context.Context, userID uuid.UUID, notifType, title, message string, data map[string]interface{}) error {
	notification := &model.Notification{
		UserID:  userID,
		Type:    notifType,
		Title:   title,
		Message: message,
		Data:    model.JSONMap(data),
	}
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return fmt.Errorf("failed to persist notification: %w", err)
	}

	s.push(notification)
	return nil
}

// NotifyAdmins resolves the current admin account list at call time and
// dispatches one notification per admin.
func (s *notificationService) NotifyAdmins(ctx context.Context, notifType, title, message string, data map[string]interface{}) error {
	admins, err := s.userRepo.ListByRole(ctx, model.RoleAdmin)
	if err != nil {
		return fmt.Errorf("failed to resolve admin accounts: %w", err)
	}

	for _, admin := range admins {
		if err := s.Notify(ctx, admin.ID, notifType, title, message, data); err != nil {
			return err
		}
	}
	return nil
}

func (s *notificationService) ListForUser(ctx context.Context, userID string, page, limit int) ([]NotificationResponse, int64, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid user id: %w", err)
	}

	notifications, total, err := s.notificationRepo.ListByUser(ctx, uid, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch notifications: %w", err)
	}

	res := make([]NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		res = append(res, toNotificationResponse(n))
	}
	return res, total, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id string, userID string) (NotificationResponse, error) {
	notifID, err := uuid.Parse(id)
	if err != nil {
		return NotificationResponse{}, fmt.Errorf("invalid notification id: %w", err)
	}

	notification, err := s.notificationRepo.FindByID(ctx, notifID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotificationResponse{}, fmt.Errorf("notification: %w", ErrNotFound)
		}
		return NotificationResponse{}, fmt.Errorf("database error: %w", err)
	}

	if notification.UserID.String() != userID {
		return NotificationResponse{}, ErrForbidden
	}

	if err := s.notificationRepo.MarkRead(ctx, notifID); err != nil {
		return NotificationResponse{}, fmt.Errorf("failed to mark notification read: %w", err)
	}

	updated, err := s.notificationRepo.FindByID(ctx, notifID)
	if err != nil {
		return NotificationResponse{}, fmt.Errorf("failed to reload notification: %w", err)
	}
	return toNotificationResponse(*updated), nil
}

// push delivers over the websocket hub; failures are logged, never returned.
func (s *notificationService) push(n *model.Notification) {
	if s.hub == nil {
		return
	}
	payload, err := json.Marshal(map[string]interface{}{
		"event": "notification",
		"data":  toNotificationResponse(*n),
	})
	if err != nil {
		log.Println("Failed to encode notification payload:", err)
		return
	}
	s.hub.Notify(n.UserID.String(), payload)
}

func toNotificationResponse(n model.Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:        n.ID.String(),
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Data:      n.Data,
		CreatedAt: n.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if n.ReadAt != nil {
		s := n.ReadAt.Format("2006-01-02T15:04:05Z07:00")
		resp.ReadAt = &s
	}
	return resp
}
