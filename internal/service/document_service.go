package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"strings"
	"time"

	"backend/internal/model"
	"backend/internal/pdf"
	"backend/internal/repository"
	"backend/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Required field keys per document type. A request missing any of these is
// rejected before anything is persisted.
var documentFieldSchema = map[string][]string{
	model.DocTypeClearance:      {"purpose"},
	model.DocTypeBusinessPermit: {"business_name", "business_address", "purpose"},
	model.DocTypeIndigency:      {"purpose"},
	model.DocTypeResidency:      {"purpose", "years_of_residency"},
}

// --- DTOs ---

type CreateDocumentRequestInput struct {
	DocumentType string                `form:"document_type" binding:"required"`
	Fields       map[string]string     `form:"-"`
	Attachment   *multipart.FileHeader `form:"-"`
}

type UpdateDocumentRequestInput struct {
	Status     *string                `json:"status"`
	Fields     map[string]interface{} `json:"fields"`
	Attachment *string                `json:"attachment"`
}

type DocumentRequestResponse struct {
	ID           string        `json:"id"`
	UserName     string        `json:"user_name"`
	DocumentType string        `json:"document_type"`
	Fields       model.JSONMap `json:"fields"`
	Status       string        `json:"status"`
	Attachment   string        `json:"attachment,omitempty"`
	PdfPath      string        `json:"pdf_path,omitempty"`
	CreatedAt    string        `json:"created_at"`
}

// --- Interface ---

type DocumentService interface {
	Create(ctx context.Context, userID string, req CreateDocumentRequestInput) (*DocumentRequestResponse, error)
	List(ctx context.Context) ([]DocumentRequestResponse, error)
	ListMine(ctx context.Context, userID string) ([]DocumentRequestResponse, error)
	Get(ctx context.Context, id, userID, role string) (*DocumentRequestResponse, error)
	Update(ctx context.Context, id string, req UpdateDocumentRequestInput) (*DocumentRequestResponse, error)
	GeneratePdf(ctx context.Context, id string) (*DocumentRequestResponse, error)
	PdfFile(ctx context.Context, id string) (absPath, downloadName string, err error)
	Delete(ctx context.Context, id string) error
}

type documentService struct {
	documentRepo repository.DocumentRequestRepository
	residentRepo repository.ResidentRepository
	store        storage.Storage
	generator    pdf.Generator
	notifier     NotificationService
}

func NewDocumentService(
	documentRepo repository.DocumentRequestRepository,
	residentRepo repository.ResidentRepository,
	store storage.Storage,
	generator pdf.Generator,
	notifier NotificationService,
) DocumentService {
	return &documentService{
		documentRepo: documentRepo,
		residentRepo: residentRepo,
		store:        store,
		generator:    generator,
		notifier:     notifier,
	}
}

// --- Implementation ---

func (s *documentService) Create(ctx context.Context, userID string, req CreateDocumentRequestInput) (*DocumentRequestResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}

	if !model.IsDocumentType(req.DocumentType) {
		return nil, fmt.Errorf("unsupported document type %q; supported types: %s",
			req.DocumentType, strings.Join(model.DocumentTypes(), ", "))
	}

	for _, key := range documentFieldSchema[req.DocumentType] {
		if strings.TrimSpace(req.Fields[key]) == "" {
			return nil, fmt.Errorf("missing required field %q for %s", key, req.DocumentType)
		}
	}

	if _, err := s.residentRepo.GetResidentByUserID(ctx, uid); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("Resident profile not found. Please complete your profile.")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	fields := make(model.JSONMap, len(req.Fields))
	for k, v := range req.Fields {
		fields[k] = v
	}

	request := model.DocumentRequest{
		UserID:       uid,
		DocumentType: req.DocumentType,
		Fields:       fields,
		Status:       model.DocumentRequestPending,
	}

	if req.Attachment != nil {
		path, saveErr := s.store.SaveUpload("attachments", req.Attachment)
		if saveErr != nil {
			return nil, fmt.Errorf("failed to save attachment: %w", saveErr)
		}
		request.Attachment = path
	}

	if err := s.documentRepo.Create(ctx, &request); err != nil {
		return nil, fmt.Errorf("failed to create document request: %w", err)
	}

	if notifyErr := s.notifier.NotifyAdmins(ctx, model.NotifDocumentRequest,
		"New document request",
		fmt.Sprintf("A request for %s was submitted.", request.DocumentType),
		map[string]interface{}{"document_request_id": request.ID.String()},
	); notifyErr != nil {
		log.Println("Failed to notify admins about document request:", notifyErr)
	}

	return s.reload(ctx, request.ID)
}

func (s *documentService) List(ctx context.Context) ([]DocumentRequestResponse, error) {
	requests, err := s.documentRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch document requests: %w", err)
	}
	return toDocumentResponses(requests), nil
}

func (s *documentService) ListMine(ctx context.Context, userID string) ([]DocumentRequestResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}
	requests, err := s.documentRepo.ListByUser(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch document requests: %w", err)
	}
	return toDocumentResponses(requests), nil
}

func (s *documentService) Get(ctx context.Context, id, userID, role string) (*DocumentRequestResponse, error) {
	request, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if role != model.RoleAdmin && request.UserID.String() != userID {
		return nil, ErrForbidden
	}
	resp := toDocumentResponse(*request)
	return &resp, nil
}

func (s *documentService) Update(ctx context.Context, id string, req UpdateDocumentRequestInput) (*DocumentRequestResponse, error) {
	request, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	statusChanged := false
	if req.Status != nil {
		request.Status = *req.Status
		statusChanged = true
	}
	if req.Fields != nil {
		request.Fields = model.JSONMap(req.Fields)
	}
	if req.Attachment != nil {
		request.Attachment = *req.Attachment
	}

	if err := s.documentRepo.Save(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to update document request: %w", err)
	}

	if statusChanged {
		if notifyErr := s.notifier.Notify(ctx, request.UserID, model.NotifDocumentRequest,
			"Document request "+request.Status,
			fmt.Sprintf("Your request for %s is now %s.", request.DocumentType, request.Status),
			map[string]interface{}{"document_request_id": request.ID.String(), "status": request.Status},
		); notifyErr != nil {
			log.Println("Failed to send document status notification:", notifyErr)
		}
	}

	resp := toDocumentResponse(*request)
	return &resp, nil
}

// GeneratePdf renders the certificate for an approved request and records
// its path. Regeneration overwrites the previous file.
func (s *documentService) GeneratePdf(ctx context.Context, id string) (*DocumentRequestResponse, error) {
	request, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if !strings.EqualFold(request.Status, model.DocumentRequestApproved) {
		return nil, errors.New("Only approved requests can generate a certificate")
	}

	resident, err := s.residentRepo.GetResidentByUserID(ctx, request.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("resident record for request: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	data, err := s.generator.Render(request, resident)
	if err != nil {
		return nil, fmt.Errorf("failed to render certificate: %w", err)
	}

	filename := s.generator.Filename(request, resident, time.Now())
	path, err := s.store.Save("certificates", filename, data)
	if err != nil {
		return nil, fmt.Errorf("failed to store certificate: %w", err)
	}

	request.PdfPath = path
	if err := s.documentRepo.Save(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to record certificate path: %w", err)
	}

	resp := toDocumentResponse(*request)
	return &resp, nil
}

// PdfFile resolves the stored certificate for download.
func (s *documentService) PdfFile(ctx context.Context, id string) (string, string, error) {
	request, err := s.find(ctx, id)
	if err != nil {
		return "", "", err
	}
	if request.PdfPath == "" {
		return "", "", errors.New("Certificate not found. Please generate it first.")
	}
	if !s.store.Exists(request.PdfPath) {
		return "", "", errors.New("Certificate not found. Please generate it first.")
	}

	parts := strings.Split(request.PdfPath, "/")
	return s.store.AbsolutePath(request.PdfPath), parts[len(parts)-1], nil
}

func (s *documentService) Delete(ctx context.Context, id string) error {
	request, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if request.PdfPath != "" {
		if err := s.store.Delete(request.PdfPath); err != nil {
			log.Println("Failed to delete certificate file:", err)
		}
	}
	return s.documentRepo.Delete(ctx, request.ID)
}

// --- Helpers ---

func (s *documentService) find(ctx context.Context, id string) (*model.DocumentRequest, error) {
	requestID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid document request id: %w", err)
	}
	request, err := s.documentRepo.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("document request: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return request, nil
}

func (s *documentService) reload(ctx context.Context, id uuid.UUID) (*DocumentRequestResponse, error) {
	request, err := s.documentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload document request: %w", err)
	}
	resp := toDocumentResponse(*request)
	return &resp, nil
}

func toDocumentResponse(r model.DocumentRequest) DocumentRequestResponse {
	resp := DocumentRequestResponse{
		ID:           r.ID.String(),
		DocumentType: r.DocumentType,
		Fields:       r.Fields,
		Status:       r.Status,
		Attachment:   r.Attachment,
		PdfPath:      r.PdfPath,
		CreatedAt:    r.CreatedAt.Format(time.RFC3339),
	}
	if r.User != nil {
		resp.UserName = r.User.Name
	}
	return resp
}

func toDocumentResponses(requests []model.DocumentRequest) []DocumentRequestResponse {
	res := make([]DocumentRequestResponse, 0, len(requests))
	for _, r := range requests {
		res = append(res, toDocumentResponse(r))
	}
	return res
}
