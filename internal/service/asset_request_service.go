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
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type AssetRequestItemInput struct {
	AssetID     string `json:"asset_id" binding:"required"`
	RequestDate string `json:"request_date" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required,min=1"`
}

type CreateAssetRequestInput struct {
	Items []AssetRequestItemInput `json:"items" binding:"required,min=1,dive"`
}

type ReviewAssetRequestInput struct {
	Status       string `json:"status" binding:"required,oneof=approved denied"`
	AdminMessage string `json:"admin_message"`
}

type AssetRequestItemResponse struct {
	ID          string `json:"id"`
	AssetID     string `json:"asset_id"`
	AssetName   string `json:"asset_name"`
	AssetPrice  string `json:"asset_price"`
	RequestDate string `json:"request_date"`
	Quantity    int    `json:"quantity"`
}

type AssetRequestResponse struct {
	ID            string                     `json:"id"`
	UserName      string                     `json:"user_name"`
	ResidentsID   string                     `json:"residents_id"`
	ResidentName  string                     `json:"resident_name"`
	Status        string                     `json:"status"`
	PaymentStatus string                     `json:"payment_status"`
	ReceiptNumber *string                    `json:"receipt_number"`
	AmountPaid    *string                    `json:"amount_paid"`
	PaidAt        *string                    `json:"paid_at"`
	AdminMessage  string                     `json:"admin_message"`
	TotalAmount   string                     `json:"total_amount"`
	Items         []AssetRequestItemResponse `json:"items"`
	CreatedAt     string                     `json:"created_at"`
}

type PaymentResponse struct {
	ReceiptNumber string               `json:"receipt_number"`
	AmountPaid    string               `json:"amount_paid"`
	Request       AssetRequestResponse `json:"asset_request"`
}

// --- Interface ---

// AssetRequestService implements the rental request workflow:
// pending -> approved|denied, and unpaid -> paid (once, approved-only).
type AssetRequestService interface {
	Create(ctx context.Context, userID string, req CreateAssetRequestInput) (*AssetRequestResponse, error)
	List(ctx context.Context, userID, role string) ([]AssetRequestResponse, error)
	Get(ctx context.Context, id, userID, role string) (*AssetRequestResponse, error)
	Review(ctx context.Context, id string, req ReviewAssetRequestInput) (*AssetRequestResponse, error)
	Pay(ctx context.Context, id string) (*PaymentResponse, error)
	Delete(ctx context.Context, id string) error
}

type assetRequestService struct {
	requestRepo  repository.AssetRequestRepository
	assetRepo    repository.AssetRepository
	residentRepo repository.ResidentRepository
	txManager    repository.TransactionManager
	notifier     NotificationService
}

func NewAssetRequestService(
	requestRepo repository.AssetRequestRepository,
	assetRepo repository.AssetRepository,
	residentRepo repository.ResidentRepository,
	txManager repository.TransactionManager,
	notifier NotificationService,
) AssetRequestService {
	return &assetRequestService{
		requestRepo:  requestRepo,
		assetRepo:    assetRepo,
		residentRepo: residentRepo,
		txManager:    txManager,
		notifier:     notifier,
	}
}

// --- Implementation ---

func (s *assetRequestService) Create(ctx context.Context, userID string, req CreateAssetRequestInput) (*AssetRequestResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}

	resident, err := s.residentRepo.GetResidentByUserID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("Resident profile not found. Please complete your profile.")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	request := model.AssetRequest{
		UserID:        uid,
		ResidentID:    resident.ID,
		Status:        model.AssetRequestPending,
		PaymentStatus: model.PaymentUnpaid,
	}

	type itemNote struct {
		assetName   string
		requestDate string
	}
	var notes []itemNote

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		// Validate stock for every item before creating anything
		type pendingItem struct {
			asset       *model.Asset
			requestDate time.Time
			quantity    int
		}
		pending := make([]pendingItem, 0, len(req.Items))

		for _, itemReq := range req.Items {
			assetID, parseErr := uuid.Parse(itemReq.AssetID)
			if parseErr != nil {
				return fmt.Errorf("invalid asset_id: %w", parseErr)
			}

			asset, findErr := s.assetRepo.FindByID(txCtx, assetID)
			if findErr != nil {
				if errors.Is(findErr, gorm.ErrRecordNotFound) {
					return fmt.Errorf("asset not found: %s", itemReq.AssetID)
				}
				return fmt.Errorf("failed to find asset %s: %w", itemReq.AssetID, findErr)
			}

			if asset.Stock < itemReq.Quantity {
				return fmt.Errorf("Asset '%s' does not have enough stock.", asset.Name)
			}

			requestDate, dateErr := time.Parse("2006-01-02", itemReq.RequestDate)
			if dateErr != nil {
				return fmt.Errorf("invalid request_date: %w", dateErr)
			}

			pending = append(pending, pendingItem{asset: asset, requestDate: requestDate, quantity: itemReq.Quantity})
		}

		if err := s.requestRepo.Create(txCtx, &request); err != nil {
			return fmt.Errorf("failed to create asset request: %w", err)
		}

		for _, p := range pending {
			item := &model.AssetRequestItem{
				AssetRequestID: request.ID,
				AssetID:        p.asset.ID,
				RequestDate:    p.requestDate,
				Quantity:       p.quantity,
			}
			if err := s.requestRepo.CreateItem(txCtx, item); err != nil {
				return fmt.Errorf("failed to create asset request item: %w", err)
			}
			notes = append(notes, itemNote{assetName: p.asset.Name, requestDate: p.requestDate.Format("2006-01-02")})
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// Delivery is independent of the committed request; failures are logged only.
	for _, n := range notes {
		if notifyErr := s.notifier.Notify(ctx, uid, model.NotifAssetRequest,
			"Asset request submitted",
			fmt.Sprintf("Your request for %s on %s is pending review.", n.assetName, n.requestDate),
			map[string]interface{}{"asset_request_id": request.ID.String(), "status": model.AssetRequestPending},
		); notifyErr != nil {
			log.Println("Failed to send asset request notification:", notifyErr)
		}
	}
	if notifyErr := s.notifier.NotifyAdmins(ctx, model.NotifAssetRequestAdmin,
		"New asset request",
		fmt.Sprintf("%s submitted a new asset request.", resident.FullName()),
		map[string]interface{}{"asset_request_id": request.ID.String()},
	); notifyErr != nil {
		log.Println("Failed to notify admins about asset request:", notifyErr)
	}

	return s.reload(ctx, request.ID)
}

func (s *assetRequestService) List(ctx context.Context, userID, role string) ([]AssetRequestResponse, error) {
	var (
		requests []model.AssetRequest
		err      error
	)

	if role == model.RoleAdmin {
		requests, err = s.requestRepo.List(ctx)
	} else {
		uid, parseErr := uuid.Parse(userID)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid user id: %w", parseErr)
		}
		requests, err = s.requestRepo.ListByUser(ctx, uid)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch asset requests: %w", err)
	}

	res := make([]AssetRequestResponse, 0, len(requests))
	for _, r := range requests {
		res = append(res, toAssetRequestResponse(r))
	}
	return res, nil
}

func (s *assetRequestService) Get(ctx context.Context, id, userID, role string) (*AssetRequestResponse, error) {
	requestID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid asset request id: %w", err)
	}

	request, err := s.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("asset request: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if role != model.RoleAdmin && request.UserID.String() != userID {
		return nil, ErrForbidden
	}

	resp := toAssetRequestResponse(*request)
	return &resp, nil
}

// Review applies an admin approve/deny decision. On approval each item's
// asset stock is decremented under a row lock, but only while stock remains
// positive; insufficient stock at approval time is fulfilled partially
// without error (flagged behavior carried over from the workflow's origins).
func (s *assetRequestService) Review(ctx context.Context, id string, req ReviewAssetRequestInput) (*AssetRequestResponse, error) {
	requestID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid asset request id: %w", err)
	}

	var request *model.AssetRequest
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		request, findErr = s.requestRepo.FindByIDForUpdate(txCtx, requestID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return fmt.Errorf("asset request: %w", ErrNotFound)
			}
			return fmt.Errorf("database error: %w", findErr)
		}

		request.Status = req.Status
		request.AdminMessage = req.AdminMessage
		if saveErr := s.requestRepo.Save(txCtx, request); saveErr != nil {
			return fmt.Errorf("failed to update asset request: %w", saveErr)
		}

		if req.Status != model.AssetRequestApproved {
			return nil
		}

		for _, item := range request.Items {
			asset, lockErr := s.assetRepo.FindByIDForUpdate(txCtx, item.AssetID)
			if lockErr != nil {
				return fmt.Errorf("asset not found: %s: %w", item.AssetID, lockErr)
			}

			if asset.Stock <= 0 {
				continue
			}
			decrement := item.Quantity
			if decrement > asset.Stock {
				decrement = asset.Stock
			}
			if updateErr := s.assetRepo.UpdateStock(txCtx, asset.ID, asset.Stock-decrement); updateErr != nil {
				return fmt.Errorf("failed to update stock for asset %s: %w", asset.Name, updateErr)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, item := range request.Items {
		assetName := ""
		if item.Asset != nil {
			assetName = item.Asset.Name
		}
		if notifyErr := s.notifier.Notify(ctx, request.UserID, model.NotifAssetRequest,
			"Asset request "+req.Status,
			fmt.Sprintf("Your request for %s on %s has been %s.", assetName, item.RequestDate.Format("2006-01-02"), req.Status),
			map[string]interface{}{"asset_request_id": request.ID.String(), "status": req.Status},
		); notifyErr != nil {
			log.Println("Failed to send asset review notification:", notifyErr)
		}
	}

	return s.reload(ctx, requestID)
}

// Pay marks an approved, unpaid request as paid. The total is computed from
// current asset prices at call time, the receipt number is drawn under an
// advisory lock, and the whole transition happens inside one transaction with
// the request row locked. A notification failure never fails the payment.
func (s *assetRequestService) Pay(ctx context.Context, id string) (*PaymentResponse, error) {
	requestID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid asset request id: %w", err)
	}

	var (
		receipt string
		total   decimal.Decimal
		userID  uuid.UUID
	)

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		request, findErr := s.requestRepo.FindByIDForUpdate(txCtx, requestID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return fmt.Errorf("asset request: %w", ErrNotFound)
			}
			return fmt.Errorf("database error: %w", findErr)
		}

		if request.Status != model.AssetRequestApproved {
			return errors.New("Only approved requests can be paid")
		}
		if request.PaymentStatus == model.PaymentPaid {
			return errors.New("This request has already been paid")
		}

		total = request.TotalAmount()
		userID = request.UserID

		prefix := "RCPT-" + time.Now().Format("20060102") + "-"
		seq, seqErr := s.requestRepo.NextReceiptSequence(txCtx, prefix)
		if seqErr != nil {
			return fmt.Errorf("failed to generate receipt number: %w", seqErr)
		}
		receipt = fmt.Sprintf("%s%05d", prefix, seq)

		now := time.Now()
		request.PaymentStatus = model.PaymentPaid
		request.ReceiptNumber = &receipt
		request.AmountPaid = &total
		request.PaidAt = &now

		if saveErr := s.requestRepo.Save(txCtx, request); saveErr != nil {
			return fmt.Errorf("failed to record payment: %w", saveErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Payment success is independent of notification delivery.
	if notifyErr := s.notifier.Notify(ctx, userID, model.NotifAssetPayment,
		"Payment received",
		fmt.Sprintf("Payment of %s received. Receipt number %s.", total.StringFixed(2), receipt),
		map[string]interface{}{"asset_request_id": requestID.String(), "receipt_number": receipt},
	); notifyErr != nil {
		log.Println("Failed to send payment notification:", notifyErr)
	}

	reloaded, err := s.reload(ctx, requestID)
	if err != nil {
		return nil, err
	}

	return &PaymentResponse{
		ReceiptNumber: receipt,
		AmountPaid:    total.StringFixed(2),
		Request:       *reloaded,
	}, nil
}

func (s *assetRequestService) Delete(ctx context.Context, id string) error {
	requestID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid asset request id: %w", err)
	}

	if _, err := s.requestRepo.FindByID(ctx, requestID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("asset request: %w", ErrNotFound)
		}
		return fmt.Errorf("database error: %w", err)
	}

	return s.requestRepo.Delete(ctx, requestID)
}

func (s *assetRequestService) reload(ctx context.Context, id uuid.UUID) (*AssetRequestResponse, error) {
	request, err := s.requestRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload asset request: %w", err)
	}
	resp := toAssetRequestResponse(*request)
	return &resp, nil
}

// --- Helpers ---

func toAssetRequestResponse(r model.AssetRequest) AssetRequestResponse {
	resp := AssetRequestResponse{
		ID:            r.ID.String(),
		Status:        r.Status,
		PaymentStatus: r.PaymentStatus,
		ReceiptNumber: r.ReceiptNumber,
		AdminMessage:  r.AdminMessage,
		TotalAmount:   r.TotalAmount().StringFixed(2),
		CreatedAt:     r.CreatedAt.Format(time.RFC3339),
	}

	if r.User != nil {
		resp.UserName = r.User.Name
	}
	if r.Resident != nil {
		resp.ResidentsID = r.Resident.ResidentsID
		resp.ResidentName = r.Resident.FullName()
	}
	if r.AmountPaid != nil {
		s := r.AmountPaid.StringFixed(2)
		resp.AmountPaid = &s
	}
	if r.PaidAt != nil {
		s := r.PaidAt.Format(time.RFC3339)
		resp.PaidAt = &s
	}

	resp.Items = make([]AssetRequestItemResponse, 0, len(r.Items))
	for _, item := range r.Items {
		itemResp := AssetRequestItemResponse{
			ID:          item.ID.String(),
			AssetID:     item.AssetID.String(),
			RequestDate: item.RequestDate.Format("2006-01-02"),
			Quantity:    item.Quantity,
		}
		if item.Asset != nil {
			itemResp.AssetName = item.Asset.Name
			itemResp.AssetPrice = item.Asset.Price.StringFixed(2)
		}
		resp.Items = append(resp.Items, itemResp)
	}

	return resp
}
