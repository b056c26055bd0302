package service

import (
	"context"
	"testing"
	"time"

	"backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type assetRequestFixture struct {
	svc         AssetRequestService
	assets      *fakeAssetRepo
	requests    *fakeAssetRequestRepo
	residents   *fakeResidentRepo
	notifier    *fakeNotifier
	userID      uuid.UUID
	residentRow *model.Resident
}

func newAssetRequestFixture(t *testing.T) *assetRequestFixture {
	t.Helper()

	assets := newFakeAssetRepo()
	requests := newFakeAssetRequestRepo(assets)
	residents := newFakeResidentRepo()
	notifier := &fakeNotifier{}

	userID := uuid.New()
	resident := &model.Resident{
		ID:          uuid.New(),
		UserID:      userID,
		ResidentsID: "RES-1700000000-ABC",
		FirstName:   "Juan",
		LastName:    "Dela Cruz",
	}
	residents.residents[userID] = resident

	svc := NewAssetRequestService(requests, assets, residents, &fakeTxManager{}, notifier)

	return &assetRequestFixture{
		svc:         svc,
		assets:      assets,
		requests:    requests,
		residents:   residents,
		notifier:    notifier,
		userID:      userID,
		residentRow: resident,
	}
}

func (f *assetRequestFixture) addAsset(t *testing.T, name string, price string, stock int) *model.Asset {
	t.Helper()
	p, err := decimal.NewFromString(price)
	require.NoError(t, err)
	asset := &model.Asset{ID: uuid.New(), Name: name, Price: p, Stock: stock}
	f.assets.assets[asset.ID] = asset
	return asset
}

func (f *assetRequestFixture) submit(t *testing.T, items ...AssetRequestItemInput) *AssetRequestResponse {
	t.Helper()
	resp, err := f.svc.Create(context.Background(), f.userID.String(), CreateAssetRequestInput{Items: items})
	require.NoError(t, err)
	return resp
}

func TestCreateAssetRequest_RequiresResidentProfile(t *testing.T) {
	f := newAssetRequestFixture(t)
	asset := f.addAsset(t, "Tent", "500", 5)

	strangerID := uuid.New()
	_, err := f.svc.Create(context.Background(), strangerID.String(), CreateAssetRequestInput{
		Items: []AssetRequestItemInput{{AssetID: asset.ID.String(), RequestDate: "2026-09-15", Quantity: 1}},
	})

	require.Error(t, err)
	assert.Equal(t, "Resident profile not found. Please complete your profile.", err.Error())
}

func TestCreateAssetRequest_InsufficientStock(t *testing.T) {
	f := newAssetRequestFixture(t)
	asset := f.addAsset(t, "Sound System", "1500", 1)

	_, err := f.svc.Create(context.Background(), f.userID.String(), CreateAssetRequestInput{
		Items: []AssetRequestItemInput{{AssetID: asset.ID.String(), RequestDate: "2026-09-15", Quantity: 2}},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not have enough stock")
	// Nothing persisted
	all, listErr := f.requests.List(context.Background())
	require.NoError(t, listErr)
	assert.Empty(t, all)
}

func TestCreateAssetRequest_StartsPendingUnpaid(t *testing.T) {
	f := newAssetRequestFixture(t)
	tent := f.addAsset(t, "Tent", "50", 10)

	resp := f.submit(t, AssetRequestItemInput{AssetID: tent.ID.String(), RequestDate: "2026-09-15", Quantity: 2})

	assert.Equal(t, model.AssetRequestPending, resp.Status)
	assert.Equal(t, model.PaymentUnpaid, resp.PaymentStatus)
	assert.Nil(t, resp.ReceiptNumber)
	assert.Len(t, resp.Items, 1)
	// Stock untouched until approval
	stored, _ := f.assets.FindByID(context.Background(), tent.ID)
	assert.Equal(t, 10, stored.Stock)
	// Requester notified per item, admins fanned out once
	assert.Len(t, f.notifier.sent, 1)
	assert.Len(t, f.notifier.admin, 1)
}

func TestReviewAssetRequest_ApproveDecrementsStock(t *testing.T) {
	f := newAssetRequestFixture(t)
	tent := f.addAsset(t, "Tent", "50", 5)
	resp := f.submit(t, AssetRequestItemInput{AssetID: tent.ID.String(), RequestDate: "2026-09-15", Quantity: 2})

	reviewed, err := f.svc.Review(context.Background(), resp.ID, ReviewAssetRequestInput{Status: model.AssetRequestApproved})
	require.NoError(t, err)

	assert.Equal(t, model.AssetRequestApproved, reviewed.Status)
	stored, _ := f.assets.FindByID(context.Background(), tent.ID)
	assert.Equal(t, 3, stored.Stock)
}

func TestReviewAssetRequest_DenyLeavesStockAlone(t *testing.T) {
	f := newAssetRequestFixture(t)
	tent := f.addAsset(t, "Tent", "50", 5)
	resp := f.submit(t, AssetRequestItemInput{AssetID: tent.ID.String(), RequestDate: "2026-09-15", Quantity: 2})

	reviewed, err := f.svc.Review(context.Background(), resp.ID, ReviewAssetRequestInput{
		Status:       model.AssetRequestDenied,
		AdminMessage: "Already booked for that date",
	})
	require.NoError(t, err)

	assert.Equal(t, model.AssetRequestDenied, reviewed.Status)
	assert.Equal(t, "Already booked for that date", reviewed.AdminMessage)
	stored, _ := f.assets.FindByID(context.Background(), tent.ID)
	assert.Equal(t, 5, stored.Stock)
}

func TestReviewAssetRequest_ZeroStockIsSkipped(t *testing.T) {
	f := newAssetRequestFixture(t)
	tent := f.addAsset(t, "Tent", "50", 2)
	resp := f.submit(t, AssetRequestItemInput{AssetID: tent.ID.String(), RequestDate: "2026-09-15", Quantity: 2})

	// Stock drains to zero before the admin reviews
	tent.Stock = 0

	_, err := f.svc.Review(context.Background(), resp.ID, ReviewAssetRequestInput{Status: model.AssetRequestApproved})
	require.NoError(t, err)

	stored, _ := f.assets.FindByID(context.Background(), tent.ID)
	assert.Equal(t, 0, stored.Stock)
}

func TestReviewAssetRequest_DecrementNeverGoesNegative(t *testing.T) {
	f := newAssetRequestFixture(t)
	tent := f.addAsset(t, "Tent", "50", 5)
	resp := f.submit(t, AssetRequestItemInput{AssetID: tent.ID.String(), RequestDate: "2026-09-15", Quantity: 5})

	// Partial drain between submission and approval
	tent.Stock = 3

	_, err := f.svc.Review(context.Background(), resp.ID, ReviewAssetRequestInput{Status: model.AssetRequestApproved})
	require.NoError(t, err)

	stored, _ := f.assets.FindByID(context.Background(), tent.ID)
	assert.Equal(t, 0, stored.Stock)
}

func TestPay_RejectsPendingRequest(t *testing.T) {
	f := newAssetRequestFixture(t)
	tent := f.addAsset(t, "Tent", "50", 5)
	resp := f.submit(t, AssetRequestItemInput{AssetID: tent.ID.String(), RequestDate: "2026-09-15", Quantity: 1})

	_, err := f.svc.Pay(context.Background(), resp.ID)
	require.Error(t, err)
	assert.Equal(t, "Only approved requests can be paid", err.Error())

	reloaded, getErr := f.svc.Get(context.Background(), resp.ID, f.userID.String(), model.RoleAdmin)
	require.NoError(t, getErr)
	assert.Equal(t, model.PaymentUnpaid, reloaded.PaymentStatus)
	assert.Nil(t, reloaded.ReceiptNumber)
}

func TestPay_RejectsDeniedRequest(t *testing.T) {
	f := newAssetRequestFixture(t)
	tent := f.addAsset(t, "Tent", "50", 5)
	resp := f.submit(t, AssetRequestItemInput{AssetID: tent.ID.String(), RequestDate: "2026-09-15", Quantity: 1})

	_, err := f.svc.Review(context.Background(), resp.ID, ReviewAssetRequestInput{Status: model.AssetRequestDenied})
	require.NoError(t, err)

	_, err = f.svc.Pay(context.Background(), resp.ID)
	require.Error(t, err)
	assert.Equal(t, "Only approved requests can be paid", err.Error())
}

func TestPay_HappyPathComputesTotalAndReceipt(t *testing.T) {
	f := newAssetRequestFixture(t)
	tent := f.addAsset(t, "Tent", "50", 10)
	sound := f.addAsset(t, "Sound System", "150", 3)
	resp := f.submit(t,
		AssetRequestItemInput{AssetID: tent.ID.String(), RequestDate: "2026-09-15", Quantity: 2},
		AssetRequestItemInput{AssetID: sound.ID.String(), RequestDate: "2026-09-15", Quantity: 1},
	)

	_, err := f.svc.Review(context.Background(), resp.ID, ReviewAssetRequestInput{Status: model.AssetRequestApproved})
	require.NoError(t, err)

	payment, err := f.svc.Pay(context.Background(), resp.ID)
	require.NoError(t, err)

	// 2 x 50 + 1 x 150
	assert.Equal(t, "250.00", payment.AmountPaid)
	expectedPrefix := "RCPT-" + time.Now().Format("20060102") + "-"
	assert.Equal(t, expectedPrefix+"00001", payment.ReceiptNumber)

	assert.Equal(t, model.PaymentPaid, payment.Request.PaymentStatus)
	require.NotNil(t, payment.Request.AmountPaid)
	assert.Equal(t, "250.00", *payment.Request.AmountPaid)
	require.NotNil(t, payment.Request.PaidAt)
}

func TestPay_UsesCurrentPriceNotSubmissionPrice(t *testing.T) {
	f := newAssetRequestFixture(t)
	tent := f.addAsset(t, "Tent", "50", 10)
	resp := f.submit(t, AssetRequestItemInput{AssetID: tent.ID.String(), RequestDate: "2026-09-15", Quantity: 2})

	_, err := f.svc.Review(context.Background(), resp.ID, ReviewAssetRequestInput{Status: model.AssetRequestApproved})
	require.NoError(t, err)

	// Price change between approval and payment
	tent.Price = decimal.NewFromInt(80)

	payment, err := f.svc.Pay(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "160.00", payment.AmountPaid)
}

func TestPay_SecondPaymentRejected(t *testing.T) {
	f := newAssetRequestFixture(t)
	tent := f.addAsset(t, "Tent", "50", 10)
	resp := f.submit(t, AssetRequestItemInput{AssetID: tent.ID.String(), RequestDate: "2026-09-15", Quantity: 1})

	_, err := f.svc.Review(context.Background(), resp.ID, ReviewAssetRequestInput{Status: model.AssetRequestApproved})
	require.NoError(t, err)

	first, err := f.svc.Pay(context.Background(), resp.ID)
	require.NoError(t, err)

	_, err = f.svc.Pay(context.Background(), resp.ID)
	require.Error(t, err)
	assert.Equal(t, "This request has already been paid", err.Error())

	// The original receipt survives
	reloaded, getErr := f.svc.Get(context.Background(), resp.ID, f.userID.String(), model.RoleAdmin)
	require.NoError(t, getErr)
	require.NotNil(t, reloaded.ReceiptNumber)
	assert.Equal(t, first.ReceiptNumber, *reloaded.ReceiptNumber)
}

func TestPay_NotificationFailureDoesNotFailPayment(t *testing.T) {
	f := newAssetRequestFixture(t)
	tent := f.addAsset(t, "Tent", "50", 10)
	resp := f.submit(t, AssetRequestItemInput{AssetID: tent.ID.String(), RequestDate: "2026-09-15", Quantity: 1})

	_, err := f.svc.Review(context.Background(), resp.ID, ReviewAssetRequestInput{Status: model.AssetRequestApproved})
	require.NoError(t, err)

	f.notifier.failNext = true

	payment, err := f.svc.Pay(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPaid, payment.Request.PaymentStatus)
}

func TestGetAssetRequest_OwnershipEnforced(t *testing.T) {
	f := newAssetRequestFixture(t)
	tent := f.addAsset(t, "Tent", "50", 10)
	resp := f.submit(t, AssetRequestItemInput{AssetID: tent.ID.String(), RequestDate: "2026-09-15", Quantity: 1})

	// Owner sees it
	_, err := f.svc.Get(context.Background(), resp.ID, f.userID.String(), model.RoleResident)
	require.NoError(t, err)

	// Another resident does not
	_, err = f.svc.Get(context.Background(), resp.ID, uuid.New().String(), model.RoleResident)
	assert.ErrorIs(t, err, ErrForbidden)

	// Admin always can
	_, err = f.svc.Get(context.Background(), resp.ID, uuid.New().String(), model.RoleAdmin)
	require.NoError(t, err)
}

func TestTotalAmount_SumsItemPrices(t *testing.T) {
	tent := model.Asset{ID: uuid.New(), Name: "Tent", Price: decimal.NewFromInt(50)}
	chairs := model.Asset{ID: uuid.New(), Name: "Chairs", Price: decimal.RequireFromString("12.50")}

	request := model.AssetRequest{
		Items: []model.AssetRequestItem{
			{Asset: &tent, Quantity: 2},
			{Asset: &chairs, Quantity: 10},
		},
	}

	assert.Equal(t, "225.00", request.TotalAmount().StringFixed(2))
}
