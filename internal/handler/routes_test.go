package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- service stubs ---

type stubAssetRequestService struct{}

func (s *stubAssetRequestService) Create(ctx context.Context, userID string, req service.CreateAssetRequestInput) (*service.AssetRequestResponse, error) {
	return &service.AssetRequestResponse{}, nil
}

func (s *stubAssetRequestService) List(ctx context.Context, userID, role string) ([]service.AssetRequestResponse, error) {
	return nil, nil
}

func (s *stubAssetRequestService) Get(ctx context.Context, id, userID, role string) (*service.AssetRequestResponse, error) {
	return &service.AssetRequestResponse{}, nil
}

func (s *stubAssetRequestService) Review(ctx context.Context, id string, req service.ReviewAssetRequestInput) (*service.AssetRequestResponse, error) {
	return &service.AssetRequestResponse{ID: id, Status: req.Status}, nil
}

func (s *stubAssetRequestService) Pay(ctx context.Context, id string) (*service.PaymentResponse, error) {
	return &service.PaymentResponse{}, nil
}

func (s *stubAssetRequestService) Delete(ctx context.Context, id string) error { return nil }

type stubDocumentService struct{}

func (s *stubDocumentService) Create(ctx context.Context, userID string, req service.CreateDocumentRequestInput) (*service.DocumentRequestResponse, error) {
	return &service.DocumentRequestResponse{}, nil
}

func (s *stubDocumentService) List(ctx context.Context) ([]service.DocumentRequestResponse, error) {
	return nil, nil
}

func (s *stubDocumentService) ListMine(ctx context.Context, userID string) ([]service.DocumentRequestResponse, error) {
	return nil, nil
}

func (s *stubDocumentService) Get(ctx context.Context, id, userID, role string) (*service.DocumentRequestResponse, error) {
	return &service.DocumentRequestResponse{}, nil
}

func (s *stubDocumentService) Update(ctx context.Context, id string, req service.UpdateDocumentRequestInput) (*service.DocumentRequestResponse, error) {
	return &service.DocumentRequestResponse{ID: id}, nil
}

func (s *stubDocumentService) GeneratePdf(ctx context.Context, id string) (*service.DocumentRequestResponse, error) {
	return &service.DocumentRequestResponse{ID: id}, nil
}

func (s *stubDocumentService) PdfFile(ctx context.Context, id string) (string, string, error) {
	return "", "", service.ErrNotFound
}

func (s *stubDocumentService) Delete(ctx context.Context, id string) error { return nil }

type stubAnnouncementService struct {
	listedDrafts []bool
	stored       model.Announcement
}

func (s *stubAnnouncementService) Create(ctx context.Context, req service.AnnouncementInput) (*model.Announcement, error) {
	return &s.stored, nil
}

func (s *stubAnnouncementService) Get(ctx context.Context, id string) (*model.Announcement, error) {
	return &s.stored, nil
}

func (s *stubAnnouncementService) List(ctx context.Context, includeDrafts bool) ([]model.Announcement, error) {
	s.listedDrafts = append(s.listedDrafts, includeDrafts)
	return []model.Announcement{}, nil
}

func (s *stubAnnouncementService) Update(ctx context.Context, id string, req service.AnnouncementInput) (*model.Announcement, error) {
	return &s.stored, nil
}

func (s *stubAnnouncementService) TogglePosted(ctx context.Context, id string) (*model.Announcement, error) {
	return &s.stored, nil
}

func (s *stubAnnouncementService) Delete(ctx context.Context, id string) error { return nil }

var (
	_ service.AssetRequestService = (*stubAssetRequestService)(nil)
	_ service.DocumentService     = (*stubDocumentService)(nil)
	_ service.AnnouncementService = (*stubAnnouncementService)(nil)
)

// --- helpers ---

func newTestRouter() (*gin.Engine, *stubAnnouncementService) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	group := router.Group("")

	NewAssetRequestHandler(&stubAssetRequestService{}).RegisterRoutes(group)
	NewDocumentHandler(&stubDocumentService{}).RegisterRoutes(group)

	announcements := &stubAnnouncementService{}
	NewAnnouncementHandler(announcements).RegisterRoutes(group)

	return router, announcements
}

func signTestToken(t *testing.T, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "9f0c4f1a-0000-0000-0000-000000000001",
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(middleware.GetJWTSecret())
	require.NoError(t, err)
	return signed
}

func doRequest(router *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// --- tests ---

func TestWorkflowRoutesAreRegistered(t *testing.T) {
	router, _ := newTestRouter()

	// Without a token every route must still resolve: 401 from the auth
	// middleware, never a 404 from the router.
	cases := []struct {
		method string
		path   string
	}{
		{http.MethodPatch, "/asset-requests/abc"},
		{http.MethodPost, "/asset-requests/abc/pay"},
		{http.MethodDelete, "/asset-requests/abc"},
		{http.MethodPut, "/document-requests/abc"},
		{http.MethodPatch, "/document-requests/abc"},
		{http.MethodPost, "/document-requests/abc/generate-pdf"},
		{http.MethodGet, "/document-requests/abc/download-pdf"},
	}

	for _, tc := range cases {
		rec := doRequest(router, tc.method, tc.path, "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestReviewRouteAcceptsAdmin(t *testing.T) {
	router, _ := newTestRouter()
	token := signTestToken(t, model.RoleAdmin)

	rec := doRequest(router, http.MethodPatch, "/asset-requests/abc", token, `{"status":"approved"}`)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestPayRouteAcceptsTreasurer(t *testing.T) {
	router, _ := newTestRouter()
	token := signTestToken(t, model.RoleTreasurer)

	rec := doRequest(router, http.MethodPost, "/asset-requests/abc/pay", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestPayRouteRejectsResident(t *testing.T) {
	router, _ := newTestRouter()
	token := signTestToken(t, model.RoleResident)

	rec := doRequest(router, http.MethodPost, "/asset-requests/abc/pay", token, "")
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDocumentUpdateAcceptsPutAndPatch(t *testing.T) {
	router, _ := newTestRouter()
	token := signTestToken(t, model.RoleStaff)

	for _, method := range []string{http.MethodPut, http.MethodPatch} {
		rec := doRequest(router, method, "/document-requests/abc", token, `{"status":"approved"}`)
		require.Equal(t, http.StatusOK, rec.Code, method)
	}
}

func TestAnnouncementListIsPublic(t *testing.T) {
	router, announcements := newTestRouter()

	rec := doRequest(router, http.MethodGet, "/announcements", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, announcements.listedDrafts, 1)
	assert.False(t, announcements.listedDrafts[0], "guests must not see drafts")
}

func TestAnnouncementListIncludesDraftsForStaff(t *testing.T) {
	router, announcements := newTestRouter()
	token := signTestToken(t, model.RoleStaff)

	rec := doRequest(router, http.MethodGet, "/announcements", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, announcements.listedDrafts, 1)
	assert.True(t, announcements.listedDrafts[0])
}

func TestAnnouncementGetHidesDraftsFromGuests(t *testing.T) {
	router, announcements := newTestRouter()
	announcements.stored = model.Announcement{Title: "Fiesta schedule", Status: model.AnnouncementDraft}

	rec := doRequest(router, http.MethodGet, "/announcements/abc", "", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	announcements.stored.Status = model.AnnouncementPosted
	rec = doRequest(router, http.MethodGet, "/announcements/abc", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
}
