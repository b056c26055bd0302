package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"sync"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory stand-ins for the repository layer. They mirror the lookup
// semantics the services rely on, including gorm.ErrRecordNotFound.

type fakeTxManager struct{}

func (f *fakeTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

type sentNotification struct {
	UserID  uuid.UUID
	Type    string
	Title   string
	Message string
	Data    map[string]interface{}
}

type fakeNotifier struct {
	mu       sync.Mutex
	sent     []sentNotification
	admin    []sentNotification
	failNext bool
}

func (f *fakeNotifier) Notify(ctx context.Context, userID uuid.UUID, notifType, title, message string, data map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext {
		return errors.New("hub unavailable")
	}
	f.sent = append(f.sent, sentNotification{UserID: userID, Type: notifType, Title: title, Message: message, Data: data})
	return nil
}

func (f *fakeNotifier) NotifyAdmins(ctx context.Context, notifType, title, message string, data map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext {
		return errors.New("hub unavailable")
	}
	f.admin = append(f.admin, sentNotification{Type: notifType, Title: title, Message: message, Data: data})
	return nil
}

func (f *fakeNotifier) ListForUser(ctx context.Context, userID string, page, limit int) ([]NotificationResponse, int64, error) {
	return nil, 0, nil
}

func (f *fakeNotifier) MarkRead(ctx context.Context, id string, userID string) (NotificationResponse, error) {
	return NotificationResponse{}, nil
}

type fakeResidentRepo struct {
	residents map[uuid.UUID]*model.Resident // keyed by user ID
	profiles  map[uuid.UUID]*model.Profile  // keyed by user ID
}

func newFakeResidentRepo() *fakeResidentRepo {
	return &fakeResidentRepo{
		residents: map[uuid.UUID]*model.Resident{},
		profiles:  map[uuid.UUID]*model.Profile{},
	}
}

func (f *fakeResidentRepo) CreatePair(ctx context.Context, profile *model.Profile, resident *model.Resident) error {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	if resident.ID == uuid.Nil {
		resident.ID = uuid.New()
	}
	resident.ProfileID = profile.ID
	f.profiles[profile.UserID] = profile
	f.residents[resident.UserID] = resident
	return nil
}

func (f *fakeResidentRepo) GetResidentByID(ctx context.Context, id uuid.UUID) (*model.Resident, error) {
	for _, r := range f.residents {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeResidentRepo) GetResidentByUserID(ctx context.Context, userID uuid.UUID) (*model.Resident, error) {
	if r, ok := f.residents[userID]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeResidentRepo) GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	if p, ok := f.profiles[userID]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeResidentRepo) ProfileExists(ctx context.Context, userID uuid.UUID) (bool, error) {
	_, ok := f.profiles[userID]
	return ok, nil
}

func (f *fakeResidentRepo) List(ctx context.Context) ([]model.Resident, error) {
	var out []model.Resident
	for _, r := range f.residents {
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeResidentRepo) UpdateProfile(ctx context.Context, profile *model.Profile) error {
	f.profiles[profile.UserID] = profile
	return nil
}

func (f *fakeResidentRepo) UpdateResident(ctx context.Context, resident *model.Resident) error {
	f.residents[resident.UserID] = resident
	return nil
}

func (f *fakeResidentRepo) DeleteDuplicateResidents(ctx context.Context, userID uuid.UUID, keepID uuid.UUID) error {
	return nil
}

type fakeAssetRepo struct {
	assets map[uuid.UUID]*model.Asset
}

func newFakeAssetRepo() *fakeAssetRepo {
	return &fakeAssetRepo{assets: map[uuid.UUID]*model.Asset{}}
}

func (f *fakeAssetRepo) Create(ctx context.Context, asset *model.Asset) error {
	if asset.ID == uuid.Nil {
		asset.ID = uuid.New()
	}
	f.assets[asset.ID] = asset
	return nil
}

func (f *fakeAssetRepo) Update(ctx context.Context, asset *model.Asset) error {
	f.assets[asset.ID] = asset
	return nil
}

func (f *fakeAssetRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Asset, error) {
	if a, ok := f.assets[id]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAssetRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Asset, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeAssetRepo) List(ctx context.Context, page, limit int, search string) ([]model.Asset, int64, error) {
	var out []model.Asset
	for _, a := range f.assets {
		out = append(out, *a)
	}
	return out, int64(len(out)), nil
}

func (f *fakeAssetRepo) UpdateStock(ctx context.Context, id uuid.UUID, stock int) error {
	a, ok := f.assets[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	a.Stock = stock
	return nil
}

type fakeAssetRequestRepo struct {
	requests map[uuid.UUID]*model.AssetRequest
	assets   *fakeAssetRepo
	seq      int64
}

func newFakeAssetRequestRepo(assets *fakeAssetRepo) *fakeAssetRequestRepo {
	return &fakeAssetRequestRepo{
		requests: map[uuid.UUID]*model.AssetRequest{},
		assets:   assets,
	}
}

func (f *fakeAssetRequestRepo) Create(ctx context.Context, request *model.AssetRequest) error {
	if request.ID == uuid.Nil {
		request.ID = uuid.New()
	}
	stored := *request
	stored.Items = nil
	f.requests[request.ID] = &stored
	return nil
}

func (f *fakeAssetRequestRepo) CreateItem(ctx context.Context, item *model.AssetRequestItem) error {
	request, ok := f.requests[item.AssetRequestID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	request.Items = append(request.Items, *item)
	return nil
}

func (f *fakeAssetRequestRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.AssetRequest, error) {
	request, ok := f.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *request
	copied.Items = make([]model.AssetRequestItem, len(request.Items))
	// Preload current asset rows the way the real repository does
	for i, item := range request.Items {
		copied.Items[i] = item
		if a, ok := f.assets.assets[item.AssetID]; ok {
			assetCopy := *a
			copied.Items[i].Asset = &assetCopy
		}
	}
	return &copied, nil
}

func (f *fakeAssetRequestRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.AssetRequest, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeAssetRequestRepo) List(ctx context.Context) ([]model.AssetRequest, error) {
	var out []model.AssetRequest
	for id := range f.requests {
		r, _ := f.FindByID(ctx, id)
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeAssetRequestRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.AssetRequest, error) {
	var out []model.AssetRequest
	for id, r := range f.requests {
		if r.UserID == userID {
			loaded, _ := f.FindByID(ctx, id)
			out = append(out, *loaded)
		}
	}
	return out, nil
}

func (f *fakeAssetRequestRepo) Save(ctx context.Context, request *model.AssetRequest) error {
	stored, ok := f.requests[request.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	items := stored.Items
	updated := *request
	updated.Items = items
	f.requests[request.ID] = &updated
	return nil
}

func (f *fakeAssetRequestRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.requests[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.requests, id)
	return nil
}

func (f *fakeAssetRequestRepo) NextReceiptSequence(ctx context.Context, prefix string) (int64, error) {
	f.seq++
	return f.seq, nil
}

type fakeDocumentRepo struct {
	requests map[uuid.UUID]*model.DocumentRequest
}

func newFakeDocumentRepo() *fakeDocumentRepo {
	return &fakeDocumentRepo{requests: map[uuid.UUID]*model.DocumentRequest{}}
}

func (f *fakeDocumentRepo) Create(ctx context.Context, request *model.DocumentRequest) error {
	if request.ID == uuid.Nil {
		request.ID = uuid.New()
	}
	f.requests[request.ID] = request
	return nil
}

func (f *fakeDocumentRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.DocumentRequest, error) {
	if r, ok := f.requests[id]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeDocumentRepo) List(ctx context.Context) ([]model.DocumentRequest, error) {
	var out []model.DocumentRequest
	for _, r := range f.requests {
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeDocumentRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.DocumentRequest, error) {
	var out []model.DocumentRequest
	for _, r := range f.requests {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeDocumentRepo) Save(ctx context.Context, request *model.DocumentRequest) error {
	if _, ok := f.requests[request.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *request
	f.requests[request.ID] = &stored
	return nil
}

func (f *fakeDocumentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.requests, id)
	return nil
}

type fakeStorage struct {
	files map[string][]byte
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{files: map[string][]byte{}}
}

func (f *fakeStorage) Save(dir, filename string, data []byte) (string, error) {
	path := dir + "/" + filename
	f.files[path] = data
	return path, nil
}

func (f *fakeStorage) SaveUpload(dir string, file *multipart.FileHeader) (string, error) {
	path := fmt.Sprintf("%s/%s", dir, file.Filename)
	f.files[path] = nil
	return path, nil
}

func (f *fakeStorage) Open(path string) (io.ReadCloser, error) {
	data, ok := f.files[path]
	if !ok {
		return nil, errors.New("file not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeStorage) Delete(path string) error {
	delete(f.files, path)
	return nil
}

func (f *fakeStorage) Exists(path string) bool {
	_, ok := f.files[path]
	return ok
}

func (f *fakeStorage) AbsolutePath(path string) string {
	return "/srv/storage/" + path
}

type fakeUserRepo struct {
	users  map[string]*model.User // keyed by ID string
	tokens map[string]*model.RefreshToken
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:  map[string]*model.User{},
		tokens: map[string]*model.RefreshToken{},
	}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	f.users[user.ID.String()] = user
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) ListByRole(ctx context.Context, role string) ([]model.User, error) {
	var out []model.User
	for _, u := range f.users {
		if u.Role == role {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) List(ctx context.Context, page, limit int) ([]model.User, int64, error) {
	var out []model.User
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *model.User) error {
	f.users[user.ID.String()] = user
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id string) error {
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) SaveRefreshToken(ctx context.Context, token *model.RefreshToken) error {
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	f.tokens[token.Token] = token
	return nil
}

func (f *fakeUserRepo) GetRefreshToken(ctx context.Context, token string) (*model.RefreshToken, error) {
	if t, ok := f.tokens[token]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) DeleteRefreshTokens(ctx context.Context, userID string) error {
	for k, t := range f.tokens {
		if t.UserID.String() == userID {
			delete(f.tokens, k)
		}
	}
	return nil
}

// Interface conformance
var (
	_ repository.TransactionManager       = (*fakeTxManager)(nil)
	_ NotificationService                 = (*fakeNotifier)(nil)
	_ repository.ResidentRepository       = (*fakeResidentRepo)(nil)
	_ repository.AssetRepository          = (*fakeAssetRepo)(nil)
	_ repository.AssetRequestRepository   = (*fakeAssetRequestRepo)(nil)
	_ repository.DocumentRequestRepository = (*fakeDocumentRepo)(nil)
	_ repository.UserRepository           = (*fakeUserRepo)(nil)
	_ storage.Storage                     = (*fakeStorage)(nil)
)
