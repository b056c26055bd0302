package service

import (
	"context"
	"testing"

	"backend/internal/model"
	"backend/internal/pdf"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type documentFixture struct {
	svc       DocumentService
	documents *fakeDocumentRepo
	residents *fakeResidentRepo
	store     *fakeStorage
	notifier  *fakeNotifier
	userID    uuid.UUID
}

func newDocumentFixture(t *testing.T) *documentFixture {
	t.Helper()

	documents := newFakeDocumentRepo()
	residents := newFakeResidentRepo()
	store := newFakeStorage()
	notifier := &fakeNotifier{}

	userID := uuid.New()
	residents.residents[userID] = &model.Resident{
		ID:          uuid.New(),
		UserID:      userID,
		ResidentsID: "RES-1700000000-XYZ",
		FirstName:   "Maria",
		LastName:    "Santos",
		FullAddress: "123 Mabini St., Purok 4",
	}

	generator := pdf.NewGenerator("Barangay San Isidro", "Municipality of Cainta")
	svc := NewDocumentService(documents, residents, store, generator, notifier)

	return &documentFixture{
		svc:       svc,
		documents: documents,
		residents: residents,
		store:     store,
		notifier:  notifier,
		userID:    userID,
	}
}

func (f *documentFixture) request(t *testing.T, docType string, fields map[string]string) *DocumentRequestResponse {
	t.Helper()
	resp, err := f.svc.Create(context.Background(), f.userID.String(), CreateDocumentRequestInput{
		DocumentType: docType,
		Fields:       fields,
	})
	require.NoError(t, err)
	return resp
}

func TestCreateDocumentRequest_RejectsUnknownType(t *testing.T) {
	f := newDocumentFixture(t)

	_, err := f.svc.Create(context.Background(), f.userID.String(), CreateDocumentRequestInput{
		DocumentType: "Brgy Good Standing",
		Fields:       map[string]string{"purpose": "employment"},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported document type")
	assert.Contains(t, err.Error(), model.DocTypeClearance)
}

func TestCreateDocumentRequest_RequiresSchemaFields(t *testing.T) {
	f := newDocumentFixture(t)

	_, err := f.svc.Create(context.Background(), f.userID.String(), CreateDocumentRequestInput{
		DocumentType: model.DocTypeBusinessPermit,
		Fields:       map[string]string{"purpose": "new business"},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "business_name")
}

func TestCreateDocumentRequest_RequiresResidentProfile(t *testing.T) {
	f := newDocumentFixture(t)

	_, err := f.svc.Create(context.Background(), uuid.New().String(), CreateDocumentRequestInput{
		DocumentType: model.DocTypeClearance,
		Fields:       map[string]string{"purpose": "employment"},
	})

	require.Error(t, err)
	assert.Equal(t, "Resident profile not found. Please complete your profile.", err.Error())
}

func TestCreateDocumentRequest_StartsPendingAndNotifiesAdmins(t *testing.T) {
	f := newDocumentFixture(t)

	resp := f.request(t, model.DocTypeClearance, map[string]string{"purpose": "employment"})

	assert.Equal(t, model.DocumentRequestPending, resp.Status)
	assert.Empty(t, resp.PdfPath)
	assert.Len(t, f.notifier.admin, 1)
}

func TestGeneratePdf_RequiresApprovedStatus(t *testing.T) {
	f := newDocumentFixture(t)
	resp := f.request(t, model.DocTypeClearance, map[string]string{"purpose": "employment"})

	_, err := f.svc.GeneratePdf(context.Background(), resp.ID)
	require.Error(t, err)
	assert.Equal(t, "Only approved requests can generate a certificate", err.Error())

	// pdf_path stays empty and nothing was written
	reloaded, getErr := f.svc.Get(context.Background(), resp.ID, f.userID.String(), model.RoleAdmin)
	require.NoError(t, getErr)
	assert.Empty(t, reloaded.PdfPath)
	assert.Empty(t, f.store.files)
}

func TestGeneratePdf_StatusComparedCaseInsensitively(t *testing.T) {
	f := newDocumentFixture(t)
	resp := f.request(t, model.DocTypeIndigency, map[string]string{"purpose": "medical assistance"})

	status := "Approved"
	_, err := f.svc.Update(context.Background(), resp.ID, UpdateDocumentRequestInput{Status: &status})
	require.NoError(t, err)

	result, err := f.svc.GeneratePdf(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, result.PdfPath)
	assert.True(t, f.store.Exists(result.PdfPath))
}

func TestGeneratePdf_WritesPdfAndRecordsPath(t *testing.T) {
	f := newDocumentFixture(t)
	resp := f.request(t, model.DocTypeClearance, map[string]string{"purpose": "employment"})

	status := model.DocumentRequestApproved
	_, err := f.svc.Update(context.Background(), resp.ID, UpdateDocumentRequestInput{Status: &status})
	require.NoError(t, err)

	result, err := f.svc.GeneratePdf(context.Background(), resp.ID)
	require.NoError(t, err)

	require.NotEmpty(t, result.PdfPath)
	data := f.store.files[result.PdfPath]
	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
	assert.Contains(t, result.PdfPath, "brgy-clearance-maria-santos")
}

func TestGeneratePdf_RegenerationOverwrites(t *testing.T) {
	f := newDocumentFixture(t)
	resp := f.request(t, model.DocTypeResidency, map[string]string{
		"purpose":            "school enrollment",
		"years_of_residency": "12",
	})

	status := model.DocumentRequestApproved
	_, err := f.svc.Update(context.Background(), resp.ID, UpdateDocumentRequestInput{Status: &status})
	require.NoError(t, err)

	first, err := f.svc.GeneratePdf(context.Background(), resp.ID)
	require.NoError(t, err)
	second, err := f.svc.GeneratePdf(context.Background(), resp.ID)
	require.NoError(t, err)

	assert.Equal(t, first.PdfPath, second.PdfPath)
	assert.Len(t, f.store.files, 1)
}

func TestPdfFile_RequiresGeneratedCertificate(t *testing.T) {
	f := newDocumentFixture(t)
	resp := f.request(t, model.DocTypeClearance, map[string]string{"purpose": "employment"})

	_, _, err := f.svc.PdfFile(context.Background(), resp.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generate it first")
}

func TestGetDocumentRequest_OwnershipEnforced(t *testing.T) {
	f := newDocumentFixture(t)
	resp := f.request(t, model.DocTypeClearance, map[string]string{"purpose": "employment"})

	_, err := f.svc.Get(context.Background(), resp.ID, f.userID.String(), model.RoleResident)
	require.NoError(t, err)

	_, err = f.svc.Get(context.Background(), resp.ID, uuid.New().String(), model.RoleResident)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdateDocumentRequest_StatusChangeNotifiesRequester(t *testing.T) {
	f := newDocumentFixture(t)
	resp := f.request(t, model.DocTypeClearance, map[string]string{"purpose": "employment"})

	status := model.DocumentRequestDenied
	_, err := f.svc.Update(context.Background(), resp.ID, UpdateDocumentRequestInput{Status: &status})
	require.NoError(t, err)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, f.userID, f.notifier.sent[0].UserID)
	assert.Contains(t, f.notifier.sent[0].Message, "denied")
}

func TestUpdateDocumentRequest_ReplacesAttachment(t *testing.T) {
	f := newDocumentFixture(t)
	resp := f.request(t, model.DocTypeClearance, map[string]string{"purpose": "employment"})

	attachment := "attachments/barangay-id-front.jpg"
	updated, err := f.svc.Update(context.Background(), resp.ID, UpdateDocumentRequestInput{Attachment: &attachment})
	require.NoError(t, err)
	assert.Equal(t, attachment, updated.Attachment)

	// Attachment alone is not a status change, so nobody gets notified
	assert.Empty(t, f.notifier.sent)

	// Untouched keys keep their values
	assert.Equal(t, model.DocumentRequestPending, updated.Status)
}
