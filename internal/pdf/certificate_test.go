package pdf

import (
	"testing"
	"time"

	"backend/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testResident() *model.Resident {
	return &model.Resident{
		ID:          uuid.New(),
		ResidentsID: "RES-1700000000-ABC",
		FirstName:   "Juan",
		MiddleName:  "Protacio",
		LastName:    "Dela Cruz",
		FullAddress: "45 Rizal Ave., Purok 2",
	}
}

func TestRender_ProducesPdfForEverySupportedType(t *testing.T) {
	g := NewGenerator("Barangay San Isidro", "Municipality of Cainta")
	resident := testResident()

	for _, docType := range model.DocumentTypes() {
		request := &model.DocumentRequest{
			ID:           uuid.New(),
			DocumentType: docType,
			Fields:       model.JSONMap{"purpose": "employment"},
		}

		data, err := g.Render(request, resident)
		require.NoError(t, err, "type %s", docType)
		require.NotEmpty(t, data)
		assert.Equal(t, "%PDF", string(data[:4]), "type %s", docType)
	}
}

func TestRender_UnknownTypeFailsFast(t *testing.T) {
	g := NewGenerator("Barangay San Isidro", "Municipality of Cainta")

	request := &model.DocumentRequest{
		ID:           uuid.New(),
		DocumentType: "Brgy Certificate of Appearance",
	}

	_, err := g.Render(request, testResident())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported document type")
}

func TestFilename_IsDeterministic(t *testing.T) {
	g := NewGenerator("", "")
	resident := testResident()
	request := &model.DocumentRequest{
		ID:           uuid.MustParse("c6f1b9a0-0000-0000-0000-000000000001"),
		DocumentType: model.DocTypeClearance,
	}

	date := time.Date(2026, time.September, 15, 10, 0, 0, 0, time.UTC)
	name := g.Filename(request, resident, date)

	assert.Equal(t, "brgy-clearance-juan-dela-cruz-2026-09-15-c6f1b9a0-0000-0000-0000-000000000001.pdf", name)
	assert.Equal(t, name, g.Filename(request, resident, date))
}

func TestOrdinalSuffix(t *testing.T) {
	cases := map[int]string{
		1: "st", 2: "nd", 3: "rd", 4: "th",
		11: "th", 12: "th", 13: "th",
		21: "st", 22: "nd", 23: "rd", 31: "st",
	}
	for day, want := range cases {
		assert.Equal(t, want, ordinalSuffix(day), "day %d", day)
	}
}
