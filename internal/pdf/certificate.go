package pdf

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	"backend/internal/model"

	"github.com/jung-kurt/gofpdf"
)

// Generator renders certificate PDFs for approved document requests.
type Generator interface {
	Render(request *model.DocumentRequest, resident *model.Resident) ([]byte, error)
	Filename(request *model.DocumentRequest, resident *model.Resident, date time.Time) string
}

type certificateGenerator struct {
	barangayName string
	municipality string
}

// NewGenerator returns a certificate generator. barangayName and municipality
// appear in the letterhead of every certificate.
func NewGenerator(barangayName, municipality string) Generator {
	if barangayName == "" {
		barangayName = "Barangay Office"
	}
	if municipality == "" {
		municipality = "Office of the Punong Barangay"
	}
	return &certificateGenerator{barangayName: barangayName, municipality: municipality}
}

// Render produces the PDF bytes for the request's document type. Unknown
// types are an error; there is no fallback template.
func (g *certificateGenerator) Render(request *model.DocumentRequest, resident *model.Resident) ([]byte, error) {
	var title, body string
	switch request.DocumentType {
	case model.DocTypeClearance:
		title = "BARANGAY CLEARANCE"
		body = fmt.Sprintf(
			"This is to certify that %s, of legal age, a bona fide resident of this barangay with resident ID %s, residing at %s, is known to be of good moral character and has no derogatory record on file in this office.",
			resident.FullName(), resident.ResidentsID, resident.FullAddress)
	case model.DocTypeBusinessPermit:
		title = "BARANGAY BUSINESS PERMIT"
		body = fmt.Sprintf(
			"Permission is hereby granted to %s, resident ID %s, residing at %s, to operate the business described below within the territorial jurisdiction of this barangay, subject to existing ordinances.",
			resident.FullName(), resident.ResidentsID, resident.FullAddress)
	case model.DocTypeIndigency:
		title = "CERTIFICATE OF INDIGENCY"
		body = fmt.Sprintf(
			"This is to certify that %s, resident ID %s, residing at %s, belongs to an indigent family of this barangay. This certification is issued for whatever legal purpose it may serve.",
			resident.FullName(), resident.ResidentsID, resident.FullAddress)
	case model.DocTypeResidency:
		title = "CERTIFICATE OF RESIDENCY"
		body = fmt.Sprintf(
			"This is to certify that %s, resident ID %s, is a bona fide resident of this barangay with residence at %s.",
			resident.FullName(), resident.ResidentsID, resident.FullAddress)
	default:
		return nil, fmt.Errorf("unsupported document type: %s", request.DocumentType)
	}

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetTitle(title, false)
	doc.AddPage()

	// Letterhead
	doc.SetFont("Times", "B", 14)
	doc.CellFormat(0, 7, "Republic of the Philippines", "", 1, "C", false, 0, "")
	doc.SetFont("Times", "", 12)
	doc.CellFormat(0, 6, g.municipality, "", 1, "C", false, 0, "")
	doc.SetFont("Times", "B", 12)
	doc.CellFormat(0, 6, strings.ToUpper(g.barangayName), "", 1, "C", false, 0, "")
	doc.Ln(8)

	doc.SetFont("Times", "B", 18)
	doc.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
	doc.Ln(6)

	doc.SetFont("Times", "", 12)
	doc.CellFormat(0, 6, "TO WHOM IT MAY CONCERN:", "", 1, "L", false, 0, "")
	doc.Ln(4)
	doc.MultiCell(0, 6, body, "", "J", false)
	doc.Ln(4)

	if len(request.Fields) > 0 {
		doc.SetFont("Times", "B", 12)
		doc.CellFormat(0, 6, "Particulars:", "", 1, "L", false, 0, "")
		doc.SetFont("Times", "", 12)
		for _, key := range sortedKeys(request.Fields) {
			doc.CellFormat(0, 6, fmt.Sprintf("  %s: %v", humanizeKey(key), request.Fields[key]), "", 1, "L", false, 0, "")
		}
		doc.Ln(4)
	}

	now := time.Now()
	doc.MultiCell(0, 6, fmt.Sprintf("Issued this %d%s day of %s at the office of the %s.",
		now.Day(), ordinalSuffix(now.Day()), now.Format("January 2006"), g.barangayName), "", "J", false)
	doc.Ln(16)

	doc.SetFont("Times", "B", 12)
	doc.CellFormat(0, 6, "PUNONG BARANGAY", "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render certificate: %w", err)
	}
	return buf.Bytes(), nil
}

// Filename builds the deterministic certificate filename
// {doctype}-{residentname}-{date}-{id}.pdf.
func (g *certificateGenerator) Filename(request *model.DocumentRequest, resident *model.Resident, date time.Time) string {
	docType := slugify(request.DocumentType)
	name := slugify(resident.FirstName + " " + resident.LastName)
	return fmt.Sprintf("%s-%s-%s-%s.pdf", docType, name, date.Format("2006-01-02"), request.ID)
}

func slugify(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "-")
}

func ordinalSuffix(day int) string {
	if day >= 11 && day <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	}
	return "th"
}

func humanizeKey(key string) string {
	s := strings.ReplaceAll(key, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func sortedKeys(m model.JSONMap) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
