package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

// ProfileInput carries the full demographic form. Bound from multipart so the
// avatar can ride along with the fields.
type ProfileInput struct {
	FirstName      string `form:"first_name" binding:"required"`
	MiddleName     string `form:"middle_name"`
	LastName       string `form:"last_name" binding:"required"`
	NameSuffix     string `form:"name_suffix"`
	BirthDate      string `form:"birth_date" binding:"required"`
	BirthPlace     string `form:"birth_place" binding:"required"`
	Age            int    `form:"age" binding:"required,min=0"`
	Nationality    string `form:"nationality"`
	Sex            string `form:"sex" binding:"required"`
	CivilStatus    string `form:"civil_status" binding:"required"`
	Religion       string `form:"religion" binding:"required"`
	RelationToHead string `form:"relation_to_head"`

	Email         string `form:"email" binding:"required,email"`
	ContactNumber string `form:"contact_number" binding:"required"`
	FullAddress   string `form:"full_address" binding:"required"`

	YearsInBarangay int    `form:"years_in_barangay" binding:"min=0"`
	VoterStatus     string `form:"voter_status" binding:"required"`
	VotersIDNumber  string `form:"voters_id_number"`
	VotingLocation  string `form:"voting_location"`

	HousingType  string `form:"housing_type"`
	HeadOfFamily bool   `form:"head_of_family"`
	HouseholdNo  string `form:"household_no"`

	ClassifiedSector        string `form:"classified_sector"`
	EducationalAttainment   string `form:"educational_attainment"`
	OccupationType          string `form:"occupation_type"`
	SalaryIncome            string `form:"salary_income"`
	BusinessInfo            string `form:"business_info"`
	BusinessType            string `form:"business_type"`
	BusinessLocation        string `form:"business_location"`
	BusinessOutsideBarangay bool   `form:"business_outside_barangay"`

	SpecialCategories  []string `form:"special_categories"`
	CovidVaccineStatus string   `form:"covid_vaccine_status"`
	VaccineReceived    []string `form:"vaccine_received"`
	OtherVaccine       string   `form:"other_vaccine"`
	YearVaccinated     int      `form:"year_vaccinated"`

	Avatar *multipart.FileHeader `form:"-"`
}

type ResidentSummary struct {
	ID          string `json:"id"`
	ResidentsID string `json:"residents_id"`
	FirstName   string `json:"first_name"`
	MiddleName  string `json:"middle_name"`
	LastName    string `json:"last_name"`
	FullAddress string `json:"full_address"`
	HouseholdNo string `json:"household_no"`
	Avatar      string `json:"avatar"`
}

// --- Interface ---

type ResidentService interface {
	CompleteProfile(ctx context.Context, userID string, req ProfileInput) (*model.Profile, error)
	GetMyProfile(ctx context.Context, userID string) (*model.Profile, error)
	UpdateProfile(ctx context.Context, userID string, req ProfileInput) (*model.Profile, error)
	ListResidents(ctx context.Context) ([]ResidentSummary, error)
	GetResident(ctx context.Context, id string) (*model.Resident, error)
	UpdateResident(ctx context.Context, id string, req ProfileInput) (*model.Resident, error)
}

type residentService struct {
	residentRepo repository.ResidentRepository
	txManager    repository.TransactionManager
	store        storage.Storage
	notifier     NotificationService
}

func NewResidentService(
	residentRepo repository.ResidentRepository,
	txManager repository.TransactionManager,
	store storage.Storage,
	notifier NotificationService,
) ResidentService {
	return &residentService{
		residentRepo: residentRepo,
		txManager:    txManager,
		store:        store,
		notifier:     notifier,
	}
}

// --- Implementation ---

// CompleteProfile creates the Profile and its Resident read model in one
// transaction. A second call for the same user conflicts; the unique index on
// user_id backs this up at the database level.
func (s *residentService) CompleteProfile(ctx context.Context, userID string, req ProfileInput) (*model.Profile, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}

	exists, err := s.residentRepo.ProfileExists(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("profile already completed: %w", ErrConflict)
	}

	birthDate, err := time.Parse("2006-01-02", req.BirthDate)
	if err != nil {
		return nil, fmt.Errorf("invalid birth_date: %w", err)
	}

	profile := &model.Profile{
		UserID:      uid,
		ResidentsID: generateResidentsID(),
	}
	applyProfileInput(profile, req, birthDate)

	if req.Avatar != nil {
		path, saveErr := s.store.SaveUpload("avatars", req.Avatar)
		if saveErr != nil {
			return nil, fmt.Errorf("failed to save avatar: %w", saveErr)
		}
		profile.Avatar = path
	}

	resident := residentFromProfile(profile)

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		return s.residentRepo.CreatePair(txCtx, profile, resident)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	if notifyErr := s.notifier.Notify(ctx, uid, model.NotifProfileUpdated,
		"Profile completed",
		fmt.Sprintf("Welcome, %s! Your resident ID is %s.", profile.FirstName, profile.ResidentsID),
		map[string]interface{}{"residents_id": profile.ResidentsID},
	); notifyErr != nil {
		log.Println("Failed to send profile notification:", notifyErr)
	}

	return profile, nil
}

func (s *residentService) GetMyProfile(ctx context.Context, userID string) (*model.Profile, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}
	profile, err := s.residentRepo.GetProfileByUserID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("profile: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return profile, nil
}

// UpdateProfile replaces the profile fields and syncs the Resident read model.
// Stray duplicate resident rows for the user are removed while at it.
func (s *residentService) UpdateProfile(ctx context.Context, userID string, req ProfileInput) (*model.Profile, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}

	profile, err := s.residentRepo.GetProfileByUserID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("profile: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	birthDate, err := time.Parse("2006-01-02", req.BirthDate)
	if err != nil {
		return nil, fmt.Errorf("invalid birth_date: %w", err)
	}

	applyProfileInput(profile, req, birthDate)

	if req.Avatar != nil {
		oldAvatar := profile.Avatar
		path, saveErr := s.store.SaveUpload("avatars", req.Avatar)
		if saveErr != nil {
			return nil, fmt.Errorf("failed to save avatar: %w", saveErr)
		}
		profile.Avatar = path
		if oldAvatar != "" {
			if delErr := s.store.Delete(oldAvatar); delErr != nil {
				log.Println("Failed to delete old avatar:", delErr)
			}
		}
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.residentRepo.UpdateProfile(txCtx, profile); err != nil {
			return err
		}

		resident, err := s.residentRepo.GetResidentByUserID(txCtx, uid)
		if err != nil {
			return err
		}
		syncResident(resident, profile)
		if err := s.residentRepo.UpdateResident(txCtx, resident); err != nil {
			return err
		}
		return s.residentRepo.DeleteDuplicateResidents(txCtx, uid, resident.ID)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	if notifyErr := s.notifier.Notify(ctx, uid, model.NotifProfileUpdated,
		"Profile updated",
		"Your resident profile has been updated.",
		map[string]interface{}{"residents_id": profile.ResidentsID},
	); notifyErr != nil {
		log.Println("Failed to send profile notification:", notifyErr)
	}

	return profile, nil
}

func (s *residentService) ListResidents(ctx context.Context) ([]ResidentSummary, error) {
	residents, err := s.residentRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch residents: %w", err)
	}

	res := make([]ResidentSummary, 0, len(residents))
	for _, r := range residents {
		res = append(res, ResidentSummary{
			ID:          r.ID.String(),
			ResidentsID: r.ResidentsID,
			FirstName:   r.FirstName,
			MiddleName:  r.MiddleName,
			LastName:    r.LastName,
			FullAddress: r.FullAddress,
			HouseholdNo: r.HouseholdNo,
			Avatar:      r.Avatar,
		})
	}
	return res, nil
}

func (s *residentService) GetResident(ctx context.Context, id string) (*model.Resident, error) {
	residentID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid resident id: %w", err)
	}
	resident, err := s.residentRepo.GetResidentByID(ctx, residentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("resident: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return resident, nil
}

// UpdateResident is the admin-side edit of a resident's record. It goes
// through the underlying profile so both models stay consistent.
func (s *residentService) UpdateResident(ctx context.Context, id string, req ProfileInput) (*model.Resident, error) {
	residentID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid resident id: %w", err)
	}

	resident, err := s.residentRepo.GetResidentByID(ctx, residentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("resident: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	profile, err := s.residentRepo.GetProfileByUserID(ctx, resident.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("profile: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	birthDate, err := time.Parse("2006-01-02", req.BirthDate)
	if err != nil {
		return nil, fmt.Errorf("invalid birth_date: %w", err)
	}

	applyProfileInput(profile, req, birthDate)
	syncResident(resident, profile)

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.residentRepo.UpdateProfile(txCtx, profile); err != nil {
			return err
		}
		return s.residentRepo.UpdateResident(txCtx, resident)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update resident: %w", err)
	}

	return resident, nil
}

// --- Helpers ---

const residentsIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// generateResidentsID produces an ID like RES-1735689600-KQX.
func generateResidentsID() string {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		// rand.Read failing means the platform entropy source is broken
		panic(err)
	}
	suffix := make([]byte, 3)
	for i, b := range buf {
		suffix[i] = residentsIDAlphabet[int(b)%len(residentsIDAlphabet)]
	}
	return fmt.Sprintf("RES-%d-%s", time.Now().Unix(), suffix)
}

func applyProfileInput(p *model.Profile, req ProfileInput, birthDate time.Time) {
	p.FirstName = req.FirstName
	p.MiddleName = req.MiddleName
	p.LastName = req.LastName
	p.NameSuffix = req.NameSuffix
	p.BirthDate = birthDate
	p.BirthPlace = req.BirthPlace
	p.Age = req.Age
	p.Nationality = req.Nationality
	p.Sex = req.Sex
	p.CivilStatus = req.CivilStatus
	p.Religion = req.Religion
	p.RelationToHead = req.RelationToHead
	p.Email = req.Email
	p.ContactNumber = req.ContactNumber
	p.FullAddress = req.FullAddress
	p.YearsInBarangay = req.YearsInBarangay
	p.VoterStatus = req.VoterStatus
	p.VotersIDNumber = req.VotersIDNumber
	p.VotingLocation = req.VotingLocation
	p.HousingType = req.HousingType
	p.HeadOfFamily = req.HeadOfFamily
	p.HouseholdNo = req.HouseholdNo
	p.ClassifiedSector = req.ClassifiedSector
	p.EducationalAttainment = req.EducationalAttainment
	p.OccupationType = req.OccupationType
	p.SalaryIncome = req.SalaryIncome
	p.BusinessInfo = req.BusinessInfo
	p.BusinessType = req.BusinessType
	p.BusinessLocation = req.BusinessLocation
	p.BusinessOutsideBarangay = req.BusinessOutsideBarangay
	p.SpecialCategories = model.StringList(req.SpecialCategories)
	p.CovidVaccineStatus = req.CovidVaccineStatus
	p.VaccineReceived = model.StringList(req.VaccineReceived)
	p.OtherVaccine = req.OtherVaccine
	p.YearVaccinated = req.YearVaccinated
}

func residentFromProfile(p *model.Profile) *model.Resident {
	r := &model.Resident{
		UserID:      p.UserID,
		ResidentsID: p.ResidentsID,
	}
	syncResident(r, p)
	return r
}

func syncResident(r *model.Resident, p *model.Profile) {
	r.ProfileID = p.ID
	r.FirstName = p.FirstName
	r.MiddleName = p.MiddleName
	r.LastName = p.LastName
	r.FullAddress = p.FullAddress
	r.HouseholdNo = p.HouseholdNo
	r.Avatar = p.Avatar
}
