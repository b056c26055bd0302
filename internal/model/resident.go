package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile is the write/validation model for a citizen's demographic record.
// Every field submitted through the profile forms lands here first.
type Profile struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	User        *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ResidentsID string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"residents_id"`

	FirstName  string    `gorm:"type:varchar(100);not null" json:"first_name"`
	MiddleName string    `gorm:"type:varchar(100)" json:"middle_name"`
	LastName   string    `gorm:"type:varchar(100);not null" json:"last_name"`
	NameSuffix string    `gorm:"type:varchar(20)" json:"name_suffix"`
	BirthDate  time.Time `gorm:"type:date;not null" json:"birth_date"`
	BirthPlace string    `gorm:"type:varchar(255);not null" json:"birth_place"`
	Age        int       `gorm:"not null" json:"age"`
	Nationality string   `gorm:"type:varchar(100)" json:"nationality"`
	Sex         string   `gorm:"type:varchar(20);not null" json:"sex"`
	CivilStatus string   `gorm:"type:varchar(50);not null" json:"civil_status"`
	Religion    string   `gorm:"type:varchar(100);not null" json:"religion"`
	RelationToHead string `gorm:"type:varchar(100)" json:"relation_to_head"`

	Email         string `gorm:"type:varchar(255);not null" json:"email"`
	ContactNumber string `gorm:"type:varchar(50);not null" json:"contact_number"`
	FullAddress   string `gorm:"type:text;not null" json:"full_address"`

	YearsInBarangay int    `gorm:"not null" json:"years_in_barangay"`
	VoterStatus     string `gorm:"type:varchar(50);not null" json:"voter_status"`
	VotersIDNumber  string `gorm:"type:varchar(100)" json:"voters_id_number"`
	VotingLocation  string `gorm:"type:varchar(255)" json:"voting_location"`

	Avatar       string `gorm:"type:varchar(500)" json:"avatar"`
	HousingType  string `gorm:"type:varchar(100)" json:"housing_type"`
	HeadOfFamily bool   `gorm:"not null;default:false" json:"head_of_family"`
	HouseholdNo  string `gorm:"type:varchar(50)" json:"household_no"`

	ClassifiedSector        string `gorm:"type:varchar(100)" json:"classified_sector"`
	EducationalAttainment   string `gorm:"type:varchar(100)" json:"educational_attainment"`
	OccupationType          string `gorm:"type:varchar(100)" json:"occupation_type"`
	SalaryIncome            string `gorm:"type:varchar(100)" json:"salary_income"`
	BusinessInfo            string `gorm:"type:text" json:"business_info"`
	BusinessType            string `gorm:"type:varchar(100)" json:"business_type"`
	BusinessLocation        string `gorm:"type:varchar(255)" json:"business_location"`
	BusinessOutsideBarangay bool   `gorm:"not null;default:false" json:"business_outside_barangay"`

	SpecialCategories  StringList `gorm:"type:jsonb;default:'[]'" json:"special_categories"`
	CovidVaccineStatus string     `gorm:"type:varchar(100)" json:"covid_vaccine_status"`
	VaccineReceived    StringList `gorm:"type:jsonb;default:'[]'" json:"vaccine_received"`
	OtherVaccine       string     `gorm:"type:varchar(100)" json:"other_vaccine"`
	YearVaccinated     int        `json:"year_vaccinated"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Resident is the canonical read model paired 1:1 with a Profile. The unique
// index on user_id enforces one resident per user at the database level; the
// old runtime dedup-on-write only papers over its absence.
type Resident struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	User        *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ProfileID   uuid.UUID `gorm:"type:uuid;not null;index" json:"profile_id"`
	Profile     *Profile  `gorm:"foreignKey:ProfileID" json:"profile,omitempty"`
	ResidentsID string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"residents_id"`

	FirstName   string `gorm:"type:varchar(100);not null" json:"first_name"`
	MiddleName  string `gorm:"type:varchar(100)" json:"middle_name"`
	LastName    string `gorm:"type:varchar(100);not null" json:"last_name"`
	FullAddress string `gorm:"type:text" json:"full_address"`
	HouseholdNo string `gorm:"type:varchar(50)" json:"household_no"`
	Avatar      string `gorm:"type:varchar(500)" json:"avatar"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// FullName joins the resident's name parts for display and certificate filenames.
func (r Resident) FullName() string {
	if r.MiddleName != "" {
		return r.FirstName + " " + r.MiddleName + " " + r.LastName
	}
	return r.FirstName + " " + r.LastName
}
