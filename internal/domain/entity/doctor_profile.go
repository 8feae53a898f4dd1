package entity

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"clinic-backend/pkg/clocktime"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	ErrDayUnavailable        = errors.New("doctor is not available on this day")
	ErrSlotUnavailable       = errors.New("time does not match any of the doctor's slots")
	ErrMalformedAvailability = errors.New("doctor availability is misconfigured")
)

// DoctorProfile represents doctor-specific profile data
type DoctorProfile struct {
	UserID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"user_id"`
	DoctorCode         string          `gorm:"type:varchar(20);uniqueIndex;not null" json:"doctor_code"`
	Specialty          string          `gorm:"type:varchar(100);index" json:"specialty"`
	Experience         string          `gorm:"type:varchar(50)" json:"experience"`
	Qualification      string          `gorm:"type:text" json:"qualification"`
	LicenseNumber      string          `gorm:"type:varchar(100)" json:"license_number"`
	Bio                string          `gorm:"type:text" json:"bio"`
	AvailableDays      StringList      `gorm:"type:jsonb;not null;default:'[]'" json:"available_days"`
	AvailableTimeSlots StringList      `gorm:"type:jsonb;not null;default:'[]'" json:"available_time_slots"`
	ConsultationFee    decimal.Decimal `gorm:"type:decimal(10,2);not null;default:500.00" json:"consultation_fee"`
	IsProfileComplete  bool            `gorm:"not null;default:false" json:"is_profile_complete"`
	CreatedAt          time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (DoctorProfile) TableName() string {
	return "doctor_profiles"
}

// FormatDoctorCode renders DOC001, DOC002, ...
func FormatDoctorCode(n int64) string {
	return fmt.Sprintf("DOC%03d", n)
}

// Normalize trims free text, title-cases the specialty and recomputes
// IsProfileComplete. Call before every save.
func (p *DoctorProfile) Normalize() {
	p.Specialty = cases.Title(language.English).String(strings.TrimSpace(p.Specialty))
	p.Experience = strings.TrimSpace(p.Experience)
	p.Qualification = strings.TrimSpace(p.Qualification)
	p.Bio = strings.TrimSpace(p.Bio)

	p.IsProfileComplete = p.Specialty != "" &&
		p.Experience != "" &&
		p.Qualification != "" &&
		p.Bio != "" &&
		len(p.AvailableDays) > 0 &&
		len(p.AvailableTimeSlots) > 0
}

// CheckDay returns nil when no days are configured or when date falls on one
// of them. Any unparsable configured day fails closed, whatever the date.
func (p *DoctorProfile) CheckDay(date time.Time) error {
	if len(p.AvailableDays) == 0 {
		return nil
	}
	days := make([]time.Weekday, 0, len(p.AvailableDays))
	for _, name := range p.AvailableDays {
		day, err := clocktime.ParseWeekday(name)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedAvailability, err)
		}
		days = append(days, day)
	}
	for _, day := range days {
		if day == date.Weekday() {
			return nil
		}
	}
	return ErrDayUnavailable
}

// CheckSlot returns nil when no slots are configured or when t equals the
// start of one of them. Any unparsable configured slot fails closed.
func (p *DoctorProfile) CheckSlot(t clocktime.TimeOfDay) error {
	if len(p.AvailableTimeSlots) == 0 {
		return nil
	}
	starts := make([]clocktime.TimeOfDay, 0, len(p.AvailableTimeSlots))
	for _, slot := range p.AvailableTimeSlots {
		start, _, err := clocktime.ParseSlot(slot)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedAvailability, err)
		}
		starts = append(starts, start)
	}
	for _, start := range starts {
		if start.Equal(t) {
			return nil
		}
	}
	return ErrSlotUnavailable
}

// ValidateAvailability checks the configured days and slots parse. It runs
// when a doctor saves the profile so bad input is rejected at the source.
func (p *DoctorProfile) ValidateAvailability() error {
	for _, name := range p.AvailableDays {
		if _, err := clocktime.ParseWeekday(name); err != nil {
			return err
		}
	}
	for _, slot := range p.AvailableTimeSlots {
		if _, _, err := clocktime.ParseSlot(slot); err != nil {
			return err
		}
	}
	return nil
}

// DoctorFilter narrows the public doctor directory.
type DoctorFilter struct {
	Specialty string
	Search    string
}
