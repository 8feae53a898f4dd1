package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Medication is one line of a prescription.
type Medication struct {
	Name      string `json:"name"`
	Dosage    string `json:"dosage"`
	Frequency string `json:"frequency,omitempty"`
	Duration  string `json:"duration"`
	Notes     string `json:"notes,omitempty"`
}

// Medications is stored as a JSONB array.
type Medications []Medication

func (m Medications) Value() (driver.Value, error) {
	if m == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Medication(m))
}

func (m *Medications) Scan(value interface{}) error {
	if value == nil {
		*m = Medications{}
		return nil
	}
	bytes, err := jsonBytes(value)
	if err != nil {
		return err
	}
	var result []Medication
	if err := json.Unmarshal(bytes, &result); err != nil {
		return err
	}
	*m = Medications(result)
	return nil
}

// Validate returns one message per problem, keyed by position.
func (m Medications) Validate() []string {
	if len(m) == 0 {
		return []string{"At least one medication is required"}
	}
	var problems []string
	for i, med := range m {
		if strings.TrimSpace(med.Name) == "" {
			problems = append(problems, fmt.Sprintf("Medication %d must have a name", i+1))
		}
		if strings.TrimSpace(med.Dosage) == "" {
			problems = append(problems, fmt.Sprintf("Medication %d must have a dosage", i+1))
		}
		if strings.TrimSpace(med.Duration) == "" {
			problems = append(problems, fmt.Sprintf("Medication %d must have a duration", i+1))
		}
	}
	return problems
}

// Prescription is written by a doctor against one appointment
type Prescription struct {
	ID            uint64      `gorm:"primaryKey;autoIncrement" json:"id"`
	AppointmentID uint64      `gorm:"not null;uniqueIndex" json:"appointment_id"`
	DoctorID      uuid.UUID   `gorm:"type:uuid;not null;index" json:"doctor_id"`
	PatientID     uuid.UUID   `gorm:"type:uuid;not null;index" json:"patient_id"`
	Medications   Medications `gorm:"type:jsonb;not null" json:"medications"`
	Instructions  string      `gorm:"type:text;not null" json:"instructions"`
	Diagnosis     string      `gorm:"type:text;not null" json:"diagnosis"`
	Notes         string      `gorm:"type:text" json:"notes"`
	FollowUpDate  *time.Time  `gorm:"type:date" json:"follow_up_date,omitempty"`
	CreatedAt     time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time   `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Appointment Appointment   `gorm:"foreignKey:AppointmentID" json:"appointment,omitempty"`
	Doctor      DoctorProfile `gorm:"foreignKey:DoctorID;references:UserID" json:"doctor,omitempty"`
	Patient     User          `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
}

func (Prescription) TableName() string {
	return "prescriptions"
}

// PrescriptionFilter scopes prescription listings to one side of the visit.
type PrescriptionFilter struct {
	PatientID *uuid.UUID
	DoctorID  *uuid.UUID
}
