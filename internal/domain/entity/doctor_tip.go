package entity

import (
	"time"

	"github.com/google/uuid"
)

// DoctorTip is a short health article authored by a doctor.
type DoctorTip struct {
	ID          uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	DoctorID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"doctor_id"`
	Title       string     `gorm:"type:varchar(200);not null" json:"title"`
	Body        string     `gorm:"type:text;not null" json:"body"`
	Tags        StringList `gorm:"type:jsonb;not null;default:'[]'" json:"tags"`
	IsPublished bool       `gorm:"not null;default:true;index" json:"is_published"`
	Views       int64      `gorm:"not null;default:0" json:"views"`
	CreatedAt   time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor DoctorProfile `gorm:"foreignKey:DoctorID;references:UserID" json:"doctor,omitempty"`
}

func (DoctorTip) TableName() string {
	return "doctor_tips"
}

// DoctorReview is a patient's rating of a doctor.
type DoctorReview struct {
	ID        uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	DoctorID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"doctor_id"`
	UserID    *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Rating    int        `gorm:"not null;default:5" json:"rating"`
	Comment   string     `gorm:"type:text" json:"comment"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index" json:"created_at"`

	// Relationships
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (DoctorReview) TableName() string {
	return "doctor_reviews"
}

// ReviewSummary aggregates ratings for one doctor.
type ReviewSummary struct {
	Count   int64
	Average float64
}

// TipFilter selects tips. OwnerID set means the author is listing their own
// tips, drafts included.
type TipFilter struct {
	OwnerID  *uuid.UUID
	DoctorID *uuid.UUID
	Search   string
}
