package entity

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"clinic-backend/pkg/clocktime"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// ParseAppointmentStatus validates a status filter value.
func ParseAppointmentStatus(s string) (AppointmentStatus, bool) {
	switch status := AppointmentStatus(strings.ToLower(strings.TrimSpace(s))); status {
	case AppointmentStatusPending, AppointmentStatusConfirmed, AppointmentStatusCompleted, AppointmentStatusCancelled:
		return status, true
	}
	return "", false
}

const appointmentIDPrefix = "APT"

// Appointment is a patient's booking with a doctor
type Appointment struct {
	ID               uint64              `gorm:"primaryKey;autoIncrement" json:"id"`
	AppointmentID    string              `gorm:"type:varchar(20);uniqueIndex;not null" json:"appointment_id"`
	PatientID        uuid.UUID           `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID         uuid.UUID           `gorm:"type:uuid;not null;index" json:"doctor_id"`
	AppointmentDate  time.Time           `gorm:"type:date;not null;index" json:"appointment_date"`
	AppointmentTime  string              `gorm:"type:varchar(8);not null" json:"appointment_time"`
	Reason           string              `gorm:"type:text" json:"reason"`
	Symptoms         string              `gorm:"type:text" json:"symptoms"`
	PatientName      string              `gorm:"type:varchar(255);not null" json:"patient_name"`
	PatientAge       int                 `json:"patient_age"`
	PatientGender    string              `gorm:"type:varchar(20)" json:"patient_gender"`
	PatientPhone     string              `gorm:"type:varchar(20);not null" json:"patient_phone"`
	EmergencyContact string              `gorm:"type:varchar(20)" json:"emergency_contact"`
	Status           AppointmentStatus   `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ConsultationFee  decimal.Decimal     `gorm:"type:decimal(10,2);not null" json:"consultation_fee"`
	PaymentStatus    bool                `gorm:"not null;default:false" json:"payment_status"`
	PaymentMethod    string              `gorm:"type:varchar(50)" json:"payment_method"`
	PaymentID        string              `gorm:"type:varchar(100)" json:"payment_id"`
	CompanyFee       decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"company_fee"`
	RefundAmount     decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"refund_amount"`
	Refunded         bool                `gorm:"not null;default:false" json:"refunded"`
	CreatedAt        time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time           `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient User          `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor  DoctorProfile `gorm:"foreignKey:DoctorID;references:UserID" json:"doctor,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// FormatAppointmentID renders APT00001, APT00002, ...
func FormatAppointmentID(n int64) string {
	return fmt.Sprintf("%s%05d", appointmentIDPrefix, n)
}

// ParseAppointmentSequence extracts the numeric suffix of an appointment ID.
func ParseAppointmentSequence(id string) (int64, bool) {
	if !strings.HasPrefix(id, appointmentIDPrefix) {
		return 0, false
	}
	n, err := strconv.ParseInt(strings.TrimPrefix(id, appointmentIDPrefix), 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// IsPending checks if appointment is in pending status
func (a *Appointment) IsPending() bool {
	return a.Status == AppointmentStatusPending
}

// IsConfirmed checks if appointment is confirmed
func (a *Appointment) IsConfirmed() bool {
	return a.Status == AppointmentStatusConfirmed
}

// IsCompleted checks if appointment is completed
func (a *Appointment) IsCompleted() bool {
	return a.Status == AppointmentStatusCompleted
}

// IsCancelled checks if appointment is cancelled
func (a *Appointment) IsCancelled() bool {
	return a.Status == AppointmentStatusCancelled
}

// IsTerminal reports whether no further transition is possible.
func (a *Appointment) IsTerminal() bool {
	return a.IsCompleted() || a.IsCancelled()
}

// IsEditable reports whether date, time and reason may still change.
func (a *Appointment) IsEditable() bool {
	return a.IsPending() || a.IsConfirmed()
}

// AcceptsPrescription reports whether a prescription may be attached.
func (a *Appointment) AcceptsPrescription() bool {
	return a.IsConfirmed() || a.IsCompleted()
}

var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusPending:   {AppointmentStatusConfirmed, AppointmentStatusCancelled},
	AppointmentStatusConfirmed: {AppointmentStatusCompleted, AppointmentStatusCancelled},
}

// CanTransitionTo reports whether the status machine allows moving to next.
func (a *Appointment) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range appointmentTransitions[a.Status] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ScheduledAt combines date and time into one instant in loc.
func (a *Appointment) ScheduledAt(loc *time.Location) (time.Time, error) {
	if a.AppointmentDate.IsZero() {
		return time.Time{}, clocktime.ErrInvalidDate
	}
	tod, err := clocktime.ParseTimeOfDay(a.AppointmentTime)
	if err != nil {
		return time.Time{}, err
	}
	return tod.On(a.AppointmentDate, loc), nil
}

// CancellationOutcome holds the money fields written when an appointment is
// cancelled.
type CancellationOutcome struct {
	CompanyFee    decimal.Decimal
	RefundAmount  decimal.Decimal
	Refunded      bool
	PaymentStatus bool
}

// CancellationSplit splits the consultation fee. The company keeps
// fee*rate rounded half-up to cents; the rest is refunded only if the
// patient had paid.
func (a *Appointment) CancellationSplit(rate decimal.Decimal) CancellationOutcome {
	companyFee := a.ConsultationFee.Mul(rate).Round(2)
	if !a.PaymentStatus {
		return CancellationOutcome{
			CompanyFee:   companyFee,
			RefundAmount: decimal.Zero.Round(2),
		}
	}
	return CancellationOutcome{
		CompanyFee:    companyFee,
		RefundAmount:  a.ConsultationFee.Sub(companyFee).Round(2),
		Refunded:      true,
		PaymentStatus: false,
	}
}

// PaymentMethodKind groups payment method tags by when money is collected.
type PaymentMethodKind int

const (
	PaymentUnknown PaymentMethodKind = iota
	PaymentImmediate
	PaymentOnArrival
)

var paymentMethods = map[string]PaymentMethodKind{
	"card":            PaymentImmediate,
	"atm":             PaymentImmediate,
	"upi":             PaymentImmediate,
	"online":          PaymentImmediate,
	"cash":            PaymentOnArrival,
	"cash_on_arrival": PaymentOnArrival,
	"pay_on_arrival":  PaymentOnArrival,
}

// ClassifyPaymentMethod maps a method tag to its kind.
func ClassifyPaymentMethod(method string) PaymentMethodKind {
	return paymentMethods[strings.ToLower(strings.TrimSpace(method))]
}

// PaymentTerms are the appointment fields decided by the payment method.
type PaymentTerms struct {
	Status        AppointmentStatus
	PaymentStatus bool
	PaymentID     string
}

// DerivePaymentTerms applies the booking payment policy: immediate payment
// confirms the appointment with a timestamp reference, pay on arrival leaves
// it pending with no reference.
func DerivePaymentTerms(method string, now time.Time) (PaymentTerms, bool) {
	switch ClassifyPaymentMethod(method) {
	case PaymentImmediate:
		return PaymentTerms{
			Status:        AppointmentStatusConfirmed,
			PaymentStatus: true,
			PaymentID:     NewPaymentReference(now),
		}, true
	case PaymentOnArrival:
		return PaymentTerms{Status: AppointmentStatusPending}, true
	}
	return PaymentTerms{}, false
}

// NewPaymentReference builds a stub payment reference from a timestamp.
func NewPaymentReference(now time.Time) string {
	return "PAY" + strconv.FormatInt(now.UnixNano(), 10)
}

// AppointmentFilter is a domain-level filter for listing appointments.
// Used by repository layer to avoid coupling with delivery DTOs.
type AppointmentFilter struct {
	PatientID *uuid.UUID
	DoctorID  *uuid.UUID
	Date      *time.Time
	Status    AppointmentStatus
	Ascending bool
}
