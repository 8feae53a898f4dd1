package service

import (
	"context"
	"fmt"
	"time"

	"clinic-backend/internal/domain/entity"
	"clinic-backend/internal/domain/repository"
	"clinic-backend/internal/infrastructure/database"
	"clinic-backend/pkg/retry"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	appointmentIDConstraint = "idx_appointments_appointment_id"
	appointmentInsertPoint  = "appointment_insert"
)

// AppointmentIDGenerator assigns the human readable APT id and inserts the
// row, retrying when another writer took the same id.
type AppointmentIDGenerator interface {
	Next(ctx context.Context, tx *gorm.DB) (string, error)
	Insert(ctx context.Context, tx *gorm.DB, appointment *entity.Appointment) error
}

type appointmentIDGenerator struct {
	db              *gorm.DB
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	retry           retry.Config
}

func NewAppointmentIDGenerator(db *gorm.DB, log *logrus.Logger, appointmentRepo repository.AppointmentRepository) AppointmentIDGenerator {
	return &appointmentIDGenerator{
		db:              db,
		log:             log,
		appointmentRepo: appointmentRepo,
		retry: retry.Config{
			MaxAttempts:   3,
			InitialDelay:  10 * time.Millisecond,
			MaxDelay:      50 * time.Millisecond,
			BackoffFactor: 2,
		},
	}
}

// Next draws from appointment_number_seq. The sequence is read outside tx:
// nextval is never rolled back anyway, and a failure inside tx would abort it.
// When the sequence does not exist the id is derived from the table instead.
func (g *appointmentIDGenerator) Next(ctx context.Context, tx *gorm.DB) (string, error) {
	n, err := g.appointmentRepo.NextSequence(g.db.WithContext(ctx))
	if err == nil {
		return entity.FormatAppointmentID(n), nil
	}
	if !database.IsUndefinedRelation(err) {
		g.log.Warnf("Failed to read appointment sequence: %+v", err)
		return "", err
	}

	g.log.Warn("appointment_number_seq is missing, deriving appointment id from table")

	last, err := g.appointmentRepo.LastAppointmentID(tx)
	if err != nil {
		g.log.Warnf("Failed to read last appointment id: %+v", err)
		return "", err
	}
	if seq, ok := entity.ParseAppointmentSequence(last); ok {
		return entity.FormatAppointmentID(seq + 1), nil
	}

	count, err := g.appointmentRepo.Count(tx)
	if err != nil {
		g.log.Warnf("Failed to count appointments: %+v", err)
		return "", err
	}
	return entity.FormatAppointmentID(count + 1), nil
}

// Insert assigns an id and creates the appointment. A duplicate id rolls
// back to a savepoint and tries again with a fresh id. Every other error,
// including a slot conflict, is returned as is.
func (g *appointmentIDGenerator) Insert(ctx context.Context, tx *gorm.DB, appointment *entity.Appointment) error {
	return retry.DoWithLog(ctx, g.retry, func() error {
		id, err := g.Next(ctx, tx)
		if err != nil {
			return retry.Permanent(err)
		}
		appointment.AppointmentID = id

		if err := tx.SavePoint(appointmentInsertPoint).Error; err != nil {
			return retry.Permanent(err)
		}

		err = g.appointmentRepo.Create(tx, appointment)
		if err == nil {
			return nil
		}
		if !isDuplicateAppointmentID(err) {
			return retry.Permanent(err)
		}

		if rbErr := tx.RollbackTo(appointmentInsertPoint).Error; rbErr != nil {
			return retry.Permanent(fmt.Errorf("rollback to savepoint: %w", rbErr))
		}
		appointment.ID = 0
		return err
	}, func(attempt int, err error, next time.Duration) {
		g.log.Warnf("Appointment id %s already taken (attempt %d), retrying in %v", appointment.AppointmentID, attempt, next)
	})
}

func isDuplicateAppointmentID(err error) bool {
	return database.IsUniqueViolation(err) && database.ConstraintName(err) == appointmentIDConstraint
}
