package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bookingInput struct {
	Doctor          string   `json:"doctor" validate:"required,uuid"`
	AppointmentDate string   `json:"appointment_date" validate:"required,date"`
	AppointmentTime string   `json:"appointment_time" validate:"required,timeofday"`
	PatientName     string   `json:"patient_name" validate:"notblank"`
	Days            []string `json:"available_days" validate:"dive,weekday"`
	Slots           []string `json:"available_time_slots" validate:"dive,timeslot"`
}

func TestValidator_CustomTags(t *testing.T) {
	v := NewValidator()

	t.Run("valid input", func(t *testing.T) {
		err := v.Validate(bookingInput{
			Doctor:          "3f1c2a9e-7f7b-4a39-9a53-0c7f7f1d2b11",
			AppointmentDate: "2026-05-04",
			AppointmentTime: "2:30 pm",
			PatientName:     "Asha",
			Days:            []string{"Monday", "fri"},
			Slots:           []string{"09:00 - 09:30"},
		})
		assert.NoError(t, err)
	})

	t.Run("errors are keyed by json name", func(t *testing.T) {
		err := v.Validate(bookingInput{
			Doctor:          "not-a-uuid",
			AppointmentDate: "04/05/2026",
			AppointmentTime: "noon",
			PatientName:     "   ",
			Days:            []string{"someday"},
			Slots:           []string{"all day"},
		})
		require.Error(t, err)

		errs := v.FormatValidationErrors(err)
		assert.Equal(t, "doctor must be a valid UUID", errs["doctor"])
		assert.Equal(t, "appointment_date must be a date in YYYY-MM-DD format", errs["appointment_date"])
		assert.Contains(t, errs, "appointment_time")
		assert.Equal(t, "patient_name is required", errs["patient_name"])
		assert.Contains(t, errs, "available_days[0]")
		assert.Contains(t, errs, "available_time_slots[0]")
	})
}
