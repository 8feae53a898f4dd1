package entity

import (
	"testing"
	"time"

	"clinic-backend/pkg/clocktime"

	"github.com/stretchr/testify/assert"
)

func TestDoctorProfileCheckDay(t *testing.T) {
	monday := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	tuesday := monday.AddDate(0, 0, 1)

	t.Run("no configuration is unrestricted", func(t *testing.T) {
		p := &DoctorProfile{}
		assert.NoError(t, p.CheckDay(tuesday))
	})

	t.Run("configured day", func(t *testing.T) {
		p := &DoctorProfile{AvailableDays: StringList{"monday", "Wednesday"}}
		assert.NoError(t, p.CheckDay(monday))
		assert.ErrorIs(t, p.CheckDay(tuesday), ErrDayUnavailable)
	})

	t.Run("malformed configuration fails closed", func(t *testing.T) {
		p := &DoctorProfile{AvailableDays: StringList{"someday", "monday"}}
		assert.ErrorIs(t, p.CheckDay(monday), ErrMalformedAvailability)
	})

	t.Run("bad entry after a match still fails closed", func(t *testing.T) {
		p := &DoctorProfile{AvailableDays: StringList{"Monday", "Funday"}}
		assert.ErrorIs(t, p.CheckDay(monday), ErrMalformedAvailability)
		assert.ErrorIs(t, p.CheckDay(tuesday), ErrMalformedAvailability)
	})
}

func TestDoctorProfileCheckSlot(t *testing.T) {
	ten := clocktime.TimeOfDay{Hour: 10}

	t.Run("no configuration is unrestricted", func(t *testing.T) {
		p := &DoctorProfile{}
		assert.NoError(t, p.CheckSlot(clocktime.TimeOfDay{Hour: 3, Minute: 17}))
	})

	t.Run("matches slot start in either clock", func(t *testing.T) {
		p := &DoctorProfile{AvailableTimeSlots: StringList{"09:00 - 09:30", "10:00 AM - 10:30 AM"}}
		assert.NoError(t, p.CheckSlot(ten))
		assert.NoError(t, p.CheckSlot(clocktime.TimeOfDay{Hour: 9}))
	})

	t.Run("slot end is not bookable", func(t *testing.T) {
		p := &DoctorProfile{AvailableTimeSlots: StringList{"09:00 - 10:00"}}
		assert.ErrorIs(t, p.CheckSlot(ten), ErrSlotUnavailable)
	})

	t.Run("malformed configuration fails closed", func(t *testing.T) {
		p := &DoctorProfile{AvailableTimeSlots: StringList{"mornings"}}
		assert.ErrorIs(t, p.CheckSlot(ten), ErrMalformedAvailability)
	})

	t.Run("bad entry after a match still fails closed", func(t *testing.T) {
		p := &DoctorProfile{AvailableTimeSlots: StringList{"10:00 - 10:30", "noon-ish"}}
		assert.ErrorIs(t, p.CheckSlot(ten), ErrMalformedAvailability)
	})
}

func TestDoctorProfileNormalize(t *testing.T) {
	p := &DoctorProfile{
		Specialty:          "  internal medicine ",
		Experience:         "10 years",
		Qualification:      "MBBS, MD",
		Bio:                "Physician",
		AvailableDays:      StringList{"monday"},
		AvailableTimeSlots: StringList{"09:00 - 10:00"},
	}

	p.Normalize()

	assert.Equal(t, "Internal Medicine", p.Specialty)
	assert.True(t, p.IsProfileComplete)

	p.AvailableTimeSlots = nil
	p.Normalize()
	assert.False(t, p.IsProfileComplete)
}

func TestDoctorProfileValidateAvailability(t *testing.T) {
	ok := &DoctorProfile{AvailableDays: StringList{"fri"}, AvailableTimeSlots: StringList{"2 PM - 3 PM"}}
	assert.NoError(t, ok.ValidateAvailability())

	bad := &DoctorProfile{AvailableTimeSlots: StringList{"2 PM"}}
	assert.Error(t, bad.ValidateAvailability())

	assert.Equal(t, "DOC007", FormatDoctorCode(7))
}
