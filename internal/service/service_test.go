package service

import (
	"context"
	"strings"
	"testing"

	"clinic-backend/internal/domain/entity"
	"clinic-backend/internal/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestFallbackReply(t *testing.T) {
	cases := map[string]string{
		"I have a FEVER since yesterday": "Fever is usually",
		"bad headache and some pain":     "Headaches can have",
		"Is this covid?":                 "If you suspect COVID-19",
		"what should I eat":              "Thank you for your health question",
	}

	for question, prefix := range cases {
		reply := FallbackReply(question)
		assert.True(t, strings.HasPrefix(reply, prefix), question)
		assert.True(t, strings.HasSuffix(reply, medicalDisclaimer), question)
	}
}

func TestGenerateOTP(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		code, err := GenerateOTP()
		require.NoError(t, err)
		assert.Len(t, code, 6)
		assert.Equal(t, strings.Trim(code, "0123456789"), "")
		seen[code] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestKeyLayout(t *testing.T) {
	userID := uuid.MustParse("6f1c1f43-5d3b-4c8a-9a53-0c7f3f0a1b2c")

	assert.Equal(t, "access_token:6f1c1f43-5d3b-4c8a-9a53-0c7f3f0a1b2c:tid", accessKey(userID, "tid"))
	assert.Equal(t, "refresh_token:6f1c1f43-5d3b-4c8a-9a53-0c7f3f0a1b2c:rid", refreshKey(userID, "rid"))
	assert.Equal(t, "otp:asha@example.com", otpKey("  Asha@Example.com "))
}

func TestAuditService_LogTransition(t *testing.T) {
	// Arrange
	db, _ := newMockDB(t)
	repo := new(mocks.MockAuditLogRepository)
	svc := NewAuditService(quietLogger(), repo)
	userID := uuid.New()
	appointment := &entity.Appointment{AppointmentID: "APT00001", Status: entity.AppointmentStatusConfirmed}

	repo.On("Create", mock.Anything, mock.MatchedBy(func(l *entity.AuditLog) bool {
		return l.Action == entity.AuditActionAppointmentCancel &&
			*l.UserID == userID &&
			l.Metadata["from_status"] == "confirmed" &&
			l.Metadata["to_status"] == "cancelled" &&
			l.Metadata["refund_amount"] == "800.00"
	})).Return(nil)

	// Act
	err := svc.LogTransition(context.Background(), db, &userID, entity.AuditActionAppointmentCancel,
		appointment, entity.AppointmentStatusCancelled, entity.JSON{"refund_amount": "800.00"})

	// Assert
	require.NoError(t, err)
	repo.AssertExpectations(t)
}
