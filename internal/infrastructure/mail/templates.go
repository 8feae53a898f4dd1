package mail

import "fmt"

func OTPMessage(to, name, otp string) Message {
	return Message{
		To:      to,
		Subject: "Your password reset code",
		Body: fmt.Sprintf(
			"Hello %s,\n\nYour one-time password is %s. It expires in 10 minutes.\n\nIf you did not request a password reset you can ignore this email.",
			name, otp,
		),
	}
}

func StaffWelcomeMessage(to, name, role, password string) Message {
	return Message{
		To:      to,
		Subject: "Your clinic account",
		Body: fmt.Sprintf(
			"Hello %s,\n\nA %s account has been created for you.\n\nEmail: %s\nTemporary password: %s\n\nPlease sign in and change your password.",
			name, role, to, password,
		),
	}
}

func PrescriptionMessage(to, name, appointmentCode string, pdf []byte) Message {
	return Message{
		To:             to,
		Subject:        "Prescription for appointment " + appointmentCode,
		Body:           fmt.Sprintf("Hello %s,\n\nYour prescription for appointment %s is attached.", name, appointmentCode),
		AttachmentName: "prescription-" + appointmentCode + ".pdf",
		Attachment:     pdf,
	}
}
