// Package pdf renders printable documents.
package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"clinic-backend/internal/domain/entity"
	"clinic-backend/pkg/clocktime"

	"github.com/jung-kurt/gofpdf"
)

const clinicTitle = "Clinic Prescription"

// RenderPrescription lays out a prescription on one A4 page. The appointment,
// doctor and patient relations should be loaded.
func RenderPrescription(p *entity.Prescription) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 10, clinicTitle, "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, tr("Appointment "+p.Appointment.AppointmentID), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	addDetail(pdf, "Patient", tr(p.Appointment.PatientName))
	addDetail(pdf, "Doctor", tr(doctorLine(p)))
	addDetail(pdf, "Date", p.CreatedAt.Format(clocktime.DateLayout))
	addDetail(pdf, "Diagnosis", tr(p.Diagnosis))
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 11)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(60, 8, "Medication", "1", 0, "", true, 0, "")
	pdf.CellFormat(35, 8, "Dosage", "1", 0, "", true, 0, "")
	pdf.CellFormat(45, 8, "Frequency", "1", 0, "", true, 0, "")
	pdf.CellFormat(0, 8, "Duration", "1", 1, "", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, med := range p.Medications {
		pdf.CellFormat(60, 8, tr(med.Name), "1", 0, "", false, 0, "")
		pdf.CellFormat(35, 8, tr(med.Dosage), "1", 0, "", false, 0, "")
		pdf.CellFormat(45, 8, tr(med.Frequency), "1", 0, "", false, 0, "")
		pdf.CellFormat(0, 8, tr(med.Duration), "1", 1, "", false, 0, "")
	}
	pdf.Ln(4)

	addParagraph(pdf, "Instructions", tr(p.Instructions))
	if p.Notes != "" {
		addParagraph(pdf, "Notes", tr(p.Notes))
	}
	if p.FollowUpDate != nil {
		addDetail(pdf, "Follow-up", p.FollowUpDate.Format(clocktime.DateLayout))
	}

	pdf.SetY(pdf.GetY() + 10)
	pdf.SetFont("Arial", "I", 9)
	pdf.MultiCell(0, 5, "This is a computer generated prescription. Follow the instructions given by your doctor.", "", "C", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render prescription pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func doctorLine(p *entity.Prescription) string {
	name := strings.TrimSpace(p.Doctor.User.FullName)
	if name == "" {
		name = p.Doctor.DoctorCode
	}
	if p.Doctor.Specialty != "" {
		return "Dr. " + name + " (" + p.Doctor.Specialty + ")"
	}
	return "Dr. " + name
}

func addDetail(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(35, 8, label, "", 0, "", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 8, value, "", 1, "", false, 0, "")
}

func addParagraph(pdf *gofpdf.Fpdf, label, text string) {
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 8, label, "", 1, "", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(0, 5, text, "", "L", false)
	pdf.Ln(2)
}
