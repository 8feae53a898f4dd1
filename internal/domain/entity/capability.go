package entity

// Capability names one operation a role may perform.
type Capability string

const (
	CapBookAppointment     Capability = "appointment.book"
	CapListOwnAppointments Capability = "appointment.list_own"
	CapListDoctorSchedule  Capability = "appointment.list_assigned"
	CapListAllAppointments Capability = "appointment.list_all"
	CapModifyAppointment   Capability = "appointment.modify"
	CapWritePrescription   Capability = "prescription.write"
	CapReadPrescriptions   Capability = "prescription.read"
	CapManageStaff         Capability = "staff.manage"
	CapManageCatalog       Capability = "pharmacy.catalog"
	CapRecordSale          Capability = "pharmacy.sale"
	CapManageOwnProfile    Capability = "doctor.profile"
	CapWriteTips           Capability = "doctor.tips"
	CapReviewDoctor        Capability = "doctor.review"
	CapReadAuditLog        Capability = "audit.read"
)

var capabilities = map[RoleID]map[Capability]bool{
	RoleIDPatient: {
		CapBookAppointment:     true,
		CapListOwnAppointments: true,
		CapModifyAppointment:   true,
		CapReadPrescriptions:   true,
		CapReviewDoctor:        true,
	},
	RoleIDDoctor: {
		CapListDoctorSchedule: true,
		CapWritePrescription:  true,
		CapReadPrescriptions:  true,
		CapManageOwnProfile:   true,
		CapWriteTips:          true,
	},
	RoleIDAdmin: {
		CapListAllAppointments: true,
		CapManageStaff:         true,
		CapManageCatalog:       true,
		CapRecordSale:          true,
		CapReadAuditLog:        true,
	},
	RoleIDPharmacist: {
		CapRecordSale: true,
	},
}

// Can reports whether the role holds the capability.
func (r RoleID) Can(c Capability) bool {
	return capabilities[r][c]
}
