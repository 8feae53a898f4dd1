package entity

import "strings"

// Role represents a user role in the system
type Role struct {
	ID          RoleID `gorm:"primaryKey" json:"id"`
	RoleName    string `gorm:"type:varchar(50);uniqueIndex;not null" json:"role_name"`
	Description string `gorm:"type:text" json:"description,omitempty"`

	// Relationships
	Users []User `gorm:"foreignKey:RoleID" json:"users,omitempty"`
}

func (Role) TableName() string {
	return "roles"
}

// RoleID is the closed set of account roles. Rows in the roles table mirror it.
type RoleID int

// Role ID constants
const (
	RoleIDAdmin      RoleID = 1
	RoleIDDoctor     RoleID = 2
	RoleIDPatient    RoleID = 3
	RoleIDPharmacist RoleID = 4
)

// RoleNames constants
const (
	RoleAdmin      = "admin"
	RoleDoctor     = "doctor"
	RolePatient    = "patient"
	RolePharmacist = "pharmacist"
)

var roleNames = map[RoleID]string{
	RoleIDAdmin:      RoleAdmin,
	RoleIDDoctor:     RoleDoctor,
	RoleIDPatient:    RolePatient,
	RoleIDPharmacist: RolePharmacist,
}

func (r RoleID) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

func (r RoleID) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "unknown"
}

// ParseRole maps a role name to its ID. "customer" is accepted as an alias
// for patient.
func ParseRole(name string) (RoleID, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "customer" {
		return RoleIDPatient, true
	}
	for id, n := range roleNames {
		if n == key {
			return id, true
		}
	}
	return 0, false
}
