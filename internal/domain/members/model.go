package members

import "time"

type Role string

const (
	RolePending Role = "pending"
	RoleUser    Role = "user"
	RoleCoAdmin Role = "co-admin"
	RoleAdmin   Role = "admin"
	RoleBlocked Role = "blocked"
)

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

type Member struct {
	ChatID     int64
	Name       string
	Roll       string
	Batch      string
	Gender     Gender
	Phone      string
	PhotoID    string // Telegram file id; empty when no photo is stored
	FBLink     string
	BloodGroup string
	Hometown   string
	Email      string
	Role       Role
	JoinedAt   time.Time
}

// BootstrapName is the placeholder the super admin row carries until they
// run /update_profile with their real details.
const BootstrapName = "Super Admin"
