package members

import "fmt"

// Decision functions over roles and profile fields. Kept pure so the
// handlers never re-derive visibility rules inline.

func CanModerate(r Role) bool {
	return r == RoleAdmin || r == RoleCoAdmin
}

func IsApproved(r Role) bool {
	return r != "" && r != RolePending && r != RoleBlocked
}

// CanViewPhone hides female members' phone numbers from everyone who
// cannot moderate.
func CanViewPhone(viewer Role, target Gender) bool {
	return target != GenderFemale || CanModerate(viewer)
}

// RedactedPhone is what a rendered card shows instead of a hidden number.
const RedactedPhone = "🔒 Hidden"

type PhotoRule int

const (
	PhotoRequired PhotoRule = iota // must upload, no skip
	PhotoOptional                  // upload or the skip keyword
	PhotoSkipped                   // step is not prompted at all
)

// PhotoRuleFor decides the photo step for one onboarding run.
// The super admin always uploads a photo; the current batch uploads one
// unless the member is female; other batches are never asked.
func PhotoRuleFor(batch string, gender Gender, currentBatch string, superAdmin bool) PhotoRule {
	if superAdmin {
		return PhotoRequired
	}
	if batch != currentBatch {
		return PhotoSkipped
	}
	if gender == GenderFemale {
		return PhotoOptional
	}
	return PhotoRequired
}

// MainMenu returns the reply-keyboard rows visible to a member.
func MainMenu(role Role, batch, currentBatch string) [][]string {
	rows := [][]string{}
	if batch == currentBatch && currentBatch != "" {
		rows = append(rows, []string{fmt.Sprintf("💬 %s Batch Chat", currentBatch)})
	}
	rows = append(rows,
		[]string{"📂 Browse Files", "📤 Upload File"},
		[]string{"📂 My Files", "👥 Batch Profiles"},
		[]string{"ℹ️ My Profile", "📞 Contact Admins"},
	)
	if CanModerate(role) {
		rows = append(rows, []string{"🛠 Admin Panel"})
	}
	return rows
}

// RenderCard formats a profile for display. The caller decides redaction
// via CanViewPhone (a member always sees their own number).
func RenderCard(m *Member, redactPhone bool) string {
	phone := m.Phone
	if redactPhone {
		phone = RedactedPhone
	}
	return fmt.Sprintf("👤 %s\nRoll: %s\nBatch: %s\nBlood: %s\nHome: %s\nPhone: %s",
		m.Name, m.Roll, m.Batch, m.BloodGroup, m.Hometown, phone)
}
