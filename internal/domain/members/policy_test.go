package members

import (
	"strings"
	"testing"
)

func TestCanModerate(t *testing.T) {
	for role, want := range map[Role]bool{
		RoleAdmin: true, RoleCoAdmin: true,
		RoleUser: false, RolePending: false, RoleBlocked: false,
	} {
		if got := CanModerate(role); got != want {
			t.Errorf("CanModerate(%s) = %v, want %v", role, got, want)
		}
	}
}

func TestIsApproved(t *testing.T) {
	for role, want := range map[Role]bool{
		RoleUser: true, RoleCoAdmin: true, RoleAdmin: true,
		RolePending: false, RoleBlocked: false, Role(""): false,
	} {
		if got := IsApproved(role); got != want {
			t.Errorf("IsApproved(%q) = %v, want %v", role, got, want)
		}
	}
}

func TestCanViewPhone(t *testing.T) {
	cases := []struct {
		viewer Role
		target Gender
		want   bool
	}{
		{RoleUser, GenderFemale, false},
		{RoleUser, GenderMale, true},
		{RoleCoAdmin, GenderFemale, true},
		{RoleAdmin, GenderFemale, true},
		{RoleAdmin, GenderMale, true},
	}
	for _, tc := range cases {
		if got := CanViewPhone(tc.viewer, tc.target); got != tc.want {
			t.Errorf("CanViewPhone(%s, %s) = %v, want %v", tc.viewer, tc.target, got, tc.want)
		}
	}
}

func TestRenderCardRedaction(t *testing.T) {
	m := &Member{Name: "B", Roll: "2403002", Batch: "2k24", Gender: GenderFemale,
		Phone: "01712345678", BloodGroup: "A+", Hometown: "Dhaka"}

	redacted := RenderCard(m, !CanViewPhone(RoleUser, m.Gender))
	if strings.Contains(redacted, m.Phone) {
		t.Fatalf("phone leaked to user viewer: %q", redacted)
	}
	if !strings.Contains(redacted, RedactedPhone) {
		t.Fatalf("redaction marker missing: %q", redacted)
	}

	visible := RenderCard(m, !CanViewPhone(RoleAdmin, m.Gender))
	if !strings.Contains(visible, m.Phone) {
		t.Fatalf("phone hidden from admin viewer: %q", visible)
	}
}

func TestMainMenuProgression(t *testing.T) {
	const current = "2k24"

	base := MainMenu(RoleUser, "Other", current)
	batch := MainMenu(RoleUser, current, current)
	admin := MainMenu(RoleAdmin, current, current)

	if len(batch) != len(base)+1 {
		t.Fatalf("batch menu rows = %d, want base+1 = %d", len(batch), len(base)+1)
	}
	if len(admin) != len(batch)+1 {
		t.Fatalf("admin menu rows = %d, want batch+1 = %d", len(admin), len(batch)+1)
	}

	flat := func(rows [][]string) map[string]bool {
		m := map[string]bool{}
		for _, r := range rows {
			for _, l := range r {
				m[l] = true
			}
		}
		return m
	}
	baseSet, batchSet, adminSet := flat(base), flat(batch), flat(admin)
	for l := range baseSet {
		if !batchSet[l] || !adminSet[l] {
			t.Errorf("label %q missing from a wider menu", l)
		}
	}
	if !batchSet["💬 2k24 Batch Chat"] {
		t.Error("batch chat entry missing for current batch")
	}
	if baseSet["💬 2k24 Batch Chat"] {
		t.Error("batch chat entry leaked to other batch")
	}
	if !adminSet["🛠 Admin Panel"] {
		t.Error("admin panel entry missing for admin")
	}
	if batchSet["🛠 Admin Panel"] {
		t.Error("admin panel entry leaked to plain user")
	}
}
