package moderation

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/raselahmed/eee24bot/internal/domain/members"
	"github.com/raselahmed/eee24bot/internal/domain/submissions"
	"github.com/raselahmed/eee24bot/internal/onboarding"
)

type fakeMembers struct {
	m map[int64]*members.Member
}

func newFakeMembers() *fakeMembers { return &fakeMembers{m: map[int64]*members.Member{}} }

func (f *fakeMembers) GetByChatID(_ context.Context, id int64) (*members.Member, error) {
	if mm, ok := f.m[id]; ok {
		cp := *mm
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeMembers) ListByRole(_ context.Context, role members.Role) ([]members.Member, error) {
	var out []members.Member
	for _, mm := range f.m {
		if mm.Role == role {
			out = append(out, *mm)
		}
	}
	return out, nil
}

func (f *fakeMembers) SetRole(_ context.Context, id int64, role members.Role) error {
	if mm, ok := f.m[id]; ok {
		mm.Role = role
	}
	return nil
}

func (f *fakeMembers) Delete(_ context.Context, id int64) error {
	delete(f.m, id)
	return nil
}

type fakeSubs struct {
	m    map[int64]*submissions.Submission
	next int64
}

func newFakeSubs() *fakeSubs { return &fakeSubs{m: map[int64]*submissions.Submission{}} }

func (f *fakeSubs) add(s submissions.Submission) int64 {
	f.next++
	s.ID = f.next
	s.UploadedAt = time.Now()
	f.m[s.ID] = &s
	return s.ID
}

func (f *fakeSubs) GetByID(_ context.Context, id int64) (*submissions.Submission, error) {
	if s, ok := f.m[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeSubs) ListPending(_ context.Context) ([]submissions.PendingItem, error) {
	var out []submissions.PendingItem
	for _, s := range f.m {
		if s.Status == submissions.StatusPending {
			out = append(out, submissions.PendingItem{Submission: *s})
		}
	}
	return out, nil
}

func (f *fakeSubs) UpdateStatus(_ context.Context, id int64, status submissions.Status) error {
	if s, ok := f.m[id]; ok {
		s.Status = status
	}
	return nil
}

func (f *fakeSubs) Delete(_ context.Context, id int64) error {
	delete(f.m, id)
	return nil
}

// approved returns what a category browse would surface to a plain user.
func (f *fakeSubs) approved(category string) []submissions.Submission {
	var out []submissions.Submission
	for _, s := range f.m {
		if s.Category == category && s.Status == submissions.StatusApproved {
			out = append(out, *s)
		}
	}
	return out
}

type fakeNotifier struct {
	sent map[int64][]string
}

func newFakeNotifier() *fakeNotifier { return &fakeNotifier{sent: map[int64][]string{}} }

func (f *fakeNotifier) Notify(chatID int64, text string) error {
	f.sent[chatID] = append(f.sent[chatID], text)
	return nil
}

const (
	adminID  = int64(1)
	memberID = int64(100)
)

func newService(t *testing.T) (*Service, *fakeMembers, *fakeSubs, *fakeNotifier) {
	t.Helper()
	fm := newFakeMembers()
	fm.m[adminID] = &members.Member{ChatID: adminID, Name: "Admin", Role: members.RoleAdmin}
	fs := newFakeSubs()
	fn := newFakeNotifier()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(fm, fs, fn, log), fm, fs, fn
}

func TestApproveMemberIsIdempotent(t *testing.T) {
	svc, fm, _, fn := newService(t)
	ctx := context.Background()
	fm.m[memberID] = &members.Member{ChatID: memberID, Name: "A", Role: members.RolePending}

	if err := svc.ApproveMember(ctx, adminID, memberID); err != nil {
		t.Fatalf("first approve: %v", err)
	}
	if fm.m[memberID].Role != members.RoleUser {
		t.Fatalf("role = %s, want %s", fm.m[memberID].Role, members.RoleUser)
	}
	if n := len(fn.sent[memberID]); n != 1 {
		t.Fatalf("notifications after first approve = %d, want 1", n)
	}

	if err := svc.ApproveMember(ctx, adminID, memberID); err != nil {
		t.Fatalf("second approve: %v", err)
	}
	if fm.m[memberID].Role != members.RoleUser {
		t.Fatalf("second approve changed role to %s", fm.m[memberID].Role)
	}
	if n := len(fn.sent[memberID]); n != 1 {
		t.Fatalf("second approve re-notified: %d messages", n)
	}
}

func TestRejectThenApproveIsSilentNoOp(t *testing.T) {
	svc, fm, _, _ := newService(t)
	ctx := context.Background()
	fm.m[memberID] = &members.Member{ChatID: memberID, Role: members.RolePending}

	if err := svc.RejectMember(ctx, adminID, memberID); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if _, ok := fm.m[memberID]; ok {
		t.Fatal("reject kept the record")
	}
	if err := svc.ApproveMember(ctx, adminID, memberID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("stale approve: err = %v, want ErrNotFound", err)
	}
}

func TestModerationRequiresModeratorRole(t *testing.T) {
	svc, fm, fs, _ := newService(t)
	ctx := context.Background()
	fm.m[memberID] = &members.Member{ChatID: memberID, Role: members.RoleUser}
	id := fs.add(submissions.Submission{Category: "Notes", UploaderID: 999, Status: submissions.StatusPending})

	if _, err := svc.PendingMembers(ctx, memberID); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("PendingMembers as user: %v", err)
	}
	if err := svc.ApproveSubmission(ctx, memberID, id); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("ApproveSubmission as user: %v", err)
	}
	if err := svc.SetMemberRole(ctx, memberID, memberID, members.RoleAdmin); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("SetMemberRole as user: %v", err)
	}
}

func TestSetMemberRoleNeedsFullAdmin(t *testing.T) {
	svc, fm, _, _ := newService(t)
	ctx := context.Background()
	coAdminID := int64(2)
	fm.m[coAdminID] = &members.Member{ChatID: coAdminID, Role: members.RoleCoAdmin}
	fm.m[memberID] = &members.Member{ChatID: memberID, Role: members.RoleUser}

	if err := svc.SetMemberRole(ctx, coAdminID, memberID, members.RoleBlocked); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("co-admin role mutation: %v", err)
	}
	if err := svc.SetMemberRole(ctx, adminID, memberID, members.RoleBlocked); err != nil {
		t.Fatalf("admin block: %v", err)
	}
	if fm.m[memberID].Role != members.RoleBlocked {
		t.Fatalf("role = %s, want blocked", fm.m[memberID].Role)
	}
}

func TestDeleteSubmissionOwnership(t *testing.T) {
	svc, fm, fs, _ := newService(t)
	ctx := context.Background()
	owner := int64(200)
	stranger := int64(201)
	fm.m[owner] = &members.Member{ChatID: owner, Role: members.RoleUser}
	fm.m[stranger] = &members.Member{ChatID: stranger, Role: members.RoleUser}
	id := fs.add(submissions.Submission{Category: "Notes", UploaderID: owner, Status: submissions.StatusPending})

	if err := svc.DeleteSubmission(ctx, stranger, id); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("stranger delete: %v", err)
	}
	if err := svc.DeleteSubmission(ctx, owner, id); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if err := svc.DeleteSubmission(ctx, owner, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("double delete: %v", err)
	}

	// admins may delete anything, any status
	id2 := fs.add(submissions.Submission{Category: "Books", UploaderID: owner, Status: submissions.StatusApproved})
	if err := svc.DeleteSubmission(ctx, adminID, id2); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
}

func TestPendingSubmissionVisibility(t *testing.T) {
	svc, fm, fs, _ := newService(t)
	ctx := context.Background()
	owner := int64(300)
	fm.m[owner] = &members.Member{ChatID: owner, Role: members.RoleUser}
	id := fs.add(submissions.Submission{Category: "Notes", UploaderID: owner, Status: submissions.StatusPending})

	if got := fs.approved("Notes"); len(got) != 0 {
		t.Fatalf("pending item visible in browse: %v", got)
	}
	pending, err := svc.PendingSubmissions(ctx, adminID)
	if err != nil || len(pending) != 1 {
		t.Fatalf("queue view: %v, %d items", err, len(pending))
	}
	if err := svc.ApproveSubmission(ctx, adminID, id); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if got := fs.approved("Notes"); len(got) != 1 {
		t.Fatalf("approved item missing from browse: %v", got)
	}
}

// Full path: onboarding produces a pending record, the queue approves the
// member, a pending upload is approved and becomes browsable.
func TestRegistrationToApprovedUploadScenario(t *testing.T) {
	svc, fm, fs, fn := newService(t)
	ctx := context.Background()

	env := onboarding.Env{CurrentBatch: "2k24"}
	form := onboarding.Form{}
	steps := []onboarding.Input{
		{Text: "A"}, {Text: "2403001"}, {Text: "2k24"}, {Text: "Male"},
		{Text: "01712345678"}, {PhotoID: "PH1"}, {Text: "fb.com/a"},
		{Text: "O+"}, {Text: "Khulna"}, {Text: "a@example.com"},
	}
	cur := onboarding.First()
	for _, in := range steps {
		next, err := env.Advance(form, cur, in)
		if err != nil {
			t.Fatalf("Advance(%s): %v", cur, err)
		}
		cur = next
	}
	if cur != onboarding.StepComplete {
		t.Fatalf("onboarding ended at %s", cur)
	}

	a := form.Profile(memberID)
	a.Role = members.RolePending
	fm.m[memberID] = a

	if err := svc.ApproveMember(ctx, adminID, memberID); err != nil {
		t.Fatalf("approve member: %v", err)
	}
	if fm.m[memberID].Role != members.RoleUser {
		t.Fatalf("role = %s", fm.m[memberID].Role)
	}
	if len(fn.sent[memberID]) != 1 {
		t.Fatalf("member not notified of approval")
	}

	id := fs.add(submissions.Submission{
		Kind: submissions.KindPhoto, Category: "Notes",
		Caption: submissions.DefaultCaption, UploaderID: memberID,
		Status: submissions.StatusPending,
	})
	if err := svc.ApproveSubmission(ctx, adminID, id); err != nil {
		t.Fatalf("approve submission: %v", err)
	}
	got := fs.approved("Notes")
	if len(got) != 1 || got[0].ID != id {
		t.Fatalf("approved submission not browsable: %v", got)
	}
}
