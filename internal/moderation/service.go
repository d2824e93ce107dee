// Package moderation gates member accounts and content submissions behind
// administrator decisions. Every call re-verifies the acting identity's
// role from the store; session state is never trusted.
package moderation

import (
	"context"
	"errors"
	"log/slog"

	"github.com/raselahmed/eee24bot/internal/domain/members"
	"github.com/raselahmed/eee24bot/internal/domain/submissions"
)

var (
	// ErrPermissionDenied means the actor may not perform the action.
	ErrPermissionDenied = errors.New("moderation: permission denied")
	// ErrNotFound means the referenced record no longer exists, e.g. a
	// stale approve after another admin already rejected.
	ErrNotFound = errors.New("moderation: not found")
)

type MemberStore interface {
	GetByChatID(ctx context.Context, chatID int64) (*members.Member, error)
	ListByRole(ctx context.Context, role members.Role) ([]members.Member, error)
	SetRole(ctx context.Context, chatID int64, role members.Role) error
	Delete(ctx context.Context, chatID int64) error
}

type SubmissionStore interface {
	GetByID(ctx context.Context, id int64) (*submissions.Submission, error)
	ListPending(ctx context.Context) ([]submissions.PendingItem, error)
	UpdateStatus(ctx context.Context, id int64, status submissions.Status) error
	Delete(ctx context.Context, id int64) error
}

// Notifier delivers a text to a chat. Delivery failures are logged and
// swallowed; the state change they follow has already committed.
type Notifier interface {
	Notify(chatID int64, text string) error
}

type Service struct {
	members MemberStore
	subs    SubmissionStore
	notify  Notifier
	log     *slog.Logger
}

func New(ms MemberStore, ss SubmissionStore, n Notifier, log *slog.Logger) *Service {
	return &Service{members: ms, subs: ss, notify: n, log: log}
}

func (s *Service) moderator(ctx context.Context, actorID int64) (*members.Member, error) {
	actor, err := s.members.GetByChatID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor == nil || !members.CanModerate(actor.Role) {
		return nil, ErrPermissionDenied
	}
	return actor, nil
}

func (s *Service) PendingMembers(ctx context.Context, actorID int64) ([]members.Member, error) {
	if _, err := s.moderator(ctx, actorID); err != nil {
		return nil, err
	}
	return s.members.ListByRole(ctx, members.RolePending)
}

func (s *Service) PendingSubmissions(ctx context.Context, actorID int64) ([]submissions.PendingItem, error) {
	if _, err := s.moderator(ctx, actorID); err != nil {
		return nil, err
	}
	return s.subs.ListPending(ctx)
}

// ApproveMember grants the user role. Idempotent: approving an already
// approved member changes nothing and sends no second notification.
func (s *Service) ApproveMember(ctx context.Context, actorID, memberID int64) error {
	if _, err := s.moderator(ctx, actorID); err != nil {
		return err
	}
	target, err := s.members.GetByChatID(ctx, memberID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrNotFound
	}
	if target.Role != members.RolePending {
		return nil
	}
	if err := s.members.SetRole(ctx, memberID, members.RoleUser); err != nil {
		return err
	}
	if err := s.notify.Notify(memberID, "🎉 Account Approved! /start to begin."); err != nil {
		s.log.Error("approval notice failed", "member", memberID, "err", err)
	}
	return nil
}

// RejectMember deletes the record outright; the member must re-register.
func (s *Service) RejectMember(ctx context.Context, actorID, memberID int64) error {
	if _, err := s.moderator(ctx, actorID); err != nil {
		return err
	}
	target, err := s.members.GetByChatID(ctx, memberID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrNotFound
	}
	return s.members.Delete(ctx, memberID)
}

// SetMemberRole is the direct role mutation admins use to promote
// co-admins or block someone. Restricted to full admins.
func (s *Service) SetMemberRole(ctx context.Context, actorID, memberID int64, role members.Role) error {
	actor, err := s.moderator(ctx, actorID)
	if err != nil {
		return err
	}
	if actor.Role != members.RoleAdmin {
		return ErrPermissionDenied
	}
	target, err := s.members.GetByChatID(ctx, memberID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrNotFound
	}
	return s.members.SetRole(ctx, memberID, role)
}

func (s *Service) ApproveSubmission(ctx context.Context, actorID, id int64) error {
	if _, err := s.moderator(ctx, actorID); err != nil {
		return err
	}
	sub, err := s.subs.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if sub == nil {
		return ErrNotFound
	}
	return s.subs.UpdateStatus(ctx, id, submissions.StatusApproved)
}

func (s *Service) RejectSubmission(ctx context.Context, actorID, id int64) error {
	if _, err := s.moderator(ctx, actorID); err != nil {
		return err
	}
	sub, err := s.subs.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if sub == nil {
		return ErrNotFound
	}
	return s.subs.Delete(ctx, id)
}

// DeleteSubmission removes an item on behalf of its owner or a moderator.
func (s *Service) DeleteSubmission(ctx context.Context, actorID, id int64) error {
	sub, err := s.subs.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if sub == nil {
		return ErrNotFound
	}
	if sub.UploaderID != actorID {
		actor, err := s.members.GetByChatID(ctx, actorID)
		if err != nil {
			return err
		}
		if actor == nil || !members.CanModerate(actor.Role) {
			return ErrPermissionDenied
		}
	}
	return s.subs.Delete(ctx, id)
}
