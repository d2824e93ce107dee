// Package onboarding implements the guided profile-collection flow as a
// pure step machine. The bot layer owns persistence and message delivery;
// this package only decides what the next step is and whether an answer
// is acceptable.
package onboarding

import (
	"fmt"
	"strings"

	"github.com/raselahmed/eee24bot/internal/domain/members"
)

type Step string

const (
	StepName     Step = "name"
	StepRoll     Step = "roll"
	StepBatch    Step = "batch"
	StepGender   Step = "gender"
	StepPhone    Step = "phone"
	StepPhoto    Step = "photo"
	StepFBLink   Step = "fb_link"
	StepBlood    Step = "blood_group"
	StepHometown Step = "hometown"
	StepEmail    Step = "email"
	StepComplete Step = "complete"
)

// Order is the fixed question sequence. StepPhoto may be skipped outright
// depending on the photo rule, never reordered.
var Order = []Step{
	StepName, StepRoll, StepBatch, StepGender, StepPhone,
	StepPhoto, StepFBLink, StepBlood, StepHometown, StepEmail,
}

// Form accumulates answers keyed by step.
type Form map[string]string

// Env carries the two pieces of context the step machine cannot decide
// by itself.
type Env struct {
	CurrentBatch string
	SuperAdmin   bool
}

// Input is one inbound answer: free text and, for the photo step, the
// file id of an attached photo.
type Input struct {
	Text    string
	PhotoID string
}

// ValidationError marks an answer that must be re-asked; the session
// stays on the same step.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

const SkipKeyword = "skip"

// First returns the entry step.
func First() Step { return StepName }

// Prompt returns the question text for a step.
func (e Env) Prompt(f Form, s Step) string {
	switch s {
	case StepName:
		return "What is your Full Name?"
	case StepRoll:
		return "What is your Roll Number?"
	case StepBatch:
		return "Which Batch?"
	case StepGender:
		return "Select Gender:"
	case StepPhone:
		return "Share Phone Number:"
	case StepPhoto:
		msg := "📸 Photo Upload"
		if e.photoRule(f) == members.PhotoOptional {
			msg += "\n(Optional for Females - Type 'skip' to pass)"
		} else {
			msg += fmt.Sprintf("\n(Required for %s/Admin)", e.CurrentBatch)
		}
		return msg
	case StepFBLink:
		return "🔗 Facebook Profile Link?"
	case StepBlood:
		return "🩸 Blood Group?"
	case StepHometown:
		return "🏠 Home Town?"
	case StepEmail:
		return "📧 Email Address?"
	}
	return ""
}

// Advance validates in against the current step, records the answer into
// f and returns the next step. A *ValidationError means the step did not
// advance. The photo step is entered only when the rule calls for it;
// otherwise the photo is recorded absent and the flow moves on.
func (e Env) Advance(f Form, s Step, in Input) (Step, error) {
	switch s {
	case StepGender:
		if in.Text != string(members.GenderMale) && in.Text != string(members.GenderFemale) {
			return s, &ValidationError{Msg: "Select Male or Female."}
		}
		f[string(s)] = in.Text

	case StepPhoto:
		switch {
		case in.PhotoID != "":
			f[string(s)] = in.PhotoID
		case e.photoRule(f) == members.PhotoOptional && strings.EqualFold(strings.TrimSpace(in.Text), SkipKeyword):
			f[string(s)] = ""
		default:
			return s, &ValidationError{Msg: "❌ Photo required. Please upload."}
		}

	default:
		text := strings.TrimSpace(in.Text)
		if text == "" {
			return s, &ValidationError{Msg: "Please answer with text."}
		}
		f[string(s)] = text
	}

	return e.next(f, s), nil
}

func (e Env) next(f Form, s Step) Step {
	idx := -1
	for i, st := range Order {
		if st == s {
			idx = i
			break
		}
	}
	if idx < 0 || idx == len(Order)-1 {
		return StepComplete
	}
	n := Order[idx+1]
	if n == StepPhoto && e.photoRule(f) == members.PhotoSkipped {
		f[string(StepPhoto)] = ""
		return Order[idx+2]
	}
	return n
}

func (e Env) photoRule(f Form) members.PhotoRule {
	return members.PhotoRuleFor(f[string(StepBatch)], members.Gender(f[string(StepGender)]), e.CurrentBatch, e.SuperAdmin)
}

// Profile converts a completed form into a member record.
func (f Form) Profile(chatID int64) *members.Member {
	return &members.Member{
		ChatID:     chatID,
		Name:       f[string(StepName)],
		Roll:       f[string(StepRoll)],
		Batch:      f[string(StepBatch)],
		Gender:     members.Gender(f[string(StepGender)]),
		Phone:      f[string(StepPhone)],
		PhotoID:    f[string(StepPhoto)],
		FBLink:     f[string(StepFBLink)],
		BloodGroup: f[string(StepBlood)],
		Hometown:   f[string(StepHometown)],
		Email:      f[string(StepEmail)],
	}
}
