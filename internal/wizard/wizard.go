// Package wizard drives the international-program application flow: five
// ordered data-collection steps, a review gate, and exactly one network
// mutation at the terminal step.
package wizard

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"upi-cli/internal/model"
)

type Step int

const (
	StepPersonal  Step = 1
	StepAcademic  Step = 2
	StepDocuments Step = 3
	StepEssay     Step = 4
	StepReview    Step = 5
	StepSubmitted Step = 6
)

func (s Step) String() string {
	switch s {
	case StepPersonal:
		return "personal"
	case StepAcademic:
		return "academic"
	case StepDocuments:
		return "documents"
	case StepEssay:
		return "essay"
	case StepReview:
		return "review"
	case StepSubmitted:
		return "submitted"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// GatePolicy controls whether Next blocks on incomplete required fields.
type GatePolicy int

const (
	// GateBlock refuses to advance past a step with missing required fields.
	GateBlock GatePolicy = iota
	// GateAdvisory always advances; problems are reported but not enforced.
	GateAdvisory
)

// Submitter performs the terminal submission.
type Submitter interface {
	RegisterApplication(ctx context.Context, d model.Draft) error
}

// GateError is returned by Next under GateBlock when the current step has
// blocking problems.
type GateError struct {
	Step     Step
	Problems []Problem
}

func (e *GateError) Error() string {
	return fmt.Sprintf("%s step is incomplete (%d missing fields)", e.Step, len(e.Problems))
}

// Wizard holds the draft and the current position. It is not safe for
// concurrent use; the UI event loop owns it.
type Wizard struct {
	api    Submitter
	policy GatePolicy

	draft      model.Draft
	step       Step
	submitting bool
	lastErr    string
}

func New(api Submitter, policy GatePolicy) *Wizard {
	return &Wizard{
		api:    api,
		policy: policy,
		draft:  emptyDraft(),
		step:   StepPersonal,
	}
}

// Resume continues a previously autosaved draft from step 1.
func Resume(api Submitter, policy GatePolicy, d model.Draft) *Wizard {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return &Wizard{api: api, policy: policy, draft: d, step: StepPersonal}
}

func emptyDraft() model.Draft {
	return model.Draft{ID: uuid.NewString()}
}

func (w *Wizard) Step() Step       { return w.step }
func (w *Wizard) Policy() GatePolicy { return w.policy }
func (w *Wizard) Submitting() bool { return w.submitting }

// Err is the ambient error attached to the current step after a failed
// submission (there is no dedicated error state).
func (w *Wizard) Err() string { return w.lastErr }

// Draft returns a copy of the working record.
func (w *Wizard) Draft() model.Draft { return w.draft }

// Update mutates the draft field-by-field as the user types. Edits are
// rejected once the draft has been submitted.
func (w *Wizard) Update(fn func(*model.Draft)) error {
	if w.step == StepSubmitted || w.submitting {
		return fmt.Errorf("draft is no longer editable")
	}
	fn(&w.draft)
	w.draft.UpdatedAt = time.Now().UTC()
	return nil
}

// Next advances one step. Under GateBlock the current step's required
// fields must be filled; advisory problems never block.
func (w *Wizard) Next() error {
	if w.step < StepPersonal || w.step >= StepReview {
		return fmt.Errorf("cannot advance from %s", w.step)
	}
	if w.policy == GateBlock {
		if blocking := Blocking(ValidateStep(w.draft, w.step)); len(blocking) > 0 {
			return &GateError{Step: w.step, Problems: blocking}
		}
	}
	w.step++
	return nil
}

// Prev steps back one step. Never gated.
func (w *Wizard) Prev() error {
	if w.step <= StepPersonal || w.step > StepReview {
		return fmt.Errorf("cannot go back from %s", w.step)
	}
	w.step--
	return nil
}

// BeginSubmit freezes the draft for the terminal submission and returns the
// copy the caller should send. Allowed only from the review step and only
// when no blocking problems remain: anywhere else, or with an incomplete
// draft, it refuses before any network call is made. The caller performs
// the call and reports the outcome via FinishSubmit; splitting the two
// keeps every Wizard mutation on the owning event loop while the request
// runs elsewhere.
func (w *Wizard) BeginSubmit() (model.Draft, error) {
	if w.step != StepReview {
		return model.Draft{}, fmt.Errorf("submit is only allowed from the review step (at %s)", w.step)
	}
	if w.submitting {
		return model.Draft{}, fmt.Errorf("submission already in flight")
	}
	if blocking := Blocking(ValidateStep(w.draft, StepReview)); len(blocking) > 0 {
		return model.Draft{}, &GateError{Step: StepReview, Problems: blocking}
	}
	w.submitting = true
	return w.draft, nil
}

// FinishSubmit records the submission outcome. On success the working copy
// is discarded and the wizard lands on StepSubmitted; on failure the draft
// is untouched and the step stays at review so resubmission retains
// everything the user entered.
func (w *Wizard) FinishSubmit(err error) {
	w.submitting = false
	if err != nil {
		w.lastErr = err.Error()
		return
	}
	w.lastErr = ""
	w.draft = model.Draft{}
	w.step = StepSubmitted
}

// Submit performs the terminal submission synchronously: BeginSubmit, the
// network call, FinishSubmit.
func (w *Wizard) Submit(ctx context.Context) error {
	d, err := w.BeginSubmit()
	if err != nil {
		return err
	}
	err = w.api.RegisterApplication(ctx, d)
	w.FinishSubmit(err)
	return err
}

// Reset is allowed only after a successful submission: it clears the draft
// to its empty initial shape and returns to step 1.
func (w *Wizard) Reset() error {
	if w.step != StepSubmitted {
		return fmt.Errorf("reset is only allowed after submission (at %s)", w.step)
	}
	w.draft = emptyDraft()
	w.step = StepPersonal
	w.lastErr = ""
	return nil
}
