// Package wizard implements the multi-step application form as a state
// machine.
//
// A Wizard owns one Draft, the current step, and the set of field errors to
// display. Field rules come from a declarative requirement Table; the same
// table drives live error display (re-evaluated on every Set, including
// dependent fields) and step gating (Next advances only when the current
// step's requirements pass). Previous never validates. ReadyToSubmit
// re-validates the whole draft, not only the last step.
//
// Errors are reported for a field once it has been touched, or for every
// field on a step after a blocked Next, so a fresh form is not covered in
// red. A Wizard is safe for concurrent use.
package wizard

import (
	"errors"
	"strings"
	"sync"

	"github.com/dalemusser/hackreg/internal/domain/models"
)

// ErrUnknownField is returned by Set for names outside the form.
var ErrUnknownField = errors.New("wizard: unknown field")

// Wizard is one applicant's form session.
type Wizard struct {
	mu      sync.Mutex
	table   *Table
	draft   Draft
	step    int
	errs    map[string]string
	touched map[string]bool
}

// New starts a wizard at step 1 with an empty draft.
func New(t *Table) *Wizard {
	w := &Wizard{table: t}
	w.resetLocked()
	return w
}

func (w *Wizard) resetLocked() {
	w.draft = Draft{}
	w.step = 1
	w.errs = map[string]string{}
	w.touched = map[string]bool{}
}

// Reset clears the draft and returns to step 1.
func (w *Wizard) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.resetLocked()
}

// Table returns the requirement table the wizard validates against.
func (w *Wizard) Table() *Table {
	return w.table
}

// Step returns the current step number (1-based).
func (w *Wizard) Step() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Draft returns a copy of the current draft.
func (w *Wizard) Draft() Draft {
	w.mu.Lock()
	defer w.mu.Unlock()
	d := w.draft
	d.Skills = append([]string(nil), w.draft.Skills...)
	return d
}

// Errors returns a copy of the currently displayed field errors.
func (w *Wizard) Errors() map[string]string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make(map[string]string, len(w.errs))
	for k, v := range w.errs {
		out[k] = v
	}
	return out
}

// Set stores a field value (trimmed) and re-evaluates that field and every
// field that depends on it.
func (w *Wizard) Set(field, value string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.draft.set(field, strings.TrimSpace(value)) {
		return ErrUnknownField
	}
	w.touched[field] = true
	w.refreshLocked(field)
	for _, dep := range w.table.Dependents(field) {
		w.refreshLocked(dep.Field)
	}
	return nil
}

// SetSkills replaces the skill set. Skills carry no validation.
func (w *Wizard) SetSkills(tags []string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.Skills = append([]string(nil), tags...)
}

// refreshLocked recomputes the displayed error for one field.
func (w *Wizard) refreshLocked(field string) {
	req, ok := w.table.Lookup(field)
	if !ok {
		delete(w.errs, field)
		return
	}
	c := req.Check(&w.draft)
	if c.Valid || !w.touched[field] {
		delete(w.errs, field)
		return
	}
	w.errs[field] = c.Message
}

// CanAdvance reports whether every requirement on the current step passes.
func (w *Wizard) CanAdvance() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.table.StepErrors(w.step, &w.draft)) == 0
}

// Next moves forward one step if the current step validates. On failure it
// marks the step's fields touched so their errors display, and stays put.
func (w *Wizard) Next() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step >= FinalStep {
		return false
	}
	for _, r := range w.table.ForStep(w.step) {
		w.touched[r.Field] = true
		w.refreshLocked(r.Field)
	}
	if len(w.table.StepErrors(w.step, &w.draft)) > 0 {
		return false
	}
	w.step++
	return true
}

// Previous moves back one step without validating.
func (w *Wizard) Previous() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step <= 1 {
		return false
	}
	w.step--
	return true
}

// ReadyToSubmit reports whether the wizard is on the final step and the whole
// draft validates.
func (w *Wizard) ReadyToSubmit() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step == FinalStep && len(w.table.Errors(&w.draft)) == 0
}

// ValidateAll touches every field, refreshes every error and returns them.
// It also moves the wizard back to the first step that fails, so the
// applicant lands where the problem is.
func (w *Wizard) ValidateAll() map[string]string {
	w.mu.Lock()
	defer w.mu.Unlock()

	errs := w.table.Errors(&w.draft)
	for _, r := range w.table.reqs {
		w.touched[r.Field] = true
		w.refreshLocked(r.Field)
	}
	for _, s := range Steps {
		if len(w.table.StepErrors(s.Number, &w.draft)) > 0 {
			w.step = s.Number
			break
		}
	}
	return errs
}

// Snapshot returns the draft as a storable record together with whether it
// is ready to submit, both read under one lock.
func (w *Wizard) Snapshot() (models.Application, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	ready := w.step == FinalStep && len(w.table.Errors(&w.draft)) == 0
	return w.draft.Application(), ready
}

// Application returns the draft converted to a storable record.
func (w *Wizard) Application() models.Application {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft.Application()
}
