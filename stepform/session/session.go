// Package session implements the step navigation of a form being filled in:
// the current step, the values entered so far and the published validation
// errors.
package session

import (
	"errors"

	"github.com/G-Node/stepform/stepform/form"
)

// ErrNoSteps is returned when a session is created for a config without
// steps.
var ErrNoSteps = errors.New("form has no steps")

// Outcome is the result of a navigation attempt.
type Outcome int

const (
	// Ignored means the attempt is not valid in the current state.
	Ignored Outcome = iota
	// Stayed means validation failed and errors were published.
	Stayed
	Advanced
	Retreated
	Submitted
)

func (o Outcome) String() string {
	switch o {
	case Stayed:
		return "stayed"
	case Advanced:
		return "advanced"
	case Retreated:
		return "retreated"
	case Submitted:
		return "submitted"
	}
	return "ignored"
}

// State is the persistable part of a Session.
type State struct {
	Step      int               `json:"step"`
	Values    map[string]string `json:"values"`
	Errors    form.ErrorMap     `json:"errors"`
	Submitted bool              `json:"submitted"`
}

// Session drives a form through its steps.  It is not safe for concurrent
// use.
type Session struct {
	config    form.Config
	step      int
	values    map[string]string
	errors    form.ErrorMap
	submitted bool
	onSubmit  func(map[string]string)
}

// New starts a session at the first step of the config.
func New(cfg form.Config) (*Session, error) {
	if len(cfg.Steps) == 0 {
		return nil, ErrNoSteps
	}
	s := &Session{
		config: cfg.Clone(),
		values: make(map[string]string),
		errors: make(form.ErrorMap),
	}
	s.enter(0)
	return s, nil
}

// Restore rebuilds a session from a persisted state.  The step index is
// clamped into the range of the config steps.
func Restore(cfg form.Config, st State) (*Session, error) {
	s, err := New(cfg)
	if err != nil {
		return nil, err
	}
	for k, v := range st.Values {
		s.values[k] = v
	}
	for k, v := range st.Errors {
		s.errors[k] = v
	}
	step := st.Step
	if step < 0 {
		step = 0
	}
	if step >= len(s.config.Steps) {
		step = len(s.config.Steps) - 1
	}
	for idx := 1; idx <= step; idx++ {
		s.enter(idx)
	}
	s.submitted = st.Submitted
	return s, nil
}

// Snapshot returns a copy of the session state.
func (s *Session) Snapshot() State {
	return State{
		Step:      s.step,
		Values:    s.Values(),
		Errors:    s.Errors(),
		Submitted: s.submitted,
	}
}

// OnSubmit registers the function called with the submitted values.
func (s *Session) OnSubmit(f func(values map[string]string)) {
	s.onSubmit = f
}

// Config returns the config the session runs.
func (s *Session) Config() form.Config {
	return s.config.Clone()
}

// StepIndex returns the zero-based index of the current step.
func (s *Session) StepIndex() int {
	return s.step
}

// StepCount returns the number of steps.
func (s *Session) StepCount() int {
	return len(s.config.Steps)
}

// Step returns the current step.
func (s *Session) Step() form.Step {
	return s.config.Steps[s.step].Clone()
}

// IsFirst reports whether the current step is the first one.
func (s *Session) IsFirst() bool {
	return s.step == 0
}

// IsLast reports whether the current step is the last one.
func (s *Session) IsLast() bool {
	return s.step == len(s.config.Steps)-1
}

// Submitted reports whether the form was submitted.  A submitted session
// accepts no further input.
func (s *Session) Submitted() bool {
	return s.submitted
}

// Value returns the value entered for a field name.
func (s *Session) Value(name string) string {
	return s.values[name]
}

// Values returns a copy of the entered values keyed by field name.
func (s *Session) Values() map[string]string {
	vals := make(map[string]string, len(s.values))
	for k, v := range s.values {
		vals[k] = v
	}
	return vals
}

// Errors returns a copy of the published errors keyed by field ID.
func (s *Session) Errors() form.ErrorMap {
	return s.errors.Clone()
}

// Edit sets the value of a field and clears the published error of the
// current-step fields with that name.  Other errors remain until the next
// navigation attempt.
func (s *Session) Edit(name, value string) {
	if s.submitted {
		return
	}
	s.values[name] = value
	for _, f := range s.config.Steps[s.step].Fields {
		if f.Name == name {
			delete(s.errors, f.ID)
		}
	}
}

// Next validates the current step and moves to the following one.  On the
// last step it submits.
func (s *Session) Next() Outcome {
	if s.submitted {
		return Ignored
	}
	if s.IsLast() {
		return s.Submit()
	}
	if !s.check() {
		return Stayed
	}
	s.enter(s.step + 1)
	return Advanced
}

// Back moves to the previous step without validating.
func (s *Session) Back() Outcome {
	if s.submitted || s.step == 0 {
		return Ignored
	}
	s.step--
	return Retreated
}

// Submit validates the last step and, if it passes, ends the session and
// hands the values to the OnSubmit function.
func (s *Session) Submit() Outcome {
	if s.submitted || !s.IsLast() {
		return Ignored
	}
	if !s.check() {
		return Stayed
	}
	s.submitted = true
	if s.onSubmit != nil {
		s.onSubmit(s.Values())
	}
	return Submitted
}

// check validates the current step and publishes the result.
func (s *Session) check() bool {
	s.errors = form.ValidateStep(s.config.Steps[s.step], s.values)
	return s.errors.Valid()
}

// enter makes idx the current step and seeds empty values for its fields.
func (s *Session) enter(idx int) {
	s.step = idx
	for _, f := range s.config.Steps[idx].Fields {
		if _, ok := s.values[f.Name]; !ok {
			s.values[f.Name] = ""
		}
	}
}
