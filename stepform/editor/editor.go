// Package editor implements the authoring model of a multi-step form.  All
// operations act on an in-memory Config owned by the Editor; nothing is
// persisted until Save.  Operations on targets that do not exist leave the
// config untouched and report false.
package editor

import (
	"context"
	"fmt"

	"github.com/G-Node/stepform/stepform/form"
	"github.com/G-Node/stepform/stepform/session"
	"github.com/google/uuid"
)

// Saver persists a complete form config.
type Saver interface {
	SaveForm(ctx context.Context, tenant, formType string, cfg form.Config) error
}

// Properties are the editable properties of a field.
type Properties struct {
	Label       string
	Name        string
	Placeholder string
	HelpText    string
	Required    bool
	MinLength   *int
	MaxLength   *int
	Pattern     string
}

// Option configures an Editor.
type Option func(*Editor)

// WithIDGenerator sets the function producing new step and field IDs.
func WithIDGenerator(f func() string) Option {
	return func(e *Editor) {
		e.newID = f
	}
}

// Editor holds a form config under construction.  It is not safe for
// concurrent use.
type Editor struct {
	config   form.Config
	active   string
	selected string
	newID    func() string
}

// New returns an Editor for a copy of cfg with the first step active.  A
// config without steps gets the implicit first step.
func New(cfg form.Config, opts ...Option) *Editor {
	if len(cfg.Steps) == 0 {
		cfg = form.Document{Theme: &cfg.Theme}.Config()
	}
	e := &Editor{config: cfg.Clone(), newID: uuid.NewString}
	for _, opt := range opts {
		opt(e)
	}
	e.active = e.config.Steps[0].ID
	return e
}

// Config returns a copy of the config being edited.
func (e *Editor) Config() form.Config {
	return e.config.Clone()
}

// ActiveStep returns the step new fields are dropped onto.
func (e *Editor) ActiveStep() form.Step {
	return e.config.Steps[e.activeIndex()].Clone()
}

func (e *Editor) activeIndex() int {
	if _, idx, ok := e.config.StepByID(e.active); ok {
		return idx
	}
	return 0
}

// SetActiveStep makes the step with the given ID active.
func (e *Editor) SetActiveStep(id string) bool {
	if _, _, ok := e.config.StepByID(id); !ok {
		return false
	}
	e.active = id
	return true
}

// AddField drops a new field of the given type onto the active step at
// position at.  A position outside the field list appends.  The new field
// is selected.
func (e *Editor) AddField(t form.FieldType, at int) (form.Field, bool) {
	a, ok := archetype(t)
	if !ok {
		return form.Field{}, false
	}
	f := a.field(e.newID())
	f.Name = e.uniqueName(f.Name)

	step := &e.config.Steps[e.activeIndex()]
	if at < 0 || at >= len(step.Fields) {
		step.Fields = append(step.Fields, f)
	} else {
		step.Fields = append(step.Fields, form.Field{})
		copy(step.Fields[at+1:], step.Fields[at:])
		step.Fields[at] = f
	}
	e.selected = f.ID
	return f.Clone(), true
}

// uniqueName returns name, suffixed with a number if another field already
// uses it.
func (e *Editor) uniqueName(name string) string {
	taken := make(map[string]bool)
	for _, f := range e.config.Fields() {
		taken[f.Name] = true
	}
	if !taken[name] {
		return name
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s_%d", name, n)
		if !taken[candidate] {
			return candidate
		}
	}
}

// MoveField moves the field at position from to position to within one
// step.  Other steps are not affected.
func (e *Editor) MoveField(stepID string, from, to int) bool {
	_, sidx, ok := e.config.StepByID(stepID)
	if !ok {
		return false
	}
	fields := e.config.Steps[sidx].Fields
	if from < 0 || from >= len(fields) || to < 0 || to >= len(fields) {
		return false
	}
	if from == to {
		return true
	}
	f := fields[from]
	if from < to {
		copy(fields[from:to], fields[from+1:to+1])
	} else {
		copy(fields[to+1:from+1], fields[to:from])
	}
	fields[to] = f
	return true
}

// SelectField selects the field with the given ID for property editing.
func (e *Editor) SelectField(id string) bool {
	if _, _, ok := e.config.Field(id); !ok {
		return false
	}
	e.selected = id
	return true
}

// ClearSelection deselects the selected field.
func (e *Editor) ClearSelection() {
	e.selected = ""
}

// Selected returns the selected field.
func (e *Editor) Selected() (form.Field, bool) {
	if e.selected == "" {
		return form.Field{}, false
	}
	f, _, ok := e.config.Field(e.selected)
	return f.Clone(), ok
}

// SetFieldProperties replaces the editable properties of a field.  The
// field keeps its ID and type.
func (e *Editor) SetFieldProperties(id string, p Properties) bool {
	f := e.field(id)
	if f == nil {
		return false
	}
	f.Label = p.Label
	f.Name = p.Name
	f.Placeholder = p.Placeholder
	f.HelpText = p.HelpText
	f.Required = p.Required
	f.MinLength = nil
	if p.MinLength != nil {
		f.MinLength = form.Length(*p.MinLength)
	}
	f.MaxLength = nil
	if p.MaxLength != nil {
		f.MaxLength = form.Length(*p.MaxLength)
	}
	f.Pattern = p.Pattern
	return true
}

func (e *Editor) field(id string) *form.Field {
	for sidx := range e.config.Steps {
		fields := e.config.Steps[sidx].Fields
		for fidx := range fields {
			if fields[fidx].ID == id {
				return &fields[fidx]
			}
		}
	}
	return nil
}

// DeleteField removes a field from its step.
func (e *Editor) DeleteField(id string) bool {
	_, sidx, ok := e.config.Field(id)
	if !ok {
		return false
	}
	step := &e.config.Steps[sidx]
	kept := make([]form.Field, 0, len(step.Fields))
	for _, f := range step.Fields {
		if f.ID != id {
			kept = append(kept, f)
		}
	}
	step.Fields = kept
	if e.selected == id {
		e.selected = ""
	}
	return true
}

// AddStep appends an empty step titled after its position and makes it
// active.
func (e *Editor) AddStep() form.Step {
	s := form.Step{
		ID:     e.newID(),
		Title:  fmt.Sprintf("Step %d", len(e.config.Steps)+1),
		Fields: make([]form.Field, 0),
	}
	e.config.Steps = append(e.config.Steps, s)
	e.active = s.ID
	return s.Clone()
}

// DeleteStep removes a step unless it is the last one remaining.  If the
// active step is deleted, the first remaining step becomes active.
func (e *Editor) DeleteStep(id string) bool {
	_, sidx, ok := e.config.StepByID(id)
	if !ok || len(e.config.Steps) <= 1 {
		return false
	}
	for _, f := range e.config.Steps[sidx].Fields {
		if f.ID == e.selected {
			e.selected = ""
		}
	}
	e.config.Steps = append(e.config.Steps[:sidx], e.config.Steps[sidx+1:]...)
	if e.active == id {
		e.active = e.config.Steps[0].ID
	}
	return true
}

// RenameStep sets the title and description of a step.
func (e *Editor) RenameStep(id, title, description string) bool {
	_, sidx, ok := e.config.StepByID(id)
	if !ok {
		return false
	}
	e.config.Steps[sidx].Title = title
	e.config.Steps[sidx].Description = description
	return true
}

// Theme returns the theme of the form.
func (e *Editor) Theme() form.Theme {
	return e.config.Theme
}

// SetTheme replaces the theme of the form.
func (e *Editor) SetTheme(t form.Theme) {
	e.config.Theme = t
}

// UpdateTheme replaces the theme with the result of f applied to it.
func (e *Editor) UpdateTheme(f func(form.Theme) form.Theme) {
	e.config.Theme = f(e.config.Theme)
}

// Preview returns a fresh session over the current config, positioned on
// the active step, for rendering the canvas with the same validation the
// runtime widget applies.
func (e *Editor) Preview() *session.Session {
	s, err := session.Restore(e.config, session.State{Step: e.activeIndex()})
	if err != nil {
		// unreachable: the editor always holds at least one step
		panic(err)
	}
	return s
}

// Save hands the complete config to the saver.
func (e *Editor) Save(ctx context.Context, dst Saver, tenant, formType string) error {
	return dst.SaveForm(ctx, tenant, formType, e.Config())
}
