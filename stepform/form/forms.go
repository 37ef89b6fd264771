// Package form defines the multi-step form document shared by the editor and
// the runtime widget, together with the validation rules both of them apply.
package form

const (
	EmailField    FieldType = "email"
	PasswordField FieldType = "password"
	TextField     FieldType = "text"
	NumberField   FieldType = "number"
	PhoneField    FieldType = "phone"
)

// FieldType defines the semantic type of a form field.  It selects the input
// element used when rendering and the archetype defaults in the editor
// palette.
type FieldType string

// FieldTypes lists every supported field type in palette order.
var FieldTypes = []FieldType{EmailField, PasswordField, TextField, NumberField, PhoneField}

// Known reports whether the field type is one of the supported types.
func (ft FieldType) Known() bool {
	for _, t := range FieldTypes {
		if t == ft {
			return true
		}
	}
	return false
}

// InputType returns the HTML input type attribute for the field type.
func (ft FieldType) InputType() string {
	switch ft {
	case EmailField, PasswordField, NumberField:
		return string(ft)
	case PhoneField:
		return "tel"
	}
	return "text"
}

// Config is the top level document describing one multi-step form.  It is
// stored wholesale as part of the tenant settings, keyed by form type.
type Config struct {
	// Theme controls the presentation of every step.
	Theme Theme `json:"theme"`
	// Each Step creates a page of the form.  The last step contains the
	// submit button.
	Steps []Step `json:"steps" validate:"min=1,dive"`
}

// Step represents a single page of a multi-step form.
type Step struct {
	// ID of the step.  Must be unique within the Config.
	ID string `json:"id" validate:"required"`
	// The Title appears at the top of the step.
	Title string `json:"title"`
	// An optional Description shown under the title.
	Description string `json:"description,omitempty"`
	// Fields in render and tab order.
	Fields []Field `json:"fields" validate:"dive"`
}

// Field represents a single input of a form step.
type Field struct {
	// ID of the field.  Unique within the whole Config and never reused.
	ID string `json:"id" validate:"required"`
	// Type is the semantic type of the input.
	Type FieldType `json:"type" validate:"oneof=email password text number phone"`
	// The Label of the field as it appears on the rendered form.
	Label string `json:"label"`
	// Name of the field.  Used as the key of the value on submission.
	Name string `json:"name" validate:"required"`
	// Placeholder text shown in the empty input.
	Placeholder string `json:"placeholder,omitempty"`
	// HelpText, if set, is displayed under the input field.
	HelpText string `json:"helpText,omitempty"`
	// Whether the field must be filled in.
	Required bool `json:"required"`
	// Minimum and maximum value length in characters.  Nil means unset.
	MinLength *int `json:"minLength,omitempty" validate:"omitempty,min=0"`
	MaxLength *int `json:"maxLength,omitempty" validate:"omitempty,min=0"`
	// Pattern is a regular expression the value must match.
	Pattern string `json:"pattern,omitempty"`
}

// Length returns a pointer to n, for setting MinLength and MaxLength.
func Length(n int) *int {
	return &n
}

// Clone returns a deep copy of the field.
func (f Field) Clone() Field {
	if f.MinLength != nil {
		f.MinLength = Length(*f.MinLength)
	}
	if f.MaxLength != nil {
		f.MaxLength = Length(*f.MaxLength)
	}
	return f
}

// Clone returns a deep copy of the step.  The copy always has a non-nil
// field list.
func (s Step) Clone() Step {
	fields := make([]Field, len(s.Fields))
	for idx := range s.Fields {
		fields[idx] = s.Fields[idx].Clone()
	}
	s.Fields = fields
	return s
}

// Clone returns a deep copy of the config.
func (c Config) Clone() Config {
	steps := make([]Step, len(c.Steps))
	for idx := range c.Steps {
		steps[idx] = c.Steps[idx].Clone()
	}
	c.Steps = steps
	return c
}

// StepByID returns the step with the given ID and its position.
func (c Config) StepByID(id string) (Step, int, bool) {
	for idx := range c.Steps {
		if c.Steps[idx].ID == id {
			return c.Steps[idx], idx, true
		}
	}
	return Step{}, -1, false
}

// Field returns the field with the given ID and the index of the step
// containing it.
func (c Config) Field(id string) (Field, int, bool) {
	for sidx := range c.Steps {
		for _, f := range c.Steps[sidx].Fields {
			if f.ID == id {
				return f, sidx, true
			}
		}
	}
	return Field{}, -1, false
}

// Fields returns all fields of the config in step order.
func (c Config) Fields() []Field {
	all := make([]Field, 0)
	for _, s := range c.Steps {
		all = append(all, s.Fields...)
	}
	return all
}
