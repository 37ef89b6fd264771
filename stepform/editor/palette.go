package editor

import "github.com/G-Node/stepform/stepform/form"

// Archetype is a palette entry: the defaults of a newly dropped field.
type Archetype struct {
	Type        form.FieldType
	Label       string
	Name        string
	Placeholder string
	Required    bool
	MinLength   *int
}

var palette = []Archetype{
	{Type: form.EmailField, Label: "Email", Name: "email", Placeholder: "you@example.com", Required: true},
	{Type: form.PasswordField, Label: "Password", Name: "password", Placeholder: "••••••••", Required: true, MinLength: form.Length(8)},
	{Type: form.TextField, Label: "Text", Name: "text", Placeholder: "Enter text"},
	{Type: form.NumberField, Label: "Number", Name: "number", Placeholder: "0"},
	{Type: form.PhoneField, Label: "Phone", Name: "phone", Placeholder: "+1 555 000 0000"},
}

// Palette returns the field archetypes available for dropping onto a step.
func Palette() []Archetype {
	p := make([]Archetype, len(palette))
	copy(p, palette)
	return p
}

func archetype(t form.FieldType) (Archetype, bool) {
	for _, a := range palette {
		if a.Type == t {
			return a, true
		}
	}
	return Archetype{}, false
}

func (a Archetype) field(id string) form.Field {
	f := form.Field{
		ID:          id,
		Type:        a.Type,
		Label:       a.Label,
		Name:        a.Name,
		Placeholder: a.Placeholder,
		Required:    a.Required,
	}
	if a.MinLength != nil {
		f.MinLength = form.Length(*a.MinLength)
	}
	return f
}
