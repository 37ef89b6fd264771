package form

import (
	"encoding/json"
	"fmt"
)

const (
	// LegacyStepID and LegacyStepTitle name the implicit step that wraps the
	// top-level fields of a document stored before steps existed.
	LegacyStepID    = "step-1"
	LegacyStepTitle = "Step 1"
)

// Document is the stored shape of a form.  Older documents carry a flat
// Fields list instead of Steps.
type Document struct {
	Theme  *Theme  `json:"theme,omitempty"`
	Steps  []Step  `json:"steps,omitempty"`
	Fields []Field `json:"fields,omitempty"`
}

// Config migrates the document into a Config.  A document without steps is
// read as a single implicit step wrapping its top-level fields in their
// original order, so the result always has at least one step.  Applying the
// migration to its own output returns an equal Config.
func (d Document) Config() Config {
	cfg := Config{Theme: DefaultTheme()}
	if d.Theme != nil {
		cfg.Theme = *d.Theme
	}
	if len(d.Steps) > 0 {
		cfg.Steps = Config{Steps: d.Steps}.Clone().Steps
		return cfg
	}
	cfg.Steps = []Step{
		Step{
			ID:    LegacyStepID,
			Title: LegacyStepTitle,
		}.Clone(),
	}
	for _, f := range d.Fields {
		cfg.Steps[0].Fields = append(cfg.Steps[0].Fields, f.Clone())
	}
	return cfg
}

// Document returns the stored shape of the config.
func (c Config) Document() Document {
	theme := c.Theme
	return Document{Theme: &theme, Steps: c.Clone().Steps}
}

// Decode parses a stored form document, migrating legacy documents.
func Decode(data []byte) (Config, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Config{}, fmt.Errorf("invalid form document: %w", err)
	}
	return doc.Config(), nil
}

// Encode returns the JSON wire form of the config.
func Encode(c Config) ([]byte, error) {
	c = c.Clone()
	return json.Marshal(c)
}
