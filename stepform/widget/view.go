package widget

import (
	"github.com/G-Node/stepform/stepform/form"
	"github.com/G-Node/stepform/stepform/session"
)

// View is the render model of a widget.
type View struct {
	Tenant   string
	FormType string
	Status   Status
	Error    string
	Theme    form.Theme
	Step     Step
}

// Ready reports whether the widget has a step to render.
func (v View) Ready() bool {
	return v.Status == Ready
}

// Failed reports whether the config could not be loaded.
func (v View) Failed() bool {
	return v.Status == Failed
}

// Step is the render model of the current step of a session.  The editor
// canvas and the runtime widget render the same model.
type Step struct {
	Theme       form.Theme
	ID          string
	Title       string
	Description string
	Index       int
	Count       int
	Progress    []Progress
	Fields      []Field
	First       bool
	Last        bool
}

// Progress is one entry of the step progress indicator.
type Progress struct {
	Number  int
	Title   string
	Current bool
	Done    bool
}

// Field is the render model of a field with its current value and error.
type Field struct {
	form.Field
	InputType  string
	Value      string
	Error      string
	ShowLabels bool
}

// ShowProgress reports whether the step indicator is shown.
func (s Step) ShowProgress() bool {
	return s.Count > 1
}

// ActionLabel is the label of the forward button.
func (s Step) ActionLabel() string {
	if s.Last {
		return "Submit"
	}
	return "Next"
}

// Action is the form action of the forward button.
func (s Step) Action() string {
	if s.Last {
		return "submit"
	}
	return "next"
}

// StepView builds the render model of the current step of a session.
func StepView(s *session.Session) Step {
	cfg := s.Config()
	cur := s.Step()
	errs := s.Errors()
	v := Step{
		Theme:       cfg.Theme,
		ID:          cur.ID,
		Title:       cur.Title,
		Description: cur.Description,
		Index:       s.StepIndex(),
		Count:       s.StepCount(),
		First:       s.IsFirst(),
		Last:        s.IsLast(),
		Fields:      make([]Field, len(cur.Fields)),
		Progress:    make([]Progress, len(cfg.Steps)),
	}
	for idx, st := range cfg.Steps {
		v.Progress[idx] = Progress{
			Number:  idx + 1,
			Title:   st.Title,
			Current: idx == v.Index,
			Done:    idx < v.Index,
		}
	}
	for idx, f := range cur.Fields {
		v.Fields[idx] = Field{
			Field:      f,
			InputType:  f.Type.InputType(),
			Value:      s.Value(f.Name),
			Error:      errs[f.ID],
			ShowLabels: cfg.Theme.ShowLabels,
		}
	}
	return v
}
