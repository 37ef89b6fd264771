// Package widget implements the runtime side of a published form: it fetches
// the config of a tenant form, drives it through its steps and reports the
// submission to the embedding page.
package widget

import (
	"context"
	"fmt"
	"sync"

	"github.com/G-Node/stepform/stepform/backend"
	"github.com/G-Node/stepform/stepform/form"
	"github.com/G-Node/stepform/stepform/session"
)

// DefaultFormType is used when no form type is given.
const DefaultFormType = backend.LoginForm

// Status of a widget.
type Status int

const (
	Loading Status = iota
	Ready
	// Failed is terminal for the mount; a new mount or attribute change is
	// needed to try again.
	Failed
	Submitted
)

func (s Status) String() string {
	switch s {
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	case Submitted:
		return "submitted"
	}
	return "loading"
}

// Submission is the event raised when a form is submitted.
type Submission struct {
	Tenant   string
	FormType string
	Values   map[string]string
}

// Widget is one embedded form.  It is safe for concurrent use.
type Widget struct {
	fetcher  backend.Fetcher
	mux      sync.Mutex
	tenant   string
	formType string
	gen      uint64
	cancel   context.CancelFunc
	status   Status
	err      error
	session  *session.Session
	listener func(Submission)
}

// New returns an unmounted widget for a tenant form.
func New(f backend.Fetcher, tenant, formType string) *Widget {
	if formType == "" {
		formType = DefaultFormType
	}
	return &Widget{fetcher: f, tenant: tenant, formType: formType}
}

// Restore returns a mounted widget continuing a persisted session.
func Restore(tenant, formType string, cfg form.Config, st session.State) (*Widget, error) {
	s, err := session.Restore(cfg, st)
	if err != nil {
		return nil, err
	}
	w := New(nil, tenant, formType)
	w.session = s
	w.status = Ready
	if st.Submitted {
		w.status = Submitted
	}
	return w, nil
}

// OnSubmit registers the function receiving the submission event.
func (w *Widget) OnSubmit(f func(Submission)) {
	w.mux.Lock()
	defer w.mux.Unlock()
	w.listener = f
}

// Mount starts fetching the form config.  The returned channel is closed
// once the fetch has been applied or discarded.
func (w *Widget) Mount(ctx context.Context) <-chan struct{} {
	w.mux.Lock()
	defer w.mux.Unlock()
	return w.load(ctx)
}

// SetAttributes changes the tenant or form type.  Any change supersedes the
// outstanding fetch and loads the form again; the result of the superseded
// fetch is discarded.
func (w *Widget) SetAttributes(ctx context.Context, tenant, formType string) <-chan struct{} {
	if formType == "" {
		formType = DefaultFormType
	}
	w.mux.Lock()
	defer w.mux.Unlock()
	if tenant == w.tenant && formType == w.formType && w.gen > 0 {
		done := make(chan struct{})
		close(done)
		return done
	}
	w.tenant, w.formType = tenant, formType
	return w.load(ctx)
}

// Unmount cancels the outstanding fetch.  Late results are not applied.
func (w *Widget) Unmount() {
	w.mux.Lock()
	defer w.mux.Unlock()
	w.gen++
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
}

// load starts a fetch for the current attributes.  Must be called with the
// lock held.
func (w *Widget) load(parent context.Context) <-chan struct{} {
	w.gen++
	gen := w.gen
	if w.cancel != nil {
		w.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	w.cancel = cancel
	w.status = Loading
	w.err = nil
	w.session = nil

	tenant, formType := w.tenant, w.formType
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer cancel()
		var cfg form.Config
		var err error
		if w.fetcher == nil {
			err = fmt.Errorf("no form source configured")
		} else {
			cfg, err = w.fetcher.FetchForm(ctx, tenant, formType)
		}
		var s *session.Session
		if err == nil {
			s, err = session.New(cfg)
		}

		w.mux.Lock()
		defer w.mux.Unlock()
		if gen != w.gen {
			return
		}
		w.cancel = nil
		if err != nil {
			w.status = Failed
			w.err = err
			return
		}
		w.session = s
		w.status = Ready
	}()
	return done
}

// Status returns the widget status and, if it failed, the error.
func (w *Widget) Status() (Status, error) {
	w.mux.Lock()
	defer w.mux.Unlock()
	return w.status, w.err
}

// Attributes returns the tenant and form type of the widget.
func (w *Widget) Attributes() (string, string) {
	w.mux.Lock()
	defer w.mux.Unlock()
	return w.tenant, w.formType
}

// Edit sets the value of a field of the current step.
func (w *Widget) Edit(name, value string) {
	w.mux.Lock()
	defer w.mux.Unlock()
	if w.status == Ready {
		w.session.Edit(name, value)
	}
}

// Next advances to the next step, or submits on the last step.
func (w *Widget) Next() session.Outcome {
	return w.drive((*session.Session).Next)
}

// Back returns to the previous step.
func (w *Widget) Back() session.Outcome {
	return w.drive((*session.Session).Back)
}

// Submit submits the form from the last step.
func (w *Widget) Submit() session.Outcome {
	return w.drive((*session.Session).Submit)
}

func (w *Widget) drive(op func(*session.Session) session.Outcome) session.Outcome {
	w.mux.Lock()
	if w.status != Ready {
		w.mux.Unlock()
		return session.Ignored
	}
	out := op(w.session)
	var sub *Submission
	if out == session.Submitted {
		w.status = Submitted
		sub = &Submission{Tenant: w.tenant, FormType: w.formType, Values: w.session.Values()}
	}
	listener := w.listener
	w.mux.Unlock()

	if sub != nil && listener != nil {
		listener(*sub)
	}
	return out
}

// Snapshot returns the config and session state of a mounted widget for
// persisting between requests.
func (w *Widget) Snapshot() (form.Config, session.State, bool) {
	w.mux.Lock()
	defer w.mux.Unlock()
	if w.session == nil {
		return form.Config{}, session.State{}, false
	}
	return w.session.Config(), w.session.Snapshot(), true
}

// View returns the render model of the widget.
func (w *Widget) View() View {
	w.mux.Lock()
	defer w.mux.Unlock()
	v := View{Tenant: w.tenant, FormType: w.formType, Status: w.status}
	if w.err != nil {
		v.Error = w.err.Error()
	}
	if w.session != nil {
		v.Step = StepView(w.session)
		v.Theme = v.Step.Theme
	}
	return v
}
