package stepform

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/G-Node/stepform/stepform/backend"
	"github.com/G-Node/stepform/stepform/editor"
	"github.com/G-Node/stepform/stepform/form"
	"github.com/G-Node/stepform/stepform/widget"
	"github.com/G-Node/stepform/templates"
	"github.com/gorilla/mux"
)

// editorEntry is the editor of one operator for one tenant form.
type editorEntry struct {
	mux    sync.Mutex
	editor *editor.Editor
	notice string
	// guarded by the registry lock
	used time.Time
}

// editorRegistry keeps the open editors between requests.  Changes live
// here until they are saved or discarded.
type editorRegistry struct {
	mux     sync.Mutex
	entries map[string]*editorEntry
}

func newEditorRegistry() *editorRegistry {
	return &editorRegistry{entries: make(map[string]*editorEntry)}
}

func editorKey(user, tenant, formType string) string {
	return user + "\x00" + tenant + "\x00" + formType
}

// get returns the entry for key, creating it with load if there is none.
func (reg *editorRegistry) get(key string, load func() (*editor.Editor, error)) (*editorEntry, error) {
	reg.mux.Lock()
	entry, ok := reg.entries[key]
	if ok {
		entry.used = time.Now()
	}
	reg.mux.Unlock()
	if ok {
		return entry, nil
	}

	ed, err := load()
	if err != nil {
		return nil, err
	}
	reg.mux.Lock()
	defer reg.mux.Unlock()
	if entry, ok := reg.entries[key]; ok {
		entry.used = time.Now()
		return entry, nil
	}
	entry = &editorEntry{editor: ed, used: time.Now()}
	reg.entries[key] = entry
	return entry, nil
}

func (reg *editorRegistry) drop(key string) {
	reg.mux.Lock()
	defer reg.mux.Unlock()
	delete(reg.entries, key)
}

// purge drops the editors that were last used before the given time.  Their
// unsaved changes are lost.
func (reg *editorRegistry) purge(before time.Time) int {
	reg.mux.Lock()
	defer reg.mux.Unlock()
	n := 0
	for key, entry := range reg.entries {
		if entry.used.Before(before) {
			delete(reg.entries, key)
			n++
		}
	}
	return n
}

func (reg *editorRegistry) len() int {
	reg.mux.Lock()
	defer reg.mux.Unlock()
	return len(reg.entries)
}

func (srv *Service) setupEditorRoutes() {
	router := srv.web.Router
	router.HandleFunc("/editor/{tenant}/{type}", srv.reqLoginHandler(srv.renderEditor)).Methods("GET")
	router.HandleFunc("/editor/{tenant}/{type}", srv.reqLoginHandler(srv.editorOp)).Methods("POST")
	router.HandleFunc("/editor/{tenant}/{type}/save", srv.reqLoginHandler(srv.saveEditor)).Methods("POST")
}

// openEditor returns the editor entry of the request, loading the published
// form on first use.  A tenant without the form starts from an empty one.
func (srv *Service) openEditor(w http.ResponseWriter, r *http.Request, user string) (*editorEntry, string, string, bool) {
	vars := mux.Vars(r)
	tenant, formType := vars["tenant"], vars["type"]
	if !backend.ValidFormType(formType) {
		srv.web.ErrorResponse(w, http.StatusNotFound, fmt.Sprintf("Unknown form type %q", formType))
		return nil, "", "", false
	}
	entry, err := srv.editors.get(editorKey(user, tenant, formType), func() (*editor.Editor, error) {
		cfg, err := srv.store.FetchForm(r.Context(), tenant, formType)
		if errors.Is(err, backend.ErrNotFound) {
			srv.log.Printf("No %s form for tenant %q, starting empty", formType, tenant)
			return editor.New(form.Config{Theme: form.DefaultTheme()}), nil
		} else if err != nil {
			return nil, err
		}
		return editor.New(cfg), nil
	})
	if err != nil {
		srv.log.Printf("Error loading %s form of tenant %q: %v", formType, tenant, err)
		srv.web.ErrorResponse(w, http.StatusBadGateway, "Error loading form")
		return nil, "", "", false
	}
	return entry, tenant, formType, true
}

type stepEntry struct {
	ID         string
	Title      string
	Number     int
	FieldCount int
	Active     bool
}

type canvasItem struct {
	Field    widget.Field
	Index    int
	Up       int
	Down     int
	CanUp    bool
	CanDown  bool
	Selected bool
}

// editorPage is the data of the editor page.
type editorPage struct {
	Tenant         string
	FormType       string
	Action         string
	SaveAction     string
	Palette        []editor.Archetype
	Steps          []stepEntry
	SingleStep     bool
	Canvas         widget.Step
	Items          []canvasItem
	HasSelection   bool
	Field          form.Field
	MinLength      string
	MaxLength      string
	Theme          form.Theme
	Style          themeStyle
	Classes        string
	Spacings       []form.Spacing
	InputVariants  []form.InputVariant
	ButtonVariants []form.ButtonVariant
	Issues         form.Issues
	Message        string
	Error          string
}

func lengthString(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

func newEditorPage(tenant, formType string, ed *editor.Editor) editorPage {
	cfg := ed.Config()
	active := ed.ActiveStep()
	action := "/editor/" + url.PathEscape(tenant) + "/" + url.PathEscape(formType)
	page := editorPage{
		Tenant:         tenant,
		FormType:       formType,
		Action:         action,
		SaveAction:     action + "/save",
		Palette:        editor.Palette(),
		SingleStep:     len(cfg.Steps) == 1,
		Canvas:         widget.StepView(ed.Preview()),
		Theme:          cfg.Theme,
		Style:          newThemeStyle(cfg.Theme),
		Classes:        themeClasses(cfg.Theme),
		Spacings:       []form.Spacing{form.Compact, form.Normal, form.Relaxed},
		InputVariants:  []form.InputVariant{form.Outlined, form.Filled, form.Underlined},
		ButtonVariants: []form.ButtonVariant{form.Solid, form.Outline, form.Ghost},
		Issues:         form.Lint(cfg),
	}
	for idx, s := range cfg.Steps {
		page.Steps = append(page.Steps, stepEntry{
			ID:         s.ID,
			Title:      s.Title,
			Number:     idx + 1,
			FieldCount: len(s.Fields),
			Active:     s.ID == active.ID,
		})
	}
	selected, hasSelection := ed.Selected()
	last := len(page.Canvas.Fields) - 1
	for idx, f := range page.Canvas.Fields {
		page.Items = append(page.Items, canvasItem{
			Field:    f,
			Index:    idx,
			Up:       idx - 1,
			Down:     idx + 1,
			CanUp:    idx > 0,
			CanDown:  idx < last,
			Selected: hasSelection && f.ID == selected.ID,
		})
	}
	if hasSelection {
		page.HasSelection = true
		page.Field = selected
		page.MinLength = lengthString(selected.MinLength)
		page.MaxLength = lengthString(selected.MaxLength)
	}
	return page
}

func (srv *Service) renderEditorPage(w http.ResponseWriter, status int, page editorPage) {
	srv.render(w, status, page, templates.Layout, templates.ThemeCSS, templates.Field, templates.Step, templates.Editor)
}

func (srv *Service) renderEditor(w http.ResponseWriter, r *http.Request, user string) {
	entry, tenant, formType, ok := srv.openEditor(w, r, user)
	if !ok {
		return
	}
	entry.mux.Lock()
	page := newEditorPage(tenant, formType, entry.editor)
	page.Message, entry.notice = entry.notice, ""
	entry.mux.Unlock()
	srv.renderEditorPage(w, http.StatusOK, page)
}

func (srv *Service) editorOp(w http.ResponseWriter, r *http.Request, user string) {
	entry, tenant, formType, ok := srv.openEditor(w, r, user)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		srv.web.ErrorResponse(w, http.StatusBadRequest, "Invalid form data")
		return
	}
	if r.PostForm.Get("op") == "reload" {
		srv.editors.drop(editorKey(user, tenant, formType))
		http.Redirect(w, r, r.URL.Path, http.StatusSeeOther)
		return
	}

	entry.mux.Lock()
	notice, err := applyEditorOp(entry.editor, r.PostForm)
	if err != nil {
		page := newEditorPage(tenant, formType, entry.editor)
		entry.mux.Unlock()
		page.Error = err.Error()
		srv.renderEditorPage(w, http.StatusBadRequest, page)
		return
	}
	entry.notice = notice
	entry.mux.Unlock()
	http.Redirect(w, r, r.URL.Path, http.StatusSeeOther)
}

func (srv *Service) saveEditor(w http.ResponseWriter, r *http.Request, user string) {
	entry, tenant, formType, ok := srv.openEditor(w, r, user)
	if !ok {
		return
	}
	entry.mux.Lock()
	defer entry.mux.Unlock()
	page := newEditorPage(tenant, formType, entry.editor)
	if err := page.Issues.Err(); err != nil {
		page.Error = "The form has errors and was not saved."
		srv.renderEditorPage(w, http.StatusUnprocessableEntity, page)
		return
	}

	err := entry.editor.Save(r.Context(), srv.store, tenant, formType)
	switch {
	case errors.Is(err, backend.ErrConflict):
		page.Error = "The tenant settings were changed elsewhere. Discard your changes to load the current version."
		srv.renderEditorPage(w, http.StatusConflict, page)
		return
	case errors.Is(err, backend.ErrNotFound):
		page.Error = fmt.Sprintf("Tenant %q does not exist.", tenant)
		srv.renderEditorPage(w, http.StatusNotFound, page)
		return
	case err != nil:
		srv.log.Printf("Error saving %s form of tenant %q: %v", formType, tenant, err)
		page.Error = "Error saving form."
		srv.renderEditorPage(w, http.StatusBadGateway, page)
		return
	}
	srv.log.Printf("Saved %s form of tenant %q [%s]", formType, tenant, user)
	entry.notice = "Saved"
	http.Redirect(w, r, strings.TrimSuffix(r.URL.Path, "/save"), http.StatusSeeOther)
}

func optionalLength(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return nil, fmt.Errorf("invalid length %q", s)
	}
	return form.Length(n), nil
}

func fieldProperties(values url.Values) (editor.Properties, error) {
	minLength, err := optionalLength(values.Get("minLength"))
	if err != nil {
		return editor.Properties{}, err
	}
	maxLength, err := optionalLength(values.Get("maxLength"))
	if err != nil {
		return editor.Properties{}, err
	}
	return editor.Properties{
		Label:       values.Get("label"),
		Name:        strings.TrimSpace(values.Get("name")),
		Placeholder: values.Get("placeholder"),
		HelpText:    values.Get("helpText"),
		Required:    values.Get("required") == "true",
		MinLength:   minLength,
		MaxLength:   maxLength,
		Pattern:     values.Get("pattern"),
	}, nil
}

func themeFromValues(t form.Theme, values url.Values) form.Theme {
	return t.WithPrimaryColor(strings.TrimSpace(values.Get("primaryColor"))).
		WithBackgroundColor(strings.TrimSpace(values.Get("backgroundColor"))).
		WithTextColor(strings.TrimSpace(values.Get("textColor"))).
		WithHeadingColor(strings.TrimSpace(values.Get("headingColor"))).
		WithFontFamily(strings.TrimSpace(values.Get("fontFamily"))).
		WithBorderRadius(strings.TrimSpace(values.Get("borderRadius"))).
		WithLogoURL(strings.TrimSpace(values.Get("logoUrl"))).
		WithShowLabels(values.Get("showLabels") == "true").
		WithSpacing(form.Spacing(values.Get("spacing"))).
		WithInputVariant(form.InputVariant(values.Get("inputVariant"))).
		WithButtonVariant(form.ButtonVariant(values.Get("buttonVariant"))).
		WithFullWidthButton(values.Get("fullWidth") == "true")
}

func position(values url.Values, key string) (int, error) {
	n, err := strconv.Atoi(values.Get(key))
	if err != nil {
		return 0, fmt.Errorf("invalid position %q", values.Get(key))
	}
	return n, nil
}

// applyEditorOp runs the editor operation named by the op value and
// returns a notice for the operator.
func applyEditorOp(ed *editor.Editor, values url.Values) (string, error) {
	switch op := values.Get("op"); op {
	case "add-field":
		at := -1
		if values.Get("at") != "" {
			var err error
			if at, err = position(values, "at"); err != nil {
				return "", err
			}
		}
		f, ok := ed.AddField(form.FieldType(values.Get("type")), at)
		if !ok {
			return "", fmt.Errorf("unknown field type %q", values.Get("type"))
		}
		return fmt.Sprintf("Added %s field %q", f.Type, f.Name), nil
	case "move-field":
		from, err := position(values, "from")
		if err != nil {
			return "", err
		}
		to, err := position(values, "at")
		if err != nil {
			return "", err
		}
		if !ed.MoveField(values.Get("step"), from, to) {
			return "", errors.New("cannot move field there")
		}
		return "", nil
	case "select-field":
		if !ed.SelectField(values.Get("field")) {
			return "", errors.New("no such field")
		}
		return "", nil
	case "clear-selection":
		ed.ClearSelection()
		return "", nil
	case "set-field":
		props, err := fieldProperties(values)
		if err != nil {
			return "", err
		}
		if !ed.SetFieldProperties(values.Get("field"), props) {
			return "", errors.New("no such field")
		}
		return "Field updated", nil
	case "delete-field":
		if !ed.DeleteField(values.Get("field")) {
			return "", errors.New("no such field")
		}
		return "Field deleted", nil
	case "add-step":
		s := ed.AddStep()
		return fmt.Sprintf("Added %s", s.Title), nil
	case "delete-step":
		if len(ed.Config().Steps) <= 1 {
			return "", errors.New("a form needs at least one step")
		}
		if !ed.DeleteStep(values.Get("step")) {
			return "", errors.New("no such step")
		}
		return "Step deleted", nil
	case "activate-step":
		if !ed.SetActiveStep(values.Get("step")) {
			return "", errors.New("no such step")
		}
		return "", nil
	case "rename-step":
		if !ed.RenameStep(values.Get("step"), strings.TrimSpace(values.Get("title")), strings.TrimSpace(values.Get("description"))) {
			return "", errors.New("no such step")
		}
		return "Step renamed", nil
	case "set-theme":
		ed.SetTheme(themeFromValues(ed.Theme(), values))
		return "Theme updated", nil
	default:
		return "", fmt.Errorf("unknown operation %q", op)
	}
}
