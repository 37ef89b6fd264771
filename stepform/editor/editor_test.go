package editor

import (
	"context"
	"fmt"
	"testing"

	"github.com/G-Node/stepform/stepform/form"
	"github.com/G-Node/stepform/stepform/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequentialIDs() Option {
	n := 0
	return WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("id%d", n)
	})
}

func fieldIDs(s form.Step) []string {
	ids := make([]string, len(s.Fields))
	for idx, f := range s.Fields {
		ids[idx] = f.ID
	}
	return ids
}

func newEditor(t *testing.T) *Editor {
	e := New(form.Config{Theme: form.DefaultTheme()}, sequentialIDs())
	require.Len(t, e.Config().Steps, 1)
	return e
}

func TestNewWrapsEmptyConfig(t *testing.T) {
	e := newEditor(t)
	assert.Equal(t, form.LegacyStepID, e.ActiveStep().ID)
	assert.Empty(t, e.ActiveStep().Fields)
}

func TestAddFieldFromPalette(t *testing.T) {
	e := newEditor(t)

	f, ok := e.AddField(form.PasswordField, -1)
	require.True(t, ok)
	assert.Equal(t, "id1", f.ID)
	assert.Equal(t, "password", f.Name)
	assert.Equal(t, 8, *f.MinLength)
	assert.True(t, f.Required)

	sel, ok := e.Selected()
	require.True(t, ok)
	assert.Equal(t, f.ID, sel.ID)

	e.AddField(form.EmailField, 0)
	e.AddField(form.TextField, 1)
	assert.Equal(t, []string{"id2", "id3", "id1"}, fieldIDs(e.ActiveStep()))

	_, ok = e.AddField("signature", 0)
	assert.False(t, ok)
	assert.Len(t, e.ActiveStep().Fields, 3)
}

func TestAddFieldUniqueNames(t *testing.T) {
	e := newEditor(t)
	a, _ := e.AddField(form.TextField, -1)
	b, _ := e.AddField(form.TextField, -1)
	c, _ := e.AddField(form.TextField, -1)
	assert.Equal(t, "text", a.Name)
	assert.Equal(t, "text_2", b.Name)
	assert.Equal(t, "text_3", c.Name)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestMoveField(t *testing.T) {
	e := newEditor(t)
	for _, ft := range []form.FieldType{form.EmailField, form.PasswordField, form.TextField, form.PhoneField} {
		e.AddField(ft, -1)
	}
	sid := e.ActiveStep().ID

	require.True(t, e.MoveField(sid, 0, 2))
	assert.Equal(t, []string{"id2", "id3", "id1", "id4"}, fieldIDs(e.ActiveStep()))

	require.True(t, e.MoveField(sid, 3, 0))
	assert.Equal(t, []string{"id4", "id2", "id3", "id1"}, fieldIDs(e.ActiveStep()))

	assert.True(t, e.MoveField(sid, 1, 1))
	assert.False(t, e.MoveField(sid, 0, 4))
	assert.False(t, e.MoveField(sid, -1, 0))
	assert.False(t, e.MoveField("nostep", 0, 1))
	assert.Equal(t, []string{"id4", "id2", "id3", "id1"}, fieldIDs(e.ActiveStep()))
}

func TestMoveFieldLeavesOtherSteps(t *testing.T) {
	e := newEditor(t)
	e.AddField(form.EmailField, -1)
	e.AddField(form.PasswordField, -1)
	second := e.AddStep()
	e.AddField(form.TextField, -1)
	e.AddField(form.PhoneField, -1)

	require.True(t, e.MoveField(second.ID, 0, 1))
	cfg := e.Config()
	assert.Equal(t, []string{"id1", "id2"}, fieldIDs(cfg.Steps[0]))
	assert.Equal(t, []string{"id5", "id4"}, fieldIDs(cfg.Steps[1]))
}

func TestSetFieldProperties(t *testing.T) {
	e := newEditor(t)
	f, _ := e.AddField(form.TextField, -1)

	ok := e.SetFieldProperties(f.ID, Properties{
		Label:     "Username",
		Name:      "username",
		HelpText:  "Lowercase letters only",
		Required:  true,
		MinLength: form.Length(3),
		MaxLength: form.Length(16),
		Pattern:   "^[a-z]+$",
	})
	require.True(t, ok)
	got, _, _ := e.Config().Field(f.ID)
	assert.Equal(t, f.ID, got.ID)
	assert.Equal(t, form.TextField, got.Type)
	assert.Equal(t, "username", got.Name)
	assert.Equal(t, 16, *got.MaxLength)
	assert.Equal(t, "", got.Placeholder)

	assert.False(t, e.SetFieldProperties("missing", Properties{Name: "x"}))
}

func TestDeleteFieldClearsSelection(t *testing.T) {
	e := newEditor(t)
	a, _ := e.AddField(form.EmailField, -1)
	b, _ := e.AddField(form.PasswordField, -1)

	require.True(t, e.SelectField(a.ID))
	require.True(t, e.DeleteField(b.ID))
	sel, ok := e.Selected()
	require.True(t, ok)
	assert.Equal(t, a.ID, sel.ID)

	require.True(t, e.DeleteField(a.ID))
	_, ok = e.Selected()
	assert.False(t, ok)
	assert.False(t, e.DeleteField(a.ID))
}

func TestStepManagement(t *testing.T) {
	e := newEditor(t)
	first := e.ActiveStep().ID

	s2 := e.AddStep()
	assert.Equal(t, "Step 2", s2.Title)
	assert.Equal(t, s2.ID, e.ActiveStep().ID)
	s3 := e.AddStep()
	assert.Equal(t, "Step 3", s3.Title)

	require.True(t, e.RenameStep(s2.ID, "Profile", "Tell us about you"))
	assert.Equal(t, "Profile", e.Config().Steps[1].Title)

	require.True(t, e.DeleteStep(s3.ID))
	assert.Equal(t, first, e.ActiveStep().ID)

	require.True(t, e.SetActiveStep(s2.ID))
	require.True(t, e.DeleteStep(first))
	assert.Equal(t, s2.ID, e.ActiveStep().ID)

	assert.False(t, e.DeleteStep(s2.ID))
	assert.Len(t, e.Config().Steps, 1)
	assert.False(t, e.SetActiveStep("gone"))
}

func TestThemeEditing(t *testing.T) {
	e := newEditor(t)
	e.UpdateTheme(func(th form.Theme) form.Theme {
		return th.WithPrimaryColor("#000000").WithShowLabels(false)
	})
	assert.Equal(t, "#000000", e.Theme().PrimaryColor)
	assert.False(t, e.Config().Theme.ShowLabels)

	e.SetTheme(form.DefaultTheme())
	assert.Equal(t, form.DefaultTheme(), e.Theme())
}

func TestConfigIsACopy(t *testing.T) {
	e := newEditor(t)
	e.AddField(form.EmailField, -1)
	cfg := e.Config()
	cfg.Steps[0].Fields[0].Label = "changed"
	assert.Equal(t, "Email", e.ActiveStep().Fields[0].Label)
}

type recordingSaver struct {
	tenant, formType string
	cfg              form.Config
}

func (rs *recordingSaver) SaveForm(_ context.Context, tenant, formType string, cfg form.Config) error {
	rs.tenant, rs.formType, rs.cfg = tenant, formType, cfg
	return nil
}

func TestSaveEmitsWholeConfig(t *testing.T) {
	e := newEditor(t)
	e.AddField(form.EmailField, -1)
	e.AddStep()
	e.AddField(form.PasswordField, -1)

	rs := new(recordingSaver)
	require.NoError(t, e.Save(context.Background(), rs, "acme", "register"))
	assert.Equal(t, "acme", rs.tenant)
	assert.Equal(t, "register", rs.formType)
	assert.Equal(t, e.Config(), rs.cfg)
	assert.NoError(t, form.Lint(rs.cfg).Err())
}

func TestPreviewMatchesRuntimeValidation(t *testing.T) {
	e := newEditor(t)
	e.AddField(form.EmailField, -1)
	e.AddField(form.PasswordField, -1)

	data, err := form.Encode(e.Config())
	require.NoError(t, err)
	published, err := form.Decode(data)
	require.NoError(t, err)
	runtime, err := session.New(published)
	require.NoError(t, err)

	preview := e.Preview()
	for _, s := range []*session.Session{preview, runtime} {
		s.Edit("email", "")
		s.Edit("password", "short")
		s.Next()
	}
	assert.Equal(t, runtime.Errors(), preview.Errors())
	assert.Equal(t, form.ErrorMap{"id1": form.MsgRequired, "id2": "Minimum 8 characters required"}, preview.Errors())
}
