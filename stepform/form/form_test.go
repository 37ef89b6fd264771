package form

import (
	"bytes"
	"encoding/json"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loginConfig() Config {
	return Config{
		Theme: DefaultTheme(),
		Steps: []Step{
			{
				ID:    "s1",
				Title: "Sign in",
				Fields: []Field{
					{ID: "f-email", Type: EmailField, Label: "Email", Name: "email", Required: true},
					{ID: "f-pass", Type: PasswordField, Label: "Password", Name: "password", Required: true, MinLength: Length(8)},
				},
			},
		},
	}
}

func TestValidateFieldRules(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		value string
		msg   string
	}{
		{"required empty", Field{Required: true}, "", MsgRequired},
		{"required whitespace", Field{Required: true}, "   ", MsgRequired},
		{"required filled", Field{Required: true}, "x", ""},
		{"min length", Field{MinLength: Length(8)}, "short", "Minimum 8 characters required"},
		{"min length empty optional", Field{MinLength: Length(2)}, "", "Minimum 2 characters required"},
		{"min length exact", Field{MinLength: Length(5)}, "exact", ""},
		{"max length", Field{MaxLength: Length(3)}, "toolong", "Maximum 3 characters allowed"},
		{"max length counts characters", Field{MaxLength: Length(3)}, "äöü", ""},
		{"pattern mismatch", Field{Pattern: `^[0-9]+$`}, "12a", MsgPattern},
		{"pattern match", Field{Pattern: `^[0-9]+$`}, "123", ""},
		{"pattern unanchored", Field{Pattern: `@`}, "a@b.com", ""},
		{"pattern skipped for empty", Field{Pattern: `^[0-9]+$`}, "", ""},
		{"invalid pattern skipped", Field{Pattern: `(?<=a)b`}, "zzz", ""},
		{"required wins over min", Field{Required: true, MinLength: Length(3)}, "", MsgRequired},
		{"min wins over pattern", Field{MinLength: Length(5), Pattern: `^x+$`}, "ab", "Minimum 5 characters required"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			msg, ok := ValidateField(tc.field, tc.value)
			assert.Equal(t, tc.msg, msg)
			assert.Equal(t, tc.msg == "", ok)
		})
	}
}

func TestInvalidPatternLogsOnce(t *testing.T) {
	buf := new(bytes.Buffer)
	SetLogger(log.New(buf, "", 0))
	defer SetLogger(log.New(new(bytes.Buffer), "", 0))

	f := Field{Pattern: `[unclosed-once`}
	for idx := 0; idx < 3; idx++ {
		_, ok := ValidateField(f, "anything")
		assert.True(t, ok)
	}
	assert.Equal(t, 1, strings.Count(buf.String(), "Ignoring invalid field pattern"))
}

func TestValidateStepCollectsAllFailures(t *testing.T) {
	cfg := loginConfig()
	errs := ValidateStep(cfg.Steps[0], map[string]string{"email": "", "password": "short"})
	assert.Equal(t, ErrorMap{
		"f-email": "This field is required",
		"f-pass":  "Minimum 8 characters required",
	}, errs)
	assert.False(t, errs.Valid())

	errs = ValidateStep(cfg.Steps[0], map[string]string{"email": "a@b.com", "password": "longenough"})
	assert.True(t, errs.Valid())
}

func TestLegacyMigration(t *testing.T) {
	cfg, err := Decode([]byte(`{"fields":[
		{"id":"a","type":"email","label":"Email","name":"email","required":true},
		{"id":"b","type":"text","label":"Name","name":"name","required":false}
	]}`))
	require.NoError(t, err)
	require.Len(t, cfg.Steps, 1)
	assert.Equal(t, LegacyStepID, cfg.Steps[0].ID)
	assert.Equal(t, LegacyStepTitle, cfg.Steps[0].Title)
	require.Len(t, cfg.Steps[0].Fields, 2)
	assert.Equal(t, "a", cfg.Steps[0].Fields[0].ID)
	assert.Equal(t, "b", cfg.Steps[0].Fields[1].ID)
	assert.Equal(t, DefaultTheme(), cfg.Theme)

	again := cfg.Document().Config()
	assert.Equal(t, cfg, again)
}

func TestLegacyMigrationEmptySteps(t *testing.T) {
	cfg, err := Decode([]byte(`{"steps":[],"fields":[{"id":"a","type":"text","label":"A","name":"a","required":false}]}`))
	require.NoError(t, err)
	require.Len(t, cfg.Steps, 1)
	assert.Equal(t, "a", cfg.Steps[0].Fields[0].ID)

	empty, err := Decode([]byte(`{}`))
	require.NoError(t, err)
	require.Len(t, empty.Steps, 1)
	assert.NotNil(t, empty.Steps[0].Fields)
	assert.Empty(t, empty.Steps[0].Fields)
}

func TestDecodeInvalid(t *testing.T) {
	_, err := Decode([]byte(`{"steps":`))
	assert.Error(t, err)
}

func TestWireRoundTrip(t *testing.T) {
	src := `{"theme":{"primaryColor":"#111111","backgroundColor":"#ffffff","textColor":"#000000","borderRadius":"4px","fontFamily":"Inter","showLabels":false,"spacing":"compact","inputStyle":{"variant":"filled"},"buttonStyle":{"variant":"ghost","fullWidth":false}},"steps":[{"id":"s1","title":"One","description":"First","fields":[{"id":"f1","type":"phone","label":"Phone","name":"phone","placeholder":"+49","helpText":"Mobile","required":true,"minLength":3,"maxLength":20,"pattern":"^\\+?[0-9 ]+$"}]},{"id":"s2","title":"Two","fields":[]}]}`
	cfg, err := Decode([]byte(src))
	require.NoError(t, err)

	out, err := Encode(cfg)
	require.NoError(t, err)
	assert.JSONEq(t, src, string(out))

	var generic map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &generic))
	_, hasFields := generic["fields"]
	assert.False(t, hasFields)
}

func TestThemeWithLeavesReceiver(t *testing.T) {
	base := DefaultTheme()
	changed := base.WithPrimaryColor("#ff0000").WithSpacing(Relaxed).WithInputVariant(Underlined).WithFullWidthButton(false)
	assert.Equal(t, DefaultTheme(), base)
	assert.Equal(t, "#ff0000", changed.PrimaryColor)
	assert.Equal(t, Relaxed, changed.Spacing)
	assert.Equal(t, Underlined, changed.InputStyle.Variant)
	assert.False(t, changed.ButtonStyle.FullWidth)
	assert.Equal(t, "24px", changed.Gap())
}

func TestCloneIsDeep(t *testing.T) {
	cfg := loginConfig()
	cp := cfg.Clone()
	*cp.Steps[0].Fields[1].MinLength = 1
	cp.Steps[0].Fields[0].Label = "changed"
	assert.Equal(t, 8, *cfg.Steps[0].Fields[1].MinLength)
	assert.Equal(t, "Email", cfg.Steps[0].Fields[0].Label)
}

func TestLookups(t *testing.T) {
	cfg := loginConfig()
	f, sidx, ok := cfg.Field("f-pass")
	assert.True(t, ok)
	assert.Equal(t, 0, sidx)
	assert.Equal(t, "password", f.Name)
	_, _, ok = cfg.Field("nope")
	assert.False(t, ok)

	st, idx, ok := cfg.StepByID("s1")
	assert.True(t, ok)
	assert.Equal(t, 0, idx)
	assert.Equal(t, "Sign in", st.Title)
	_, idx, ok = cfg.StepByID("s2")
	assert.False(t, ok)
	assert.Equal(t, -1, idx)
}

func TestLint(t *testing.T) {
	assert.NoError(t, Lint(loginConfig()).Err())

	cfg := loginConfig()
	cfg.Steps[0].Fields[0].Name = ""
	cfg.Steps[0].Fields[1].ID = "f-email"
	cfg.Steps[0].Fields[1].MaxLength = Length(4)
	cfg.Steps[0].Fields[1].Pattern = "(?!x)"
	cfg.Theme.Spacing = "huge"
	issues := Lint(cfg)
	require.Error(t, issues.Err())

	paths := make(map[string]Severity)
	for _, i := range issues {
		paths[i.Path] = i.Severity
	}
	assert.Equal(t, SeverityError, paths["steps[0].fields[0].name"])
	assert.Equal(t, SeverityError, paths["steps[0].fields[1].id"])
	assert.Equal(t, SeverityError, paths["steps[0].fields[1]"])
	assert.Equal(t, SeverityWarning, paths["steps[0].fields[1].pattern"])
	assert.Equal(t, SeverityError, paths["theme.spacing"])

	noSteps := Lint(Config{Theme: DefaultTheme()})
	require.Error(t, noSteps.Err())
	assert.Equal(t, "steps", noSteps[0].Path)
}
