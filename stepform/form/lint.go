package form

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Severity of a lint Issue.  Errors make a config unfit for saving; warnings
// are shown to the operator but do not block.
type Severity string

// Issue is an authoring defect found in a Config.
type Issue struct {
	Path     string
	Message  string
	Severity Severity
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s: %s", i.Severity, i.Path, i.Message)
}

// Issues is the result of Lint.
type Issues []Issue

// Err returns an error listing the error-severity issues, or nil if there
// are none.
func (is Issues) Err() error {
	msgs := make([]string, 0)
	for _, i := range is {
		if i.Severity == SeverityError {
			msgs = append(msgs, fmt.Sprintf("%s: %s", i.Path, i.Message))
		}
	}
	if len(msgs) == 0 {
		return nil
	}
	return fmt.Errorf("invalid form config: %s", strings.Join(msgs, "; "))
}

var validate = validator.New()

// Lint checks a Config for authoring defects.
func Lint(c Config) Issues {
	issues := make(Issues, 0)
	issues = append(issues, structIssues(c)...)

	stepIDs := make(map[string]bool)
	fieldIDs := make(map[string]string)
	names := make(map[string]string)
	for sidx, s := range c.Steps {
		spath := fmt.Sprintf("steps[%d]", sidx)
		if s.ID != "" && stepIDs[s.ID] {
			issues = append(issues, Issue{spath + ".id", fmt.Sprintf("duplicate step id %q", s.ID), SeverityError})
		}
		stepIDs[s.ID] = true
		if len(s.Fields) == 0 {
			issues = append(issues, Issue{spath, "step has no fields", SeverityWarning})
		}
		for fidx, f := range s.Fields {
			fpath := fmt.Sprintf("%s.fields[%d]", spath, fidx)
			if prev, ok := fieldIDs[f.ID]; ok && f.ID != "" {
				issues = append(issues, Issue{fpath + ".id", fmt.Sprintf("duplicate field id %q (also %s)", f.ID, prev), SeverityError})
			} else {
				fieldIDs[f.ID] = fpath
			}
			if prev, ok := names[f.Name]; ok && f.Name != "" {
				issues = append(issues, Issue{fpath + ".name", fmt.Sprintf("duplicate field name %q (also %s)", f.Name, prev), SeverityWarning})
			} else {
				names[f.Name] = fpath
			}
			if f.MinLength != nil && f.MaxLength != nil && *f.MinLength > *f.MaxLength {
				issues = append(issues, Issue{fpath, fmt.Sprintf("minLength %d exceeds maxLength %d", *f.MinLength, *f.MaxLength), SeverityError})
			}
			if f.Pattern != "" {
				if _, err := regexp.Compile(f.Pattern); err != nil {
					issues = append(issues, Issue{fpath + ".pattern", fmt.Sprintf("pattern does not compile and will be ignored: %v", err), SeverityWarning})
				}
			}
		}
	}
	return issues
}

func structIssues(c Config) Issues {
	issues := make(Issues, 0)
	err := validate.Struct(c)
	if err == nil {
		return issues
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return append(issues, Issue{"", err.Error(), SeverityError})
	}
	for _, fe := range verrs {
		issues = append(issues, Issue{lintPath(fe.Namespace()), lintMessage(fe), SeverityError})
	}
	return issues
}

// lintPath converts a validator namespace (Config.Steps[0].Fields[1].Name)
// into the JSON path of the value (steps[0].fields[1].name).
func lintPath(ns string) string {
	parts := strings.Split(ns, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for idx, p := range parts {
		if p != "" {
			parts[idx] = strings.ToLower(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, ".")
}

func lintMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must not be empty"
	case "oneof":
		return fmt.Sprintf("%q is not one of: %s", fmt.Sprint(fe.Value()), fe.Param())
	case "min":
		if fe.Field() == "Steps" {
			return "form must have at least one step"
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	}
	return fmt.Sprintf("failed %s check", fe.Tag())
}
