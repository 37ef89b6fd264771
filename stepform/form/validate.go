package form

import (
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"
)

// Messages produced by ValidateField.
const (
	MsgRequired  = "This field is required"
	MsgMinLength = "Minimum %d characters required"
	MsgMaxLength = "Maximum %d characters allowed"
	MsgPattern   = "Invalid format"
)

// ErrorMap maps field IDs to the message of their failing rule.
type ErrorMap map[string]string

// Valid returns true if no field failed.
func (em ErrorMap) Valid() bool {
	return len(em) == 0
}

// Clone returns a copy of the map.  The copy is never nil.
func (em ErrorMap) Clone() ErrorMap {
	c := make(ErrorMap, len(em))
	for k, v := range em {
		c[k] = v
	}
	return c
}

var logger = log.New(os.Stderr, "[form] ", log.LstdFlags)

// SetLogger sets the logger that receives warnings about misconfigured
// fields.
func SetLogger(l *log.Logger) {
	logger = l
}

type compiled struct {
	re  *regexp.Regexp
	err error
}

// patterns caches compiled field patterns by source.
var patterns sync.Map

func compilePattern(pattern string) *regexp.Regexp {
	if c, ok := patterns.Load(pattern); ok {
		return c.(*compiled).re
	}
	re, err := regexp.Compile(pattern)
	c, loaded := patterns.LoadOrStore(pattern, &compiled{re, err})
	if err != nil && !loaded {
		logger.Printf("Ignoring invalid field pattern %q: %v", pattern, err)
	}
	return c.(*compiled).re
}

// ValidateField checks a value against the constraints of the field.  The
// rules are applied in order (required, minimum length, maximum length,
// pattern) and the message of the first failing rule is returned.  A pattern
// that does not compile is skipped.
func ValidateField(field Field, value string) (string, bool) {
	if field.Required && strings.TrimSpace(value) == "" {
		return MsgRequired, false
	}
	length := utf8.RuneCountInString(value)
	if field.MinLength != nil && length < *field.MinLength {
		return fmt.Sprintf(MsgMinLength, *field.MinLength), false
	}
	if field.MaxLength != nil && length > *field.MaxLength {
		return fmt.Sprintf(MsgMaxLength, *field.MaxLength), false
	}
	if field.Pattern != "" && value != "" {
		if re := compilePattern(field.Pattern); re != nil && !re.MatchString(value) {
			return MsgPattern, false
		}
	}
	return "", true
}

// ValidateStep validates every field of the step against the value stored
// under its name and returns the failures keyed by field ID.
func ValidateStep(step Step, values map[string]string) ErrorMap {
	errs := make(ErrorMap)
	for _, f := range step.Fields {
		if msg, ok := ValidateField(f, values[f.Name]); !ok {
			errs[f.ID] = msg
		}
	}
	return errs
}
