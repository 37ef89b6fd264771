// Package backend talks to the identity server that stores tenant settings,
// where published form configs live under the "forms" key.
package backend

import (
	"context"
	"errors"

	"github.com/G-Node/stepform/stepform/form"
)

// Form types stored in the tenant settings.
const (
	LoginForm    = "login"
	RegisterForm = "register"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when the settings changed since they were
	// read.
	ErrConflict = errors.New("settings were modified concurrently")
)

// Fetcher reads published form configs.
type Fetcher interface {
	FetchForm(ctx context.Context, tenant, formType string) (form.Config, error)
}

// Saver writes form configs.
type Saver interface {
	SaveForm(ctx context.Context, tenant, formType string, cfg form.Config) error
}

// Store reads and writes form configs.
type Store interface {
	Fetcher
	Saver
}

// ValidFormType reports whether formType is a known form type.
func ValidFormType(formType string) bool {
	return formType == LoginForm || formType == RegisterForm
}
