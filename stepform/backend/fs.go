package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/G-Node/stepform/stepform/form"
	"gopkg.in/yaml.v3"
)

// FS stores form configs in a control-plane directory, one tenant.yaml per
// tenant under tenants/{slug}/.  The forms live at settings.forms.{type}.
type FS struct {
	root string
	mux  sync.Mutex
}

// NewFS returns an FS store rooted at dir.
func NewFS(dir string) *FS {
	return &FS{root: dir}
}

func (fs *FS) tenantFile(slug string) (string, error) {
	if slug == "" || slug != filepath.Base(slug) || slug == "." || slug == ".." {
		return "", fmt.Errorf("invalid tenant slug %q", slug)
	}
	return filepath.Join(fs.root, "tenants", slug, "tenant.yaml"), nil
}

func (fs *FS) readTenant(slug string) (map[string]interface{}, error) {
	path, err := fs.tenantFile(slug)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("tenant %q: %w", slug, ErrNotFound)
	} else if err != nil {
		return nil, err
	}
	tenant := make(map[string]interface{})
	if err := yaml.Unmarshal(data, &tenant); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return tenant, nil
}

func submap(m map[string]interface{}, key string) map[string]interface{} {
	if sub, ok := m[key].(map[string]interface{}); ok {
		return sub
	}
	sub := make(map[string]interface{})
	m[key] = sub
	return sub
}

// FetchForm reads the config of a form from the tenant file.
func (fs *FS) FetchForm(_ context.Context, tenant, formType string) (form.Config, error) {
	fs.mux.Lock()
	defer fs.mux.Unlock()
	t, err := fs.readTenant(tenant)
	if err != nil {
		return form.Config{}, err
	}
	raw := submap(submap(t, "settings"), "forms")[formType]
	if raw == nil {
		return form.Config{}, fmt.Errorf("%s form of tenant %q: %w", formType, tenant, ErrNotFound)
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return form.Config{}, fmt.Errorf("%s form of tenant %q: %w", formType, tenant, err)
	}
	return form.Decode(data)
}

// SaveForm writes the config of a form into the tenant file, keeping the
// rest of the file.
func (fs *FS) SaveForm(_ context.Context, tenant, formType string, cfg form.Config) error {
	if !ValidFormType(formType) {
		return fmt.Errorf("unknown form type %q", formType)
	}
	fs.mux.Lock()
	defer fs.mux.Unlock()
	t, err := fs.readTenant(tenant)
	if err != nil {
		return err
	}

	encoded, err := form.Encode(cfg)
	if err != nil {
		return err
	}
	var value interface{}
	if err := json.Unmarshal(encoded, &value); err != nil {
		return err
	}
	forms := submap(submap(t, "settings"), "forms")
	for _, ft := range []string{LoginForm, RegisterForm} {
		if _, ok := forms[ft]; !ok {
			forms[ft] = nil
		}
	}
	forms[formType] = value

	data, err := yaml.Marshal(t)
	if err != nil {
		return err
	}
	path, _ := fs.tenantFile(tenant)
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tenant-*.yaml")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
