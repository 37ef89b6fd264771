package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/G-Node/stepform/stepform/form"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/sync/singleflight"
)

const (
	formPath     = "/v2/admin/tenants/%s/forms/%s"
	settingsPath = "/v2/admin/tenants/%s/settings"

	maxBody = 1 << 20
)

// StatusError is returned for unexpected HTTP responses.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend returned %d %s: %s", e.Code, http.StatusText(e.Code), e.Message)
}

// Credentials for the OAuth2 client credentials grant used to access the
// admin API.
type Credentials struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scopes       []string
}

// Client reads and writes form configs through the identity server admin
// API.
type Client struct {
	base  *url.URL
	http  *http.Client
	group singleflight.Group
}

// NewClient returns a Client for the API at baseURL.  If creds is nil,
// requests are sent unauthenticated.
func NewClient(baseURL string, creds *Credentials) (*Client, error) {
	base, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid backend URL %q: %w", baseURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid backend URL %q: scheme must be http or https", baseURL)
	}
	client := &http.Client{Timeout: 30 * time.Second}
	if creds != nil {
		cc := clientcredentials.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			TokenURL:     creds.TokenURL,
			Scopes:       creds.Scopes,
		}
		client = cc.Client(context.Background())
		client.Timeout = 30 * time.Second
	}
	return &Client{base: base, http: client}, nil
}

func (c *Client) url(format string, args ...string) string {
	escaped := make([]interface{}, len(args))
	for idx := range args {
		escaped[idx] = url.PathEscape(args[idx])
	}
	return c.base.String() + fmt.Sprintf(format, escaped...)
}

// FetchForm retrieves the published config of a form.  Legacy documents are
// migrated.  Concurrent fetches of the same form share one request.
func (c *Client) FetchForm(ctx context.Context, tenant, formType string) (form.Config, error) {
	key := tenant + "\x00" + formType
	ch := c.group.DoChan(key, func() (interface{}, error) {
		return c.fetchForm(context.WithoutCancel(ctx), tenant, formType)
	})
	select {
	case <-ctx.Done():
		return form.Config{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return form.Config{}, res.Err
		}
		return res.Val.(form.Config).Clone(), nil
	}
}

func (c *Client) fetchForm(ctx context.Context, tenant, formType string) (form.Config, error) {
	body, _, err := c.get(ctx, c.url(formPath, tenant, formType))
	if err != nil {
		return form.Config{}, fmt.Errorf("fetching %s form of tenant %q: %w", formType, tenant, err)
	}
	if trimmed := bytes.TrimSpace(body); len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return form.Config{}, fmt.Errorf("fetching %s form of tenant %q: %w", formType, tenant, ErrNotFound)
	}
	return form.Decode(body)
}

// SaveForm replaces the config of one form type in the tenant settings.  The
// whole settings document is read and written back; the write is
// conditional on the ETag of the read when the server provides one.
func (c *Client) SaveForm(ctx context.Context, tenant, formType string, cfg form.Config) error {
	if !ValidFormType(formType) {
		return fmt.Errorf("unknown form type %q", formType)
	}
	target := c.url(settingsPath, tenant)
	body, etag, err := c.get(ctx, target)
	if err != nil {
		return fmt.Errorf("reading settings of tenant %q: %w", tenant, err)
	}

	settings := make(map[string]json.RawMessage)
	if err := json.Unmarshal(body, &settings); err != nil {
		return fmt.Errorf("reading settings of tenant %q: %w", tenant, err)
	}
	forms := map[string]json.RawMessage{
		LoginForm:    json.RawMessage("null"),
		RegisterForm: json.RawMessage("null"),
	}
	if raw, ok := settings["forms"]; ok && !bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		if err := json.Unmarshal(raw, &forms); err != nil {
			return fmt.Errorf("reading forms of tenant %q: %w", tenant, err)
		}
	}
	encoded, err := form.Encode(cfg)
	if err != nil {
		return err
	}
	forms[formType] = encoded
	if settings["forms"], err = json.Marshal(forms); err != nil {
		return err
	}
	data, err := json.Marshal(settings)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if etag != "" {
		req.Header.Set("If-Match", etag)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("saving settings of tenant %q: %w", tenant, err)
	}
	defer resp.Body.Close()
	if _, err := readResponse(resp); err != nil {
		return fmt.Errorf("saving settings of tenant %q: %w", tenant, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, target string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()
	body, err := readResponse(resp)
	if err != nil {
		return nil, "", err
	}
	return body, resp.Header.Get("ETag"), nil
}

func readResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, err
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode == http.StatusPreconditionFailed || resp.StatusCode == http.StatusConflict:
		return nil, ErrConflict
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &StatusError{Code: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}
	return body, nil
}
