package stepform

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// BackendConfig selects where form configs are read from and saved to:
// either the admin API of the identity backend at URL or a control-plane
// directory at Dir.
type BackendConfig struct {
	URL          string   `yaml:"url" validate:"omitempty,url"`
	Dir          string   `yaml:"dir"`
	ClientID     string   `yaml:"clientId"`
	ClientSecret string   `yaml:"clientSecret" validate:"required_with=ClientID"`
	TokenURL     string   `yaml:"tokenUrl" validate:"omitempty,url"`
	Scopes       []string `yaml:"scopes"`
}

// Config containing all the configuration values for a service.
type Config struct {
	Port       uint16 `yaml:"port" validate:"required"`
	CookieName string `yaml:"cookieName" validate:"required"`
	DBPath     string `yaml:"dbPath" validate:"required"`
	AssetsDir  string `yaml:"assetsDir"`
	// AdminToken protects the editor and submission log.  When empty the
	// admin pages are open.
	AdminToken string `yaml:"adminToken"`
	// AllowedOrigins may embed forms and receive submissions.  When empty
	// any origin may.
	AllowedOrigins []string      `yaml:"allowedOrigins" validate:"dive,url"`
	SessionTTL     time.Duration `yaml:"sessionTTL"`
	QueueLength    int           `yaml:"queueLength" validate:"min=0"`
	Backend        BackendConfig `yaml:"backend"`
}

var validate = validator.New()

// LoadConfig reads the configuration file at filename (YAML or JSON), applies
// the environment overrides and sets defaults for unset values.  Variables
// from a .env file in the working directory are loaded first.  An empty
// filename skips the file.
func LoadConfig(filename string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading .env: %w", err)
	}

	config := new(Config)
	if filename != "" {
		confData, err := os.ReadFile(filename)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(confData, config); err != nil {
			return nil, fmt.Errorf("reading %s: %w", filename, err)
		}
	}
	if err := config.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	config.setDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (config *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := map[string]*string{
		"STEPFORM_COOKIE_NAME":   &config.CookieName,
		"STEPFORM_DB_PATH":       &config.DBPath,
		"STEPFORM_ASSETS_DIR":    &config.AssetsDir,
		"STEPFORM_ADMIN_TOKEN":   &config.AdminToken,
		"STEPFORM_BACKEND_URL":   &config.Backend.URL,
		"STEPFORM_BACKEND_DIR":   &config.Backend.Dir,
		"STEPFORM_CLIENT_ID":     &config.Backend.ClientID,
		"STEPFORM_CLIENT_SECRET": &config.Backend.ClientSecret,
		"STEPFORM_TOKEN_URL":     &config.Backend.TokenURL,
	}
	for key, dst := range str {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}
	if v, ok := lookup("STEPFORM_PORT"); ok {
		port, err := strconv.ParseUint(v, 10, 16)
		if err != nil {
			return fmt.Errorf("STEPFORM_PORT: %w", err)
		}
		config.Port = uint16(port)
	}
	if v, ok := lookup("STEPFORM_SESSION_TTL"); ok {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("STEPFORM_SESSION_TTL: %w", err)
		}
		config.SessionTTL = ttl
	}
	if v, ok := lookup("STEPFORM_ALLOWED_ORIGINS"); ok {
		config.AllowedOrigins = splitList(v)
	}
	return nil
}

func splitList(v string) []string {
	items := make([]string, 0)
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func (config *Config) setDefaults() {
	// Set defaults for any unset values
	if config.CookieName == "" {
		config.CookieName = "stepform-admin"
		log.Printf("[config] Setting default cookie name: %s", config.CookieName)
	}
	if config.Port == 0 {
		config.Port = 3000
		log.Printf("[config] Setting default port: %d", config.Port)
	}
	if config.DBPath == "" {
		config.DBPath = "./stepform.db"
		log.Printf("[config] Setting default dbpath: %s", config.DBPath)
	}
	if config.SessionTTL == 0 {
		config.SessionTTL = 2 * time.Hour
		log.Printf("[config] Setting default session ttl: %s", config.SessionTTL)
	}
	if config.QueueLength == 0 {
		config.QueueLength = 100
		log.Printf("[config] Setting default queue length: %d", config.QueueLength)
	}

	// Warn about unset values with no defaults
	unset := make([]string, 0, 2)
	if config.AdminToken == "" {
		unset = append(unset, "adminToken")
	}
	if len(config.AllowedOrigins) == 0 {
		unset = append(unset, "allowedOrigins")
	}
	if len(unset) > 0 {
		log.Printf("WARNING: The following configuration options are unset and have no defaults: %s", strings.Join(unset, ", "))
	}
}

// Validate checks the configuration values.
func (config *Config) Validate() error {
	if err := validate.Struct(config); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, len(verrs))
			for idx, fe := range verrs {
				msgs[idx] = fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag())
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return err
	}
	if config.Backend.URL == "" && config.Backend.Dir == "" {
		return fmt.Errorf("invalid configuration: one of backend.url or backend.dir is required")
	}
	if config.Backend.ClientID != "" && config.Backend.TokenURL == "" {
		return fmt.Errorf("invalid configuration: backend.tokenUrl is required with backend.clientId")
	}
	return nil
}
