// Package config handles configuration for gwt-driver.
package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/devicelab-dev/gwt-driver/pkg/widget"
)

// DefaultWebDriverURL is used when neither config nor flags set a server.
const DefaultWebDriverURL = "http://127.0.0.1:4444"

// Unconstrained is the target value that marks a model as always castable.
const Unconstrained = "unconstrained"

// Config represents the workspace configuration (gwtdriver.yaml).
type Config struct {
	// WebDriver session
	WebDriverURL   string                 `yaml:"webdriverUrl"`
	Browser        string                 `yaml:"browser"`
	Capabilities   map[string]interface{} `yaml:"capabilities"`
	ImplicitWaitMs int                    `yaml:"implicitWaitMs"`

	// Logging
	LogFile string `yaml:"logFile"`

	// Targets overrides the GWT class of registered models by name.
	// The value "unconstrained" disables the client check for a model.
	Targets map[string]string `yaml:"targets"`
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- user-provided config file
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}

	return &cfg, nil
}

// LoadFromDir looks for gwtdriver.yaml or gwtdriver.yml in the directory.
func LoadFromDir(dir string) (*Config, error) {
	for _, name := range []string{"gwtdriver.yaml", "gwtdriver.yml"} {
		configPath := filepath.Join(dir, name)
		if _, err := os.Stat(configPath); err == nil {
			return Load(configPath)
		}
	}

	// No config file found, return empty config
	return &Config{}, nil
}

// ServerURL returns the configured WebDriver URL or the default.
func (c *Config) ServerURL() string {
	if c.WebDriverURL == "" {
		return DefaultWebDriverURL
	}
	return c.WebDriverURL
}

// ImplicitWait returns the implicit wait as a duration.
func (c *Config) ImplicitWait() time.Duration {
	return time.Duration(c.ImplicitWaitMs) * time.Millisecond
}

// SessionCapabilities merges Browser into the configured capabilities.
func (c *Config) SessionCapabilities() map[string]interface{} {
	caps := make(map[string]interface{}, len(c.Capabilities)+1)
	for k, v := range c.Capabilities {
		caps[k] = v
	}
	if c.Browser != "" {
		caps["browserName"] = c.Browser
	}
	return caps
}

// Apply retargets the registry's models per Targets. Call it before
// sealing the registry. An empty target value is rejected.
func (c *Config) Apply(r *widget.Registry) error {
	names := make([]string, 0, len(c.Targets))
	for name := range c.Targets {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		value := strings.TrimSpace(c.Targets[name])
		if value == "" {
			return errors.Wrapf(widget.ErrInvalidDefinition, "config target %s: empty class name", name)
		}
		target := widget.ForWidget(value)
		if value == Unconstrained {
			target = widget.Unconstrained()
		}
		if err := r.Retarget(name, target); err != nil {
			return errors.Wrapf(err, "config target %s", name)
		}
	}
	return nil
}
