package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/devicelab-dev/gwt-driver/pkg/widget"
)

func TestLoad_ValidConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "gwtdriver.yaml")

	content := `
webdriverUrl: http://selenium:4444/wd/hub
browser: firefox
capabilities:
  acceptInsecureCerts: true
implicitWaitMs: 2500
logFile: /tmp/gwtdriver.log
targets:
  Label: com.example.client.FancyLabel
  Panel: unconstrained
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.ServerURL() != "http://selenium:4444/wd/hub" {
		t.Errorf("expected webdriverUrl, got %s", cfg.ServerURL())
	}
	if cfg.Browser != "firefox" {
		t.Errorf("expected browser firefox, got %s", cfg.Browser)
	}
	if cfg.Capabilities["acceptInsecureCerts"] != true {
		t.Errorf("expected acceptInsecureCerts true, got %v", cfg.Capabilities)
	}
	if cfg.ImplicitWait() != 2500*time.Millisecond {
		t.Errorf("expected implicit wait 2.5s, got %v", cfg.ImplicitWait())
	}
	if cfg.LogFile != "/tmp/gwtdriver.log" {
		t.Errorf("expected logFile, got %s", cfg.LogFile)
	}
	if cfg.Targets["Label"] != "com.example.client.FancyLabel" {
		t.Errorf("expected Label target override, got %v", cfg.Targets)
	}
}

func TestLoad_NonExistentFile(t *testing.T) {
	_, err := Load("/nonexistent/gwtdriver.yaml")
	if err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "gwtdriver.yaml")

	if err := os.WriteFile(configPath, []byte(`targets: [invalid yaml`), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoad_EmptyConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "gwtdriver.yaml")

	if err := os.WriteFile(configPath, []byte(``), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ServerURL() != DefaultWebDriverURL {
		t.Errorf("expected default server URL, got %s", cfg.ServerURL())
	}
	if cfg.ImplicitWait() != 0 {
		t.Errorf("expected zero implicit wait, got %v", cfg.ImplicitWait())
	}
}

func TestLoadFromDir_PrefersYamlOverYml(t *testing.T) {
	dir := t.TempDir()

	if err := os.WriteFile(filepath.Join(dir, "gwtdriver.yaml"), []byte(`browser: chrome`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "gwtdriver.yml"), []byte(`browser: firefox`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Browser != "chrome" {
		t.Errorf("expected browser chrome (from gwtdriver.yaml), got %s", cfg.Browser)
	}
}

func TestLoadFromDir_Yml(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "gwtdriver.yml"), []byte(`browser: firefox`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Browser != "firefox" {
		t.Errorf("expected browser firefox, got %s", cfg.Browser)
	}
}

func TestLoadFromDir_NoConfig(t *testing.T) {
	cfg, err := LoadFromDir(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Browser != "" || len(cfg.Targets) != 0 {
		t.Errorf("expected empty config, got %+v", cfg)
	}
}

func TestSessionCapabilities(t *testing.T) {
	cfg := &Config{
		Browser:      "chrome",
		Capabilities: map[string]interface{}{"browserName": "firefox", "acceptInsecureCerts": true},
	}

	caps := cfg.SessionCapabilities()
	if caps["browserName"] != "chrome" {
		t.Errorf("Browser should override capabilities, got %v", caps["browserName"])
	}
	if caps["acceptInsecureCerts"] != true {
		t.Error("capabilities should be kept")
	}
	if cfg.Capabilities["browserName"] != "firefox" {
		t.Error("SessionCapabilities modified the config")
	}
}

type labelModel struct{ widget.Widget }

type panelModel struct{ widget.Widget }

func newRegistry(t *testing.T) *widget.Registry {
	t.Helper()
	r := widget.NewRegistry()
	widget.MustRegister(r, widget.Definition[labelModel]{
		Name:   "Label",
		Target: widget.ForWidget("com.google.gwt.user.client.ui.Label"),
		New:    func(w widget.Widget) labelModel { return labelModel{w} },
	})
	widget.MustRegister(r, widget.Definition[panelModel]{
		Name:   "Panel",
		Target: widget.ForWidget("com.google.gwt.user.client.ui.Panel"),
		New:    func(w widget.Widget) panelModel { return panelModel{w} },
	})
	return r
}

func TestApply_Targets(t *testing.T) {
	r := newRegistry(t)
	cfg := &Config{Targets: map[string]string{
		"Label": "com.example.client.FancyLabel",
		"Panel": Unconstrained,
	}}

	if err := cfg.Apply(r); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	label, _ := r.Lookup("Label")
	if label.Target.Name() != "com.example.client.FancyLabel" {
		t.Errorf("Label target = %s", label.Target)
	}
	panel, _ := r.Lookup("Panel")
	if !panel.Target.IsUnconstrained() {
		t.Errorf("Panel target = %s, want unconstrained", panel.Target)
	}
}

func TestApply_UnknownModel(t *testing.T) {
	r := newRegistry(t)
	cfg := &Config{Targets: map[string]string{"Tree": "com.google.gwt.user.client.ui.Tree"}}

	err := cfg.Apply(r)
	if !errors.Is(err, widget.ErrNotRegistered) {
		t.Errorf("expected ErrNotRegistered, got %v", err)
	}
}

func TestApply_EmptyTarget(t *testing.T) {
	r := newRegistry(t)
	cfg := &Config{Targets: map[string]string{"Label": "  "}}

	err := cfg.Apply(r)
	if !errors.Is(err, widget.ErrInvalidDefinition) {
		t.Fatalf("expected ErrInvalidDefinition, got %v", err)
	}
	if !strings.Contains(err.Error(), "Label") {
		t.Errorf("error should name the model, got %q", err.Error())
	}

	label, _ := r.Lookup("Label")
	if label.Target.Name() != "com.google.gwt.user.client.ui.Label" {
		t.Errorf("Label target changed to %s", label.Target)
	}
}

func TestApply_SealedRegistry(t *testing.T) {
	r := newRegistry(t)
	r.Seal()
	cfg := &Config{Targets: map[string]string{"Label": "x.Y"}}

	if err := cfg.Apply(r); !errors.Is(err, widget.ErrRegistrySealed) {
		t.Errorf("expected ErrRegistrySealed, got %v", err)
	}

	if err := (&Config{}).Apply(r); err != nil {
		t.Errorf("empty targets should be a no-op, got %v", err)
	}
}
