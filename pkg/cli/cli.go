// Package cli provides the command-line interface for gwt-driver.
package cli

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/gwt-driver/pkg/config"
	"github.com/devicelab-dev/gwt-driver/pkg/logger"
	"github.com/devicelab-dev/gwt-driver/pkg/widget"
	"github.com/devicelab-dev/gwt-driver/pkg/widgets"
)

// Version is set at build time.
var Version = "dev"

// GlobalFlags are available to all commands.
var GlobalFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to gwtdriver.yaml (default: $GWTDRIVER_HOME/gwtdriver.yaml)",
		EnvVars: []string{"GWTDRIVER_CONFIG"},
	},
	&cli.StringFlag{
		Name:    "webdriver-url",
		Usage:   "WebDriver server URL (default " + config.DefaultWebDriverURL + ")",
		EnvVars: []string{"GWTDRIVER_WEBDRIVER_URL"},
	},
	&cli.StringFlag{
		Name:    "browser",
		Aliases: []string{"b"},
		Usage:   "Browser to start (chrome, firefox, ...)",
		EnvVars: []string{"GWTDRIVER_BROWSER"},
	},
	&cli.StringFlag{
		Name:    "log-file",
		Usage:   "Write logs to this file (default: $GWTDRIVER_HOME/gwtdriver.log)",
		EnvVars: []string{"GWTDRIVER_LOG_FILE"},
	},
	&cli.BoolFlag{
		Name:    "verbose",
		Usage:   "Enable verbose logging",
		EnvVars: []string{"GWTDRIVER_VERBOSE"},
	},
}

// NewApp builds the gwtdriver application.
func NewApp() *cli.App {
	return &cli.App{
		Name:    "gwtdriver",
		Usage:   "Inspect and drive GWT widgets through WebDriver",
		Version: Version,
		Description: `gwtdriver resolves GWT widgets behind DOM elements and checks their
client-side classes through the methods a GWT module exports to the page.

Examples:
  gwtdriver escape "don't say \"no\""
  gwtdriver widgets
  gwtdriver probe --xpath "//button[text()='Save']" --as Button http://localhost:8888/`,
		Flags: GlobalFlags,
		Commands: []*cli.Command{
			escapeCommand,
			widgetsCommand,
			probeCommand,
		},
		After: func(c *cli.Context) error {
			logger.Close()
			return nil
		},
	}
}

// Execute runs the CLI.
func Execute() {
	if err := NewApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and lets global flags override it.
func loadConfig(c *cli.Context) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path := c.String("config"); path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadFromDir(config.GetHome())
	}
	if err != nil {
		return nil, err
	}

	if v := c.String("webdriver-url"); v != "" {
		cfg.WebDriverURL = v
	}
	if v := c.String("browser"); v != "" {
		cfg.Browser = v
	}
	if v := c.String("log-file"); v != "" {
		cfg.LogFile = v
	}
	return cfg, nil
}

// setup loads the config and starts logging.
func setup(c *cli.Context) (*config.Config, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	logger.SetVerbose(c.Bool("verbose"))
	logPath := cfg.LogFile
	if logPath == "" {
		logPath = config.DefaultLogPath()
	}
	if err := logger.Init(logPath); err != nil {
		return nil, err
	}
	logger.Debug("gwtdriver %s: server=%s browser=%s", Version, cfg.ServerURL(), cfg.Browser)
	return cfg, nil
}

// buildRegistry registers the stock models, applies config target
// overrides and seals the result.
func buildRegistry(cfg *config.Config) (*widget.Registry, error) {
	r := widget.NewRegistry()
	if err := widgets.RegisterAll(r); err != nil {
		return nil, err
	}
	if err := cfg.Apply(r); err != nil {
		return nil, err
	}
	r.Seal()
	return r, nil
}
