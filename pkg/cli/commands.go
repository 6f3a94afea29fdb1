package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/gwt-driver/pkg/invoke"
	"github.com/devicelab-dev/gwt-driver/pkg/logger"
	"github.com/devicelab-dev/gwt-driver/pkg/webdriver"
	"github.com/devicelab-dev/gwt-driver/pkg/widget"
	"github.com/devicelab-dev/gwt-driver/pkg/widgets"
)

var escapeCommand = &cli.Command{
	Name:      "escape",
	Usage:     "Print TEXT as an XPath string literal",
	ArgsUsage: "TEXT...",
	Description: `Each argument is printed on its own line as an XPath 1.0 expression
evaluating to exactly that text.

Examples:
  gwtdriver escape hello
  gwtdriver escape "it's" 'say "hi"'`,
	Action: runEscape,
}

var widgetsCommand = &cli.Command{
	Name:  "widgets",
	Usage: "List the registered widget models and their GWT classes",
	Description: `Lists the stock models after target overrides from gwtdriver.yaml
have been applied.`,
	Action: runWidgets,
}

var probeCommand = &cli.Command{
	Name:      "probe",
	Usage:     "Locate an element and report the GWT widget behind it",
	ArgsUsage: "[URL]",
	Description: `Starts a WebDriver session, optionally opens URL, locates one element
and prints the class of the widget that contains it. With --as the element
is also cast to the named model.

Examples:
  gwtdriver probe --css "#save" http://localhost:8888/
  gwtdriver probe --xpath "//div[@class='gwt-Label']" --as Label`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "xpath",
			Usage: "XPath of the element",
		},
		&cli.StringFlag{
			Name:  "css",
			Usage: "CSS selector of the element",
		},
		&cli.StringFlag{
			Name:  "as",
			Usage: "Registered model name to cast the widget to",
		},
	},
	Action: runProbe,
}

func runEscape(c *cli.Context) error {
	if c.NArg() < 1 {
		return fmt.Errorf("at least one TEXT argument is required")
	}
	for _, arg := range c.Args().Slice() {
		fmt.Fprintln(c.App.Writer, widget.EscapeToString(arg))
	}
	return nil
}

func runWidgets(c *cli.Context) error {
	cfg, err := setup(c)
	if err != nil {
		return err
	}
	r, err := buildRegistry(cfg)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "MODEL\tTARGET\tFINDER")
	for _, d := range r.Declarations() {
		finder := "no"
		if d.HasFinder {
			finder = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", d.Name, d.Target, finder)
	}
	return w.Flush()
}

func runProbe(c *cli.Context) error {
	by, value, err := probeLocator(c.String("xpath"), c.String("css"))
	if err != nil {
		return err
	}

	cfg, err := setup(c)
	if err != nil {
		return err
	}
	r, err := buildRegistry(cfg)
	if err != nil {
		return err
	}
	if name := c.String("as"); name != "" {
		if _, ok := r.Lookup(name); !ok {
			return fmt.Errorf("unknown model %q (see 'gwtdriver widgets')", name)
		}
	}

	client := webdriver.NewClient(cfg.ServerURL())
	if err := client.Connect(cfg.SessionCapabilities()); err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(); err != nil {
			logger.Warn("disconnect failed: %v", err)
		}
	}()

	if wait := cfg.ImplicitWait(); wait > 0 {
		if err := client.SetImplicitWait(wait); err != nil {
			return err
		}
	}
	if c.NArg() > 0 {
		if err := client.Get(c.Args().First()); err != nil {
			return errors.Wrapf(err, "open %s", c.Args().First())
		}
	}

	el, err := client.FindElement(by, value)
	if err != nil {
		return errors.Wrapf(err, "locate %s %q", by, value)
	}
	out := c.App.Writer
	fmt.Fprintf(out, "element: %s\n", el.ID())

	class, err := invoke.New(client).ContainingWidgetClass(el)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "widget:  %s\n", class)

	name := c.String("as")
	if name == "" {
		return nil
	}
	w, err := widget.New[widgets.Widget](r, client, el)
	if err != nil {
		return err
	}
	if _, err := r.Cast(name, w); err != nil {
		fmt.Fprintf(out, "as(%s): %s\n", name, widget.KindOf(err))
		return err
	}
	fmt.Fprintf(out, "as(%s): ok\n", name)
	return nil
}

// probeLocator picks the strategy from exactly one of xpath and css.
func probeLocator(xpath, css string) (webdriver.By, string, error) {
	xpath, css = strings.TrimSpace(xpath), strings.TrimSpace(css)
	switch {
	case xpath != "" && css != "":
		return "", "", fmt.Errorf("use only one of --xpath and --css")
	case xpath != "":
		return webdriver.ByXPath, xpath, nil
	case css != "":
		return webdriver.ByCSSSelector, css, nil
	default:
		return "", "", fmt.Errorf("--xpath or --css is required")
	}
}
