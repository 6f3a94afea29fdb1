// Package widgets provides models for the stock GWT user.client.ui widgets.
package widgets

import (
	"github.com/pkg/errors"

	"github.com/devicelab-dev/gwt-driver/pkg/invoke"
	"github.com/devicelab-dev/gwt-driver/pkg/webdriver"
	"github.com/devicelab-dev/gwt-driver/pkg/widget"
)

// GWT classes the stock models target.
const (
	WidgetClass = "com.google.gwt.user.client.ui.Widget"
	LabelClass  = "com.google.gwt.user.client.ui.Label"
	ButtonClass = "com.google.gwt.user.client.ui.Button"
)

// RegisterAll registers the stock models in r.
func RegisterAll(r *widget.Registry) error {
	if err := widget.Register(r, widget.Definition[Widget]{
		Name:   "Widget",
		Target: widget.ForWidget(WidgetClass),
		New:    func(w widget.Widget) Widget { return Widget{w} },
		Finder: func() (widget.Finder, error) { return &WidgetFinder{}, nil },
	}); err != nil {
		return err
	}
	if err := widget.Register(r, widget.Definition[Label]{
		Name:   "Label",
		Target: widget.ForWidget(LabelClass),
		New:    func(w widget.Widget) Label { return Label{w} },
		Finder: func() (widget.Finder, error) { return &LabelFinder{}, nil },
	}); err != nil {
		return err
	}
	if err := widget.Register(r, widget.Definition[Button]{
		Name:   "Button",
		Target: widget.ForWidget(ButtonClass),
		New:    func(w widget.Widget) Button { return Button{w} },
		Finder: func() (widget.Finder, error) { return &ButtonFinder{}, nil },
	}); err != nil {
		return err
	}
	return widget.Register(r, widget.Definition[Panel]{
		Name:   "Panel",
		Target: widget.Unconstrained(),
		New:    func(w widget.Widget) Panel { return Panel{w} },
	})
}

// Widget is any GWT widget.
type Widget struct {
	widget.Widget
}

// WidgetFinder finds the widget that contains an element.
type WidgetFinder struct {
	widget.FinderBase
}

// Done returns the widget owning the finder's element.
func (f *WidgetFinder) Done() (Widget, error) {
	if f.Scope() == nil {
		return Widget{}, errors.New("widget finder needs an element")
	}
	el, err := invoke.New(f.Driver()).ContainingWidget(f.Scope())
	if err != nil {
		return Widget{}, err
	}
	return widget.New[Widget](f.Registry(), f.Driver(), el)
}

// Panel is a container. It declares no GWT class, so any widget can be
// viewed as a Panel.
type Panel struct {
	widget.Widget
}

// locateByText finds the first tag element carrying class, optionally with
// the exact text, inside the finder's scope.
func locateByText(f *widget.FinderBase, tag, class, text string, hasText bool) (webdriver.WebElement, error) {
	xpath := textXPath(f.Scope() != nil, tag, class, text, hasText)
	el, err := f.Locate(webdriver.ByXPath, xpath)
	if err != nil {
		return nil, errors.Wrapf(err, "locate %s", xpath)
	}
	return el, nil
}

func textXPath(scoped bool, tag, class, text string, hasText bool) string {
	xpath := "//" + tag + "[contains(concat(' ', normalize-space(@class), ' '), ' " + class + " ')]"
	if hasText {
		xpath += "[text()=" + widget.EscapeToString(text) + "]"
	}
	if scoped {
		xpath = "." + xpath
	}
	return xpath
}
