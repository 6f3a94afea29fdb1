// Package widget binds located page elements to typed GWT widget models.
//
// A widget model is a Go type that embeds Widget and is registered with a
// Registry together with the GWT class it represents and, optionally, the
// Finder that locates it. Find resolves the finder for a model; As re-casts
// a handle to another model after asking the page whether the underlying
// widget really is of that class.
package widget

import (
	"github.com/devicelab-dev/gwt-driver/pkg/webdriver"
)

// Model is implemented by widget model types. Embedding Widget satisfies it.
type Model interface {
	Handle() Widget
}

// Widget is an immutable handle on a located element, typed as a model.
type Widget struct {
	registry *Registry
	driver   webdriver.WebDriver
	element  webdriver.WebElement
	model    string
}

// Handle returns the handle itself so that embedding types satisfy Model.
func (w Widget) Handle() Widget {
	return w
}

// Driver returns the session the widget was located in.
func (w Widget) Driver() webdriver.WebDriver {
	return w.driver
}

// Element returns the widget's root element.
func (w Widget) Element() webdriver.WebElement {
	return w.element
}

// Model returns the registered name of the model the handle was created as.
func (w Widget) Model() string {
	return w.model
}

// Registry returns the registry the handle was created through.
func (w Widget) Registry() *Registry {
	return w.registry
}

// Valid reports whether both references are set.
func (w Widget) Valid() bool {
	return w.driver != nil && w.element != nil
}

// New wraps element as a W registered in r.
func New[W Model](r *Registry, driver webdriver.WebDriver, element webdriver.WebElement) (W, error) {
	var zero W
	e, err := r.entryFor(typeOf[W]())
	if err != nil {
		return zero, err
	}
	if driver == nil || element == nil {
		return zero, ErrNilReference.with(e.name, "", nil)
	}
	return e.build(r, driver, element).(W), nil
}

func elementID(el webdriver.WebElement) string {
	if el == nil {
		return ""
	}
	return el.ID()
}
