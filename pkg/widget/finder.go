package widget

import (
	"reflect"

	"github.com/pkg/errors"

	"github.com/devicelab-dev/gwt-driver/pkg/webdriver"
)

// Finder locates widgets of one model. Implementations embed FinderBase.
type Finder interface {
	WithDriver(driver webdriver.WebDriver)
	WithElement(scope webdriver.WebElement)
	base() *FinderBase
}

// FinderBase holds the context a finder was resolved in.
type FinderBase struct {
	driver   webdriver.WebDriver
	scope    webdriver.WebElement
	registry *Registry
}

// WithDriver sets the session to search in.
func (b *FinderBase) WithDriver(driver webdriver.WebDriver) {
	b.driver = driver
}

// WithElement limits the search to descendants of scope. Nil searches the
// whole page.
func (b *FinderBase) WithElement(scope webdriver.WebElement) {
	b.scope = scope
}

func (b *FinderBase) base() *FinderBase {
	return b
}

// Driver returns the session.
func (b *FinderBase) Driver() webdriver.WebDriver {
	return b.driver
}

// Scope returns the scoping element, or nil.
func (b *FinderBase) Scope() webdriver.WebElement {
	return b.scope
}

// Registry returns the registry the finder was resolved through.
func (b *FinderBase) Registry() *Registry {
	return b.registry
}

// Locate finds the first element matching (by, value) inside the scope.
func (b *FinderBase) Locate(by webdriver.By, value string) (webdriver.WebElement, error) {
	if b.driver == nil {
		return nil, ErrNilReference.withMessage("finder has no driver")
	}
	if b.scope != nil {
		return b.scope.FindElement(by, value)
	}
	return b.driver.FindElement(by, value)
}

// LocateAll finds every element matching (by, value) inside the scope.
func (b *FinderBase) LocateAll(by webdriver.By, value string) ([]webdriver.WebElement, error) {
	if b.driver == nil {
		return nil, ErrNilReference.withMessage("finder has no driver")
	}
	if b.scope != nil {
		return b.scope.FindElements(by, value)
	}
	return b.driver.FindElements(by, value)
}

// Find returns the finder declared for W, bound to driver and to the
// optional scope element.
func Find[W Model](r *Registry, driver webdriver.WebDriver, scope webdriver.WebElement) (Finder, error) {
	e, err := r.entryFor(typeOf[W]())
	if err != nil {
		return nil, ErrNoFinder.with(typeOf[W]().String(), elementID(scope), err)
	}
	if e.newFinder == nil {
		return nil, ErrNoFinder.with(e.name, elementID(scope), nil)
	}
	if driver == nil {
		return nil, ErrNilReference.with(e.name, elementID(scope), nil)
	}

	f, err := construct(e.newFinder)
	if err != nil {
		return nil, ErrFinderConstruction.with(e.name, elementID(scope), err)
	}

	f.WithDriver(driver)
	f.WithElement(scope)
	f.base().registry = r
	return f, nil
}

// FindIn returns the finder declared for W, scoped to parent's element.
func FindIn[W Model](parent Model) (Finder, error) {
	h := parent.Handle()
	return Find[W](h.registry, h.driver, h.element)
}

// FinderFor is Find returning the finder as its concrete type F.
func FinderFor[W Model, F Finder](r *Registry, driver webdriver.WebDriver, scope webdriver.WebElement) (F, error) {
	var zero F
	f, err := Find[W](r, driver, scope)
	if err != nil {
		return zero, err
	}
	typed, ok := f.(F)
	if !ok {
		return zero, ErrFinderType.
			with(typeOf[W]().String(), elementID(scope), nil).
			withMessage("finder is %T, not %s", f, typeOf[F]())
	}
	return typed, nil
}

// construct runs a finder constructor, turning panics into errors.
func construct(newFinder func() (Finder, error)) (f Finder, err error) {
	defer func() {
		if p := recover(); p != nil {
			f = nil
			err = errors.Errorf("panic: %v", p)
		}
	}()

	f, err = newFinder()
	if err != nil {
		return nil, err
	}
	if f == nil || isNilPointer(f) {
		return nil, errors.New("constructor returned nil")
	}
	return f, nil
}

// isNilPointer reports whether f holds a typed nil pointer.
func isNilPointer(f Finder) bool {
	v := reflect.ValueOf(f)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
