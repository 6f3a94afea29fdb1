package widget

import (
	"reflect"
	"sort"
	"sync"

	"github.com/devicelab-dev/gwt-driver/pkg/invoke"
	"github.com/devicelab-dev/gwt-driver/pkg/webdriver"
)

// Target is the GWT widget class a model represents.
// The zero Target declares nothing; casting to such a model fails.
type Target struct {
	name          string
	unconstrained bool
}

// ForWidget declares the fully qualified GWT class a model represents,
// e.g. "com.google.gwt.user.client.ui.Label".
func ForWidget(className string) Target {
	return Target{name: className}
}

// Unconstrained declares that a model fits any widget, so casting to it
// skips the live check.
func Unconstrained() Target {
	return Target{unconstrained: true}
}

// Name returns the GWT class name, or "" for unconstrained and zero targets.
func (t Target) Name() string {
	return t.name
}

// IsUnconstrained reports whether t was declared with Unconstrained.
func (t Target) IsUnconstrained() bool {
	return t.unconstrained
}

// IsZero reports whether t declares nothing.
func (t Target) IsZero() bool {
	return t.name == "" && !t.unconstrained
}

func (t Target) String() string {
	switch {
	case t.unconstrained:
		return "unconstrained"
	case t.name == "":
		return "undeclared"
	default:
		return t.name
	}
}

// Definition registers a widget model W.
type Definition[W Model] struct {
	// Name identifies the model in errors, config and the CLI.
	Name string
	// Target is the GWT class checked by As.
	Target Target
	// New builds a W around a bound handle.
	New func(Widget) W
	// Finder constructs the model's finder. Nil when the model has none.
	Finder func() (Finder, error)
}

// Declaration is a read-only view of a registered model.
type Declaration struct {
	Name      string
	Target    Target
	HasFinder bool
}

// InstanceChecker is the client-query capability used by As.
type InstanceChecker interface {
	InstanceOfWidget(el webdriver.WebElement, className string) (bool, error)
}

// CheckerFactory returns the InstanceChecker for a session.
type CheckerFactory func(webdriver.WebDriver) InstanceChecker

// Option configures a Registry.
type Option func(*Registry)

// WithChecker replaces the client-query collaborator.
func WithChecker(f CheckerFactory) Option {
	return func(r *Registry) {
		r.checker = f
	}
}

type entry struct {
	name      string
	target    Target
	newModel  func(Widget) Model
	newFinder func() (Finder, error)
}

func (e entry) build(r *Registry, driver webdriver.WebDriver, element webdriver.WebElement) Model {
	return e.newModel(Widget{
		registry: r,
		driver:   driver,
		element:  element,
		model:    e.name,
	})
}

// Registry maps widget model types to their targets and finders.
// Populate it at startup, then Seal it; it is safe for concurrent reads.
type Registry struct {
	mu      sync.RWMutex
	byType  map[reflect.Type]*entry
	byName  map[string]*entry
	sealed  bool
	checker CheckerFactory
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		byType: make(map[reflect.Type]*entry),
		byName: make(map[string]*entry),
		checker: func(d webdriver.WebDriver) InstanceChecker {
			return invoke.New(d)
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry.
func Default() *Registry {
	return defaultRegistry
}

// Register adds the model W to r.
func Register[W Model](r *Registry, def Definition[W]) error {
	if def.Name == "" {
		return ErrInvalidDefinition.withMessage("widget model definition has no name")
	}
	if def.New == nil {
		return ErrInvalidDefinition.with(def.Name, "", nil).withMessage("widget model definition has no constructor")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return ErrRegistrySealed.with(def.Name, "", nil)
	}
	t := typeOf[W]()
	if _, ok := r.byType[t]; ok {
		return ErrDuplicateModel.with(def.Name, "", nil)
	}
	if _, ok := r.byName[def.Name]; ok {
		return ErrDuplicateModel.with(def.Name, "", nil)
	}

	newModel := def.New
	e := &entry{
		name:      def.Name,
		target:    def.Target,
		newModel:  func(w Widget) Model { return newModel(w) },
		newFinder: def.Finder,
	}
	r.byType[t] = e
	r.byName[def.Name] = e
	return nil
}

// MustRegister is like Register but panics on error.
func MustRegister[W Model](r *Registry, def Definition[W]) {
	if err := Register(r, def); err != nil {
		panic(err)
	}
}

// Retarget replaces the target declared for the model name.
func (r *Registry) Retarget(name string, target Target) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return ErrRegistrySealed.with(name, "", nil)
	}
	e, ok := r.byName[name]
	if !ok {
		return ErrNotRegistered.with(name, "", nil)
	}
	e.target = target
	return nil
}

// Seal makes the registry read-only.
func (r *Registry) Seal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sealed = true
}

// Sealed reports whether Seal was called.
func (r *Registry) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}

// Lookup returns the declaration registered under name.
func (r *Registry) Lookup(name string) (Declaration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byName[name]
	if !ok {
		return Declaration{}, false
	}
	return e.declaration(), true
}

// Declarations returns all registered models sorted by name.
func (r *Registry) Declarations() []Declaration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	decls := make([]Declaration, 0, len(r.byName))
	for _, e := range r.byName {
		decls = append(decls, e.declaration())
	}
	sort.Slice(decls, func(i, j int) bool {
		return decls[i].Name < decls[j].Name
	})
	return decls
}

func (e *entry) declaration() Declaration {
	return Declaration{
		Name:      e.name,
		Target:    e.target,
		HasFinder: e.newFinder != nil,
	}
}

func (r *Registry) entryFor(t reflect.Type) (entry, error) {
	if r == nil {
		return entry{}, ErrNilReference.withMessage("widget has no registry")
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byType[t]
	if !ok {
		return entry{}, ErrNotRegistered.with(t.String(), "", nil)
	}
	return *e, nil
}

func (r *Registry) entryNamed(name string) (entry, error) {
	if r == nil {
		return entry{}, ErrNilReference.withMessage("widget has no registry")
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byName[name]
	if !ok {
		return entry{}, ErrNotRegistered.with(name, "", nil)
	}
	return *e, nil
}

func (r *Registry) checkerFor(driver webdriver.WebDriver) InstanceChecker {
	return r.checker(driver)
}

func typeOf[W any]() reflect.Type {
	return reflect.TypeOf((*W)(nil)).Elem()
}
