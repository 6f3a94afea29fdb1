// Package mock provides an in-memory WebDriver for testing widget models
// without a browser.
package mock

import (
	"fmt"
	"strings"

	"github.com/dop251/goja"

	"github.com/devicelab-dev/gwt-driver/pkg/webdriver"
)

// elementKey marks element references inside the script VM.
const elementKey = "__mockElementId"

// Node is an element on the mock page.
type Node struct {
	ID         string
	Text       string
	Attributes map[string]string

	// Widget is the GWT class chain of the widget rooted at this node, most
	// specific first. Empty for plain DOM nodes.
	Widget []string

	// Clicks counts Click calls.
	Clicks int

	parent *Node
}

// Parent returns the enclosing node, or nil for page-level nodes.
func (n *Node) Parent() *Node {
	return n.parent
}

// Config configures mock driver behavior.
type Config struct {
	// Unexported leaves window.gwtdriver undefined, as on a page whose GWT
	// module does not export client methods.
	Unexported bool
	// ScriptError makes every ExecuteScript call fail with this error.
	ScriptError error
}

type route struct {
	scope string
	by    webdriver.By
	value string
}

// Driver is an in-memory implementation of webdriver.WebDriver.
type Driver struct {
	Config Config

	nodes       map[string]*Node
	routes      map[route][]string
	scriptCalls int
}

// New creates a new mock driver with an empty page.
func New(cfg Config) *Driver {
	return &Driver{
		Config: cfg,
		nodes:  make(map[string]*Node),
		routes: make(map[route][]string),
	}
}

// Add places n on the page under the node parentID ("" for top level).
func (d *Driver) Add(parentID string, n *Node) *Node {
	if parentID != "" {
		n.parent = d.nodes[parentID]
	}
	if n.Attributes == nil {
		n.Attributes = make(map[string]string)
	}
	d.nodes[n.ID] = n
	return n
}

// Node returns the node with the given ID.
func (d *Driver) Node(id string) *Node {
	return d.nodes[id]
}

// Route makes a lookup by (by, value) scoped to scopeID ("" for the page)
// return the nodes ids, in order.
func (d *Driver) Route(scopeID string, by webdriver.By, value string, ids ...string) {
	d.routes[route{scope: scopeID, by: by, value: value}] = ids
}

// Element returns a reference to the node id.
func (d *Driver) Element(id string) webdriver.WebElement {
	n, ok := d.nodes[id]
	if !ok {
		return nil
	}
	return &Element{driver: d, node: n}
}

// ScriptCalls returns how many scripts were executed.
func (d *Driver) ScriptCalls() int {
	return d.scriptCalls
}

// FindElement finds a single element on the page.
func (d *Driver) FindElement(by webdriver.By, value string) (webdriver.WebElement, error) {
	return d.find("", by, value)
}

// FindElements finds all matching elements on the page.
func (d *Driver) FindElements(by webdriver.By, value string) ([]webdriver.WebElement, error) {
	return d.findAll("", by, value), nil
}

func (d *Driver) find(scope string, by webdriver.By, value string) (webdriver.WebElement, error) {
	elems := d.findAll(scope, by, value)
	if len(elems) == 0 {
		return nil, &webdriver.Error{
			Code:    webdriver.CodeNoSuchElement,
			Message: fmt.Sprintf("%s %q", by, value),
		}
	}
	return elems[0], nil
}

func (d *Driver) findAll(scope string, by webdriver.By, value string) []webdriver.WebElement {
	var elems []webdriver.WebElement
	for _, id := range d.routes[route{scope: scope, by: by, value: value}] {
		if n, ok := d.nodes[id]; ok {
			elems = append(elems, &Element{driver: d, node: n})
		}
	}
	return elems
}

// ExecuteScript runs script as a function body in a fresh JavaScript VM
// whose window exposes the gwtdriver client methods.
func (d *Driver) ExecuteScript(script string, args ...interface{}) (interface{}, error) {
	d.scriptCalls++
	if d.Config.ScriptError != nil {
		return nil, d.Config.ScriptError
	}

	vm := goja.New()
	window := vm.NewObject()
	if !d.Config.Unexported {
		if err := window.Set("gwtdriver", d.exports(vm)); err != nil {
			return nil, err
		}
	}
	if err := vm.Set("window", window); err != nil {
		return nil, err
	}

	fnValue, err := vm.RunString("(function() {\n" + script + "\n})")
	if err != nil {
		return nil, scriptError(err)
	}
	fn, ok := goja.AssertFunction(fnValue)
	if !ok {
		return nil, scriptError(fmt.Errorf("script is not a function body"))
	}

	jsArgs := make([]goja.Value, len(args))
	for i, arg := range args {
		if el, ok := arg.(webdriver.WebElement); ok {
			jsArgs[i] = d.toJS(vm, el.ID())
			continue
		}
		jsArgs[i] = vm.ToValue(arg)
	}

	result, err := fn(goja.Undefined(), jsArgs...)
	if err != nil {
		return nil, scriptError(err)
	}
	return d.fromJS(result.Export()), nil
}

func scriptError(err error) error {
	return &webdriver.Error{Code: webdriver.CodeJavascriptError, Message: err.Error()}
}

// exports builds window.gwtdriver.
func (d *Driver) exports(vm *goja.Runtime) *goja.Object {
	methods := vm.NewObject()

	methods.Set("instanceofwidget", func(call goja.FunctionCall) goja.Value {
		n := d.nodeArg(vm, call.Argument(0))
		name := call.Argument(1).String()
		w := containingWidget(n)
		if w == nil {
			return vm.ToValue("false")
		}
		for _, class := range w.Widget {
			if class == name {
				return vm.ToValue("true")
			}
		}
		return vm.ToValue("false")
	})

	methods.Set("getContainingWidgetClass", func(call goja.FunctionCall) goja.Value {
		w := containingWidget(d.nodeArg(vm, call.Argument(0)))
		if w == nil {
			return goja.Null()
		}
		return vm.ToValue(w.Widget[0])
	})

	methods.Set("getContainingWidget", func(call goja.FunctionCall) goja.Value {
		w := containingWidget(d.nodeArg(vm, call.Argument(0)))
		if w == nil {
			return goja.Null()
		}
		return d.toJS(vm, w.ID)
	})

	return methods
}

func (d *Driver) nodeArg(vm *goja.Runtime, v goja.Value) *Node {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		panic(vm.NewTypeError("element argument required"))
	}
	ref := v.ToObject(vm).Get(elementKey)
	if ref == nil || goja.IsUndefined(ref) {
		panic(vm.NewTypeError("argument is not an element"))
	}
	n, ok := d.nodes[ref.String()]
	if !ok {
		panic(vm.NewTypeError("stale element reference: " + ref.String()))
	}
	return n
}

func (d *Driver) toJS(vm *goja.Runtime, id string) goja.Value {
	obj := vm.NewObject()
	obj.Set(elementKey, id)
	return obj
}

func (d *Driver) fromJS(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		if id, ok := v[elementKey].(string); ok {
			if n, ok := d.nodes[id]; ok {
				return &Element{driver: d, node: n}
			}
		}
		for k, item := range v {
			v[k] = d.fromJS(item)
		}
		return v
	case []interface{}:
		for i, item := range v {
			v[i] = d.fromJS(item)
		}
		return v
	default:
		return value
	}
}

func containingWidget(n *Node) *Node {
	for ; n != nil; n = n.parent {
		if len(n.Widget) > 0 {
			return n
		}
	}
	return nil
}

// EvalLiteral evaluates an XPath string literal or concat() of literals and
// returns the string it denotes.
func EvalLiteral(expr string) (string, error) {
	// XPath literals have no escapes; JavaScript ones do.
	if strings.Contains(expr, `\`) {
		return "", fmt.Errorf("backslashes are not supported: %s", expr)
	}

	vm := goja.New()
	vm.Set("concat", func(call goja.FunctionCall) goja.Value {
		var sb strings.Builder
		for _, arg := range call.Arguments {
			sb.WriteString(arg.String())
		}
		return vm.ToValue(sb.String())
	})

	v, err := vm.RunString(expr)
	if err != nil {
		return "", err
	}
	s, ok := v.Export().(string)
	if !ok {
		return "", fmt.Errorf("not a string expression: %s", expr)
	}
	return s, nil
}

// Element is a reference to a node on the mock page.
type Element struct {
	driver *Driver
	node   *Node
}

// ID returns the node ID.
func (e *Element) ID() string {
	return e.node.ID
}

// FindElement finds a descendant routed under this element.
func (e *Element) FindElement(by webdriver.By, value string) (webdriver.WebElement, error) {
	return e.driver.find(e.node.ID, by, value)
}

// FindElements finds all descendants routed under this element.
func (e *Element) FindElements(by webdriver.By, value string) ([]webdriver.WebElement, error) {
	return e.driver.findAll(e.node.ID, by, value), nil
}

// Click records a click.
func (e *Element) Click() error {
	e.node.Clicks++
	return nil
}

// Clear empties the node text.
func (e *Element) Clear() error {
	e.node.Text = ""
	return nil
}

// SendKeys appends text to the node text.
func (e *Element) SendKeys(text string) error {
	e.node.Text += text
	return nil
}

// Text returns the node text.
func (e *Element) Text() (string, error) {
	return e.node.Text, nil
}

// Attribute returns an attribute value, or "" when absent.
func (e *Element) Attribute(name string) (string, error) {
	return e.node.Attributes[name], nil
}

// IsDisplayed always reports true.
func (e *Element) IsDisplayed() (bool, error) {
	return true, nil
}
