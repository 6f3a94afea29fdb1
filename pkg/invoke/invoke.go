// Package invoke calls the methods a GWT module exports to the page for
// test drivers. The module publishes them as functions on window.gwtdriver.
package invoke

import (
	"github.com/pkg/errors"

	"github.com/devicelab-dev/gwt-driver/pkg/logger"
	"github.com/devicelab-dev/gwt-driver/pkg/webdriver"
)

// Exported client method names.
const (
	MethodInstanceOfWidget      = "instanceofwidget"
	MethodContainingWidgetClass = "getContainingWidgetClass"
	MethodContainingWidget      = "getContainingWidget"
)

// invokeScript dispatches arguments[0] to window.gwtdriver with the
// remaining arguments.
const invokeScript = `var methods = window.gwtdriver;
var name = arguments[0];
if (!methods || typeof methods[name] !== 'function') {
	throw new Error('gwtdriver method not exported: ' + name);
}
return methods[name].apply(methods, Array.prototype.slice.call(arguments, 1));`

// ClientMethods invokes exported client methods through a WebDriver session.
type ClientMethods struct {
	driver webdriver.WebDriver
}

// New returns client methods bound to driver.
func New(driver webdriver.WebDriver) *ClientMethods {
	return &ClientMethods{driver: driver}
}

// Invoke calls the exported method with args and returns its raw result.
func (m *ClientMethods) Invoke(method string, args ...interface{}) (interface{}, error) {
	callArgs := append([]interface{}{method}, args...)
	result, err := m.driver.ExecuteScript(invokeScript, callArgs...)
	if err != nil {
		return nil, errors.Wrapf(err, "invoke %s", method)
	}
	logger.Debug("invoke %s -> %v", method, result)
	return result, nil
}

// InstanceOfWidget asks the page whether the widget owning el is an
// instance of the GWT class typeName. A false result is a confirmed
// mismatch; an error means the answer could not be determined.
func (m *ClientMethods) InstanceOfWidget(el webdriver.WebElement, typeName string) (bool, error) {
	result, err := m.Invoke(MethodInstanceOfWidget, el, typeName)
	if err != nil {
		return false, err
	}
	return parseBool(MethodInstanceOfWidget, result)
}

// ContainingWidgetClass returns the GWT class name of the widget owning el.
func (m *ClientMethods) ContainingWidgetClass(el webdriver.WebElement) (string, error) {
	result, err := m.Invoke(MethodContainingWidgetClass, el)
	if err != nil {
		return "", err
	}
	switch v := result.(type) {
	case string:
		return v, nil
	case nil:
		return "", errors.Errorf("%s: element is not inside a widget", MethodContainingWidgetClass)
	default:
		return "", errors.Errorf("%s: unexpected result %T", MethodContainingWidgetClass, result)
	}
}

// ContainingWidget returns the root element of the widget owning el.
func (m *ClientMethods) ContainingWidget(el webdriver.WebElement) (webdriver.WebElement, error) {
	result, err := m.Invoke(MethodContainingWidget, el)
	if err != nil {
		return nil, err
	}
	widgetEl, ok := result.(webdriver.WebElement)
	if !ok {
		return nil, errors.Errorf("%s: unexpected result %T", MethodContainingWidget, result)
	}
	return widgetEl, nil
}

// parseBool accepts JS booleans and the "true"/"false" strings older
// exported methods return.
func parseBool(method string, result interface{}) (bool, error) {
	switch v := result.(type) {
	case bool:
		return v, nil
	case string:
		switch v {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
	}
	return false, errors.Errorf("%s: unexpected result %#v", method, result)
}
