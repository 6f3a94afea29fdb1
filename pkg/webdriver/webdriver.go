// Package webdriver implements a minimal W3C WebDriver client and the
// driver/element capabilities that widget models are bound to.
package webdriver

import (
	"fmt"

	"github.com/pkg/errors"
)

// By is a W3C element location strategy.
type By string

// Location strategies defined by the W3C WebDriver specification.
const (
	ByCSSSelector     By = "css selector"
	ByXPath           By = "xpath"
	ByTagName         By = "tag name"
	ByLinkText        By = "link text"
	ByPartialLinkText By = "partial link text"
)

// WebDriver is the session-level capability: locating elements on the whole
// page and running scripts in the page.
type WebDriver interface {
	FindElement(by By, value string) (WebElement, error)
	FindElements(by By, value string) ([]WebElement, error)

	// ExecuteScript runs script as the body of a function. WebElement values
	// in args are passed as element references, and element references in the
	// result come back as WebElement.
	ExecuteScript(script string, args ...interface{}) (interface{}, error)
}

// WebElement is a reference to a located page element.
type WebElement interface {
	ID() string

	// FindElement and FindElements search the element's descendants.
	FindElement(by By, value string) (WebElement, error)
	FindElements(by By, value string) ([]WebElement, error)

	Click() error
	Clear() error
	SendKeys(text string) error
	Text() (string, error)
	Attribute(name string) (string, error)
	IsDisplayed() (bool, error)
}

// Error codes from the W3C WebDriver error table used by this package.
const (
	CodeNoSuchElement    = "no such element"
	CodeJavascriptError  = "javascript error"
	CodeStaleElement     = "stale element reference"
	CodeInvalidSelector  = "invalid selector"
	CodeInvalidSessionID = "invalid session id"
)

// Error is an error response returned by a WebDriver endpoint.
type Error struct {
	Code    string // W3C error code, e.g. "no such element"
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsNoSuchElement reports whether err is a "no such element" response.
func IsNoSuchElement(err error) bool {
	return hasCode(err, CodeNoSuchElement)
}

// IsJavascriptError reports whether err is a script failure raised in the page.
func IsJavascriptError(err error) bool {
	return hasCode(err, CodeJavascriptError)
}

func hasCode(err error, code string) bool {
	var wdErr *Error
	if errors.As(err, &wdErr) {
		return wdErr.Code == code
	}
	return false
}
