package widgets

import (
	"github.com/devicelab-dev/gwt-driver/pkg/widget"
)

// Button is a gwt-Button.
type Button struct {
	widget.Widget
}

// Text returns the button caption.
func (b Button) Text() (string, error) {
	return b.Element().Text()
}

// Click clicks the button.
func (b Button) Click() error {
	return b.Element().Click()
}

// ButtonFinder finds a Button, optionally by its caption.
type ButtonFinder struct {
	widget.FinderBase
	text    string
	hasText bool
}

// WithText matches buttons whose caption is exactly text.
func (f *ButtonFinder) WithText(text string) *ButtonFinder {
	f.text = text
	f.hasText = true
	return f
}

// Done locates the button.
func (f *ButtonFinder) Done() (Button, error) {
	el, err := locateByText(&f.FinderBase, "button", "gwt-Button", f.text, f.hasText)
	if err != nil {
		return Button{}, err
	}
	return widget.New[Button](f.Registry(), f.Driver(), el)
}
