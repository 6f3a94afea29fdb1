package widgets

import (
	"github.com/devicelab-dev/gwt-driver/pkg/widget"
)

// Label is a gwt-Label text widget.
type Label struct {
	widget.Widget
}

// Text returns the label text.
func (l Label) Text() (string, error) {
	return l.Element().Text()
}

// LabelFinder finds a Label, optionally by its exact text.
type LabelFinder struct {
	widget.FinderBase
	text    string
	hasText bool
}

// WithText matches labels whose text is exactly text.
func (f *LabelFinder) WithText(text string) *LabelFinder {
	f.text = text
	f.hasText = true
	return f
}

// Done locates the label.
func (f *LabelFinder) Done() (Label, error) {
	el, err := locateByText(&f.FinderBase, "div", "gwt-Label", f.text, f.hasText)
	if err != nil {
		return Label{}, err
	}
	return widget.New[Label](f.Registry(), f.Driver(), el)
}
