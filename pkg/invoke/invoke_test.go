package invoke

import (
	"errors"
	"strings"
	"testing"

	"github.com/devicelab-dev/gwt-driver/pkg/driver/mock"
	"github.com/devicelab-dev/gwt-driver/pkg/webdriver"
)

const labelClass = "com.google.gwt.user.client.ui.Label"

// scriptDriver returns a fixed script result.
type scriptDriver struct {
	result interface{}
	err    error
	script string
	args   []interface{}
}

func (s *scriptDriver) FindElement(webdriver.By, string) (webdriver.WebElement, error) {
	return nil, errors.New("not supported")
}

func (s *scriptDriver) FindElements(webdriver.By, string) ([]webdriver.WebElement, error) {
	return nil, errors.New("not supported")
}

func (s *scriptDriver) ExecuteScript(script string, args ...interface{}) (interface{}, error) {
	s.script = script
	s.args = args
	return s.result, s.err
}

func newPage(cfg mock.Config) *mock.Driver {
	d := mock.New(cfg)
	d.Add("", &mock.Node{ID: "label", Text: "Hello", Widget: []string{labelClass, "com.google.gwt.user.client.ui.Widget"}})
	d.Add("label", &mock.Node{ID: "inner"})
	d.Add("", &mock.Node{ID: "plain"})
	return d
}

func TestInstanceOfWidget_Page(t *testing.T) {
	d := newPage(mock.Config{})
	m := New(d)

	tests := []struct {
		id    string
		class string
		want  bool
	}{
		{"label", labelClass, true},
		{"label", "com.google.gwt.user.client.ui.Widget", true},
		{"label", "com.google.gwt.user.client.ui.Button", false},
		{"inner", labelClass, true},
		{"plain", labelClass, false},
	}

	for _, tt := range tests {
		got, err := m.InstanceOfWidget(d.Element(tt.id), tt.class)
		if err != nil {
			t.Errorf("InstanceOfWidget(%s, %s) error: %v", tt.id, tt.class, err)
			continue
		}
		if got != tt.want {
			t.Errorf("InstanceOfWidget(%s, %s) = %v, want %v", tt.id, tt.class, got, tt.want)
		}
	}
}

func TestInstanceOfWidget_NotExported(t *testing.T) {
	d := newPage(mock.Config{Unexported: true})

	_, err := New(d).InstanceOfWidget(d.Element("label"), labelClass)
	if err == nil {
		t.Fatal("expected error when client methods are not exported")
	}
	if !webdriver.IsJavascriptError(err) {
		t.Errorf("expected javascript error, got %v", err)
	}
	if !strings.Contains(err.Error(), "invoke instanceofwidget") {
		t.Errorf("error should name the method, got %q", err.Error())
	}
}

func TestInstanceOfWidget_ResultForms(t *testing.T) {
	tests := []struct {
		result  interface{}
		want    bool
		wantErr bool
	}{
		{true, true, false},
		{false, false, false},
		{"true", true, false},
		{"false", false, false},
		{"TRUE", false, true},
		{nil, false, true},
		{float64(1), false, true},
	}

	for _, tt := range tests {
		d := &scriptDriver{result: tt.result}
		got, err := New(d).InstanceOfWidget(nil, labelClass)
		if (err != nil) != tt.wantErr {
			t.Errorf("result %#v: err = %v, wantErr %v", tt.result, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("result %#v: got %v, want %v", tt.result, got, tt.want)
		}
	}
}

func TestInvoke_PassesMethodAndArgs(t *testing.T) {
	d := &scriptDriver{result: "ok"}

	if _, err := New(d).Invoke("custom", "a", 2); err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if d.script != invokeScript {
		t.Error("Invoke should run the dispatch script")
	}
	if len(d.args) != 3 || d.args[0] != "custom" || d.args[1] != "a" || d.args[2] != 2 {
		t.Errorf("args = %v", d.args)
	}
}

func TestInvoke_DriverError(t *testing.T) {
	cause := errors.New("connection refused")
	d := &scriptDriver{err: cause}

	_, err := New(d).Invoke(MethodInstanceOfWidget)
	if !errors.Is(err, cause) {
		t.Errorf("error should wrap cause, got %v", err)
	}
}

func TestContainingWidgetClass(t *testing.T) {
	d := newPage(mock.Config{})
	m := New(d)

	class, err := m.ContainingWidgetClass(d.Element("inner"))
	if err != nil {
		t.Fatalf("ContainingWidgetClass failed: %v", err)
	}
	if class != labelClass {
		t.Errorf("class = %s, want %s", class, labelClass)
	}

	if _, err := m.ContainingWidgetClass(d.Element("plain")); err == nil {
		t.Error("expected error for element outside any widget")
	}
}

func TestContainingWidget(t *testing.T) {
	d := newPage(mock.Config{})

	el, err := New(d).ContainingWidget(d.Element("inner"))
	if err != nil {
		t.Fatalf("ContainingWidget failed: %v", err)
	}
	if el.ID() != "label" {
		t.Errorf("ContainingWidget(inner) = %s, want label", el.ID())
	}

	if _, err := New(d).ContainingWidget(d.Element("plain")); err == nil {
		t.Error("expected error for element outside any widget")
	}
}
