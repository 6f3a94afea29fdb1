package webdriver

// Element is a WebElement backed by a Client session.
type Element struct {
	client *Client
	id     string
}

// ID returns the WebDriver element reference.
func (e *Element) ID() string {
	return e.id
}

// FindElement finds the first matching descendant.
func (e *Element) FindElement(by By, value string) (WebElement, error) {
	return e.client.findElement(e.path(), by, value)
}

// FindElements finds all matching descendants.
func (e *Element) FindElements(by By, value string) ([]WebElement, error) {
	return e.client.findElements(e.path(), by, value)
}

// Click clicks the element.
func (e *Element) Click() error {
	_, err := e.client.post(e.path()+"/click", nil)
	return err
}

// Clear clears an editable element.
func (e *Element) Clear() error {
	_, err := e.client.post(e.path()+"/clear", nil)
	return err
}

// SendKeys types text into the element.
func (e *Element) SendKeys(text string) error {
	_, err := e.client.post(e.path()+"/value", map[string]interface{}{
		"text": text,
	})
	return err
}

// Text returns the element's rendered text.
func (e *Element) Text() (string, error) {
	return e.client.getString(e.path() + "/text")
}

// Attribute returns an attribute value, or "" when absent.
func (e *Element) Attribute(name string) (string, error) {
	return e.client.getString(e.path() + "/attribute/" + name)
}

// IsDisplayed checks if element is visible.
func (e *Element) IsDisplayed() (bool, error) {
	resp, err := e.client.get(e.path() + "/displayed")
	if err != nil {
		return false, err
	}
	displayed, _ := resp["value"].(bool)
	return displayed, nil
}

func (e *Element) path() string {
	return e.client.elementPath(e.id)
}
