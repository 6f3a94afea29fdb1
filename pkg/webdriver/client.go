package webdriver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/devicelab-dev/gwt-driver/pkg/logger"
)

// W3C WebDriver element identifier key (standard constant)
const w3cElementKey = "element-6066-11e4-a52e-4f735466cecf"

// Client handles HTTP communication with a WebDriver server.
type Client struct {
	serverURL string
	sessionID string
	client    *http.Client
	browser   string
}

// NewClient creates a new WebDriver client.
func NewClient(serverURL string) *Client {
	return &Client{
		serverURL: strings.TrimSuffix(serverURL, "/"),
		client: &http.Client{
			Timeout: 2 * time.Minute,
		},
	}
}

// Connect creates a new session with the given capabilities.
func (c *Client) Connect(capabilities map[string]interface{}) error {
	body := map[string]interface{}{
		"capabilities": map[string]interface{}{
			"alwaysMatch": capabilities,
		},
	}

	resp, err := c.post("/session", body)
	if err != nil {
		return errors.Wrap(err, "failed to create session")
	}

	value, ok := resp["value"].(map[string]interface{})
	if !ok {
		return errors.New("invalid session response")
	}

	c.sessionID, _ = value["sessionId"].(string)
	if c.sessionID == "" {
		return errors.New("no session ID in response")
	}

	if caps, ok := value["capabilities"].(map[string]interface{}); ok {
		if name, ok := caps["browserName"].(string); ok {
			c.browser = strings.ToLower(name)
		}
	}

	logger.Info("webdriver session %s created (browser=%s)", c.sessionID, c.browser)
	return nil
}

// Disconnect closes the session.
func (c *Client) Disconnect() error {
	if c.sessionID == "" {
		return nil
	}
	_, err := c.delete(c.sessionPath())
	logger.Info("webdriver session %s closed", c.sessionID)
	c.sessionID = ""
	return err
}

// SessionID returns the active session ID, or "" when not connected.
func (c *Client) SessionID() string {
	return c.sessionID
}

// Browser returns the browser name reported by the server.
func (c *Client) Browser() string {
	return c.browser
}

// Navigation

// Get navigates the session to url.
func (c *Client) Get(url string) error {
	_, err := c.post(c.sessionPath()+"/url", map[string]interface{}{
		"url": url,
	})
	return err
}

// CurrentURL returns the URL of the current page.
func (c *Client) CurrentURL() (string, error) {
	return c.getString(c.sessionPath() + "/url")
}

// Title returns the title of the current page.
func (c *Client) Title() (string, error) {
	return c.getString(c.sessionPath() + "/title")
}

// Source returns the page source.
func (c *Client) Source() (string, error) {
	return c.getString(c.sessionPath() + "/source")
}

// SetImplicitWait sets the implicit wait timeout.
func (c *Client) SetImplicitWait(timeout time.Duration) error {
	_, err := c.post(c.sessionPath()+"/timeouts", map[string]interface{}{
		"implicit": timeout.Milliseconds(),
	})
	return err
}

// Element Operations

// FindElement finds a single element on the page.
func (c *Client) FindElement(by By, value string) (WebElement, error) {
	return c.findElement(c.sessionPath(), by, value)
}

// FindElements finds all matching elements on the page.
func (c *Client) FindElements(by By, value string) ([]WebElement, error) {
	return c.findElements(c.sessionPath(), by, value)
}

func (c *Client) findElement(base string, by By, value string) (WebElement, error) {
	body := map[string]interface{}{
		"using": string(by),
		"value": value,
	}

	resp, err := c.post(base+"/element", body)
	if err != nil {
		return nil, err
	}

	elemValue, ok := resp["value"].(map[string]interface{})
	if !ok {
		return nil, &Error{Code: CodeNoSuchElement, Message: fmt.Sprintf("%s %q", by, value)}
	}

	id := extractElementID(elemValue)
	if id == "" {
		return nil, &Error{Code: CodeNoSuchElement, Message: fmt.Sprintf("%s %q", by, value)}
	}
	return &Element{client: c, id: id}, nil
}

func (c *Client) findElements(base string, by By, value string) ([]WebElement, error) {
	body := map[string]interface{}{
		"using": string(by),
		"value": value,
	}

	resp, err := c.post(base+"/elements", body)
	if err != nil {
		return nil, err
	}

	values, ok := resp["value"].([]interface{})
	if !ok {
		return nil, nil
	}

	var elems []WebElement
	for _, v := range values {
		if ref, ok := v.(map[string]interface{}); ok {
			if id := extractElementID(ref); id != "" {
				elems = append(elems, &Element{client: c, id: id})
			}
		}
	}
	return elems, nil
}

// Scripts

// ExecuteScript runs a synchronous script in the page.
func (c *Client) ExecuteScript(script string, args ...interface{}) (interface{}, error) {
	if args == nil {
		args = []interface{}{}
	}
	resp, err := c.post(c.sessionPath()+"/execute/sync", map[string]interface{}{
		"script": script,
		"args":   c.marshalArgs(args),
	})
	if err != nil {
		return nil, err
	}
	return c.unmarshalValue(resp["value"]), nil
}

// marshalArgs replaces WebElement values with W3C element references.
func (c *Client) marshalArgs(args []interface{}) []interface{} {
	out := make([]interface{}, len(args))
	for i, arg := range args {
		switch v := arg.(type) {
		case WebElement:
			out[i] = map[string]interface{}{w3cElementKey: v.ID()}
		case []interface{}:
			out[i] = c.marshalArgs(v)
		default:
			out[i] = arg
		}
	}
	return out
}

// unmarshalValue turns element references in a script result into elements.
func (c *Client) unmarshalValue(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		if id := extractElementID(v); id != "" && len(v) == 1 {
			return &Element{client: c, id: id}
		}
		for k, item := range v {
			v[k] = c.unmarshalValue(item)
		}
		return v
	case []interface{}:
		for i, item := range v {
			v[i] = c.unmarshalValue(item)
		}
		return v
	default:
		return value
	}
}

// HTTP Helpers

func (c *Client) sessionPath() string {
	return "/session/" + c.sessionID
}

func (c *Client) elementPath(elementID string) string {
	return c.sessionPath() + "/element/" + elementID
}

func (c *Client) getString(path string) (string, error) {
	resp, err := c.get(path)
	if err != nil {
		return "", err
	}
	value, _ := resp["value"].(string)
	return value, nil
}

func (c *Client) get(path string) (map[string]interface{}, error) {
	return c.request("GET", path, nil)
}

func (c *Client) post(path string, body interface{}) (map[string]interface{}, error) {
	if body == nil {
		body = map[string]interface{}{}
	}
	return c.request("POST", path, body)
}

func (c *Client) delete(path string) (map[string]interface{}, error) {
	return c.request("DELETE", path, nil)
}

func (c *Client) request(method, path string, body interface{}) (map[string]interface{}, error) {
	url := c.serverURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	logger.Debug("webdriver %s %s", method, path)
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var result map[string]interface{}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, errors.Wrapf(err, "failed to parse response (HTTP %d)", resp.StatusCode)
	}

	// Check for WebDriver error
	if errValue, ok := result["value"].(map[string]interface{}); ok {
		if errType, ok := errValue["error"].(string); ok {
			msg, _ := errValue["message"].(string)
			return result, &Error{Code: errType, Message: msg}
		}
	}

	return result, nil
}

func extractElementID(value map[string]interface{}) string {
	// W3C format
	if id, ok := value[w3cElementKey].(string); ok {
		return id
	}
	// Legacy format
	if id, ok := value["ELEMENT"].(string); ok {
		return id
	}
	return ""
}
