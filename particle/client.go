package particle

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultBaseURL is the Particle cloud
	DefaultBaseURL = "https://api.particle.io"
	DefaultTimeout = 10 * time.Second
)

// Client talks to the Particle cloud on behalf of any number of devices;
// credentials are passed on each call.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        logrus.FieldLogger
}

// NewClient returns a client; zero values select the defaults
func NewClient(baseURL string, timeout time.Duration, log logrus.FieldLogger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// APIError is a non-2xx response from the cloud. Offline devices, bad tokens
// and unknown variables all arrive as one of these.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("particle: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("particle: HTTP %d: %s", e.StatusCode, e.Message)
}

// these are minimal versions of just what we need here
type varResponse struct {
	Cmd      string          `json:"cmd"`
	Name     string          `json:"name"`
	Result   json.RawMessage `json:"result"`
	CoreInfo coreInfo        `json:"coreInfo"`
}

type coreInfo struct {
	LastHeard string `json:"last_heard"`
	Connected bool   `json:"connected"`
	DeviceID  string `json:"deviceID"`
	ProductID int    `json:"product_id"`
}

type fnResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Connected   bool   `json:"connected"`
	ReturnValue int    `json:"return_value"`
}

type errResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Info             string `json:"info"`
}

// GetVariable reads a device variable and returns the undecoded result field
func (c *Client) GetVariable(ctx context.Context, deviceID, accessToken, name string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.deviceURL(deviceID, name), nil)
	if err != nil {
		return nil, err
	}

	body, err := c.do(req, accessToken, deviceID, name)
	if err != nil {
		return nil, err
	}

	var r varResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("particle: decoding variable %s: %w", name, err)
	}
	if len(r.Result) == 0 {
		return nil, fmt.Errorf("particle: variable %s: empty result", name)
	}
	return r.Result, nil
}

// CallFunction invokes a device function with a single string argument
func (c *Client) CallFunction(ctx context.Context, deviceID, accessToken, name, argument string) (int, error) {
	form := url.Values{}
	form.Set("arg", argument)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.deviceURL(deviceID, name), strings.NewReader(form.Encode()))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, err := c.do(req, accessToken, deviceID, name)
	if err != nil {
		return 0, err
	}

	var r fnResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return 0, fmt.Errorf("particle: decoding function %s: %w", name, err)
	}
	return r.ReturnValue, nil
}

func (c *Client) deviceURL(deviceID, name string) string {
	return fmt.Sprintf("%s/v1/devices/%s/%s", c.baseURL, url.PathEscape(deviceID), url.PathEscape(name))
}

func (c *Client) do(req *http.Request, accessToken, deviceID, name string) ([]byte, error) {
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	l := c.log.WithFields(logrus.Fields{"device": deviceID, "name": name, "method": req.Method})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		l.WithError(err).Debug("request failed")
		return nil, fmt.Errorf("particle: %s %s: %w", req.Method, name, err)
	}
	defer resp.Body.Close()

	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	l.WithField("status", resp.StatusCode).Debug("particle response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var e errResponse
		if json.Unmarshal(body, &e) == nil {
			switch {
			case e.ErrorDescription != "":
				apiErr.Message = e.ErrorDescription
			case e.Error != "":
				apiErr.Message = e.Error
			default:
				apiErr.Message = e.Info
			}
		}
		return nil, apiErr
	}
	return body, nil
}
