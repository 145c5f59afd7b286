// Package testutil provides an HTTP client and assertion helpers for testing
// the invitation site end to end against an httptest server.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

// Client issues requests against a test server and fails the test on
// transport errors.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	t          *testing.T
}

// NewClient creates a client pointed at a test server.
func NewClient(t *testing.T, server *httptest.Server) *Client {
	return &Client{
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
		t:          t,
	}
}

// Response wraps an HTTP response with helper methods.
type Response struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
	t          *testing.T
}

// JSON unmarshals the response body into v.
func (r *Response) JSON(v any) {
	r.t.Helper()
	if err := json.Unmarshal(r.Body, v); err != nil {
		r.t.Fatalf("failed to unmarshal response: %v\nbody: %s", err, string(r.Body))
	}
}

// JSONMap returns the response body as a map.
func (r *Response) JSONMap() map[string]any {
	r.t.Helper()
	var m map[string]any
	r.JSON(&m)
	return m
}

// JSONString returns the response body decoded as a JSON string.
func (r *Response) JSONString() string {
	r.t.Helper()
	var s string
	r.JSON(&s)
	return s
}

// AssertStatus asserts the response has the expected status code.
func (r *Response) AssertStatus(expected int) *Response {
	r.t.Helper()
	if r.StatusCode != expected {
		r.t.Errorf("expected status %d, got %d\nbody: %s", expected, r.StatusCode, string(r.Body))
	}
	return r
}

// AssertBodyContains asserts the response body contains the given substring.
func (r *Response) AssertBodyContains(substr string) *Response {
	r.t.Helper()
	if !strings.Contains(string(r.Body), substr) {
		r.t.Errorf("expected body to contain %q, got: %s", substr, string(r.Body))
	}
	return r
}

// AssertBodyNotContains asserts the response body does not contain substr.
func (r *Response) AssertBodyNotContains(substr string) *Response {
	r.t.Helper()
	if strings.Contains(string(r.Body), substr) {
		r.t.Errorf("expected body not to contain %q, got: %s", substr, string(r.Body))
	}
	return r
}

// Get performs a GET request. path is sent as-is, so escapes survive.
func (c *Client) Get(path string) *Response {
	c.t.Helper()
	return c.do(http.MethodGet, path, nil, "")
}

// Head performs a HEAD request.
func (c *Client) Head(path string) *Response {
	c.t.Helper()
	return c.do(http.MethodHead, path, nil, "")
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(path string, body any) *Response {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			c.t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	return c.do(http.MethodPost, path, reader, "application/json")
}

// PostForm performs a POST request with a form-encoded body.
func (c *Client) PostForm(path string, values url.Values) *Response {
	c.t.Helper()
	return c.do(http.MethodPost, path, strings.NewReader(values.Encode()), "application/x-www-form-urlencoded")
}

// PostRaw performs a POST request with a raw body and content type.
func (c *Client) PostRaw(path, contentType, body string) *Response {
	c.t.Helper()
	return c.do(http.MethodPost, path, strings.NewReader(body), contentType)
}

func (c *Client) do(method, path string, body io.Reader, contentType string) *Response {
	c.t.Helper()

	req, err := http.NewRequest(method, c.BaseURL+path, body)
	if err != nil {
		c.t.Fatalf("failed to create request: %v", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.t.Fatalf("failed to read response: %v", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       respBody,
		Headers:    resp.Header,
		t:          c.t,
	}
}
