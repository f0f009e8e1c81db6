package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/formic-dev/formic/pkg/form"
	"github.com/formic-dev/formic/pkg/path"
)

// Encoding selects the request body encoding.
type Encoding uint8

const (
	// EncodingJSON posts the snapshot as a JSON document.
	EncodingJSON Encoding = iota
	// EncodingForm posts the snapshot urlencoded, with nested paths
	// flattened to their canonical names (user.addresses[0].city).
	EncodingForm
)

// RequestError is the typed failure raised by transports. It carries
// enough of the response for an error-recovery function to act on.
type RequestError struct {
	Status int
	Body   string
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	return fmt.Sprintf("transport: request failed with status %d", e.Status)
}

// HTTPConfig configures the HTTP transport.
type HTTPConfig struct {
	Method   string
	Encoding Encoding
	Client   *http.Client
	Header   http.Header
}

// HTTPOption configures the HTTP transport.
type HTTPOption func(*HTTPConfig)

// WithMethod sets the request method (default: POST).
func WithMethod(method string) HTTPOption {
	return func(c *HTTPConfig) { c.Method = method }
}

// WithEncoding sets the body encoding (default: JSON).
func WithEncoding(enc Encoding) HTTPOption {
	return func(c *HTTPConfig) { c.Encoding = enc }
}

// WithClient sets the HTTP client (default: http.DefaultClient).
func WithClient(client *http.Client) HTTPOption {
	return func(c *HTTPConfig) { c.Client = client }
}

// WithHeader adds a header to every request.
func WithHeader(key, value string) HTTPOption {
	return func(c *HTTPConfig) {
		if c.Header == nil {
			c.Header = http.Header{}
		}
		c.Header.Add(key, value)
	}
}

// HTTP returns a submit action posting snapshots to the given URL.
// Non-2xx responses surface as *RequestError.
func HTTP(target string, opts ...HTTPOption) form.SubmitFunc {
	config := HTTPConfig{Method: http.MethodPost, Client: http.DefaultClient}
	for _, opt := range opts {
		opt(&config)
	}

	return func(ctx context.Context, data path.Tree, _ *form.SubmitContext) error {
		var body io.Reader
		var contentType string
		switch config.Encoding {
		case EncodingForm:
			values := url.Values{}
			flatten("", data, values)
			body = strings.NewReader(values.Encode())
			contentType = "application/x-www-form-urlencoded"
		default:
			b, err := json.Marshal(data)
			if err != nil {
				return fmt.Errorf("transport: encode snapshot: %w", err)
			}
			body = bytes.NewReader(b)
			contentType = "application/json"
		}

		req, err := http.NewRequestWithContext(ctx, config.Method, target, body)
		if err != nil {
			return fmt.Errorf("transport: build request: %w", err)
		}
		req.Header.Set("Content-Type", contentType)
		for key, vals := range config.Header {
			for _, v := range vals {
				req.Header.Add(key, v)
			}
		}

		resp, err := config.Client.Do(req)
		if err != nil {
			return fmt.Errorf("transport: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			// Bounded read: recovery functions want the gist, not an
			// unbounded error page.
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
			return &RequestError{Status: resp.StatusCode, Body: string(b)}
		}
		return nil
	}
}

// flatten writes a nested tree into url.Values using canonical path
// names. Scalar sequences become repeated keys.
func flatten(prefix string, v any, values url.Values) {
	switch t := v.(type) {
	case path.Tree:
		for k, cv := range t {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			flatten(key, cv, values)
		}
	case []any:
		for i, cv := range t {
			flatten(fmt.Sprintf("%s[%d]", prefix, i), cv, values)
		}
	case nil:
		// Blank field: omitted, like an empty optional input.
	case bool:
		values.Add(prefix, fmt.Sprintf("%t", t))
	default:
		values.Add(prefix, fmt.Sprint(t))
	}
}
