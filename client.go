package fqe

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultTimeoutSeconds bounds each HTTP exchange unless the timeout
	// option overrides it.
	DefaultTimeoutSeconds = 30

	// DefaultMaxResultRows caps how many rows the server is asked to return
	// for one query.
	DefaultMaxResultRows = 1000000

	wireFormat = "JSONCompact"
)

// httpClient issues the HTTP exchanges against one server. All calls block
// for the duration of the exchange; there are no retries.
type httpClient struct {
	baseURL  string
	user     string
	password string
	client   *http.Client
}

func newHTTPClient(d *Descriptor) *httpClient {
	timeout := DefaultTimeoutSeconds
	if t, err := strconv.Atoi(d.Option("timeout", "")); err == nil && t > 0 {
		timeout = t
	}

	return &httpClient{
		baseURL:  d.BaseURL(),
		user:     d.Option("user", ""),
		password: d.Option("password", ""),
		client: &http.Client{
			Timeout: time.Duration(timeout) * time.Second,
		},
	}
}

// Probe checks the server with a single GET against the base URL.
func (c *httpClient) Probe() error {
	req, err := http.NewRequest(http.MethodGet, c.baseURL, nil)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrTransport, err)
	}
	c.setAuth(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: probe returned status %d", ErrServerUnavailable, resp.StatusCode)
	}

	return nil
}

// RunQuery posts the SQL text and decodes the tabular response.
func (c *httpClient) RunQuery(sql string) (*WireResult, error) {
	body, err := c.post(sql)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	return decodeWireResult(body)
}

// RunExec posts the SQL text and reports zero affected rows on success. The
// wire protocol carries no affected-row count for data-definition
// statements, so zero is the contract, not a placeholder. A response body
// that is not tabular JSON is fine here; it decodes to the empty result.
func (c *httpClient) RunExec(sql string) (int64, error) {
	body, err := c.post(sql)
	if err != nil {
		return 0, err
	}
	defer body.Close()

	io.Copy(io.Discard, body)
	return 0, nil
}

func (c *httpClient) post(sql string) (io.ReadCloser, error) {
	url := fmt.Sprintf("%s?default_format=%s&max_result_rows=%d",
		c.baseURL, wireFormat, DefaultMaxResultRows)

	req, err := http.NewRequest(http.MethodPost, url, strings.NewReader(sql))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTransport, err)
	}
	req.Header.Set("Content-Type", "text/plain")
	c.setAuth(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		const maxErrBody = 8 * 1024
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBody))
		return nil, &ServerError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(raw)),
		}
	}

	return resp.Body, nil
}

func (c *httpClient) setAuth(req *http.Request) {
	// Basic auth only when both credentials are present.
	if c.user != "" && c.password != "" {
		req.SetBasicAuth(c.user, c.password)
	}
}

// Close releases pooled connections. Idempotent.
func (c *httpClient) Close() {
	c.client.CloseIdleConnections()
}
