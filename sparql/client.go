package sparql

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/scidepot/depot/errors"
	"github.com/scidepot/depot/metric"
)

const component = "sparql"

// Client executes rendered queries against a SPARQL endpoint over HTTP POST.
// It tracks endpoint connectivity and logs the down and up transitions
// exactly once per outage.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *metric.Metrics

	mu sync.Mutex
	up bool
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client. Timeouts and cancellation are
// the HTTP client's responsibility; this layer imposes none of its own.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics enables query metrics.
func WithMetrics(metrics *metric.Metrics) Option {
	return func(c *Client) {
		c.metrics = metrics
	}
}

// NewClient creates a client for the given endpoint URL. The endpoint is
// assumed up until a request fails.
func NewClient(endpoint string, opts ...Option) *Client {
	client := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     slog.Default(),
		up:         true,
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.metrics != nil {
		client.metrics.EndpointUp.Set(1)
	}
	return client
}

// IsUp reports the last observed connectivity state. Callers that need to
// distinguish "no rows" from "store unreachable" use this secondary signal.
func (c *Client) IsUp() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.up
}

// Query executes a SELECT query and returns normalized rows. Plain-literal
// status bindings are not part of this path; they are logged and dropped.
func (c *Client) Query(ctx context.Context, query string) ([]Row, error) {
	doc, err := c.do(ctx, "query", query)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(doc.Results.Bindings))
	for _, binding := range doc.Results.Bindings {
		row, raw, err := normalizeRow(binding, c.logger)
		if err != nil {
			c.recordOutcome("query", metric.OutcomeError)
			c.logger.Error("result normalization failed", "error", err)
			c.logQuery(query)
			return nil, err
		}
		if raw != "" {
			c.logger.Info("literal binding in query result", "value", raw)
			continue
		}
		rows = append(rows, row)
	}

	c.recordOutcome("query", metric.OutcomeOK)
	return rows, nil
}

// Update executes a mutation query and returns the store's raw status
// message, the one legacy row shape where a single unlabeled literal
// binding carries a diagnostic string instead of a mapping.
func (c *Client) Update(ctx context.Context, query string) (string, error) {
	doc, err := c.do(ctx, "update", query)
	if err != nil {
		return "", err
	}

	for _, binding := range doc.Results.Bindings {
		_, raw, err := normalizeRow(binding, c.logger)
		if err != nil {
			c.recordOutcome("update", metric.OutcomeError)
			return "", err
		}
		if raw != "" {
			if strings.HasPrefix(raw, "Modify ") ||
				strings.HasPrefix(raw, "Insert into ") ||
				strings.HasPrefix(raw, "Delete from ") {
				c.logger.Info("RDF store", "status", raw)
			} else {
				c.logger.Info("literal", "value", raw)
			}
			c.recordOutcome("update", metric.OutcomeOK)
			return raw, nil
		}
	}

	c.recordOutcome("update", metric.OutcomeOK)
	return "", nil
}

// do posts the query and decodes the result document, classifying failures
// into connectivity, malformed-query and other backend errors.
func (c *Client) do(ctx context.Context, operation, query string) (*wireResults, error) {
	form := url.Values{}
	form.Set("query", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, errors.WrapInvalid(err, component, "do", "build request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/sparql-results+json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if c.metrics != nil {
		c.metrics.QueryDuration.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		c.markDown()
		c.recordOutcome(operation, metric.OutcomeConnectivity)
		return nil, errors.WrapTransient(
			fmt.Errorf("%w: %w", errors.ErrEndpointUnreachable, err),
			component, "do", "execute")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.markDown()
		c.recordOutcome(operation, metric.OutcomeConnectivity)
		return nil, errors.WrapTransient(
			fmt.Errorf("%w: %w", errors.ErrEndpointUnreachable, err),
			component, "do", "read response")
	}

	c.markUp()

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		c.recordOutcome(operation, metric.OutcomeMalformed)
		c.logger.Error("badly formed SPARQL query")
		c.logQuery(query)
		return nil, errors.WrapInvalid(errors.ErrMalformedQuery, component, "do", "execute")
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		c.recordOutcome(operation, metric.OutcomeError)
		c.logger.Error("SPARQL query failed",
			"status", resp.StatusCode, "body", truncate(string(body), 512))
		c.logQuery(query)
		return nil, errors.Wrap(
			fmt.Errorf("%w: status %d", errors.ErrQueryFailed, resp.StatusCode),
			component, "do", "execute")
	}

	var doc wireResults
	if err := json.Unmarshal(body, &doc); err != nil {
		c.recordOutcome(operation, metric.OutcomeError)
		c.logger.Error("SPARQL response decoding failed", "error", err)
		c.logQuery(query)
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: %w", errors.ErrParsingFailed, err),
			component, "do", "decode response")
	}

	return &doc, nil
}

// markDown records a connectivity failure, logging only the up-to-down
// transition.
func (c *Client) markDown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.up {
		c.logger.Error("connection to the SPARQL endpoint seems down")
		c.up = false
		if c.metrics != nil {
			c.metrics.EndpointUp.Set(0)
		}
	}
}

// markUp records a successful round trip, logging only the down-to-up
// transition.
func (c *Client) markUp() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.up {
		c.logger.Info("connection to the SPARQL endpoint seems up again")
		c.up = true
		if c.metrics != nil {
			c.metrics.EndpointUp.Set(1)
		}
	}
}

func (c *Client) recordOutcome(operation, outcome string) {
	if c.metrics != nil {
		c.metrics.QueriesTotal.WithLabelValues(operation, outcome).Inc()
	}
}

// logQuery logs the offending query text for diagnosis.
func (c *Client) logQuery(query string) {
	c.logger.Error("query text", "query", query)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
