// Package remote talks to the REST backend holding the shared copy of
// the lead and search-title collections.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadtrack-cli/internal/model"
	"github.com/sells-group/leadtrack-cli/internal/resilience"
)

// Client defines the remote backend operations.
type Client interface {
	// PullLeads fetches leads updated strictly after since (Unix
	// milliseconds); zero fetches everything.
	PullLeads(ctx context.Context, since int64) ([]model.Lead, error)
	// PushLeads upserts leads by id.
	PushLeads(ctx context.Context, leads []model.Lead) error

	PullSearchTitles(ctx context.Context, since int64) ([]model.SearchTitle, error)
	PushSearchTitles(ctx context.Context, titles []model.SearchTitle) error
}

// Option configures the remote client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRetryConfig overrides the retry policy.
func WithRetryConfig(cfg resilience.RetryConfig) Option {
	return func(c *httpClient) {
		c.retry = cfg
	}
}

type httpClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
	retry   resilience.RetryConfig
}

// NewClient creates a client for the lead backend.
func NewClient(baseURL, apiKey string, opts ...Option) Client {
	c := &httpClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		retry:   resilience.DefaultRetryConfig(),
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) PullLeads(ctx context.Context, since int64) ([]model.Lead, error) {
	body, err := c.get(ctx, "leads", since)
	if err != nil {
		return nil, eris.Wrap(err, "remote: pull leads")
	}
	var records []leadRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, eris.Wrap(err, "remote: unmarshal leads")
	}
	leads := make([]model.Lead, 0, len(records))
	for _, r := range records {
		leads = append(leads, r.toModel())
	}
	return leads, nil
}

func (c *httpClient) PushLeads(ctx context.Context, leads []model.Lead) error {
	if len(leads) == 0 {
		return nil
	}
	records := make([]leadRecord, 0, len(leads))
	for _, l := range leads {
		records = append(records, toLeadRecord(l))
	}
	return eris.Wrap(c.upsert(ctx, "leads", records), "remote: push leads")
}

func (c *httpClient) PullSearchTitles(ctx context.Context, since int64) ([]model.SearchTitle, error) {
	body, err := c.get(ctx, "search_titles", since)
	if err != nil {
		return nil, eris.Wrap(err, "remote: pull search titles")
	}
	var records []titleRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, eris.Wrap(err, "remote: unmarshal search titles")
	}
	titles := make([]model.SearchTitle, 0, len(records))
	for _, r := range records {
		titles = append(titles, r.toModel())
	}
	return titles, nil
}

func (c *httpClient) PushSearchTitles(ctx context.Context, titles []model.SearchTitle) error {
	if len(titles) == 0 {
		return nil
	}
	records := make([]titleRecord, 0, len(titles))
	for _, t := range titles {
		records = append(records, toTitleRecord(t))
	}
	return eris.Wrap(c.upsert(ctx, "search_titles", records), "remote: push search titles")
}

func (c *httpClient) get(ctx context.Context, table string, since int64) ([]byte, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", "updated_at.asc")
	if since > 0 {
		q.Set("updated_at", fmt.Sprintf("gt.%d", since))
	}
	reqURL := fmt.Sprintf("%s/rest/v1/%s?%s", c.baseURL, table, q.Encode())

	return resilience.DoVal(ctx, c.retry, func(ctx context.Context) ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, eris.Wrap(err, "remote: create request")
		}
		c.setHeaders(req)
		return c.do(req)
	})
}

func (c *httpClient) upsert(ctx context.Context, table string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return eris.Wrap(err, "remote: marshal payload")
	}
	reqURL := fmt.Sprintf("%s/rest/v1/%s", c.baseURL, table)

	return resilience.Do(ctx, c.retry, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(data))
		if err != nil {
			return eris.Wrap(err, "remote: create request")
		}
		c.setHeaders(req)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Prefer", "resolution=merge-duplicates")
		_, err = c.do(req)
		return err
	})
}

func (c *httpClient) setHeaders(req *http.Request) {
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
}

func (c *httpClient) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "remote: request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "remote: read response body")
	}
	if resp.StatusCode >= 300 {
		err := eris.Errorf("remote: status %d: %s", resp.StatusCode, string(body))
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(err, resp.StatusCode)
		}
		return nil, err
	}
	return body, nil
}
