// Package survey is the client for the survey platform's REST API.
//
// Two endpoints are used: SurveyInterviewIDs lists the interview (subject)
// ids of a survey, and SimpleExport returns the answers of a batch of
// subjects. The platform caps how many ids one export request may carry, so
// FetchExport pages through the id list in fixed-size chunks and stops at the
// first failed chunk.
package survey

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/JonMunkholm/surveybase/internal/metrics"
	"github.com/JonMunkholm/surveybase/internal/retry"
)

const (
	endpointInterviewIDs = "/SurveyInterviewIDs"
	endpointSimpleExport = "/SimpleExport"
)

// DefaultChunkSize is the number of subject ids sent per export request.
const DefaultChunkSize = 99

// ErrNoBaseURL is returned by NewClient when the API base URL is empty.
var ErrNoBaseURL = errors.New("survey API base URL is required")

// Config holds the connection settings for the survey API.
type Config struct {
	BaseURL  string
	Username string
	Password string

	// ChunkSize is the maximum number of ids per export request.
	ChunkSize int

	// Timeout bounds a single HTTP request.
	Timeout time.Duration

	// RequestsPerSecond throttles outgoing requests; 0 disables throttling.
	RequestsPerSecond float64

	Retry retry.Config

	// HTTPClient overrides the default client (tests).
	HTTPClient *http.Client
}

// Client talks to the survey API. It is safe for concurrent use.
type Client struct {
	baseURL   string
	username  string
	password  string
	chunkSize int
	retry     retry.Config
	http      *http.Client
	limiter   *rate.Limiter
}

// NewClient creates a Client from cfg.
func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, ErrNoBaseURL
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("parse survey API base URL: %w", err)
	}

	chunk := cfg.ChunkSize
	if chunk <= 0 {
		chunk = DefaultChunkSize
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	retryCfg := cfg.Retry
	if retryCfg.MaxAttempts <= 0 {
		retryCfg = retry.DefaultConfig()
	}

	return &Client{
		baseURL:   base,
		username:  cfg.Username,
		password:  cfg.Password,
		chunkSize: chunk,
		retry:     retryCfg,
		http:      httpClient,
		limiter:   limiter,
	}, nil
}

// ListInterviewIDs returns the subject ids of a survey.
func (c *Client) ListInterviewIDs(ctx context.Context, surveyID string) ([]string, error) {
	params := url.Values{}
	params.Set("surveyIDs", surveyID)

	var ids []json.Number
	if err := c.get(ctx, endpointInterviewIDs, params, &ids); err != nil {
		return nil, err
	}

	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out, nil
}

// FetchExport downloads the answers of every subject in ids, ChunkSize ids
// per request. A failed chunk aborts the remaining pages.
func (c *Client) FetchExport(ctx context.Context, surveyID string, ids []string) (*Export, error) {
	export := &Export{}

	for start := 0; start < len(ids); start += c.chunkSize {
		end := min(start+c.chunkSize, len(ids))
		chunk := ids[start:end]

		params := url.Values{}
		params.Set("surveyID", surveyID)
		params.Set("subjectIDS", strings.Join(chunk, ","))
		params.Set("includeNulls", "true")

		var page exportPage
		if err := c.get(ctx, endpointSimpleExport, params, &page); err != nil {
			return nil, err
		}

		for _, subject := range page.Subjects {
			export.add(subject)
		}

		slog.Debug("survey export page fetched",
			"survey_id", surveyID,
			"from", start,
			"to", end,
			"subjects", len(page.Subjects),
		)
	}

	return export, nil
}

// get performs one throttled, retried GET and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	target := c.baseURL + endpoint + "?" + params.Encode()

	return retry.Do(ctx, c.retry, endpoint, func(ctx context.Context) error {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return fmt.Errorf("build %s request: %w", endpoint, err)
		}
		req.SetBasicAuth(c.username, c.password)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")

		start := time.Now()
		resp, err := c.http.Do(req)
		if err != nil {
			metrics.RecordUpstream(endpoint, 0, time.Since(start))
			return &UpstreamError{Endpoint: endpoint, Err: err}
		}
		defer resp.Body.Close()
		metrics.RecordUpstream(endpoint, resp.StatusCode, time.Since(start))

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return &UpstreamError{
				Endpoint: endpoint,
				Status:   resp.StatusCode,
				Body:     strings.TrimSpace(string(body)),
			}
		}

		dec := json.NewDecoder(resp.Body)
		dec.UseNumber()
		if err := dec.Decode(out); err != nil {
			return &UpstreamError{
				Endpoint: endpoint,
				Status:   resp.StatusCode,
				Err:      fmt.Errorf("decode response: %w", err),
			}
		}
		return nil
	})
}

// UpstreamError is a failed survey API call: a non-success status, a
// transport failure (Status 0), or an undecodable body.
type UpstreamError struct {
	Endpoint string
	Status   int
	Body     string
	Err      error
}

func (e *UpstreamError) Error() string {
	var b strings.Builder
	b.WriteString("upstream error: ")
	b.WriteString(e.Endpoint)
	if e.Status != 0 {
		fmt.Fprintf(&b, ": status %d", e.Status)
	}
	if e.Body != "" {
		b.WriteString(": ")
		b.WriteString(e.Body)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// StatusCode returns the HTTP status, or 0 when no response was received.
func (e *UpstreamError) StatusCode() int { return e.Status }
