package stationdata

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	dashboard "github.com/goliatone/go-stationboard/components/dashboard"
)

// DefaultTimeout bounds a remote dataset fetch.
const DefaultTimeout = 10 * time.Second

// maxErrorBody caps how much of a failed response ends up in the error.
const maxErrorBody = 1 << 10

// HTTPConfig configures the HTTP dataset source.
type HTTPConfig struct {
	BaseURL    string
	Path       string
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// HTTPSource fetches the station dataset from a remote host, the way the
// browser page fetched it relative to its own URL.
type HTTPSource struct {
	url    string
	apiKey string
	client *http.Client
}

// NewHTTPSource builds a source that GETs BaseURL + Path.
func NewHTTPSource(cfg HTTPConfig) (*HTTPSource, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("stationdata: base url is required")
	}
	path := cfg.Path
	if path == "" {
		path = dashboard.DefaultDatasetPath
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &HTTPSource{
		url:    strings.TrimRight(cfg.BaseURL, "/") + "/" + strings.TrimLeft(path, "/"),
		apiKey: cfg.APIKey,
		client: httpClient,
	}, nil
}

// URL is the resolved dataset location.
func (s *HTTPSource) URL() string {
	return s.url
}

// Load implements dashboard.DatasetSource.
func (s *HTTPSource) Load(ctx context.Context) (*dashboard.Dataset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("stationdata: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stationdata: http request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("stationdata: remote error %d: %s", resp.StatusCode, strings.TrimSpace(buf.String()))
	}
	ds, err := dashboard.DecodeDataset(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("stationdata: decode %s: %w", s.url, err)
	}
	return ds, nil
}
