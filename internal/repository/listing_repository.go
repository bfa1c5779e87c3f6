package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/stwalsh4118/suburbscope/internal/config"
	"github.com/stwalsh4118/suburbscope/internal/logger"
	"github.com/stwalsh4118/suburbscope/internal/metrics"
	"github.com/stwalsh4118/suburbscope/internal/models"
)

const (
	// maxResponseBytes caps how much of an upstream body is read.
	maxResponseBytes = 10 << 20
	// debugSnippetLength is how much of the body is echoed into debug logs.
	debugSnippetLength = 1500
)

// Repository-level errors
var (
	ErrUpstreamUnavailable = errors.New("listings api unavailable")
	ErrUpstreamDecode      = errors.New("listings api returned an unreadable body")
)

// ListingRepository defines the interface for fetching raw listings.
type ListingRepository interface {
	// FetchBySuburb issues one request for the suburb's listings.
	// Returns an empty slice when the API has no results (not an error).
	// Returns ErrUpstreamUnavailable for transport failures and timeouts,
	// ErrUpstreamDecode when the body is not a JSON listings envelope.
	FetchBySuburb(ctx context.Context, suburb string) ([]models.RawListing, error)
}

// listingRepository is the HTTP implementation of ListingRepository.
type listingRepository struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        *logger.Logger
}

// NewListingRepository creates a ListingRepository for the configured API.
// The client timeout bounds the whole exchange, including reading the body.
func NewListingRepository(cfg config.ListingsAPIConfig, log *logger.Logger) ListingRepository {
	return &listingRepository{
		baseURL: cfg.URL,
		token:   cfg.Token,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		log: log.WithComponent("listings_client"),
	}
}

// FetchBySuburb queries the listings API for a suburb. Non-2xx responses are
// still decoded: the API reports some failures as JSON without results.
func (r *listingRepository) FetchBySuburb(ctx context.Context, suburb string) ([]models.RawListing, error) {
	start := time.Now()
	defer func() {
		metrics.UpstreamRequestDuration.Observe(time.Since(start).Seconds())
	}()

	requestURL, err := r.buildURL(suburb)
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(metrics.OutcomeTransport).Inc()
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(metrics.OutcomeTransport).Inc()
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrUpstreamUnavailable, err)
	}
	req.Header.Set("Authorization", "Bearer "+r.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(metrics.OutcomeTransport).Inc()
		return nil, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(metrics.OutcomeTransport).Inc()
		return nil, fmt.Errorf("%w: failed to read body: %w", ErrUpstreamUnavailable, err)
	}

	r.log.Debug("Listings API responded", map[string]interface{}{
		"url":     requestURL,
		"status":  resp.StatusCode,
		"snippet": snippet(body),
	})
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		r.log.Warn("Listings API returned non-success status", map[string]interface{}{
			"url":    requestURL,
			"status": resp.StatusCode,
		})
	}

	var envelope models.ListingsResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(metrics.OutcomeDecodeError).Inc()
		return nil, fmt.Errorf("%w: status %d: %v", ErrUpstreamDecode, resp.StatusCode, err)
	}

	if len(envelope.Results) == 0 {
		metrics.UpstreamRequestsTotal.WithLabelValues(metrics.OutcomeEmpty).Inc()
		return []models.RawListing{}, nil
	}

	metrics.UpstreamRequestsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	return envelope.Results, nil
}

// buildURL appends the suburb query parameter, keeping any query the base
// URL already carries.
func (r *listingRepository) buildURL(suburb string) (string, error) {
	u, err := url.Parse(r.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid listings api url %q: %w", r.baseURL, err)
	}

	q := u.Query()
	q.Set("suburb", suburb)
	u.RawQuery = q.Encode()

	return u.String(), nil
}

func snippet(body []byte) string {
	if len(body) == 0 {
		return "<empty>"
	}
	if len(body) > debugSnippetLength {
		return string(body[:debugSnippetLength])
	}
	return string(body)
}
