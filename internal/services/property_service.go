package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stwalsh4118/suburbscope/internal/listings"
	"github.com/stwalsh4118/suburbscope/internal/logger"
	"github.com/stwalsh4118/suburbscope/internal/metrics"
	"github.com/stwalsh4118/suburbscope/internal/models"
	"github.com/stwalsh4118/suburbscope/internal/repository"
)

// Service-level errors
var (
	ErrEmptySuburb = errors.New("suburb is required")
	ErrEncodeCSV   = errors.New("failed to encode listings csv")
)

// PropertyService defines the interface for the suburb lookup workflow.
type PropertyService interface {
	// GetProperties fetches, normalizes and summarizes a suburb's listings.
	// Returns ErrEmptySuburb if the suburb is blank.
	// Upstream failures are not errors: the fallback set is served instead.
	// Returns ErrEncodeCSV if the CSV export cannot be produced.
	GetProperties(ctx context.Context, suburb string) (*models.ResponsePayload, error)
}

// propertyService is the concrete implementation of PropertyService.
type propertyService struct {
	repo       repository.ListingRepository
	fallback   func() []models.RawListing
	summarizer listings.Summarizer
	log        *logger.Logger
}

// NewPropertyService creates a new instance of PropertyService.
// fallback supplies the listings served when the upstream has no results;
// it is called once per fallback so callers may receive a fresh slice.
func NewPropertyService(
	repo repository.ListingRepository,
	fallback func() []models.RawListing,
	summarizer listings.Summarizer,
	log *logger.Logger,
) PropertyService {
	if fallback == nil {
		fallback = listings.FallbackListings
	}
	return &propertyService{
		repo:       repo,
		fallback:   fallback,
		summarizer: summarizer,
		log:        log,
	}
}

// GetProperties runs one lookup for the trimmed suburb name.
func (s *propertyService) GetProperties(ctx context.Context, suburb string) (*models.ResponsePayload, error) {
	query := strings.TrimSpace(suburb)
	if query == "" {
		s.log.Warn("Empty suburb provided", nil)
		return nil, fmt.Errorf("%w: got %q", ErrEmptySuburb, suburb)
	}

	s.log.Info("Fetching listings for suburb", map[string]interface{}{
		"suburb": query,
	})

	raw, err := s.repo.FetchBySuburb(ctx, query)
	if err != nil {
		s.log.Warn("Listings fetch failed, treating as no results", map[string]interface{}{
			"suburb": query,
			"error":  err.Error(),
		})
		raw = nil
	}

	rawCount := len(raw)
	if rawCount == 0 {
		reason := metrics.ReasonEmptyResults
		if err != nil {
			reason = metrics.ReasonUpstreamFail
		}
		metrics.FallbackServedTotal.WithLabelValues(reason).Inc()

		s.log.Info("Serving fallback listings", map[string]interface{}{
			"suburb": query,
			"reason": reason,
		})
		raw = s.fallback()
	}

	properties := listings.NormalizeAll(raw)
	metrics.ListingsNormalizedTotal.Add(float64(len(properties)))

	summary := s.summarizer.Summarize(properties)

	csvData, err := listings.EncodeCSV(properties)
	if err != nil {
		s.log.Error("Failed to encode listings csv", err, map[string]interface{}{
			"suburb": query,
			"count":  len(properties),
		})
		return nil, fmt.Errorf("%w: %w", ErrEncodeCSV, err)
	}

	s.log.Info("Listings processed", map[string]interface{}{
		"suburb":    query,
		"raw_count": rawCount,
		"count":     len(properties),
	})

	return &models.ResponsePayload{
		Suburb:             query,
		RawAPIResultsCount: rawCount,
		Properties:         properties,
		Summary:            summary,
		CSV:                csvData,
	}, nil
}
