package listings

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/stwalsh4118/suburbscope/internal/models"
)

//go:embed fallback.json
var fallbackJSON []byte

// FallbackListings returns the fixed demo listings served when the upstream
// API is unreachable or has nothing for a suburb. Every call decodes a fresh
// copy, so callers may modify the result.
func FallbackListings() []models.RawListing {
	listings, err := decodeFallback(fallbackJSON)
	if err != nil {
		// fallback.json is embedded at build time and cannot change at runtime.
		panic(err)
	}
	return listings
}

func decodeFallback(data []byte) ([]models.RawListing, error) {
	var resp models.ListingsResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode fallback listings: %w", err)
	}
	return resp.Results, nil
}
