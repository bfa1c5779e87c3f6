package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// NotAvailable is rendered in place of a summary value that has no data.
const NotAvailable = "N/A"

// RawListing is one record of the upstream listings API. Its shape is owned by
// the upstream provider, so every field is optional.
type RawListing struct {
	Address      *RawAddress     `json:"address,omitempty"`
	Coordinates  *RawCoordinates `json:"coordinates,omitempty"`
	Attributes   *RawAttributes  `json:"attributes,omitempty"`
	AreaName     OptionalText    `json:"area_name"`
	ListingDate  OptionalText    `json:"listing_date"`
	PropertyType OptionalText    `json:"property_type"`
	Price        OptionalFloat   `json:"price"`
}

// RawAddress is the nested address object of a RawListing.
type RawAddress struct {
	Street OptionalText `json:"street"`
	Sal    OptionalText `json:"sal"`
	State  OptionalText `json:"state"`
}

// RawCoordinates is the nested coordinates object of a RawListing.
type RawCoordinates struct {
	Latitude  OptionalFloat `json:"latitude"`
	Longitude OptionalFloat `json:"longitude"`
}

// RawAttributes is the nested attributes object of a RawListing.
// LandSize is free text such as "556 m²" or "708.0".
type RawAttributes struct {
	Bedrooms  OptionalFloat `json:"bedrooms"`
	Bathrooms OptionalFloat `json:"bathrooms"`
	LandSize  OptionalText  `json:"land_size"`
}

// ListingsResponse is the envelope returned by the upstream listings API.
type ListingsResponse struct {
	Results []RawListing `json:"results"`
}

// UnmarshalJSON implements json.Unmarshaler. The body must be a JSON object;
// within it, a "results" value that is not an array counts as no results and
// entries that are not objects are skipped.
func (r *ListingsResponse) UnmarshalJSON(data []byte) error {
	*r = ListingsResponse{}

	var envelope struct {
		Results json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}

	var items []json.RawMessage
	if err := json.Unmarshal(envelope.Results, &items); err != nil {
		return nil
	}

	r.Results = make([]RawListing, 0, len(items))
	for _, item := range items {
		if !isJSONObject(item) {
			continue
		}
		var listing RawListing
		if err := json.Unmarshal(item, &listing); err != nil {
			continue
		}
		r.Results = append(r.Results, listing)
	}
	return nil
}

// UnmarshalJSON implements json.Unmarshaler. A nested address, coordinates or
// attributes value that is not a JSON object decodes as absent.
func (l *RawListing) UnmarshalJSON(data []byte) error {
	*l = RawListing{}
	if !isJSONObject(data) {
		return nil
	}

	type plain RawListing
	aux := struct {
		Address     json.RawMessage `json:"address"`
		Coordinates json.RawMessage `json:"coordinates"`
		Attributes  json.RawMessage `json:"attributes"`
		*plain
	}{plain: (*plain)(l)}

	if err := json.Unmarshal(data, &aux); err != nil {
		*l = RawListing{}
		return nil
	}

	l.Address = decodeObject[RawAddress](aux.Address)
	l.Coordinates = decodeObject[RawCoordinates](aux.Coordinates)
	l.Attributes = decodeObject[RawAttributes](aux.Attributes)
	return nil
}

// decodeObject decodes data into a new T, or returns nil when data is
// absent or not a JSON object.
func decodeObject[T any](data json.RawMessage) *T {
	if !isJSONObject(data) {
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	return &v
}

func isJSONObject(data []byte) bool {
	data = bytes.TrimSpace(data)
	return len(data) > 0 && data[0] == '{'
}

// NormalizedListing is a listing with every field resolved to a value or null.
// Land is nil exactly when LandSqm is nil or zero. PricePerSqm is set only
// when both Price and a non-zero LandSqm are present.
type NormalizedListing struct {
	Address     string   `json:"address"`
	Price       *float64 `json:"price"`
	Bedrooms    *float64 `json:"bedrooms"`
	Bathrooms   *float64 `json:"bathrooms"`
	Land        *string  `json:"land"`
	LandSqm     *float64 `json:"land_sqm"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	PricePerSqm *float64 `json:"price_per_sqm"`
}

// SummaryStats holds the averages over a set of normalized listings.
// A nil field is rendered as "N/A".
type SummaryStats struct {
	AvgPrice *string
	AvgBeds  *float64
	AvgLand  *string
}

type summaryStatsJSON struct {
	AvgPrice interface{} `json:"avg_price"`
	AvgBeds  interface{} `json:"avg_beds"`
	AvgLand  interface{} `json:"avg_land"`
}

// MarshalJSON renders missing averages as "N/A".
func (s SummaryStats) MarshalJSON() ([]byte, error) {
	out := summaryStatsJSON{
		AvgPrice: NotAvailable,
		AvgBeds:  NotAvailable,
		AvgLand:  NotAvailable,
	}
	if s.AvgPrice != nil {
		out.AvgPrice = *s.AvgPrice
	}
	if s.AvgBeds != nil {
		out.AvgBeds = *s.AvgBeds
	}
	if s.AvgLand != nil {
		out.AvgLand = *s.AvgLand
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads the "N/A" form back into nil fields.
func (s *SummaryStats) UnmarshalJSON(data []byte) error {
	var in struct {
		AvgPrice string          `json:"avg_price"`
		AvgBeds  json.RawMessage `json:"avg_beds"`
		AvgLand  string          `json:"avg_land"`
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("failed to unmarshal summary: %w", err)
	}

	*s = SummaryStats{}
	if in.AvgPrice != "" && in.AvgPrice != NotAvailable {
		s.AvgPrice = &in.AvgPrice
	}
	if in.AvgLand != "" && in.AvgLand != NotAvailable {
		s.AvgLand = &in.AvgLand
	}

	beds := bytes.TrimSpace(in.AvgBeds)
	if len(beds) > 0 && beds[0] != '"' && !bytes.Equal(beds, jsonNull) {
		var v float64
		if err := json.Unmarshal(beds, &v); err != nil {
			return fmt.Errorf("failed to unmarshal avg_beds: %w", err)
		}
		s.AvgBeds = &v
	}
	return nil
}

// ResponsePayload is the body of a successful properties lookup.
type ResponsePayload struct {
	Suburb             string              `json:"suburb"`
	RawAPIResultsCount int                 `json:"raw_api_results_count"`
	Properties         []NormalizedListing `json:"properties"`
	Summary            SummaryStats        `json:"summary"`
	CSV                string              `json:"csv"`
}
