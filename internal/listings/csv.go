package listings

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/stwalsh4118/suburbscope/internal/models"
)

// CSVHeader is the column order of the export, matching NormalizedListing.
var CSVHeader = []string{
	"address",
	"price",
	"bedrooms",
	"bathrooms",
	"land",
	"land_sqm",
	"latitude",
	"longitude",
	"price_per_sqm",
}

// ErrMalformedCSV is returned by DecodeCSV for tables that do not match CSVHeader.
var ErrMalformedCSV = errors.New("malformed listings csv")

// EncodeCSV writes the listings as a header plus one row per listing.
// Nil values are written as empty cells.
func EncodeCSV(listings []models.NormalizedListing) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	if err := w.Write(CSVHeader); err != nil {
		return "", fmt.Errorf("failed to write csv header: %w", err)
	}

	for i, l := range listings {
		row := []string{
			l.Address,
			formatOptionalFloat(l.Price),
			formatOptionalFloat(l.Bedrooms),
			formatOptionalFloat(l.Bathrooms),
			formatOptionalString(l.Land),
			formatOptionalFloat(l.LandSqm),
			formatOptionalFloat(l.Latitude),
			formatOptionalFloat(l.Longitude),
			formatOptionalFloat(l.PricePerSqm),
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("failed to write csv row %d: %w", i, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush csv: %w", err)
	}

	return sb.String(), nil
}

// HasCSVHeader reports whether the first row of data is CSVHeader.
// Only the header row is read.
func HasCSVHeader(data string) bool {
	r := csv.NewReader(strings.NewReader(data))
	r.FieldsPerRecord = len(CSVHeader)

	header, err := r.Read()
	if err != nil {
		return false
	}
	for i, name := range CSVHeader {
		if header[i] != name {
			return false
		}
	}
	return true
}

// DecodeCSV parses a table produced by EncodeCSV back into listings.
// Empty cells decode as nil.
func DecodeCSV(data string) ([]models.NormalizedListing, error) {
	r := csv.NewReader(strings.NewReader(data))
	r.FieldsPerRecord = len(CSVHeader)

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return []models.NormalizedListing{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
	}
	for i, name := range CSVHeader {
		if header[i] != name {
			return nil, fmt.Errorf("%w: column %d is %q, want %q", ErrMalformedCSV, i, header[i], name)
		}
	}

	out := []models.NormalizedListing{}
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
		}

		listing, err := decodeRow(record)
		if err != nil {
			return nil, err
		}
		out = append(out, listing)
	}

	return out, nil
}

func decodeRow(record []string) (models.NormalizedListing, error) {
	listing := models.NormalizedListing{
		Address: record[0],
		Land:    parseOptionalString(record[4]),
	}

	targets := []struct {
		dst **float64
		col int
	}{
		{&listing.Price, 1},
		{&listing.Bedrooms, 2},
		{&listing.Bathrooms, 3},
		{&listing.LandSqm, 5},
		{&listing.Latitude, 6},
		{&listing.Longitude, 7},
		{&listing.PricePerSqm, 8},
	}
	for _, t := range targets {
		v, err := parseOptionalFloat(record[t.col])
		if err != nil {
			return listing, fmt.Errorf("%w: column %s: %v", ErrMalformedCSV, CSVHeader[t.col], err)
		}
		*t.dst = v
	}

	return listing, nil
}

func formatOptionalFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatOptionalString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func parseOptionalFloat(cell string) (*float64, error) {
	if cell == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func parseOptionalString(cell string) *string {
	if cell == "" {
		return nil
	}
	return &cell
}
