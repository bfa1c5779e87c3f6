package listings

import (
	"fmt"

	"github.com/stwalsh4118/suburbscope/internal/models"
)

// Normalize maps one raw upstream record into a NormalizedListing.
// Missing fields become nil; the address falls back through street,
// area name and suburb before settling on "N/A".
func Normalize(raw models.RawListing) models.NormalizedListing {
	listing := models.NormalizedListing{
		Address: resolveAddress(raw),
		Price:   raw.Price.Ptr(),
	}

	if attrs := raw.Attributes; attrs != nil {
		listing.Bedrooms = attrs.Bedrooms.Ptr()
		listing.Bathrooms = attrs.Bathrooms.Ptr()
		listing.LandSqm = ParseLandSize(attrs.LandSize.Ptr())
	}

	if coords := raw.Coordinates; coords != nil {
		listing.Latitude = coords.Latitude.Ptr()
		listing.Longitude = coords.Longitude.Ptr()
	}

	// A zero land area has no displayable size, but land_sqm keeps the 0.
	if listing.LandSqm != nil && *listing.LandSqm != 0 {
		land := FormatArea(*listing.LandSqm)
		listing.Land = &land
	}

	listing.PricePerSqm = PricePerSqm(listing.Price, listing.LandSqm)

	return listing
}

// NormalizeAll maps every raw record, preserving order.
func NormalizeAll(raw []models.RawListing) []models.NormalizedListing {
	out := make([]models.NormalizedListing, 0, len(raw))
	for _, r := range raw {
		out = append(out, Normalize(r))
	}
	return out
}

// FormatArea renders a square-meter value rounded to a whole number, e.g. "556 m²".
func FormatArea(sqm float64) string {
	return fmt.Sprintf("%.0f m²", sqm)
}

func resolveAddress(raw models.RawListing) string {
	var street, sal string
	if raw.Address != nil {
		street = raw.Address.Street.Value
		sal = raw.Address.Sal.Value
	}

	for _, candidate := range []string{street, raw.AreaName.Value, sal} {
		if candidate != "" {
			return candidate
		}
	}
	return models.NotAvailable
}
