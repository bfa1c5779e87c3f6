// Package listings turns raw upstream listing records into normalized
// listings, summary statistics and a CSV export.
package listings

import (
	"math"
	"regexp"
	"strconv"
)

// landNumberPattern matches the first decimal number in a land-size string.
var landNumberPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)`)

// ParseLandSize extracts the land area in square meters from free text such
// as "556 m²", "556 m2" or "708.0". It returns nil when raw is nil, has no
// number in it, or the number cannot be represented as a float64.
// Units are not converted.
func ParseLandSize(raw *string) *float64 {
	if raw == nil {
		return nil
	}

	match := landNumberPattern.FindString(*raw)
	if match == "" {
		return nil
	}

	v, err := strconv.ParseFloat(match, 64)
	if err != nil || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// PricePerSqm divides price by land area and rounds to 2 decimals.
// It returns nil when either input is missing, land is zero, or the result
// is not a finite number.
func PricePerSqm(price, landSqm *float64) *float64 {
	if price == nil || landSqm == nil || *landSqm == 0 {
		return nil
	}

	v := *price / *landSqm
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}

	rounded := roundTo(v, 2)
	return &rounded
}

// roundTo rounds v to the given number of decimals from its correctly
// rounded decimal form. math.Round(v*100)/100 misrounds when the scaled
// product is inexact.
func roundTo(v float64, decimals int) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', decimals, 64), 64)
	if err != nil {
		return v
	}
	return r
}
