package listings

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/stwalsh4118/suburbscope/internal/models"
)

var currencyPrinter = message.NewPrinter(language.English)

// Summarizer computes averages over normalized listings.
type Summarizer struct {
	// ZeroAsMissing reports a mean of exactly 0 as "N/A" (legacy output).
	// Off by default.
	ZeroAsMissing bool
}

// Summarize averages price, bedrooms and land area over the listings that
// have a value for each. An average with no contributing values is nil.
func (s Summarizer) Summarize(listings []models.NormalizedListing) models.SummaryStats {
	var prices, beds, land []float64
	for _, l := range listings {
		if l.Price != nil {
			prices = append(prices, *l.Price)
		}
		if l.Bedrooms != nil {
			beds = append(beds, *l.Bedrooms)
		}
		if l.LandSqm != nil {
			land = append(land, *l.LandSqm)
		}
	}

	var stats models.SummaryStats

	if avg, ok := s.mean(prices); ok {
		formatted := FormatCurrency(avg)
		stats.AvgPrice = &formatted
	}
	if avg, ok := s.mean(beds); ok {
		rounded := roundTo(avg, 2)
		stats.AvgBeds = &rounded
	}
	if avg, ok := s.mean(land); ok {
		formatted := FormatArea(avg)
		stats.AvgLand = &formatted
	}

	return stats
}

// Summarize uses the default Summarizer.
func Summarize(listings []models.NormalizedListing) models.SummaryStats {
	return Summarizer{}.Summarize(listings)
}

// FormatCurrency renders an amount as whole dollars with thousands
// separators, e.g. "$1,050,000".
func FormatCurrency(amount float64) string {
	return currencyPrinter.Sprintf("$%.0f", amount)
}

func (s Summarizer) mean(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	avg := sum / float64(len(values))

	if s.ZeroAsMissing && avg == 0 {
		return 0, false
	}
	return avg, true
}
