package domain

import (
	"github.com/shopspring/decimal"
)

const (
	// SpreadPercentPrecision is the number of decimals kept on SpreadPercent
	SpreadPercentPrecision int32 = 0

	// AveragePrecision is the number of decimals kept on averages
	AveragePrecision int32 = 2

	// RankingSize bounds the MostCompetitive and HighestSpread lists
	RankingSize = 3

	// Default dashboard price window, in Toman
	DefaultMinPrice int64 = 45_000_000
	DefaultMaxPrice int64 = 81_000_000
)

var hundred = decimal.NewFromInt(100)

// PhoneAnalysis is a device augmented with its derived price analytics.
// It is recomputed on every request and never stored.
type PhoneAnalysis struct {
	Device
	BestPrice     PriceObservation `json:"best_price"`
	WorstPrice    PriceObservation `json:"worst_price"`
	AveragePrice  decimal.Decimal  `json:"average_price"`
	PriceSpread   int64            `json:"price_spread"`
	SpreadPercent decimal.Decimal  `json:"spread_percent"`
}

// Analyze derives the analytics of a device. The second return value is
// false when the device has no price observations.
func Analyze(d Device) (PhoneAnalysis, bool) {
	if !d.Analyzable() {
		return PhoneAnalysis{}, false
	}

	best, worst := d.Prices[0], d.Prices[0]
	var sum int64
	for _, p := range d.Prices {
		// strict comparisons keep the first occurrence on ties
		if p.Price < best.Price {
			best = p
		}
		if p.Price > worst.Price {
			worst = p
		}
		sum += p.Price
	}

	spread := worst.Price - best.Price

	return PhoneAnalysis{
		Device:        d,
		BestPrice:     best,
		WorstPrice:    worst,
		AveragePrice:  decimal.NewFromInt(sum).Div(decimal.NewFromInt(int64(len(d.Prices)))).Round(AveragePrecision),
		PriceSpread:   spread,
		SpreadPercent: SpreadPercent(spread, best.Price),
	}, true
}

// SpreadPercent returns spread as a percentage of best, rounded to
// SpreadPercentPrecision. A zero best price yields zero.
func SpreadPercent(spread, best int64) decimal.Decimal {
	if best == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(spread).
		Mul(hundred).
		Div(decimal.NewFromInt(best)).
		Round(SpreadPercentPrecision)
}

// MarketSnapshot is the computed analytics for one filter
type MarketSnapshot struct {
	Devices         []PhoneAnalysis `json:"devices"`
	OverallAverage  decimal.Decimal `json:"overall_average"`
	MostCompetitive []PhoneAnalysis `json:"most_competitive"`
	HighestSpread   []PhoneAnalysis `json:"highest_spread"`
}

// Filter narrows the devices included in a snapshot. Zero-valued fields
// impose no restriction.
type Filter struct {
	Brands       []string `json:"brands,omitempty"`
	Retailers    []string `json:"retailers,omitempty"`
	MinPrice     *int64   `json:"min_price,omitempty"`
	MaxPrice     *int64   `json:"max_price,omitempty"`
	ReleaseYears []int    `json:"release_years,omitempty"`
}

// Validate rejects negative or inverted price bounds
func (f Filter) Validate() error {
	if f.MinPrice != nil && *f.MinPrice < 0 {
		return NewDomainError(ErrInvalidFilter, "minimum price cannot be negative", "INVALID_FILTER")
	}
	if f.MaxPrice != nil && *f.MaxPrice < 0 {
		return NewDomainError(ErrInvalidFilter, "maximum price cannot be negative", "INVALID_FILTER")
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return NewDomainError(ErrInvalidFilter, "minimum price exceeds maximum price", "INVALID_FILTER")
	}
	return nil
}

// Matcher compiles the filter into a predicate over analyzed devices
func (f Filter) Matcher() func(PhoneAnalysis) bool {
	brands := toSet(f.Brands)
	retailers := toSet(f.Retailers)
	years := make(map[int]struct{}, len(f.ReleaseYears))
	for _, y := range f.ReleaseYears {
		years[y] = struct{}{}
	}

	return func(p PhoneAnalysis) bool {
		if len(brands) > 0 {
			if _, ok := brands[p.Brand]; !ok {
				return false
			}
		}
		if len(retailers) > 0 && !p.ListedAt(retailers) {
			return false
		}
		if f.MinPrice != nil && p.BestPrice.Price < *f.MinPrice {
			return false
		}
		if f.MaxPrice != nil && p.BestPrice.Price > *f.MaxPrice {
			return false
		}
		if len(years) > 0 {
			if _, ok := years[p.ReleaseYear]; !ok {
				return false
			}
		}
		return true
	}
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// Probe is the read-only summary served to health probes
type Probe struct {
	Devices      int             `json:"devices"`
	AveragePrice decimal.Decimal `json:"averagePrice"`
}

// PriceRange is an inclusive price window
type PriceRange struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

// FilterOptions lists the selectable filter values of the catalog
type FilterOptions struct {
	Brands       []string   `json:"brands"`
	Retailers    []Retailer `json:"retailers"`
	ReleaseYears []int      `json:"release_years"`
	PriceRange   PriceRange `json:"price_range"`
}
