package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prxgr4mmer/phone-market-analyst/internal/domain"
)

func device(id, brand string, year int, prices ...domain.PriceObservation) domain.Device {
	return domain.Device{ID: id, Name: id, Brand: brand, ReleaseYear: year, Prices: prices}
}

func obs(retailer string, price int64) domain.PriceObservation {
	return domain.PriceObservation{RetailerID: retailer, Price: price}
}

func TestAnalyze(t *testing.T) {
	t.Run("derives best worst and spread", func(t *testing.T) {
		d := device("s24", "Samsung", 2024, obs("a", 150), obs("b", 100), obs("c", 200))

		a, ok := domain.Analyze(d)
		require.True(t, ok)
		assert.Equal(t, "b", a.BestPrice.RetailerID)
		assert.Equal(t, "c", a.WorstPrice.RetailerID)
		assert.Equal(t, int64(100), a.PriceSpread)
		assert.True(t, a.AveragePrice.Equal(decimal.NewFromInt(150)))
		assert.True(t, a.SpreadPercent.Equal(decimal.NewFromInt(100)))
	})

	t.Run("ties keep first occurrence", func(t *testing.T) {
		d := device("p8", "Google", 2023, obs("a", 100), obs("b", 100), obs("c", 300), obs("d", 300))

		a, ok := domain.Analyze(d)
		require.True(t, ok)
		assert.Equal(t, "a", a.BestPrice.RetailerID)
		assert.Equal(t, "c", a.WorstPrice.RetailerID)
	})

	t.Run("single observation has zero spread", func(t *testing.T) {
		a, ok := domain.Analyze(device("x", "Xiaomi", 2024, obs("a", 42)))
		require.True(t, ok)
		assert.Zero(t, a.PriceSpread)
		assert.True(t, a.SpreadPercent.IsZero())
	})

	t.Run("device without prices is not analyzable", func(t *testing.T) {
		_, ok := domain.Analyze(device("empty", "Apple", 2024))
		assert.False(t, ok)
	})

	t.Run("zero best price yields zero percent", func(t *testing.T) {
		a, ok := domain.Analyze(device("free", "Nokia", 2020, obs("a", 0), obs("b", 500)))
		require.True(t, ok)
		assert.Equal(t, int64(500), a.PriceSpread)
		assert.True(t, a.SpreadPercent.IsZero())
	})

	t.Run("average is rounded to two places", func(t *testing.T) {
		a, ok := domain.Analyze(device("odd", "Apple", 2024, obs("a", 100), obs("b", 100), obs("c", 101)))
		require.True(t, ok)
		assert.Equal(t, "100.33", a.AveragePrice.String())
	})

	t.Run("best and worst bound every observation", func(t *testing.T) {
		prices := []int64{73_500_000, 71_900_000, 74_200_000, 71_900_000, 72_000_000}
		d := device("bounds", "Apple", 2024)
		for i, p := range prices {
			d.Prices = append(d.Prices, obs(string(rune('a'+i)), p))
		}

		a, ok := domain.Analyze(d)
		require.True(t, ok)
		for _, p := range d.Prices {
			assert.LessOrEqual(t, a.BestPrice.Price, p.Price)
			assert.GreaterOrEqual(t, a.WorstPrice.Price, p.Price)
		}
		assert.GreaterOrEqual(t, a.PriceSpread, int64(0))
		assert.Equal(t, a.WorstPrice.Price-a.BestPrice.Price, a.PriceSpread)
	})
}

func TestSpreadPercent(t *testing.T) {
	tests := []struct {
		name   string
		spread int64
		best   int64
		want   string
	}{
		{name: "zero best", spread: 10, best: 0, want: "0"},
		{name: "exact", spread: 10, best: 100, want: "10"},
		{name: "rounds down", spread: 1, best: 3, want: "33"},
		{name: "rounds half up", spread: 1, best: 8, want: "13"},
		{name: "rounds up", spread: 2, best: 3, want: "67"},
		{name: "realistic", spread: 3_400_000, best: 71_900_000, want: "5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.SpreadPercent(tt.spread, tt.best).String())
		})
	}
}

func TestFilter_Validate(t *testing.T) {
	ptr := func(v int64) *int64 { return &v }

	tests := []struct {
		name    string
		filter  domain.Filter
		wantErr bool
	}{
		{name: "empty filter", filter: domain.Filter{}},
		{name: "valid range", filter: domain.Filter{MinPrice: ptr(10), MaxPrice: ptr(20)}},
		{name: "equal bounds", filter: domain.Filter{MinPrice: ptr(10), MaxPrice: ptr(10)}},
		{name: "inverted range", filter: domain.Filter{MinPrice: ptr(30), MaxPrice: ptr(20)}, wantErr: true},
		{name: "negative min", filter: domain.Filter{MinPrice: ptr(-1)}, wantErr: true},
		{name: "negative max", filter: domain.Filter{MaxPrice: ptr(-1)}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.filter.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidFilter)
				assert.True(t, domain.IsDomainError(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFilter_Matcher(t *testing.T) {
	ptr := func(v int64) *int64 { return &v }

	a, _ := domain.Analyze(device("a", "Apple", 2024, obs("digikala", 100), obs("technolife", 120)))
	b, _ := domain.Analyze(device("b", "Samsung", 2023, obs("mobit", 50)))

	tests := []struct {
		name   string
		filter domain.Filter
		wantA  bool
		wantB  bool
	}{
		{name: "no restriction", filter: domain.Filter{}, wantA: true, wantB: true},
		{name: "brand", filter: domain.Filter{Brands: []string{"Samsung"}}, wantB: true},
		{name: "brands are ORed", filter: domain.Filter{Brands: []string{"Samsung", "Apple"}}, wantA: true, wantB: true},
		{name: "retailer on any observation", filter: domain.Filter{Retailers: []string{"technolife"}}, wantA: true},
		{name: "min price on best", filter: domain.Filter{MinPrice: ptr(100)}, wantA: true},
		{name: "max price inclusive", filter: domain.Filter{MaxPrice: ptr(50)}, wantB: true},
		{name: "release years", filter: domain.Filter{ReleaseYears: []int{2023}}, wantB: true},
		{name: "predicates are ANDed", filter: domain.Filter{Brands: []string{"Apple"}, ReleaseYears: []int{2023}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match := tt.filter.Matcher()
			assert.Equal(t, tt.wantA, match(a))
			assert.Equal(t, tt.wantB, match(b))
		})
	}
}
