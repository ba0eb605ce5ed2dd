package domain

import (
	"encoding/json"
	"time"
)

// TrendWindowDays is the number of daily points in a trend series
const TrendWindowDays = 14

// TrendDateLayout is the calendar-day layout used for trend points
const TrendDateLayout = "2006-01-02"

// TrendPoint is one day of a synthetic price history
type TrendPoint struct {
	Date  time.Time `json:"date"`
	Price int64     `json:"price"`
}

// MarshalJSON renders the date as a calendar day
func (p TrendPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Date  string `json:"date"`
		Price int64  `json:"price"`
	}{
		Date:  p.Date.Format(TrendDateLayout),
		Price: p.Price,
	})
}
