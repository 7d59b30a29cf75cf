package pricing

import (
	"time"

	"github.com/nekogravitycat/campsite-booking-backend/internal/calendar"
)

// Point accrual rates.
const (
	RateDefault    = 0.05
	RateWeekend    = 0.10
	RatePeakSeason = 0.03
)

// PointCalculator awards loyalty points as a share of the booking price.
type PointCalculator struct {
	prices *PriceCalculator
}

func NewPointCalculator(prices *PriceCalculator) *PointCalculator {
	return &PointCalculator{prices: prices}
}

// Calculate returns the points earned for a stay with an already known total price.
func (c *PointCalculator) Calculate(start, end time.Time, totalPrice int) int {
	return int(float64(totalPrice) * c.Rate(start, end))
}

// CalculateForSite prices the stay first and then derives the points.
func (c *PointCalculator) CalculateForSite(start, end time.Time, siteCode string) int {
	return c.Calculate(start, end, c.prices.Calculate(start, end, siteCode))
}

// Rate picks the accrual rate for a stay.
//
// Any weekend day in the stay wins. Otherwise only the start date decides whether
// the peak-season rate applies, unlike pricing which checks every day.
func (c *PointCalculator) Rate(start, end time.Time) float64 {
	if HasWeekend(start, end) {
		return RateWeekend
	}
	if calendar.IsPeakSeason(start) {
		return RatePeakSeason
	}
	return RateDefault
}

// HasWeekend reports whether any day in [start, end] is a Saturday or Sunday.
func HasWeekend(start, end time.Time) bool {
	found := false
	calendar.EachDay(start, end, func(day time.Time) bool {
		found = calendar.IsWeekend(day)
		return !found
	})
	return found
}
