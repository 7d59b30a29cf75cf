// Package pricing computes booking charges and loyalty points.
//
// Both calculators are stateless and safe for concurrent use.
package pricing

import (
	"strings"
	"time"

	"github.com/nekogravitycat/campsite-booking-backend/internal/calendar"
)

// Nightly base prices by site class, in won.
const (
	PriceLarge   = 80000 // codes starting with "A"
	PriceSmall   = 50000 // codes starting with "B"
	PriceDefault = 60000
)

// Surcharge multipliers applied to the base price of a single day.
const (
	SurchargeNone        = 1.0
	SurchargeWeekend     = 1.3
	SurchargePeakSeason  = 1.5
	SurchargePeakWeekend = 1.7
)

// PriceCalculator prices a stay day by day.
type PriceCalculator struct{}

func NewPriceCalculator() *PriceCalculator {
	return &PriceCalculator{}
}

// Calculate returns the total price for every day in [start, end] on the given site.
func (c *PriceCalculator) Calculate(start, end time.Time, siteCode string) int {
	total := 0
	calendar.EachDay(start, end, func(day time.Time) bool {
		total += c.DailyPrice(day, siteCode)
		return true
	})
	return total
}

// DailyPrice applies the day's surcharge to the site's base price.
// The result is truncated per day, before any summing.
func (c *PriceCalculator) DailyPrice(day time.Time, siteCode string) int {
	return int(float64(c.BasePrice(siteCode)) * c.Surcharge(day))
}

// BasePrice returns the nightly rate for the class encoded in the site code prefix.
func (c *PriceCalculator) BasePrice(siteCode string) int {
	switch {
	case strings.HasPrefix(siteCode, "A"):
		return PriceLarge
	case strings.HasPrefix(siteCode, "B"):
		return PriceSmall
	default:
		return PriceDefault
	}
}

// Surcharge returns the multiplier for a single day.
func (c *PriceCalculator) Surcharge(day time.Time) float64 {
	weekend := calendar.IsWeekend(day)
	peak := calendar.IsPeakSeason(day)

	switch {
	case weekend && peak:
		return SurchargePeakWeekend
	case peak:
		return SurchargePeakSeason
	case weekend:
		return SurchargeWeekend
	default:
		return SurchargeNone
	}
}
