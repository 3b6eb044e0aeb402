// Package hours implements the NSE trading-session clock.
package hours

import (
	"time"

	"tradeview/internal/models"
)

// IndiaLocation is the timezone for Indian markets. The gate always
// evaluates against IST regardless of the host timezone.
var IndiaLocation *time.Location

func init() {
	var err error
	IndiaLocation, err = time.LoadLocation("Asia/Kolkata")
	if err != nil {
		// Fallback to UTC+5:30
		IndiaLocation = time.FixedZone("IST", 5*60*60+30*60)
	}
}

// Minutes-of-day boundaries in IST.
const (
	preOpenStart  = 9 * 60        // 09:00
	marketOpen    = 9*60 + 15     // 09:15
	squareOffWarn = 15 * 60       // 15:00
	squareOff     = 15*60 + 15    // 15:15
	marketClose   = 15*60 + 30    // 15:30
)

// StatusAt returns the market status for the given instant. No holiday
// calendar is modelled; only weekends close the market outside the daily
// window.
func StatusAt(t time.Time) models.MarketStatus {
	ist := t.In(IndiaLocation)

	if ist.Weekday() == time.Saturday || ist.Weekday() == time.Sunday {
		return models.MarketClosed
	}

	mins := ist.Hour()*60 + ist.Minute()

	if mins >= preOpenStart && mins < marketOpen {
		return models.MarketPreOpen
	}

	// Trading window is inclusive of both 09:15 and 15:30.
	if mins >= marketOpen && mins <= marketClose {
		if mins >= squareOffWarn && mins < squareOff {
			return models.MarketMISSquareOffWarn
		}
		return models.MarketOpen
	}

	return models.MarketClosed
}

// IsOpenAt reports whether the market is in its trading session at t.
func IsOpenAt(t time.Time) bool {
	status := StatusAt(t)
	return status == models.MarketOpen || status == models.MarketMISSquareOffWarn
}

// Status returns the current market status.
func Status() models.MarketStatus {
	return StatusAt(time.Now())
}

// IsOpen reports whether the market is currently in its trading session.
func IsOpen() bool {
	return IsOpenAt(time.Now())
}

// NextOpen returns the next market opening time after t.
func NextOpen(t time.Time) time.Time {
	ist := t.In(IndiaLocation)

	next := time.Date(ist.Year(), ist.Month(), ist.Day(), 9, 15, 0, 0, IndiaLocation)
	if !ist.Before(next) {
		next = next.AddDate(0, 0, 1)
	}
	for next.Weekday() == time.Saturday || next.Weekday() == time.Sunday {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// CloseToday returns the market close time on t's IST calendar day.
func CloseToday(t time.Time) time.Time {
	ist := t.In(IndiaLocation)
	return time.Date(ist.Year(), ist.Month(), ist.Day(), 15, 30, 0, 0, IndiaLocation)
}
