// Package data provides market data providers for the extraction engine.
//
// A Provider supplies the three inputs the smile pipeline takes from the
// market: a spot reference, ATM option quotes (to imply the ATM vol level),
// and the listed expiries for an underlying. Providers chain: each may hold
// a secondary provider it delegates to for data it can not serve itself.
package data

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Provider supplies market data.
type Provider interface {
	Secondary() Provider
	GetSpot(underlying string, asOf time.Time) (float64, error)
	GetATMOptionPrices(underlying string, expiryDate, asOf time.Time, asOfPrice float64) (strike, callPrice, putPrice float64, err error)
	GetRelevantExpiries(underlying string, fromDate, toDate time.Time) ([]time.Time, error)
	RoundToNearestStrike(underlying string, asOfPrice float64) float64
	getIntervals(underlying string) float64
}

// OptionQuote is one quoted option observation.
type OptionQuote struct {
	ExpiryDate time.Time
	Strike     float64
	CallPrice  float64
	PutPrice   float64
}

// OptionSymbolFromParts: improved OCC-like formatter (best-effort)
func OptionSymbolFromParts(underlying string, expiryDate time.Time, optionType string, strike float64) string {
	// OCC: <root><YYMMDD><C|P><strike*1000 padded to 8 digits>
	expDt := expiryDate.UTC().Format("060102")
	optType := "C"
	if strings.ToLower(optionType) == "put" || strings.ToLower(optionType) == "p" {
		optType = "P"
	}
	strikeInt := int(math.Round(strike * 1000))
	strFmt := fmt.Sprintf("%08d", strikeInt)
	return fmt.Sprintf("O:%s%s%s%s", strings.ToUpper(underlying), expDt, optType, strFmt)
}

// YearsBetween converts a date pair into an ACT/365.25 year fraction, the
// convention the extraction engine prices with.
func YearsBetween(from, to time.Time) float64 {
	return to.Sub(from).Hours() / 24.0 / 365.25
}

func roundTo(x, interval float64) float64 {
	if interval <= 0 {
		return x
	}
	return math.Round(x/interval) * interval
}
