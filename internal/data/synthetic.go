package data

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// synthDataProvider implements Provider generating synthetic quotes. Used
// when no API key is configured and in tests; deterministic for a fixed
// seed.
type synthDataProvider struct {
	secondary Provider
	noise     distuv.Normal
	baseSpot  float64
	baseVol   float64
}

func NewSyntheticProvider(seed uint64) Provider {
	return &synthDataProvider{
		noise:    distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewSource(seed)},
		baseSpot: 100.0,
		baseVol:  0.20,
	}
}

func (synthDataProv *synthDataProvider) Secondary() Provider {
	return synthDataProv.secondary
}

func (synthDataProv *synthDataProvider) GetSpot(underlying string, asOf time.Time) (float64, error) {
	if synthDataProv.secondary != nil {
		return synthDataProv.secondary.GetSpot(underlying, asOf)
	}
	// small lognormal wobble around the base level
	return synthDataProv.baseSpot * (1.0 + 0.01*synthDataProv.noise.Rand()), nil
}

func (synthDataProv *synthDataProvider) GetATMOptionPrices(underlying string, expiryDate, asOf time.Time, asOfPrice float64) (strike, callPrice, putPrice float64, err error) {
	if synthDataProv.secondary != nil {
		return synthDataProv.secondary.GetATMOptionPrices(underlying, expiryDate, asOf, asOfPrice)
	}
	strike = synthDataProv.RoundToNearestStrike(underlying, asOfPrice)
	// straddle value of a 20-vol ATM option, split evenly, with quote noise
	texp := YearsBetween(asOf, expiryDate)
	if texp <= 0 {
		return 0, 0, 0, fmt.Errorf("expiry %s not after as-of %s", expiryDate.Format("2006-01-02"), asOf.Format("2006-01-02"))
	}
	atm := 0.4 * asOfPrice * synthDataProv.baseVol * math.Sqrt(texp)
	callPrice = atm * (1.0 + 0.02*synthDataProv.noise.Rand())
	putPrice = atm * (1.0 + 0.02*synthDataProv.noise.Rand())
	return strike, callPrice, putPrice, nil
}

func (synthDataProv *synthDataProvider) GetRelevantExpiries(underlying string, fromDate, toDate time.Time) ([]time.Time, error) {
	if synthDataProv.secondary != nil {
		return synthDataProv.secondary.GetRelevantExpiries(underlying, fromDate, toDate)
	}
	// weekly Fridays in range
	var out []time.Time
	cur := fromDate
	for !cur.After(toDate) {
		if cur.Weekday() == time.Friday {
			out = append(out, cur)
		}
		cur = cur.AddDate(0, 0, 1)
	}
	return out, nil
}

func (synthDataProv *synthDataProvider) RoundToNearestStrike(underlying string, asOfPrice float64) float64 {
	intervals := synthDataProv.getIntervals(underlying)
	return roundTo(asOfPrice, intervals)
}

func (synthDataProv *synthDataProvider) getIntervals(underlying string) float64 {
	if synthDataProv.secondary != nil {
		return synthDataProv.secondary.getIntervals(underlying)
	}
	return 1.0
}
