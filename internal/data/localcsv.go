package data

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/contactkeval/option-smile/internal/logger"
)

// localCSVProvider serves market data from a pre-downloaded CSV file,
// allowing fully offline runs against recorded quotes.
//
// Expected columns (header row required):
//
//	date,underlying,spot,expiry,strike,call_price,put_price
type localCSVProvider struct {
	secondary Provider

	// spots maps "underlying|date" to the recorded spot close.
	spots map[string]float64

	// quotes maps "underlying|date|expiry" to recorded ATM option quotes.
	quotes map[string][]OptionQuote

	// strikeInterval is the grid spacing inferred from recorded strikes.
	strikeInterval float64
}

// NewLocalCSVProvider loads the quote file eagerly and returns a Provider
// backed by it. A load failure is returned immediately rather than deferred
// to the first lookup.
func NewLocalCSVProvider(path string, secondary Provider) (Provider, error) {
	logger.Infof("loading local quote file: %s", path)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open quote file: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse quote file: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("quote file %s has no data rows", path)
	}

	prov := &localCSVProvider{
		secondary: secondary,
		spots:     map[string]float64{},
		quotes:    map[string][]OptionQuote{},
	}

	strikes := map[float64]bool{}
	for i, rec := range records[1:] {
		if len(rec) != 7 {
			return nil, fmt.Errorf("row %d: expected 7 columns, got %d", i+2, len(rec))
		}

		date, underlying := rec[0], rec[1]
		spot, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: bad spot %q", i+2, rec[2])
		}
		expiry, err := time.Parse("2006-01-02", rec[3])
		if err != nil {
			return nil, fmt.Errorf("row %d: bad expiry %q", i+2, rec[3])
		}
		strike, err := strconv.ParseFloat(rec[4], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: bad strike %q", i+2, rec[4])
		}
		callPrice, err := strconv.ParseFloat(rec[5], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: bad call price %q", i+2, rec[5])
		}
		putPrice, err := strconv.ParseFloat(rec[6], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: bad put price %q", i+2, rec[6])
		}

		prov.spots[underlying+"|"+date] = spot
		key := underlying + "|" + date
		prov.quotes[key] = append(prov.quotes[key], OptionQuote{
			ExpiryDate: expiry,
			Strike:     strike,
			CallPrice:  callPrice,
			PutPrice:   putPrice,
		})
		strikes[strike] = true
	}

	prov.strikeInterval = inferStrikeInterval(strikes)
	logger.Infof("loaded %d quote rows, strike interval %.2f", len(records)-1, prov.strikeInterval)

	return prov, nil
}

// inferStrikeInterval returns the smallest gap between adjacent recorded
// strikes, defaulting to 1.0 when fewer than two strikes exist.
func inferStrikeInterval(strikes map[float64]bool) float64 {
	if len(strikes) < 2 {
		return 1.0
	}
	ks := make([]float64, 0, len(strikes))
	for k := range strikes {
		ks = append(ks, k)
	}
	sort.Float64s(ks)

	minGap := ks[1] - ks[0]
	for i := 2; i < len(ks); i++ {
		if gap := ks[i] - ks[i-1]; gap < minGap {
			minGap = gap
		}
	}
	return minGap
}

func (localProv *localCSVProvider) Secondary() Provider {
	return localProv.secondary
}

func (localProv *localCSVProvider) GetSpot(underlying string, asOf time.Time) (float64, error) {
	if spot, ok := localProv.spots[underlying+"|"+asOf.Format("2006-01-02")]; ok {
		return spot, nil
	}
	if localProv.secondary != nil {
		logger.Tracef("spot not recorded locally, delegating to secondary provider")
		return localProv.secondary.GetSpot(underlying, asOf)
	}
	return 0, fmt.Errorf("no recorded spot for %s on %s", underlying, asOf.Format("2006-01-02"))
}

func (localProv *localCSVProvider) GetATMOptionPrices(
	underlying string,
	expiryDate, asOf time.Time,
	asOfPrice float64,
) (strike, callPrice, putPrice float64, err error) {

	key := underlying + "|" + asOf.Format("2006-01-02")
	atm := localProv.RoundToNearestStrike(underlying, asOfPrice)

	for _, q := range localProv.quotes[key] {
		if q.ExpiryDate.Equal(expiryDate) && q.Strike == atm {
			return q.Strike, q.CallPrice, q.PutPrice, nil
		}
	}

	if localProv.secondary != nil {
		logger.Tracef("ATM quote not recorded locally, delegating to secondary provider")
		return localProv.secondary.GetATMOptionPrices(underlying, expiryDate, asOf, asOfPrice)
	}
	return 0, 0, 0, fmt.Errorf(
		"no recorded ATM quote for %s strike=%.2f expiry=%s",
		underlying, atm, expiryDate.Format("2006-01-02"),
	)
}

func (localProv *localCSVProvider) GetRelevantExpiries(
	underlying string,
	fromDate, toDate time.Time,
) ([]time.Time, error) {

	seen := map[time.Time]bool{}
	for key, qs := range localProv.quotes {
		if len(key) < len(underlying) || key[:len(underlying)] != underlying {
			continue
		}
		for _, q := range qs {
			if !q.ExpiryDate.Before(fromDate) && !q.ExpiryDate.After(toDate) {
				seen[q.ExpiryDate] = true
			}
		}
	}

	if len(seen) == 0 && localProv.secondary != nil {
		return localProv.secondary.GetRelevantExpiries(underlying, fromDate, toDate)
	}

	expiries := make([]time.Time, 0, len(seen))
	for dt := range seen {
		expiries = append(expiries, dt)
	}
	sort.Slice(expiries, func(i, j int) bool { return expiries[i].Before(expiries[j]) })
	return expiries, nil
}

func (localProv *localCSVProvider) RoundToNearestStrike(underlying string, asOfPrice float64) float64 {
	return roundTo(asOfPrice, localProv.getIntervals(underlying))
}

func (localProv *localCSVProvider) getIntervals(underlying string) float64 {
	return localProv.strikeInterval
}
