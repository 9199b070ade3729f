package data

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestOptionSymbolFromParts(t *testing.T) {
	expiry := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)

	got := OptionSymbolFromParts("spy", expiry, "call", 450)
	if got != "O:SPY260320C00450000" {
		t.Errorf("symbol = %q", got)
	}

	got = OptionSymbolFromParts("AAPL", expiry, "p", 172.5)
	if got != "O:AAPL260320P00172500" {
		t.Errorf("symbol = %q", got)
	}
}

func TestYearsBetween(t *testing.T) {
	from := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	got := YearsBetween(from, from.AddDate(0, 0, 7))
	want := 7.0 / 365.25
	if diff := got - want; diff > 1e-12 || diff < -1e-12 {
		t.Errorf("YearsBetween = %v, want %v", got, want)
	}
}

func TestSyntheticProviderDeterministic(t *testing.T) {
	asOf := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	a := NewSyntheticProvider(42)
	b := NewSyntheticProvider(42)

	spotA, err := a.GetSpot("SPY", asOf)
	if err != nil {
		t.Fatalf("GetSpot: %v", err)
	}
	spotB, err := b.GetSpot("SPY", asOf)
	if err != nil {
		t.Fatalf("GetSpot: %v", err)
	}
	if spotA != spotB {
		t.Errorf("same seed gave different spots: %v vs %v", spotA, spotB)
	}
	if spotA < 90 || spotA > 110 {
		t.Errorf("spot %v far from the base level", spotA)
	}
}

func TestSyntheticProviderExpiriesAreFridays(t *testing.T) {
	prov := NewSyntheticProvider(1)
	from := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	expiries, err := prov.GetRelevantExpiries("SPY", from, from.AddDate(0, 1, 0))
	if err != nil {
		t.Fatalf("GetRelevantExpiries: %v", err)
	}
	if len(expiries) == 0 {
		t.Fatal("no expiries returned")
	}
	for _, dt := range expiries {
		if dt.Weekday() != time.Friday {
			t.Errorf("expiry %s is not a Friday", dt.Format("2006-01-02"))
		}
	}
}

func TestSyntheticProviderRejectsPastExpiry(t *testing.T) {
	prov := NewSyntheticProvider(1)
	asOf := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	_, _, _, err := prov.GetATMOptionPrices("SPY", asOf.AddDate(0, 0, -7), asOf, 100)
	if err == nil {
		t.Error("expected error for expiry before the as-of date")
	}
}

const quoteCSV = `date,underlying,spot,expiry,strike,call_price,put_price
2026-01-02,SPY,100.5,2026-02-06,100,3.10,2.55
2026-01-02,SPY,100.5,2026-02-06,101,2.60,3.05
2026-01-02,SPY,100.5,2026-03-20,100,4.80,4.30
`

func writeQuoteFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "quotes.csv")
	if err := os.WriteFile(path, []byte(quoteCSV), 0o644); err != nil {
		t.Fatalf("write quote file: %v", err)
	}
	return path
}

func TestLocalCSVProvider(t *testing.T) {
	prov, err := NewLocalCSVProvider(writeQuoteFile(t), nil)
	if err != nil {
		t.Fatalf("NewLocalCSVProvider: %v", err)
	}

	asOf := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	spot, err := prov.GetSpot("SPY", asOf)
	if err != nil {
		t.Fatalf("GetSpot: %v", err)
	}
	if spot != 100.5 {
		t.Errorf("spot = %v, want 100.5", spot)
	}

	expiry := time.Date(2026, 2, 6, 0, 0, 0, 0, time.UTC)
	strike, callPx, putPx, err := prov.GetATMOptionPrices("SPY", expiry, asOf, spot)
	if err != nil {
		t.Fatalf("GetATMOptionPrices: %v", err)
	}
	// 100.5 rounds half away from zero onto the 101 strike
	if strike != 101 || callPx != 2.60 || putPx != 3.05 {
		t.Errorf("quote = (%v, %v, %v), want (101, 2.60, 3.05)", strike, callPx, putPx)
	}

	expiries, err := prov.GetRelevantExpiries("SPY", asOf, asOf.AddDate(0, 6, 0))
	if err != nil {
		t.Fatalf("GetRelevantExpiries: %v", err)
	}
	if len(expiries) != 2 {
		t.Fatalf("expiries = %v, want 2 dates", expiries)
	}
	if !expiries[0].Before(expiries[1]) {
		t.Error("expiries not sorted")
	}
}

func TestLocalCSVProviderMissingDataErrors(t *testing.T) {
	prov, err := NewLocalCSVProvider(writeQuoteFile(t), nil)
	if err != nil {
		t.Fatalf("NewLocalCSVProvider: %v", err)
	}

	if _, err := prov.GetSpot("QQQ", time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)); err == nil {
		t.Error("expected error for unrecorded underlying")
	}
	if _, err := NewLocalCSVProvider(filepath.Join(t.TempDir(), "absent.csv"), nil); err == nil {
		t.Error("expected error for missing quote file")
	}
}
