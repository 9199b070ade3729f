// Package extract orchestrates risk-neutral distribution extraction runs:
// it resolves market inputs from a data provider, calibrates a smile per
// expiry, and reads the distribution off put prices along a strike grid.
package extract

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/contactkeval/option-smile/internal/data"
	"github.com/contactkeval/option-smile/internal/logger"
	"github.com/contactkeval/option-smile/internal/pricing"
	"github.com/contactkeval/option-smile/internal/report"
	"github.com/contactkeval/option-smile/internal/smile"
)

// SmileSpec parameterizes the per-expiry volatility smile.
type SmileSpec struct {
	// StrikeRef anchors the smile. Zero means snap the spot to the
	// provider's strike grid.
	StrikeRef float64 `json:"strike_ref,omitempty"`

	// ATMVol is the smile level at StrikeRef. Zero means imply it from the
	// provider's ATM straddle quote.
	ATMVol float64 `json:"atm_vol,omitempty"`

	// Slope and Convexity are the linear and quadratic smile coefficients.
	Slope     float64 `json:"slope"`
	Convexity float64 `json:"convexity"`

	// Moneyness selects the transform: "quad" (default) or "tanh".
	Moneyness string `json:"moneyness,omitempty"`

	// Cutoff is the tanh saturation width. Ignored for "quad".
	Cutoff float64 `json:"cutoff,omitempty"`
}

// Config drives one extraction run. Zero-valued fields are filled with
// defaults by Run.
type Config struct {
	Underlying string `json:"underlying"`

	// AsOf is the valuation date in 2006-01-02 form. Empty means today.
	AsOf string `json:"as_of,omitempty"`

	// Spot overrides the provider's spot lookup when non-zero.
	Spot float64 `json:"spot,omitempty"`

	// Rate is the continuously compounded flat discount rate.
	Rate float64 `json:"rate"`

	// Expiries are year fractions. Empty means take the provider's listed
	// expiries over the next quarter.
	Expiries []float64 `json:"expiries,omitempty"`

	Smile SmileSpec `json:"smile"`
	Grid  GridSpec  `json:"grid"`

	ReportDir string `json:"report_dir,omitempty"`
	Verbosity int    `json:"verbosity,omitempty"`
}

// LoadConfig reads a JSON config file.
func LoadConfig(path string) (Config, error) {
	var cfg Config

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Engine runs distribution extractions against a data provider.
type Engine struct {
	cfg  Config
	prov data.Provider
}

// NewEngine binds a config to a provider.
func NewEngine(cfg Config, prov data.Provider) *Engine {
	return &Engine{cfg: cfg, prov: prov}
}

// fillDefaults normalizes the config in place.
func (engine *Engine) fillDefaults() {
	cfg := &engine.cfg

	if cfg.Underlying == "" {
		cfg.Underlying = "SPY"
	}
	if cfg.AsOf == "" {
		cfg.AsOf = time.Now().Format("2006-01-02")
	}
	if cfg.Smile.Moneyness == "" {
		cfg.Smile.Moneyness = "quad"
	}
	if cfg.Smile.Cutoff == 0 {
		cfg.Smile.Cutoff = 0.5
	}
	if len(cfg.Grid.Strikes) == 0 && cfg.Grid.Lower == "" {
		cfg.Grid.Lower = "0.5 * SPOT"
		cfg.Grid.Upper = "1.5 * SPOT"
	}
	if len(cfg.Grid.Strikes) == 0 && cfg.Grid.Points == 0 {
		cfg.Grid.Points = 51
	}
	if cfg.ReportDir == "" {
		cfg.ReportDir = "reports"
	}
	if cfg.Verbosity != 0 {
		logger.SetVerbosity(cfg.Verbosity)
	}
}

// Run executes the extraction and returns the assembled report.
func (engine *Engine) Run() (report.Report, error) {
	engine.fillDefaults()
	cfg := engine.cfg

	logger.Infof("starting extraction underlying=%s as_of=%s", cfg.Underlying, cfg.AsOf)

	asOf, err := time.Parse("2006-01-02", cfg.AsOf)
	if err != nil {
		return report.Report{}, fmt.Errorf("parse as_of: %w", err)
	}

	spot := cfg.Spot
	if spot == 0 {
		spot, err = engine.prov.GetSpot(cfg.Underlying, asOf)
		if err != nil {
			return report.Report{}, fmt.Errorf("resolve spot: %w", err)
		}
	}
	if spot <= 0 {
		return report.Report{}, fmt.Errorf("non-positive spot %g", spot)
	}
	logger.Infof("resolved spot=%.4f", spot)

	expiries := cfg.Expiries
	if len(expiries) == 0 {
		expiries, err = engine.listedExpiries(asOf)
		if err != nil {
			return report.Report{}, err
		}
	}
	if len(expiries) == 0 {
		return report.Report{}, fmt.Errorf("no expiries to extract")
	}

	rep := report.Report{
		Underlying: cfg.Underlying,
		AsOf:       asOf,
		Spot:       spot,
		Rate:       cfg.Rate,
	}

	for _, texp := range expiries {
		slice, err := engine.extractSlice(asOf, spot, texp)
		if err != nil {
			return report.Report{}, fmt.Errorf("expiry %.4fy: %w", texp, err)
		}
		rep.Slices = append(rep.Slices, slice)
	}

	logger.Infof("extraction complete: %d expiry slices", len(rep.Slices))
	return rep, nil
}

// listedExpiries converts the provider's listed expiration dates over the
// next quarter into year fractions.
func (engine *Engine) listedExpiries(asOf time.Time) ([]float64, error) {
	dates, err := engine.prov.GetRelevantExpiries(engine.cfg.Underlying, asOf, asOf.AddDate(0, 3, 0))
	if err != nil {
		return nil, fmt.Errorf("resolve expiries: %w", err)
	}

	out := make([]float64, 0, len(dates))
	for _, dt := range dates {
		if texp := data.YearsBetween(asOf, dt); texp > 0 {
			out = append(out, texp)
		}
	}
	logger.Debugf("provider listed %d usable expiries", len(out))
	return out, nil
}

// extractSlice calibrates the smile for one expiry and reads off the
// implied distribution along the resolved strike grid.
func (engine *Engine) extractSlice(asOf time.Time, spot, texp float64) (report.ExpirySlice, error) {
	cfg := engine.cfg

	pv := math.Exp(-cfg.Rate * texp)
	fwd := spot / pv

	strikeRef := cfg.Smile.StrikeRef
	if strikeRef == 0 {
		strikeRef = engine.prov.RoundToNearestStrike(cfg.Underlying, spot)
	}

	atmVol := cfg.Smile.ATMVol
	if atmVol == 0 {
		var err error
		atmVol, err = engine.implyATMVol(asOf, spot, texp, pv, fwd)
		if err != nil {
			return report.ExpirySlice{}, err
		}
	}

	var fn smile.Moneyness
	switch cfg.Smile.Moneyness {
	case "quad":
		fn = smile.NewQuadMoneyness(pv)
	case "tanh":
		fn = smile.NewTanhMoneyness(cfg.Smile.Cutoff, pv)
	default:
		return report.ExpirySlice{}, fmt.Errorf("unknown moneyness transform %q", cfg.Smile.Moneyness)
	}

	curve := smile.NewCurve(strikeRef, atmVol, cfg.Smile.Slope, cfg.Smile.Convexity, fn)

	strikes, err := cfg.Grid.Resolve(spot, strikeRef, fwd)
	if err != nil {
		return report.ExpirySlice{}, err
	}

	dist := smile.ImpliedDistribution(strikes, texp, spot, pv, curve)

	logger.Debugf(
		"slice texp=%.4f strike_ref=%.2f atm_vol=%.4f strikes=%d",
		texp, strikeRef, atmVol, len(strikes),
	)

	return report.ExpirySlice{
		Expiry:    texp,
		StrikeRef: strikeRef,
		ATMVol:    atmVol,
		Strikes:   strikes,
		Vols:      dist.Vols,
		Prices:    dist.Prices,
		Dist:      dist.Dist,
		Dens:      dist.Dens,
	}, nil
}

// implyATMVol backs the smile level out of the provider's ATM straddle quote.
func (engine *Engine) implyATMVol(asOf time.Time, spot, texp, pv, fwd float64) (float64, error) {
	expiryDate := asOf.Add(time.Duration(texp * 365.25 * 24 * float64(time.Hour)))

	strike, callPx, putPx, err := engine.prov.GetATMOptionPrices(engine.cfg.Underlying, expiryDate, asOf, spot)
	if err != nil {
		return 0, fmt.Errorf("fetch ATM quotes: %w", err)
	}

	vol := pricing.OptionVol(
		callPx+putPx, fwd, pv, strike, texp,
		pricing.Straddle, pricing.DefaultMinVol, pricing.DefaultMaxVol,
	)
	if math.IsNaN(vol) {
		return 0, fmt.Errorf(
			"could not imply ATM vol from straddle=%.4f strike=%.2f texp=%.4f",
			callPx+putPx, strike, texp,
		)
	}

	logger.Debugf("implied ATM vol=%.4f from straddle quote at strike=%.2f", vol, strike)
	return vol, nil
}
