// Package report serializes extraction results to JSON and CSV files for
// offline inspection and downstream analysis.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/contactkeval/option-smile/internal/logger"
)

// ExpirySlice holds the extracted smile and distribution for one expiry.
// All slices are aligned with Strikes.
type ExpirySlice struct {
	// Expiry is the time to expiry in years.
	Expiry float64 `json:"expiry"`

	// StrikeRef is the reference strike the smile was anchored at.
	StrikeRef float64 `json:"strike_ref"`

	// ATMVol is the smile level at the reference strike.
	ATMVol float64 `json:"atm_vol"`

	Strikes []float64 `json:"strikes"`
	Vols    []float64 `json:"vols"`
	Prices  []float64 `json:"prices"`
	Dist    []float64 `json:"dist"`
	Dens    []float64 `json:"dens"`
}

// Report is the full output of one extraction run.
type Report struct {
	Underlying string        `json:"underlying"`
	AsOf       time.Time     `json:"as_of"`
	Spot       float64       `json:"spot"`
	Rate       float64       `json:"rate"`
	Slices     []ExpirySlice `json:"slices"`
}

// WriteJSON writes the full report as indented JSON under dir. The file name
// embeds the underlying and as-of date.
func WriteJSON(rep Report, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf(
		"distribution_%s_%s.json", rep.Underlying, rep.AsOf.Format("2006-01-02"),
	))

	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}

	logger.Infof("wrote JSON report: %s", path)
	return path, nil
}

// WriteCSV writes a flat CSV under dir, one row per expiry and strike.
func WriteCSV(rep Report, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf(
		"distribution_%s_%s.csv", rep.Underlying, rep.AsOf.Format("2006-01-02"),
	))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"underlying", "expiry_years", "strike_ref", "strike", "vol", "put_price", "cdf", "density"}
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}

	for _, slice := range rep.Slices {
		for i, strike := range slice.Strikes {
			row := []string{
				rep.Underlying,
				formatFloat(slice.Expiry),
				formatFloat(slice.StrikeRef),
				formatFloat(strike),
				formatFloat(slice.Vols[i]),
				formatFloat(slice.Prices[i]),
				formatFloat(slice.Dist[i]),
				formatFloat(slice.Dens[i]),
			}
			if err := w.Write(row); err != nil {
				return "", fmt.Errorf("write row: %w", err)
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}

	logger.Infof("wrote CSV report: %s", path)
	return path, nil
}

func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'g', 10, 64)
}
