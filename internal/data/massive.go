// Massive-backed Provider implementation. Retrieves spot closes and option
// contract listings via Massive HTTP APIs.
//
// Design notes:
//   - Uses raw HTTP calls instead of the official Massive SDK
//   - Supports pagination and rate-limiting retries, with fallback providers
//   - Logging is intentionally verbose at Debug/Trace levels for diagnostics
package data

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/contactkeval/option-smile/internal/logger"
)

// massiveDataProvider implements the Provider interface using Massive APIs.
type massiveDataProvider struct {
	// APIKey used for authenticating requests with Massive.
	APIKey string

	// Client is the HTTP client used to make API requests.
	Client *http.Client

	// BaseURL is the root endpoint for Massive APIs
	// (e.g., https://api.massive.com).
	BaseURL string

	// secondary is an optional fallback provider.
	secondary Provider
}

// massiveContract represents a single option contract
// returned by Massive's contracts reference endpoint.
type massiveContract struct {
	ContractType      string  `json:"contract_type"`
	ExerciseStyle     string  `json:"exercise_style"`
	ExpiryDate        string  `json:"expiration_date"`
	SharesPerContract int     `json:"shares_per_contract"`
	StrikePrice       float64 `json:"strike_price"`
	Ticker            string  `json:"ticker"`
	UnderlyingTicker  string  `json:"underlying_ticker"`
}

// massiveContractsResp models the paginated response
// returned by Massive's option contracts API.
type massiveContractsResp struct {
	Results   []massiveContract `json:"results"`
	Status    string            `json:"status"`
	RequestID string            `json:"request_id"`
	NextURL   string            `json:"next_url"`
}

// NewMassiveDataProvider constructs a Massive-backed data provider with an
// HTTP client tuned for timeouts, pooling, HTTP/2, and gzip decompression.
func NewMassiveDataProvider(apiKey string) Provider {
	logger.Infof("initializing Massive data provider")

	return &massiveDataProvider{
		APIKey: apiKey,
		Client: &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				TLSHandshakeTimeout:   10 * time.Second,
				ResponseHeaderTimeout: 30 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
				DisableCompression:    false, // must be false to enable gzip auto-decompression
				ForceAttemptHTTP2:     true,
				MaxIdleConns:          100,
				IdleConnTimeout:       90 * time.Second,
			},
		},
		BaseURL: "https://api.massive.com",
	}
}

// Secondary returns the configured secondary Provider, if any.
func (massiveDataProv *massiveDataProvider) Secondary() Provider {
	return massiveDataProv.secondary
}

// GetSpot returns the daily close of the underlying on (or nearest before)
// the as-of date, via the aggregates endpoint.
func (massiveDataProv *massiveDataProvider) GetSpot(underlying string, asOf time.Time) (float64, error) {
	logger.Debugf("spot request: %s as-of=%s", underlying, asOf.Format("2006-01-02"))

	reqURL := fmt.Sprintf(
		"%s/v2/aggs/ticker/%s/range/1/day/%s/%s?adjusted=true&sort=desc&limit=5&apiKey=%s",
		massiveDataProv.BaseURL,
		underlying,
		asOf.AddDate(0, 0, -7).Format("2006-01-02"),
		asOf.Format("2006-01-02"),
		massiveDataProv.APIKey,
	)

	req, err := http.NewRequest("GET", reqURL, nil)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("x-api-key", massiveDataProv.APIKey)

	resp, err := massiveDataProv.processGetRequest(req)
	if err != nil {
		if massiveDataProv.secondary != nil {
			logger.Tracef("delegating spot lookup to secondary provider")
			return massiveDataProv.secondary.GetSpot(underlying, asOf)
		}
		return 0, fmt.Errorf("massive api request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("massive aggs status=%d body=%s", resp.StatusCode, string(bodyBytes))
	}

	var body struct {
		Results []struct {
			Close     float64 `json:"c"`
			Timestamp int64   `json:"t"` // epoch millis
		} `json:"results"`
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("parsing massive response: %w", err)
	}
	if len(body.Results) == 0 {
		return 0, fmt.Errorf("no close found for %s near %s", underlying, asOf.Format("2006-01-02"))
	}

	// sort=desc: first result is the most recent close at or before asOf
	return body.Results[0].Close, nil
}

// GetATMOptionPrices returns the ATM strike along with call and put quotes.
//
// NOTE:
//   - ATM quote retrieval requires snapshot access; without it the request
//     is delegated to the secondary provider.
func (massiveDataProv *massiveDataProvider) GetATMOptionPrices(
	underlying string,
	expiryDate, asOf time.Time,
	asOfPrice float64,
) (strike, callPrice, putPrice float64, err error) {

	logger.Debugf(
		"ATM prices request: %s price=%.2f expiry=%s",
		underlying, asOfPrice, expiryDate.Format("2006-01-02"),
	)

	if massiveDataProv.secondary != nil {
		logger.Tracef("delegating ATM pricing to secondary provider")
		return massiveDataProv.secondary.GetATMOptionPrices(underlying, expiryDate, asOf, asOfPrice)
	}

	//TODO: implement real ATM quote fetching via the Massive snapshot API
	return 0, 0, 0, fmt.Errorf("ATM quotes unavailable without a secondary provider")
}

// getContracts retrieves option contracts for an underlying with expiries
// inside [fromDate, toDate], following pagination.
func (massiveDataProv *massiveDataProvider) getContracts(
	underlying string,
	fromDate, toDate time.Time,
) ([]massiveContract, error) {

	out := []massiveContract{}

	u, err := url.Parse(massiveDataProv.BaseURL + "/v3/reference/options/contracts")
	if err != nil {
		return nil, err
	}

	query := u.Query()
	query.Set("underlying_ticker", underlying)
	query.Set("expiration_date.gte", fromDate.Format("2006-01-02"))
	query.Set("expiration_date.lte", toDate.Format("2006-01-02"))
	query.Set("limit", "1000")
	query.Set("apiKey", massiveDataProv.APIKey)
	u.RawQuery = query.Encode()
	reqURL := u.String()

	// Handle pagination
	for reqURL != "" {
		logger.Debugf("contracts request URL: %s", reqURL)

		req, err := http.NewRequest("GET", reqURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+massiveDataProv.APIKey)
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "massive-client/1.0")

		resp, err := massiveDataProv.processGetRequest(req)
		if err != nil {
			return nil, err
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, err
		}
		if len(body) == 0 {
			return nil, fmt.Errorf("empty response body")
		}

		if resp.StatusCode != http.StatusOK {
			var dbg struct {
				Message string `json:"message"`
			}
			_ = json.Unmarshal(body, &dbg)
			logger.Errorf("massive contracts API error status=%d message=%s", resp.StatusCode, dbg.Message)
			return nil, fmt.Errorf("massive returned status %d: %s", resp.StatusCode, dbg.Message)
		}

		var massiveResp massiveContractsResp
		if err := json.Unmarshal(body, &massiveResp); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}

		logger.Tracef("received %d contracts", len(massiveResp.Results))
		out = append(out, massiveResp.Results...)
		reqURL = massiveResp.NextURL
	}

	return out, nil
}

// GetRelevantExpiries returns the sorted unique option expiration dates
// listed for the underlying inside the date range.
func (massiveDataProv *massiveDataProvider) GetRelevantExpiries(
	underlying string,
	fromDate, toDate time.Time,
) ([]time.Time, error) {

	logger.Infof(
		"resolving relevant expiries for %s [%s → %s]",
		underlying, fromDate.Format("2006-01-02"), toDate.Format("2006-01-02"),
	)

	contracts, err := massiveDataProv.getContracts(underlying, fromDate, toDate)
	if err != nil {
		if massiveDataProv.secondary != nil {
			return massiveDataProv.secondary.GetRelevantExpiries(underlying, fromDate, toDate)
		}
		return nil, fmt.Errorf("fetch contracts: %w", err)
	}

	expiryMap := map[string]time.Time{}
	for _, c := range contracts {
		t, err := time.Parse("2006-01-02", c.ExpiryDate)
		if err != nil {
			continue // skip malformed expiry dates
		}
		expiryMap[c.ExpiryDate] = t
	}

	expiries := make([]time.Time, 0, len(expiryMap))
	for _, dt := range expiryMap {
		expiries = append(expiries, dt)
	}
	sort.Slice(expiries, func(i, j int) bool { return expiries[i].Before(expiries[j]) })

	logger.Infof("resolved %d unique expiries", len(expiries))
	return expiries, nil
}

// RoundToNearestStrike snaps a price to the underlying's strike grid.
func (massiveDataProv *massiveDataProvider) RoundToNearestStrike(underlying string, asOfPrice float64) float64 {
	intervals := massiveDataProv.getIntervals(underlying)
	if intervals <= 0 {
		return asOfPrice
	}
	return roundTo(asOfPrice, intervals)
}

// getIntervals is a placeholder for per-underlying strike spacing.
func (massiveDataProv *massiveDataProvider) getIntervals(underlying string) float64 {
	if massiveDataProv.secondary != nil {
		return massiveDataProv.secondary.getIntervals(underlying)
	}
	return 0.0
}

// processGetRequest executes an HTTP GET request with rate-limit handling.
//
// Behavior:
//   - Retries indefinitely on HTTP 429
//   - Sleeps until the next minute boundary
//   - Returns immediately on success (<400)
//   - Returns an error for other status codes
func (massiveDataProv *massiveDataProvider) processGetRequest(req *http.Request) (*http.Response, error) {
	for {
		resp, err := massiveDataProv.Client.Do(req)
		if err != nil {
			return nil, err
		}

		// Success
		if resp.StatusCode < 400 {
			return resp, nil
		}

		// Handle per-minute rate limit (commonly 429)
		if resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()

			now := time.Now()
			sleepDuration := time.Until(now.Truncate(time.Minute).Add(time.Minute))

			logger.Infof("rate limit hit, sleeping for %s", sleepDuration)
			time.Sleep(sleepDuration)
			continue
		}

		return resp, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
}
