// Package rates provides EUR-based exchange rates with a layered read path:
// Redis cache, live Frankfurter API, Postgres mirror, hardcoded constants.
// The read path never fails; each tier degrades into the next.
package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dmoreno/cv-studio/internal/types"
)

const defaultBaseURL = "https://api.frankfurter.app"

// DefaultTargets is the currency set fetched when the caller does not
// narrow it.
var DefaultTargets = []string{"USD", "GBP", "JPY", "CHF", "CAD", "AUD", "MXN", "BRL", "CNY", "SEK"}

// Client fetches live rates from the Frankfurter API.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a Frankfurter client with a 10 second request timeout.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultBaseURL,
	}
}

// SetBaseURL overrides the API base URL, used in tests.
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = strings.TrimSuffix(baseURL, "/")
}

type latestResponse struct {
	Base  string             `json:"base"`
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}

// Latest fetches EUR-based rates for the given target currencies.
func (c *Client) Latest(ctx context.Context, targets []string) (*types.ExchangeRates, error) {
	if len(targets) == 0 {
		targets = DefaultTargets
	}
	url := fmt.Sprintf("%s/latest?to=%s", c.baseURL, strings.Join(targets, ","))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create rates request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rates request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rates API returned status %d", resp.StatusCode)
	}

	var body latestResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode rates response: %w", err)
	}
	if len(body.Rates) == 0 {
		return nil, fmt.Errorf("rates API returned no rates")
	}

	rates := make(map[string]float64, len(body.Rates)+1)
	for code, rate := range body.Rates {
		rates[code] = rate
	}
	rates["EUR"] = 1

	return &types.ExchangeRates{
		Base:      "EUR",
		Date:      body.Date,
		Rates:     rates,
		FetchedAt: time.Now(),
	}, nil
}
