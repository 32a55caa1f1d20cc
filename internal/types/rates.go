package types

import "time"

// ExchangeRates is a snapshot of EUR-based exchange rates. The upstream API
// always reports relative to EUR, so Rates["EUR"] == 1 holds for every
// snapshot regardless of which tier produced it.
type ExchangeRates struct {
	Base      string             `json:"base"` // always "EUR"
	Date      string             `json:"date"` // YYYY-MM-DD as reported upstream
	Rates     map[string]float64 `json:"rates"`
	FetchedAt time.Time          `json:"fetched_at"`
}

// Rate returns the EUR rate for a currency code, if present.
func (e *ExchangeRates) Rate(code string) (float64, bool) {
	if code == "EUR" {
		return 1, true
	}
	r, ok := e.Rates[code]
	return r, ok
}
