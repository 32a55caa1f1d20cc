package server

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmoreno/cv-studio/internal/db"
	"github.com/dmoreno/cv-studio/internal/types"
)

// ratesMirror adapts the Postgres rates table to the mirror tier of the
// rates service.
type ratesMirror struct {
	db *db.DB
}

func (m ratesMirror) Load(ctx context.Context) (*types.ExchangeRates, error) {
	return m.db.LoadRates(ctx)
}

func (m ratesMirror) Save(ctx context.Context, rates *types.ExchangeRates) error {
	return m.db.SaveRates(ctx, rates)
}

// handleRates returns the current EUR-based snapshot. An optional ?to=USD,GBP
// narrows the rates map to the requested currencies.
func (s *Server) handleRates(w http.ResponseWriter, r *http.Request) {
	snapshot := s.rates.Current(r.Context())

	if to := r.URL.Query().Get("to"); to != "" {
		filtered := make(map[string]float64)
		for _, code := range strings.Split(to, ",") {
			code = strings.ToUpper(strings.TrimSpace(code))
			if rate, ok := snapshot.Rate(code); ok {
				filtered[code] = rate
			}
		}
		snapshot = &types.ExchangeRates{
			Base:      snapshot.Base,
			Date:      snapshot.Date,
			Rates:     filtered,
			FetchedAt: snapshot.FetchedAt,
		}
	}

	s.jsonResponse(w, http.StatusOK, snapshot)
}

// ConvertResponse is the body returned by GET /api/rates/convert.
type ConvertResponse struct {
	Amount    float64 `json:"amount"`
	From      string  `json:"from"`
	To        string  `json:"to"`
	Converted float64 `json:"converted"`
}

// handleConvert converts an amount between two currencies using the current
// snapshot.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	amount, err := strconv.ParseFloat(q.Get("amount"), 64)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "amount must be a number")
		return
	}

	from := strings.ToUpper(strings.TrimSpace(q.Get("from")))
	to := strings.ToUpper(strings.TrimSpace(q.Get("to")))
	if len(from) != 3 || len(to) != 3 {
		s.errorResponse(w, http.StatusBadRequest, "from and to must be 3-letter currency codes")
		return
	}

	converted, err := s.rates.Convert(r.Context(), amount, from, to)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, ConvertResponse{
		Amount:    amount,
		From:      from,
		To:        to,
		Converted: converted,
	})
}
