package rates

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Latest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/latest", r.URL.Path)
		assert.Contains(t, r.URL.RawQuery, "to=USD,GBP")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"amount":1,"base":"EUR","date":"2026-08-28","rates":{"USD":1.08,"GBP":0.85}}`))
	}))
	defer server.Close()

	client := NewClient()
	client.SetBaseURL(server.URL)

	got, err := client.Latest(context.Background(), []string{"USD", "GBP"})
	require.NoError(t, err)
	assert.Equal(t, "EUR", got.Base)
	assert.Equal(t, "2026-08-28", got.Date)
	assert.Equal(t, 1.08, got.Rates["USD"])
	assert.Equal(t, float64(1), got.Rates["EUR"])
	assert.False(t, got.FetchedAt.IsZero())
}

func TestClient_Latest_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient()
	client.SetBaseURL(server.URL)

	_, err := client.Latest(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}

func TestClient_Latest_EmptyRates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"base":"EUR","date":"2026-08-28","rates":{}}`))
	}))
	defer server.Close()

	client := NewClient()
	client.SetBaseURL(server.URL)

	_, err := client.Latest(context.Background(), nil)
	assert.Error(t, err)
}
