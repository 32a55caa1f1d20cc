package rates

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dmoreno/cv-studio/internal/types"
)

// fallbackRates is the last tier of the read path. Values are approximate
// and only served when cache, live API and mirror are all unavailable.
var fallbackRates = map[string]float64{
	"EUR": 1,
	"USD": 1.08,
	"GBP": 0.85,
	"JPY": 162.0,
	"CHF": 0.94,
	"CAD": 1.47,
	"AUD": 1.63,
	"MXN": 19.8,
	"BRL": 5.9,
	"CNY": 7.7,
	"SEK": 11.3,
}

// CacheStore is the Redis tier. Get returns (nil, nil) on a miss.
type CacheStore interface {
	Get(ctx context.Context) (*types.ExchangeRates, error)
	Set(ctx context.Context, rates *types.ExchangeRates) error
}

// LiveClient is the Frankfurter tier.
type LiveClient interface {
	Latest(ctx context.Context, targets []string) (*types.ExchangeRates, error)
}

// MirrorStore is the Postgres tier, a durable copy of the last successful
// live fetch.
type MirrorStore interface {
	Load(ctx context.Context) (*types.ExchangeRates, error)
	Save(ctx context.Context, rates *types.ExchangeRates) error
}

// Service resolves rate snapshots through the tiered read path and converts
// amounts between currencies.
type Service struct {
	live    LiveClient
	cache   CacheStore
	mirror  MirrorStore
	logger  *zap.Logger
	targets []string
}

// NewService wires the read path. cache and mirror may be nil; their tiers
// are then skipped.
func NewService(live LiveClient, cache CacheStore, mirror MirrorStore, logger *zap.Logger) *Service {
	return &Service{
		live:    live,
		cache:   cache,
		mirror:  mirror,
		logger:  logger,
		targets: DefaultTargets,
	}
}

// Current returns the best available snapshot. It never fails: every tier
// that errors degrades into the next one, ending in hardcoded constants.
func (s *Service) Current(ctx context.Context) *types.ExchangeRates {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn("rates cache read failed", zap.Error(err))
		}
		if cached != nil {
			return cached
		}
	}

	live, err := s.live.Latest(ctx, s.targets)
	if err == nil {
		if s.cache != nil {
			if err := s.cache.Set(ctx, live); err != nil {
				s.logger.Warn("rates cache write failed", zap.Error(err))
			}
		}
		if s.mirror != nil {
			if err := s.mirror.Save(ctx, live); err != nil {
				s.logger.Warn("rates mirror write failed", zap.Error(err))
			}
		}
		return live
	}
	s.logger.Warn("live rates fetch failed", zap.Error(err))

	if s.mirror != nil {
		mirrored, err := s.mirror.Load(ctx)
		if err != nil {
			s.logger.Warn("rates mirror read failed", zap.Error(err))
		}
		if mirrored != nil {
			return mirrored
		}
	}

	s.logger.Warn("serving hardcoded fallback rates")
	return hardcodedSnapshot()
}

func hardcodedSnapshot() *types.ExchangeRates {
	rates := make(map[string]float64, len(fallbackRates))
	for code, rate := range fallbackRates {
		rates[code] = rate
	}
	return &types.ExchangeRates{
		Base:      "EUR",
		Rates:     rates,
		FetchedAt: time.Time{},
	}
}

// Convert converts an amount between two currencies through the EUR base.
// Same-currency conversion returns the amount untouched without resolving
// any snapshot.
func (s *Service) Convert(ctx context.Context, amount float64, from, to string) (float64, error) {
	if from == to {
		return amount, nil
	}

	snapshot := s.Current(ctx)
	fromRate, ok := snapshot.Rate(from)
	if !ok || fromRate == 0 {
		return 0, fmt.Errorf("unknown currency: %s", from)
	}
	toRate, ok := snapshot.Rate(to)
	if !ok {
		return 0, fmt.Errorf("unknown currency: %s", to)
	}
	return amount / fromRate * toRate, nil
}
