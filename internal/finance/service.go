// Package finance computes the read-only dashboard view model and runs
// receipt extraction. Nothing here mutates ledger data; writes go through
// the db package directly.
package finance

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dmoreno/cv-studio/internal/db"
	"github.com/dmoreno/cv-studio/internal/types"
)

// Store is the ledger access the dashboard needs.
type Store interface {
	ListTransactions(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]db.Transaction, error)
	ListBudgets(ctx context.Context, userID uuid.UUID, month string) ([]db.Budget, error)
}

// Converter converts amounts between currencies. Same-currency conversion
// is the identity.
type Converter interface {
	Convert(ctx context.Context, amount float64, from, to string) (float64, error)
}

// Service aggregates ledger data into DashboardData.
type Service struct {
	store     Store
	converter Converter
	logger    *zap.Logger
}

// NewService creates a finance dashboard service.
func NewService(store Store, converter Converter, logger *zap.Logger) *Service {
	return &Service{store: store, converter: converter, logger: logger}
}

// Dashboard computes the view model for a user over [from, to). Budgets are
// evaluated for the month containing the range end. All amounts are
// reported in the requested currency.
func (s *Service) Dashboard(ctx context.Context, userID uuid.UUID, from, to time.Time, currency string) (*types.DashboardData, error) {
	if currency == "" {
		currency = "EUR"
	}
	budgetMonth := to.AddDate(0, 0, -1).Format("2006-01")

	var (
		transactions []db.Transaction
		budgets      []db.Budget
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		transactions, err = s.store.ListTransactions(gctx, userID, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		budgets, err = s.store.ListBudgets(gctx, userID, budgetMonth)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load dashboard data: %w", err)
	}

	data := &types.DashboardData{
		Currency:    currency,
		From:        from.Format("2006-01-02"),
		To:          to.Format("2006-01-02"),
		GeneratedAt: time.Now().UTC(),
	}

	byCategory := make(map[string]*types.CategoryTotal)
	byMonth := make(map[string]*types.MonthlyPoint)
	spentByCategory := make(map[string]int64)

	for _, tx := range transactions {
		amount, err := s.convertCents(ctx, tx.AmountCents, tx.Currency, currency)
		if err != nil {
			s.logger.Warn("skipping unconvertible transaction",
				zap.String("transaction_id", tx.ID.String()),
				zap.Error(err))
			continue
		}

		month := tx.OccurredOn.Format("2006-01")
		point, ok := byMonth[month]
		if !ok {
			point = &types.MonthlyPoint{Month: month}
			byMonth[month] = point
		}

		if amount >= 0 {
			data.IncomeCents += amount
			point.IncomeCents += amount
			continue
		}

		expense := -amount
		data.ExpenseCents += expense
		point.ExpenseCents += expense

		total, ok := byCategory[tx.Category]
		if !ok {
			total = &types.CategoryTotal{Category: tx.Category}
			byCategory[tx.Category] = total
		}
		total.AmountCents += expense
		total.Count++

		if tx.OccurredOn.Format("2006-01") == budgetMonth {
			spentByCategory[tx.Category] += expense
		}
	}
	data.BalanceCents = data.IncomeCents - data.ExpenseCents

	data.ByCategory = make([]types.CategoryTotal, 0, len(byCategory))
	for _, total := range byCategory {
		data.ByCategory = append(data.ByCategory, *total)
	}
	sort.Slice(data.ByCategory, func(i, j int) bool {
		if data.ByCategory[i].AmountCents != data.ByCategory[j].AmountCents {
			return data.ByCategory[i].AmountCents > data.ByCategory[j].AmountCents
		}
		return data.ByCategory[i].Category < data.ByCategory[j].Category
	})

	data.MonthlySeries = make([]types.MonthlyPoint, 0, len(byMonth))
	for _, point := range byMonth {
		data.MonthlySeries = append(data.MonthlySeries, *point)
	}
	sort.Slice(data.MonthlySeries, func(i, j int) bool {
		return data.MonthlySeries[i].Month < data.MonthlySeries[j].Month
	})

	data.Budgets = make([]types.BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		limit, err := s.convertCents(ctx, b.LimitCents, b.Currency, currency)
		if err != nil {
			s.logger.Warn("skipping unconvertible budget",
				zap.String("category", b.Category),
				zap.Error(err))
			continue
		}
		status := types.BudgetStatus{
			Category:   b.Category,
			LimitCents: limit,
			SpentCents: spentByCategory[b.Category],
		}
		if limit > 0 {
			status.UsedPercent = float64(status.SpentCents) / float64(limit) * 100
		}
		status.Exceeded = status.SpentCents >= limit
		data.Budgets = append(data.Budgets, status)
	}

	data.Alerts = BudgetAlerts(data.Budgets)
	return data, nil
}

func (s *Service) convertCents(ctx context.Context, cents int64, from, to string) (int64, error) {
	if from == to || from == "" {
		return cents, nil
	}
	converted, err := s.converter.Convert(ctx, float64(cents)/100, from, to)
	if err != nil {
		return 0, err
	}
	return int64(math.Round(converted * 100)), nil
}
