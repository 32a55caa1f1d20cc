package finance

import (
	"fmt"

	"github.com/dmoreno/cv-studio/internal/types"
)

// warningThreshold is the budget usage fraction that raises a warning.
const warningThreshold = 0.8

// BudgetAlerts derives display alerts from budget statuses. A budget at or
// over its limit is critical; one at 80% or more of the limit is a warning.
func BudgetAlerts(budgets []types.BudgetStatus) []types.FinanceAlert {
	alerts := make([]types.FinanceAlert, 0)
	for _, b := range budgets {
		switch {
		case b.Exceeded:
			alerts = append(alerts, types.FinanceAlert{
				Level:    types.AlertCritical,
				Category: b.Category,
				Message: fmt.Sprintf("Has superado el presupuesto de %s (%.0f%% utilizado).",
					b.Category, b.UsedPercent),
			})
		case b.LimitCents > 0 && float64(b.SpentCents) >= float64(b.LimitCents)*warningThreshold:
			alerts = append(alerts, types.FinanceAlert{
				Level:    types.AlertWarning,
				Category: b.Category,
				Message: fmt.Sprintf("Llevas gastado el %.0f%% del presupuesto de %s.",
					b.UsedPercent, b.Category),
			})
		}
	}
	return alerts
}
