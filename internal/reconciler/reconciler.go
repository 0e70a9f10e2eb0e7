// Package reconciler builds the reconciliation master table: budget groups
// joined against expense-flow actuals and invoice totals, with each line
// classified by how well the three figures agree.
//
// The join is category-keyed. Budget rows are grouped by their resolved
// expense-flow category (many-to-one), summed, and compared against that
// category's single actual/invoice pair. Every budget row and every
// nonzero flow record lands in exactly one output row; nothing is silently
// dropped except flow rows carrying no amounts at all.
package reconciler

import (
	"sort"

	"arena-transparency-service/internal/mapping"
	"arena-transparency-service/internal/models"
	"arena-transparency-service/pkg/logger"

	"github.com/shopspring/decimal"
)

// StatusThresholds holds the dollar cutoffs for variance classification.
// The defaults are reporting constants: changing them changes published
// findings, so they are overridden only deliberately.
type StatusThresholds struct {
	// Minor is the absolute budget-actual difference above which a line is
	// at least a minor variance.
	Minor decimal.Decimal

	// Major is the absolute budget-actual difference above which a line is
	// a major variance.
	Major decimal.Decimal
}

// DefaultStatusThresholds returns the published classification cutoffs
func DefaultStatusThresholds() StatusThresholds {
	return StatusThresholds{
		Minor: decimal.NewFromInt(500),
		Major: decimal.NewFromInt(5000),
	}
}

// Validate checks that the thresholds are usable
func (t StatusThresholds) Validate() error {
	if t.Minor.IsNegative() || t.Major.IsNegative() {
		return errNegativeThreshold
	}
	if t.Major.LessThan(t.Minor) {
		return errInvertedThresholds
	}
	return nil
}

var (
	errNegativeThreshold  = constError("status thresholds cannot be negative")
	errInvertedThresholds = constError("major threshold must not be below minor threshold")
)

type constError string

func (e constError) Error() string { return string(e) }

// Engine performs the reconciliation join
type Engine struct {
	thresholds StatusThresholds
	logger     logger.Logger
}

// NewEngine creates an Engine with the given thresholds, defaulting to the
// published cutoffs.
func NewEngine(thresholds *StatusThresholds) *Engine {
	t := DefaultStatusThresholds()
	if thresholds != nil {
		t = *thresholds
	}
	return &Engine{
		thresholds: t,
		logger:     logger.GetGlobalLogger().WithComponent("reconciler"),
	}
}

// ClassifyStatus classifies one reconciliation line from its three
// amounts. Pure; precedence is BudgetOnly, then NoInvoiceTrail, then the
// variance bands.
func ClassifyStatus(budget, actual, invoice decimal.Decimal, t StatusThresholds) models.ReconciliationStatus {
	diff := actual.Sub(budget).Abs()

	switch {
	case actual.IsZero() && invoice.IsZero() && budget.IsPositive():
		return models.StatusBudgetOnly
	case invoice.IsZero() && actual.IsPositive():
		return models.StatusNoInvoiceTrail
	case diff.GreaterThan(t.Major):
		return models.StatusMajorVariance
	case diff.GreaterThan(t.Minor):
		return models.StatusMinorVariance
	default:
		return models.StatusMatched
	}
}

// budgetGroup collects the budget rows resolving to one flow category
type budgetGroup struct {
	category string
	members  []*models.LineItem
}

// Reconcile joins the budget table against the expense-flow table using
// the category map and returns the master table sorted by descending
// absolute budget-actual variance.
func (e *Engine) Reconcile(budget []models.LineItem, flow []models.ExpenseFlowRecord, catMap *mapping.CategoryMap) []models.ReconciliationRow {
	if catMap == nil {
		catMap = mapping.Default()
	}

	// Flow lookup by category; later rows win, matching a sheet where a
	// category should appear once.
	flowLookup := make(map[string]*models.ExpenseFlowRecord, len(flow))
	categories := make([]string, 0, len(flow))
	for i := range flow {
		cat := flow[i].Category
		if _, seen := flowLookup[cat]; !seen {
			categories = append(categories, cat)
		}
		flowLookup[cat] = &flow[i]
	}
	resolver := catMap.Resolver(categories)

	// Group budget rows by resolved category, preserving first-seen order.
	// Aggregate rows are excluded from the join.
	groups := make(map[string]*budgetGroup)
	groupOrder := make([]string, 0, len(budget))
	var unmatched []*models.LineItem

	for i := range budget {
		li := &budget[i]
		if li.Name == "" || li.IsTotal() {
			continue
		}

		category, ok := resolver.Resolve(li.Name)
		if !ok {
			unmatched = append(unmatched, li)
			continue
		}

		g, exists := groups[category]
		if !exists {
			g = &budgetGroup{category: category}
			groups[category] = g
			groupOrder = append(groupOrder, category)
		}
		g.members = append(g.members, li)
	}

	rows := make([]models.ReconciliationRow, 0, len(groupOrder)+len(unmatched))
	matchedCategories := make(map[string]bool, len(groupOrder))

	// Matched groups: sum the group's budget figures, with the per-row
	// fallback from the administered column to the proposal column.
	for _, category := range groupOrder {
		g := groups[category]
		fr := flowLookup[category]
		matchedCategories[category] = true

		budgetAmount := decimal.Zero
		names := make([]string, 0, len(g.members))
		for _, li := range g.members {
			budgetAmount = budgetAmount.Add(models.DecimalOrZero(li.BudgetYTD()))
			names = append(names, li.Name)
		}

		actual := models.DecimalOrZero(fr.FinancialActual)
		invoice := models.DecimalOrZero(fr.InvoiceTotal)

		rows = append(rows, models.ReconciliationRow{
			LineItemLabel:         mapping.GroupLabel(category, names),
			BudgetAmount:          budgetAmount,
			ActualAmount:          actual,
			InvoiceAmount:         invoice,
			BudgetActualVariance:  models.NullDecimal(actual.Sub(budgetAmount)),
			ActualInvoiceVariance: models.NullDecimal(invoice.Sub(actual)),
			ApprovalMethod:        approvalText(fr),
			Status:                ClassifyStatus(budgetAmount, actual, invoice, e.thresholds),
		})
	}

	// Budget rows with no resolvable category surface individually rather
	// than disappearing.
	for _, li := range unmatched {
		budgetAmount := models.DecimalOrZero(li.BudgetYTD())

		variance := decimal.NullDecimal{}
		if !budgetAmount.IsZero() {
			variance = models.NullDecimal(budgetAmount.Neg())
		}

		rows = append(rows, models.ReconciliationRow{
			LineItemLabel:        li.Name,
			BudgetAmount:         budgetAmount,
			ActualAmount:         decimal.Zero,
			InvoiceAmount:        decimal.Zero,
			BudgetActualVariance: variance,
			Status:               models.StatusBudgetOnly,
		})
	}

	// Flow categories nothing budgeted for: real spend without a budget
	// line is exactly what the dashboard exists to surface.
	for i := range flow {
		fr := &flow[i]
		if matchedCategories[fr.Category] || fr.IsEmpty() {
			continue
		}
		matchedCategories[fr.Category] = true

		actual := models.DecimalOrZero(fr.FinancialActual)
		invoice := models.DecimalOrZero(fr.InvoiceTotal)

		rows = append(rows, models.ReconciliationRow{
			LineItemLabel:         fr.Category,
			BudgetAmount:          decimal.Zero,
			ActualAmount:          actual,
			InvoiceAmount:         invoice,
			BudgetActualVariance:  models.NullDecimal(actual),
			ActualInvoiceVariance: models.NullDecimal(invoice.Sub(actual)),
			ApprovalMethod:        approvalText(fr),
			Status:                models.StatusActualOnly,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].AbsBudgetActualVariance().GreaterThan(rows[j].AbsBudgetActualVariance())
	})

	e.logger.WithFields(logger.Fields{
		"budget_rows": len(budget),
		"flow_rows":   len(flow),
		"output_rows": len(rows),
	}).Debug("Built reconciliation master table")

	return rows
}

func approvalText(fr *models.ExpenseFlowRecord) string {
	if fr.ApprovalText != "" {
		return fr.ApprovalText
	}
	return fr.ApprovalMethod.String()
}
