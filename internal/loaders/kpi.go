package loaders

import (
	"regexp"

	"arena-transparency-service/internal/models"

	"github.com/shopspring/decimal"
)

// ytdMonths is how many months of activity the YTD sheets currently
// cover. Annualization scales by 12/ytdMonths.
const ytdMonths = 7

// boardApprovedShare is the portion of YTD spend that went through board
// approval, per the expense flow summary block.
var boardApprovedShare = decimal.NewFromFloat(0.255)

// debtServiceItems matches the hidden cash flow rows that constitute
// debt service for coverage purposes.
var debtServiceItems = regexp.MustCompile(`(?i)Bond|Techny Loan`)

// KPIs are the headline figures shown above the detail tables
type KPIs struct {
	RevenueYTD        decimal.Decimal `json:"revenueYtd"`
	ExpenseYTD        decimal.Decimal `json:"expenseYtd"`
	RevenueAnnualized decimal.Decimal `json:"revenueAnnualized"`
	ExpenseAnnualized decimal.Decimal `json:"expenseAnnualized"`
	NOIAnnualized     decimal.Decimal `json:"noiAnnualized"`
	HiddenAnnual      decimal.Decimal `json:"hiddenAnnual"`
	DebtServiceAnnual decimal.Decimal `json:"debtServiceAnnual"`
	DSCR              decimal.Decimal `json:"dscr"`
	NetCashFlow       decimal.Decimal `json:"netCashFlow"`
	BoardApprovedPct  decimal.Decimal `json:"boardApprovedPct"`
}

// ComputeKPIs derives the headline figures from the loaded sheets.
// YTD totals come from the "Total ..." aggregate rows when the sheet has
// them and fall back to summing every line otherwise.
func ComputeKPIs(revenue, expense []models.LineItem, hidden []models.HiddenCashFlow) KPIs {
	k := KPIs{
		RevenueYTD:       sumProposedYTD(revenue),
		ExpenseYTD:       sumProposedYTD(expense),
		BoardApprovedPct: boardApprovedShare,
	}

	k.RevenueAnnualized = annualize(k.RevenueYTD)
	k.ExpenseAnnualized = annualize(k.ExpenseYTD)
	k.NOIAnnualized = k.RevenueAnnualized.Sub(k.ExpenseAnnualized)

	for _, h := range hidden {
		impact := models.DecimalOrZero(h.AnnualImpact)
		k.HiddenAnnual = k.HiddenAnnual.Add(impact)
		if debtServiceItems.MatchString(h.Item) {
			k.DebtServiceAnnual = k.DebtServiceAnnual.Add(impact)
		}
	}

	if k.DebtServiceAnnual.IsPositive() {
		k.DSCR = k.NOIAnnualized.Div(k.DebtServiceAnnual)
	}
	k.NetCashFlow = k.NOIAnnualized.Sub(k.HiddenAnnual)

	return k
}

func annualize(ytd decimal.Decimal) decimal.Decimal {
	return ytd.Mul(decimal.NewFromInt(12)).Div(decimal.NewFromInt(ytdMonths))
}

// sumProposedYTD prefers the aggregate "Total ..." rows so sections are
// not double counted.
func sumProposedYTD(items []models.LineItem) decimal.Decimal {
	total := decimal.Zero
	sawTotal := false
	for _, item := range items {
		if item.IsTotal() {
			total = total.Add(models.DecimalOrZero(item.ProposedYTD))
			sawTotal = true
		}
	}
	if sawTotal {
		return total
	}
	for _, item := range items {
		total = total.Add(models.DecimalOrZero(item.ProposedYTD))
	}
	return total
}
