package loaders

import (
	"testing"

	"arena-transparency-service/internal/models"

	"github.com/shopspring/decimal"
)

func nd(v int64) decimal.NullDecimal {
	return models.NullDecimal(decimal.NewFromInt(v))
}

func TestComputeKPIs(t *testing.T) {
	revenue := []models.LineItem{
		{Name: "Youth Hockey", ProposedYTD: nd(100000)},
		{Name: "Total Contract Ice", ProposedYTD: nd(280000)},
		{Name: "Total Public Programs", ProposedYTD: nd(70000)},
	}
	expense := []models.LineItem{
		{Name: "Electric", ProposedYTD: nd(21000)},
		{Name: "Total Operations", ProposedYTD: nd(210000)},
	}
	hidden := []models.HiddenCashFlow{
		{Item: "Bond Principal", AnnualImpact: nd(120000)},
		{Item: "Bond Interest (DSRF)", AnnualImpact: nd(376356)},
		{Item: "Techny Loan Payment", AnnualImpact: nd(60000)},
		{Item: "Scrubber Lease", AnnualImpact: nd(24000)},
	}

	k := ComputeKPIs(revenue, expense, hidden)

	// Aggregate rows win over detail lines
	if !k.RevenueYTD.Equal(decimal.NewFromInt(350000)) {
		t.Errorf("revenue YTD = %s, want 350000", k.RevenueYTD)
	}
	if !k.ExpenseYTD.Equal(decimal.NewFromInt(210000)) {
		t.Errorf("expense YTD = %s, want 210000", k.ExpenseYTD)
	}

	// Seven months annualize by 12/7
	wantRevenue := decimal.NewFromInt(350000).Mul(decimal.NewFromInt(12)).Div(decimal.NewFromInt(7))
	if !k.RevenueAnnualized.Equal(wantRevenue) {
		t.Errorf("annualized revenue = %s, want %s", k.RevenueAnnualized, wantRevenue)
	}

	if !k.HiddenAnnual.Equal(decimal.NewFromInt(580356)) {
		t.Errorf("hidden annual = %s, want 580356", k.HiddenAnnual)
	}

	// Debt service covers the bond rows and the Techny loan, not the lease
	if !k.DebtServiceAnnual.Equal(decimal.NewFromInt(556356)) {
		t.Errorf("debt service = %s, want 556356", k.DebtServiceAnnual)
	}

	wantNOI := k.RevenueAnnualized.Sub(k.ExpenseAnnualized)
	if !k.NOIAnnualized.Equal(wantNOI) {
		t.Errorf("NOI = %s, want %s", k.NOIAnnualized, wantNOI)
	}
	if !k.DSCR.Equal(wantNOI.Div(decimal.NewFromInt(556356))) {
		t.Errorf("DSCR = %s", k.DSCR)
	}
	if !k.NetCashFlow.Equal(wantNOI.Sub(decimal.NewFromInt(580356))) {
		t.Errorf("net cash flow = %s", k.NetCashFlow)
	}
}

func TestComputeKPIs_FallbackWithoutTotals(t *testing.T) {
	revenue := []models.LineItem{
		{Name: "Youth Hockey", ProposedYTD: nd(100000)},
		{Name: "Public Skate", ProposedYTD: nd(50000)},
	}

	k := ComputeKPIs(revenue, nil, nil)
	if !k.RevenueYTD.Equal(decimal.NewFromInt(150000)) {
		t.Errorf("revenue YTD without totals = %s, want sum of all lines 150000", k.RevenueYTD)
	}
	if !k.DSCR.IsZero() {
		t.Errorf("DSCR without debt service = %s, want 0", k.DSCR)
	}
}
