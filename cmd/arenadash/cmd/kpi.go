package cmd

import (
	"arena-transparency-service/internal/loaders"

	"github.com/spf13/cobra"
)

// kpiCmd represents the kpi command
var kpiCmd = &cobra.Command{
	Use:   "kpi",
	Short: "Show headline annualized figures and coverage ratios",
	Long: `Kpi derives the headline numbers from the budget reconciliation and
hidden cash flow sheets: annualized revenue, expenses and net operating
income, the off-budget outflow total, and the debt service coverage
ratio implied by the bond and loan payments.

Examples:
  arenadash kpi --data-dir ./data
  arenadash kpi --data-dir ./data --output-format json`,

	PreRunE: validateKPIFlags,
	RunE:    runKPI,
}

func init() {
	rootCmd.AddCommand(kpiCmd)
	addReportFlags(kpiCmd)
}

func validateKPIFlags(cmd *cobra.Command, args []string) error {
	if err := validateDataDir(); err != nil {
		return err
	}
	return validateOutputFormat()
}

func runKPI(cmd *cobra.Command, args []string) error {
	loader := newLoader()
	revenue := loader.LoadRevenueReconciliation()
	expense := loader.LoadExpenseReconciliation()
	hidden := loader.LoadHiddenCashFlows()

	kpis := loaders.ComputeKPIs(revenue, expense, hidden)

	report := newReport()
	report.KPIs = &kpis

	return writeReport(report)
}
