package cmd

import (
	"fmt"
	"os"

	"arena-transparency-service/internal/loaders"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flags for the ledger command
var includeJournal bool

// ledgerCmd represents the ledger command
var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Summarize general ledger activity by account",
	Long: `Ledger rolls the transaction-level general ledger export up to one
row per account, with total debits, credits and net activity. With
--journal it also lists the proposed adjusting entries prepared for the
auditor, reassembled from their multi-row workbook blocks.

Examples:
  arenadash ledger --data-dir ./data
  arenadash ledger --data-dir ./data --journal
  arenadash ledger --data-dir ./data --output-format csv -o accounts.csv`,

	PreRunE: validateLedgerFlags,
	RunE:    runLedger,
}

func init() {
	rootCmd.AddCommand(ledgerCmd)

	ledgerCmd.Flags().BoolVar(&includeJournal, "journal", false, "include the proposed adjusting journal entries")
	addReportFlags(ledgerCmd)
}

func validateLedgerFlags(cmd *cobra.Command, args []string) error {
	if err := validateDataDir(); err != nil {
		return err
	}
	return validateOutputFormat()
}

func runLedger(cmd *cobra.Command, args []string) error {
	loader := newLoader()
	entries := loader.LoadGeneralLedger()

	report := newReport()
	report.Accounts = loaders.SummarizeAccounts(entries)
	if includeJournal {
		report.JournalLines = loader.LoadProposedEntries()
	}

	if err := writeReport(report); err != nil {
		return err
	}

	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "\nSummarized %d ledger entries into %d accounts.\n",
			len(entries), len(report.Accounts))
	}
	return nil
}
