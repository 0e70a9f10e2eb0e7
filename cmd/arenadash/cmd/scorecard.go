package cmd

import (
	"fmt"
	"os"

	"arena-transparency-service/cmd/arenadash/config"
	"arena-transparency-service/internal/scorecard"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flags for the scorecard command
var termsFile string

// scorecardCmd represents the scorecard command
var scorecardCmd = &cobra.Command{
	Use:   "scorecard",
	Short: "Grade actual payments against the management agreement",
	Long: `Scorecard grades every fixed contractual obligation against what was
actually paid: the management fee and payroll reimbursements resolve
their actuals from the CSCG relationship sheet, while the lease, bond
and trustee payments carry observed figures from the fixed-obligations
block.

Terms without a contractual cap (at-cost reimbursements) grade as
AUTO-PAY rather than compliant or non-compliant.

Examples:
  arenadash scorecard --data-dir ./data
  arenadash scorecard --data-dir ./data --terms contract_terms.yaml
  arenadash scorecard --data-dir ./data --output-format json`,

	PreRunE: validateScorecardFlags,
	RunE:    runScorecard,
}

func init() {
	rootCmd.AddCommand(scorecardCmd)

	scorecardCmd.Flags().StringVar(&termsFile, "terms", "", "YAML file listing contract terms (default: built-in terms)")
	addReportFlags(scorecardCmd)

	viper.BindPFlag("terms", scorecardCmd.Flags().Lookup("terms"))
}

func validateScorecardFlags(cmd *cobra.Command, args []string) error {
	termsFile = viper.GetString("terms")

	if err := validateDataDir(); err != nil {
		return err
	}
	if err := validateOutputFormat(); err != nil {
		return err
	}
	if termsFile != "" {
		if _, err := os.Stat(termsFile); os.IsNotExist(err) {
			return fmt.Errorf("terms file does not exist: %s", termsFile)
		}
	}
	return nil
}

func runScorecard(cmd *cobra.Command, args []string) error {
	terms, err := config.CreateContractTerms(termsFile)
	if err != nil {
		return err
	}

	loader := newLoader()
	components := loader.LoadCSCGComponents()

	builder := scorecard.NewBuilder(nil)
	entries := builder.Build(terms, components)

	report := newReport()
	report.Scorecard = entries

	if err := writeReport(report); err != nil {
		return err
	}

	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "\nGraded %d contract terms against %d relationship components.\n",
			len(terms), len(components))
	}
	return nil
}
