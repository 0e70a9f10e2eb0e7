// Package scorecard grades actual payments against the fixed terms of the
// management agreement and related obligations.
//
// The contract-term list is static configuration handed to the builder,
// not something inferred from parsed sheets: the terms come from signed
// agreements (management fee article, ground lease, bond indenture) and
// change only when the contracts do. Terms without a contractual cap
// cannot be judged non-compliant and grade as AUTO_PAY.
package scorecard

import (
	"fmt"
	"os"
	"strings"

	"arena-transparency-service/internal/models"
	"arena-transparency-service/pkg/errors"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// ComplianceThresholds holds the relative-deviation cutoffs. Published
// reporting constants: 2% compliant, 10% minor variance.
type ComplianceThresholds struct {
	Compliant     decimal.Decimal
	MinorVariance decimal.Decimal
}

// DefaultComplianceThresholds returns the published cutoffs
func DefaultComplianceThresholds() ComplianceThresholds {
	return ComplianceThresholds{
		Compliant:     decimal.NewFromFloat(0.02),
		MinorVariance: decimal.NewFromFloat(0.10),
	}
}

// ContractTerm is one row of the static contract-terms table. Actuals are
// either observed directly (fixed obligations paid through the trustee) or
// resolved by substring match against the CSCG relationship components.
type ContractTerm struct {
	Name           string   `yaml:"name"`
	ContractAmount *float64 `yaml:"contractAmount"`
	Period         string   `yaml:"period"`
	PeriodExpected *float64 `yaml:"periodExpected"`
	PeriodActual   *float64 `yaml:"periodActual"`
	ComponentMatch string   `yaml:"componentMatch"`
	Source         string   `yaml:"source"`
}

// termsFile is the YAML shape of a contract-terms file
type termsFile struct {
	Terms []ContractTerm `yaml:"terms"`
}

// LoadTerms parses a YAML contract-terms document
func LoadTerms(data []byte) ([]ContractTerm, error) {
	var f termsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.ConfigurationError(errors.CodeInvalidConfig, "contract_terms", "yaml", err)
	}
	if len(f.Terms) == 0 {
		return nil, errors.ConfigurationError(errors.CodeMissingConfig, "contract_terms", nil,
			fmt.Errorf("no terms key or empty list"))
	}
	return f.Terms, nil
}

// LoadTermsFile parses a YAML contract-terms file
func LoadTermsFile(path string) ([]ContractTerm, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.ConfigurationError(errors.CodeMissingConfig, "contract_terms", path, err)
	}
	return LoadTerms(data)
}

// DefaultTerms returns the contract terms of the current management
// agreement. Kept in sync with config/contract_terms.yaml.
func DefaultTerms() []ContractTerm {
	return []ContractTerm{
		{
			Name:           "Management Fee (Article 7.1)",
			ContractAmount: f(42000),
			Period:         "Annual",
			PeriodExpected: f(21000),
			ComponentMatch: "Management Fee",
			Source:         "CSCG Relationship sheet",
		},
		{
			Name:           "Office Payroll Reimbursement (Article 10.1)",
			Period:         "At cost",
			ComponentMatch: "Office Payroll",
			Source:         "CSCG Relationship sheet",
		},
		{
			Name:           "Operations Payroll Reimbursement (Article 10.1)",
			Period:         "At cost",
			ComponentMatch: "Operations Payroll",
			Source:         "CSCG Relationship sheet",
		},
		{
			Name:           "Workers Comp Insurance (Article 10.1)",
			Period:         "At cost",
			ComponentMatch: "Workers Comp",
			Source:         "CSCG Relationship sheet",
		},
		{
			Name:           "Land Lease - Techny (Ground Lease)",
			ContractAmount: f(385000),
			Period:         "Annual",
			PeriodExpected: f(192500),
			PeriodActual:   f(192500.35),
			Source:         "Expense Flow - Fixed Obligations",
		},
		{
			Name:           "Bond Interest - DSRF (Bond Indenture)",
			ContractAmount: f(376356),
			Period:         "Annual",
			PeriodExpected: f(188178),
			PeriodActual:   f(188205.35),
			Source:         "Expense Flow - Fixed Obligations",
		},
		{
			Name:           "Trustee Admin Fee - UMB",
			ContractAmount: f(6000),
			Period:         "Annual",
			PeriodExpected: f(3000),
			PeriodActual:   f(3000),
			Source:         "Expense Flow - Fixed Obligations",
		},
	}
}

func f(v float64) *float64 {
	return &v
}

// Component is one row of the CSCG relationship sheet used to resolve
// observed actuals for reimbursement-style terms.
type Component struct {
	Name   string
	Amount decimal.NullDecimal
}

// Status grades one expected/actual pair. A null expected amount means no
// contractual cap exists and the term grades AUTO_PAY regardless of the
// actual.
func Status(expected decimal.NullDecimal, actual decimal.Decimal, t ComplianceThresholds) models.ComplianceStatus {
	if !expected.Valid {
		return models.ComplianceAutoPay
	}

	deviation := decimal.Zero
	if expected.Decimal.IsPositive() {
		deviation = actual.Sub(expected.Decimal).Abs().Div(expected.Decimal)
	}

	switch {
	case deviation.LessThanOrEqual(t.Compliant):
		return models.ComplianceCompliant
	case deviation.LessThanOrEqual(t.MinorVariance):
		return models.ComplianceMinorVariance
	default:
		return models.ComplianceNonCompliant
	}
}

// Builder assembles the compliance scorecard
type Builder struct {
	thresholds ComplianceThresholds
}

// NewBuilder creates a Builder, defaulting to the published thresholds
func NewBuilder(thresholds *ComplianceThresholds) *Builder {
	t := DefaultComplianceThresholds()
	if thresholds != nil {
		t = *thresholds
	}
	return &Builder{thresholds: t}
}

// Build grades every contract term. Terms with a ComponentMatch resolve
// their actual by summing the matching relationship components; the rest
// carry their observed actual in the term itself.
func (b *Builder) Build(terms []ContractTerm, components []Component) []models.ComplianceEntry {
	entries := make([]models.ComplianceEntry, 0, len(terms))

	for _, term := range terms {
		actual := nullFromPtr(term.PeriodActual)
		if term.ComponentMatch != "" {
			actual = models.NullDecimal(sumComponents(components, term.ComponentMatch))
		}

		expected := nullFromPtr(term.PeriodExpected)
		actualValue := models.DecimalOrZero(actual)

		entries = append(entries, models.ComplianceEntry{
			ContractTerm:   term.Name,
			ContractAmount: nullFromPtr(term.ContractAmount),
			PeriodExpected: expected,
			PeriodActual:   actualValue,
			Status:         Status(expected, actualValue, b.thresholds),
			Source:         term.Source,
		})
	}

	return entries
}

// sumComponents totals the relationship components whose name contains
// the match string, case-insensitively.
func sumComponents(components []Component, match string) decimal.Decimal {
	needle := strings.ToLower(match)
	total := decimal.Zero
	for _, c := range components {
		if strings.Contains(strings.ToLower(c.Name), needle) {
			total = total.Add(models.DecimalOrZero(c.Amount))
		}
	}
	return total
}

func nullFromPtr(v *float64) decimal.NullDecimal {
	if v == nil {
		return decimal.NullDecimal{}
	}
	return models.NullDecimalFromFloat(*v)
}
