// Package mapping resolves budget line-item names to expense-flow category
// names.
//
// The two workbooks name the same economic line items differently
// ("Electric" vs "Electric (Engie)"), and several budget lines roll up
// into one flow category (all youth-program spend is invoiced under a
// single category). The mapping is explicit configuration, versioned
// alongside the code, never inferred.
package mapping

import (
	"fmt"
	"os"
	"strings"

	"arena-transparency-service/pkg/errors"

	"gopkg.in/yaml.v3"
)

// CategoryMap holds the budget line item -> expense-flow category table
type CategoryMap struct {
	entries map[string]string
}

// mapFile is the YAML shape of a mapping file
type mapFile struct {
	Mappings map[string]string `yaml:"mappings"`
}

// New creates a CategoryMap from an explicit table
func New(entries map[string]string) *CategoryMap {
	copied := make(map[string]string, len(entries))
	for k, v := range entries {
		copied[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return &CategoryMap{entries: copied}
}

// Load parses a YAML mapping document
func Load(data []byte) (*CategoryMap, error) {
	var f mapFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.MappingError("inline", err)
	}
	if len(f.Mappings) == 0 {
		return nil, errors.MappingError("inline", fmt.Errorf("no mappings key or empty table"))
	}
	return New(f.Mappings), nil
}

// LoadFile parses a YAML mapping file
func LoadFile(path string) (*CategoryMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.MappingError(path, err)
	}
	m, err := Load(data)
	if err != nil {
		return nil, errors.MappingError(path, err)
	}
	return m, nil
}

// Default returns the mapping table for the current budget and
// expense-flow workbooks. Kept in sync with config/category_map.yaml.
func Default() *CategoryMap {
	return New(map[string]string{
		"Electric":                      "Electric (Engie)",
		"Gas (Nicor)":                   "Gas (Nicor)",
		"Janitorial Supplies":           "Janitorial Supplies (Ramrod)",
		"Insurance (Liab/Prop/D&O)":     "Insurance - Liab, Prop, D&O",
		"Snowplow":                      "Landscaping/Snow",
		"Landscaping":                   "Landscaping/Snow",
		"Propane":                       "Propane",
		"Building Maintenance":          "Building Maintenance",
		"Outside Consultants":           "Auditor/Consultants",
		"Legal Fees":                    "Auditor/Consultants",
		"Cable/Internet":                "Cable/Internet",
		"Security":                      "Security",
		"Operation Supplies":            "Operation Supplies",
		"Office Payroll":                "Office Payroll",
		"Operations Payroll":            "Operations Payroll",
		"Workers Comp Insurance":        "Workers Comp Insurance",
		"Men's League Payroll":          "Men's League Payroll",
		"Management Fees":               "Management Fees",
		"Land Lease":                    "Land Lease (Techny)",
		"Techny Loan Interest":          "Techny Loan Interest",
		"Interest Expense (DSRF)":       "Bond Interest (DSRF)",
		"Property Taxes":                "Property Taxes",
		"Trustee Admin Fee":             "Trustee Admin Fee (UMB)",
		"Scrubber Lease":                "Scrubber Lease",
		"Scoreboard Software (Expense)": "Scoreboard Software",
		"On Ice Instruction":            "Youth Programs (instruction)",
		"Off Ice Instruction":           "Youth Programs (instruction)",
		"Advertising/Marketing (Youth)": "Youth Programs (instruction)",
		"Youth Program Supplies":        "Youth Programs (instruction)",
	})
}

// Len returns the number of mapping entries
func (m *CategoryMap) Len() int {
	return len(m.entries)
}

// Lookup returns the mapped category for a budget line item, if any
func (m *CategoryMap) Lookup(lineItem string) (string, bool) {
	category, ok := m.entries[strings.TrimSpace(lineItem)]
	return category, ok
}

// Resolver binds the map to the set of categories that actually exist in
// a loaded expense-flow table.
func (m *CategoryMap) Resolver(categories []string) *Resolver {
	known := make(map[string]bool, len(categories))
	for _, c := range categories {
		known[strings.TrimSpace(c)] = true
	}
	return &Resolver{m: m, known: known}
}

// Resolver resolves line items against known flow categories
type Resolver struct {
	m     *CategoryMap
	known map[string]bool
}

// Resolve maps a budget line-item name to a flow category. The explicit
// table wins; an unmapped name resolves to itself when it is a known
// category; anything else is unmatched.
func (r *Resolver) Resolve(lineItem string) (string, bool) {
	name := strings.TrimSpace(lineItem)

	if category, ok := r.m.Lookup(name); ok && r.known[category] {
		return category, true
	}
	if r.known[name] {
		return name, true
	}
	return "", false
}

// GroupLabel renders the display label for a budget group: the single
// member's own name, or "{category} (a + b + ...)" when several budget
// lines contribute to one category.
func GroupLabel(category string, members []string) string {
	if len(members) == 1 {
		return members[0]
	}
	return category + " (" + strings.Join(members, " + ") + ")"
}
