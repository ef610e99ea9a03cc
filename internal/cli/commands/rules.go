package commands

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/leapstack-labs/pbiassist/internal/cli/output"
	"github.com/leapstack-labs/pbiassist/pkg/core"
	"github.com/leapstack-labs/pbiassist/pkg/lint"
	_ "github.com/leapstack-labs/pbiassist/pkg/lint/rules" // register rule catalogue
	"github.com/spf13/cobra"
)

// RulesOptions holds options for the rules command.
type RulesOptions struct {
	Category string // Filter by category
	Verbose  bool   // Show full documentation
	Format   string // Output format
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	opts := &RulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules [rule-id]",
		Short: "List best-practice rules",
		Long: `List the best-practice rule catalogue with its documentation.

Rules are organized by category (e.g. naming, performance).
Use --verbose to see the rationale and fix guidance of every rule.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON/YAML: Machine-readable format`,
		Example: `  # List all rules
  pbiassist rules

  # Show details for a specific rule
  pbiassist rules DQ02

  # List performance rules only
  pbiassist rules --category performance

  # Show full documentation
  pbiassist rules -V

  # Output as JSON
  pbiassist rules --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return showRule(cmd, args[0], opts)
			}
			return listRules(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Category, "category", "c", "", "Filter by category")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "V", false, "Show full documentation")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json, yaml")

	return cmd
}

func listRules(cmd *cobra.Command, opts *RulesOptions) error {
	r := overrideRenderer(cmd, NewCommandContext(cmd).Renderer, opts.Format)

	rules := lint.AllRules()
	if opts.Category != "" {
		c, ok := core.ParseCategory(opts.Category)
		if !ok {
			return fmt.Errorf("unknown category %q", opts.Category)
		}
		rules = filterRulesByCategory(rules, c)
	}

	if ok, err := r.Structured(newRulesOutput(rules)); ok || err != nil {
		return err
	}
	if r.EffectiveMode() == output.ModeMarkdown {
		listRulesMarkdown(r, rules, opts.Verbose)
		return nil
	}
	listRulesText(r, rules, opts.Verbose)
	return nil
}

func filterRulesByCategory(rules []core.RuleInfo, c core.Category) []core.RuleInfo {
	var filtered []core.RuleInfo
	for _, r := range rules {
		if r.Category == c {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// byCategory groups rules in category display order.
func byCategory(rules []core.RuleInfo) [][]core.RuleInfo {
	var groups [][]core.RuleInfo
	for _, c := range core.AllCategories() {
		group := filterRulesByCategory(rules, c)
		if len(group) > 0 {
			groups = append(groups, group)
		}
	}
	return groups
}

func showRule(cmd *cobra.Command, ruleID string, opts *RulesOptions) error {
	r := overrideRenderer(cmd, NewCommandContext(cmd).Renderer, opts.Format)

	def, ok := lint.GetByID(strings.ToUpper(ruleID))
	if !ok {
		return fmt.Errorf("rule %q not found", ruleID)
	}
	rule := def.Info()

	if ok, err := r.Structured(rule); ok || err != nil {
		return err
	}
	if r.EffectiveMode() == output.ModeMarkdown {
		showRuleMarkdown(r, rule)
		return nil
	}
	showRuleText(r, rule)
	return nil
}

// listRulesText outputs rules in styled text format.
func listRulesText(r *output.Renderer, rules []core.RuleInfo, verbose bool) {
	styles := r.Styles()

	r.Println(styles.Header1.Render(fmt.Sprintf("Best-Practice Rules (%d)", len(rules))))
	r.Println("")

	for _, group := range byCategory(rules) {
		r.Println(styles.Header2.Render(group[0].Category.DisplayName()))
		for _, rule := range group {
			severityStyle := getSeverityStyle(styles, rule.DefaultSeverity)
			r.Printf("  %s  %s - %s\n",
				styles.Muted.Render(rule.ID),
				rule.Name,
				severityStyle.Render(rule.DefaultSeverity.String()),
			)
			if verbose {
				r.Println(styles.Muted.Render("      " + rule.Description))
				if rule.Rationale != "" {
					r.Println(styles.Muted.Render("      Why: " + truncateOneLine(rule.Rationale, 80)))
				}
			}
		}
		r.Println("")
	}

	r.Println(styles.Muted.Render("Use 'pbiassist rules <rule-id>' for detailed documentation"))
}

// listRulesMarkdown outputs rules in markdown format.
func listRulesMarkdown(r *output.Renderer, rules []core.RuleInfo, verbose bool) {
	r.Println(output.FormatHeader(1, "Best-Practice Rules"))
	r.Println("")

	for _, group := range byCategory(rules) {
		r.Println(output.FormatHeader(2, group[0].Category.DisplayName()))
		r.Println("")
		for _, rule := range group {
			r.Printf("- **%s** - %s (`%s`)\n", rule.ID, rule.Name, rule.DefaultSeverity.String())
			if verbose {
				r.Println("  " + rule.Description)
				if rule.Rationale != "" {
					r.Println("  > " + rule.Rationale)
				}
			}
		}
		r.Println("")
	}
}

// RulesOutput is the structured output of the rules listing.
type RulesOutput struct {
	Rules      []core.RuleInfo       `json:"rules" yaml:"rules"`
	ByCategory map[core.Category]int `json:"byCategory" yaml:"by_category"`
	Total      int                   `json:"total" yaml:"total"`
}

func newRulesOutput(rules []core.RuleInfo) RulesOutput {
	out := RulesOutput{
		Rules:      rules,
		ByCategory: make(map[core.Category]int),
		Total:      len(rules),
	}
	if out.Rules == nil {
		out.Rules = []core.RuleInfo{}
	}
	for _, rule := range rules {
		out.ByCategory[rule.Category]++
	}
	return out
}

// showRuleText displays detailed rule info in text format.
func showRuleText(r *output.Renderer, rule core.RuleInfo) {
	styles := r.Styles()

	r.Println(styles.Header1.Render(fmt.Sprintf("%s - %s", rule.ID, rule.Name)))
	r.Println("")

	r.Printf("  %s: %s\n", styles.Bold.Render("Category"), rule.Category.DisplayName())
	r.Printf("  %s: %s\n", styles.Bold.Render("Severity"), getSeverityStyle(styles, rule.DefaultSeverity).Render(rule.DefaultSeverity.String()))
	r.Println("")

	r.Println(styles.Bold.Render("Description"))
	r.Println("  " + rule.Description)
	r.Println("")

	if rule.Rationale != "" {
		r.Println(styles.Bold.Render("Why This Matters"))
		r.Println("  " + rule.Rationale)
		r.Println("")
	}

	if rule.Fix != "" {
		r.Println(styles.Bold.Render("How to Fix"))
		r.Println("  " + rule.Fix)
		r.Println("")
	}

	if len(rule.ConfigKeys) > 0 {
		r.Println(styles.Bold.Render("Configuration"))
		r.Printf("  Options (lint.rules.%s): %s\n", rule.ID, strings.Join(rule.ConfigKeys, ", "))
		r.Println("")
	}
}

// showRuleMarkdown displays detailed rule info in markdown format.
func showRuleMarkdown(r *output.Renderer, rule core.RuleInfo) {
	r.Println(output.FormatHeader(1, fmt.Sprintf("%s - %s", rule.ID, rule.Name)))
	r.Println("")
	r.Printf("**Category:** %s | **Severity:** `%s`\n\n", rule.Category.DisplayName(), rule.DefaultSeverity.String())
	r.Println(rule.Description)
	r.Println("")

	if rule.Rationale != "" {
		r.Println(output.FormatHeader(2, "Why This Matters"))
		r.Println("")
		r.Println(rule.Rationale)
		r.Println("")
	}

	if rule.Fix != "" {
		r.Println(output.FormatHeader(2, "How to Fix"))
		r.Println("")
		r.Println(rule.Fix)
		r.Println("")
	}

	if len(rule.ConfigKeys) > 0 {
		r.Println(output.FormatHeader(2, "Configuration"))
		r.Println("")
		r.Printf("Options under `lint.rules.%s`: `%s`\n", rule.ID, strings.Join(rule.ConfigKeys, "`, `"))
		r.Println("")
	}
}

// Helper functions

func getSeverityStyle(styles *output.Styles, sev core.Severity) lipgloss.Style {
	switch sev {
	case core.SeverityError:
		return styles.Error
	case core.SeverityWarning:
		return styles.Warning
	case core.SeverityInfo:
		return styles.Info
	default:
		return styles.Muted
	}
}

func scoreStyle(styles *output.Styles, score int) lipgloss.Style {
	switch {
	case score >= 90:
		return styles.Success
	case score >= 70:
		return styles.Warning
	default:
		return styles.Error
	}
}

func truncateOneLine(s string, maxLen int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
