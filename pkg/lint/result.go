package lint

import (
	"math"

	"github.com/leapstack-labs/pbiassist/pkg/core"
)

// Totals counts rules by outcome.
type Totals struct {
	TotalRules  int `json:"totalRules" yaml:"total_rules"`
	PassedRules int `json:"passedRules" yaml:"passed_rules"`
	FailedRules int `json:"failedRules" yaml:"failed_rules"`
}

// CategoryResult holds the outcome of every rule of one category.
type CategoryResult struct {
	Category    core.Category `json:"category" yaml:"category"`
	DisplayName string        `json:"displayName" yaml:"display_name"`
	TotalRules  int           `json:"totalRules" yaml:"total_rules"`
	PassedRules int           `json:"passedRules" yaml:"passed_rules"`
	FailedRules int           `json:"failedRules" yaml:"failed_rules"`
	// Rules lists the evaluated rules in ID order.
	Rules   []core.RuleInfo   `json:"rules" yaml:"rules"`
	Results map[string]Result `json:"results" yaml:"results"`
}

// Compliance returns the share of passed rules as a rounded percentage.
func (c CategoryResult) Compliance() int {
	return percentage(c.PassedRules, c.TotalRules)
}

// AnalysisResult is the output of the rule engine.
type AnalysisResult struct {
	// Categories appear in core.AllCategories() order; empty categories are omitted.
	Categories []CategoryResult `json:"categories" yaml:"categories"`
	Overall    Totals           `json:"overall" yaml:"overall"`
}

// Score returns the overall share of passed rules as a rounded percentage.
func (r *AnalysisResult) Score() int {
	if r == nil {
		return 100
	}
	return percentage(r.Overall.PassedRules, r.Overall.TotalRules)
}

// Category returns the result of one category.
func (r *AnalysisResult) Category(c core.Category) (CategoryResult, bool) {
	if r == nil {
		return CategoryResult{}, false
	}
	for _, cr := range r.Categories {
		if cr.Category == c {
			return cr, true
		}
	}
	return CategoryResult{}, false
}

// Result returns the result of one rule.
func (r *AnalysisResult) Result(ruleID string) (Result, bool) {
	if r == nil {
		return Result{}, false
	}
	for _, cr := range r.Categories {
		if res, ok := cr.Results[ruleID]; ok {
			return res, true
		}
	}
	return Result{}, false
}

// Failures returns the failed rules in category order, then ID order.
func (r *AnalysisResult) Failures() []Failure {
	if r == nil {
		return nil
	}
	var out []Failure
	for _, cr := range r.Categories {
		for _, info := range cr.Rules {
			if res := cr.Results[info.ID]; !res.Passed {
				out = append(out, Failure{Rule: info, AffectedObjects: res.AffectedObjects})
			}
		}
	}
	return out
}

// Failure pairs a failed rule with the objects it flagged.
type Failure struct {
	Rule            core.RuleInfo `json:"rule" yaml:"rule"`
	AffectedObjects []string      `json:"affectedObjects" yaml:"affected_objects"`
}

// percentage rounds passed/total to the nearest integer; an empty set scores 100.
func percentage(passed, total int) int {
	if total == 0 {
		return 100
	}
	return int(math.Round(float64(passed) / float64(total) * 100))
}
