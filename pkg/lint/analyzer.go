package lint

import (
	"github.com/leapstack-labs/pbiassist/pkg/core"
)

// Analyzer runs registered rules against an extracted model.
type Analyzer struct {
	config *Config
}

// NewAnalyzer creates a new analyzer with optional configuration.
func NewAnalyzer(config *Config) *Analyzer {
	if config == nil {
		config = NewConfig()
	}
	return &Analyzer{config: config}
}

// Analyze runs every registered rule with the default configuration.
func Analyze(data *core.ProcessedData) *AnalysisResult {
	return NewAnalyzer(nil).Analyze(data)
}

// Analyze runs all enabled rules and groups their results by category.
// A nil model is analyzed as an empty one.
func (a *Analyzer) Analyze(data *core.ProcessedData) *AnalysisResult {
	if data == nil {
		data = &core.ProcessedData{}
	}

	byCategory := make(map[core.Category]*CategoryResult)
	for _, rule := range GetAll() {
		// Skip disabled rules
		if a.config.IsDisabled(rule.ID) || !a.config.IncludesCategory(rule.Category) {
			continue
		}

		res := rule.Check(data, a.config.GetRuleOptions(rule.ID))
		if res.AffectedObjects == nil {
			res.AffectedObjects = []string{}
		}

		cr, ok := byCategory[rule.Category]
		if !ok {
			cr = &CategoryResult{
				Category:    rule.Category,
				DisplayName: rule.Category.DisplayName(),
				Results:     make(map[string]Result),
			}
			byCategory[rule.Category] = cr
		}

		info := rule.Info()
		info.DefaultSeverity = a.config.GetSeverity(rule.ID, rule.Severity)
		cr.Rules = append(cr.Rules, info)
		cr.Results[rule.ID] = res
		cr.TotalRules++
		if res.Passed {
			cr.PassedRules++
		} else {
			cr.FailedRules++
		}
	}

	result := &AnalysisResult{Categories: []CategoryResult{}}
	for _, cat := range core.AllCategories() {
		cr, ok := byCategory[cat]
		if !ok {
			continue
		}
		result.Categories = append(result.Categories, *cr)
		result.Overall.TotalRules += cr.TotalRules
		result.Overall.PassedRules += cr.PassedRules
		result.Overall.FailedRules += cr.FailedRules
	}
	return result
}
