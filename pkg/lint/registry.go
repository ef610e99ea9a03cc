package lint

import (
	"fmt"
	"sort"
	"sync"

	"github.com/leapstack-labs/pbiassist/pkg/core"
)

// globalRegistry is the single global registry for all rules.
var globalRegistry = &Registry{
	rules: make(map[string]RuleDef),
}

// Registry stores registered rules for discovery.
type Registry struct {
	mu    sync.RWMutex
	rules map[string]RuleDef // keyed by ID
}

// Register adds a rule to the global registry.
// Call this from init() functions in rule packages. A rule without an ID, a check
// or a known category is a programming error and panics.
func Register(rule RuleDef) {
	if rule.ID == "" || rule.Check == nil || !rule.Category.Valid() {
		panic(fmt.Sprintf("lint: invalid rule definition %q (category %q)", rule.ID, rule.Category))
	}
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.rules[rule.ID] = rule
}

// GetAll returns all registered rules sorted by ID.
func GetAll() []RuleDef {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	rules := make([]RuleDef, 0, len(globalRegistry.rules))
	for _, rule := range globalRegistry.rules {
		rules = append(rules, rule)
	}
	sortRules(rules)
	return rules
}

// GetByID returns a rule by its ID.
func GetByID(id string) (RuleDef, bool) {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	rule, ok := globalRegistry.rules[id]
	return rule, ok
}

// GetByCategory returns all rules in a specific category, sorted by ID.
func GetByCategory(category core.Category) []RuleDef {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	var rules []RuleDef
	for _, rule := range globalRegistry.rules {
		if rule.Category == category {
			rules = append(rules, rule)
		}
	}
	sortRules(rules)
	return rules
}

// AllRules returns documentation for every registered rule, sorted by ID.
func AllRules() []core.RuleInfo {
	rules := GetAll()
	infos := make([]core.RuleInfo, 0, len(rules))
	for _, r := range rules {
		infos = append(infos, r.Info())
	}
	return infos
}

// Count returns the number of registered rules.
func Count() int {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	return len(globalRegistry.rules)
}

// Clear removes all registered rules. Used for testing.
func Clear() {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.rules = make(map[string]RuleDef)
}

func sortRules(rules []RuleDef) {
	sort.Slice(rules, func(i, j int) bool { return rules[i].ID < rules[j].ID })
}
