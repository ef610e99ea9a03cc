package rules

// Import all rule subpackages to register them with the global registry.
// This file triggers all init() functions in the rule packages.
import (
	// Import rule categories - each registers its rules via init()
	_ "github.com/leapstack-labs/pbiassist/pkg/lint/rules/daxquality"
	_ "github.com/leapstack-labs/pbiassist/pkg/lint/rules/errorprevention"
	_ "github.com/leapstack-labs/pbiassist/pkg/lint/rules/formatting"
	_ "github.com/leapstack-labs/pbiassist/pkg/lint/rules/maintenance"
	_ "github.com/leapstack-labs/pbiassist/pkg/lint/rules/modeling"
	_ "github.com/leapstack-labs/pbiassist/pkg/lint/rules/naming"
	_ "github.com/leapstack-labs/pbiassist/pkg/lint/rules/performance"
	_ "github.com/leapstack-labs/pbiassist/pkg/lint/rules/reporting"
)
