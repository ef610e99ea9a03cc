package vpax

import (
	"path"
	"strings"
)

// Strategy is a named predicate over archive entry names.
type Strategy struct {
	Name  string
	Match func(name string) bool
}

// Locate returns the first entry matched by the first strategy that matches anything.
// Strategies are tried in order; within a strategy entries are tried in archive order.
func Locate(names []string, strategies ...Strategy) (string, bool) {
	for _, s := range strategies {
		for _, n := range names {
			if s.Match(n) {
				return n, true
			}
		}
	}
	return "", false
}

// Well-known entry names.
const (
	NameDocumentEntry    = "DaxModel.json"
	ModelDefinitionEntry = "Model.bim"
	StatisticsEntry      = "DaxVpaView.json"
)

func baseLower(name string) string {
	return strings.ToLower(path.Base(name))
}

// Exact matches an entry whose base name equals want, ignoring case.
func Exact(want string) Strategy {
	want = strings.ToLower(want)
	return Strategy{
		Name:  "exact " + want,
		Match: func(name string) bool { return baseLower(name) == want },
	}
}

// Extension matches an entry with the given extension, ignoring case.
func Extension(ext string) Strategy {
	ext = strings.ToLower(ext)
	return Strategy{
		Name:  "extension " + ext,
		Match: func(name string) bool { return strings.EqualFold(path.Ext(name), ext) },
	}
}

// Contains matches an entry whose base name contains any of subs, has extension ext
// (any extension when ext is empty) and is not one of exclude.
func Contains(ext string, subs []string, exclude ...string) Strategy {
	ex := make(map[string]bool, len(exclude))
	for _, e := range exclude {
		ex[strings.ToLower(e)] = true
	}
	return Strategy{
		Name: "contains " + strings.Join(subs, "|"),
		Match: func(name string) bool {
			base := baseLower(name)
			if ex[base] {
				return false
			}
			if ext != "" && !strings.EqualFold(path.Ext(base), ext) {
				return false
			}
			for _, s := range subs {
				if strings.Contains(base, s) {
					return true
				}
			}
			return false
		},
	}
}

// NameDocumentStrategies locate the name document.
func NameDocumentStrategies() []Strategy {
	return []Strategy{Exact(NameDocumentEntry)}
}

// ModelDefinitionStrategies locate the model definition.
func ModelDefinitionStrategies() []Strategy {
	return []Strategy{
		Exact(ModelDefinitionEntry),
		Extension(".bim"),
		Contains("", []string{"model", "meta", "schema"}, NameDocumentEntry, StatisticsEntry),
	}
}

// StatisticsStrategies locate the statistics document. Entries in exclude (typically the
// name document and the chosen model definition) are never picked by the fallback tiers.
func StatisticsStrategies(exclude ...string) []Strategy {
	exclude = append([]string{NameDocumentEntry}, exclude...)
	var bases []string
	for _, e := range exclude {
		bases = append(bases, path.Base(e))
	}
	return []Strategy{
		Exact(StatisticsEntry),
		Contains(".json", []string{"vpaview", "vpa"}, bases...),
		Contains(".json", []string{"view", "stat"}, bases...),
		Contains(".json", []string{""}, bases...),
	}
}
