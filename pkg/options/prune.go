package options

import "sort"

// Rule adjusts option values for the given platform. A rule may only tighten
// values (force false or remove); it never enables an option.
type Rule struct {
	Name  string
	Apply func(settings Settings, values Values) Values
}

// DefaultRules are the platform pruning rules in application order
var DefaultRules = []Rule{
	{Name: "windows", Apply: pruneWindows},
	{Name: "coverage-needs-tests", Apply: pruneCoverageWithoutTests},
	{Name: "coverage-needs-debug", Apply: pruneCoverageOutsideDebug},
}

// Prune applies DefaultRules in order and returns the adjusted values.
// It is total and idempotent.
func Prune(settings Settings, values Values) Values {
	return PruneWith(DefaultRules, settings, values)
}

// PruneWith applies an explicit rule list in order
func PruneWith(rules []Rule, settings Settings, values Values) Values {
	for _, rule := range rules {
		values = rule.Apply(settings, values)
	}
	return values
}

// PIC is not a meaningful toggle on Windows, so the option disappears entirely.
func pruneWindows(settings Settings, values Values) Values {
	if !settings.IsWindows() {
		return values
	}
	values = values.Without(FPIC)
	return forceOff(values, Coverage)
}

func pruneCoverageWithoutTests(_ Settings, values Values) Values {
	if tests, ok := values.Get(BuildTests); ok && !tests {
		return forceOff(values, Coverage)
	}
	return values
}

func pruneCoverageOutsideDebug(settings Settings, values Values) Values {
	if settings.IsDebug() {
		return values
	}
	return forceOff(values, Coverage)
}

// forceOff sets name to false only if the schema declared it
func forceOff(values Values, name string) Values {
	if !values.Has(name) {
		return values
	}
	return values.With(name, false)
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
