// Package sentencing computes deterministic sentence ranges in months.
//
// A computation runs four pure stages over immutable rule tables:
//
//	ResolveBase -> Adjust -> ToRange -> LegalRange.Clip (optional)
//
// Rule tables are grouped per crime category into a RuleSet and selected
// through a Registry. The compiled-in registry is built once on first use
// (DefaultRegistry); alternative tables can be loaded with package ruledoc.
//
// Nothing in this package performs I/O or mutates shared state, so an Engine
// may be used from any number of goroutines.
package sentencing
