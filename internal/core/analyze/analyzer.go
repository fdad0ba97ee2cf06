// Package analyze produces feedback reports from extracted CV text.
//
// The only implementation today is Template, a stand-in that samples from
// fixed feedback pools. The analysis.Analyzer interface keeps the scoring
// backend swappable for a real model without touching the runner.
package analyze
