// Package report renders a terminal summary of a result set: per-category
// counts plus top and bottom performers for a few lookback windows.
package report
