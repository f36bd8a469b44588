// Package analyzer drives the market performance sweep.
//
// A run walks the configured categories in order, lists each category's
// instruments, and issues one blocking provider call at a time: a detail
// snapshot per instrument plus one historical close per lookback window.
// Failures stay contained to the instrument or category they hit;
// authentication failure aborts the whole run.
package analyzer
