// Package perf computes percentage performance of a current price against
// a historical close, per lookback window.
package perf
