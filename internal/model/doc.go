// Package model defines shared data types used across the analyzer pipeline.
//
// Conventions:
//   - Optional numbers are *float64. nil means the provider had no data;
//     sinks render it as "N/A". Zero is a real price, never a sentinel.
//   - Lookback windows use the Window enum, listed in result column order.
//   - Symbols are provider epics, e.g. "AAPL" or "BTCUSD".
package model
