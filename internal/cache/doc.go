// Package cache memoizes historical close lookups in Redis.
//
// Historical closes more than two days old are settled and keep for a
// month; newer ones may still move and expire after minutes. The cache is
// strictly best-effort: any Redis failure is logged and the lookup falls
// through to the wrapped source.
package cache
