// Package cmap provides a concurrent-safe sharded map.
//
// It uses sharding to reduce lock contention, providing better
// performance than sync.Map for high-concurrency workloads with
// many distinct keys, such as per-client rate limiter buckets.
package cmap
