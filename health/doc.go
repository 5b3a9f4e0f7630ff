// Package health provides health checks over the result cache storage.
//
// A Checker reports the health of one component as Healthy, Degraded, or
// Unhealthy. StorageChecker inspects the on-disk cache: the directory must
// be writable and the index must parse; a store over its size budget is
// degraded rather than unhealthy. An Aggregator runs registered checkers
// with a shared timeout and computes an overall status, which backs the
// CLI status command.
//
//	agg := health.NewAggregator(health.AggregatorConfig{Timeout: 5 * time.Second})
//	agg.Register(health.NewStorageChecker(cacheDir, maxBytes))
//
//	results := agg.CheckAll(ctx)
//	overall := health.OverallStatus(results)
package health
