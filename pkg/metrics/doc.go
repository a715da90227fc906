/*
Package metrics exposes Prometheus instrumentation for maintd.

All collectors are package-level and registered at init time; the agent and
queue increment them as passes run, and cmd/maintd serves them through
Handler on the configured metrics address.

	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.PassDuration)
	metrics.PassesTotal.Inc()
*/
package metrics
