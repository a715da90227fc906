/*
Package log provides structured logging for maintd built on zerolog.

A single global logger is initialized once at startup and component packages
derive child loggers carrying identifying fields:

	log.Init(log.Config{Level: log.InfoLevel, JSONOutput: true})
	logger := log.WithComponent("maintenance")
	logger.Info().Str("shard", "s1001").Msg("queueing action")

Console output (the default) is meant for interactive use; JSON output is for
log aggregation in production deployments.
*/
package log
