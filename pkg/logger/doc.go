// Package logger builds *slog.Logger instances for the service and provides
// attribute helpers for the identifiers that appear in billing and task logs.
//
// New applies functional options (format, level, output, static attributes) and wraps
// the chosen handler with a decorator that pulls request scoped values, such as the
// request id, out of context.Context on every record.
//
//	log := logger.New(
//	    logger.WithEnvironment(cfg.Env, "taskflow"),
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.InfoContext(ctx, "subscription committed",
//	    logger.WorkspaceID(ws), logger.PlanID(plan.ID))
//
// Discard returns a logger that drops everything and is the default for services
// constructed without a logger option.
package logger
