// Package logger builds the *slog.Logger shared by the hrportal binaries.
//
// New takes functional options; NewFromConfig maps the LOG_* environment
// settings onto them. Records go to stderr by default so that command output
// on stdout stays machine readable.
//
//	log := logger.New(
//	    logger.WithEnvironment("development", "hrctl"),
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.InfoContext(ctx, "logged in", logger.UserID(user.ID), logger.Role(user.Role))
//
// Context extractors run on every record and add request scoped attributes
// such as the request id. The attribute helpers in attr.go keep key names
// consistent across packages; helpers taking an any value return an empty
// Attr for nil, which slog drops.
package logger
