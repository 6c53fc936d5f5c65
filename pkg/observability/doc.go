// Copyright 2026 BWI GmbH and Solution Arsenal contributors
// SPDX-License-Identifier: Apache-2.0

// Package observability provides structured logging for spacelet-template.
//
// Loggers are logr.Logger values backed by zap. Commands build one at start
// up and pass it down through the context:
//
//	logger, err := observability.NewLogger(observability.LoggerConfig{Level: "debug"})
//	if err != nil {
//	    return err
//	}
//	ctx = observability.ContextWithLogger(ctx, logger)
//
// Library code picks it up again with LoggerFromContext, which falls back to
// a discard logger.
package observability
