package stage

import (
	"context"
	"time"

	"github.com/storypipe/storypipe/logger"
	"github.com/storypipe/storypipe/message"
	"github.com/storypipe/storypipe/observability"
)

// WithLogging wraps an Invoker with execution logging.
// Logs: stage name, duration, and success/error status.
func WithLogging(inner Invoker, log *logger.Logger) Invoker {
	return &loggingInvoker{inner: inner, log: log}
}

type loggingInvoker struct {
	inner Invoker
	log   *logger.Logger
}

func (i *loggingInvoker) Invoke(ctx context.Context, name string, msg *message.Message) (*message.Message, error) {
	start := time.Now()
	result, err := i.inner.Invoke(ctx, name, msg)
	duration := time.Since(start)

	fields := map[string]interface{}{
		logger.FieldStage:    name,
		logger.FieldDuration: duration.Milliseconds(),
	}

	if err != nil {
		fields[logger.FieldError] = err.Error()
		i.log.Error("stage failed", fields)
	} else {
		i.log.Debug("stage completed", fields)
	}

	return result, err
}

// WithTracing wraps an Invoker with OpenTelemetry span creation.
// Each invocation creates a span named "{prefix}.{stageName}".
func WithTracing(inner Invoker, prefix string) Invoker {
	return &tracingInvoker{inner: inner, prefix: prefix}
}

type tracingInvoker struct {
	inner  Invoker
	prefix string
}

func (i *tracingInvoker) Invoke(ctx context.Context, name string, msg *message.Message) (*message.Message, error) {
	ctx, span := observability.StartSpan(ctx, i.prefix+"."+name)
	defer span.End()

	observability.SetSpanAttribute(ctx, "pipeline.stage", name)

	result, err := i.inner.Invoke(ctx, name, msg)
	if err != nil {
		observability.SetSpanError(ctx, err)
	}

	return result, err
}
