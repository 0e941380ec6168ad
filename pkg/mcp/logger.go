package mcp

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/quellcode/quellcode/pkg/log"
)

// TracedToolHandler is the handler type wrapped by [WithTracing].
type TracedToolHandler[In, Out any] func(
	context.Context,
	*mcp.ServerRequest[*mcp.CallToolParamsFor[In]],
) (*mcp.CallToolResultFor[Out], error)

// WithTracing starts a span for each tool call, logs the call with the
// span's trace id, and records errors on the span.
func WithTracing[In, Out any](
	tracer trace.Tracer,
	handler TracedToolHandler[In, Out],
) mcp.ToolHandlerFor[In, Out] {
	return func(
		ctx context.Context,
		req *mcp.ServerRequest[*mcp.CallToolParamsFor[In]],
	) (*mcp.CallToolResultFor[Out], error) {
		params := req.Params
		name := params.Name

		ctx, span := tracer.Start(ctx, name, trace.WithAttributes(
			attribute.String("mcp.tool", name),
		))
		defer span.End()

		logger := log.WithContext(ctx)

		logger.DebugContext(ctx, "handling tool call",
			slog.String("name", name),
			slog.Any("progress_token", params.GetProgressToken()),
			slog.Any("args", params.Arguments),
		)

		result, err := handler(ctx, req)
		if err != nil {
			logger.ErrorContext(ctx, "tool call failed",
				slog.String("name", name),
				slog.Any("error", err),
			)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())

			return result, err
		}

		logger.DebugContext(ctx, "tool call completed", slog.String("name", name))

		return result, nil
	}
}
