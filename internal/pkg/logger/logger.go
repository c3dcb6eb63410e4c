package logger

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

type ctxKey string

const requestIDKey ctxKey = "request_id"

var base = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Init 设置全局日志器的服务名和级别。
func Init(serviceName string, level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.TimeFieldFormat = time.RFC3339Nano
	base = zerolog.New(os.Stdout).Level(lvl).With().
		Timestamp().
		Str("service", serviceName).
		Logger()
}

// WithRequestID 把请求 ID 写入 context，供 Ctx 取用。
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// Ctx 返回一个带上了 trace_id / request_id 的日志器。
// 没有活跃 span 或请求 ID 时退化为全局日志器。
func Ctx(ctx context.Context) *zerolog.Logger {
	logCtx := base.With()
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		logCtx = logCtx.Str("trace_id", sc.TraceID().String())
	}
	if id, ok := ctx.Value(requestIDKey).(string); ok && id != "" {
		logCtx = logCtx.Str("request_id", id)
	}
	l := logCtx.Logger()
	return &l
}
