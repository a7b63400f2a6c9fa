package tracing

import (
	"context"
	"fmt"
	"io"

	"wunder_bot/pkg/logger"

	"github.com/opentracing/opentracing-go"
	jCfg "github.com/uber/jaeger-client-go/config"
	"github.com/uber/jaeger-lib/metrics"
)

var (
	// Неверное не самое элегантное решение, но лучше чем выносить константу в отдельный пакет.
	serviceName = "default"
)

func SetServiceName(newName string) string {
	oldName := serviceName
	serviceName = newName

	return oldName
}

type Config struct {
	Host string
	Port int
}

func (c Config) Enabled() bool { return c.Host != "" }

// InitTracer поднимает jaeger и делает его глобальным.
// Без host возвращает noop-трейсер, чтобы span'ы в коде оставались безопасными.
func InitTracer(conf Config) (opentracing.Tracer, func(), error) {
	if !conf.Enabled() {
		return opentracing.NoopTracer{}, func() {}, nil
	}

	cfg := &jCfg.Configuration{
		ServiceName: serviceName,
		Sampler: &jCfg.SamplerConfig{
			Type:  "const",
			Param: 1,
		},
		Reporter: &jCfg.ReporterConfig{
			LogSpans:           true,
			LocalAgentHostPort: fmt.Sprintf("%s:%d", conf.Host, conf.Port),
		},
	}

	tracer, closer, err := cfg.NewTracer(
		jCfg.Metrics(metrics.NullFactory),
	)
	if err != nil {
		return nil, nil, err
	}

	opentracing.SetGlobalTracer(tracer)
	return tracer, closeFn(closer), nil
}

func closeFn(closer io.Closer) func() {
	return func() {
		if err := closer.Close(); err != nil {
			logger.Error("Error closing Jaeger tracer: %v", err)
		}
	}
}

// StartSpan: обёртка над глобальным трейсером с тегами инструмента.
func StartSpan(ctx context.Context, op string, tags map[string]string) (opentracing.Span, context.Context) {
	span, ctx := opentracing.StartSpanFromContext(ctx, op)
	for k, v := range tags {
		span.SetTag(k, v)
	}
	return span, ctx
}
