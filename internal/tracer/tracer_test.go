package tracer

import (
	"context"
	"testing"

	"rainier-guide-be/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

func TestSetup_DisabledKeepsGlobalProvider(t *testing.T) {
	before := otel.GetTracerProvider()

	shutdown, err := Setup(context.Background(), config.TracingConfig{Enabled: false, Endpoint: "collector:4318"})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
	assert.Same(t, before, otel.GetTracerProvider())
}

func TestResource(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.TracingConfig
		service string
		env     string
	}{
		{"configured", config.TracingConfig{ServiceName: "guide-staging", Environment: "staging"}, "guide-staging", "staging"},
		{"defaults", config.TracingConfig{}, "rainier-guide-backend", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Resource(tt.cfg)

			name, ok := res.Set().Value(semconv.ServiceNameKey)
			require.True(t, ok)
			assert.Equal(t, tt.service, name.AsString())

			env, ok := res.Set().Value(semconv.DeploymentEnvironmentKey)
			assert.Equal(t, tt.env != "", ok)
			assert.Equal(t, tt.env, env.AsString())
		})
	}
}

func TestNewProvider_SamplesAndTagsSpans(t *testing.T) {
	tests := []struct {
		name  string
		ratio float64
		want  int
	}{
		{"always", 1, 1},
		{"never", 0, 0},
		{"out of range falls back to always", 3, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := tracetest.NewSpanRecorder()
			tp := NewProvider(config.TracingConfig{ServiceName: "guide-test", SampleRatio: tt.ratio},
				sdktrace.WithSpanProcessor(recorder))
			t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

			_, span := tp.Tracer("test").Start(context.Background(), "pipeline.Answer")
			span.End()

			ended := recorder.Ended()
			require.Len(t, ended, tt.want)
			if tt.want > 0 {
				assert.Contains(t, ended[0].Resource().Attributes(), attribute.String("service.name", "guide-test"))
			}
		})
	}
}
