package httpapi

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/watter46/footics-sub000/internal/usecase"
)

func TestIsHandlerSpan(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{name: "handler span", in: "httpapi.Handler.AssignSlot", want: true},
		{name: "bare prefix", in: "httpapi.Handler.", want: false},
		{name: "middleware span", in: "httpapi.RequestLogging", want: false},
		{name: "helper span", in: "httpapi.writeError", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isHandlerSpan(tt.in); got != tt.want {
				t.Fatalf("isHandlerSpan(%q)=%v want=%v", tt.in, got, tt.want)
			}
		})
	}
}

func TestStartSpan_NoParentStaysUntraced(t *testing.T) {
	ctx, span := startSpan(context.Background(), "httpapi.Handler.GetBench")
	assert.False(t, span.SpanContext().IsValid())
	assert.Equal(t, context.Background(), ctx)
}

func recordingContext(t *testing.T) (context.Context, *tracetest.SpanRecorder, func()) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	ctx, span := provider.Tracer("test").Start(context.Background(), "request")
	return ctx, recorder, func() { span.End() }
}

func TestWriteError_MarksServerFailureOnSpan(t *testing.T) {
	ctx, recorder, end := recordingContext(t)

	rec := httptest.NewRecorder()
	writeError(ctx, rec, errors.New("disk on fire"))
	end()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Contains(t, spans[0].Attributes(), attribute.Int("footics.http.status", 500))
	require.NotEmpty(t, spans[0].Events())
	assert.Equal(t, "exception", spans[0].Events()[0].Name)
}

func TestWriteError_ClientFailureKeepsSpanStatus(t *testing.T) {
	ctx, recorder, end := recordingContext(t)

	rec := httptest.NewRecorder()
	writeError(ctx, rec, usecase.ErrNotFound)
	end()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	assert.Contains(t, spans[0].Attributes(), attribute.Int("footics.http.status", 404))
	assert.Contains(t, spans[0].Attributes(), attribute.String("footics.error.reason", "notFound"))
	assert.Empty(t, spans[0].Events())
}
