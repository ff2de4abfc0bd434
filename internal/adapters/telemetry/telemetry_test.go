package telemetry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.trai.ch/autoscan/internal/adapters/telemetry"
	"go.trai.ch/autoscan/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestOTelTracer_SpanAttributesAndErrors(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	otel.SetTracerProvider(tp)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	tracer := telemetry.NewOTelTracer("test")
	_, span := tracer.Start(context.Background(), "classify")
	span.SetAttribute("files", 3)
	span.SetAttribute("parallel", true)
	span.SetAttribute("base", "/srv/app")
	span.SetAttribute("modules", []string{"a", "b"})
	span.SetAttribute("mtime", int64(7))
	span.SetAttribute("other", 1.5)
	span.SetAttribute("elapsed", 1500*time.Millisecond)
	span.RecordError(nil)
	span.RecordError(errors.New("boom"))
	span.End()

	ended := sr.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "classify", ended[0].Name())
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Equal(t, "boom", ended[0].Status().Description)

	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range ended[0].Attributes() {
		attrs[kv.Key] = kv.Value
	}
	assert.Equal(t, int64(3), attrs["files"].AsInt64())
	assert.True(t, attrs["parallel"].AsBool())
	assert.Equal(t, "/srv/app", attrs["base"].AsString())
	assert.Equal(t, []string{"a", "b"}, attrs["modules"].AsStringSlice())
	assert.Equal(t, "1.5", attrs["other"].AsString())
	assert.Equal(t, int64(1500), attrs["elapsed"].AsInt64())
	assert.Equal(t, "test", ended[0].InstrumentationScope().Name)
}

func TestBridge_LogsFinishedPhases(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).Do(func(msg string) {
		assert.Contains(t, msg, "walk finished in")
	}).Times(1)
	log.EXPECT().Warn(gomock.Any()).Do(func(msg string) {
		assert.Contains(t, msg, "verify failed after")
		assert.Contains(t, msg, "import error")
	}).Times(1)

	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(telemetry.NewBridge(log)))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	tracer := tp.Tracer("test")
	_, walk := tracer.Start(context.Background(), "walk")
	walk.End()

	_, verify := tracer.Start(context.Background(), "verify")
	verify.SetStatus(codes.Error, "import error")
	verify.End()
}

func TestBridge_NilLogger(_ *testing.T) {
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(telemetry.NewBridge(nil)))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	_, span := tp.Tracer("test").Start(context.Background(), "walk")
	span.End()
}

func TestSetup_RegistersGlobalProvider(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).Times(1)

	tp := telemetry.Setup(telemetry.NewBridge(log))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	_, span := telemetry.NewOTelTracer("test").Start(context.Background(), "cache.load")
	span.End()
}

func TestNoOpTracer(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	got, span := telemetry.NewNoOpTracer().Start(ctx, "walk")
	assert.Equal(t, ctx, got)

	span.SetAttribute("k", "v")
	span.RecordError(errors.New("ignored"))
	span.End()
}
