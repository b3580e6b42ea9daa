package snapshot

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("snapshot-store")

// TracingStore wraps a Store with OpenTelemetry spans
type TracingStore struct {
	next    Store
	backend string
}

// NewTracingStore wraps next; backend names the store in span attributes
func NewTracingStore(next Store, backend string) *TracingStore {
	return &TracingStore{next: next, backend: backend}
}

func (s *TracingStore) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, span := s.start(ctx, "snapshot.Get", key)
	defer span.End()

	v, err := s.next.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		span.SetAttributes(attribute.Bool("snapshot.hit", false))
		return nil, err
	}
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	span.SetAttributes(
		attribute.Bool("snapshot.hit", true),
		attribute.Int("snapshot.size", len(v)),
	)
	return v, nil
}

func (s *TracingStore) Set(ctx context.Context, key string, value []byte) error {
	ctx, span := s.start(ctx, "snapshot.Set", key)
	defer span.End()
	span.SetAttributes(attribute.Int("snapshot.size", len(value)))

	if err := s.next.Set(ctx, key, value); err != nil {
		recordError(span, err)
		return err
	}
	return nil
}

func (s *TracingStore) Delete(ctx context.Context, keys ...string) error {
	ctx, span := tracer.Start(ctx, "snapshot.Delete",
		trace.WithAttributes(
			attribute.String("snapshot.backend", s.backend),
			attribute.StringSlice("snapshot.keys", keys),
		),
	)
	defer span.End()

	if err := s.next.Delete(ctx, keys...); err != nil {
		recordError(span, err)
		return err
	}
	return nil
}

func (s *TracingStore) Ping(ctx context.Context) error {
	return s.next.Ping(ctx)
}

func (s *TracingStore) start(ctx context.Context, name, key string) (context.Context, trace.Span) {
	return tracer.Start(ctx, name,
		trace.WithAttributes(
			attribute.String("snapshot.backend", s.backend),
			attribute.String("snapshot.key", key),
		),
	)
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
