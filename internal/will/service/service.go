// Package service sequences the will pipeline (validate, generate, suggest)
// and hands the result to the persistence ports. It is the only will
// component that performs I/O; the caller's identity is always passed in.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"legacyvault/internal/audit"
	"legacyvault/internal/jurisdiction"
	"legacyvault/internal/will/generator"
	"legacyvault/internal/will/metrics"
	"legacyvault/internal/will/ports"
	id "legacyvault/pkg/domain"
	dErrors "legacyvault/pkg/domain-errors"
	"legacyvault/pkg/requestcontext"
)

const tracerName = "legacyvault/will"

// Service orchestrates the will lifecycle.
type Service struct {
	records   ports.RecordStore
	contents  ports.ContentStore
	tx        ports.TxRunner
	registry  *jurisdiction.Registry
	generator *generator.Generator

	logger         *slog.Logger
	metrics        *metrics.Metrics
	auditPublisher ports.AuditPort
	clock          func() time.Time
	tracer         trace.Tracer
	newID          func() id.WillID
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAuditPublisher(publisher ports.AuditPort) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

// WithClock fixes the time used for age checks and timestamps. Without it the
// request time from the context is used.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

// WithIDGenerator overrides how new will ids are minted.
func WithIDGenerator(newID func() id.WillID) Option {
	return func(s *Service) {
		s.newID = newID
	}
}

// New constructs a Service. Reads go straight to records and contents; every
// write goes through tx.
func New(
	records ports.RecordStore,
	contents ports.ContentStore,
	tx ports.TxRunner,
	registry *jurisdiction.Registry,
	gen *generator.Generator,
	opts ...Option,
) (*Service, error) {
	if records == nil || contents == nil || tx == nil {
		return nil, errors.New("will service: record store, content store and tx runner are required")
	}
	if registry == nil || gen == nil {
		return nil, errors.New("will service: jurisdiction registry and generator are required")
	}
	s := &Service{
		records:   records,
		contents:  contents,
		tx:        tx,
		registry:  registry,
		generator: gen,
		tracer:    otel.Tracer(tracerName),
		newID:     id.NewWillID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Service) now(ctx context.Context) time.Time {
	if s.clock != nil {
		return s.clock().UTC()
	}
	return requestcontext.Now(ctx).UTC()
}

func (s *Service) startSpan(ctx context.Context, name string, willID id.WillID) (context.Context, trace.Span) {
	ctx, span := s.tracer.Start(ctx, name)
	if !willID.IsNil() {
		span.SetAttributes(willIDAttr(willID))
	}
	return ctx, span
}

// finish closes the span and counts the operation.
func (s *Service) finish(span trace.Span, operation string, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
	}
	span.End()
	s.metrics.IncrementOperation(operation, err)
}

// logAudit logs the event and forwards it to the audit publisher. Emission
// failures are logged; they never fail the operation that caused them.
func (s *Service) logAudit(ctx context.Context, event audit.AuditEvent, e audit.Event) {
	e.Action = string(event)
	e.RequestID = requestcontext.RequestID(ctx)
	if s.logger != nil {
		args := []any{
			"event", e.Action,
			"log_type", "audit",
			"user_id", e.UserID.String(),
			"will_id", e.WillID,
			"version", e.Version,
		}
		if e.Status != "" {
			args = append(args, "status", e.Status)
		}
		if e.Reason != "" {
			args = append(args, "reason", e.Reason)
		}
		if e.RequestID != "" {
			args = append(args, "request_id", e.RequestID)
		}
		s.logger.InfoContext(ctx, e.Action, args...)
	}
	if s.auditPublisher == nil {
		return
	}
	if err := s.auditPublisher.Emit(ctx, e); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event", "event", e.Action, "error", err)
	}
}
