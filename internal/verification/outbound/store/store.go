// Package store holds the backends that keep at most one live challenge per identifier.
//
// Every backend implements Put as an upsert and Take as an atomic read-and-delete,
// so a challenge can be consumed at most once even under concurrent verification.
package store

import (
	"context"
	"errors"

	"github.com/shandysiswandi/goverify/internal/pkg/goerror"
	"github.com/shandysiswandi/goverify/internal/pkg/instrument"
	"github.com/shandysiswandi/goverify/internal/verification/entity"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "verification.outbound.store"

func startSpan(ins instrument.Instrumentation, ctx context.Context, name string) (context.Context, trace.Span) {
	return ins.Tracer(tracerName).Start(ctx, name)
}

func endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, entity.ErrChallengeNotFound) && !errors.Is(err, goerror.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
