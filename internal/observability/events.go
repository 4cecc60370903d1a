package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Tracer is the shared tracer for request spans.
var Tracer = otel.Tracer("github.com/owuraku-zenas/dump-pad-sub000")

func addEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

// RecordAuthEvent annotates the active span with an auth flow outcome
// (register, login, verify_email, reset_password, oauth_callback, ...).
func RecordAuthEvent(ctx context.Context, operation, outcome string) {
	addEvent(ctx, "auth."+operation,
		attribute.String("outcome", outcome),
	)
}

func RecordUserProfileEvent(ctx context.Context, outcome string) {
	addEvent(ctx, "user.profile",
		attribute.String("outcome", outcome),
	)
}

func RecordRepositoryOperation(ctx context.Context, entity, operation, outcome string) {
	addEvent(ctx, "repository."+entity,
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	)
}

func RecordNoteEvent(ctx context.Context, operation, outcome string) {
	addEvent(ctx, "note."+operation,
		attribute.String("outcome", outcome),
	)
}
