package contextkeys

import (
	"context"

	"github.com/google/uuid"
)

// TraceIDHeader - заголовок, в котором trace id приходит и возвращается клиенту
const TraceIDHeader = "X-Trace-ID"

type traceIDKeyType struct{}

var traceIDKey = traceIDKeyType{}

func ContextWithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

// TraceIDFromContext - пустая строка, если trace id в контексте нет
func TraceIDFromContext(ctx context.Context) string {
	traceID, _ := ctx.Value(traceIDKey).(string)
	return traceID
}

// ResolveTraceID оставляет входящий id, если это uuid, иначе выдает новый
func ResolveTraceID(incoming string) string {
	if id, err := uuid.Parse(incoming); err == nil {
		return id.String()
	}
	return uuid.NewString()
}
