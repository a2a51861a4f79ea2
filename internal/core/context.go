package core

import "context"

type contextKey string

const (
	ctxKeyTrigger   contextKey = "run_trigger"
	ctxKeyIPAddress contextKey = "run_ip"
)

// ContextWithTrigger records what started a run ("web", "api", "cli").
func ContextWithTrigger(ctx context.Context, trigger string) context.Context {
	return context.WithValue(ctx, ctxKeyTrigger, trigger)
}

// ContextWithIPAddress records the client address that started a run.
func ContextWithIPAddress(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ctxKeyIPAddress, ip)
}

// TriggerFromContext returns the run trigger, or "unknown".
func TriggerFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyTrigger).(string); ok && v != "" {
		return v
	}
	return "unknown"
}

// IPAddressFromContext returns the client address, if any.
func IPAddressFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyIPAddress).(string); ok {
		return v
	}
	return ""
}
