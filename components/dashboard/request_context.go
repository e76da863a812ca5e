package dashboard

import "context"

// RequestMeta identifies the transport request that triggered a dashboard operation.
type RequestMeta struct {
	RequestID  string
	RemoteAddr string
	Transport  string
}

type requestMetaKey struct{}

// ContextWithRequest stores request metadata on ctx.
func ContextWithRequest(ctx context.Context, meta RequestMeta) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// RequestFromContext extracts request metadata, if present.
func RequestFromContext(ctx context.Context) RequestMeta {
	if ctx == nil {
		return RequestMeta{}
	}
	if meta, ok := ctx.Value(requestMetaKey{}).(RequestMeta); ok {
		return meta
	}
	return RequestMeta{}
}

func (m RequestMeta) annotate(payload map[string]any) map[string]any {
	if payload == nil {
		payload = map[string]any{}
	}
	if m.RequestID != "" {
		payload["request_id"] = m.RequestID
	}
	if m.Transport != "" {
		payload["transport"] = m.Transport
	}
	return payload
}
