package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlogTelemetryRecord(t *testing.T) {
	var buf bytes.Buffer
	telemetry := NewSlogTelemetry(slog.New(slog.NewJSONHandler(&buf, nil)))
	ctx := ContextWithRequest(context.Background(), RequestMeta{RequestID: "abc", Transport: "ws"})

	telemetry.Record(ctx, "dashboard.session.select", RequestFromContext(ctx).annotate(map[string]any{"active": "delay"}))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "dashboard telemetry", entry["msg"])
	assert.Equal(t, "dashboard.session.select", entry["event"])
	assert.Equal(t, "delay", entry["active"])
	assert.Equal(t, "abc", entry["request_id"])
	assert.Equal(t, "ws", entry["transport"])
}

func TestRequestFromContextDefaults(t *testing.T) {
	assert.Equal(t, RequestMeta{}, RequestFromContext(context.Background()))
	assert.Equal(t, map[string]any{}, RequestMeta{}.annotate(nil))
}

func TestInMemorySessionStore(t *testing.T) {
	store := NewInMemorySessionStore()
	ctx := context.Background()

	session := &Session{}
	require.NoError(t, store.Create(ctx, session))
	assert.NotEmpty(t, session.ID)
	assert.Error(t, store.Create(ctx, &Session{ID: session.ID}))
	assert.Error(t, store.Create(ctx, nil))

	got, err := store.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Same(t, session, got)

	require.NoError(t, store.Delete(ctx, session.ID))
	_, err = store.Get(ctx, session.ID)
	assert.ErrorIs(t, err, ErrUnknownSession)
	assert.Zero(t, store.Len())
}
