package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
)

// CloseSessionInput identifies the session to drop.
type CloseSessionInput struct {
	SessionID string
}

type closeService interface {
	CloseSession(ctx context.Context, sessionID string) error
}

// CloseSessionCommand forgets a session when its page goes away.
type CloseSessionCommand struct {
	service   closeService
	telemetry Telemetry
}

// NewCloseSessionCommand creates the command.
func NewCloseSessionCommand(service closeService, telemetry Telemetry) *CloseSessionCommand {
	return &CloseSessionCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[CloseSessionInput] = (*CloseSessionCommand)(nil)

// Execute delegates to the dashboard service.
func (c *CloseSessionCommand) Execute(ctx context.Context, msg CloseSessionInput) error {
	if c.service == nil {
		return errors.New("close command requires service")
	}
	if msg.SessionID == "" {
		return errors.New("close command requires session id")
	}
	if err := c.service.CloseSession(ctx, msg.SessionID); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.close", map[string]any{"session_id": msg.SessionID})
	return nil
}
