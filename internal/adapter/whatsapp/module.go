package whatsapp

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/palmwine/internal/config"
)

// Module provides the notification sink.
var Module = fx.Provide(newSink)

type sinkParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newSink(p sinkParams) (Sink, error) {
	if p.Config.WhatsAppAPIURL == "" {
		p.Logger.Warn("whatsapp endpoint not configured, notifications are logged only")
		return NewLogSink(p.Logger), nil
	}
	return NewCloudSink(p.Config.WhatsAppAPIURL, p.Config.WhatsAppToken, p.Logger)
}
