package broker

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/palmwine/internal/config"
)

// Module provides the event publisher selected by configuration.
var Module = fx.Options(
	fx.Provide(newPublisher),
	fx.Invoke(registerLifecycle),
)

type publisherParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

var (
	dialRabbit = func(url, exchange string, logger *slog.Logger) (Publisher, error) {
		return NewRabbitPublisher(url, exchange, logger)
	}
	newKafka = func(brokers []string, topic string, logger *slog.Logger) (Publisher, error) {
		return NewKafkaPublisher(brokers, topic, logger)
	}
)

func newPublisher(p publisherParams) (Publisher, error) {
	switch p.Config.EventBroker {
	case "rabbitmq":
		return dialRabbit(p.Config.RabbitMQURL, p.Config.EventsTopic, p.Logger)
	case "kafka":
		return newKafka(p.Config.KafkaBrokers, p.Config.EventsTopic, p.Logger)
	default:
		return Noop{}, nil
	}
}

func registerLifecycle(lc fx.Lifecycle, publisher Publisher, logger *slog.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if err := publisher.Close(); err != nil {
				logger.Error("close event publisher failed", slog.String("error", err.Error()))
			}
			return nil
		},
	})
}
