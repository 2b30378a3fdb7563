package bootstrap

import (
	"context"
	"log/slog"

	"unihaven/internal/infra/notify"
	"unihaven/internal/pkg/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var NotifyModule = fx.Module("notify",
	fx.Provide(
		func(cfg config.Config) config.NotifyConfig { return cfg.Notify },
		NewPublisher,
		notify.NewDispatcher,
	),
	fx.Invoke(StartDispatcher),
)

func NewPublisher(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (notify.Publisher, error) {
	publisher, err := notify.NewPublisher(cfg.AMQP, logger)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return publisher.Close()
		},
	})

	return publisher, nil
}

// StartDispatcher runs the outbox poller for the lifetime of the application.
func StartDispatcher(lc fx.Lifecycle, dispatcher *notify.Dispatcher, _ *pgxpool.Pool) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				defer close(done)
				dispatcher.Run(ctx)
			}()
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			<-done
			return nil
		},
	})
}
