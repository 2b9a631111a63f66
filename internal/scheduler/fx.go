package scheduler

import (
	"context"

	appconfig "github.com/contaflow/tributo/internal/config"
	"go.uber.org/fx"
)

func NewConfig(cfg appconfig.Config) Config {
	return Config{
		RunInterval:    cfg.Scheduler.RunInterval,
		JobTimeout:     cfg.Scheduler.JobTimeout,
		FetchProposals: true,
	}
}

func run(lc fx.Lifecycle, s *Scheduler) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				s.RunForever(ctx)
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			<-done
			return nil
		},
	})
}

var Module = fx.Module("scheduler",
	fx.Provide(NewConfig),
	fx.Provide(New),
	fx.Invoke(run),
)
