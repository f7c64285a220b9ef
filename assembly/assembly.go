package assembly

import (
	"context"
	"sync"

	"bff-gateway/conf"
	"bff-gateway/jobs"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/txix-open/isp-kit/app"
	"github.com/txix-open/isp-kit/bootstrap"
	"github.com/txix-open/isp-kit/cluster"
	"github.com/txix-open/isp-kit/http"
	"github.com/txix-open/isp-kit/log"
)

type Assembly struct {
	boot    *bootstrap.Bootstrap
	server  *http.Server
	logger  *log.Adapter
	state   State
	locator Locator

	lock      sync.Mutex
	redisCli  redis.UniversalClient
	scheduler *jobs.Scheduler
}

func New(boot *bootstrap.Bootstrap) (*Assembly, error) {
	localConfig := conf.Local{}
	err := boot.App.Config().Read(&localConfig)
	if err != nil {
		return nil, errors.WithMessage(err, "read local config")
	}

	logger := boot.App.Logger()
	server := http.NewServer(logger)
	state := NewState(logger)
	return &Assembly{
		boot:    boot,
		server:  server,
		logger:  logger,
		state:   state,
		locator: NewLocator(logger, state, localConfig.GetRoutes()),
	}, nil
}

func (a *Assembly) ReceiveConfig(ctx context.Context, remoteConfig []byte) error {
	var (
		newCfg  conf.Remote
		prevCfg conf.Remote
	)
	err := a.boot.RemoteConfig.Upgrade(remoteConfig, &newCfg, &prevCfg)
	if err != nil {
		a.logger.Fatal(ctx, errors.WithMessage(err, "upgrade remote config"))
	}
	err = newCfg.Validate()
	if err != nil {
		a.logger.Fatal(ctx, errors.WithMessage(err, "invalid remote config"))
	}

	a.logger.SetLevel(newCfg.Logging.LogLevel)

	var newRedisCli redis.UniversalClient
	if newCfg.Redis != nil {
		newRedisCli = a.redisClient(*newCfg.Redis)
	}

	config, err := a.locator.Config(newCfg, newRedisCli)
	if err != nil {
		if newRedisCli != nil {
			_ = newRedisCli.Close()
		}
		return errors.WithMessage(err, "locator config")
	}

	a.server.Upgrade(config.HttpHandler)

	a.lock.Lock()
	defer a.lock.Unlock()

	if a.scheduler != nil {
		a.scheduler.Stop()
	}
	a.scheduler = jobs.NewScheduler(a.logger, config.Jobs...)
	a.scheduler.Start(a.boot.App.Context())

	if a.redisCli != nil {
		_ = a.redisCli.Close()
	}
	a.redisCli = newRedisCli

	return nil
}

func (a *Assembly) Runners() []app.Runner {
	eventHandler := cluster.NewEventHandler().
		RemoteConfigReceiver(a)

	return []app.Runner{
		app.RunnerFunc(func(ctx context.Context) error {
			return a.server.ListenAndServe(a.boot.BindingAddress)
		}),
		app.RunnerFunc(func(ctx context.Context) error {
			return a.boot.ClusterCli.Run(ctx, eventHandler)
		}),
	}
}

func (a *Assembly) Closers() []app.Closer {
	return []app.Closer{
		a.boot.ClusterCli,
		app.CloserFunc(func() error {
			return a.server.Shutdown(context.Background())
		}),
		app.CloserFunc(func() error {
			a.state.Hub.Close()
			return nil
		}),
		app.CloserFunc(func() error {
			a.lock.Lock()
			defer a.lock.Unlock()

			if a.scheduler != nil {
				a.scheduler.Stop()
			}
			if a.redisCli != nil {
				return a.redisCli.Close()
			}
			return nil
		}),
	}
}

func (a *Assembly) redisClient(config conf.Redis) redis.UniversalClient {
	if config.Sentinel != nil {
		return redis.NewFailoverClient(&redis.FailoverOptions{
			MasterName:       config.Sentinel.MasterName,
			SentinelAddrs:    config.Sentinel.Addresses,
			SentinelUsername: config.Sentinel.Username,
			SentinelPassword: config.Sentinel.Password,
			Username:         config.Username,
			Password:         config.Password,
		})
	}
	return redis.NewClient(&redis.Options{
		Addr:     config.Address,
		Username: config.Username,
		Password: config.Password,
	})
}
