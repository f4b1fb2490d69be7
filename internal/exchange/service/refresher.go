package service

import (
	"context"
	"time"

	"github.com/alldenims/pricequote/internal/config"
	"github.com/alldenims/pricequote/internal/exchange/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Refresher polls the external rate source at a fixed interval. A failed
// poll keeps the previous snapshot; TRY-denominated results stay valid
// regardless.
type Refresher struct {
	svc      domain.Service
	log      *zap.Logger
	interval time.Duration

	cancel context.CancelFunc
	done   chan struct{}
}

func NewRefresher(cfg config.Config, log *zap.Logger, svc domain.Service) *Refresher {
	return &Refresher{
		svc:      svc,
		log:      log.Named("exchange.refresher"),
		interval: cfg.ExchangeRefreshInterval,
	}
}

func (r *Refresher) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.done = make(chan struct{})

	go r.run(ctx)
}

func (r *Refresher) Stop() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	<-r.done
}

func (r *Refresher) run(ctx context.Context) {
	defer close(r.done)

	r.refreshOnce(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.refreshOnce(ctx)
		}
	}
}

func (r *Refresher) refreshOnce(ctx context.Context) {
	if _, err := r.svc.Refresh(ctx); err != nil {
		r.log.Warn("rate refresh failed, keeping previous snapshot", zap.Error(err))
	}
}

func RunRefresher(lc fx.Lifecycle, r *Refresher) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			r.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			r.Stop()
			return nil
		},
	})
}
