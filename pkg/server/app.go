package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	drepo "MacroPulse/internal/domain/repository"
	"MacroPulse/internal/usecase"
	pkgch "MacroPulse/pkg/clickhouse"
	"MacroPulse/pkg/config"
	xhttp "MacroPulse/pkg/http"
	pkgkafka "MacroPulse/pkg/kafka"
	applogger "MacroPulse/pkg/logger"
	"MacroPulse/pkg/queue"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	watch      *usecase.LiveReactionWatch
	consumer   *pkgkafka.Consumer
	kh         pkgkafka.MessageHandler
	chClient   *pkgch.Client
	store      drepo.ReactionStore
	queue      *queue.RedisQueue
	scheduler  *usecase.RefreshScheduler
	httpServer *xhttp.Server
	handler    xhttp.Handler
	Proc       *usecase.ReactionProcessor
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	watch *usecase.LiveReactionWatch,
	consumer *pkgkafka.Consumer,
	kh pkgkafka.MessageHandler,
	chClient *pkgch.Client,
	store drepo.ReactionStore,
	q *queue.RedisQueue,
	scheduler *usecase.RefreshScheduler,
	handler xhttp.Handler,
) *App {
	return &App{
		cfg:       cfg,
		logger:    l,
		watch:     watch,
		consumer:  consumer,
		kh:        kh,
		chClient:  chClient,
		store:     store,
		queue:     q,
		scheduler: scheduler,
		handler:   handler,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := a.logger

	if a.store != nil {
		if err := a.store.Init(ctx); err != nil {
			l.Error("reaction store init error", applogger.Error(err))
			return err
		}
	}

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	// Live reaction watch over the provider websocket
	if a.watch != nil {
		go func() {
			if err := a.watch.Start(ctx); err != nil {
				l.Error("live watch error", applogger.Error(err))
			}
		}()
		l.Info("live reaction watch started")
	}

	// Kafka consumer persisting bus records to ClickHouse
	if a.consumer != nil && a.kh != nil {
		a.consumer.RegisterHandler(a.kh)
		go func() {
			if err := a.consumer.Start(); err != nil {
				l.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		l.Info("kafka consumer started", applogger.String("topic", a.kh.Topic()))
	}

	// Refresh scheduler + queue workers
	if a.queue != nil {
		if err := a.queue.Start(); err != nil {
			l.Error("queue start error", applogger.Error(err))
			return err
		}
		if a.scheduler != nil {
			go a.scheduler.Start(ctx)
			l.Info("refresh scheduler started")
		}
	}

	if err := a.httpServer.Start(); err != nil {
		l.Error("http server start error", applogger.Error(err))
		return err
	}
	l.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	l.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	l := a.logger

	if a.watch != nil {
		if err := a.watch.Shutdown(ctx); err != nil {
			l.Warn("live watch stop error", applogger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		l.Error("http shutdown error", applogger.Error(err))
	}

	if a.queue != nil {
		if err := a.queue.Stop(shutdownCtx); err != nil {
			l.Warn("queue stop error", applogger.Error(err))
		}
	}

	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			l.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	// Processor owns the publisher and the store handle
	if a.Proc != nil {
		a.Proc.Close()
	}

	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			l.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	l.Info("shutdown complete")
	return nil
}
