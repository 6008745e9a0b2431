package di

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"MacroPulse/internal/domain/repository"
	domsvc "MacroPulse/internal/domain/service"
	"MacroPulse/internal/handler/api"
	mid "MacroPulse/internal/middleware"
	internalrepo "MacroPulse/internal/repository"
	icache "MacroPulse/internal/service/cache"
	"MacroPulse/internal/service/finnhub"
	"MacroPulse/internal/service/ratelimit"
	"MacroPulse/internal/services/eventstudy"
	"MacroPulse/internal/usecase"
	pkgcache "MacroPulse/pkg/cache"
	pkgch "MacroPulse/pkg/clickhouse"
	"MacroPulse/pkg/config"
	xhttp "MacroPulse/pkg/http"
	pkgkafka "MacroPulse/pkg/kafka"
	applogger "MacroPulse/pkg/logger"
	"MacroPulse/pkg/metrics"
	"MacroPulse/pkg/queue"
	"MacroPulse/pkg/server"
)

// ProvideLogger creates the application logger, with the Kafka-backed log
// collector attached when a logs topic is configured.
func ProvideLogger(cfg *config.Config, producer *pkgkafka.Producer) *applogger.Logger {
	l := applogger.New(cfg.Environment)
	if cfg.Kafka.LogsTopic != "" && producer != nil {
		c := applogger.NewLogCollector(producer.SinkTo(cfg.Kafka.LogsTopic), 30*time.Second)
		c.Start(context.Background())
		l = l.WithCollector(c)
	}
	return l
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideClickHouseClient creates a ClickHouse client.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer. Keyed by ticker so all
// records for one asset land on the same partition.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	consumer.WithConsumerHook(pkgkafka.NoopHook{})
	return consumer, nil
}

// ProvideEventRegistry loads the macro release table from CSV.
func ProvideEventRegistry(cfg *config.Config) (repository.EventRegistry, error) {
	return internalrepo.NewCSVEventRegistry(cfg.Study.RegistryPath, cfg.Study.PolicyPath)
}

// ProvideCacheService builds the series/reaction cache: layered over Redis
// when enabled, in-process memory otherwise.
func ProvideCacheService(cfg *config.Config) (pkgcache.Service, error) {
	if !cfg.Study.Redis.Enabled {
		return pkgcache.NewMemoryCache(), nil
	}
	host, portStr, err := net.SplitHostPort(cfg.Study.Redis.Addr)
	if err != nil {
		return nil, fmt.Errorf("redis addr: %w", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("redis port: %w", err)
	}
	rds, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(host),
		pkgcache.WithRedisPort(port),
		pkgcache.WithRedisPassword(cfg.Study.Redis.Password),
		pkgcache.WithRedisDB(cfg.Study.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return pkgcache.NewLayeredCache(rds), nil
}

// ProvideRateLimiter creates the shared token-bucket limiter.
func ProvideRateLimiter() *ratelimit.Limiter {
	return ratelimit.New()
}

// ProvideMarketData builds the REST candle client wrapped in the phase-aware
// series cache.
func ProvideMarketData(
	cfg *config.Config,
	limiter *ratelimit.Limiter,
	cache pkgcache.Service,
	registry repository.EventRegistry,
	m repository.Metrics,
	l *applogger.Logger,
) repository.MarketData {
	client := finnhub.NewCandleClient(
		cfg.Finnhub.APIKey,
		cfg.Finnhub.BaseURL,
		cfg.Finnhub.Timeout,
		limiter,
		cfg.Finnhub.RateCapacity,
		cfg.Finnhub.RateRefill,
		l,
	)
	return icache.NewSeriesCache(client, cache, registry, m, l,
		cfg.Study.CacheTTL.Live, cfg.Study.CacheTTL.Post, cfg.Study.LiveWindow)
}

// ProvideFinnhubStream creates the Finnhub websocket stream over the study
// universe.
func ProvideFinnhubStream(cfg *config.Config) repository.MarketStream {
	tickers := make([]string, 0, len(cfg.Study.Universe))
	for _, t := range cfg.Study.Universe {
		tickers = append(tickers, t)
	}
	return finnhub.NewStream(
		cfg.Finnhub.APIKey,
		cfg.Finnhub.WebSocketURL,
		tickers,
		cfg.Finnhub.ReconnectDelay,
		cfg.Finnhub.PingInterval,
	)
}

// ProvideSelector builds the resolution cascade from config.
func ProvideSelector(data repository.MarketData, m repository.Metrics, l *applogger.Logger, cfg *config.Config) domsvc.SeriesSelector {
	cascade := eventstudy.DefaultCascade()
	if cfg.Study.RetentionDays > 0 {
		cascade.IntradayRetention = time.Duration(cfg.Study.RetentionDays) * 24 * time.Hour
	}
	if cfg.Study.MinuteWindow > 0 {
		cascade.MinuteWindow = cfg.Study.MinuteWindow
	}
	if cfg.Study.FiveMinWindow > 0 {
		cascade.FiveMinWindow = cfg.Study.FiveMinWindow
	}
	if cfg.Study.DailyWindow > 0 {
		cascade.DailyWindow = cfg.Study.DailyWindow
	}
	return eventstudy.NewSelector(data, m, l, cascade)
}

// ProvideClassifier builds the regime classifier; inverted cutoffs fail here.
func ProvideClassifier(cfg *config.Config) (*eventstudy.Classifier, error) {
	return eventstudy.NewClassifier(cfg.Study.HighCut, cfg.Study.LowCut)
}

// ProvideReactionStore creates the ClickHouse history store.
func ProvideReactionStore(chClient *pkgch.Client, cfg *config.Config) repository.ReactionStore {
	return internalrepo.NewClickHouseReactionStore(chClient.DB(), cfg.ClickHouse.Database+".event_reactions")
}

// ProvideReactionPublisher creates the Kafka publisher.
func ProvideReactionPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	return internalrepo.NewKafkaReactionPublisher(producer, cfg.Kafka.Topic)
}

// ProvideReactionStudy creates the per-asset measurement use case.
func ProvideReactionStudy(selector domsvc.SeriesSelector, m repository.Metrics, l *applogger.Logger) domsvc.ReactionStudy {
	return usecase.NewReactionStudyUseCase(selector, m, l)
}

// ProvideReactionAggregate creates the cross-asset study use case.
func ProvideReactionAggregate(study domsvc.ReactionStudy, cache pkgcache.Service, l *applogger.Logger, cfg *config.Config) *usecase.ReactionAggregateUseCase {
	return usecase.NewReactionAggregateUseCase(study, cache, l,
		cfg.Study.Universe, cfg.Study.LiveWindow, cfg.Study.CacheTTL.Live, cfg.Study.CacheTTL.Post)
}

// ProvideRiskReport creates the regimes/VaR/stress use case.
func ProvideRiskReport(
	registry repository.EventRegistry,
	data repository.MarketData,
	aggregate *usecase.ReactionAggregateUseCase,
	classifier *eventstudy.Classifier,
	cfg *config.Config,
) *usecase.RiskReportUseCase {
	return usecase.NewRiskReportUseCase(registry, data, aggregate, classifier,
		cfg.Study.Portfolio, cfg.Study.MinVaRSample)
}

// ProvideCorrelation creates the correlation monitor use case.
func ProvideCorrelation(data repository.MarketData, m repository.Metrics) *usecase.CorrelationUseCase {
	return usecase.NewCorrelationUseCase(data, m)
}

// ProvideHistory creates the history query use case.
func ProvideHistory(store repository.ReactionStore) *usecase.HistoryUseCase {
	return usecase.NewHistoryUseCase(store)
}

// ProvideReactionProcessor creates the backend-routing processor.
func ProvideReactionProcessor(pub repository.Publisher, store repository.ReactionStore, m repository.Metrics, cfg *config.Config) *usecase.ReactionProcessor {
	return usecase.NewReactionProcessor(pub, store, m, cfg.Backend.Type)
}

// ProvideLiveWatch creates the live reaction watch with its pipeline.
func ProvideLiveWatch(
	stream repository.MarketStream,
	data repository.MarketData,
	registry repository.EventRegistry,
	proc *usecase.ReactionProcessor,
	m repository.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.LiveReactionWatch {
	pipe := mid.NewReactionPipeline(proc, m,
		mid.WithMaxRPS(4),
		mid.WithBufferSize(2000),
	)
	return usecase.NewLiveReactionWatch(stream, data, registry, pipe, m, l, cfg.Study.LiveWindow)
}

// ProvideKafkaReactionsHandler registers the persistence handler for the
// reactions topic.
func ProvideKafkaReactionsHandler(store repository.ReactionStore, m repository.Metrics, cfg *config.Config) *usecase.KafkaReactionsHandler {
	return usecase.NewKafkaReactionsHandler(cfg.Kafka.Topic, store, m)
}

// ProvideQueue creates the Redis-backed refresh queue, nil when Redis is
// disabled.
func ProvideQueue(cfg *config.Config, l *applogger.Logger, warmup *usecase.SeriesWarmupJob) (*queue.RedisQueue, error) {
	if !cfg.Study.Redis.Enabled {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Study.Redis.Addr,
		Password: cfg.Study.Redis.Password,
		DB:       cfg.Study.Redis.DB,
	})
	q := queue.NewRedisQueue(l, &queue.QueueConfig{
		Workers:    2,
		RetryLimit: 3,
		RetryDelay: 30 * time.Second,
	}, client, queue.ModeProducerConsumer)
	q.RegisterJob(warmup)
	return q, nil
}

// ProvideWarmupJob creates the series warmup queue job.
func ProvideWarmupJob(study domsvc.ReactionStudy, registry repository.EventRegistry, proc *usecase.ReactionProcessor, l *applogger.Logger) *usecase.SeriesWarmupJob {
	return usecase.NewSeriesWarmupJob(study, registry, proc, l)
}

// ProvideRefreshScheduler creates the per-event refresh scheduler, nil when
// the queue is disabled.
func ProvideRefreshScheduler(q *queue.RedisQueue, registry repository.EventRegistry, cfg *config.Config, l *applogger.Logger) *usecase.RefreshScheduler {
	if q == nil {
		return nil
	}
	return usecase.NewRefreshScheduler(q, registry, cfg.Study.Universe, cfg.Study.RefreshEvery, l)
}

// ProvideHTTPHandler creates the Echo route handler.
func ProvideHTTPHandler(
	l *applogger.Logger,
	registry repository.EventRegistry,
	aggregate *usecase.ReactionAggregateUseCase,
	risk *usecase.RiskReportUseCase,
	corr *usecase.CorrelationUseCase,
	history *usecase.HistoryUseCase,
) xhttp.Handler {
	return api.NewEventStudyHandler(l, registry, aggregate, risk, corr, history)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	watch *usecase.LiveReactionWatch,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaReactionsHandler,
	chClient *pkgch.Client,
	store repository.ReactionStore,
	q *queue.RedisQueue,
	scheduler *usecase.RefreshScheduler,
	handler xhttp.Handler,
	proc *usecase.ReactionProcessor,
) *server.App {
	app := server.New(cfg, l, watch, consumer, kh, chClient, store, q, scheduler, handler)
	app.Proc = proc
	return app
}
