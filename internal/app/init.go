package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	server "github.com/admin/zodira/astro-api/internal/adapters/primary/http"
	astrologyController "github.com/admin/zodira/astro-api/internal/adapters/primary/http/controllers/astrology"
	healthcheckController "github.com/admin/zodira/astro-api/internal/adapters/primary/http/controllers/healthcheck"
	predictionsController "github.com/admin/zodira/astro-api/internal/adapters/primary/http/controllers/predictions"
	profilesController "github.com/admin/zodira/astro-api/internal/adapters/primary/http/controllers/profiles"
	"github.com/admin/zodira/astro-api/internal/adapters/primary/http/middlewares"
	kafkaConsumerAdapter "github.com/admin/zodira/astro-api/internal/adapters/primary/kafka"
	kafkaHandlers "github.com/admin/zodira/astro-api/internal/adapters/primary/kafka/handlers"
	astroApiAdapter "github.com/admin/zodira/astro-api/internal/adapters/secondary/astroApi"
	kafkaAdapter "github.com/admin/zodira/astro-api/internal/adapters/secondary/kafka"
	"github.com/admin/zodira/astro-api/internal/adapters/secondary/storage/disk"
	"github.com/admin/zodira/astro-api/internal/adapters/secondary/storage/inmemory"
	"github.com/admin/zodira/astro-api/internal/adapters/secondary/storage/pg"
	redisAdapter "github.com/admin/zodira/astro-api/internal/adapters/secondary/storage/redis"
	s3Adapter "github.com/admin/zodira/astro-api/internal/adapters/secondary/storage/s3"
	"github.com/admin/zodira/astro-api/internal/domain"
	"github.com/admin/zodira/astro-api/internal/pkg/logger"
	"github.com/admin/zodira/astro-api/internal/ports/cache"
	kafkaPorts "github.com/admin/zodira/astro-api/internal/ports/kafka"
	"github.com/admin/zodira/astro-api/internal/ports/repository"
	chartRepo "github.com/admin/zodira/astro-api/internal/repository/chart"
	predictionRepo "github.com/admin/zodira/astro-api/internal/repository/prediction"
	profileRepo "github.com/admin/zodira/astro-api/internal/repository/profile"
	astroApiService "github.com/admin/zodira/astro-api/internal/services/astroApi"
	jobScheduler "github.com/admin/zodira/astro-api/internal/services/jobs"
	"github.com/admin/zodira/astro-api/internal/services/vimshottari"
	astroUsecase "github.com/admin/zodira/astro-api/internal/usecases/astro"
	predictionUsecase "github.com/admin/zodira/astro-api/internal/usecases/prediction"
	profileUsecase "github.com/admin/zodira/astro-api/internal/usecases/profile"
	"github.com/jmoiron/sqlx"
)

type Dependencies struct {
	DB             *sqlx.DB
	HTTPServer     *http.Server
	KafkaProducers map[string]*kafkaAdapter.Producer
	KafkaConsumers map[string]*kafkaConsumerAdapter.Consumer
	Cache          cache.Cache
	JobScheduler   *jobScheduler.Scheduler
}

// initDependencies инициализирует все зависимости приложения
func (a *App) initDependencies() (*Dependencies, error) {
	db, err := a.initPostgres()
	if err != nil {
		return nil, fmt.Errorf("failed to init postgres: %w", err)
	}

	repos := a.initRepositories(db)

	chartCache, pingers, err := a.initCache()
	if err != nil {
		return nil, fmt.Errorf("failed to init cache: %w", err)
	}
	pingers["postgres"] = db

	producers, err := a.initKafkaProducers()
	if err != nil {
		return nil, fmt.Errorf("failed to init kafka producers: %w", err)
	}

	useCases := a.initUseCases(repos, chartCache, producers)

	consumers, err := a.initKafkaConsumers(useCases.Predictions)
	if err != nil {
		return nil, fmt.Errorf("failed to init kafka consumers: %w", err)
	}

	return &Dependencies{
		DB:             db,
		HTTPServer:     a.initHTTP(useCases, pingers),
		KafkaProducers: producers,
		KafkaConsumers: consumers,
		Cache:          chartCache,
		JobScheduler:   a.initJobScheduler(useCases.Predictions),
	}, nil
}

// repositories содержит инициализированные репозитории
type repositories struct {
	Documents  *pg.DocumentStore
	Chart      repository.IChartRepo
	Profile    repository.IProfileRepo
	Prediction repository.IPredictionRepo
}

// initRepositories инициализирует репозитории для работы с БД
func (a *App) initRepositories(db *sqlx.DB) *repositories {
	persistenceLayer := pg.NewDB(db)
	documents := pg.NewDocumentStore(persistenceLayer)
	return &repositories{
		Documents:  documents,
		Chart:      chartRepo.New(documents, logger.Component(a.Log, "chart_repo")),
		Profile:    profileRepo.New(persistenceLayer, logger.Component(a.Log, "profile_repo")),
		Prediction: predictionRepo.New(persistenceLayer, logger.Component(a.Log, "prediction_repo")),
	}
}

// initCache кэш ответов провайдера по CACHE_BACKEND; сетевые хранилища попадают в /ready
func (a *App) initCache() (cache.Cache, map[string]healthcheckController.Pinger, error) {
	pingers := make(map[string]healthcheckController.Pinger)

	switch a.Cfg.Cache.Backend {
	case "redis":
		client, err := a.Cfg.Redis.NewConnection()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		pingers["redis"] = healthcheckController.PingFunc(func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		})
		a.Log.Info("redis cache connected successfully")
		return redisAdapter.NewClient(client, a.Cfg.Redis.KeyPrefix), pingers, nil

	case "s3":
		client, err := a.Cfg.S3.NewClient()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to s3: %w", err)
		}
		bucket := a.Cfg.S3.Bucket
		pingers["s3"] = healthcheckController.PingFunc(func(ctx context.Context) error {
			_, err := client.BucketExists(ctx, bucket)
			return err
		})
		a.Log.Info("s3 cache connected successfully", "bucket", bucket)
		return s3Adapter.NewClient(client, bucket, a.Cfg.S3.Prefix, logger.Component(a.Log, "s3_cache")), pingers, nil

	case "memory":
		a.Log.Warn("in-memory chart cache enabled, entries are lost on restart")
		return inmemory.NewCache(), pingers, nil
	}

	diskCache, err := disk.NewCache(a.Cfg.Disk)
	if err != nil {
		return nil, nil, err
	}
	a.Log.Info("disk cache initialized", "dir", a.Cfg.Disk.Dir)
	return diskCache, pingers, nil
}

// initKafkaProducers producer запросов прогнозов
func (a *App) initKafkaProducers() (map[string]*kafkaAdapter.Producer, error) {
	producers := make(map[string]*kafkaAdapter.Producer)

	cfg := a.Cfg.Kafka.Find(kafkaPredictionRequests)
	if cfg == nil || cfg.Topic == "" {
		a.Log.Warn("kafka producer is not configured, predictions are disabled", "name", kafkaPredictionRequests)
		return producers, nil
	}

	prod, err := kafkaAdapter.NewProducer(cfg, logger.Component(a.Log, "kafka_producer"))
	if err != nil {
		return nil, err
	}
	producers[kafkaPredictionRequests] = prod
	return producers, nil
}

// initKafkaConsumers consumer ответов текстового сервиса
func (a *App) initKafkaConsumers(predictions *predictionUsecase.Service) (map[string]*kafkaConsumerAdapter.Consumer, error) {
	consumers := make(map[string]*kafkaConsumerAdapter.Consumer)

	cfg := a.Cfg.Kafka.Find(kafkaPredictionResponses)
	if cfg == nil || cfg.ConsumerGroup == "" {
		a.Log.Warn("kafka consumer is not configured", "name", kafkaPredictionResponses)
		return consumers, nil
	}

	log := logger.Component(a.Log, "kafka_consumer")
	consumer, err := kafkaConsumerAdapter.NewConsumer(cfg, kafkaHandlers.NewPredictionResponseHandler(predictions, log), log)
	if err != nil {
		return nil, err
	}
	consumers[kafkaPredictionResponses] = consumer
	return consumers, nil
}

// useCases сценарии приложения
type useCases struct {
	Astro       *astroUsecase.Service
	Profiles    *profileUsecase.Service
	Predictions *predictionUsecase.Service
}

// initUseCases инициализирует UseCases приложения
func (a *App) initUseCases(
	repos *repositories,
	chartCache cache.Cache,
	producers map[string]*kafkaAdapter.Producer,
) *useCases {
	client := astroApiAdapter.NewClient(a.Cfg.AstroAPI, logger.Component(a.Log, "astro_api"))
	fetcher := astroApiService.New(client, chartCache, a.Cfg.AstroAPI.RequestDelay, logger.Component(a.Log, "fetcher"))
	order := vimshottari.New(repos.Documents, logger.Component(a.Log, "vimshottari"))

	var producer kafkaPorts.IPredictionProducer = disabledProducer{}
	if p, ok := producers[kafkaPredictionRequests]; ok {
		producer = p
	}

	return &useCases{
		Astro:       astroUsecase.New(repos.Chart, repos.Profile, fetcher, order, logger.Component(a.Log, "charts")),
		Profiles:    profileUsecase.New(repos.Profile, logger.Component(a.Log, "profiles")),
		Predictions: predictionUsecase.New(repos.Profile, repos.Chart, repos.Prediction, producer, logger.Component(a.Log, "predictions")),
	}
}

var errPredictionsDisabled = errors.New("prediction requests are not configured")

// disabledProducer без Kafka запросы прогнозов отклоняются
type disabledProducer struct{}

func (disabledProducer) SendPredictionRequest(context.Context, domain.PredictionRequest) error {
	return errPredictionsDisabled
}

// initHTTP инициализирует HTTP сервер и контроллеры
func (a *App) initHTTP(uc *useCases, pingers map[string]healthcheckController.Pinger) *http.Server {
	auth := middlewares.Auth(middlewares.NewJWTParser(a.Cfg.Auth), logger.Component(a.Log, "auth"))
	log := logger.Component(a.Log, "http")

	controllers := []server.Controller{
		healthcheckController.New(pingers, log),
		profilesController.New(uc.Profiles, auth, log),
		astrologyController.New(uc.Astro, auth, log),
		predictionsController.New(uc.Predictions, auth, log),
	}

	return server.NewHTTPServer(a.Cfg.Server, a.Log, controllers...)
}

// initJobScheduler инициализирует планировщик джоб
func (a *App) initJobScheduler(predictions *predictionUsecase.Service) *jobScheduler.Scheduler {
	log := logger.Component(a.Log, "jobs")
	scheduler := jobScheduler.NewScheduler(log)

	if !a.Cfg.Jobs.Enabled {
		a.Log.Info("jobs are disabled")
		return scheduler
	}

	scheduler.Register(jobScheduler.NewPredictionsExpirer(predictions, log))
	a.Log.Info("predictions expirer job registered")
	return scheduler
}

// initPostgres инициализирует подключение к PostgreSQL и запускает миграции
func (a *App) initPostgres() (*sqlx.DB, error) {
	db, err := a.Cfg.Postgres.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	a.Log.Info("postgres connected successfully")

	if err := pg.RunMigrations(db, a.Log); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}
