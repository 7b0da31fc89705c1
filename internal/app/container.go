package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	chatSubs "github.com/nemodouble/godlife/internal/chat/application/subscribers"
	"github.com/nemodouble/godlife/internal/reminders"
	"github.com/nemodouble/godlife/internal/reminders/delivery"
	"github.com/nemodouble/godlife/internal/reports"
	"github.com/nemodouble/godlife/internal/routines/application/commands"
	"github.com/nemodouble/godlife/internal/routines/application/queries"
	routines "github.com/nemodouble/godlife/internal/routines/domain"
	routinePersistence "github.com/nemodouble/godlife/internal/routines/infrastructure/persistence"
	seasonServices "github.com/nemodouble/godlife/internal/seasons/application/services"
	seasonPersistence "github.com/nemodouble/godlife/internal/seasons/infrastructure/persistence"
	sharedApplication "github.com/nemodouble/godlife/internal/shared/application"
	sharedDomain "github.com/nemodouble/godlife/internal/shared/domain"
	"github.com/nemodouble/godlife/internal/shared/infrastructure/database"
	_ "github.com/nemodouble/godlife/internal/shared/infrastructure/database/postgres" // Register PostgreSQL driver
	_ "github.com/nemodouble/godlife/internal/shared/infrastructure/database/sqlite"   // Register SQLite driver
	"github.com/nemodouble/godlife/internal/shared/infrastructure/eventbus"
	"github.com/nemodouble/godlife/internal/shared/infrastructure/migrations"
	"github.com/nemodouble/godlife/internal/shared/infrastructure/outbox"
	"github.com/nemodouble/godlife/internal/validity"
	"github.com/nemodouble/godlife/pkg/config"
	"github.com/nemodouble/godlife/pkg/observability"
)

// redisSentLease bounds how long a crashed sender can hold a reminder claim.
const redisSentLease = 2 * time.Minute

// Container holds all application dependencies.
type Container struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics *observability.InMemoryMetrics
	Health  *observability.HealthRegistry
	Clock   sharedDomain.Clock

	// Database
	DBConn   database.Connection
	DBDriver database.Driver

	// Redis
	RedisClient *redis.Client

	// Repositories
	RoutineRepo   *routinePersistence.SQLRoutineRepository
	CheckinRepo   *routinePersistence.SQLCheckinRepository
	ExemptionRepo *routinePersistence.SQLExemptionRepository
	SettingsRepo  *routinePersistence.SQLSettingsRepository
	SeasonRepo    *seasonPersistence.SQLSeasonRepository
	OutboxRepo    outbox.Repository

	// Unit of Work
	UnitOfWork sharedApplication.UnitOfWork

	// Calendar
	Calendar         *validity.Calendar
	SettingsDefaults routines.SettingsDefaults

	// Routine Command Handlers
	CreateRoutineHandler     *commands.CreateRoutineHandler
	UpdateRoutineHandler     *commands.UpdateRoutineHandler
	DeactivateRoutineHandler *commands.DeactivateRoutineHandler
	PauseRoutineHandler      *commands.PauseRoutineHandler
	ReorderRoutinesHandler   *commands.ReorderRoutinesHandler
	RecordCheckinHandler     *commands.RecordCheckinHandler
	ToggleCheckinHandler     *commands.ToggleCheckinHandler
	ExemptionHandler         *commands.ExemptionHandler
	UpdateSettingsHandler    *commands.UpdateSettingsHandler

	// Routine Query Handlers
	ListRoutinesHandler   *queries.ListRoutinesHandler
	DayBoardHandler       *queries.DayBoardHandler
	ListExemptionsHandler *queries.ListExemptionsHandler
	GetSettingsHandler    *queries.GetSettingsHandler
	OwnerDays             *queries.OwnerDays

	// Seasons and reports
	SeasonManager *seasonServices.Manager
	Aggregator    *reports.Aggregator
	ReportService *reports.Service

	// Reminders
	SentStore reminders.SentStore
	Messenger reminders.Messenger
	Breaker   *delivery.BreakerMessenger
	Scheduler *reminders.Scheduler

	// Messaging
	EventPublisher  eventbus.Publisher
	OutboxProcessor *outbox.Processor
	Consumer        eventbus.Consumer
	ChatSubscriber  *chatSubs.ChatSubscriber

	closers []func() error
}

// NewContainer creates and wires all dependencies. The database driver follows
// the configuration: SQLite in local mode, otherwise detected from DATABASE_URL.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Metrics: observability.NewInMemoryMetrics(),
		Health:  observability.NewHealthRegistry(),
		Clock:   sharedDomain.SystemClock{},
	}

	if err := c.connectDatabase(ctx); err != nil {
		return nil, err
	}
	if err := c.wire(ctx); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

// NewLocalContainer creates a container for local mode with SQLite.
// This provides zero-config operation without requiring PostgreSQL, Redis, or RabbitMQ.
func NewLocalContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	local := *cfg
	local.LocalMode = true
	local.DatabaseDriver = string(database.DriverSQLite)
	local.SentStore = config.SentStoreMemory
	local.ConsumerEnabled = false
	if local.Messenger == config.MessengerRabbitMQ {
		local.Messenger = config.MessengerLog
	}
	return NewContainer(ctx, &local, logger)
}

func (c *Container) databaseConfig() database.Config {
	driver, err := database.ParseDriver(c.Config.DatabaseDriver)
	if err != nil {
		driver = database.Driver(c.Config.DatabaseDriver)
	}
	dbCfg := database.Config{
		Driver:     driver,
		URL:        c.Config.DatabaseURL,
		SQLitePath: c.Config.SQLitePath,
		MaxConns:   c.Config.DatabaseMaxConns,
	}
	if c.Config.LocalMode {
		dbCfg.Driver = database.DriverSQLite
	}
	if dbCfg.Driver == database.DriverSQLite && dbCfg.SQLitePath == "" {
		dbCfg.SQLitePath = database.DefaultSQLitePath()
	}
	return dbCfg
}

func (c *Container) connectDatabase(ctx context.Context) error {
	dbCfg := c.databaseConfig()
	if dbCfg.Driver == database.DriverSQLite {
		if err := database.EnsureDirectory(dbCfg.SQLitePath); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	conn, err := database.NewConnection(ctx, dbCfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := conn.Ping(ctx); err != nil {
		conn.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	c.Logger.Info("running migrations", "driver", conn.Driver())
	if err := migrations.Apply(ctx, conn, dbCfg); err != nil {
		conn.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	c.DBConn = conn
	c.DBDriver = conn.Driver()
	c.Health.Register("database", observability.DatabaseHealthChecker(conn.Ping))
	c.Logger.Info("connected to database", "driver", c.DBDriver)
	return nil
}

func (c *Container) wire(ctx context.Context) error {
	cfg := c.Config
	logger := c.Logger

	factory, err := NewRepositoryFactory(c.DBConn)
	if err != nil {
		return err
	}
	c.RoutineRepo = factory.RoutineRepository()
	c.CheckinRepo = factory.CheckinRepository()
	c.ExemptionRepo = factory.ExemptionRepository()
	c.SettingsRepo = factory.SettingsRepository()
	c.SeasonRepo = factory.SeasonRepository()
	c.OutboxRepo = factory.OutboxRepository()
	c.UnitOfWork = factory.UnitOfWork()

	defaults, err := settingsDefaults(cfg)
	if err != nil {
		return err
	}
	c.SettingsDefaults = defaults

	holidays, err := validity.LoadHolidayCalendar(cfg.HolidayCountry, cfg.HolidayFile)
	if err != nil {
		return fmt.Errorf("failed to load holidays: %w", err)
	}
	if table, ok := holidays.(*validity.TableHolidays); ok {
		table.WithLogger(logger)
	}
	c.Calendar = validity.NewCalendar(holidays, c.ExemptionRepo)

	// Query handlers come first: the scheduler and seasons read settings.
	c.GetSettingsHandler = queries.NewGetSettingsHandler(c.SettingsRepo, defaults)
	c.OwnerDays = queries.NewOwnerDays(c.GetSettingsHandler, cfg.DayBoundaryOffset, c.Clock)
	c.ListRoutinesHandler = queries.NewListRoutinesHandler(c.RoutineRepo)
	c.DayBoardHandler = queries.NewDayBoardHandler(c.RoutineRepo, c.CheckinRepo, c.Calendar)
	c.ListExemptionsHandler = queries.NewListExemptionsHandler(c.ExemptionRepo)

	c.SeasonManager = seasonServices.NewManager(c.SeasonRepo, c.CheckinRepo, c.OwnerDays, c.UnitOfWork, c.Clock, logger)

	boundary, err := sharedDomain.NewDayBoundary(cfg.DefaultTimezone, cfg.DayBoundaryOffset)
	if err != nil {
		return fmt.Errorf("invalid default timezone: %w", err)
	}
	c.Aggregator = reports.NewAggregator(c.CheckinRepo, c.Calendar, boundary, c.Clock)
	c.ReportService = reports.NewService(c.RoutineRepo, c.SeasonManager, c.GetSettingsHandler, c.Aggregator, logger)

	if err := c.wireReminders(ctx); err != nil {
		return err
	}

	// Command handlers
	c.CreateRoutineHandler = commands.NewCreateRoutineHandler(c.RoutineRepo)
	c.UpdateRoutineHandler = commands.NewUpdateRoutineHandler(c.RoutineRepo)
	c.DeactivateRoutineHandler = commands.NewDeactivateRoutineHandler(c.RoutineRepo)
	c.PauseRoutineHandler = commands.NewPauseRoutineHandler(c.RoutineRepo)
	c.ReorderRoutinesHandler = commands.NewReorderRoutinesHandler(c.RoutineRepo, c.UnitOfWork)
	c.RecordCheckinHandler = commands.NewRecordCheckinHandler(c.RoutineRepo, c.CheckinRepo)
	c.ToggleCheckinHandler = commands.NewToggleCheckinHandler(c.RoutineRepo, c.CheckinRepo, c.UnitOfWork)
	c.ExemptionHandler = commands.NewExemptionHandler(c.ExemptionRepo)
	c.UpdateSettingsHandler = commands.NewUpdateSettingsHandler(c.SettingsRepo, defaults, c.Scheduler)

	return c.wireConsumer()
}

func settingsDefaults(cfg *config.Config) (routines.SettingsDefaults, error) {
	reminderTime, err := sharedDomain.ParseTimeOfDay(cfg.DefaultReminderTime)
	if err != nil {
		return routines.SettingsDefaults{}, fmt.Errorf("invalid DEFAULT_REMINDER_TIME: %w", err)
	}
	locale, err := routines.ParseLocale(cfg.MessageLocale)
	if err != nil {
		return routines.SettingsDefaults{}, fmt.Errorf("invalid MESSAGE_LOCALE: %w", err)
	}
	return routines.SettingsDefaults{
		Timezone:     cfg.DefaultTimezone,
		ReminderTime: reminderTime,
		Locale:       locale,
	}, nil
}

func (c *Container) wireReminders(ctx context.Context) error {
	cfg := c.Config

	sent, err := c.sentStore(ctx)
	if err != nil {
		return err
	}
	c.SentStore = sent

	messenger, err := c.messenger()
	if err != nil {
		return err
	}
	c.Breaker = delivery.NewBreakerMessenger(messenger, delivery.BreakerConfig{
		Name:             cfg.Messenger,
		FailureThreshold: uint32(cfg.BreakerFailureThreshold),
		OpenTimeout:      cfg.BreakerOpenTimeout,
	}, c.Logger)
	c.Messenger = c.Breaker
	c.Health.Register("reminder_delivery", observability.BreakerHealthChecker(c.Breaker.State))

	c.Scheduler = reminders.NewScheduler(
		c.RoutineRepo,
		c.CheckinRepo,
		c.GetSettingsHandler,
		c.Calendar,
		c.SentStore,
		c.Messenger,
		reminders.Config{
			SweepInterval:  cfg.SweepInterval,
			SweepWindow:    cfg.SweepWindow,
			ReplanSchedule: cfg.ReplanSchedule,
			DayOffset:      cfg.DayBoundaryOffset,
		},
		c.Clock,
		c.Metrics,
		c.Logger,
	)
	c.Health.Register("scheduler", observability.SweepHealthChecker(func() (bool, *time.Time) {
		stats := c.Scheduler.Stats()
		return stats.IsRunning, stats.LastSweepAt
	}, 3*cfg.SweepInterval))
	return nil
}

func (c *Container) sentStore(ctx context.Context) (reminders.SentStore, error) {
	if c.Config.SentStore != config.SentStoreRedis {
		return reminders.NewMemorySentStore(), nil
	}

	opt, err := redis.ParseURL(c.Config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		if c.Config.IsDevelopment() {
			c.Logger.Warn("Redis not available, sent markers kept in memory", "error", err)
			return reminders.NewMemorySentStore(), nil
		}
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	c.RedisClient = client
	c.Health.Register("redis", observability.RedisHealthChecker(func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}))
	c.Logger.Info("connected to Redis")
	return reminders.NewRedisSentStore(client, redisSentLease, c.Config.SentRetention), nil
}

func (c *Container) messenger() (reminders.Messenger, error) {
	cfg := c.Config
	switch cfg.Messenger {
	case config.MessengerRabbitMQ:
		publisher, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, eventbus.OutboundExchange, c.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		c.EventPublisher = publisher
		c.Health.Register("rabbitmq", observability.RabbitMQHealthChecker(func(ctx context.Context) error {
			return publisher.Check()
		}))
		if !cfg.OutboxEnabled {
			return delivery.NewBrokerMessenger(publisher, c.Logger), nil
		}
		c.OutboxProcessor = outbox.NewProcessor(c.OutboxRepo, publisher, outbox.ProcessorConfig{
			PollInterval:     cfg.OutboxPollInterval,
			BatchSize:        cfg.OutboxBatchSize,
			MaxRetries:       cfg.OutboxMaxRetries,
			RetryBackoffBase: time.Second,
			RetryBackoffMax:  time.Minute,
			Retention:        cfg.OutboxRetention,
		}, c.Logger)
		return delivery.NewOutboxMessenger(c.OutboxRepo), nil

	case config.MessengerKafka:
		writer := delivery.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaTopic)
		c.closers = append(c.closers, writer.Close)
		return delivery.NewKafkaMessenger(writer), nil

	case config.MessengerSMTP:
		dialer := delivery.NewSMTPDialer(delivery.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		})
		return delivery.NewSMTPMessenger(dialer, cfg.SMTPFrom, c.GetSettingsHandler), nil

	default:
		return delivery.NewLogMessenger(c.Logger), nil
	}
}

func (c *Container) wireConsumer() error {
	cfg := c.Config
	c.ChatSubscriber = chatSubs.NewChatSubscriber(
		c.ReportService,
		c.ToggleCheckinHandler,
		c.OwnerDays,
		c.GetSettingsHandler,
		c.Scheduler,
		c.Messenger,
		c.Metrics,
		c.Logger,
	)

	if !cfg.ConsumerEnabled {
		bus := eventbus.NewInProcessBus(c.Logger)
		bus.Register(c.ChatSubscriber)
		c.Consumer = bus
		return nil
	}

	consumer, err := eventbus.NewRabbitMQConsumer(eventbus.RabbitMQConsumerConfig{
		URL:       cfg.RabbitMQURL,
		QueueName: cfg.ConsumerQueue,
		Exchange:  eventbus.InboundExchange,
		Logger:    c.Logger,
	}, eventbus.NewRegistry(c.Logger))
	if err != nil {
		return fmt.Errorf("failed to start chat consumer: %w", err)
	}
	consumer.Register(c.ChatSubscriber)
	c.Consumer = consumer
	return nil
}

// RepairSeasons fixes season start days of every owner. Run at startup.
func (c *Container) RepairSeasons(ctx context.Context) {
	result, err := c.SeasonManager.RepairAll(ctx)
	if err != nil {
		c.Logger.Warn("season repair finished with errors", "error", err)
	}
	if result != nil {
		c.Logger.Info("season repair completed", "checked", result.Checked, "repaired", result.Repaired)
	}
}

// Close cleans up all resources.
func (c *Container) Close() {
	if c.Scheduler != nil && c.Scheduler.IsRunning() {
		c.Scheduler.Stop()
	}
	if c.OutboxProcessor != nil {
		c.OutboxProcessor.Stop()
	}
	if c.Consumer != nil {
		if err := c.Consumer.Close(); err != nil {
			c.Logger.Warn("error closing consumer", "error", err)
		}
	}
	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("error closing event publisher", "error", err)
		}
	}

	var errs []error
	for _, closeFn := range c.closers {
		errs = append(errs, closeFn())
	}
	if err := errors.Join(errs...); err != nil {
		c.Logger.Warn("error closing messenger", "error", err)
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("error closing Redis connection", "error", err)
		} else {
			c.Logger.Info("Redis connection closed")
		}
	}
	if c.DBConn != nil {
		if err := c.DBConn.Close(); err != nil {
			c.Logger.Warn("error closing database connection", "error", err, "driver", c.DBDriver)
		} else {
			c.Logger.Info("database connection closed", "driver", c.DBDriver)
		}
	}
}
