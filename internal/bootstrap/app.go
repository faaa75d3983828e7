package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/flxzt/pxtogether/internal/editor"
	"github.com/flxzt/pxtogether/internal/hub"
	filestore "github.com/flxzt/pxtogether/internal/infra/file"
	gormpersistence "github.com/flxzt/pxtogether/internal/infra/persistence/gorm"
	"github.com/flxzt/pxtogether/internal/infra/queue"
	"github.com/flxzt/pxtogether/internal/infra/setup"
	redisstate "github.com/flxzt/pxtogether/internal/infra/state/redis"
	"github.com/flxzt/pxtogether/internal/repository"
	"github.com/flxzt/pxtogether/internal/service"
	"github.com/flxzt/pxtogether/internal/tasks"
	"github.com/flxzt/pxtogether/internal/worker"
)

// App 结构体包含应用的所有组件和配置
type App struct {
	Config      *Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	AsynqClient *asynq.Client
	AsynqServer *worker.WorkerServer
	Scheduler   *asynq.Scheduler
	Store       repository.GridStore
	ArchiveRepo repository.ArchiveRepository // 仅在启用归档时非空
	Service     *service.EditorService
	Loop        *hub.Loop

	redisClientOpt asynq.RedisClientOpt
	cancel         context.CancelFunc
}

// NewApp 创建并初始化应用的所有组件
func NewApp(cfg *Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := NewLogger(cfg)
	log.WithFields(logrus.Fields{
		"env":     cfg.AppEnv,
		"backend": cfg.StoreBackend,
		"archive": cfg.ArchiveEnabled,
	}).Debug("Configuration loaded")

	app := &App{Config: cfg, Log: log}

	// 1. 初始化基础设施
	if cfg.needsDB() {
		db, err := setup.InitDB(cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			return nil, fmt.Errorf("failed to init DB: %w", err)
		}
		app.DB = db
		if err := setup.MigrateDB(db); err != nil {
			app.closeInfra()
			return nil, fmt.Errorf("failed to migrate DB: %w", err)
		}
		log.Debug("Database initialized")
	}
	if cfg.needsRedis() {
		redisClient, err := setup.InitRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			app.closeInfra()
			return nil, fmt.Errorf("failed to init Redis: %w", err)
		}
		app.RedisClient = redisClient
		log.Debug("Redis client initialized")
	}

	// 2. 初始化存储
	store, err := app.newStore()
	if err != nil {
		app.closeInfra()
		return nil, err
	}
	app.Store = store

	// 3. 初始化归档
	var archiver service.Archiver
	if cfg.ArchiveEnabled {
		app.redisClientOpt = asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}
		app.AsynqClient = asynq.NewClient(app.redisClientOpt)
		archiver = queue.NewAsynqArchiver(app.AsynqClient)
		app.ArchiveRepo = gormpersistence.NewGormArchiveRepository(app.DB)
		app.AsynqServer = worker.NewWorkerServer(app.redisClientOpt, app.ArchiveRepo, log)
		log.Debug("Archive queue initialized")
	}

	// 4. 初始化编辑器和事件循环
	state, err := editor.NewState(cfg.GridRows, cfg.GridColumns, editor.Size{Width: cfg.CellSize, Height: cfg.CellSize})
	if err != nil {
		app.closeInfra()
		return nil, fmt.Errorf("failed to create editor state: %w", err)
	}
	app.Service = service.NewEditorService(state, store, archiver)
	app.Loop = hub.NewLoop(app.Service, 256)

	log.Debug("Application assembled successfully")
	return app, nil
}

func (a *App) newStore() (repository.GridStore, error) {
	switch a.Config.StoreBackend {
	case BackendMySQL:
		return gormpersistence.NewGormDocumentRepository(a.DB), nil
	case BackendRedis:
		return redisstate.NewRedisGridStore(a.RedisClient, a.Config.KeyPrefix), nil
	default:
		store, err := filestore.NewFileGridStore(a.Config.StoreDir)
		if err != nil {
			return nil, fmt.Errorf("failed to open store directory: %w", err)
		}
		return store, nil
	}
}

// Start 启动事件循环和后台任务
func (a *App) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	go a.Loop.Run(ctx)

	if a.AsynqServer != nil {
		go a.AsynqServer.Start()
		a.registerPeriodicTasks()
	}
}

func (a *App) registerPeriodicTasks() {
	scheduler := asynq.NewScheduler(a.redisClientOpt, &asynq.SchedulerOpts{
		Logger:   a.Log.WithField("component", "scheduler"),
		LogLevel: asynq.WarnLevel,
	})

	payload, err := tasks.NewArchivePruneTask(a.Config.ArchiveRetention)
	if err != nil {
		a.Log.Errorf("Failed to create archive prune task payload: %v", err)
		return
	}
	task := asynq.NewTask(tasks.TypeArchivePrune, payload)
	entryID, err := scheduler.Register(a.Config.PruneSchedule, task, asynq.Queue(tasks.ArchiveQueue))
	if err != nil {
		a.Log.Errorf("Could not register periodic archive prune task: %v", err)
		return
	}
	a.Log.Debugf("Periodic archive prune task registered with schedule '%s' (EntryID: %s)", a.Config.PruneSchedule, entryID)

	if err := scheduler.Start(); err != nil {
		a.Log.Errorf("Asynq scheduler failed to start: %v", err)
		return
	}
	a.Scheduler = scheduler
}

// Shutdown 处理完剩余消息后关闭应用
func (a *App) Shutdown() {
	if a.Loop != nil && a.cancel != nil {
		if err := a.Loop.Drain(); err != nil && !errors.Is(err, hub.ErrLoopStopped) {
			a.Log.Warnf("Error draining event loop: %v", err)
		}
		a.cancel()
		select {
		case <-a.Loop.Done():
		case <-time.After(5 * time.Second):
			a.Log.Warn("Event loop did not stop in time")
		}
	}
	if a.Scheduler != nil {
		a.Scheduler.Shutdown()
	}
	if a.AsynqServer != nil {
		a.AsynqServer.Shutdown()
	}
	a.closeInfra()
	a.Log.Debug("Application shutdown complete.")
}

func (a *App) closeInfra() {
	if a.AsynqClient != nil {
		if err := a.AsynqClient.Close(); err != nil {
			a.Log.Errorf("Error closing Asynq client: %v", err)
		}
	}
	if a.RedisClient != nil {
		if err := a.RedisClient.Close(); err != nil {
			a.Log.Errorf("Error closing Redis connection: %v", err)
		}
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				a.Log.Errorf("Error closing database connection: %v", err)
			}
		}
	}
}
