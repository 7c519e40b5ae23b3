package server

import (
	"context"
	"fmt"
	"time"

	"github.com/emrgen/notes/internal/ai"
	"github.com/emrgen/notes/internal/cache"
	"github.com/emrgen/notes/internal/compress"
	"github.com/emrgen/notes/internal/config"
	"github.com/emrgen/notes/internal/jobs"
	"github.com/emrgen/notes/internal/metrics"
	"github.com/emrgen/notes/internal/queue"
	"github.com/emrgen/notes/internal/service"
	"github.com/emrgen/notes/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds the services built from a config, shared by the http server,
// the mcp server and the cli.
type App struct {
	Config     *config.Config
	DB         *gorm.DB
	Store      store.Store
	Cache      cache.ProfileCache
	Publisher  queue.Publisher
	Registry   *prometheus.Registry
	Metrics    *metrics.SyncMetrics
	Dictionary *ai.Dictionary
	Sync       *service.Synchronizer
	Notes      *service.NoteService
	Profiles   *service.ProfileService

	closers []func()
}

// NewApp opens the database, migrates it and wires the services.
func NewApp(cfg *config.Config) (*App, error) {
	db, err := config.GetDb(cfg)
	if err != nil {
		return nil, err
	}

	app := &App{Config: cfg, DB: db}
	if sqlDB, err := db.DB(); err == nil {
		app.closers = append(app.closers, func() { _ = sqlDB.Close() })
	}

	app.Store = store.NewGormStore(db)
	if err := app.Store.Migrate(); err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := app.setupCache(); err != nil {
		app.Close()
		return nil, err
	}

	if err := app.setupPublisher(); err != nil {
		app.Close()
		return nil, err
	}

	app.Registry = prometheus.NewRegistry()
	app.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	app.Metrics, err = metrics.NewSyncMetrics(app.Registry)
	if err != nil {
		app.Close()
		return nil, err
	}

	extractor, summarizer := app.collaborators()
	app.Sync = service.NewSynchronizer(app.Store, extractor, summarizer,
		service.WithCache(app.Cache),
		service.WithPublisher(app.Publisher),
		service.WithMetrics(app.Metrics),
	)
	app.Notes = service.NewNoteService(app.Store, app.Sync)
	app.Profiles = service.NewProfileService(app.Store, app.Sync, app.Cache)

	return app, nil
}

func (a *App) setupCache() error {
	switch a.Config.Cache.Kind {
	case "redis":
		encoder, err := compress.New(a.Config.Cache.Compression)
		if err != nil {
			return err
		}
		client := cache.NewRedis(a.Config.Redis.Addr, a.Config.Redis.Password, a.Config.Redis.DB)
		a.Cache = cache.NewRedisProfileCache(client, encoder, a.Config.Cache.TTL)
		a.closers = append(a.closers, func() { _ = client.Close() })
	case "memory":
		a.Cache = cache.NewMemoryProfileCache(a.Config.Cache.TTL)
	default:
		a.Cache = cache.NewNop()
	}
	return nil
}

func (a *App) setupPublisher() error {
	if a.Config.Kafka.Brokers == "" {
		a.Publisher = queue.NewNop()
		return nil
	}

	publisher, err := queue.NewKafkaPublisher(a.Config.Kafka.Brokers, a.Config.Kafka.Topic)
	if err != nil {
		return fmt.Errorf("failed to create kafka publisher: %w", err)
	}
	a.Publisher = publisher
	a.closers = append(a.closers, publisher.Close)
	return nil
}

func (a *App) collaborators() (ai.Extractor, ai.Summarizer) {
	a.Dictionary = ai.NewDictionary(nil)
	a.seedDictionary()

	if a.Config.LLM.Provider == "openai" {
		client := ai.NewOpenAI(ai.OpenAIConfig{
			BaseURL:           a.Config.LLM.BaseURL,
			APIKey:            a.Config.LLM.APIKey,
			Model:             a.Config.LLM.Model,
			Timeout:           a.Config.LLM.Timeout,
			RequestsPerSecond: a.Config.LLM.RequestsPerSecond,
		})
		logrus.Infof("using %s at %s for extraction and summaries", a.Config.LLM.Model, a.Config.LLM.BaseURL)
		return client, client
	}

	logrus.Info("using the offline dictionary extractor, profiles are linked but not summarized")
	return a.Dictionary, ai.NopSummarizer{}
}

// seedDictionary loads the stored profile titles so that known names are
// found in lowercase before the first refresh.
func (a *App) seedDictionary() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	titles, err := a.Store.ListProfileTitles(ctx)
	if err != nil {
		logrus.Warnf("failed to seed the dictionary: %v", err)
		return
	}
	a.Dictionary.Reload(titles)
}

// dictionaryRefresher returns nil unless the offline dictionary extracts names.
func (a *App) dictionaryRefresher() *jobs.DictionaryRefresher {
	if a.Config.LLM.Provider != "dictionary" {
		return nil
	}
	return jobs.NewDictionaryRefresher(a.Store, a.Dictionary, a.Config.Jobs.DictionaryInterval)
}

// RunDictionaryRefresher reloads the dictionary in the background until the
// returned stop func is called. Long running commands other than serve use it.
func (a *App) RunDictionaryRefresher() (stop func()) {
	refresher := a.dictionaryRefresher()
	if refresher == nil {
		return func() {}
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		refresher.Run()
	}()

	return func() {
		refresher.Stop()
		<-done
	}
}

// Close releases the connections in reverse order of creation.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
