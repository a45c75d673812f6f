// Package bootstrap merakit service dan adapter dari config, dipakai
// bersama oleh cmd/api dan cmd/laporkerja.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/bryanwahyu/laporkerja/internal/application"
	appanalysis "github.com/bryanwahyu/laporkerja/internal/application/analysis"
	appdelivery "github.com/bryanwahyu/laporkerja/internal/application/delivery"
	appreports "github.com/bryanwahyu/laporkerja/internal/application/reports"
	"github.com/bryanwahyu/laporkerja/internal/config"
	"github.com/bryanwahyu/laporkerja/internal/domain/ai"
	"github.com/bryanwahyu/laporkerja/internal/domain/delivery"
	"github.com/bryanwahyu/laporkerja/internal/domain/media"
	"github.com/bryanwahyu/laporkerja/internal/domain/reports"
	"github.com/bryanwahyu/laporkerja/internal/domain/settings"
	"github.com/bryanwahyu/laporkerja/internal/infra/ai/gemini"
	"github.com/bryanwahyu/laporkerja/internal/infra/ai/openai"
	"github.com/bryanwahyu/laporkerja/internal/infra/bus"
	mysqlp "github.com/bryanwahyu/laporkerja/internal/infra/db/mysql"
	"github.com/bryanwahyu/laporkerja/internal/infra/db/postgres"
	"github.com/bryanwahyu/laporkerja/internal/infra/db/sqlite"
	"github.com/bryanwahyu/laporkerja/internal/infra/export"
	"github.com/bryanwahyu/laporkerja/internal/infra/platform"
	"github.com/bryanwahyu/laporkerja/internal/infra/state"
	"github.com/bryanwahyu/laporkerja/internal/infra/storage"
	"github.com/bryanwahyu/laporkerja/internal/middleware"
)

// ErrOracleNotConfigured api key oracle kosong
var ErrOracleNotConfigured = errors.New("oracle api key belum diatur")

// App hasil wiring
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	Reports  *appreports.Service
	Delivery *appdelivery.Service
	Settings settings.Repository
	Checkers map[string]middleware.HealthChecker

	closers []func()
}

// NewLogger zap production config dengan level dari config
func NewLogger(level string) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	zcfg.Level = lvl
	return zcfg.Build()
}

// Build rakit semua dependency. Adapter opsional yang tidak dikonfigurasi
// dibiarkan nil (capability tidak tersedia).
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (app *App, err error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	app = &App{
		Config:   cfg,
		Logger:   logger,
		Checkers: make(map[string]middleware.HealthChecker),
	}
	defer func() {
		if err != nil {
			app.Close()
			app = nil
		}
	}()

	store, err := app.openState(ctx)
	if err != nil {
		return app, err
	}
	settingsRepo := state.NewSettingsRepo(store, logger)
	app.Settings = settingsRepo

	client, err := newOracle(ctx, cfg)
	if err != nil {
		return app, err
	}

	uploads, err := newResolver(ctx, cfg)
	if err != nil {
		return app, err
	}

	records, err := app.openRecords(ctx)
	if err != nil {
		return app, err
	}

	lifecycle := &appreports.Service{
		Gateway: appanalysis.NewService(client, logger.Named("analysis")),
		History: state.NewHistoryRepo(store, cfg.State.HistoryLimit, logger),
		Session: state.NewSessionRepo(store, logger),
		Clock:   application.SystemClock{},
		Logger:  logger.Named("reports"),
	}

	dl := &appdelivery.Service{
		Settings:      settingsRepo,
		Uploads:       uploads,
		Records:       records,
		Tracker:       lifecycle,
		Clock:         application.SystemClock{},
		Logger:        logger.Named("delivery"),
		LocateTimeout: cfg.Platform.Geolocation.Timeout,
		UploadTimeout: cfg.Storage.UploadTimeout,
	}
	wirePlatform(dl, cfg, logger)
	lifecycle.Listeners = []reports.Listener{dl}

	if cfg.Events.NatsURL != "" {
		nc, err := bus.Connect(cfg.Events.NatsURL)
		if err != nil {
			return app, fmt.Errorf("nats connect: %w", err)
		}
		app.closers = append(app.closers, nc.Close)
		lifecycle.Listeners = append(lifecycle.Listeners, bus.NewPublisher(nc, cfg.Events.Subject, logger.Named("events")))
	}

	if err := lifecycle.Start(ctx); err != nil {
		return app, fmt.Errorf("start lifecycle: %w", err)
	}

	app.Reports = lifecycle
	app.Delivery = dl
	return app, nil
}

// Close tunggu task background lalu tutup koneksi (urutan terbalik)
func (a *App) Close() {
	if a.Delivery != nil {
		a.Delivery.Wait()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
	_ = a.Logger.Sync()
}

func (a *App) openState(ctx context.Context) (state.Store, error) {
	if a.Config.State.Path == "" {
		a.Logger.Info("state store in-memory, data hilang saat restart")
		return state.NewMemoryStore(), nil
	}
	db, err := sqlite.Open(ctx, a.Config.State.Path)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func() { _ = db.Close() })
	a.Checkers["state"] = &middleware.DatabaseHealthChecker{DB: db}
	return sqlite.NewKVStore(db), nil
}

func (a *App) openRecords(ctx context.Context) (reports.RecordRepository, error) {
	cfg := a.Config
	switch cfg.Records.Driver {
	case config.DriverMySQL:
		db, err := mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			return nil, fmt.Errorf("mysql connect: %w", err)
		}
		a.closers = append(a.closers, func() { _ = db.Close() })
		a.Checkers["records"] = &middleware.DatabaseHealthChecker{DB: db}
		repo := mysqlp.NewReportRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return repo, nil
	case config.DriverPostgres:
		db, err := postgres.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			return nil, fmt.Errorf("postgres connect: %w", err)
		}
		a.closers = append(a.closers, func() { _ = db.Close() })
		a.Checkers["records"] = &middleware.DatabaseHealthChecker{DB: db}
		repo := postgres.NewReportRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return repo, nil
	}
	return nil, nil
}

func newOracle(ctx context.Context, cfg *config.Config) (ai.Client, error) {
	o := cfg.Oracle
	if o.APIKey == "" {
		return missingOracle{}, nil
	}
	switch o.Provider {
	case config.ProviderOpenAI:
		if o.BaseURL != "" {
			return openai.NewClientWithBaseURL(o.APIKey, o.Model, o.BaseURL, nil), nil
		}
		return openai.NewClient(o.APIKey, o.Model), nil
	default:
		c, err := gemini.NewClient(ctx, o.APIKey, o.Model, gemini.Options{BaseURL: o.BaseURL})
		if err != nil {
			return nil, fmt.Errorf("gemini client: %w", err)
		}
		return c, nil
	}
}

// missingOracle tanpa api key: setiap analisa gagal sebagai unreachable,
// command lain (settings, history) tetap jalan
type missingOracle struct{}

func (missingOracle) Analyze(context.Context, media.EncodedImage) (string, error) {
	return "", ErrOracleNotConfigured
}

func newResolver(ctx context.Context, cfg *config.Config) (delivery.UploaderResolver, error) {
	res := storage.Resolver{Client: &http.Client{Timeout: cfg.Storage.UploadTimeout}}

	switch cfg.Storage.Provider {
	case config.StorageMinio:
		m := cfg.Storage.Minio
		st, err := storage.New(ctx, m.Endpoint, m.Region, m.BucketName, m.AccessKey, m.SecretKey, m.UseSSL)
		if err != nil {
			return nil, fmt.Errorf("minio init: %w", err)
		}
		res.Object = st.WithPublicURL(m.PublicURL)
	case config.StorageAzure:
		az := cfg.Storage.Azure
		st, err := storage.NewAzure(ctx, az.ConnectionString, az.Container)
		if err != nil {
			return nil, fmt.Errorf("azure init: %w", err)
		}
		res.Object = st.WithPublicURL(az.PublicURL)
	}
	return res, nil
}

func wirePlatform(dl *appdelivery.Service, cfg *config.Config, logger *zap.Logger) {
	p := cfg.Platform
	if p.Clipboard {
		dl.Clipboard = platform.SystemClipboard{}
	}
	if p.OpenExternal {
		dl.Opener = platform.NewBrowserOpener()
	}
	if p.ShareDir != "" {
		dl.Sharer = platform.DirSharer{Dir: p.ShareDir}
	}
	switch geo := p.Geolocation; {
	case geo.URL != "":
		dl.Locator = platform.HTTPLocator{URL: geo.URL, Client: &http.Client{Timeout: geo.Timeout}}
	case geo.Lat != nil && geo.Lon != nil:
		dl.Locator = platform.StaticLocator{Lat: *geo.Lat, Lon: *geo.Lon}
	}
	if !cfg.Export.Disabled {
		dl.Renderer = export.NewPDFRenderer(logger.Named("export"))
	}
}
