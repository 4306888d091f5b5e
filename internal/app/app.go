package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/five82/courier/internal/catalog"
	"github.com/five82/courier/internal/config"
	"github.com/five82/courier/internal/dispatch"
	"github.com/five82/courier/internal/jsonstore"
	"github.com/five82/courier/internal/logging"
	"github.com/five82/courier/internal/prefs"
	"github.com/five82/courier/internal/state"
	"github.com/five82/courier/internal/ui"
	"github.com/five82/courier/internal/watch"
)

// Options configure the courier application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/courier/prefs.toml

	// LogToStderr writes logs to Stderr instead of the configured log file.
	LogToStderr bool
	Stderr      io.Writer
}

// Env is everything built from configuration at startup.
type Env struct {
	Config     config.Config
	Logger     *slog.Logger
	Catalog    *catalog.Catalog
	Dispatcher *dispatch.Dispatcher

	closeLog func() error
}

// Bootstrap loads config, sets up logging and builds the catalog and dispatcher.
// Catalog problems are not errors: the catalog comes back unloaded.
func Bootstrap(opts Options) (*Env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logOpts := logging.Options{
		File:     cfg.LogFile,
		Fallback: opts.Stderr,
		Level:    cfg.LogLevel,
		Format:   cfg.LogFormat,
	}
	if opts.LogToStderr {
		logOpts.File = ""
	}
	logger, closeLog, err := logging.Setup(logOpts)
	if err != nil {
		return nil, fmt.Errorf("set up logging: %w", err)
	}

	env := &Env{Config: cfg, Logger: logger, closeLog: closeLog}
	c, d, err := env.Load()
	if err != nil {
		_ = closeLog()
		return nil, err
	}
	env.Catalog, env.Dispatcher = c, d
	return env, nil
}

// Load builds a fresh catalog and dispatcher from disk. A missing or blank
// format file is recreated first.
func (e *Env) Load() (*catalog.Catalog, *dispatch.Dispatcher, error) {
	cfg := e.Config
	if catalog.NeedsReset(cfg.FormatFile) {
		e.Logger.Info("format file missing or blank, writing default", "file", cfg.FormatFile)
		if err := catalog.Load(cfg.FormatFile, cfg.ParamsFile, e.Logger).ResetDefault(); err != nil {
			e.Logger.Error("remake format file failed", "file", cfg.FormatFile, "error", err)
		}
	}

	c := catalog.Load(cfg.FormatFile, cfg.ParamsFile, e.Logger)
	d, err := dispatch.New(c, dispatch.Config{
		Endpoint: cfg.Endpoint,
		Timeout:  cfg.Timeout,
		Logger:   e.Logger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("init dispatcher: %w", err)
	}
	return c, d, nil
}

// Close releases the log file.
func (e *Env) Close() error {
	if e.closeLog == nil {
		return nil
	}
	return e.closeLog()
}

// Run boots the courier TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	env, err := Bootstrap(opts)
	if err != nil {
		return err
	}
	defer env.Close()

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs := prefs.Load(prefsPath)

	var reloads chan struct{}
	if env.Config.Watch {
		reloads = make(chan struct{}, 1)
		env.watchCatalog(ctx, reloads)
	}

	env.Logger.Info("starting tui",
		"endpoint", env.Dispatcher.Endpoint(),
		"format_file", env.Config.FormatFile,
		"params_file", env.Config.ParamsFile,
		"watch", env.Config.Watch,
	)

	uiOpts := ui.Options{
		Context:    ctx,
		Catalog:    env.Catalog,
		Dispatcher: env.Dispatcher,
		Reload:     env.reloadForUI,
		Store:      &state.Store{},
		Prefs:      userPrefs,
		PrefsPath:  prefsPath,
		Endpoint:   env.Dispatcher.Endpoint(),
		LogFile:    env.Config.LogFile,
		LogLevel:   logging.ParseLevel(env.Config.LogLevel),
		Logger:     env.Logger,
	}
	return ui.Run(uiOpts, reloads)
}

func (e *Env) reloadForUI() (ui.Catalog, ui.Dispatcher, error) {
	c, d, err := e.Load()
	if err != nil {
		return nil, nil, err
	}
	return c, d, nil
}

// watchCatalog signals out when either catalog file changes. It falls back to
// polling file metadata when fsnotify cannot be used.
func (e *Env) watchCatalog(ctx context.Context, out chan<- struct{}) {
	paths := []string{e.Config.FormatFile, e.Config.ParamsFile}
	go func() {
		err := watch.Files(ctx, paths, out, e.Logger)
		if err == nil {
			return
		}
		e.Logger.Warn("file watch unavailable, polling instead", "error", err)
		files := make([]*jsonstore.File, 0, len(paths))
		for _, p := range paths {
			files = append(files, jsonstore.New(p, e.Logger))
		}
		StartPoller(ctx, files, defaultPollInterval, out)
	}()
}
