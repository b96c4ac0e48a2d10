package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/workbench/internal/app"
	"github.com/marcus/workbench/internal/channel"
	"github.com/marcus/workbench/internal/config"
	"github.com/marcus/workbench/internal/execution"
	"github.com/marcus/workbench/internal/kv"
	"github.com/marcus/workbench/internal/metrics"
	"github.com/marcus/workbench/internal/plugin"
	concatplugin "github.com/marcus/workbench/internal/plugins/concat"
	scriptsplugin "github.com/marcus/workbench/internal/plugins/scripts"
	"github.com/marcus/workbench/internal/scripts"
	"golang.org/x/term"
)

// Version is set via ldflags.
var Version = ""

var (
	configPath = flag.String("config", "", "path to config file")
	debugLog   = flag.Bool("debug", false, "enable debug logging")
	logPath    = flag.String("log", "", "log file path (default <state dir>/debug.log)")
	startPage  = flag.String("page", "", "page to open at start, e.g. /scripts")
	ephemeral  = flag.Bool("ephemeral", false, "keep scripts in memory only")
	version    = flag.Bool("version", false, "print version and exit")
)

func main() {
	flag.Parse()

	if *version {
		fmt.Println(effectiveVersion(Version))
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "workbench: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("an interactive terminal is required")
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// stderr belongs to the TUI, so logs go to a file.
	logFile, err := openLogFile(*logPath)
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger := newLogger(logFile, *debugLog)
	logger.Info("starting", "version", effectiveVersion(Version))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	store, err := openStore(ctx, cfg, *ephemeral)
	if err != nil {
		return err
	}
	defer store.Close()

	if cfg.Metrics.Addr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.Metrics.Addr, logger); err != nil {
				logger.Error("metrics server failed", "error", err)
			}
		}()
	}

	client := channel.New(
		channel.WithLogger(logger),
		channel.WithHooks(channel.Hooks{
			OnDial:      metrics.RecordDial,
			OnConnected: func() { metrics.SetConnected(true) },
			OnClosed:    func(error) { metrics.SetConnected(false) },
		}),
	)

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolving working directory: %w", err)
	}
	pluginCtx := &plugin.Context{
		WorkDir:   workDir,
		ConfigDir: config.ConfigDir(),
		Config:    cfg,
		Logger:    logger,
	}
	registry := buildRegistry(pluginCtx, store, client)
	if len(registry.Pages()) == 0 {
		return errors.New("no pages enabled; check plugins.*.enabled in the config")
	}

	// Only the scripts page drains the event stream.
	if cfg.Plugins.Scripts.Enabled {
		go func() {
			if err := client.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("channel stopped", "error", err)
			}
		}()
	}

	model := app.New(registry, cfg, *startPage)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running application: %w", err)
	}
	registry.Stop()
	return nil
}

// buildRegistry mounts the enabled pages.
func buildRegistry(ctx *plugin.Context, store kv.Store, client *channel.Client) *plugin.Registry {
	cfg := ctx.Config
	logger := ctx.Log()
	registry := plugin.NewRegistry(ctx)

	if cfg.Plugins.Concat.Enabled {
		p := concatplugin.New(concatplugin.WithStats(metrics.ConcatStats{}))
		if err := registry.Register("/", p); err != nil {
			logger.Warn("concat page unavailable", "error", err)
		}
	}

	if cfg.Plugins.Scripts.Enabled {
		mgr := scripts.New(store, scripts.WithLogger(logger))
		ctrl := execution.NewController(client,
			execution.WithPolicy(execution.ParseOverlapPolicy(cfg.Plugins.Scripts.OverlapPolicy)),
			execution.WithLogger(logger),
			execution.WithSendObserver(metrics.RecordExecution),
		)
		p := scriptsplugin.New(mgr, ctrl, client.Events(), client.Endpoint())
		if err := registry.Register("/scripts", p); err != nil {
			logger.Warn("scripts page unavailable", "error", err)
		}
	}
	return registry
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// openStore opens the script store: SQLite by default, memory when
// ephemeral.
func openStore(ctx context.Context, cfg *config.Config, ephemeral bool) (kv.Store, error) {
	if ephemeral {
		return kv.NewMemory(), nil
	}
	store, err := kv.OpenSQLite(ctx, cfg.Plugins.Scripts.StoreDriver, cfg.ScriptsDBPath())
	if err != nil {
		return nil, fmt.Errorf("opening script store: %w", err)
	}
	return store, nil
}

// openLogFile opens path for appending, defaulting to the state dir.
func openLogFile(path string) (*os.File, error) {
	if path == "" {
		path = filepath.Join(config.StateDir(), "debug.log")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	return f, nil
}

func newLogger(w *os.File, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// effectiveVersion returns v, or the module version from build info.
func effectiveVersion(v string) string {
	if v != "" {
		return v
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "devel"
}
