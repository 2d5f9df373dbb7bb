package daemonrun

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"lectern/internal/artifacts"
	"lectern/internal/config"
	"lectern/internal/daemon"
	"lectern/internal/events"
	"lectern/internal/ipc"
	"lectern/internal/logging"
	"lectern/internal/pipeline"
	"lectern/internal/preflight"
	"lectern/internal/registry"
)

// Options configures daemon process runtime behavior.
type Options struct {
	LogLevel    string
	Development bool
}

// Run starts the lectern daemon runtime loop. It blocks until the context is
// canceled, SIGINT/SIGTERM arrives, or an IPC shutdown request comes in.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("ensure directories: %w", err)
	}

	level := opts.LogLevel
	if level == "" {
		level = cfg.Logging.Level
	}
	logger, err := logging.New(logging.Options{
		Level:       level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{"stdout", cfg.LogFilePath()},
		Development: opts.Development,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	logStartupChecks(signalCtx, logger, cfg)

	pidPath := filepath.Join(cfg.Paths.LogDir, "lecternd.pid")
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	store, err := registry.Open(cfg)
	if err != nil {
		logger.Error("open job registry", logging.Error(err))
		return err
	}
	defer store.Close()
	store.SetLogger(logging.NewComponentLogger(logger, "registry"))
	store.SetArtifactProbe(artifacts.NewStore(cfg, logger))

	// One publisher shared by pipeline and daemon; daemon.Close owns closing it.
	publisher := events.NewPublisher(cfg, logger)

	orch, err := pipeline.New(cfg, store, logger, pipeline.WithPublisher(publisher))
	if err != nil {
		return fmt.Errorf("create pipeline: %w", err)
	}

	d, err := daemon.New(cfg, store, logger, orch, daemon.WithPublisher(publisher))
	if err != nil {
		return fmt.Errorf("create daemon: %w", err)
	}
	defer d.Close()

	ipcServer, err := ipc.NewServer(signalCtx, cfg.SocketPath(), d, logger, cancel)
	if err != nil {
		return fmt.Errorf("start IPC server: %w", err)
	}
	defer ipcServer.Close()
	ipcServer.Serve()

	if err := d.Start(signalCtx); err != nil {
		logger.Warn("daemon start failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "daemon_start_failed"),
			logging.String(logging.FieldErrorHint, "check configuration and registry database access"))
	}

	<-signalCtx.Done()
	logger.Info("lectern daemon shutting down")
	return nil
}

// logStartupChecks records preflight results and a dependency snapshot so
// operators can read environment problems from the log without running
// lectern status.
func logStartupChecks(ctx context.Context, logger *slog.Logger, cfg *config.Config) {
	if logger == nil || cfg == nil {
		return
	}

	for _, result := range preflight.RunAll(ctx, cfg) {
		attrs := []logging.Attr{
			logging.String(logging.FieldEventType, "preflight_check"),
			logging.String("check", result.Name),
			logging.Bool("passed", result.Passed),
			logging.String("detail", result.Detail),
		}
		if result.Passed {
			logger.Info("preflight check", logging.Args(attrs...)...)
		} else {
			logger.Warn("preflight check failed", logging.Args(attrs...)...)
		}
	}

	attrs := []logging.Attr{logging.String(logging.FieldEventType, "dependency_snapshot")}
	for _, dep := range preflight.CheckSystemDeps(cfg) {
		key := depAttrKey(dep.Name)
		attrs = append(attrs, logging.Bool(key+"_available", dep.Available))
		if !dep.Available {
			attrs = append(attrs, logging.String(key+"_detail", dep.Detail))
		}
	}
	logger.Info("dependency snapshot", logging.Args(attrs...)...)
}

func depAttrKey(name string) string {
	key := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'A' && r <= 'Z':
			key = append(key, r+('a'-'A'))
		case r == ' ':
			key = append(key, '_')
		default:
			key = append(key, r)
		}
	}
	return string(key)
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}
