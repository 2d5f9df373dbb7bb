package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"lectern/internal/config"
	"lectern/internal/daemon"
	"lectern/internal/ipc"
	"lectern/internal/logging"
	"lectern/internal/metrics"
	"lectern/internal/pipeline"
	"lectern/internal/registry"
	"lectern/internal/testsupport"
	"lectern/internal/transcribe"
)

type stubBackend struct{}

func (stubBackend) Transcribe(context.Context, string) (transcribe.Transcript, error) {
	return transcribe.Transcript{Text: "stub"}, nil
}

type cliTestEnv struct {
	cfg        *config.Config
	store      *registry.Store
	daemon     *daemon.Daemon
	server     *ipc.Server
	socketPath string
	configPath string
	baseDir    string
	cancel     context.CancelFunc
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	cfg := testsupport.NewConfig(t)
	cfg.Paths.APIBind = ""
	// Long poll interval keeps the dispatcher from claiming seeded jobs.
	cfg.Workflow.JobPollInterval = 3600
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}

	configPath := filepath.Join(homeDir, ".config", "lectern", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	writeTestConfig(t, configPath, cfg)

	store := testsupport.MustOpenStore(t, cfg)

	logger := logging.NewNop()
	orch, err := pipeline.New(cfg, store, logger,
		pipeline.WithBackend(stubBackend{}),
		pipeline.WithMetrics(metrics.New(prometheus.NewRegistry())),
	)
	if err != nil {
		t.Fatalf("pipeline.New: %v", err)
	}

	d, err := daemon.New(cfg, store, logger, orch,
		daemon.WithMetrics(metrics.New(prometheus.NewRegistry())))
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	socketPath := filepath.Join(cfg.Paths.LogDir, "cli.sock")
	srv, err := ipc.NewServer(ctx, socketPath, d, logger, nil)
	if err != nil {
		cancel()
		d.Close()
		if strings.Contains(err.Error(), "operation not permitted") {
			t.Skipf("unix sockets unavailable: %v", err)
		}
		t.Fatalf("ipc.NewServer: %v", err)
	}
	srv.Serve()

	env := &cliTestEnv{
		cfg:        cfg,
		store:      store,
		daemon:     d,
		server:     srv,
		socketPath: socketPath,
		configPath: configPath,
		baseDir:    base,
		cancel:     cancel,
	}

	t.Cleanup(func() {
		cancel()
		srv.Close()
		d.Close()
	})

	return env
}

func runCLI(t *testing.T, args []string, socket, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	flags := []string{"--socket", socket}
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\nstaging_dir = %q\noutput_dir = %q\nlog_dir = %q\napi_bind = %q\n\n[workflow]\njob_poll_interval = %d\n",
		cfg.Paths.StagingDir,
		cfg.Paths.OutputDir,
		cfg.Paths.LogDir,
		cfg.Paths.APIBind,
		cfg.Workflow.JobPollInterval,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func seedJob(t *testing.T, env *cliTestEnv, owner string, action registry.ActionType) *registry.Job {
	t.Helper()
	return testsupport.NewJob(t, env.store, owner, action)
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
