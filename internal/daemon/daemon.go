package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"lectern/internal/config"
	"lectern/internal/entitlements"
	"lectern/internal/events"
	"lectern/internal/fileutil"
	"lectern/internal/logging"
	"lectern/internal/media"
	"lectern/internal/metrics"
	"lectern/internal/notifications"
	"lectern/internal/pipeline"
	"lectern/internal/preflight"
	"lectern/internal/registry"
)

// Daemon coordinates the pipeline orchestrator and enforces single-instance
// execution.
type Daemon struct {
	cfg       *config.Config
	logger    *slog.Logger
	store     *registry.Store
	orch      *pipeline.Orchestrator
	publisher *events.Publisher
	metrics   *metrics.Metrics

	lockPath string
	lock     *flock.Flock

	api *apiServer

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	PID          int
	Pipeline     pipeline.StatusSummary
	DatabasePath string
	LockFilePath string
	SocketPath   string
	Dependencies []preflight.Status
}

// SubmitRequest describes one job submission. Action may be empty, in which
// case it is inferred from the input.
type SubmitRequest struct {
	Input  string
	Action string
	Owner  string
	Plan   string
}

// Option customizes daemon construction.
type Option func(*Daemon)

// WithPublisher shares an event publisher instead of constructing one.
func WithPublisher(publisher *events.Publisher) Option {
	return func(d *Daemon) {
		if publisher != nil {
			d.publisher = publisher
		}
	}
}

// WithMetrics replaces the default metrics registry.
func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Daemon) {
		if m != nil {
			d.metrics = m
		}
	}
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *registry.Store, logger *slog.Logger, orch *pipeline.Orchestrator, opts ...Option) (*Daemon, error) {
	if cfg == nil || store == nil || logger == nil || orch == nil {
		return nil, errors.New("daemon requires config, store, logger, and orchestrator")
	}

	d := &Daemon{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		orch:     orch,
		lockPath: cfg.LockPath(),
		lock:     flock.New(cfg.LockPath()),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.publisher == nil {
		d.publisher = events.NewPublisher(cfg, logger)
	}
	if d.metrics == nil {
		d.metrics = metrics.Default
	}
	d.api = newAPIServer(cfg, d, logger)
	return d, nil
}

// Start acquires the daemon lock, reconciles interrupted jobs, and launches
// the pipeline plus the HTTP API.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another lectern daemon instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)

	// Jobs left in processing by a crash stay failed; operators resubmit.
	if failed, err := d.store.FailStaleProcessing(d.ctx); err != nil {
		d.logger.Warn("stale job reconciliation failed", logging.Error(err))
	} else if failed > 0 {
		d.logger.Info("failed interrupted jobs from previous run", logging.Int64("count", failed))
	}

	if err := d.orch.Start(d.ctx); err != nil {
		_ = d.lock.Unlock()
		d.cancel()
		d.ctx = nil
		d.cancel = nil
		return fmt.Errorf("start pipeline: %w", err)
	}
	if err := d.api.start(d.ctx); err != nil {
		d.orch.Stop()
		_ = d.lock.Unlock()
		d.cancel()
		d.ctx = nil
		d.cancel = nil
		return err
	}

	d.running.Store(true)
	d.logger.Info("lectern daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop stops background processing and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.api.stop()
	d.orch.Stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("lectern daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if err := d.publisher.Close(); err != nil {
		d.logger.Warn("close event publisher", logging.Error(err))
	}
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Submit registers a new job. Local inputs are copied into the staging
// directory first so the caller's file can disappear the moment Submit
// returns; the pipeline reclaims the staged copy after processing.
func (d *Daemon) Submit(ctx context.Context, req SubmitRequest) (*registry.Job, error) {
	if d.store == nil {
		return nil, errors.New("job registry unavailable")
	}
	input := strings.TrimSpace(req.Input)
	if input == "" {
		return nil, errors.New("input is required")
	}

	action, err := resolveAction(req.Action, input)
	if err != nil {
		return nil, err
	}

	owner := strings.TrimSpace(req.Owner)
	plan := ""
	if owner != "" {
		plan = entitlements.ResolvePlan(d.cfg, req.Plan)
	}

	if action == registry.ActionMediaURL {
		if err := validateURL(input); err != nil {
			return nil, err
		}
		return d.createJob(ctx, action, input, owner, plan)
	}

	staged, err := d.stageUpload(input, action)
	if err != nil {
		return nil, err
	}
	job, err := d.createJob(ctx, action, staged, owner, plan)
	if err != nil {
		_ = os.Remove(staged)
		return nil, err
	}
	return job, nil
}

func (d *Daemon) createJob(ctx context.Context, action registry.ActionType, input, owner, plan string) (*registry.Job, error) {
	job, err := d.store.Create(ctx, action, input, owner, plan)
	if err != nil {
		return nil, fmt.Errorf("register job: %w", err)
	}

	d.logger.Info("job submitted",
		logging.String(logging.FieldJobID, job.ID),
		logging.String("action", string(action)),
		logging.String("input", input))
	d.metrics.RecordSubmitted(string(action))
	if err := d.publisher.JobCreated(ctx, job); err != nil {
		d.logger.Warn("publish job created event", logging.Error(err))
	}
	return job, nil
}

// stageUpload validates a local input and copies it into the staging
// directory under a collision-free name.
func (d *Daemon) stageUpload(input string, action registry.ActionType) (string, error) {
	abs, err := filepath.Abs(input)
	if err != nil {
		return "", fmt.Errorf("resolve input path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("input file %s does not exist", abs)
		}
		return "", fmt.Errorf("stat input: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("input %s is a directory", abs)
	}
	if info.Size() == 0 {
		return "", fmt.Errorf("input file %s is empty", abs)
	}

	switch action {
	case registry.ActionDocumentUpload:
		if !media.IsDocument(abs) {
			return "", fmt.Errorf("unsupported document format %q", filepath.Ext(abs))
		}
	default:
		if !media.IsSupportedMedia(abs) {
			return "", fmt.Errorf("unsupported media format %q", filepath.Ext(abs))
		}
	}

	base := filepath.Base(abs)
	ext := filepath.Ext(base)
	staged := filepath.Join(d.cfg.Paths.StagingDir,
		fmt.Sprintf("%s-%s%s", strings.TrimSuffix(base, ext), uuid.NewString()[:8], ext))
	if err := fileutil.StageCopy(abs, staged); err != nil {
		return "", fmt.Errorf("stage upload: %w", err)
	}
	return staged, nil
}

// resolveAction picks the action type, inferring it from the input when the
// request leaves it blank.
func resolveAction(requested, input string) (registry.ActionType, error) {
	if trimmed := strings.TrimSpace(requested); trimmed != "" {
		action, ok := registry.ParseAction(trimmed)
		if !ok {
			return "", fmt.Errorf("unknown action type %q", trimmed)
		}
		return action, nil
	}
	if isRemoteURL(input) {
		return registry.ActionMediaURL, nil
	}
	if media.IsDocument(input) {
		return registry.ActionDocumentUpload, nil
	}
	if media.IsSupportedMedia(input) {
		return registry.ActionMediaUpload, nil
	}
	return "", fmt.Errorf("cannot determine action for input %q", input)
}

func isRemoteURL(input string) bool {
	return strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://")
}

func validateURL(input string) error {
	parsed, err := url.Parse(input)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("unsupported url scheme %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return errors.New("url is missing a host")
	}
	return nil
}

// ListJobs returns registry jobs filtered by optional statuses.
func (d *Daemon) ListJobs(ctx context.Context, statuses []registry.Status) ([]*registry.Job, error) {
	if d.store == nil {
		return nil, errors.New("job registry unavailable")
	}
	if len(statuses) == 0 {
		return d.store.List(ctx)
	}
	return d.store.List(ctx, statuses...)
}

// GetJob returns a single job by id, or nil when absent.
func (d *Daemon) GetJob(ctx context.Context, id string) (*registry.Job, error) {
	if d.store == nil {
		return nil, errors.New("job registry unavailable")
	}
	return d.store.Get(ctx, id)
}

// ClearCompleted removes completed jobs from the registry.
func (d *Daemon) ClearCompleted(ctx context.Context) (int64, error) {
	if d.store == nil {
		return 0, errors.New("job registry unavailable")
	}
	return d.store.ClearCompleted(ctx)
}

// RegistryHealth returns aggregate job counts.
func (d *Daemon) RegistryHealth(ctx context.Context) (registry.HealthSummary, error) {
	if d.store == nil {
		return registry.HealthSummary{}, errors.New("job registry unavailable")
	}
	return d.store.Health(ctx)
}

// DatabaseHealth returns detailed database diagnostics.
func (d *Daemon) DatabaseHealth(ctx context.Context) (registry.DatabaseHealth, error) {
	if d.store == nil {
		return registry.DatabaseHealth{}, errors.New("job registry unavailable")
	}
	return d.store.CheckHealth(ctx)
}

// APIAddr returns the bound HTTP API address, or empty before Start or when
// the API is disabled.
func (d *Daemon) APIAddr() string {
	if d.api == nil || d.api.listener == nil {
		return ""
	}
	return d.api.listener.Addr().String()
}

// LogPath returns the daemon log file location, or empty without config.
func (d *Daemon) LogPath() string {
	if d.cfg == nil {
		return ""
	}
	return d.cfg.LogFilePath()
}

// TestNotification triggers a test notification using the current configuration.
func (d *Daemon) TestNotification(ctx context.Context) (bool, string, error) {
	if d.cfg == nil {
		return false, "configuration unavailable", errors.New("configuration unavailable")
	}
	if strings.TrimSpace(d.cfg.Notifications.NtfyTopic) == "" {
		return false, "ntfy topic not configured", nil
	}
	notifier := notifications.NewService(d.cfg)
	if err := notifier.TestNotification(ctx); err != nil {
		return false, "failed to send notification", err
	}
	return true, "test notification sent", nil
}

// Status returns the current daemon status.
func (d *Daemon) Status(ctx context.Context) Status {
	return Status{
		Running:      d.running.Load(),
		PID:          os.Getpid(),
		Pipeline:     d.orch.Status(ctx),
		DatabasePath: d.cfg.DatabasePath(),
		LockFilePath: d.lockPath,
		SocketPath:   d.cfg.SocketPath(),
		Dependencies: preflight.CheckSystemDeps(d.cfg),
	}
}
