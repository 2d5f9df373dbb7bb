package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"lectern/internal/artifacts"
	"lectern/internal/config"
	"lectern/internal/credits"
	"lectern/internal/document"
	"lectern/internal/events"
	"lectern/internal/logging"
	"lectern/internal/media"
	"lectern/internal/metrics"
	"lectern/internal/notes"
	"lectern/internal/notifications"
	"lectern/internal/registry"
	"lectern/internal/transcribe"
)

// Orchestrator owns the job worker pool. A dispatcher goroutine claims
// created jobs from the registry and feeds a bounded queue consumed by a
// fixed number of workers; each worker runs one job's stages strictly in
// sequence. Jobs beyond queue capacity stay in created until a slot frees,
// which is the system's backpressure.
type Orchestrator struct {
	cfg    *config.Config
	store  *registry.Store
	logger *slog.Logger

	acquirer  *media.Acquirer
	prober    *media.Prober
	extractor *media.Extractor
	documents *document.Extractor
	backend   transcribe.Backend
	generator *notes.Generator
	ledger    *credits.Client
	artifacts *artifacts.Store
	publisher *events.Publisher
	notifier  notifications.Service
	metrics   *metrics.Metrics

	pollInterval time.Duration
	workerCount  int
	queueSize    int

	mu      sync.RWMutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	queue   chan *registry.Job
	lastErr error
	lastJob *registry.Job
}

// Option replaces one of the orchestrator's collaborators, primarily so
// tests can inject stubbed tool runners and fake services.
type Option func(*Orchestrator)

// WithBackend replaces the transcription backend.
func WithBackend(backend transcribe.Backend) Option {
	return func(o *Orchestrator) {
		if backend != nil {
			o.backend = backend
		}
	}
}

// WithAcquirer replaces the input acquirer.
func WithAcquirer(acquirer *media.Acquirer) Option {
	return func(o *Orchestrator) {
		if acquirer != nil {
			o.acquirer = acquirer
		}
	}
}

// WithProber replaces the media prober.
func WithProber(prober *media.Prober) Option {
	return func(o *Orchestrator) {
		if prober != nil {
			o.prober = prober
		}
	}
}

// WithExtractor replaces the audio extractor.
func WithExtractor(extractor *media.Extractor) Option {
	return func(o *Orchestrator) {
		if extractor != nil {
			o.extractor = extractor
		}
	}
}

// WithDocumentExtractor replaces the document text extractor.
func WithDocumentExtractor(extractor *document.Extractor) Option {
	return func(o *Orchestrator) {
		if extractor != nil {
			o.documents = extractor
		}
	}
}

// WithGenerator replaces the notes generator.
func WithGenerator(generator *notes.Generator) Option {
	return func(o *Orchestrator) {
		if generator != nil {
			o.generator = generator
		}
	}
}

// WithLedger replaces the credit ledger client.
func WithLedger(client *credits.Client) Option {
	return func(o *Orchestrator) {
		if client != nil {
			o.ledger = client
		}
	}
}

// WithNotifier replaces the notification service.
func WithNotifier(notifier notifications.Service) Option {
	return func(o *Orchestrator) {
		if notifier != nil {
			o.notifier = notifier
		}
	}
}

// WithPublisher replaces the lifecycle event publisher.
func WithPublisher(publisher *events.Publisher) Option {
	return func(o *Orchestrator) {
		if publisher != nil {
			o.publisher = publisher
		}
	}
}

// WithMetrics replaces the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Orchestrator) {
		if m != nil {
			o.metrics = m
		}
	}
}

// New wires an orchestrator from configuration. Collaborators not replaced
// through options are built from cfg.
func New(cfg *config.Config, store *registry.Store, logger *slog.Logger, opts ...Option) (*Orchestrator, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	o := &Orchestrator{
		cfg:          cfg,
		store:        store,
		logger:       logging.NewComponentLogger(logger, "pipeline"),
		acquirer:     media.NewAcquirer(cfg, logger),
		prober:       media.NewProber(cfg.Tools.FFprobeBinary),
		extractor:    media.NewExtractor(cfg.Tools.FFmpegBinary),
		documents:    document.NewExtractor(cfg.Tools.PDFTextBinary),
		generator:    notes.NewGenerator(cfg, logger),
		ledger:       credits.NewClient(cfg, logger),
		artifacts:    artifacts.NewStore(cfg, logger),
		publisher:    events.NewPublisher(cfg, logger),
		notifier:     notifications.NewService(cfg),
		metrics:      metrics.Default,
		pollInterval: time.Duration(cfg.Workflow.JobPollInterval) * time.Second,
		workerCount:  cfg.Workflow.WorkerCount,
		queueSize:    cfg.Workflow.QueueCapacity,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.backend == nil {
		backend, err := transcribe.NewBackend(cfg)
		if err != nil {
			return nil, err
		}
		o.backend = backend
	}
	if o.workerCount < 1 {
		o.workerCount = 1
	}
	if o.queueSize < 1 {
		o.queueSize = 1
	}
	return o, nil
}

// Start launches the dispatcher and worker pool. It returns immediately;
// processing continues until Stop or context cancellation.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.mu.Lock()
	if o.running {
		o.mu.Unlock()
		return errors.New("pipeline already running")
	}
	runCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel
	o.running = true
	o.queue = make(chan *registry.Job, o.queueSize)
	queue := o.queue
	o.wg.Add(1 + o.workerCount)
	o.mu.Unlock()

	o.logger.Info("pipeline started",
		logging.Int("workers", o.workerCount),
		logging.Int("queue_capacity", o.queueSize),
		logging.Duration("poll_interval", o.pollInterval))

	go o.dispatch(runCtx, queue)
	for i := 0; i < o.workerCount; i++ {
		go o.work(runCtx, queue)
	}
	return nil
}

// Stop cancels processing and waits for the dispatcher and workers to exit.
// Jobs interrupted mid-stage stay in processing and are failed by the next
// daemon start's reconciliation pass.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	if !o.running {
		o.mu.Unlock()
		return
	}
	cancel := o.cancel
	o.running = false
	o.cancel = nil
	o.mu.Unlock()

	cancel()
	o.wg.Wait()
	o.logger.Info("pipeline stopped")
}

// Running reports whether the pool is active.
func (o *Orchestrator) Running() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.running
}

// dispatch claims created jobs and feeds the worker queue. A job is marked
// processing before it is enqueued so a crash between the two is caught by
// startup reconciliation rather than leaving a phantom claim.
func (o *Orchestrator) dispatch(ctx context.Context, queue chan<- *registry.Job) {
	defer o.wg.Done()
	defer close(queue)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		job, err := o.store.NextForStatuses(ctx, registry.StatusCreated)
		if err != nil {
			o.setLastError(err)
			o.logger.Error("fetch next job failed",
				logging.Error(err),
				logging.String(logging.FieldEventType, "job_fetch_failed"),
				logging.String(logging.FieldErrorHint, "check registry database access"))
			o.sleep(ctx)
			continue
		}
		if job == nil {
			o.sleep(ctx)
			continue
		}

		if err := o.store.UpdateStatus(ctx, job.ID, registry.StatusProcessing, "Starting processing..."); err != nil {
			o.setLastError(err)
			o.logger.Error("claim job failed",
				logging.Error(err),
				logging.String(logging.FieldJobID, job.ID))
			o.sleep(ctx)
			continue
		}
		job.Status = registry.StatusProcessing
		job.Progress = "Starting processing..."

		select {
		case queue <- job:
			o.metrics.SetQueueDepth(len(queue))
		case <-ctx.Done():
			return
		}
	}
}

func (o *Orchestrator) work(ctx context.Context, queue <-chan *registry.Job) {
	defer o.wg.Done()
	for job := range queue {
		o.metrics.SetQueueDepth(len(queue))
		o.runJob(ctx, job)
	}
}

func (o *Orchestrator) sleep(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-time.After(o.pollInterval):
	}
}

func (o *Orchestrator) setLastError(err error) {
	o.mu.Lock()
	o.lastErr = err
	o.mu.Unlock()
}

func (o *Orchestrator) setLastJob(job *registry.Job) {
	o.mu.Lock()
	if job != nil {
		jobCopy := *job
		o.lastJob = &jobCopy
	} else {
		o.lastJob = nil
	}
	o.mu.Unlock()
}
