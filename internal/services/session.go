package services

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/vayustack/vayu-intel/internal/config"
	"github.com/vayustack/vayu-intel/internal/engine"
	"github.com/vayustack/vayu-intel/internal/history"
	"github.com/vayustack/vayu-intel/internal/metrics"
	"github.com/vayustack/vayu-intel/internal/models"
	"github.com/vayustack/vayu-intel/internal/utils"
)

// offlineAnalysisNotice is the fixed response of the permanently disabled
// remote analysis engine.
const offlineAnalysisNotice = "ANALYSIS_ENGINE_OFFLINE: Use Local Forensic Engine."

// Aggregator abstracts the entity producer feeding the session.
type Aggregator interface {
	FetchOne(ctx context.Context) models.Threat
}

// Publisher abstracts the broadcast channel the session fans entities out on.
type Publisher interface {
	Publish(t models.Threat)
}

// Session owns all mutable per-session state: the rolling buffer, selection
// pointers, alert flags, derived counters, and the ingestion loops. It is the
// single producer pipeline; the startup burst and the steady poll both
// serialize through one ingest path, so each ingestion is atomic for
// observers. No package-level state: create, Start, Stop, discard.
type Session struct {
	cfg    config.SessionConfig
	logger *slog.Logger
	agg    Aggregator
	buffer *history.Buffer
	bus    Publisher
	apiKey string
	rng    *rand.Rand

	mu      sync.Mutex
	started bool
	stopped bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	timers  map[*time.Timer]struct{}

	focused    *models.Threat
	hovered    *models.Threat
	report     string
	processing bool
	reportGen  int

	burstSignal models.Severity
	burstGen    int
	tactical    bool
	tacticalGen int

	accuracy float64
	entropy  float64
	uptime   int
}

// New constructs a session. The aggregator and bus must not be nil; apiKey is
// the unused remote-analysis placeholder carried for configuration parity.
func New(cfg config.SessionConfig, agg Aggregator, b Publisher, apiKey string, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	if cfg.BurstSignalWindow <= 0 {
		cfg.BurstSignalWindow = time.Second
	}
	if cfg.TacticalAlertWindow <= 0 {
		cfg.TacticalAlertWindow = 5 * time.Second
	}
	if cfg.AnalysisDelay < 0 {
		cfg.AnalysisDelay = 0
	}
	return &Session{
		cfg:      cfg,
		logger:   logger,
		agg:      agg,
		buffer:   history.NewBuffer(cfg.BufferCapacity),
		bus:      b,
		apiKey:   apiKey,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		timers:   make(map[*time.Timer]struct{}),
		accuracy: 99.998,
		entropy:  0.012,
	}
}

// Start pre-populates the buffer with the startup burst, then runs the
// steady poll and the per-second stats tick until Stop or ctx cancellation.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return fmt.Errorf("session already started")
	}
	s.started = true
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	s.wg.Add(1)
	go s.run(runCtx)
	return nil
}

// Stop tears the session down: loops cancelled, pending alert and report
// timers stopped, in-flight fetch results discarded.
func (s *Session) Stop() {
	s.mu.Lock()
	if !s.started || s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	cancel := s.cancel
	for t := range s.timers {
		t.Stop()
	}
	uptime := s.uptime
	s.mu.Unlock()

	cancel()
	s.wg.Wait()
	s.logger.Info("session stopped", slog.String("uptime", utils.FormatUptime(uptime)))
}

func (s *Session) run(ctx context.Context) {
	defer s.wg.Done()

	for i := 0; i < s.cfg.StartupBurst; i++ {
		if ctx.Err() != nil {
			return
		}
		s.pump(ctx)
	}

	poll := time.NewTicker(s.cfg.PollInterval)
	defer poll.Stop()
	stats := time.NewTicker(time.Second)
	defer stats.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-poll.C:
			s.pump(ctx)
		case <-stats.C:
			s.statsTick()
		}
	}
}

// pump produces one entity, publishes it, and ingests it locally in the same
// step, so the producer's output is observed exactly once per local buffer.
func (s *Session) pump(ctx context.Context) {
	start := time.Now()
	threat := s.agg.FetchOne(ctx)

	origin := metrics.OriginLive
	if threat.Source == models.SourceHeuristics {
		origin = metrics.OriginSynthetic
	}
	metrics.ObserveFetch(time.Since(start), origin)

	// A fetch completing after teardown must not touch the buffer.
	if ctx.Err() != nil {
		return
	}

	s.bus.Publish(threat)
	s.ingest(threat)
}

func (s *Session) ingest(threat models.Threat) {
	s.buffer.Ingest(threat)
	metrics.ObserveIngestion(threat.Source)

	if threat.Severity == models.SeverityCritical {
		s.triggerAlerts()
	}
}

// triggerAlerts raises the transient burst signal and the sustained tactical
// alert. Every new critical ingestion restarts both windows; a generation
// check keeps an earlier timer from clearing a window a later trigger is
// still holding open.
func (s *Session) triggerAlerts() {
	metrics.RecordCriticalAlert()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}

	s.burstSignal = models.SeverityCritical
	s.burstGen++
	burstGen := s.burstGen
	s.schedule(s.cfg.BurstSignalWindow, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.burstGen == burstGen {
			s.burstSignal = ""
		}
	})

	s.tactical = true
	s.tacticalGen++
	tacticalGen := s.tacticalGen
	s.schedule(s.cfg.TacticalAlertWindow, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.tacticalGen == tacticalGen {
			s.tactical = false
		}
	})
}

// schedule runs fn once after d and tracks the timer for teardown.
// Callers must hold s.mu.
func (s *Session) schedule(d time.Duration, fn func()) {
	var t *time.Timer
	t = time.AfterFunc(d, func() {
		fn()
		s.mu.Lock()
		delete(s.timers, t)
		s.mu.Unlock()
	})
	s.timers[t] = struct{}{}
}

func (s *Session) statsTick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uptime++
	s.accuracy = 99.9982 + s.rng.Float64()*0.0001
}

// Focus selects an entity for forensic inspection. Selecting the entity that
// is already focused clears focus and any pending report (toggle, not
// replace). The forensic report materializes after the configured analysis
// delay; if selection changes before it lands, the stale completion is
// dropped rather than overwriting the newer request. Returns false when the
// id is not in the buffer window.
func (s *Session) Focus(id string) bool {
	threat, ok := s.buffer.Lookup(id)
	if !ok {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return false
	}

	if s.focused != nil && s.focused.ID == id {
		s.focused = nil
		s.report = ""
		s.processing = false
		s.reportGen++
		return true
	}

	s.focused = &threat
	s.report = ""
	s.processing = true
	s.reportGen++
	gen := s.reportGen

	s.schedule(s.cfg.AnalysisDelay, func() {
		rendered := engine.Analyze(threat, s.buffer.Snapshot())

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.stopped || s.reportGen != gen {
			return
		}
		s.report = rendered
		s.processing = false
		metrics.RecordForensicReport()
	})
	return true
}

// ClearFocus releases the focus pointer and discards the report.
func (s *Session) ClearFocus() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.focused = nil
	s.report = ""
	s.processing = false
	s.reportGen++
}

// Hover sets the transient hover pointer. Returns false when the id is not
// in the buffer window.
func (s *Session) Hover(id string) bool {
	threat, ok := s.buffer.Lookup(id)
	if !ok {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hovered = &threat
	return true
}

// ClearHover drops the hover pointer (pointer-leave).
func (s *Session) ClearHover() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hovered = nil
}

// ActiveSubject resolves the current detail-display entity under the fixed
// focused > hovered > buffer-head priority.
func (s *Session) ActiveSubject() *models.Threat {
	s.mu.Lock()
	focused, hovered := s.focused, s.hovered
	s.mu.Unlock()
	return engine.ActiveSubject(focused, hovered, s.buffer.Snapshot())
}

// Report returns the current forensic report text and whether a newer one is
// still materializing.
func (s *Session) Report() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.report, s.processing
}

// RelatedNodes returns the correlation-graph selection for the focused
// entity, or nil when nothing is focused.
func (s *Session) RelatedNodes() []models.Threat {
	s.mu.Lock()
	focused := s.focused
	s.mu.Unlock()
	if focused == nil {
		return nil
	}
	return engine.Related(*focused, s.buffer.Snapshot())
}

// TacticalAlert reports whether a critical ingestion's alert window is open.
func (s *Session) TacticalAlert() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tactical
}

// BurstSignal returns the pending transient burst severity, if any.
func (s *Session) BurstSignal() (models.Severity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.burstSignal, s.burstSignal != ""
}

// Snapshot returns the buffer window, newest first.
func (s *Session) Snapshot() []models.Threat {
	return s.buffer.Snapshot()
}

// Stats returns the session's derived counters.
func (s *Session) Stats() models.NeuralStats {
	threatCount, abuseCount := s.buffer.Counters()
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.NeuralStats{
		ThreatCount: threatCount,
		AbuseCount:  abuseCount,
		Accuracy:    s.accuracy,
		Entropy:     s.entropy,
		Uptime:      s.uptime,
	}
}

// AnalyzeRemote is the retired cloud-analysis path. The configured API key is
// deliberately never sent; callers always receive the offline notice and
// should use the local forensic engine instead.
func (s *Session) AnalyzeRemote(_ context.Context, _ models.Threat, _ []models.Threat) (string, error) {
	return offlineAnalysisNotice, nil
}
