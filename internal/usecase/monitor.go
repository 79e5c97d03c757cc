package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"BacBoScanner/internal/domain"
	"BacBoScanner/internal/ports"
)

// MonitorDeps wires the driven adapters into the monitoring loop.
type MonitorDeps struct {
	Extractor ports.StatsExtractor
	Notifier  ports.Notifier
	Scheduler ports.Scheduler
	Logger    *slog.Logger
}

// MonitorParams holds the notification policy. All cross-cycle memory
// (last reading, cooldowns, debouncing) lives here in the monitor; the
// extraction core below it is stateless between cycles.
type MonitorParams struct {
	// AlertThreshold is the player percentage above which an entry alert
	// fires.
	AlertThreshold float64
	// AlertCooldown is the minimum gap between entry alerts.
	AlertCooldown time.Duration
	// StatusInterval is how often a status update goes out regardless of
	// movement.
	StatusInterval time.Duration
	// StatusDelta is the player-percentage movement that forces an
	// immediate status update.
	StatusDelta float64
}

// Monitor periodically runs one extraction cycle and turns readings into
// Telegram traffic according to the alert policy.
type Monitor struct {
	extractor ports.StatsExtractor
	notifier  ports.Notifier
	scheduler ports.Scheduler
	params    MonitorParams
	logger    *slog.Logger

	mu          sync.Mutex
	running     bool
	lastReading *domain.Reading
	lastSent    *domain.Reading
	lastAlert   time.Time
	lastStatus  time.Time
}

var _ ports.MonitorControl = (*Monitor)(nil)

// NewMonitor constructs the loop without starting it.
func NewMonitor(deps MonitorDeps, params MonitorParams) *Monitor {
	if params.AlertThreshold <= 0 {
		params.AlertThreshold = 98
	}
	if params.AlertCooldown <= 0 {
		params.AlertCooldown = 30 * time.Second
	}
	if params.StatusInterval <= 0 {
		params.StatusInterval = 30 * time.Second
	}
	if params.StatusDelta <= 0 {
		params.StatusDelta = 3
	}
	return &Monitor{
		extractor: deps.Extractor,
		notifier:  deps.Notifier,
		scheduler: deps.Scheduler,
		params:    params,
		logger:    deps.Logger,
	}
}

// Start begins the monitoring loop. An override carries credentials from
// the control page's start form.
func (m *Monitor) Start(ctx context.Context, override ports.NotifierOverride) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return fmt.Errorf("monitor already running")
	}
	m.running = true
	m.mu.Unlock()

	if override.BotToken != "" || override.ChatID != "" {
		m.notifier.SetCredentials(override.BotToken, override.ChatID)
	}
	if err := m.notifier.Startup(ctx); err != nil {
		m.logger.Warn("startup message failed", "error", err)
	}

	// The caller's context may be request-scoped (control page start) and
	// end with the response; the loop lives until Stop.
	runCtx := context.WithoutCancel(ctx)
	return m.scheduler.Start(runCtx, func(now time.Time) {
		m.Cycle(runCtx, now)
	})
}

// Stop halts the loop and announces shutdown.
func (m *Monitor) Stop(ctx context.Context) error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return nil
	}
	m.running = false
	m.mu.Unlock()

	if err := m.scheduler.Stop(ctx); err != nil {
		return fmt.Errorf("stop scheduler: %w", err)
	}
	if err := m.notifier.Shutdown(ctx); err != nil {
		m.logger.Warn("shutdown message failed", "error", err)
	}
	return nil
}

// Running reports whether the loop is active.
func (m *Monitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// LastReading returns the last known good reading, or nil.
func (m *Monitor) LastReading() *domain.Reading {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastReading
}

// Cycle runs one observation and applies the notification policy. now is
// the scheduler's trigger time; tests pass fixed times to pin the cooldown
// arithmetic.
func (m *Monitor) Cycle(ctx context.Context, now time.Time) {
	reading, err := m.extractor.Extract(ctx)
	if err != nil {
		m.logger.Warn("extraction cycle aborted", "error", err)
		return
	}

	if reading == nil {
		m.mu.Lock()
		due := now.Sub(m.lastStatus) >= m.params.StatusInterval
		if due {
			m.lastStatus = now
		}
		m.mu.Unlock()
		if due {
			if err := m.notifier.StatusUpdate(ctx, nil); err != nil {
				m.logger.Warn("status update failed", "error", err)
			}
		}
		return
	}

	m.logger.Info("cycle reading",
		"player", reading.PlayerPercent, "banker", reading.BankerPercent,
		"tie", reading.TiePercent, "derived", reading.Derived)

	m.mu.Lock()
	m.lastReading = reading
	sendStatus := m.lastSent == nil ||
		math.Abs(reading.PlayerPercent-m.lastSent.PlayerPercent) > m.params.StatusDelta ||
		now.Sub(m.lastStatus) >= m.params.StatusInterval
	if sendStatus {
		m.lastSent = reading
		m.lastStatus = now
	}
	sendAlert := reading.PlayerPercent > m.params.AlertThreshold &&
		now.Sub(m.lastAlert) > m.params.AlertCooldown
	if sendAlert {
		m.lastAlert = now
	}
	m.mu.Unlock()

	if sendStatus {
		if err := m.notifier.StatusUpdate(ctx, reading); err != nil {
			m.logger.Warn("status update failed", "error", err)
		}
	}
	if sendAlert {
		if err := m.notifier.EntryAlert(ctx, reading.PlayerPercent, reading.BankerPercent); err != nil {
			m.logger.Warn("entry alert failed", "error", err)
		} else {
			m.logger.Info("entry alert sent", "player", reading.PlayerPercent)
		}
	}
}
