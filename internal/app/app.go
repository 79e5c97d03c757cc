package app

import (
	"context"
	"log/slog"

	"BacBoScanner/internal/config"
	"BacBoScanner/internal/extract"
	"BacBoScanner/internal/infrastructure/browser"
	"BacBoScanner/internal/infrastructure/ocr"
	"BacBoScanner/internal/infrastructure/scheduler"
	"BacBoScanner/internal/infrastructure/telegram"
	"BacBoScanner/internal/infrastructure/webui"
	"BacBoScanner/internal/logging"
	"BacBoScanner/internal/ports"
	"BacBoScanner/internal/usecase"
)

// Application wires configs to the monitor and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	renderer *browser.Renderer
	monitor  *usecase.Monitor
	control  *webui.Server
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	renderer := browser.New(browser.Config{
		URL:            cfg.Target.URL,
		Headless:       cfg.Target.Headless,
		NavTimeout:     cfg.Target.NavTimeout(),
		ViewportWidth:  cfg.Target.ViewportWidth,
		ViewportHeight: cfg.Target.ViewportHeight,
		Language:       cfg.Language,
	}, baseLogger.With("component", "browser"))

	recognizer := ocr.New(cfg.OCR.Binary, cfg.OCR.Language, baseLogger.With("component", "ocr"))

	extractor := extract.New(renderer, recognizer, cfg.Extraction,
		baseLogger.With("component", "extract"))

	notifier := telegram.NewNotifier(
		cfg.Notifications.Telegram.BotToken,
		cfg.Notifications.Telegram.ChatID,
		cfg.Language)

	monitor := usecase.NewMonitor(usecase.MonitorDeps{
		Extractor: extractor,
		Notifier:  notifier,
		Scheduler: scheduler.NewIntervalScheduler(cfg.Scheduler.Interval()),
		Logger:    baseLogger.With("component", "monitor"),
	}, usecase.MonitorParams{
		AlertThreshold: cfg.Alerts.PlayerThreshold,
		AlertCooldown:  cfg.Alerts.Cooldown(),
		StatusInterval: cfg.Alerts.StatusInterval(),
		StatusDelta:    cfg.Alerts.StatusDelta,
	})

	control := webui.New(cfg.WebUI.Addr, monitor, notifier,
		baseLogger.With("component", "webui"))

	return &Application{
		cfg:      cfg,
		logger:   baseLogger,
		renderer: renderer,
		monitor:  monitor,
		control:  control,
	}
}

// Run starts the browser session, optionally the monitor, and serves the
// control page until the context is canceled.
func (a *Application) Run(ctx context.Context) error {
	if err := a.renderer.Start(ctx); err != nil {
		return err
	}
	defer a.renderer.Close()

	if a.cfg.WebUI.AutoStart {
		if err := a.monitor.Start(ctx, ports.NotifierOverride{}); err != nil {
			a.logger.Warn("monitor auto-start failed", "error", err)
		}
	}
	defer func() {
		if err := a.monitor.Stop(context.Background()); err != nil {
			a.logger.Warn("monitor stop failed", "error", err)
		}
	}()

	return a.control.Run(ctx)
}
