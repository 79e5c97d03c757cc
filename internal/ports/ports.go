package ports

import (
	"context"
	"time"

	"BacBoScanner/internal/domain"
)

// Rendering is one textual/visual representation of the observed page or of
// one of its embedded frames.
type Rendering struct {
	// Text is the whole-page rendered text, one big blob.
	Text string
	// Elements holds the visible text of individual nodes, when the renderer
	// can enumerate them. May be empty; collectors fall back to Markup.
	Elements []string
	// Markup is the raw document markup.
	Markup string
	// Screenshot is a full-page capture. Filled lazily, only when an OCR
	// engine is available to consume it.
	Screenshot []byte
	// Context names the source for diagnostics ("main", "iframe-1", ...).
	Context string
}

// PageRenderer exposes the browser capability the extraction core consumes.
// A failed call is the caller's concern; the core treats errors as "no
// candidates from this source".
type PageRenderer interface {
	// Render captures the main document.
	Render(ctx context.Context) (Rendering, error)
	// Frames captures every embedded sub-document.
	Frames(ctx context.Context) ([]Rendering, error)
	// Screenshot expands the viewport to the full content size, captures,
	// and restores the original viewport before returning.
	Screenshot(ctx context.Context) ([]byte, error)
	// Refresh reloads the page.
	Refresh(ctx context.Context) error
}

// TextRecognizer turns a screenshot into a plain-text transcript. It is a
// black box; availability is a process-lifetime condition checked up front.
type TextRecognizer interface {
	Available() bool
	Recognize(ctx context.Context, image []byte) (string, error)
}

// StatsExtractor runs one observation cycle. A (nil, nil) return means the
// cycle produced no validated reading; reasons are available only in logs.
type StatsExtractor interface {
	Extract(ctx context.Context) (*domain.Reading, error)
}

// Notifier delivers alerts and status updates to the configured channel.
type Notifier interface {
	EntryAlert(ctx context.Context, playerPercent, bankerPercent float64) error
	StatusUpdate(ctx context.Context, reading *domain.Reading) error
	Plain(ctx context.Context, text string) error
	Startup(ctx context.Context) error
	Shutdown(ctx context.Context) error
	// SetCredentials replaces the delivery credentials at runtime (used by
	// the control page's start form).
	SetCredentials(botToken, chatID string)
}

// ResultRecorder tallies manually confirmed round outcomes for the
// scoreboard messages.
type ResultRecorder interface {
	RecordResult(ctx context.Context, win bool, winningColor string) error
}

// Scheduler drives recurring monitor cycles. Implementations must run the
// job synchronously per tick so cycles never overlap.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}

// NotifierOverride carries optional runtime credential overrides.
type NotifierOverride struct {
	BotToken string
	ChatID   string
}

// MonitorControl lets the control page drive the monitor lifecycle.
type MonitorControl interface {
	Start(ctx context.Context, override NotifierOverride) error
	Stop(ctx context.Context) error
	Running() bool
	LastReading() *domain.Reading
}
