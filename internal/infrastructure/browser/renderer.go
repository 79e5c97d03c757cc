package browser

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"

	"BacBoScanner/internal/ports"
)

// Config describes the observed page and the browser session.
type Config struct {
	URL            string
	Headless       bool
	NavTimeout     time.Duration
	ViewportWidth  int
	ViewportHeight int
	Language       string
}

// Renderer drives a single Chromium page through the DevTools protocol and
// exposes it as the extraction core's page-rendering capability. One
// renderer owns one browser session; calls are not safe for concurrent use,
// matching the one-cycle-at-a-time contract of the monitor.
type Renderer struct {
	cfg     Config
	logger  *slog.Logger
	launch  *launcher.Launcher
	browser *rod.Browser
	page    *rod.Page
}

var _ ports.PageRenderer = (*Renderer)(nil)

// New builds an unstarted renderer.
func New(cfg Config, logger *slog.Logger) *Renderer {
	if cfg.NavTimeout <= 0 {
		cfg.NavTimeout = 30 * time.Second
	}
	if cfg.ViewportWidth <= 0 {
		cfg.ViewportWidth = 1366
	}
	if cfg.ViewportHeight <= 0 {
		cfg.ViewportHeight = 900
	}
	return &Renderer{cfg: cfg, logger: logger}
}

// Start launches the browser, opens the target page and waits until the
// page shows at least one percentage.
func (r *Renderer) Start(ctx context.Context) error {
	launch := launcher.New().
		Headless(r.cfg.Headless).
		Set(flags.NoSandbox)

	controlURL, err := launch.Launch()
	if err != nil {
		return fmt.Errorf("launch browser: %w", err)
	}
	r.launch = launch

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("connect browser: %w", err)
	}
	r.browser = browser

	page, err := browser.Page(proto.TargetCreateTarget{URL: r.cfg.URL})
	if err != nil {
		return fmt.Errorf("open page %s: %w", r.cfg.URL, err)
	}
	r.page = page

	if err := page.SetViewport(r.viewport(r.cfg.ViewportWidth, r.cfg.ViewportHeight)); err != nil {
		r.logger.Warn("set viewport failed", "error", err)
	}
	if err := page.Context(ctx).Timeout(r.cfg.NavTimeout).WaitLoad(); err != nil {
		r.logger.Warn("page load wait ended early", "error", err)
	}

	r.waitForPercent(ctx)
	r.switchLanguage(ctx)
	return nil
}

// Close tears the browser session down.
func (r *Renderer) Close() {
	if r.browser != nil {
		_ = r.browser.Close()
	}
	if r.launch != nil {
		r.launch.Cleanup()
	}
	r.page = nil
	r.browser = nil
}

// Render captures the main document's text, per-element texts and markup.
func (r *Renderer) Render(ctx context.Context) (ports.Rendering, error) {
	if r.page == nil {
		return ports.Rendering{}, fmt.Errorf("browser session not started")
	}
	rendering := r.capture(ctx, r.page)
	rendering.Context = "main"
	return rendering, nil
}

// Frames captures every iframe as its own rendering. Frames that refuse
// inspection (cross-origin lockouts, mid-navigation teardowns) are skipped.
func (r *Renderer) Frames(ctx context.Context) ([]ports.Rendering, error) {
	if r.page == nil {
		return nil, fmt.Errorf("browser session not started")
	}
	elements, err := r.page.Context(ctx).Timeout(r.cfg.NavTimeout).Elements("iframe")
	if err != nil {
		return nil, fmt.Errorf("enumerate iframes: %w", err)
	}

	var renderings []ports.Rendering
	for i, el := range elements {
		frame, err := el.Frame()
		if err != nil {
			r.logger.Debug("iframe not inspectable", "index", i, "error", err)
			continue
		}
		rendering := r.capture(ctx, frame)
		rendering.Context = fmt.Sprintf("iframe-%d", i+1)
		renderings = append(renderings, rendering)
	}
	return renderings, nil
}

// Screenshot grows the viewport to the page's full content size, captures,
// and restores the configured viewport no matter what failed in between.
func (r *Renderer) Screenshot(ctx context.Context) (_ []byte, err error) {
	if r.page == nil {
		return nil, fmt.Errorf("browser session not started")
	}
	page := r.page.Context(ctx).Timeout(r.cfg.NavTimeout)

	width, height := r.contentSize(page)
	if err := page.SetViewport(r.viewport(width, height)); err != nil {
		return nil, fmt.Errorf("expand viewport: %w", err)
	}
	defer func() {
		if restoreErr := page.SetViewport(r.viewport(r.cfg.ViewportWidth, r.cfg.ViewportHeight)); restoreErr != nil && err == nil {
			err = fmt.Errorf("restore viewport: %w", restoreErr)
		}
	}()

	data, err := page.Screenshot(false, nil)
	if err != nil {
		return nil, fmt.Errorf("capture screenshot: %w", err)
	}
	return data, nil
}

// Refresh reloads the page and re-applies the language choice.
func (r *Renderer) Refresh(ctx context.Context) error {
	if r.page == nil {
		return fmt.Errorf("browser session not started")
	}
	page := r.page.Context(ctx).Timeout(r.cfg.NavTimeout)
	if err := page.Reload(); err != nil {
		return fmt.Errorf("reload page: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		r.logger.Warn("page load wait ended early", "error", err)
	}
	r.switchLanguage(ctx)
	return nil
}

func (r *Renderer) capture(ctx context.Context, page *rod.Page) ports.Rendering {
	page = page.Context(ctx).Timeout(r.cfg.NavTimeout)
	var rendering ports.Rendering

	if res, err := page.Eval(`() => document.body ? document.body.innerText : ''`); err == nil {
		rendering.Text = res.Value.Str()
	} else {
		r.logger.Debug("text capture failed", "error", err)
	}

	if res, err := page.Eval(elementTextsJS); err == nil {
		for _, item := range res.Value.Arr() {
			rendering.Elements = append(rendering.Elements, item.Str())
		}
	} else {
		r.logger.Debug("element capture failed", "error", err)
	}

	if markup, err := page.HTML(); err == nil {
		rendering.Markup = markup
	} else {
		r.logger.Debug("markup capture failed", "error", err)
	}
	return rendering
}

// elementTextsJS mirrors the structured collector's noise bound: element
// texts longer than 500 chars are containers, not readings.
const elementTextsJS = `() => {
	const texts = [];
	for (const el of document.querySelectorAll('*')) {
		const text = (el.innerText || el.textContent || '').trim();
		if (text && text.length < 500) {
			texts.push(text);
		}
	}
	return texts;
}`

func (r *Renderer) contentSize(page *rod.Page) (int, int) {
	width, height := r.cfg.ViewportWidth, r.cfg.ViewportHeight
	if res, err := page.Eval(`() => Math.max(document.body.scrollWidth, document.documentElement.scrollWidth, document.documentElement.clientWidth)`); err == nil {
		if v := res.Value.Int(); v > 0 {
			width = v
		}
	}
	if res, err := page.Eval(`() => Math.max(document.body.scrollHeight, document.documentElement.scrollHeight, document.documentElement.clientHeight)`); err == nil {
		if v := res.Value.Int(); v > 0 {
			height = v
		}
	}
	return width, height
}

func (r *Renderer) viewport(width, height int) *proto.EmulationSetDeviceMetricsOverride {
	return &proto.EmulationSetDeviceMetricsOverride{
		Width:             width,
		Height:            height,
		DeviceScaleFactor: 1,
		Mobile:            false,
	}
}

// waitForPercent polls until the body text contains a percent sign, bounded
// by the navigation timeout. The game widgets populate well after load.
func (r *Renderer) waitForPercent(ctx context.Context) {
	deadline := time.Now().Add(r.cfg.NavTimeout)
	for time.Now().Before(deadline) {
		if ctx.Err() != nil {
			return
		}
		res, err := r.page.Context(ctx).Eval(`() => document.body ? document.body.innerText.includes('%') : false`)
		if err == nil && res.Value.Bool() {
			return
		}
		time.Sleep(500 * time.Millisecond)
	}
	r.logger.Warn("page never showed a percentage", "timeout", r.cfg.NavTimeout)
}

// switchLanguage clicks the page's language switcher on a best-effort
// basis. The extraction keywords cover both locales, so failing here only
// affects notification phrasing on the page itself.
func (r *Renderer) switchLanguage(ctx context.Context) {
	if r.cfg.Language == "" {
		return
	}
	selectors := []string{
		"button.language",
		"div.language button",
		"button[aria-label='Language']",
		"select#language",
	}
	for _, selector := range selectors {
		el, err := r.page.Context(ctx).Timeout(2 * time.Second).Element(selector)
		if err != nil {
			continue
		}
		if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
			continue
		}
		r.logger.Debug("language switcher clicked", "selector", selector)
		return
	}
	r.logger.Debug("language switcher not found, keeping page default")
}
