package webui

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"BacBoScanner/internal/ports"
)

// Server is the minimal control page: start/stop the monitor, inspect the
// last reading, record round outcomes for the scoreboard. The monitor
// handle is owned here and passed in explicitly; there is no package-level
// shared state.
type Server struct {
	addr     string
	control  ports.MonitorControl
	recorder ports.ResultRecorder
	logger   *slog.Logger
	server   *http.Server
}

// New builds the control server. recorder may be nil; the result endpoint
// then responds 404.
func New(addr string, control ports.MonitorControl, recorder ports.ResultRecorder, logger *slog.Logger) *Server {
	return &Server{addr: addr, control: control, recorder: recorder, logger: logger}
}

// Run serves until the context is canceled.
func (s *Server) Run(ctx context.Context) error {
	s.server = &http.Server{Addr: s.addr, Handler: s.Handler()}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.ListenAndServe()
	}()
	s.logger.Info("control page listening", "addr", s.addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return fmt.Errorf("control server: %w", err)
	}
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", s.handleIndex)
	mux.HandleFunc("POST /start", s.handleStart)
	mux.HandleFunc("POST /stop", s.handleStop)
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.HandleFunc("POST /result", s.handleResult)
	return mux
}

var indexTemplate = template.Must(template.New("index").Parse(`<!doctype html>
<html>
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>Bac Bo Scanner</title>
  <style>
    body { font-family: system-ui, Arial, sans-serif; margin: 24px; background:#0b0f17; color:#e6edf3; }
    .card { background:#121826; border:1px solid #1f2a44; border-radius:12px; padding:20px; max-width:720px; }
    label { display:block; margin:12px 0 6px; font-weight:600; }
    input { width:100%; padding:8px; border-radius:6px; border:1px solid #1f2a44; background:#0b0f17; color:#e6edf3; }
    button { margin-top:16px; margin-right:8px; padding:8px 20px; border-radius:6px; border:0; cursor:pointer; }
    .start { background:#2da44e; color:#fff; }
    .stop { background:#cf222e; color:#fff; }
    .status { margin-top:16px; color:#9aa7b8; }
  </style>
</head>
<body>
  <div class="card">
    <h2>Bac Bo Scanner</h2>
    <p class="status">Running: {{.Running}}</p>
    <form method="post" action="/start">
      <label for="token">Bot token (optional override)</label>
      <input id="token" name="token" type="password" autocomplete="off" />
      <label for="chat_id">Chat ID (optional override)</label>
      <input id="chat_id" name="chat_id" type="text" />
      <button class="start" type="submit">Start</button>
    </form>
    <form method="post" action="/stop">
      <button class="stop" type="submit">Stop</button>
    </form>
  </div>
</body>
</html>
`))

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := struct{ Running bool }{Running: s.control.Running()}
	if err := indexTemplate.Execute(w, data); err != nil {
		s.logger.Warn("render index failed", "error", err)
	}
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	override := ports.NotifierOverride{
		BotToken: r.FormValue("token"),
		ChatID:   r.FormValue("chat_id"),
	}
	if err := s.control.Start(r.Context(), override); err != nil {
		s.writeJSON(w, http.StatusConflict, map[string]any{"ok": false, "error": err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"ok": true, "running": true})
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	if err := s.control.Stop(r.Context()); err != nil {
		s.writeJSON(w, http.StatusInternalServerError, map[string]any{"ok": false, "error": err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"ok": true, "running": false})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	payload := map[string]any{
		"running": s.control.Running(),
	}
	if reading := s.control.LastReading(); reading != nil {
		payload["reading"] = map[string]any{
			"player_percent": reading.PlayerPercent,
			"banker_percent": reading.BankerPercent,
			"tie_percent":    reading.TiePercent,
			"player_winning": reading.PlayerWinning,
			"derived":        reading.Derived,
			"timestamp":      reading.Timestamp.UTC().Format(time.RFC3339),
		}
	}
	s.writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	if s.recorder == nil {
		http.NotFound(w, r)
		return
	}
	var body struct {
		Win   bool   `json:"win"`
		Color string `json:"color"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "invalid payload"})
		return
	}
	if err := s.recorder.RecordResult(r.Context(), body.Win, body.Color); err != nil {
		s.writeJSON(w, http.StatusBadGateway, map[string]any{"ok": false, "error": err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Warn("write response failed", "error", err)
	}
}
